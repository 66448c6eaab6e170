package cash

import (
	"math/big"

	custody "github.com/iov-one/custody"
	"github.com/iov-one/custody/coin"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/orm"
)

// Controller moves tokens between wallets. It is the safe-transfer
// collaborator used by the rest of the engine whenever funds change
// hands.
type Controller struct {
	bucket orm.ModelBucket
}

// NewController returns a controller over the wallet bucket.
func NewController() Controller {
	return Controller{bucket: NewWalletBucket()}
}

// Balance returns the amount of the given ticker held by the
// address, the actual custodied amount rather than any tracked
// figure.
func (c Controller) Balance(db custody.ReadOnlyKVStore, addr custody.Address, ticker string) (coin.Coin, error) {
	wallet, err := loadWallet(db, c.bucket, addr)
	if err != nil {
		return coin.Coin{}, err
	}
	return wallet.Amount(ticker), nil
}

// Move transfers the amount from src to dest. Tokens configured with
// a transfer tax burn a part of the amount in flight; the returned
// coin is what dest actually received. Callers must account with the
// returned value, not with the requested amount.
func (c Controller) Move(db custody.KVStore, src, dest custody.Address, amount coin.Coin) (coin.Coin, error) {
	received := amount
	if bps, err := c.taxBps(db, amount.Ticker); err != nil {
		return coin.Coin{}, err
	} else if bps > 0 {
		tax := mulBps(amount.Amount, bps)
		received.Amount = amount.Amount - tax
	}

	if err := c.move(db, src, dest, amount, received); err != nil {
		return coin.Coin{}, err
	}
	return received, nil
}

// MoveExact transfers the amount from src to dest and fails with
// ErrTransfer if dest would receive anything less than the full
// amount.
func (c Controller) MoveExact(db custody.KVStore, src, dest custody.Address, amount coin.Coin) error {
	bps, err := c.taxBps(db, amount.Ticker)
	if err != nil {
		return err
	}
	if bps > 0 {
		return errors.Wrapf(ErrTransfer, "%s transfers are taxed %d bps", amount.Ticker, bps)
	}
	return c.move(db, src, dest, amount, amount)
}

// move debits src by amount and credits dest with received. The
// difference is the transfer tax, burned.
func (c Controller) move(db custody.KVStore, src, dest custody.Address, amount, received coin.Coin) error {
	if !amount.IsPositive() {
		return errors.Wrapf(errors.ErrAmount, "non-positive transfer %s", amount)
	}
	if !received.IsPositive() {
		return errors.Wrapf(ErrTransfer, "nothing received of %s", amount)
	}

	sender, err := loadWallet(db, c.bucket, src)
	if err != nil {
		return err
	}
	if !sender.Contains(amount) {
		return errors.Wrapf(ErrTransfer, "%s holds %s, cannot send %s", src, sender.Amount(amount.Ticker), amount)
	}
	sender, err = sender.Subtract(amount)
	if err != nil {
		return err
	}
	if err := saveWallet(db, c.bucket, src, sender); err != nil {
		return err
	}

	recipient, err := loadWallet(db, c.bucket, dest)
	if err != nil {
		return err
	}
	recipient, err = recipient.Add(received)
	if err != nil {
		return err
	}
	return saveWallet(db, c.bucket, dest, recipient)
}

// Issue adds the given amount of coins to the destination address.
// This is a genesis and test helper, there is no counter account.
func (c Controller) Issue(db custody.KVStore, dest custody.Address, amount coin.Coin) error {
	wallet, err := loadWallet(db, c.bucket, dest)
	if err != nil {
		return err
	}
	wallet, err = wallet.Add(amount)
	if err != nil {
		return err
	}
	return saveWallet(db, c.bucket, dest, wallet)
}

func (c Controller) taxBps(db custody.ReadOnlyKVStore, ticker string) (uint32, error) {
	conf, err := loadConf(db)
	switch {
	case err == nil:
		return conf.TaxBpsFor(ticker), nil
	case errors.ErrNotFound.Is(err):
		// no configuration stored means no taxed tokens
		return 0, nil
	default:
		return 0, err
	}
}

// mulBps returns floor(amount * bps / 10000). The product of a
// maximum amount and 10000 bps does not fit int64, so go through
// big.Int.
func mulBps(amount int64, bps uint32) int64 {
	res := new(big.Int).Mul(big.NewInt(amount), big.NewInt(int64(bps)))
	res.Quo(res, big.NewInt(maxTaxBps))
	return res.Int64()
}
