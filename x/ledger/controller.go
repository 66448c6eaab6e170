package ledger

import (
	"math/big"

	custody "github.com/iov-one/custody"
	"github.com/iov-one/custody/coin"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/orm"
	"github.com/iov-one/custody/x/cash"
)

// Controller is the pool ledger. It owns the tracked pool balances
// and moves the backing funds through the cash substrate.
type Controller struct {
	pools orm.ModelBucket
	cash  cash.Controller
}

// NewController returns a pool ledger over the given cash substrate.
func NewController(cashCtrl cash.Controller) Controller {
	return Controller{
		pools: NewPoolBucket(),
		cash:  cashCtrl,
	}
}

// Cash returns the cash substrate this ledger moves funds through.
func (c Controller) Cash() cash.Controller {
	return c.cash
}

// Pool returns the tracked pool of the project in the given ticker.
// A pool that was never written reads as zero balances.
func (c Controller) Pool(db custody.ReadOnlyKVStore, projectID uint64, ticker string) (*Pool, error) {
	var pool Pool
	switch err := c.pools.One(db, poolKey(projectID, ticker), &pool); {
	case err == nil:
		return &pool, nil
	case errors.ErrNotFound.Is(err):
		return &Pool{
			Payment:    coin.NewCoinp(0, ticker),
			Withdrawal: coin.NewCoinp(0, ticker),
		}, nil
	default:
		return nil, err
	}
}

// CreditPayment pulls the payment from the payer into the project
// wallet and credits the payment pool. The amount actually received
// is what gets split: the configured basis point fee goes to the fee
// vault, the net remainder raises the payment balance. Returns the
// net credit and the fee.
func (c Controller) CreditPayment(db custody.KVStore, projectID uint64, project, payer custody.Address, amount coin.Coin) (coin.Coin, coin.Coin, error) {
	conf, err := LoadConfiguration(db)
	if err != nil {
		return coin.Coin{}, coin.Coin{}, err
	}

	received, err := c.cash.Move(db, payer, project, amount)
	if err != nil {
		return coin.Coin{}, coin.Coin{}, errors.Wrap(err, "pull payment")
	}

	fee := coin.NewCoin(feeFor(received.Amount, conf.FeeRateBps), received.Ticker)
	if fee.IsPositive() {
		if _, err := c.cash.Move(db, project, conf.FeeVault, fee); err != nil {
			return coin.Coin{}, coin.Coin{}, errors.Wrap(err, "forward fee")
		}
	}

	net, err := received.Subtract(fee)
	if err != nil {
		return coin.Coin{}, coin.Coin{}, err
	}

	err = c.updatePool(db, projectID, received.Ticker, func(p *Pool) error {
		sum, err := p.PaymentBalance(received.Ticker).Add(net)
		if err != nil {
			return err
		}
		p.Payment = &sum
		return nil
	})
	if err != nil {
		return coin.Coin{}, coin.Coin{}, err
	}
	return net, fee, nil
}

// DebitWithdrawal pays the exact amount from the project wallet to
// the user and lowers the withdrawal balance. The tracked balance
// must cover the amount.
func (c Controller) DebitWithdrawal(db custody.KVStore, projectID uint64, project, user custody.Address, amount coin.Coin) error {
	err := c.updatePool(db, projectID, amount.Ticker, func(p *Pool) error {
		have := p.WithdrawalBalance(amount.Ticker)
		if !have.IsGTE(amount) {
			return errors.Wrapf(errors.ErrState, "withdrawal pool holds %s, cannot pay %s", have, amount)
		}
		diff, err := have.Subtract(amount)
		if err != nil {
			return err
		}
		p.Withdrawal = &diff
		return nil
	})
	if err != nil {
		return err
	}
	// the user must receive exactly the signed amount
	return errors.Wrap(c.cash.MoveExact(db, project, user, amount), "pay out")
}

// Deposit pulls funds from an admin into the project wallet and
// credits the withdrawal pool with what was actually received.
func (c Controller) Deposit(db custody.KVStore, projectID uint64, project, from custody.Address, amount coin.Coin) (coin.Coin, error) {
	received, err := c.cash.Move(db, from, project, amount)
	if err != nil {
		return coin.Coin{}, errors.Wrap(err, "pull deposit")
	}
	err = c.updatePool(db, projectID, received.Ticker, func(p *Pool) error {
		sum, err := p.WithdrawalBalance(received.Ticker).Add(received)
		if err != nil {
			return err
		}
		p.Withdrawal = &sum
		return nil
	})
	if err != nil {
		return coin.Coin{}, err
	}
	return received, nil
}

// AdminWithdraw moves funds from the payment balance to an admin
// chosen recipient. The tracked payment balance must cover the
// amount.
func (c Controller) AdminWithdraw(db custody.KVStore, projectID uint64, project, recipient custody.Address, amount coin.Coin) error {
	err := c.updatePool(db, projectID, amount.Ticker, func(p *Pool) error {
		have := p.PaymentBalance(amount.Ticker)
		if !have.IsGTE(amount) {
			return errors.Wrapf(errors.ErrState, "payment pool holds %s, cannot withdraw %s", have, amount)
		}
		diff, err := have.Subtract(amount)
		if err != nil {
			return err
		}
		p.Payment = &diff
		return nil
	})
	if err != nil {
		return err
	}
	_, err = c.cash.Move(db, project, recipient, amount)
	return errors.Wrap(err, "withdraw")
}

// WithdrawFromPool moves funds from the withdrawal balance to an
// admin chosen recipient. The tracked withdrawal balance must cover
// the amount.
func (c Controller) WithdrawFromPool(db custody.KVStore, projectID uint64, project, recipient custody.Address, amount coin.Coin) error {
	err := c.updatePool(db, projectID, amount.Ticker, func(p *Pool) error {
		have := p.WithdrawalBalance(amount.Ticker)
		if !have.IsGTE(amount) {
			return errors.Wrapf(errors.ErrState, "withdrawal pool holds %s, cannot withdraw %s", have, amount)
		}
		diff, err := have.Subtract(amount)
		if err != nil {
			return err
		}
		p.Withdrawal = &diff
		return nil
	})
	if err != nil {
		return err
	}
	_, err = c.cash.Move(db, project, recipient, amount)
	return errors.Wrap(err, "withdraw")
}

// EmergencyWithdraw sweeps the entire actual wallet balance of the
// ticker to the recipient, not the tracked figure, recovering funds
// that arrived outside normal accounting. Both tracked balances are
// zeroed. Returns the swept amount.
func (c Controller) EmergencyWithdraw(db custody.KVStore, projectID uint64, project, recipient custody.Address, ticker string) (coin.Coin, error) {
	actual, err := c.cash.Balance(db, project, ticker)
	if err != nil {
		return coin.Coin{}, err
	}
	if actual.IsPositive() {
		if _, err := c.cash.Move(db, project, recipient, actual); err != nil {
			return coin.Coin{}, errors.Wrap(err, "sweep")
		}
	}
	err = c.updatePool(db, projectID, ticker, func(p *Pool) error {
		p.Payment = coin.NewCoinp(0, ticker)
		p.Withdrawal = coin.NewCoinp(0, ticker)
		return nil
	})
	if err != nil {
		return coin.Coin{}, err
	}
	return actual, nil
}

func (c Controller) updatePool(db custody.KVStore, projectID uint64, ticker string, update func(*Pool) error) error {
	pool, err := c.Pool(db, projectID, ticker)
	if err != nil {
		return err
	}
	if err := update(pool); err != nil {
		return err
	}
	return c.pools.Put(db, poolKey(projectID, ticker), pool)
}

// feeFor returns floor(amount * bps / 10000). The product can exceed
// int64 for maximum amounts, so go through big.Int.
func feeFor(amount int64, bps uint32) int64 {
	fee := new(big.Int).Mul(big.NewInt(amount), big.NewInt(int64(bps)))
	fee.Quo(fee, big.NewInt(maxFeeBps))
	return fee.Int64()
}
