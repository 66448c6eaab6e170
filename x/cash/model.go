package cash

import (
	custody "github.com/iov-one/custody"
	"github.com/iov-one/custody/coin"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/orm"
)

// BucketName is where we store the wallets
const BucketName = "cash"

var _ orm.Model = (*Set)(nil)

// Validate requires that all coins are in valid, sorted order,
// with positive amounts.
func (s *Set) Validate() error {
	return coin.Coins(s.Coins).Validate()
}

// NewWalletBucket returns the bucket storing wallets, keyed by the
// owner address.
func NewWalletBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName)
}

// loadWallet returns the wallet of the address, an empty set if it
// was never stored.
func loadWallet(db custody.ReadOnlyKVStore, b orm.ModelBucket, addr custody.Address) (coin.Coins, error) {
	var set Set
	switch err := b.One(db, addr, &set); {
	case err == nil:
		return coin.Coins(set.Coins), nil
	case errors.ErrNotFound.Is(err):
		return nil, nil
	default:
		return nil, err
	}
}

// saveWallet persists the coin set of the address. An empty set
// deletes the wallet.
func saveWallet(db custody.KVStore, b orm.ModelBucket, addr custody.Address, cs coin.Coins) error {
	if len(cs) == 0 {
		switch err := b.Delete(db, addr); {
		case err == nil, errors.ErrNotFound.Is(err):
			return nil
		default:
			return err
		}
	}
	return b.Put(db, addr, &Set{Coins: cs})
}
