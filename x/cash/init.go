package cash

import (
	custody "github.com/iov-one/custody"
	"github.com/iov-one/custody/coin"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/gconf"
)

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ custody.Initializer = (*Initializer)(nil)

// FromGenesis will parse initial account info from genesis and save
// it to the database
func (Initializer) FromGenesis(opts custody.Options, db custody.KVStore) error {
	if err := gconf.InitConfig(db, opts, "cash", &Configuration{}); err != nil {
		return errors.Wrap(err, "init config")
	}

	accounts := []struct {
		Address custody.Address `json:"address"`
		Coins   []coin.Coin     `json:"coins"`
	}{}
	if err := opts.ReadOptions("cash", &accounts); err != nil {
		return err
	}

	ctrl := NewController()
	for i, acc := range accounts {
		if err := acc.Address.Validate(); err != nil {
			return errors.Wrapf(err, "account #%d", i)
		}
		for _, c := range acc.Coins {
			if err := ctrl.Issue(db, acc.Address, c); err != nil {
				return errors.Wrapf(err, "account #%d", i)
			}
		}
	}
	return nil
}
