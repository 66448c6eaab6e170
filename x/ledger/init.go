package ledger

import (
	custody "github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/gconf"
)

// Initializer fulfils the Initializer interface to load the custody
// configuration from the genesis file
type Initializer struct{}

var _ custody.Initializer = (*Initializer)(nil)

// FromGenesis will parse the configuration from genesis and save it
// to the database
func (Initializer) FromGenesis(opts custody.Options, db custody.KVStore) error {
	return errors.Wrap(gconf.InitConfig(db, opts, "ledger", &Configuration{}), "init config")
}
