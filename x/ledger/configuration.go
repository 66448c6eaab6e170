package ledger

import (
	"github.com/iov-one/custody/coin"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/gconf"
)

const maxFeeBps = 10000

// Validate ensures the configuration is complete and sane.
func (c *Configuration) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Owner", c.Owner.Validate())
	errs = errors.AppendField(errs, "FeeVault", c.FeeVault.Validate())
	if c.FeeRateBps > maxFeeBps {
		errs = errors.AppendField(errs, "FeeRateBps", errors.Wrap(errors.ErrInput, "over 100%"))
	}
	if c.WithdrawalFee != nil {
		if err := c.WithdrawalFee.Validate(); err != nil {
			errs = errors.AppendField(errs, "WithdrawalFee", err)
		} else if !c.WithdrawalFee.IsNonNegative() {
			errs = errors.AppendField(errs, "WithdrawalFee", errors.ErrAmount)
		} else if !c.WithdrawalFee.IsNative() {
			// the flat fee is always charged in the chain native currency
			errs = errors.AppendField(errs, "WithdrawalFee", errors.Wrapf(errors.ErrCurrency, "%q is not %q", c.WithdrawalFee.Ticker, coin.NativeTicker))
		}
	}
	return errs
}

// LoadConfiguration returns the current custody configuration. It is
// read from the store on every call so that an update is visible to
// the very next execution.
func LoadConfiguration(db gconf.ReadStore) (*Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, "ledger", &conf); err != nil {
		return nil, errors.Wrap(err, "load configuration")
	}
	return &conf, nil
}
