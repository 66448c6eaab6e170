package cash

import (
	"github.com/iov-one/custody/coin"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/gconf"
)

const maxTaxBps = 10000

// Validate ensures the configuration is sane.
func (c *Configuration) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Owner", c.Owner.Validate())
	for _, t := range c.Taxes {
		if !coin.IsCC(t.Ticker) {
			errs = errors.Append(errs, errors.Wrapf(errors.ErrCurrency, "tax ticker %q", t.Ticker))
		}
		if t.TaxBps > maxTaxBps {
			errs = errors.Append(errs, errors.Wrapf(errors.ErrInput, "tax %d bps over 100%%", t.TaxBps))
		}
	}
	return errs
}

// TaxBpsFor returns the transfer tax of the ticker in basis points,
// zero for conforming tokens.
func (c *Configuration) TaxBpsFor(ticker string) uint32 {
	for _, t := range c.Taxes {
		if t.Ticker == ticker {
			return t.TaxBps
		}
	}
	return 0
}

func loadConf(db gconf.ReadStore) (*Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, "cash", &conf); err != nil {
		return nil, errors.Wrap(err, "load configuration")
	}
	return &conf, nil
}
