package ledger

import (
	"encoding/binary"

	"github.com/iov-one/custody/coin"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/orm"
)

// BucketName is where we store the pools
const BucketName = "pool"

var _ orm.Model = (*Pool)(nil)

// Validate requires non-negative balances of the same ticker.
func (p *Pool) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Payment", validBalance(p.Payment))
	errs = errors.AppendField(errs, "Withdrawal", validBalance(p.Withdrawal))
	return errs
}

func validBalance(c *coin.Coin) error {
	if c == nil {
		return nil
	}
	if err := c.Validate(); err != nil {
		return err
	}
	if !c.IsNonNegative() {
		return errors.Wrap(errors.ErrAmount, "negative pool balance")
	}
	return nil
}

// PaymentBalance returns the tracked payment pool balance, zero when
// unset.
func (p *Pool) PaymentBalance(ticker string) coin.Coin {
	if p.Payment == nil {
		return coin.Coin{Ticker: ticker}
	}
	return *p.Payment
}

// WithdrawalBalance returns the tracked withdrawal pool balance,
// zero when unset.
func (p *Pool) WithdrawalBalance(ticker string) coin.Coin {
	if p.Withdrawal == nil {
		return coin.Coin{Ticker: ticker}
	}
	return *p.Withdrawal
}

// NewPoolBucket returns the bucket storing pools, keyed by project
// and ticker.
func NewPoolBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName)
}

// poolKey identifies the pool of one project in one ticker.
func poolKey(projectID uint64, ticker string) []byte {
	key := make([]byte, 8+len(ticker))
	binary.BigEndian.PutUint64(key, projectID)
	copy(key[8:], ticker)
	return key
}
