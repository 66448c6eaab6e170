package coin

import (
	"sort"
	"strings"

	"github.com/iov-one/custody/errors"
)

// Coins is a set of coins, one per ticker, sorted by ticker for a
// deterministic serialization. Use the methods to modify the set, so
// it stays normalized.
type Coins []*Coin

// CombineCoins creates a Coins set out of the given coins, merging
// duplicate tickers.
func CombineCoins(cs ...Coin) (Coins, error) {
	var res Coins
	for _, c := range cs {
		next, err := res.Add(c)
		if err != nil {
			return nil, err
		}
		res = next
	}
	return res, nil
}

// Clone returns a deep copy of the set.
func (cs Coins) Clone() Coins {
	res := make(Coins, len(cs))
	for i, c := range cs {
		res[i] = c.Clone()
	}
	return res
}

// Amount returns the amount stored for the given ticker, zero if the
// ticker is not in the set.
func (cs Coins) Amount(ticker string) Coin {
	for _, c := range cs {
		if c.Ticker == ticker {
			return *c
		}
	}
	return Coin{Ticker: ticker}
}

// Contains returns true if there is at least that much coin in the
// set.
func (cs Coins) Contains(c Coin) bool {
	return cs.Amount(c.Ticker).IsGTE(c)
}

// Add modifies the set to contain the combined value and returns it.
// Zero results are removed, so the set only carries tickers with a
// non-zero amount. A negative result is an error.
func (cs Coins) Add(c Coin) (Coins, error) {
	if c.IsZero() {
		return cs, nil
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	for i, have := range cs {
		if have.Ticker != c.Ticker {
			continue
		}
		sum, err := have.Add(c)
		if err != nil {
			return nil, err
		}
		switch {
		case sum.IsZero():
			return append(cs[:i], cs[i+1:]...), nil
		case !sum.IsNonNegative():
			return nil, errors.Wrapf(errors.ErrAmount, "negative balance %s", sum)
		default:
			cs[i] = &sum
			return cs, nil
		}
	}

	if !c.IsPositive() {
		return nil, errors.Wrapf(errors.ErrAmount, "negative balance %s", c)
	}
	res := append(cs, &c)
	sort.Slice(res, func(i, j int) bool {
		return res[i].Ticker < res[j].Ticker
	})
	return res, nil
}

// Subtract modifies the set to remove the given value and returns it.
// Removing more than is stored is an error.
func (cs Coins) Subtract(c Coin) (Coins, error) {
	return cs.Add(c.Negative())
}

// Validate requires a sorted set of valid coins with unique tickers
// and positive amounts.
func (cs Coins) Validate() error {
	last := ""
	for _, c := range cs {
		if c == nil {
			return errors.Wrap(errors.ErrEmpty, "nil coin")
		}
		if err := c.Validate(); err != nil {
			return err
		}
		if !c.IsPositive() {
			return errors.Wrapf(errors.ErrAmount, "non-positive %s", c)
		}
		if c.Ticker <= last {
			return errors.Wrap(errors.ErrState, "not sorted by ticker")
		}
		last = c.Ticker
	}
	return nil
}

func (cs Coins) String() string {
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = c.String()
	}
	return strings.Join(parts, ", ")
}
