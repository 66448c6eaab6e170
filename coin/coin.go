package coin

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/iov-one/custody/errors"
)

// IsCC is the RegExp to ensure valid currency codes
var IsCC = regexp.MustCompile(`^[A-Z]{3,4}$`).MatchString

const (
	// MaxAmount is the largest amount we accept
	MaxAmount int64 = 999999999999999 // 10^15-1
	// MinAmount is the lowest amount we accept
	MinAmount = -MaxAmount

	// NativeTicker is the reserved code of the chain native currency.
	// It marks value attached directly to a call, as opposed to a
	// token pulled from an account.
	NativeTicker = "NAT"
)

// NewCoin creates a new coin object
func NewCoin(amount int64, ticker string) Coin {
	return Coin{
		Amount: amount,
		Ticker: ticker,
	}
}

// NewCoinp returns a pointer to a new coin.
func NewCoinp(amount int64, ticker string) *Coin {
	c := NewCoin(amount, ticker)
	return &c
}

// IsNative returns true for coins of the reserved native currency.
func (c Coin) IsNative() bool {
	return c.Ticker == NativeTicker
}

// Add combines two coins.
// Returns error if they are of different currencies, or if the
// combination would cause an overflow
func (c Coin) Add(o Coin) (Coin, error) {
	// If any of the coins represents no value and does not have a
	// ticker set then it has no influence on the addition result.
	if c.Ticker == "" && c.IsZero() {
		return o, nil
	}
	if o.Ticker == "" && o.IsZero() {
		return c, nil
	}

	if !c.SameType(o) {
		return Coin{}, errors.Wrapf(errors.ErrCurrency, "adding %s to %s", o.Ticker, c.Ticker)
	}

	sum := c.Amount + o.Amount
	if (o.Amount > 0 && sum < c.Amount) || (o.Amount < 0 && sum > c.Amount) {
		return Coin{}, errors.ErrOverflow
	}
	if sum < MinAmount || sum > MaxAmount {
		return Coin{}, errors.ErrOverflow
	}
	c.Amount = sum
	return c, nil
}

// Negative returns the opposite coins value
//
//	c.Add(c.Negative()).IsZero() == true
func (c Coin) Negative() Coin {
	return Coin{
		Ticker: c.Ticker,
		Amount: -1 * c.Amount,
	}
}

// Subtract given amount.
func (c Coin) Subtract(amount Coin) (Coin, error) {
	return c.Add(amount.Negative())
}

// Compare will check values of two coins, without inspecting the
// currency code. It is up to the caller to determine if they want to
// check this.
//
// Returns 1 if c is larger, -1 if o is larger, 0 if equal
func (c Coin) Compare(o Coin) int {
	switch {
	case c.Amount > o.Amount:
		return 1
	case c.Amount < o.Amount:
		return -1
	default:
		return 0
	}
}

// Equals returns true if all fields are identical
func (c Coin) Equals(o Coin) bool {
	return c.Ticker == o.Ticker && c.Amount == o.Amount
}

// IsEmpty returns true on null or zero amount
func IsEmpty(c *Coin) bool {
	return c == nil || c.IsZero()
}

// IsZero returns true if the amount is 0
func (c Coin) IsZero() bool {
	return c.Amount == 0
}

// IsPositive returns true if the value is greater than 0
func (c Coin) IsPositive() bool {
	return c.Amount > 0
}

// IsNonNegative returns true if the value is 0 or higher
func (c Coin) IsNonNegative() bool {
	return c.Amount >= 0
}

// IsGTE returns true if c is same type and at least as large as o.
func (c Coin) IsGTE(o Coin) bool {
	return c.SameType(o) && c.Amount >= o.Amount
}

// SameType returns true if they have the same currency
func (c Coin) SameType(o Coin) bool {
	return c.Ticker == o.Ticker
}

// Clone provides an independent copy of a coin pointer
func (c *Coin) Clone() *Coin {
	if c == nil {
		return nil
	}
	return &Coin{
		Ticker: c.Ticker,
		Amount: c.Amount,
	}
}

// Validate ensures that the coin has a valid currency code and is in
// the valid range. It accepts negative values, so you may want to
// make other checks in your business logic
func (c Coin) Validate() error {
	if !IsCC(c.Ticker) {
		return errors.Wrapf(errors.ErrCurrency, "invalid currency: %s", c.Ticker)
	}
	if c.Amount < MinAmount || c.Amount > MaxAmount {
		return errors.ErrOverflow
	}
	return nil
}

// String provides a human readable representation of the coin, mostly
// for testing and debugging.
func (c Coin) String() string {
	if c.Ticker == "" {
		return strconv.FormatInt(c.Amount, 10)
	}
	return fmt.Sprintf("%d %s", c.Amount, c.Ticker)
}
