package coin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iov-one/custody/errors"
)

func TestCoinValidate(t *testing.T) {
	cases := map[string]struct {
		coin    Coin
		wantErr *errors.Error
	}{
		"valid":           {coin: NewCoin(100, "IOV")},
		"valid native":    {coin: NewCoin(5, NativeTicker)},
		"valid negative":  {coin: NewCoin(-42, "IOV")},
		"no ticker":       {coin: NewCoin(100, ""), wantErr: errors.ErrCurrency},
		"lowercase":       {coin: NewCoin(100, "iov"), wantErr: errors.ErrCurrency},
		"too long ticker": {coin: NewCoin(100, "TOOLONG"), wantErr: errors.ErrCurrency},
		"out of range":    {coin: NewCoin(MaxAmount+1, "IOV"), wantErr: errors.ErrOverflow},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			err := tc.coin.Validate()
			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.True(t, tc.wantErr.Is(err))
			}
		})
	}
}

func TestCoinAdd(t *testing.T) {
	sum, err := NewCoin(3, "IOV").Add(NewCoin(4, "IOV"))
	require.NoError(t, err)
	assert.Equal(t, NewCoin(7, "IOV"), sum)

	// zero coin without a ticker adapts to anything
	sum, err = Coin{}.Add(NewCoin(9, "IOV"))
	require.NoError(t, err)
	assert.Equal(t, NewCoin(9, "IOV"), sum)

	_, err = NewCoin(1, "IOV").Add(NewCoin(1, "ETH"))
	assert.True(t, errors.ErrCurrency.Is(err))

	_, err = NewCoin(MaxAmount, "IOV").Add(NewCoin(1, "IOV"))
	assert.True(t, errors.ErrOverflow.Is(err))
}

func TestCoinSubtract(t *testing.T) {
	diff, err := NewCoin(10, "IOV").Subtract(NewCoin(4, "IOV"))
	require.NoError(t, err)
	assert.Equal(t, NewCoin(6, "IOV"), diff)

	diff, err = NewCoin(4, "IOV").Subtract(NewCoin(10, "IOV"))
	require.NoError(t, err)
	assert.Equal(t, NewCoin(-6, "IOV"), diff)
	assert.False(t, diff.IsNonNegative())
}

func TestCoinCompare(t *testing.T) {
	assert.Equal(t, 1, NewCoin(2, "IOV").Compare(NewCoin(1, "IOV")))
	assert.Equal(t, -1, NewCoin(1, "IOV").Compare(NewCoin(2, "IOV")))
	assert.Equal(t, 0, NewCoin(2, "IOV").Compare(NewCoin(2, "IOV")))

	assert.True(t, NewCoin(2, "IOV").IsGTE(NewCoin(2, "IOV")))
	assert.True(t, NewCoin(3, "IOV").IsGTE(NewCoin(2, "IOV")))
	assert.False(t, NewCoin(1, "IOV").IsGTE(NewCoin(2, "IOV")))
	// different currencies never compare
	assert.False(t, NewCoin(3, "IOV").IsGTE(NewCoin(2, "ETH")))
}

func TestCoinsAddSubtract(t *testing.T) {
	var cs Coins

	cs, err := cs.Add(NewCoin(100, "IOV"))
	require.NoError(t, err)
	cs, err = cs.Add(NewCoin(50, "ETH"))
	require.NoError(t, err)
	require.NoError(t, cs.Validate())

	// sorted by ticker
	assert.Equal(t, "ETH", cs[0].Ticker)
	assert.Equal(t, "IOV", cs[1].Ticker)

	assert.True(t, cs.Contains(NewCoin(100, "IOV")))
	assert.False(t, cs.Contains(NewCoin(101, "IOV")))

	cs, err = cs.Subtract(NewCoin(50, "ETH"))
	require.NoError(t, err)
	assert.Len(t, cs, 1)
	assert.True(t, cs.Amount("ETH").IsZero())

	_, err = cs.Subtract(NewCoin(101, "IOV"))
	assert.True(t, errors.ErrAmount.Is(err))
}

func TestCoinSerialization(t *testing.T) {
	c := NewCoin(123456, "IOV")
	raw, err := c.Marshal()
	require.NoError(t, err)

	var got Coin
	require.NoError(t, got.Unmarshal(raw))
	assert.True(t, c.Equals(got))
}
