package cash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	custody "github.com/iov-one/custody"
	"github.com/iov-one/custody/coin"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/gconf"
	"github.com/iov-one/custody/store"
)

var (
	alice = custody.NewCondition("test", "cond", []byte("alice")).Address()
	bob   = custody.NewCondition("test", "cond", []byte("bob")).Address()
)

func TestMove(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController()

	require.NoError(t, ctrl.Issue(db, alice, coin.NewCoin(100, "IOV")))

	received, err := ctrl.Move(db, alice, bob, coin.NewCoin(40, "IOV"))
	require.NoError(t, err)
	assert.Equal(t, coin.NewCoin(40, "IOV"), received)

	got, err := ctrl.Balance(db, alice, "IOV")
	require.NoError(t, err)
	assert.Equal(t, int64(60), got.Amount)
	got, err = ctrl.Balance(db, bob, "IOV")
	require.NoError(t, err)
	assert.Equal(t, int64(40), got.Amount)
}

func TestMoveInsufficientFunds(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController()

	require.NoError(t, ctrl.Issue(db, alice, coin.NewCoin(10, "IOV")))

	_, err := ctrl.Move(db, alice, bob, coin.NewCoin(11, "IOV"))
	assert.True(t, ErrTransfer.Is(err))

	// no partial effect
	got, err := ctrl.Balance(db, alice, "IOV")
	require.NoError(t, err)
	assert.Equal(t, int64(10), got.Amount)
}

func TestMoveNonPositive(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController()

	_, err := ctrl.Move(db, alice, bob, coin.NewCoin(0, "IOV"))
	assert.True(t, errors.ErrAmount.Is(err))
	_, err = ctrl.Move(db, alice, bob, coin.NewCoin(-4, "IOV"))
	assert.True(t, errors.ErrAmount.Is(err))
}

func TestMoveTaxedToken(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController()

	conf := Configuration{
		Owner: alice,
		Taxes: []*TokenTax{{Ticker: "TAX", TaxBps: 500}}, // 5%
	}
	require.NoError(t, gconf.Save(db, "cash", &conf))

	require.NoError(t, ctrl.Issue(db, alice, coin.NewCoin(1000, "TAX")))

	received, err := ctrl.Move(db, alice, bob, coin.NewCoin(100, "TAX"))
	require.NoError(t, err)
	assert.Equal(t, int64(95), received.Amount)

	// sender paid the full amount, the tax was burned
	got, err := ctrl.Balance(db, alice, "TAX")
	require.NoError(t, err)
	assert.Equal(t, int64(900), got.Amount)
	got, err = ctrl.Balance(db, bob, "TAX")
	require.NoError(t, err)
	assert.Equal(t, int64(95), got.Amount)
}

func TestMoveExact(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController()

	conf := Configuration{
		Owner: alice,
		Taxes: []*TokenTax{{Ticker: "TAX", TaxBps: 500}},
	}
	require.NoError(t, gconf.Save(db, "cash", &conf))

	require.NoError(t, ctrl.Issue(db, alice, coin.NewCoin(100, "IOV")))
	require.NoError(t, ctrl.Issue(db, alice, coin.NewCoin(100, "TAX")))

	// conforming token moves in full
	require.NoError(t, ctrl.MoveExact(db, alice, bob, coin.NewCoin(30, "IOV")))
	got, err := ctrl.Balance(db, bob, "IOV")
	require.NoError(t, err)
	assert.Equal(t, int64(30), got.Amount)

	// a taxed token can never move exactly
	err = ctrl.MoveExact(db, alice, bob, coin.NewCoin(30, "TAX"))
	assert.True(t, ErrTransfer.Is(err))
}

func TestMoveTaxSwallowsAll(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController()

	conf := Configuration{
		Owner: alice,
		Taxes: []*TokenTax{{Ticker: "TAX", TaxBps: 10000}},
	}
	require.NoError(t, gconf.Save(db, "cash", &conf))
	require.NoError(t, ctrl.Issue(db, alice, coin.NewCoin(100, "TAX")))

	_, err := ctrl.Move(db, alice, bob, coin.NewCoin(10, "TAX"))
	assert.True(t, ErrTransfer.Is(err))
}
