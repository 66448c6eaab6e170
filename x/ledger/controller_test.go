package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	custody "github.com/iov-one/custody"
	"github.com/iov-one/custody/coin"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/gconf"
	"github.com/iov-one/custody/store"
	"github.com/iov-one/custody/x/cash"
)

var (
	projectAddr = custody.NewCondition("project", "seq", []byte{0, 0, 0, 0, 0, 0, 0, 1}).Address()
	payer       = custody.NewCondition("test", "cond", []byte("payer")).Address()
	user        = custody.NewCondition("test", "cond", []byte("user")).Address()
	vault       = custody.NewCondition("test", "cond", []byte("vault")).Address()
	owner       = custody.NewCondition("test", "cond", []byte("owner")).Address()
)

func newTestController(t *testing.T, feeBps uint32) (custody.CacheableKVStore, Controller, cash.Controller) {
	t.Helper()
	db := store.MemStore()
	conf := Configuration{
		Owner:         owner,
		FeeVault:      vault,
		FeeRateBps:    feeBps,
		WithdrawalFee: coin.NewCoinp(10, coin.NativeTicker),
	}
	require.NoError(t, gconf.Save(db, "ledger", &conf))
	cashCtrl := cash.NewController()
	return db, NewController(cashCtrl), cashCtrl
}

func TestCreditPaymentFeeSplit(t *testing.T) {
	db, ctrl, cashCtrl := newTestController(t, 100) // 1%

	require.NoError(t, cashCtrl.Issue(db, payer, coin.NewCoin(1000, "IOV")))

	net, fee, err := ctrl.CreditPayment(db, 1, projectAddr, payer, coin.NewCoin(100, "IOV"))
	require.NoError(t, err)
	assert.Equal(t, int64(99), net.Amount)
	assert.Equal(t, int64(1), fee.Amount)

	pool, err := ctrl.Pool(db, 1, "IOV")
	require.NoError(t, err)
	assert.Equal(t, int64(99), pool.PaymentBalance("IOV").Amount)
	assert.Equal(t, int64(0), pool.WithdrawalBalance("IOV").Amount)

	got, err := cashCtrl.Balance(db, vault, "IOV")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Amount)
	got, err = cashCtrl.Balance(db, projectAddr, "IOV")
	require.NoError(t, err)
	assert.Equal(t, int64(99), got.Amount)
}

func TestCreditPaymentFeeRoundsDown(t *testing.T) {
	db, ctrl, cashCtrl := newTestController(t, 100) // 1%

	require.NoError(t, cashCtrl.Issue(db, payer, coin.NewCoin(1000, "IOV")))

	// 1% of 99 is 0.99, floored away
	net, fee, err := ctrl.CreditPayment(db, 1, projectAddr, payer, coin.NewCoin(99, "IOV"))
	require.NoError(t, err)
	assert.Equal(t, int64(99), net.Amount)
	assert.True(t, fee.IsZero())
}

func TestDepositAndDebitWithdrawal(t *testing.T) {
	db, ctrl, cashCtrl := newTestController(t, 0)

	require.NoError(t, cashCtrl.Issue(db, payer, coin.NewCoin(500, "IOV")))

	received, err := ctrl.Deposit(db, 1, projectAddr, payer, coin.NewCoin(200, "IOV"))
	require.NoError(t, err)
	assert.Equal(t, int64(200), received.Amount)

	require.NoError(t, ctrl.DebitWithdrawal(db, 1, projectAddr, user, coin.NewCoin(80, "IOV")))

	pool, err := ctrl.Pool(db, 1, "IOV")
	require.NoError(t, err)
	assert.Equal(t, int64(120), pool.WithdrawalBalance("IOV").Amount)

	got, err := cashCtrl.Balance(db, user, "IOV")
	require.NoError(t, err)
	assert.Equal(t, int64(80), got.Amount)
}

func TestDebitWithdrawalInsufficientPool(t *testing.T) {
	db, ctrl, cashCtrl := newTestController(t, 0)

	require.NoError(t, cashCtrl.Issue(db, payer, coin.NewCoin(500, "IOV")))
	_, err := ctrl.Deposit(db, 1, projectAddr, payer, coin.NewCoin(50, "IOV"))
	require.NoError(t, err)

	err = ctrl.DebitWithdrawal(db, 1, projectAddr, user, coin.NewCoin(51, "IOV"))
	assert.True(t, errors.ErrState.Is(err))

	// tracked balance unchanged
	pool, err := ctrl.Pool(db, 1, "IOV")
	require.NoError(t, err)
	assert.Equal(t, int64(50), pool.WithdrawalBalance("IOV").Amount)
}

func TestAdminWithdrawBoundedByTrackedBalance(t *testing.T) {
	db, ctrl, cashCtrl := newTestController(t, 0)

	require.NoError(t, cashCtrl.Issue(db, payer, coin.NewCoin(500, "IOV")))
	_, _, err := ctrl.CreditPayment(db, 1, projectAddr, payer, coin.NewCoin(100, "IOV"))
	require.NoError(t, err)

	// out of band funds do not raise the tracked balance
	require.NoError(t, cashCtrl.Issue(db, projectAddr, coin.NewCoin(1000, "IOV")))

	err = ctrl.AdminWithdraw(db, 1, projectAddr, user, coin.NewCoin(101, "IOV"))
	assert.True(t, errors.ErrState.Is(err))

	require.NoError(t, ctrl.AdminWithdraw(db, 1, projectAddr, user, coin.NewCoin(100, "IOV")))
	got, err := cashCtrl.Balance(db, user, "IOV")
	require.NoError(t, err)
	assert.Equal(t, int64(100), got.Amount)
}

func TestEmergencyWithdrawSweepsActualBalance(t *testing.T) {
	db, ctrl, cashCtrl := newTestController(t, 0)

	require.NoError(t, cashCtrl.Issue(db, payer, coin.NewCoin(500, "IOV")))
	_, _, err := ctrl.CreditPayment(db, 1, projectAddr, payer, coin.NewCoin(100, "IOV"))
	require.NoError(t, err)

	// funds that arrived outside normal accounting
	require.NoError(t, cashCtrl.Issue(db, projectAddr, coin.NewCoin(40, "IOV")))

	swept, err := ctrl.EmergencyWithdraw(db, 1, projectAddr, user, "IOV")
	require.NoError(t, err)
	assert.Equal(t, int64(140), swept.Amount)

	got, err := cashCtrl.Balance(db, user, "IOV")
	require.NoError(t, err)
	assert.Equal(t, int64(140), got.Amount)

	pool, err := ctrl.Pool(db, 1, "IOV")
	require.NoError(t, err)
	assert.True(t, pool.PaymentBalance("IOV").IsZero())
	assert.True(t, pool.WithdrawalBalance("IOV").IsZero())
}

func TestPoolsScopedPerTicker(t *testing.T) {
	db, ctrl, cashCtrl := newTestController(t, 0)

	require.NoError(t, cashCtrl.Issue(db, payer, coin.NewCoin(100, "IOV")))
	require.NoError(t, cashCtrl.Issue(db, payer, coin.NewCoin(100, "ETH")))

	_, _, err := ctrl.CreditPayment(db, 1, projectAddr, payer, coin.NewCoin(70, "IOV"))
	require.NoError(t, err)
	_, _, err = ctrl.CreditPayment(db, 1, projectAddr, payer, coin.NewCoin(30, "ETH"))
	require.NoError(t, err)

	pool, err := ctrl.Pool(db, 1, "IOV")
	require.NoError(t, err)
	assert.Equal(t, int64(70), pool.PaymentBalance("IOV").Amount)
	pool, err = ctrl.Pool(db, 1, "ETH")
	require.NoError(t, err)
	assert.Equal(t, int64(30), pool.PaymentBalance("ETH").Amount)
}
