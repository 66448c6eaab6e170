package project

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	custody "github.com/iov-one/custody"
	"github.com/iov-one/custody/coin"
	"github.com/iov-one/custody/crypto"
	"github.com/iov-one/custody/custodytest"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/gconf"
	"github.com/iov-one/custody/orm"
	"github.com/iov-one/custody/store"
	"github.com/iov-one/custody/x"
	"github.com/iov-one/custody/x/cash"
	"github.com/iov-one/custody/x/ledger"
	"github.com/iov-one/custody/x/sigs"
)

const testProjectID uint64 = 1

var (
	ownerCond  = custodytest.NewCondition(1)
	adminCond  = custodytest.NewCondition(2)
	callerCond = custodytest.NewCondition(3)
	vaultAddr  = custodytest.NewCondition(4).Address()
	userAddr   = custodytest.NewCondition(5).Address()
)

type testEnv struct {
	db     custody.CacheableKVStore
	ctx    custody.Context
	now    time.Time
	bucket orm.ModelBucket
	cash   cash.Controller
	ledger ledger.Controller
	guard  sigs.ReplayGuard
	signer *crypto.PrivateKey
}

func newTestEnv(t *testing.T, feeBps uint32, withdrawalFee *coin.Coin) *testEnv {
	t.Helper()
	db := store.MemStore()
	conf := ledger.Configuration{
		Owner:         ownerCond.Address(),
		FeeVault:      vaultAddr,
		FeeRateBps:    feeBps,
		WithdrawalFee: withdrawalFee,
	}
	require.NoError(t, gconf.Save(db, "ledger", &conf))

	signer := custodytest.NewKey(100)
	bucket := NewProjectBucket()
	project := &Project{
		Name:      "acme",
		Creator:   ownerCond.Address(),
		Signer:    signer.PublicKey(),
		Admins:    []custody.Address{adminCond.Address()},
		Threshold: 1,
	}
	require.NoError(t, bucket.Put(db, ProjectKey(testProjectID), project))

	now := time.Now().UTC()
	cashCtrl := cash.NewController()
	return &testEnv{
		db:     db,
		ctx:    custodytest.Context(now),
		now:    now,
		bucket: bucket,
		cash:   cashCtrl,
		ledger: ledger.NewController(cashCtrl),
		guard:  sigs.NewReplayGuard(),
		signer: signer,
	}
}

func (e *testEnv) payHandler(auth x.Authenticator) PayHandler {
	return PayHandler{auth: auth, bucket: e.bucket, ctrl: e.ledger, guard: e.guard}
}

func (e *testEnv) withdrawHandler(auth x.Authenticator) WithdrawHandler {
	return WithdrawHandler{auth: auth, bucket: e.bucket, ctrl: e.ledger, guard: e.guard}
}

func (e *testEnv) signedPayMsg(t *testing.T, req *sigs.PaymentRequest) *PayMsg {
	t.Helper()
	projAddr := Condition(ProjectKey(req.ProjectId)).Address()
	bytes, err := sigs.BuildPaymentSignBytes(req, "testchain-1", projAddr)
	require.NoError(t, err)
	sig, err := e.signer.Sign(bytes)
	require.NoError(t, err)
	return &PayMsg{Request: req, Signature: sig}
}

func (e *testEnv) signedWithdrawMsg(t *testing.T, req *sigs.WithdrawalRequest, feePaid *coin.Coin) *WithdrawMsg {
	t.Helper()
	projAddr := Condition(ProjectKey(req.ProjectId)).Address()
	bytes, err := sigs.BuildWithdrawalSignBytes(req, "testchain-1", projAddr)
	require.NoError(t, err)
	sig, err := e.signer.Sign(bytes)
	require.NoError(t, err)
	return &WithdrawMsg{Request: req, Signature: sig, FeePaid: feePaid}
}

func TestCreateProjectRequiresOwner(t *testing.T) {
	env := newTestEnv(t, 0, nil)
	msg := &CreateProjectMsg{
		Name:      "beta",
		Signer:    custodytest.NewKey(101).PublicKey(),
		Admins:    []custody.Address{adminCond.Address()},
		Threshold: 1,
	}
	tx := &custodytest.Tx{Msg: msg}

	h := CreateProjectHandler{
		auth:   &custodytest.Auth{Signer: adminCond},
		bucket: env.bucket,
		seq:    NewProjectSeq(),
	}
	_, err := h.Deliver(env.ctx, env.db, tx)
	assert.True(t, errors.ErrUnauthorized.Is(err))

	h.auth = &custodytest.Auth{Signer: ownerCond}
	res, err := h.Deliver(env.ctx, env.db, tx)
	require.NoError(t, err)
	id := orm.DecodeSequence(res.Data)

	stored, err := LoadProject(env.db, env.bucket, uint64(id))
	require.NoError(t, err)
	assert.Equal(t, "beta", stored.Name)
	assert.Equal(t, ownerCond.Address(), stored.Creator)
	assert.False(t, stored.Paused)
}

func TestPayHappyPath(t *testing.T) {
	env := newTestEnv(t, 100, nil) // 1% fee
	require.NoError(t, env.cash.Issue(env.db, callerCond.Address(), coin.NewCoin(1000, "IOV")))

	req := &sigs.PaymentRequest{
		ProjectId: testProjectID,
		Amount:    coin.NewCoinp(100, "IOV"),
		SerialNo:  7,
		Deadline:  custody.AsUnixTime(env.now.Add(time.Hour)),
	}
	tx := &custodytest.Tx{Msg: env.signedPayMsg(t, req)}
	h := env.payHandler(&custodytest.Auth{Signer: callerCond})

	cres, err := h.Check(env.ctx, env.db, tx)
	require.NoError(t, err)
	assert.Equal(t, paymentCost, cres.GasAllocated)

	res, err := h.Deliver(env.ctx, env.db, tx)
	require.NoError(t, err)
	require.Len(t, res.Tags, 1)
	assert.Equal(t, []byte(TagTxRecord), res.Tags[0].Key)

	var rec TxRecord
	require.NoError(t, rec.Unmarshal(res.Tags[0].Value))
	assert.Equal(t, testProjectID, rec.ProjectId)
	assert.Equal(t, TxType_PAYMENT, rec.TxType)
	assert.Equal(t, int64(99), rec.Amount.Amount)
	assert.Equal(t, int64(1), rec.Fee.Amount)
	assert.Equal(t, uint64(7), rec.SerialNo)
	assert.Equal(t, callerCond.Address(), rec.Account)

	pool, err := env.ledger.Pool(env.db, testProjectID, "IOV")
	require.NoError(t, err)
	assert.Equal(t, int64(99), pool.PaymentBalance("IOV").Amount)

	got, err := env.cash.Balance(env.db, vaultAddr, "IOV")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Amount)
}

func TestPaySerialCannotBeReplayed(t *testing.T) {
	env := newTestEnv(t, 0, nil)
	require.NoError(t, env.cash.Issue(env.db, callerCond.Address(), coin.NewCoin(1000, "IOV")))

	req := &sigs.PaymentRequest{
		ProjectId: testProjectID,
		Amount:    coin.NewCoinp(100, "IOV"),
		SerialNo:  1,
		Deadline:  custody.AsUnixTime(env.now.Add(time.Hour)),
	}
	tx := &custodytest.Tx{Msg: env.signedPayMsg(t, req)}
	h := env.payHandler(&custodytest.Auth{Signer: callerCond})

	_, err := h.Deliver(env.ctx, env.db, tx)
	require.NoError(t, err)

	_, err = h.Deliver(env.ctx, env.db, tx)
	assert.True(t, sigs.ErrReplay.Is(err))
	_, err = h.Check(env.ctx, env.db, tx)
	assert.True(t, sigs.ErrReplay.Is(err))
}

func TestPayRejectedWhenPaused(t *testing.T) {
	env := newTestEnv(t, 0, nil)

	var project Project
	require.NoError(t, env.bucket.One(env.db, ProjectKey(testProjectID), &project))
	project.Paused = true
	require.NoError(t, env.bucket.Put(env.db, ProjectKey(testProjectID), &project))

	req := &sigs.PaymentRequest{
		ProjectId: testProjectID,
		Amount:    coin.NewCoinp(100, "IOV"),
		SerialNo:  1,
		Deadline:  custody.AsUnixTime(env.now.Add(time.Hour)),
	}
	tx := &custodytest.Tx{Msg: env.signedPayMsg(t, req)}
	h := env.payHandler(&custodytest.Auth{Signer: callerCond})

	_, err := h.Deliver(env.ctx, env.db, tx)
	assert.True(t, errors.ErrState.Is(err))
}

func TestPayRejectedAfterDeadline(t *testing.T) {
	env := newTestEnv(t, 0, nil)

	req := &sigs.PaymentRequest{
		ProjectId: testProjectID,
		Amount:    coin.NewCoinp(100, "IOV"),
		SerialNo:  1,
		Deadline:  custody.AsUnixTime(env.now.Add(-time.Minute)),
	}
	tx := &custodytest.Tx{Msg: env.signedPayMsg(t, req)}
	h := env.payHandler(&custodytest.Auth{Signer: callerCond})

	_, err := h.Deliver(env.ctx, env.db, tx)
	assert.True(t, errors.ErrExpired.Is(err))
}

func TestPayRejectedWithWrongSigner(t *testing.T) {
	env := newTestEnv(t, 0, nil)

	req := &sigs.PaymentRequest{
		ProjectId: testProjectID,
		Amount:    coin.NewCoinp(100, "IOV"),
		SerialNo:  1,
		Deadline:  custody.AsUnixTime(env.now.Add(time.Hour)),
	}
	projAddr := Condition(ProjectKey(testProjectID)).Address()
	bytes, err := sigs.BuildPaymentSignBytes(req, "testchain-1", projAddr)
	require.NoError(t, err)
	sig, err := custodytest.NewKey(200).Sign(bytes)
	require.NoError(t, err)

	tx := &custodytest.Tx{Msg: &PayMsg{Request: req, Signature: sig}}
	h := env.payHandler(&custodytest.Auth{Signer: callerCond})

	_, err = h.Deliver(env.ctx, env.db, tx)
	assert.True(t, errors.ErrUnauthorized.Is(err))
}

func TestWithdrawPaysFeeAndReturnsSurplus(t *testing.T) {
	env := newTestEnv(t, 0, coin.NewCoinp(1000, coin.NativeTicker))
	require.NoError(t, env.cash.Issue(env.db, callerCond.Address(), coin.NewCoin(2000, coin.NativeTicker)))
	require.NoError(t, env.cash.Issue(env.db, adminCond.Address(), coin.NewCoin(500, "IOV")))

	projAddr := Condition(ProjectKey(testProjectID)).Address()
	_, err := env.ledger.Deposit(env.db, testProjectID, projAddr, adminCond.Address(), coin.NewCoin(500, "IOV"))
	require.NoError(t, err)

	req := &sigs.WithdrawalRequest{
		User:      userAddr,
		ProjectId: testProjectID,
		Amount:    coin.NewCoinp(200, "IOV"),
		SerialNo:  3,
		Deadline:  custody.AsUnixTime(env.now.Add(time.Hour)),
	}
	tx := &custodytest.Tx{Msg: env.signedWithdrawMsg(t, req, coin.NewCoinp(1500, coin.NativeTicker))}
	h := env.withdrawHandler(&custodytest.Auth{Signer: callerCond})

	res, err := h.Deliver(env.ctx, env.db, tx)
	require.NoError(t, err)
	require.Len(t, res.Tags, 1)

	var rec TxRecord
	require.NoError(t, rec.Unmarshal(res.Tags[0].Value))
	assert.Equal(t, TxType_WITHDRAWAL, rec.TxType)
	assert.Equal(t, userAddr, rec.Account)
	assert.Equal(t, int64(200), rec.Amount.Amount)
	assert.Equal(t, int64(1000), rec.Fee.Amount)

	// the surplus of 500 over the configured fee went back
	got, err := env.cash.Balance(env.db, callerCond.Address(), coin.NativeTicker)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), got.Amount)
	got, err = env.cash.Balance(env.db, vaultAddr, coin.NativeTicker)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), got.Amount)
	got, err = env.cash.Balance(env.db, userAddr, "IOV")
	require.NoError(t, err)
	assert.Equal(t, int64(200), got.Amount)

	pool, err := env.ledger.Pool(env.db, testProjectID, "IOV")
	require.NoError(t, err)
	assert.Equal(t, int64(300), pool.WithdrawalBalance("IOV").Amount)
}

func TestWithdrawRejectedWhenFeeTooLow(t *testing.T) {
	env := newTestEnv(t, 0, coin.NewCoinp(1000, coin.NativeTicker))
	require.NoError(t, env.cash.Issue(env.db, callerCond.Address(), coin.NewCoin(2000, coin.NativeTicker)))

	req := &sigs.WithdrawalRequest{
		User:      userAddr,
		ProjectId: testProjectID,
		Amount:    coin.NewCoinp(200, "IOV"),
		SerialNo:  3,
		Deadline:  custody.AsUnixTime(env.now.Add(time.Hour)),
	}
	tx := &custodytest.Tx{Msg: env.signedWithdrawMsg(t, req, coin.NewCoinp(999, coin.NativeTicker))}
	h := env.withdrawHandler(&custodytest.Auth{Signer: callerCond})

	_, err := h.Deliver(env.ctx, env.db, tx)
	assert.True(t, errors.ErrAmount.Is(err))

	// failing the fee gate must not burn the serial
	used, err := env.guard.WithdrawalUsed(env.db, testProjectID, 3)
	require.NoError(t, err)
	assert.False(t, used)
}

func TestWithdrawRejectedOnEmptyPool(t *testing.T) {
	env := newTestEnv(t, 0, nil)

	req := &sigs.WithdrawalRequest{
		User:      userAddr,
		ProjectId: testProjectID,
		Amount:    coin.NewCoinp(200, "IOV"),
		SerialNo:  4,
		Deadline:  custody.AsUnixTime(env.now.Add(time.Hour)),
	}
	tx := &custodytest.Tx{Msg: env.signedWithdrawMsg(t, req, nil)}
	h := env.withdrawHandler(&custodytest.Auth{Signer: callerCond})

	_, err := h.Deliver(env.ctx, env.db, tx)
	assert.True(t, errors.ErrState.Is(err))
}

func TestDepositRequiresAdmin(t *testing.T) {
	env := newTestEnv(t, 0, nil)
	require.NoError(t, env.cash.Issue(env.db, adminCond.Address(), coin.NewCoin(1000, "IOV")))

	msg := &DepositMsg{ProjectId: testProjectID, Amount: coin.NewCoinp(400, "IOV")}
	tx := &custodytest.Tx{Msg: msg}

	h := DepositHandler{auth: &custodytest.Auth{Signer: callerCond}, bucket: env.bucket, ctrl: env.ledger}
	_, err := h.Deliver(env.ctx, env.db, tx)
	assert.True(t, errors.ErrUnauthorized.Is(err))

	h.auth = &custodytest.Auth{Signer: adminCond}
	res, err := h.Deliver(env.ctx, env.db, tx)
	require.NoError(t, err)
	require.Len(t, res.Tags, 1)
	assert.Equal(t, []byte(TagPoolRecord), res.Tags[0].Key)

	var rec PoolRecord
	require.NoError(t, rec.Unmarshal(res.Tags[0].Value))
	assert.Equal(t, "deposit", rec.Op)
	assert.Equal(t, int64(400), rec.Amount.Amount)

	pool, err := env.ledger.Pool(env.db, testProjectID, "IOV")
	require.NoError(t, err)
	assert.Equal(t, int64(400), pool.WithdrawalBalance("IOV").Amount)
}
