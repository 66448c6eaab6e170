package app

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	custody "github.com/iov-one/custody"
	"github.com/iov-one/custody/coin"
	"github.com/iov-one/custody/custodytest"
	"github.com/iov-one/custody/store/iavl"
	"github.com/iov-one/custody/x/cash"
	"github.com/iov-one/custody/x/gov"
	"github.com/iov-one/custody/x/ledger"
	"github.com/iov-one/custody/x/project"
	"github.com/iov-one/custody/x/sigs"
	"github.com/iov-one/custody/x/utils"
)

// ctxAuthDecorator stands in for a signature verifying decorator. It
// marks the configured conditions as authenticated on every call.
type ctxAuthDecorator struct {
	auth  *custodytest.CtxAuth
	conds []custody.Condition
}

var _ custody.Decorator = (*ctxAuthDecorator)(nil)

func (d *ctxAuthDecorator) Check(ctx custody.Context, store custody.KVStore, tx custody.Tx, next custody.Checker) (*custody.CheckResult, error) {
	return next.Check(d.auth.SetConditions(ctx, d.conds...), store, tx)
}

func (d *ctxAuthDecorator) Deliver(ctx custody.Context, store custody.KVStore, tx custody.Tx, next custody.Deliverer) (*custody.DeliverResult, error) {
	return next.Deliver(d.auth.SetConditions(ctx, d.conds...), store, tx)
}

func TestFullPaymentFlow(t *testing.T) {
	var (
		ownerCond = custodytest.NewCondition(1)
		payerCond = custodytest.NewCondition(2)
		adminCond = custodytest.NewCondition(3)
		vaultAddr = custodytest.NewCondition(4).Address()
		signerKey = custodytest.NewKey(10)
	)

	auth := &custodytest.CtxAuth{Key: "auth"}
	signedBy := &ctxAuthDecorator{auth: auth}

	cashCtrl := cash.NewController()
	ledgerCtrl := ledger.NewController(cashCtrl)
	guard := sigs.NewReplayGuard()

	router := NewRouter()
	project.RegisterRoutes(router, auth, ledgerCtrl, guard)
	gov.RegisterRoutes(router, auth, ledgerCtrl)

	stack := ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		utils.NewReentrancyGuard(),
		signedBy,
		utils.NewActionTagger(),
		utils.NewSavepoint().OnDeliver(),
	).WithHandler(router)

	db := iavl.MockCommitStore()
	proc, err := NewProcessor(db, stack, "testchain-1", nil)
	require.NoError(t, err)
	now := time.Now().UTC()
	proc.WithNow(func() time.Time { return now })

	// genesis: configurations plus the payer account funding
	rawLedgerConf, err := json.Marshal(ledger.Configuration{
		Owner:      ownerCond.Address(),
		FeeVault:   vaultAddr,
		FeeRateBps: 100, // 1%
	})
	require.NoError(t, err)
	rawCashConf, err := json.Marshal(cash.Configuration{Owner: ownerCond.Address()})
	require.NoError(t, err)
	conf, err := json.Marshal(map[string]json.RawMessage{
		"ledger": rawLedgerConf,
		"cash":   rawCashConf,
	})
	require.NoError(t, err)
	rawAccounts, err := json.Marshal([]struct {
		Address custody.Address `json:"address"`
		Coins   []coin.Coin     `json:"coins"`
	}{
		{Address: payerCond.Address(), Coins: []coin.Coin{coin.NewCoin(1000, "IOV")}},
	})
	require.NoError(t, err)
	opts := custody.Options{"conf": conf, "cash": rawAccounts}
	require.NoError(t, proc.InitGenesis(opts, cash.Initializer{}, ledger.Initializer{}))
	require.Equal(t, int64(1), proc.LatestVersion().Version)

	// the custody owner creates a project
	signedBy.conds = []custody.Condition{ownerCond}
	res, err := proc.Deliver(&custodytest.Tx{Msg: &project.CreateProjectMsg{
		Name:      "acme",
		Signer:    signerKey.PublicKey(),
		Admins:    []custody.Address{adminCond.Address()},
		Threshold: 1,
	}})
	require.NoError(t, err)
	projectID := uint64(1)
	require.Equal(t, project.ProjectKey(projectID), res.Data)

	// a user pays with an authorization signed by the project signer
	req := &sigs.PaymentRequest{
		ProjectId: projectID,
		Amount:    coin.NewCoinp(100, "IOV"),
		SerialNo:  1,
		Deadline:  custody.AsUnixTime(now.Add(time.Hour)),
	}
	projAddr := project.Condition(project.ProjectKey(projectID)).Address()
	signBytes, err := sigs.BuildPaymentSignBytes(req, "testchain-1", projAddr)
	require.NoError(t, err)
	sig, err := signerKey.Sign(signBytes)
	require.NoError(t, err)

	signedBy.conds = []custody.Condition{payerCond}
	payTx := &custodytest.Tx{Msg: &project.PayMsg{Request: req, Signature: sig}}
	res, err = proc.Deliver(payTx)
	require.NoError(t, err)

	// the canonical record and the action tag are both emitted
	require.Len(t, res.Tags, 2)
	assert.Equal(t, []byte(project.TagTxRecord), res.Tags[0].Key)
	assert.Equal(t, []byte(utils.ActionKey), res.Tags[1].Key)
	assert.Equal(t, []byte("project/pay"), res.Tags[1].Value)

	var rec project.TxRecord
	require.NoError(t, rec.Unmarshal(res.Tags[0].Value))
	assert.Equal(t, int64(99), rec.Amount.Amount)
	assert.Equal(t, int64(1), rec.Fee.Amount)

	// committed state reflects the transfer
	view := db.CacheWrap()
	defer view.Discard()
	pool, err := ledgerCtrl.Pool(view, projectID, "IOV")
	require.NoError(t, err)
	assert.Equal(t, int64(99), pool.PaymentBalance("IOV").Amount)
	balance, err := cashCtrl.Balance(view, payerCond.Address(), "IOV")
	require.NoError(t, err)
	assert.Equal(t, int64(900), balance.Amount)

	version := proc.LatestVersion().Version

	// replaying the same authorization must fail and commit nothing
	_, err = proc.Deliver(payTx)
	require.Error(t, err)
	assert.True(t, sigs.ErrReplay.Is(err))
	assert.Equal(t, version, proc.LatestVersion().Version)
}

func TestInitGenesisRefusesSecondRun(t *testing.T) {
	db := iavl.MockCommitStore()
	proc, err := NewProcessor(db, &custodytest.Handler{}, "testchain-1", nil)
	require.NoError(t, err)

	require.NoError(t, proc.InitGenesis(custody.Options{}))
	err = proc.InitGenesis(custody.Options{})
	require.Error(t, err)
}
