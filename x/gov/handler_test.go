package gov

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	custody "github.com/iov-one/custody"
	"github.com/iov-one/custody/coin"
	"github.com/iov-one/custody/custodytest"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/gconf"
	"github.com/iov-one/custody/orm"
	"github.com/iov-one/custody/store"
	"github.com/iov-one/custody/x"
	"github.com/iov-one/custody/x/cash"
	"github.com/iov-one/custody/x/ledger"
	"github.com/iov-one/custody/x/project"
)

const govProjectID uint64 = 1

var (
	adminA   = custodytest.NewCondition(1)
	adminB   = custodytest.NewCondition(2)
	adminC   = custodytest.NewCondition(3)
	outsider = custodytest.NewCondition(4)
	payee    = custodytest.NewCondition(5).Address()
)

type govEnv struct {
	db        custody.CacheableKVStore
	ctx       custody.Context
	now       time.Time
	projects  orm.ModelBucket
	proposals orm.ModelBucket
	cash      cash.Controller
	ledger    ledger.Controller
}

func newGovEnv(t *testing.T) *govEnv {
	t.Helper()
	db := store.MemStore()
	conf := ledger.Configuration{
		Owner:    custodytest.NewCondition(9).Address(),
		FeeVault: custodytest.NewCondition(8).Address(),
	}
	require.NoError(t, gconf.Save(db, "ledger", &conf))

	projects := project.NewProjectBucket()
	prj := &project.Project{
		Name:      "acme",
		Creator:   adminA.Address(),
		Signer:    custodytest.NewKey(100).PublicKey(),
		Admins:    []custody.Address{adminA.Address(), adminB.Address(), adminC.Address()},
		Threshold: 2,
	}
	require.NoError(t, projects.Put(db, project.ProjectKey(govProjectID), prj))

	now := time.Now().UTC()
	cashCtrl := cash.NewController()
	return &govEnv{
		db:        db,
		ctx:       custodytest.Context(now),
		now:       now,
		projects:  projects,
		proposals: NewProposalBucket(),
		cash:      cashCtrl,
		ledger:    ledger.NewController(cashCtrl),
	}
}

func (e *govEnv) create(auth x.Authenticator) CreateProposalHandler {
	return CreateProposalHandler{auth: auth, projects: e.projects, proposals: e.proposals}
}

func (e *govEnv) confirm(auth x.Authenticator) ConfirmProposalHandler {
	return ConfirmProposalHandler{auth: auth, projects: e.projects, proposals: e.proposals}
}

func (e *govEnv) execute(auth x.Authenticator) ExecuteProposalHandler {
	return ExecuteProposalHandler{auth: auth, projects: e.projects, proposals: e.proposals, exec: executor{ctrl: e.ledger}}
}

func (e *govEnv) cancel(auth x.Authenticator) CancelProposalHandler {
	return CancelProposalHandler{auth: auth, projects: e.projects, proposals: e.proposals}
}

// propose stores a proposal through the handler and returns its ID.
func (e *govEnv) propose(t *testing.T, proposer custody.Condition, op *Operation) uint64 {
	t.Helper()
	msg := &CreateProposalMsg{
		ProjectId: govProjectID,
		Op:        op,
		Deadline:  custody.AsUnixTime(e.now.Add(time.Hour)),
	}
	h := e.create(&custodytest.Auth{Signer: proposer})
	res, err := h.Deliver(e.ctx, e.db, &custodytest.Tx{Msg: msg})
	require.NoError(t, err)
	prj, err := project.LoadProject(e.db, e.projects, govProjectID)
	require.NoError(t, err)
	require.Equal(t, ProposalKey(govProjectID, prj.ProposalCount), res.Data)
	return prj.ProposalCount
}

func addAdminOp(addr custody.Address) *Operation {
	return &Operation{AddAdmin: &AddAdminOp{Admin: addr}}
}

func TestProposalLifecycle(t *testing.T) {
	env := newGovEnv(t)

	id := env.propose(t, adminA, addAdminOp(outsider.Address()))

	proposal, err := LoadProposal(env.db, env.proposals, govProjectID, id)
	require.NoError(t, err)
	assert.Equal(t, adminA.Address(), proposal.Proposer)
	assert.True(t, proposal.HasConfirmed(adminA.Address()))

	confirmMsg := &ConfirmProposalMsg{ProjectId: govProjectID, ProposalId: id}
	_, err = env.confirm(&custodytest.Auth{Signer: adminB}).Deliver(env.ctx, env.db, &custodytest.Tx{Msg: confirmMsg})
	require.NoError(t, err)

	execMsg := &ExecuteProposalMsg{ProjectId: govProjectID, ProposalId: id}
	_, err = env.execute(&custodytest.Auth{Signer: adminA}).Deliver(env.ctx, env.db, &custodytest.Tx{Msg: execMsg})
	require.NoError(t, err)

	prj, err := project.LoadProject(env.db, env.projects, govProjectID)
	require.NoError(t, err)
	assert.True(t, prj.IsAdmin(outsider.Address()))
	assert.Equal(t, uint64(1), prj.ProposalCount)
	assert.Equal(t, uint64(0), prj.OpenProposals)

	proposal, err = LoadProposal(env.db, env.proposals, govProjectID, id)
	require.NoError(t, err)
	assert.True(t, proposal.Executed)
}

func TestCreateProposalRequiresAdmin(t *testing.T) {
	env := newGovEnv(t)
	msg := &CreateProposalMsg{
		ProjectId: govProjectID,
		Op:        addAdminOp(outsider.Address()),
		Deadline:  custody.AsUnixTime(env.now.Add(time.Hour)),
	}
	h := env.create(&custodytest.Auth{Signer: outsider})
	_, err := h.Deliver(env.ctx, env.db, &custodytest.Tx{Msg: msg})
	assert.True(t, errors.ErrUnauthorized.Is(err))
}

func TestConfirmTwiceRejected(t *testing.T) {
	env := newGovEnv(t)
	id := env.propose(t, adminA, addAdminOp(outsider.Address()))

	msg := &ConfirmProposalMsg{ProjectId: govProjectID, ProposalId: id}
	_, err := env.confirm(&custodytest.Auth{Signer: adminA}).Deliver(env.ctx, env.db, &custodytest.Tx{Msg: msg})
	assert.True(t, errors.ErrDuplicate.Is(err))
}

func TestSoleAdminExecutesWithoutConfirm(t *testing.T) {
	env := newGovEnv(t)

	// a single admin with threshold 1 satisfies the quorum by the
	// automatic proposer confirmation alone
	prj, err := project.LoadProject(env.db, env.projects, govProjectID)
	require.NoError(t, err)
	prj.Admins = []custody.Address{adminA.Address()}
	prj.Threshold = 1
	require.NoError(t, env.projects.Put(env.db, project.ProjectKey(govProjectID), prj))

	id := env.propose(t, adminA, &Operation{Pause: &PauseOp{}})

	execMsg := &ExecuteProposalMsg{ProjectId: govProjectID, ProposalId: id}
	_, err = env.execute(&custodytest.Auth{Signer: adminA}).Deliver(env.ctx, env.db, &custodytest.Tx{Msg: execMsg})
	require.NoError(t, err)

	prj, err = project.LoadProject(env.db, env.projects, govProjectID)
	require.NoError(t, err)
	assert.True(t, prj.Paused)
	assert.Equal(t, uint64(0), prj.OpenProposals)

	proposal, err := LoadProposal(env.db, env.proposals, govProjectID, id)
	require.NoError(t, err)
	assert.True(t, proposal.Executed)
}

func TestExecuteWithoutQuorum(t *testing.T) {
	env := newGovEnv(t)
	id := env.propose(t, adminA, addAdminOp(outsider.Address()))

	msg := &ExecuteProposalMsg{ProjectId: govProjectID, ProposalId: id}
	_, err := env.execute(&custodytest.Auth{Signer: adminA}).Deliver(env.ctx, env.db, &custodytest.Tx{Msg: msg})
	assert.True(t, errors.ErrState.Is(err))
}

func TestExecuteTwiceRejected(t *testing.T) {
	env := newGovEnv(t)
	id := env.propose(t, adminA, addAdminOp(outsider.Address()))

	confirmMsg := &ConfirmProposalMsg{ProjectId: govProjectID, ProposalId: id}
	_, err := env.confirm(&custodytest.Auth{Signer: adminB}).Deliver(env.ctx, env.db, &custodytest.Tx{Msg: confirmMsg})
	require.NoError(t, err)

	execMsg := &ExecuteProposalMsg{ProjectId: govProjectID, ProposalId: id}
	h := env.execute(&custodytest.Auth{Signer: adminA})
	_, err = h.Deliver(env.ctx, env.db, &custodytest.Tx{Msg: execMsg})
	require.NoError(t, err)

	_, err = h.Deliver(env.ctx, env.db, &custodytest.Tx{Msg: execMsg})
	assert.True(t, errors.ErrState.Is(err))
}

func TestConfirmationOfRemovedAdminDoesNotCount(t *testing.T) {
	env := newGovEnv(t)
	id := env.propose(t, adminA, addAdminOp(outsider.Address()))

	confirmMsg := &ConfirmProposalMsg{ProjectId: govProjectID, ProposalId: id}
	_, err := env.confirm(&custodytest.Auth{Signer: adminB}).Deliver(env.ctx, env.db, &custodytest.Tx{Msg: confirmMsg})
	require.NoError(t, err)

	// adminB loses the admin status before the execution.
	prj, err := project.LoadProject(env.db, env.projects, govProjectID)
	require.NoError(t, err)
	prj.Admins = []custody.Address{adminA.Address(), adminC.Address()}
	require.NoError(t, env.projects.Put(env.db, project.ProjectKey(govProjectID), prj))

	execMsg := &ExecuteProposalMsg{ProjectId: govProjectID, ProposalId: id}
	_, err = env.execute(&custodytest.Auth{Signer: adminA}).Deliver(env.ctx, env.db, &custodytest.Tx{Msg: execMsg})
	assert.True(t, errors.ErrState.Is(err))
}

func TestCancelOnlyByProposer(t *testing.T) {
	env := newGovEnv(t)
	id := env.propose(t, adminA, addAdminOp(outsider.Address()))

	msg := &CancelProposalMsg{ProjectId: govProjectID, ProposalId: id}
	_, err := env.cancel(&custodytest.Auth{Signer: adminB}).Deliver(env.ctx, env.db, &custodytest.Tx{Msg: msg})
	assert.True(t, errors.ErrUnauthorized.Is(err))

	_, err = env.cancel(&custodytest.Auth{Signer: adminA}).Deliver(env.ctx, env.db, &custodytest.Tx{Msg: msg})
	require.NoError(t, err)

	// a cancelled proposal cannot be confirmed anymore
	confirmMsg := &ConfirmProposalMsg{ProjectId: govProjectID, ProposalId: id}
	_, err = env.confirm(&custodytest.Auth{Signer: adminB}).Deliver(env.ctx, env.db, &custodytest.Tx{Msg: confirmMsg})
	assert.True(t, errors.ErrState.Is(err))

	prj, err := project.LoadProject(env.db, env.projects, govProjectID)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), prj.OpenProposals)
}

func TestExpiredProposalNotActionable(t *testing.T) {
	env := newGovEnv(t)
	id := env.propose(t, adminA, addAdminOp(outsider.Address()))

	lateCtx := custody.WithBlockTime(env.ctx, env.now.Add(2*time.Hour))

	confirmMsg := &ConfirmProposalMsg{ProjectId: govProjectID, ProposalId: id}
	_, err := env.confirm(&custodytest.Auth{Signer: adminB}).Deliver(lateCtx, env.db, &custodytest.Tx{Msg: confirmMsg})
	assert.True(t, errors.ErrExpired.Is(err))

	execMsg := &ExecuteProposalMsg{ProjectId: govProjectID, ProposalId: id}
	_, err = env.execute(&custodytest.Auth{Signer: adminA}).Deliver(lateCtx, env.db, &custodytest.Tx{Msg: execMsg})
	assert.True(t, errors.ErrExpired.Is(err))

	// the proposer can still withdraw it
	cancelMsg := &CancelProposalMsg{ProjectId: govProjectID, ProposalId: id}
	_, err = env.cancel(&custodytest.Auth{Signer: adminA}).Deliver(lateCtx, env.db, &custodytest.Tx{Msg: cancelMsg})
	require.NoError(t, err)
}

func TestAdminWithdrawProposal(t *testing.T) {
	env := newGovEnv(t)

	payer := custodytest.NewCondition(6).Address()
	require.NoError(t, env.cash.Issue(env.db, payer, coin.NewCoin(1000, "IOV")))
	projAddr := project.Condition(project.ProjectKey(govProjectID)).Address()
	_, _, err := env.ledger.CreditPayment(env.db, govProjectID, projAddr, payer, coin.NewCoin(100, "IOV"))
	require.NoError(t, err)

	op := &Operation{AdminWithdraw: &AdminWithdrawOp{
		Amount:    coin.NewCoinp(50, "IOV"),
		Recipient: payee,
	}}
	id := env.propose(t, adminA, op)

	confirmMsg := &ConfirmProposalMsg{ProjectId: govProjectID, ProposalId: id}
	_, err = env.confirm(&custodytest.Auth{Signer: adminB}).Deliver(env.ctx, env.db, &custodytest.Tx{Msg: confirmMsg})
	require.NoError(t, err)

	execMsg := &ExecuteProposalMsg{ProjectId: govProjectID, ProposalId: id}
	res, err := env.execute(&custodytest.Auth{Signer: adminA}).Deliver(env.ctx, env.db, &custodytest.Tx{Msg: execMsg})
	require.NoError(t, err)
	require.Len(t, res.Tags, 1)

	var rec project.PoolRecord
	require.NoError(t, rec.Unmarshal(res.Tags[0].Value))
	assert.Equal(t, "admin_withdraw", rec.Op)
	assert.Equal(t, int64(50), rec.Amount.Amount)

	got, err := env.cash.Balance(env.db, payee, "IOV")
	require.NoError(t, err)
	assert.Equal(t, int64(50), got.Amount)

	pool, err := env.ledger.Pool(env.db, govProjectID, "IOV")
	require.NoError(t, err)
	assert.Equal(t, int64(50), pool.PaymentBalance("IOV").Amount)
}

func TestEmergencyWithdrawProposal(t *testing.T) {
	env := newGovEnv(t)

	// funds on the project account beyond what any pool tracks
	projAddr := project.Condition(project.ProjectKey(govProjectID)).Address()
	require.NoError(t, env.cash.Issue(env.db, projAddr, coin.NewCoin(300, "IOV")))

	op := &Operation{EmergencyWithdraw: &EmergencyWithdrawOp{
		Ticker:    "IOV",
		Recipient: payee,
	}}
	id := env.propose(t, adminA, op)

	confirmMsg := &ConfirmProposalMsg{ProjectId: govProjectID, ProposalId: id}
	_, err := env.confirm(&custodytest.Auth{Signer: adminC}).Deliver(env.ctx, env.db, &custodytest.Tx{Msg: confirmMsg})
	require.NoError(t, err)

	execMsg := &ExecuteProposalMsg{ProjectId: govProjectID, ProposalId: id}
	res, err := env.execute(&custodytest.Auth{Signer: adminA}).Deliver(env.ctx, env.db, &custodytest.Tx{Msg: execMsg})
	require.NoError(t, err)
	require.Len(t, res.Tags, 1)

	var rec project.PoolRecord
	require.NoError(t, rec.Unmarshal(res.Tags[0].Value))
	assert.Equal(t, "emergency_withdraw", rec.Op)
	assert.Equal(t, int64(300), rec.Amount.Amount)

	got, err := env.cash.Balance(env.db, payee, "IOV")
	require.NoError(t, err)
	assert.Equal(t, int64(300), got.Amount)

	pool, err := env.ledger.Pool(env.db, govProjectID, "IOV")
	require.NoError(t, err)
	assert.True(t, pool.PaymentBalance("IOV").IsZero())
	assert.True(t, pool.WithdrawalBalance("IOV").IsZero())
}

func TestPauseAndUnpauseProposals(t *testing.T) {
	env := newGovEnv(t)

	pauseID := env.propose(t, adminA, &Operation{Pause: &PauseOp{}})
	confirmMsg := &ConfirmProposalMsg{ProjectId: govProjectID, ProposalId: pauseID}
	_, err := env.confirm(&custodytest.Auth{Signer: adminB}).Deliver(env.ctx, env.db, &custodytest.Tx{Msg: confirmMsg})
	require.NoError(t, err)
	execMsg := &ExecuteProposalMsg{ProjectId: govProjectID, ProposalId: pauseID}
	_, err = env.execute(&custodytest.Auth{Signer: adminA}).Deliver(env.ctx, env.db, &custodytest.Tx{Msg: execMsg})
	require.NoError(t, err)

	prj, err := project.LoadProject(env.db, env.projects, govProjectID)
	require.NoError(t, err)
	assert.True(t, prj.Paused)

	// governance still works on a paused project
	unpauseID := env.propose(t, adminB, &Operation{Unpause: &UnpauseOp{}})
	confirmMsg = &ConfirmProposalMsg{ProjectId: govProjectID, ProposalId: unpauseID}
	_, err = env.confirm(&custodytest.Auth{Signer: adminC}).Deliver(env.ctx, env.db, &custodytest.Tx{Msg: confirmMsg})
	require.NoError(t, err)
	execMsg = &ExecuteProposalMsg{ProjectId: govProjectID, ProposalId: unpauseID}
	_, err = env.execute(&custodytest.Auth{Signer: adminB}).Deliver(env.ctx, env.db, &custodytest.Tx{Msg: execMsg})
	require.NoError(t, err)

	prj, err = project.LoadProject(env.db, env.projects, govProjectID)
	require.NoError(t, err)
	assert.False(t, prj.Paused)
}
