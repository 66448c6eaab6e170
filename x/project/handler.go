package project

import (
	"github.com/tendermint/tendermint/libs/common"

	custody "github.com/iov-one/custody"
	"github.com/iov-one/custody/coin"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/orm"
	"github.com/iov-one/custody/x"
	"github.com/iov-one/custody/x/ledger"
	"github.com/iov-one/custody/x/sigs"
)

const (
	creationCost   int64 = 300
	paymentCost    int64 = 150
	withdrawalCost int64 = 200
	depositCost    int64 = 100
)

// RegisterRoutes will instantiate and register all the handlers in
// this package.
func RegisterRoutes(r custody.Registry, auth x.Authenticator, ctrl ledger.Controller, guard sigs.ReplayGuard) {
	bucket := NewProjectBucket()
	r.Handle(&CreateProjectMsg{}, &CreateProjectHandler{
		auth:   auth,
		bucket: bucket,
		seq:    NewProjectSeq(),
	})
	r.Handle(&PayMsg{}, &PayHandler{
		auth:   auth,
		bucket: bucket,
		ctrl:   ctrl,
		guard:  guard,
	})
	r.Handle(&WithdrawMsg{}, &WithdrawHandler{
		auth:   auth,
		bucket: bucket,
		ctrl:   ctrl,
		guard:  guard,
	})
	r.Handle(&DepositMsg{}, &DepositHandler{
		auth:   auth,
		bucket: bucket,
		ctrl:   ctrl,
	})
}

// CreateProjectHandler creates a project with a fresh sequence ID.
// Only the custody owner registered in the ledger configuration may
// create projects.
type CreateProjectHandler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
	seq    orm.Sequence
}

var _ custody.Handler = (*CreateProjectHandler)(nil)

func (h CreateProjectHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{GasAllocated: creationCost}, nil
}

func (h CreateProjectHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	key, err := h.seq.NextVal(db)
	if err != nil {
		return nil, errors.Wrap(err, "cannot acquire ID")
	}
	project := &Project{
		Name:      msg.Name,
		Creator:   x.MainSigner(ctx, h.auth).Address(),
		Signer:    msg.Signer,
		Admins:    msg.Admins,
		Threshold: msg.Threshold,
	}
	if err := h.bucket.Put(db, key, project); err != nil {
		return nil, errors.Wrap(err, "cannot store project")
	}
	return &custody.DeliverResult{Data: key}, nil
}

func (h CreateProjectHandler) validate(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*CreateProjectMsg, error) {
	var msg CreateProjectMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	conf, err := ledger.LoadConfiguration(db)
	if err != nil {
		return nil, errors.Wrap(err, "load configuration")
	}
	if !h.auth.HasAddress(ctx, conf.Owner) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "not the custody owner")
	}
	if x.MainSigner(ctx, h.auth) == nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}
	return &msg, nil
}

// PayHandler processes a payment authorized off chain by the project
// signer. The funds move from the transaction submitter to the project
// account, fee deducted, and the payment pool grows by the net amount.
type PayHandler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
	ctrl   ledger.Controller
	guard  sigs.ReplayGuard
}

var _ custody.Handler = (*PayHandler)(nil)

func (h PayHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{GasAllocated: paymentCost}, nil
}

func (h PayHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, _, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	req := msg.Request
	if err := h.guard.ConsumePayment(ctx, db, req.ProjectId, req.SerialNo); err != nil {
		return nil, err
	}
	payer := x.MainSigner(ctx, h.auth).Address()
	projAddr := Condition(ProjectKey(req.ProjectId)).Address()
	net, fee, err := h.ctrl.CreditPayment(db, req.ProjectId, projAddr, payer, *req.Amount)
	if err != nil {
		return nil, err
	}

	rec := &TxRecord{
		ProjectId: req.ProjectId,
		Ticker:    req.Amount.Ticker,
		Account:   payer,
		Amount:    &net,
		Fee:       &fee,
		SerialNo:  req.SerialNo,
		TxType:    TxType_PAYMENT,
	}
	tag, err := TxRecordTag(rec)
	if err != nil {
		return nil, err
	}
	return &custody.DeliverResult{Tags: []common.KVPair{tag}}, nil
}

func (h PayHandler) validate(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*PayMsg, *Project, error) {
	var msg PayMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	req := msg.Request
	project, err := LoadProject(db, h.bucket, req.ProjectId)
	if err != nil {
		return nil, nil, err
	}
	if project.Paused {
		return nil, nil, errors.Wrap(errors.ErrState, "project is paused")
	}
	if custody.IsExpired(ctx, req.Deadline) {
		return nil, nil, errors.Wrap(errors.ErrExpired, "request deadline")
	}
	projAddr := Condition(ProjectKey(req.ProjectId)).Address()
	if err := sigs.VerifyPayment(req, msg.Signature, project.Signer, custody.GetChainID(ctx), projAddr); err != nil {
		return nil, nil, err
	}
	used, err := h.guard.PaymentUsed(db, req.ProjectId, req.SerialNo)
	if err != nil {
		return nil, nil, err
	}
	if used {
		return nil, nil, errors.Wrapf(sigs.ErrReplay, "payment serial %d", req.SerialNo)
	}
	if x.MainSigner(ctx, h.auth) == nil {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}
	return &msg, project, nil
}

// WithdrawHandler processes a withdrawal authorized off chain by the
// project signer. The withdrawal fee declared in the message is pulled
// from the submitter into the fee vault and any surplus over the
// configured fee is returned. Only then the funds leave the project
// account.
type WithdrawHandler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
	ctrl   ledger.Controller
	guard  sigs.ReplayGuard
}

var _ custody.Handler = (*WithdrawHandler)(nil)

func (h WithdrawHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{GasAllocated: withdrawalCost}, nil
}

func (h WithdrawHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, conf, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	req := msg.Request
	if err := h.guard.ConsumeWithdrawal(ctx, db, req.ProjectId, req.SerialNo); err != nil {
		return nil, err
	}

	caller := x.MainSigner(ctx, h.auth).Address()
	if !coin.IsEmpty(conf.WithdrawalFee) && conf.WithdrawalFee.IsPositive() {
		if err := h.ctrl.Cash().MoveExact(db, caller, conf.FeeVault, *msg.FeePaid); err != nil {
			return nil, errors.Wrap(err, "collect fee")
		}
		surplus, err := msg.FeePaid.Subtract(*conf.WithdrawalFee)
		if err != nil {
			return nil, errors.Wrap(err, "fee surplus")
		}
		if surplus.IsPositive() {
			if err := h.ctrl.Cash().MoveExact(db, conf.FeeVault, caller, surplus); err != nil {
				return nil, errors.Wrap(err, "return fee surplus")
			}
		}
	}

	projAddr := Condition(ProjectKey(req.ProjectId)).Address()
	if err := h.ctrl.DebitWithdrawal(db, req.ProjectId, projAddr, req.User, *req.Amount); err != nil {
		return nil, err
	}

	rec := &TxRecord{
		ProjectId: req.ProjectId,
		Ticker:    req.Amount.Ticker,
		Account:   req.User,
		Amount:    req.Amount,
		Fee:       conf.WithdrawalFee,
		SerialNo:  req.SerialNo,
		TxType:    TxType_WITHDRAWAL,
	}
	tag, err := TxRecordTag(rec)
	if err != nil {
		return nil, err
	}
	return &custody.DeliverResult{Tags: []common.KVPair{tag}}, nil
}

func (h WithdrawHandler) validate(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*WithdrawMsg, *ledger.Configuration, error) {
	var msg WithdrawMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	req := msg.Request
	project, err := LoadProject(db, h.bucket, req.ProjectId)
	if err != nil {
		return nil, nil, err
	}
	if project.Paused {
		return nil, nil, errors.Wrap(errors.ErrState, "project is paused")
	}
	if custody.IsExpired(ctx, req.Deadline) {
		return nil, nil, errors.Wrap(errors.ErrExpired, "request deadline")
	}
	projAddr := Condition(ProjectKey(req.ProjectId)).Address()
	if err := sigs.VerifyWithdrawal(req, msg.Signature, project.Signer, custody.GetChainID(ctx), projAddr); err != nil {
		return nil, nil, err
	}
	used, err := h.guard.WithdrawalUsed(db, req.ProjectId, req.SerialNo)
	if err != nil {
		return nil, nil, err
	}
	if used {
		return nil, nil, errors.Wrapf(sigs.ErrReplay, "withdrawal serial %d", req.SerialNo)
	}

	conf, err := ledger.LoadConfiguration(db)
	if err != nil {
		return nil, nil, errors.Wrap(err, "load configuration")
	}
	if !coin.IsEmpty(conf.WithdrawalFee) && conf.WithdrawalFee.IsPositive() {
		if msg.FeePaid == nil || !msg.FeePaid.SameType(*conf.WithdrawalFee) {
			return nil, nil, errors.Wrapf(errors.ErrAmount, "fee must be paid in %s", conf.WithdrawalFee.Ticker)
		}
		if !msg.FeePaid.IsGTE(*conf.WithdrawalFee) {
			return nil, nil, errors.Wrapf(errors.ErrAmount, "fee below %s", conf.WithdrawalFee)
		}
	}
	if x.MainSigner(ctx, h.auth) == nil {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}
	return &msg, conf, nil
}

// DepositHandler moves funds from a project admin into the withdrawal
// pool of the project.
type DepositHandler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
	ctrl   ledger.Controller
}

var _ custody.Handler = (*DepositHandler)(nil)

func (h DepositHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{GasAllocated: depositCost}, nil
}

func (h DepositHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, admin, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	projAddr := Condition(ProjectKey(msg.ProjectId)).Address()
	received, err := h.ctrl.Deposit(db, msg.ProjectId, projAddr, admin, *msg.Amount)
	if err != nil {
		return nil, err
	}

	rec := &PoolRecord{
		ProjectId: msg.ProjectId,
		Ticker:    msg.Amount.Ticker,
		Amount:    &received,
		Op:        "deposit",
		Recipient: projAddr,
	}
	tag, err := PoolRecordTag(rec)
	if err != nil {
		return nil, err
	}
	return &custody.DeliverResult{Tags: []common.KVPair{tag}}, nil
}

func (h DepositHandler) validate(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*DepositMsg, custody.Address, error) {
	var msg DepositMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	project, err := LoadProject(db, h.bucket, msg.ProjectId)
	if err != nil {
		return nil, nil, err
	}
	for _, addr := range x.GetAddresses(ctx, h.auth) {
		if project.IsAdmin(addr) {
			return &msg, addr, nil
		}
	}
	return nil, nil, errors.Wrap(errors.ErrUnauthorized, "not a project admin")
}
