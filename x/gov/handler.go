package gov

import (
	custody "github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/orm"
	"github.com/iov-one/custody/x"
	"github.com/iov-one/custody/x/ledger"
	"github.com/iov-one/custody/x/project"
)

const (
	proposalCost = 200
	confirmCost  = 100
	executeCost  = 250
	cancelCost   = 100
)

// RegisterRoutes will instantiate and register all the handlers in
// this package.
func RegisterRoutes(r custody.Registry, auth x.Authenticator, ctrl ledger.Controller) {
	projects := project.NewProjectBucket()
	proposals := NewProposalBucket()
	r.Handle(&CreateProposalMsg{}, &CreateProposalHandler{
		auth:      auth,
		projects:  projects,
		proposals: proposals,
	})
	r.Handle(&ConfirmProposalMsg{}, &ConfirmProposalHandler{
		auth:      auth,
		projects:  projects,
		proposals: proposals,
	})
	r.Handle(&ExecuteProposalMsg{}, &ExecuteProposalHandler{
		auth:      auth,
		projects:  projects,
		proposals: proposals,
		exec:      executor{ctrl: ctrl},
	})
	r.Handle(&CancelProposalMsg{}, &CancelProposalHandler{
		auth:      auth,
		projects:  projects,
		proposals: proposals,
	})
}

// CreateProposalHandler opens a proposal for an administrative
// operation on a project. The proposer confirms implicitly.
type CreateProposalHandler struct {
	auth      x.Authenticator
	projects  orm.ModelBucket
	proposals orm.ModelBucket
}

var _ custody.Handler = (*CreateProposalHandler)(nil)

func (h CreateProposalHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{GasAllocated: proposalCost}, nil
}

func (h CreateProposalHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, prj, proposer, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	prj.ProposalCount++
	prj.OpenProposals++
	key := ProposalKey(msg.ProjectId, prj.ProposalCount)
	proposal := &Proposal{
		Proposer:  proposer,
		Op:        msg.Op,
		Deadline:  msg.Deadline,
		Confirmed: []custody.Address{proposer},
	}
	if err := h.proposals.Put(db, key, proposal); err != nil {
		return nil, errors.Wrap(err, "cannot store proposal")
	}
	if err := h.projects.Put(db, project.ProjectKey(msg.ProjectId), prj); err != nil {
		return nil, errors.Wrap(err, "cannot update project")
	}
	return &custody.DeliverResult{Data: key}, nil
}

func (h CreateProposalHandler) validate(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*CreateProposalMsg, *project.Project, custody.Address, error) {
	var msg CreateProposalMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, errors.Wrap(err, "load msg")
	}
	prj, err := project.LoadProject(db, h.projects, msg.ProjectId)
	if err != nil {
		return nil, nil, nil, err
	}
	if custody.IsExpired(ctx, msg.Deadline) {
		return nil, nil, nil, errors.Wrap(errors.ErrInput, "deadline in the past")
	}
	proposer, err := adminAddress(ctx, h.auth, prj)
	if err != nil {
		return nil, nil, nil, err
	}
	return &msg, prj, proposer, nil
}

// ConfirmProposalHandler records a confirmation of an open proposal
// by a project admin.
type ConfirmProposalHandler struct {
	auth      x.Authenticator
	projects  orm.ModelBucket
	proposals orm.ModelBucket
}

var _ custody.Handler = (*ConfirmProposalHandler)(nil)

func (h ConfirmProposalHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{GasAllocated: confirmCost}, nil
}

func (h ConfirmProposalHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, proposal, admin, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	proposal.Confirmed = append(proposal.Confirmed, admin)
	key := ProposalKey(msg.ProjectId, msg.ProposalId)
	if err := h.proposals.Put(db, key, proposal); err != nil {
		return nil, errors.Wrap(err, "cannot update proposal")
	}
	return &custody.DeliverResult{}, nil
}

func (h ConfirmProposalHandler) validate(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*ConfirmProposalMsg, *Proposal, custody.Address, error) {
	var msg ConfirmProposalMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, errors.Wrap(err, "load msg")
	}
	prj, err := project.LoadProject(db, h.projects, msg.ProjectId)
	if err != nil {
		return nil, nil, nil, err
	}
	proposal, err := loadActionable(ctx, db, h.proposals, msg.ProjectId, msg.ProposalId)
	if err != nil {
		return nil, nil, nil, err
	}
	admin, err := adminAddress(ctx, h.auth, prj)
	if err != nil {
		return nil, nil, nil, err
	}
	if proposal.HasConfirmed(admin) {
		return nil, nil, nil, errors.Wrap(errors.ErrDuplicate, "already confirmed")
	}
	return &msg, proposal, admin, nil
}

// ExecuteProposalHandler applies the operation of a proposal that
// collected enough confirmations.
type ExecuteProposalHandler struct {
	auth      x.Authenticator
	projects  orm.ModelBucket
	proposals orm.ModelBucket
	exec      executor
}

var _ custody.Handler = (*ExecuteProposalHandler)(nil)

func (h ExecuteProposalHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{GasAllocated: executeCost}, nil
}

func (h ExecuteProposalHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, prj, proposal, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	tags, err := h.exec.apply(db, msg.ProjectId, prj, proposal.Op)
	if err != nil {
		return nil, err
	}
	proposal.Executed = true
	prj.OpenProposals--

	key := ProposalKey(msg.ProjectId, msg.ProposalId)
	if err := h.proposals.Put(db, key, proposal); err != nil {
		return nil, errors.Wrap(err, "cannot update proposal")
	}
	if err := h.projects.Put(db, project.ProjectKey(msg.ProjectId), prj); err != nil {
		return nil, errors.Wrap(err, "cannot update project")
	}
	return &custody.DeliverResult{Tags: tags}, nil
}

func (h ExecuteProposalHandler) validate(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*ExecuteProposalMsg, *project.Project, *Proposal, error) {
	var msg ExecuteProposalMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, errors.Wrap(err, "load msg")
	}
	prj, err := project.LoadProject(db, h.projects, msg.ProjectId)
	if err != nil {
		return nil, nil, nil, err
	}
	proposal, err := loadActionable(ctx, db, h.proposals, msg.ProjectId, msg.ProposalId)
	if err != nil {
		return nil, nil, nil, err
	}
	if _, err := adminAddress(ctx, h.auth, prj); err != nil {
		return nil, nil, nil, err
	}

	// Confirmations of addresses that lost their admin status in the
	// meantime do not count.
	var confirmations int
	for _, c := range proposal.Confirmed {
		if prj.IsAdmin(c) {
			confirmations++
		}
	}
	if confirmations < int(prj.Threshold) {
		return nil, nil, nil, errors.Wrapf(errors.ErrState,
			"%d of %d required confirmations", confirmations, prj.Threshold)
	}
	return &msg, prj, proposal, nil
}

// CancelProposalHandler withdraws an open proposal. Only the proposer
// can cancel, even after the deadline passed.
type CancelProposalHandler struct {
	auth      x.Authenticator
	projects  orm.ModelBucket
	proposals orm.ModelBucket
}

var _ custody.Handler = (*CancelProposalHandler)(nil)

func (h CancelProposalHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{GasAllocated: cancelCost}, nil
}

func (h CancelProposalHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, prj, proposal, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	proposal.Cancelled = true
	prj.OpenProposals--

	key := ProposalKey(msg.ProjectId, msg.ProposalId)
	if err := h.proposals.Put(db, key, proposal); err != nil {
		return nil, errors.Wrap(err, "cannot update proposal")
	}
	if err := h.projects.Put(db, project.ProjectKey(msg.ProjectId), prj); err != nil {
		return nil, errors.Wrap(err, "cannot update project")
	}
	return &custody.DeliverResult{}, nil
}

func (h CancelProposalHandler) validate(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*CancelProposalMsg, *project.Project, *Proposal, error) {
	var msg CancelProposalMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, errors.Wrap(err, "load msg")
	}
	prj, err := project.LoadProject(db, h.projects, msg.ProjectId)
	if err != nil {
		return nil, nil, nil, err
	}
	proposal, err := LoadProposal(db, h.proposals, msg.ProjectId, msg.ProposalId)
	if err != nil {
		return nil, nil, nil, err
	}
	if !proposal.IsOpen() {
		return nil, nil, nil, errors.Wrap(errors.ErrState, "proposal is closed")
	}
	if !h.auth.HasAddress(ctx, proposal.Proposer) {
		return nil, nil, nil, errors.Wrap(errors.ErrUnauthorized, "only the proposer can cancel")
	}
	return &msg, prj, proposal, nil
}

// adminAddress returns the first authenticated address that is an
// admin of the project.
func adminAddress(ctx custody.Context, auth x.Authenticator, prj *project.Project) (custody.Address, error) {
	for _, addr := range x.GetAddresses(ctx, auth) {
		if prj.IsAdmin(addr) {
			return addr, nil
		}
	}
	return nil, errors.Wrap(errors.ErrUnauthorized, "not a project admin")
}

// loadActionable returns an open, not yet expired proposal.
func loadActionable(ctx custody.Context, db custody.ReadOnlyKVStore, bucket orm.ModelBucket, projectID, proposalID uint64) (*Proposal, error) {
	proposal, err := LoadProposal(db, bucket, projectID, proposalID)
	if err != nil {
		return nil, err
	}
	if !proposal.IsOpen() {
		return nil, errors.Wrap(errors.ErrState, "proposal is closed")
	}
	if custody.IsExpired(ctx, proposal.Deadline) {
		return nil, errors.Wrap(errors.ErrExpired, "proposal deadline")
	}
	return proposal, nil
}
