package gov

import (
	custody "github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

const (
	pathCreateProposal  = "gov/create"
	pathConfirmProposal = "gov/confirm"
	pathExecuteProposal = "gov/execute"
	pathCancelProposal  = "gov/cancel"
)

var (
	_ custody.Msg = (*CreateProposalMsg)(nil)
	_ custody.Msg = (*ConfirmProposalMsg)(nil)
	_ custody.Msg = (*ExecuteProposalMsg)(nil)
	_ custody.Msg = (*CancelProposalMsg)(nil)
)

// Path fulfills custody.Msg interface to allow routing
func (CreateProposalMsg) Path() string {
	return pathCreateProposal
}

// Validate enforces a project reference, an operation and a deadline
func (m *CreateProposalMsg) Validate() error {
	var errs error
	if m.ProjectId == 0 {
		errs = errors.AppendField(errs, "ProjectId", errors.ErrEmpty)
	}
	errs = errors.AppendField(errs, "Op", m.Op.Validate())
	errs = errors.AppendField(errs, "Deadline", m.Deadline.Validate())
	if m.Deadline == 0 {
		errs = errors.AppendField(errs, "Deadline", errors.ErrEmpty)
	}
	return errs
}

// Path fulfills custody.Msg interface to allow routing
func (ConfirmProposalMsg) Path() string {
	return pathConfirmProposal
}

// Validate enforces a proposal reference
func (m *ConfirmProposalMsg) Validate() error {
	return validProposalRef(m.ProjectId, m.ProposalId)
}

// Path fulfills custody.Msg interface to allow routing
func (ExecuteProposalMsg) Path() string {
	return pathExecuteProposal
}

// Validate enforces a proposal reference
func (m *ExecuteProposalMsg) Validate() error {
	return validProposalRef(m.ProjectId, m.ProposalId)
}

// Path fulfills custody.Msg interface to allow routing
func (CancelProposalMsg) Path() string {
	return pathCancelProposal
}

// Validate enforces a proposal reference
func (m *CancelProposalMsg) Validate() error {
	return validProposalRef(m.ProjectId, m.ProposalId)
}

func validProposalRef(projectID, proposalID uint64) error {
	var errs error
	if projectID == 0 {
		errs = errors.AppendField(errs, "ProjectId", errors.ErrEmpty)
	}
	if proposalID == 0 {
		errs = errors.AppendField(errs, "ProposalId", errors.ErrEmpty)
	}
	return errs
}
