package project

import (
	custody "github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

const (
	pathCreateProject = "project/create"
	pathPay           = "project/pay"
	pathWithdraw      = "project/withdraw"
	pathDeposit       = "project/deposit"
)

var (
	_ custody.Msg = (*CreateProjectMsg)(nil)
	_ custody.Msg = (*PayMsg)(nil)
	_ custody.Msg = (*WithdrawMsg)(nil)
	_ custody.Msg = (*DepositMsg)(nil)
)

// Path fulfills custody.Msg interface to allow routing
func (CreateProjectMsg) Path() string {
	return pathCreateProject
}

// Validate enforces name, signer and admin/threshold constraints
func (m *CreateProjectMsg) Validate() error {
	var errs error
	if m.Name == "" {
		errs = errors.AppendField(errs, "Name", errors.ErrEmpty)
	}
	errs = errors.AppendField(errs, "Signer", m.Signer.Validate())
	if len(m.Admins) == 0 {
		errs = errors.AppendField(errs, "Admins", errors.ErrEmpty)
	}
	for _, a := range m.Admins {
		if err := a.Validate(); err != nil {
			errs = errors.AppendField(errs, "Admins", err)
		}
	}
	if m.Threshold < 1 || int(m.Threshold) > len(m.Admins) {
		errs = errors.AppendField(errs, "Threshold",
			errors.Wrapf(errors.ErrInput, "threshold %d with %d admins", m.Threshold, len(m.Admins)))
	}
	return errs
}

// Path fulfills custody.Msg interface to allow routing
func (PayMsg) Path() string {
	return pathPay
}

// Validate ensures a complete request and signature. Everything that
// needs state (deadline, signer, serial) is checked by the handler.
func (m *PayMsg) Validate() error {
	var errs error
	if m.Request == nil {
		errs = errors.AppendField(errs, "Request", errors.ErrEmpty)
	} else {
		errs = errors.AppendField(errs, "Request", m.Request.Validate())
	}
	if m.Signature == nil {
		errs = errors.AppendField(errs, "Signature", errors.ErrEmpty)
	}
	return errs
}

// Path fulfills custody.Msg interface to allow routing
func (WithdrawMsg) Path() string {
	return pathWithdraw
}

// Validate ensures a complete request and signature.
func (m *WithdrawMsg) Validate() error {
	var errs error
	if m.Request == nil {
		errs = errors.AppendField(errs, "Request", errors.ErrEmpty)
	} else {
		errs = errors.AppendField(errs, "Request", m.Request.Validate())
	}
	if m.Signature == nil {
		errs = errors.AppendField(errs, "Signature", errors.ErrEmpty)
	}
	if m.FeePaid != nil {
		if err := m.FeePaid.Validate(); err != nil {
			errs = errors.AppendField(errs, "FeePaid", err)
		} else if !m.FeePaid.IsNonNegative() {
			errs = errors.AppendField(errs, "FeePaid", errors.ErrAmount)
		}
	}
	return errs
}

// Path fulfills custody.Msg interface to allow routing
func (DepositMsg) Path() string {
	return pathDeposit
}

// Validate enforces a target project and a positive amount
func (m *DepositMsg) Validate() error {
	var errs error
	if m.ProjectId == 0 {
		errs = errors.AppendField(errs, "ProjectId", errors.ErrEmpty)
	}
	switch {
	case m.Amount == nil:
		errs = errors.AppendField(errs, "Amount", errors.ErrEmpty)
	case m.Amount.Validate() != nil:
		errs = errors.AppendField(errs, "Amount", m.Amount.Validate())
	case !m.Amount.IsPositive():
		errs = errors.AppendField(errs, "Amount", errors.Wrap(errors.ErrAmount, "must be positive"))
	}
	return errs
}
