package sigs

import (
	"github.com/iov-one/custody/coin"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/orm"
)

var _ orm.Model = (*UsedSerial)(nil)

func (u *UsedSerial) Validate() error {
	if err := u.UsedAt.Validate(); err != nil {
		return errors.AppendField(nil, "UsedAt", err)
	}
	return nil
}

// Validate ensures the request is complete. It does not check the
// deadline, that is relative to the execution time.
func (r *PaymentRequest) Validate() error {
	var errs error
	if r.ProjectId == 0 {
		errs = errors.AppendField(errs, "ProjectId", errors.ErrEmpty)
	}
	errs = errors.AppendField(errs, "Amount", validAmount(r.Amount))
	if r.SerialNo == 0 {
		errs = errors.AppendField(errs, "SerialNo", errors.ErrEmpty)
	}
	errs = errors.AppendField(errs, "Deadline", r.Deadline.Validate())
	return errs
}

// Validate ensures the request is complete, including the
// beneficiary that the signature is bound to.
func (r *WithdrawalRequest) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "User", r.User.Validate())
	if r.ProjectId == 0 {
		errs = errors.AppendField(errs, "ProjectId", errors.ErrEmpty)
	}
	errs = errors.AppendField(errs, "Amount", validAmount(r.Amount))
	if r.SerialNo == 0 {
		errs = errors.AppendField(errs, "SerialNo", errors.ErrEmpty)
	}
	errs = errors.AppendField(errs, "Deadline", r.Deadline.Validate())
	return errs
}

func validAmount(c *coin.Coin) error {
	if c == nil {
		return errors.ErrEmpty
	}
	if err := c.Validate(); err != nil {
		return err
	}
	if !c.IsPositive() {
		return errors.Wrap(errors.ErrAmount, "must be positive")
	}
	return nil
}
