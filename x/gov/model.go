package gov

import (
	"encoding/binary"

	custody "github.com/iov-one/custody"
	"github.com/iov-one/custody/coin"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/orm"
)

// BucketName contains the proposals of all projects.
const BucketName = "props"

var _ orm.Model = (*Proposal)(nil)

// Validate ensures the proposal carries a proposer, a deadline and
// exactly one operation.
func (p *Proposal) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Proposer", p.Proposer.Validate())
	errs = errors.AppendField(errs, "Deadline", p.Deadline.Validate())
	if p.Deadline == 0 {
		errs = errors.AppendField(errs, "Deadline", errors.ErrEmpty)
	}
	errs = errors.AppendField(errs, "Op", p.Op.Validate())
	for _, c := range p.Confirmed {
		if err := c.Validate(); err != nil {
			errs = errors.AppendField(errs, "Confirmed", err)
		}
	}
	return errs
}

// HasConfirmed returns true if the given address already confirmed
// this proposal.
func (p *Proposal) HasConfirmed(addr custody.Address) bool {
	for _, c := range p.Confirmed {
		if c.Equals(addr) {
			return true
		}
	}
	return false
}

// IsOpen returns true if the proposal was neither executed nor
// cancelled. An expired proposal is still open, it just cannot be
// acted upon anymore.
func (p *Proposal) IsOpen() bool {
	return !p.Executed && !p.Cancelled
}

// Validate ensures exactly one operation variant is set and that the
// variant content is complete.
func (op *Operation) Validate() error {
	if op == nil {
		return errors.Wrap(errors.ErrEmpty, "no operation")
	}
	var set int
	var err error
	if o := op.SetSigner; o != nil {
		set++
		err = o.Signer.Validate()
	}
	if o := op.AddAdmin; o != nil {
		set++
		err = o.Admin.Validate()
	}
	if o := op.RemoveAdmin; o != nil {
		set++
		err = o.Admin.Validate()
	}
	if o := op.ChangeThreshold; o != nil {
		set++
		if o.Threshold < 1 {
			err = errors.Wrap(errors.ErrInput, "zero threshold")
		}
	}
	if o := op.AdminWithdraw; o != nil {
		set++
		err = validTransfer(o.Amount, o.Recipient)
	}
	if o := op.WithdrawFromPool; o != nil {
		set++
		err = validTransfer(o.Amount, o.Recipient)
	}
	if op.Pause != nil {
		set++
	}
	if op.Unpause != nil {
		set++
	}
	if o := op.EmergencyWithdraw; o != nil {
		set++
		if !coin.IsCC(o.Ticker) {
			err = errors.Wrapf(errors.ErrCurrency, "invalid ticker: %s", o.Ticker)
		} else {
			err = o.Recipient.Validate()
		}
	}
	switch {
	case set == 0:
		return errors.Wrap(errors.ErrEmpty, "no operation")
	case set > 1:
		return errors.Wrap(errors.ErrInput, "more than one operation")
	}
	return err
}

func validTransfer(amount *coin.Coin, recipient custody.Address) error {
	if amount == nil {
		return errors.Wrap(errors.ErrEmpty, "no amount")
	}
	if err := amount.Validate(); err != nil {
		return err
	}
	if !amount.IsPositive() {
		return errors.Wrap(errors.ErrAmount, "non positive amount")
	}
	return recipient.Validate()
}

// NewProposalBucket returns the bucket storing proposals, keyed by
// project ID and a per project counter.
func NewProposalBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName)
}

// ProposalKey returns the bucket key of a proposal.
func ProposalKey(projectID, proposalID uint64) []byte {
	key := make([]byte, 16)
	binary.BigEndian.PutUint64(key, projectID)
	binary.BigEndian.PutUint64(key[8:], proposalID)
	return key
}

// LoadProposal returns the requested proposal of a project.
func LoadProposal(db custody.ReadOnlyKVStore, bucket orm.ModelBucket, projectID, proposalID uint64) (*Proposal, error) {
	var p Proposal
	if err := bucket.One(db, ProposalKey(projectID, proposalID), &p); err != nil {
		return nil, errors.Wrapf(err, "proposal %d of project %d", proposalID, projectID)
	}
	return &p, nil
}
