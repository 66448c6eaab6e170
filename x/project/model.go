package project

import (
	"encoding/binary"

	custody "github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/orm"
)

// BucketName is where we store the projects
const BucketName = "prjs"

var _ orm.Model = (*Project)(nil)

// Validate enforces the structural invariants of a project: a valid
// signer, at least one admin, and a threshold the admin set can
// satisfy.
func (p *Project) Validate() error {
	var errs error
	if p.Name == "" {
		errs = errors.AppendField(errs, "Name", errors.ErrEmpty)
	}
	errs = errors.AppendField(errs, "Creator", p.Creator.Validate())
	errs = errors.AppendField(errs, "Signer", p.Signer.Validate())
	if len(p.Admins) == 0 {
		errs = errors.AppendField(errs, "Admins", errors.ErrEmpty)
	}
	for _, a := range p.Admins {
		if err := a.Validate(); err != nil {
			errs = errors.AppendField(errs, "Admins", err)
		}
	}
	if p.Threshold < 1 || int(p.Threshold) > len(p.Admins) {
		errs = errors.AppendField(errs, "Threshold",
			errors.Wrapf(errors.ErrInput, "threshold %d with %d admins", p.Threshold, len(p.Admins)))
	}
	return errs
}

// IsAdmin returns true if the address belongs to the admin set.
func (p *Project) IsAdmin(addr custody.Address) bool {
	for _, a := range p.Admins {
		if a.Equals(addr) {
			return true
		}
	}
	return false
}

// Condition returns the identity of the project with the given ID,
// the owner of the custodied funds.
func Condition(id []byte) custody.Condition {
	return custody.NewCondition("project", "seq", id)
}

// ProjectKey returns the bucket key of a project ID.
func ProjectKey(id uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, id)
	return key
}

// NewProjectBucket returns the bucket storing projects, keyed by the
// sequence issued ID.
func NewProjectBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName)
}

// NewProjectSeq returns the sequence issuing project IDs.
func NewProjectSeq() orm.Sequence {
	return orm.NewSequence(BucketName, "id")
}

// LoadProject returns the project with the given ID.
func LoadProject(db custody.ReadOnlyKVStore, bucket orm.ModelBucket, id uint64) (*Project, error) {
	var p Project
	if err := bucket.One(db, ProjectKey(id), &p); err != nil {
		return nil, errors.Wrapf(err, "project %d", id)
	}
	return &p, nil
}
