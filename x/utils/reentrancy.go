package utils

import (
	custody "github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

// ReentrancyGuard refuses to process a transaction while another one
// is already being processed on the same context. Handlers that
// dispatch nested calls must go through a fresh context instead of
// recursing into the processor.
type ReentrancyGuard struct{}

var _ custody.Decorator = ReentrancyGuard{}

// NewReentrancyGuard creates a ReentrancyGuard decorator
func NewReentrancyGuard() ReentrancyGuard {
	return ReentrancyGuard{}
}

// Check refuses nested calls and marks the context as busy
func (ReentrancyGuard) Check(ctx custody.Context, store custody.KVStore, tx custody.Tx, next custody.Checker) (*custody.CheckResult, error) {
	if custody.InCall(ctx) {
		return nil, errors.Wrap(errors.ErrState, "reentrant call")
	}
	return next.Check(custody.WithInCall(ctx), store, tx)
}

// Deliver refuses nested calls and marks the context as busy
func (ReentrancyGuard) Deliver(ctx custody.Context, store custody.KVStore, tx custody.Tx, next custody.Deliverer) (*custody.DeliverResult, error) {
	if custody.InCall(ctx) {
		return nil, errors.Wrap(errors.ErrState, "reentrant call")
	}
	return next.Deliver(custody.WithInCall(ctx), store, tx)
}
