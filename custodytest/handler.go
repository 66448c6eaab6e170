package custodytest

import (
	custody "github.com/iov-one/custody"
)

// Handler implements custody.Handler interface. It counts received
// calls and returns configured results, which makes it useful for
// testing decorators and routing.
type Handler struct {
	checkCall   int
	deliverCall int

	// CheckResult is returned by every Check call.
	CheckResult custody.CheckResult
	// CheckErr if set is returned by every Check call.
	CheckErr error
	// DeliverResult is returned by every Deliver call.
	DeliverResult custody.DeliverResult
	// DeliverErr if set is returned by every Deliver call.
	DeliverErr error
}

var _ custody.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	h.checkCall++
	res := h.CheckResult
	return &res, h.CheckErr
}

func (h *Handler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	h.deliverCall++
	res := h.DeliverResult
	return &res, h.DeliverErr
}

// CheckCallCount returns the number of times Check was called.
func (h *Handler) CheckCallCount() int {
	return h.checkCall
}

// DeliverCallCount returns the number of times Deliver was called.
func (h *Handler) DeliverCallCount() int {
	return h.deliverCall
}

// CallCount returns the total number of calls received.
func (h *Handler) CallCount() int {
	return h.checkCall + h.deliverCall
}
