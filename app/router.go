package app

import (
	"fmt"
	"regexp"

	custody "github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

// isPath defines the format of the routing paths, for example
// "project/create".
var isPath = regexp.MustCompile(`^[a-z]+(/[a-z_]+)?$`).MatchString

// Router maintains a mapping of message paths to handlers. It
// implements both the registration and the dispatch side.
type Router struct {
	routes map[string]custody.Handler
}

var _ custody.Registry = (*Router)(nil)
var _ custody.Handler = (*Router)(nil)

// NewRouter initializes a router with no routes
func NewRouter() *Router {
	return &Router{
		routes: make(map[string]custody.Handler),
	}
}

// Handle implements registry interface. This panics if a handler is
// already registered for the path of the given message, because
// this is a configuration error of the application.
func (r *Router) Handle(m custody.Msg, h custody.Handler) {
	path := m.Path()
	if !isPath(path) {
		panic(fmt.Sprintf("invalid path: %q", path))
	}
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("re-registering route: %q", path))
	}
	r.routes[path] = h
}

// handler returns the registered Handler of the path, or a notFound
// stub that errors out every call.
func (r *Router) handler(m custody.Msg) custody.Handler {
	path := m.Path()
	if h, ok := r.routes[path]; ok {
		return h
	}
	return notFoundHandler(path)
}

// Check dispatches to the proper handler based on the message path
func (r *Router) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load msg")
	}
	return r.handler(msg).Check(ctx, db, tx)
}

// Deliver dispatches to the proper handler based on the message path
func (r *Router) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load msg")
	}
	return r.handler(msg).Deliver(ctx, db, tx)
}

type notFoundHandler string

var _ custody.Handler = notFoundHandler("")

func (path notFoundHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", string(path))
}

func (path notFoundHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", string(path))
}
