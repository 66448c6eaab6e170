package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iov-one/custody/custodytest"
	"github.com/iov-one/custody/errors"
)

func TestRouterDispatch(t *testing.T) {
	r := NewRouter()
	registered := &custodytest.Handler{}
	r.Handle(&custodytest.Msg{RoutePath: "test/good"}, registered)

	tx := &custodytest.Tx{Msg: &custodytest.Msg{RoutePath: "test/good"}}
	_, err := r.Check(nil, nil, tx)
	require.NoError(t, err)
	_, err = r.Deliver(nil, nil, tx)
	require.NoError(t, err)
	assert.Equal(t, 2, registered.CallCount())

	tx = &custodytest.Tx{Msg: &custodytest.Msg{RoutePath: "test/missing"}}
	_, err = r.Deliver(nil, nil, tx)
	assert.True(t, errors.ErrNotFound.Is(err))
	assert.Equal(t, 2, registered.CallCount())
}

func TestRouterRejectsInvalidPath(t *testing.T) {
	r := NewRouter()
	assert.Panics(t, func() {
		r.Handle(&custodytest.Msg{RoutePath: "Bad Path!"}, &custodytest.Handler{})
	})
}

func TestRouterRejectsDuplicateRoute(t *testing.T) {
	r := NewRouter()
	r.Handle(&custodytest.Msg{RoutePath: "test/dupe"}, &custodytest.Handler{})
	assert.Panics(t, func() {
		r.Handle(&custodytest.Msg{RoutePath: "test/dupe"}, &custodytest.Handler{})
	})
}
