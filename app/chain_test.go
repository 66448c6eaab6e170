package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	custody "github.com/iov-one/custody"
	"github.com/iov-one/custody/custodytest"
	"github.com/iov-one/custody/errors"
)

// countingDecorator passes the call through and counts.
type countingDecorator struct {
	called int
}

var _ custody.Decorator = (*countingDecorator)(nil)

func (d *countingDecorator) Check(ctx custody.Context, store custody.KVStore, tx custody.Tx, next custody.Checker) (*custody.CheckResult, error) {
	d.called++
	return next.Check(ctx, store, tx)
}

func (d *countingDecorator) Deliver(ctx custody.Context, store custody.KVStore, tx custody.Tx, next custody.Deliverer) (*custody.DeliverResult, error) {
	d.called++
	return next.Deliver(ctx, store, tx)
}

// cutDecorator stops the chain with an error.
type cutDecorator struct{}

var _ custody.Decorator = cutDecorator{}

func (cutDecorator) Check(ctx custody.Context, store custody.KVStore, tx custody.Tx, next custody.Checker) (*custody.CheckResult, error) {
	return nil, errors.Wrap(errors.ErrUnauthorized, "cut")
}

func (cutDecorator) Deliver(ctx custody.Context, store custody.KVStore, tx custody.Tx, next custody.Deliverer) (*custody.DeliverResult, error) {
	return nil, errors.Wrap(errors.ErrUnauthorized, "cut")
}

func TestChainDecorators(t *testing.T) {
	var (
		first  countingDecorator
		second countingDecorator
		h      custodytest.Handler
	)
	stack := ChainDecorators(&first, nil, &second).WithHandler(&h)

	_, err := stack.Check(nil, nil, &custodytest.Tx{})
	require.NoError(t, err)
	_, err = stack.Deliver(nil, nil, &custodytest.Tx{})
	require.NoError(t, err)

	assert.Equal(t, 2, first.called)
	assert.Equal(t, 2, second.called)
	assert.Equal(t, 2, h.CallCount())
}

func TestChainCutsBeforeHandler(t *testing.T) {
	var h custodytest.Handler
	stack := ChainDecorators(cutDecorator{}).WithHandler(&h)

	_, err := stack.Deliver(nil, nil, &custodytest.Tx{})
	assert.True(t, errors.ErrUnauthorized.Is(err))
	assert.Equal(t, 0, h.CallCount())
}
