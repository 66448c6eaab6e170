package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"

	custody "github.com/iov-one/custody"
	"github.com/iov-one/custody/custodytest"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/store"
)

type panicHandler struct{}

var _ custody.Handler = panicHandler{}

func (panicHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	panic("check panic")
}

func (panicHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	panic("deliver panic")
}

func TestRecovery(t *testing.T) {
	var (
		ctx custody.Context
		db  = store.MemStore()
		tx  = &custodytest.Tx{}
		r   = NewRecovery()
	)

	_, err := r.Check(ctx, db, tx, panicHandler{})
	assert.True(t, errors.ErrPanic.Is(err))

	_, err = r.Deliver(ctx, db, tx, panicHandler{})
	assert.True(t, errors.ErrPanic.Is(err))
}

func TestRecoveryPassesThrough(t *testing.T) {
	var (
		ctx custody.Context
		db  = store.MemStore()
		tx  = &custodytest.Tx{}
		h   = &custodytest.Handler{}
		r   = NewRecovery()
	)

	_, err := r.Check(ctx, db, tx, h)
	assert.NoError(t, err)
	_, err = r.Deliver(ctx, db, tx, h)
	assert.NoError(t, err)
	assert.Equal(t, 2, h.CallCount())
}
