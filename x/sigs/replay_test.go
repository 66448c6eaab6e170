package sigs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iov-one/custody/custodytest"
	"github.com/iov-one/custody/store"
)

func TestReplayGuardConsume(t *testing.T) {
	db := store.MemStore()
	ctx := custodytest.Context(time.Now())
	guard := NewReplayGuard()
	serial := custodytest.NewSerial()

	used, err := guard.PaymentUsed(db, 1, serial)
	require.NoError(t, err)
	assert.False(t, used)

	require.NoError(t, guard.ConsumePayment(ctx, db, 1, serial))

	used, err = guard.PaymentUsed(db, 1, serial)
	require.NoError(t, err)
	assert.True(t, used)

	err = guard.ConsumePayment(ctx, db, 1, serial)
	assert.True(t, ErrReplay.Is(err))
}

func TestReplayNamespacesAreDisjoint(t *testing.T) {
	db := store.MemStore()
	ctx := custodytest.Context(time.Now())
	guard := NewReplayGuard()

	require.NoError(t, guard.ConsumePayment(ctx, db, 1, 7))

	// the same serial is free in the withdrawal namespace
	require.NoError(t, guard.ConsumeWithdrawal(ctx, db, 1, 7))

	err := guard.ConsumeWithdrawal(ctx, db, 1, 7)
	assert.True(t, ErrReplay.Is(err))
}

func TestReplayScopedPerProject(t *testing.T) {
	db := store.MemStore()
	ctx := custodytest.Context(time.Now())
	guard := NewReplayGuard()

	require.NoError(t, guard.ConsumePayment(ctx, db, 1, 7))
	require.NoError(t, guard.ConsumePayment(ctx, db, 2, 7))

	used, err := guard.PaymentUsed(db, 3, 7)
	require.NoError(t, err)
	assert.False(t, used)
}
