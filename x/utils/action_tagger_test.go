package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	custody "github.com/iov-one/custody"
	"github.com/iov-one/custody/custodytest"
	"github.com/iov-one/custody/store"
)

func TestActionTagger(t *testing.T) {
	var (
		db = store.MemStore()
		tx = &custodytest.Tx{Msg: &custodytest.Msg{RoutePath: "test/mymsg"}}
		h  = &custodytest.Handler{}
		a  = NewActionTagger()
	)

	res, err := a.Deliver(nil, db, tx, h)
	require.NoError(t, err)
	require.Len(t, res.Tags, 1)
	assert.Equal(t, []byte(ActionKey), res.Tags[0].Key)
	assert.Equal(t, []byte("test/mymsg"), res.Tags[0].Value)
}

func TestReentrancyGuard(t *testing.T) {
	var (
		db  = store.MemStore()
		tx  = &custodytest.Tx{}
		h   = &custodytest.Handler{}
		g   = NewReentrancyGuard()
		ctx = custodytest.Context(time.Now())
	)

	_, err := g.Deliver(ctx, db, tx, h)
	require.NoError(t, err)
	assert.Equal(t, 1, h.DeliverCallCount())

	// a context already inside a call must be refused
	busy := custody.WithInCall(ctx)
	_, err = g.Deliver(busy, db, tx, h)
	require.Error(t, err)
	assert.Equal(t, 1, h.DeliverCallCount())
}
