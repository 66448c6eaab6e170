package x

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	custody "github.com/iov-one/custody"
	"github.com/iov-one/custody/custodytest"
)

func TestChainAuth(t *testing.T) {
	var (
		a   = custodytest.NewCondition(1)
		b   = custodytest.NewCondition(2)
		c   = custodytest.NewCondition(3)
		ctx = custodytest.Context(time.Now())
	)
	auth := ChainAuth(
		&custodytest.Auth{Signer: a},
		&custodytest.Auth{Signer: b},
	)

	assert.True(t, auth.HasAddress(ctx, a.Address()))
	assert.True(t, auth.HasAddress(ctx, b.Address()))
	assert.False(t, auth.HasAddress(ctx, c.Address()))

	assert.Equal(t, a, MainSigner(ctx, auth))
	assert.Len(t, GetAddresses(ctx, auth), 2)
}

func TestHasNAddresses(t *testing.T) {
	var (
		a   = custodytest.NewCondition(1)
		b   = custodytest.NewCondition(2)
		c   = custodytest.NewCondition(3)
		ctx = custodytest.Context(time.Now())
	)
	auth := &custodytest.Auth{Signers: []custody.Condition{a, b}}

	required := []custody.Address{a.Address(), b.Address(), c.Address()}
	assert.True(t, HasNAddresses(ctx, auth, required, 2))
	assert.False(t, HasNAddresses(ctx, auth, required, 3))
	assert.False(t, HasAllAddresses(ctx, auth, required))
	assert.True(t, HasAllAddresses(ctx, auth, required[:2]))
}

func TestMainSignerEmpty(t *testing.T) {
	ctx := custodytest.Context(time.Now())
	assert.Nil(t, MainSigner(ctx, &custodytest.Auth{}))
}
