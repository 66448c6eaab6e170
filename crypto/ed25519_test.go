package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndVerify(t *testing.T) {
	priv := GenPrivKey()
	pub := priv.PublicKey()
	require.NoError(t, pub.Validate())

	msg := []byte("pay 100 IOV to project 3")
	sig, err := priv.Sign(msg)
	require.NoError(t, err)

	assert.True(t, pub.Verify(msg, sig))
	assert.False(t, pub.Verify([]byte("pay 999 IOV to project 3"), sig))
	assert.False(t, pub.Verify(msg, &Signature{Ed25519: []byte("garbage")}))
	assert.False(t, pub.Verify(msg, nil))

	// a different key must not verify
	other := GenPrivKey().PublicKey()
	assert.False(t, other.Verify(msg, sig))
}

func TestPrivKeyFromSeedDeterministic(t *testing.T) {
	seed := make([]byte, 32)
	copy(seed, "custody-test-seed")

	a := PrivKeyFromSeed(seed)
	b := PrivKeyFromSeed(seed)
	assert.Equal(t, a.Ed25519, b.Ed25519)

	sig, err := a.Sign([]byte("msg"))
	require.NoError(t, err)
	assert.True(t, b.PublicKey().Verify([]byte("msg"), sig))
}

func TestCondition(t *testing.T) {
	pub := GenPrivKey().PublicKey()
	cond := pub.Condition()
	require.NoError(t, cond.Validate())
	assert.Equal(t, cond.Address(), pub.Address())
	assert.Len(t, pub.Address(), 20)
}
