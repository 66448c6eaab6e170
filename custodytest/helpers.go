package custodytest

import (
	"context"
	"encoding/binary"
	"time"

	custody "github.com/iov-one/custody"
	"github.com/iov-one/custody/crypto"
)

// NewCondition returns a deterministic condition, distinct for every
// index. Use it whenever a test needs an identity without caring
// about the key material behind it.
func NewCondition(index int) custody.Condition {
	data := make([]byte, 8)
	binary.BigEndian.PutUint64(data, uint64(index))
	return custody.NewCondition("test", "cond", data)
}

// NewKey returns a deterministic private key, distinct for every
// index.
func NewKey(index int) *crypto.PrivateKey {
	seed := make([]byte, 32)
	binary.BigEndian.PutUint64(seed, uint64(index))
	return crypto.PrivKeyFromSeed(seed)
}

// Context returns a context populated with a chain ID and a block
// time, as every handler expects from the processor.
func Context(blockTime time.Time) custody.Context {
	ctx := custody.WithChainID(context.Background(), "testchain-1")
	return custody.WithBlockTime(ctx, blockTime)
}
