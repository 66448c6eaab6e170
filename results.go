package custody

import (
	"github.com/tendermint/tendermint/libs/common"
)

// CheckResult captures any non-error result of a check call,
// to make sure people use error for error cases
type CheckResult struct {
	// Data is a machine-parseable return value, like id of created entity
	Data []byte
	// Log is human-readable informational string
	Log string
	// GasAllocated is the maximum units of work we allow this tx to perform
	GasAllocated int64
	// GasPayment is the total fees for this tx (or other source of payment)
	GasPayment int64
}

// DeliverResult captures any non-error result of executing a transaction,
// to make sure people use error for error cases
type DeliverResult struct {
	// Data is a machine-parseable return value, like id of created entity
	Data []byte
	// Log is human-readable informational string
	Log string
	// Tags are used by external indexers to index and search the
	// transaction history. The canonical transaction record stream and
	// the pool operation stream are emitted here under distinct keys.
	Tags []common.KVPair
	// GasUsed is the units of work this tx performed
	GasUsed int64
}
