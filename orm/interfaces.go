/*
Package orm provides an easy to use db wrapper

Break state space into prefixed sections called buckets, and keep
all access to one bucket through a ModelBucket that enforces
validation before writing.
*/
package orm

import (
	custody "github.com/iov-one/custody"
)

// Model is implemented by any entity that can be stored using
// ModelBucket.
type Model interface {
	custody.Persistent

	// Validate returns an error if the model is not in a valid state
	// to save to the db (eg. field missing, out of range, ...)
	Validate() error
}
