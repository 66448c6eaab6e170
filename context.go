package custody

import (
	"context"
	"regexp"
	"time"

	"github.com/iov-one/custody/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// Context is just a shortcut for the standard implementation. All
// processor, middleware and handler code accepts it as the first argument.
type Context = context.Context

// DefaultLogger is used for all context that have not
// set anything themselves
var DefaultLogger = log.NewNopLogger()

// IsValidChainID is the RegExp to ensure valid chain IDs
var IsValidChainID = regexp.MustCompile(`^[a-zA-Z0-9_\-]{6,20}$`).MatchString

type contextKey int

const (
	contextKeyChainID contextKey = iota
	contextKeyBlockTime
	contextKeyLogger
	contextKeyInCall
)

// WithChainID sets the chain id for the Context.
// Panics if the chain id was already set or is invalid.
func WithChainID(ctx Context, chainID string) Context {
	if ctx.Value(contextKeyChainID) != nil {
		panic("chain id already set")
	}
	if !IsValidChainID(chainID) {
		panic("invalid chain id: " + chainID)
	}
	return context.WithValue(ctx, contextKeyChainID, chainID)
}

// GetChainID returns the chain id from the context. It panics when the
// chain id is not present, as that means the processor was wired wrong.
func GetChainID(ctx Context) string {
	val, _ := ctx.Value(contextKeyChainID).(string)
	if val == "" {
		panic("chain id is not in the context")
	}
	return val
}

// WithBlockTime sets the block time for the Context. The block time is the
// only clock visible to handlers and must be monotonically increasing.
func WithBlockTime(ctx Context, t time.Time) Context {
	return context.WithValue(ctx, contextKeyBlockTime, t)
}

// BlockTime returns the block time declared for this execution.
func BlockTime(ctx Context) (time.Time, error) {
	val, ok := ctx.Value(contextKeyBlockTime).(time.Time)
	if !ok {
		return time.Time{}, errors.Wrap(errors.ErrHuman, "block time not present in the context")
	}
	return val, nil
}

// IsExpired returns true if given time is in the past as compared to the
// "now" as declared for the execution. Expiration is inclusive, meaning
// that if current time is equal to the expiration time than this function
// returns true.
//
// This function panics if the block time is not present in the context.
func IsExpired(ctx Context, t UnixTime) bool {
	now, err := BlockTime(ctx)
	if err != nil {
		panic(err)
	}
	return t <= AsUnixTime(now)
}

// WithLogger sets the logger this context will carry.
func WithLogger(ctx Context, logger log.Logger) Context {
	return context.WithValue(ctx, contextKeyLogger, logger)
}

// GetLogger returns the logger stored in the context, or the DefaultLogger.
func GetLogger(ctx Context) log.Logger {
	if logger, ok := ctx.Value(contextKeyLogger).(log.Logger); ok {
		return logger
	}
	return DefaultLogger
}

// WithInCall marks the context as being inside a money moving call. Used by
// the reentrancy guard to refuse nested dispatch.
func WithInCall(ctx Context) Context {
	return context.WithValue(ctx, contextKeyInCall, true)
}

// InCall returns true if this context is already inside a money moving
// call.
func InCall(ctx Context) bool {
	val, _ := ctx.Value(contextKeyInCall).(bool)
	return val
}
