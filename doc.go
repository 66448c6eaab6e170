/*
Package custody defines the common interfaces that tie the custody engine
together, as well as implementations of some of the simpler components
(when interfaces would be too much overhead).

The engine custodies funds for many projects and releases them only under
one of two authorization paths: a user request signed by the project's
designated signer, or a multi-admin proposal that reached its confirmation
threshold. All state lives in a KVStore. Every state changing call is a Msg
wrapped in a Tx, dispatched through a decorator chain to a Handler, and
runs against a cache-wrapped store so that any failure discards all of the
call's writes.

We pass context through context.Context between the processor, middleware,
and handlers. The root package defines common keys to store info, such as
block time and chain id. There should exist two functions for every XYZ of
type T that we want to support in Context:

	WithXYZ(Context, T) Context
	GetXYZ(Context) (val T, ok bool)
*/
package custody
