/*
Package errors implements custom error interfaces for the custody engine.

The package is built around the idea of a registered root error. Each
error category exists as a singleton instance, created via a Register
call during package initialization. During the runtime, new errors are
created by wrapping a root error with a description. Wrapping keeps the
root cause testable with the Is method while attaching context and a
stack trace.
*/
package errors
