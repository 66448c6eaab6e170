package sigs

import "github.com/iov-one/custody/errors"

// ErrReplay is returned when a request serial number was already
// consumed in its namespace.
var ErrReplay = errors.Register(120, "serial already used")
