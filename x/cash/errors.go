package cash

import "github.com/iov-one/custody/errors"

// ErrTransfer is returned when a token transfer cannot be settled as
// requested: insufficient funds, nothing received, or a taxed token
// where an exact transfer was required.
var ErrTransfer = errors.Register(121, "transfer failed")
