package errors

import (
	"strings"
)

// Append clubs together all provided errors. Nil values are ignored.
//
// If given errors do not contain any error instance (all nil) then this
// function returns nil, so it is safe to chain calls regardless of the
// outcome.
func Append(errs ...error) error {
	var res multiError
	for _, e := range errs {
		if isNilErr(e) {
			continue
		}
		if m, ok := e.(multiError); ok {
			res = append(res, m...)
		} else {
			res = append(res, e)
		}
	}
	if len(res) == 0 {
		return nil
	}
	return res
}

// multiError represents a group of errors. It is the result of combining
// several errors into one.
type multiError []error

var _ unpacker = (multiError)(nil)

func (e multiError) Error() string {
	switch len(e) {
	case 0:
		return "<nil>"
	case 1:
		return e[0].Error()
	}
	descs := make([]string, len(e))
	for i, err := range e {
		descs[i] = err.Error()
	}
	return strings.Join(descs, "; ")
}

// Unpack returns all errors that this group contains.
func (e multiError) Unpack() []error {
	return e
}

// unpacker is implemented by errors that represent a group of errors.
type unpacker interface {
	Unpack() []error
}
