package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegisterDuplicateCodePanics(t *testing.T) {
	assert.Panics(t, func() {
		Register(2, "duplicate of ErrUnauthorized")
	})
}

func TestErrIs(t *testing.T) {
	cases := map[string]struct {
		kind    *Error
		err     error
		wantIs  bool
	}{
		"instance of the same root": {
			kind:   ErrState,
			err:    ErrState,
			wantIs: true,
		},
		"wrapped root": {
			kind:   ErrState,
			err:    Wrap(ErrState, "paused"),
			wantIs: true,
		},
		"deeply wrapped root": {
			kind:   ErrExpired,
			err:    Wrap(Wrap(ErrExpired, "deadline"), "request"),
			wantIs: true,
		},
		"different root": {
			kind:   ErrState,
			err:    Wrap(ErrUnauthorized, "bad signature"),
			wantIs: false,
		},
		"nil error": {
			kind:   ErrState,
			err:    nil,
			wantIs: false,
		},
		"stdlib error": {
			kind:   ErrState,
			err:    fmt.Errorf("invalid state"),
			wantIs: false,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.wantIs, tc.kind.Is(tc.err))
		})
	}
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, "no error here"))
	assert.Nil(t, Wrapf(nil, "no error %s", "here"))
}

func TestWrapMessage(t *testing.T) {
	err := Wrap(ErrAmount, "insufficient fee")
	assert.Equal(t, "insufficient fee: invalid amount", err.Error())
}

func TestRecover(t *testing.T) {
	var err error
	func() {
		defer Recover(&err)
		panic("boom")
	}()
	assert.True(t, ErrPanic.Is(err))
}

func TestAppend(t *testing.T) {
	assert.Nil(t, Append(nil, nil))

	err := Append(nil, Wrap(ErrState, "first"), nil, Wrap(ErrAmount, "second"))
	assert.True(t, ErrState.Is(FieldErrorsAll(err)[0]))
	assert.Contains(t, err.Error(), "first")
	assert.Contains(t, err.Error(), "second")
}

// FieldErrorsAll is a test helper returning all grouped errors.
func FieldErrorsAll(err error) []error {
	if u, ok := err.(unpacker); ok {
		return u.Unpack()
	}
	return []error{err}
}

func TestFieldErrors(t *testing.T) {
	var errs error
	errs = AppendField(errs, "Threshold", ErrMsg)
	errs = AppendField(errs, "Admins", ErrEmpty)

	found := FieldErrors(errs, "Threshold")
	assert.Len(t, found, 1)
	assert.True(t, ErrMsg.Is(found[0]))

	assert.Empty(t, FieldErrors(errs, "Signer"))
}
