package custody

import (
	"reflect"

	"github.com/iov-one/custody/errors"
)

// Marshaller is anything that can be represented in binary
//
// Marshall may validate the data before serializing it and
// unless you previously validated the struct,
// errors should be expected.
type Marshaller interface {
	Marshal() ([]byte, error)
}

// Persistent supports Marshal and Unmarshal
//
// This is separated from Marshal, as this almost always requires
// a pointer, and functions that only need to marshal bytes can
// use the Marshaller interface to access non-pointers.
//
// As with Marshaller, this may do internal validation on the data
// and errors should be expected.
type Persistent interface {
	Marshaller
	Unmarshal([]byte) error
}

// Msg is a request to make a state transition. It is just the request, and
// must be validated by the Handlers. All authentication information is in
// the wrapping Tx.
type Msg interface {
	Persistent

	// Validate performs a sanity check of the message content. It must
	// not access any external state, only the message fields.
	Validate() error

	// Path returns the message path.
	// This is used by the Router to locate the proper Handler.
	// Msg should be created alongside the Handler that corresponds to
	// them.
	//
	// Must be alphanumeric [0-9A-Za-z_\-/]+
	Path() string
}

// Tx represents the data sent from the user to the engine.
// It includes the actual message, along with information needed
// to pass through middleware.
type Tx interface {
	Persistent

	// GetMsg returns the action we wish to communicate
	GetMsg() (Msg, error)
}

// GetPath returns the path of the message, or (missing) if no message
func GetPath(tx Tx) string {
	msg, err := tx.GetMsg()
	if err == nil && msg != nil {
		return msg.Path()
	}
	return "(missing)"
}

// LoadMsg extracts the message from the transaction, ensures its type and
// validates it. The result is written into the destination, which must be
// a non nil message pointer of the right type.
func LoadMsg(tx Tx, destination Msg) error {
	msg, err := tx.GetMsg()
	if err != nil {
		return errors.Wrap(err, "cannot get message")
	}

	dstType := reflect.TypeOf(destination)
	if dstType.Kind() != reflect.Ptr {
		return errors.Wrap(errors.ErrType, "destination must be a pointer")
	}
	if !reflect.TypeOf(msg).AssignableTo(dstType) {
		return errors.Wrapf(errors.ErrType, "want %T, got %T", destination, msg)
	}
	reflect.ValueOf(destination).Elem().Set(reflect.ValueOf(msg).Elem())

	if err := destination.Validate(); err != nil {
		return errors.Wrap(err, "invalid message")
	}
	return nil
}
