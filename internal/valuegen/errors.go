package valuegen

import (
	"errors"

	"github.com/mmrzaf/colgen/internal/schema"
)

// ErrUnsupportedType matches every UnsupportedTypeError via errors.Is.
var ErrUnsupportedType = errors.New("unsupported type")

// UnsupportedTypeError reports a type code outside the generated set. It is a
// schema error and is never worth retrying.
type UnsupportedTypeError struct {
	Type schema.Type
	Err  error
}

func (e *UnsupportedTypeError) Error() string {
	msg := "unexpected type " + e.Type.String()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *UnsupportedTypeError) Is(target error) bool {
	return target == ErrUnsupportedType
}

func (e *UnsupportedTypeError) Unwrap() error {
	return e.Err
}
