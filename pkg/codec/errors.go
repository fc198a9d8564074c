package codec

import (
	"errors"
	"fmt"
)

// Sentinel decode failure kinds, matchable with errors.Is.
var (
	// ErrTruncated marks input whose body is shorter than the record count
	// declared in the header.
	ErrTruncated = errors.New("truncated model data")
	// ErrMalformed marks input too short to hold a header.
	ErrMalformed = errors.New("malformed model data")
)

// DecodeError describes why a byte buffer could not be decoded into a table.
type DecodeError struct {
	Kind   error
	Detail string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%v: %s", e.Kind, e.Detail)
}

func (e *DecodeError) Unwrap() error {
	return e.Kind
}
