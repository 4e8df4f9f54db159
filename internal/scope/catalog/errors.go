package catalog

import (
	"errors"
	"fmt"
)

// ErrInvalidData is matched by every DataError
var ErrInvalidData = errors.New("invalid catalog data")

// DataError reports raw catalog input that cannot be indexed.
// Index is the offending record position, or -1 when the payload itself is malformed.
type DataError struct {
	Index int
	Field string
	Err   error
}

func (e *DataError) Error() string {
	switch {
	case e.Index < 0 && e.Err != nil:
		return fmt.Sprintf("invalid catalog data: %v", e.Err)
	case e.Index < 0:
		return "invalid catalog data"
	default:
		return fmt.Sprintf("invalid catalog data: family %d: missing %s", e.Index, e.Field)
	}
}

// Unwrap exposes the underlying decode error, if any
func (e *DataError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrInvalidData) hold for any DataError
func (e *DataError) Is(target error) bool {
	return target == ErrInvalidData
}
