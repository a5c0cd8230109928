package bookstore

import (
	"errors"
)

var (
	// ErrMissingName is returned when a write does not supply a name.
	ErrMissingName = errors.New("missing name")

	// ErrReadPageExceedsPageCount is returned when readPage is greater than pageCount.
	ErrReadPageExceedsPageCount = errors.New("readPage exceeds pageCount")

	// ErrBookNotFound is returned when no book matches the given id.
	ErrBookNotFound = errors.New("book not found")

	// ErrBookNotInserted is returned when a new book could not be placed into the store.
	ErrBookNotInserted = errors.New("book was not inserted")

	// ErrInvalidBoolFlag is returned when a flag value is neither "0" nor "1".
	ErrInvalidBoolFlag = errors.New("invalid bool flag, expected 0 or 1")
)

var ErrNilIDGenerator = errors.New("nil id generator supplied")
var ErrNilClock = errors.New("nil clock supplied")
var ErrInvalidMaxIDAttempts = errors.New("max id attempts must be at least 1")

// IsValidationError reports whether err is one of the field validation errors.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrMissingName) || errors.Is(err, ErrReadPageExceedsPageCount)
}
