package bookstore

import (
	"encoding/base32"
	"strings"
	"time"

	"github.com/google/uuid"
)

// IDGenerator produces a fresh opaque id for a new Book.
type IDGenerator func() BookIDString

// Clock returns the current time used to stamp InsertedAt and UpdatedAt.
type Clock func() time.Time

var compactEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// NewUUIDv4 returns a random UUIDv4 in its canonical 36 character form.
func NewUUIDv4() BookIDString {
	return uuid.NewString()
}

// NewCompactID returns a random UUIDv4 encoded as lowercase base32 without padding.
// The result is 26 characters long and URL-safe.
func NewCompactID() BookIDString {
	id := uuid.New()

	return strings.ToLower(compactEncoding.EncodeToString(id[:]))
}

// SystemClock returns the current wall clock time in UTC.
func SystemClock() time.Time {
	return time.Now().UTC()
}
