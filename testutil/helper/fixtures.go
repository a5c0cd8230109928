package helper

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/AntonStoeckl/bookstore-go/bookstore"
)

// SequentialIDs returns an IDGenerator producing prefix-1, prefix-2, ...
func SequentialIDs(prefix string) bookstore.IDGenerator {
	var counter atomic.Int64

	return func() bookstore.BookIDString {
		return fmt.Sprintf("%s-%d", prefix, counter.Add(1))
	}
}

// RepeatingIDs returns an IDGenerator producing the given ids in order and then repeating the last one forever.
func RepeatingIDs(ids ...bookstore.BookIDString) bookstore.IDGenerator {
	var mu sync.Mutex
	next := 0

	return func() bookstore.BookIDString {
		mu.Lock()
		defer mu.Unlock()

		id := ids[next]
		if next < len(ids)-1 {
			next++
		}

		return id
	}
}

// FakeClock is a controllable bookstore.Clock.
type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFakeClock creates a FakeClock starting at the given time.
func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{now: start}
}

// Now returns the current fake time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

// Advance moves the fake time forward by d and returns the new time.
func (c *FakeClock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)

	return c.now
}

// FixtureBookFields builds valid BookFields with the given name and page data.
func FixtureBookFields(name string, pageCount, readPage int, reading bool) bookstore.BookFields {
	return bookstore.BookFields{
		Name:      bookstore.StringPtr(name),
		Year:      2010,
		Author:    "John Doe",
		Summary:   "Lorem ipsum dolor sit amet",
		Publisher: "Penguin Books",
		PageCount: pageCount,
		ReadPage:  readPage,
		Reading:   reading,
	}
}
