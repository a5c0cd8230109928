// Package helper provides test doubles and fixtures shared by the bookstore tests:
// spies for the observability interfaces, deterministic id generators and a controllable clock.
package helper
