package bookstore

import (
	"strings"
)

/***** BoolFlag *****/

// BoolFlag is a tri-state filter value for boolean book fields.
type BoolFlag int

const (
	// FlagUnset imposes no constraint.
	FlagUnset BoolFlag = iota

	// FlagFalse matches books where the field is false.
	FlagFalse

	// FlagTrue matches books where the field is true.
	FlagTrue
)

// ParseBoolFlag maps the raw query value of a boolean filter to a BoolFlag.
//
// Accepted values:
//   - "" -> FlagUnset
//   - "0" -> FlagFalse
//   - "1" -> FlagTrue
//
// Any other value returns FlagUnset together with ErrInvalidBoolFlag.
func ParseBoolFlag(raw string) (BoolFlag, error) {
	switch strings.TrimSpace(raw) {
	case "":
		return FlagUnset, nil
	case "0":
		return FlagFalse, nil
	case "1":
		return FlagTrue, nil
	default:
		return FlagUnset, ErrInvalidBoolFlag
	}
}

// IsSet reports whether the flag constrains anything.
func (f BoolFlag) IsSet() bool {
	return f == FlagFalse || f == FlagTrue
}

// Matches reports whether v satisfies the flag. An unset flag matches everything.
func (f BoolFlag) Matches(v bool) bool {
	switch f {
	case FlagFalse:
		return !v
	case FlagTrue:
		return v
	default:
		return true
	}
}

// String returns the query representation of the flag.
func (f BoolFlag) String() string {
	switch f {
	case FlagFalse:
		return "0"
	case FlagTrue:
		return "1"
	default:
		return ""
	}
}

/***** ListFilter *****/

// ListFilter holds the criteria of a list operation. All set criteria must match (AND).
// The zero value matches every book.
type ListFilter struct {
	nameContains string
	reading      BoolFlag
	finished     BoolFlag
}

// NameContains returns the lowercased name substring, "" if unset.
func (f ListFilter) NameContains() string {
	return f.nameContains
}

// Reading returns the reading flag.
func (f ListFilter) Reading() BoolFlag {
	return f.reading
}

// Finished returns the finished flag.
func (f ListFilter) Finished() BoolFlag {
	return f.finished
}

// IsEmpty reports whether the filter imposes no constraint at all.
func (f ListFilter) IsEmpty() bool {
	return f.nameContains == "" && !f.reading.IsSet() && !f.finished.IsSet()
}

// Matches reports whether the book satisfies all criteria of the filter.
func (f ListFilter) Matches(book Book) bool {
	if f.nameContains != "" && !strings.Contains(strings.ToLower(book.Name), f.nameContains) {
		return false
	}

	if !f.reading.Matches(book.Reading) {
		return false
	}

	return f.finished.Matches(book.Finished)
}

/***** ListFilterBuilder *****/

// ListFilterBuilder builds a ListFilter. Every criterion is optional, calling a method twice overwrites the first value.
type ListFilterBuilder interface {
	// WithNameContaining adds a case-insensitive substring match on the name.
	// An empty name imposes no constraint.
	WithNameContaining(name string) ListFilterBuilder

	// WithReading adds a constraint on the reading field.
	WithReading(flag BoolFlag) ListFilterBuilder

	// WithFinished adds a constraint on the derived finished field.
	WithFinished(flag BoolFlag) ListFilterBuilder

	// Finalize returns the ListFilter.
	Finalize() ListFilter
}

// listFilterBuilder implements ListFilterBuilder
type listFilterBuilder struct {
	filter ListFilter
}

// BuildListFilter creates a ListFilterBuilder which must eventually be finalized with Finalize().
func BuildListFilter() ListFilterBuilder {
	return listFilterBuilder{}
}

// WithNameContaining adds a case-insensitive substring match on the name.
func (fb listFilterBuilder) WithNameContaining(name string) ListFilterBuilder {
	fb.filter.nameContains = strings.ToLower(name)

	return fb
}

// WithReading adds a constraint on the reading field.
func (fb listFilterBuilder) WithReading(flag BoolFlag) ListFilterBuilder {
	fb.filter.reading = flag

	return fb
}

// WithFinished adds a constraint on the derived finished field.
func (fb listFilterBuilder) WithFinished(flag BoolFlag) ListFilterBuilder {
	fb.filter.finished = flag

	return fb
}

// Finalize returns the ListFilter.
func (fb listFilterBuilder) Finalize() ListFilter {
	return fb.filter
}
