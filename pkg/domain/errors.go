package domain

import (
	"fmt"
	"strings"
)

// CatalogMissingError is returned when the catalog file does not exist at the
// configured path. Always fatal.
type CatalogMissingError struct {
	Path string
}

func (e CatalogMissingError) Error() string {
	return fmt.Sprintf("catalog %s does not exist", e.Path)
}

// CatalogFormatError reports a malformed catalog row: wrong column count,
// unparseable numeric field, or a missing required field.
type CatalogFormatError struct {
	Line   int
	Reason string
}

func (e CatalogFormatError) Error() string {
	return fmt.Sprintf("catalog line %d: %s", e.Line, e.Reason)
}

// PartNotFoundError is returned when a query resolves to no part in its
// category, or names a category the catalog does not contain.
type PartNotFoundError struct {
	Category string
	Query    string
}

func (e PartNotFoundError) Error() string {
	return fmt.Sprintf("no part matching %q in category %q", e.Query, e.Category)
}

// AmbiguousPartError is returned when a query matches more than one part and
// no exact match settles it. Matches lists the candidate labels.
type AmbiguousPartError struct {
	Category string
	Query    string
	Matches  []string
}

func (e AmbiguousPartError) Error() string {
	return fmt.Sprintf("query %q in category %q is ambiguous: %s", e.Query, e.Category, strings.Join(e.Matches, ", "))
}

// InvalidInputError reports unusable interactive input. It is recoverable:
// the prompt reports it and asks again.
type InvalidInputError struct {
	Input  string
	Reason string
}

func (e InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input %q: %s", e.Input, e.Reason)
}

// WriteError wraps a failure to persist a scenario, report, or catalog row.
// Always fatal.
type WriteError struct {
	Path string
	Err  error
}

func (e WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e WriteError) Unwrap() error { return e.Err }
