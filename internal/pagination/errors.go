package pagination

import (
	"errors"
	"fmt"
)

// ErrEmptyGeometry is returned before any layout work when a page has no
// usable height left after padding and reserved static bands.
var ErrEmptyGeometry = errors.New("page has no usable height")

// OracleError reports a failed height measurement. The whole layout fails
// with it; Unwrap exposes the oracle's own error.
type OracleError struct {
	Field string
	Err   error
}

func (e *OracleError) Error() string {
	return fmt.Sprintf("field %q: height oracle failed: %v", e.Field, e.Err)
}

func (e *OracleError) Unwrap() error {
	return e.Err
}

// FieldError reports any other field that could not be laid out.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %q: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// DiagnosticKind classifies a condition layout recovered from.
type DiagnosticKind int

const (
	// MalformedTableBody: a body row did not match the column count.
	MalformedTableBody DiagnosticKind = iota + 1
	// RowExceedsPage: a single table row is taller than a whole page.
	RowExceedsPage
	// FieldExceedsPage: a field is taller than a whole page.
	FieldExceedsPage
)

func (k DiagnosticKind) String() string {
	switch k {
	case MalformedTableBody:
		return "MalformedTableBody"
	case RowExceedsPage:
		return "RowExceedsPage"
	case FieldExceedsPage:
		return "FieldExceedsPage"
	}
	return fmt.Sprintf("DiagnosticKind(%d)", int(k))
}

// Diagnostic is a recovered condition. Page is the zero based output page.
type Diagnostic struct {
	Kind    DiagnosticKind
	Field   string
	Page    int
	Message string
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s: field %q on page %d: %s", d.Kind, d.Field, d.Page+1, d.Message)
}
