package nfe

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedDocument    = errors.New("malformed document")
	ErrMissingInvoiceNumber = errors.New("element 'nNF' not found")
	ErrMissingLineItemField = errors.New("one or more line item elements not found")
)

// ParseError is returned by Extract and Mutate for any document that cannot
// be read. Err carries the cause and is matched with errors.Is against the
// package sentinels.
type ParseError struct {
	Op  string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("nfe: %s: %v", e.Op, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func newParseError(op string, err error) *ParseError {
	return &ParseError{Op: op, Err: err}
}
