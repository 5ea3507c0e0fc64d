package tagname

import (
	"errors"
	"fmt"
)

// Reasons carried by a *ParseError
var (
	ErrEmptyName         = errors.New("tag name required")
	ErrUnknownDirective  = errors.New("unrecognized directive")
	ErrEmptyLocalName    = errors.New("empty local name")
	ErrUnterminatedIRI   = errors.New("unterminated IRI, expected '>'")
	ErrInvalidIRI        = errors.New("malformed IRI")
	ErrUnterminatedIndex = errors.New("unterminated index, expected ')'")
	ErrInvalidIndex      = errors.New("index must be a non-negative integer")
	ErrInvalidLanguage   = errors.New("malformed language tag")
	ErrInvalidPrefix     = errors.New("malformed prefix")
	ErrTrailingInput     = errors.New("unexpected trailing input")
)

// ErrConflictingAnnotations is wrapped by every *ConflictError
var ErrConflictingAnnotations = errors.New("conflicting annotations")

// ParseError reports a tag name that does not follow the grammar.
// Position is the byte offset in Name where parsing stopped.
type ParseError struct {
	Name     string
	Position int
	Reason   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("tag name %q (offset %d): %v", e.Name, e.Position, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return e.Reason
}

// ConflictError reports a tag name carrying both a language and a datatype
type ConflictError struct {
	Name     string
	Language string
	Datatype string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("tag name %q: %v: language @%s and datatype ^^%s are mutually exclusive",
		e.Name, ErrConflictingAnnotations, e.Language, e.Datatype)
}

func (e *ConflictError) Unwrap() error {
	return ErrConflictingAnnotations
}
