package bacnet

import (
	"errors"
	"fmt"
)

// Reasons a value fails to parse. A *ValueError wraps exactly one of these.
var (
	ErrNotEmpty    = errors.New("datatype mismatch: value must be empty")
	ErrSyntax      = errors.New("malformed value")
	ErrRange       = errors.New("value out of range")
	ErrNegative    = errors.New("value must not be negative")
	ErrUnknownName = errors.New("unknown enumeration value")
)

// ValueError reports raw text that does not conform to its declared datatype
type ValueError struct {
	Datatype Datatype
	Text     string
	Reason   error
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("invalid %s value %q: %v", e.Datatype, e.Text, e.Reason)
}

func (e *ValueError) Unwrap() error {
	return e.Reason
}

func valueError(d Datatype, text string, reason error) *ValueError {
	return &ValueError{Datatype: d, Text: text, Reason: reason}
}
