package translate

import (
	"errors"
	"fmt"
	"maps"
	"regexp"
	"strings"

	"github.com/JoelBender/bsit-tags/pkg/bacnet"
	"github.com/JoelBender/bsit-tags/pkg/rdf"
	"github.com/JoelBender/bsit-tags/pkg/tagname"
)

// DefaultVendorID is the vendor used for the default base IRI
const DefaultVendorID = 999

// DefaultBaseIRI returns the base IRI for tags of the given vendor
func DefaultBaseIRI(vendorID int) string {
	return fmt.Sprintf("http://example.com/vendor/%d/", vendorID)
}

// Reasons carried by a *ContextError
var (
	ErrInvalidIRI       = errors.New("IRI must be absolute")
	ErrUnknownPrefix    = errors.New("undefined prefix")
	ErrBlankPredicate   = errors.New("blank node cannot be used as a predicate")
	ErrInvalidLanguage  = errors.New("malformed language tag")
	ErrInvalidReference = errors.New("malformed reference")
	ErrNotDirective     = errors.New("not a directive or prefix declaration")
	ErrInvalidLabel     = errors.New("malformed blank node label")
	ErrDirectiveType    = errors.New("directive value must be a CharacterString")
)

// ContextError reports a directive or reference that cannot be applied.
// The context is left exactly as it was.
type ContextError struct {
	Directive string
	Value     string
	Reason    error
}

func (e *ContextError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Directive, e.Value, e.Reason)
}

func (e *ContextError) Unwrap() error {
	return e.Reason
}

var absoluteIRI = regexp.MustCompile("^[A-Za-z][A-Za-z0-9+.-]*:[^\\s<>\"{}|^`\\\\]*$")

// blankLabel follows the Turtle BLANK_NODE_LABEL production, no trailing dot
var blankLabel = regexp.MustCompile(`^[\p{L}\p{N}_](?:[\p{L}\p{N}_.\-\x{B7}]*[\p{L}\p{N}_\-\x{B7}])?$`)

// Context is the directive state of one translation run: the base IRI, the
// current subject, the default language and the prefix table.
//
// It changes only through Apply, one directive at a time, in tag order.
type Context struct {
	base     string
	subject  rdf.Term
	language string
	prefixes map[string]string

	// the empty prefix follows the base until declared
	emptyDeclared bool
}

// NewContext creates a context with the default prefixes plus extra.
// An entry for the empty prefix in extra counts as a declaration.
func NewContext(base string, subject rdf.Term, extra map[string]string) *Context {
	c := &Context{
		base:     base,
		subject:  subject,
		prefixes: rdf.DefaultPrefixes(),
	}
	for prefix, ns := range extra {
		c.prefixes[prefix] = ns
		if prefix == "" {
			c.emptyDeclared = true
		}
	}
	return c
}

// Base returns the IRI that bare local names resolve against
func (c *Context) Base() string {
	return c.base
}

// Subject returns the subject of the triples emitted from now on
func (c *Context) Subject() rdf.Term {
	return c.subject
}

// Language returns the default language, or "" when unset
func (c *Context) Language() string {
	return c.language
}

// Prefixes returns a copy of the prefix table, always including the empty prefix
func (c *Context) Prefixes() map[string]string {
	out := maps.Clone(c.prefixes)
	if !c.emptyDeclared {
		out[""] = c.base
	}
	return out
}

// Clone returns an independent copy
func (c *Context) Clone() *Context {
	clone := *c
	clone.prefixes = maps.Clone(c.prefixes)
	return &clone
}

// Apply applies a directive or prefix declaration with its raw value.
// Directive values are always character strings.
func (c *Context) Apply(desc tagname.Descriptor, raw string, datatype bacnet.Datatype) error {
	if desc.Kind != tagname.KindRegular && datatype != bacnet.DatatypeCharacterString {
		return &ContextError{Directive: desc.String(), Value: raw,
			Reason: fmt.Errorf("%w, got %s", ErrDirectiveType, datatype)}
	}
	value := strings.TrimSpace(raw)

	switch desc.Kind {
	case tagname.KindBase:
		iri := unwrapIRI(value)
		if !absoluteIRI.MatchString(iri) {
			return &ContextError{Directive: "@base", Value: raw, Reason: ErrInvalidIRI}
		}
		c.base = iri

	case tagname.KindID:
		subject, err := c.resolveNode(value)
		if err != nil {
			return &ContextError{Directive: "@id", Value: raw, Reason: err}
		}
		c.subject = subject

	case tagname.KindLanguage:
		if !tagname.ValidLanguage(value) {
			return &ContextError{Directive: "@language", Value: raw, Reason: ErrInvalidLanguage}
		}
		c.language = value

	case tagname.KindPrefix:
		iri := unwrapIRI(value)
		if !absoluteIRI.MatchString(iri) {
			return &ContextError{Directive: desc.String(), Value: raw, Reason: ErrInvalidIRI}
		}
		c.prefixes[desc.Name.Prefix] = iri
		if desc.Name.Prefix == "" {
			c.emptyDeclared = true
		}

	default:
		return &ContextError{Directive: desc.String(), Value: raw, Reason: ErrNotDirective}
	}
	return nil
}

// Resolve turns a predicate or datatype reference into an IRI.
// An explicit prefix wins; a bare local name is relative to the base.
func (c *Context) Resolve(ref tagname.Ref) (*rdf.NamedNode, error) {
	switch {
	case ref.IsIRI():
		if !absoluteIRI.MatchString(ref.IRI) {
			return nil, &ContextError{Directive: "reference", Value: ref.String(), Reason: ErrInvalidIRI}
		}
		return rdf.NewNamedNode(ref.IRI), nil

	case ref.IsBlank():
		return nil, &ContextError{Directive: "reference", Value: ref.String(), Reason: ErrBlankPredicate}

	case ref.HasPrefix:
		ns, ok := c.namespace(ref.Prefix)
		if !ok {
			return nil, &ContextError{Directive: "reference", Value: ref.String(),
				Reason: fmt.Errorf("%w: %s", ErrUnknownPrefix, ref.Prefix)}
		}
		return checkedIRI(ref, ns+ref.Local)

	default:
		return checkedIRI(ref, c.base+ref.Local)
	}
}

// checkedIRI validates an IRI built from a namespace and a local name
func checkedIRI(ref tagname.Ref, iri string) (*rdf.NamedNode, error) {
	if !absoluteIRI.MatchString(iri) {
		return nil, &ContextError{Directive: "reference", Value: ref.String(), Reason: ErrInvalidIRI}
	}
	return rdf.NewNamedNode(iri), nil
}

// resolveNode resolves a node reference that may also be a blank node,
// as used by @id values and anyURI objects.
func (c *Context) resolveNode(text string) (rdf.Term, error) {
	ref, err := tagname.ParseRef(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidReference, err)
	}
	if ref.IsBlank() {
		if !blankLabel.MatchString(ref.Local) {
			return nil, ErrInvalidLabel
		}
		return rdf.NewBlankNode(ref.Local), nil
	}

	node, err := c.Resolve(ref)
	if err != nil {
		var ce *ContextError
		if errors.As(err, &ce) {
			return nil, ce.Reason
		}
		return nil, err
	}
	return node, nil
}

func (c *Context) namespace(prefix string) (string, bool) {
	if prefix == "" && !c.emptyDeclared {
		return c.base, true
	}
	ns, ok := c.prefixes[prefix]
	return ns, ok
}

// unwrapIRI strips optional angle brackets
func unwrapIRI(value string) string {
	if strings.HasPrefix(value, "<") && strings.HasSuffix(value, ">") {
		return value[1 : len(value)-1]
	}
	return value
}

// ParseIRI validates an absolute IRI, optionally written in angle brackets
func ParseIRI(value string) (string, error) {
	iri := unwrapIRI(strings.TrimSpace(value))
	if !absoluteIRI.MatchString(iri) {
		return "", fmt.Errorf("%w: %q", ErrInvalidIRI, value)
	}
	return iri, nil
}
