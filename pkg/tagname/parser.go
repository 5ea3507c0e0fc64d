// Package tagname parses the names of BACnet tags.
//
// A tag name is either a directive (@base, @id, @language), a prefix
// declaration ("ex:"), or a regular tag:
//
//	[prefix ":"] local ["@" language | "^^" datatype] ["(" index ")"]
//
// where local may also be a full IRI in angle brackets.
package tagname

import (
	"strconv"
	"strings"
)

// Kind classifies a parsed tag name
type Kind uint8

const (
	KindRegular Kind = iota
	KindPrefix
	KindBase
	KindID
	KindLanguage
)

func (k Kind) String() string {
	switch k {
	case KindRegular:
		return "regular"
	case KindPrefix:
		return "prefix"
	case KindBase:
		return "@base"
	case KindID:
		return "@id"
	case KindLanguage:
		return "@language"
	}
	return "unknown"
}

// IsDirective reports whether k is one of @base, @id or @language
func (k Kind) IsDirective() bool {
	return k == KindBase || k == KindID || k == KindLanguage
}

// Ref is a reference to an IRI as written in a tag: "prefix:local", a bare
// local name resolved against the base, or "<IRI>".
type Ref struct {
	Prefix    string
	HasPrefix bool
	Local     string
	IRI       string // set when written in angle brackets
}

// IsIRI reports whether the reference was written as a full IRI
func (r Ref) IsIRI() bool {
	return r.IRI != ""
}

// IsBlank reports whether the reference names a blank node ("_:label")
func (r Ref) IsBlank() bool {
	return r.HasPrefix && r.Prefix == "_"
}

func (r Ref) String() string {
	switch {
	case r.IsIRI():
		return "<" + r.IRI + ">"
	case r.HasPrefix:
		return r.Prefix + ":" + r.Local
	default:
		return r.Local
	}
}

// Descriptor is the structured form of a tag name.
//
// For KindPrefix only Name.Prefix is meaningful; directives carry nothing but
// their kind.
type Descriptor struct {
	Kind     Kind
	Name     Ref
	Language string
	Datatype *Ref
	Index    int
	HasIndex bool
}

func (d Descriptor) String() string {
	switch d.Kind {
	case KindRegular:
	case KindPrefix:
		return d.Name.Prefix + ":"
	default:
		return d.Kind.String()
	}

	var b strings.Builder
	b.WriteString(d.Name.String())
	if d.Language != "" {
		b.WriteString("@" + d.Language)
	}
	if d.Datatype != nil {
		b.WriteString("^^" + d.Datatype.String())
	}
	if d.HasIndex {
		b.WriteString("(" + strconv.Itoa(d.Index) + ")")
	}
	return b.String()
}

// Parse parses a tag name.
// Grammar failures are returned as *ParseError, a name with both a language
// and a datatype as *ConflictError.
func Parse(name string) (Descriptor, error) {
	p := &parser{input: name}
	if p.eof() {
		return Descriptor{}, p.fail(ErrEmptyName)
	}
	if p.peek() == '@' {
		return p.parseDirective()
	}
	return p.parseRegular()
}

// ParseRef parses text that must consist of exactly one reference, such as
// the value of an @id directive or a datatype name.
func ParseRef(text string) (Ref, error) {
	p := &parser{input: text}
	ref, err := p.parseRef()
	if err != nil {
		return Ref{}, err
	}
	if !ref.IsIRI() && ref.Local == "" {
		return Ref{}, p.fail(ErrEmptyLocalName)
	}
	if !p.eof() {
		return Ref{}, p.fail(ErrTrailingInput)
	}
	return ref, nil
}

// ValidLanguage reports whether tag has the shape of a BCP 47 language tag
func ValidLanguage(tag string) bool {
	if tag == "" {
		return false
	}
	for i, part := range strings.Split(tag, "-") {
		if len(part) == 0 || len(part) > 8 {
			return false
		}
		for j := 0; j < len(part); j++ {
			ch := part[j]
			if isAlpha(ch) || (i > 0 && isDigit(ch)) {
				continue
			}
			return false
		}
	}
	return true
}

type parser struct {
	input string
	pos   int
}

func (p *parser) eof() bool {
	return p.pos >= len(p.input)
}

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.input[p.pos]
}

func (p *parser) startsWith(s string) bool {
	return strings.HasPrefix(p.input[p.pos:], s)
}

func (p *parser) fail(reason error) *ParseError {
	return &ParseError{Name: p.input, Position: p.pos, Reason: reason}
}

func (p *parser) parseDirective() (Descriptor, error) {
	p.pos++ // '@'
	start := p.pos
	for !p.eof() && isAlpha(p.peek()) {
		p.pos++
	}

	var kind Kind
	switch p.input[start:p.pos] {
	case "base":
		kind = KindBase
	case "id":
		kind = KindID
	case "language":
		kind = KindLanguage
	default:
		p.pos = 0
		return Descriptor{}, p.fail(ErrUnknownDirective)
	}

	if !p.eof() {
		return Descriptor{}, p.fail(ErrTrailingInput)
	}
	return Descriptor{Kind: kind}, nil
}

func (p *parser) parseRegular() (Descriptor, error) {
	ref, err := p.parseRef()
	if err != nil {
		return Descriptor{}, err
	}

	// "prefix:" with nothing after it declares a prefix
	if ref.HasPrefix && ref.Local == "" && p.eof() {
		if ref.IsBlank() {
			p.pos = 0
			return Descriptor{}, p.fail(ErrInvalidPrefix)
		}
		return Descriptor{Kind: KindPrefix, Name: ref}, nil
	}
	if !ref.IsIRI() && ref.Local == "" {
		return Descriptor{}, p.fail(ErrEmptyLocalName)
	}

	desc := Descriptor{Kind: KindRegular, Name: ref}
	if err := p.parseAnnotation(&desc); err != nil {
		return Descriptor{}, err
	}
	if err := p.parseIndex(&desc); err != nil {
		return Descriptor{}, err
	}

	if !p.eof() {
		return Descriptor{}, p.fail(ErrTrailingInput)
	}
	return desc, nil
}

// parseAnnotation reads an optional "@lang" or "^^datatype"
func (p *parser) parseAnnotation(desc *Descriptor) error {
	switch {
	case p.peek() == '@':
		p.pos++
		lang, err := p.parseLanguage()
		if err != nil {
			return err
		}
		desc.Language = lang

		if p.startsWith("^^") {
			p.pos += 2
			dt, _ := p.parseRef()
			return &ConflictError{Name: p.input, Language: lang, Datatype: dt.String()}
		}

	case p.startsWith("^^"):
		p.pos += 2
		dt, err := p.parseRef()
		if err != nil {
			return err
		}
		if !dt.IsIRI() && dt.Local == "" {
			return p.fail(ErrEmptyLocalName)
		}
		desc.Datatype = &dt

		if p.peek() == '@' {
			p.pos++
			lang, _ := p.parseLanguage()
			return &ConflictError{Name: p.input, Language: lang, Datatype: dt.String()}
		}
	}
	return nil
}

func (p *parser) parseLanguage() (string, error) {
	start := p.pos
	for !p.eof() && (isAlpha(p.peek()) || isDigit(p.peek()) || p.peek() == '-') {
		p.pos++
	}
	lang := p.input[start:p.pos]
	if !ValidLanguage(lang) {
		p.pos = start
		return "", p.fail(ErrInvalidLanguage)
	}
	return lang, nil
}

// parseIndex reads an optional "(n)" repetition index
func (p *parser) parseIndex(desc *Descriptor) error {
	if p.peek() != '(' {
		return nil
	}
	p.pos++
	start := p.pos
	for !p.eof() && isDigit(p.peek()) {
		p.pos++
	}

	if p.eof() {
		return p.fail(ErrUnterminatedIndex)
	}
	if p.pos == start || p.peek() != ')' {
		return p.fail(ErrInvalidIndex)
	}

	n, err := strconv.Atoi(p.input[start:p.pos])
	if err != nil {
		p.pos = start
		return p.fail(ErrInvalidIndex)
	}
	p.pos++ // ')'

	desc.Index = n
	desc.HasIndex = true
	return nil
}

// parseRef reads "<IRI>", "prefix:local" or "local". The local part may be
// empty; callers decide whether that is allowed.
func (p *parser) parseRef() (Ref, error) {
	if p.peek() == '<' {
		start := p.pos
		end := strings.IndexByte(p.input[p.pos:], '>')
		if end < 0 {
			return Ref{}, p.fail(ErrUnterminatedIRI)
		}
		iri := p.input[p.pos+1 : p.pos+end]
		if iri == "" || strings.ContainsAny(iri, " \t\n<\"{}|^`\\") {
			return Ref{}, &ParseError{Name: p.input, Position: start, Reason: ErrInvalidIRI}
		}
		p.pos += end + 1
		return Ref{IRI: iri}, nil
	}

	start := p.pos
	for !p.eof() && !isTerminator(p.peek()) && p.peek() != ':' {
		p.pos++
	}
	if p.peek() != ':' {
		return Ref{Local: p.input[start:p.pos]}, nil
	}

	prefix := p.input[start:p.pos]
	if !validPrefix(prefix) {
		p.pos = start
		return Ref{}, p.fail(ErrInvalidPrefix)
	}
	p.pos++ // ':'

	localStart := p.pos
	for !p.eof() && !isTerminator(p.peek()) {
		p.pos++
	}
	return Ref{Prefix: prefix, HasPrefix: true, Local: p.input[localStart:p.pos]}, nil
}

// isTerminator reports characters that end a local name
func isTerminator(ch byte) bool {
	switch ch {
	case '@', '^', '(', ')', '<', '>', '"', ' ', '\t', '\n', '\r':
		return true
	}
	return false
}

// validPrefix accepts the empty prefix, "_", or a name starting with a letter
func validPrefix(prefix string) bool {
	if prefix == "" || prefix == "_" {
		return true
	}
	if !isAlpha(prefix[0]) {
		return false
	}
	for i := 1; i < len(prefix); i++ {
		ch := prefix[i]
		if !isAlpha(ch) && !isDigit(ch) && ch != '_' && ch != '-' && ch != '.' {
			return false
		}
	}
	return prefix[len(prefix)-1] != '.'
}

func isAlpha(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}
