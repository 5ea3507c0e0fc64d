package rdf

import (
	"fmt"
	"strings"
)

// SerializeTriplesCanonical renders triples as N-Triples, one per line, in the
// order given. Only the term forms are canonical; nothing is sorted.
func SerializeTriplesCanonical(triples []*Triple) string {
	var b strings.Builder
	for _, t := range triples {
		writeStatement(&b, t.Subject, t.Predicate, t.Object)
	}
	return b.String()
}

// SerializeQuadsCanonical renders quads as N-Quads. A quad without a graph is
// written as a triple.
func SerializeQuadsCanonical(quads []*Quad) string {
	var b strings.Builder
	for _, q := range quads {
		if q.Graph == nil {
			writeStatement(&b, q.Subject, q.Predicate, q.Object)
			continue
		}
		writeStatement(&b, q.Subject, q.Predicate, q.Object, q.Graph)
	}
	return b.String()
}

func writeStatement(b *strings.Builder, terms ...Term) {
	for _, term := range terms {
		b.WriteString(canonicalTerm(term))
		b.WriteByte(' ')
	}
	b.WriteString(".\n")
}

func canonicalTerm(term Term) string {
	switch t := term.(type) {
	case *NamedNode:
		return "<" + t.IRI + ">"
	case *BlankNode:
		return "_:" + t.ID
	case *Literal:
		return canonicalLiteral(t)
	}
	return ""
}

// canonicalLiteral lowercases language tags and leaves xsd:string implicit
func canonicalLiteral(lit *Literal) string {
	quoted := `"` + escapeString(lit.Value) + `"`
	switch {
	case lit.Language != "":
		return quoted + "@" + strings.ToLower(lit.Language)
	case lit.Datatype != nil && lit.Datatype.IRI != XSDString.IRI:
		return quoted + "^^<" + lit.Datatype.IRI + ">"
	}
	return quoted
}

// escapeString applies the N-Triples string escapes shared with Turtle output.
// Control characters without a short escape become \uXXXX.
func escapeString(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for _, r := range s {
		switch r {
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\f':
			b.WriteString(`\f`)
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		default:
			if r < 0x20 || r == 0x7F || r == 0xFFFE || r == 0xFFFF {
				fmt.Fprintf(&b, `\u%04X`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}
