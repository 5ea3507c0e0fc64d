package rdf

import (
	"bufio"
	"io"
	"regexp"
	"sort"
	"strings"
)

// TurtleWriter writes a graph as Turtle.
//
// Output is deterministic: prefixes are sorted by key, subjects appear in order of
// first appearance and each subject's predicates in insertion order.
type TurtleWriter struct {
	writer   *bufio.Writer
	prefixes map[string]string
	indent   string
}

// NewTurtleWriter creates a writer using the given prefix table (prefix -> namespace IRI).
// The empty key is the ":" prefix.
func NewTurtleWriter(w io.Writer, prefixes map[string]string) *TurtleWriter {
	table := make(map[string]string, len(prefixes))
	for prefix, ns := range prefixes {
		if ns == "" {
			continue
		}
		table[prefix] = ns
	}
	return &TurtleWriter{
		writer:   bufio.NewWriter(w),
		prefixes: table,
		indent:   "    ",
	}
}

// WriteGraph writes the prefix header followed by every triple of g, then flushes.
func (tw *TurtleWriter) WriteGraph(g *Graph) error {
	if err := tw.writeHeader(); err != nil {
		return err
	}

	subjects := g.Subjects()
	for i, subject := range subjects {
		if i > 0 || len(tw.prefixes) > 0 {
			if _, err := tw.writer.WriteString("\n"); err != nil {
				return err
			}
		}
		if err := tw.writeSubject(subject, g.BySubject(subject)); err != nil {
			return err
		}
	}

	return tw.writer.Flush()
}

func (tw *TurtleWriter) writeHeader() error {
	for _, prefix := range SortedPrefixKeys(tw.prefixes) {
		line := "@prefix " + prefix + ": <" + tw.prefixes[prefix] + "> .\n"
		if _, err := tw.writer.WriteString(line); err != nil {
			return err
		}
	}
	return nil
}

func (tw *TurtleWriter) writeSubject(subject Term, triples []*Triple) error {
	var builder strings.Builder
	builder.WriteString(tw.term(subject))

	for i, t := range triples {
		if i == 0 {
			builder.WriteString(" ")
		} else {
			builder.WriteString(" ;\n")
			builder.WriteString(tw.indent)
		}
		builder.WriteString(tw.predicate(t.Predicate))
		builder.WriteString(" ")
		builder.WriteString(tw.term(t.Object))
	}
	builder.WriteString(" .\n")

	_, err := tw.writer.WriteString(builder.String())
	return err
}

// SerializeTurtle renders g as Turtle text.
func SerializeTurtle(g *Graph, prefixes map[string]string) string {
	var builder strings.Builder
	// strings.Builder never returns a write error
	_ = NewTurtleWriter(&builder, prefixes).WriteGraph(g)
	return builder.String()
}

// SortedPrefixKeys returns the keys of a prefix table in ascending order
func SortedPrefixKeys(prefixes map[string]string) []string {
	keys := make([]string, 0, len(prefixes))
	for key := range prefixes {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func (tw *TurtleWriter) predicate(p *NamedNode) string {
	if p.IRI == RDFType.IRI {
		return "a"
	}
	return tw.iri(p)
}

func (tw *TurtleWriter) term(term Term) string {
	switch t := term.(type) {
	case *NamedNode:
		return tw.iri(t)
	case *BlankNode:
		return t.String()
	case *Literal:
		return tw.literal(t)
	default:
		return ""
	}
}

var (
	integerLexical = regexp.MustCompile(`^[+-]?[0-9]+$`)
)

func (tw *TurtleWriter) literal(lit *Literal) string {
	if lit.Language != "" {
		return `"` + escapeString(lit.Value) + `"@` + lit.Language
	}
	if lit.Datatype == nil || lit.Datatype.IRI == XSDString.IRI {
		return `"` + escapeString(lit.Value) + `"`
	}

	// shorthand forms
	switch lit.Datatype.IRI {
	case XSDBoolean.IRI:
		if lit.Value == "true" || lit.Value == "false" {
			return lit.Value
		}
	case XSDInteger.IRI:
		if integerLexical.MatchString(lit.Value) {
			return lit.Value
		}
	}

	return `"` + escapeString(lit.Value) + `"^^` + tw.iri(lit.Datatype)
}

// iri returns the prefixed form using the longest matching namespace, or <iri>.
func (tw *TurtleWriter) iri(node *NamedNode) string {
	if qname, ok := abbreviateQName(node.IRI, tw.prefixes); ok {
		return qname
	}
	return "<" + node.IRI + ">"
}

func abbreviateQName(iri string, prefixes map[string]string) (string, bool) {
	bestNS := ""
	bestPrefix := ""
	found := false
	for prefix, ns := range prefixes {
		if !strings.HasPrefix(iri, ns) {
			continue
		}
		if !isLocalName(iri[len(ns):]) {
			continue
		}
		// longest namespace wins, ties broken by prefix for determinism
		if len(ns) > len(bestNS) || (len(ns) == len(bestNS) && prefix < bestPrefix) {
			bestNS = ns
			bestPrefix = prefix
			found = true
		}
	}
	if !found {
		return "", false
	}
	return bestPrefix + ":" + iri[len(bestNS):], true
}

// isLocalName reports whether value can be written as the local part of a prefixed name
func isLocalName(value string) bool {
	if value == "" {
		return false
	}
	for i := 0; i < len(value); i++ {
		ch := value[i]
		if i == 0 {
			if !isNameStartChar(ch) && !isDigit(ch) {
				return false
			}
		} else if !isNameChar(ch) {
			return false
		}
	}
	return value[len(value)-1] != '.'
}

func isNameStartChar(ch byte) bool {
	return (ch >= 'A' && ch <= 'Z') || (ch >= 'a' && ch <= 'z') || ch == '_'
}

func isNameChar(ch byte) bool {
	return isNameStartChar(ch) || isDigit(ch) || ch == '-' || ch == '.'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}
