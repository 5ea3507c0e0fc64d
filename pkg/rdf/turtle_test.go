package rdf

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

const exampleNS = "http://example.com/vendor/999/"

func TestTurtleWriter_GroupsSubjects(t *testing.T) {
	g := NewGraph()
	av := NewBlankNode("analog-value-1")
	dev := NewNamedNode(exampleNS + "device-5")

	g.Add(NewTriple(av, BACnetNamespace.Term("object-name"), NewLiteral("CHW-T")))
	g.Add(NewTriple(dev, BACnetNamespace.Term("object-name"), NewLiteral("DEV")))
	g.Add(NewTriple(av, NewNamedNode(exampleNS+"units"), NewLiteral("degF")))

	prefixes := map[string]string{"": exampleNS, "bacnet": string(BACnetNamespace)}
	got := SerializeTurtle(g, prefixes)

	expected := `@prefix : <http://example.com/vendor/999/> .
@prefix bacnet: <http://data.ashrae.org/bacnet/2020#> .

_:analog-value-1 bacnet:object-name "CHW-T" ;
    :units "degF" .

:device-5 bacnet:object-name "DEV" .
`
	if got != expected {
		t.Errorf("Expected:\n%s\nGot:\n%s", expected, got)
	}
}

func TestTurtleWriter_Literals(t *testing.T) {
	tests := []struct {
		name     string
		object   Term
		expected string
	}{
		{"plain", NewLiteral("a \"quoted\"\nline"), `"a \"quoted\"\nline"`},
		{"language", NewLiteralWithLanguage("Chilled Water", "en"), `"Chilled Water"@en`},
		{"xsd string", NewLiteralWithDatatype("x", XSDString), `"x"`},
		{"boolean", NewLiteralWithDatatype("true", XSDBoolean), `true`},
		{"integer", NewLiteralWithDatatype("-4", XSDInteger), `-4`},
		{"float", NewLiteralWithDatatype("44", XSDFloat), `"44"^^xsd:float`},
		{"unknown datatype", NewLiteralWithDatatype("1", NewNamedNode("http://other.org/dt")), `"1"^^<http://other.org/dt>`},
		{"blank", NewBlankNode("b0"), `_:b0`},
		{"iri", NewNamedNode("http://other.org/x"), `<http://other.org/x>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGraph()
			g.Add(NewTriple(NewBlankNode("s"), BACnetNamespace.Term("p"), tt.object))
			got := SerializeTurtle(g, DefaultPrefixes())
			line := strings.TrimSpace(got[strings.LastIndex(got, "\n_:s"):])
			expected := "_:s bacnet:p " + tt.expected + " ."
			if line != expected {
				t.Errorf("Expected %s, got %s", expected, line)
			}
		})
	}
}

func TestTurtleWriter_TypeShorthand(t *testing.T) {
	g := NewGraph()
	g.Add(NewTriple(NewBlankNode("s"), RDFType, BACnetNamespace.Term("AnalogValue")))

	got := SerializeTurtle(g, nil)
	expected := "_:s a <http://data.ashrae.org/bacnet/2020#AnalogValue> .\n"
	if got != expected {
		t.Errorf("Expected %q, got %q", expected, got)
	}
}

func TestAbbreviateQName(t *testing.T) {
	prefixes := map[string]string{
		"ex":   "http://example.org/",
		"exns": "http://example.org/ns/",
		"b":    "http://example.org/ns/",
	}

	tests := []struct {
		iri      string
		expected string
		ok       bool
	}{
		{"http://example.org/a", "ex:a", true},
		{"http://example.org/ns/a", "b:a", true},
		{"http://example.org/ns/", "ex:ns/", false},
		{"http://example.org/1st", "ex:1st", true},
		{"http://example.org/a.", "", false},
		{"http://example.org/a b", "", false},
		{"http://other.org/a", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.iri, func(t *testing.T) {
			got, ok := abbreviateQName(tt.iri, prefixes)
			if ok != tt.ok {
				t.Fatalf("Expected ok=%v, got %v (%q)", tt.ok, ok, got)
			}
			if ok && got != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestTurtleWriter_Deterministic(t *testing.T) {
	g := NewGraph()
	for _, name := range []string{"a", "b", "c"} {
		g.Add(NewTriple(NewBlankNode(name), BACnetNamespace.Term("object-name"), NewLiteral(name)))
	}

	first := SerializeTurtle(g, DefaultPrefixes())
	for i := 0; i < 10; i++ {
		if again := SerializeTurtle(g, DefaultPrefixes()); again != first {
			t.Fatalf("Output changed between runs:\n%s\n---\n%s", first, again)
		}
	}
}

func TestTurtleWriter_SkipsEmptyNamespaces(t *testing.T) {
	got := SerializeTurtle(NewGraph(), map[string]string{"": "", "xsd": string(XSDNamespace)})
	expected := "@prefix xsd: <http://www.w3.org/2001/XMLSchema#> .\n"
	if got != expected {
		t.Errorf("Expected %q, got %q", expected, got)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestTurtleWriter_WriteError(t *testing.T) {
	g := NewGraph()
	g.Add(NewTriple(NewBlankNode("s"), RDFType, XSDString))

	err := NewTurtleWriter(failingWriter{}, DefaultPrefixes()).WriteGraph(g)
	if err == nil {
		t.Fatal("Expected the write error to be returned")
	}

	var buf bytes.Buffer
	if err := NewTurtleWriter(&buf, DefaultPrefixes()).WriteGraph(g); err != nil {
		t.Fatalf("WriteGraph failed: %v", err)
	}
	if !strings.Contains(buf.String(), "_:s a xsd:string .") {
		t.Errorf("Unexpected output:\n%s", buf.String())
	}
}

func TestSerializeTriplesCanonical(t *testing.T) {
	triples := []*Triple{
		NewTriple(NewBlankNode("s"), BACnetNamespace.Term("p"), NewLiteralWithLanguage("x", "EN")),
		NewTriple(NewBlankNode("s"), BACnetNamespace.Term("q"), NewLiteralWithDatatype("y", XSDString)),
	}

	expected := `_:s <http://data.ashrae.org/bacnet/2020#p> "x"@en .
_:s <http://data.ashrae.org/bacnet/2020#q> "y" .
`
	if got := SerializeTriplesCanonical(triples); got != expected {
		t.Errorf("Expected:\n%s\nGot:\n%s", expected, got)
	}
}

func TestSerializeQuadsCanonical(t *testing.T) {
	graph := NewNamedNode("urn:uuid:6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	quads := []*Quad{
		NewQuad(NewBlankNode("s"), RDFType, BACnetNamespace.Term("Null"), graph),
		NewQuad(NewBlankNode("s"), BACnetNamespace.Term("p"), NewLiteral("tab\there"), nil),
	}

	expected := `_:s <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://data.ashrae.org/bacnet/2020#Null> <urn:uuid:6ba7b810-9dad-11d1-80b4-00c04fd430c8> .
_:s <http://data.ashrae.org/bacnet/2020#p> "tab\there" .
`
	if got := SerializeQuadsCanonical(quads); got != expected {
		t.Errorf("Expected:\n%s\nGot:\n%s", expected, got)
	}
	if got := SerializeQuadsCanonical(nil); got != "" {
		t.Errorf("Expected empty output, got %q", got)
	}
}

func TestGraph_Subjects(t *testing.T) {
	g := NewGraph()
	g.Add(NewTriple(NewBlankNode("b"), RDFType, XSDString))
	g.Add(NewTriple(NewBlankNode("a"), RDFType, XSDString))
	g.Add(NewTriple(NewBlankNode("b"), RDFType, XSDInteger))

	subjects := g.Subjects()
	if len(subjects) != 2 || subjects[0].String() != "_:b" || subjects[1].String() != "_:a" {
		t.Errorf("Expected [_:b _:a], got %v", subjects)
	}
	if n := len(g.BySubject(NewBlankNode("b"))); n != 2 {
		t.Errorf("Expected 2 triples for _:b, got %d", n)
	}
	if !g.Contains(NewTriple(NewBlankNode("a"), RDFType, XSDString)) {
		t.Error("Expected graph to contain _:a a xsd:string")
	}
}
