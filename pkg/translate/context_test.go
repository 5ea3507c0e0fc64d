package translate

import (
	"errors"
	"testing"

	"github.com/JoelBender/bsit-tags/pkg/bacnet"
	"github.com/JoelBender/bsit-tags/pkg/rdf"
	"github.com/JoelBender/bsit-tags/pkg/tagname"
)

func newTestContext() *Context {
	return NewContext(DefaultBaseIRI(DefaultVendorID), rdf.NewBlankNode("analog-value-1"), nil)
}

func mustParse(t *testing.T, name string) tagname.Descriptor {
	t.Helper()
	desc, err := tagname.Parse(name)
	if err != nil {
		t.Fatalf("tagname.Parse(%q) failed: %v", name, err)
	}
	return desc
}

func TestContext_Defaults(t *testing.T) {
	ctx := newTestContext()

	if ctx.Base() != "http://example.com/vendor/999/" {
		t.Errorf("Expected default base, got %s", ctx.Base())
	}
	if ctx.Subject().String() != "_:analog-value-1" {
		t.Errorf("Expected _:analog-value-1, got %s", ctx.Subject())
	}
	if ctx.Language() != "" {
		t.Errorf("Expected no default language, got %q", ctx.Language())
	}

	prefixes := ctx.Prefixes()
	for _, key := range []string{"", "rdf", "rdfs", "xsd", "bacnet"} {
		if _, ok := prefixes[key]; !ok {
			t.Errorf("Expected prefix %q in the default table", key)
		}
	}
}

func TestContext_Base(t *testing.T) {
	ctx := newTestContext()

	if err := ctx.Apply(mustParse(t, "@base"), "<http://example.org/site/>", bacnet.DatatypeCharacterString); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if ctx.Base() != "http://example.org/site/" {
		t.Errorf("Expected new base, got %s", ctx.Base())
	}

	// the empty prefix follows the base until declared
	if ctx.Prefixes()[""] != "http://example.org/site/" {
		t.Errorf("Expected empty prefix to follow base, got %s", ctx.Prefixes()[""])
	}

	if err := ctx.Apply(mustParse(t, ":"), "http://example.org/minimal#", bacnet.DatatypeCharacterString); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if err := ctx.Apply(mustParse(t, "@base"), "http://example.org/other/", bacnet.DatatypeCharacterString); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if ctx.Prefixes()[""] != "http://example.org/minimal#" {
		t.Errorf("Expected declared empty prefix to stay, got %s", ctx.Prefixes()[""])
	}
}

func TestContext_FailedDirectiveLeavesStateUnchanged(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		reason error
	}{
		{"@base", "relative/path/", ErrInvalidIRI},
		{"@base", "", ErrInvalidIRI},
		{"@base", "<http://exa mple.org/>", ErrInvalidIRI},
		{"@id", "nope:thing", ErrUnknownPrefix},
		{"@id", "a b", ErrInvalidReference},
		{"@id", "e|f", ErrInvalidIRI},
		{"@id", "_:a/b", ErrInvalidLabel},
		{"@id", "_:trailing.", ErrInvalidLabel},
		{"@language", "en_US", ErrInvalidLanguage},
		{"ex:", "not an iri", ErrInvalidIRI},
		{"status", "x", ErrNotDirective},
	}

	for _, tt := range tests {
		t.Run(tt.name+" "+tt.raw, func(t *testing.T) {
			ctx := newTestContext()
			before := ctx.Clone()

			err := ctx.Apply(mustParse(t, tt.name), tt.raw, bacnet.DatatypeCharacterString)
			var ce *ContextError
			if !errors.As(err, &ce) {
				t.Fatalf("Expected *ContextError, got %T: %v", err, err)
			}
			if !errors.Is(err, tt.reason) {
				t.Errorf("Expected reason %v, got %v", tt.reason, ce.Reason)
			}

			if ctx.Base() != before.Base() || ctx.Language() != before.Language() ||
				!ctx.Subject().Equals(before.Subject()) || len(ctx.Prefixes()) != len(before.Prefixes()) {
				t.Error("Failed directive changed the context")
			}
		})
	}
}

func TestContext_ID(t *testing.T) {
	tests := []struct {
		raw      string
		expected rdf.Term
	}{
		{"_:chiller", rdf.NewBlankNode("chiller")},
		{"bacnet:thing", rdf.NewNamedNode("http://data.ashrae.org/bacnet/2020#thing")},
		{"<urn:dev:5>", rdf.NewNamedNode("urn:dev:5")},
		{"av1", rdf.NewNamedNode("http://example.com/vendor/999/av1")},
		{":av2", rdf.NewNamedNode("http://example.com/vendor/999/av2")},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			ctx := newTestContext()
			if err := ctx.Apply(mustParse(t, "@id"), tt.raw, bacnet.DatatypeCharacterString); err != nil {
				t.Fatalf("Apply failed: %v", err)
			}
			if !ctx.Subject().Equals(tt.expected) {
				t.Errorf("Expected %s, got %s", tt.expected, ctx.Subject())
			}
		})
	}
}

func TestContext_Resolve(t *testing.T) {
	ctx := newTestContext()
	if err := ctx.Apply(mustParse(t, "ex:"), "<http://example.org/ns#>", bacnet.DatatypeCharacterString); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	tests := []struct {
		ref      string
		expected string
		reason   error
	}{
		{"status", "http://example.com/vendor/999/status", nil},
		{":status", "http://example.com/vendor/999/status", nil},
		{"ex:status", "http://example.org/ns#status", nil},
		{"<http://other.org/p>", "http://other.org/p", nil},
		{"xsd:anyURI", rdf.XSDAnyURI.IRI, nil},
		{"nope:status", "", ErrUnknownPrefix},
		{"_:b0", "", ErrBlankPredicate},
		{"a{b", "", ErrInvalidIRI},
		{`c\d`, "", ErrInvalidIRI},
		{"ex:e|f", "", ErrInvalidIRI},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			ref, err := tagname.ParseRef(tt.ref)
			if err != nil {
				t.Fatalf("ParseRef failed: %v", err)
			}
			node, err := ctx.Resolve(ref)
			if tt.reason != nil {
				if !errors.Is(err, tt.reason) {
					t.Fatalf("Expected %v, got %v", tt.reason, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve failed: %v", err)
			}
			if node.IRI != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, node.IRI)
			}
		})
	}
}

func TestContext_DirectiveDatatype(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		datatype bacnet.Datatype
	}{
		{"@language", "true", bacnet.DatatypeBoolean},
		{"@base", "http://example.org/", bacnet.DatatypeNone},
		{"@id", "5", bacnet.DatatypeUnsigned},
		{"ex:", "http://example.org/", bacnet.DatatypeEnumerated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := newTestContext()
			err := ctx.Apply(mustParse(t, tt.name), tt.raw, tt.datatype)
			if !errors.Is(err, ErrDirectiveType) {
				t.Fatalf("Expected ErrDirectiveType, got %v", err)
			}
			if ctx.Language() != "" || ctx.Base() != DefaultBaseIRI(DefaultVendorID) {
				t.Error("Rejected directive changed the context")
			}
			if _, ok := ctx.Prefixes()["ex"]; ok {
				t.Error("Rejected prefix declaration was added")
			}
		})
	}
}

func TestContext_PrefixRedeclaration(t *testing.T) {
	ctx := newTestContext()
	_ = ctx.Apply(mustParse(t, "ex:"), "http://example.org/one#", bacnet.DatatypeCharacterString)
	_ = ctx.Apply(mustParse(t, "ex:"), "http://example.org/two#", bacnet.DatatypeCharacterString)

	if ctx.Prefixes()["ex"] != "http://example.org/two#" {
		t.Errorf("Expected redeclared prefix to overwrite, got %s", ctx.Prefixes()["ex"])
	}
}

func TestContext_Clone(t *testing.T) {
	ctx := newTestContext()
	clone := ctx.Clone()

	_ = clone.Apply(mustParse(t, "ex:"), "http://example.org/", bacnet.DatatypeCharacterString)
	_ = clone.Apply(mustParse(t, "@language"), "en", bacnet.DatatypeCharacterString)

	if _, ok := ctx.Prefixes()["ex"]; ok {
		t.Error("Clone shares its prefix table with the original")
	}
	if ctx.Language() != "" {
		t.Error("Clone shares its language with the original")
	}
}
