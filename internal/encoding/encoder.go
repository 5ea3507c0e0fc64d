package encoding

import (
	"encoding/binary"
	"fmt"
	"strconv"

	"github.com/JoelBender/bsit-tags/pkg/rdf"
	"github.com/JoelBender/bsit-tags/pkg/store"
	"github.com/zeebo/xxh3"
)

// Maximum size for inline strings (16 bytes of UTF-8)
const MaxInlineStringSize = 16

// typedSeparator joins a typed literal's lexical form and datatype IRI in id2str
const typedSeparator = "^^"

// TermEncoder encodes terms for the archive indexes
type TermEncoder struct{}

func NewTermEncoder() *TermEncoder {
	return &TermEncoder{}
}

// Hash128 computes a 128-bit xxhash3 hash of the input string
func (e *TermEncoder) Hash128(s string) [16]byte {
	hash := xxh3.HashString128(s)
	var result [16]byte
	binary.BigEndian.PutUint64(result[0:8], hash.Hi)
	binary.BigEndian.PutUint64(result[8:16], hash.Lo)
	return result
}

// EncodeTerm encodes an RDF term into a fixed-size byte array
// Returns the encoded term and optionally a string to store in id2str table
func (e *TermEncoder) EncodeTerm(term rdf.Term) (store.EncodedTerm, *string, error) {
	switch t := term.(type) {
	case *rdf.NamedNode:
		return e.hashed(rdf.TermTypeNamedNode, t.IRI)
	case *rdf.BlankNode:
		return e.encodeBlankNode(t)
	case *rdf.Literal:
		return e.encodeLiteral(t)
	default:
		var encoded store.EncodedTerm
		return encoded, nil, fmt.Errorf("unknown term type: %T", term)
	}
}

func (e *TermEncoder) hashed(termType rdf.TermType, s string) (store.EncodedTerm, *string, error) {
	var encoded store.EncodedTerm
	encoded[0] = byte(termType)
	hash := e.Hash128(s)
	copy(encoded[1:], hash[:])
	return encoded, &s, nil
}

func (e *TermEncoder) encodeBlankNode(node *rdf.BlankNode) (store.EncodedTerm, *string, error) {
	// Object labels such as "analog-value-1" are rarely numeric, so always hash
	return e.hashed(rdf.TermTypeBlankNode, node.ID)
}

func (e *TermEncoder) encodeLiteral(lit *rdf.Literal) (store.EncodedTerm, *string, error) {
	if lit.Language != "" {
		return e.hashed(rdf.TermTypeLangStringLiteral, lit.Value+"@"+lit.Language)
	}

	if lit.Datatype == nil {
		return e.encodeStringLiteral(lit.Value)
	}

	switch lit.Datatype.IRI {
	case rdf.XSDInteger.IRI:
		if v, err := strconv.ParseInt(lit.Value, 10, 64); err == nil && strconv.FormatInt(v, 10) == lit.Value {
			return e.inlineUint(rdf.TermTypeIntegerLiteral, uint64(v)) // #nosec G115 - intentional bit-pattern conversion for binary encoding
		}
	case rdf.XSDNonNegativeInteger.IRI:
		if v, err := strconv.ParseUint(lit.Value, 10, 64); err == nil && strconv.FormatUint(v, 10) == lit.Value {
			return e.inlineUint(rdf.TermTypeUnsignedLiteral, v)
		}
	case rdf.XSDBoolean.IRI:
		switch lit.Value {
		case "true":
			return e.inlineUint(rdf.TermTypeBooleanLiteral, 1)
		case "false":
			return e.inlineUint(rdf.TermTypeBooleanLiteral, 0)
		}
	}

	// Everything else keeps its exact lexical form
	return e.hashed(rdf.TermTypeTypedLiteral, lit.Value+typedSeparator+lit.Datatype.IRI)
}

func (e *TermEncoder) encodeStringLiteral(value string) (store.EncodedTerm, *string, error) {
	var encoded store.EncodedTerm
	encoded[0] = byte(rdf.TermTypeStringLiteral)

	// Inline small strings; an embedded NUL would truncate on decode
	if len(value) <= MaxInlineStringSize && !containsNUL(value) {
		copy(encoded[1:], value)
		return encoded, nil, nil
	}

	hash := e.Hash128(value)
	copy(encoded[1:], hash[:])
	return encoded, &value, nil
}

func (e *TermEncoder) inlineUint(termType rdf.TermType, v uint64) (store.EncodedTerm, *string, error) {
	var encoded store.EncodedTerm
	encoded[0] = byte(termType)
	binary.BigEndian.PutUint64(encoded[1:9], v)
	return encoded, nil, nil
}

// EncodeQuadKey concatenates encoded terms into an index key.
// Keys are big-endian byte strings so prefix scans work lexicographically.
func (e *TermEncoder) EncodeQuadKey(terms ...store.EncodedTerm) []byte {
	result := make([]byte, 0, len(terms)*store.EncodedTermSize)
	for _, term := range terms {
		result = append(result, term[:]...)
	}
	return result
}

func containsNUL(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == 0 {
			return true
		}
	}
	return false
}
