package encoding

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/JoelBender/bsit-tags/pkg/rdf"
	"github.com/JoelBender/bsit-tags/pkg/store"
)

// TermDecoder handles decoding of RDF terms
type TermDecoder struct{}

// NewTermDecoder creates a new term decoder
func NewTermDecoder() *TermDecoder {
	return &TermDecoder{}
}

// NeedsString reports whether decoding should consult the id2str table
func (d *TermDecoder) NeedsString(encoded store.EncodedTerm) bool {
	switch encoded.Type() {
	case rdf.TermTypeIntegerLiteral, rdf.TermTypeUnsignedLiteral, rdf.TermTypeBooleanLiteral:
		return false
	default:
		return true
	}
}

// DecodeTerm decodes an encoded term back to an rdf.Term
// For terms that require string lookup, stringValue should be provided
func (d *TermDecoder) DecodeTerm(encoded store.EncodedTerm, stringValue *string) (rdf.Term, error) {
	termType := encoded.Type()

	switch termType {
	case rdf.TermTypeNamedNode:
		if stringValue == nil {
			return nil, fmt.Errorf("string value required for named node")
		}
		return rdf.NewNamedNode(*stringValue), nil

	case rdf.TermTypeBlankNode:
		if stringValue == nil {
			return nil, fmt.Errorf("string value required for blank node")
		}
		return rdf.NewBlankNode(*stringValue), nil

	case rdf.TermTypeStringLiteral:
		if stringValue != nil {
			return rdf.NewLiteral(*stringValue), nil
		}
		// Inline string, terminated by the first zero byte
		endIdx := 1
		for endIdx < store.EncodedTermSize && encoded[endIdx] != 0 {
			endIdx++
		}
		return rdf.NewLiteral(string(encoded[1:endIdx])), nil

	case rdf.TermTypeLangStringLiteral:
		if stringValue == nil {
			return nil, fmt.Errorf("string value required for language-tagged literal")
		}
		// Language tags never contain '@', so split on the last one
		i := strings.LastIndexByte(*stringValue, '@')
		if i < 0 {
			return nil, fmt.Errorf("malformed language-tagged literal %q", *stringValue)
		}
		return rdf.NewLiteralWithLanguage((*stringValue)[:i], (*stringValue)[i+1:]), nil

	case rdf.TermTypeTypedLiteral:
		if stringValue == nil {
			return nil, fmt.Errorf("string value required for typed literal")
		}
		// IRIs never contain "^^" unescaped, so split on the last one
		i := strings.LastIndex(*stringValue, typedSeparator)
		if i < 0 {
			return nil, fmt.Errorf("malformed typed literal %q", *stringValue)
		}
		value, datatype := (*stringValue)[:i], (*stringValue)[i+len(typedSeparator):]
		return rdf.NewLiteralWithDatatype(value, rdf.NewNamedNode(datatype)), nil

	case rdf.TermTypeIntegerLiteral:
		value := int64(binary.BigEndian.Uint64(encoded[1:9])) // #nosec G115 - intentional bit-pattern conversion for binary decoding
		return rdf.NewLiteralWithDatatype(strconv.FormatInt(value, 10), rdf.XSDInteger), nil

	case rdf.TermTypeUnsignedLiteral:
		value := binary.BigEndian.Uint64(encoded[1:9])
		return rdf.NewLiteralWithDatatype(strconv.FormatUint(value, 10), rdf.XSDNonNegativeInteger), nil

	case rdf.TermTypeBooleanLiteral:
		return rdf.NewLiteralWithDatatype(strconv.FormatBool(encoded[1] != 0), rdf.XSDBoolean), nil

	default:
		return nil, fmt.Errorf("unknown term type: %d", termType)
	}
}
