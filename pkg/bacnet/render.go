package bacnet

import (
	"github.com/JoelBender/bsit-tags/pkg/rdf"
)

// Datatype IRIs for values without an XSD equivalent
var (
	BACnetNull             = rdf.BACnetNamespace.Term("Null")
	BACnetBitString        = rdf.BACnetNamespace.Term("BitString")
	BACnetDate             = rdf.BACnetNamespace.Term("Date")
	BACnetTime             = rdf.BACnetNamespace.Term("Time")
	BACnetDateTime         = rdf.BACnetNamespace.Term("DateTime")
	BACnetObjectIdentifier = rdf.BACnetNamespace.Term("ObjectIdentifier")
)

// Render returns the literal text and datatype IRI for v.
// CharacterString values have no datatype; None, Null and the enumeration
// types have no literal form and render as their canonical text with the
// IRI that Term would produce for them.
func Render(v Value) (text string, datatype string) {
	switch val := v.(type) {
	case NoValue:
		return "", ""
	case Null:
		return "", BACnetNull.IRI
	case Boolean:
		return val.Text(), rdf.XSDBoolean.IRI
	case Unsigned, Enumerated:
		return val.Text(), rdf.XSDNonNegativeInteger.IRI
	case Integer:
		return val.Text(), rdf.XSDInteger.IRI
	case Real:
		return val.Text(), rdf.XSDFloat.IRI
	case Double:
		return val.Text(), rdf.XSDDouble.IRI
	case CharacterString:
		return val.Text(), ""
	case BitString:
		return val.Text(), BACnetBitString.IRI
	case Date:
		return val.Text(), BACnetDate.IRI
	case Time:
		return val.Text(), BACnetTime.IRI
	case DateTime:
		return val.Text(), BACnetDateTime.IRI
	case ObjectIdentifier:
		return val.Text(), BACnetObjectIdentifier.IRI
	case ObjectType:
		return val.Text(), ObjectTypeIRI(val).IRI
	case PropertyIdentifier:
		return val.Text(), PropertyIdentifierIRI(val).IRI
	}
	return v.Text(), ""
}

// Term converts v to an RDF object term. NoValue has no term and yields nil.
func Term(v Value) rdf.Term {
	switch val := v.(type) {
	case NoValue:
		return nil
	case Null:
		return BACnetNull
	case ObjectType:
		return ObjectTypeIRI(val)
	case PropertyIdentifier:
		return PropertyIdentifierIRI(val)
	}

	text, datatype := Render(v)
	if datatype == "" {
		return rdf.NewLiteral(text)
	}
	return rdf.NewLiteralWithDatatype(text, rdf.NewNamedNode(datatype))
}

// ObjectTypeIRI is the IRI naming an object type, e.g. bacnet:ObjectType.analog-value
func ObjectTypeIRI(o ObjectType) *rdf.NamedNode {
	return rdf.BACnetNamespace.Term("ObjectType." + o.Name())
}

// PropertyIdentifierIRI is the IRI naming a property, e.g. bacnet:PropertyIdentifier.present-value
func PropertyIdentifierIRI(p PropertyIdentifier) *rdf.NamedNode {
	return rdf.BACnetNamespace.Term("PropertyIdentifier." + p.Name())
}

// PropertyIRI is the predicate used for a property of an object, e.g. bacnet:object-name
func PropertyIRI(p PropertyIdentifier) *rdf.NamedNode {
	return rdf.BACnetNamespace.Term(p.Name())
}
