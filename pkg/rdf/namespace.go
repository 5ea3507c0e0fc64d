package rdf

// Namespace is an IRI prefix that local names are appended to.
type Namespace string

// Term returns the named node for local within the namespace.
func (ns Namespace) Term(local string) *NamedNode {
	return NewNamedNode(string(ns) + local)
}

// Well-known namespaces
const (
	RDFNamespace    Namespace = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFSNamespace   Namespace = "http://www.w3.org/2000/01/rdf-schema#"
	XSDNamespace    Namespace = "http://www.w3.org/2001/XMLSchema#"
	BACnetNamespace Namespace = "http://data.ashrae.org/bacnet/2020#"
)

// Helper values for common datatypes and properties
var (
	XSDString             = XSDNamespace.Term("string")
	XSDInteger            = XSDNamespace.Term("integer")
	XSDNonNegativeInteger = XSDNamespace.Term("nonNegativeInteger")
	XSDFloat              = XSDNamespace.Term("float")
	XSDDouble             = XSDNamespace.Term("double")
	XSDBoolean            = XSDNamespace.Term("boolean")
	XSDAnyURI             = XSDNamespace.Term("anyURI")

	RDFType         = RDFNamespace.Term("type")
	RDFPlainLiteral = RDFNamespace.Term("PlainLiteral")
)

// DefaultPrefixes returns a fresh copy of the prefixes every translation starts with.
func DefaultPrefixes() map[string]string {
	return map[string]string{
		"rdf":    string(RDFNamespace),
		"rdfs":   string(RDFSNamespace),
		"xsd":    string(XSDNamespace),
		"bacnet": string(BACnetNamespace),
	}
}
