// Package bacnet parses and renders BACnet primitive values.
//
// Every primitive datatype has a textual form that Parse accepts and that
// Value.Text produces, so values survive a round trip through text.
// Render and Term give the RDF literal (or IRI) form of a value.
package bacnet

import (
	"errors"
	"fmt"
)

// Datatype identifies a BACnet primitive datatype, plus None for value-less tags
type Datatype uint8

const (
	DatatypeNone Datatype = iota
	DatatypeNull
	DatatypeBoolean
	DatatypeUnsigned
	DatatypeInteger
	DatatypeReal
	DatatypeDouble
	DatatypeCharacterString
	DatatypeBitString
	DatatypeEnumerated
	DatatypeDate
	DatatypeTime
	DatatypeDateTime
	DatatypeObjectIdentifier
	DatatypeObjectType
	DatatypePropertyIdentifier

	datatypeCount
)

var datatypeNames = [datatypeCount]string{
	DatatypeNone:               "None",
	DatatypeNull:               "Null",
	DatatypeBoolean:            "Boolean",
	DatatypeUnsigned:           "Unsigned",
	DatatypeInteger:            "Integer",
	DatatypeReal:               "Real",
	DatatypeDouble:             "Double",
	DatatypeCharacterString:    "CharacterString",
	DatatypeBitString:          "BitString",
	DatatypeEnumerated:         "Enumerated",
	DatatypeDate:               "Date",
	DatatypeTime:               "Time",
	DatatypeDateTime:           "DateTime",
	DatatypeObjectIdentifier:   "ObjectIdentifier",
	DatatypeObjectType:         "ObjectType",
	DatatypePropertyIdentifier: "PropertyIdentifier",
}

// ErrUnknownDatatype is returned when a datatype name is not recognized
var ErrUnknownDatatype = errors.New("unknown datatype")

func (d Datatype) String() string {
	if d < datatypeCount {
		return datatypeNames[d]
	}
	return fmt.Sprintf("Datatype(%d)", uint8(d))
}

// ParseDatatype returns the datatype with the given name, e.g. "CharacterString".
func ParseDatatype(name string) (Datatype, error) {
	for d, n := range datatypeNames {
		if n == name {
			return Datatype(d), nil
		}
	}
	return DatatypeNone, fmt.Errorf("%w: %q", ErrUnknownDatatype, name)
}

// Datatypes returns every datatype in declaration order
func Datatypes() []Datatype {
	out := make([]Datatype, 0, datatypeCount)
	for d := Datatype(0); d < datatypeCount; d++ {
		out = append(out, d)
	}
	return out
}

// MarshalText implements encoding.TextMarshaler
func (d Datatype) MarshalText() ([]byte, error) {
	if d >= datatypeCount {
		return nil, fmt.Errorf("%w: %d", ErrUnknownDatatype, uint8(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
// An empty name is read as None.
func (d *Datatype) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*d = DatatypeNone
		return nil
	}
	parsed, err := ParseDatatype(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
