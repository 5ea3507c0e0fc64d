package translate

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/JoelBender/bsit-tags/pkg/bacnet"
	"github.com/JoelBender/bsit-tags/pkg/rdf"
)

// ErrInvalidObject is wrapped by errors describing an unusable ObjectDescriptor
var ErrInvalidObject = errors.New("invalid object")

// ObjectDescriptor is the object the tags are attached to.
// An empty Name means the object has no object-name property.
type ObjectDescriptor struct {
	Name       string
	Identifier bacnet.ObjectIdentifier

	// further property values, seeded in order after the identifying ones
	Properties []Property
}

// Property is one object property value
type Property struct {
	Identifier bacnet.PropertyIdentifier
	Value      bacnet.Value
}

// NewObjectDescriptor builds a descriptor from the textual object type
// (name or number) and instance number.
func NewObjectDescriptor(name, objectType string, instance uint32) (ObjectDescriptor, error) {
	objType, err := bacnet.ParseObjectType(objectType)
	if err != nil {
		return ObjectDescriptor{}, fmt.Errorf("%w: %w", ErrInvalidObject, err)
	}
	obj := ObjectDescriptor{
		Name:       name,
		Identifier: bacnet.ObjectIdentifier{Type: objType, Instance: instance},
	}
	if err := obj.Validate(); err != nil {
		return ObjectDescriptor{}, err
	}
	return obj, nil
}

// Type returns the object type
func (o ObjectDescriptor) Type() bacnet.ObjectType {
	return o.Identifier.Type
}

// Validate checks the instance range
func (o ObjectDescriptor) Validate() error {
	if o.Identifier.Instance > bacnet.MaxInstance {
		return fmt.Errorf("%w: instance %d exceeds %d", ErrInvalidObject, o.Identifier.Instance, bacnet.MaxInstance)
	}
	return nil
}

// Label is the default blank node label, e.g. "analog-value-1"
func (o ObjectDescriptor) Label() string {
	return o.Identifier.Type.Name() + "-" + strconv.FormatUint(uint64(o.Identifier.Instance), 10)
}

// DefaultSubject is the subject used until an @id directive replaces it
func (o ObjectDescriptor) DefaultSubject() rdf.Term {
	return rdf.NewBlankNode(o.Label())
}

// NameValuePair is one tag: its name, raw value and declared datatype.
// A None datatype means the value is absent and Value must be empty.
type NameValuePair struct {
	Name     string
	Value    string
	Datatype bacnet.Datatype
}

// Tag is shorthand for a NameValuePair
func Tag(name, value string, datatype bacnet.Datatype) NameValuePair {
	return NameValuePair{Name: name, Value: value, Datatype: datatype}
}
