// Package document reads translation inputs from YAML or JSON files.
//
// A document names the object either directly:
//
//	object:
//	  name: Chilled Water Temperature
//	  type: analog-value
//	  instance: 1
//
// or as object property rows (object-identifier and object-type required,
// object-name and any other standard property optional), followed by the
// ordered tag list.
package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/JoelBender/bsit-tags/pkg/bacnet"
	"github.com/JoelBender/bsit-tags/pkg/translate"
)

var (
	ErrNoObject        = errors.New("document has no object")
	ErrMissingProperty = errors.New("required object property missing")
	ErrUnknownProperty = errors.New("unknown object property")
	ErrTypeMismatch    = errors.New("object-type does not match object-identifier")
	ErrTagsProperty    = errors.New("the tags property is given by the tag list")
)

// Document is one object and its tags
type Document struct {
	Object     *Object `yaml:"object,omitempty" json:"object,omitempty"`
	Properties []Row   `yaml:"properties,omitempty" json:"properties,omitempty"`
	Tags       []Row   `yaml:"tags" json:"tags"`
}

// Object names the object directly
type Object struct {
	Name     string `yaml:"name" json:"name"`
	Type     string `yaml:"type" json:"type"`
	Instance uint32 `yaml:"instance" json:"instance"`
}

// Row is a name, value and datatype, used for both properties and tags.
// An omitted datatype means CharacterString, or None when the value is empty too.
type Row struct {
	Name     string           `yaml:"name" json:"name"`
	Value    Value            `yaml:"value,omitempty" json:"value,omitempty"`
	Datatype *bacnet.Datatype `yaml:"datatype,omitempty" json:"datatype,omitempty"`
}

// Value is a raw tag value. In JSON, numbers and booleans are accepted
// as their literal text and null as the empty value.
type Value string

func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*v = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Value(s)
	case len(data) > 0 && (data[0] == '{' || data[0] == '['):
		return fmt.Errorf("tag value must be a scalar, got %s", data)
	default:
		*v = Value(data)
	}
	return nil
}

// DatatypeOrDefault resolves an omitted datatype
func (r Row) DatatypeOrDefault() bacnet.Datatype {
	if r.Datatype != nil {
		return *r.Datatype
	}
	if r.Value == "" {
		return bacnet.DatatypeNone
	}
	return bacnet.DatatypeCharacterString
}

// LoadFromPath reads a document file (YAML or JSON).
// Format is detected by extension (.yaml/.yml → YAML, .json → JSON) or by content.
func LoadFromPath(path string) (*Document, error) {
	data, err := os.ReadFile(path) // #nosec G304 - path is supplied by the user
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	return Load(data, filepath.Ext(path))
}

// Load parses a document from bytes. ext is the file extension used as a
// format hint; empty means detect from content.
func Load(data []byte, ext string) (*Document, error) {
	ext = strings.ToLower(ext)
	if ext == ".yml" {
		ext = ".yaml"
	}
	if ext == "" {
		// Detect: JSON starts with {, anything else is YAML
		if strings.HasPrefix(strings.TrimSpace(string(data)), "{") {
			ext = ".json"
		} else {
			ext = ".yaml"
		}
	}

	var d Document
	switch ext {
	case ".json":
		if err := json.Unmarshal(data, &d); err != nil {
			return nil, fmt.Errorf("parse document json: %w", err)
		}
	case ".yaml":
		if err := yaml.Unmarshal(data, &d); err != nil {
			return nil, fmt.Errorf("parse document yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported document format %q", ext)
	}
	return &d, nil
}

// Descriptor returns the object the tags belong to
func (d *Document) Descriptor() (translate.ObjectDescriptor, error) {
	if d.Object != nil {
		return translate.NewObjectDescriptor(d.Object.Name, d.Object.Type, d.Object.Instance)
	}
	if len(d.Properties) == 0 {
		return translate.ObjectDescriptor{}, ErrNoObject
	}
	return descriptorFromProperties(d.Properties)
}

// propertyDatatypes are the datatypes of the identifying properties when a row omits one
var propertyDatatypes = map[string]bacnet.Datatype{
	"object-name":       bacnet.DatatypeCharacterString,
	"object-identifier": bacnet.DatatypeObjectIdentifier,
	"object-type":       bacnet.DatatypeObjectType,
}

func descriptorFromProperties(rows []Row) (translate.ObjectDescriptor, error) {
	var (
		name       string
		identifier *bacnet.ObjectIdentifier
		objType    *bacnet.ObjectType
		extra      []translate.Property
	)

	for i, row := range rows {
		id, ok := bacnet.PropertyIdentifierByName(row.Name)
		if !ok {
			return translate.ObjectDescriptor{}, fmt.Errorf("property %d: %w: %q", i+1, ErrUnknownProperty, row.Name)
		}
		if id == bacnet.PropertyTags {
			return translate.ObjectDescriptor{}, fmt.Errorf("property %d: %w", i+1, ErrTagsProperty)
		}

		datatype := row.DatatypeOrDefault()
		if dt, ok := propertyDatatypes[row.Name]; ok && row.Datatype == nil {
			datatype = dt
		}
		value, err := bacnet.Parse(datatype, string(row.Value))
		if err != nil {
			return translate.ObjectDescriptor{}, fmt.Errorf("property %d (%s): %w", i+1, row.Name, err)
		}

		switch v := value.(type) {
		case bacnet.NoValue:
			// an empty row names the property without a value
			continue
		case bacnet.CharacterString:
			if id == bacnet.PropertyObjectName {
				name = string(v)
				continue
			}
		case bacnet.ObjectIdentifier:
			if id == bacnet.PropertyObjectIdentifier {
				identifier = &v
				continue
			}
		case bacnet.ObjectType:
			if id == bacnet.PropertyObjectType {
				objType = &v
				continue
			}
		}
		extra = append(extra, translate.Property{Identifier: id, Value: value})
	}

	if objType == nil {
		return translate.ObjectDescriptor{}, fmt.Errorf("%w: object-type", ErrMissingProperty)
	}
	if identifier == nil {
		return translate.ObjectDescriptor{}, fmt.Errorf("%w: object-identifier", ErrMissingProperty)
	}
	if identifier.Type != *objType {
		return translate.ObjectDescriptor{}, fmt.Errorf("%w: %s vs %s", ErrTypeMismatch, *objType, identifier.Type)
	}

	obj := translate.ObjectDescriptor{Name: name, Identifier: *identifier, Properties: extra}
	return obj, obj.Validate()
}

// Pairs returns the tags in document order
func (d *Document) Pairs() []translate.NameValuePair {
	pairs := make([]translate.NameValuePair, len(d.Tags))
	for i, row := range d.Tags {
		pairs[i] = translate.Tag(row.Name, string(row.Value), row.DatatypeOrDefault())
	}
	return pairs
}

// Translate builds the document's graph
func (d *Document) Translate(opts ...translate.Option) (*translate.Result, error) {
	obj, err := d.Descriptor()
	if err != nil {
		return nil, err
	}
	return translate.Build(obj, d.Pairs(), opts...), nil
}
