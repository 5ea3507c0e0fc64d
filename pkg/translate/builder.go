// Package translate turns the tags of a BACnet object into an RDF graph.
//
// Build walks the tags in order, threading a Context through the loop:
// directives and prefix declarations change the context for later tags,
// regular tags each emit at most one triple. A failing tag is recorded in
// Result.Errors and never stops the run.
package translate

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"sort"

	"github.com/JoelBender/bsit-tags/pkg/bacnet"
	"github.com/JoelBender/bsit-tags/pkg/rdf"
	"github.com/JoelBender/bsit-tags/pkg/tagname"
)

// ObjectErrorKey is the key in Result.Errors for a failure of the object itself
const ObjectErrorKey = -1

// ErrAnnotation is wrapped when a language is given for a value that is not a string
var ErrAnnotation = errors.New("language applies only to CharacterString values")

// Result is the outcome of one translation run
type Result struct {
	Object  ObjectDescriptor
	Graph   *rdf.Graph
	Context *Context
	Errors  map[int]error
}

// OK reports whether every tag translated without error
func (r *Result) OK() bool {
	return len(r.Errors) == 0
}

// ErrorIndexes returns the indexes with errors in ascending order
func (r *Result) ErrorIndexes() []int {
	indexes := make([]int, 0, len(r.Errors))
	for i := range r.Errors {
		indexes = append(indexes, i)
	}
	sort.Ints(indexes)
	return indexes
}

// Turtle serializes the graph with the final prefix table
func (r *Result) Turtle() string {
	return Serialize(r.Graph, r.Context.Prefixes())
}

// Option configures Build
type Option func(*options)

type options struct {
	baseIRI    string
	prefixes   map[string]string
	markerTags bool
	logger     *slog.Logger
}

// WithBaseIRI sets the initial base IRI
func WithBaseIRI(iri string) Option {
	return func(o *options) { o.baseIRI = iri }
}

// WithVendorID sets the initial base IRI to the default for a vendor
func WithVendorID(id int) Option {
	return func(o *options) { o.baseIRI = DefaultBaseIRI(id) }
}

// WithPrefixes adds prefixes to the initial prefix table
func WithPrefixes(prefixes map[string]string) Option {
	return func(o *options) {
		if o.prefixes == nil {
			o.prefixes = make(map[string]string, len(prefixes))
		}
		maps.Copy(o.prefixes, prefixes)
	}
}

// WithMarkerTags makes value-less tags emit (subject rdf:type predicate)
func WithMarkerTags() Option {
	return func(o *options) { o.markerTags = true }
}

// WithLogger sets the logger for per-tag diagnostics
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// Build translates an object and its tags
func Build(obj ObjectDescriptor, pairs []NameValuePair, opts ...Option) *Result {
	o := options{baseIRI: DefaultBaseIRI(DefaultVendorID)}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}

	b := &builder{
		ctx:     NewContext(o.baseIRI, obj.DefaultSubject(), o.prefixes),
		graph:   rdf.NewGraph(),
		errors:  make(map[int]error),
		options: o,
	}

	if err := obj.Validate(); err != nil {
		b.fail(ObjectErrorKey, "", err)
	} else {
		b.seed(obj)
	}

	for i, pair := range pairs {
		if err := b.apply(pair); err != nil {
			b.fail(i, pair.Name, err)
		}
	}

	o.logger.Debug("translated object",
		"object", obj.Label(),
		"tags", len(pairs),
		"triples", b.graph.Len(),
		"errors", len(b.errors))

	return &Result{Object: obj, Graph: b.graph, Context: b.ctx, Errors: b.errors}
}

type builder struct {
	ctx     *Context
	graph   *rdf.Graph
	errors  map[int]error
	options options
}

func (b *builder) fail(index int, name string, err error) {
	b.errors[index] = err
	b.options.logger.Debug("tag failed", "index", index, "name", name, "error", err)
}

func (b *builder) emit(predicate *rdf.NamedNode, object rdf.Term) {
	b.graph.Add(rdf.NewTriple(b.ctx.Subject(), predicate, object))
}

// seed adds the properties of the object
func (b *builder) seed(obj ObjectDescriptor) {
	if obj.Name != "" {
		b.emit(bacnet.PropertyIRI(bacnet.PropertyObjectName), bacnet.Term(bacnet.CharacterString(obj.Name)))
	}
	b.emit(bacnet.PropertyIRI(bacnet.PropertyObjectIdentifier), bacnet.Term(obj.Identifier))
	b.emit(bacnet.PropertyIRI(bacnet.PropertyObjectType), bacnet.Term(obj.Type()))
	for _, prop := range obj.Properties {
		if object := bacnet.Term(prop.Value); object != nil {
			b.emit(bacnet.PropertyIRI(prop.Identifier), object)
		}
	}
}

func (b *builder) apply(pair NameValuePair) error {
	desc, err := tagname.Parse(pair.Name)
	if err != nil {
		return err
	}

	if desc.Kind != tagname.KindRegular {
		return b.ctx.Apply(desc, pair.Value, pair.Datatype)
	}

	predicate, err := b.ctx.Resolve(desc.Name)
	if err != nil {
		return err
	}

	value, err := bacnet.Parse(pair.Datatype, pair.Value)
	if err != nil {
		return err
	}

	if _, ok := value.(bacnet.NoValue); ok {
		if b.options.markerTags {
			b.emit(rdf.RDFType, predicate)
		}
		return nil
	}

	object, err := b.object(desc, value)
	if err != nil {
		return err
	}
	b.emit(predicate, object)
	return nil
}

// object renders value, applying the annotation with the highest priority:
// explicit datatype, explicit language, default language, then the codec's datatype.
func (b *builder) object(desc tagname.Descriptor, value bacnet.Value) (rdf.Term, error) {
	_, isString := value.(bacnet.CharacterString)

	if desc.Datatype != nil {
		datatype, err := b.ctx.Resolve(*desc.Datatype)
		if err != nil {
			return nil, err
		}
		return b.typed(value, isString, datatype)
	}

	if desc.Language != "" {
		if !isString {
			return nil, &bacnet.ValueError{
				Datatype: value.Datatype(),
				Text:     value.Text(),
				Reason:   fmt.Errorf("%w: @%s", ErrAnnotation, desc.Language),
			}
		}
		return rdf.NewLiteralWithLanguage(value.Text(), desc.Language), nil
	}

	if isString && b.ctx.Language() != "" {
		return rdf.NewLiteralWithLanguage(value.Text(), b.ctx.Language()), nil
	}

	return bacnet.Term(value), nil
}

// typed applies an explicit datatype. Strings typed as xsd:anyURI become IRIs
// and strings typed as rdf:PlainLiteral stay plain.
func (b *builder) typed(value bacnet.Value, isString bool, datatype *rdf.NamedNode) (rdf.Term, error) {
	if isString {
		switch datatype.IRI {
		case rdf.XSDAnyURI.IRI:
			node, err := b.ctx.resolveNode(value.Text())
			if err != nil {
				return nil, &ContextError{Directive: "anyURI", Value: value.Text(), Reason: err}
			}
			return node, nil
		case rdf.RDFPlainLiteral.IRI:
			if lang := b.ctx.Language(); lang != "" {
				return rdf.NewLiteralWithLanguage(value.Text(), lang), nil
			}
			return rdf.NewLiteral(value.Text()), nil
		}
	}

	text, _ := bacnet.Render(value)
	return rdf.NewLiteralWithDatatype(text, datatype), nil
}
