package store

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/JoelBender/bsit-tags/pkg/rdf"
	"github.com/JoelBender/bsit-tags/pkg/translate"
)

// ErrRunNotFound is returned when no run has the requested id
var ErrRunNotFound = errors.New("run not found")

// Run is the metadata of one archived translation
type Run struct {
	ID         uuid.UUID      `json:"id"`
	Object     string         `json:"object"`
	Label      string         `json:"label"`
	Identifier string         `json:"identifier"`
	Subject    string         `json:"subject"`
	Triples    int            `json:"triples"`
	Errors     map[int]string `json:"errors,omitempty"`
	Turtle     string         `json:"turtle"`
	Created    time.Time      `json:"created"`
}

// NewRun describes a translation result under a fresh id
func NewRun(result *translate.Result) *Run {
	run := &Run{
		ID:         uuid.New(),
		Object:     result.Object.Name,
		Label:      result.Object.Label(),
		Identifier: result.Object.Identifier.Text(),
		Subject:    result.Context.Subject().String(),
		Triples:    result.Graph.Len(),
		Turtle:     result.Turtle(),
		Created:    time.Now().UTC(),
	}
	if len(result.Errors) > 0 {
		run.Errors = make(map[int]string, len(result.Errors))
		for i, err := range result.Errors {
			run.Errors[i] = err.Error()
		}
	}
	return run
}

// GraphIRI names the graph holding the run's triples
func (r *Run) GraphIRI() *rdf.NamedNode {
	return rdf.NewNamedNode(r.ID.URN())
}
