package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/google/uuid"

	"github.com/JoelBender/bsit-tags/pkg/rdf"
	"github.com/JoelBender/bsit-tags/pkg/translate"
)

// Archive keeps translation runs. Each run's triples live in a named graph
// identified by the run id, next to the run's metadata.
type Archive struct {
	storage Storage
	encoder TermEncoder
	decoder TermDecoder
}

// NewArchive creates an archive over a storage backend
func NewArchive(storage Storage, encoder TermEncoder, decoder TermDecoder) *Archive {
	return &Archive{
		storage: storage,
		encoder: encoder,
		decoder: decoder,
	}
}

// Close closes the underlying storage
func (a *Archive) Close() error {
	return a.storage.Close()
}

// SaveRun archives a translation result and returns its metadata
func (a *Archive) SaveRun(result *translate.Result) (*Run, error) {
	run := NewRun(result)

	txn, err := a.storage.Begin(true)
	if err != nil {
		return nil, err
	}
	defer txn.Rollback()

	graph := run.GraphIRI()
	for _, t := range result.Graph.Triples() {
		quad := rdf.NewQuad(t.Subject, t.Predicate, t.Object, graph)
		if err := a.insertQuadInTxn(txn, quad); err != nil {
			return nil, err
		}
	}

	data, err := json.Marshal(run)
	if err != nil {
		return nil, fmt.Errorf("failed to encode run: %w", err)
	}
	if err := txn.Set(TableRuns, run.ID[:], data); err != nil {
		return nil, err
	}

	if err := txn.Commit(); err != nil {
		return nil, err
	}
	return run, nil
}

// insertQuadInTxn writes a quad to every index within an existing transaction
func (a *Archive) insertQuadInTxn(txn Transaction, quad *rdf.Quad) error {
	terms := []rdf.Term{quad.Subject, quad.Predicate, quad.Object, quad.Graph}
	names := []string{"subject", "predicate", "object", "graph"}

	var encoded [quadPositions]EncodedTerm
	for pos, term := range terms {
		enc, str, err := a.encoder.EncodeTerm(term)
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", names[pos], err)
		}
		if err := storeString(txn, enc, str); err != nil {
			return err
		}
		encoded[pos] = enc
	}

	// Empty value for all index entries
	emptyValue := []byte{}
	for _, idx := range indexes {
		key := make([]EncodedTerm, quadPositions)
		for i, pos := range idx.order {
			key[i] = encoded[pos]
		}
		if err := txn.Set(idx.table, a.encoder.EncodeQuadKey(key...), emptyValue); err != nil {
			return err
		}
	}
	return nil
}

// storeString stores a string in the id2str table if provided
func storeString(txn Transaction, encoded EncodedTerm, str *string) error {
	if str == nil {
		return nil
	}

	// The hash portion is the key; the type byte is not needed to find the string
	key := encoded[1:]
	value := []byte(*str)

	existing, err := txn.Get(TableID2Str, key)
	if err == nil && bytes.Equal(existing, value) {
		return nil
	}
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}

	return txn.Set(TableID2Str, key, value)
}

// Run returns the metadata of one run
func (a *Archive) Run(id uuid.UUID) (*Run, error) {
	txn, err := a.storage.Begin(false)
	if err != nil {
		return nil, err
	}
	defer txn.Rollback()

	data, err := txn.Get(TableRuns, id[:])
	if errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	var run Run
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("failed to decode run %s: %w", id, err)
	}
	return &run, nil
}

// Runs returns the metadata of every run, oldest first
func (a *Archive) Runs() ([]*Run, error) {
	txn, err := a.storage.Begin(false)
	if err != nil {
		return nil, err
	}
	defer txn.Rollback()

	it, err := txn.Scan(TableRuns, nil)
	if err != nil {
		return nil, err
	}
	defer it.Close()

	var runs []*Run
	for it.Next() {
		data, err := it.Value()
		if err != nil {
			return nil, err
		}
		var run Run
		if err := json.Unmarshal(data, &run); err != nil {
			return nil, fmt.Errorf("failed to decode run: %w", err)
		}
		runs = append(runs, &run)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Created.Before(runs[j].Created)
	})
	return runs, nil
}

// Graph rebuilds the distinct triples of a run in index order
func (a *Archive) Graph(id uuid.UUID) (*rdf.Graph, error) {
	if _, err := a.Run(id); err != nil {
		return nil, err
	}

	it, err := a.Query(&Pattern{Graph: rdf.NewNamedNode(id.URN())})
	if err != nil {
		return nil, err
	}
	defer it.Close()

	g := rdf.NewGraph()
	for it.Next() {
		quad, err := it.Quad()
		if err != nil {
			return nil, err
		}
		g.Add(quad.Triple())
	}
	return g, nil
}

// Export writes every archived quad as N-Quads, grouped by run
func (a *Archive) Export(w io.Writer) error {
	it, err := a.Query(&Pattern{})
	if err != nil {
		return err
	}
	defer it.Close()

	// An empty pattern scans the first index, so quads of one run are not contiguous
	var quads []*rdf.Quad
	for it.Next() {
		quad, err := it.Quad()
		if err != nil {
			return err
		}
		quads = append(quads, quad)
	}
	sort.SliceStable(quads, func(i, j int) bool {
		return quads[i].Graph.IRI < quads[j].Graph.IRI
	})

	_, err = io.WriteString(w, rdf.SerializeQuadsCanonical(quads))
	return err
}

// TriplesFor returns every archived quad whose subject is s, across runs
func (a *Archive) TriplesFor(s rdf.Term) ([]*rdf.Quad, error) {
	it, err := a.Query(&Pattern{Subject: s})
	if err != nil {
		return nil, err
	}
	defer it.Close()

	var quads []*rdf.Quad
	for it.Next() {
		quad, err := it.Quad()
		if err != nil {
			return nil, err
		}
		quads = append(quads, quad)
	}
	return quads, nil
}

// ContainsTriple reports whether the run with the given id holds the triple
func (a *Archive) ContainsTriple(id uuid.UUID, t *rdf.Triple) (bool, error) {
	txn, err := a.storage.Begin(false)
	if err != nil {
		return false, err
	}
	defer txn.Rollback()

	terms := []rdf.Term{t.Subject, t.Predicate, t.Object, rdf.NewNamedNode(id.URN())}
	encoded := make([]EncodedTerm, len(terms))
	for i, term := range terms {
		enc, _, err := a.encoder.EncodeTerm(term)
		if err != nil {
			return false, err
		}
		encoded[i] = enc
	}

	_, err = txn.Get(TableSPOG, a.encoder.EncodeQuadKey(encoded...))
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Count returns the number of archived quads
func (a *Archive) Count() (int64, error) {
	txn, err := a.storage.Begin(false)
	if err != nil {
		return 0, err
	}
	defer txn.Rollback()

	// The SPOG index has exactly one entry per quad
	it, err := txn.Scan(TableSPOG, nil)
	if err != nil {
		return 0, err
	}
	defer it.Close()

	count := int64(0)
	for it.Next() {
		count++
	}
	return count, nil
}
