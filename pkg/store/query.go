package store

import (
	"bytes"
	"fmt"

	"github.com/JoelBender/bsit-tags/pkg/rdf"
)

// Pattern selects quads. A nil position matches anything.
type Pattern struct {
	Subject   rdf.Term
	Predicate *rdf.NamedNode
	Object    rdf.Term
	Graph     *rdf.NamedNode
}

// QuadIterator iterates over quads matching a pattern
type QuadIterator interface {
	Next() bool
	Quad() (*rdf.Quad, error)
	Close() error
}

// Positions within a quad: S=0, P=1, O=2, G=3
const quadPositions = 4

// index is one quad permutation; order maps key position to quad position
type index struct {
	table Table
	order [quadPositions]int
}

var indexes = []index{
	{TableSPOG, [quadPositions]int{0, 1, 2, 3}},
	{TablePOSG, [quadPositions]int{1, 2, 0, 3}},
	{TableOSPG, [quadPositions]int{2, 0, 1, 3}},
	{TableGSPO, [quadPositions]int{3, 0, 1, 2}},
}

// selectIndex chooses the index whose key starts with the most bound positions
func selectIndex(bound [quadPositions]bool) index {
	best, bestLen := indexes[0], -1
	for _, idx := range indexes {
		n := 0
		for _, pos := range idx.order {
			if !bound[pos] {
				break
			}
			n++
		}
		if n > bestLen {
			best, bestLen = idx, n
		}
	}
	return best
}

// Query executes a pattern match and returns matching quads.
// Bound positions that do not form a key prefix are checked per key.
func (a *Archive) Query(pattern *Pattern) (QuadIterator, error) {
	var encoded [quadPositions]EncodedTerm
	var bound [quadPositions]bool

	terms := [quadPositions]rdf.Term{pattern.Subject, nil, pattern.Object, nil}
	if pattern.Predicate != nil {
		terms[1] = pattern.Predicate
	}
	if pattern.Graph != nil {
		terms[3] = pattern.Graph
	}
	for pos, term := range terms {
		if term == nil {
			continue
		}
		enc, _, err := a.encoder.EncodeTerm(term)
		if err != nil {
			return nil, fmt.Errorf("failed to encode pattern term: %w", err)
		}
		encoded[pos] = enc
		bound[pos] = true
	}

	idx := selectIndex(bound)

	// Build the prefix from leading bound terms in key order
	var prefix []byte
	for _, pos := range idx.order {
		if !bound[pos] {
			break
		}
		prefix = append(prefix, encoded[pos][:]...)
	}

	txn, err := a.storage.Begin(false)
	if err != nil {
		return nil, err
	}

	it, err := txn.Scan(idx.table, prefix)
	if err != nil {
		_ = txn.Rollback() // #nosec G104 - rollback error less important than original error
		return nil, err
	}

	return &quadIterator{
		archive: a,
		txn:     txn,
		it:      it,
		index:   idx,
		encoded: encoded,
		bound:   bound,
	}, nil
}

// quadIterator implements QuadIterator
type quadIterator struct {
	archive *Archive
	txn     Transaction
	it      Iterator
	index   index
	encoded [quadPositions]EncodedTerm
	bound   [quadPositions]bool
	current [quadPositions]EncodedTerm
	closed  bool
}

func (qi *quadIterator) Next() bool {
	if qi.closed {
		return false
	}
	for qi.it.Next() {
		key := qi.it.Key()
		if len(key) != quadPositions*EncodedTermSize {
			continue
		}
		for i, pos := range qi.index.order {
			offset := i * EncodedTermSize
			copy(qi.current[pos][:], key[offset:offset+EncodedTermSize])
		}
		if qi.matches() {
			return true
		}
	}
	return false
}

func (qi *quadIterator) matches() bool {
	for pos := range quadPositions {
		if qi.bound[pos] && !bytes.Equal(qi.current[pos][:], qi.encoded[pos][:]) {
			return false
		}
	}
	return true
}

func (qi *quadIterator) Quad() (*rdf.Quad, error) {
	if qi.closed {
		return nil, fmt.Errorf("iterator closed")
	}

	var terms [quadPositions]rdf.Term
	names := [quadPositions]string{"subject", "predicate", "object", "graph"}
	for pos := range quadPositions {
		term, err := qi.archive.decodeTerm(qi.txn, qi.current[pos])
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", names[pos], err)
		}
		terms[pos] = term
	}

	predicate, ok := terms[1].(*rdf.NamedNode)
	if !ok {
		return nil, fmt.Errorf("predicate is not an IRI: %s", terms[1])
	}
	graph, ok := terms[3].(*rdf.NamedNode)
	if !ok {
		return nil, fmt.Errorf("graph is not an IRI: %s", terms[3])
	}

	return rdf.NewQuad(terms[0], predicate, terms[2], graph), nil
}

func (qi *quadIterator) Close() error {
	if qi.closed {
		return nil
	}
	qi.closed = true
	_ = qi.it.Close() // #nosec G104 - iterator close error less critical than transaction rollback error
	return qi.txn.Rollback()
}

// decodeTerm decodes an encoded term, looking up its string when needed
func (a *Archive) decodeTerm(txn Transaction, encoded EncodedTerm) (rdf.Term, error) {
	var stringValue *string
	if a.decoder.NeedsString(encoded) {
		str, err := txn.Get(TableID2Str, encoded[1:])
		switch {
		case err == nil:
			strVal := string(str)
			stringValue = &strVal
		case err != ErrNotFound:
			return nil, err
		}
	}

	return a.decoder.DecodeTerm(encoded, stringValue)
}
