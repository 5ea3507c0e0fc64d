package rdf

// Graph is an append-only, ordered collection of triples.
// Triples are kept in insertion order; nothing is ever removed or rewritten.
type Graph struct {
	triples []*Triple
}

// NewGraph creates an empty graph
func NewGraph() *Graph {
	return &Graph{}
}

// Add appends a triple to the graph
func (g *Graph) Add(t *Triple) {
	g.triples = append(g.triples, t)
}

// Len returns the number of triples
func (g *Graph) Len() int {
	return len(g.triples)
}

// Triples returns a copy of the triples in insertion order
func (g *Graph) Triples() []*Triple {
	out := make([]*Triple, len(g.triples))
	copy(out, g.triples)
	return out
}

// Contains reports whether an equal triple is present
func (g *Graph) Contains(t *Triple) bool {
	for _, existing := range g.triples {
		if existing.Equals(t) {
			return true
		}
	}
	return false
}

// Subjects returns the distinct subjects in order of first appearance
func (g *Graph) Subjects() []Term {
	var subjects []Term
	seen := make(map[string]bool)
	for _, t := range g.triples {
		key := t.Subject.String()
		if seen[key] {
			continue
		}
		seen[key] = true
		subjects = append(subjects, t.Subject)
	}
	return subjects
}

// BySubject returns the triples whose subject equals s, in insertion order
func (g *Graph) BySubject(s Term) []*Triple {
	var out []*Triple
	for _, t := range g.triples {
		if t.Subject.Equals(s) {
			out = append(out, t)
		}
	}
	return out
}
