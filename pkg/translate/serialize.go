package translate

import (
	"io"

	"github.com/JoelBender/bsit-tags/pkg/rdf"
)

// Serialize renders the graph as Turtle using the prefix table
func Serialize(g *rdf.Graph, prefixes map[string]string) string {
	return rdf.SerializeTurtle(g, prefixes)
}

// WriteTurtle writes the graph as Turtle to w
func WriteTurtle(w io.Writer, g *rdf.Graph, prefixes map[string]string) error {
	return rdf.NewTurtleWriter(w, prefixes).WriteGraph(g)
}

// NTriples renders the graph as canonical N-Triples, one triple per line in
// emission order.
func NTriples(g *rdf.Graph) string {
	return rdf.SerializeTriplesCanonical(g.Triples())
}
