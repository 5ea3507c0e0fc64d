package store_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/JoelBender/bsit-tags/internal/storage"
	"github.com/JoelBender/bsit-tags/pkg/bacnet"
	"github.com/JoelBender/bsit-tags/pkg/rdf"
	"github.com/JoelBender/bsit-tags/pkg/store"
	"github.com/JoelBender/bsit-tags/pkg/translate"
)

func newTestArchive(t *testing.T) *store.Archive {
	t.Helper()
	archive, err := storage.OpenArchive(t.TempDir())
	if err != nil {
		t.Fatalf("failed to open archive: %v", err)
	}
	t.Cleanup(func() { _ = archive.Close() })
	return archive
}

func translateObject(t *testing.T, name string, instance uint32, pairs ...translate.NameValuePair) *translate.Result {
	t.Helper()
	obj, err := translate.NewObjectDescriptor(name, "analog-value", instance)
	if err != nil {
		t.Fatalf("NewObjectDescriptor failed: %v", err)
	}
	return translate.Build(obj, pairs)
}

func TestSaveRun(t *testing.T) {
	archive := newTestArchive(t)

	result := translateObject(t, "Chilled Water Temperature", 1,
		translate.Tag("status", "true", bacnet.DatatypeBoolean),
		translate.Tag("units", "degrees-fahrenheit", bacnet.DatatypeCharacterString),
		translate.Tag("setpoint@en", "x", bacnet.DatatypeReal),
	)

	run, err := archive.SaveRun(result)
	if err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}

	if run.Label != "analog-value-1" {
		t.Errorf("Expected label analog-value-1, got %s", run.Label)
	}
	if run.Identifier != "analog-value,1" {
		t.Errorf("Expected identifier analog-value,1, got %s", run.Identifier)
	}
	if run.Subject != "_:analog-value-1" {
		t.Errorf("Expected subject _:analog-value-1, got %s", run.Subject)
	}
	if run.Triples != result.Graph.Len() {
		t.Errorf("Expected %d triples, got %d", result.Graph.Len(), run.Triples)
	}
	if _, ok := run.Errors[2]; !ok || len(run.Errors) != 1 {
		t.Errorf("Expected one error at index 2, got %v", run.Errors)
	}
	if run.Turtle != result.Turtle() {
		t.Error("Expected the run to keep the serialized Turtle")
	}

	loaded, err := archive.Run(run.ID)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if loaded.ID != run.ID || loaded.Object != run.Object || loaded.Turtle != run.Turtle {
		t.Errorf("Expected loaded run to match saved run, got %+v", loaded)
	}
	if loaded.Errors[2] != run.Errors[2] {
		t.Errorf("Expected error text %q, got %q", run.Errors[2], loaded.Errors[2])
	}
	if !loaded.Created.Equal(run.Created) {
		t.Errorf("Expected created %s, got %s", run.Created, loaded.Created)
	}

	count, err := archive.Count()
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != int64(result.Graph.Len()) {
		t.Errorf("Expected %d quads, got %d", result.Graph.Len(), count)
	}
}

func TestRun_NotFound(t *testing.T) {
	archive := newTestArchive(t)

	_, err := archive.Run(uuid.New())
	if !errors.Is(err, store.ErrRunNotFound) {
		t.Errorf("Expected ErrRunNotFound, got %v", err)
	}
	if _, err := archive.Graph(uuid.New()); !errors.Is(err, store.ErrRunNotFound) {
		t.Errorf("Expected ErrRunNotFound from Graph, got %v", err)
	}
}

func TestGraph_RoundTrip(t *testing.T) {
	archive := newTestArchive(t)

	result := translateObject(t, "Zone Temperature", 7,
		translate.Tag("ex:", "http://example.org/ns#", bacnet.DatatypeCharacterString),
		translate.Tag("ex:count", "-3", bacnet.DatatypeInteger),
		translate.Tag("ex:limit", "12", bacnet.DatatypeUnsigned),
		translate.Tag("ex:label@de", "Zonentemperatur", bacnet.DatatypeCharacterString),
		translate.Tag("ex:reading", "72.5", bacnet.DatatypeReal),
		translate.Tag("ex:flags", "3;1", bacnet.DatatypeBitString),
	)
	if !result.OK() {
		t.Fatalf("Expected no errors, got %v", result.Errors)
	}

	run, err := archive.SaveRun(result)
	if err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}

	g, err := archive.Graph(run.ID)
	if err != nil {
		t.Fatalf("Graph failed: %v", err)
	}
	if g.Len() != result.Graph.Len() {
		t.Fatalf("Expected %d triples, got %d", result.Graph.Len(), g.Len())
	}
	for _, triple := range result.Graph.Triples() {
		if !g.Contains(triple) {
			t.Errorf("Expected archived graph to contain %s", triple)
		}
	}
}

func TestRuns_SeparateGraphs(t *testing.T) {
	archive := newTestArchive(t)

	// The same object translated twice yields two runs with identical triples
	first, err := archive.SaveRun(translateObject(t, "Supply Air", 3))
	if err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}
	time.Sleep(time.Millisecond)
	second, err := archive.SaveRun(translateObject(t, "Supply Air", 3))
	if err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}

	runs, err := archive.Runs()
	if err != nil {
		t.Fatalf("Runs failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("Expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != first.ID || runs[1].ID != second.ID {
		t.Errorf("Expected runs oldest first, got %s then %s", runs[0].ID, runs[1].ID)
	}

	subject := rdf.NewBlankNode("analog-value-3")
	quads, err := archive.TriplesFor(subject)
	if err != nil {
		t.Fatalf("TriplesFor failed: %v", err)
	}
	if len(quads) != 6 {
		t.Errorf("Expected 3 triples in each of 2 runs, got %d", len(quads))
	}

	name := rdf.NewTriple(subject, bacnet.PropertyIRI(bacnet.PropertyObjectName), rdf.NewLiteral("Supply Air"))
	for _, id := range []uuid.UUID{first.ID, second.ID} {
		ok, err := archive.ContainsTriple(id, name)
		if err != nil {
			t.Fatalf("ContainsTriple failed: %v", err)
		}
		if !ok {
			t.Errorf("Expected run %s to contain %s", id, name)
		}
	}

	ok, err := archive.ContainsTriple(uuid.New(), name)
	if err != nil {
		t.Fatalf("ContainsTriple failed: %v", err)
	}
	if ok {
		t.Error("Expected unknown run to contain nothing")
	}
}

func TestExport(t *testing.T) {
	archive := newTestArchive(t)

	first, _ := archive.SaveRun(translateObject(t, "A", 1, translate.Tag("status", "true", bacnet.DatatypeBoolean)))
	second, _ := archive.SaveRun(translateObject(t, "B", 2))

	var out strings.Builder
	if err := archive.Export(&out); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	if len(lines) != 7 {
		t.Fatalf("Expected 7 quads, got %d:\n%s", len(lines), out.String())
	}
	want := `_:analog-value-1 <http://example.com/vendor/999/status> "true"^^<http://www.w3.org/2001/XMLSchema#boolean> <` + first.ID.URN() + `> .`
	if !strings.Contains(out.String(), want+"\n") {
		t.Errorf("Expected %q in export, got:\n%s", want, out.String())
	}

	// quads of one run are contiguous
	seen := map[string]bool{}
	last := ""
	for _, line := range lines {
		graph := line[strings.LastIndex(line, " <"):]
		if graph != last && seen[graph] {
			t.Errorf("Expected the quads of %s together", graph)
		}
		seen[graph], last = true, graph
	}
	if !seen[" <"+second.ID.URN()+"> ."] {
		t.Errorf("Expected quads of the second run, got %v", seen)
	}
}

func TestQuery_Patterns(t *testing.T) {
	archive := newTestArchive(t)

	a, _ := archive.SaveRun(translateObject(t, "A", 1, translate.Tag("status", "true", bacnet.DatatypeBoolean)))
	_, _ = archive.SaveRun(translateObject(t, "B", 2, translate.Tag("status", "false", bacnet.DatatypeBoolean)))

	status := rdf.NewNamedNode(translate.DefaultBaseIRI(translate.DefaultVendorID) + "status")
	objectType := bacnet.PropertyIRI(bacnet.PropertyObjectType)

	tests := []struct {
		name     string
		pattern  *store.Pattern
		expected int
	}{
		{"everything", &store.Pattern{}, 8},
		{"by predicate", &store.Pattern{Predicate: status}, 2},
		{"by object", &store.Pattern{Object: rdf.NewLiteralWithDatatype("true", rdf.XSDBoolean)}, 1},
		{"by graph", &store.Pattern{Graph: a.GraphIRI()}, 4},
		{"graph and predicate", &store.Pattern{Graph: a.GraphIRI(), Predicate: objectType}, 1},
		{"subject and object", &store.Pattern{
			Subject: rdf.NewBlankNode("analog-value-2"),
			Object:  rdf.NewLiteral("B"),
		}, 1},
		{"no match", &store.Pattern{Subject: rdf.NewBlankNode("missing")}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it, err := archive.Query(tt.pattern)
			if err != nil {
				t.Fatalf("Query failed: %v", err)
			}
			defer it.Close()

			count := 0
			for it.Next() {
				quad, err := it.Quad()
				if err != nil {
					t.Fatalf("Quad failed: %v", err)
				}
				if tt.pattern.Graph != nil && !quad.Graph.Equals(tt.pattern.Graph) {
					t.Errorf("Expected graph %s, got %s", tt.pattern.Graph, quad.Graph)
				}
				count++
			}
			if count != tt.expected {
				t.Errorf("Expected %d quads, got %d", tt.expected, count)
			}
		})
	}
}
