package server

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/JoelBender/bsit-tags/pkg/bacnet"
	"github.com/JoelBender/bsit-tags/pkg/document"
	"github.com/JoelBender/bsit-tags/pkg/store"
	"github.com/JoelBender/bsit-tags/pkg/translate"
)

// TranslateResponse is the JSON body returned by POST /translate
type TranslateResponse struct {
	Object  string         `json:"object"`
	Subject string         `json:"subject"`
	Triples int            `json:"triples"`
	Turtle  string         `json:"turtle"`
	Errors  map[int]string `json:"errors,omitempty"`
	Run     *uuid.UUID     `json:"run,omitempty"`
}

// handleRoot provides information about the endpoint
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	var b strings.Builder
	b.WriteString("BACnet tag translator\n\n")
	b.WriteString("POST /translate          translate a YAML or JSON tag document\n")
	b.WriteString("POST /translate?save=true  translate and archive the run\n")
	b.WriteString("GET  /datatypes          supported tag datatypes\n")
	b.WriteString("GET  /runs               archived runs\n")
	b.WriteString("GET  /runs/{id}          one run (JSON or text/turtle)\n")
	b.WriteString("GET  /runs/{id}/triples  the run's archived triples as N-Triples\n")
	b.WriteString("GET  /export             every archived run as N-Quads\n")
	b.WriteString("GET  /metrics            Prometheus metrics\n")
	fmt.Fprintf(&b, "\nvendor id: %d, archive: %t\n", s.config.VendorID, s.archive != nil)

	_, _ = w.Write([]byte(b.String())) // #nosec G104 - error writing response is logged elsewhere if needed
}

// handleTranslate translates one document
func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	// Enable CORS
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept")

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	save, _ := strconv.ParseBool(r.URL.Query().Get("save"))
	if save && s.archive == nil {
		s.writeError(w, http.StatusServiceUnavailable, "archive not configured")
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		s.writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("Failed to read request body: %v", err))
		return
	}

	doc, err := document.Load(body, documentExt(r.Header.Get("Content-Type")))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := doc.Translate(s.config.TranslateOptions(s.logger)...)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.metrics.RecordTranslation(result.Graph.Len(), len(result.Errors))

	response := TranslateResponse{
		Object:  result.Object.Label(),
		Subject: result.Context.Subject().String(),
		Triples: result.Graph.Len(),
		Turtle:  result.Turtle(),
		Errors:  errorTexts(result),
	}

	if save {
		run, err := s.archive.SaveRun(result)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, fmt.Sprintf("Archive error: %v", err))
			return
		}
		s.metrics.runsSavedTotal.Inc()
		response.Run = &run.ID
		w.Header().Set("Location", "/runs/"+run.ID.String())
	}

	if len(result.Errors) > 0 {
		w.Header().Set("X-Tag-Errors", strconv.Itoa(len(result.Errors)))
	}

	switch s.negotiateFormat(r.Header.Get("Accept")) {
	case formatTurtle:
		s.writeText(w, contentTypeTurtle, response.Turtle)
	case formatNTriples:
		s.writeText(w, contentTypeNTriples, translate.NTriples(result.Graph))
	default:
		s.writeJSON(w, http.StatusOK, response)
	}
}

// handleDatatypes lists the datatypes a tag may declare
func (s *Server) handleDatatypes(w http.ResponseWriter, r *http.Request) {
	datatypes := bacnet.Datatypes()
	names := make([]string, len(datatypes))
	for i, dt := range datatypes {
		names[i] = dt.String()
	}
	s.writeJSON(w, http.StatusOK, names)
}

// handleRuns lists archived runs, oldest first, without their Turtle text
func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if s.archive == nil {
		s.writeError(w, http.StatusServiceUnavailable, "archive not configured")
		return
	}

	runs, err := s.archive.Runs()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, fmt.Sprintf("Archive error: %v", err))
		return
	}
	for _, run := range runs {
		run.Turtle = ""
	}
	s.writeJSON(w, http.StatusOK, runs)
}

// handleRun returns one run as JSON, or its Turtle text when asked for
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	run, ok := s.lookupRun(w, r)
	if !ok {
		return
	}

	if s.negotiateFormat(r.Header.Get("Accept")) == formatTurtle {
		s.writeText(w, contentTypeTurtle, run.Turtle)
		return
	}
	s.writeJSON(w, http.StatusOK, run)
}

// handleRunTriples returns the triples stored for a run
func (s *Server) handleRunTriples(w http.ResponseWriter, r *http.Request) {
	run, ok := s.lookupRun(w, r)
	if !ok {
		return
	}

	g, err := s.archive.Graph(run.ID)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, fmt.Sprintf("Archive error: %v", err))
		return
	}
	s.writeText(w, contentTypeNTriples, translate.NTriples(g))
}

// handleExport dumps the whole archive, one named graph per run
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if s.archive == nil {
		s.writeError(w, http.StatusServiceUnavailable, "archive not configured")
		return
	}

	var b strings.Builder
	if err := s.archive.Export(&b); err != nil {
		s.writeError(w, http.StatusInternalServerError, fmt.Sprintf("Archive error: %v", err))
		return
	}
	s.writeText(w, contentTypeNQuads, b.String())
}

func (s *Server) lookupRun(w http.ResponseWriter, r *http.Request) (*store.Run, bool) {
	if s.archive == nil {
		s.writeError(w, http.StatusServiceUnavailable, "archive not configured")
		return nil, false
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid run id: %v", err))
		return nil, false
	}

	run, err := s.archive.Run(id)
	if errors.Is(err, store.ErrRunNotFound) {
		s.writeError(w, http.StatusNotFound, err.Error())
		return nil, false
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, fmt.Sprintf("Archive error: %v", err))
		return nil, false
	}
	return run, true
}

// documentExt maps a request content type to a document format hint
func documentExt(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	switch mediaType {
	case "application/json":
		return ".json"
	case "application/yaml", "application/x-yaml", "text/yaml", "text/x-yaml":
		return ".yaml"
	default:
		return ""
	}
}

func errorTexts(result *translate.Result) map[int]string {
	if result.OK() {
		return nil
	}
	texts := make(map[int]string, len(result.Errors))
	for i, err := range result.Errors {
		texts[i] = err.Error()
	}
	return texts
}
