package server

import (
	"encoding/json"
	"net/http"
	"strings"
)

const (
	formatJSON     = "json"
	formatTurtle   = "turtle"
	formatNTriples = "ntriples"

	contentTypeJSON     = "application/json; charset=utf-8"
	contentTypeTurtle   = "text/turtle; charset=utf-8"
	contentTypeNTriples = "application/n-triples; charset=utf-8"
	contentTypeNQuads   = "application/n-quads; charset=utf-8"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// writeError writes an error response
func (s *Server) writeError(w http.ResponseWriter, statusCode int, message string) {
	if statusCode >= http.StatusInternalServerError {
		s.logger.Error("request failed", "status", statusCode, "error", message)
	} else {
		s.logger.Warn("request rejected", "status", statusCode, "error", message)
	}
	s.writeJSON(w, statusCode, errorBody{Error: errorDetail{Code: statusCode, Message: message}})
}

// writeJSON writes v as a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v) // #nosec G104 - error writing response is logged elsewhere if needed
}

// writeText writes a text response with the given content type
func (s *Server) writeText(w http.ResponseWriter, contentType, text string) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(text)) // #nosec G104 - error writing response is logged elsewhere if needed
}

// negotiateFormat determines the response format based on Accept header
func (s *Server) negotiateFormat(acceptHeader string) string {
	accept := strings.ToLower(acceptHeader)

	// Check for specific format requests
	if strings.Contains(accept, "text/turtle") || strings.Contains(accept, "application/x-turtle") {
		return formatTurtle
	}
	if strings.Contains(accept, "application/n-triples") {
		return formatNTriples
	}

	// Default to JSON
	return formatJSON
}
