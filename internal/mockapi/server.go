// Package mockapi is a local stand-in for the chat API, used for manual
// testing of the chat UI. It serves canned payloads selected by keywords in
// the query so the UI's error paths can be exercised without the real
// backend.
package mockapi

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/avoschat/llmclient-go/internal/logger"
)

// Canned response bodies. "malformed" is deliberately not JSON.
const (
	bodyNormal    = `{"answer": "This is a test response from the API. It simulates a successful message.", "sources": [{"title": "Test Document 1", "url": "https://example.com/doc1"}, {"title": "Test Document 2", "url": "https://example.com/doc2"}], "sessionId": "test-session-123"}`
	bodyError     = `{"answer": "Sorry, I encountered an error while processing your request.", "sources": [], "isError": true, "sessionId": "test-session-error"}`
	bodyEmpty     = `{}`
	bodyMalformed = `This is not a JSON object`
	bodyBadJSON   = `{"error": "Invalid JSON in request", "answer": "The server could not parse your request as valid JSON.", "isError": true}`
)

// Server answers POST /api/chat with one of four canned payloads, after an
// artificial processing delay.
type Server struct {
	delay  time.Duration
	router chi.Router
}

// New builds a Server. Pass a zero delay in tests.
func New(delay time.Duration) *Server {
	s := &Server{delay: delay}

	r := chi.NewRouter()
	r.Use(corsMiddleware)
	r.Post("/api/chat", s.handleChat)
	s.router = r

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// corsMiddleware adds the permissive CORS headers the browser-hosted chat UI
// needs, and short-circuits preflight requests.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	log := logger.L.With("request_id", uuid.NewString())

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return
	}
	log.Info("chat request received", "body", string(body))

	var chatReq struct {
		Query string `json:"query"`
	}
	if err := json.Unmarshal(body, &chatReq); err != nil {
		log.Warn("request body is not valid JSON", "error", err)
		writeJSON(w, bodyBadJSON)
		return
	}

	kind := classify(chatReq.Query)

	// Simulate processing time so the UI's loading states are visible.
	time.Sleep(s.delay)

	writeJSON(w, cannedBody(kind))
	log.Info("served canned response", "kind", kind)
}

// classify picks the canned payload by substring match on the query.
func classify(query string) string {
	lowered := strings.ToLower(query)
	switch {
	case strings.Contains(lowered, "error"):
		return "error"
	case strings.Contains(lowered, "empty"):
		return "empty"
	case strings.Contains(lowered, "malformed"):
		return "malformed"
	default:
		return "normal"
	}
}

func cannedBody(kind string) string {
	switch kind {
	case "error":
		return bodyError
	case "empty":
		return bodyEmpty
	case "malformed":
		return bodyMalformed
	default:
		return bodyNormal
	}
}

func writeJSON(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, body)
}
