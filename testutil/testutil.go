// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/danielhkuo/khobor-relay/cliparse"
	"github.com/danielhkuo/khobor-relay/db"
	"github.com/danielhkuo/khobor-relay/models"
)

// SetupTestDB creates a fresh sqlite database in a test temp dir with
// the full schema.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	conn, err := sql.Open("sqlite", "file:"+path)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration. StreamDelayMS is
// zero so synthesized streams run without pacing.
func GetTestConfig(backendURL string) cliparse.Config {
	return cliparse.Config{
		Port:              4117,
		BackendURL:        backendURL,
		DatabaseURL:       "file:test.db",
		DatabaseType:      "sqlite",
		UpstreamTimeoutMS: 2000,
		StreamDelayMS:     0,
	}
}

// Backend is a configurable fake answer backend.
type Backend struct {
	// AskStatus/AskBody drive POST /ask. A zero status means 200.
	AskStatus int
	AskBody   any

	// StreamStatus drives POST /ask/stream; a zero status means 200 and
	// StreamFrames are emitted as `data:` lines verbatim.
	StreamStatus int
	StreamFrames []string

	// TimelineStatus/TimelineBody drive GET /timeline.
	TimelineStatus int
	TimelineBody   any

	// askCalls counts POST /ask hits; read it with AskCalls.
	askCalls atomic.Int32
}

// AskCalls reports how many times POST /ask was hit.
func (b *Backend) AskCalls() int {
	return int(b.askCalls.Load())
}

// Serve starts an httptest server speaking the backend contract.
func (b *Backend) Serve(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /ask", func(w http.ResponseWriter, r *http.Request) {
		b.askCalls.Add(1)
		writeJSON(w, b.AskStatus, b.AskBody)
	})
	mux.HandleFunc("POST /ask/stream", func(w http.ResponseWriter, r *http.Request) {
		if b.StreamStatus != 0 && b.StreamStatus != http.StatusOK {
			writeJSON(w, b.StreamStatus, map[string]string{"error": "stream unavailable"})
			return
		}
		w.Header().Set("Content-Type", "text/event-stream")
		for _, frame := range b.StreamFrames {
			fmt.Fprintf(w, "data: %s\n\n", frame)
		}
	})
	mux.HandleFunc("GET /timeline", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, b.TimelineStatus, b.TimelineBody)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		body = map[string]string{"error": http.StatusText(status)}
	}
	json.NewEncoder(w).Encode(body)
}

// SimpleAnswer builds a minimal well-formed answer payload.
func SimpleAnswer(text string) models.AskResponse {
	return models.AskResponse{
		AnswerBN: text,
		Sources: []models.Source{
			{Name: "Prothom Alo", URL: "https://example.com/a"},
		},
		Metrics: models.Metrics{SourceCount: 1, UpdatedCT: "2025-11-02T09:00:00Z"},
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
