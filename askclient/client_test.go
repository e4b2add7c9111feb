// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package askclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/danielhkuo/khobor-relay/models"
)

func serveFrames(t *testing.T, frames ...string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		for _, frame := range frames {
			fmt.Fprintf(w, "data: %s\n\n", frame)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestAsk_AccumulatesTokens(t *testing.T) {
	srv := serveFrames(t,
		`{"type":"token","content":"Hello","delta":"Hello"}`,
		`{"type":"token","content":"Hello World","delta":"World"}`,
		`{"type":"complete","answer":{"answer_bn":"Hello World","sources":[{"name":"s","url":"u"}]}}`,
		models.DoneSentinel,
	)

	c := New(srv.URL)
	var deltas []string
	answer, err := c.Ask(context.Background(), models.Query{Text: "greeting"}, func(delta string) {
		deltas = append(deltas, delta)
	})
	if err != nil {
		t.Fatal(err)
	}

	if answer.AnswerBN != "Hello World" {
		t.Errorf("unexpected answer: %q", answer.AnswerBN)
	}
	if strings.Join(deltas, " ") != "Hello World" {
		t.Errorf("unexpected deltas: %v", deltas)
	}
	if c.Pending() {
		t.Error("pending must clear after resolution")
	}
	if c.Answer() != answer {
		t.Error("resolved answer should be retained")
	}

	c.Clear()
	if c.Answer() != nil {
		t.Error("Clear should drop the retained answer")
	}
}

func TestAsk_UntaggedFinalFrame(t *testing.T) {
	// Verbatim-relayed backends may omit the type tag; metadata presence
	// marks the final frame.
	srv := serveFrames(t,
		`{"delta":"খবর","content":"খবর"}`,
		`{"content":"খবর","metrics":{"source_count":2},"sources":[{"name":"a","url":"u"}]}`,
		models.DoneSentinel,
	)

	c := New(srv.URL)
	answer, err := c.Ask(context.Background(), models.Query{Text: "q", Lang: "bn"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if answer.Metrics.SourceCount != 2 {
		t.Errorf("expected metrics from final frame, got %+v", answer.Metrics)
	}
	if answer.AnswerText() != "খবর" {
		t.Errorf("unexpected answer text %q", answer.AnswerText())
	}
}

func TestAsk_MalformedFrameSkipped(t *testing.T) {
	srv := serveFrames(t,
		`{"type":"token","content":"ok","delta":"ok"}`,
		`{not json at all`,
		`{"type":"complete","answer":{"answer_bn":"ok"}}`,
		models.DoneSentinel,
	)

	c := New(srv.URL)
	answer, err := c.Ask(context.Background(), models.Query{Text: "q"}, nil)
	if err != nil {
		t.Fatalf("one bad frame must not kill the stream: %v", err)
	}
	if answer.AnswerBN != "ok" {
		t.Errorf("unexpected answer: %q", answer.AnswerBN)
	}
}

func TestAsk_ErrorFrame(t *testing.T) {
	srv := serveFrames(t,
		`{"type":"error","message":"no content received"}`,
		models.DoneSentinel,
	)

	c := New(srv.URL)
	_, err := c.Ask(context.Background(), models.Query{Text: "q"}, nil)

	var streamErr *StreamError
	if !errors.As(err, &streamErr) {
		t.Fatalf("expected StreamError, got %v", err)
	}
	if streamErr.Message != "no content received" {
		t.Errorf("unexpected message: %q", streamErr.Message)
	}
	if c.Pending() {
		t.Error("pending must clear after an error")
	}
}

func TestAsk_EmptyQueryValidation(t *testing.T) {
	c := New("http://127.0.0.1:1") // never dialed
	_, err := c.Ask(context.Background(), models.Query{Text: "   "}, nil)

	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestAsk_SingleFlight(t *testing.T) {
	release := make(chan struct{})
	reached := make(chan struct{})
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			close(reached)
		}
		w.Header().Set("Content-Type", "text/event-stream")
		w.(http.Flusher).Flush()
		select {
		case <-release:
		case <-r.Context().Done():
		}
		fmt.Fprintf(w, "data: %s\n\n", models.DoneSentinel)
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	c := New(srv.URL)

	done := make(chan error, 1)
	go func() {
		_, err := c.Ask(context.Background(), models.Query{Text: "first"}, nil)
		done <- err
	}()

	// Wait for the first Ask to actually reach the transport before
	// contending; Pending flips earlier than that.
	select {
	case <-reached:
	case <-time.After(2 * time.Second):
		t.Fatal("first Ask never reached the backend")
	}
	if !c.Pending() {
		t.Fatal("first Ask must be pending while its stream is open")
	}

	_, err := c.Ask(context.Background(), models.Query{Text: "second"}, nil)
	if !errors.Is(err, ErrRequestPending) {
		t.Fatalf("expected ErrRequestPending, got %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("second Ask must not issue a transport call, saw %d", calls.Load())
	}

	c.Abort()
	<-done
}

func TestAsk_AbortRejectsWithCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.(http.Flusher).Flush()
		<-r.Context().Done()
	}))
	t.Cleanup(srv.Close)

	c := New(srv.URL)

	done := make(chan error, 1)
	go func() {
		_, err := c.Ask(context.Background(), models.Query{Text: "q"}, nil)
		done <- err
	}()

	for i := 0; i < 100 && !c.Pending(); i++ {
		time.Sleep(5 * time.Millisecond)
	}
	c.Abort()

	select {
	case err := <-done:
		if !errors.Is(err, ErrAborted) {
			t.Fatalf("expected ErrAborted, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Ask did not reject after Abort")
	}

	if c.Pending() {
		t.Error("pending must be false after abort")
	}

	// Idempotence: a second Abort is a no-op.
	c.Abort()
	if c.Pending() {
		t.Error("double Abort changed state")
	}
}

func TestAsk_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.(http.Flusher).Flush()
		<-r.Context().Done() // never answers
	}))
	t.Cleanup(srv.Close)

	c := New(srv.URL)
	c.Timeout = 100 * time.Millisecond

	start := time.Now()
	_, err := c.Ask(context.Background(), models.Query{Text: "q"}, nil)
	elapsed := time.Since(start)

	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
	if elapsed > 2*time.Second {
		t.Errorf("timeout took far too long: %v", elapsed)
	}
	if c.Pending() {
		t.Error("pending must clear after timeout")
	}
}

func TestAsk_ValidationStatusFromRelay(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":"Query is required and must be a string","status":400}`)
	}))
	t.Cleanup(srv.Close)

	c := New(srv.URL)
	_, err := c.Ask(context.Background(), models.Query{Text: "q"}, nil)

	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("expected ValidationError from relay 400, got %v", err)
	}
}

func TestAsk_StreamWithoutCompletionFrame(t *testing.T) {
	srv := serveFrames(t,
		`{"type":"token","content":"partial answer","delta":"partial answer"}`,
		models.DoneSentinel,
	)

	c := New(srv.URL)
	answer, err := c.Ask(context.Background(), models.Query{Text: "q"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if answer.AnswerText() != "partial answer" {
		t.Errorf("accumulated text should become the answer, got %q", answer.AnswerText())
	}
}

func TestAsk_ReusableAfterTerminalOutcome(t *testing.T) {
	srv := serveFrames(t,
		`{"type":"complete","answer":{"answer_bn":"ok"}}`,
		models.DoneSentinel,
	)

	c := New(srv.URL)
	for i := 0; i < 3; i++ {
		if _, err := c.Ask(context.Background(), models.Query{Text: "q"}, nil); err != nil {
			t.Fatalf("call %d failed: %v", i, err)
		}
	}
}
