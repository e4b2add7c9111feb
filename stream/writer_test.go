// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package stream

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielhkuo/khobor-relay/models"
)

func TestWriter_FrameFormat(t *testing.T) {
	w := httptest.NewRecorder()
	sw := NewWriter(w)

	if err := sw.WriteFrame(models.StreamFrame{Type: models.FrameToken, Content: "hi", Delta: "hi"}); err != nil {
		t.Fatal(err)
	}
	if err := sw.WriteDone(); err != nil {
		t.Fatal(err)
	}

	if got := w.Header().Get("Content-Type"); got != "text/event-stream" {
		t.Errorf("expected event-stream content type, got %q", got)
	}

	body := w.Body.String()
	if !strings.HasPrefix(body, `data: {"type":"token","content":"hi","delta":"hi"}`+"\n\n") {
		t.Errorf("unexpected frame encoding: %q", body)
	}
	if !strings.HasSuffix(body, "data: [DONE]\n\n") {
		t.Errorf("expected DONE sentinel terminator: %q", body)
	}
	if strings.Count(body, "[DONE]") != 1 {
		t.Errorf("expected exactly one DONE sentinel: %q", body)
	}
}

func TestWriter_ErrorFrame(t *testing.T) {
	w := httptest.NewRecorder()
	sw := NewWriter(w)

	sw.WriteError("no content received")
	sw.WriteDone()

	body := w.Body.String()
	if !strings.Contains(body, `"type":"error"`) || !strings.Contains(body, "no content received") {
		t.Errorf("unexpected error frame: %q", body)
	}
}

func TestWriter_Passthrough(t *testing.T) {
	w := httptest.NewRecorder()
	sw := NewWriter(w)

	src := "data: {\"delta\":\"x\"}\n\ndata: [DONE]\n\n"
	n, err := sw.Passthrough(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	if n != int64(len(src)) {
		t.Errorf("expected %d bytes written, got %d", len(src), n)
	}
	if w.Body.String() != src {
		t.Errorf("passthrough must be verbatim, got %q", w.Body.String())
	}
}
