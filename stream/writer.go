// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package stream

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/danielhkuo/khobor-relay/models"
)

// Writer emits SSE frames on an HTTP response, flushing after every
// write so frames reach the client as they are produced.
type Writer struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewWriter prepares w for event-stream output and sets the SSE headers.
// The caller must not have written a status code yet.
func NewWriter(w http.ResponseWriter) *Writer {
	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")

	flusher, _ := w.(http.Flusher)
	return &Writer{w: w, flusher: flusher}
}

// WriteFrame encodes one frame as a `data:` line.
func (sw *Writer) WriteFrame(frame models.StreamFrame) error {
	payload, err := json.Marshal(frame)
	if err != nil {
		return fmt.Errorf("failed to encode frame: %w", err)
	}
	return sw.writeData(string(payload))
}

// WriteError emits a terminal error frame. The DONE sentinel still has
// to follow; callers pair this with WriteDone.
func (sw *Writer) WriteError(message string) error {
	return sw.WriteFrame(models.StreamFrame{Type: models.FrameError, Message: message})
}

// WriteDone emits the stream-terminating sentinel frame.
func (sw *Writer) WriteDone() error {
	return sw.writeData(models.DoneSentinel)
}

func (sw *Writer) writeData(payload string) error {
	if _, err := fmt.Fprintf(sw.w, "data: %s\n\n", payload); err != nil {
		return err
	}
	sw.flush()
	return nil
}

func (sw *Writer) flush() {
	if sw.flusher != nil {
		sw.flusher.Flush()
	}
}

// Passthrough copies a backend stream to the client verbatim, flushing
// each chunk as it arrives. No frame inspection happens on this path.
// Returns the byte count so callers can tell a dead stream (0 bytes,
// fall back) from one cut off mid-answer.
func (sw *Writer) Passthrough(src io.Reader) (int64, error) {
	var written int64
	buf := make([]byte, 4096)
	for {
		n, err := src.Read(buf)
		if n > 0 {
			if _, werr := sw.w.Write(buf[:n]); werr != nil {
				return written, werr
			}
			written += int64(n)
			sw.flush()
		}
		if err == io.EOF {
			return written, nil
		}
		if err != nil {
			return written, err
		}
	}
}
