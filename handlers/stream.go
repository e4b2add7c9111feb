// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/khobor-relay/middleware"
	"github.com/danielhkuo/khobor-relay/models"
	"github.com/danielhkuo/khobor-relay/stream"
	"github.com/danielhkuo/khobor-relay/upstream"
)

// AskStream handles POST /ask/stream. Validation failures are the only
// non-200 outcome; once the stream opens, every failure is reported
// in-band as an error frame followed by the DONE sentinel, so a consumer
// never hangs on a hard failure.
func (h *AskHandler) AskStream(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestID(w)
	logger := slog.With("request_id", reqID)

	var req models.AskRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, queryRequiredMsg, "invalid request body", reqID)
		return
	}

	query, ok := req.QueryText()
	if !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, queryRequiredMsg, "invalid request body", reqID)
		return
	}

	sw := stream.NewWriter(w)

	// A panic past this point must still terminate the stream cleanly.
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("stream handler panicked", "panic", rec)
			sw.WriteError("internal error")
			sw.WriteDone()
		}
	}()

	// Native streaming path: relay bytes verbatim, no frame inspection.
	body, err := h.upstream.OpenStream(r.Context(), query, req.Lang)
	if err == nil {
		defer body.Close()

		written, copyErr := sw.Passthrough(body)
		if copyErr == nil && written > 0 {
			logger.Info("stream relayed", "bytes", written)
			return
		}
		if written > 0 {
			// Stream was cut off mid-answer; the backend's own DONE
			// never arrived, so terminate the frame sequence ourselves.
			logger.Warn("stream interrupted", "bytes", written, "error", copyErr)
			sw.WriteError("stream interrupted")
			sw.WriteDone()
			return
		}
		// A clean EOF at zero bytes is as dead as a failed read; either
		// way the client has seen nothing yet, so synthesize instead.
		logger.Warn("stream produced no data, falling back", "error", copyErr)
	} else {
		logger.Warn("streaming backend unavailable, falling back", "error", err)
	}

	h.synthesizeStream(r, sw, logger, query, req)
}

// synthesizeStream answers over the non-streaming backend call and chunks
// the completed answer into paced token frames.
func (h *AskHandler) synthesizeStream(r *http.Request, sw *stream.Writer, logger *slog.Logger, query string, req models.AskRequest) {
	answer, err := h.upstream.Ask(r.Context(), upstream.AskRequest{
		Query:       query,
		Lang:        req.Lang,
		Mode:        req.Mode,
		WindowHours: req.WindowHours,
	})
	if err != nil {
		var statusErr *upstream.StatusError
		if errors.As(err, &statusErr) {
			logger.Warn("fallback request rejected", "status", statusErr.Code, "error", statusErr.Message)
			sw.WriteError(statusErr.Message + " (" + statusErr.Details() + ")")
		} else {
			logger.Error("fallback request failed", "error", err)
			sw.WriteError("failed to reach answer service")
		}
		sw.WriteDone()
		return
	}

	if answer.AnswerText() == "" {
		logger.Warn("fallback answer was empty")
		sw.WriteError("no content received")
		sw.WriteDone()
		return
	}

	delay := time.Duration(h.cfg.StreamDelayMS) * time.Millisecond
	frames := 0
	for frame := range stream.Synthesize(r.Context(), answer, delay) {
		if err := sw.WriteFrame(frame); err != nil {
			logger.Warn("client went away mid-stream", "error", err)
			return
		}
		frames++
	}
	sw.WriteDone()

	logger.Info("stream synthesized", "frames", frames)
}
