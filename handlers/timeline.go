// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/danielhkuo/khobor-relay/middleware"
)

// Timeline handles GET /timeline: relay the backend's recent-headlines
// feed as-is, with the same error mapping as /ask.
func (h *AskHandler) Timeline(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestID(w)
	logger := slog.With("request_id", reqID)

	lang := r.URL.Query().Get("lang")
	windowHours := 0
	if s := r.URL.Query().Get("window_hours"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 {
			middleware.ErrorResponse(w, http.StatusBadRequest, "window_hours must be a non-negative integer", "invalid request", reqID)
			return
		}
		windowHours = v
	}

	raw, err := h.upstream.Timeline(r.Context(), lang, windowHours)
	if err != nil {
		h.writeUpstreamError(w, logger, err, reqID)
		return
	}

	middleware.NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(raw); err != nil {
		logger.Error("failed to write timeline response", "error", err)
	}
}
