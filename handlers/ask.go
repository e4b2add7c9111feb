// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/khobor-relay/cliparse"
	"github.com/danielhkuo/khobor-relay/db"
	"github.com/danielhkuo/khobor-relay/middleware"
	"github.com/danielhkuo/khobor-relay/models"
	"github.com/danielhkuo/khobor-relay/upstream"
)

const queryRequiredMsg = "Query is required and must be a string"

type AskHandler struct {
	db       *sql.DB
	cfg      cliparse.Config
	upstream *upstream.Client
}

func NewAskHandler(database *sql.DB, cfg cliparse.Config, up *upstream.Client) *AskHandler {
	return &AskHandler{db: database, cfg: cfg, upstream: up}
}

// Ask handles POST /ask: forward the full query to the backend, fill
// defaults, and relay the completed answer as JSON.
func (h *AskHandler) Ask(w http.ResponseWriter, r *http.Request) {
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

	start := time.Now()
	answer, err := h.upstream.Ask(r.Context(), upstream.AskRequest{
		Query:       query,
		Lang:        req.Lang,
		Mode:        req.Mode,
		WindowHours: req.WindowHours,
	})
	if err != nil {
		h.writeUpstreamError(w, logger, err, reqID)
		return
	}
	elapsed := float64(time.Since(start).Milliseconds())

	answer.Metrics.RequestID = reqID
	if answer.Metrics.LatencyMS == nil {
		answer.Metrics.LatencyMS = &elapsed
	}

	h.recordExchange(logger, reqID, query, req, answer)

	logger.Info("answer relayed",
		"source_count", answer.Metrics.SourceCount,
		"latency_ms", elapsed,
	)

	middleware.NoCache(w)
	middleware.JSONResponse(w, http.StatusOK, answer)
}

// writeUpstreamError maps a backend failure onto the structured JSON
// error contract: backend status passed through, 500 for unparseable
// bodies, 502 for transport failures.
func (h *AskHandler) writeUpstreamError(w http.ResponseWriter, logger *slog.Logger, err error, reqID string) {
	var statusErr *upstream.StatusError
	var parseErr *upstream.ParseError

	switch {
	case errors.As(err, &statusErr):
		logger.Warn("backend rejected request", "status", statusErr.Code, "error", statusErr.Message)
		middleware.ErrorResponse(w, statusErr.Code, statusErr.Message, statusErr.Details(), reqID)
	case errors.As(err, &parseErr):
		logger.Error("backend returned malformed body", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Invalid response from answer service", "unknown error", reqID)
	default:
		logger.Error("backend unreachable", "error", err)
		middleware.ErrorResponse(w, http.StatusBadGateway, "Failed to reach answer service", "service unavailable", reqID)
	}
}

// recordExchange is best effort; history must never fail a request.
func (h *AskHandler) recordExchange(logger *slog.Logger, reqID, query string, req models.AskRequest, answer *models.AskResponse) {
	if h.db == nil {
		return
	}

	lang := req.Lang
	if lang == "" {
		lang = models.LangBengali
	}
	mode := req.Mode
	if mode == "" {
		mode = models.ModeBrief
	}

	err := db.RecordExchange(h.db, models.Exchange{
		ID:          reqID,
		Query:       query,
		Lang:        lang,
		Mode:        mode,
		Answer:      answer.AnswerText(),
		SourceCount: answer.Metrics.SourceCount,
		Confidence:  answer.Metrics.Confidence,
		LatencyMS:   answer.Metrics.LatencyMS,
	})
	if err != nil {
		logger.Warn("failed to record exchange", "error", err)
	}
}
