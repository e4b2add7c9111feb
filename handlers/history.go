// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/danielhkuo/khobor-relay/cliparse"
	"github.com/danielhkuo/khobor-relay/db"
	"github.com/danielhkuo/khobor-relay/middleware"
	"github.com/danielhkuo/khobor-relay/models"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

type HistoryHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewHistoryHandler(database *sql.DB, cfg cliparse.Config) *HistoryHandler {
	return &HistoryHandler{db: database, cfg: cfg}
}

// History handles GET /history: recent exchanges, newest first.
func (h *HistoryHandler) History(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestID(w)

	limit := defaultHistoryLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			middleware.ErrorResponse(w, http.StatusBadRequest, "limit must be a positive integer", "invalid request", reqID)
			return
		}
		limit = v
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	exchanges, err := db.ListExchanges(h.db, limit)
	if err != nil {
		slog.Error("failed to list exchanges", "request_id", reqID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to load history", "unknown error", reqID)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.HistoryResponse{Exchanges: exchanges})
}
