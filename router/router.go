// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/khobor-relay/cliparse"
	"github.com/danielhkuo/khobor-relay/handlers"
	"github.com/danielhkuo/khobor-relay/middleware"
	"github.com/danielhkuo/khobor-relay/upstream"
)

// NewRouter wires all routes. The returned handler includes the CORS
// wrapper, so OPTIONS preflight works on every route.
func NewRouter(db *sql.DB, cfg cliparse.Config, up *upstream.Client) http.Handler {
	mux := http.NewServeMux()

	// Initialize handlers
	askHandler := handlers.NewAskHandler(db, cfg, up)
	historyHandler := handlers.NewHistoryHandler(db, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Question answering
	mux.HandleFunc("POST /ask", middleware.WithLogging(askHandler.Ask))
	mux.HandleFunc("POST /ask/stream", middleware.WithLogging(askHandler.AskStream))

	// Timeline relay
	mux.HandleFunc("GET /timeline", middleware.WithLogging(askHandler.Timeline))

	// Exchange history
	mux.HandleFunc("GET /history", middleware.WithLogging(historyHandler.History))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("khobor-relay API v1"))
	})

	return middleware.CORS(mux)
}
