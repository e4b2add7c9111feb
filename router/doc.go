// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the khobor-relay API.

# Route Registration

NewRouter returns the full handler chain, a configured http.ServeMux
wrapped in the CORS middleware:

	handler := router.NewRouter(db, cfg, up)

# Endpoints

Health:

	GET /health

Question answering:

	POST /ask        - Complete JSON answer
	POST /ask/stream - Server-sent-event token stream

Relays:

	GET /timeline - Recent headlines from the backend

History:

	GET /history - Recent exchanges, newest first

OPTIONS preflight is answered with 200 on every route by the CORS wrapper.

# Handler Initialization

The router creates handler instances with dependency injection:

	askHandler := handlers.NewAskHandler(db, cfg, up)
	historyHandler := handlers.NewHistoryHandler(db, cfg)
*/
package router
