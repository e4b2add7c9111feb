// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging and Correlation

Wrap handlers with request logging:

	mux.HandleFunc("POST /ask", middleware.WithLogging(handler))

Logs request start (method, path, remote) and completion (duration_ms),
both keyed by a fresh request id. The id is set on the X-Request-ID
response header before the handler runs; handlers read it back with
middleware.RequestID(w) and thread it through their own logs and bodies.

# CORS Middleware

Enable cross-origin requests for frontend access:

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

Allows methods GET, POST, OPTIONS with headers Content-Type and
Authorization. Preflight requests are answered with 200.

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message", "details", reqID)

ErrorResponse always emits the structured error contract:

	{error, details, status, request_id}

Parse JSON request bodies:

	var req models.AskRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil { ... }

NoCache sets the standard no-store header trio on answer responses.
*/
package middleware
