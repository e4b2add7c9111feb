// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the khobor-relay API server.

khobor-relay is the HTTP relay behind a bilingual (Bengali/English) news
Q&A front-end. It forwards questions to an external answer backend and
returns either a complete JSON answer or a live server-sent-event stream,
synthesizing the stream itself when the backend cannot stream natively.

# Starting the Server

The server requires a backend URL via environment variables or CLI flags:

	BACKEND_URL=https://answers.example.com go run main.go

Or with flags:

	go run main.go -p 4117 -b "https://answers.example.com"

# Configuration

Required settings:

  - BACKEND_URL (-b): answer backend base URL

Optional settings:

  - PORT (-p): server port (default: 4117)
  - DATABASE_URL (-d): history database (default: file:khobor.db)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - UPSTREAM_TIMEOUT_MS (-upstream-timeout): backend call timeout (default: 30000)
  - STREAM_DELAY_MS (-stream-delay): synthesized frame pacing (default: 50)

A .env file in the working directory is loaded before flag parsing.

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (ask, stream, timeline, history)
  - router: route definitions using Go 1.22+ routing, wrapped in CORS
  - middleware: CORS, request-id logging, JSON helpers
  - models: request/response and stream frame types
  - upstream: answer backend client with typed errors
  - stream: SSE writing, verbatim passthrough, paced frame synthesis
  - askclient: Go consumer for /ask/stream (single-flight, abortable)
  - db: exchange history schema and queries
  - cliparse: configuration parsing

See package documentation for each component.
*/
package main
