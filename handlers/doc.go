// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the khobor-relay API.

# Handler Types

Each handler is a struct with database, config, and backend-client
dependencies:

  - AskHandler: question answering (JSON and streaming) plus timeline relay
  - HistoryHandler: recent exchange retrieval

Handlers are created via constructor functions:

	askHandler := handlers.NewAskHandler(db, cfg, up)

# Ask Flow

	POST /ask        → Ask (complete JSON answer, defaults filled)
	POST /ask/stream → AskStream (SSE frames ending in data: [DONE])
	GET  /timeline   → Timeline (raw JSON relay)
	GET  /history    → History (recent exchanges, newest first)

/ask maps backend failures onto structured JSON errors: the backend's
status is passed through with a status-derived details string, transport
failures become 502, malformed backend bodies become 500.

/ask/stream is different: after validation it always answers 200. The
native backend stream is relayed verbatim when it opens; otherwise the
handler falls back to the non-streaming call and synthesizes paced token
frames from the completed answer. Every failure past validation is an
in-band error frame followed by the [DONE] sentinel, never a hung stream.

# Request Correlation

Every handler reads the request id the logging middleware attached to the
response and carries it through logs, error bodies, and the answer's
metrics block.
*/
package handlers
