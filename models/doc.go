// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and stream frame types for the API.

# Request Types

Types for parsing incoming JSON:

  - AskRequest: query, lang, mode, window_hours (inbound; query is `any`
    so a non-string value is a validation error, not a decode error)
  - Query: the consumer-side equivalent with a typed Text field

# Response Types

Types for JSON responses:

  - AskResponse: answer_bn, answer_en, sources, flags, metrics, followups
  - Source: name, url, published_at, logo
  - Flags: disagreement, single_source
  - Metrics: source_count, updated_ct, latency_ms, intent, confidence, request_id
  - HistoryResponse: exchanges
  - ErrorResponse: error, details, status, request_id

AskResponse.FillDefaults normalizes payloads decoded from the backend so
callers never see nil slices or a zero source_count with sources present.

# Stream Frames

StreamFrame is one unit of a streamed answer, JSON-encoded inside a
`data:` SSE line. Frames synthesized by this relay are tagged:

	{type: "token", content: "...", delta: "..."}
	{type: "complete", answer: {...}}
	{type: "error", message: "..."}

The stream terminates with the literal [DONE] sentinel frame, which is
not JSON. Untagged frames relayed verbatim from a backend stream are
classified by shape: Metrics or Sources present means final.

# Constants

Languages:

	LangBengali = "bn"
	LangEnglish = "en"

Answer modes:

	ModeBrief = "brief"
	ModeDeep  = "deep"
*/
package models
