// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"strings"
	"time"
)

// Language constants
const (
	LangBengali = "bn"
	LangEnglish = "en"
)

// Answer mode constants
const (
	ModeBrief = "brief"
	ModeDeep  = "deep"
)

// Request types

// AskRequest is the inbound body for POST /ask and POST /ask/stream.
// Query is `any` so a missing or non-string value can be reported as a
// validation error rather than a generic decode failure.
type AskRequest struct {
	Query       any    `json:"query"`
	Lang        string `json:"lang,omitempty"`
	Mode        string `json:"mode,omitempty"`
	WindowHours int    `json:"window_hours,omitempty"`
}

// QueryText returns the query string, or ok=false when the field is
// absent, not a string, or blank.
func (r AskRequest) QueryText() (string, bool) {
	s, ok := r.Query.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}

// Query is the consumer-side request: one immutable question per exchange.
type Query struct {
	Text        string `json:"query"`
	Lang        string `json:"lang,omitempty"`
	Mode        string `json:"mode,omitempty"`
	WindowHours int    `json:"window_hours,omitempty"`
}

// Response types

type Source struct {
	Name        string     `json:"name"`
	URL         string     `json:"url"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	Logo        string     `json:"logo,omitempty"`
}

type Flags struct {
	Disagreement bool `json:"disagreement"`
	SingleSource bool `json:"single_source"`
}

type Metrics struct {
	SourceCount int      `json:"source_count"`
	UpdatedCT   string   `json:"updated_ct"`
	LatencyMS   *float64 `json:"latency_ms,omitempty"`
	Intent      string   `json:"intent,omitempty"`
	Confidence  *float64 `json:"confidence,omitempty"`
	RequestID   string   `json:"request_id,omitempty"`
}

// AskResponse is the completed answer payload for one exchange.
// AnswerGeneric covers backends that return a single untagged `answer`
// field instead of the bilingual pair.
type AskResponse struct {
	AnswerBN      string   `json:"answer_bn"`
	AnswerEN      string   `json:"answer_en,omitempty"`
	AnswerGeneric string   `json:"answer,omitempty"`
	Sources       []Source `json:"sources"`
	Flags         Flags    `json:"flags"`
	Metrics       Metrics  `json:"metrics"`
	Followups     []string `json:"followups"`
}

// FillDefaults normalizes a payload decoded from the backend: nil slices
// become empty, a missing source_count is derived from sources, and a
// missing updated_ct falls back to the current time.
func (r *AskResponse) FillDefaults() {
	if r.Sources == nil {
		r.Sources = []Source{}
	}
	if r.Followups == nil {
		r.Followups = []string{}
	}
	if r.Metrics.SourceCount == 0 && len(r.Sources) > 0 {
		r.Metrics.SourceCount = len(r.Sources)
	}
	if r.Metrics.UpdatedCT == "" {
		r.Metrics.UpdatedCT = time.Now().UTC().Format(time.RFC3339)
	}
}

// AnswerText returns the first non-empty answer field.
func (r *AskResponse) AnswerText() string {
	if r.AnswerBN != "" {
		return r.AnswerBN
	}
	if r.AnswerEN != "" {
		return r.AnswerEN
	}
	return r.AnswerGeneric
}

// Domain types

// Exchange is one recorded question/answer round trip.
type Exchange struct {
	ID          string    `json:"id"`
	Query       string    `json:"query"`
	Lang        string    `json:"lang"`
	Mode        string    `json:"mode"`
	Answer      string    `json:"answer"`
	SourceCount int       `json:"source_count"`
	Confidence  *float64  `json:"confidence,omitempty"`
	LatencyMS   *float64  `json:"latency_ms,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type HistoryResponse struct {
	Exchanges []Exchange `json:"exchanges"`
}

// Error response

type ErrorResponse struct {
	Error     string `json:"error"`
	Details   string `json:"details,omitempty"`
	Status    int    `json:"status"`
	RequestID string `json:"request_id,omitempty"`
}
