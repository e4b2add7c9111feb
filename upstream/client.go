// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/danielhkuo/khobor-relay/models"
)

// Client talks to the answer backend. It never retries: a single failure
// is surfaced to the caller, which decides whether to fall back.
type Client struct {
	base string

	// httpc bounds non-streaming calls with a whole-request timeout.
	// streamc has no client timeout because SSE responses outlive any
	// sane request deadline; cancellation is the caller's context.
	httpc   *http.Client
	streamc *http.Client
}

func New(base string, timeout time.Duration) *Client {
	return &Client{
		base:    base,
		httpc:   &http.Client{Timeout: timeout},
		streamc: &http.Client{},
	}
}

// AskRequest is the outbound body for POST {base}/ask.
type AskRequest struct {
	Query       string `json:"query"`
	Lang        string `json:"lang,omitempty"`
	Mode        string `json:"mode,omitempty"`
	WindowHours int    `json:"window_hours,omitempty"`
}

// Ask performs the non-streaming call and decodes the full answer.
func (c *Client) Ask(ctx context.Context, req AskRequest) (*models.AskResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode ask request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/ask", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build ask request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("ask request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, Message: readErrorMessage(resp.Body)}
	}

	var answer models.AskResponse
	if err := json.NewDecoder(resp.Body).Decode(&answer); err != nil {
		return nil, &ParseError{Err: err}
	}
	answer.FillDefaults()
	return &answer, nil
}

// OpenStream opens the native streaming call. On success the caller owns
// the returned body and must close it. Mode and window are intentionally
// not part of the streaming contract; the backend defaults them.
func (c *Client) OpenStream(ctx context.Context, query, lang string) (io.ReadCloser, error) {
	body, err := json.Marshal(map[string]string{"query": query, "lang": lang})
	if err != nil {
		return nil, fmt.Errorf("failed to encode stream request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/ask/stream", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build stream request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := c.streamc.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("stream request failed: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := readErrorMessage(resp.Body)
		resp.Body.Close()
		return nil, &StatusError{Code: resp.StatusCode, Message: msg}
	}
	if resp.Body == nil {
		return nil, fmt.Errorf("stream response had no body")
	}

	return resp.Body, nil
}

// Timeline fetches the recent-headlines feed as raw JSON for relaying.
func (c *Client) Timeline(ctx context.Context, lang string, windowHours int) (json.RawMessage, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/timeline", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build timeline request: %w", err)
	}
	q := httpReq.URL.Query()
	if lang != "" {
		q.Set("lang", lang)
	}
	if windowHours > 0 {
		q.Set("window_hours", fmt.Sprintf("%d", windowHours))
	}
	httpReq.URL.RawQuery = q.Encode()

	resp, err := c.httpc.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("timeline request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, Message: readErrorMessage(resp.Body)}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read timeline response: %w", err)
	}
	if !json.Valid(raw) {
		return nil, &ParseError{Err: fmt.Errorf("timeline body is not valid JSON")}
	}
	return raw, nil
}

// readErrorMessage pulls a human-readable message out of an error body:
// the JSON `error` field when present, otherwise the raw text, otherwise
// a placeholder.
func readErrorMessage(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 8192))
	if err != nil || len(raw) == 0 {
		return "no error detail"
	}

	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &body) == nil {
		if body.Error != "" {
			return body.Error
		}
		if body.Message != "" {
			return body.Message
		}
	}
	return string(raw)
}
