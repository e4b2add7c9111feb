// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package askclient

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/danielhkuo/khobor-relay/models"
)

// Terminal error kinds. UI layers map these to distinct messages.
var (
	// ErrRequestPending rejects an Ask issued while a previous one is
	// still in flight. No second transport call is made.
	ErrRequestPending = errors.New("a request is already in progress")

	// ErrAborted is the cancellation-kind terminal error.
	ErrAborted = errors.New("request aborted")

	// ErrTimeout is the timeout-kind terminal error.
	ErrTimeout = errors.New("request timed out")
)

// ValidationError means the query was rejected before any transport call.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return "invalid query: " + e.Reason }

// StreamError is an in-band error frame from the relay.
type StreamError struct {
	Message string
}

func (e *StreamError) Error() string { return "stream error: " + e.Message }

// Client consumes the relay's /ask/stream endpoint. At most one exchange
// is in flight at a time; the zero value is not usable, construct with New.
type Client struct {
	baseURL string
	httpc   *http.Client

	// Timeout, when positive, bounds the whole exchange. Zero means no
	// client-imposed deadline.
	Timeout time.Duration

	mu      sync.Mutex
	pending bool
	cancel  context.CancelFunc
	callSeq uint64
	answer  *models.AskResponse
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{},
	}
}

// Pending reports whether an exchange is in flight.
func (c *Client) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

// Answer returns the payload of the last resolved exchange, if any.
func (c *Client) Answer() *models.AskResponse {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.answer
}

// Clear drops the retained answer.
func (c *Client) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.answer = nil
}

// Abort cancels the in-flight exchange, if any. The pending Ask rejects
// with ErrAborted. Calling Abort with nothing in flight, or twice, is a
// no-op.
func (c *Client) Abort() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.pending = false
}

// Ask sends the query and blocks until a terminal frame arrives. onToken,
// when non-nil, receives each delta as partial text accumulates. The
// returned payload is retained until the next Ask or Clear.
func (c *Client) Ask(ctx context.Context, query models.Query, onToken func(delta string)) (*models.AskResponse, error) {
	if strings.TrimSpace(query.Text) == "" {
		return nil, &ValidationError{Reason: "query text must be non-empty"}
	}

	c.mu.Lock()
	if c.pending {
		c.mu.Unlock()
		return nil, ErrRequestPending
	}
	// Defensive: unreachable given the pending guard, but a leftover
	// cancel func from caller misuse must not outlive this call.
	if c.cancel != nil {
		c.cancel()
	}

	var reqCtx context.Context
	var cancel context.CancelFunc
	if c.Timeout > 0 {
		reqCtx, cancel = context.WithTimeout(ctx, c.Timeout)
	} else {
		reqCtx, cancel = context.WithCancel(ctx)
	}
	c.pending = true
	c.cancel = cancel
	c.callSeq++
	seq := c.callSeq
	c.mu.Unlock()

	answer, err := c.exchange(reqCtx, query, onToken)
	// Snapshot before cancel(), which would make every outcome look
	// like a cancellation.
	ctxErr := reqCtx.Err()
	cancel()

	c.mu.Lock()
	// An Abort followed by a fresh Ask may have moved the session on;
	// only this call's own state gets torn down.
	if c.callSeq == seq {
		c.pending = false
		c.cancel = nil
		if err == nil {
			c.answer = answer
		}
	}
	c.mu.Unlock()

	if err != nil {
		return nil, classify(ctxErr, err)
	}
	return answer, nil
}

// classify maps transport-layer context failures onto the typed terminal
// errors. Everything else passes through as a generic failure.
func classify(ctxErr, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctxErr, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	if errors.Is(err, context.Canceled) || errors.Is(ctxErr, context.Canceled) {
		return fmt.Errorf("%w: %v", ErrAborted, err)
	}
	return err
}

// exchange runs one full request/stream/accumulate cycle.
func (c *Client) exchange(ctx context.Context, query models.Query, onToken func(delta string)) (*models.AskResponse, error) {
	body, err := json.Marshal(map[string]string{"query": query.Text, "lang": query.Lang})
	if err != nil {
		return nil, fmt.Errorf("failed to encode query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/ask/stream", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 8192))
		var errBody models.ErrorResponse
		if json.Unmarshal(raw, &errBody) == nil && errBody.Error != "" {
			if resp.StatusCode == http.StatusBadRequest {
				return nil, &ValidationError{Reason: errBody.Error}
			}
			return nil, &StreamError{Message: errBody.Error}
		}
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return c.consume(ctx, resp.Body, onToken)
}

// consume reads SSE frames in arrival order until the DONE sentinel, a
// terminal frame, or a transport failure. Once ctx is signalled no more
// frames are dispatched, even if already buffered.
func (c *Client) consume(ctx context.Context, body io.Reader, onToken func(delta string)) (*models.AskResponse, error) {
	reader := bufio.NewReader(body)
	var content strings.Builder
	var final *models.AskResponse

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		line, err := reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("stream read failed: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" || !strings.HasPrefix(line, "data:") {
			continue
		}

		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if payload == models.DoneSentinel {
			break
		}

		var frame models.StreamFrame
		if err := json.Unmarshal([]byte(payload), &frame); err != nil {
			// One bad frame must not kill the stream.
			slog.Debug("skipping malformed frame", "error", err)
			continue
		}

		switch {
		case frame.IsError():
			return nil, &StreamError{Message: frame.Message}
		case frame.IsFinal():
			final = c.resolve(&frame, content.String())
		case frame.IsToken():
			if frame.Content != "" {
				content.Reset()
				content.WriteString(frame.Content)
			} else {
				content.WriteString(frame.Delta)
			}
			if onToken != nil && frame.Delta != "" {
				onToken(frame.Delta)
			}
		}
	}

	if final == nil {
		if content.Len() == 0 {
			return nil, &StreamError{Message: "stream ended without an answer"}
		}
		// Streams from minimal backends may end without completion
		// metadata; the accumulated text is still the answer.
		final = &models.AskResponse{AnswerBN: content.String()}
		final.FillDefaults()
	}
	return final, nil
}

// resolve builds the final payload from a terminal frame, falling back
// to the accumulated text when the frame carries metadata only.
func (c *Client) resolve(frame *models.StreamFrame, accumulated string) *models.AskResponse {
	answer := frame.Answer
	if answer == nil {
		answer = &models.AskResponse{
			AnswerBN: frame.Content,
			Sources:  frame.Sources,
		}
		if frame.Metrics != nil {
			answer.Metrics = *frame.Metrics
		}
		if frame.Flags != nil {
			answer.Flags = *frame.Flags
		}
	}
	if answer.AnswerText() == "" {
		answer.AnswerBN = accumulated
	}
	answer.FillDefaults()
	return answer
}
