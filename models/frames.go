// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

// Stream frame type tags
const (
	FrameToken    = "token"
	FrameComplete = "complete"
	FrameError    = "error"
)

// DoneSentinel is the literal payload of the terminal SSE frame. It is not
// JSON; consumers must check for it before unmarshalling.
const DoneSentinel = "[DONE]"

// StreamFrame is one unit of a streamed answer, JSON-encoded inside a
// `data:` SSE line. Frames synthesized by this relay always carry a Type
// tag. Frames relayed verbatim from a backend stream may not: for those,
// the untagged fields double as a compatibility shape where the presence
// of Metrics or Sources marks the final frame.
type StreamFrame struct {
	Type    string `json:"type,omitempty"`
	Content string `json:"content,omitempty"`
	Delta   string `json:"delta,omitempty"`
	Message string `json:"message,omitempty"`

	// Complete frames carry the full payload.
	Answer *AskResponse `json:"answer,omitempty"`

	// Untagged backend frames attach completion metadata inline.
	Metrics *Metrics `json:"metrics,omitempty"`
	Sources []Source `json:"sources,omitempty"`
	Flags   *Flags   `json:"flags,omitempty"`
}

// IsToken reports whether the frame carries answer text.
func (f *StreamFrame) IsToken() bool {
	if f.Type != "" {
		return f.Type == FrameToken
	}
	return f.Delta != "" || f.Content != ""
}

// IsFinal reports whether the frame terminates the answer: a tagged
// complete frame, or an untagged frame carrying completion metadata.
func (f *StreamFrame) IsFinal() bool {
	if f.Type == FrameComplete {
		return true
	}
	if f.Type != "" {
		return false
	}
	return f.Metrics != nil || f.Sources != nil || f.Flags != nil
}

// IsError reports whether the frame is a terminal error.
func (f *StreamFrame) IsError() bool {
	return f.Type == FrameError || (f.Type == "" && f.Message != "" && f.Delta == "" && f.Content == "")
}
