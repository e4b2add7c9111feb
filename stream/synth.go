// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package stream

import (
	"context"
	"strings"
	"time"

	"github.com/danielhkuo/khobor-relay/models"
)

// chunkWords is how many words accumulate before a token frame is emitted.
const chunkWords = 3

// Synthesize turns a completed answer into a lazy, finite frame sequence
// that imitates a live token stream. Token frames carry the cumulative
// text in Content and the newly added words in Delta; a frame is emitted
// after every chunkWords-th word and after the final word. The terminal
// complete frame carries the full payload. Delay paces consecutive
// frames; no delay follows the last one. Tests pass 0.
//
// The sequence is non-restartable: the channel closes once drained or
// once ctx is cancelled.
func Synthesize(ctx context.Context, answer *models.AskResponse, delay time.Duration) <-chan models.StreamFrame {
	ch := make(chan models.StreamFrame, 1)

	go func() {
		defer close(ch)

		words := strings.Fields(answer.AnswerText())
		var content strings.Builder
		var pending []string

		emit := func(frame models.StreamFrame) bool {
			select {
			case ch <- frame:
				return true
			case <-ctx.Done():
				return false
			}
		}

		for i, word := range words {
			if content.Len() > 0 {
				content.WriteByte(' ')
			}
			content.WriteString(word)
			pending = append(pending, word)

			last := i == len(words)-1
			if (i+1)%chunkWords != 0 && !last {
				continue
			}

			frame := models.StreamFrame{
				Type:    models.FrameToken,
				Content: content.String(),
				Delta:   strings.Join(pending, " "),
			}
			pending = pending[:0]

			if !emit(frame) {
				return
			}

			if !last && delay > 0 {
				select {
				case <-time.After(delay):
				case <-ctx.Done():
					return
				}
			}
		}

		emit(models.StreamFrame{Type: models.FrameComplete, Answer: answer})
	}()

	return ch
}
