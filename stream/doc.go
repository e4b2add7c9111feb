// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package stream handles server-sent-event output for the relay.

Writer wraps an http.ResponseWriter with SSE headers, per-frame flushing,
and the [DONE] sentinel:

	sw := stream.NewWriter(w)
	sw.WriteFrame(frame)
	sw.WriteDone()

Passthrough copies a native backend stream to the client verbatim; no
frame inspection happens on that path.

Synthesize imitates a live token stream from a completed answer: a lazy,
finite, non-restartable channel of frames, one token frame per three
words (cumulative content plus delta), a terminal complete frame carrying
the payload, and an injectable pacing delay between frames. Cancelling
the context stops the sequence early.
*/
package stream
