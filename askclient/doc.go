// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package askclient consumes the relay's /ask/stream endpoint.

# Usage

	c := askclient.New("http://localhost:4117")
	c.Timeout = 30 * time.Second

	answer, err := c.Ask(ctx, models.Query{Text: "আজকের প্রধান খবর কী?"}, func(delta string) {
		fmt.Print(delta, " ")
	})

# Session Rules

One exchange at a time: Ask called while a previous call is pending
returns ErrRequestPending immediately, without a transport call. Abort
cancels the in-flight exchange (the pending Ask rejects with ErrAborted)
and is a no-op when nothing is in flight. A positive Timeout bounds the
whole exchange; expiry rejects with ErrTimeout.

The session moves Idle → Pending → {Resolved | Errored | Cancelled} →
Idle; pending state is always cleared on any terminal outcome. The
resolved payload is retained until the next Ask or an explicit Clear.

# Errors

Terminal errors are typed so UI layers can show distinct messages:
*ValidationError (bad query, no transport call made), ErrAborted,
ErrTimeout, *StreamError (in-band error frame or non-200 response), or
a generic wrapped transport error.

# Frame Handling

Frames are processed strictly in arrival order. Token frames feed the
onToken callback and accumulate text; a malformed frame is logged and
skipped; the complete frame (or an untagged frame carrying completion
metadata) resolves the call; [DONE] ends the stream. Text already
delivered through onToken is never retracted by a later error.
*/
package askclient
