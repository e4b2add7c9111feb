// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package upstream is the client for the external answer backend.

Three calls cover the backend contract:

	up := upstream.New(baseURL, timeout)
	answer, err := up.Ask(ctx, req)           // POST {base}/ask
	body, err := up.OpenStream(ctx, q, lang)  // POST {base}/ask/stream
	raw, err := up.Timeline(ctx, lang, hours) // GET  {base}/timeline

OpenStream deliberately sends only query and lang: mode and window are
part of the non-streaming contract and the backend defaults them on the
streaming path.

Failures are typed so handlers can map them without string matching:
*StatusError for non-2xx backend responses (with a status-derived
Details string), *ParseError for 2xx bodies that are not the expected
JSON, and plain wrapped errors for transport failures. Nothing here
retries; the fallback decision belongs to the handler.
*/
package upstream
