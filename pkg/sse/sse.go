// Package sse provides a minimal, purpose-built decoder for the streamed chat
// completions the concierge gateway returns. It turns opaque byte chunks of a
// server-sent-events response into ordered text deltas, tolerating chunk
// boundaries that split lines, JSON payloads or multi-byte runes.
//
// Only the subset of SSE the gateway emits is understood:
//
//	data: {"choices":[{"delta":{"content":"Hel"}}]}
//	data: {"choices":[{"delta":{"content":"lo"}}]}
//	data: [DONE]
//
// Comment lines (":" prefix), blank lines and any line without the "data: "
// prefix are ignored.
//
// See the SSE specification:
// https://html.spec.whatwg.org/multipage/server-sent-events.html
package sse

const (
	// DataPrefix marks a data-line carrying a JSON payload.
	DataPrefix = "data: "

	// DoneSentinel is the payload that terminates the stream logically,
	// independent of the transport closing.
	DoneSentinel = "[DONE]"
)
