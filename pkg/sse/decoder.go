package sse

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Decoder incrementally decodes one streamed chat completion response.
//
// A Decoder is owned by a single consumer for exactly one request/response
// cycle: Feed it chunks in arrival order, call Finish once the transport
// reports end-of-stream, then drop it. It is not safe for concurrent use.
//
//	┌──────────────┐   Feed(chunk)   ┌─────────┐   deltas   ┌────────┐
//	│ response body│ ──────────────▶ │ Decoder │ ─────────▶ │ caller │
//	└──────────────┘                 └─────────┘            └────────┘
type Decoder struct {
	// buf holds undecoded trailing bytes across chunk boundaries. It is kept
	// as bytes so a rune split across chunks is reassembled untouched.
	buf []byte

	// message is the append-only concatenation of every delta seen.
	message strings.Builder

	// done is set once a DoneSentinel payload has been seen.
	done bool

	// retry is a copy of the line left in buf after its payload failed to
	// parse. A second failure of the same line drops it.
	retry []byte
}

// NewDecoder returns a Decoder ready for the first chunk.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Feed appends chunk to the buffered text and processes every complete line,
// returning the deltas those lines produced in order. An incomplete trailing
// line stays buffered for the next call.
//
// Feed keeps working after Done reports true; callers are expected to stop
// feeding at that point but doing so is not an error.
func (d *Decoder) Feed(chunk []byte) []string {
	d.buf = append(d.buf, chunk...)
	return d.drain(false)
}

// Finish processes whatever remains buffered as if it were newline
// terminated and returns any final deltas. A whitespace-only remainder is
// ignored. Call it once, after the transport reports end-of-stream.
func (d *Decoder) Finish() []string {
	if len(bytes.TrimSpace(d.buf)) == 0 {
		d.buf = nil
		return nil
	}

	if d.buf[len(d.buf)-1] != '\n' {
		d.buf = append(d.buf, '\n')
	}

	deltas := d.drain(true)
	d.buf = nil
	return deltas
}

// Done reports whether the stream's terminal sentinel has been seen.
func (d *Decoder) Done() bool {
	return d.done
}

// Message returns the concatenation of all deltas decoded so far.
func (d *Decoder) Message() string {
	return d.message.String()
}

// Buffered returns the number of undecoded bytes currently held.
func (d *Decoder) Buffered() int {
	return len(d.buf)
}

// drain is the single line-processing routine shared by Feed and Finish.
// When final is true the stream has ended and lines that fail to parse are
// dropped instead of re-buffered. The sentinel stops processing in both
// modes.
func (d *Decoder) drain(final bool) []string {
	var deltas []string

	for {
		idx := bytes.IndexByte(d.buf, '\n')
		if idx < 0 {
			return deltas
		}

		raw := d.buf[:idx]
		line := bytes.TrimSuffix(raw, []byte("\r"))

		res := classify(line)
		if res.outcome == outcomeIncomplete && !final && !bytes.Equal(raw, d.retry) {
			// Leave the whole line in front of the buffer and retry once more
			// bytes have arrived.
			d.retry = append(d.retry[:0], raw...)
			return deltas
		}

		d.buf = d.buf[idx+1:]
		if res.outcome == outcomeIncomplete {
			d.retry = nil
			continue
		}

		switch res.outcome {
		case outcomeDone:
			d.done = true
			return deltas
		case outcomeDelta:
			d.message.WriteString(res.delta)
			deltas = append(deltas, res.delta)
		}
	}
}

// outcome is the typed result of examining one event line.
type outcome int

const (
	// outcomeSkip covers comments, blank lines, non-data lines and payloads
	// without usable content.
	outcomeSkip outcome = iota

	// outcomeDelta carries a non-empty text delta.
	outcomeDelta

	// outcomeDone marks the DoneSentinel payload.
	outcomeDone

	// outcomeIncomplete means the payload is not (yet) valid JSON.
	outcomeIncomplete
)

type lineResult struct {
	outcome outcome
	delta   string
}

// classify examines a single line with its newline and trailing "\r"
// already removed.
func classify(line []byte) lineResult {
	trimmed := bytes.TrimSpace(line)
	if len(trimmed) == 0 || line[0] == ':' {
		return lineResult{outcome: outcomeSkip}
	}

	if !bytes.HasPrefix(line, []byte(DataPrefix)) {
		return lineResult{outcome: outcomeSkip}
	}

	payload := bytes.TrimSpace(line[len(DataPrefix):])
	if string(payload) == DoneSentinel {
		return lineResult{outcome: outcomeDone}
	}

	return parseDelta(payload)
}

// chunkPayload is the only part of a streamed chat completion chunk the
// decoder reads: choices[0].delta.content.
type chunkPayload struct {
	Choices []struct {
		Delta struct {
			Content json.RawMessage `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// parseDelta extracts choices[0].delta.content from payload. Syntactically
// invalid JSON yields outcomeIncomplete; valid JSON of an unexpected shape
// is skipped.
func parseDelta(payload []byte) lineResult {
	if !json.Valid(payload) {
		return lineResult{outcome: outcomeIncomplete}
	}

	var chunk chunkPayload
	// Valid JSON with mismatched field types still fills what it can.
	_ = json.Unmarshal(payload, &chunk)

	if len(chunk.Choices) == 0 || len(chunk.Choices[0].Delta.Content) == 0 {
		return lineResult{outcome: outcomeSkip}
	}

	var content string
	if err := json.Unmarshal(chunk.Choices[0].Delta.Content, &content); err != nil || content == "" {
		return lineResult{outcome: outcomeSkip}
	}

	return lineResult{outcome: outcomeDelta, delta: content}
}
