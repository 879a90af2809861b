package sse

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// readChunkSize is the size of each read from the transport. Chunk
// boundaries are arbitrary as far as the Decoder is concerned.
const readChunkSize = 4 * 1024

// Result is the outcome of draining a response body with Collect.
type Result struct {
	// Message is the accumulated assistant text.
	Message string

	// Done reports whether the terminal sentinel was seen before the
	// transport closed.
	Done bool
}

// Collect reads r to completion (or until the sentinel is seen), feeding
// every chunk through a fresh Decoder and handing each delta to onDelta as
// it arrives. onDelta may be nil.
//
// Read failures on r are transport errors and are returned wrapped; the
// partial Result is still returned so the caller can decide to discard it.
// Malformed stream content never produces an error.
func Collect(ctx context.Context, r io.Reader, onDelta func(string)) (Result, error) {
	dec := NewDecoder()
	buf := make([]byte, readChunkSize)

	emit := func(deltas []string) {
		if onDelta == nil {
			return
		}
		for _, delta := range deltas {
			onDelta(delta)
		}
	}

	for !dec.Done() {
		if err := ctx.Err(); err != nil {
			return Result{Message: dec.Message()}, err
		}

		n, err := r.Read(buf)
		if n > 0 {
			emit(dec.Feed(buf[:n]))
		}

		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Result{Message: dec.Message()}, fmt.Errorf("reading stream: %w", err)
		}
	}

	// Anything after the sentinel is discarded.
	if !dec.Done() {
		emit(dec.Finish())
	}

	return Result{Message: dec.Message(), Done: dec.Done()}, nil
}
