// Package storage persists chat transcripts.
package storage

import (
	"context"
)

// DefaultListLimit caps List when the caller passes zero or less.
const DefaultListLimit = 50

// Driver defines the interface for persisting and retrieving transcripts
// in a storage backend.
type Driver interface {
	// Put stores a transcript. Storing an ID twice is an error.
	Put(ctx context.Context, t *Transcript) error

	// Get retrieves a transcript by its ID. A missing transcript yields
	// ErrNotFound.
	Get(ctx context.Context, id string) (*Transcript, error)

	// List returns up to limit transcripts, newest first.
	List(ctx context.Context, limit int) ([]*Transcript, error)

	// Close closes the store and releases any resources.
	Close() error
}

// ClampLimit returns limit, or DefaultListLimit when limit is not positive.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
