package storage

import (
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/executehq/concierge/pkg/llm"
)

// Transcript is one completed chat exchange: the conversation sent upstream
// and the reply that streamed back.
type Transcript struct {
	ID        string        `json:"id"`
	CreatedAt time.Time     `json:"created_at"`
	Model     string        `json:"model"`
	Messages  []llm.Message `json:"messages"`
	Reply     string        `json:"reply"`

	// Complete is false when the stream ended without the done sentinel.
	Complete bool `json:"complete"`

	DurationMs int64 `json:"duration_ms"`
}

// NewTranscript creates a Transcript with a fresh ID and the current time.
func NewTranscript(model string, messages []llm.Message, reply string, complete bool, elapsed time.Duration) *Transcript {
	return &Transcript{
		ID:         uuid.NewString(),
		CreatedAt:  time.Now().UTC(),
		Model:      model,
		Messages:   slices.Clone(messages),
		Reply:      reply,
		Complete:   complete,
		DurationMs: elapsed.Milliseconds(),
	}
}

// Validate reports whether t can be stored.
func (t *Transcript) Validate() error {
	if t == nil {
		return errors.New("cannot store nil transcript")
	}
	if t.ID == "" {
		return errors.New("transcript has no id")
	}
	return nil
}

// Clone returns a deep copy of t.
func (t *Transcript) Clone() *Transcript {
	c := *t
	c.Messages = slices.Clone(t.Messages)
	return &c
}
