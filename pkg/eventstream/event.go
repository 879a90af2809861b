package eventstream

import (
	"time"

	"github.com/google/uuid"

	"github.com/executehq/concierge/pkg/storage"
)

const (
	// SchemaVersionV1 is the first version of the event payload schema.
	SchemaVersionV1 = 1

	// EventTypeChatCompleted is emitted after a chat reply finished streaming
	// and its transcript was stored.
	EventTypeChatCompleted = "concierge.chat.completed"
)

// ChatCompletedEvent is a transport-neutral event payload for a finished chat.
type ChatCompletedEvent struct {
	SchemaVersion int                `json:"schema_version"`
	EventType     string             `json:"event_type"`
	EventID       string             `json:"event_id"`
	EmittedAt     time.Time          `json:"emitted_at"`
	Source        EventSource        `json:"source"`
	Request       ChatRequestMeta    `json:"request_meta"`
	Transcript    storage.Transcript `json:"transcript"`
}

// EventSource identifies where the chat originated.
type EventSource struct {
	Service string `json:"service"`
	Model   string `json:"model"`
}

// ChatRequestMeta captures request lifecycle metadata for the event.
type ChatRequestMeta struct {
	Path        string    `json:"path,omitempty"`
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`
	DurationMs  int64     `json:"duration_ms"`
	Complete    bool      `json:"complete"`
}

// NewChatCompletedEvent wraps a stored transcript in a versioned event.
func NewChatCompletedEvent(t *storage.Transcript, path string) *ChatCompletedEvent {
	started := t.CreatedAt.Add(-time.Duration(t.DurationMs) * time.Millisecond)

	return &ChatCompletedEvent{
		SchemaVersion: SchemaVersionV1,
		EventType:     EventTypeChatCompleted,
		EventID:       uuid.NewString(),
		EmittedAt:     time.Now().UTC(),
		Source: EventSource{
			Service: "concierge",
			Model:   t.Model,
		},
		Request: ChatRequestMeta{
			Path:        path,
			StartedAt:   started,
			CompletedAt: t.CreatedAt,
			DurationMs:  t.DurationMs,
			Complete:    t.Complete,
		},
		Transcript: *t.Clone(),
	}
}
