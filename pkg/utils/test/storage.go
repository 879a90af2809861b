package testutils

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/executehq/concierge/pkg/llm"
	"github.com/executehq/concierge/pkg/storage"
)

// ErrStoreFailed is returned by a MockDriver with FailPut set.
var ErrStoreFailed = errors.New("store failed")

// MockDriver is an in-memory storage.Driver that records calls and can be
// told to fail.
type MockDriver struct {
	mu sync.Mutex

	// Stored accumulates every transcript passed to Put, in order.
	Stored []*storage.Transcript

	// FailPut causes Put to return ErrStoreFailed.
	FailPut bool
}

// NewMockDriver creates a new mock storage driver.
func NewMockDriver() *MockDriver {
	return &MockDriver{}
}

func (m *MockDriver) Put(_ context.Context, t *storage.Transcript) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailPut {
		return ErrStoreFailed
	}
	m.Stored = append(m.Stored, t.Clone())
	return nil
}

func (m *MockDriver) Get(_ context.Context, id string) (*storage.Transcript, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, t := range m.Stored {
		if t.ID == id {
			return t.Clone(), nil
		}
	}
	return nil, storage.ErrNotFound{ID: id}
}

func (m *MockDriver) List(_ context.Context, limit int) ([]*storage.Transcript, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []*storage.Transcript{}
	for i := len(m.Stored) - 1; i >= 0 && len(out) < storage.ClampLimit(limit); i-- {
		out = append(out, m.Stored[i].Clone())
	}
	return out, nil
}

func (m *MockDriver) Close() error {
	return nil
}

// Transcripts returns a snapshot of everything stored so far.
func (m *MockDriver) Transcripts() []*storage.Transcript {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*storage.Transcript(nil), m.Stored...)
}

// NewTestTranscript builds a transcript with a single user turn, created
// offset after a fixed base time so ordering is deterministic.
func NewTestTranscript(question, reply string, offset time.Duration) *storage.Transcript {
	t := storage.NewTranscript(
		"test-model",
		[]llm.Message{llm.NewMessage(llm.RoleUser, question)},
		reply,
		true,
		1500*time.Millisecond,
	)
	t.CreatedAt = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC).Add(offset)
	return t
}

// DriverBehaviors registers specs every storage.Driver must pass.
// newDriver is called before each spec; the returned driver is closed after.
func DriverBehaviors(newDriver func() storage.Driver) {
	var (
		driver storage.Driver
		ctx    context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		driver = newDriver()
	})

	AfterEach(func() {
		if driver != nil {
			Expect(driver.Close()).To(Succeed())
			driver = nil
		}
	})

	Describe("Put and Get", func() {
		It("stores and retrieves a transcript", func() {
			t := NewTestTranscript("What do you build?", "We build **agents**.", 0)
			t.Messages = append(t.Messages, llm.NewMessage(llm.RoleAssistant, "Hi"))

			Expect(driver.Put(ctx, t)).To(Succeed())

			got, err := driver.Get(ctx, t.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.ID).To(Equal(t.ID))
			Expect(got.CreatedAt.Equal(t.CreatedAt)).To(BeTrue())
			Expect(got.Model).To(Equal("test-model"))
			Expect(got.Messages).To(Equal(t.Messages))
			Expect(got.Reply).To(Equal(t.Reply))
			Expect(got.Complete).To(BeTrue())
			Expect(got.DurationMs).To(Equal(int64(1500)))
		})

		It("keeps incomplete transcripts", func() {
			t := NewTestTranscript("q", "partial", 0)
			t.Complete = false
			Expect(driver.Put(ctx, t)).To(Succeed())

			got, err := driver.Get(ctx, t.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Complete).To(BeFalse())
		})

		It("returns ErrNotFound for unknown IDs", func() {
			_, err := driver.Get(ctx, "missing")
			var notFound storage.ErrNotFound
			Expect(errors.As(err, &notFound)).To(BeTrue())
			Expect(notFound.ID).To(Equal("missing"))
		})

		It("rejects duplicate IDs", func() {
			t := NewTestTranscript("q", "a", 0)
			Expect(driver.Put(ctx, t)).To(Succeed())
			Expect(driver.Put(ctx, t)).NotTo(Succeed())
		})

		It("rejects nil transcripts", func() {
			Expect(driver.Put(ctx, nil)).NotTo(Succeed())
		})
	})

	Describe("List", func() {
		It("returns an empty list for an empty store", func() {
			list, err := driver.List(ctx, 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(BeEmpty())
		})

		It("returns transcripts newest first up to the limit", func() {
			var ids []string
			for i := range 5 {
				t := NewTestTranscript(fmt.Sprintf("q%d", i), "a", time.Duration(i)*time.Minute)
				Expect(driver.Put(ctx, t)).To(Succeed())
				ids = append(ids, t.ID)
			}

			list, err := driver.List(ctx, 3)
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(3))
			Expect(list[0].ID).To(Equal(ids[4]))
			Expect(list[1].ID).To(Equal(ids[3]))
			Expect(list[2].ID).To(Equal(ids[2]))
		})

		It("applies the default limit when none is given", func() {
			Expect(driver.Put(ctx, NewTestTranscript("q", "a", 0))).To(Succeed())

			list, err := driver.List(ctx, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(1))
		})
	})
}
