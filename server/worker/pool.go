// Package worker provides an asynchronous worker pool that persists chat
// transcripts with the provided storage.Driver and announces them on the
// provided eventstream.Publisher.
//
// The pool keeps storage and publishing off the chat server's streaming path
// so a slow database or broker never delays a reply.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/executehq/concierge/pkg/eventstream"
	"github.com/executehq/concierge/pkg/logger"
	"github.com/executehq/concierge/pkg/storage"
)

var (
	defaultNumWorkers   uint = 3
	defaultJobQueueSize uint = 256
)

// Job is a unit of work for the worker pool to execute against.
type Job struct {
	// Transcript is the finished exchange to store.
	Transcript *storage.Transcript

	// Path is the request path the chat arrived on.
	Path string
}

// Config is the configuration options for the worker pool.
type Config struct {
	// Driver is the storage backend for transcripts.
	Driver storage.Driver

	// Publisher announces stored transcripts. Optional.
	Publisher eventstream.Publisher

	// NumWorkers is the number of background workers in the pool.
	NumWorkers uint

	// QueueSize is the capacity of the buffered job channel (defaults to 256).
	QueueSize uint

	// Logger defaults to a no-op logger.
	Logger *slog.Logger
}

// Pool processes storage jobs asynchronously via a worker pool.
type Pool struct {
	config    *Config
	queue     chan Job
	wg        sync.WaitGroup
	closeOnce sync.Once
	logger    *slog.Logger
}

// NewPool creates a new Pool and starts its worker goroutines.
func NewPool(c *Config) (*Pool, error) {
	if c.Driver == nil {
		return nil, fmt.Errorf("storage driver is required")
	}

	if c.NumWorkers == 0 {
		c.NumWorkers = defaultNumWorkers
	}

	if c.QueueSize == 0 {
		c.QueueSize = defaultJobQueueSize
	}

	if c.NumWorkers > uint(math.MaxInt) {
		return nil, fmt.Errorf("NumWorkers %d exceeds max int", c.NumWorkers)
	}

	if c.Logger == nil {
		c.Logger = logger.Nop()
	}

	wp := &Pool{
		config: c,
		queue:  make(chan Job, c.QueueSize),
		logger: c.Logger,
	}

	wp.wg.Add(int(c.NumWorkers))
	for i := range c.NumWorkers {
		go wp.worker(i)
	}

	return wp, nil
}

// Enqueue submits a job for processing by the worker pool.
// Returns true if enqueued, false if the queue is full, resulting in the job being dropped
func (p *Pool) Enqueue(job Job) bool {
	if job.Transcript == nil {
		p.logger.Warn("job not queued, nil transcript")
		return false
	}

	select {
	case p.queue <- job:
		p.logger.Debug("job queued",
			"transcript_id", job.Transcript.ID,
			"model", job.Transcript.Model,
		)
		return true
	default:
		p.logger.Error("job not queued, queue full, job dropped",
			"transcript_id", job.Transcript.ID,
			"model", job.Transcript.Model,
		)
		return false
	}
}

// Close signals workers to stop and waits for in-flight jobs to drain.
// Call this during graceful shutdown after the HTTP server has stopped.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		close(p.queue)
		p.wg.Wait()
	})
}

// worker is the inner worker thread that continuously pulls jobs off the jobs queue
func (p *Pool) worker(id uint) {
	defer p.wg.Done()
	p.logger.Debug("worker started", "worker_id", id)

	for job := range p.queue {
		p.processJob(job)
	}

	p.logger.Debug("worker stopped", "worker_id", id)
}

// processJob stores the transcript and, once stored, publishes its event.
func (p *Pool) processJob(job Job) {
	ctx := context.Background()
	t := job.Transcript

	if err := p.config.Driver.Put(ctx, t); err != nil {
		p.logger.Error("async transcript storage failed",
			"transcript_id", t.ID,
			"error", err,
		)
		return
	}

	p.logger.Info("transcript stored",
		"transcript_id", t.ID,
		"model", t.Model,
		"complete", t.Complete,
		"duration_ms", t.DurationMs,
	)

	if p.config.Publisher == nil {
		return
	}

	event := eventstream.NewChatCompletedEvent(t, job.Path)
	if err := p.config.Publisher.PublishChatCompleted(ctx, event); err != nil {
		p.logger.Warn("failed to publish chat event",
			"transcript_id", t.ID,
			"event_id", event.EventID,
			"error", err,
		)
		return
	}

	p.logger.Debug("chat event published",
		"transcript_id", t.ID,
		"event_id", event.EventID,
	)
}
