package server

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/executehq/concierge/pkg/llm"
	"github.com/executehq/concierge/pkg/logger"
	"github.com/executehq/concierge/pkg/storage/inmemory"
)

// recordingStreamer hands out body as the upstream stream and remembers the
// context it was opened with. With stall set the stream blocks after body
// until that context is cancelled.
type recordingStreamer struct {
	body  string
	stall bool

	mu  sync.Mutex
	ctx context.Context
}

func (r *recordingStreamer) Stream(ctx context.Context, _ []llm.Message) (io.ReadCloser, error) {
	r.mu.Lock()
	r.ctx = ctx
	r.mu.Unlock()
	return io.NopCloser(&stallingReader{ctx: ctx, body: strings.NewReader(r.body), stall: r.stall}), nil
}

func (r *recordingStreamer) Complete(context.Context, []llm.Message, func(string)) (string, error) {
	return "", errors.New("not supported")
}

func (r *recordingStreamer) Model() string { return "test-model" }

func (r *recordingStreamer) opened() context.Context {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ctx
}

type stallingReader struct {
	ctx   context.Context
	body  *strings.Reader
	stall bool
}

func (s *stallingReader) Read(p []byte) (int, error) {
	if s.body.Len() > 0 {
		return s.body.Read(p)
	}
	if !s.stall {
		return 0, io.EOF
	}
	<-s.ctx.Done()
	return 0, s.ctx.Err()
}

var _ = Describe("Chat relay", func() {
	var s *Server

	newServer := func(st Streamer) *Server {
		srv, err := New(Config{ListenAddr: ":0"}, st, inmemory.NewDriver(), nil, logger.Nop())
		Expect(err).NotTo(HaveOccurred())
		return srv
	}

	AfterEach(func() {
		if s != nil {
			s.Close()
			s = nil
		}
	})

	It("cancels the upstream request once the client stops reading", func() {
		st := &recordingStreamer{body: sseEvent("Hi"), stall: true}
		s = newServer(st)

		ctx, cancel := context.WithCancel(ctxBackground())
		upstream, err := st.Stream(ctx, nil)
		Expect(err).NotTo(HaveOccurred())

		pr, pw := io.Pipe()
		Expect(pr.Close()).To(Succeed())

		done := make(chan struct{})
		go func() {
			defer close(done)
			s.relay(upstream, pw, cancel, nil, "/chat", time.Now())
		}()

		Eventually(done).Should(BeClosed())
		Expect(ctx.Err()).To(MatchError(context.Canceled))
	})

	It("releases the upstream context when the stream completes", func() {
		st := &recordingStreamer{body: sseEvent("Hello") + "data: [DONE]\n\n"}
		s = newServer(st)

		resp, err := s.app.Test(chatRequest(helloBody), -1)
		Expect(err).NotTo(HaveOccurred())
		body, err := io.ReadAll(resp.Body)
		Expect(err).NotTo(HaveOccurred())
		resp.Body.Close()
		Expect(string(body)).To(ContainSubstring("Hello"))

		Expect(st.opened()).NotTo(BeNil())
		Eventually(st.opened().Done()).Should(BeClosed())
	})
})
