package sse_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing/iotest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/executehq/concierge/pkg/sse"
)

var _ = Describe("Collect", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	It("accumulates the full message and reports done", func() {
		input := deltaLine("Hi") + deltaLine(" there") + "data: [DONE]\n"

		var seen []string
		res, err := sse.Collect(ctx, strings.NewReader(input), func(delta string) {
			seen = append(seen, delta)
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Message).To(Equal("Hi there"))
		Expect(res.Done).To(BeTrue())
		Expect(seen).To(Equal([]string{"Hi", " there"}))
	})

	It("decodes a body delivered one byte at a time", func() {
		input := deltaLine("one ") + deltaLine("byte") + "data: [DONE]\n"

		res, err := sse.Collect(ctx, iotest.OneByteReader(strings.NewReader(input)), nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Message).To(Equal("one byte"))
		Expect(res.Done).To(BeTrue())
	})

	It("flushes a final line when the transport closes without the sentinel", func() {
		input := deltaLine("a") + strings.TrimSuffix(deltaLine("b"), "\n")

		res, err := sse.Collect(ctx, strings.NewReader(input), nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Message).To(Equal("ab"))
		Expect(res.Done).To(BeFalse())
	})

	It("discards anything after the sentinel", func() {
		input := deltaLine("Hi") + "data: [DONE]\n" + deltaLine("ignored")

		res, err := sse.Collect(ctx, strings.NewReader(input), nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Message).To(Equal("Hi"))
	})

	It("gives the same result however a malformed line before the sentinel is chunked", func() {
		input := deltaLine("a") + "data: {bad\n" + "data: [DONE]\n" + deltaLine("b")

		whole, err := sse.Collect(ctx, strings.NewReader(input), nil)
		Expect(err).NotTo(HaveOccurred())

		oneByte, err := sse.Collect(ctx, iotest.OneByteReader(strings.NewReader(input)), nil)
		Expect(err).NotTo(HaveOccurred())

		Expect(whole).To(Equal(sse.Result{Message: "a", Done: true}))
		Expect(oneByte).To(Equal(whole))
	})

	It("returns transport errors with the partial message", func() {
		boom := errors.New("connection reset")
		r := io.MultiReader(strings.NewReader(deltaLine("partial")), iotest.ErrReader(boom))

		res, err := sse.Collect(ctx, r, nil)
		Expect(err).To(MatchError(boom))
		Expect(err.Error()).To(ContainSubstring("reading stream"))
		Expect(res.Message).To(Equal("partial"))
		Expect(res.Done).To(BeFalse())
	})

	It("stops when the context is cancelled", func() {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := sse.Collect(cancelled, strings.NewReader(deltaLine("x")), nil)
		Expect(err).To(MatchError(context.Canceled))
	})
})
