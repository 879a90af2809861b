package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/executehq/concierge/pkg/markup"
	"github.com/executehq/concierge/pkg/storage/inmemory"
	testutils "github.com/executehq/concierge/pkg/utils/test"
)

func ctxBackground() context.Context {
	return context.Background()
}

var _ = Describe("Handlers", func() {
	var (
		s      *Server
		driver *inmemory.Driver
	)

	BeforeEach(func() {
		s, driver = newTestServer("http://127.0.0.1:1", "sk-test")
	})

	AfterEach(func() {
		s.Close()
	})

	It("answers ping", func() {
		resp, err := s.app.Test(httptest.NewRequest(http.MethodGet, "/ping", nil), -1)
		Expect(err).NotTo(HaveOccurred())

		var body string
		Expect(json.NewDecoder(resp.Body).Decode(&body)).To(Succeed())
		Expect(body).To(Equal("pong"))
	})

	Describe("POST /render", func() {
		It("returns the markup tree", func() {
			req := httptest.NewRequest(http.MethodPost, "/render", strings.NewReader(`{"text":"Hi **you**\n\na|b\n---\n1|2"}`))
			req.Header.Set("Content-Type", "application/json")

			resp, err := s.app.Test(req, -1)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			var body RenderResponse
			Expect(json.NewDecoder(resp.Body).Decode(&body)).To(Succeed())
			Expect(body.Nodes).To(Equal(markup.Render("Hi **you**\n\na|b\n---\n1|2")))
		})

		It("rejects malformed bodies", func() {
			req := httptest.NewRequest(http.MethodPost, "/render", strings.NewReader(`{`))
			req.Header.Set("Content-Type", "application/json")

			resp, err := s.app.Test(req, -1)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("transcripts", func() {
		var ids []string

		BeforeEach(func() {
			ids = nil
			for i := range 3 {
				t := testutils.NewTestTranscript("q", "a", time.Duration(i)*time.Minute)
				Expect(driver.Put(ctxBackground(), t)).To(Succeed())
				ids = append(ids, t.ID)
			}
		})

		It("lists newest first", func() {
			resp, err := s.app.Test(httptest.NewRequest(http.MethodGet, "/transcripts", nil), -1)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			var body TranscriptList
			Expect(json.NewDecoder(resp.Body).Decode(&body)).To(Succeed())
			Expect(body.Count).To(Equal(3))
			Expect(body.Transcripts[0].ID).To(Equal(ids[2]))
		})

		It("honours the limit", func() {
			resp, err := s.app.Test(httptest.NewRequest(http.MethodGet, "/transcripts?limit=1", nil), -1)
			Expect(err).NotTo(HaveOccurred())

			var body TranscriptList
			Expect(json.NewDecoder(resp.Body).Decode(&body)).To(Succeed())
			Expect(body.Count).To(Equal(1))
		})

		It("gets one by ID", func() {
			resp, err := s.app.Test(httptest.NewRequest(http.MethodGet, "/transcripts/"+ids[0], nil), -1)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			var body map[string]any
			Expect(json.NewDecoder(resp.Body).Decode(&body)).To(Succeed())
			Expect(body["id"]).To(Equal(ids[0]))
			Expect(body["reply"]).To(Equal("a"))
		})

		It("returns 404 for unknown IDs", func() {
			resp, err := s.app.Test(httptest.NewRequest(http.MethodGet, "/transcripts/nope", nil), -1)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
		})
	})

	It("mounts the MCP endpoint", func() {
		resp, err := s.app.Test(httptest.NewRequest(http.MethodGet, "/mcp", nil), -1)
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.StatusCode).NotTo(Equal(http.StatusNotFound))
	})
})
