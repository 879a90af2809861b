package dotdir_test

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/executehq/concierge/pkg/dotdir"
	"github.com/executehq/concierge/pkg/llm"
)

var _ = Describe("Session", func() {
	var (
		dir string
		m   *dotdir.Manager
	)

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		m = dotdir.NewManager()
	})

	It("returns nil when nothing was saved", func() {
		session, err := m.LoadSession(dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(session).To(BeNil())
	})

	It("round trips a conversation", func() {
		saved := &dotdir.Session{
			Messages: []llm.Message{
				llm.NewMessage(llm.RoleUser, "What does the monthly plan include?"),
				llm.NewMessage(llm.RoleAssistant, "Unlimited automation requests."),
			},
			UpdatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		}
		Expect(m.SaveSession(saved, dir)).To(Succeed())

		loaded, err := m.LoadSession(dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded.Messages).To(Equal(saved.Messages))
		Expect(loaded.UpdatedAt.Equal(saved.UpdatedAt)).To(BeTrue())
	})

	It("rejects a nil session", func() {
		Expect(m.SaveSession(nil, dir)).To(MatchError("cannot save nil session"))
	})

	It("reports a corrupt session file", func() {
		Expect(os.WriteFile(filepath.Join(dir, "session.json"), []byte("{"), 0o600)).To(Succeed())
		_, err := m.LoadSession(dir)
		Expect(err).To(MatchError(ContainSubstring("parsing session")))
	})

	It("clears the session and tolerates clearing twice", func() {
		Expect(m.SaveSession(&dotdir.Session{}, dir)).To(Succeed())
		Expect(m.ClearSession(dir)).To(Succeed())
		Expect(m.ClearSession(dir)).To(Succeed())

		session, err := m.LoadSession(dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(session).To(BeNil())
	})
})
