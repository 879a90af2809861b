package cliui_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/executehq/concierge/pkg/cliui"
	"github.com/executehq/concierge/pkg/markup/term"
)

var _ = Describe("TerminalWidth", func() {
	var f *os.File

	BeforeEach(func() {
		var err error
		f, err = os.Create(filepath.Join(GinkgoT().TempDir(), "out"))
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(f.Close)
	})

	It("is not a terminal for regular files", func() {
		Expect(cliui.IsTerminal(f)).To(BeFalse())
		Expect(cliui.IsTerminal(nil)).To(BeFalse())
	})

	It("falls back to COLUMNS", func() {
		GinkgoT().Setenv("COLUMNS", "132")
		Expect(cliui.TerminalWidth(f)).To(Equal(132))
	})

	It("falls back to the default width", func() {
		GinkgoT().Setenv("COLUMNS", "wide")
		Expect(cliui.TerminalWidth(f)).To(Equal(term.DefaultWidth))
	})
})
