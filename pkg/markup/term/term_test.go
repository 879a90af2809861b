package term_test

import (
	"strings"

	"github.com/muesli/reflow/ansi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/executehq/concierge/pkg/markup"
	"github.com/executehq/concierge/pkg/markup/term"
)

var _ = Describe("Renderer", func() {
	var r *term.Renderer

	BeforeEach(func() {
		r = term.New(term.WithStyles(term.PlainStyles()), term.WithWidth(0))
	})

	It("renders paragraphs and line breaks", func() {
		Expect(r.RenderText("Hello **world**\n\nbye *now*")).To(Equal("Hello world\n\nbye now\n"))
	})

	It("wraps paragraphs to the configured width", func() {
		text := "the quick brown fox jumps over the lazy dog and keeps on running"
		out := term.New(term.WithStyles(term.PlainStyles()), term.WithWidth(20)).RenderText(text)

		lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
		Expect(len(lines)).To(BeNumerically(">", 1))
		for _, line := range lines {
			Expect(ansi.PrintableRuneWidth(line)).To(BeNumerically("<=", 20), line)
		}
		Expect(strings.Fields(out)).To(Equal(strings.Fields(text)))
	})

	It("lays out tables in padded columns", func() {
		out := r.RenderText("a|b\n---|---\n1|22")
		Expect(out).To(Equal(
			"a │ b\n" +
				"──┼───\n" +
				"1 │ 22\n",
		))
	})

	It("ends short rows early", func() {
		out := r.RenderText("| name | role |\n|---|---|\n| Ada |\n| Bo | dev | extra |")
		lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
		Expect(lines).To(HaveLen(4))
		Expect(lines[0]).To(Equal("name │ role"))
		Expect(lines[2]).To(Equal("Ada"))
		Expect(lines[3]).To(Equal("Bo   │ dev  │ extra"))
	})

	It("renders a header-only table", func() {
		Expect(r.Render([]markup.Node{
			markup.Table([]markup.Cell{{markup.Plain("only")}}, nil),
		})).To(Equal("only\n────\n"))
	})

	It("applies emphasis styles to spans", func() {
		styles := term.PlainStyles()
		styles.Bold = styles.Bold.SetString("<b>")
		out := term.New(term.WithStyles(styles), term.WithWidth(0)).RenderText("x **y**")
		Expect(out).To(ContainSubstring("<b>"))
	})

	It("keeps emphasis inside header cells", func() {
		styles := term.PlainStyles()
		styles.Bold = styles.Bold.SetString("<b>")
		styles.Italic = styles.Italic.SetString("<i>")
		out := term.New(term.WithStyles(styles), term.WithWidth(0)).RenderText("**a**|*b*\n---|---\n1|2")

		header := strings.SplitN(out, "\n", 2)[0]
		Expect(header).To(ContainSubstring("<b>"))
		Expect(header).To(ContainSubstring("<i>"))
		Expect(strings.Index(header, "<b>")).To(BeNumerically("<", strings.Index(header, "a")))
	})
})
