package sqlitepath

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ResolveSQLitePath", func() {
	var homeDir, workDir string

	BeforeEach(func() {
		origCwd, err := os.Getwd()
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(func() {
			Expect(os.Chdir(origCwd)).To(Succeed())
		})

		homeDir = GinkgoT().TempDir()
		workDir = GinkgoT().TempDir()
		GinkgoT().Setenv("HOME", homeDir)
		GinkgoT().Setenv("XDG_DATA_HOME", "")
		GinkgoT().Setenv("CONCIERGE_SQLITE", "")
		Expect(os.Chdir(workDir)).To(Succeed())
	})

	touch := func(path string) {
		Expect(os.MkdirAll(filepath.Dir(path), 0o755)).To(Succeed())
		Expect(os.WriteFile(path, nil, 0o600)).To(Succeed())
	}

	It("returns the override unchanged", func() {
		GinkgoT().Setenv("CONCIERGE_SQLITE", "/tmp/env.db")
		path, err := ResolveSQLitePath("/tmp/flag.db")
		Expect(err).NotTo(HaveOccurred())
		Expect(path).To(Equal("/tmp/flag.db"))
	})

	It("prefers CONCIERGE_SQLITE over candidates", func() {
		touch(filepath.Join(workDir, DBName))
		GinkgoT().Setenv("CONCIERGE_SQLITE", "/tmp/env.db")

		path, err := ResolveSQLitePath("")
		Expect(err).NotTo(HaveOccurred())
		Expect(path).To(Equal("/tmp/env.db"))
	})

	It("finds a database in the working directory", func() {
		touch(filepath.Join(workDir, DBName))

		path, err := ResolveSQLitePath("")
		Expect(err).NotTo(HaveOccurred())
		Expect(path).To(Equal(DBName))
	})

	It("finds ~/.concierge/concierge.db", func() {
		want := filepath.Join(homeDir, ".concierge", DBName)
		touch(want)

		path, err := ResolveSQLitePath("")
		Expect(err).NotTo(HaveOccurred())
		Expect(path).To(Equal(want))
	})

	It("prefers XDG_DATA_HOME", func() {
		xdg := GinkgoT().TempDir()
		GinkgoT().Setenv("XDG_DATA_HOME", xdg)
		want := filepath.Join(xdg, "concierge", DBName)
		touch(want)
		touch(filepath.Join(workDir, DBName))

		path, err := ResolveSQLitePath("")
		Expect(err).NotTo(HaveOccurred())
		Expect(path).To(Equal(want))
	})

	It("reports when nothing is found", func() {
		_, err := ResolveSQLitePath("")
		Expect(err).To(MatchError(ErrNotFound))
	})

	Describe("ResolveOrDefault", func() {
		It("falls back to the concierge directory", func() {
			configDir := filepath.Join(GinkgoT().TempDir(), "conf")

			path, err := ResolveOrDefault("", configDir)
			Expect(err).NotTo(HaveOccurred())

			abs, err := filepath.Abs(configDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(path).To(Equal(filepath.Join(abs, DBName)))
			Expect(abs).To(BeADirectory())
		})

		It("keeps a resolved path", func() {
			path, err := ResolveOrDefault("custom.db", "")
			Expect(err).NotTo(HaveOccurred())
			Expect(path).To(Equal("custom.db"))
		})
	})
})
