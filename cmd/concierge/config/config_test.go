package configcmder

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// execute runs the config command under a root carrying --config-dir.
func execute(configDir string, args ...string) (string, error) {
	root := &cobra.Command{Use: "concierge"}
	root.PersistentFlags().String("config-dir", "", "")
	root.AddCommand(NewConfigCmd())

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"config", "--config-dir", configDir}, args...))

	err := root.Execute()
	return out.String(), err
}

var _ = Describe("config command", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	It("sets and gets a value", func() {
		out, err := execute(dir, "set", "gateway.model", "openai/gpt-5-mini")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("gateway.model"))

		data, err := os.ReadFile(filepath.Join(dir, "config.toml"))
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(ContainSubstring(`model = "openai/gpt-5-mini"`))

		out, err = execute(dir, "get", "gateway.model")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("openai/gpt-5-mini"))
	})

	It("masks secrets", func() {
		_, err := execute(dir, "set", "gateway.api_key", "sk-secret")
		Expect(err).NotTo(HaveOccurred())

		out, err := execute(dir, "get", "gateway.api_key")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).NotTo(ContainSubstring("sk-secret"))
		Expect(out).To(ContainSubstring(secretMask))

		out, err = execute(dir, "list")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).NotTo(ContainSubstring("sk-secret"))
	})

	It("lists every key", func() {
		out, err := execute(dir, "list")
		Expect(err).NotTo(HaveOccurred())
		for _, key := range []string{"gateway.url", "server.listen", "storage.driver", "events.kafka_topic", "client.server_target"} {
			Expect(out).To(ContainSubstring(key))
		}
	})

	It("rejects unknown keys", func() {
		_, err := execute(dir, "get", "proxy.upstream")
		Expect(err).To(MatchError(ContainSubstring("unknown config key")))

		_, err = execute(dir, "set", "proxy.upstream", "x")
		Expect(err).To(MatchError(ContainSubstring("unknown config key")))
	})

	It("rejects an invalid storage driver", func() {
		_, err := execute(dir, "set", "storage.driver", "mongo")
		Expect(err).To(HaveOccurred())
	})
})
