package config_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/executehq/concierge/pkg/config"
	"github.com/executehq/concierge/pkg/gateway"
)

func writeConfig(dir, data string) {
	Expect(os.WriteFile(filepath.Join(dir, "config.toml"), []byte(data), 0o600)).To(Succeed())
}

var _ = Describe("Configer", func() {
	var tmpDir string

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
	})

	newConfiger := func() *config.Configer {
		c, err := config.NewConfiger(tmpDir)
		Expect(err).NotTo(HaveOccurred())
		return c
	}

	Describe("LoadConfig", func() {
		It("returns defaults when no config file exists", func() {
			cfg, err := newConfiger().LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg).To(Equal(config.NewDefaultConfig()))
		})

		It("loads every section", func() {
			writeConfig(tmpDir, `version = 0

[gateway]
url = "https://gateway.example/v1/chat/completions"
model = "openai/gpt-5-mini"
api_key = "sk-test"
system_prompt = "Be brief."

[server]
listen = ":9090"
allowed_origins = "https://execute.example, https://www.execute.example"

[storage]
driver = "postgres"
postgres_dsn = "postgres://localhost/concierge"

[events]
kafka_brokers = "k1:9092,k2:9092"
kafka_topic = "chat"

[client]
server_target = "http://myhost:9090"
`)

			cfg, err := newConfiger().LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Gateway).To(Equal(config.GatewayConfig{
				URL:          "https://gateway.example/v1/chat/completions",
				Model:        "openai/gpt-5-mini",
				APIKey:       "sk-test",
				SystemPrompt: "Be brief.",
			}))
			Expect(cfg.Server.Listen).To(Equal(":9090"))
			Expect(cfg.Server.Origins()).To(Equal([]string{"https://execute.example", "https://www.execute.example"}))
			Expect(cfg.Storage.Driver).To(Equal(config.StoragePostgres))
			Expect(cfg.Storage.PostgresDSN).To(Equal("postgres://localhost/concierge"))
			Expect(cfg.Events.Brokers()).To(Equal([]string{"k1:9092", "k2:9092"}))
			Expect(cfg.Events.KafkaTopic).To(Equal("chat"))
			Expect(cfg.Client.ServerTarget).To(Equal("http://myhost:9090"))
		})

		It("fills defaults for fields missing from a partial file", func() {
			writeConfig(tmpDir, "[gateway]\nmodel = \"custom\"\n")

			cfg, err := newConfiger().LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Gateway.Model).To(Equal("custom"))
			Expect(cfg.Gateway.URL).To(Equal(gateway.DefaultURL))
			Expect(cfg.Server.Listen).To(Equal(":8080"))
			Expect(cfg.Storage.Driver).To(Equal(config.StorageSQLite))
		})

		It("returns an error for malformed TOML", func() {
			writeConfig(tmpDir, "[gateway\n")
			_, err := newConfiger().LoadConfig()
			Expect(err).To(MatchError(ContainSubstring("parsing config TOML")))
		})

		It("returns an error for an unsupported version", func() {
			writeConfig(tmpDir, "version = 7\n")
			_, err := newConfiger().LoadConfig()
			Expect(err).To(MatchError(ContainSubstring("unsupported config version 7")))
		})

		It("returns an error for an unknown storage driver", func() {
			writeConfig(tmpDir, "[storage]\ndriver = \"mongo\"\n")
			_, err := newConfiger().LoadConfig()
			Expect(err).To(MatchError(ContainSubstring("unknown storage driver")))
		})
	})

	Describe("SaveConfig", func() {
		It("round trips through disk", func() {
			c := newConfiger()
			cfg := config.NewDefaultConfig()
			cfg.Gateway.APIKey = "sk-roundtrip"
			cfg.Events.KafkaBrokers = "localhost:9092"

			Expect(c.SaveConfig(cfg)).To(Succeed())
			Expect(filepath.Join(tmpDir, "config.toml")).To(BeARegularFile())

			loaded, err := newConfiger().LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded).To(Equal(cfg))
		})

		It("returns an error for a nil config", func() {
			Expect(newConfiger().SaveConfig(nil)).To(MatchError("cannot save nil config"))
		})
	})

	Describe("SetConfigValue and GetConfigValue", func() {
		It("sets and reads back a key", func() {
			c := newConfiger()
			Expect(c.SetConfigValue("gateway.model", "google/gemini-2.5-pro")).To(Succeed())
			Expect(c.GetConfigValue("gateway.model")).To(Equal("google/gemini-2.5-pro"))
		})

		It("preserves other values", func() {
			c := newConfiger()
			Expect(c.SetConfigValue("server.listen", ":7000")).To(Succeed())
			Expect(c.SetConfigValue("events.kafka_topic", "leads")).To(Succeed())

			Expect(c.GetConfigValue("server.listen")).To(Equal(":7000"))
			Expect(c.GetConfigValue("events.kafka_topic")).To(Equal("leads"))
		})

		It("returns defaults when nothing was set", func() {
			c := newConfiger()
			Expect(c.GetConfigValue("client.server_target")).To(Equal("http://localhost:8080"))
			Expect(c.GetConfigValue("gateway.api_key")).To(BeEmpty())
		})

		It("validates the storage driver", func() {
			err := newConfiger().SetConfigValue("storage.driver", "mongo")
			Expect(err).To(MatchError(ContainSubstring("unknown storage driver")))
		})

		It("rejects unknown keys", func() {
			c := newConfiger()
			Expect(c.SetConfigValue("proxy.upstream", "x")).To(MatchError(ContainSubstring("unknown config key")))
			_, err := c.GetConfigValue("nope")
			Expect(err).To(MatchError(ContainSubstring("unknown config key")))
		})
	})
})

var _ = Describe("config keys", func() {
	It("lists every key in section order", func() {
		keys := config.ValidConfigKeys()
		Expect(keys[0]).To(Equal("gateway.url"))
		Expect(keys[len(keys)-1]).To(Equal("client.server_target"))
		for _, k := range keys {
			Expect(config.IsValidConfigKey(k)).To(BeTrue(), k)
		}
	})

	It("marks credentials as secret", func() {
		Expect(config.IsSecretKey("gateway.api_key")).To(BeTrue())
		Expect(config.IsSecretKey("storage.postgres_dsn")).To(BeTrue())
		Expect(config.IsSecretKey("gateway.model")).To(BeFalse())
		Expect(config.IsSecretKey("unknown")).To(BeFalse())
	})
})

var _ = Describe("SplitList", func() {
	It("trims entries and drops empties", func() {
		Expect(config.SplitList(" a, ,b ,")).To(Equal([]string{"a", "b"}))
		Expect(config.SplitList("")).To(BeEmpty())
	})
})
