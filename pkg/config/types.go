package config

import (
	"strings"
)

// Config is the persistent concierge configuration stored as config.toml in
// the .concierge/ directory.
type Config struct {
	Version int           `toml:"version"`
	Gateway GatewayConfig `toml:"gateway"`
	Server  ServerConfig  `toml:"server"`
	Storage StorageConfig `toml:"storage"`
	Events  EventsConfig  `toml:"events"`
	Client  ClientConfig  `toml:"client"`
}

// GatewayConfig holds the upstream language model gateway settings.
type GatewayConfig struct {
	URL    string `toml:"url,omitempty"`
	Model  string `toml:"model,omitempty"`
	APIKey string `toml:"api_key,omitempty"`

	// SystemPrompt replaces the built-in agency prompt when set.
	SystemPrompt string `toml:"system_prompt,omitempty"`
}

// ServerConfig holds chat server settings.
type ServerConfig struct {
	Listen string `toml:"listen,omitempty"`

	// AllowedOrigins is a comma separated CORS origin list, "*" for any.
	AllowedOrigins string `toml:"allowed_origins,omitempty"`
}

// StorageConfig selects where chat transcripts are kept.
type StorageConfig struct {
	// Driver is one of "memory", "sqlite" or "postgres".
	Driver      string `toml:"driver,omitempty"`
	SQLitePath  string `toml:"sqlite_path,omitempty"`
	PostgresDSN string `toml:"postgres_dsn,omitempty"`
}

// EventsConfig configures publishing of chat events. Publishing is off
// while no brokers are set.
type EventsConfig struct {
	// KafkaBrokers is a comma separated host:port list.
	KafkaBrokers string `toml:"kafka_brokers,omitempty"`
	KafkaTopic   string `toml:"kafka_topic,omitempty"`
}

// ClientConfig holds settings for CLI commands that talk to a running
// concierge server. Values are full URLs (scheme + host + port).
type ClientConfig struct {
	ServerTarget string `toml:"server_target,omitempty"`
}

// Brokers splits KafkaBrokers into trimmed, non-empty entries.
func (e EventsConfig) Brokers() []string {
	return SplitList(e.KafkaBrokers)
}

// Origins splits AllowedOrigins into trimmed, non-empty entries.
func (s ServerConfig) Origins() []string {
	return SplitList(s.AllowedOrigins)
}

// SplitList splits a comma separated setting.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get    func(c *Config) string
	set    func(c *Config, v string) error
	secret bool
}

func stringKey(field func(c *Config) *string) configKeyInfo {
	return configKeyInfo{
		get: func(c *Config) string { return *field(c) },
		set: func(c *Config, v string) error { *field(c) = v; return nil },
	}
}

func secretKey(field func(c *Config) *string) configKeyInfo {
	k := stringKey(field)
	k.secret = true
	return k
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"gateway.url":            stringKey(func(c *Config) *string { return &c.Gateway.URL }),
	"gateway.model":          stringKey(func(c *Config) *string { return &c.Gateway.Model }),
	"gateway.api_key":        secretKey(func(c *Config) *string { return &c.Gateway.APIKey }),
	"gateway.system_prompt":  stringKey(func(c *Config) *string { return &c.Gateway.SystemPrompt }),
	"server.listen":          stringKey(func(c *Config) *string { return &c.Server.Listen }),
	"server.allowed_origins": stringKey(func(c *Config) *string { return &c.Server.AllowedOrigins }),
	"storage.driver": {
		get: func(c *Config) string { return c.Storage.Driver },
		set: func(c *Config, v string) error {
			if err := ValidateStorageDriver(v); err != nil {
				return err
			}
			c.Storage.Driver = v
			return nil
		},
	},
	"storage.sqlite_path":  stringKey(func(c *Config) *string { return &c.Storage.SQLitePath }),
	"storage.postgres_dsn": secretKey(func(c *Config) *string { return &c.Storage.PostgresDSN }),
	"events.kafka_brokers": stringKey(func(c *Config) *string { return &c.Events.KafkaBrokers }),
	"events.kafka_topic":   stringKey(func(c *Config) *string { return &c.Events.KafkaTopic }),
	"client.server_target": stringKey(func(c *Config) *string { return &c.Client.ServerTarget }),
}

// orderedKeys lists configKeys in TOML section order.
var orderedKeys = []string{
	"gateway.url",
	"gateway.model",
	"gateway.api_key",
	"gateway.system_prompt",
	"server.listen",
	"server.allowed_origins",
	"storage.driver",
	"storage.sqlite_path",
	"storage.postgres_dsn",
	"events.kafka_brokers",
	"events.kafka_topic",
	"client.server_target",
}
