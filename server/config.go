// Package server provides the concierge chat server: a streaming relay in
// front of the language model gateway that records every finished exchange.
package server

// AllowedHeaders are the request headers accepted from browser clients.
const AllowedHeaders = "authorization, x-client-info, apikey, content-type"

// Config is the chat server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8080")
	ListenAddr string

	// AllowedOrigins lists CORS origins. Empty or "*" allows any origin.
	AllowedOrigins []string

	// NumWorkers and QueueSize size the transcript worker pool. Zero uses
	// the pool defaults.
	NumWorkers uint
	QueueSize  uint

	// DisableMCP leaves /mcp without tools.
	DisableMCP bool
}
