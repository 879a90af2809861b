// Package gateway is the client for the hosted, OpenAI compatible language
// model gateway that answers chat requests as server-sent events.
//
// The same client speaks to the concierge server's /chat endpoint, which
// relays the gateway's stream unchanged.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/executehq/concierge/pkg/llm"
	"github.com/executehq/concierge/pkg/logger"
	"github.com/executehq/concierge/pkg/sse"
)

const (
	// defaultTimeout bounds a whole request including the streamed body.
	defaultTimeout = 5 * time.Minute

	// maxErrorBody caps how much of a failed response is kept.
	maxErrorBody = 4 * 1024
)

// Config is the gateway client configuration.
type Config struct {
	// URL is the chat completions endpoint. Defaults to DefaultURL.
	URL string

	// APIKey is sent as a bearer token.
	APIKey string

	// Model is the requested model. Defaults to DefaultModel.
	Model string

	// SystemPrompt is prepended to every conversation when non-empty.
	SystemPrompt string

	// Anonymous sends requests without an Authorization header, for talking
	// to a concierge server that holds the key itself.
	Anonymous bool

	// HTTPClient overrides the default client.
	HTTPClient *http.Client

	// Logger defaults to a no-op logger.
	Logger *slog.Logger
}

// Client issues streamed chat completion requests.
type Client struct {
	config     Config
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates a Client, filling in defaults for unset fields.
func New(c Config) *Client {
	if c.URL == "" {
		c.URL = DefaultURL
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			// Replies are streamed; the timeout covers the whole body.
			Timeout: defaultTimeout,
		}
	}

	log := c.Logger
	if log == nil {
		log = logger.Nop()
	}

	return &Client{
		config:     c,
		httpClient: httpClient,
		logger:     log,
	}
}

// Model returns the model requested upstream.
func (c *Client) Model() string {
	return c.config.Model
}

// Stream sends messages, preceded by the system prompt, with streaming
// enabled and returns the response body on status 200. The caller must close
// it. Any other status yields a *StatusError, which matches ErrRateLimited or
// ErrPaymentRequired under errors.Is where applicable.
func (c *Client) Stream(ctx context.Context, messages []llm.Message) (io.ReadCloser, error) {
	if c.config.APIKey == "" && !c.config.Anonymous {
		return nil, ErrMissingAPIKey
	}

	body, err := json.Marshal(llm.ChatRequest{
		Model:    c.config.Model,
		Messages: c.conversation(messages),
		Stream:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.URL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating gateway request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	if !c.config.Anonymous {
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	c.logger.Debug("forwarding chat request to gateway",
		"url", c.config.URL,
		"model", c.config.Model,
		"message_count", len(messages),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway request failed: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

		c.logger.Error("gateway returned error",
			"status", resp.StatusCode,
			"body", string(errBody),
		)
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(errBody)}
	}

	return resp.Body, nil
}

// Complete streams a reply and decodes it, handing each delta to onDelta as
// it arrives. onDelta may be nil. On error the partial reply is discarded.
func (c *Client) Complete(ctx context.Context, messages []llm.Message, onDelta func(string)) (string, error) {
	body, err := c.Stream(ctx, messages)
	if err != nil {
		return "", err
	}
	defer body.Close()

	res, err := sse.Collect(ctx, body, onDelta)
	if err != nil {
		return "", err
	}

	if !res.Done {
		c.logger.Debug("stream closed without sentinel", "length", len(res.Message))
	}
	return res.Message, nil
}

func (c *Client) conversation(messages []llm.Message) []llm.Message {
	if c.config.SystemPrompt == "" {
		return messages
	}

	out := make([]llm.Message, 0, len(messages)+1)
	out = append(out, llm.NewMessage(llm.RoleSystem, c.config.SystemPrompt))
	return append(out, messages...)
}
