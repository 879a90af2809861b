package llm

// ChatRequest is the body of a streamed chat completion request sent to an
// OpenAI compatible gateway.
type ChatRequest struct {
	// Model name (e.g., "google/gemini-2.5-flash")
	Model string `json:"model"`

	// Conversation messages, system prompt first
	Messages []Message `json:"messages"`

	// Whether to stream the response as server-sent events
	Stream bool `json:"stream"`
}

// ChatBody is the body accepted by the concierge /chat endpoint: the
// conversation so far, without a system prompt.
type ChatBody struct {
	Messages []Message `json:"messages"`
}
