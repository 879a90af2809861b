package llm

// ErrorResponse is the JSON error body returned by the HTTP endpoints.
type ErrorResponse struct {
	Error string `json:"error"`
}
