package providers

import (
	"context"
	"net/http"
	"os"
	"strings"
)

const defaultOllamaURL = "http://localhost:11434"

// Ollama implements the Reviewer interface for Ollama and LM Studio (OpenAI-compatible API).
type Ollama struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewOllama creates a new Ollama provider. No API key is required by default.
// An empty endpoint falls back to OLLAMA_HOST and then to localhost.
func NewOllama(endpoint, model string) (*Ollama, error) {
	baseURL := endpoint
	if baseURL == "" {
		baseURL = os.Getenv("OLLAMA_HOST")
	}
	if baseURL == "" {
		baseURL = defaultOllamaURL
	}

	// Optional API key for servers that require it (e.g., LM Studio)
	apiKey := os.Getenv("UNPROMPTED_OLLAMA_API_KEY")

	return &Ollama{
		apiKey:  apiKey,
		model:   model,
		baseURL: normalizeBaseURL(baseURL) + "/v1/chat/completions",
		client:  &http.Client{},
	}, nil
}

func (o *Ollama) Name() string  { return "ollama" }
func (o *Ollama) Model() string { return o.model }

func (o *Ollama) Review(ctx context.Context, req ReviewRequest) (ReviewResponse, error) {
	return complete(ctx, o.client, o.baseURL, o.apiKey, o.model, req)
}

// normalizeBaseURL strips a trailing /, /v1 or /v1/chat/completions.
func normalizeBaseURL(u string) string {
	u = strings.TrimRight(u, "/")
	u = strings.TrimSuffix(u, "/v1/chat/completions")
	u = strings.TrimSuffix(u, "/v1")
	return u
}
