package providers

import (
	"context"
	"fmt"
	"net/http"
	"os"
)

const defaultOpenAIURL = "https://api.openai.com"

// OpenAI implements the Reviewer interface for OpenAI's API.
type OpenAI struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewOpenAI creates a new OpenAI provider.
func NewOpenAI(endpoint, model string) (*OpenAI, error) {
	key := os.Getenv("OPENAI_API_KEY")
	if key == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable is not set")
	}
	baseURL := endpoint
	if baseURL == "" {
		baseURL = os.Getenv("UNPROMPTED_OPENAI_BASE_URL")
	}
	if baseURL == "" {
		baseURL = defaultOpenAIURL
	}
	return &OpenAI{
		apiKey:  key,
		model:   model,
		baseURL: normalizeBaseURL(baseURL) + "/v1/chat/completions",
		client:  &http.Client{},
	}, nil
}

func (o *OpenAI) Name() string  { return "openai" }
func (o *OpenAI) Model() string { return o.model }

func (o *OpenAI) Review(ctx context.Context, req ReviewRequest) (ReviewResponse, error) {
	return complete(ctx, o.client, o.baseURL, o.apiKey, o.model, req)
}
