package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
)

const (
	defaultAnthropicURL = "https://api.anthropic.com"
	anthropicAPIVersion = "2023-06-01"
)

// Anthropic implements the Reviewer interface for Anthropic's Messages API.
type Anthropic struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewAnthropic creates a new Anthropic provider.
func NewAnthropic(endpoint, model string) (*Anthropic, error) {
	key := os.Getenv("ANTHROPIC_API_KEY")
	if key == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable is not set")
	}
	baseURL := endpoint
	if baseURL == "" {
		baseURL = defaultAnthropicURL
	}
	return &Anthropic{
		apiKey:  key,
		model:   model,
		baseURL: normalizeBaseURL(baseURL) + "/v1/messages",
		client:  &http.Client{},
	}, nil
}

func (a *Anthropic) Name() string  { return "anthropic" }
func (a *Anthropic) Model() string { return a.model }

func (a *Anthropic) Review(ctx context.Context, req ReviewRequest) (ReviewResponse, error) {
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = 4096
	}

	system, turns := splitSystem(req.Messages)
	temperature := req.Temperature
	body := anthropicRequest{
		Model:       a.model,
		MaxTokens:   maxTokens,
		System:      system,
		Temperature: &temperature,
	}
	for _, m := range turns {
		msg, err := toAnthropicMessage(m)
		if err != nil {
			return ReviewResponse{}, err
		}
		body.Messages = append(body.Messages, msg)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return ReviewResponse{}, fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", a.baseURL, bytes.NewReader(payload))
	if err != nil {
		return ReviewResponse{}, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", a.apiKey)
	httpReq.Header.Set("anthropic-version", anthropicAPIVersion)

	httpResp, err := a.client.Do(httpReq)
	if err != nil {
		return ReviewResponse{}, fmt.Errorf("sending request: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return ReviewResponse{}, fmt.Errorf("reading response: %w", err)
	}

	if httpResp.StatusCode == 401 || httpResp.StatusCode == 403 {
		return ReviewResponse{}, &authError{message: string(respBody)}
	}
	if httpResp.StatusCode != 200 {
		return ReviewResponse{}, &APIError{StatusCode: httpResp.StatusCode, Body: string(respBody)}
	}

	var result anthropicResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return ReviewResponse{}, fmt.Errorf("parsing response: %w", err)
	}

	var content string
	for _, block := range result.Content {
		if block.Type == "text" {
			content += block.Text
		}
	}
	if content == "" {
		return ReviewResponse{}, fmt.Errorf("empty text content in API response")
	}

	return ReviewResponse{
		Content:    content,
		TokensUsed: result.Usage.InputTokens + result.Usage.OutputTokens,
	}, nil
}

func toAnthropicMessage(m Message) (anthropicMessage, error) {
	msg := anthropicMessage{Role: m.Role}
	for _, p := range m.contentParts() {
		if p.ImageURL == nil {
			msg.Content = append(msg.Content, anthropicBlock{Type: "text", Text: p.Text})
			continue
		}
		mediaType, data, err := parseDataURI(p.ImageURL.URL)
		if err != nil {
			return anthropicMessage{}, err
		}
		msg.Content = append(msg.Content, anthropicBlock{
			Type:   "image",
			Source: &anthropicSource{Type: "base64", MediaType: mediaType, Data: data},
		})
	}
	return msg, nil
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	System      string             `json:"system,omitempty"`
	Temperature *float64           `json:"temperature,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string           `json:"role"`
	Content []anthropicBlock `json:"content"`
}

type anthropicResponse struct {
	Content []anthropicBlock `json:"content"`
	Usage   anthropicUsage   `json:"usage"`
}

type anthropicBlock struct {
	Type   string           `json:"type"`
	Text   string           `json:"text,omitempty"`
	Source *anthropicSource `json:"source,omitempty"`
}

type anthropicSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type anthropicUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}
