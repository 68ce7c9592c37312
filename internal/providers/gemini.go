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

const defaultGeminiURL = "https://generativelanguage.googleapis.com"

// Gemini implements the Reviewer interface for Google's Gemini API.
type Gemini struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewGemini creates a new Gemini provider.
func NewGemini(endpoint, model string) (*Gemini, error) {
	key := os.Getenv("GEMINI_API_KEY")
	if key == "" {
		key = os.Getenv("GOOGLE_API_KEY")
	}
	if key == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY (or GOOGLE_API_KEY) environment variable is not set")
	}
	baseURL := endpoint
	if baseURL == "" {
		baseURL = defaultGeminiURL
	}
	return &Gemini{
		apiKey:  key,
		model:   model,
		baseURL: normalizeBaseURL(baseURL) + "/v1beta/models",
		client:  &http.Client{},
	}, nil
}

func (g *Gemini) Name() string  { return "gemini" }
func (g *Gemini) Model() string { return g.model }

func (g *Gemini) Review(ctx context.Context, req ReviewRequest) (ReviewResponse, error) {
	url := fmt.Sprintf("%s/%s:generateContent", g.baseURL, g.model)

	system, turns := splitSystem(req.Messages)
	temperature := req.Temperature
	body := geminiRequest{
		GenerationConfig: &geminiGenConfig{
			MaxOutputTokens: req.MaxTokens,
			Temperature:     &temperature,
		},
	}
	if system != "" {
		body.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: system}}}
	}
	for _, m := range turns {
		content, err := toGeminiContent(m)
		if err != nil {
			return ReviewResponse{}, err
		}
		body.Contents = append(body.Contents, content)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return ReviewResponse{}, fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(payload))
	if err != nil {
		return ReviewResponse{}, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", g.apiKey)

	httpResp, err := g.client.Do(httpReq)
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

	var result geminiResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return ReviewResponse{}, fmt.Errorf("parsing response: %w", err)
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return ReviewResponse{}, fmt.Errorf("no content in response")
	}

	var content string
	for _, part := range result.Candidates[0].Content.Parts {
		content += part.Text
	}

	return ReviewResponse{
		Content:    content,
		TokensUsed: result.UsageMetadata.TotalTokenCount,
	}, nil
}

// toGeminiContent maps a chat message onto Gemini's user/model turns.
func toGeminiContent(m Message) (geminiContent, error) {
	role := "user"
	if m.Role == RoleAssistant {
		role = "model"
	}
	content := geminiContent{Role: role}
	for _, p := range m.contentParts() {
		if p.ImageURL == nil {
			content.Parts = append(content.Parts, geminiPart{Text: p.Text})
			continue
		}
		mimeType, data, err := parseDataURI(p.ImageURL.URL)
		if err != nil {
			return geminiContent{}, err
		}
		content.Parts = append(content.Parts, geminiPart{
			InlineData: &geminiBlob{MimeType: mimeType, Data: data},
		})
	}
	return content, nil
}

type geminiRequest struct {
	SystemInstruction *geminiContent   `json:"systemInstruction,omitempty"`
	Contents          []geminiContent  `json:"contents"`
	GenerationConfig  *geminiGenConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string      `json:"text,omitempty"`
	InlineData *geminiBlob `json:"inlineData,omitempty"`
}

type geminiBlob struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type geminiGenConfig struct {
	MaxOutputTokens int      `json:"maxOutputTokens,omitempty"`
	Temperature     *float64 `json:"temperature,omitempty"`
}

type geminiResponse struct {
	Candidates    []geminiCandidate `json:"candidates"`
	UsageMetadata geminiUsage       `json:"usageMetadata"`
}

type geminiCandidate struct {
	Content geminiContent `json:"content"`
}

type geminiUsage struct {
	TotalTokenCount int `json:"totalTokenCount"`
}
