package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// complete performs one OpenAI-compatible chat completion call. Errors are
// returned as-is; callers decide whether a failed call matters.
func complete(ctx context.Context, client *http.Client, url, apiKey, model string, req ReviewRequest) (ReviewResponse, error) {
	body := openaiRequest{
		Model:       model,
		Messages:    req.Messages,
		Temperature: req.Temperature,
	}
	if req.MaxTokens > 0 {
		body.MaxTokens = req.MaxTokens
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
	if apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+apiKey)
	}

	httpResp, err := client.Do(httpReq)
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

	var result openaiResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return ReviewResponse{}, fmt.Errorf("parsing response: %w", err)
	}

	if len(result.Choices) == 0 {
		return ReviewResponse{}, fmt.Errorf("no choices in response")
	}
	content := strings.TrimSpace(result.Choices[0].Message.Content)
	if content == "" {
		return ReviewResponse{}, fmt.Errorf("empty text content in API response")
	}

	return ReviewResponse{
		Content:    content,
		TokensUsed: result.Usage.TotalTokens,
	}, nil
}

type openaiRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature"`
}

type openaiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openaiResponse struct {
	Choices []openaiChoice `json:"choices"`
	Usage   openaiUsage    `json:"usage"`
}

type openaiChoice struct {
	Message openaiMessage `json:"message"`
}

type openaiUsage struct {
	TotalTokens int `json:"total_tokens"`
}
