package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// LocalModel is a model installed on an Ollama server.
type LocalModel struct {
	Name          string
	Size          int64
	ParameterSize string
}

type tagsResponse struct {
	Models []struct {
		Name    string `json:"name"`
		Size    int64  `json:"size"`
		Details struct {
			ParameterSize string `json:"parameter_size"`
		} `json:"details"`
	} `json:"models"`
}

// ListLocalModels queries an Ollama server's /api/tags endpoint.
func ListLocalModels(ctx context.Context, client *http.Client, endpoint string) ([]LocalModel, error) {
	if endpoint == "" {
		endpoint = defaultOllamaURL
	}
	url := normalizeBaseURL(endpoint) + "/api/tags"

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to get tags: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tags request failed with status: %d", resp.StatusCode)
	}

	var tags tagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return nil, fmt.Errorf("failed to decode tags response: %w", err)
	}

	models := make([]LocalModel, 0, len(tags.Models))
	for _, m := range tags.Models {
		models = append(models, LocalModel{
			Name:          m.Name,
			Size:          m.Size,
			ParameterSize: m.Details.ParameterSize,
		})
	}
	return models, nil
}
