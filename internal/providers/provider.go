package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Roles used in chat messages.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Part is one element of a multi-part message content.
type Part struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// ImageURL references an image, usually as a data: URI.
type ImageURL struct {
	URL string `json:"url"`
}

// TextPart builds a text content part.
func TextPart(text string) Part {
	return Part{Type: "text", Text: text}
}

// ImagePart builds an image_url content part.
func ImagePart(url string) Part {
	return Part{Type: "image_url", ImageURL: &ImageURL{URL: url}}
}

// Message is a chat message. When Parts is non-empty the content is sent as a
// list of parts, otherwise as the plain Content string.
type Message struct {
	Role    string
	Content string
	Parts   []Part
}

// MarshalJSON encodes content as a string or a part list.
func (m Message) MarshalJSON() ([]byte, error) {
	if len(m.Parts) > 0 {
		return json.Marshal(struct {
			Role    string `json:"role"`
			Content []Part `json:"content"`
		}{m.Role, m.Parts})
	}
	return json.Marshal(struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}{m.Role, m.Content})
}

// ReviewRequest contains the data sent to an LLM for review.
type ReviewRequest struct {
	Messages    []Message
	MaxTokens   int
	Temperature float64
}

// ReviewResponse contains the raw response from an LLM.
type ReviewResponse struct {
	Content    string
	TokensUsed int
}

// Reviewer is the provider abstraction interface.
type Reviewer interface {
	Review(ctx context.Context, req ReviewRequest) (ReviewResponse, error)
	Name() string
	Model() string
}

// New creates a provider by name. endpoint may be empty to use the
// provider's default.
func New(provider, endpoint, model string) (Reviewer, error) {
	switch provider {
	case "ollama", "lmstudio", "":
		return NewOllama(endpoint, model)
	case "openai":
		return NewOpenAI(endpoint, model)
	case "anthropic":
		return NewAnthropic(endpoint, model)
	case "gemini":
		return NewGemini(endpoint, model)
	default:
		return nil, fmt.Errorf("unknown provider: %s", provider)
	}
}

// splitSystem joins the system messages and returns them apart from the
// conversation, for APIs that take the system prompt as a separate field.
func splitSystem(msgs []Message) (string, []Message) {
	var system []string
	var turns []Message
	for _, m := range msgs {
		if m.Role == RoleSystem {
			system = append(system, m.Content)
			continue
		}
		turns = append(turns, m)
	}
	return strings.Join(system, "\n\n"), turns
}

// contentParts returns the content of m as a part list.
func (m Message) contentParts() []Part {
	if len(m.Parts) > 0 {
		return m.Parts
	}
	return []Part{TextPart(m.Content)}
}

// parseDataURI splits a base64 data: URI into its media type and payload.
func parseDataURI(u string) (mediaType, data string, err error) {
	rest, ok := strings.CutPrefix(u, "data:")
	if !ok {
		return "", "", fmt.Errorf("image is not a data URI")
	}
	meta, data, ok := strings.Cut(rest, ",")
	if !ok {
		return "", "", fmt.Errorf("malformed data URI")
	}
	mediaType, ok = strings.CutSuffix(meta, ";base64")
	if !ok {
		return "", "", fmt.Errorf("data URI is not base64 encoded")
	}
	return mediaType, data, nil
}
