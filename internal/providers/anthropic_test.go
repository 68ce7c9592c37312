package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

const pngDataURI = "data:image/png;base64,iVBORw0KGgo="

func TestAnthropic_Review(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Verify headers
		if r.Header.Get("x-api-key") != "test-key" {
			t.Error("Missing API key header")
		}
		if r.Header.Get("anthropic-version") != anthropicAPIVersion {
			t.Error("Missing anthropic-version header")
		}

		var req anthropicRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if req.Temperature == nil || *req.Temperature != 0 {
			t.Errorf("temperature = %v, want 0 sent explicitly", req.Temperature)
		}
		if req.System != "be terse" {
			t.Errorf("system = %q, want %q", req.System, "be terse")
		}
		if len(req.Messages) != 2 {
			t.Fatalf("messages = %d, want 2 (system is sent apart)", len(req.Messages))
		}
		last := req.Messages[1].Content
		if len(last) != 2 || last[1].Type != "image" || last[1].Source == nil {
			t.Fatalf("last message content = %+v", last)
		}
		if last[1].Source.MediaType != "image/png" || last[1].Source.Data != "iVBORw0KGgo=" {
			t.Errorf("image source = %+v", last[1].Source)
		}

		resp := anthropicResponse{
			Content: []anthropicBlock{
				{Type: "text", Text: "* ALL GOOD"},
			},
			Usage: anthropicUsage{InputTokens: 100, OutputTokens: 10},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	a := &Anthropic{
		apiKey:  "test-key",
		model:   "claude-sonnet-4-5",
		baseURL: server.URL,
		client:  server.Client(),
	}

	resp, err := a.Review(context.Background(), ReviewRequest{
		Messages: []Message{
			{Role: RoleSystem, Content: "be terse"},
			{Role: RoleAssistant, Content: "hello"},
			{Role: RoleUser, Parts: []Part{TextPart("Code: plot()"), ImagePart(pngDataURI)}},
		},
		MaxTokens: 10,
	})
	if err != nil {
		t.Fatalf("Review error: %v", err)
	}
	if resp.Content != "* ALL GOOD" {
		t.Errorf("Content = %q, want %q", resp.Content, "* ALL GOOD")
	}
	if resp.TokensUsed != 110 {
		t.Errorf("TokensUsed = %d, want 110", resp.TokensUsed)
	}
}

func TestAnthropic_AuthError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(401)
		w.Write([]byte(`{"error":"unauthorized"}`))
	}))
	defer server.Close()

	a := &Anthropic{
		apiKey:  "bad-key",
		model:   "claude-sonnet-4-5",
		baseURL: server.URL,
		client:  server.Client(),
	}

	_, err := a.Review(context.Background(), ReviewRequest{
		Messages: []Message{{Role: RoleUser, Content: "test"}},
	})
	if err == nil {
		t.Fatal("Expected auth error")
	}
	if !IsAuthError(err) {
		t.Errorf("Expected auth error, got: %v", err)
	}
}

func TestNewAnthropic_Endpoint(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "k")
	a, err := NewAnthropic("http://proxy:8080/", "claude-haiku-4-5")
	if err != nil {
		t.Fatalf("NewAnthropic error: %v", err)
	}
	if a.baseURL != "http://proxy:8080/v1/messages" {
		t.Errorf("baseURL = %q", a.baseURL)
	}

	t.Setenv("ANTHROPIC_API_KEY", "")
	if _, err := NewAnthropic("", "claude-haiku-4-5"); err == nil {
		t.Error("Expected error without ANTHROPIC_API_KEY")
	}
}

func TestParseDataURI(t *testing.T) {
	tests := []struct {
		name      string
		uri       string
		wantType  string
		wantData  string
		wantError bool
	}{
		{"png", pngDataURI, "image/png", "iVBORw0KGgo=", false},
		{"not a data URI", "https://example.com/a.png", "", "", true},
		{"no comma", "data:image/png;base64", "", "", true},
		{"not base64", "data:text/plain,hello", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mediaType, data, err := parseDataURI(tt.uri)
			if (err != nil) != tt.wantError {
				t.Fatalf("parseDataURI(%q) error = %v, wantError %v", tt.uri, err, tt.wantError)
			}
			if mediaType != tt.wantType || data != tt.wantData {
				t.Errorf("parseDataURI(%q) = %q, %q", tt.uri, mediaType, data)
			}
		})
	}
}
