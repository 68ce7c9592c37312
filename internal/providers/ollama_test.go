package providers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler(t *testing.T, content string, check func(body map[string]any)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("reading body: %v", err)
		}
		if check != nil {
			var body map[string]any
			if err := json.Unmarshal(raw, &body); err != nil {
				t.Fatalf("request is not JSON: %v", err)
			}
			check(body)
		}
		resp := openaiResponse{
			Choices: []openaiChoice{
				{Message: openaiMessage{Role: "assistant", Content: content}},
			},
			Usage: openaiUsage{TotalTokens: 100},
		}
		json.NewEncoder(w).Encode(resp)
	}
}

func TestOllama_Review(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Verify no Authorization header when no API key is set
		if r.Header.Get("Authorization") != "" {
			t.Error("Expected no Authorization header for keyless Ollama")
		}
		okHandler(t, "  * ALL GOOD\n", nil)(w, r)
	}))
	defer server.Close()

	o := &Ollama{
		model:   "gemma3:12b",
		baseURL: server.URL,
		client:  server.Client(),
	}

	resp, err := o.Review(context.Background(), ReviewRequest{
		Messages: []Message{{Role: RoleUser, Content: "test"}},
	})
	if err != nil {
		t.Fatalf("Review error: %v", err)
	}
	if resp.Content != "* ALL GOOD" {
		t.Errorf("Content = %q, want trimmed %q", resp.Content, "* ALL GOOD")
	}
	if resp.TokensUsed != 100 {
		t.Errorf("TokensUsed = %d, want 100", resp.TokensUsed)
	}
}

func TestOllama_RequestShape(t *testing.T) {
	server := httptest.NewServer(okHandler(t, "ok", func(body map[string]any) {
		if body["model"] != "gemma3:12b" {
			t.Errorf("model = %v", body["model"])
		}
		temp, ok := body["temperature"]
		if !ok {
			t.Fatal("temperature must be sent even when zero")
		}
		if temp.(float64) != 0 {
			t.Errorf("temperature = %v, want 0", temp)
		}
		msgs := body["messages"].([]any)
		if len(msgs) != 2 {
			t.Fatalf("messages = %d, want 2", len(msgs))
		}
		sys := msgs[0].(map[string]any)
		if sys["role"] != "system" || sys["content"] != "be critical" {
			t.Errorf("system message = %v", sys)
		}
		user := msgs[1].(map[string]any)
		parts := user["content"].([]any)
		if len(parts) != 2 {
			t.Fatalf("parts = %d, want 2", len(parts))
		}
		text := parts[0].(map[string]any)
		if text["type"] != "text" || text["text"] != "Code: x" {
			t.Errorf("text part = %v", text)
		}
		img := parts[1].(map[string]any)
		if img["type"] != "image_url" {
			t.Errorf("image part type = %v", img["type"])
		}
		url := img["image_url"].(map[string]any)["url"]
		if url != "data:image/png;base64,AAAA" {
			t.Errorf("image url = %v", url)
		}
	}))
	defer server.Close()

	o := &Ollama{model: "gemma3:12b", baseURL: server.URL, client: server.Client()}
	_, err := o.Review(context.Background(), ReviewRequest{
		Messages: []Message{
			{Role: RoleSystem, Content: "be critical"},
			{Role: RoleUser, Parts: []Part{TextPart("Code: x"), ImagePart("data:image/png;base64,AAAA")}},
		},
		Temperature: 0,
	})
	if err != nil {
		t.Fatalf("Review error: %v", err)
	}
}

func TestOllama_ReviewWithAPIKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-ollama-key" {
			t.Error("Missing or wrong Authorization header")
		}
		okHandler(t, "ok", nil)(w, r)
	}))
	defer server.Close()

	o := &Ollama{
		apiKey:  "test-ollama-key",
		model:   "gemma3:12b",
		baseURL: server.URL,
		client:  server.Client(),
	}

	if _, err := o.Review(context.Background(), ReviewRequest{}); err != nil {
		t.Fatalf("Review error: %v", err)
	}
}

func TestOllama_ServerErrorIsNotRetried(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(500)
		w.Write([]byte(`{"error":"internal server error"}`))
	}))
	defer server.Close()

	o := &Ollama{model: "gemma3:12b", baseURL: server.URL, client: server.Client()}

	_, err := o.Review(context.Background(), ReviewRequest{})
	if err == nil {
		t.Fatal("Expected error for server error response")
	}
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("error type = %T, want *APIError", err)
	}
	if apiErr.StatusCode != 500 {
		t.Errorf("StatusCode = %d, want 500", apiErr.StatusCode)
	}
	if attempts != 1 {
		t.Errorf("Expected exactly 1 attempt, got %d", attempts)
	}
}

func TestOllama_AuthError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(401)
		w.Write([]byte(`unauthorized`))
	}))
	defer server.Close()

	o := &Ollama{model: "gemma3:12b", baseURL: server.URL, client: server.Client()}
	_, err := o.Review(context.Background(), ReviewRequest{})
	if !IsAuthError(err) {
		t.Errorf("IsAuthError(%v) = false, want true", err)
	}
}

func TestOllama_EmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(openaiResponse{Choices: []openaiChoice{}})
	}))
	defer server.Close()

	o := &Ollama{model: "gemma3:12b", baseURL: server.URL, client: server.Client()}
	if _, err := o.Review(context.Background(), ReviewRequest{}); err == nil {
		t.Fatal("Expected error for empty response")
	}
}

func TestOllama_NameAndModel(t *testing.T) {
	o := &Ollama{model: "gemma3:4b"}
	if o.Name() != "ollama" {
		t.Errorf("Name() = %q, want %q", o.Name(), "ollama")
	}
	if o.Model() != "gemma3:4b" {
		t.Errorf("Model() = %q, want %q", o.Model(), "gemma3:4b")
	}
}

func TestNewOllama_URLNormalization(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		host     string
		wantURL  string
	}{
		{
			name:    "default",
			wantURL: "http://localhost:11434/v1/chat/completions",
		},
		{
			name:    "env trailing slash",
			host:    "http://localhost:11434/",
			wantURL: "http://localhost:11434/v1/chat/completions",
		},
		{
			name:    "env with v1",
			host:    "http://localhost:11434/v1",
			wantURL: "http://localhost:11434/v1/chat/completions",
		},
		{
			name:     "endpoint with full path",
			endpoint: "http://localhost:11434/v1/chat/completions",
			wantURL:  "http://localhost:11434/v1/chat/completions",
		},
		{
			name:     "endpoint wins over env",
			endpoint: "http://192.168.1.100:11434",
			host:     "http://ignored:1",
			wantURL:  "http://192.168.1.100:11434/v1/chat/completions",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("OLLAMA_HOST", tt.host)
			t.Setenv("UNPROMPTED_OLLAMA_API_KEY", "")

			o, err := NewOllama(tt.endpoint, "gemma3:12b")
			if err != nil {
				t.Fatalf("NewOllama error: %v", err)
			}
			if o.baseURL != tt.wantURL {
				t.Errorf("baseURL = %q, want %q", o.baseURL, tt.wantURL)
			}
		})
	}
}

func TestFactory_OllamaAliases(t *testing.T) {
	t.Setenv("OLLAMA_HOST", "http://localhost:11434")

	for _, name := range []string{"ollama", "lmstudio", ""} {
		r, err := New(name, "", "gemma3:12b")
		if err != nil {
			t.Fatalf("New(%q) error: %v", name, err)
		}
		if r.Name() != "ollama" {
			t.Errorf("New(%q).Name() = %q, want %q", name, r.Name(), "ollama")
		}
	}
}
