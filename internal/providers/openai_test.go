package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOpenAI_Review(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Error("Missing or wrong Authorization header")
		}
		okHandler(t, "* ALL GOOD", nil)(w, r)
	}))
	defer server.Close()

	o := &OpenAI{
		apiKey:  "test-key",
		model:   "gpt-4o",
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
		t.Errorf("Content = %q, want %q", resp.Content, "* ALL GOOD")
	}
}

func TestNewOpenAI_RequiresKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	if _, err := NewOpenAI("", "gpt-4o"); err == nil {
		t.Error("Expected error when OPENAI_API_KEY is missing")
	}
}

func TestNewOpenAI_Endpoint(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "k")
	t.Setenv("UNPROMPTED_OPENAI_BASE_URL", "")

	o, err := NewOpenAI("", "gpt-4o")
	if err != nil {
		t.Fatalf("NewOpenAI error: %v", err)
	}
	if o.baseURL != "https://api.openai.com/v1/chat/completions" {
		t.Errorf("baseURL = %q", o.baseURL)
	}

	o, err = NewOpenAI("http://proxy.local/v1/", "gpt-4o")
	if err != nil {
		t.Fatalf("NewOpenAI error: %v", err)
	}
	if o.baseURL != "http://proxy.local/v1/chat/completions" {
		t.Errorf("baseURL = %q", o.baseURL)
	}
}
