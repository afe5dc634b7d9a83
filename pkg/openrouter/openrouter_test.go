package openrouter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

func TestNewClientWithoutKey(t *testing.T) {
	t.Parallel()

	if c := NewClient(Config{BaseURL: "http://localhost"}); c != nil {
		t.Fatal("NewClient() without api key should return nil")
	}
}

func TestNewClientSendsAttributionHeaders(t *testing.T) {
	t.Parallel()

	var gotAuth, gotReferer, gotTitle string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotReferer = r.Header.Get("HTTP-Referer")
		gotTitle = r.Header.Get("X-Title")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","created":1,"model":"m",
			"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"fallback"}}]}`))
	}))
	defer server.Close()

	client := NewClient(Config{
		BaseURL:  server.URL + "/",
		APIKey:   " key-123 ",
		SiteURL:  "https://support.example.com",
		SiteName: "support-router",
	}, option.WithMaxRetries(0))
	if client == nil {
		t.Fatal("NewClient() returned nil")
	}

	_, err := client.Chat.Completions.New(context.Background(), openaisdk.ChatCompletionNewParams{
		Model:    "m",
		Messages: []openaisdk.ChatCompletionMessageParamUnion{openaisdk.UserMessage("hi")},
	})
	if err != nil {
		t.Fatalf("Chat.Completions.New() error = %v", err)
	}
	if gotAuth != "Bearer key-123" {
		t.Fatalf("Authorization = %q", gotAuth)
	}
	if gotReferer != "https://support.example.com" || gotTitle != "support-router" {
		t.Fatalf("headers = %q %q", gotReferer, gotTitle)
	}
}

func TestNewChatModelRequiresModel(t *testing.T) {
	t.Parallel()

	if _, err := NewChatModel(context.Background(), Config{APIKey: "k"}); err == nil {
		t.Fatal("NewChatModel() without model should fail")
	}
}
