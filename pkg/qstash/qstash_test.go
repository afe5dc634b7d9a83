package qstash

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewClientValidation(t *testing.T) {
	t.Parallel()

	if _, err := NewClient(Config{URL: "", Token: "t"}); err == nil {
		t.Fatal("expected error for empty url")
	}
	if _, err := NewClient(Config{URL: "not a url", Token: "t"}); err == nil {
		t.Fatal("expected error for invalid url")
	}
	if _, err := NewClient(Config{URL: "https://qstash.upstash.io", Token: " "}); err == nil {
		t.Fatal("expected error for empty token")
	}
}

func TestPublish(t *testing.T) {
	t.Parallel()

	var gotPath, gotAuth, gotDedup, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotDedup = r.Header.Get("Upstash-Deduplication-Id")
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"messageId":"msg_123"}`))
	}))
	defer server.Close()

	client, err := NewClient(Config{URL: server.URL + "/", Token: "secret"})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	id, err := client.Publish(context.Background(), "support-traces", []byte(`{"a":1}`), "req-1")
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if id != "msg_123" {
		t.Fatalf("message id = %q", id)
	}
	if gotPath != "/v2/publish/support-traces" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotAuth != "Bearer secret" || gotDedup != "req-1" || gotBody != `{"a":1}` {
		t.Fatalf("unexpected request: auth=%q dedup=%q body=%q", gotAuth, gotDedup, gotBody)
	}
}

func TestPublishHTTPError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid token"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	client := MustNew(Config{URL: server.URL, Token: "bad"})
	_, err := client.Publish(context.Background(), "support-traces", []byte(`{}`), "")
	if err == nil || !strings.Contains(err.Error(), "status=401") {
		t.Fatalf("Publish() error = %v, want status=401", err)
	}

	if _, err := client.Publish(context.Background(), " ", nil, ""); err == nil {
		t.Fatal("expected error for empty destination")
	}
}
