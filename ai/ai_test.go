package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"finopschat/cache"
)

func chatServer(t *testing.T, reply string, hits *int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*hits++
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", auth)
		}

		var req map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if req["response_format"] == nil {
			t.Error("expected json_object response format")
		}

		w.Header().Set("Content-Type", "application/json")
		resp := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": reply}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestGenerateJSON_ReturnsModelReply(t *testing.T) {
	hits := 0
	server := chatServer(t, `{"category":"Reconciliation","sql":"SELECT 1"}`, &hits)
	defer server.Close()

	svc, err := New("test-key", "test-model", server.URL, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	got, err := svc.GenerateJSON(context.Background(), "system", "user")
	if err != nil {
		t.Fatalf("GenerateJSON failed: %v", err)
	}
	if !strings.Contains(got, `"sql":"SELECT 1"`) {
		t.Fatalf("unexpected reply %q", got)
	}
	if hits != 1 {
		t.Fatalf("expected 1 request, got %d", hits)
	}
}

func TestGenerateJSON_StripsMarkdownFences(t *testing.T) {
	hits := 0
	server := chatServer(t, "```json\n{\"summary\":\"ok\"}\n```", &hits)
	defer server.Close()

	svc, err := New("test-key", "test-model", server.URL, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	got, err := svc.GenerateJSON(context.Background(), "system", "user")
	if err != nil {
		t.Fatalf("GenerateJSON failed: %v", err)
	}
	if got != `{"summary":"ok"}` {
		t.Fatalf("fences not stripped: %q", got)
	}
}

func TestGenerateJSON_RejectsNonJSONReply(t *testing.T) {
	hits := 0
	server := chatServer(t, "sorry, I can't do that", &hits)
	defer server.Close()

	svc, err := New("test-key", "test-model", server.URL, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if _, err := svc.GenerateJSON(context.Background(), "system", "user"); err == nil {
		t.Fatal("expected error for non-JSON reply")
	}
}

func TestGenerateJSON_CachesByPrompt(t *testing.T) {
	hits := 0
	server := chatServer(t, `{"v":1}`, &hits)
	defer server.Close()

	svc, err := New("test-key", "test-model", server.URL, cache.New())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := svc.GenerateJSON(context.Background(), "system", "same question"); err != nil {
			t.Fatalf("call %d failed: %v", i, err)
		}
	}
	if hits != 1 {
		t.Fatalf("expected a single upstream request, got %d", hits)
	}
}

func TestNew_RequiresAPIKey(t *testing.T) {
	if _, err := New("", "model", "http://example.com", nil); err == nil {
		t.Fatal("expected error for missing API key")
	}
}

func TestBuildPlanPrompt_CarriesSchemaAndCategory(t *testing.T) {
	system, user := BuildPlanPrompt("settlement fails", "Settlement & Trade Operations")

	if !strings.Contains(system, "trade_settlements") {
		t.Fatal("system prompt should describe the schema")
	}
	if !strings.Contains(system, `"visualizationHint"`) {
		t.Fatal("system prompt should state the JSON contract")
	}
	if !strings.Contains(user, "Category: Settlement & Trade Operations") {
		t.Fatalf("user prompt should carry the category, got %q", user)
	}
	if !strings.Contains(user, "Query: settlement fails") {
		t.Fatalf("user prompt should carry the question, got %q", user)
	}

	_, noCategory := BuildPlanPrompt("settlement fails", "")
	if strings.Contains(noCategory, "Category:") {
		t.Fatalf("empty category should be omitted, got %q", noCategory)
	}
}
