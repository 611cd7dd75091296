package llm_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ioozy/scamwatch/internal/llm"
)

func chatServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("authorization header = %q", got)
		}

		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"content": content}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			t.Errorf("encode response: %v", err)
		}
	}))
}

func newChatClient(t *testing.T, baseURL string) *llm.ChatClient {
	t.Helper()
	client, err := llm.NewChatClient(llm.ChatConfig{APIKey: "test-key", BaseURL: baseURL})
	if err != nil {
		t.Fatalf("NewChatClient: %v", err)
	}
	return client
}

func TestChatClient_Classify(t *testing.T) {
	srv := chatServer(t, `{"stage": 4, "labels": ["payment", "urgency"]}`)
	defer srv.Close()

	got, err := newChatClient(t, srv.URL).Classify(context.Background(), "現在轉過去就能解凍")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if got.Stage != 4 {
		t.Errorf("stage = %d, want 4", got.Stage)
	}
	if len(got.Labels) != 2 || got.Labels[0] != "payment" {
		t.Errorf("labels = %v", got.Labels)
	}
}

func TestChatClient_Classify_RejectsWrongShape(t *testing.T) {
	testCases := []struct {
		name    string
		content string
	}{
		{name: "extra key", content: `{"stage": 1, "labels": [], "confidence": 0.9}`},
		{name: "missing labels", content: `{"stage": 1}`},
		{name: "missing stage", content: `{"labels": ["crisis"]}`},
		{name: "not json", content: `stage four`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			srv := chatServer(t, tc.content)
			defer srv.Close()

			_, err := newChatClient(t, srv.URL).Classify(context.Background(), "x")
			if !errors.Is(err, llm.ErrMalformedResponse) {
				t.Errorf("err = %v, want ErrMalformedResponse", err)
			}
		})
	}
}

func TestChatClient_Classify_ServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	if _, err := newChatClient(t, srv.URL).Classify(context.Background(), "x"); err == nil {
		t.Error("expected error for 500 response")
	}
}

func TestNewChatClient_RequiresAPIKey(t *testing.T) {
	if _, err := llm.NewChatClient(llm.ChatConfig{}); err == nil {
		t.Error("expected error for missing API key")
	}
}
