// ABOUTME: Tests for the AI tutor chat client
// ABOUTME: Tests request shape and history handling against a fake API
package tutor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// fakeCompletions answers every chat completion with the given reply
// and records the message counts it saw.
func fakeCompletions(t *testing.T, reply string, msgCounts *[]int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []json.RawMessage `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		*msgCounts = append(*msgCounts, len(req.Messages))

		resp := map[string]any{
			"id":     "chatcmpl-test",
			"object": "chat.completion",
			"model":  "gpt-4o-mini",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message": map[string]any{
					"role":    "assistant",
					"content": reply,
				},
			}},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestAskReturnsReply(t *testing.T) {
	var counts []int
	srv := fakeCompletions(t, "Start from the definition of a derivative.", &counts)
	defer srv.Close()

	tut, err := New("key", "gpt-4o-mini", WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	answer, err := tut.Ask(context.Background(), "How do I differentiate x^2?")
	if err != nil {
		t.Fatalf("Ask failed: %v", err)
	}
	if answer != "Start from the definition of a derivative." {
		t.Errorf("unexpected answer: %q", answer)
	}

	// System prompt plus the question.
	if len(counts) != 1 || counts[0] != 2 {
		t.Errorf("expected 2 messages in first request, got %v", counts)
	}
}

func TestAskAccumulatesHistory(t *testing.T) {
	var counts []int
	srv := fakeCompletions(t, "ok", &counts)
	defer srv.Close()

	tut, err := New("key", "", WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	ctx := context.Background()
	if _, err := tut.Ask(ctx, "first"); err != nil {
		t.Fatalf("first Ask failed: %v", err)
	}
	if _, err := tut.Ask(ctx, "second"); err != nil {
		t.Fatalf("second Ask failed: %v", err)
	}

	// Second request carries system + first Q/A + second question.
	if len(counts) != 2 || counts[1] != 4 {
		t.Errorf("expected 4 messages in second request, got %v", counts)
	}
	if tut.Turns() != 4 {
		t.Errorf("expected 4 history messages, got %d", tut.Turns())
	}

	tut.Reset()
	if tut.Turns() != 0 {
		t.Errorf("expected empty history after reset, got %d", tut.Turns())
	}
}

func TestAskFailureLeavesHistoryUntouched(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error": {"message": "bad request"}}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	tut, err := New("key", "", WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if _, err := tut.Ask(context.Background(), "hello"); err == nil {
		t.Fatal("expected error from failing API")
	}
	if tut.Turns() != 0 {
		t.Errorf("failed ask must not record history, got %d", tut.Turns())
	}
}

func TestNewRequiresAPIKey(t *testing.T) {
	if _, err := New("", "model"); err == nil {
		t.Error("expected error for empty api key")
	}
}
