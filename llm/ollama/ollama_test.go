package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/opengs/readmegen/llm/testlib"
)

func TestOllama_Complete(t *testing.T) {
	var gotPath string
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"message":{"role":"assistant","content":"# README"}}`))
	}))
	defer server.Close()

	client := New("llama3", WithBaseURL(server.URL))
	completion, err := client.Complete(context.Background(), "system", "user")
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	if completion != "# README" {
		t.Errorf("unexpected completion: %s", completion)
	}
	if gotPath != "/chat" {
		t.Errorf("unexpected path: %s", gotPath)
	}
	if gotBody["stream"] != false {
		t.Errorf("expected stream disabled, got: %v", gotBody["stream"])
	}
	if gotBody["model"] != "llama3" {
		t.Errorf("unexpected model: %v", gotBody["model"])
	}
}

func TestOllama_EmptyCompletion(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":{"role":"assistant","content":""}}`))
	}))
	defer server.Close()

	client := New("llama3", WithBaseURL(server.URL))
	if _, err := client.Complete(context.Background(), "s", "u"); err == nil {
		t.Error("expected error on empty completion")
	}
}

func TestOllama_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := New("llama3", WithBaseURL(server.URL))
	if _, err := client.Complete(context.Background(), "s", "u"); err == nil {
		t.Error("expected error on server failure")
	}
}

func TestOllama_Integration(t *testing.T) {
	ollamaBaseURL := os.Getenv("TEST_LLM_OLLAMA_BASEURL")
	if ollamaBaseURL == "" {
		t.Skip("TEST_LLM_OLLAMA_BASEURL is not configured")
	}

	client := New("llama3.2:1b", WithBaseURL(ollamaBaseURL))
	if err := client.PullModel(context.Background()); err != nil {
		t.Error(err.Error())
		return
	}
	testlib.TestCompleter(t, client)
}
