package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"finos-server/internal/api/config"
	"finos-server/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHFTestConfig(baseURL string) *config.Config {
	cfg := &config.Config{}
	cfg.Chat.HuggingFace = config.HuggingFace{
		APIKey:       "test-key",
		BaseURL:      baseURL,
		Model:        "test/model",
		MaxNewTokens: 64,
	}
	return cfg
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("error", "json")
	require.NoError(t, err)
	return log
}

func TestHuggingFaceComplete(t *testing.T) {
	var gotAuth string
	var gotReq hfRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		fmt.Fprint(w, `[{"generated_text":"Bottom line: hold."}]`)
	}))
	defer server.Close()

	repo := NewHuggingFaceRepository(newHFTestConfig(server.URL), testLogger(t))
	result, err := repo.Complete(context.Background(), "prompt text", CompletionOptions{MaxTokens: 32})
	require.NoError(t, err)

	assert.Equal(t, "Bottom line: hold.", result)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "prompt text", gotReq.Inputs)
	assert.Equal(t, 32, gotReq.Parameters.MaxNewTokens)
	assert.False(t, gotReq.Stream)
}

func TestHuggingFaceCompleteDefaultsMaxTokens(t *testing.T) {
	var gotReq hfRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		fmt.Fprint(w, `[{"generated_text":"ok"}]`)
	}))
	defer server.Close()

	repo := NewHuggingFaceRepository(newHFTestConfig(server.URL), testLogger(t))
	_, err := repo.Complete(context.Background(), "p", CompletionOptions{})
	require.NoError(t, err)
	assert.Equal(t, 64, gotReq.Parameters.MaxNewTokens)
}

func TestHuggingFaceStreamComplete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, `data: {"token":{"text":"Hello"}}`)
		fmt.Fprintln(w, ``)
		fmt.Fprintln(w, `data: {"token":{"text":" world"}}`)
		fmt.Fprintln(w, `data: {"token":{"text":""},"generated_text":"Hello world"}`)
	}))
	defer server.Close()

	repo := NewHuggingFaceRepository(newHFTestConfig(server.URL), testLogger(t))

	var chunks []string
	err := repo.StreamComplete(context.Background(), "p", CompletionOptions{}, func(chunk string) error {
		chunks = append(chunks, chunk)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Hello", " world"}, chunks)
}

func TestHuggingFaceUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model loading", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	repo := NewHuggingFaceRepository(newHFTestConfig(server.URL), testLogger(t))
	_, err := repo.Complete(context.Background(), "p", CompletionOptions{})
	assert.Error(t, err)
}
