package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"planora.app/configs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(configs.AIConfig{BaseURL: srv.URL + "/", APIKey: "sk-test", Model: "test-model", Timeout: 2 * time.Second})
}

func reply(w http.ResponseWriter, content string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"choices": []map[string]any{{"message": map[string]string{"role": "assistant", "content": content}}},
	})
}

func TestCompleteSendsChatRequest(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "hello", req.Messages[1].Content)
		assert.Nil(t, req.ResponseFormat)
		reply(w, "hi there")
	})

	out, err := client.Complete(context.Background(), "be brief", "hello")
	require.NoError(t, err)
	assert.Equal(t, "hi there", out)
}

func TestCompleteJSONDecodesFencedOutput(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotNil(t, req.ResponseFormat)
		assert.Equal(t, "json_object", req.ResponseFormat.Type)
		reply(w, "```json\n{\"slug\": \"furniture\"}\n```")
	})

	var out struct {
		Slug string `json:"slug"`
	}
	require.NoError(t, client.CompleteJSON(context.Background(), "classify", "chair", &out))
	assert.Equal(t, "furniture", out.Slug)
}

func TestCompleteErrors(t *testing.T) {
	t.Run("provider error", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":{"message":"rate limited"}}`))
		})
		_, err := client.Complete(context.Background(), "s", "p")
		assert.ErrorContains(t, err, "rate limited")
	})

	t.Run("no choices", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"choices":[]}`))
		})
		_, err := client.Complete(context.Background(), "s", "p")
		assert.True(t, errors.Is(err, ErrEmptyResponse))
	})

	t.Run("disabled", func(t *testing.T) {
		client := NewClient(configs.AIConfig{BaseURL: "http://127.0.0.1:1"})
		assert.False(t, client.Enabled())
		_, err := client.Complete(context.Background(), "s", "p")
		assert.True(t, errors.Is(err, ErrDisabled))
	})
}
