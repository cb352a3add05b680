package openrouter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"recipe-nutrition/internal/infrastructure/config"
	"recipe-nutrition/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req Request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		assert.Len(t, req.Messages, 2)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","choices":[{"message":{"role":"assistant","content":"{\"category\":\"Produce\"}"}}],"usage":{"total_tokens":12}}`))
	}))
	defer srv.Close()

	c := NewClient(config.OpenRouterConfig{APIKey: "sk-test", BaseURL: srv.URL, Model: "test-model", Timeout: time.Second})
	content, err := c.Complete(context.Background(), []Message{
		{Role: "system", Content: "classify"},
		{Role: "user", Content: "kale"},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"category":"Produce"}`, content)
}

func TestClientCompleteErrors(t *testing.T) {
	t.Run("api error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":{"message":"rate limited"}}`))
		}))
		defer srv.Close()

		c := NewClient(config.OpenRouterConfig{BaseURL: srv.URL, Timeout: time.Second})
		_, err := c.Complete(context.Background(), []Message{{Role: "user", Content: "x"}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "rate limited")
		assert.ErrorIs(t, err, common.ErrAIServiceError)
	})

	t.Run("empty choices", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"choices":[]}`))
		}))
		defer srv.Close()

		c := NewClient(config.OpenRouterConfig{BaseURL: srv.URL, Timeout: time.Second})
		_, err := c.Complete(context.Background(), []Message{{Role: "user", Content: "x"}})
		assert.ErrorIs(t, err, common.ErrAIServiceError)
	})

	t.Run("timeout", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer srv.Close()

		c := NewClient(config.OpenRouterConfig{BaseURL: srv.URL, Timeout: 20 * time.Millisecond})
		_, err := c.Complete(context.Background(), []Message{{Role: "user", Content: "x"}})
		assert.Error(t, err)
	})
}
