package completion

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completionBody(content string) string {
	body, _ := json.Marshal(map[string]any{
		"id":      "gen-1",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   "deepseek/deepseek-chat-v3-0324:free",
		"choices": []map[string]any{
			{
				"index":         0,
				"finish_reason": "stop",
				"message": map[string]any{
					"role":    "assistant",
					"content": content,
				},
			},
		},
	})
	return string(body)
}

func TestOpenRouterGateway_Complete(t *testing.T) {
	var calls atomic.Int32
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"), r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionBody("Hello from the model")))
	}))
	defer srv.Close()

	g := NewOpenRouterGateway(srv.URL+"/api/v1", "test-key", "deepseek/deepseek-chat-v3-0324:free")

	reply, err := g.Complete(context.Background(), "Say hello")
	require.NoError(t, err)
	assert.Equal(t, "Hello from the model", reply)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, "openrouter/deepseek/deepseek-chat-v3-0324:free", g.Model())

	assert.Equal(t, "deepseek/deepseek-chat-v3-0324:free", gotBody["model"])
	messages, ok := gotBody["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 1, "only the latest prompt is forwarded")
	first := messages[0].(map[string]any)
	assert.Equal(t, "user", first["role"])
}

func TestOpenRouterGateway_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "server error", status: http.StatusInternalServerError, body: `{"error":{"message":"boom"}}`},
		{name: "rate limited", status: http.StatusTooManyRequests, body: `{"error":{"message":"slow down"}}`},
		{name: "empty content", status: http.StatusOK, body: completionBody("   ")},
		{name: "no choices", status: http.StatusOK, body: `{"id":"gen-1","object":"chat.completion","created":1,"model":"m","choices":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			g := NewOpenRouterGateway(srv.URL+"/", "test-key", "m")
			_, err := g.Complete(context.Background(), "hi")
			require.Error(t, err)
			assert.Equal(t, int32(1), calls.Load(), "no retries")
		})
	}
}
