package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_RoutesAndAuth(t *testing.T) {
	type call struct {
		method, path, auth string
		body               map[string]string
	}
	var calls []call

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := call{method: r.Method, path: r.URL.Path, auth: r.Header.Get("Authorization")}
		if r.ContentLength > 0 {
			_ = json.NewDecoder(r.Body).Decode(&c.body)
		}
		calls = append(calls, c)

		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/chat/create", "/api/chat/c1":
			_, _ = w.Write([]byte(`{"id":"c1","userId":"u1","name":"New Chat ✨","messages":[]}`))
		case "/api/chat/getchat":
			_, _ = w.Write([]byte(`[{"id":"c1","name":"a"},{"id":"c2","name":"b"}]`))
		case "/api/chat/ai":
			_, _ = w.Write([]byte(`{"status":200,"data":{"role":"assistant","content":"hi","timeStamp":42}}`))
		default:
			_, _ = w.Write([]byte(`{"message":"ok"}`))
		}
	}))
	defer srv.Close()

	c := New(srv.URL+"/", StaticToken("tok"))
	ctx := context.Background()

	chat, err := c.CreateChat(ctx)
	require.NoError(t, err)
	assert.Equal(t, "c1", chat.ID)

	chats, err := c.ListChats(ctx)
	require.NoError(t, err)
	assert.Len(t, chats, 2)

	_, err = c.GetChat(ctx, "c1")
	require.NoError(t, err)

	require.NoError(t, c.RenameChat(ctx, "c1", "Trip"))
	require.NoError(t, c.DeleteChat(ctx, "c1"))

	reply, err := c.SendPrompt(ctx, "c1", "hello")
	require.NoError(t, err)
	assert.Equal(t, &Message{Role: RoleAssistant, Content: "hi", TimeStamp: 42}, reply)

	require.Len(t, calls, 6)
	for _, c := range calls {
		assert.Equal(t, "Bearer tok", c.auth)
	}
	assert.Equal(t, http.MethodPost, calls[0].method)
	assert.Equal(t, http.MethodGet, calls[1].method)
	assert.Equal(t, map[string]string{"id": "c1", "newName": "Trip"}, calls[3].body)
	assert.Equal(t, http.MethodDelete, calls[4].method)
	assert.Equal(t, map[string]string{"id": "c1"}, calls[4].body)
	assert.Equal(t, map[string]string{"chatId": "c1", "prompt": "hello"}, calls[5].body)
}

func TestClient_ProblemResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/problem+json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"type":"not-found","title":"Not Found","status":404,"detail":"chat c9: not found","requestId":"req-1"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, StaticToken("tok")).GetChat(context.Background(), "c9")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "chat c9: not found", apiErr.Detail)
	assert.Equal(t, "req-1", apiErr.RequestID)
}

func TestClient_NonJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := New(srv.URL, nil).ListChats(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "Bad Gateway", apiErr.Detail)
	assert.False(t, IsNotFound(err))
}

func TestClient_GetChatEscapesID(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		_, _ = w.Write([]byte(`{"id":"x"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, nil).GetChat(context.Background(), "a/b?c")
	require.NoError(t, err)
	assert.Equal(t, "/api/chat/a%2Fb%3Fc", gotPath)
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
		_, _ = w.Write([]byte(`{"status":200,"data":{"role":"assistant","content":"late"}}`))
	}))
	defer srv.Close()
	defer close(release)

	assert.Zero(t, New(srv.URL, nil).httpClient.Timeout, "no cap unless asked")

	c := New(srv.URL, nil, WithTimeout(50*time.Millisecond))
	_, err := c.SendPrompt(context.Background(), "c1", "hello")
	assert.Error(t, err)
}
