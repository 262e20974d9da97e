package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deepchat/pkg/client"
)

func init() {
	color.NoColor = true
}

func TestREPL_SendAndList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/chat/getchat":
			_, _ = w.Write([]byte(`[{"id":"c1","name":"New Chat 🌟","messages":[],"updatedAt":"2025-01-01T00:00:00Z"}]`))
		case "/api/chat/ai":
			_, _ = w.Write([]byte(`{"status":200,"data":{"role":"assistant","content":"pong","timeStamp":1}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	session := client.NewSession(client.New(srv.URL, client.StaticToken("tok")), nil, logger)
	require.NoError(t, session.Load(context.Background()))

	var out bytes.Buffer
	r := newREPL(session, &out)
	require.NoError(t, r.run(context.Background(), strings.NewReader("ping\n/list\n/bogus\n/quit\nnever sent\n")))

	text := out.String()
	assert.Contains(t, text, "assistant: pong")
	assert.Contains(t, text, "*  1. New Chat 🌟  (2 messages")
	assert.Contains(t, text, "commands:")
	assert.NotContains(t, text, "never sent")
}

func TestREPL_ReportsFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/chat/getchat" {
			_, _ = w.Write([]byte(`[{"id":"c1","name":"n","messages":[]}]`))
			return
		}
		w.Header().Set("Content-Type", "application/problem+json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"status":503,"detail":"completion provider unavailable"}`))
	}))
	defer srv.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	session := client.NewSession(client.New(srv.URL, client.StaticToken("tok")), nil, logger)
	require.NoError(t, session.Load(context.Background()))

	var out bytes.Buffer
	r := newREPL(session, &out)
	require.NoError(t, r.run(context.Background(), strings.NewReader("hello\nhello again\n")))

	text := out.String()
	assert.Contains(t, text, "something went wrong: deepchat: 503 completion provider unavailable")
	assert.Contains(t, text, client.ErrNeedsReconcile.Error())
	assert.Equal(t, client.StateFailed, session.State("c1"))
}
