package chat

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"deepchat/internal/domain/models"
	"deepchat/internal/domain/repositories"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var testLabels = []string{"🌟", "🚀", "🧠"}

// fakeGateway records prompts and returns a scripted reply
type fakeGateway struct {
	mu      sync.Mutex
	reply   string
	err     error
	prompts []string
	onCall  func()
}

func (g *fakeGateway) Model() string { return "fake/model" }

func (g *fakeGateway) Complete(_ context.Context, prompt string) (string, error) {
	g.mu.Lock()
	g.prompts = append(g.prompts, prompt)
	onCall := g.onCall
	g.mu.Unlock()

	if onCall != nil {
		onCall()
	}
	if g.err != nil {
		return "", g.err
	}
	if g.reply != "" {
		return g.reply, nil
	}
	return "echo: " + prompt, nil
}

func (g *fakeGateway) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.prompts)
}

// failingAppendRepo wraps a real repository and fails AppendMessages
type failingAppendRepo struct {
	repositories.ChatRepository
}

func (r failingAppendRepo) AppendMessages(context.Context, string, string, []models.Message, time.Time) (*models.Chat, error) {
	return nil, errors.New("write concern timeout")
}

// steppingClock returns times from a script, repeating the last one
type steppingClock struct {
	mu    sync.Mutex
	times []time.Time
}

func (c *steppingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.times[0]
	if len(c.times) > 1 {
		c.times = c.times[1:]
	}
	return t
}
