package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// TokenSource returns the caller's current session token
type TokenSource func(ctx context.Context) (string, error)

// StaticToken returns a TokenSource that always yields token
func StaticToken(token string) TokenSource {
	return func(context.Context) (string, error) { return token, nil }
}

// APIError is a non-2xx response decoded from the server's problem body
type APIError struct {
	StatusCode int
	Detail     string
	RequestID  string
}

func (e *APIError) Error() string {
	if e.RequestID != "" {
		return fmt.Sprintf("deepchat: %d %s (request %s)", e.StatusCode, e.Detail, e.RequestID)
	}
	return fmt.Sprintf("deepchat: %d %s", e.StatusCode, e.Detail)
}

// IsNotFound reports whether err is a 404 from the server
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Client calls the chat HTTP API
type Client struct {
	baseURL    string
	token      TokenSource
	httpClient *http.Client
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout caps each request, prompt round trips included. Zero means no
// cap beyond the request context, which suits servers without a completion
// timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// New creates a client for the server at baseURL. Requests are bounded only
// by their context unless WithTimeout or WithHTTPClient says otherwise.
func New(baseURL string, token TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreateChat creates an empty chat
func (c *Client) CreateChat(ctx context.Context) (*Chat, error) {
	var chat Chat
	if err := c.do(ctx, http.MethodPost, "/api/chat/create", nil, &chat); err != nil {
		return nil, err
	}
	return &chat, nil
}

// ListChats lists the caller's chats in server order
func (c *Client) ListChats(ctx context.Context) ([]Chat, error) {
	var chats []Chat
	if err := c.do(ctx, http.MethodGet, "/api/chat/getchat", nil, &chats); err != nil {
		return nil, err
	}
	return chats, nil
}

// GetChat fetches one chat
func (c *Client) GetChat(ctx context.Context, chatID string) (*Chat, error) {
	var chat Chat
	if err := c.do(ctx, http.MethodGet, "/api/chat/"+url.PathEscape(chatID), nil, &chat); err != nil {
		return nil, err
	}
	return &chat, nil
}

// RenameChat changes a chat's name
func (c *Client) RenameChat(ctx context.Context, chatID, newName string) error {
	body := map[string]string{"id": chatID, "newName": newName}
	return c.do(ctx, http.MethodPost, "/api/chat/rename", body, nil)
}

// DeleteChat removes a chat
func (c *Client) DeleteChat(ctx context.Context, chatID string) error {
	return c.do(ctx, http.MethodDelete, "/api/chat/delete", map[string]string{"id": chatID}, nil)
}

type promptResponse struct {
	Status int      `json:"status"`
	Data   *Message `json:"data"`
}

// SendPrompt sends prompt to the chat and returns the assistant reply
func (c *Client) SendPrompt(ctx context.Context, chatID, prompt string) (*Message, error) {
	var resp promptResponse
	body := map[string]string{"chatId": chatID, "prompt": prompt}
	if err := c.do(ctx, http.MethodPost, "/api/chat/ai", body, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return nil, errors.New("deepchat: reply missing from response")
	}
	return resp.Data, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != nil {
		token, err := c.token(ctx)
		if err != nil {
			return fmt.Errorf("session token: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Detail:     http.StatusText(resp.StatusCode),
		RequestID:  resp.Header.Get("X-Request-ID"),
	}

	var problem struct {
		Detail    string `json:"detail"`
		Title     string `json:"title"`
		RequestID string `json:"requestId"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if json.Unmarshal(raw, &problem) == nil {
		if problem.Detail != "" {
			apiErr.Detail = problem.Detail
		} else if problem.Title != "" {
			apiErr.Detail = problem.Title
		}
		if problem.RequestID != "" {
			apiErr.RequestID = problem.RequestID
		}
	}
	return apiErr
}
