package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"
)

// SendState tracks the last prompt round trip of one chat
type SendState int

const (
	// StateIdle means the local copy matches the server
	StateIdle SendState = iota
	// StateSending means a prompt is in flight
	StateSending
	// StateConfirmed means the last prompt and its reply were stored
	StateConfirmed
	// StateFailed means the last prompt failed; the optimistic message is
	// still shown and the chat needs Reconcile before the next Send
	StateFailed
)

func (s SendState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSending:
		return "sending"
	case StateConfirmed:
		return "confirmed"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("SendState(%d)", int(s))
	}
}

// Session errors
var (
	ErrEmptyPrompt    = errors.New("prompt is empty")
	ErrNoActiveChat   = errors.New("no active chat")
	ErrUnknownChat    = errors.New("chat is not in the session")
	ErrSendInProgress = errors.New("a prompt is already being sent for this chat")
	ErrNeedsReconcile = errors.New("last prompt failed, reconcile the chat first")
)

// API is the subset of the server API a Session drives
type API interface {
	CreateChat(ctx context.Context) (*Chat, error)
	ListChats(ctx context.Context) ([]Chat, error)
	GetChat(ctx context.Context, chatID string) (*Chat, error)
	RenameChat(ctx context.Context, chatID, newName string) error
	DeleteChat(ctx context.Context, chatID string) error
	SendPrompt(ctx context.Context, chatID, prompt string) (*Message, error)
}

// Session mirrors the caller's chat list and active chat, updating it
// optimistically around each prompt. Safe for concurrent use.
type Session struct {
	api    API
	store  SelectionStore
	logger *slog.Logger
	now    func() time.Time

	mu       sync.Mutex
	chats    []Chat // most recently updated first
	activeID string
	states   map[string]SendState
}

// NewSession creates an empty session. store may be nil to skip persistence.
func NewSession(api API, store SelectionStore, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		api:    api,
		store:  store,
		logger: logger,
		now:    time.Now,
		states: make(map[string]SendState),
	}
}

// Load fetches the chat list. An empty list gets a fresh chat. The
// remembered selection is restored when it still exists, otherwise the most
// recently updated chat becomes active. Load is refused while a prompt is in
// flight, since the reply would land on the replaced list.
func (s *Session) Load(ctx context.Context) error {
	s.mu.Lock()
	sending := s.sendingLocked()
	s.mu.Unlock()
	if sending {
		return ErrSendInProgress
	}

	chats, err := s.api.ListChats(ctx)
	if err != nil {
		return fmt.Errorf("list chats: %w", err)
	}
	if len(chats) == 0 {
		if _, err := s.api.CreateChat(ctx); err != nil {
			return fmt.Errorf("create first chat: %w", err)
		}
		if chats, err = s.api.ListChats(ctx); err != nil {
			return fmt.Errorf("list chats: %w", err)
		}
	}

	remembered := ""
	if s.store != nil {
		if remembered, err = s.store.LoadSelection(); err != nil {
			s.logger.Warn("could not restore chat selection", "error", err)
		}
	}

	s.mu.Lock()
	if s.sendingLocked() {
		s.mu.Unlock()
		return ErrSendInProgress
	}
	s.chats = chats
	sortByRecency(s.chats)
	s.states = make(map[string]SendState, len(chats))
	s.activeID = ""
	if remembered != "" && s.indexOf(remembered) >= 0 {
		s.activeID = remembered
	} else if len(s.chats) > 0 {
		s.activeID = s.chats[0].ID
	}
	active := s.activeID
	s.mu.Unlock()

	s.persist(active)
	return nil
}

// Chats returns a copy of the chat list, most recently updated first
func (s *Session) Chats() []Chat {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Chat, len(s.chats))
	for i, c := range s.chats {
		out[i] = c.clone()
	}
	return out
}

// Active returns a copy of the active chat
func (s *Session) Active() (Chat, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(s.activeID)
	if i < 0 {
		return Chat{}, false
	}
	return s.chats[i].clone(), true
}

// State returns the send state of a chat
func (s *Session) State(chatID string) SendState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.states[chatID]
}

// Select activates a chat and remembers it
func (s *Session) Select(chatID string) error {
	s.mu.Lock()
	if s.indexOf(chatID) < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownChat, chatID)
	}
	s.activeID = chatID
	s.mu.Unlock()

	s.persist(chatID)
	return nil
}

// Send appends the prompt to the active chat immediately, then sends it.
// On success the reply is appended and the chat is confirmed. On failure the
// prompt stays visible and the chat is marked failed until Reconcile.
func (s *Session) Send(ctx context.Context, prompt string) (*Message, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, ErrEmptyPrompt
	}

	s.mu.Lock()
	chatID := s.activeID
	i := s.indexOf(chatID)
	if i < 0 {
		s.mu.Unlock()
		return nil, ErrNoActiveChat
	}
	switch s.states[chatID] {
	case StateSending:
		s.mu.Unlock()
		return nil, ErrSendInProgress
	case StateFailed:
		s.mu.Unlock()
		return nil, ErrNeedsReconcile
	}

	sentAt := s.now()
	s.chats[i].Messages = append(s.chats[i].Messages, Message{
		Role:      RoleUser,
		Content:   prompt,
		TimeStamp: sentAt.UnixMilli(),
	})
	s.chats[i].UpdatedAt = sentAt
	s.states[chatID] = StateSending
	sortByRecency(s.chats)
	s.mu.Unlock()

	reply, err := s.api.SendPrompt(ctx, chatID, prompt)

	s.mu.Lock()
	defer s.mu.Unlock()

	i = s.indexOf(chatID)
	if i < 0 {
		// Deleted locally while the prompt was in flight
		delete(s.states, chatID)
		if err != nil {
			return nil, err
		}
		return reply, nil
	}
	if err != nil {
		s.states[chatID] = StateFailed
		s.logger.Warn("prompt failed", "id", chatID, "error", err)
		return nil, err
	}

	s.chats[i].Messages = append(s.chats[i].Messages, *reply)
	s.chats[i].UpdatedAt = s.now()
	s.states[chatID] = StateConfirmed
	sortByRecency(s.chats)
	return reply, nil
}

// Reconcile replaces the local copy of a chat with the server's and returns
// it to idle. A chat the server no longer has is dropped from the session.
func (s *Session) Reconcile(ctx context.Context, chatID string) error {
	s.mu.Lock()
	if s.states[chatID] == StateSending {
		s.mu.Unlock()
		return ErrSendInProgress
	}
	s.mu.Unlock()

	chat, err := s.api.GetChat(ctx, chatID)
	if IsNotFound(err) {
		s.remove(chatID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("fetch chat %s: %w", chatID, err)
	}

	s.mu.Lock()
	if i := s.indexOf(chatID); i >= 0 {
		s.chats[i] = *chat
	} else {
		s.chats = append(s.chats, *chat)
	}
	s.states[chatID] = StateIdle
	sortByRecency(s.chats)
	s.mu.Unlock()
	return nil
}

// NewChat creates a chat on the server and activates it
func (s *Session) NewChat(ctx context.Context) (Chat, error) {
	chat, err := s.api.CreateChat(ctx)
	if err != nil {
		return Chat{}, fmt.Errorf("create chat: %w", err)
	}

	s.mu.Lock()
	s.chats = append(s.chats, *chat)
	sortByRecency(s.chats)
	s.states[chat.ID] = StateIdle
	s.activeID = chat.ID
	s.mu.Unlock()

	s.persist(chat.ID)
	return chat.clone(), nil
}

// Rename renames a chat on the server, then locally
func (s *Session) Rename(ctx context.Context, chatID, newName string) error {
	newName = strings.TrimSpace(newName)
	if err := s.api.RenameChat(ctx, chatID, newName); err != nil {
		return fmt.Errorf("rename chat: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(chatID); i >= 0 {
		s.chats[i].Name = newName
	}
	return nil
}

// Delete removes a chat on the server, then locally. Deleting the active
// chat activates the most recently updated remaining one.
func (s *Session) Delete(ctx context.Context, chatID string) error {
	if err := s.api.DeleteChat(ctx, chatID); err != nil {
		return fmt.Errorf("delete chat: %w", err)
	}
	s.remove(chatID)
	return nil
}

func (s *Session) remove(chatID string) {
	s.mu.Lock()
	i := s.indexOf(chatID)
	if i >= 0 {
		s.chats = slices.Delete(s.chats, i, i+1)
	}
	delete(s.states, chatID)

	changed := false
	if s.activeID == chatID {
		s.activeID = ""
		if len(s.chats) > 0 {
			s.activeID = s.chats[0].ID
		}
		changed = true
	}
	active := s.activeID
	s.mu.Unlock()

	if changed {
		s.persist(active)
	}
}

// sendingLocked reports whether any chat has a prompt in flight. mu must be held.
func (s *Session) sendingLocked() bool {
	for _, st := range s.states {
		if st == StateSending {
			return true
		}
	}
	return false
}

// indexOf must be called with mu held
func (s *Session) indexOf(chatID string) int {
	if chatID == "" {
		return -1
	}
	return slices.IndexFunc(s.chats, func(c Chat) bool { return c.ID == chatID })
}

func (s *Session) persist(chatID string) {
	if s.store == nil {
		return
	}
	if err := s.store.SaveSelection(chatID); err != nil {
		s.logger.Warn("could not save chat selection", "id", chatID, "error", err)
	}
}

func sortByRecency(chats []Chat) {
	slices.SortStableFunc(chats, func(a, b Chat) int {
		return b.UpdatedAt.Compare(a.UpdatedAt)
	})
}
