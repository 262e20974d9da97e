package models

import (
	"time"
)

// Role tags a message with its author
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// Message is one turn in a chat. Messages are immutable once appended and
// are only ever reached through their owning Chat.
type Message struct {
	Role      Role   `json:"role"`
	Content   string `json:"content"`
	TimeStamp int64  `json:"timeStamp"` // epoch millis
}

// NewMessage creates a message stamped with t
func NewMessage(role Role, content string, t time.Time) Message {
	return Message{
		Role:      role,
		Content:   content,
		TimeStamp: t.UnixMilli(),
	}
}

// Chat is a conversation thread owned by exactly one user.
// Messages is append-only and ordered by conversation chronology.
type Chat struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// LastMessage returns the most recent message, if any
func (c *Chat) LastMessage() (Message, bool) {
	if len(c.Messages) == 0 {
		return Message{}, false
	}
	return c.Messages[len(c.Messages)-1], true
}
