package client

import "time"

// Message roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of a chat as returned by the server
type Message struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	TimeStamp int64  `json:"timeStamp"` // epoch millis
}

// Chat is a conversation thread as returned by the server
type Chat struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c Chat) clone() Chat {
	c.Messages = append([]Message(nil), c.Messages...)
	return c
}
