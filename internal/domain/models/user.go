package models

import "time"

// User mirrors an identity-provider account. It is written only by identity
// sync; ID is the provider's user id and is what Chat.UserID refers to.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	ImageURL  string    `json:"imageUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
