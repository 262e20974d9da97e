package services

import "context"

// Identity-lifecycle event kinds
const (
	EventUserCreated = "user.created"
	EventUserUpdated = "user.updated"
	EventUserDeleted = "user.deleted"
)

// Sync outcomes reported back to the notification sender
const (
	SyncCreated   = "created"
	SyncUpdated   = "updated"
	SyncDeleted   = "deleted"
	SyncIgnored   = "ignored"
	SyncDuplicate = "duplicate"
)

// IdentityService mirrors identity-provider lifecycle events into the user store
type IdentityService interface {
	// HandleEvent applies an already-authenticated event. deliveryID identifies
	// the notification delivery and is used to skip redeliveries.
	HandleEvent(ctx context.Context, deliveryID string, evt *IdentityEvent) (*SyncResult, error)
}

// IdentityEvent is the envelope of an identity-provider notification
type IdentityEvent struct {
	Type   string            `json:"type"`
	Object string            `json:"object"`
	Data   IdentityEventData `json:"data"`
}

// IdentityEventData is the user payload. For deletions only ID is populated.
type IdentityEventData struct {
	ID                    string         `json:"id"`
	FirstName             string         `json:"first_name"`
	LastName              string         `json:"last_name"`
	EmailAddresses        []EmailAddress `json:"email_addresses"`
	PrimaryEmailAddressID string         `json:"primary_email_address_id"`
	ImageURL              string         `json:"image_url"`
	Deleted               bool           `json:"deleted"`
}

// EmailAddress is one address attached to an identity-provider user
type EmailAddress struct {
	ID           string `json:"id"`
	EmailAddress string `json:"email_address"`
}

// SyncResult describes what HandleEvent did
type SyncResult struct {
	Action  string `json:"action"`
	UserID  string `json:"userId,omitempty"`
	Message string `json:"message"`
}
