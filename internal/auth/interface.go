package auth

import (
	"net/http"

	"deepchat/internal/domain/models"
)

// JWTVerifier defines the interface for session token verification.
// The middleware stays agnostic to how keys are obtained.
type JWTVerifier interface {
	// VerifyToken validates a token string and returns the parsed claims.
	// Returns domain.ErrUnauthorized if the token is invalid, expired, or badly signed.
	VerifyToken(tokenString string) (*models.SessionClaims, error)

	// Close releases any resources held by the verifier.
	Close() error
}

// WebhookVerifier authenticates identity-provider notifications
type WebhookVerifier interface {
	// Verify checks the signature headers against the raw body
	Verify(payload []byte, headers http.Header) error
}
