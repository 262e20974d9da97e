package models

import "github.com/golang-jwt/jwt/v5"

// SessionClaims represents the session token claims issued by the identity provider.
type SessionClaims struct {
	jwt.RegisteredClaims        // Standard JWT claims (sub, iss, aud, exp, iat, etc.)
	AuthorizedParty      string `json:"azp"`
	SessionID            string `json:"sid"`
}

// GetUserID returns the user ID from the JWT subject claim.
func (c *SessionClaims) GetUserID() string {
	return c.Subject
}
