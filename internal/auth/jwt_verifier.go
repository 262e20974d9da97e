package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"

	"deepchat/internal/domain"
	"deepchat/internal/domain/models"
)

// allowedAlgorithms guards against algorithm confusion
var allowedAlgorithms = []string{"RS256", "ES256"}

// ClerkJWTVerifier validates Clerk session tokens against the instance JWKS.
type ClerkJWTVerifier struct {
	keyfunc           jwt.Keyfunc
	authorizedParties []string
	logger            *slog.Logger
}

// NewJWTVerifier creates a verifier that fetches public keys from jwksURL.
// keyfunc v3 caches the key set and refreshes it on unknown key ids.
// An empty authorizedParties list accepts any azp claim.
func NewJWTVerifier(jwksURL string, authorizedParties []string, logger *slog.Logger) (JWTVerifier, error) {
	if jwksURL == "" {
		return nil, errors.New("JWKS URL cannot be empty")
	}

	jwks, err := keyfunc.NewDefaultCtx(context.Background(), []string{jwksURL})
	if err != nil {
		return nil, fmt.Errorf("failed to create JWKS client: %w", err)
	}

	logger.Info("JWT verifier initialized",
		"jwks_url", jwksURL,
		"authorized_parties", authorizedParties,
	)

	return NewJWTVerifierWithKeyfunc(jwks.Keyfunc, authorizedParties, logger), nil
}

// NewJWTVerifierWithKeyfunc builds a verifier around an existing key lookup
func NewJWTVerifierWithKeyfunc(kf jwt.Keyfunc, authorizedParties []string, logger *slog.Logger) *ClerkJWTVerifier {
	return &ClerkJWTVerifier{
		keyfunc:           kf,
		authorizedParties: authorizedParties,
		logger:            logger,
	}
}

// VerifyToken validates a session token and extracts its claims
func (v *ClerkJWTVerifier) VerifyToken(tokenString string) (*models.SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.SessionClaims{}, v.keyfunc,
		jwt.WithValidMethods(allowedAlgorithms),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		v.logger.Debug("token parse failed", "error", err)
		return nil, domain.ErrUnauthorized
	}
	if !token.Valid {
		return nil, domain.ErrUnauthorized
	}

	claims, ok := token.Claims.(*models.SessionClaims)
	if !ok {
		v.logger.Error("failed to extract claims from token")
		return nil, domain.ErrUnauthorized
	}

	if claims.Subject == "" {
		v.logger.Debug("token missing subject claim")
		return nil, domain.ErrUnauthorized
	}

	if len(v.authorizedParties) > 0 && claims.AuthorizedParty != "" &&
		!slices.Contains(v.authorizedParties, claims.AuthorizedParty) {
		v.logger.Warn("token from unauthorized party",
			"azp", claims.AuthorizedParty,
			"user_id", claims.Subject,
		)
		return nil, domain.ErrUnauthorized
	}

	return claims, nil
}

// Close is a no-op; keyfunc v3 manages its own refresh goroutine lifetime
// through the context it was created with.
func (v *ClerkJWTVerifier) Close() error {
	v.logger.Info("JWT verifier closed")
	return nil
}
