package auth

import (
	"errors"
	"fmt"
	"net/http"

	svix "github.com/svix/svix-webhooks/go"
)

// Svix signature headers
const (
	HeaderSvixID        = "svix-id"
	HeaderSvixTimestamp = "svix-timestamp"
	HeaderSvixSignature = "svix-signature"
)

// ErrMissingSignatureHeaders is returned when any svix header is absent
var ErrMissingSignatureHeaders = errors.New("missing svix headers")

// ErrInvalidSignature is returned when the signature does not verify
var ErrInvalidSignature = errors.New("webhook verification failed")

// SvixVerifier verifies identity webhooks signed with the svix scheme
type SvixVerifier struct {
	wh *svix.Webhook
}

// NewSvixVerifier creates a verifier for a "whsec_..." signing secret
func NewSvixVerifier(secret string) (*SvixVerifier, error) {
	wh, err := svix.NewWebhook(secret)
	if err != nil {
		return nil, fmt.Errorf("invalid webhook signing secret: %w", err)
	}
	return &SvixVerifier{wh: wh}, nil
}

// Verify checks that all svix headers are present and the signature matches
// the exact bytes received. Stale timestamps are rejected by the library.
func (v *SvixVerifier) Verify(payload []byte, headers http.Header) error {
	if headers.Get(HeaderSvixID) == "" ||
		headers.Get(HeaderSvixTimestamp) == "" ||
		headers.Get(HeaderSvixSignature) == "" {
		return ErrMissingSignatureHeaders
	}

	if err := v.wh.Verify(payload, headers); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return nil
}
