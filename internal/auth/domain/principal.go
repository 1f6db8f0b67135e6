// Package domain defines the authenticated identity types and token validation
// errors shared across the service.
package domain

import (
	"time"

	"github.com/legacykeep/user-service/internal/errors"
)

// TokenClaims holds the application claims extracted from a validated token.
// Produced only when every validation check passed; never partially populated.
type TokenClaims struct {
	// UserID is the numeric user identifier issued by the auth service.
	UserID int64
	// Subject is the user's email address (the standard sub claim).
	Subject string
	// SessionID identifies the auth-service session. Optional; empty when the
	// issuing service omitted it.
	SessionID string
	// IssuedAt is the token issue timestamp, zero when the claim is absent.
	IssuedAt time.Time
	// ExpiresAt is the token expiry timestamp.
	ExpiresAt time.Time
}

// Principal is the validated identity attached to a request after successful
// token validation.
type Principal struct {
	UserID    int64
	Email     string
	SessionID string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// NewPrincipal builds a Principal from validated token claims.
func NewPrincipal(claims *TokenClaims) *Principal {
	return &Principal{
		UserID:    claims.UserID,
		Email:     claims.Subject,
		SessionID: claims.SessionID,
		IssuedAt:  claims.IssuedAt,
		ExpiresAt: claims.ExpiresAt,
	}
}

// Token validation errors. Every sentinel wraps ErrUnauthorized so the HTTP
// boundary collapses all of them to a generic 401 without revealing which
// check rejected the credentials; the specific sentinel stays available
// internally for logging.
var (
	// ErrTokenMalformed indicates the token is not a three-segment signed token.
	ErrTokenMalformed = errors.Wrap(errors.ErrUnauthorized, "malformed token")

	// ErrTokenUnsupported indicates the token declares an unsupported signing algorithm.
	ErrTokenUnsupported = errors.Wrap(errors.ErrUnauthorized, "unsupported token")

	// ErrTokenSignatureInvalid indicates the signature does not match the shared secret.
	ErrTokenSignatureInvalid = errors.Wrap(errors.ErrUnauthorized, "invalid token signature")

	// ErrTokenExpired indicates the token expiry claim is in the past.
	ErrTokenExpired = errors.Wrap(errors.ErrUnauthorized, "token expired")

	// ErrTokenIssuerMismatch indicates the issuer claim does not match the configured issuer.
	ErrTokenIssuerMismatch = errors.Wrap(errors.ErrUnauthorized, "token issuer mismatch")

	// ErrTokenAudienceMismatch indicates the audience claim does not include the configured audience.
	ErrTokenAudienceMismatch = errors.Wrap(errors.ErrUnauthorized, "token audience mismatch")

	// ErrTokenMissingClaim indicates a required application claim is absent or mistyped.
	ErrTokenMissingClaim = errors.Wrap(errors.ErrUnauthorized, "token missing required claim")
)
