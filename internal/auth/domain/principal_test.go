package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/legacykeep/user-service/internal/errors"
)

func TestNewPrincipal(t *testing.T) {
	issuedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	expiresAt := issuedAt.Add(time.Hour)

	claims := &TokenClaims{
		UserID:    42,
		Subject:   "user@example.com",
		SessionID: "session-abc",
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	}

	principal := NewPrincipal(claims)

	assert.Equal(t, int64(42), principal.UserID)
	assert.Equal(t, "user@example.com", principal.Email)
	assert.Equal(t, "session-abc", principal.SessionID)
	assert.Equal(t, issuedAt, principal.IssuedAt)
	assert.Equal(t, expiresAt, principal.ExpiresAt)
}

func TestTokenErrors_AllMapToUnauthorized(t *testing.T) {
	tokenErrors := []error{
		ErrTokenMalformed,
		ErrTokenUnsupported,
		ErrTokenSignatureInvalid,
		ErrTokenExpired,
		ErrTokenIssuerMismatch,
		ErrTokenAudienceMismatch,
		ErrTokenMissingClaim,
	}

	// Every validation failure must collapse to the same HTTP-level error so
	// responses never reveal which check rejected the token.
	for _, err := range tokenErrors {
		assert.True(t, apperrors.Is(err, apperrors.ErrUnauthorized), "expected %v to map to ErrUnauthorized", err)
	}
}
