// Package service implements token validation for the user service.
package service

import (
	authDomain "github.com/legacykeep/user-service/internal/auth/domain"
)

// TokenValidator validates bearer tokens issued by the auth service and
// extracts the application claims. Validation is all-or-nothing: a non-nil
// TokenClaims is returned only when every check passed.
//
// Implementations must be safe for concurrent use; validation is a pure
// function over (token, configuration, current time).
type TokenValidator interface {
	Validate(token string) (*authDomain.TokenClaims, error)
}
