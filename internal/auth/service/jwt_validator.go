package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	authDomain "github.com/legacykeep/user-service/internal/auth/domain"
)

// Custom claim names issued by the auth service alongside the registered claims.
const (
	userIDClaim    = "userId"
	sessionIDClaim = "sessionId"
)

// jwtValidator implements TokenValidator for HMAC-signed JWTs sharing a secret
// with the auth service.
type jwtValidator struct {
	secret   []byte
	issuer   string
	audience string
	now      func() time.Time
}

// Option configures a jwtValidator.
type Option func(*jwtValidator)

// WithTimeFunc overrides the clock used for expiry checks. Intended for tests.
func WithTimeFunc(now func() time.Time) Option {
	return func(v *jwtValidator) {
		v.now = now
	}
}

// NewJWTValidator creates a TokenValidator that verifies HMAC-signed tokens
// against the shared secret and checks the issuer and audience claims against
// the configured expectations.
func NewJWTValidator(secret, issuer, audience string, opts ...Option) TokenValidator {
	v := &jwtValidator{
		secret:   []byte(secret),
		issuer:   issuer,
		audience: audience,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate parses and verifies the token, then checks issuer, audience, and
// the required application claims. Every failure path returns one of the
// sentinel errors from the auth domain package.
func (v *jwtValidator) Validate(token string) (*authDomain.TokenClaims, error) {
	if strings.TrimSpace(token) == "" {
		return nil, authDomain.ErrTokenMalformed
	}

	parser := jwt.NewParser(jwt.WithTimeFunc(v.now))

	claims := jwt.MapClaims{}
	if _, err := parser.ParseWithClaims(token, claims, v.keyFunc); err != nil {
		return nil, mapParseError(err)
	}

	// Issuer: exact string match against the configured expectation.
	issuer, err := claims.GetIssuer()
	if err != nil || issuer != v.issuer {
		return nil, authDomain.ErrTokenIssuerMismatch
	}

	// Audience: the auth service is not required to normalize this claim, so
	// accept the three shapes it is known to produce.
	if !audienceMatches(claims["aud"], v.audience) {
		return nil, authDomain.ErrTokenAudienceMismatch
	}

	return extractClaims(claims)
}

// keyFunc returns the shared secret after confirming the token declares an
// HMAC signing method. Any other method (including "none") is rejected before
// signature verification.
func (v *jwtValidator) keyFunc(token *jwt.Token) (any, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return v.secret, nil
}

// mapParseError translates golang-jwt parse errors into the domain taxonomy.
// The order matters: expired tokens also carry the invalid-claims sentinel.
func mapParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return authDomain.ErrTokenMalformed
	case errors.Is(err, jwt.ErrTokenExpired):
		return authDomain.ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return authDomain.ErrTokenSignatureInvalid
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		// The keyfunc rejected the declared signing method.
		return authDomain.ErrTokenUnsupported
	default:
		return authDomain.ErrTokenMalformed
	}
}

// audienceMatches checks the raw audience claim against the expected audience.
// The claim arrives in one of three shapes: a single string, a collection of
// strings, or an unrecognized representation. The last case is stringified
// and, when wrapped in bracket delimiters (a collection-to-string coercion
// artifact), exactly one leading and trailing bracket is stripped before
// comparing.
func audienceMatches(raw any, expected string) bool {
	switch aud := raw.(type) {
	case string:
		return aud == expected
	case []string:
		for _, member := range aud {
			if member == expected {
				return true
			}
		}
		return false
	case []any:
		for _, member := range aud {
			if s, ok := member.(string); ok && s == expected {
				return true
			}
		}
		return false
	default:
		s := fmt.Sprintf("%v", aud)
		if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
			s = s[1 : len(s)-1]
		}
		return s == expected
	}
}

// extractClaims pulls the typed application claims out of a fully verified
// claim set. The user id fails closed: absent or non-numeric values are an
// error rather than a zero default. The session id is optional.
func extractClaims(claims jwt.MapClaims) (*authDomain.TokenClaims, error) {
	userID, ok := numericClaim(claims[userIDClaim])
	if !ok {
		return nil, authDomain.ErrTokenMissingClaim
	}

	subject, err := claims.GetSubject()
	if err != nil {
		return nil, authDomain.ErrTokenMissingClaim
	}

	sessionID, _ := claims[sessionIDClaim].(string)

	result := &authDomain.TokenClaims{
		UserID:    userID,
		Subject:   subject,
		SessionID: sessionID,
	}

	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		result.ExpiresAt = exp.Time
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		result.IssuedAt = iat.Time
	}

	return result, nil
}

// numericClaim converts a decoded JSON claim value into an int64 user id.
// Only genuinely numeric representations are accepted.
func numericClaim(raw any) (int64, bool) {
	switch value := raw.(type) {
	case float64:
		return int64(value), true
	case int64:
		return value, true
	case json.Number:
		id, err := value.Int64()
		return id, err == nil
	default:
		return 0, false
	}
}
