package http

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	authDomain "github.com/legacykeep/user-service/internal/auth/domain"
	authService "github.com/legacykeep/user-service/internal/auth/service"
	apperrors "github.com/legacykeep/user-service/internal/errors"
	"github.com/legacykeep/user-service/internal/httputil"
)

// bearerPrefix is the literal credential scheme accepted in the Authorization header.
const bearerPrefix = "Bearer "

// AuthenticationMiddleware validates the bearer token on inbound requests.
//
// The middleware:
// 1. Reads the Authorization header
// 2. Strips the "Bearer " scheme prefix
// 3. Delegates to the TokenValidator
// 4. Stores the resulting Principal in the request context on success
//
// A missing header, a non-bearer scheme, or a failed validation all leave the
// request unauthenticated and let it proceed: whether an unauthenticated
// request is acceptable is a routing decision (see RequirePrincipal), not an
// authentication one. Token errors are logged for operational visibility but
// are never distinguished to the caller.
//
// Identity established here is scoped to the single request; validated tokens
// are never cached across requests.
func AuthenticationMiddleware(validator authService.TokenValidator, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			// No credentials supplied; proceed unauthenticated.
			c.Next()
			return
		}

		token := authHeader[len(bearerPrefix):]

		claims, err := validator.Validate(token)
		if err != nil {
			// Treated identically to "no credentials": the specific failure is
			// internal telemetry only.
			logger.Debug("token validation failed", slog.Any("error", err))
			c.Next()
			return
		}

		principal := authDomain.NewPrincipal(claims)
		ctx := WithPrincipal(c.Request.Context(), principal)
		c.Request = c.Request.WithContext(ctx)

		logger.Debug("authentication successful",
			slog.Int64("user_id", principal.UserID),
			slog.String("email", principal.Email),
		)

		c.Next()
	}
}

// RequirePrincipal rejects requests that reached a protected route without an
// authenticated principal. Must be used after AuthenticationMiddleware.
func RequirePrincipal(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetPrincipal(c.Request.Context()); !ok {
			logger.Debug("unauthenticated request rejected",
				slog.String("path", c.Request.URL.Path))
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}
		c.Next()
	}
}
