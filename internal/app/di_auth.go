package app

import (
	authService "github.com/legacykeep/user-service/internal/auth/service"
)

// TokenValidator returns the JWT token validator instance.
func (c *Container) TokenValidator() (authService.TokenValidator, error) {
	c.tokenValidatorInit.Do(func() {
		c.tokenValidator = authService.NewJWTValidator(
			c.config.JWTSecret,
			c.config.JWTIssuer,
			c.config.JWTAudience,
		)
	})
	return c.tokenValidator, nil
}
