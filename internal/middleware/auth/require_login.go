package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/airuleguy/pana-inscriptions-sub002/internal/token"
)

const ClaimsKey = "claims"

// RequireLogin verifies the bearer token and stashes the claims into
// the echo context before any handler runs. Every failure is the same
// 401; data access never happens for an unauthenticated request.
func RequireLogin(svc *token.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			raw, found := strings.CutPrefix(header, "Bearer ")
			if !found || raw == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}

			claims, err := svc.Verify(raw)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, token.ErrInvalidToken.Error())
			}

			c.Set(ClaimsKey, claims)
			c.Set("country", claims.Country)
			c.Set("role", claims.Role)
			return next(c)
		}
	}
}

// ClaimsFrom returns the verified claims set by RequireLogin, or nil
// on routes that skipped it.
func ClaimsFrom(c echo.Context) *token.Claims {
	if v, ok := c.Get(ClaimsKey).(*token.Claims); ok {
		return v
	}
	return nil
}
