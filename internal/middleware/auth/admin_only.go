package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/airuleguy/pana-inscriptions-sub002/internal/models"
)

// AdminOnly must run after RequireLogin. A valid token with the wrong
// role is a 403, not a 401.
func AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims := ClaimsFrom(c)
		if claims == nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
		}
		if claims.Role != models.RoleAdmin {
			return echo.NewHTTPError(http.StatusForbidden, "not enough rights")
		}
		return next(c)
	}
}
