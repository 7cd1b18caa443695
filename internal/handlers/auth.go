package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/airuleguy/pana-inscriptions-sub002/internal/hash"
	"github.com/airuleguy/pana-inscriptions-sub002/internal/logging"
	"github.com/airuleguy/pana-inscriptions-sub002/internal/models"
	"github.com/airuleguy/pana-inscriptions-sub002/internal/mykafka"
	"github.com/airuleguy/pana-inscriptions-sub002/internal/token"
)

type AuthHandler struct {
	DB       *gorm.DB
	Token    *token.Service
	Producer *mykafka.Producer
}

// Login authenticates a delegate or admin and mints the access token.
// Bad username, bad password and inactive account all surface the same
// 401 so nothing about the account leaks.
func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	var user models.User
	if err := h.DB.Where("username = ?", req.Username).First(&user).Error; err != nil {
		l.Warn("login_failed", "status", 401, "reason", "unknown_user")
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid username or password")
	}
	if !user.Active {
		l.Warn("login_failed", "status", 401, "reason", "inactive_user")
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid username or password")
	}
	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		l.Warn("login_failed", "status", 401, "reason", "bad_password")
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid username or password")
	}

	accessToken, jti, expiresIn, err := h.Token.Issue(&user)
	if err != nil {
		l.Error("login_failed", "status", 500, "reason", "cannot create token", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, token.ErrSigning.Error())
	}

	now := time.Now()
	if err := h.DB.Model(&user).Update("last_login_at", now).Error; err != nil {
		l.Warn("last_login_update_failed", "error", err)
	}

	publish(c, h.Producer, mykafka.TopicUserEvents, fmt.Sprint(user.ID), map[string]any{
		"type":     "user_logged_in",
		"userID":   user.ID,
		"username": user.Username,
		"country":  user.Country,
		"jti":      jti,
	})

	l.Info("login_success", "status", 200, "username", user.Username, "country", user.Country)
	return c.JSON(http.StatusOK, echo.Map{
		"accessToken": accessToken,
		"tokenType":   "Bearer",
		"expiresIn":   expiresIn,
		"user":        user,
	})
}

// Logout is client-side discard only, there is no server-side
// revocation list. The endpoint exists for auditability.
func (h *AuthHandler) Logout(c echo.Context) error {
	cl := claims(c)
	if cl != nil {
		publish(c, h.Producer, mykafka.TopicUserEvents, cl.Subject, map[string]any{
			"type":     "user_logged_out",
			"username": cl.Username,
			"jti":      cl.ID,
		})
	}
	return c.JSON(http.StatusOK, Response{Status: "ok", Message: "logged out"})
}

// Me echoes the verified claims for the current session.
func (h *AuthHandler) Me(c echo.Context) error {
	cl := claims(c)
	if cl == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"sub":      cl.Subject,
		"username": cl.Username,
		"country":  cl.Country,
		"role":     cl.Role,
		"jti":      cl.ID,
		"exp":      cl.ExpiresAt.Unix(),
	})
}
