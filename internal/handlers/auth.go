package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/product_management/internal/credentials"
	"github.com/Skotchmaster/product_management/internal/logging"
	"github.com/Skotchmaster/product_management/internal/middleware/auth"
	"github.com/Skotchmaster/product_management/internal/mykafka"
	"github.com/Skotchmaster/product_management/internal/service/token"
)

type AuthHandler struct {
	Credentials *credentials.Store
	Tokens      *token.Service
	Producer    *mykafka.Producer
}

func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := c.Bind(&req); err != nil {
		l.Warn("login_failed", "status", 400, "reason", "invalid body", "error", err)
		return fail(c, http.StatusBadRequest, "invalid request body")
	}

	if req.Username == "" || req.Password == "" {
		l.Warn("login_failed", "status", 400, "reason", "missing credentials")
		return fail(c, http.StatusBadRequest, "Username and password are required")
	}

	user := h.Credentials.Authenticate(req.Username, req.Password)
	if user == nil {
		l.Warn("login_failed", "status", 401, "username", req.Username)
		return fail(c, http.StatusUnauthorized, "invalid username or password")
	}

	signed, err := h.Tokens.Issue(user)
	if err != nil {
		l.Error("login_failed", "status", 500, "reason", "cannot sign token", "error", err)
		return fail(c, http.StatusInternalServerError, "cannot issue token")
	}

	event := map[string]any{
		"type":     "user_logged_in",
		"userID":   user.ID,
		"username": user.Username,
	}
	h.publish(c, "user_events", fmt.Sprint(user.ID), event)

	l.Info("login_success", "username", user.Username, "role", user.Role)
	return c.JSON(http.StatusOK, echo.Map{
		"token": signed,
		"message": fmt.Sprintf("Welcome %s! Token valid for %d minutes.",
			user.Username, h.Tokens.ExpiryInMinutes),
	})
}

func (h *AuthHandler) ValidateToken(c echo.Context) error {
	p, ok := auth.PrincipalFrom(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "missing access token")
	}

	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)

	return c.JSON(http.StatusOK, echo.Map{
		"message":      "Token is valid!",
		"tokenPresent": authHeader != "",
		"user":         p.Username,
		"role":         p.Role,
		"validUntil":   p.ExpiresAt.Local().Format("2006-01-02 15:04:05"),
	})
}

func (h *AuthHandler) publish(c echo.Context, topic, key string, event map[string]any) {
	if h.Producer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, topic, key, event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}
