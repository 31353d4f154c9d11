package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/product_management/internal/service/token"
)

// Policy maps to the set of roles allowed through the gate.
type Policy int

const (
	// Authenticated admits any valid token regardless of role.
	Authenticated Policy = iota
	// ReadOnly admits the User and Admin roles.
	ReadOnly
	// ReadWrite admits the Admin role only.
	ReadWrite
)

func (p Policy) allows(role string) bool {
	switch p {
	case ReadWrite:
		return role == "Admin"
	case ReadOnly:
		return role == "User" || role == "Admin"
	default:
		return true
	}
}

// Principal is the authenticated caller, threaded through handlers via the
// echo context instead of being re-parsed from the raw token.
type Principal struct {
	UserID    int
	Username  string
	Role      string
	ExpiresAt time.Time
}

const principalKey = "principal"

func PrincipalFrom(c echo.Context) (*Principal, bool) {
	p, ok := c.Get(principalKey).(*Principal)
	return p, ok
}

type Gate struct {
	Tokens *token.Service
}

func NewGate(ts *token.Service) *Gate {
	return &Gate{Tokens: ts}
}

// Require rejects the request before the handler runs: 401 for a missing,
// malformed or expired token, 403 for a valid token outside the policy.
func (g *Gate) Require(policy Policy) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := bearerToken(c)
			if raw == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
			}

			claims, err := g.Tokens.Parse(raw)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			if !policy.allows(claims.Role) {
				return echo.NewHTTPError(http.StatusForbidden, "not enough rights")
			}

			p := &Principal{
				UserID:   claims.UserID,
				Username: claims.Name,
				Role:     claims.Role,
			}
			if claims.ExpiresAt != nil {
				p.ExpiresAt = claims.ExpiresAt.Time
			}
			c.Set(principalKey, p)
			c.Set("userID", p.UserID)
			c.Set("role", p.Role)

			return next(c)
		}
	}
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return ""
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, prefix))
}
