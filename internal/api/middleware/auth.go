package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/contribtrack/contribution-tracker/internal/core/ports"
)

// Auth verifies the bearer token and injects user_id and email into the context.
//
// The token is looked up in order: the Authorization header ("<scheme> <t>" or
// the bare token), the "token" query parameter, then the x-access-token header.
// A present Authorization header always wins, so a foreign scheme fails
// verification instead of falling back to the other sources.
func Auth(tokens ports.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := extractToken(c)
			if raw == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
			}

			claims, err := tokens.Verify(raw)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}

			c.Set("user_id", claims.UserID)
			c.Set("email", claims.Email)

			return next(c)
		}
	}
}

func extractToken(c echo.Context) string {
	if h := strings.TrimSpace(c.Request().Header.Get(echo.HeaderAuthorization)); h != "" {
		if _, rest, found := strings.Cut(h, " "); found {
			return strings.TrimSpace(rest)
		}
		return h
	}
	if t := c.QueryParam("token"); t != "" {
		return t
	}
	return strings.TrimSpace(c.Request().Header.Get("x-access-token"))
}
