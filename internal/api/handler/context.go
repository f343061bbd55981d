package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ctxUserID returns the caller identity injected by the Auth middleware.
// An empty value means the middleware did not run, which is treated as unauthenticated.
func ctxUserID(c echo.Context) (string, error) {
	id, _ := c.Get("user_id").(string)
	if id == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}
	return id, nil
}
