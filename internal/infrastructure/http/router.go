package http

import (
	"io/fs"

	"github.com/labstack/echo/v4"

	"github.com/contribtrack/contribution-tracker/internal/infrastructure/http/handlers"
	"github.com/contribtrack/contribution-tracker/internal/infrastructure/storage"
)

// Static describes the non-API content served next to the API.
type Static struct {
	// UploadDir is served under /uploads when set (local storage backend).
	UploadDir string
	// Frontend is served at "/" with index.html as the directory index.
	Frontend fs.FS
}

// RegisterRoutes adds health probes and static content to e.
func RegisterRoutes(e *echo.Echo, checks map[string]handlers.Checker, static Static) {
	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(checks)

	e.GET("/healthz", healthHandler.Liveness)           // liveness: is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness: are dependencies up?

	// --- Static content ---
	if static.UploadDir != "" {
		e.Static(storage.PublicPrefix, static.UploadDir)
	}
	if static.Frontend != nil {
		e.StaticFS("/", static.Frontend)
	}
}
