package api

import (
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/contribtrack/contribution-tracker/docs"
	"github.com/contribtrack/contribution-tracker/internal/api/handler"
	"github.com/contribtrack/contribution-tracker/internal/api/middleware"
	"github.com/contribtrack/contribution-tracker/internal/core/ports"
	infrahttp "github.com/contribtrack/contribution-tracker/internal/infrastructure/http"
	"github.com/contribtrack/contribution-tracker/internal/infrastructure/http/handlers"
)

// Deps carries everything the router wires together.
type Deps struct {
	Logger        zerolog.Logger
	Auth          ports.AuthService
	Tokens        ports.TokenService
	Contributions ports.ContributionService
	Export        ports.ExportService

	// Limiter throttles the auth endpoints; nil disables throttling.
	Limiter middleware.Limiter
	Checks  map[string]handlers.Checker

	AllowedOrigins []string
	// TrustedProxies lists the CIDRs whose X-Forwarded-For is believed. When
	// empty the client IP is the socket peer.
	TrustedProxies []string
	// MaxBodyBytes caps request bodies; zero means no cap.
	MaxBodyBytes int64
	// UploadDir is served under /uploads when set.
	UploadDir string
	Frontend  fs.FS
	// Metrics registers the Prometheus middleware and /metrics. It registers
	// collectors globally, so it can only be enabled once per process.
	Metrics bool
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.IPExtractor = ipExtractor(d.TrustedProxies)
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger(d.Logger))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: d.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{
			echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept,
			echo.HeaderAuthorization, "x-access-token",
		},
		ExposeHeaders: []string{echo.HeaderContentDisposition},
	}))
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:      "0",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "SAMEORIGIN",
		ReferrerPolicy:     "no-referrer",
	}))
	if d.MaxBodyBytes > 0 {
		e.Use(echomiddleware.BodyLimit(fmt.Sprintf("%dB", d.MaxBodyBytes)))
	}
	if d.Metrics {
		e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
			Subsystem: "http",
			Skipper: func(c echo.Context) bool {
				p := c.Path()
				return p == "/metrics" || p == "/healthz" || p == "/health/ready"
			},
		}))
		e.GET("/metrics", echoprometheus.NewHandler())
	}

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(d.Auth)
	contributionHandler := handler.NewContributionHandler(d.Contributions, d.Export)
	authMiddleware := middleware.Auth(d.Tokens)

	api := e.Group("/api")

	// --- Auth routes ---
	auth := api.Group("/auth")
	if d.Limiter != nil {
		auth.Use(middleware.RateLimit(d.Limiter, d.Logger))
	}
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// --- Contribution routes (owner-scoped) ---
	contributions := api.Group("/contributions", authMiddleware)
	contributions.POST("", contributionHandler.Create)
	contributions.GET("", contributionHandler.List)
	contributions.GET("/export/csv", contributionHandler.ExportCSV)
	contributions.GET("/:id", contributionHandler.Get)
	contributions.PUT("/:id", contributionHandler.Update)
	contributions.DELETE("/:id", contributionHandler.Delete)

	// --- Docs ---
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Health probes and static content ---
	infrahttp.RegisterRoutes(e, d.Checks, infrahttp.Static{
		UploadDir: d.UploadDir,
		Frontend:  d.Frontend,
	})

	return e
}

// ipExtractor decides what c.RealIP returns, which keys the login throttle.
// Only the listed proxy ranges are trusted; echo's default trust of private
// and loopback peers is switched off.
func ipExtractor(trusted []string) echo.IPExtractor {
	if len(trusted) == 0 {
		return echo.ExtractIPDirect()
	}
	opts := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, cidr := range trusted {
		if _, ipNet, err := net.ParseCIDR(cidr); err == nil {
			opts = append(opts, echo.TrustIPRange(ipNet))
		}
	}
	return echo.ExtractIPFromXFFHeader(opts...)
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= http.StatusInternalServerError {
				ev = log.Error()
			}
			// tokens may travel in the query string
			uri := v.URI
			if i := strings.IndexByte(uri, '?'); i >= 0 {
				uri = uri[:i]
			}
			ev.Str("method", v.Method).
				Str("uri", uri).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
