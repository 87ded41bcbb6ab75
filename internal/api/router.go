package api

import (
	"sync"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	// Registers the OpenAPI document served under /swagger.
	_ "github.com/bountyboard/points-ledger/docs"
	"github.com/bountyboard/points-ledger/internal/api/handler"
	"github.com/bountyboard/points-ledger/internal/api/middleware"
	"github.com/bountyboard/points-ledger/internal/core/domain"
	"github.com/bountyboard/points-ledger/internal/core/ports"
)

// httpMetrics registers the echoprometheus collectors once per process.
var httpMetrics = sync.OnceValue(func() echo.MiddlewareFunc {
	return echoprometheus.NewMiddleware("points_http")
})

// Deps carries everything the HTTP surface needs. Webhook is nil unless the
// bot runs in webhook mode.
type Deps struct {
	Ledger  ports.LedgerService
	Auth    ports.AuthService
	Webhook *handler.WebhookHandler
	Health  map[string]ports.Pinger
	AuthCfg middleware.AuthConfig
	Log     zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(httpMetrics())

	// --- Operational routes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.Health)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Auth ---
	authHandler := handler.NewAuthHandler(d.Auth)
	e.POST("/auth/token", authHandler.Token)

	// --- Ledger ---
	ledgerHandler := handler.NewLedgerHandler(d.Ledger)
	auth := middleware.Auth(d.AuthCfg)

	v1 := e.Group("/v1")
	v1.GET("/leaderboard", ledgerHandler.Leaderboard)
	v1.GET("/me", ledgerHandler.Me, auth)
	v1.POST("/adjustments", ledgerHandler.Adjust, auth)
	v1.GET("/ledger", ledgerHandler.Ledger, auth, middleware.RBAC(domain.RoleOperator))

	// --- Telegram ---
	if d.Webhook != nil {
		e.POST("/telegram/webhook", d.Webhook.Receive)
	}

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Error != nil {
				evt = log.Warn().Err(v.Error)
			}
			evt.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
