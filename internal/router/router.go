// Package router wires handlers and middleware onto an echo instance.
package router

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/match-ticket-booking/internal/config"
	"github.com/iliyamo/match-ticket-booking/internal/handler"
	"github.com/iliyamo/match-ticket-booking/internal/logging"
	"github.com/iliyamo/match-ticket-booking/internal/middleware"
)

// Deps is everything the route table needs.  Redis may be nil, in which
// case rate limiting and response caching are skipped.
type Deps struct {
	Catalog  *handler.CatalogHandler
	Bookings *handler.BookingHandler
	Channels *handler.PaymentChannelHandler
	Admin    *handler.AdminHandler
	Verifier middleware.CredentialVerifier

	Redis        *redis.Client
	BookingLimit config.RateLimitConfig
	LoginLimit   config.RateLimitConfig
	Cache        config.CacheConfig
}

// New returns an echo instance with the global middleware chain and every
// route registered.
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{
		Generator: func() string { return uuid.NewString() },
	}))
	e.Use(logging.Middleware())
	e.Use(echomw.Recover())

	RegisterRoutes(e)
	RegisterPublic(e, d)
	RegisterAdmin(e, d)
	return e
}

// RegisterRoutes registers the unauthenticated operational endpoints.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}
