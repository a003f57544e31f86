package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/match-ticket-booking/internal/middleware"
)

// RegisterPublic registers the customer-facing routes.  Only match reads
// are cached; ticket types carry live seat counts.
func RegisterPublic(e *echo.Echo, d Deps) {
	cache := middleware.NewRedisCache(d.Cache, d.Redis)

	v1 := e.Group("/v1")
	v1.GET("/matches", d.Catalog.ListMatches, cache)
	v1.GET("/matches/:id", d.Catalog.GetMatch, cache)
	v1.GET("/matches/:id/ticket-types", d.Catalog.ListTicketTypes)
	v1.GET("/ticket-types/:id", d.Catalog.GetTicketType)

	v1.POST("/bookings", d.Bookings.Create, middleware.NewTokenBucket(d.BookingLimit, d.Redis))
	v1.GET("/bookings", d.Bookings.ListByEmail)
	v1.GET("/bookings/:ref", d.Bookings.Get)
	v1.PATCH("/bookings/:ref/payment", d.Bookings.AttachPayment)

	v1.GET("/payment-channel", d.Channels.Active)
}
