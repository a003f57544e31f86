package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/match-ticket-booking/internal/middleware"
)

// RegisterAdmin registers /v1/admin.  Login is rate limited and open;
// everything else requires Basic credentials, and successful writes purge
// the catalog cache.
func RegisterAdmin(e *echo.Echo, d Deps) {
	e.POST("/v1/admin/login", d.Admin.Login, middleware.NewTokenBucket(d.LoginLimit, d.Redis))

	g := e.Group("/v1/admin",
		middleware.AdminAuth(d.Verifier),
		middleware.NewCacheInvalidator(d.Cache, d.Redis),
	)
	g.POST("/matches", d.Admin.CreateMatch)
	g.PATCH("/matches/:id", d.Admin.UpdateMatch)
	g.DELETE("/matches/:id", d.Admin.DeleteMatch)

	g.POST("/ticket-types", d.Admin.CreateTicketType)
	g.PATCH("/ticket-types/:id", d.Admin.UpdateTicketType)
	g.DELETE("/ticket-types/:id", d.Admin.DeleteTicketType)
	g.POST("/ticket-types/:id/restock", d.Admin.Restock)

	g.GET("/bookings", d.Admin.ListBookings)
	g.PATCH("/bookings/:ref/status", d.Admin.SetBookingStatus)

	g.POST("/payment-channels", d.Admin.CreatePaymentChannel)
	g.PATCH("/payment-channels/:id", d.Admin.UpdatePaymentChannel)
}
