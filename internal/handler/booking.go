package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/match-ticket-booking/internal/service"
)

// BookingHandler exposes the customer side of the booking lifecycle.
type BookingHandler struct {
	Bookings *service.Bookings
}

func NewBookingHandler(bookings *service.Bookings) *BookingHandler {
	if bookings == nil {
		panic("nil bookings passed to NewBookingHandler")
	}
	return &BookingHandler{Bookings: bookings}
}

// paymentRequest is the body of PATCH /v1/bookings/:ref/payment.
type paymentRequest struct {
	PaymentMethod string `json:"paymentMethod"`
	UTRNumber     string `json:"utrNumber"`
}

// Create handles POST /v1/bookings.  Seats are reserved before the
// booking row is written; a 409 means the ticket type ran short.
func (h *BookingHandler) Create(c echo.Context) error {
	var in service.CreateBookingInput
	if err := c.Bind(&in); err != nil {
		return badRequest(c, "invalid request body")
	}
	b, err := h.Bookings.Create(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, b)
}

func (h *BookingHandler) Get(c echo.Context) error {
	b, err := h.Bookings.Get(c.Request().Context(), c.Param("ref"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, b)
}

// ListByEmail handles GET /v1/bookings?email=.
func (h *BookingHandler) ListByEmail(c echo.Context) error {
	items, err := h.Bookings.ListByEmail(c.Request().Context(), c.QueryParam("email"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// AttachPayment records the customer's payment proof.
func (h *BookingHandler) AttachPayment(c echo.Context) error {
	var req paymentRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	b, err := h.Bookings.AttachPayment(c.Request().Context(), c.Param("ref"), req.PaymentMethod, req.UTRNumber)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, b)
}
