package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/match-ticket-booking/internal/logging"
	"github.com/iliyamo/match-ticket-booking/internal/middleware"
	"github.com/iliyamo/match-ticket-booking/internal/model"
	"github.com/iliyamo/match-ticket-booking/internal/service"
)

// AdminHandler bundles the services behind the /v1/admin routes.  Every
// route except Login runs behind middleware.AdminAuth.
type AdminHandler struct {
	Catalog     *service.Catalog
	Inventory   *service.Inventory
	Bookings    *service.Bookings
	Channels    *service.PaymentChannels
	Credentials *service.Credentials
}

// NewAdminHandler panics if any dependency is nil.
func NewAdminHandler(catalog *service.Catalog, inventory *service.Inventory, bookings *service.Bookings, channels *service.PaymentChannels, creds *service.Credentials) *AdminHandler {
	if catalog == nil || inventory == nil || bookings == nil || channels == nil || creds == nil {
		panic("nil service passed to NewAdminHandler")
	}
	return &AdminHandler{
		Catalog:     catalog,
		Inventory:   inventory,
		Bookings:    bookings,
		Channels:    channels,
		Credentials: creds,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type restockRequest struct {
	Quantity int `json:"quantity"`
}

type statusRequest struct {
	Status string `json:"status"`
}

// Login checks a username/password pair and returns the admin identity.
// No session is issued; clients send Basic credentials on each admin call.
func (h *AdminHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return badRequest(c, "username and password are required")
	}
	ctx := c.Request().Context()
	id, ok, err := h.Credentials.Verify(ctx, req.Username, req.Password)
	if err != nil {
		return writeError(c, err)
	}
	if !ok {
		logging.FromContext(ctx).WithField("username", req.Username).Warn("admin login rejected")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	return c.JSON(http.StatusOK, id)
}

func (h *AdminHandler) CreateMatch(c echo.Context) error {
	var in service.CreateMatchInput
	if err := c.Bind(&in); err != nil {
		return badRequest(c, "invalid request body")
	}
	m, err := h.Catalog.CreateMatch(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, m)
}

func (h *AdminHandler) UpdateMatch(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid match id")
	}
	var patch model.MatchPatch
	if err := c.Bind(&patch); err != nil {
		return badRequest(c, "invalid request body")
	}
	m, err := h.Catalog.UpdateMatch(c.Request().Context(), id, patch)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, m)
}

// DeleteMatch answers 409 while ticket types or bookings still refer to
// the match.
func (h *AdminHandler) DeleteMatch(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid match id")
	}
	if err := h.Catalog.DeleteMatch(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminHandler) CreateTicketType(c echo.Context) error {
	var in service.CreateTicketTypeInput
	if err := c.Bind(&in); err != nil {
		return badRequest(c, "invalid request body")
	}
	t, err := h.Catalog.CreateTicketType(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, t)
}

func (h *AdminHandler) UpdateTicketType(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid ticket type id")
	}
	var patch model.TicketTypePatch
	if err := c.Bind(&patch); err != nil {
		return badRequest(c, "invalid request body")
	}
	t, err := h.Catalog.UpdateTicketType(c.Request().Context(), id, patch)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

func (h *AdminHandler) DeleteTicketType(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid ticket type id")
	}
	if err := h.Catalog.DeleteTicketType(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Restock returns seats to a ticket type, capped at its total.
func (h *AdminHandler) Restock(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid ticket type id")
	}
	var req restockRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	t, err := h.Inventory.Restock(c.Request().Context(), id, req.Quantity)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

func (h *AdminHandler) ListBookings(c echo.Context) error {
	items, err := h.Bookings.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// SetBookingStatus approves or rejects a booking.
func (h *AdminHandler) SetBookingStatus(c echo.Context) error {
	var req statusRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	ctx := c.Request().Context()
	b, err := h.Bookings.SetStatus(ctx, c.Param("ref"), req.Status)
	if err != nil {
		return writeError(c, err)
	}
	if admin, ok := middleware.CurrentAdmin(c); ok {
		logging.FromContext(ctx).WithField("booking_ref", b.BookingRef).
			WithField("status", b.Status).
			Infof("booking status set by %s", admin.Username)
	}
	return c.JSON(http.StatusOK, b)
}

func (h *AdminHandler) CreatePaymentChannel(c echo.Context) error {
	var in service.CreatePaymentChannelInput
	if err := c.Bind(&in); err != nil {
		return badRequest(c, "invalid request body")
	}
	ch, err := h.Channels.Create(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, ch)
}

func (h *AdminHandler) UpdatePaymentChannel(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid payment channel id")
	}
	var patch model.PaymentChannelPatch
	if err := c.Bind(&patch); err != nil {
		return badRequest(c, "invalid request body")
	}
	ch, err := h.Channels.Update(c.Request().Context(), id, patch)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, ch)
}
