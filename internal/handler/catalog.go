package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/match-ticket-booking/internal/service"
)

// CatalogHandler serves the public, read-only view of matches and their
// ticket types.
type CatalogHandler struct {
	Catalog *service.Catalog
}

func NewCatalogHandler(catalog *service.Catalog) *CatalogHandler {
	if catalog == nil {
		panic("nil catalog passed to NewCatalogHandler")
	}
	return &CatalogHandler{Catalog: catalog}
}

// ListMatches handles GET /v1/matches.  The optional active query
// parameter filters by listing state.
func (h *CatalogHandler) ListMatches(c echo.Context) error {
	var active *bool
	if raw := c.QueryParam("active"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return badRequest(c, "active must be true or false")
		}
		active = &v
	}
	matches, err := h.Catalog.ListMatches(c.Request().Context(), active)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": matches})
}

func (h *CatalogHandler) GetMatch(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid match id")
	}
	m, err := h.Catalog.GetMatch(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, m)
}

// ListTicketTypes handles GET /v1/matches/:id/ticket-types.  Unknown
// matches are reported as 404 rather than an empty list.
func (h *CatalogHandler) ListTicketTypes(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid match id")
	}
	ctx := c.Request().Context()
	if _, err := h.Catalog.GetMatch(ctx, id); err != nil {
		return writeError(c, err)
	}
	types, err := h.Catalog.ListTicketTypes(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": types})
}

func (h *CatalogHandler) GetTicketType(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid ticket type id")
	}
	t, err := h.Catalog.GetTicketType(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, t)
}
