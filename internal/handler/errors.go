package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/match-ticket-booking/internal/logging"
	"github.com/iliyamo/match-ticket-booking/internal/service"
)

// writeError maps a service error onto a status code.  Validation and
// lifecycle messages are returned as-is; storage failures are logged and
// hidden behind a generic message.
func writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrInsufficientInventory):
		return c.JSON(http.StatusConflict, echo.Map{"error": service.ErrInsufficientInventory.Error()})
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, service.ErrInvalidStatus):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	}
	logging.FromContext(c.Request().Context()).WithError(err).
		WithField("path", c.Path()).Error("request failed")
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
}

// parseID reads a positive integer path parameter.
func parseID(c echo.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Param(name)), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
