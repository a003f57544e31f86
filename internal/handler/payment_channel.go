package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/match-ticket-booking/internal/service"
)

type PaymentChannelHandler struct {
	Channels *service.PaymentChannels
}

func NewPaymentChannelHandler(channels *service.PaymentChannels) *PaymentChannelHandler {
	if channels == nil {
		panic("nil payment channels passed to NewPaymentChannelHandler")
	}
	return &PaymentChannelHandler{Channels: channels}
}

// Active handles GET /v1/payment-channel.
func (h *PaymentChannelHandler) Active(c echo.Context) error {
	ch, ok, err := h.Channels.Active(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no active payment channel"})
	}
	return c.JSON(http.StatusOK, ch)
}
