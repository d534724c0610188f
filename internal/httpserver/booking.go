package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/marketplace/internal/service"
	"github.com/Skotchmaster/marketplace/internal/transport"
	"github.com/Skotchmaster/marketplace/pkg/logging"
)

type BookingHTTP struct {
	Svc *service.BookingService
}

func (h *BookingHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "booking.create")

	var req transport.CreateBookingRequest
	if err := bind(c, l, "create_booking_failed", &req); err != nil {
		return err
	}

	b, err := h.Svc.Create(ctx, userID(c), req)
	if err != nil {
		return failure{event: "create_booking_failed", entity: "Booking", internal: "Failed to create booking"}.respond(l, err)
	}

	l.Info("create_booking_success", "booking_id", b.ID.String())
	return c.JSON(http.StatusOK, transport.MessageResponse{Success: true, Message: "Booking created successfully", ID: b.ID.String()})
}

func (h *BookingHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "booking.list")

	items, err := h.Svc.List(ctx, userID(c))
	if err != nil {
		return failure{event: "list_bookings_failed", entity: "Booking", internal: "Failed to fetch bookings"}.respond(l, err)
	}
	return c.JSON(http.StatusOK, items)
}
