package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/marketplace/internal/service"
	"github.com/Skotchmaster/marketplace/internal/transport"
	"github.com/Skotchmaster/marketplace/pkg/logging"
)

type PurchaseHTTP struct {
	Svc *service.PurchaseService
}

// Create settles the purchase. A failed download counter update is logged by
// the service and does not change the response.
func (h *PurchaseHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "purchase.create")

	var req transport.CreatePurchaseRequest
	if err := bind(c, l, "create_purchase_failed", &req); err != nil {
		return err
	}

	res, err := h.Svc.Settle(ctx, userID(c), req.ProductID, req.PaymentMethod)
	if err != nil {
		return failure{event: "create_purchase_failed", entity: "Product", internal: "Failed to create purchase"}.respond(l, err)
	}

	p := res.Purchase
	l.Info("create_purchase_success", "purchase_id", p.ID.String(), "counter", string(res.Counter.Status))
	return c.JSON(http.StatusOK, transport.PurchaseResponse{
		Success:     true,
		Message:     "Purchase successful",
		DownloadURL: p.DownloadURL,
		PurchaseID:  p.ID.String(),
	})
}

func (h *PurchaseHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "purchase.list")

	items, err := h.Svc.List(ctx, userID(c))
	if err != nil {
		return failure{event: "list_purchases_failed", entity: "Purchase", internal: "Failed to fetch purchases"}.respond(l, err)
	}
	return c.JSON(http.StatusOK, items)
}
