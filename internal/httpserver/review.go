package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/marketplace/internal/service"
	"github.com/Skotchmaster/marketplace/internal/transport"
	"github.com/Skotchmaster/marketplace/pkg/logging"
)

type ReviewHTTP struct {
	Svc *service.ReviewService
}

func (h *ReviewHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.create")

	var req transport.CreateReviewRequest
	if err := bind(c, l, "create_review_failed", &req); err != nil {
		return err
	}

	agg, err := h.Svc.Submit(ctx, userID(c), req.ItemID, req.ItemType, req.Rating, req.Comment)
	if err != nil {
		return failure{event: "create_review_failed", entity: "Review", internal: "Failed to create review"}.respond(l, err)
	}

	id := agg.Review.ID.String()
	l.Info("create_review_success", "review_id", id, "rating_update", string(agg.Rating.Status))
	return c.JSON(http.StatusOK, transport.MessageResponse{Success: true, Message: "Review created successfully", ID: id})
}

func (h *ReviewHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.list")

	items, err := h.Svc.List(ctx, c.Param("item_type"), c.Param("item_id"))
	if err != nil {
		return failure{event: "list_reviews_failed", entity: "Review", internal: "Failed to fetch reviews"}.respond(l, err)
	}
	return c.JSON(http.StatusOK, items)
}
