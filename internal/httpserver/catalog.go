package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/marketplace/internal/query"
	"github.com/Skotchmaster/marketplace/internal/service"
	"github.com/Skotchmaster/marketplace/internal/transport"
	"github.com/Skotchmaster/marketplace/pkg/logging"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

// listing builds the query options shared by the service and product lists.
// Products have no location, so only services read that parameter.
func listing(c echo.Context, withLocation bool) (query.Listing, error) {
	sort, err := query.ParseSort(c.QueryParam("sort"))
	if err != nil {
		return query.Listing{}, err
	}
	l := query.Listing{
		Category: c.QueryParam("category"),
		Search:   c.QueryParam("search"),
		Sort:     sort,
	}
	if withLocation {
		l.Location = c.QueryParam("location")
	}
	return l, l.Validate()
}

func (h *CatalogHTTP) ListServices(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.list_services")
	fail := failure{event: "list_services_failed", entity: "Service", internal: "Failed to fetch services"}

	opts, err := listing(c, true)
	if err != nil {
		return fail.respond(l, err)
	}
	items, err := h.Svc.ListServices(ctx, opts)
	if err != nil {
		return fail.respond(l, err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CatalogHTTP) GetService(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.get_service")

	item, err := h.Svc.GetService(ctx, c.Param("id"))
	if err != nil {
		return failure{event: "get_service_failed", entity: "Service", internal: "Failed to fetch service"}.respond(l, err)
	}
	return c.JSON(http.StatusOK, item)
}

func (h *CatalogHTTP) CreateService(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.create_service")

	var req transport.CreateServiceRequest
	if err := bind(c, l, "create_service_failed", &req); err != nil {
		return err
	}

	item, err := h.Svc.CreateService(ctx, userID(c), req)
	if err != nil {
		return failure{event: "create_service_failed", entity: "Service", internal: "Failed to create service"}.respond(l, err)
	}

	l.Info("create_service_success", "service_id", item.ID.String())
	return c.JSON(http.StatusOK, transport.MessageResponse{Success: true, Message: "Service created successfully", ID: item.ID.String()})
}

func (h *CatalogHTTP) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.list_products")
	fail := failure{event: "list_products_failed", entity: "Product", internal: "Failed to fetch products"}

	opts, err := listing(c, false)
	if err != nil {
		return fail.respond(l, err)
	}
	items, err := h.Svc.ListProducts(ctx, opts)
	if err != nil {
		return fail.respond(l, err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.get_product")

	item, err := h.Svc.GetProduct(ctx, c.Param("id"))
	if err != nil {
		return failure{event: "get_product_failed", entity: "Product", internal: "Failed to fetch product"}.respond(l, err)
	}
	return c.JSON(http.StatusOK, item)
}

func (h *CatalogHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.create_product")

	var req transport.CreateProductRequest
	if err := bind(c, l, "create_product_failed", &req); err != nil {
		return err
	}

	item, err := h.Svc.CreateProduct(ctx, userID(c), req)
	if err != nil {
		return failure{event: "create_product_failed", entity: "Product", internal: "Failed to create product"}.respond(l, err)
	}

	l.Info("create_product_success", "product_id", item.ID.String())
	return c.JSON(http.StatusOK, transport.MessageResponse{Success: true, Message: "Product created successfully", ID: item.ID.String()})
}

func (h *CatalogHTTP) Niche(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.niche")
	fail := failure{event: "niche_failed", entity: "Product", internal: "Failed to fetch niche products"}

	sort, err := query.ParseSort(c.QueryParam("sort"))
	if err != nil {
		return fail.respond(l, err)
	}
	items, err := h.Svc.Niche(ctx, c.Param("type"), c.QueryParam("search"), sort)
	if err != nil {
		return fail.respond(l, err)
	}
	return c.JSON(http.StatusOK, items)
}
