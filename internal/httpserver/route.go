package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/marketplace/internal/metrics"
	pkgdb "github.com/Skotchmaster/marketplace/pkg/db"
	authmw "github.com/Skotchmaster/marketplace/pkg/middleware/auth"
)

type Deps struct {
	DB       *gorm.DB
	Metrics  *metrics.Metrics
	Verifier authmw.Verifier

	AuthHandler     *AuthHTTP
	CatalogHandler  *CatalogHTTP
	BookingHandler  *BookingHTTP
	PurchaseHandler *PurchaseHTTP
	ReviewHandler   *ReviewHTTP
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if err := pkgdb.Ping(c.Request().Context(), d.DB); err != nil {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "database unavailable")
		}
		return c.NoContent(http.StatusOK)
	})
	if d.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(d.Metrics.Handler()))
	}

	requireAuth := authmw.NewBearerMiddleware(d.Verifier).RequireAuth

	api := e.Group("/api")

	api.POST("/auth/signup", d.AuthHandler.Signup)
	api.POST("/auth/login", d.AuthHandler.Login)

	api.GET("/services", d.CatalogHandler.ListServices)
	api.GET("/services/:id", d.CatalogHandler.GetService)
	api.POST("/services", d.CatalogHandler.CreateService, requireAuth)

	api.GET("/products", d.CatalogHandler.ListProducts)
	api.GET("/products/:id", d.CatalogHandler.GetProduct)
	api.POST("/products", d.CatalogHandler.CreateProduct, requireAuth)

	api.GET("/niche/:type", d.CatalogHandler.Niche)

	bookings := api.Group("/bookings", requireAuth)
	bookings.POST("", d.BookingHandler.Create)
	bookings.GET("", d.BookingHandler.List)

	purchases := api.Group("/purchases", requireAuth)
	purchases.POST("", d.PurchaseHandler.Create)
	purchases.GET("", d.PurchaseHandler.List)

	api.POST("/reviews", d.ReviewHandler.Create, requireAuth)
	api.GET("/reviews/:item_type/:item_id", d.ReviewHandler.List)
}
