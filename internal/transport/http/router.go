package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/product_management/internal/handlers"
	"github.com/Skotchmaster/product_management/internal/middleware/auth"
)

type Deps struct {
	AuthHandler    *handlers.AuthHandler
	ProductHandler *handlers.ProductHandler
	SearchHandler  *handlers.SearchHandler
	Gate           *auth.Gate
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	e.POST("/auth/login", d.AuthHandler.Login)
	e.GET("/validate-token", d.AuthHandler.ValidateToken, d.Gate.Require(auth.Authenticated))

	api := e.Group("/api")

	api.GET("/search", d.SearchHandler.Search, d.Gate.Require(auth.Authenticated))

	products := api.Group("/products")

	products.GET("", d.ProductHandler.GetProducts, d.Gate.Require(auth.Authenticated))
	products.GET("/:id", d.ProductHandler.GetProduct, d.Gate.Require(auth.Authenticated))
	products.POST("", d.ProductHandler.CreateProduct, d.Gate.Require(auth.ReadWrite))
	products.DELETE("/:id", d.ProductHandler.DeleteProduct, d.Gate.Require(auth.ReadWrite))
}
