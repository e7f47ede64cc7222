package httpserver

import (
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/ecomarket/storefront/internal/authn"
	"github.com/ecomarket/storefront/internal/handlers"
)

type Deps struct {
	DB             *gorm.DB
	AuthHandler    *handlers.AuthHandler
	ProductHandler *handlers.ProductHandler
	OrderHandler   *handlers.OrderHandler
	AdminHandler   *handlers.AdminHandler
	SearchHandler  *handlers.SearchHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	auth := e.Group("/auth")
	auth.POST("/register", d.AuthHandler.Register)
	auth.POST("/login", d.AuthHandler.Login)
	auth.POST("/refresh", d.AuthHandler.Refresh)

	products := e.Group("/api/products")
	products.GET("", d.ProductHandler.GetProducts)
	if d.SearchHandler != nil {
		products.GET("/search", d.SearchHandler.Search)
	}
	products.GET("/:id", d.ProductHandler.GetProduct, authn.Require("products.get"))
	products.GET("/:id/stock", d.ProductHandler.GetProductStock, authn.Require("products.stock"))
	products.POST("", d.ProductHandler.CreateProduct, authn.Require("products.create"))
	products.PUT("/:id", d.ProductHandler.UpdateProduct, authn.Require("products.update"))
	products.DELETE("/:id", d.ProductHandler.DeleteProduct, authn.Require("products.delete"))

	orders := e.Group("/api/orders")
	orders.POST("", d.OrderHandler.CreateOrder, authn.Require("orders.create"))
	orders.GET("", d.OrderHandler.GetUserOrders, authn.Require("orders.list_own"))
	orders.GET("/all", d.OrderHandler.GetAllOrders, authn.Require("orders.list_all"))
	orders.PUT("/:id/status", d.OrderHandler.UpdateOrderStatus, authn.Require("orders.set_status"))
	orders.GET("/user/:userId", d.OrderHandler.GetOrdersByUser, authn.Require("orders.list_by_user"))

	admin := e.Group("/admin")
	admin.GET("/ping", d.AdminHandler.Ping)
	admin.GET("/users", d.AdminHandler.ListUsers, authn.Require("admin.list_users"))
	admin.POST("/roles/assign", d.AdminHandler.AssignPermission, authn.Require("admin.assign_perm"))
}
