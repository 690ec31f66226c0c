package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/farmify/farmify-api/internal/handlers"
	authmw "github.com/farmify/farmify-api/internal/middleware/auth"
)

type Deps struct {
	JWTSecret []byte
	UploadDir string

	AuthHandler    *handlers.AuthHandler
	ProductHandler *handlers.ProductHandler
	OrderHandler   *handlers.OrderHandler
	PaymentHandler *handlers.PaymentHandler
	UserHandler    *handlers.UserHandler
	SearchHandler  *handlers.SearchHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	e.Static("/uploads", d.UploadDir)

	requireLogin := authmw.RequireLogin(d.JWTSecret)

	auth := e.Group("/auth")
	auth.POST("/signup", d.AuthHandler.Signup)
	auth.POST("/login", d.AuthHandler.Login)
	auth.POST("/refresh", d.AuthHandler.Refresh)
	auth.POST("/logout", d.AuthHandler.Logout)

	buyer := e.Group("/buyer")
	buyer.GET("/getallproducts", d.ProductHandler.GetProducts)
	if d.SearchHandler != nil {
		buyer.GET("/search", d.SearchHandler.Search)
	}
	buyer.GET("/getorder/:userId", d.OrderHandler.GetOrders, requireLogin)
	buyer.POST("/placeorder", d.OrderHandler.PlaceOrder, requireLogin)
	buyer.PUT("/editorder/:orderId", d.OrderHandler.EditOrder, requireLogin)
	buyer.DELETE("/deleteorder/:orderId", d.OrderHandler.DeleteOrder, requireLogin)

	admin := e.Group("/admin", requireLogin, authmw.AdminOnly())
	admin.GET("/getallusers", d.UserHandler.GetAllUsers)
	admin.POST("/products/add", d.ProductHandler.CreateProduct)
	admin.PUT("/editproduct/:id", d.ProductHandler.EditProduct)
	admin.DELETE("/deleteproduct/:id", d.ProductHandler.DeleteProduct)
	admin.GET("/getorders", d.OrderHandler.GetAllOrders)
	admin.PUT("/editorders/:id", d.OrderHandler.EditOrderStatus)
	admin.GET("/get/payments", d.PaymentHandler.ListPayments)

	payment := e.Group("/payment", requireLogin)
	payment.POST("/pay", d.PaymentHandler.Pay)
}
