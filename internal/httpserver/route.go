package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/hoversale/pkg/authclient"
	pkgdb "github.com/Skotchmaster/hoversale/pkg/db"
	"github.com/Skotchmaster/hoversale/pkg/logging"
	middleware "github.com/Skotchmaster/hoversale/pkg/middleware/auth"
)

type Deps struct {
	DB              *gorm.DB
	OrderHandler    *OrderHTTP
	AdminHandler    *AdminOrdersHTTP
	CartHandler     *CartHTTP
	WishlistHandler *WishlistHTTP
	AddressHandler  *AddressHTTP
	CatalogHandler  *CatalogHTTP
	PaymentHandler  *PaymentHTTP
	JWTSecret       []byte
	AuthClient      *authclient.Client
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", d.ready)

	authMW := middleware.NewAutoRefreshMiddleware(d.JWTSecret, d.AuthClient)

	api := e.Group("/api")

	order := api.Group("/order")
	order.GET("/track/:trackingId", d.OrderHandler.Track)

	user := order.Group("", authMW.RequireAuth)
	user.POST("/place", d.OrderHandler.PlaceOrder)
	user.PATCH("/:id/cancel", d.OrderHandler.CancelOrder)
	user.POST("/reorder/:orderId", d.OrderHandler.Reorder)
	user.POST("/reorder-custom", d.OrderHandler.ReorderCustom)
	user.GET("/user/:userId", d.OrderHandler.UserOrders)
	user.POST("/email-invoice", d.OrderHandler.EmailInvoice)
	order.PATCH("/:id/status", d.OrderHandler.UpdateStatus, authMW.RequireAdmin)

	cart := api.Group("/cart", authMW.RequireAuth)
	cart.GET("/:userId", d.CartHandler.GetCart)
	cart.POST("", d.CartHandler.AddToCart)
	cart.PUT("/update", d.CartHandler.UpdateQuantity)
	cart.DELETE("", d.CartHandler.RemoveFromCart)

	wishlist := api.Group("/wishlist", authMW.RequireAuth)
	wishlist.GET("/:userId", d.WishlistHandler.List)
	wishlist.POST("", d.WishlistHandler.Add)
	wishlist.DELETE("", d.WishlistHandler.Remove)

	addresses := api.Group("/user-addresses", authMW.RequireAuth)
	addresses.GET("/:userId", d.AddressHandler.List)
	addresses.POST("", d.AddressHandler.Save)

	products := api.Group("/products")
	products.GET("", d.CatalogHandler.GetProducts)
	products.GET("/search", d.CatalogHandler.Search)
	products.GET("/:category", d.CatalogHandler.ByCategory)
	api.GET("/categories", d.CatalogHandler.Categories)

	pay := api.Group("/pay")
	pay.GET("/razorpay-key", d.PaymentHandler.Key)
	pay.POST("/verify-payment", d.PaymentHandler.VerifyPayment, authMW.RequireAuth)

	admin := api.Group("/admin", authMW.RequireAdmin)
	admin.GET("/products", d.CatalogHandler.GetProducts)
	admin.POST("/products", d.CatalogHandler.CreateProduct)
	admin.PUT("/products/:id", d.CatalogHandler.UpdateProduct)
	admin.DELETE("/products/:id", d.CatalogHandler.DeleteProduct)
	admin.POST("/categories", d.CatalogHandler.CreateCategory)

	admin.GET("/orders/stats", d.AdminHandler.Stats)
	admin.GET("/orders/pending", d.AdminHandler.Pending)
	admin.GET("/orders/orders-with-items", d.AdminHandler.WithItems)
	admin.PUT("/orders/:id/status", d.AdminHandler.UpdateStatus)
	admin.PUT("/orders/:id/payment-status", d.AdminHandler.PaymentStatus)

	admin.GET("/dashboard", d.CatalogHandler.Dashboard)
	admin.GET("/dashboard/low-stock-products", d.CatalogHandler.LowStock)
	admin.GET("/dashboard/out-of-stock-products", d.CatalogHandler.OutOfStock)
}

func (d *Deps) ready(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()
	if err := pkgdb.Ping(ctx, d.DB); err != nil {
		logging.FromContext(ctx).Warn("ready_check_failed", "error", err)
		return c.NoContent(http.StatusServiceUnavailable)
	}
	return c.NoContent(http.StatusOK)
}
