// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/Josey34/multivendor-api-project/internal/config"
	"github.com/Josey34/multivendor-api-project/internal/domain/cart"
	"github.com/Josey34/multivendor-api-project/internal/domain/checkout"
	"github.com/Josey34/multivendor-api-project/internal/domain/inventory"
	"github.com/Josey34/multivendor-api-project/internal/domain/order"
	"github.com/Josey34/multivendor-api-project/internal/domain/product"
	"github.com/Josey34/multivendor-api-project/internal/domain/user"
	"github.com/Josey34/multivendor-api-project/internal/interfaces/http/handlers"
	"github.com/Josey34/multivendor-api-project/internal/interfaces/http/middleware"
	"github.com/Josey34/multivendor-api-project/internal/pkg/auth"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Dependencies are the collaborators the API is built from
type Dependencies struct {
	Config     *config.Config
	Logger     logrus.FieldLogger
	DB         *gorm.DB
	StatsCache order.StatsCache // nil disables statistics caching
	Invoices   handlers.InvoiceRenderer
}

// SetupRoutes wires every service and handler under rg
func SetupRoutes(rg *gin.RouterGroup, deps Dependencies) {
	cfg := deps.Config
	perPage := cfg.Commerce.PageSize

	inventoryService := inventory.NewService(deps.DB)
	userService := user.NewService(deps.DB, cfg)
	orderService := order.NewService(deps.DB, inventoryService, deps.StatsCache, deps.Logger)

	requireAuth := middleware.Auth(auth.NewJWTManager(cfg))

	SetupAuthRoutes(rg, requireAuth,
		handlers.NewAuthHandler(userService),
		handlers.NewUserProfileHandler(userService))
	SetupAddressRoutes(rg, requireAuth,
		handlers.NewUserAddressHandler(user.NewAddressService(deps.DB)))
	productService := product.NewService(deps.DB)
	SetupProductRoutes(rg, requireAuth,
		handlers.NewProductHandler(productService, product.NewReviewService(deps.DB), perPage),
		handlers.NewCategoryHandler(productService),
		handlers.NewBrandHandler(productService))
	SetupCartRoutes(rg, requireAuth,
		handlers.NewCartHandler(cart.NewService(deps.DB)),
		handlers.NewCheckoutHandler(checkout.NewService(deps.DB, inventoryService, deps.StatsCache, deps.Logger, cfg)))

	orderHandler := handlers.NewOrderHandler(orderService, perPage)
	SetupOrderRoutes(rg, requireAuth, orderHandler,
		handlers.NewInvoiceHandler(orderService, deps.Invoices))
	SetupVendorRoutes(rg, requireAuth, orderHandler,
		handlers.NewVendorProductHandler(product.NewVendorService(deps.DB, inventoryService), perPage),
		handlers.NewInventoryHandler(inventoryService, perPage))
}

// SetupAuthRoutes sets up authentication related routes
func SetupAuthRoutes(rg *gin.RouterGroup, requireAuth gin.HandlerFunc, authHandler *handlers.AuthHandler, profileHandler *handlers.UserProfileHandler) {
	authGroup := rg.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.RefreshToken)

		protected := authGroup.Group("", requireAuth)
		protected.GET("/profile", profileHandler.GetProfile)
		protected.POST("/vendor/register", authHandler.RegisterVendor)
	}
}

// SetupAddressRoutes sets up the address book
func SetupAddressRoutes(rg *gin.RouterGroup, requireAuth gin.HandlerFunc, addressHandler *handlers.UserAddressHandler) {
	addresses := rg.Group("/addresses", requireAuth)
	{
		addresses.GET("", addressHandler.GetAddresses)
		addresses.POST("", addressHandler.CreateAddress)
		addresses.GET("/default", addressHandler.GetDefaultAddress)
		addresses.GET("/:id", addressHandler.GetAddress)
		addresses.PUT("/:id", addressHandler.UpdateAddress)
		addresses.DELETE("/:id", addressHandler.DeleteAddress)
		addresses.PUT("/:id/default", addressHandler.SetDefaultAddress)
	}
}

// SetupProductRoutes sets up product related routes
func SetupProductRoutes(rg *gin.RouterGroup, requireAuth gin.HandlerFunc, productHandler *handlers.ProductHandler, categoryHandler *handlers.CategoryHandler, brandHandler *handlers.BrandHandler) {
	rg.GET("/categories", categoryHandler.GetCategories)
	rg.GET("/brands", brandHandler.GetBrands)
	rg.GET("/brands/:slug", brandHandler.GetBrand)

	products := rg.Group("/products")
	{
		products.GET("", productHandler.GetProducts)
		products.GET("/:slug", productHandler.GetProductBySlug)
		products.GET("/:slug/reviews", productHandler.GetReviews)
		products.POST("/:slug/reviews", requireAuth, productHandler.CreateReview)
	}
}

// SetupCartRoutes sets up cart and checkout routes
func SetupCartRoutes(rg *gin.RouterGroup, requireAuth gin.HandlerFunc, cartHandler *handlers.CartHandler, checkoutHandler *handlers.CheckoutHandler) {
	cartGroup := rg.Group("/cart", requireAuth)
	{
		cartGroup.GET("", cartHandler.GetCart)
		cartGroup.GET("/items", cartHandler.GetItems)
		cartGroup.POST("/items", cartHandler.AddToCart)
		cartGroup.PUT("/items/:id", cartHandler.UpdateCartItem)
		cartGroup.DELETE("/items/:id", cartHandler.RemoveFromCart)
		cartGroup.DELETE("/clear", cartHandler.ClearCart)
	}

	checkoutGroup := rg.Group("/checkout", requireAuth)
	{
		checkoutGroup.GET("/summary", checkoutHandler.GetCheckoutSummary)
		checkoutGroup.POST("", checkoutHandler.PlaceOrder)
	}
}

// SetupOrderRoutes sets up customer order routes
func SetupOrderRoutes(rg *gin.RouterGroup, requireAuth gin.HandlerFunc, orderHandler *handlers.OrderHandler, invoiceHandler *handlers.InvoiceHandler) {
	orders := rg.Group("/orders", requireAuth)
	{
		orders.GET("", orderHandler.GetOrders)
		orders.GET("/:order_number", orderHandler.GetOrder)
		orders.POST("/:order_number/cancel", orderHandler.CancelOrder)
		orders.GET("/:order_number/invoice", invoiceHandler.GenerateInvoice)
	}
}

// SetupVendorRoutes sets up routes for the caller's own shop
func SetupVendorRoutes(rg *gin.RouterGroup, requireAuth gin.HandlerFunc, orderHandler *handlers.OrderHandler, productHandler *handlers.VendorProductHandler, inventoryHandler *handlers.InventoryHandler) {
	vendor := rg.Group("/vendor", requireAuth, middleware.VendorOnly())
	{
		vendor.GET("/orders", orderHandler.GetVendorOrders)
		vendor.GET("/orders/statistics", orderHandler.GetOrderStatistics)
		vendor.GET("/orders/:order_number", orderHandler.GetVendorOrder)
		vendor.PUT("/orders/:order_number/status", orderHandler.UpdateOrderStatus)
		vendor.GET("/products", productHandler.GetProducts)
		vendor.POST("/products", productHandler.CreateProduct)
		vendor.GET("/products/:id", productHandler.GetProduct)
		vendor.PUT("/products/:id", productHandler.UpdateProduct)
		vendor.DELETE("/products/:id", productHandler.DeleteProduct)
		vendor.GET("/products/:id/stock-movements", inventoryHandler.GetStockMovements)
	}
}
