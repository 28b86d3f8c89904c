// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/your-org/fashion-storefront/internal/interfaces/http/handlers"
	"github.com/your-org/fashion-storefront/internal/interfaces/http/middleware"
	"github.com/your-org/fashion-storefront/internal/pkg/auth"
)

// Handlers groups every HTTP handler the API exposes
type Handlers struct {
	Auth     *handlers.AuthHandler
	Profile  *handlers.UserProfileHandler
	Product  *handlers.ProductHandler
	Cart     *handlers.CartHandler
	Checkout *handlers.CheckoutHandler
	Order    *handlers.OrderHandler
	Admin    *handlers.AdminHandler
	Users    *handlers.UserAdminHandler
}

// SetupRoutes registers all API routes on rg
func SetupRoutes(rg *gin.RouterGroup, h *Handlers, jwt *auth.JWTManager) {
	SetupAuthRoutes(rg, h, jwt)
	SetupProductRoutes(rg, h)
	SetupCartRoutes(rg, h, jwt)
	SetupOrderRoutes(rg, h, jwt)
	SetupAdminRoutes(rg, h, jwt)
}

// SetupAuthRoutes sets up authentication and profile routes
func SetupAuthRoutes(rg *gin.RouterGroup, h *Handlers, jwt *auth.JWTManager) {
	authGroup := rg.Group("/auth")
	{
		authGroup.POST("/register", h.Auth.Register)
		authGroup.POST("/login", h.Auth.Login)
		authGroup.POST("/refresh", h.Auth.RefreshToken)
		authGroup.GET("/verify-email", h.Auth.VerifyEmail)

		protected := authGroup.Group("")
		protected.Use(middleware.AuthMiddleware(jwt))
		{
			protected.POST("/logout", h.Auth.Logout)
			protected.POST("/resend-verification", h.Auth.ResendVerification)
			protected.GET("/profile", h.Profile.GetProfile)
			protected.PUT("/profile", h.Profile.UpdateProfile)
			protected.PUT("/password", h.Profile.ChangePassword)
		}
	}
}

// SetupProductRoutes sets up the public catalog routes
func SetupProductRoutes(rg *gin.RouterGroup, h *Handlers) {
	rg.GET("/categories", h.Product.GetCategories)

	products := rg.Group("/products")
	{
		products.GET("", h.Product.GetProducts)
		products.GET("/featured", h.Product.GetFeatured)
		products.GET("/new-arrivals", h.Product.GetNewArrivals)
		products.GET("/:id", h.Product.GetProduct)
	}
}

// SetupCartRoutes sets up cart and checkout routes. Anonymous callers get
// a 401 carrying the path to resume after login.
func SetupCartRoutes(rg *gin.RouterGroup, h *Handlers, jwt *auth.JWTManager) {
	cart := rg.Group("/cart")
	cart.Use(middleware.OptionalAuthMiddleware(jwt))
	{
		cart.GET("", h.Cart.GetCart)
		cart.GET("/count", h.Cart.GetCartCount)
		cart.POST("/items", h.Cart.AddToCart)
		cart.PUT("/items/:id", h.Cart.UpdateCartItem)
		cart.DELETE("/items/:id", h.Cart.RemoveFromCart)
		cart.DELETE("", h.Cart.ClearCart)
	}

	checkout := rg.Group("/checkout")
	checkout.Use(middleware.OptionalAuthMiddleware(jwt))
	{
		checkout.GET("/summary", h.Checkout.GetCheckoutSummary)
		checkout.POST("", h.Checkout.PlaceOrder)
	}
}

// SetupOrderRoutes sets up order history routes
func SetupOrderRoutes(rg *gin.RouterGroup, h *Handlers, jwt *auth.JWTManager) {
	orders := rg.Group("/orders")
	orders.Use(middleware.AuthMiddleware(jwt))
	{
		orders.GET("", h.Order.GetOrders)
		orders.GET("/:id", h.Order.GetOrder)
		orders.GET("/:id/receipt", h.Order.GetReceipt)
		orders.PUT("/:id/cancel", h.Order.CancelOrder)
	}
}

// SetupAdminRoutes sets up admin routes
func SetupAdminRoutes(rg *gin.RouterGroup, h *Handlers, jwt *auth.JWTManager) {
	admin := rg.Group("/admin")
	admin.Use(middleware.AuthMiddleware(jwt))
	admin.Use(middleware.AdminMiddleware())
	{
		admin.GET("/dashboard", h.Admin.Dashboard)

		products := admin.Group("/products")
		{
			products.GET("", h.Admin.GetProducts)
			products.GET("/export", h.Admin.ExportProducts)
			products.POST("", h.Admin.CreateProduct)
			products.PUT("/:id", h.Admin.UpdateProduct)
			products.DELETE("/:id", h.Admin.DeleteProduct)
		}

		orders := admin.Group("/orders")
		{
			orders.GET("", h.Order.AdminGetOrders)
			orders.GET("/:id", h.Order.AdminGetOrder)
			orders.PUT("/:id/status", h.Order.AdminUpdateOrderStatus)
		}

		users := admin.Group("/users")
		{
			users.GET("", h.Users.GetUsers)
			users.GET("/:id", h.Users.GetUser)
			users.PUT("/:id/status", h.Users.UpdateUserStatus)
			users.PUT("/:id/admin", h.Users.ToggleUserAdmin)
		}
	}
}
