package routes

import (
	"os"
	"strings"
	"time"

	"atelier_back_end/internal/handlers/admin"
	checkouth "atelier_back_end/internal/handlers/checkout"
	"atelier_back_end/internal/handlers/product"
	"atelier_back_end/internal/handlers/user"
	"atelier_back_end/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes câble toutes les routes de l'API. Les handlers du panier
// et du checkout sont injectés depuis main, le reste accède aux bases via
// le package database.
func RegisterRoutes(r *gin.Engine, cartH *user.CartHandlers, checkoutH *checkouth.Handlers) {
	r.Use(corsMiddleware())

	api := r.Group("/api")

	// --- Boutique (public) ---
	api.GET("/products", product.GetAllProducts)
	api.GET("/products/:id", product.GetProduct)
	api.GET("/products/slug/:slug", product.GetProductBySlug)
	api.GET("/products/category/:id", product.GetProductsByCategory)
	api.GET("/products/search", middleware.SearchRateLimit(), product.SearchProducts)
	api.GET("/categories", product.GetAllCategories)
	api.GET("/brands", product.GetAllBrands)
	api.GET("/tags", product.GetAllTags)

	// Webhook Stripe : hors auth, signature vérifiée dans le handler.
	api.POST("/stripe/webhook", checkoutH.StripeWebhook)

	// --- Authentification ---
	auth := api.Group("/auth")
	auth.POST("/register", middleware.RegisterRateLimit(), user.Register)
	auth.POST("/login", middleware.LoginRateLimit(), user.Login)
	auth.GET("/:provider", user.BeginAuth)
	auth.GET("/:provider/callback", user.CallbackAuth)
	auth.POST("/google/mobile", user.GoogleMobileLogin)

	// --- Espace connecté ---
	me := api.Group("/me")
	me.Use(middleware.AuthRequired())
	me.GET("", user.Me)
	me.POST("/password", user.ChangePassword)
	me.GET("/orders", user.GetMyOrders)
	me.GET("/orders/:id", user.GetMyOrder)

	// --- Panier ---
	cart := api.Group("/cart")
	cart.Use(middleware.AuthRequired())
	cart.GET("", cartH.GetCart)
	cart.GET("/ws", user.CartWebSocket)
	cart.POST("/items", middleware.CartRateLimit(), cartH.AddToCart)
	cart.PUT("/items/:product_id", middleware.CartRateLimit(), cartH.UpdateQuantity)
	cart.DELETE("/items/:product_id", middleware.CartRateLimit(), cartH.RemoveFromCart)
	cart.DELETE("", middleware.CartRateLimit(), cartH.ClearCart)
	cart.POST("/sync", middleware.CartRateLimit(), cartH.SyncCart)

	// --- Checkout ---
	checkout := api.Group("/checkout")
	checkout.Use(middleware.AuthRequired())
	checkout.POST("/order", checkoutH.PlaceOrder)
	checkout.GET("/confirm", checkoutH.ConfirmPayment)
	checkout.POST("/coupon/validate", checkoutH.ValidateCouponCode)
	checkout.GET("/shipping-options", checkoutH.GetShippingOptions)

	// --- Administration ---
	adm := api.Group("/admin")
	adm.Use(middleware.AuthRequired(), middleware.RequireAdmin, middleware.APIRateLimit())

	adm.POST("/products", product.CreateProduct)
	adm.PUT("/products/:id", product.UpdateProduct)
	adm.DELETE("/products/:id", product.DeleteProduct)
	adm.POST("/products/:id/images", product.UploadProductImage)
	adm.DELETE("/products/:id/images", product.DeleteProductImage)
	adm.POST("/images/signed-url", product.GetSignedImageURL)

	adm.POST("/categories", product.CreateCategory)
	adm.PUT("/categories/:id", product.UpdateCategory)
	adm.DELETE("/categories/:id", product.DeleteCategory)
	adm.POST("/brands", product.CreateBrand)
	adm.DELETE("/brands/:id", product.DeleteBrand)
	adm.POST("/tags", product.CreateTag)
	adm.DELETE("/tags/:id", product.DeleteTag)

	adm.POST("/coupons", admin.CreateCoupon)
	adm.GET("/coupons", admin.ListCoupons)
	adm.PUT("/coupons/:id", admin.UpdateCoupon)
	adm.DELETE("/coupons/:id", admin.DeleteCoupon)

	adm.GET("/orders", admin.ListOrders)
	adm.GET("/orders/:id", admin.GetOrder)
	adm.PUT("/orders/:id/status", admin.UpdateOrderStatus)
	adm.PUT("/orders/:id/items", admin.UpdateOrderItems)
	adm.DELETE("/orders/:id", admin.ArchiveOrder)

	adm.GET("/dashboard", admin.GetDashboardStats)
	adm.GET("/settings/payment", admin.GetPaymentSettings)
	adm.PUT("/settings/payment", admin.UpdatePaymentSettings)

	adm.GET("/users", admin.ListUsers)
	adm.PUT("/users/:id/role", admin.UpdateUserRole)

	adm.POST("/shipping-zones", admin.CreateShippingZone)
	adm.GET("/shipping-zones", admin.ListShippingZones)
	adm.PUT("/shipping-zones/:id", admin.UpdateShippingZone)
	adm.DELETE("/shipping-zones/:id", admin.DeleteShippingZone)
}

// corsMiddleware autorise le front (CORS_ORIGINS, séparé par virgules).
func corsMiddleware() gin.HandlerFunc {
	origins := []string{"http://localhost:3000"}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		origins = strings.Split(env, ",")
	}

	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}
