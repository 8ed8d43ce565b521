package router

import (
	"github.com/gin-gonic/gin"
	"github.com/shopzone/shopzone-backend/config"
	"github.com/shopzone/shopzone-backend/internal/app/controller"
	"github.com/shopzone/shopzone-backend/internal/middleware"
)

type Router struct {
	authController      *controller.AuthController
	userController      *controller.UserController
	addressController   *controller.AddressController
	categoryController  *controller.CategoryController
	productController   *controller.ProductController
	cartController      *controller.CartController
	orderController     *controller.OrderController
	adminController     *controller.AdminController
	uploadController    *controller.UploadController
	websocketController *controller.WebSocketController
	authMiddleware      *middleware.AuthMiddleware
	config              *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	userController *controller.UserController,
	addressController *controller.AddressController,
	categoryController *controller.CategoryController,
	productController *controller.ProductController,
	cartController *controller.CartController,
	orderController *controller.OrderController,
	adminController *controller.AdminController,
	uploadController *controller.UploadController,
	websocketController *controller.WebSocketController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:      authController,
		userController:      userController,
		addressController:   addressController,
		categoryController:  categoryController,
		productController:   productController,
		cartController:      cartController,
		orderController:     orderController,
		adminController:     adminController,
		uploadController:    uploadController,
		websocketController: websocketController,
		authMiddleware:      authMiddleware,
		config:              cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "SHOPZONE API is running",
		})
	})

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.POST("/logout", r.authMiddleware.Authenticate(), r.authController.Logout)
			auth.PUT("/password", r.authMiddleware.Authenticate(), r.authController.ChangePassword)
			auth.POST("/reset-password", r.authController.RequestPasswordReset)
			auth.POST("/reset-password/confirm", r.authController.ResetPassword)
		}

		users := api.Group("/users", r.authMiddleware.Authenticate())
		{
			users.GET("/me", r.userController.GetMe)
			users.PUT("/me", r.userController.UpdateMe)
		}

		addresses := api.Group("/addresses", r.authMiddleware.Authenticate())
		{
			addresses.GET("", r.addressController.List)
			addresses.POST("", r.addressController.Create)
			addresses.GET("/:id", r.addressController.Get)
			addresses.PUT("/:id", r.addressController.Update)
			addresses.DELETE("/:id", r.addressController.Delete)
			addresses.PUT("/:id/default", r.addressController.SetDefault)
		}

		categories := api.Group("/categories")
		{
			categories.GET("", r.categoryController.List)
			categories.GET("/:id", r.categoryController.Get)
			categories.POST("",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.categoryController.Create,
			)
			categories.PUT("/:id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.categoryController.Update,
			)
			categories.DELETE("/:id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.categoryController.Delete,
			)
		}

		products := api.Group("/products")
		{
			products.GET("", r.productController.List)
			products.GET("/:id", r.productController.Get)
			products.POST("",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.productController.Create,
			)
			products.PUT("/:id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.productController.Update,
			)
			products.DELETE("/:id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.productController.Delete,
			)
		}

		cart := api.Group("/cart", r.authMiddleware.Authenticate())
		{
			cart.GET("", r.cartController.GetCart)
			cart.DELETE("", r.cartController.Clear)
			cart.POST("/items", r.cartController.AddItem)
			cart.PUT("/items/:id", r.cartController.UpdateItem)
			cart.DELETE("/items/:id", r.cartController.RemoveItem)
		}

		orders := api.Group("/orders", r.authMiddleware.Authenticate())
		{
			orders.POST("", r.orderController.PlaceOrder)
			orders.GET("", r.orderController.ListMyOrders)
			orders.GET("/:id", r.orderController.GetOrder)
			orders.POST("/:id/cancel", r.orderController.CancelOrder)
		}

		uploads := api.Group("/uploads",
			r.authMiddleware.Authenticate(),
			r.authMiddleware.RequireRole("admin"),
		)
		{
			uploads.POST("/product-image", r.uploadController.PresignProductImage)
		}

		admin := api.Group("/admin",
			r.authMiddleware.Authenticate(),
			r.authMiddleware.RequireRole("admin"),
		)
		{
			admin.GET("/dashboard", r.adminController.Dashboard)
			admin.GET("/users", r.adminController.ListUsers)
			admin.PUT("/users/:id/active", r.adminController.SetUserActive)
			admin.GET("/orders", r.adminController.ListOrders)
			admin.GET("/orders/export", r.adminController.ExportOrders)
			admin.PUT("/orders/:id/status", r.adminController.UpdateOrderStatus)
			admin.GET("/activity-logs", r.adminController.ListActivityLogs)
		}

		api.GET("/ws/orders", r.authMiddleware.Authenticate(), r.websocketController.Connect)
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
