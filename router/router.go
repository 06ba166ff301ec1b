package router

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/yeremiapane/storefront-api/controllers"
	"github.com/yeremiapane/storefront-api/middlewares"
	"github.com/yeremiapane/storefront-api/realtime"
	"github.com/yeremiapane/storefront-api/services"
	"github.com/yeremiapane/storefront-api/utils"
)

// Options berisi dependency luar. Field kosong diisi default yang aman untuk development/test.
type Options struct {
	Hub            *realtime.Hub
	Mailer         services.Mailer
	Events         services.EventPublisher
	ShippingFee    decimal.Decimal
	StoreName      string
	CORSOrigins    []string
	RateLimitRPS   float64
	RateLimitBurst int
	UploadsDir     string
}

var allowedUploadExt = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

func SetupRouter(db *gorm.DB, opts Options) *gin.Engine {
	if opts.Hub == nil {
		opts.Hub = realtime.NewHub()
	}
	if opts.Mailer == nil {
		opts.Mailer = services.LogMailer{}
	}
	if opts.Events == nil {
		opts.Events = services.NoopPublisher{}
	}
	if !opts.ShippingFee.IsPositive() {
		opts.ShippingFee = services.DefaultExpressShippingFee
	}
	if opts.StoreName == "" {
		opts.StoreName = "Storefront"
	}

	notificationService := services.NewNotificationService(db, opts.Hub)
	events := services.NewHubPublisher(opts.Hub, opts.Events)
	orderService := services.NewOrderService(db, notificationService, opts.Mailer, events, opts.ShippingFee)
	reviewService := services.NewReviewService(db, notificationService)
	authService := services.NewAuthService(db, notificationService)

	authController := controllers.NewAuthController(authService)
	categoryController := controllers.NewCategoryController(db)
	productController := controllers.NewProductController(db)
	customerController := controllers.NewCustomerController(db)
	settingController := controllers.NewSettingController(db)
	orderController := controllers.NewOrderController(orderService, services.NewInvoiceRenderer(opts.StoreName))
	reviewController := controllers.NewReviewController(reviewService)
	notificationController := controllers.NewNotificationController(notificationService)
	realtimeController := controllers.NewRealtimeController(opts.Hub)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(opts.CORSOrigins))

	authLimit := func(c *gin.Context) { c.Next() }
	if opts.RateLimitRPS > 0 {
		r.Use(middlewares.NewIPRateLimiter(opts.RateLimitRPS, opts.RateLimitBurst).RateLimit())
		authLimit = middlewares.NewStrictRateLimiter().RateLimit()
	}

	if opts.UploadsDir != "" {
		r.Use(func(c *gin.Context) {
			// Hanya file gambar yang boleh diakses dari /uploads
			if strings.HasPrefix(c.Request.URL.Path, "/uploads/") && !hasAllowedExt(c.Request.URL.Path) {
				c.AbortWithStatus(http.StatusForbidden)
				return
			}
			c.Next()
		})
		if _, err := os.Stat(opts.UploadsDir); err != nil {
			utils.ErrorLogger.Warnf("Uploads directory not found: %s", opts.UploadsDir)
		}
		r.Static("/uploads", filepath.Clean(opts.UploadsDir))
	}

	r.GET("/health", func(c *gin.Context) {
		utils.RespondJSON(c, http.StatusOK, "ok", gin.H{"realtimeClients": opts.Hub.ClientCount()})
	})

	// Auth
	auth := r.Group("/auth")
	{
		auth.POST("/admin/login", authLimit, authController.AdminLogin)
		auth.POST("/customer/register", authLimit, authController.CustomerRegister)
		auth.POST("/customer/login", authLimit, authController.CustomerLogin)
		auth.POST("/logout", middlewares.AuthMiddleware(), authController.Logout)
		auth.GET("/me", middlewares.AuthMiddleware(), authController.Me)
	}

	// Katalog publik
	r.GET("/categories", categoryController.GetAllCategories)
	r.GET("/products", productController.GetAllProducts)
	r.GET("/products/:product_id", productController.GetProductByID)
	r.GET("/products/:product_id/reviews", reviewController.GetProductReviews)
	r.GET("/settings", settingController.GetSettings)

	// Order
	orders := r.Group("/orders")
	{
		orders.POST("", middlewares.OptionalAuth(), orderController.CreateOrder)

		member := orders.Group("", middlewares.AuthMiddleware())
		member.GET("", middlewares.RoleCheck(utils.RoleAdmin), orderController.GetAllOrders)
		member.GET("/:order_id", middlewares.RoleCheck(utils.RoleAdmin, utils.RoleCustomer), orderController.GetOrderByID)
		member.GET("/:order_id/invoice", middlewares.RoleCheck(utils.RoleAdmin, utils.RoleCustomer), orderController.DownloadInvoice)
		member.PUT("/:order_id/status", middlewares.RoleCheck(utils.RoleAdmin), orderController.UpdateOrderStatus)
		member.PUT("/:order_id/cancel", middlewares.RoleCheck(utils.RoleCustomer), orderController.CancelOrder)
	}

	// Customer
	customer := r.Group("/customer", middlewares.AuthMiddleware(utils.RoleCustomer))
	{
		customer.GET("/orders", orderController.GetMyOrders)
		customer.GET("/notifications", notificationController.GetMyNotifications)
		customer.PUT("/notifications/read-all", notificationController.MarkAllMyNotificationsRead)
		customer.PUT("/notifications/:notif_id/read", notificationController.MarkMyNotificationRead)
		customer.DELETE("/notifications/:notif_id", notificationController.DeleteMyNotification)
	}

	reviews := r.Group("/reviews", middlewares.AuthMiddleware(utils.RoleCustomer))
	{
		reviews.POST("", reviewController.CreateReview)
		reviews.PUT("/:review_id", reviewController.UpdateReview)
		reviews.DELETE("/:review_id", reviewController.DeleteReview)
	}

	// Websocket admin, token lewat query string
	r.GET("/admin/ws", middlewares.WebSocketAuthMiddleware(utils.RoleAdmin), realtimeController.AdminFeed)

	// Admin
	admin := r.Group("/admin", middlewares.AuthMiddleware(utils.RoleAdmin))
	{
		admin.POST("/categories", categoryController.CreateCategory)
		admin.PUT("/categories/:category_id", categoryController.UpdateCategory)
		admin.DELETE("/categories/:category_id", categoryController.DeleteCategory)

		admin.POST("/products", productController.CreateProduct)
		admin.PUT("/products/:product_id", productController.UpdateProduct)
		admin.PUT("/products/:product_id/variants/:variant_id", productController.UpdateVariant)
		admin.DELETE("/products/:product_id", productController.DeleteProduct)

		admin.GET("/customers", customerController.GetAllCustomers)
		admin.GET("/customers/:customer_id", customerController.GetCustomerByID)
		admin.DELETE("/customers/:customer_id", customerController.DeleteCustomer)

		admin.PUT("/settings", settingController.UpdateSettings)

		admin.DELETE("/orders/:order_id", orderController.DeleteOrder)
		admin.DELETE("/reviews/:review_id", reviewController.DeleteReview)

		admin.GET("/notifications", notificationController.GetAdminNotifications)
		admin.PUT("/notifications/read-all", notificationController.MarkAllAdminNotificationsRead)
		admin.PUT("/notifications/:notif_id/read", notificationController.MarkAdminNotificationRead)
		admin.DELETE("/notifications/:notif_id", notificationController.DeleteAdminNotification)
	}

	return r
}

func hasAllowedExt(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, allowed := range allowedUploadExt {
		if ext == allowed {
			return true
		}
	}
	return false
}
