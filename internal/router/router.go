// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/farmlink/agritrace-backend/internal/config"
	"github.com/farmlink/agritrace-backend/internal/handlers"
	"github.com/farmlink/agritrace-backend/internal/middleware"
	"github.com/farmlink/agritrace-backend/internal/models"
	"github.com/farmlink/agritrace-backend/internal/services"
	"github.com/farmlink/agritrace-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	notificationService := services.NewNotificationService(db, cfg)
	ledgerService := services.NewLedgerService(db)
	identityService := services.NewIdentityService(db, cfg)
	catalogService := services.NewCatalogService(db, ledgerService)
	productService := services.NewProductService(db, catalogService)
	orderService := services.NewOrderService(db, notificationService)
	shipmentService := services.NewShipmentService(db, notificationService)
	traceabilityService := services.NewTraceabilityService(db, ledgerService)
	adminService := services.NewAdminService(db, notificationService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(identityService)
	farmHandler := handlers.NewFarmHandler(catalogService)
	productHandler := handlers.NewProductHandler(productService)
	orderHandler := handlers.NewOrderHandler(orderService)
	shipmentHandler := handlers.NewShipmentHandler(shipmentService)
	traceabilityHandler := handlers.NewTraceabilityHandler(traceabilityService)
	notificationHandler := handlers.NewNotificationHandler(notificationService, adminService)
	adminHandler := handlers.NewAdminHandler(adminService, notificationService, orderService, shipmentService)

	// Identity provider settings for token verification
	utils.ConfigureIdentityProvider(cfg.Identity.Secret, cfg.Identity.Issuer)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS())
	r.Use(middleware.I18nMiddleware())
	r.Use(middleware.GeneralRateLimit())
	r.Use(middleware.AuditLogMiddleware(db))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/sync", authHandler.Sync)
			auth.GET("/me", middleware.AuthRequired(db), authHandler.Me)
			auth.PUT("/profile", middleware.AuthRequired(db), authHandler.UpdateProfile)
		}

		// Farm routes. Public reads carry OptionalAuth so signed-in
		// callers are identified in audit logs.
		farms := v1.Group("/farms")
		{
			farms.GET("", middleware.OptionalAuth(db), farmHandler.GetFarms)
			farms.GET("/:id", middleware.OptionalAuth(db), farmHandler.GetFarm)
			farms.GET("/:id/seasons", middleware.OptionalAuth(db), farmHandler.GetFarmSeasons)

			protected := farms.Group("")
			protected.Use(middleware.AuthRequired(db))
			{
				protected.GET("/my-farms", middleware.RoleRequired(models.UserRoleFarm), farmHandler.GetMyFarms)
				protected.POST("", middleware.WriteRateLimit(), farmHandler.CreateFarm)
				protected.PUT("/:id", farmHandler.UpdateFarm)
			}
		}

		// Season routes. The season detail endpoint is the public
		// traceability view, no auth required.
		seasons := v1.Group("/seasons")
		{
			seasons.GET("/:id", middleware.OptionalAuth(db), traceabilityHandler.GetSeasonTrace)

			protected := seasons.Group("")
			protected.Use(middleware.AuthRequired(db), middleware.RoleRequired(models.UserRoleFarm))
			{
				protected.POST("", farmHandler.CreateSeason)
				protected.PUT("/:id", farmHandler.UpdateSeason)
				protected.PUT("/:id/complete", farmHandler.CompleteSeason)
				protected.POST("/:id/processes", middleware.WriteRateLimit(), farmHandler.RecordProcess)
			}
		}

		// Public batch lookup
		v1.GET("/batches/:code", middleware.OptionalAuth(db), traceabilityHandler.GetBatchTrace)

		// Product routes
		products := v1.Group("/products")
		{
			products.GET("", middleware.OptionalAuth(db), productHandler.GetProducts)
			products.GET("/:id", middleware.OptionalAuth(db), productHandler.GetProduct)

			protected := products.Group("")
			protected.Use(middleware.AuthRequired(db), middleware.RoleRequired(models.UserRoleFarm))
			{
				protected.POST("", middleware.WriteRateLimit(), productHandler.CreateProduct)
				protected.PUT("/:id", productHandler.UpdateProduct)
				protected.DELETE("/:id", productHandler.DeleteProduct)
			}
		}

		// Order routes
		orders := v1.Group("/orders")
		orders.Use(middleware.AuthRequired(db))
		{
			orders.POST("", middleware.WriteRateLimit(), middleware.RoleRequired(models.UserRoleRetailer), orderHandler.CreateOrder)
			orders.GET("/my-orders", middleware.RoleRequired(models.UserRoleRetailer), orderHandler.GetMyOrders)
			orders.GET("/farm/:farmId", orderHandler.GetFarmOrders)
			orders.GET("/:id", orderHandler.GetOrder)
			orders.PUT("/:id/status", orderHandler.UpdateOrderStatus)
		}

		// Shipment routes
		shipments := v1.Group("/shipments")
		shipments.Use(middleware.AuthRequired(db))
		{
			shipments.POST("", middleware.RoleRequired(models.UserRoleShipping), shipmentHandler.CreateShipment)
			shipments.GET("", middleware.RoleRequired(models.UserRoleShipping), shipmentHandler.GetShipments)
			shipments.GET("/my-deliveries", middleware.RoleRequired(models.UserRoleDriver), shipmentHandler.GetMyDeliveries)
			shipments.GET("/farm/:farmId", shipmentHandler.GetFarmShipments)
			shipments.GET("/:id", shipmentHandler.GetShipment)
			shipments.PUT("/:id/assign", middleware.RoleRequired(models.UserRoleShipping), shipmentHandler.AssignDriver)
			shipments.PUT("/:id/status", shipmentHandler.UpdateShipmentStatus)
		}

		// Driver lookup for assignment
		drivers := v1.Group("/drivers")
		drivers.Use(middleware.AuthRequired(db), middleware.RoleRequired(models.UserRoleShipping))
		{
			drivers.GET("", shipmentHandler.GetDrivers)
		}

		// Notification routes
		notifications := v1.Group("/notifications")
		notifications.Use(middleware.AuthRequired(db))
		{
			notifications.GET("", notificationHandler.GetNotifications)
			notifications.GET("/unread-count", notificationHandler.GetUnreadCount)
			notifications.PUT("/:id/read", notificationHandler.MarkRead)
			notifications.PUT("/read-all", notificationHandler.MarkAllRead)
		}

		// Report routes
		reports := v1.Group("/reports")
		reports.Use(middleware.AuthRequired(db))
		{
			reports.POST("", middleware.WriteRateLimit(), notificationHandler.CreateReport)
			reports.GET("", notificationHandler.GetMyReports)
		}

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthRequired(db), middleware.AdminRequired())
		{
			admin.GET("/dashboard/stats", adminHandler.GetDashboard)
			admin.GET("/orders", adminHandler.GetOrders)
			admin.GET("/shipments", adminHandler.GetShipments)

			adminUsers := admin.Group("/users")
			{
				adminUsers.GET("", adminHandler.GetUsers)
				adminUsers.PUT("/:id/role", adminHandler.UpdateUserRole)
				adminUsers.PUT("/:id/status", adminHandler.UpdateUserStatus)
			}

			adminReports := admin.Group("/reports")
			{
				adminReports.GET("", adminHandler.GetReports)
				adminReports.PUT("/:id/resolve", adminHandler.ResolveReport)
			}

			admin.POST("/notifications", adminHandler.SendNotification)
			admin.GET("/audit-logs", adminHandler.GetAuditLogs)
		}
	}

	return r
}
