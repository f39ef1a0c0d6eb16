// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	appctx "stockpilot/internal/core/context"
	"stockpilot/internal/domain/auth"
	"stockpilot/internal/domain/catalogs/category"
	"stockpilot/internal/domain/catalogs/product"
	"stockpilot/internal/domain/catalogs/supplier"
	"stockpilot/internal/domain/catalogs/warehouse"
	"stockpilot/internal/domain/inventory"
	"stockpilot/internal/infrastructure/http/v1/handlers"
	"stockpilot/internal/infrastructure/http/v1/middleware"
	"stockpilot/internal/infrastructure/storage/postgres"
	"stockpilot/pkg/logger"
)

// RouterConfig holds the services the router exposes.
type RouterConfig struct {
	Pool   *postgres.Pool
	Logger *logger.Logger

	// JWTValidator for token validation
	JWTValidator middleware.JWTValidator

	AuthService      *auth.Service
	CategoryService  *category.Service
	SupplierService  *supplier.Service
	WarehouseService *warehouse.Service
	ProductService   *product.Service
	InventoryService *inventory.Service

	// Development switches Gin into debug mode
	Development bool
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Development {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	base := handlers.NewBaseHandler()

	// Health endpoints (no auth required)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	authHandler := handlers.NewAuthHandler(base, cfg.AuthService)
	categoryHandler := handlers.NewCategoryHandler(base, cfg.CategoryService)
	supplierHandler := handlers.NewSupplierHandler(base, cfg.SupplierService)
	warehouseHandler := handlers.NewWarehouseHandler(base, cfg.WarehouseService)
	productHandler := handlers.NewProductHandler(base, cfg.ProductService)
	inventoryHandler := handlers.NewInventoryHandler(base, cfg.InventoryService)
	movementHandler := handlers.NewMovementHandler(base, cfg.InventoryService)

	v1 := router.Group("/api/v1")
	{
		// Public: login only
		v1.POST("/auth/login", authHandler.Login)

		// Everything else requires a valid session
		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTValidator))

		protected.GET("/auth/me", authHandler.Me)
		protected.POST("/auth/change-password", authHandler.ChangePassword)

		// User management is reserved for administrators
		profiles := protected.Group("/profiles")
		profiles.Use(middleware.RequireRole(appctx.RoleAdmin))
		{
			profiles.POST("", authHandler.Register)
			profiles.GET("", authHandler.ListProfiles)
			profiles.GET("/:id", authHandler.GetProfile)
			profiles.PUT("/:id", authHandler.UpdateProfile)
			profiles.DELETE("/:id", authHandler.DeleteProfile)
		}

		// Catalogs: all roles read, admins write
		adminOnly := middleware.RequireRole(appctx.RoleAdmin)

		registerCatalog(protected, "/categories", adminOnly, catalogRoutes{
			create: categoryHandler.Create,
			list:   categoryHandler.List,
			get:    categoryHandler.Get,
			update: categoryHandler.Update,
			delete: categoryHandler.Delete,
		})
		registerCatalog(protected, "/suppliers", adminOnly, catalogRoutes{
			create: supplierHandler.Create,
			list:   supplierHandler.List,
			get:    supplierHandler.Get,
			update: supplierHandler.Update,
			delete: supplierHandler.Delete,
		})
		registerCatalog(protected, "/warehouses", adminOnly, catalogRoutes{
			create: warehouseHandler.Create,
			list:   warehouseHandler.List,
			get:    warehouseHandler.Get,
			update: warehouseHandler.Update,
			delete: warehouseHandler.Delete,
		})
		registerCatalog(protected, "/products", adminOnly, catalogRoutes{
			create: productHandler.Create,
			list:   productHandler.List,
			get:    productHandler.Get,
			update: productHandler.Update,
			delete: productHandler.Delete,
		})
		protected.GET("/products/sku/:sku", productHandler.GetBySKU)

		// Movements: every authenticated role records and reads
		protected.POST("/movements", movementHandler.Create)
		protected.GET("/movements", movementHandler.List)

		// Inventory: read for all, manual adjustment for admins and managers
		protected.GET("/inventory", inventoryHandler.List)
		protected.GET("/inventory/:id", inventoryHandler.Get)
		protected.PATCH("/inventory/:id/quantity",
			middleware.RequireRole(appctx.RoleAdmin, appctx.RoleManager),
			inventoryHandler.Adjust)
	}

	return router
}

type catalogRoutes struct {
	create gin.HandlerFunc
	list   gin.HandlerFunc
	get    gin.HandlerFunc
	update gin.HandlerFunc
	delete gin.HandlerFunc
}

// registerCatalog wires the standard CRUD layout: reads for everyone,
// writes behind the given guard.
func registerCatalog(rg *gin.RouterGroup, path string, writeGuard gin.HandlerFunc, routes catalogRoutes) {
	group := rg.Group(path)
	group.GET("", routes.list)
	group.GET("/:id", routes.get)
	group.POST("", writeGuard, routes.create)
	group.PUT("/:id", writeGuard, routes.update)
	group.DELETE("/:id", writeGuard, routes.delete)
}
