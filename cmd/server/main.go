// Package main is the entry point for the stockpilot API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"stockpilot/internal/config"
	"stockpilot/internal/domain/auth"
	"stockpilot/internal/domain/catalogs/category"
	"stockpilot/internal/domain/catalogs/product"
	"stockpilot/internal/domain/catalogs/supplier"
	"stockpilot/internal/domain/catalogs/warehouse"
	"stockpilot/internal/domain/inventory"
	v1 "stockpilot/internal/infrastructure/http/v1"
	"stockpilot/internal/infrastructure/storage/postgres"
	"stockpilot/internal/infrastructure/storage/postgres/auth_repo"
	"stockpilot/internal/infrastructure/storage/postgres/catalog_repo"
	"stockpilot/internal/infrastructure/storage/postgres/inventory_repo"
	"stockpilot/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.IsDevelopment(),
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting stockpilot server")

	// --- Database ---
	poolCfg := postgres.DefaultPoolConfig(cfg.DB.ConnectionString())
	poolCfg.MaxConns = cfg.DB.MaxConns
	poolCfg.MinConns = cfg.DB.MinConns

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	// --- Repositories ---
	userRepo := auth_repo.NewUserRepo(txManager)
	categoryRepo := catalog_repo.NewCategoryRepo(txManager)
	supplierRepo := catalog_repo.NewSupplierRepo(txManager)
	warehouseRepo := catalog_repo.NewWarehouseRepo(txManager)
	productRepo := catalog_repo.NewProductRepo(txManager)
	inventoryRepo := inventory_repo.NewRepo(txManager)

	auditStore, err := postgres.NewAuditStore(txManager)
	if err != nil {
		log.Fatalw("failed to initialize audit store", "error", err)
	}
	defer auditStore.Close()

	// --- Services ---
	jwtConfig := auth.DefaultJWTConfig(cfg.JWT.Secret)
	jwtConfig.Issuer = cfg.JWT.Issuer
	if cfg.JWT.AccessTokenTTL > 0 {
		jwtConfig.AccessTokenTTL = cfg.JWT.AccessTokenTTL
	}
	jwtService := auth.NewJWTService(jwtConfig)

	authService := auth.NewService(userRepo, txManager, jwtService, auth.DefaultServiceConfig())
	categoryService := category.NewService(categoryRepo, txManager, auditStore)
	supplierService := supplier.NewService(supplierRepo, txManager, auditStore)
	warehouseService := warehouse.NewService(warehouseRepo, txManager, auditStore)
	productService := product.NewService(productRepo, txManager, auditStore)
	inventoryService := inventory.NewService(inventoryRepo, productRepo, warehouseRepo, txManager, auditStore)

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:             pool,
		Logger:           log,
		JWTValidator:     jwtService,
		AuthService:      authService,
		CategoryService:  categoryService,
		SupplierService:  supplierService,
		WarehouseService: warehouseService,
		ProductService:   productService,
		InventoryService: inventoryService,
		Development:      cfg.IsDevelopment(),
	})

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         ":" + cfg.HTTP.Port,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Infow("server starting", "port", cfg.HTTP.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("forced shutdown", "error", err)
	}

	log.Info("server stopped")
}
