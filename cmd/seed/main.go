// Package main provides a CLI tool for preparing the database: applies
// the schema and seeds the initial admin user plus optional demo data.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"stockpilot/internal/config"
	appctx "stockpilot/internal/core/context"
	"stockpilot/internal/core/id"
	"stockpilot/internal/domain/auth"
	"stockpilot/internal/domain/catalogs/category"
	"stockpilot/internal/domain/catalogs/product"
	"stockpilot/internal/domain/catalogs/supplier"
	"stockpilot/internal/domain/catalogs/warehouse"
	"stockpilot/internal/domain/inventory"
	"stockpilot/internal/infrastructure/storage/postgres"
	"stockpilot/internal/infrastructure/storage/postgres/catalog_repo"
	"stockpilot/internal/infrastructure/storage/postgres/inventory_repo"
	"stockpilot/pkg/logger"
)

const schemaFile = "migrations/0001_init.sql"

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalw("failed to load configuration", "error", err)
	}

	ctx := context.Background()

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.DB.ConnectionString()))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	if os.Getenv("SEED_APPLY_SCHEMA") != "false" {
		if err := applySchema(ctx, pool); err != nil {
			log.Fatalw("failed to apply schema", "error", err)
		}
		log.Info("schema applied")
	}

	adminID, err := seedAdminUser(ctx, pool, log)
	if err != nil {
		log.Fatalw("failed to seed admin user", "error", err)
	}

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := seedDemoData(ctx, pool, log, adminID); err != nil {
			log.Fatalw("failed to seed demo data", "error", err)
		}
	}

	log.Info("seeding completed successfully")
}

func applySchema(ctx context.Context, pool *postgres.Pool) error {
	schema, err := os.ReadFile(schemaFile)
	if err != nil {
		return fmt.Errorf("read schema: %w", err)
	}
	if _, err := pool.Exec(ctx, string(schema)); err != nil {
		return fmt.Errorf("exec schema: %w", err)
	}
	return nil
}

func seedAdminUser(ctx context.Context, pool *postgres.Pool, log *logger.Logger) (id.ID, error) {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = "admin@stockpilot.local"
	}

	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "Admin123!"
	}

	var existingID id.ID
	err := pool.QueryRow(ctx,
		`SELECT id FROM users WHERE email = $1`,
		adminEmail,
	).Scan(&existingID)
	if err == nil {
		log.Infow("admin user already exists", "email", adminEmail, "user_id", existingID)
		return existingID, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return id.Nil, fmt.Errorf("check admin exists: %w", err)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return id.Nil, fmt.Errorf("hash password: %w", err)
	}

	admin := auth.NewUser(adminEmail, "System Administrator", appctx.RoleAdmin)
	admin.PasswordHash = string(passwordHash)
	_, err = pool.Exec(ctx, `
		INSERT INTO users (id, email, password_hash, full_name, role, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, true, $6, $7)
	`, admin.ID, admin.Email, admin.PasswordHash, admin.FullName, admin.Role, admin.CreatedAt, admin.UpdatedAt)
	if err != nil {
		return id.Nil, fmt.Errorf("insert admin user: %w", err)
	}

	log.Infow("admin user created", "email", adminEmail, "user_id", admin.ID)
	return admin.ID, nil
}

func seedDemoData(ctx context.Context, pool *postgres.Pool, log *logger.Logger, adminID id.ID) error {
	txManager := postgres.NewTxManager(pool)

	categoryRepo := catalog_repo.NewCategoryRepo(txManager)
	supplierRepo := catalog_repo.NewSupplierRepo(txManager)
	warehouseRepo := catalog_repo.NewWarehouseRepo(txManager)
	productRepo := catalog_repo.NewProductRepo(txManager)
	inventoryRepo := inventory_repo.NewRepo(txManager)

	inventoryService := inventory.NewService(inventoryRepo, productRepo, warehouseRepo, txManager, nil)

	cat := category.NewCategory("Electronics")
	if err := categoryRepo.Create(ctx, cat); err != nil {
		return fmt.Errorf("create category: %w", err)
	}

	sup := supplier.NewSupplier("Acme Components")
	email := "sales@acme.example"
	sup.Email = &email
	if err := supplierRepo.Create(ctx, sup); err != nil {
		return fmt.Errorf("create supplier: %w", err)
	}

	wh := warehouse.NewWarehouse("Main Warehouse")
	location := "Building A"
	wh.Location = &location
	if err := warehouseRepo.Create(ctx, wh); err != nil {
		return fmt.Errorf("create warehouse: %w", err)
	}

	demo := []struct {
		sku, name string
		minStock  int64
		opening   int64
	}{
		{"KB-0001", "Mechanical Keyboard", 10, 50},
		{"MS-0001", "Wireless Mouse", 20, 120},
		{"MN-0001", "27in Monitor", 5, 15},
	}

	for _, d := range demo {
		p := product.NewProduct(d.sku, d.name)
		p.CategoryID = &cat.ID
		p.SupplierID = &sup.ID
		p.MinStock = d.minStock
		if err := productRepo.Create(ctx, p); err != nil {
			return fmt.Errorf("create product %s: %w", d.sku, err)
		}

		ref := "OPENING-BALANCE"
		_, err := inventoryService.RecordMovement(ctx, inventory.MovementInput{
			ProductID:       p.ID,
			WarehouseID:     wh.ID,
			Direction:       inventory.DirectionIn,
			Quantity:        d.opening,
			ReferenceNumber: ref,
			ActingUserID:    adminID,
		})
		if err != nil {
			return fmt.Errorf("opening stock for %s: %w", d.sku, err)
		}
	}

	log.Infow("demo data seeded",
		"category_id", cat.ID,
		"supplier_id", sup.ID,
		"warehouse_id", wh.ID,
		"products", len(demo),
	)
	return nil
}
