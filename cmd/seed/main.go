package main

import (
	"context"
	"log"
	"os"

	"storefront/internal/config"
	"storefront/internal/db"
	productrepo "storefront/internal/repository/product"
	userrepo "storefront/internal/repository/user"
	"storefront/internal/seed"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[seed] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	adminPassword := os.Getenv("SEED_ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "changeme"
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	products := productrepo.NewPostgres(pool, logger)
	users := userrepo.NewPostgres(pool, logger)

	if err := seed.Run(ctx, products, users, adminPassword, logger); err != nil {
		logger.Fatalf("seed: %v", err)
	}
}
