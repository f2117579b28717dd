package main

import (
	"context"
	"flag"
	"log"
	"os"

	"autoparts-storefront/internal/config"
	"autoparts-storefront/internal/db"
	"autoparts-storefront/internal/migrate"
)

func main() {
	down := flag.Bool("down", false, "revert the most recent migration")
	flag.Parse()

	logger := log.New(os.Stdout, "[migrate] ", log.LstdFlags|log.LUTC|log.Lshortfile)
	config.LoadDotEnv(logger)
	cfg := config.FromEnv()

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	if *down {
		if err := migrate.Rollback(ctx, pool); err != nil {
			logger.Fatalf("rollback migration: %v", err)
		}
		logger.Println("last migration reverted")
		return
	}

	if err := migrate.Apply(ctx, pool); err != nil {
		logger.Fatalf("apply migrations: %v", err)
	}
	logger.Println("migrations applied")
}
