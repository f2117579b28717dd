package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"autoparts-storefront/internal/config"
	"autoparts-storefront/internal/importer"
	"autoparts-storefront/internal/repository/state"
	cartsvc "autoparts-storefront/internal/service/cart"
)

func main() {
	var (
		filePath string
		clientID string
	)
	flag.StringVar(&filePath, "file", "", "Path to a parts-list CSV (id,name,price,quantity,sku,seller,image)")
	flag.StringVar(&clientID, "client", "", "Client id (sf_client cookie) whose cart receives the parts")
	flag.Parse()

	if filePath == "" || clientID == "" {
		flag.Usage()
		os.Exit(2)
	}
	if _, err := uuid.Parse(clientID); err != nil {
		log.Fatalf("invalid client id %q: %v", clientID, err)
	}

	logger := log.New(os.Stdout, "[importer] ", log.LstdFlags|log.LUTC|log.Lshortfile)
	config.LoadDotEnv(logger)
	cfg := config.FromEnv()
	if cfg.StateBackend == config.StateMemory {
		log.Fatalf("STATE_BACKEND=%s does not outlive this process; use file, redis or postgres", cfg.StateBackend)
	}

	ctx := context.Background()
	store, closeStore, err := state.Open(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("open state store: %v", err)
	}
	defer closeStore()

	f, err := os.Open(filePath)
	if err != nil {
		log.Fatalf("open file: %v", err)
	}
	defer f.Close()

	cart, release := cartsvc.NewManager(store, logger).Acquire(clientID)
	defer release()
	imp := importer.NewCSVImporter(f, cart)

	start := time.Now()
	count, err := imp.Run(ctx)
	if err != nil {
		log.Fatalf("import failed after %d lines: %v", count, err)
	}

	fmt.Printf("Imported %d lines into the cart of client %s in %s\n", count, clientID, time.Since(start).Truncate(time.Millisecond))
}
