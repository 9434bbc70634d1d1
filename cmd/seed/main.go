package main

import (
	"context"
	"log"
	"os"
	"strings"

	"driphorizon/internal/config"
	"driphorizon/internal/db"
	userrepo "driphorizon/internal/repository/user"
	"driphorizon/internal/seed"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[seed] ", log.LstdFlags|log.LUTC|log.Lshortfile)
	if names := cfg.DefaultSecrets(); len(names) > 0 {
		logger.Printf("warning: using development defaults for %s; set them before deploying", strings.Join(names, ", "))
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString, cfg.DBMaxConns)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	if err := seed.Apply(ctx, userrepo.NewPostgres(pool, logger), cfg.AdminUsername, cfg.AdminPassword); err != nil {
		logger.Fatalf("seed apply: %v", err)
	}

	logger.Println("seed applied")
}
