package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/levidang306/training-be/internal/infra/config"
	"github.com/levidang306/training-be/internal/infra/database"
	"github.com/levidang306/training-be/internal/infra/logger"
	postgresrepo "github.com/levidang306/training-be/internal/repository/postgres"
	"github.com/levidang306/training-be/internal/usecase"
)

func main() {
	mode := flag.String("mode", "seed", "operation to run: seed or clean")
	timeout := flag.Duration("timeout", 2*time.Minute, "overall operation timeout")
	flag.Parse()

	if err := run(*mode, *timeout); err != nil {
		log.Printf("%s failed: %v", *mode, err)
		os.Exit(1)
	}
}

func run(mode string, timeout time.Duration) error {
	if mode != "seed" && mode != "clean" {
		return fmt.Errorf("unknown mode %q, expected seed or clean", mode)
	}

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logInstance, err := logger.New(cfg.App.Env)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() {
		_ = logInstance.Sync()
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	ctx, timeoutCancel := context.WithTimeout(ctx, timeout)
	defer timeoutCancel()

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres, logInstance)
	if err != nil {
		return fmt.Errorf("init postgres: %w", err)
	}
	defer pool.Close()

	repos := postgresrepo.NewRepositories(pool)
	seeder := usecase.NewSeedService(repos.Roles, repos.Permissions, repos.Users, logInstance)

	switch mode {
	case "seed":
		if err := seeder.Seed(ctx, usecase.DefaultCatalog()); err != nil {
			return fmt.Errorf("seed catalog: %w", err)
		}
	case "clean":
		if err := seeder.Clean(ctx); err != nil {
			return fmt.Errorf("clean catalog: %w", err)
		}
	}

	return nil
}
