package main

import (
	"context"
	"flag"
	"log"

	"uni-hris/internal/app"
	"uni-hris/internal/auth"
	"uni-hris/internal/config"
	"uni-hris/internal/employee"
	"uni-hris/internal/shared/migrations"

	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "path to config file (defaults to ./config.yaml)")
	down := flag.Bool("down", false, "roll back the most recent migration")
	seed := flag.Bool("seed", false, "create the bootstrap admin account after migrating")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := app.NewLogger(cfg)
	if err != nil {
		log.Fatalf("build logger: %v", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	infra, err := app.OpenInfra(cfg, logger, false)
	if err != nil {
		logger.Fatal("open infrastructure failed", zap.Error(err))
	}
	defer infra.Close()

	ctx := context.Background()
	if *down {
		if err := migrations.Down(ctx, infra.DB, cfg.Database.Driver); err != nil {
			logger.Fatal("migrate down failed", zap.Error(err))
		}
		logger.Info("rolled back one migration")
		return
	}

	if err := migrations.Up(ctx, infra.DB, cfg.Database.Driver); err != nil {
		logger.Fatal("migrate up failed", zap.Error(err))
	}
	logger.Info("migrations applied")

	if !*seed {
		return
	}
	if cfg.Seed.AdminPassword == "" {
		logger.Fatal("seed.admin_password is required with -seed")
	}

	authService := auth.NewService(
		infra.DB,
		auth.NewRepository(infra.GormDB),
		employee.NewRepository(infra.GormDB),
		app.NewTokenManager(infra),
		logger,
	)
	created, err := authService.EnsureAdmin(ctx, cfg.Seed.AdminEmail, cfg.Seed.AdminPassword)
	if err != nil {
		logger.Fatal("seed admin failed", zap.Error(err))
	}
	logger.Info("admin seed finished", zap.String("email", cfg.Seed.AdminEmail), zap.Bool("created", created))
}
