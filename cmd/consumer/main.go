package main

import (
	"flag"
	"log"

	"uni-hris/internal/app"
	"uni-hris/internal/config"
	"uni-hris/internal/shared/apperror"

	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "path to config file (defaults to ./config.yaml)")
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

	apperror.Init()

	infra, err := app.OpenInfra(cfg, logger, false)
	if err != nil {
		logger.Fatal("open infrastructure failed", zap.Error(err))
	}
	defer infra.Close()

	if err := app.RunConsumer(infra); err != nil {
		logger.Fatal("run consumer failed", zap.Error(err))
	}
}
