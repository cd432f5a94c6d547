package main

import (
	"context"
	"flag"
	"log"

	"uni-hris/internal/app"
	"uni-hris/internal/bootstrap"
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

	infra, err := app.OpenInfra(cfg, logger, true)
	if err != nil {
		logger.Fatal("open infrastructure failed", zap.Error(err))
	}
	defer infra.Close()

	r := app.NewRouter(infra)
	if err := app.BuildApp(context.Background(), r, infra); err != nil {
		logger.Fatal("build app failed", zap.Error(err))
	}

	if err := bootstrap.StartHTTPServer(r, cfg.Server, bootstrap.NewStdoutAuditLogger(logger), logger); err != nil {
		logger.Fatal("http server failed", zap.Error(err))
	}
}
