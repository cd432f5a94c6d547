package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"uni-hris/internal/events"
	"uni-hris/internal/messaging/kafka"
	"uni-hris/internal/messaging/kafka/producer"
	"uni-hris/internal/shared/connection"

	"go.uber.org/zap"
)

// RunWorker relays pending outbox rows to Kafka until SIGINT/SIGTERM.
func RunWorker(in *Infra) error {
	logger := in.Logger.Named("app.worker")
	cfg := in.Config.Kafka

	if err := connection.ConnectKafkaWithRetry(cfg, events.Topics(), logger); err != nil {
		return err
	}
	writer := producer.NewWriter(cfg.Brokers)
	defer writer.Close()

	outboxRepo := kafka.NewOutboxRepository(in.GormDB)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	producer.ProcessOutboxEvents(ctx, outboxRepo, writer, logger, cfg.PollInterval)

	logger.Info("worker shut down", zap.Error(context.Cause(ctx)))
	return nil
}
