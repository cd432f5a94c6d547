package app

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"uni-hris/internal/events"
	"uni-hris/internal/messaging/kafka/consumer"
	"uni-hris/internal/notification"
	"uni-hris/internal/payroll"
	"uni-hris/internal/shared/connection"

	"go.uber.org/zap"
)

// RunConsumer archives generated payslips and greets new employees until
// SIGINT/SIGTERM.
func RunConsumer(in *Infra) error {
	logger := in.Logger.Named("app.consumer")
	cfg := in.Config.Kafka

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := NewStore(ctx, in)
	if err != nil {
		return err
	}
	if store == nil {
		return errors.New("consumer: storage.bucket is required to archive payslips")
	}

	if err := connection.ConnectKafkaWithRetry(cfg, events.Topics(), logger); err != nil {
		return err
	}

	notificationService := notification.NewService(notification.NewRepository(in.GormDB), logger)
	archiver := payroll.NewArchiver(payroll.NewRepository(in.GormDB), store, notificationService, PayrollOptions(in), logger)

	payslipReader := consumer.NewReader(cfg.Brokers, cfg.GroupID+".payslip-archive", events.PayslipGeneratedTopic)
	defer payslipReader.Close()
	employeeReader := consumer.NewReader(cfg.Brokers, cfg.GroupID+".employee-welcome", events.EmployeeCreatedTopic)
	defer employeeReader.Close()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		consumer.Run(ctx, "payslip_archive", payslipReader, consumer.PayslipArchiveHandler(archiver, logger), logger)
	}()
	go func() {
		defer wg.Done()
		consumer.Run(ctx, "employee_welcome", employeeReader, consumer.EmployeeWelcomeHandler(notificationService, logger), logger)
	}()
	wg.Wait()

	logger.Info("consumer shut down", zap.Error(context.Cause(ctx)))
	return nil
}
