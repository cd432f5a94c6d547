package consumer

import (
	"context"
	"encoding/json"
	"fmt"

	"uni-hris/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type PayslipArchiver interface {
	Archive(ctx context.Context, payslipID string) error
}

// PayslipArchiveHandler renders and stores the PDF for each generated payslip.
func PayslipArchiveHandler(archiver PayslipArchiver, logger *zap.Logger) HandleFunc {
	log := logger.Named("kafka.consumer.payslip_archive")
	return func(ctx context.Context, msg kafkago.Message) error {
		var event events.PayslipGeneratedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			return fmt.Errorf("%w: decode payslip event: %v", ErrSkip, err)
		}
		if event.PayslipID == "" {
			return fmt.Errorf("%w: payslip event without payslip_id", ErrSkip)
		}

		if err := archiver.Archive(ctx, event.PayslipID); err != nil {
			return err
		}

		log.Info("payslip archived",
			zap.String("payslip_id", event.PayslipID),
			zap.String("employee_id", event.EmployeeID),
			zap.String("request_id", event.RequestID),
		)
		return nil
	}
}
