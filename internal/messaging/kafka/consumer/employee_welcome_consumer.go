package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"uni-hris/internal/events"
	"uni-hris/internal/notification"
	notificationerrors "uni-hris/internal/notification/errors"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EmployeeWelcomeHandler greets every newly created employee once.
func EmployeeWelcomeHandler(notifier notification.Service, logger *zap.Logger) HandleFunc {
	log := logger.Named("kafka.consumer.employee_welcome")
	return func(ctx context.Context, msg kafkago.Message) error {
		var event events.EmployeeCreatedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			return fmt.Errorf("%w: decode employee event: %v", ErrSkip, err)
		}
		if event.EventType != "" && event.EventType != events.EmployeeCreatedType {
			return nil
		}

		err := notifier.Notify(ctx, notification.NotifyInput{
			EmployeeID: event.EmployeeID,
			Kind:       notification.KindWelcome,
			Title:      "Welcome to the university",
			Body:       fmt.Sprintf("Your staff number is %s.", event.StaffNumber),
			RefID:      event.EmployeeID,
		})
		if errors.Is(err, notificationerrors.ErrInvalidNotification) {
			return fmt.Errorf("%w: %v", ErrSkip, err)
		}
		if err != nil {
			return err
		}

		log.Info("welcome notification stored",
			zap.String("employee_id", event.EmployeeID),
			zap.String("staff_number", event.StaffNumber),
		)
		return nil
	}
}
