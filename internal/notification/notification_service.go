package notification

import (
	"context"
	"errors"
	"strings"
	"time"

	"uni-hris/internal/domain"
	notificationerrors "uni-hris/internal/notification/errors"
	"uni-hris/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=notification_service.go -destination=mock/notification_service_mock.go -package=mock
type Service interface {
	Notify(ctx context.Context, in NotifyInput) error
	List(ctx context.Context, principal domain.Principal, unreadOnly bool) ([]NotificationResponse, error)
	MarkRead(ctx context.Context, principal domain.Principal, id string) (NotificationResponse, error)
}

type service struct {
	repo   Repository
	now    func() time.Time
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("notification.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.service")
	}
	return &service{repo: repo, now: time.Now, logger: l}
}

// Notify stores a notification. A repeat for the same (employee, kind, ref)
// is a no-op so redelivered events do not duplicate.
func (s *service) Notify(ctx context.Context, in NotifyInput) error {
	log := contextutil.GetLogger(ctx, s.logger)

	employeeID, err := uuid.Parse(in.EmployeeID)
	if err != nil || strings.TrimSpace(in.Kind) == "" || strings.TrimSpace(in.Title) == "" {
		return notificationerrors.ErrInvalidNotification
	}

	n := &Notification{
		ID:         uuid.New(),
		EmployeeID: employeeID,
		Kind:       in.Kind,
		Title:      in.Title,
		Body:       in.Body,
	}
	if in.RefID != "" {
		ref := in.RefID
		n.RefID = &ref
	}

	if err := s.repo.Create(ctx, n); err != nil {
		if isDuplicate(err) {
			log.Debug("notification already delivered",
				zap.String("employee_id", in.EmployeeID),
				zap.String("kind", in.Kind),
				zap.String("ref_id", in.RefID),
			)
			return nil
		}
		log.Error("create notification failed", zap.Error(err))
		return err
	}

	log.Info("notification created",
		zap.String("notification_id", n.ID.String()),
		zap.String("employee_id", in.EmployeeID),
		zap.String("kind", in.Kind),
	)
	return nil
}

func (s *service) List(ctx context.Context, principal domain.Principal, unreadOnly bool) ([]NotificationResponse, error) {
	if principal.EmployeeID == "" {
		return nil, notificationerrors.ErrNoEmployeeRecord
	}

	items, err := s.repo.ListByEmployee(ctx, principal.EmployeeID, unreadOnly)
	if err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("list notifications failed", zap.Error(err))
		return nil, err
	}

	out := make([]NotificationResponse, 0, len(items))
	for _, n := range items {
		out = append(out, mapToResponse(n))
	}
	return out, nil
}

func (s *service) MarkRead(ctx context.Context, principal domain.Principal, id string) (NotificationResponse, error) {
	if principal.EmployeeID == "" {
		return NotificationResponse{}, notificationerrors.ErrNoEmployeeRecord
	}
	if _, err := uuid.Parse(id); err != nil {
		return NotificationResponse{}, notificationerrors.ErrInvalidNotificationID
	}

	n, err := s.repo.FindByID(ctx, id, principal.EmployeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotificationResponse{}, notificationerrors.ErrNotificationNotFound
		}
		return NotificationResponse{}, err
	}
	if n.ReadAt != nil {
		return mapToResponse(*n), nil
	}

	at := s.now().UTC()
	if err := s.repo.MarkRead(ctx, id, principal.EmployeeID, at); err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("mark notification read failed", zap.Error(err))
		return NotificationResponse{}, err
	}
	n.ReadAt = &at
	return mapToResponse(*n), nil
}

func isDuplicate(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint failed") || strings.Contains(msg, "uq_notifications_kind_ref")
}

func mapToResponse(n Notification) NotificationResponse {
	resp := NotificationResponse{
		ID:        n.ID.String(),
		Kind:      n.Kind,
		Title:     n.Title,
		Body:      n.Body,
		RefID:     n.RefID,
		Read:      n.ReadAt != nil,
		CreatedAt: n.CreatedAt.Format(time.RFC3339),
	}
	if n.ReadAt != nil {
		v := n.ReadAt.Format(time.RFC3339)
		resp.ReadAt = &v
	}
	return resp
}
