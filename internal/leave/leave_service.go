package leave

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"uni-hris/internal/domain"
	leaveerrors "uni-hris/internal/leave/errors"
	"uni-hris/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	StatusPending   = "PENDING"
	StatusApproved  = "APPROVED"
	StatusRejected  = "REJECTED"
	StatusCancelled = "CANCELLED"
)

const dateLayout = "2006-01-02"

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, principal domain.Principal, req CreateLeaveRequest) (LeaveResponse, error)
	List(ctx context.Context, principal domain.Principal, filter ListFilter) ([]LeaveResponse, error)
	GetByID(ctx context.Context, principal domain.Principal, id string) (LeaveResponse, error)
	Approve(ctx context.Context, principal domain.Principal, id string) (LeaveResponse, error)
	Reject(ctx context.Context, principal domain.Principal, id, reason string) (LeaveResponse, error)
	Cancel(ctx context.Context, principal domain.Principal, id string) (LeaveResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	now    func() time.Time
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{db: db, repo: repo, now: time.Now, logger: l}
}

func (s *service) Create(ctx context.Context, principal domain.Principal, req CreateLeaveRequest) (LeaveResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	employeeID := strings.TrimSpace(req.EmployeeID)
	if employeeID == "" {
		employeeID = principal.EmployeeID
	}
	if employeeID == "" {
		return LeaveResponse{}, leaveerrors.ErrNoEmployeeRecord
	}
	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidEmployeeID
	}
	if !principal.Owns(employeeID) && !principal.IsPeopleManager() {
		return LeaveResponse{}, leaveerrors.ErrForbidden
	}

	startDate, endDate, err := parseRange(req.StartDate, req.EndDate)
	if err != nil {
		log.Warn("create leave validation failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("create leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	exists, err := qtx.EmployeeExists(ctx, employeeID)
	if err != nil {
		log.Error("create leave employee check failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if !exists {
		return LeaveResponse{}, leaveerrors.ErrEmployeeNotFound
	}

	overlap, err := qtx.HasOverlappingPeriod(ctx, employeeID, startDate, endDate, nil)
	if err != nil {
		log.Error("create leave overlap check failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if overlap {
		log.Warn("create leave overlap detected",
			zap.String("employee_id", employeeID),
			zap.String("start_date", req.StartDate),
			zap.String("end_date", req.EndDate),
		)
		return LeaveResponse{}, leaveerrors.ErrLeaveOverlap
	}

	l := &Leave{
		ID:         uuid.New(),
		EmployeeID: employeeUUID,
		LeaveType:  req.LeaveType,
		StartDate:  startDate,
		EndDate:    endDate,
		TotalDays:  int(endDate.Sub(startDate).Hours()/24) + 1,
		Reason:     req.Reason,
		Status:     StatusPending,
		CreatedBy:  principal.UserID,
	}

	if err := qtx.Create(ctx, l); err != nil {
		log.Error("create leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		log.Error("create leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	log.Info("create leave success",
		zap.String("leave_id", l.ID.String()),
		zap.String("employee_id", employeeID),
	)

	return mapToResponse(*l), nil
}

// List shows people managers every request; everyone else sees their own.
func (s *service) List(ctx context.Context, principal domain.Principal, filter ListFilter) ([]LeaveResponse, error) {
	filter.Status = strings.ToUpper(strings.TrimSpace(filter.Status))
	if filter.Status != "" && !validStatus(filter.Status) {
		return nil, leaveerrors.ErrInvalidStatusFilter
	}
	if filter.EmployeeID != "" {
		id, err := uuid.Parse(filter.EmployeeID)
		if err != nil {
			return nil, leaveerrors.ErrInvalidEmployeeID
		}
		filter.EmployeeID = id.String()
	}

	if !principal.IsPeopleManager() {
		if principal.EmployeeID == "" {
			return nil, leaveerrors.ErrNoEmployeeRecord
		}
		if filter.EmployeeID != "" && !principal.Owns(filter.EmployeeID) {
			return nil, leaveerrors.ErrForbidden
		}
		filter.EmployeeID = principal.EmployeeID
	}

	leaves, err := s.repo.List(ctx, filter)
	if err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("list leaves failed", zap.Error(err))
		return nil, err
	}
	return mapToListResponse(leaves), nil
}

func (s *service) GetByID(ctx context.Context, principal domain.Principal, id string) (LeaveResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}

	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return LeaveResponse{}, mapRepositoryError(err)
	}
	if !principal.IsPeopleManager() && !principal.Owns(l.EmployeeID.String()) {
		return LeaveResponse{}, leaveerrors.ErrForbidden
	}
	return mapToResponse(*l), nil
}

func (s *service) Approve(ctx context.Context, principal domain.Principal, id string) (LeaveResponse, error) {
	if !principal.IsPeopleManager() {
		return LeaveResponse{}, leaveerrors.ErrForbidden
	}
	return s.transition(ctx, principal, id, StatusApproved, nil)
}

func (s *service) Reject(ctx context.Context, principal domain.Principal, id, reason string) (LeaveResponse, error) {
	if !principal.IsPeopleManager() {
		return LeaveResponse{}, leaveerrors.ErrForbidden
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return LeaveResponse{}, leaveerrors.ErrRejectionReasonRequired
	}
	return s.transition(ctx, principal, id, StatusRejected, &reason)
}

// Cancel is for the request's owner only, and only while it is pending.
func (s *service) Cancel(ctx context.Context, principal domain.Principal, id string) (LeaveResponse, error) {
	return s.transition(ctx, principal, id, StatusCancelled, nil)
}

func (s *service) transition(ctx context.Context, principal domain.Principal, id, target string, reason *string) (LeaveResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("transition leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByID(ctx, id)
	if err != nil {
		return LeaveResponse{}, mapRepositoryError(err)
	}
	if target == StatusCancelled && !principal.Owns(l.EmployeeID.String()) {
		return LeaveResponse{}, leaveerrors.ErrForbidden
	}
	if l.Status != StatusPending {
		log.Warn("transition leave invalid",
			zap.String("leave_id", id),
			zap.String("from_status", l.Status),
			zap.String("to_status", target),
		)
		return LeaveResponse{}, leaveerrors.ErrInvalidStatusTransition
	}

	now := s.now().UTC()
	decidedBy := principal.UserID
	l.Status = target
	l.DecidedBy = &decidedBy
	l.DecidedAt = &now
	l.RejectionReason = reason

	if err := qtx.Update(ctx, l); err != nil {
		log.Error("transition leave persist failed",
			zap.String("leave_id", id),
			zap.String("target_status", target),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		log.Error("transition leave commit failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}
	log.Info("transition leave success",
		zap.String("leave_id", id),
		zap.String("status", target),
	)
	return mapToResponse(*l), nil
}

func parseRange(start, end string) (time.Time, time.Time, error) {
	startDate, err := time.Parse(dateLayout, start)
	if err != nil {
		return time.Time{}, time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	endDate, err := time.Parse(dateLayout, end)
	if err != nil {
		return time.Time{}, time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	if startDate.After(endDate) {
		return time.Time{}, time.Time{}, leaveerrors.ErrInvalidDateRange
	}
	return startDate, endDate, nil
}

func validStatus(s string) bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

func mapRepositoryError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return leaveerrors.ErrLeaveNotFound
	}
	return err
}

func mapToResponse(l Leave) LeaveResponse {
	resp := LeaveResponse{
		ID:              l.ID.String(),
		EmployeeID:      l.EmployeeID.String(),
		LeaveType:       l.LeaveType,
		StartDate:       l.StartDate.Format(dateLayout),
		EndDate:         l.EndDate.Format(dateLayout),
		TotalDays:       l.TotalDays,
		Reason:          l.Reason,
		Status:          l.Status,
		CreatedBy:       l.CreatedBy,
		DecidedBy:       l.DecidedBy,
		RejectionReason: l.RejectionReason,
	}
	if l.Employee != nil {
		resp.EmployeeName = l.Employee.FullName
	}
	if l.DecidedAt != nil {
		v := l.DecidedAt.Format(time.RFC3339)
		resp.DecidedAt = &v
	}
	return resp
}

func mapToListResponse(leaves []Leave) []LeaveResponse {
	resp := make([]LeaveResponse, len(leaves))
	for i, l := range leaves {
		resp[i] = mapToResponse(l)
	}
	return resp
}
