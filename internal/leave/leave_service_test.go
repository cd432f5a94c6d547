package leave_test

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"uni-hris/internal/domain"
	"uni-hris/internal/leave"
	leaveerrors "uni-hris/internal/leave/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeLeaveRepository struct {
	withTxFn               func(tx *sql.Tx) leave.Repository
	createFn               func(ctx context.Context, l *leave.Leave) error
	listFn                 func(ctx context.Context, filter leave.ListFilter) ([]leave.Leave, error)
	findByIDFn             func(ctx context.Context, id string) (*leave.Leave, error)
	updateFn               func(ctx context.Context, l *leave.Leave) error
	employeeExistsFn       func(ctx context.Context, employeeID string) (bool, error)
	hasOverlappingPeriodFn func(ctx context.Context, employeeID string, startDate, endDate time.Time, excludeID *string) (bool, error)
}

func (f *fakeLeaveRepository) WithTx(tx *sql.Tx) leave.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeLeaveRepository) Create(ctx context.Context, l *leave.Leave) error {
	if f.createFn != nil {
		return f.createFn(ctx, l)
	}
	return nil
}

func (f *fakeLeaveRepository) List(ctx context.Context, filter leave.ListFilter) ([]leave.Leave, error) {
	if f.listFn != nil {
		return f.listFn(ctx, filter)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) FindByID(ctx context.Context, id string) (*leave.Leave, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLeaveRepository) Update(ctx context.Context, l *leave.Leave) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, l)
	}
	return nil
}

func (f *fakeLeaveRepository) EmployeeExists(ctx context.Context, employeeID string) (bool, error) {
	if f.employeeExistsFn != nil {
		return f.employeeExistsFn(ctx, employeeID)
	}
	return true, nil
}

func (f *fakeLeaveRepository) HasOverlappingPeriod(ctx context.Context, employeeID string, startDate, endDate time.Time, excludeID *string) (bool, error) {
	if f.hasOverlappingPeriodFn != nil {
		return f.hasOverlappingPeriodFn(ctx, employeeID, startDate, endDate, excludeID)
	}
	return false, nil
}

type leaveServiceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service leave.Service
	repo    *fakeLeaveRepository
}

func setupLeaveServiceTest(t *testing.T) *leaveServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := &fakeLeaveRepository{}
	svc := leave.NewService(db, repo)

	return &leaveServiceDeps{
		db:      db,
		sqlMock: sqlMock,
		service: svc,
		repo:    repo,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

var (
	ownerID   = uuid.New()
	managerHR = domain.Principal{UserID: uuid.NewString(), Role: domain.RoleHR}
)

func ownerPrincipal() domain.Principal {
	return domain.Principal{UserID: uuid.NewString(), EmployeeID: ownerID.String(), Role: domain.RoleEmployee}
}

func pendingLeave(employeeID uuid.UUID) *leave.Leave {
	return &leave.Leave{
		ID:         uuid.New(),
		EmployeeID: employeeID,
		LeaveType:  "ANNUAL",
		StartDate:  time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC),
		TotalDays:  3,
		Status:     leave.StatusPending,
	}
}

func TestLeaveService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success for own record", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		p := ownerPrincipal()

		expectTx(t, deps.sqlMock, true)
		req := leave.CreateLeaveRequest{
			LeaveType: "STUDY",
			StartDate: "2026-03-01",
			EndDate:   "2026-03-03",
			Reason:    "Thesis defence",
		}

		deps.repo.hasOverlappingPeriodFn = func(ctx context.Context, eid string, startDate, endDate time.Time, excludeID *string) (bool, error) {
			assert.Equal(t, ownerID.String(), eid)
			assert.Nil(t, excludeID)
			assert.Equal(t, "2026-03-01", startDate.Format("2006-01-02"))
			assert.Equal(t, "2026-03-03", endDate.Format("2006-01-02"))
			return false, nil
		}
		deps.repo.createFn = func(ctx context.Context, l *leave.Leave) error {
			assert.Equal(t, ownerID, l.EmployeeID)
			assert.Equal(t, p.UserID, l.CreatedBy)
			assert.Equal(t, 3, l.TotalDays)
			assert.Equal(t, leave.StatusPending, l.Status)
			return nil
		}

		resp, err := deps.service.Create(ctx, p, req)

		assert.NoError(t, err)
		assert.Equal(t, ownerID.String(), resp.EmployeeID)
		assert.Equal(t, "STUDY", resp.LeaveType)
		assert.Equal(t, 3, resp.TotalDays)
		assert.Equal(t, leave.StatusPending, resp.Status)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("overlap is a conflict", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)

		expectTx(t, deps.sqlMock, false)
		deps.repo.hasOverlappingPeriodFn = func(context.Context, string, time.Time, time.Time, *string) (bool, error) {
			return true, nil
		}

		_, err := deps.service.Create(ctx, ownerPrincipal(), leave.CreateLeaveRequest{
			LeaveType: "ANNUAL", StartDate: "2026-03-01", EndDate: "2026-03-02",
		})

		assert.ErrorIs(t, err, leaveerrors.ErrLeaveOverlap)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("employee cannot file for someone else", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)

		_, err := deps.service.Create(ctx, ownerPrincipal(), leave.CreateLeaveRequest{
			EmployeeID: uuid.NewString(), LeaveType: "SICK", StartDate: "2026-03-01", EndDate: "2026-03-01",
		})

		assert.ErrorIs(t, err, leaveerrors.ErrForbidden)
	})

	t.Run("hr files on behalf of an employee", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		target := uuid.New()

		expectTx(t, deps.sqlMock, true)
		deps.repo.employeeExistsFn = func(_ context.Context, eid string) (bool, error) {
			assert.Equal(t, target.String(), eid)
			return true, nil
		}

		resp, err := deps.service.Create(ctx, managerHR, leave.CreateLeaveRequest{
			EmployeeID: target.String(), LeaveType: "SICK", StartDate: "2026-03-01", EndDate: "2026-03-01",
		})

		assert.NoError(t, err)
		assert.Equal(t, 1, resp.TotalDays)
	})

	t.Run("unknown employee", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)

		expectTx(t, deps.sqlMock, false)
		deps.repo.employeeExistsFn = func(context.Context, string) (bool, error) { return false, nil }

		_, err := deps.service.Create(ctx, managerHR, leave.CreateLeaveRequest{
			EmployeeID: uuid.NewString(), LeaveType: "SICK", StartDate: "2026-03-01", EndDate: "2026-03-01",
		})

		assert.ErrorIs(t, err, leaveerrors.ErrEmployeeNotFound)
	})

	t.Run("account without employee record", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)

		_, err := deps.service.Create(ctx, managerHR, leave.CreateLeaveRequest{
			LeaveType: "SICK", StartDate: "2026-03-01", EndDate: "2026-03-01",
		})

		assert.ErrorIs(t, err, leaveerrors.ErrNoEmployeeRecord)
	})

	t.Run("invalid dates", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)

		_, err := deps.service.Create(ctx, ownerPrincipal(), leave.CreateLeaveRequest{
			LeaveType: "SICK", StartDate: "01/03/2026", EndDate: "2026-03-01",
		})
		assert.ErrorIs(t, err, leaveerrors.ErrInvalidDateFormat)

		_, err = deps.service.Create(ctx, ownerPrincipal(), leave.CreateLeaveRequest{
			LeaveType: "SICK", StartDate: "2026-03-05", EndDate: "2026-03-01",
		})
		assert.ErrorIs(t, err, leaveerrors.ErrInvalidDateRange)
	})
}

func TestLeaveService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("employee sees only own", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		deps.repo.listFn = func(_ context.Context, filter leave.ListFilter) ([]leave.Leave, error) {
			assert.Equal(t, ownerID.String(), filter.EmployeeID)
			assert.Equal(t, leave.StatusPending, filter.Status)
			return []leave.Leave{*pendingLeave(ownerID)}, nil
		}

		resp, err := deps.service.List(ctx, ownerPrincipal(), leave.ListFilter{Status: "pending"})

		assert.NoError(t, err)
		assert.Len(t, resp, 1)
	})

	t.Run("own id in upper case is still own", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		deps.repo.listFn = func(_ context.Context, filter leave.ListFilter) ([]leave.Leave, error) {
			assert.Equal(t, ownerID.String(), filter.EmployeeID)
			return nil, nil
		}

		_, err := deps.service.List(ctx, ownerPrincipal(), leave.ListFilter{EmployeeID: strings.ToUpper(ownerID.String())})

		assert.NoError(t, err)
	})

	t.Run("employee asking for another", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)

		_, err := deps.service.List(ctx, ownerPrincipal(), leave.ListFilter{EmployeeID: uuid.NewString()})

		assert.ErrorIs(t, err, leaveerrors.ErrForbidden)
	})

	t.Run("hr sees all", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		deps.repo.listFn = func(_ context.Context, filter leave.ListFilter) ([]leave.Leave, error) {
			assert.Empty(t, filter.EmployeeID)
			return []leave.Leave{*pendingLeave(ownerID), *pendingLeave(uuid.New())}, nil
		}

		resp, err := deps.service.List(ctx, managerHR, leave.ListFilter{})

		assert.NoError(t, err)
		assert.Len(t, resp, 2)
	})

	t.Run("unknown status filter", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)

		_, err := deps.service.List(ctx, managerHR, leave.ListFilter{Status: "DRAFT"})

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidStatusFilter)
	})
}

func TestLeaveService_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("other employee's request is forbidden", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		l := pendingLeave(uuid.New())
		deps.repo.findByIDFn = func(context.Context, string) (*leave.Leave, error) { return l, nil }

		_, err := deps.service.GetByID(ctx, ownerPrincipal(), l.ID.String())

		assert.ErrorIs(t, err, leaveerrors.ErrForbidden)
	})

	t.Run("not found", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)

		_, err := deps.service.GetByID(ctx, managerHR, uuid.NewString())

		assert.ErrorIs(t, err, leaveerrors.ErrLeaveNotFound)
	})
}

func TestLeaveService_Decisions(t *testing.T) {
	ctx := context.Background()

	t.Run("hr approves pending", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		l := pendingLeave(ownerID)

		expectTx(t, deps.sqlMock, true)
		deps.repo.findByIDFn = func(context.Context, string) (*leave.Leave, error) { return l, nil }
		deps.repo.updateFn = func(_ context.Context, updated *leave.Leave) error {
			assert.Equal(t, leave.StatusApproved, updated.Status)
			assert.Equal(t, managerHR.UserID, *updated.DecidedBy)
			assert.NotNil(t, updated.DecidedAt)
			return nil
		}

		resp, err := deps.service.Approve(ctx, managerHR, l.ID.String())

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusApproved, resp.Status)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("employee cannot approve", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)

		_, err := deps.service.Approve(ctx, ownerPrincipal(), uuid.NewString())

		assert.ErrorIs(t, err, leaveerrors.ErrForbidden)
	})

	t.Run("reject needs a reason", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)

		_, err := deps.service.Reject(ctx, managerHR, uuid.NewString(), " ")

		assert.ErrorIs(t, err, leaveerrors.ErrRejectionReasonRequired)
	})

	t.Run("reject stores the reason", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		l := pendingLeave(ownerID)

		expectTx(t, deps.sqlMock, true)
		deps.repo.findByIDFn = func(context.Context, string) (*leave.Leave, error) { return l, nil }

		resp, err := deps.service.Reject(ctx, managerHR, l.ID.String(), "exam period")

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusRejected, resp.Status)
		assert.Equal(t, "exam period", *resp.RejectionReason)
	})

	t.Run("decided requests are final", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		l := pendingLeave(ownerID)
		l.Status = leave.StatusApproved

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDFn = func(context.Context, string) (*leave.Leave, error) { return l, nil }

		_, err := deps.service.Reject(ctx, managerHR, l.ID.String(), "late")

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidStatusTransition)
	})

	t.Run("owner cancels while pending", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		l := pendingLeave(ownerID)

		expectTx(t, deps.sqlMock, true)
		deps.repo.findByIDFn = func(context.Context, string) (*leave.Leave, error) { return l, nil }

		resp, err := deps.service.Cancel(ctx, ownerPrincipal(), l.ID.String())

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusCancelled, resp.Status)
	})

	t.Run("hr cannot cancel someone else's request", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		l := pendingLeave(ownerID)

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDFn = func(context.Context, string) (*leave.Leave, error) { return l, nil }

		_, err := deps.service.Cancel(ctx, managerHR, l.ID.String())

		assert.ErrorIs(t, err, leaveerrors.ErrForbidden)
	})

	t.Run("persist failure", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		l := pendingLeave(ownerID)

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDFn = func(context.Context, string) (*leave.Leave, error) { return l, nil }
		deps.repo.updateFn = func(context.Context, *leave.Leave) error { return errors.New("db down") }

		_, err := deps.service.Approve(ctx, managerHR, l.ID.String())

		assert.Error(t, err)
	})
}
