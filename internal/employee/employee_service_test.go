package employee_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"uni-hris/internal/domain"
	"uni-hris/internal/employee"
	employeeerrors "uni-hris/internal/employee/errors"
	employeeMock "uni-hris/internal/employee/mock"
	"uni-hris/internal/events"
	"uni-hris/internal/messaging/kafka"
	kafkaMock "uni-hris/internal/messaging/kafka/mock"
	"uni-hris/internal/shared/contextutil"
	"uni-hris/internal/shared/counter"
	counterMock "uni-hris/internal/shared/counter/mock"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type serviceDeps struct {
	db        *sql.DB
	sqlMock   sqlmock.Sqlmock
	service   employee.Service
	repo      *employeeMock.MockRepository
	counter   *counterMock.MockRepository
	redismock redismock.ClientMock
	outbox    *kafkaMock.MockOutboxRepository
}

func setupServiceTest(t *testing.T) *serviceDeps {
	ctrl := gomock.NewController(t)

	db, sqlMock, _ := sqlmock.New()
	t.Cleanup(func() { db.Close() })
	dbRedis, redisMock := redismock.NewClientMock()
	repo := employeeMock.NewMockRepository(ctrl)
	counterRepo := counterMock.NewMockRepository(ctrl)
	outboxRepo := kafkaMock.NewMockOutboxRepository(ctrl)

	svc := employee.NewServiceWithOutbox(db, repo, counterRepo, outboxRepo, dbRedis, zap.NewNop())

	return &serviceDeps{
		db:        db,
		sqlMock:   sqlMock,
		service:   svc,
		repo:      repo,
		counter:   counterRepo,
		outbox:    outboxRepo,
		redismock: redisMock,
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

func validCreateRequest() employee.CreateEmployeeRequest {
	return employee.CreateEmployeeRequest{
		FullName:   "Amina Wanjiru",
		Email:      "amina@uni.ac.ke",
		Department: "Physics",
		Position:   "Lecturer",
		BaseSalary: decimal.NewFromInt(50000),
		NHIFRate:   decimal.RequireFromString("0.02"),
		NSSFRate:   decimal.RequireFromString("0.03"),
	}
}

func TestEmployeeService_Create(t *testing.T) {
	t.Run("success - generates staff number and queues event", func(t *testing.T) {
		deps := setupServiceTest(t)
		ctx := contextutil.WithRequestID(context.Background(), "REQ-1")
		req := validCreateRequest()

		deps.counter.EXPECT().
			GetNextValue(ctx, counter.StaffNumber).
			Return(int64(7), nil)

		expectTx(t, deps.sqlMock, true)

		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().
			Create(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, e *employee.Employee) error {
				assert.Equal(t, "STF-000007", e.StaffNumber)
				assert.True(t, e.BaseSalary.Equal(decimal.NewFromInt(50000)))
				return nil
			})

		deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
		deps.outbox.EXPECT().
			Create(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, ev kafka.OutboxEvent) error {
				assert.Equal(t, "REQ-1", ev.RequestID)
				assert.Equal(t, events.EmployeeCreatedTopic, ev.Topic)
				var payload events.EmployeeCreatedEvent
				assert.NoError(t, json.Unmarshal(ev.Payload, &payload))
				assert.Equal(t, "STF-000007", payload.StaffNumber)
				return nil
			})

		deps.redismock.ExpectDel(employee.EmployeeOptionsKey).SetVal(1)

		resp, err := deps.service.Create(ctx, req)

		assert.NoError(t, err)
		assert.Equal(t, "STF-000007", resp.StaffNumber)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("explicit staff number skips counter", func(t *testing.T) {
		deps := setupServiceTest(t)
		ctx := context.Background()
		req := validCreateRequest()
		req.StaffNumber = "PHY-001"

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().Create(ctx, gomock.Any()).Return(nil)
		deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
		deps.outbox.EXPECT().Create(ctx, gomock.Any()).Return(nil)
		deps.redismock.ExpectDel(employee.EmployeeOptionsKey).SetVal(1)

		resp, err := deps.service.Create(ctx, req)

		assert.NoError(t, err)
		assert.Equal(t, "PHY-001", resp.StaffNumber)
	})

	t.Run("rate above one is rejected before any write", func(t *testing.T) {
		deps := setupServiceTest(t)
		req := validCreateRequest()
		req.NSSFRate = decimal.RequireFromString("1.5")

		_, err := deps.service.Create(context.Background(), req)

		assert.ErrorIs(t, err, employeeerrors.ErrInvalidRate)
	})

	t.Run("duplicate email maps to conflict", func(t *testing.T) {
		deps := setupServiceTest(t)
		ctx := context.Background()
		req := validCreateRequest()
		req.StaffNumber = "PHY-002"

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().
			Create(ctx, gomock.Any()).
			Return(&pgconn.PgError{Code: "23505", ConstraintName: "uq_employees_email"})

		_, err := deps.service.Create(ctx, req)

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeAlreadyExists)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestEmployeeService_GetOptions(t *testing.T) {
	t.Run("cache hit", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.redismock.ExpectGet(employee.EmployeeOptionsKey).
			SetVal(`[{"id":"e1","staff_number":"STF-000001","full_name":"Amina"}]`)

		got, err := deps.service.GetOptions(context.Background())

		assert.NoError(t, err)
		assert.Len(t, got, 1)
		assert.Equal(t, "Amina", got[0].FullName)
	})

	t.Run("cache miss loads and stores", func(t *testing.T) {
		deps := setupServiceTest(t)
		ctx := context.Background()
		id := uuid.New()

		deps.redismock.ExpectGet(employee.EmployeeOptionsKey).RedisNil()
		deps.repo.EXPECT().FindOptions(ctx).Return([]employee.Employee{
			{ID: id, StaffNumber: "STF-000001", FullName: "Amina"},
		}, nil)
		deps.redismock.ExpectSet(employee.EmployeeOptionsKey, gomock.Any(), time.Hour).SetVal("OK")

		got, err := deps.service.GetOptions(ctx)

		assert.NoError(t, err)
		assert.Equal(t, id.String(), got[0].ID)
	})
}

func TestEmployeeService_GetByID(t *testing.T) {
	deps := setupServiceTest(t)
	ctx := context.Background()

	t.Run("invalid id", func(t *testing.T) {
		_, err := deps.service.GetByID(ctx, "not-a-uuid")
		assert.ErrorIs(t, err, employeeerrors.ErrInvalidEmployeeID)
	})

	t.Run("not found", func(t *testing.T) {
		id := uuid.NewString()
		deps.repo.EXPECT().FindByID(ctx, id).Return(nil, gorm.ErrRecordNotFound)

		_, err := deps.service.GetByID(ctx, id)

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})
}

func TestEmployeeService_GetMe(t *testing.T) {
	deps := setupServiceTest(t)
	ctx := context.Background()

	_, err := deps.service.GetMe(ctx, domain.Principal{UserID: "u1", Role: domain.RoleAdmin})
	assert.ErrorIs(t, err, employeeerrors.ErrNoEmployeeRecord)

	id := uuid.New()
	deps.repo.EXPECT().FindByID(ctx, id.String()).Return(&employee.Employee{ID: id, FullName: "Amina"}, nil)

	resp, err := deps.service.GetMe(ctx, domain.Principal{UserID: "u1", EmployeeID: id.String(), Role: domain.RoleEmployee})
	assert.NoError(t, err)
	assert.Equal(t, "Amina", resp.FullName)
}

func TestEmployeeService_Update(t *testing.T) {
	deps := setupServiceTest(t)
	ctx := context.Background()
	id := uuid.New()
	existing := &employee.Employee{ID: id, StaffNumber: "STF-000001", FullName: "Old"}

	expectTx(t, deps.sqlMock, true)
	deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
	deps.repo.EXPECT().FindByID(ctx, id.String()).Return(existing, nil)
	deps.repo.EXPECT().Update(ctx, existing).Return(nil)
	deps.redismock.ExpectDel(employee.EmployeeOptionsKey).SetVal(1)

	resp, err := deps.service.Update(ctx, id.String(), employee.UpdateEmployeeRequest{
		FullName:   "New",
		Email:      "new@uni.ac.ke",
		BaseSalary: decimal.NewFromInt(1000),
	})

	assert.NoError(t, err)
	assert.Equal(t, "New", resp.FullName)
	assert.Equal(t, "STF-000001", resp.StaffNumber)
}

func TestEmployeeService_Delete(t *testing.T) {
	deps := setupServiceTest(t)
	ctx := context.Background()
	id := uuid.NewString()

	expectTx(t, deps.sqlMock, true)
	deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
	deps.repo.EXPECT().Delete(ctx, id).Return(nil)
	deps.redismock.ExpectDel(employee.EmployeeOptionsKey).SetVal(1)

	assert.NoError(t, deps.service.Delete(ctx, id))
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}
