package payroll_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"uni-hris/internal/employee"
	"uni-hris/internal/payroll"
	"uni-hris/internal/shared/testdb"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func seedEmployee(t *testing.T, db *gorm.DB, staffNumber string) uuid.UUID {
	t.Helper()
	e := sampleEmployee(uuid.New())
	e.StaffNumber = staffNumber
	e.Email = staffNumber + "@uni.ac.ke"
	assert.NoError(t, employee.NewRepository(db).Create(context.Background(), e))
	return e.ID
}

func newPayslip(employeeID uuid.UUID, year, month int) *payroll.Payslip {
	p := samplePayslip(employeeID)
	p.ID = uuid.New()
	p.Employee = nil
	p.Year = year
	p.Month = month
	p.CreatedAt = time.Time{}
	return p
}

func TestPayslipRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("create and find with employee", func(t *testing.T) {
		db := testdb.Open(t)
		repo := payroll.NewRepository(db)
		empID := seedEmployee(t, db, "STF-000001")

		p := newPayslip(empID, 2025, 3)
		assert.NoError(t, repo.Create(ctx, p))

		got, err := repo.FindByID(ctx, p.ID.String())
		assert.NoError(t, err)
		assert.Equal(t, "STF-000001", got.Employee.StaffNumber)
		assert.True(t, dec("34000").Equal(got.NetPay))
		assert.True(t, got.TotalDeductions.Valid)
		assert.True(t, dec("18000").Equal(got.TotalDeductions.Decimal))
		assert.JSONEq(t, *p.Deductions, *got.Deductions)
	})

	t.Run("one payslip per employee and period", func(t *testing.T) {
		db := testdb.Open(t)
		repo := payroll.NewRepository(db)
		empID := seedEmployee(t, db, "STF-000002")

		assert.NoError(t, repo.Create(ctx, newPayslip(empID, 2025, 3)))

		exists, err := repo.ExistsForPeriod(ctx, empID.String(), 2025, 3)
		assert.NoError(t, err)
		assert.True(t, exists)

		err = repo.Create(ctx, newPayslip(empID, 2025, 3))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "UNIQUE constraint failed")
	})

	t.Run("flat total may be absent", func(t *testing.T) {
		db := testdb.Open(t)
		repo := payroll.NewRepository(db)
		empID := seedEmployee(t, db, "STF-000003")

		p := newPayslip(empID, 2024, 12)
		p.TotalDeductions = decimal.NullDecimal{}
		assert.NoError(t, repo.Create(ctx, p))

		got, err := repo.FindByID(ctx, p.ID.String())
		assert.NoError(t, err)
		assert.False(t, got.TotalDeductions.Valid)
	})

	t.Run("list filters and orders newest period first", func(t *testing.T) {
		db := testdb.Open(t)
		repo := payroll.NewRepository(db)
		a := seedEmployee(t, db, "STF-000004")
		b := seedEmployee(t, db, "STF-000005")

		assert.NoError(t, repo.Create(ctx, newPayslip(a, 2025, 1)))
		assert.NoError(t, repo.Create(ctx, newPayslip(a, 2025, 2)))
		assert.NoError(t, repo.Create(ctx, newPayslip(a, 2024, 12)))
		assert.NoError(t, repo.Create(ctx, newPayslip(b, 2025, 2)))

		own, err := repo.List(ctx, payroll.ListFilter{EmployeeID: a.String()})
		assert.NoError(t, err)
		assert.Len(t, own, 3)
		assert.Equal(t, []int{2, 1, 12}, []int{own[0].Month, own[1].Month, own[2].Month})

		feb, err := repo.List(ctx, payroll.ListFilter{Year: 2025, Month: 2})
		assert.NoError(t, err)
		assert.Len(t, feb, 2)

		unpaid := false
		all, err := repo.List(ctx, payroll.ListFilter{Paid: &unpaid})
		assert.NoError(t, err)
		assert.Len(t, all, 4)
	})

	t.Run("find by ids keeps caller order", func(t *testing.T) {
		db := testdb.Open(t)
		repo := payroll.NewRepository(db)
		empID := seedEmployee(t, db, "STF-000006")

		first := newPayslip(empID, 2025, 1)
		second := newPayslip(empID, 2025, 2)
		assert.NoError(t, repo.Create(ctx, first))
		assert.NoError(t, repo.Create(ctx, second))

		got, err := repo.FindByIDs(ctx, []string{second.ID.String(), uuid.NewString(), first.ID.String()})
		assert.NoError(t, err)
		assert.Len(t, got, 2)
		assert.Equal(t, second.ID, got[0].ID)
		assert.Equal(t, first.ID, got[1].ID)
		assert.NotNil(t, got[0].Employee)
	})

	t.Run("mark paid inside a transaction", func(t *testing.T) {
		db := testdb.Open(t)
		repo := payroll.NewRepository(db)
		empID := seedEmployee(t, db, "STF-000007")
		p := newPayslip(empID, 2025, 3)
		assert.NoError(t, repo.Create(ctx, p))

		sqlDB, err := db.DB()
		assert.NoError(t, err)
		tx, err := sqlDB.BeginTx(ctx, &sql.TxOptions{})
		assert.NoError(t, err)

		ref := "MPESA-1"
		paidAt := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
		assert.NoError(t, repo.WithTx(tx).MarkPaid(ctx, p.ID.String(), paidAt, &ref))
		assert.NoError(t, tx.Commit())

		got, err := repo.FindByID(ctx, p.ID.String())
		assert.NoError(t, err)
		assert.True(t, got.Paid)
		assert.Equal(t, "MPESA-1", *got.PayoutReference)
		assert.NotNil(t, got.PaidAt)
	})

	t.Run("second mark paid loses", func(t *testing.T) {
		db := testdb.Open(t)
		repo := payroll.NewRepository(db)
		empID := seedEmployee(t, db, "STF-000009")
		p := newPayslip(empID, 2025, 3)
		assert.NoError(t, repo.Create(ctx, p))

		first, second := "MPESA-1", "MPESA-2"
		paidAt := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
		assert.NoError(t, repo.MarkPaid(ctx, p.ID.String(), paidAt, &first))
		err := repo.MarkPaid(ctx, p.ID.String(), paidAt.Add(time.Hour), &second)
		assert.ErrorIs(t, err, payroll.ErrPayslipSettled)

		got, err := repo.FindByID(ctx, p.ID.String())
		assert.NoError(t, err)
		assert.Equal(t, "MPESA-1", *got.PayoutReference)
		assert.True(t, paidAt.Equal(got.PaidAt.UTC()))

		assert.ErrorIs(t, repo.MarkPaid(ctx, uuid.NewString(), paidAt, nil), gorm.ErrRecordNotFound)
	})

	t.Run("updates on unknown id", func(t *testing.T) {
		db := testdb.Open(t)
		repo := payroll.NewRepository(db)

		assert.ErrorIs(t, repo.AttachFile(ctx, uuid.NewString(), "https://x"), gorm.ErrRecordNotFound)
		assert.ErrorIs(t, repo.SetPayoutReference(ctx, uuid.NewString(), "r"), gorm.ErrRecordNotFound)
	})

	t.Run("attach file", func(t *testing.T) {
		db := testdb.Open(t)
		repo := payroll.NewRepository(db)
		empID := seedEmployee(t, db, "STF-000008")
		p := newPayslip(empID, 2025, 3)
		assert.NoError(t, repo.Create(ctx, p))

		assert.NoError(t, repo.AttachFile(ctx, p.ID.String(), "https://bucket/key.pdf"))

		got, err := repo.FindByID(ctx, p.ID.String())
		assert.NoError(t, err)
		assert.Equal(t, "https://bucket/key.pdf", *got.FileURL)
	})
}
