package payroll

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"uni-hris/internal/shared/dbtx"

	"gorm.io/gorm"
)

// ErrPayslipSettled is returned by MarkPaid when another writer already paid the payslip.
var ErrPayslipSettled = errors.New("payslip already paid")

//go:generate mockgen -source=payslip_repo.go -destination=mock/payslip_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, payslip *Payslip) error
	FindByID(ctx context.Context, id string) (*Payslip, error)
	FindByIDs(ctx context.Context, ids []string) ([]Payslip, error)
	List(ctx context.Context, filter ListFilter) ([]Payslip, error)
	ExistsForPeriod(ctx context.Context, employeeID string, year, month int) (bool, error)
	MarkPaid(ctx context.Context, id string, paidAt time.Time, reference *string) error
	SetPayoutReference(ctx context.Context, id, reference string) error
	AttachFile(ctx context.Context, id, url string) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db: r.db,
		tx: tx,
	}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	return dbtx.Conn(ctx, r.db, r.tx)
}

func (r *repository) Create(ctx context.Context, payslip *Payslip) error {
	return r.conn(ctx).Omit("Employee").Create(payslip).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Payslip, error) {
	var payslip Payslip
	err := r.conn(ctx).
		Preload("Employee").
		First(&payslip, "id = ?", id).Error
	return &payslip, err
}

// FindByIDs keeps the caller's id order; missing ids are simply absent.
func (r *repository) FindByIDs(ctx context.Context, ids []string) ([]Payslip, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var rows []Payslip
	if err := r.conn(ctx).
		Preload("Employee").
		Where("id IN ?", ids).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	byID := make(map[string]Payslip, len(rows))
	for _, p := range rows {
		byID[p.ID.String()] = p
	}
	out := make([]Payslip, 0, len(rows))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
			delete(byID, id)
		}
	}
	return out, nil
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]Payslip, error) {
	q := r.conn(ctx).
		Preload("Employee").
		Scopes(dbtx.OwnedBy(filter.EmployeeID))
	if filter.Year != 0 {
		q = q.Where("year = ?", filter.Year)
	}
	if filter.Month != 0 {
		q = q.Where("month = ?", filter.Month)
	}
	if filter.Paid != nil {
		q = q.Where("paid = ?", *filter.Paid)
	}

	var payslips []Payslip
	err := q.Order("year DESC, month DESC, created_at DESC").Find(&payslips).Error
	return payslips, err
}

func (r *repository) ExistsForPeriod(ctx context.Context, employeeID string, year, month int) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Model(&Payslip{}).
		Where("employee_id = ? AND year = ? AND month = ?", employeeID, year, month).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) MarkPaid(ctx context.Context, id string, paidAt time.Time, reference *string) error {
	updates := map[string]any{
		"paid":    true,
		"paid_at": paidAt,
	}
	if reference != nil {
		updates["payout_reference"] = *reference
	}

	res := r.conn(ctx).Model(&Payslip{}).
		Where("id = ? AND paid = ?", id, false).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := r.conn(ctx).Model(&Payslip{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return gorm.ErrRecordNotFound
	}
	return ErrPayslipSettled
}

func (r *repository) SetPayoutReference(ctx context.Context, id, reference string) error {
	return r.update(ctx, id, map[string]any{"payout_reference": reference})
}

func (r *repository) AttachFile(ctx context.Context, id, url string) error {
	return r.update(ctx, id, map[string]any{"file_url": url})
}

func (r *repository) update(ctx context.Context, id string, updates map[string]any) error {
	res := r.conn(ctx).Model(&Payslip{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
