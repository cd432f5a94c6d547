package notification

import (
	"context"
	"database/sql"
	"time"

	"uni-hris/internal/shared/dbtx"

	"gorm.io/gorm"
)

//go:generate mockgen -source=notification_repo.go -destination=mock/notification_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, n *Notification) error
	ListByEmployee(ctx context.Context, employeeID string, unreadOnly bool) ([]Notification, error)
	FindByID(ctx context.Context, id, employeeID string) (*Notification, error)
	MarkRead(ctx context.Context, id, employeeID string, at time.Time) error
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

func (r *repository) Create(ctx context.Context, n *Notification) error {
	return r.conn(ctx).Create(n).Error
}

func (r *repository) ListByEmployee(ctx context.Context, employeeID string, unreadOnly bool) ([]Notification, error) {
	q := r.conn(ctx).Scopes(dbtx.OwnedBy(employeeID))
	if unreadOnly {
		q = q.Where("read_at IS NULL")
	}

	var items []Notification
	err := q.Order("created_at DESC").Find(&items).Error
	return items, err
}

func (r *repository) FindByID(ctx context.Context, id, employeeID string) (*Notification, error) {
	var n Notification
	err := r.conn(ctx).
		Scopes(dbtx.OwnedBy(employeeID)).
		First(&n, "id = ?", id).Error
	return &n, err
}

// MarkRead keeps the first read timestamp.
func (r *repository) MarkRead(ctx context.Context, id, employeeID string, at time.Time) error {
	res := r.conn(ctx).
		Model(&Notification{}).
		Scopes(dbtx.OwnedBy(employeeID)).
		Where("id = ? AND read_at IS NULL", id).
		Update("read_at", at)
	return res.Error
}
