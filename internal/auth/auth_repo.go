package auth

import (
	"context"
	"database/sql"
	"strings"

	"uni-hris/internal/shared/dbtx"

	"gorm.io/gorm"
)

//go:generate mockgen -source=auth_repo.go -destination=mock/auth_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, user *User) error {
	user.Email = normalizeEmail(user.Email)
	return dbtx.Conn(ctx, r.db, r.tx).Create(user).Error
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	err := dbtx.Conn(ctx, r.db, r.tx).Where("email = ?", normalizeEmail(email)).First(&user).Error
	return &user, err
}

func (r *repository) GetByID(ctx context.Context, id string) (*User, error) {
	var user User
	err := dbtx.Conn(ctx, r.db, r.tx).First(&user, "id = ?", id).Error
	return &user, err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
