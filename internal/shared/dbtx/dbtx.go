package dbtx

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

// Conn returns a gorm handle bound to ctx that runs on tx when one is given,
// so repositories can join a transaction opened on the underlying *sql.DB.
func Conn(ctx context.Context, db *gorm.DB, tx *sql.Tx) *gorm.DB {
	conn := db.WithContext(ctx)
	if tx != nil {
		conn.Statement.ConnPool = tx
	}
	return conn
}

// OwnedBy limits a query to rows of one employee. An empty id leaves the
// query unscoped.
func OwnedBy(employeeID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if employeeID == "" {
			return db
		}
		return db.Where("employee_id = ?", employeeID)
	}
}
