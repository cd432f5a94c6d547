package counter

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

const StaffNumber = "staff_number"

//go:generate mockgen -destination=mock/counter_repo_mock.go -package=mock . Repository
type Repository interface {
	GetNextValue(ctx context.Context, counterType string) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// GetNextValue atomically increments and returns the named sequence.
func (r *repository) GetNextValue(ctx context.Context, counterType string) (int64, error) {
	var nextValue int64

	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO counters (counter_type, last_value, updated_at)
		VALUES (?, 1, CURRENT_TIMESTAMP)
		ON CONFLICT (counter_type) DO UPDATE
		SET last_value = counters.last_value + 1, updated_at = CURRENT_TIMESTAMP
		RETURNING last_value
	`, counterType).Scan(&nextValue).Error
	if err != nil {
		return 0, fmt.Errorf("next %s: %w", counterType, err)
	}

	return nextValue, nil
}

// FormatStaffNumber renders a staff number sequence value, e.g. STF-000042.
func FormatStaffNumber(v int64) string {
	return fmt.Sprintf("STF-%06d", v)
}
