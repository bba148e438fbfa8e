package counter

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// SequenceCounter backs gapless per-scope sequences such as employee codes.
type SequenceCounter struct {
	CounterType string `gorm:"type:varchar(50);primaryKey"`
	Scope       string `gorm:"type:varchar(50);primaryKey"`
	LastValue   int64  `gorm:"not null;default:0"`
	UpdatedAt   time.Time
}

//go:generate mockgen -source=counter_repo.go -destination=mock/counter_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	GetNextValue(ctx context.Context, counterType string, scope string) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) GetNextValue(ctx context.Context, counterType string, scope string) (int64, error) {
	var nextValue int64

	// UPSERT atomik, aman terhadap request paralel untuk scope yang sama
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO sequence_counters (counter_type, scope, last_value, updated_at)
		VALUES (?, ?, 1, now())
		ON CONFLICT (counter_type, scope) DO UPDATE
		SET last_value = sequence_counters.last_value + 1, updated_at = now()
		RETURNING last_value
	`, counterType, scope).Scan(&nextValue).Error

	if err != nil {
		return 0, err
	}

	return nextValue, nil
}
