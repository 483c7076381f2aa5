package repository

import (
	"context"

	"gorm.io/gorm"

	"faultcapture/src/model"
)

// DefaultLimit bounds listings that do not ask for a size.
const DefaultLimit = 50

// FaultRepository handles persistence of journaled faults.
type FaultRepository struct {
	db *gorm.DB
}

func NewFaultRepository(db *gorm.DB) *FaultRepository {
	return &FaultRepository{db: db}
}

// FaultSearchOptions filters a listing. Empty fields are ignored.
type FaultSearchOptions struct {
	Level string
	Limit int
}

// Create persists a new record.
func (r *FaultRepository) Create(ctx context.Context, rec *model.FaultRecord) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

// Search returns records newest first.
func (r *FaultRepository) Search(ctx context.Context, opts FaultSearchOptions) ([]model.FaultRecord, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	query := r.db.WithContext(ctx).Model(&model.FaultRecord{})
	if opts.Level != "" {
		query = query.Where("level = ?", opts.Level)
	}

	var records []model.FaultRecord
	err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&records).Error
	return records, err
}

func (r *FaultRepository) FindLatest(ctx context.Context, limit int) ([]model.FaultRecord, error) {
	return r.Search(ctx, FaultSearchOptions{Limit: limit})
}

func (r *FaultRepository) FindByLevel(ctx context.Context, level string, limit int) ([]model.FaultRecord, error) {
	return r.Search(ctx, FaultSearchOptions{Level: level, Limit: limit})
}
