package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/bookworks/backend/internal/domain/sales"
	"github.com/bookworks/backend/internal/domain/shared"
)

// GormExportLogRepository implements ExportLogRepository using GORM
type GormExportLogRepository struct {
	db *gorm.DB
}

// NewGormExportLogRepository creates a new GormExportLogRepository
func NewGormExportLogRepository(db *gorm.DB) *GormExportLogRepository {
	return &GormExportLogRepository{db: db}
}

// Save appends a run log
func (r *GormExportLogRepository) Save(ctx context.Context, log *sales.ExportLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

// FindRecent lists logs ordered by creation time descending
func (r *GormExportLogRepository) FindRecent(ctx context.Context, filter shared.Filter) ([]sales.ExportLog, error) {
	var logs []sales.ExportLog
	if err := r.db.WithContext(ctx).
		Model(&sales.ExportLog{}).
		Order("created_at DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

// Count counts all logs
func (r *GormExportLogRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&sales.ExportLog{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormExportLogRepository implements ExportLogRepository
var _ sales.ExportLogRepository = (*GormExportLogRepository)(nil)
