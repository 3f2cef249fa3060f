package sales

import (
	"context"
	"time"

	"github.com/bookworks/backend/internal/domain/shared"
)

// ExportStatus is the terminal state of one export run
type ExportStatus string

const (
	ExportStatusSuccess ExportStatus = "success"
	ExportStatusError   ExportStatus = "error"
)

// ExportLog records the outcome of one sales export run. Exactly one log is
// created per invocation; logs are append-only and never mutated afterwards.
type ExportLog struct {
	shared.BaseEntity
	DateFrom    time.Time    `gorm:"type:date;not null"`
	DateTo      time.Time    `gorm:"type:date;not null"`
	Filename    string       `gorm:"type:varchar(200);not null"`
	RecordCount int          `gorm:"not null;default:0"`
	Status      ExportStatus `gorm:"type:varchar(20);not null"`
	ErrorDetail string       `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ExportLog) TableName() string {
	return "sales_export_logs"
}

// NewSuccessLog records a completed run
func NewSuccessLog(from, to time.Time, filename string, recordCount int) *ExportLog {
	return &ExportLog{
		BaseEntity:  shared.NewBaseEntity(),
		DateFrom:    from,
		DateTo:      to,
		Filename:    filename,
		RecordCount: recordCount,
		Status:      ExportStatusSuccess,
	}
}

// NewErrorLog records a failed run with the failure detail as text
func NewErrorLog(from, to time.Time, filename string, recordCount int, detail string) *ExportLog {
	return &ExportLog{
		BaseEntity:  shared.NewBaseEntity(),
		DateFrom:    from,
		DateTo:      to,
		Filename:    filename,
		RecordCount: recordCount,
		Status:      ExportStatusError,
		ErrorDetail: detail,
	}
}

// ExportLogRepository persists export run logs
type ExportLogRepository interface {
	// Save appends a run log
	Save(ctx context.Context, log *ExportLog) error

	// FindRecent lists logs ordered by creation time descending
	FindRecent(ctx context.Context, filter shared.Filter) ([]ExportLog, error)

	// Count counts all logs
	Count(ctx context.Context) (int64, error)
}
