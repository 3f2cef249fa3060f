package sales

import (
	"time"

	"github.com/google/uuid"

	"github.com/bookworks/backend/internal/domain/sales"
)

// ExportLogResponse is the API representation of one export run log
type ExportLogResponse struct {
	ID          uuid.UUID `json:"id"`
	DateFrom    string    `json:"date_from"`
	DateTo      string    `json:"date_to"`
	Filename    string    `json:"filename"`
	RecordCount int       `json:"record_count"`
	Status      string    `json:"status"`
	ErrorDetail string    `json:"error_detail,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func newExportLogResponse(log *sales.ExportLog) ExportLogResponse {
	return ExportLogResponse{
		ID:          log.ID,
		DateFrom:    log.DateFrom.Format("2006-01-02"),
		DateTo:      log.DateTo.Format("2006-01-02"),
		Filename:    log.Filename,
		RecordCount: log.RecordCount,
		Status:      string(log.Status),
		ErrorDetail: log.ErrorDetail,
		CreatedAt:   log.CreatedAt,
	}
}
