// Package sales implements the daily sales export to the distributor.
package sales

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/bookworks/backend/internal/domain/sales"
	"github.com/bookworks/backend/internal/domain/shared"
)

// Uploader delivers a finished report file to the distributor's sink
type Uploader interface {
	Upload(ctx context.Context, filename string, data []byte) error
}

// ExportService builds the daily sales CSV and uploads it. Every run, empty
// or failed, appends exactly one log entry; logs are the operator's audit
// trail for what left the building.
type ExportService struct {
	salesQuery sales.SalesQuery
	logRepo    sales.ExportLogRepository
	uploader   Uploader
	outlet     string
	logger     *zap.Logger
}

// NewExportService creates a new ExportService
func NewExportService(
	salesQuery sales.SalesQuery,
	logRepo sales.ExportLogRepository,
	uploader Uploader,
	outlet string,
	logger *zap.Logger,
) *ExportService {
	return &ExportService{
		salesQuery: salesQuery,
		logRepo:    logRepo,
		uploader:   uploader,
		outlet:     outlet,
		logger:     logger,
	}
}

// Run exports the sales of the inclusive date range [from, to] and returns
// the run's log entry. A range with no sales is a successful run with zero
// records and no upload. Query, build, and upload failures are captured in
// the returned error log and never propagated; the only error Run itself
// returns is a failure to record the log.
func (s *ExportService) Run(ctx context.Context, from, to time.Time) (ExportLogResponse, error) {
	filename := sales.ReportFilename(s.outlet, to)

	posRows, err := s.salesQuery.POSSales(ctx, from, to)
	if err != nil {
		return s.finishError(ctx, from, to, filename, 0, err)
	}
	onlineRows, err := s.salesQuery.OnlineSales(ctx, from, to)
	if err != nil {
		return s.finishError(ctx, from, to, filename, 0, err)
	}

	rows := make([]sales.SaleRow, 0, len(posRows)+len(onlineRows))
	rows = append(rows, posRows...)
	rows = append(rows, onlineRows...)

	if len(rows) == 0 {
		s.logger.Info("Sales export found no rows, skipping upload",
			zap.String("filename", filename))
		return s.finishSuccess(ctx, from, to, filename, 0)
	}

	data, err := sales.BuildReportCSV(rows)
	if err != nil {
		return s.finishError(ctx, from, to, filename, len(rows), err)
	}

	if err := s.uploader.Upload(ctx, filename, data); err != nil {
		return s.finishError(ctx, from, to, filename, len(rows), err)
	}

	s.logger.Info("Sales export uploaded",
		zap.String("filename", filename),
		zap.Int("record_count", len(rows)))
	return s.finishSuccess(ctx, from, to, filename, len(rows))
}

// RunYesterday exports the previous calendar day
func (s *ExportService) RunYesterday(ctx context.Context) error {
	yesterday := time.Now().AddDate(0, 0, -1)
	day := time.Date(yesterday.Year(), yesterday.Month(), yesterday.Day(), 0, 0, 0, 0, yesterday.Location())
	_, err := s.Run(ctx, day, day)
	return err
}

// RecentLogs lists export run logs, newest first, plus the total count
func (s *ExportService) RecentLogs(ctx context.Context, filter shared.Filter) ([]ExportLogResponse, int64, error) {
	logs, err := s.logRepo.FindRecent(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.logRepo.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ExportLogResponse, 0, len(logs))
	for i := range logs {
		responses = append(responses, newExportLogResponse(&logs[i]))
	}
	return responses, total, nil
}

func (s *ExportService) finishSuccess(ctx context.Context, from, to time.Time, filename string, count int) (ExportLogResponse, error) {
	log := sales.NewSuccessLog(from, to, filename, count)
	if err := s.logRepo.Save(ctx, log); err != nil {
		s.logger.Error("Failed to record export log", zap.Error(err))
		return ExportLogResponse{}, err
	}
	return newExportLogResponse(log), nil
}

func (s *ExportService) finishError(ctx context.Context, from, to time.Time, filename string, count int, cause error) (ExportLogResponse, error) {
	s.logger.Error("Sales export failed",
		zap.String("filename", filename), zap.Error(cause))

	log := sales.NewErrorLog(from, to, filename, count, cause.Error())
	if err := s.logRepo.Save(ctx, log); err != nil {
		s.logger.Error("Failed to record export log", zap.Error(err))
		return ExportLogResponse{}, err
	}
	return newExportLogResponse(log), nil
}
