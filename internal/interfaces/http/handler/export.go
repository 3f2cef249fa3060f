package handler

import (
	"errors"
	"time"

	salesapp "github.com/bookworks/backend/internal/application/sales"
	"github.com/bookworks/backend/internal/domain/shared"
	"github.com/bookworks/backend/internal/infrastructure/scheduler"
	"github.com/bookworks/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

const exportDateLayout = "2006-01-02"

// ExportHandler handles sales export API endpoints
type ExportHandler struct {
	BaseHandler
	exportService *salesapp.ExportService
	cronScheduler *scheduler.ExportCronScheduler
}

// NewExportHandler creates a new ExportHandler
func NewExportHandler(exportService *salesapp.ExportService, cronScheduler *scheduler.ExportCronScheduler) *ExportHandler {
	return &ExportHandler{
		exportService: exportService,
		cronScheduler: cronScheduler,
	}
}

// RunExportRequest represents a request to run a sales export
// @Description Request body for running a sales export for a date range
type RunExportRequest struct {
	DateFrom string `json:"date_from" binding:"omitempty,datetime=2006-01-02" example:"2026-08-30"`
	DateTo   string `json:"date_to" binding:"omitempty,datetime=2006-01-02" example:"2026-08-30"`
}

// RunExportResponse reports the outcome of a manual export run. Status and
// the error detail come from the run log; a failed upload is a completed
// request whose log entry carries the failure.
type RunExportResponse struct {
	DateFrom    string `json:"date_from"`
	DateTo      string `json:"date_to"`
	Filename    string `json:"filename"`
	RecordCount int    `json:"record_count"`
	Status      string `json:"status"`
	ErrorDetail string `json:"error_detail,omitempty"`
}

// Run godoc
// @Summary      Run a sales export
// @Description  Run the sales export for a date range, defaulting to yesterday's trading day
// @Tags         exports
// @Accept       json
// @Produce      json
// @Param        request body RunExportRequest false "Export date range"
// @Success      200 {object} dto.Response{data=RunExportResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /sales/exports/run [post]
func (h *ExportHandler) Run(c *gin.Context) {
	var req RunExportRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BadRequest(c, err.Error())
			return
		}
	}

	from, to, err := resolveExportRange(req)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	outcome, err := h.exportService.Run(c.Request.Context(), from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, RunExportResponse{
		DateFrom:    from.Format(exportDateLayout),
		DateTo:      to.Format(exportDateLayout),
		Filename:    outcome.Filename,
		RecordCount: outcome.RecordCount,
		Status:      outcome.Status,
		ErrorDetail: outcome.ErrorDetail,
	})
}

// ListLogs godoc
// @Summary      List export run logs
// @Description  Retrieve recent sales export run logs, newest first
// @Tags         exports
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]salesapp.ExportLogResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /sales/exports/logs [get]
func (h *ExportHandler) ListLogs(c *gin.Context) {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = 20
	}

	filter := shared.Filter{
		Page:     req.Page,
		PageSize: req.PageSize,
	}

	logs, total, err := h.exportService.RecentLogs(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, logs, total, req.Page, req.PageSize)
}

// ScheduleStatusResponse reports the export scheduler's timing
type ScheduleStatusResponse struct {
	Enabled   bool       `json:"enabled"`
	NextRunAt *time.Time `json:"next_run_at,omitempty"`
	LastRunAt *time.Time `json:"last_run_at,omitempty"`
}

// ScheduleStatus godoc
// @Summary      Get export schedule status
// @Description  Report when the nightly export last ran and when it runs next
// @Tags         exports
// @Produce      json
// @Success      200 {object} dto.Response{data=ScheduleStatusResponse}
// @Router       /sales/exports/schedule [get]
func (h *ExportHandler) ScheduleStatus(c *gin.Context) {
	resp := ScheduleStatusResponse{}
	if h.cronScheduler != nil {
		resp.Enabled = true
		resp.NextRunAt = h.cronScheduler.NextRunAt()
		resp.LastRunAt = h.cronScheduler.LastRunAt()
	}
	h.Success(c, resp)
}

// resolveExportRange turns the optional request dates into an inclusive day range.
// An empty request means yesterday's trading day.
func resolveExportRange(req RunExportRequest) (time.Time, time.Time, error) {
	if req.DateFrom == "" && req.DateTo == "" {
		now := time.Now()
		yesterday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, -1)
		return yesterday, yesterday, nil
	}

	if req.DateFrom == "" {
		req.DateFrom = req.DateTo
	}
	if req.DateTo == "" {
		req.DateTo = req.DateFrom
	}

	from, err := time.ParseInLocation(exportDateLayout, req.DateFrom, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := time.ParseInLocation(exportDateLayout, req.DateTo, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, errors.New("date_to must not be before date_from")
	}

	return from, to, nil
}
