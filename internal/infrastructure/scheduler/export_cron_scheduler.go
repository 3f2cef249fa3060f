// Package scheduler runs the daily sales export on a cron-style schedule.
package scheduler

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// cronTickerInterval is the interval at which the cron scheduler checks for execution
const cronTickerInterval = 1 * time.Minute

// ExportRunner runs the sales export for yesterday's trading day
type ExportRunner interface {
	RunYesterday(ctx context.Context) error
}

// ExportCronSchedulerConfig holds configuration for the cron-based export scheduler
type ExportCronSchedulerConfig struct {
	// Enabled indicates if the cron scheduler is enabled
	Enabled bool
	// DailyCronSchedule is the cron expression (parsed to extract hour/minute)
	DailyCronSchedule string
	// JobTimeout is the maximum time a single export run can take
	JobTimeout time.Duration
}

// DefaultExportCronSchedulerConfig returns defaults running at 2:00 AM daily
func DefaultExportCronSchedulerConfig() ExportCronSchedulerConfig {
	return ExportCronSchedulerConfig{
		Enabled:           true,
		DailyCronSchedule: "0 2 * * *",
		JobTimeout:        10 * time.Minute,
	}
}

// ParseCronSchedule parses a cron expression "minute hour * * *" to extract hour and minute.
// Returns defaults (2:00) if the expression is empty or incomplete.
func ParseCronSchedule(cronExpr string) (hour, minute int, err error) {
	hour = 2
	minute = 0

	if cronExpr == "" {
		return hour, minute, nil
	}

	parts := strings.Fields(cronExpr)
	if len(parts) < 2 {
		return hour, minute, nil
	}

	if parts[0] != "*" {
		if val, parseErr := parseCronField(parts[0], 0); parseErr == nil {
			minute = val
		}
	}
	if parts[1] != "*" {
		if val, parseErr := parseCronField(parts[1], 2); parseErr == nil {
			hour = val
		}
	}

	if minute < 0 || minute > 59 {
		return 2, 0, fmt.Errorf("minute must be 0-59, got %d", minute)
	}
	if hour < 0 || hour > 23 {
		return 2, 0, fmt.Errorf("hour must be 0-23, got %d", hour)
	}

	return hour, minute, nil
}

// parseCronField parses an integer cron field or returns the default
func parseCronField(s string, defaultVal int) (int, error) {
	if s == "" || s == "*" {
		return defaultVal, nil
	}
	var val int
	for _, c := range s {
		if c < '0' || c > '9' {
			return defaultVal, fmt.Errorf("invalid cron field %q", s)
		}
		val = val*10 + int(c-'0')
	}
	return val, nil
}

// ExportCronScheduler triggers the daily sales export at a fixed time of day
type ExportCronScheduler struct {
	config ExportCronSchedulerConfig
	runner ExportRunner
	logger *zap.Logger

	cronHour   int
	cronMinute int

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool

	lastRunAt *time.Time
	nextRunAt *time.Time
}

// NewExportCronScheduler creates a new cron-based export scheduler
func NewExportCronScheduler(config ExportCronSchedulerConfig, runner ExportRunner, logger *zap.Logger) (*ExportCronScheduler, error) {
	hour, minute, err := ParseCronSchedule(config.DailyCronSchedule)
	if err != nil {
		return nil, err
	}
	if config.JobTimeout <= 0 {
		config.JobTimeout = 10 * time.Minute
	}

	return &ExportCronScheduler{
		config:     config,
		runner:     runner,
		logger:     logger,
		cronHour:   hour,
		cronMinute: minute,
	}, nil
}

// Start starts the cron scheduler
func (s *ExportCronScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.calculateNextRunTime()

	s.wg.Add(1)
	go s.cronLoop(ctx)

	s.logger.Info("Export cron scheduler started",
		zap.Int("cron_hour", s.cronHour),
		zap.Int("cron_minute", s.cronMinute),
		zap.Timep("next_run_at", s.nextRunAt),
	)

	return nil
}

// Stop stops the cron scheduler, waiting for an in-flight run to finish
func (s *ExportCronScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Export cron scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Export cron scheduler stop timed out")
		return ctx.Err()
	}
}

// NextRunAt returns the next scheduled run time
func (s *ExportCronScheduler) NextRunAt() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextRunAt
}

// LastRunAt returns the last run time
func (s *ExportCronScheduler) LastRunAt() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRunAt
}

// cronLoop runs the main cron loop
func (s *ExportCronScheduler) cronLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(cronTickerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if s.shouldRun(now) {
				s.runExport(ctx)
				s.calculateNextRunTime()
			}
		}
	}
}

// shouldRun checks if the cron should run at the given time
func (s *ExportCronScheduler) shouldRun(now time.Time) bool {
	return now.Hour() == s.cronHour && now.Minute() == s.cronMinute
}

// calculateNextRunTime calculates the next run time
func (s *ExportCronScheduler) calculateNextRunTime() {
	now := time.Now()
	next := time.Date(now.Year(), now.Month(), now.Day(), s.cronHour, s.cronMinute, 0, 0, now.Location())
	if now.After(next) {
		next = next.AddDate(0, 0, 1)
	}

	s.mu.Lock()
	s.nextRunAt = &next
	s.mu.Unlock()
}

// runExport runs one export with the configured timeout. The runner records
// its own outcome log, so a returned error is only logged here.
func (s *ExportCronScheduler) runExport(ctx context.Context) {
	now := time.Now()
	s.mu.Lock()
	s.lastRunAt = &now
	s.mu.Unlock()

	s.logger.Info("Starting scheduled sales export")

	runCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	defer cancel()

	if err := s.runner.RunYesterday(runCtx); err != nil {
		s.logger.Error("Scheduled sales export failed", zap.Error(err))
		return
	}
	s.logger.Info("Scheduled sales export finished")
}
