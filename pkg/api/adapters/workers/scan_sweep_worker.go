package workers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/parentwatch/scanguard/pkg/ajan/logfx"
	"github.com/parentwatch/scanguard/pkg/api/business/runtime_states"
	"github.com/parentwatch/scanguard/pkg/api/business/scheduler"
)

const lockIDScanSweep int64 = 100001

// ScanSweepConfig holds configuration for the periodic scan-sweep worker.
type ScanSweepConfig struct {
	Enabled bool `conf:"enabled" default:"true"`
	// CheckInterval is how often Execute wakes up to check whether a tick is
	// due; it is independent of Schedule, which decides WHEN a tick runs.
	CheckInterval time.Duration `conf:"check_interval" default:"1m"`
	// Schedule is a standard five-field cron expression. Default: daily at
	// midnight, per §4.8.
	Schedule string `conf:"schedule" default:"0 0 * * *"`
}

// ScanSweepWorker drives scheduler.Service.Tick on a cron schedule. A
// distributed schedule persisted in runtime_states and an advisory lock keep
// only one instance ticking at a time, even when several worker processes
// are running.
type ScanSweepWorker struct {
	config        *ScanSweepConfig
	logger        *logfx.Logger
	scheduler     *scheduler.Service
	runtimeStates *runtime_states.Service
	schedule      cron.Schedule
}

func NewScanSweepWorker(
	config *ScanSweepConfig,
	logger *logfx.Logger,
	schedulerSvc *scheduler.Service,
	runtimeStates *runtime_states.Service,
) (*ScanSweepWorker, error) {
	schedule, err := cron.ParseStandard(config.Schedule)
	if err != nil {
		return nil, fmt.Errorf("invalid scan-sweep schedule %q: %w", config.Schedule, err)
	}

	return &ScanSweepWorker{
		config:        config,
		logger:        logger,
		scheduler:     schedulerSvc,
		runtimeStates: runtimeStates,
		schedule:      schedule,
	}, nil
}

func (w *ScanSweepWorker) Name() string {
	return "scan-sweep"
}

func (w *ScanSweepWorker) Interval() time.Duration {
	return w.config.CheckInterval
}

// Execute checks the distributed schedule and runs a tick if it's due.
func (w *ScanSweepWorker) Execute(ctx context.Context) error {
	disabledKey := "worker." + w.Name() + ".disabled"

	disabled, err := w.runtimeStates.Get(ctx, disabledKey)
	if err == nil && disabled == "true" {
		return nil
	}

	nextRunKey := "scan_sweep_worker.next_run_at"

	nextRunAt, err := w.runtimeStates.GetTime(ctx, nextRunKey)
	if err == nil && time.Now().Before(nextRunAt) {
		return nil
	}

	acquired, lockErr := w.runtimeStates.TryLock(ctx, lockIDScanSweep)
	if lockErr != nil {
		w.logger.WarnContext(ctx, "failed to acquire scan-sweep advisory lock", slog.Any("error", lockErr))

		return nil
	}

	if !acquired {
		w.logger.DebugContext(ctx, "another instance is running the scan sweep")

		return nil
	}

	defer func() {
		_ = w.runtimeStates.ReleaseLock(ctx, lockIDScanSweep)
	}()

	now := time.Now()

	_ = w.runtimeStates.SetTime(ctx, nextRunKey, w.schedule.Next(now))

	enqueued, err := w.scheduler.Tick(ctx)
	if err != nil {
		return err
	}

	w.logger.InfoContext(ctx, "scan sweep tick complete", slog.Int("enqueued", enqueued))

	return nil
}
