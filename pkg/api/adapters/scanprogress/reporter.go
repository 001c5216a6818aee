// Package scanprogress backs scan.ProgressReporter with the same
// runtime_states key/value store the queue worker and scan-sweep worker
// use for their own ephemeral process state, rather than adding a dedicated
// table for what is, by design, a transient progress indicator.
package scanprogress

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/parentwatch/scanguard/pkg/ajan/logfx"
	"github.com/parentwatch/scanguard/pkg/api/business/runtime_states"
)

// Reporter implements scan.ProgressReporter.
type Reporter struct {
	logger *logfx.Logger
	states *runtime_states.Service
}

func New(logger *logfx.Logger, states *runtime_states.Service) *Reporter {
	return &Reporter{logger: logger, states: states}
}

// ReportProgress records the current completion percentage for a task under
// a key a caller (e.g. a status-polling endpoint) can read back via
// runtime_states.Service.Get. Failures are logged, not propagated: a
// progress write is never allowed to fail the scan it reports on.
func (r *Reporter) ReportProgress(ctx context.Context, taskID string, percent int) {
	key := "scan_progress." + taskID

	if err := r.states.Set(ctx, key, strconv.Itoa(percent)); err != nil {
		r.logger.WarnContext(ctx, "failed to record scan progress",
			slog.String("task_id", taskID), slog.Int("percent", percent), slog.Any("error", err))
	}
}
