package main

import (
	"context"
	"log/slog"
	"os/signal"
	"sync"
	"syscall"

	"github.com/parentwatch/scanguard/pkg/ajan/workerfx"
	"github.com/parentwatch/scanguard/pkg/api/adapters/appcontext"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	appContext := appcontext.New()

	err := appContext.Init(ctx)
	if err != nil {
		panic(err)
	}

	defer appContext.Close() //nolint:errcheck

	startWorkers(ctx, appContext)
}

// startWorkers runs every enabled worker's Runner.Run to completion,
// blocking main until ctx is cancelled by a SIGINT/SIGTERM. Each Runner
// already recovers from panics per tick, so no supervising layer on top is
// needed for a single worker process.
func startWorkers(ctx context.Context, appContext *appcontext.AppContext) {
	var wg sync.WaitGroup

	run := func(worker workerfx.Worker) {
		runner := workerfx.NewRunner(worker, appContext.Logger)
		appContext.WorkerRegistry.Register(runner)

		wg.Add(1)

		go func() {
			defer wg.Done()

			if err := runner.Run(ctx); err != nil {
				appContext.Logger.ErrorContext(ctx, "[Main] worker exited with error",
					slog.String("worker", worker.Name()), slog.Any("error", err))
			}
		}()
	}

	if appContext.Config.Workers.ScanSweep.Enabled {
		run(appContext.ScanSweepWorker)
	}

	if appContext.Config.Workers.EventQueue.Enabled {
		run(appContext.QueueWorker)
	}

	wg.Wait()
}
