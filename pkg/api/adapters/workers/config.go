package workers

// Config holds all worker configurations.
type Config struct {
	ScanSweep  ScanSweepConfig   `conf:"scan_sweep"`
	EventQueue QueueWorkerConfig `conf:"event_queue"`
}
