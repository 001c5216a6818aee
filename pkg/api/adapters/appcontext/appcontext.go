package appcontext

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/parentwatch/scanguard/pkg/ajan/clockfx"
	"github.com/parentwatch/scanguard/pkg/ajan/configfx"
	"github.com/parentwatch/scanguard/pkg/ajan/connfx"
	"github.com/parentwatch/scanguard/pkg/ajan/httpclient"
	"github.com/parentwatch/scanguard/pkg/ajan/logfx"
	"github.com/parentwatch/scanguard/pkg/ajan/workerfx"
	"github.com/parentwatch/scanguard/pkg/api/adapters/cacheredis"
	"github.com/parentwatch/scanguard/pkg/api/adapters/crypto"
	"github.com/parentwatch/scanguard/pkg/api/adapters/googleoauth"
	"github.com/parentwatch/scanguard/pkg/api/adapters/notify"
	"github.com/parentwatch/scanguard/pkg/api/adapters/scanlease"
	"github.com/parentwatch/scanguard/pkg/api/adapters/scanprogress"
	"github.com/parentwatch/scanguard/pkg/api/adapters/statetoken"
	"github.com/parentwatch/scanguard/pkg/api/adapters/storage"
	"github.com/parentwatch/scanguard/pkg/api/adapters/workers"
	"github.com/parentwatch/scanguard/pkg/api/adapters/youtube"
	"github.com/parentwatch/scanguard/pkg/api/business/alerts"
	"github.com/parentwatch/scanguard/pkg/api/business/auth"
	"github.com/parentwatch/scanguard/pkg/api/business/coppa"
	"github.com/parentwatch/scanguard/pkg/api/business/custody"
	"github.com/parentwatch/scanguard/pkg/api/business/events"
	"github.com/parentwatch/scanguard/pkg/api/business/runtime_states"
	"github.com/parentwatch/scanguard/pkg/api/business/scan"
	"github.com/parentwatch/scanguard/pkg/api/business/scheduler"
	_ "github.com/lib/pq"
	"github.com/oklog/ulid/v2"
	"github.com/pressly/goose/v3"
)

var (
	ErrInitFailed                = errors.New("failed to initialize app context")
	ErrStateTokenSecretMissing   = errors.New("auth.state_token_secret is required")
	ErrTokenEncryptionKeyMissing = errors.New("token_encryption_key is required")
)

// AppContext wires every adapter and business service the worker process
// needs, in dependency order, and is the single place that knows the
// concrete type behind each port.
type AppContext struct {
	Config *AppConfig
	Logger *logfx.Logger

	HTTPClient  *httpclient.Client
	Connections *connfx.Registry

	Repository *storage.Repository

	TokenCipher     *crypto.TokenCipher
	TokenRefresher  *googleoauth.TokenRefresher
	TokenRevoker    *googleoauth.TokenRevoker
	Cache           *cacheredis.Client
	YouTubeFetcher  *youtube.Fetcher
	YouTubeProvider *youtube.Provider

	AuthService     *auth.Service
	StateTokens     *statetoken.Service
	Custodian       *custody.Custodian
	AuditService    *events.AuditService
	QueueService    *events.QueueService
	QueueRegistry   *events.HandlerRegistry
	RuntimeStates   *runtime_states.Service
	ScanLease       *scanlease.Lease
	ScanProgress    *scanprogress.Reporter
	ScanWorker      *scan.Worker
	AlertsService   *alerts.Service
	AmqpNotifier    *notify.AmqpNotifier
	CoppaGate       *coppa.Gate
	Scheduler       *scheduler.Service

	ScanSweepWorker *workers.ScanSweepWorker
	QueueWorker     *workers.QueueWorker
	WorkerRegistry  *workerfx.Registry
}

func New() *AppContext {
	return &AppContext{} //nolint:exhaustruct
}

// idGenerator mints ULIDs for every row this process writes that doesn't
// already have a caller-supplied ID, matching storage.newID's scheme.
func idGenerator() string {
	return ulid.Make().String()
}

func (a *AppContext) Init(ctx context.Context) error { //nolint:funlen
	// ----------------------------------------------------
	// Adapter: Config
	// ----------------------------------------------------
	cl := configfx.NewConfigManager()

	a.Config = &AppConfig{} //nolint:exhaustruct

	err := cl.LoadDefaults(a.Config)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInitFailed, err)
	}

	if a.Config.Auth.StateTokenSecret == "" {
		return fmt.Errorf("%w: %w", ErrInitFailed, ErrStateTokenSecretMissing)
	}

	if a.Config.TokenEncryptionKey == "" {
		return fmt.Errorf("%w: %w", ErrInitFailed, ErrTokenEncryptionKeyMissing)
	}

	// ----------------------------------------------------
	// Adapter: Logger
	// ----------------------------------------------------
	a.Logger = logfx.NewLogger(
		logfx.WithConfig(&a.Config.Log),
	)

	a.Logger.DebugContext(
		ctx,
		"[AppContext] Initialization in progress",
		slog.String("module", "appcontext"),
		slog.String("name", a.Config.AppName),
		slog.String("environment", a.Config.AppEnv),
	)

	// ----------------------------------------------------
	// Adapter: HTTPClient
	// ----------------------------------------------------
	a.HTTPClient = httpclient.NewClient(
		httpclient.WithConfig(&a.Config.HTTPClient),
	)

	// ----------------------------------------------------
	// Adapter: Connections
	// ----------------------------------------------------
	a.Connections = connfx.NewRegistry(
		connfx.WithLogger(a.Logger),
	)

	err = a.Connections.LoadFromConfig(ctx, &a.Config.Conn)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInitFailed, err)
	}

	// ----------------------------------------------------
	// Adapter: Repository + migrations
	// ----------------------------------------------------
	a.Repository = storage.New(a.Connections.Postgres)

	err = goose.SetDialect("postgres")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInitFailed, err)
	}

	err = goose.Up(a.Connections.Postgres, a.Config.Data.MigrationsPath)
	if err != nil {
		return fmt.Errorf("%w: failed to run migrations: %w", ErrInitFailed, err)
	}

	// ----------------------------------------------------
	// Adapters: custody (token cipher, refresh, revoke, cache)
	// ----------------------------------------------------
	a.TokenCipher, err = crypto.NewTokenCipher(a.Config.TokenEncryptionKey)
	if err != nil {
		return fmt.Errorf("%w: failed to build token cipher: %w", ErrInitFailed, err)
	}

	a.TokenRefresher = googleoauth.NewTokenRefresher(
		a.Config.Auth.YouTube.ClientID,
		a.Config.Auth.YouTube.ClientSecret,
		a.HTTPClient.Client,
	)
	a.TokenRevoker = googleoauth.NewTokenRevoker(a.HTTPClient.Client)

	a.AuditService = events.NewAuditService(
		a.Logger,
		a.Repository,
		idGenerator,
		clockfx.NewRealClock(),
	)

	a.Custodian = custody.NewCustodian(
		a.Repository,
		a.TokenCipher,
		a.TokenRefresher,
		a.TokenRevoker,
		a.AuditService,
		clockfx.NewRealClock(),
	)

	a.Cache = cacheredis.New(a.Connections.Redis)

	// ----------------------------------------------------
	// Adapter: YouTube (fetcher, scan adapter, OAuth provider)
	// ----------------------------------------------------
	a.YouTubeFetcher = youtube.NewFetcher(
		a.HTTPClient.Client,
		a.Cache,
		a.Logger,
		a.Config.Auth.YouTube.APIKey,
	)

	a.YouTubeProvider = youtube.NewProvider(
		&a.Config.Auth.YouTube,
		a.Logger,
		a.HTTPClient.Client,
	)

	// ----------------------------------------------------
	// Business: account linking
	// ----------------------------------------------------
	a.AuthService = auth.NewService(&a.Config.Auth)
	a.AuthService.RegisterProvider("youtube", a.YouTubeProvider)

	a.StateTokens = statetoken.New(a.Config.Auth.StateTokenSecret, a.Config.Auth.StateTokenTTL)

	// ----------------------------------------------------
	// Business: event system (audit trail + task queue)
	// ----------------------------------------------------
	a.QueueService = events.NewQueueService(a.Logger, a.Repository, idGenerator)
	a.QueueRegistry = events.NewHandlerRegistry()
	a.RuntimeStates = runtime_states.NewService(a.Logger, a.Repository)

	// ----------------------------------------------------
	// Business: scan orchestrator
	// ----------------------------------------------------
	a.ScanLease = scanlease.New(a.RuntimeStates)
	a.ScanProgress = scanprogress.New(a.Logger, a.RuntimeStates)

	a.AlertsService = alerts.NewService(
		a.Logger,
		a.Repository,
		a.Repository,
		a.notifier(ctx),
		a.AuditService,
		idGenerator,
		clockfx.NewRealClock(),
	)

	a.ScanWorker = scan.NewWorker(
		a.Logger,
		a.Custodian,
		youtube.NewScanAdapter(a.YouTubeFetcher),
		a.Repository,
		a.Repository,
		a.Repository,
		a.AlertsService,
		a.AuditService,
		a.ScanLease,
		clockfx.NewRealClock(),
		a.ScanProgress,
	)

	// The scan task is the only queue item type this process knows how to
	// run; a handler for it is what turns a scheduler.Tick enqueue into an
	// actual scan.
	a.QueueRegistry.Register(events.TaskPerformAccountScan, a.handlePerformAccountScan)

	// ----------------------------------------------------
	// Business: COPPA gate + scheduler
	// ----------------------------------------------------
	a.CoppaGate = coppa.NewGate(
		a.Repository,
		a.Repository,
		a.AuditService,
		idGenerator,
		clockfx.NewRealClock(),
	)

	a.Scheduler = scheduler.NewService(a.Repository, a.QueueService, a.AuditService)

	// ----------------------------------------------------
	// Workers
	// ----------------------------------------------------
	a.ScanSweepWorker, err = workers.NewScanSweepWorker(
		&a.Config.Workers.ScanSweep,
		a.Logger,
		a.Scheduler,
		a.RuntimeStates,
	)
	if err != nil {
		return fmt.Errorf("%w: failed to build scan-sweep worker: %w", ErrInitFailed, err)
	}

	a.QueueWorker = workers.NewQueueWorker(
		&a.Config.Workers.EventQueue,
		a.Logger,
		a.Repository,
		a.QueueRegistry,
		idGenerator(),
		a.RuntimeStates,
	)

	a.WorkerRegistry = workerfx.NewRegistry()

	return nil
}

// notifier builds the AMQP-backed Notifier when a broker is configured, or
// nil when it isn't: alerts.Service treats a nil Notifier the same as every
// delivery channel being disabled in NotificationPreferences.
func (a *AppContext) notifier(ctx context.Context) alerts.Notifier {
	if a.Connections.Amqp == nil {
		return nil
	}

	notifier, err := notify.NewAmqpNotifier(a.Connections.Amqp, a.Logger)
	if err != nil {
		a.Logger.WarnContext(ctx, "failed to initialize amqp notifier, alerts will not be delivered",
			slog.Any("error", err))

		return nil
	}

	a.AmqpNotifier = notifier

	return notifier
}

// handlePerformAccountScan adapts the queue's generic events.QueueHandler
// shape to scan.Worker.Execute, decoding the linked account ID the
// scheduler enqueued.
func (a *AppContext) handlePerformAccountScan(ctx context.Context, item *events.QueueItem) error {
	linkedAccountID, err := events.LinkedAccountIDFromPayload(item.Payload)
	if err != nil {
		return err
	}

	result := a.ScanWorker.Execute(ctx, scan.ScanRequest{
		LinkedAccountID: linkedAccountID,
		TaskID:          item.ID,
	})

	switch result.Status {
	case "failed":
		return fmt.Errorf("scan task failed: %s", result.Message) //nolint:err113
	case "skipped":
		// Another scan of the same account is already in flight; requeue
		// with backoff rather than treating this as completed.
		return fmt.Errorf("scan task skipped: %s", result.Reason) //nolint:err113
	default:
		return nil
	}
}

// Close releases every connection the registry opened.
func (a *AppContext) Close() error {
	if a.Connections == nil {
		return nil
	}

	return a.Connections.Close()
}
