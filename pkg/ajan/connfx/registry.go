package connfx

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/parentwatch/scanguard/pkg/ajan/logfx"
	_ "github.com/jackc/pgx/v5/stdlib" //nolint:revive // registers the "pgx" database/sql driver
	"github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
)

var ErrNoPostgresDSN = errors.New("connfx: no postgres dsn configured")

// Registry holds the process's backing-store connections: Postgres for
// durable state, Redis for the Cache Port, and (optionally) RabbitMQ for
// alert-delivery publishing.
type Registry struct {
	logger *logfx.Logger

	Postgres *sql.DB
	Redis    *redis.Client
	Amqp     *amqp091.Connection
}

type RegistryOption func(*Registry)

func WithLogger(logger *logfx.Logger) RegistryOption {
	return func(r *Registry) {
		r.logger = logger
	}
}

func NewRegistry(opts ...RegistryOption) *Registry {
	registry := &Registry{} //nolint:exhaustruct

	for _, opt := range opts {
		opt(registry)
	}

	return registry
}

// LoadFromConfig opens the Postgres and Redis connections described by cfg.
func (r *Registry) LoadFromConfig(ctx context.Context, cfg *Config) error {
	if cfg.PostgresDSN == "" {
		return ErrNoPostgresDSN
	}

	database, err := sql.Open("pgx", cfg.PostgresDSN)
	if err != nil {
		return fmt.Errorf("connfx: failed to open postgres: %w", err)
	}

	database.SetMaxOpenConns(cfg.PostgresMaxOpenConns)
	database.SetMaxIdleConns(cfg.PostgresMaxIdleConns)

	err = database.PingContext(ctx)
	if err != nil {
		return fmt.Errorf("connfx: failed to ping postgres: %w", err)
	}

	r.Postgres = database

	opts, err := redis.ParseURL(cfg.RedisDSN)
	if err != nil {
		return fmt.Errorf("connfx: failed to parse redis dsn: %w", err)
	}

	client := redis.NewClient(opts)

	err = client.Ping(ctx).Err()
	if err != nil {
		return fmt.Errorf("connfx: failed to ping redis: %w", err)
	}

	r.Redis = client

	if cfg.AmqpEnabled {
		conn, err := amqp091.Dial(cfg.AmqpDSN)
		if err != nil {
			return fmt.Errorf("connfx: failed to dial amqp: %w", err)
		}

		r.Amqp = conn
	}

	if r.logger != nil {
		r.logger.InfoContext(ctx, "[Connfx] connections established")
	}

	return nil
}

// Close closes every connection held by the registry.
func (r *Registry) Close() error {
	var errs []error

	if r.Postgres != nil {
		if err := r.Postgres.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if r.Redis != nil {
		if err := r.Redis.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if r.Amqp != nil {
		if err := r.Amqp.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
