package appcontext

import (
	"github.com/parentwatch/scanguard/pkg/ajan"
	"github.com/parentwatch/scanguard/pkg/api/adapters/workers"
	"github.com/parentwatch/scanguard/pkg/api/business/auth"
)

// DataConfig points at the migrations directory applied on startup via goose.
type DataConfig struct {
	MigrationsPath string `conf:"migration_path" default:"etc/data/migrations"`
}

// AppConfig is the root configuration tree, loaded via configfx.ConfigManager
// from defaults, an optional JSON file, an optional .env file, and the
// process environment, in that order.
type AppConfig struct {
	Auth    auth.Config    `conf:"auth"`
	Workers workers.Config `conf:"workers"`
	Data    DataConfig     `conf:"data"`

	// TokenEncryptionKey is a base64-encoded 32-byte key used to seal
	// LinkedAccount OAuth tokens at rest. Required - no default for security.
	TokenEncryptionKey string `conf:"token_encryption_key"`

	ajan.BaseConfig
}
