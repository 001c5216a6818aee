package ajan

import (
	"github.com/parentwatch/scanguard/pkg/ajan/connfx"
	"github.com/parentwatch/scanguard/pkg/ajan/httpclient"
	"github.com/parentwatch/scanguard/pkg/ajan/logfx"
)

type BaseConfig struct {
	Conn       connfx.Config `conf:"conn"`
	AppName    string        `conf:"name"    default:"scanguard"`
	AppEnv     string        `conf:"env"     default:"development"`
	AppVersion string        `conf:"version" default:"0.0.0"`

	// Security configuration
	JWTSecret string `conf:"jwt_secret"` // No default - validated at startup

	Log        logfx.Config      `conf:"log"`
	HTTPClient httpclient.Config `conf:"http_client"`
}
