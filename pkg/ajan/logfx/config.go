package logfx

// Config controls the behavior of a Logger constructed via NewLogger.
type Config struct {
	Level     string `conf:"level"      default:"INFO"`
	PrettyMode bool  `conf:"pretty"     default:"true"`
	AddSource bool   `conf:"add_source" default:"false"`

	OTLPEndpoint string `conf:"otlp_endpoint"`
	OTLPEnabled  bool   `conf:"otlp_enabled" default:"false"`
}
