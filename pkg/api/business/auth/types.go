package auth

import (
	"strings"
	"time"
)

type YouTubeOAuthConfig struct {
	ClientID     string `conf:"client_id"`
	ClientSecret string `conf:"client_secret"`
	Scope        string `conf:"scope"         default:"https://www.googleapis.com/auth/youtube.readonly"`

	// APIKey authenticates the server-to-server Data API v3 calls the Scan
	// Worker's Fetcher makes for public channel/video reads, separate from
	// the OAuth credentials used for account-linking.
	APIKey string `conf:"api_key"`
}

// Config holds the account-linking OAuth settings. Parent login and session
// management are out of scope here; StateTokenSecret signs the CSRF state
// token carried across the redirect, not a login session.
type Config struct {
	YouTube YouTubeOAuthConfig `conf:"youtube"`

	StateTokenSecret string        `conf:"state_token_secret"` // Required - no default for security
	StateTokenTTL    time.Duration `conf:"state_token_ttl"     default:"1h"`

	// CORS settings (comma-separated), consulted when validating the
	// post-link redirect URI to prevent open redirects.
	CorsAllowedOrigins string `conf:"cors_allowed_origins" default:"https://parentwatch.app,http://localhost:3000,http://localhost:5173"`
}

// GetCorsAllowedOrigins parses comma-separated origins into a slice.
func (c *Config) GetCorsAllowedOrigins() []string {
	return splitAndTrim(c.CorsAllowedOrigins)
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}

	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))

	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

type OAuthState struct {
	State       string
	RedirectURI string
}

// OAuthCallbackResult contains everything a provider's callback exchange
// yields. Only the linking use case is in scope, so these fields describe a
// YouTube channel, not a login identity.
type OAuthCallbackResult struct {
	RemoteID string // Provider's channel ID
	Username string // Channel handle
	Name     string // Channel display name
	Email    string // Usually empty for YouTube
	URI      string // Channel URL

	AccessToken          string
	RefreshToken         string
	AccessTokenExpiresAt *time.Time
	Scope                string
}
