package auth

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var (
	ErrProviderNotFound         = errors.New("oauth provider not found")
	ErrFailedToInitiate         = errors.New("failed to initiate oauth flow")
	ErrFailedToHandleCallback   = errors.New("failed to handle oauth callback")
	ErrFailedToParseBaseURI     = errors.New("failed to parse base uri")
	ErrFailedToParseRedirectURI = errors.New("failed to parse redirect uri")
	ErrUnsafeRedirectURI        = errors.New("redirect uri is not an allowed origin")
)

// Provider is implemented by each linkable platform (YouTube today). It
// drives the OAuth dance used to link a ChildProfile's platform account,
// not a login session.
type Provider interface {
	InitiateOAuth(ctx context.Context, callbackURI, state string) (authURL string, err error)
	HandleOAuthCallback(ctx context.Context, code, redirectURI string) (OAuthCallbackResult, error)
}

// Service registers one Provider per linkable platform and drives the
// initiate/callback halves of the account-linking OAuth flow. It never
// creates a login session: the caller is responsible for turning the
// returned OAuthCallbackResult into a domain.LinkedAccount.
type Service struct {
	Config    *Config
	providers map[string]Provider
}

func NewService(config *Config) *Service {
	return &Service{
		Config:    config,
		providers: make(map[string]Provider),
	}
}

func (s *Service) GetProvider(provider string) Provider {
	service, serviceOk := s.providers[provider]
	if !serviceOk {
		return nil
	}

	return service
}

func (s *Service) RegisterProvider(providerName string, provider Provider) {
	s.providers[providerName] = provider
}

func (s *Service) isAllowedOrigin(origin string) bool {
	for _, allowed := range s.Config.GetCorsAllowedOrigins() {
		if strings.EqualFold(allowed, origin) {
			return true
		}
	}

	return false
}

// Initiate builds the provider authorization URL for linking a platform
// account. state is the caller's signed CSRF state-token envelope, not a
// bare random string.
func (s *Service) Initiate(
	ctx context.Context,
	providerName string,
	baseURI string,
	state string,
) (string, error) {
	provider := s.GetProvider(providerName)
	if provider == nil {
		return "", ErrProviderNotFound
	}

	callbackURI, err := url.Parse(baseURI)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrFailedToParseBaseURI, err)
	}

	callbackURI.Path += "/oauth/" + providerName + "/callback"

	authURL, err := provider.InitiateOAuth(ctx, callbackURI.String(), state)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrFailedToInitiate, err)
	}

	return authURL, nil
}

// HandleCallback exchanges the authorization code for tokens and channel
// identity via the named provider. It performs no state validation itself —
// that is the statetoken package's job, run by the caller before this.
func (s *Service) HandleCallback(
	ctx context.Context,
	providerName string,
	code string,
	redirectURI string,
) (OAuthCallbackResult, error) {
	provider := s.GetProvider(providerName)
	if provider == nil {
		return OAuthCallbackResult{}, ErrProviderNotFound
	}

	result, err := provider.HandleOAuthCallback(ctx, code, redirectURI)
	if err != nil {
		return OAuthCallbackResult{}, fmt.Errorf("%w: %w", ErrFailedToHandleCallback, err)
	}

	return result, nil
}

// ValidateRedirectOrigin checks a post-link redirect URI against the
// configured CORS allow-list to prevent open redirects.
func (s *Service) ValidateRedirectOrigin(redirectURI string) error {
	if redirectURI == "" {
		return nil
	}

	parsed, err := url.Parse(redirectURI)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFailedToParseRedirectURI, err)
	}

	origin := parsed.Scheme + "://" + parsed.Host
	if !s.isAllowedOrigin(origin) {
		return ErrUnsafeRedirectURI
	}

	return nil
}
