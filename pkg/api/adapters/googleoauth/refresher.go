// Package googleoauth backs custody.Refresher and custody.Revoker against
// Google's OAuth endpoints using golang.org/x/oauth2, replacing the
// hand-rolled encoding/json POST the callback-handling provider still uses
// for the initial code exchange.
package googleoauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/parentwatch/scanguard/pkg/api/business/custody"
)

var ErrRevocationFailed = errors.New("googleoauth: token revocation request failed")

const defaultRevocationEndpoint = "https://oauth2.googleapis.com/revoke"

// TokenRefresher implements custody.Refresher against Google's token
// endpoint via oauth2.Config's TokenSource, so token rotation goes through
// the library rather than a hand-rolled POST.
type TokenRefresher struct {
	oauthConfig oauth2.Config
	httpClient  *http.Client
}

// NewTokenRefresher builds a refresher bound to a registered YouTube OAuth
// client.
func NewTokenRefresher(clientID, clientSecret string, httpClient *http.Client) *TokenRefresher {
	return &TokenRefresher{
		oauthConfig: oauth2.Config{ //nolint:exhaustruct
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     google.Endpoint,
		},
		httpClient: httpClient,
	}
}

// NewTokenRefresherWithEndpoint overrides the token endpoint, for tests.
func NewTokenRefresherWithEndpoint(clientID, clientSecret, tokenURL string, httpClient *http.Client) *TokenRefresher {
	refresher := NewTokenRefresher(clientID, clientSecret, httpClient)
	refresher.oauthConfig.Endpoint.TokenURL = tokenURL

	return refresher
}

// Refresh exchanges a refresh token for a new access token. Google does not
// rotate the refresh token on a standard refresh grant, so RefreshResult's
// RefreshToken is left empty unless the response actually carries a new one.
func (r *TokenRefresher) Refresh(ctx context.Context, refreshToken string) (custody.RefreshResult, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, r.httpClient)

	tokenSource := r.oauthConfig.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken}) //nolint:exhaustruct

	token, err := tokenSource.Token()
	if err != nil {
		return custody.RefreshResult{}, fmt.Errorf("googleoauth: refresh failed: %w", err) //nolint:exhaustruct
	}

	result := custody.RefreshResult{
		AccessToken: token.AccessToken,
		ExpiresAt:   token.Expiry,
	}

	if token.RefreshToken != "" && token.RefreshToken != refreshToken {
		result.RefreshToken = token.RefreshToken
	}

	return result, nil
}

// TokenRevoker implements custody.Revoker against Google's revocation
// endpoint (https://oauth2.googleapis.com/revoke), which accepts either an
// access or a refresh token.
type TokenRevoker struct {
	httpClient *http.Client
	endpoint   string
}

func NewTokenRevoker(httpClient *http.Client) *TokenRevoker {
	return &TokenRevoker{httpClient: httpClient, endpoint: defaultRevocationEndpoint}
}

// NewTokenRevokerWithEndpoint overrides the revocation endpoint, for tests.
func NewTokenRevokerWithEndpoint(httpClient *http.Client, endpoint string) *TokenRevoker {
	return &TokenRevoker{httpClient: httpClient, endpoint: endpoint}
}

func (r *TokenRevoker) Revoke(ctx context.Context, token string) error {
	body := strings.NewReader(url.Values{"token": {token}}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, body)
	if err != nil {
		return fmt.Errorf("googleoauth: building revoke request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRevocationFailed, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrRevocationFailed, resp.StatusCode)
	}

	return nil
}
