// Package oauth resolves federated OAuth logins against locally linked
// identities. Providers are user-chosen instances, so all client
// credentials arrive per request rather than from server config.
package oauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	defaultRequestTimeout = 30 * time.Second
	maxResponseBodyBytes  = 1 << 20
)

// Params are the caller-supplied OAuth parameters for one login attempt.
type Params struct {
	ClientID     string `json:"clientId"`
	ClientSecret string `json:"clientSecret"`
	InstanceURL  string `json:"instanceUrl"`
	RedirectURI  string `json:"redirectUri"`
}

// Provider is the capability required of every federated identity
// provider: trade an authorization artifact for an access token, then
// resolve that token to the canonical external account id.
type Provider interface {
	ExchangeToken(ctx context.Context, artifact string, params Params) (string, error)
	FetchAccount(ctx context.Context, accessToken string, params Params) (string, error)
}

// HTTPDoer abstracts the HTTP client so tests can inject transports.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ErrUnknownProvider is returned for provider names with no registration.
var ErrUnknownProvider = errors.New("oauth: unknown provider")

// UpstreamError wraps a provider endpoint failure (network error or
// non-success status) so callers can map it to an upstream failure.
type UpstreamError struct {
	Provider string
	Op       string
	Status   int
	Err      error
}

// Error implements error.
func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("oauth: %s %s failed: %v", e.Provider, e.Op, e.Err)
	}
	return fmt.Sprintf("oauth: %s %s failed with status %d", e.Provider, e.Op, e.Status)
}

// Unwrap implements errors.Unwrap.
func (e *UpstreamError) Unwrap() error { return e.Err }

// instanceBase normalizes the caller-supplied instance URL.
func instanceBase(params Params) string {
	return strings.TrimRight(strings.TrimSpace(params.InstanceURL), "/")
}
