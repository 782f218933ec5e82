package oauth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
)

// Mastodon implements Provider for Mastodon instances using the
// standard authorization-code grant.
type Mastodon struct {
	httpClient HTTPDoer
}

// NewMastodon constructs a Mastodon provider with a default bounded-timeout client.
func NewMastodon(httpClient HTTPDoer) *Mastodon {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultRequestTimeout}
	}
	return &Mastodon{httpClient: httpClient}
}

// mastodonTokenResponse is the /oauth/token payload.
type mastodonTokenResponse struct {
	AccessToken string `json:"access_token"`
	Error       string `json:"error"`
}

// ExchangeToken trades an authorization code for an instance access token.
func (p *Mastodon) ExchangeToken(ctx context.Context, artifact string, params Params) (string, error) {
	data := url.Values{
		"grant_type":    {"authorization_code"},
		"code":          {artifact},
		"client_id":     {params.ClientID},
		"client_secret": {params.ClientSecret},
		"redirect_uri":  {params.RedirectURI},
		"scope":         {"read"},
	}

	endpoint := instanceBase(params) + "/oauth/token"
	req, errReq := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(data.Encode()))
	if errReq != nil {
		return "", &UpstreamError{Provider: "mastodon", Op: "exchange", Err: errReq}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	body, status, errDo := doBounded(p.httpClient, req)
	if errDo != nil {
		return "", &UpstreamError{Provider: "mastodon", Op: "exchange", Err: errDo}
	}

	var tokenResp mastodonTokenResponse
	if errUnmarshal := json.Unmarshal(body, &tokenResp); errUnmarshal != nil {
		return "", &UpstreamError{Provider: "mastodon", Op: "exchange", Err: errUnmarshal}
	}
	if status != http.StatusOK || tokenResp.Error != "" || tokenResp.AccessToken == "" {
		return "", &UpstreamError{Provider: "mastodon", Op: "exchange", Status: status}
	}
	return tokenResp.AccessToken, nil
}

// mastodonAccount is the subset of verify_credentials needed here.
type mastodonAccount struct {
	ID string `json:"id"`
}

// FetchAccount resolves an access token to the Mastodon account id.
func (p *Mastodon) FetchAccount(ctx context.Context, accessToken string, params Params) (string, error) {
	endpoint := instanceBase(params) + "/api/v1/accounts/verify_credentials"
	req, errReq := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if errReq != nil {
		return "", &UpstreamError{Provider: "mastodon", Op: "account", Err: errReq}
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	body, status, errDo := doBounded(p.httpClient, req)
	if errDo != nil {
		return "", &UpstreamError{Provider: "mastodon", Op: "account", Err: errDo}
	}
	if status != http.StatusOK {
		return "", &UpstreamError{Provider: "mastodon", Op: "account", Status: status}
	}

	var account mastodonAccount
	if errUnmarshal := json.Unmarshal(body, &account); errUnmarshal != nil {
		return "", &UpstreamError{Provider: "mastodon", Op: "account", Err: errUnmarshal}
	}
	if account.ID == "" {
		return "", &UpstreamError{Provider: "mastodon", Op: "account", Status: status}
	}
	return account.ID, nil
}
