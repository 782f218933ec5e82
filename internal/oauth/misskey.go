package oauth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Misskey implements Provider for Misskey instances via the MiAuth
// flow: the authorization artifact is a MiAuth session id, checked
// against /api/miauth/{session}/check.
type Misskey struct {
	httpClient HTTPDoer
}

// NewMisskey constructs a Misskey provider with a default bounded-timeout client.
func NewMisskey(httpClient HTTPDoer) *Misskey {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultRequestTimeout}
	}
	return &Misskey{httpClient: httpClient}
}

// miauthCheckResponse is the MiAuth session check payload.
type miauthCheckResponse struct {
	OK    bool   `json:"ok"`
	Token string `json:"token"`
}

// ExchangeToken trades a MiAuth session id for an instance access token.
func (p *Misskey) ExchangeToken(ctx context.Context, artifact string, params Params) (string, error) {
	endpoint := fmt.Sprintf("%s/api/miauth/%s/check", instanceBase(params), artifact)

	req, errReq := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if errReq != nil {
		return "", &UpstreamError{Provider: "misskey", Op: "exchange", Err: errReq}
	}

	body, status, errDo := doBounded(p.httpClient, req)
	if errDo != nil {
		return "", &UpstreamError{Provider: "misskey", Op: "exchange", Err: errDo}
	}
	if status != http.StatusOK {
		return "", &UpstreamError{Provider: "misskey", Op: "exchange", Status: status}
	}

	var checked miauthCheckResponse
	if errUnmarshal := json.Unmarshal(body, &checked); errUnmarshal != nil {
		return "", &UpstreamError{Provider: "misskey", Op: "exchange", Err: errUnmarshal}
	}
	if !checked.OK || checked.Token == "" {
		return "", &UpstreamError{Provider: "misskey", Op: "exchange", Status: status}
	}
	return checked.Token, nil
}

// misskeyAccount is the subset of /api/i needed for identity resolution.
type misskeyAccount struct {
	ID string `json:"id"`
}

// FetchAccount resolves an access token to the Misskey account id.
func (p *Misskey) FetchAccount(ctx context.Context, accessToken string, params Params) (string, error) {
	payload, errMarshal := json.Marshal(map[string]string{"i": accessToken})
	if errMarshal != nil {
		return "", &UpstreamError{Provider: "misskey", Op: "account", Err: errMarshal}
	}

	endpoint := instanceBase(params) + "/api/i"
	req, errReq := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if errReq != nil {
		return "", &UpstreamError{Provider: "misskey", Op: "account", Err: errReq}
	}
	req.Header.Set("Content-Type", "application/json")

	body, status, errDo := doBounded(p.httpClient, req)
	if errDo != nil {
		return "", &UpstreamError{Provider: "misskey", Op: "account", Err: errDo}
	}
	if status != http.StatusOK {
		return "", &UpstreamError{Provider: "misskey", Op: "account", Status: status}
	}

	var account misskeyAccount
	if errUnmarshal := json.Unmarshal(body, &account); errUnmarshal != nil {
		return "", &UpstreamError{Provider: "misskey", Op: "account", Err: errUnmarshal}
	}
	if account.ID == "" {
		return "", &UpstreamError{Provider: "misskey", Op: "account", Status: status}
	}
	return account.ID, nil
}

// doBounded executes a request and reads at most maxResponseBodyBytes.
func doBounded(client HTTPDoer, req *http.Request) ([]byte, int, error) {
	resp, errDo := client.Do(req)
	if errDo != nil {
		return nil, 0, errDo
	}
	defer func() { _ = resp.Body.Close() }()

	body, errRead := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodyBytes))
	if errRead != nil {
		return nil, resp.StatusCode, errRead
	}
	return body, resp.StatusCode, nil
}
