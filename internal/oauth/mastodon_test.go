package oauth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMastodon_ExchangeToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/oauth/token" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		if errParse := r.ParseForm(); errParse != nil {
			t.Fatalf("parse form: %v", errParse)
		}
		if got := r.PostForm.Get("grant_type"); got != "authorization_code" {
			t.Fatalf("unexpected grant_type %q", got)
		}
		if got := r.PostForm.Get("code"); got != "auth-code" {
			t.Fatalf("unexpected code %q", got)
		}
		if got := r.PostForm.Get("client_id"); got != "cid" {
			t.Fatalf("unexpected client_id %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"at-123"}`))
	}))
	defer srv.Close()

	provider := NewMastodon(srv.Client())
	params := Params{ClientID: "cid", ClientSecret: "secret", InstanceURL: srv.URL, RedirectURI: "https://app/cb"}

	token, errExchange := provider.ExchangeToken(context.Background(), "auth-code", params)
	if errExchange != nil {
		t.Fatalf("ExchangeToken: %v", errExchange)
	}
	if token != "at-123" {
		t.Fatalf("expected access token at-123, got %q", token)
	}
}

func TestMastodon_ExchangeToken_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
	}))
	defer srv.Close()

	provider := NewMastodon(srv.Client())
	_, errExchange := provider.ExchangeToken(context.Background(), "bad", Params{InstanceURL: srv.URL})
	if errExchange == nil {
		t.Fatalf("expected upstream error")
	}
	var upstream *UpstreamError
	if !errors.As(errExchange, &upstream) {
		t.Fatalf("expected *UpstreamError, got %T", errExchange)
	}
	if upstream.Status != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", upstream.Status)
	}
}

func TestMastodon_FetchAccount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/accounts/verify_credentials" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer at-123" {
			t.Fatalf("unexpected authorization %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"109382112","username":"alice"}`))
	}))
	defer srv.Close()

	provider := NewMastodon(srv.Client())
	id, errFetch := provider.FetchAccount(context.Background(), "at-123", Params{InstanceURL: srv.URL})
	if errFetch != nil {
		t.Fatalf("FetchAccount: %v", errFetch)
	}
	if id != "109382112" {
		t.Fatalf("expected external id 109382112, got %q", id)
	}
}
