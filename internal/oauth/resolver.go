package oauth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/uden-ai/uden-server/internal/db"
	"github.com/uden-ai/uden-server/internal/models"
	"gorm.io/gorm"
)

// ErrNoLinkedAccount is returned when no local user has the resolved
// (provider, external id) pair linked. The resolver never provisions
// accounts; linking is a separate explicit step.
var ErrNoLinkedAccount = errors.New("oauth: no linked account")

// Resolver dispatches login attempts to registered providers and
// matches the resolved external identity against local users.
type Resolver struct {
	conn      *gorm.DB
	providers map[string]Provider
}

// NewResolver constructs a resolver with the base providers registered.
func NewResolver(conn *gorm.DB) *Resolver {
	r := &Resolver{conn: conn, providers: make(map[string]Provider)}
	r.Register("misskey", NewMisskey(nil))
	r.Register("mastodon", NewMastodon(nil))
	return r
}

// Register adds or replaces a provider implementation. Adding a
// provider is additive; the login dispatch never changes.
func (r *Resolver) Register(name string, provider Provider) {
	r.providers[strings.ToLower(strings.TrimSpace(name))] = provider
}

// Login runs one federated login attempt: exchange the artifact, fetch
// the external account id, and match it against linked identities.
func (r *Resolver) Login(ctx context.Context, providerName, artifact string, params Params) (*models.User, error) {
	provider, found := r.providers[strings.ToLower(strings.TrimSpace(providerName))]
	if !found {
		return nil, ErrUnknownProvider
	}

	accessToken, errExchange := provider.ExchangeToken(ctx, artifact, params)
	if errExchange != nil {
		return nil, errExchange
	}

	externalID, errAccount := provider.FetchAccount(ctx, accessToken, params)
	if errAccount != nil {
		return nil, errAccount
	}

	return r.findLinkedUser(ctx, providerName, externalID)
}

// findLinkedUser runs the containment query over the linked-accounts
// JSON list. The list is treated as unordered; exactly one
// (provider, id) object must match.
func (r *Resolver) findLinkedUser(ctx context.Context, providerName, externalID string) (*models.User, error) {
	expr := db.OAuthAccountContainsExpr(r.conn, "oauth_accounts")
	values := db.OAuthAccountContainsValues(r.conn, strings.ToLower(strings.TrimSpace(providerName)), externalID)

	var user models.User
	errFind := r.conn.WithContext(ctx).Where(expr, values...).First(&user).Error
	if errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, ErrNoLinkedAccount
		}
		return nil, fmt.Errorf("oauth: linked account lookup: %w", errFind)
	}
	return &user, nil
}
