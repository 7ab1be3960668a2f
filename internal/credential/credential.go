// Package credential manages the gateway's two credential kinds: the shared
// backend service-account token and per-customer frontend tokens.
package credential

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"nop-gateway/internal/model"
	"nop-gateway/internal/nopapi"
)

// refreshMargin is subtracted from the cached token's lifetime when deciding
// whether it is still usable, so a token is never handed out within a few
// seconds of expiring mid-request.
const refreshMargin = 10 * time.Second

// minTokenLifetime guards against stores that report tiny or zero expiries.
const minTokenLifetime = 60 * time.Second

// defaultTokenLifetime applies when the token response omits expires_in.
const defaultTokenLifetime = 3600 * time.Second

// tokenClient is the slice of the store client the manager needs.
type tokenClient interface {
	AdminToken(ctx context.Context, email, password string) (*nopapi.TokenResponse, error)
	CustomerToken(ctx context.Context, email, password string) (*nopapi.TokenResponse, error)
}

// Manager caches the shared admin token and authenticates customers. Safe for
// concurrent use; concurrent admin-token refreshes collapse into a single
// upstream call.
type Manager struct {
	client        tokenClient
	adminEmail    string
	adminPassword string
	now           func() time.Time

	group singleflight.Group

	mu          sync.Mutex
	adminToken  string
	adminExpiry time.Time
}

// NewManager creates a credential manager. Admin credentials may be empty;
// backend-dependent operations then fail with a configuration error at call
// time rather than blocking startup.
func NewManager(client tokenClient, adminEmail, adminPassword string) *Manager {
	return &Manager{
		client:        client,
		adminEmail:    adminEmail,
		adminPassword: adminPassword,
		now:           time.Now,
	}
}

// AdminToken returns a currently valid backend token, refreshing it upstream
// when the cached one is absent or about to expire. Waiters piling up behind
// an expired token share one refresh.
func (m *Manager) AdminToken(ctx context.Context) (string, error) {
	if tok, ok := m.cachedAdminToken(); ok {
		return tok, nil
	}
	if m.adminEmail == "" || m.adminPassword == "" {
		return "", model.NewConfigurationError("backend service account credentials not configured")
	}

	v, err, _ := m.group.Do("admin", func() (interface{}, error) {
		// Re-check under the flight: a refresh that finished while this
		// caller queued is still fresh.
		if tok, ok := m.cachedAdminToken(); ok {
			return tok, nil
		}
		return m.refreshAdminToken(ctx)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (m *Manager) cachedAdminToken() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.adminToken != "" && m.adminExpiry.After(m.now().Add(refreshMargin)) {
		return m.adminToken, true
	}
	return "", false
}

func (m *Manager) refreshAdminToken(ctx context.Context) (string, error) {
	resp, err := m.client.AdminToken(ctx, m.adminEmail, m.adminPassword)
	if err != nil {
		return "", err
	}

	lifetime := defaultTokenLifetime
	if resp.ExpiresIn > 0 {
		lifetime = time.Duration(resp.ExpiresIn) * time.Second
	}
	if lifetime < minTokenLifetime {
		lifetime = minTokenLifetime
	}

	m.mu.Lock()
	m.adminToken = resp.Token
	m.adminExpiry = m.now().Add(lifetime)
	m.mu.Unlock()

	slog.Debug("refreshed backend service token", "lifetime", lifetime)
	return resp.Token, nil
}

// Invalidate drops the cached admin token. Called when an upstream rejects
// the token before its advertised expiry.
func (m *Manager) Invalidate() {
	m.mu.Lock()
	m.adminToken = ""
	m.adminExpiry = time.Time{}
	m.mu.Unlock()
}

// AuthenticateCustomer exchanges customer credentials for a frontend token
// and the store's customer id. Nothing is cached: the caller's session owns
// the returned token.
func (m *Manager) AuthenticateCustomer(ctx context.Context, email, password string) (token string, customerID int64, err error) {
	resp, err := m.client.CustomerToken(ctx, email, password)
	if err != nil {
		return "", 0, err
	}
	return resp.Token, resp.CustomerID, nil
}
