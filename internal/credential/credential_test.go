package credential

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"nop-gateway/internal/model"
	"nop-gateway/internal/nopapi"
)

type fakeTokenClient struct {
	adminCalls int32
	adminResp  *nopapi.TokenResponse
	adminErr   error

	customerResp *nopapi.TokenResponse
	customerErr  error
}

func (f *fakeTokenClient) AdminToken(ctx context.Context, email, password string) (*nopapi.TokenResponse, error) {
	atomic.AddInt32(&f.adminCalls, 1)
	return f.adminResp, f.adminErr
}

func (f *fakeTokenClient) CustomerToken(ctx context.Context, email, password string) (*nopapi.TokenResponse, error) {
	return f.customerResp, f.customerErr
}

func TestAdminToken_CachesUntilExpiry(t *testing.T) {
	client := &fakeTokenClient{adminResp: &nopapi.TokenResponse{Token: "tok-1", ExpiresIn: 3600}}
	m := NewManager(client, "svc@store.test", "pw")

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		tok, err := m.AdminToken(context.Background())
		if err != nil {
			t.Fatalf("AdminToken() error: %v", err)
		}
		if tok != "tok-1" {
			t.Fatalf("token = %q", tok)
		}
	}
	if n := atomic.LoadInt32(&client.adminCalls); n != 1 {
		t.Errorf("upstream calls = %d, want 1", n)
	}
}

func TestAdminToken_RefreshesNearExpiry(t *testing.T) {
	client := &fakeTokenClient{adminResp: &nopapi.TokenResponse{Token: "tok-1", ExpiresIn: 100}}
	m := NewManager(client, "svc@store.test", "pw")

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	if _, err := m.AdminToken(context.Background()); err != nil {
		t.Fatal(err)
	}

	// 95s in: 5s of lifetime left, inside the refresh margin.
	now = now.Add(95 * time.Second)
	client.adminResp = &nopapi.TokenResponse{Token: "tok-2", ExpiresIn: 100}

	tok, err := m.AdminToken(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if tok != "tok-2" {
		t.Errorf("token = %q, want tok-2", tok)
	}
	if n := atomic.LoadInt32(&client.adminCalls); n != 2 {
		t.Errorf("upstream calls = %d, want 2", n)
	}
}

func TestAdminToken_EnforcesMinimumLifetime(t *testing.T) {
	client := &fakeTokenClient{adminResp: &nopapi.TokenResponse{Token: "tok-1", ExpiresIn: 5}}
	m := NewManager(client, "svc@store.test", "pw")

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	if _, err := m.AdminToken(context.Background()); err != nil {
		t.Fatal(err)
	}

	// 30s in: a 5s expiry would have lapsed, but the 60s floor keeps it.
	now = now.Add(30 * time.Second)
	if _, err := m.AdminToken(context.Background()); err != nil {
		t.Fatal(err)
	}
	if n := atomic.LoadInt32(&client.adminCalls); n != 1 {
		t.Errorf("upstream calls = %d, want 1", n)
	}
}

func TestAdminToken_ZeroExpiryDefaultsToHour(t *testing.T) {
	client := &fakeTokenClient{adminResp: &nopapi.TokenResponse{Token: "tok-1"}}
	m := NewManager(client, "svc@store.test", "pw")

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	if _, err := m.AdminToken(context.Background()); err != nil {
		t.Fatal(err)
	}

	now = now.Add(30 * time.Minute)
	if _, err := m.AdminToken(context.Background()); err != nil {
		t.Fatal(err)
	}
	if n := atomic.LoadInt32(&client.adminCalls); n != 1 {
		t.Errorf("upstream calls = %d, want 1", n)
	}
}

func TestAdminToken_MissingCredentialsIsConfigurationError(t *testing.T) {
	m := NewManager(&fakeTokenClient{}, "", "")

	_, err := m.AdminToken(context.Background())
	if !errors.Is(err, model.ErrConfiguration) {
		t.Errorf("want ErrConfiguration, got %v", err)
	}
}

func TestAdminToken_ConcurrentCallsShareOneRefresh(t *testing.T) {
	client := &fakeTokenClient{adminResp: &nopapi.TokenResponse{Token: "tok-1", ExpiresIn: 3600}}
	m := NewManager(client, "svc@store.test", "pw")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := m.AdminToken(context.Background()); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	if n := atomic.LoadInt32(&client.adminCalls); n != 1 {
		t.Errorf("upstream calls = %d, want 1", n)
	}
}

func TestInvalidate_ForcesRefresh(t *testing.T) {
	client := &fakeTokenClient{adminResp: &nopapi.TokenResponse{Token: "tok-1", ExpiresIn: 3600}}
	m := NewManager(client, "svc@store.test", "pw")

	if _, err := m.AdminToken(context.Background()); err != nil {
		t.Fatal(err)
	}
	m.Invalidate()

	client.adminResp = &nopapi.TokenResponse{Token: "tok-2", ExpiresIn: 3600}
	tok, err := m.AdminToken(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if tok != "tok-2" {
		t.Errorf("token = %q, want tok-2", tok)
	}
}

func TestAuthenticateCustomer(t *testing.T) {
	client := &fakeTokenClient{customerResp: &nopapi.TokenResponse{Token: "cust-tok", CustomerID: 9001}}
	m := NewManager(client, "", "")

	tok, id, err := m.AuthenticateCustomer(context.Background(), "a@b.test", "pw")
	if err != nil {
		t.Fatalf("AuthenticateCustomer() error: %v", err)
	}
	if tok != "cust-tok" || id != 9001 {
		t.Errorf("got (%q, %d)", tok, id)
	}
}

func TestAuthenticateCustomer_PropagatesError(t *testing.T) {
	client := &fakeTokenClient{customerErr: model.NewUpstreamAuthError("bad credentials")}
	m := NewManager(client, "", "")

	_, _, err := m.AuthenticateCustomer(context.Background(), "a@b.test", "wrong")
	if !errors.Is(err, model.ErrUpstreamAuth) {
		t.Errorf("want ErrUpstreamAuth, got %v", err)
	}
}
