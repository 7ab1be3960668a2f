package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"nop-gateway/internal/config"
	"nop-gateway/internal/credential"
	"nop-gateway/internal/dates"
	"nop-gateway/internal/model"
	"nop-gateway/internal/nopapi"
	"nop-gateway/internal/pricing"
	"nop-gateway/internal/session"
)

// fixedResolver returns one interval for any expression.
type fixedResolver struct {
	iv  dates.Interval
	err error
}

func (f *fixedResolver) Resolve(text string, ref time.Time) (dates.Interval, error) {
	return f.iv, f.err
}

func newTestService(t *testing.T, handler http.Handler, resolver dates.Resolver) *Service {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := nopapi.NewClient(nopapi.Config{BaseURL: srv.URL, Paths: config.DefaultPaths()})
	creds := credential.NewManager(client, "svc@store.test", "pw")
	if resolver == nil {
		resolver = &fixedResolver{}
	}
	return NewService(session.NewStore(time.Hour), creds, client, resolver)
}

func storeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api-frontend/Authenticate/GetToken", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"token":"front-tok","customer_id":9001}`))
	})
	mux.HandleFunc("/api-backend/Authenticate/GetToken", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"token":"admin-tok","expires_in":3600}`))
	})
	return mux
}

func TestLoginAndAssertSession(t *testing.T) {
	svc := newTestService(t, storeMux(), nil)

	res, err := svc.Login(context.Background(), "a@b.test", "pw")
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	if res.SessionID == "" || res.CustomerID != 9001 {
		t.Fatalf("unexpected login result: %+v", res)
	}

	info, err := svc.AssertSession(context.Background(), res.SessionID)
	if err != nil {
		t.Fatalf("AssertSession() error: %v", err)
	}
	if info.CustomerID != 9001 || info.Email != "a@b.test" {
		t.Errorf("unexpected session info: %+v", info)
	}
}

func TestLogin_EmptyCredentials(t *testing.T) {
	svc := newTestService(t, storeMux(), nil)

	if _, err := svc.Login(context.Background(), "", "pw"); !errors.Is(err, model.ErrInvalidRequest) {
		t.Errorf("want ErrInvalidRequest, got %v", err)
	}
}

func TestLogout_ThenAssertFails(t *testing.T) {
	svc := newTestService(t, storeMux(), nil)

	res, err := svc.Login(context.Background(), "a@b.test", "pw")
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.Logout(context.Background(), res.SessionID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.AssertSession(context.Background(), res.SessionID); !errors.Is(err, model.ErrSessionNotFound) {
		t.Errorf("want ErrSessionNotFound, got %v", err)
	}
}

func TestOperationsRequireSession(t *testing.T) {
	svc := newTestService(t, storeMux(), nil)
	ctx := context.Background()

	checks := map[string]func() error{
		"ListOrders": func() error { _, err := svc.ListOrders(ctx, "bogus", ""); return err },
		"GetOrder":   func() error { _, err := svc.GetOrder(ctx, "bogus", "ORD-1"); return err },
		"GetCart":    func() error { _, err := svc.GetCart(ctx, "bogus", model.CartTypeShoppingCart); return err },
		"Prices":     func() error { _, err := svc.Prices(ctx, "bogus", []int64{1}, pricing.Options{}); return err },
	}
	for name, fn := range checks {
		if err := fn(); !errors.Is(err, model.ErrSessionNotFound) {
			t.Errorf("%s: want ErrSessionNotFound, got %v", name, err)
		}
	}
}

func TestListOrders_FiltersByInterval(t *testing.T) {
	mux := storeMux()
	mux.HandleFunc("/api-frontend/Order/CustomerOrders", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"orders":[
			{"id":1,"custom_order_number":"ORD-1","order_total":"10.0000","created_on_utc":"2026-05-10T08:00:00Z"},
			{"id":2,"custom_order_number":"ORD-2","order_total":"20.0000","created_on_utc":"2026-06-02T08:00:00Z"}
		]}`))
	})

	resolver := &fixedResolver{iv: dates.Interval{
		From: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
	}}
	svc := newTestService(t, mux, resolver)

	res, err := svc.Login(context.Background(), "a@b.test", "pw")
	if err != nil {
		t.Fatal(err)
	}

	all, err := svc.ListOrders(context.Background(), res.SessionID, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Fatalf("unfiltered: got %d orders, want 2", len(all))
	}

	filtered, err := svc.ListOrders(context.Background(), res.SessionID, "last month")
	if err != nil {
		t.Fatal(err)
	}
	if len(filtered) != 1 || filtered[0].OrderNumber != "ORD-1" {
		t.Errorf("filtered = %+v, want only ORD-1", filtered)
	}
}

func TestListOrders_BadDateExpression(t *testing.T) {
	mux := storeMux()
	mux.HandleFunc("/api-frontend/Order/CustomerOrders", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"orders":[]}`))
	})
	resolver := &fixedResolver{err: model.NewValidationError("when", "unrecognized date expression")}
	svc := newTestService(t, mux, resolver)

	res, err := svc.Login(context.Background(), "a@b.test", "pw")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.ListOrders(context.Background(), res.SessionID, "???"); !errors.Is(err, model.ErrInvalidRequest) {
		t.Errorf("want ErrInvalidRequest, got %v", err)
	}
}
