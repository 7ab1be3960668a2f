package gateway

import (
	"context"
	"log/slog"
	"time"

	"nop-gateway/internal/cart"
	"nop-gateway/internal/credential"
	"nop-gateway/internal/dates"
	"nop-gateway/internal/fulfillment"
	"nop-gateway/internal/model"
	"nop-gateway/internal/nopapi"
	"nop-gateway/internal/pricing"
	"nop-gateway/internal/session"
)

// Service is the production Gateway implementation, composing the session
// store, credential manager, and the per-domain components over one store
// client.
type Service struct {
	sessions *session.Store
	creds    *credential.Manager
	client   *nopapi.Client
	pricing  *pricing.Fetcher
	orders   *fulfillment.Reconciler
	carts    *cart.Manager
	resolver dates.Resolver
	now      func() time.Time
}

// NewService wires a Service from its components.
func NewService(sessions *session.Store, creds *credential.Manager, client *nopapi.Client, resolver dates.Resolver) *Service {
	return &Service{
		sessions: sessions,
		creds:    creds,
		client:   client,
		pricing:  pricing.NewFetcher(client, creds),
		orders:   fulfillment.NewReconciler(client, creds),
		carts:    cart.NewManager(client),
		resolver: resolver,
		now:      time.Now,
	}
}

func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if email == "" || password == "" {
		return nil, model.NewValidationError("credentials", "email and password required")
	}

	token, customerID, err := s.creds.AuthenticateCustomer(ctx, email, password)
	if err != nil {
		return nil, err
	}

	sess, err := s.sessions.Create(customerID, token, email)
	if err != nil {
		return nil, err
	}

	slog.Info("customer logged in", "customer_id", customerID)
	return &LoginResult{
		SessionID:  sess.ID,
		CustomerID: sess.CustomerID,
		ExpiresAt:  sess.ExpiresAt,
	}, nil
}

func (s *Service) AssertSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	sess, err := s.sessions.ValidateAndTouch(sessionID)
	if err != nil {
		return nil, err
	}
	return &SessionInfo{
		CustomerID: sess.CustomerID,
		Email:      sess.Email,
		ExpiresAt:  sess.ExpiresAt,
	}, nil
}

func (s *Service) Logout(ctx context.Context, sessionID string) error {
	s.sessions.Destroy(sessionID)
	return nil
}

func (s *Service) Prices(ctx context.Context, sessionID string, productIDs []int64, opts pricing.Options) (*PriceReport, error) {
	sess, err := s.sessions.ValidateAndTouch(sessionID)
	if err != nil {
		return nil, err
	}

	prices, failures, err := s.pricing.Prices(ctx, sess.CustomerID, productIDs, opts)
	if err != nil {
		return nil, err
	}
	return &PriceReport{
		CustomerID: sess.CustomerID,
		Prices:     prices,
		Failures:   failures,
	}, nil
}

func (s *Service) ListOrders(ctx context.Context, sessionID, whenText string) ([]model.OrderSummary, error) {
	sess, err := s.sessions.ValidateAndTouch(sessionID)
	if err != nil {
		return nil, err
	}

	orders, err := s.client.CustomerOrders(ctx, sess.FrontendToken)
	if err != nil {
		return nil, err
	}

	if whenText != "" {
		interval, err := s.resolver.Resolve(whenText, s.now())
		if err != nil {
			return nil, err
		}
		filtered := orders[:0]
		for _, o := range orders {
			if interval.Contains(o.CreatedOnUtc) {
				filtered = append(filtered, o)
			}
		}
		orders = filtered
	}

	return nopapi.ToOrderSummaries(orders), nil
}

func (s *Service) GetOrder(ctx context.Context, sessionID, orderNumber string) (*model.OrderDetails, error) {
	sess, err := s.sessions.ValidateAndTouch(sessionID)
	if err != nil {
		return nil, err
	}
	if orderNumber == "" {
		return nil, model.NewValidationError("order_number", "required")
	}
	return s.orders.OrderView(ctx, sess.FrontendToken, orderNumber)
}

func (s *Service) CreateReturn(ctx context.Context, sessionID, orderNumber string, in fulfillment.ReturnInput) (*fulfillment.CreatedReturn, error) {
	sess, err := s.sessions.ValidateAndTouch(sessionID)
	if err != nil {
		return nil, err
	}
	if orderNumber == "" {
		return nil, model.NewValidationError("order_number", "required")
	}

	created, err := s.orders.CreateReturn(ctx, sess.FrontendToken, orderNumber, in)
	if err != nil {
		return nil, err
	}
	slog.Info("return created",
		"customer_id", sess.CustomerID,
		"order_number", orderNumber,
		"return_id", created.ID)
	return created, nil
}

func (s *Service) AddToCart(ctx context.Context, sessionID string, productID int64, quantity int, cartType model.CartType) (model.Cart, error) {
	sess, err := s.sessions.ValidateAndTouch(sessionID)
	if err != nil {
		return model.Cart{}, err
	}
	return s.carts.AddItem(ctx, sess.FrontendToken, productID, quantity, cartType)
}

func (s *Service) UpdateCartItem(ctx context.Context, sessionID string, itemID int64, quantity int) (model.Cart, error) {
	sess, err := s.sessions.ValidateAndTouch(sessionID)
	if err != nil {
		return model.Cart{}, err
	}
	return s.carts.UpdateItem(ctx, sess.FrontendToken, itemID, quantity)
}

func (s *Service) GetCart(ctx context.Context, sessionID string, cartType model.CartType) (model.Cart, error) {
	sess, err := s.sessions.ValidateAndTouch(sessionID)
	if err != nil {
		return model.Cart{}, err
	}
	return s.carts.Get(ctx, sess.FrontendToken, cartType)
}

func (s *Service) SyncWishlist(ctx context.Context, sessionID string) (model.SyncResult, error) {
	sess, err := s.sessions.ValidateAndTouch(sessionID)
	if err != nil {
		return model.SyncResult{}, err
	}
	return s.carts.SyncWishlistFromCart(ctx, sess.FrontendToken)
}
