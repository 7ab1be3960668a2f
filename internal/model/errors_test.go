package model

import (
	"errors"
	"fmt"
	"testing"
)

func TestAPIError_Error(t *testing.T) {
	err := &APIError{Code: "TEST", Message: "something broke"}
	if got := err.Error(); got != "TEST: something broke" {
		t.Errorf("Error() = %q", got)
	}

	wrapped := &APIError{Code: "TEST", Message: "something broke", Err: errors.New("cause")}
	if got := wrapped.Error(); got != "TEST: something broke (cause)" {
		t.Errorf("Error() with cause = %q", got)
	}
}

func TestConstructors_SentinelMatching(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		code     string
		status   int
	}{
		{"not found", NewNotFoundError("order"), ErrNotFound, "NOT_FOUND", 404},
		{"validation", NewValidationError("quantity", "must be positive"), ErrInvalidRequest, "VALIDATION_ERROR", 400},
		{"session not found", NewSessionNotFoundError(), ErrSessionNotFound, "SESSION_NOT_FOUND", 401},
		{"session expired", NewSessionExpiredError(), ErrSessionExpired, "SESSION_EXPIRED", 401},
		{"configuration", NewConfigurationError("missing NC_ADMIN_EMAIL"), ErrConfiguration, "CONFIGURATION_ERROR", 500},
		{"upstream auth", NewUpstreamAuthError("could not parse token"), ErrUpstreamAuth, "UPSTREAM_AUTH_ERROR", 502},
		{"upstream", NewUpstreamError("nopCommerce", errors.New("dial timeout")), ErrUpstream, "UPSTREAM_ERROR", 502},
		{"invalid quantity", NewInvalidQuantityError("zero"), ErrInvalidQuantity, "INVALID_QUANTITY", 400},
		{"exceeds shipped", NewExceedsShippedError(5, 2), ErrExceedsShipped, "EXCEEDS_SHIPPED", 400},
		{"pending finalize", NewReturnPendingFinalizeError(42, errors.New("put failed")), ErrPendingFinalize, "RETURN_PENDING_FINALIZE", 502},
		{"rate limited", NewRateLimitError("nopCommerce"), ErrRateLimited, "RATE_LIMITED", 429},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.sentinel) {
				t.Errorf("errors.Is(%v, sentinel) = false", tt.err)
			}

			var apiErr *APIError
			if !errors.As(tt.err, &apiErr) {
				t.Fatalf("errors.As() failed for %v", tt.err)
			}
			if apiErr.Code != tt.code {
				t.Errorf("Code = %q, want %q", apiErr.Code, tt.code)
			}
			if apiErr.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", apiErr.StatusCode, tt.status)
			}
		})
	}
}

func TestUpstreamHTTPError_CarriesDetail(t *testing.T) {
	err := NewUpstreamHTTPError("nopCommerce", 503, "https://store.example/api-backend/Order/1", `{"error":"down"}`)

	if !errors.Is(err, ErrUpstream) {
		t.Error("expected ErrUpstream in chain")
	}

	var httpErr *UpstreamHTTPError
	if !errors.As(err, &httpErr) {
		t.Fatal("expected UpstreamHTTPError in chain")
	}
	if httpErr.Status != 503 {
		t.Errorf("Status = %d, want 503", httpErr.Status)
	}
	if httpErr.URL != "https://store.example/api-backend/Order/1" {
		t.Errorf("URL = %q", httpErr.URL)
	}
	if httpErr.Body != `{"error":"down"}` {
		t.Errorf("Body = %q", httpErr.Body)
	}
}

func TestAPIError_SurvivesWrapping(t *testing.T) {
	inner := NewSessionExpiredError()
	outer := fmt.Errorf("validating session: %w", inner)

	var apiErr *APIError
	if !errors.As(outer, &apiErr) {
		t.Fatal("errors.As() failed through fmt.Errorf wrapping")
	}
	if apiErr.Code != "SESSION_EXPIRED" {
		t.Errorf("Code = %q, want SESSION_EXPIRED", apiErr.Code)
	}
}
