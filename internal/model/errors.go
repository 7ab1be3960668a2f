package model

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases.
// Use errors.Is() to check against these.
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidRequest  = errors.New("invalid request")
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
	ErrUpstream        = errors.New("upstream error")
	ErrUpstreamAuth    = errors.New("upstream auth error")
	ErrConfiguration   = errors.New("configuration error")
	ErrInvalidQuantity = errors.New("invalid quantity")
	ErrExceedsShipped  = errors.New("exceeds shipped quantity")
	ErrPendingFinalize = errors.New("return pending finalize")
	ErrRateLimited     = errors.New("rate limited")
)

// APIError represents a structured error for API responses.
// Code is the machine-checkable reason; Message is for humans.
// Implements error interface and supports unwrapping.
type APIError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"` // HTTP status, not serialized
	Err        error  `json:"-"` // Wrapped error, not serialized
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// UpstreamHTTPError carries the upstream response detail of a failed call:
// status code, requested URL, and raw body. Wrapped inside an APIError so
// callers can errors.As() to it when they need the specifics.
type UpstreamHTTPError struct {
	Status int
	URL    string
	Body   string
}

func (e *UpstreamHTTPError) Error() string {
	return fmt.Sprintf("status %d from %s: %s", e.Status, e.URL, e.Body)
}

// NewNotFoundError creates a 404 error for missing resources.
func NewNotFoundError(resource string) *APIError {
	return &APIError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		StatusCode: 404,
		Err:        ErrNotFound,
	}
}

// NewValidationError creates a 400 error for invalid input.
func NewValidationError(field, reason string) *APIError {
	return &APIError{
		Code:       "VALIDATION_ERROR",
		Message:    fmt.Sprintf("invalid %s: %s", field, reason),
		StatusCode: 400,
		Err:        ErrInvalidRequest,
	}
}

// NewSessionNotFoundError creates a 401 error for unknown session tokens.
func NewSessionNotFoundError() *APIError {
	return &APIError{
		Code:       "SESSION_NOT_FOUND",
		Message:    "session is not valid",
		StatusCode: 401,
		Err:        ErrSessionNotFound,
	}
}

// NewSessionExpiredError creates a 401 error for expired session tokens.
func NewSessionExpiredError() *APIError {
	return &APIError{
		Code:       "SESSION_EXPIRED",
		Message:    "session has expired",
		StatusCode: 401,
		Err:        ErrSessionExpired,
	}
}

// NewConfigurationError creates a 500 error for missing service configuration.
// Never retried automatically; the operator must fix the deployment.
func NewConfigurationError(reason string) *APIError {
	return &APIError{
		Code:       "CONFIGURATION_ERROR",
		Message:    reason,
		StatusCode: 500,
		Err:        ErrConfiguration,
	}
}

// NewUpstreamAuthError creates a 502 error for upstream credential rejections
// or token responses the gateway cannot parse.
func NewUpstreamAuthError(reason string) *APIError {
	return &APIError{
		Code:       "UPSTREAM_AUTH_ERROR",
		Message:    reason,
		StatusCode: 502,
		Err:        ErrUpstreamAuth,
	}
}

// NewUpstreamError creates a 502 error for transport-level upstream failures.
func NewUpstreamError(service string, err error) *APIError {
	return &APIError{
		Code:       "UPSTREAM_ERROR",
		Message:    fmt.Sprintf("%s request failed", service),
		StatusCode: 502,
		Err:        fmt.Errorf("%w: %v", ErrUpstream, err),
	}
}

// NewUpstreamHTTPError creates a 502 error for non-success upstream responses,
// preserving status, URL, and raw body in the error chain.
func NewUpstreamHTTPError(service string, status int, url, body string) *APIError {
	return &APIError{
		Code:       "UPSTREAM_ERROR",
		Message:    fmt.Sprintf("%s request failed with status %d", service, status),
		StatusCode: 502,
		Err: fmt.Errorf("%w: %w", ErrUpstream, &UpstreamHTTPError{
			Status: status,
			URL:    url,
			Body:   body,
		}),
	}
}

// NewInvalidQuantityError creates a 400 error for return quantities outside
// the ordered range.
func NewInvalidQuantityError(reason string) *APIError {
	return &APIError{
		Code:       "INVALID_QUANTITY",
		Message:    reason,
		StatusCode: 400,
		Err:        ErrInvalidQuantity,
	}
}

// NewExceedsShippedError creates a 400 error for return quantities above what
// was actually shipped.
func NewExceedsShippedError(requested, shipped int) *APIError {
	return &APIError{
		Code:       "EXCEEDS_SHIPPED",
		Message:    fmt.Sprintf("requested return quantity %d exceeds shipped quantity %d", requested, shipped),
		StatusCode: 400,
		Err:        ErrExceedsShipped,
	}
}

// NewReturnPendingFinalizeError creates a 502 error for a return request that
// was created upstream but could not be finalized. The created id is part of
// the message so the caller still learns it.
func NewReturnPendingFinalizeError(rmaID int64, err error) *APIError {
	return &APIError{
		Code:       "RETURN_PENDING_FINALIZE",
		Message:    fmt.Sprintf("return request %d was created but left pending", rmaID),
		StatusCode: 502,
		Err:        fmt.Errorf("%w: %v", ErrPendingFinalize, err),
	}
}

// NewRateLimitError creates a 429 error for rate limiting.
func NewRateLimitError(service string) *APIError {
	return &APIError{
		Code:       "RATE_LIMITED",
		Message:    fmt.Sprintf("%s rate limit exceeded, please retry later", service),
		StatusCode: 429,
		Err:        ErrRateLimited,
	}
}

// NewInternalError creates a 500 error for unexpected failures.
func NewInternalError(err error) *APIError {
	return &APIError{
		Code:       "INTERNAL_ERROR",
		Message:    "an internal error occurred",
		StatusCode: 500,
		Err:        err,
	}
}
