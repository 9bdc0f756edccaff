package sync

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Platform Errors
// ---------------------------------------------------------------------------

var (
	// ErrPlatformAuthFailed indicates the store API rejected our credentials (HTTP 401)
	ErrPlatformAuthFailed = errors.New("sync: store authentication failed")
	// ErrPlatformRateLimited indicates the store API throttled the request (HTTP 429)
	ErrPlatformRateLimited = errors.New("sync: store rate limited")
	// ErrPlatformServerError indicates a store-side failure (HTTP 5xx)
	ErrPlatformServerError = errors.New("sync: store server error")
	// ErrPlatformTimeout indicates a connect or read timeout talking to the store
	ErrPlatformTimeout = errors.New("sync: store request timed out")
	// ErrPlatformUnavailable indicates a transport-level failure before any response
	ErrPlatformUnavailable = errors.New("sync: store temporarily unavailable")
	// ErrPlatformRequestFailed is the catch-all for any other non-2xx response;
	// wrapped errors carry the HTTP status and response body
	ErrPlatformRequestFailed = errors.New("sync: store request failed")
	// ErrPlatformInvalidResponse indicates a malformed response body
	ErrPlatformInvalidResponse = errors.New("sync: invalid store response")

	// ErrOrderNotFound indicates the requested order does not exist on the store
	ErrOrderNotFound = errors.New("sync: store order not found")

	// ErrSyncAlreadyRunning indicates another sync run holds the run lock
	ErrSyncAlreadyRunning = errors.New("sync: a sync run is already in progress")
)

// IsPlatformError returns true if err belongs to the store API error category.
// Callers that do not care which failure occurred can match broadly with this
// instead of checking each sentinel.
func IsPlatformError(err error) bool {
	for _, target := range []error{
		ErrPlatformAuthFailed,
		ErrPlatformRateLimited,
		ErrPlatformServerError,
		ErrPlatformTimeout,
		ErrPlatformUnavailable,
		ErrPlatformRequestFailed,
		ErrPlatformInvalidResponse,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// Value Objects
// ---------------------------------------------------------------------------

// StoreOrder represents one remote order after transformation into the local
// shape. It is the unit the reconciliation step operates on.
type StoreOrder struct {
	// ExternalID is the order ID on the store platform
	ExternalID string
	// Status is the remote status mapped into the local OrderStatus set
	Status OrderStatus
	// Total is the order total amount
	Total decimal.Decimal
	// RawData is the original store response for this order (JSON)
	RawData string
	// Billing carries the billing-relevant fields extracted from the raw order
	Billing BillingData
}

// BillingData holds the subset of a store order that the billing system needs.
// It travels alongside the transformed order and is never persisted as columns.
type BillingData struct {
	Customer        BillingCustomer `json:"customer"`
	BillingAddress  BillingAddress  `json:"billing_address"`
	ShippingAddress BillingAddress  `json:"shipping_address"`
	Items           []BillingItem   `json:"items"`
	PaymentMethod   map[string]any  `json:"payment_method"`
	ShippingMethod  string          `json:"shipping_method"`
	Currency        string          `json:"currency"`
	CreatedAt       string          `json:"created_at"`
	UpdatedAt       string          `json:"updated_at"`
}

// BillingCustomer identifies the buyer for invoicing
type BillingCustomer struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// BillingAddress is a billing or shipping address
type BillingAddress struct {
	Address string `json:"address"`
	City    string `json:"city"`
	Zipcode string `json:"zipcode"`
}

// BillingItem is one invoiceable line item
type BillingItem struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	VariantID int64           `json:"variant_id"`
}

// ---------------------------------------------------------------------------
// StorePlatform Port Interface
// ---------------------------------------------------------------------------

// StorePlatform defines the port interface for the remote store API.
// The production HTTP client and the development sandbox both implement it;
// cmd/server selects one by configuration.
type StorePlatform interface {
	// FetchOrders fetches one page of orders. An empty result terminates the
	// caller's pagination loop; the platform never pages internally.
	// createdAfter, when non-nil, asks only for orders created after it.
	FetchOrders(ctx context.Context, page, perPage int, createdAfter *time.Time) ([]StoreOrder, error)

	// FetchOrder fetches a single order by its external ID.
	// Returns ErrOrderNotFound if the store does not know the order.
	FetchOrder(ctx context.Context, externalID string) (*StoreOrder, error)
}
