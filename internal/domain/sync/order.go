package sync

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Order Errors
// ---------------------------------------------------------------------------

var (
	// ErrOrderMissingExternalID indicates an order without its store identifier
	ErrOrderMissingExternalID = errors.New("sync: order external ID is required")
	// ErrOrderNegativeTotal indicates an order with a negative total amount
	ErrOrderNegativeTotal = errors.New("sync: order total must not be negative")
)

// ---------------------------------------------------------------------------
// OrderStatus
// ---------------------------------------------------------------------------

// OrderStatus represents the local status of a synced order
type OrderStatus string

const (
	// OrderStatusPending indicates the order awaits payment
	OrderStatusPending OrderStatus = "pending"
	// OrderStatusPaid indicates payment was received
	OrderStatusPaid OrderStatus = "paid"
	// OrderStatusCancelled indicates the order was cancelled on the store
	OrderStatusCancelled OrderStatus = "cancelled"
	// OrderStatusCompleted indicates the order was fulfilled
	OrderStatusCompleted OrderStatus = "completed"
	// OrderStatusUnknown is assigned to any unrecognized remote status
	OrderStatusUnknown OrderStatus = "unknown"
)

// IsValid returns true if the status is valid
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusCancelled,
		OrderStatusCompleted, OrderStatusUnknown:
		return true
	default:
		return false
	}
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// MapStoreStatus maps a raw Tienda Nube order status to the local status set.
// The mapping is fixed; anything unrecognized becomes OrderStatusUnknown.
func MapStoreStatus(storeStatus string) OrderStatus {
	switch storeStatus {
	case "pending", "open":
		return OrderStatusPending
	case "paid":
		return OrderStatusPaid
	case "cancelled":
		return OrderStatusCancelled
	case "fulfilled":
		return OrderStatusCompleted
	default:
		return OrderStatusUnknown
	}
}

// ---------------------------------------------------------------------------
// Order Entity
// ---------------------------------------------------------------------------

// Order is the local record of a remote store order.
// ExternalID is unique and immutable once set. Synced is true only after a
// successful billing forward for the order's current data, in which case
// RawData contains the merged billing outcome fields.
type Order struct {
	ID         uuid.UUID
	ExternalID string
	Status     OrderStatus
	Total      decimal.Decimal
	RawData    string
	Synced     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewOrder creates a local order from a transformed store order.
// Billing data stays on the StoreOrder; only the persisted fields are copied.
func NewOrder(so *StoreOrder) (*Order, error) {
	if so.ExternalID == "" {
		return nil, ErrOrderMissingExternalID
	}
	if so.Total.IsNegative() {
		return nil, ErrOrderNegativeTotal
	}
	now := time.Now()
	return &Order{
		ID:         uuid.New(),
		ExternalID: so.ExternalID,
		Status:     so.Status,
		Total:      so.Total,
		RawData:    so.RawData,
		Synced:     false,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// ApplyStoreOrder refreshes the mutable fields from a newly fetched store
// order and clears the synced flag until the next billing forward succeeds.
// The external ID never changes.
func (o *Order) ApplyStoreOrder(so *StoreOrder) error {
	if so.Total.IsNegative() {
		return ErrOrderNegativeTotal
	}
	o.Status = so.Status
	o.Total = so.Total
	o.RawData = so.RawData
	o.Synced = false
	o.UpdatedAt = time.Now()
	return nil
}

// MarkSynced merges the billing outcome into RawData and flips Synced.
// RawData that fails to parse is replaced by just the outcome fields so the
// billing reference is never lost.
func (o *Order) MarkSynced(outcome BillingResult) {
	merged := map[string]any{}
	if o.RawData != "" {
		_ = json.Unmarshal([]byte(o.RawData), &merged)
	}
	merged["success"] = outcome.OK
	merged["billing_id"] = outcome.Reference
	merged["message"] = outcome.Detail
	if raw, err := json.Marshal(merged); err == nil {
		o.RawData = string(raw)
	}
	o.Synced = true
	o.UpdatedAt = time.Now()
}

// BillingData returns the parsed RawData document, or nil when RawData is
// empty or malformed
func (o *Order) BillingData() map[string]any {
	if o.RawData == "" {
		return nil
	}
	var data map[string]any
	if err := json.Unmarshal([]byte(o.RawData), &data); err != nil {
		return nil
	}
	return data
}

// BillingReference returns the billing system reference merged into RawData
// after a successful forward, or "" when the order was never forwarded.
func (o *Order) BillingReference() string {
	if o.RawData == "" {
		return ""
	}
	var data map[string]any
	if err := json.Unmarshal([]byte(o.RawData), &data); err != nil {
		return ""
	}
	ref, _ := data["billing_id"].(string)
	return ref
}

// PendingSync returns true while the order still needs a billing forward
func (o *Order) PendingSync() bool {
	return !o.Synced
}
