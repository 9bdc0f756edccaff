package tiendanube

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pharmasync/backend/internal/domain/sync"
)

// sandboxPages is the number of populated pages the simulator serves
const sandboxPages = 3

// sandboxStatuses cycles through the statuses the live platform emits
var sandboxStatuses = []string{"pending", "paid", "fulfilled", "cancelled", "open"}

// Sandbox is an in-memory StorePlatform used for local development and
// demos. It serves a fixed catalog of orders so runs are reproducible.
type Sandbox struct {
	baseTime time.Time
}

// NewSandbox creates a sandbox platform anchored at a fixed point in time
func NewSandbox() *Sandbox {
	return &Sandbox{
		baseTime: time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC),
	}
}

// FetchOrders serves deterministic pages: full pages up to sandboxPages,
// then an empty page so callers terminate pagination naturally
func (s *Sandbox) FetchOrders(ctx context.Context, page, perPage int, createdAfter *time.Time) ([]sync.StoreOrder, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", sync.ErrPlatformUnavailable, err)
	}
	if page < 1 || page > sandboxPages {
		return []sync.StoreOrder{}, nil
	}

	orders := make([]sync.StoreOrder, 0, perPage)
	for i := 0; i < perPage; i++ {
		seq := (page-1)*perPage + i + 1
		order := s.makeOrder(seq)
		if createdAfter != nil {
			created, _ := time.Parse(time.RFC3339, order.Billing.CreatedAt)
			if !created.After(*createdAfter) {
				continue
			}
		}
		orders = append(orders, order)
	}
	return orders, nil
}

// FetchOrder serves any order the paginated catalog would contain
func (s *Sandbox) FetchOrder(ctx context.Context, externalID string) (*sync.StoreOrder, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", sync.ErrPlatformUnavailable, err)
	}

	var seq int
	if _, err := fmt.Sscanf(externalID, "%d", &seq); err != nil || seq < 1 {
		return nil, sync.ErrOrderNotFound
	}
	order := s.makeOrder(seq)
	return &order, nil
}

// makeOrder builds the canonical sandbox order for a sequence number
func (s *Sandbox) makeOrder(seq int) sync.StoreOrder {
	created := s.baseTime.Add(time.Duration(seq) * time.Minute)
	total := decimal.NewFromInt(int64(1000 + seq*50)).Div(decimal.NewFromInt(100))

	billing := sync.BillingData{
		Customer: sync.BillingCustomer{
			ID:    int64(9000 + seq),
			Name:  fmt.Sprintf("Sandbox Customer %d", seq),
			Email: fmt.Sprintf("customer%d@example.com", seq),
			Phone: fmt.Sprintf("+54 11 4000-%04d", seq),
		},
		BillingAddress: sync.BillingAddress{
			Address: fmt.Sprintf("Av. Corrientes %d", 100+seq),
			City:    "Buenos Aires",
			Zipcode: "C1043",
		},
		ShippingAddress: sync.BillingAddress{
			Address: fmt.Sprintf("Av. Corrientes %d", 100+seq),
			City:    "Buenos Aires",
			Zipcode: "C1043",
		},
		Items: []sync.BillingItem{
			{
				ID:        int64(seq),
				Name:      fmt.Sprintf("Sandbox Product %d", seq),
				Quantity:  1 + seq%3,
				Price:     total,
				VariantID: int64(100 + seq),
			},
		},
		PaymentMethod:  map[string]any{"method": "credit_card", "installments": 1},
		ShippingMethod: "standard",
		Currency:       defaultCurrency,
		CreatedAt:      created.Format(time.RFC3339),
		UpdatedAt:      created.Format(time.RFC3339),
	}

	rawStatus := sandboxStatuses[seq%len(sandboxStatuses)]
	order := sync.StoreOrder{
		ExternalID: fmt.Sprintf("%d", seq),
		Status:     sync.MapStoreStatus(rawStatus),
		Total:      total,
		Billing:    billing,
	}
	if rawBytes, err := json.Marshal(map[string]any{
		"id":         seq,
		"status":     rawStatus,
		"total":      total.String(),
		"currency":   defaultCurrency,
		"created_at": billing.CreatedAt,
	}); err == nil {
		order.RawData = string(rawBytes)
	}
	return order
}

// Ensure Sandbox implements StorePlatform interface
var _ sync.StorePlatform = (*Sandbox)(nil)
