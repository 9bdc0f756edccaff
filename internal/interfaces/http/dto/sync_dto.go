package dto

import (
	"time"

	"github.com/pharmasync/backend/internal/domain/sync"
)

// ---------------------------------------------------------------------------
// Sync Requests
// ---------------------------------------------------------------------------

// FullSyncRequest triggers a full sync, optionally bounded by a start date
type FullSyncRequest struct {
	// Since restricts the sync to orders created after this instant (RFC3339).
	// Omitted or empty means the store's entire order history.
	Since string `json:"since" binding:"omitempty"`
}

// ParseSince parses the optional since field
func (r *FullSyncRequest) ParseSince() (*time.Time, error) {
	if r.Since == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, r.Since)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ---------------------------------------------------------------------------
// Sync Responses
// ---------------------------------------------------------------------------

// SyncRunResponse is the API representation of a completed run result
type SyncRunResponse struct {
	LogID           string `json:"log_id"`
	Processed       int    `json:"processed"`
	Synced          int    `json:"synced"`
	ErrorCount      int    `json:"error_count"`
	DurationSeconds int    `json:"duration_seconds"`
}

// NewSyncRunResponse builds the response from a domain run result
func NewSyncRunResponse(r *sync.RunResult) SyncRunResponse {
	return SyncRunResponse{
		LogID:           r.LogID.String(),
		Processed:       r.Processed,
		Synced:          r.Synced,
		ErrorCount:      r.ErrorCount,
		DurationSeconds: r.DurationSeconds,
	}
}

// SingleSyncResponse is the API representation of a single-order sync outcome
type SingleSyncResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// SyncStatusResponse describes one recorded sync run
type SyncStatusResponse struct {
	ID              string  `json:"id"`
	Type            string  `json:"type"`
	Status          string  `json:"status"`
	OrdersProcessed int     `json:"orders_processed"`
	OrdersSynced    int     `json:"orders_synced"`
	SuccessRate     float64 `json:"success_rate"`
	ErrorDetails    string  `json:"error_details,omitempty"`
	StartedAt       *string `json:"started_at,omitempty"`
	CompletedAt     *string `json:"completed_at,omitempty"`
	DurationSeconds int     `json:"duration_seconds"`
}

// NewSyncStatusResponse builds the response from a domain run
func NewSyncStatusResponse(run *sync.SyncRun) SyncStatusResponse {
	resp := SyncStatusResponse{
		ID:              run.ID.String(),
		Type:            run.Type.String(),
		Status:          run.Status.String(),
		OrdersProcessed: run.OrdersProcessed,
		OrdersSynced:    run.OrdersSynced,
		SuccessRate:     run.SuccessRate(),
		ErrorDetails:    run.ErrorDetails,
		DurationSeconds: run.DurationSeconds(),
	}
	if run.StartedAt != nil {
		s := run.StartedAt.UTC().Format(time.RFC3339)
		resp.StartedAt = &s
	}
	if run.CompletedAt != nil {
		s := run.CompletedAt.UTC().Format(time.RFC3339)
		resp.CompletedAt = &s
	}
	return resp
}

// ---------------------------------------------------------------------------
// Order Responses
// ---------------------------------------------------------------------------

// OrderListRequest filters the local order listing
type OrderListRequest struct {
	ListRequest
	Status string `form:"status" binding:"omitempty,oneof=pending paid cancelled completed unknown"`
	Synced *bool  `form:"synced" binding:"omitempty"`
}

// OrderResponse is the API representation of a local order
type OrderResponse struct {
	ID               string `json:"id"`
	ExternalID       string `json:"external_id"`
	Status           string `json:"status"`
	Total            string `json:"total"`
	Synced           bool   `json:"synced"`
	BillingReference string `json:"billing_reference,omitempty"`
	CreatedAt        string `json:"created_at"`
	UpdatedAt        string `json:"updated_at"`
}

// NewOrderResponse builds the response from a domain order
func NewOrderResponse(o *sync.Order) OrderResponse {
	return OrderResponse{
		ID:               o.ID.String(),
		ExternalID:       o.ExternalID,
		Status:           o.Status.String(),
		Total:            o.Total.StringFixed(2),
		Synced:           o.Synced,
		BillingReference: o.BillingReference(),
		CreatedAt:        o.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:        o.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// NewOrderListResponse builds responses for a list of domain orders
func NewOrderListResponse(orders []sync.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, NewOrderResponse(&orders[i]))
	}
	return out
}
