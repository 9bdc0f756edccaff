// Package billing implements the BillingGateway port.
//
// The billing system exposes no remote API yet; StaticForwarder stands in for
// it by validating the order, assigning a reference and logging the forward.
// Swapping in a real HTTP gateway later only requires another BillingGateway
// implementation.
package billing

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pharmasync/backend/internal/domain/sync"
)

// StaticForwarder accepts every well-formed order and assigns it a locally
// generated billing reference
type StaticForwarder struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewStaticForwarder creates a forwarder logging through the given logger
func NewStaticForwarder(logger *zap.Logger) *StaticForwarder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StaticForwarder{
		logger: logger,
		now:    time.Now,
	}
}

// Forward validates the order and reports the billing outcome. Transport-style
// failures never surface as errors; they come back as OK=false.
func (f *StaticForwarder) Forward(ctx context.Context, order *sync.StoreOrder) sync.BillingResult {
	if err := ctx.Err(); err != nil {
		return sync.BillingResult{OK: false, Detail: fmt.Sprintf("billing cancelled: %v", err)}
	}
	if order == nil || order.ExternalID == "" {
		return sync.BillingResult{OK: false, Detail: "order missing external ID"}
	}
	if order.Total.IsNegative() {
		return sync.BillingResult{OK: false, Detail: "order total must not be negative"}
	}

	reference := fmt.Sprintf("BILL_%s_%d", order.ExternalID, f.now().Unix())

	f.logger.Info("order forwarded to billing",
		zap.String("external_id", order.ExternalID),
		zap.String("status", order.Status.String()),
		zap.String("total", order.Total.String()),
		zap.String("currency", order.Billing.Currency),
		zap.String("billing_reference", reference),
		zap.Int("item_count", len(order.Billing.Items)),
	)

	return sync.BillingResult{
		OK:        true,
		Reference: reference,
		Detail:    "Order data prepared for billing system",
	}
}

// Ensure StaticForwarder implements BillingGateway interface
var _ sync.BillingGateway = (*StaticForwarder)(nil)
