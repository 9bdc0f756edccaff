package sync

import "context"

// BillingResult is the structured outcome of forwarding one order to the
// billing system. Failure is signaled through OK=false, never through an
// error, so the orchestrator applies its partial-failure policy uniformly.
type BillingResult struct {
	// OK is true when the billing system accepted the order
	OK bool
	// Reference is the identifier assigned by the billing system
	Reference string
	// Detail is a human-readable description of the outcome
	Detail string
}

// BillingGateway defines the port interface for the external billing system.
// Implementations must not return transport failures to the caller; they
// report them as OK=false with the failure in Detail.
type BillingGateway interface {
	Forward(ctx context.Context, order *StoreOrder) BillingResult
}
