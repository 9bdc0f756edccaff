package sync

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Status Mapping Tests
// ---------------------------------------------------------------------------

func TestMapStoreStatus(t *testing.T) {
	tests := []struct {
		storeStatus string
		want        OrderStatus
	}{
		{"pending", OrderStatusPending},
		{"open", OrderStatusPending},
		{"paid", OrderStatusPaid},
		{"cancelled", OrderStatusCancelled},
		{"fulfilled", OrderStatusCompleted},
		{"packed", OrderStatusUnknown},
		{"", OrderStatusUnknown},
		{"PAID", OrderStatusUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.storeStatus, func(t *testing.T) {
			got := MapStoreStatus(tt.storeStatus)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.IsValid())
		})
	}
}

func TestOrderStatus_IsValid(t *testing.T) {
	for _, s := range []OrderStatus{
		OrderStatusPending, OrderStatusPaid, OrderStatusCancelled,
		OrderStatusCompleted, OrderStatusUnknown,
	} {
		assert.True(t, s.IsValid())
	}
	assert.False(t, OrderStatus("shipped").IsValid())
	assert.False(t, OrderStatus("").IsValid())
}

// ---------------------------------------------------------------------------
// Order Entity Tests
// ---------------------------------------------------------------------------

func storeOrderFixture() *StoreOrder {
	return &StoreOrder{
		ExternalID: "1001",
		Status:     OrderStatusPaid,
		Total:      decimal.NewFromFloat(149.90),
		RawData:    `{"id":1001,"status":"paid","total":"149.90"}`,
	}
}

func TestNewOrder(t *testing.T) {
	t.Run("valid store order", func(t *testing.T) {
		order, err := NewOrder(storeOrderFixture())
		require.NoError(t, err)
		assert.Equal(t, "1001", order.ExternalID)
		assert.Equal(t, OrderStatusPaid, order.Status)
		assert.True(t, order.Total.Equal(decimal.NewFromFloat(149.90)))
		assert.False(t, order.Synced)
		assert.True(t, order.PendingSync())
		assert.NotEqual(t, order.ID.String(), "00000000-0000-0000-0000-000000000000")
	})

	t.Run("missing external ID", func(t *testing.T) {
		so := storeOrderFixture()
		so.ExternalID = ""
		order, err := NewOrder(so)
		assert.Nil(t, order)
		assert.ErrorIs(t, err, ErrOrderMissingExternalID)
	})

	t.Run("negative total", func(t *testing.T) {
		so := storeOrderFixture()
		so.Total = decimal.NewFromInt(-1)
		order, err := NewOrder(so)
		assert.Nil(t, order)
		assert.ErrorIs(t, err, ErrOrderNegativeTotal)
	})
}

func TestOrder_ApplyStoreOrder(t *testing.T) {
	order, err := NewOrder(storeOrderFixture())
	require.NoError(t, err)

	t.Run("refreshes mutable fields", func(t *testing.T) {
		updated := storeOrderFixture()
		updated.Status = OrderStatusCompleted
		updated.Total = decimal.NewFromInt(200)
		updated.RawData = `{"id":1001,"status":"fulfilled"}`

		require.NoError(t, order.ApplyStoreOrder(updated))
		assert.Equal(t, OrderStatusCompleted, order.Status)
		assert.True(t, order.Total.Equal(decimal.NewFromInt(200)))
		assert.Equal(t, `{"id":1001,"status":"fulfilled"}`, order.RawData)
		// External ID never changes
		assert.Equal(t, "1001", order.ExternalID)
	})

	t.Run("clears the synced flag", func(t *testing.T) {
		resynced, err := NewOrder(storeOrderFixture())
		require.NoError(t, err)
		resynced.MarkSynced(BillingResult{OK: true, Reference: "BILL_1001_1700000000", Detail: "accepted"})

		require.NoError(t, resynced.ApplyStoreOrder(storeOrderFixture()))
		assert.True(t, resynced.PendingSync())
	})

	t.Run("rejects negative total", func(t *testing.T) {
		updated := storeOrderFixture()
		updated.Total = decimal.NewFromInt(-5)
		assert.ErrorIs(t, order.ApplyStoreOrder(updated), ErrOrderNegativeTotal)
	})
}

func TestOrder_MarkSynced(t *testing.T) {
	t.Run("merges billing outcome into raw data", func(t *testing.T) {
		order, err := NewOrder(storeOrderFixture())
		require.NoError(t, err)

		order.MarkSynced(BillingResult{OK: true, Reference: "BILL_1001_1700000000", Detail: "accepted"})

		assert.True(t, order.Synced)
		assert.False(t, order.PendingSync())
		assert.Equal(t, "BILL_1001_1700000000", order.BillingReference())

		var merged map[string]any
		require.NoError(t, json.Unmarshal([]byte(order.RawData), &merged))
		// Original payload fields survive the merge
		assert.Equal(t, "paid", merged["status"])
		assert.Equal(t, true, merged["success"])
		assert.Equal(t, "accepted", merged["message"])
	})

	t.Run("unparseable raw data keeps the outcome", func(t *testing.T) {
		order, err := NewOrder(storeOrderFixture())
		require.NoError(t, err)
		order.RawData = "not json at all"

		order.MarkSynced(BillingResult{OK: true, Reference: "BILL_1001_1", Detail: "accepted"})
		assert.Equal(t, "BILL_1001_1", order.BillingReference())
	})
}

func TestOrder_BillingReference(t *testing.T) {
	order, err := NewOrder(storeOrderFixture())
	require.NoError(t, err)
	assert.Empty(t, order.BillingReference())

	order.RawData = ""
	assert.Empty(t, order.BillingReference())
}

func TestOrder_BillingData(t *testing.T) {
	order, err := NewOrder(storeOrderFixture())
	require.NoError(t, err)

	order.RawData = ""
	assert.Nil(t, order.BillingData())

	order.RawData = "not json"
	assert.Nil(t, order.BillingData())

	order.MarkSynced(BillingResult{OK: true, Reference: "BILL_1001_1", Detail: "accepted"})
	data := order.BillingData()
	require.NotNil(t, data)
	assert.Equal(t, "BILL_1001_1", data["billing_id"])
	assert.Equal(t, true, data["success"])
}
