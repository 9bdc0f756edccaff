package tiendanube

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Tienda Nube API Wire Types
// ---------------------------------------------------------------------------

// OrderListResponse is the response for GET /{store_id}/orders
type OrderListResponse struct {
	Data       []StoreOrderPayload `json:"data"`
	Pagination *Pagination         `json:"pagination,omitempty"`
}

// Pagination describes the page window of a list response
type Pagination struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
	Total   int `json:"total"`
}

// StoreOrderPayload represents one order as the platform returns it
type StoreOrderPayload struct {
	ID             json.Number        `json:"id"`
	Status         string             `json:"status"`
	Total          json.Number        `json:"total"`
	Currency       string             `json:"currency,omitempty"`
	Customer       *CustomerPayload   `json:"customer,omitempty"`
	BillingAddress *AddressPayload    `json:"billing_address,omitempty"`
	ShippingAddr   *AddressPayload    `json:"shipping_address,omitempty"`
	Products       []ProductPayload   `json:"products,omitempty"`
	PaymentDetails map[string]any     `json:"payment_details,omitempty"`
	ShippingMethod string             `json:"shipping_method,omitempty"`
	CreatedAt      string             `json:"created_at,omitempty"`
	UpdatedAt      string             `json:"updated_at,omitempty"`
}

// CustomerPayload is the buyer block of an order payload
type CustomerPayload struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// AddressPayload is a billing or shipping address block
type AddressPayload struct {
	Address string `json:"address"`
	City    string `json:"city"`
	Zipcode string `json:"zipcode"`
}

// ProductPayload is one line item of an order payload
type ProductPayload struct {
	ID        int64       `json:"id"`
	Name      string      `json:"name"`
	Quantity  int         `json:"quantity"`
	Price     json.Number `json:"price"`
	VariantID int64       `json:"variant_id,omitempty"`
}

// ParseDecimal converts a JSON number (the platform sends both quoted and
// bare numerics) into a decimal, defaulting to zero on garbage.
func ParseDecimal(n json.Number) decimal.Decimal {
	if n == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(n.String())
	if err != nil {
		return decimal.Zero
	}
	return d
}
