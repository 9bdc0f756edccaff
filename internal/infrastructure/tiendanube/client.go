package tiendanube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pharmasync/backend/internal/domain/sync"
)

// maxResponseSize is the maximum allowed response size from the Tienda Nube API (10MB)
const maxResponseSize = 10 * 1024 * 1024

// defaultCurrency is assumed when the platform omits the currency field
const defaultCurrency = "ARS"

// Client implements the StorePlatform port against the Tienda Nube REST API
type Client struct {
	config     *Config
	httpClient *http.Client
}

// NewClient creates a new Tienda Nube client with the given configuration
func NewClient(config *Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: time.Duration(config.ConnectTimeoutSeconds) * time.Second,
				}).DialContext,
			},
		},
	}, nil
}

// ---------------------------------------------------------------------------
// Order Operations
// ---------------------------------------------------------------------------

// FetchOrders retrieves one page of orders, optionally filtered by creation time
func (c *Client) FetchOrders(ctx context.Context, page, perPage int, createdAfter *time.Time) ([]sync.StoreOrder, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(perPage))
	if createdAfter != nil {
		params.Set("created_at_min", createdAfter.UTC().Format(time.RFC3339))
	}

	body, err := c.doRequest(ctx, "/orders", params, false)
	if err != nil {
		return nil, err
	}

	payloads, err := decodeOrderList(body)
	if err != nil {
		return nil, err
	}

	orders := make([]sync.StoreOrder, 0, len(payloads))
	for i := range payloads {
		orders = append(orders, convertPayload(&payloads[i]))
	}
	return orders, nil
}

// FetchOrder retrieves a single order by its platform identifier
func (c *Client) FetchOrder(ctx context.Context, externalID string) (*sync.StoreOrder, error) {
	if externalID == "" {
		return nil, sync.ErrOrderNotFound
	}

	body, err := c.doRequest(ctx, "/orders/"+url.PathEscape(externalID), nil, true)
	if err != nil {
		return nil, err
	}

	var payload StoreOrderPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: failed to parse order response: %v", sync.ErrPlatformInvalidResponse, err)
	}
	if payload.ID.String() == "" {
		return nil, fmt.Errorf("%w: order payload missing id", sync.ErrPlatformInvalidResponse)
	}

	order := convertPayload(&payload)
	return &order, nil
}

// ---------------------------------------------------------------------------
// Internal Helpers
// ---------------------------------------------------------------------------

// doRequest performs a GET against the store-scoped API and classifies
// failures. singleOrder marks requests for one order, where a 404 means the
// order does not exist rather than a broken request.
func (c *Client) doRequest(ctx context.Context, path string, params url.Values, singleOrder bool) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/%s%s", strings.TrimRight(c.config.APIBaseURL, "/"), c.config.StoreID, path)
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("tiendanube: failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.config.AccessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.config.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return nil, fmt.Errorf("%w: %v", sync.ErrPlatformTimeout, err)
		}
		return nil, fmt.Errorf("%w: %v", sync.ErrPlatformUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("tiendanube: failed to read response: %w", err)
	}

	if err := classifyStatus(resp.StatusCode, body, singleOrder); err != nil {
		return nil, err
	}
	return body, nil
}

// classifyStatus maps an HTTP status to the platform error taxonomy. A 404 is
// a missing order only on the single-order endpoint; on the list endpoint
// (e.g. a mistyped store ID) it falls through to the request-failed catch-all.
func classifyStatus(status int, body []byte, singleOrder bool) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusUnauthorized:
		return sync.ErrPlatformAuthFailed
	case status == http.StatusNotFound && singleOrder:
		return sync.ErrOrderNotFound
	case status == http.StatusTooManyRequests:
		return sync.ErrPlatformRateLimited
	case status >= 500:
		return fmt.Errorf("%w: HTTP %d", sync.ErrPlatformServerError, status)
	default:
		return fmt.Errorf("%w: HTTP %d: %s", sync.ErrPlatformRequestFailed, status, truncateBody(body))
	}
}

// decodeOrderList parses a list response, accepting both the enveloped form
// ({"data": [...]}) and a bare JSON array
func decodeOrderList(body []byte) ([]StoreOrderPayload, error) {
	trimmed := strings.TrimSpace(string(body))
	if strings.HasPrefix(trimmed, "[") {
		var payloads []StoreOrderPayload
		if err := json.Unmarshal(body, &payloads); err != nil {
			return nil, fmt.Errorf("%w: failed to parse orders response: %v", sync.ErrPlatformInvalidResponse, err)
		}
		return payloads, nil
	}

	var resp OrderListResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: failed to parse orders response: %v", sync.ErrPlatformInvalidResponse, err)
	}
	return resp.Data, nil
}

// convertPayload maps a wire payload to the domain value object
func convertPayload(p *StoreOrderPayload) sync.StoreOrder {
	currency := p.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	billing := sync.BillingData{
		ShippingMethod: p.ShippingMethod,
		Currency:       currency,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
		PaymentMethod:  p.PaymentDetails,
		Items:          make([]sync.BillingItem, 0, len(p.Products)),
	}

	if p.Customer != nil {
		billing.Customer = sync.BillingCustomer{
			ID:    p.Customer.ID,
			Name:  p.Customer.Name,
			Email: p.Customer.Email,
			Phone: p.Customer.Phone,
		}
	}
	if p.BillingAddress != nil {
		billing.BillingAddress = sync.BillingAddress{
			Address: p.BillingAddress.Address,
			City:    p.BillingAddress.City,
			Zipcode: p.BillingAddress.Zipcode,
		}
	}
	if p.ShippingAddr != nil {
		billing.ShippingAddress = sync.BillingAddress{
			Address: p.ShippingAddr.Address,
			City:    p.ShippingAddr.City,
			Zipcode: p.ShippingAddr.Zipcode,
		}
	}
	for _, item := range p.Products {
		billing.Items = append(billing.Items, sync.BillingItem{
			ID:        item.ID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			Price:     ParseDecimal(item.Price),
			VariantID: item.VariantID,
		})
	}

	order := sync.StoreOrder{
		ExternalID: p.ID.String(),
		Status:     sync.MapStoreStatus(p.Status),
		Total:      ParseDecimal(p.Total),
		Billing:    billing,
	}

	if rawBytes, err := json.Marshal(p); err == nil {
		order.RawData = string(rawBytes)
	}

	return order
}

// truncateBody limits error detail to a readable excerpt
func truncateBody(body []byte) string {
	const limit = 256
	s := strings.TrimSpace(string(body))
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}

// Ensure Client implements StorePlatform interface
var _ sync.StorePlatform = (*Client)(nil)
