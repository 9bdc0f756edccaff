package tiendanube

import "errors"

// Config holds configuration for the Tienda Nube API integration.
// Credentials are passed explicitly at construction; there is no ambient
// lookup. Missing credentials fail fast, before any sync run starts.
type Config struct {
	// StoreID is the numeric store identifier in the API path
	StoreID string
	// AccessToken is the bearer token issued for the store
	AccessToken string
	// APIBaseURL is the base URL for the Tienda Nube API
	APIBaseURL string
	// UserAgent identifies this integration to the platform
	UserAgent string
	// TimeoutSeconds is the per-request read timeout
	TimeoutSeconds int
	// ConnectTimeoutSeconds bounds connection establishment
	ConnectTimeoutSeconds int
}

const (
	// ProductionAPIURL is the production API endpoint
	ProductionAPIURL = "https://api.tiendanube.com/v1"
	// DefaultUserAgent is sent when no custom user agent is configured
	DefaultUserAgent = "PharmaSync/1.0 (pharma@freelo.com)"
)

// Errors for Tienda Nube configuration
var (
	ErrConfigMissingStoreID     = errors.New("tiendanube: store ID is required")
	ErrConfigMissingAccessToken = errors.New("tiendanube: access token is required")
)

// NewConfig creates a new Tienda Nube configuration with defaults
func NewConfig(storeID, accessToken string) *Config {
	return &Config{
		StoreID:               storeID,
		AccessToken:           accessToken,
		APIBaseURL:            ProductionAPIURL,
		UserAgent:             DefaultUserAgent,
		TimeoutSeconds:        30,
		ConnectTimeoutSeconds: 10,
	}
}

// Validate validates the configuration and fills in defaults
func (c *Config) Validate() error {
	if c.StoreID == "" {
		return ErrConfigMissingStoreID
	}
	if c.AccessToken == "" {
		return ErrConfigMissingAccessToken
	}
	if c.APIBaseURL == "" {
		c.APIBaseURL = ProductionAPIURL
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	if c.ConnectTimeoutSeconds <= 0 {
		c.ConnectTimeoutSeconds = 10
	}
	return nil
}
