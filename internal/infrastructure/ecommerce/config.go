package ecommerce

import (
	"errors"
	"time"

	"github.com/storefront/backend/internal/domain/order"
)

// Configuration errors
var (
	ErrConfigMissingBaseURL  = errors.New("ecommerce: base URL is required")
	ErrConfigInvalidPlatform = errors.New("ecommerce: unknown platform")
)

// defaultTimeout bounds a single remote API call
const defaultTimeout = 15 * time.Second

// ClientConfig holds the connection settings for one remote storefront.
type ClientConfig struct {
	Platform order.Platform
	BaseURL  string
	Timeout  time.Duration

	// ServiceToken authenticates outbound status pushes. Read API calls
	// authenticate with the per-shop credential instead.
	ServiceToken string
}

// Validate checks the configuration
func (c *ClientConfig) Validate() error {
	if !c.Platform.IsValid() {
		return ErrConfigInvalidPlatform
	}
	if c.BaseURL == "" {
		return ErrConfigMissingBaseURL
	}
	return nil
}
