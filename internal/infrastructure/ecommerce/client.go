package ecommerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/storefront/backend/internal/domain/integration"
	"github.com/storefront/backend/internal/domain/order"
)

// maxResponseSize is the maximum allowed response size from a remote
// storefront API (10MB)
const maxResponseSize = 10 * 1024 * 1024

// Client talks to one remote storefront's HTTP API. It serves both the
// bulk backfill read API and the outbound status mirror.
type Client struct {
	config     ClientConfig
	httpClient *http.Client
}

// NewClient creates a storefront API client
func NewClient(config ClientConfig) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// Platform returns the storefront this client talks to
func (c *Client) Platform() order.Platform {
	return c.config.Platform
}

// ListOrders returns one page of historical orders for the credential's shop
func (c *Client) ListOrders(ctx context.Context, cred integration.Credential, page int) (*integration.OrderPage, error) {
	endpoint := fmt.Sprintf("%s/api/v1/shops/%s/orders?page=%s",
		c.config.BaseURL, cred.ShopID, strconv.Itoa(page))

	var resp orderPageResponse
	if err := c.doGet(ctx, endpoint, cred.AccessToken, &resp); err != nil {
		return nil, err
	}

	result := &integration.OrderPage{
		Orders:  make([]integration.RemoteOrder, 0, len(resp.Orders)),
		HasNext: resp.HasNext,
	}
	for i := range resp.Orders {
		result.Orders = append(result.Orders, resp.Orders[i].toRemoteOrder())
	}
	return result, nil
}

// ListProducts returns one page of the shop's product catalog
func (c *Client) ListProducts(ctx context.Context, cred integration.Credential, page int) (*integration.ProductPage, error) {
	endpoint := fmt.Sprintf("%s/api/v1/shops/%s/products?page=%s",
		c.config.BaseURL, cred.ShopID, strconv.Itoa(page))

	var resp productPageResponse
	if err := c.doGet(ctx, endpoint, cred.AccessToken, &resp); err != nil {
		return nil, err
	}

	result := &integration.ProductPage{
		Products: make([]integration.RemoteProduct, 0, len(resp.Products)),
		HasNext:  resp.HasNext,
	}
	for i := range resp.Products {
		result.Products = append(result.Products, resp.Products[i].toRemoteProduct())
	}
	return result, nil
}

// PushStatus mirrors a confirmed status change to the remote storefront's
// copy of the order
func (c *Client) PushStatus(ctx context.Context, change order.StatusChange, remoteOrderID string) error {
	endpoint := fmt.Sprintf("%s/api/v1/orders/%s/status",
		c.config.BaseURL, url.PathEscape(remoteOrderID))

	payload := statusPushRequest{
		EventID:    change.EventID.String(),
		FromStatus: change.FromStatus.String(),
		Status:     change.ToStatus.String(),
		OccurredAt: change.OccurredAt,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("ecommerce: failed to encode status push: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("ecommerce: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.config.ServiceToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.ServiceToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", integration.ErrStorefrontRequestFailed, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseSize))

	if resp.StatusCode >= 400 {
		return fmt.Errorf("%w: HTTP %d", integration.ErrStorefrontRequestFailed, resp.StatusCode)
	}
	return nil
}

// doGet performs an authenticated GET against the storefront API
func (c *Client) doGet(ctx context.Context, endpoint, accessToken string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("ecommerce: failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", integration.ErrStorefrontRequestFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("ecommerce: failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("%w: HTTP %d", integration.ErrStorefrontRequestFailed, resp.StatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %v", integration.ErrStorefrontInvalidResponse, err)
	}
	return nil
}

// Ensure Client serves both the backfill read port and the relay port
var _ integration.RemoteStorefront = (*Client)(nil)
