package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"ipvault/internal/ipam/models"
)

// InventoryClient talks to the IP inventory service.
type InventoryClient struct {
	http *HTTPClient
}

// NewInventory constructs an inventory-service client.
func NewInventory(baseURL string, opts ...Option) *InventoryClient {
	return &InventoryClient{http: NewHTTP(baseURL, opts...)}
}

// Get fetches one entry by id, deleted ones included. A missing id returns
// (nil, nil): absence is an answer here, not a failure.
func (c *InventoryClient) Get(ctx context.Context, id int64) (*models.IPAddress, error) {
	query := url.Values{"id": []string{strconv.FormatInt(id, 10)}}
	resp, err := c.http.Do(ctx, http.MethodGet, "/ips", query, "", nil)
	if err != nil {
		return nil, fmt.Errorf("get ip address: %w", err)
	}
	if err := resp.AsError(); err != nil {
		return nil, err
	}

	var payload struct {
		Addresses []*models.IPAddress `json:"ips"`
	}
	if err := resp.Data(&payload); err != nil {
		return nil, err
	}
	if len(payload.Addresses) == 0 {
		return nil, nil
	}
	return payload.Addresses[0], nil
}

// Create forwards an add request. The reply passes through verbatim.
func (c *InventoryClient) Create(ctx context.Context, req *models.AddIPRequest) (*Response, error) {
	return c.http.Do(ctx, http.MethodPost, "/ips", nil, "", req)
}

// Update forwards a partial update. The reply passes through verbatim.
func (c *InventoryClient) Update(ctx context.Context, id int64, req *models.UpdateIPRequest) (*Response, error) {
	return c.http.Do(ctx, http.MethodPatch, "/ips/"+strconv.FormatInt(id, 10), nil, "", req)
}

// Delete forwards a logical delete. The reply passes through verbatim.
func (c *InventoryClient) Delete(ctx context.Context, id, deleterID int64) (*Response, error) {
	return c.http.Do(ctx, http.MethodDelete, "/ips/"+strconv.FormatInt(id, 10), nil, "",
		models.DeleteIPRequest{DeleterID: deleterID})
}

// List fetches one page of live entries.
func (c *InventoryClient) List(ctx context.Context, itemsPerPage, pageNumber int) (*Response, error) {
	return c.http.Do(ctx, http.MethodGet, "/ips", pageQuery(itemsPerPage, pageNumber), "", nil)
}

// AuditLog fetches one page of inventory events.
func (c *InventoryClient) AuditLog(ctx context.Context, itemsPerPage, pageNumber int) (*Response, error) {
	return c.http.Do(ctx, http.MethodGet, "/audit-log", pageQuery(itemsPerPage, pageNumber), "", nil)
}

func pageQuery(itemsPerPage, pageNumber int) url.Values {
	return url.Values{
		"items_per_page": []string{strconv.Itoa(itemsPerPage)},
		"page_number":    []string{strconv.Itoa(pageNumber)},
	}
}
