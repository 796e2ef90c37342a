package inventory

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/assetcapture/internal/config"
	"github.com/mamadbah2/assetcapture/internal/domain/models"
)

const (
	categoriesPath = "categories"
	employeesPath  = "employees"
	assetsPath     = "assets"
)

// Client exposes the inventory service operations used by the capture agent.
type Client interface {
	ListCategories(ctx context.Context) ([]models.ReferenceItem, error)
	ListEmployees(ctx context.Context) ([]models.ReferenceItem, error)
	CreateAsset(ctx context.Context, req CreateAssetRequest) (*CreateAssetResponse, error)
}

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient *resty.Client
}

// NewClient builds an inventory API client using the provided configuration values.
func NewClient(cfg config.InventoryConfig) *APIClient {
	restyClient := resty.New()
	restyClient.
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetTimeout(cfg.Timeout)

	if cfg.Token != "" {
		restyClient.SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.Token))
	}
	if cfg.Timeout <= 0 {
		restyClient.SetTimeout(15 * time.Second)
	}

	return &APIClient{httpClient: restyClient}
}

// CreateAssetRequest carries an already serialized asset body.
type CreateAssetRequest struct {
	RequestID string
	Body      []byte
}

// CreateAssetResponse is whatever the service answered, whatever the status.
type CreateAssetResponse struct {
	StatusCode int
	Body       []byte
}

// ListCategories fetches the category lookup list.
func (c *APIClient) ListCategories(ctx context.Context) ([]models.ReferenceItem, error) {
	return c.listReference(ctx, categoriesPath)
}

// ListEmployees fetches the employee lookup list.
func (c *APIClient) ListEmployees(ctx context.Context) ([]models.ReferenceItem, error) {
	return c.listReference(ctx, employeesPath)
}

func (c *APIClient) listReference(ctx context.Context, path string) ([]models.ReferenceItem, error) {
	var items []models.ReferenceItem

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(&items).
		Get(path)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", path, err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("inventory api error: path=%s, code=%d", path, resp.StatusCode())
	}

	return items, nil
}

// CreateAsset posts the asset body. A nil error means a response was received;
// interpreting its status is left to the caller.
func (c *APIClient) CreateAsset(ctx context.Context, req CreateAssetRequest) (*CreateAssetResponse, error) {
	r := c.httpClient.R().
		SetContext(ctx).
		SetBody(req.Body)
	if req.RequestID != "" {
		r.SetHeader("X-Request-ID", req.RequestID)
	}

	resp, err := r.Post(assetsPath)
	if err != nil {
		return nil, fmt.Errorf("create asset: %w", err)
	}

	return &CreateAssetResponse{
		StatusCode: resp.StatusCode(),
		Body:       resp.Body(),
	}, nil
}
