package activecampaign

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/enshittification/inevitable-newspack-newsletters-backup/internal/esp"
	"github.com/enshittification/inevitable-newspack-newsletters-backup/internal/pkg/httpretry"
)

// Config holds ActiveCampaign API credentials.
type Config struct {
	// BaseURL is the account endpoint, e.g. https://youraccount.api-us1.com
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client is the ActiveCampaign API v3 client. It implements esp.Provider.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient httpretry.HTTPDoer
}

// NewClient creates a new ActiveCampaign API client.
func NewClient(config Config) *Client {
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL: config.BaseURL,
		apiKey:  config.APIKey,
		httpClient: httpretry.NewRetryClient(&http.Client{
			Timeout: timeout,
		}, 3),
	}
}

// SetHTTPClient sets a custom HTTP client (useful for testing).
func (c *Client) SetHTTPClient(client httpretry.HTTPDoer) {
	c.httpClient = client
}

// Name returns the provider name used in configuration and the registry.
func (c *Client) Name() string { return "active_campaign" }

// doRequest performs an authenticated GET against the API v3 surface.
func (c *Client) doRequest(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	reqURL := fmt.Sprintf("%s/api/3/%s", c.baseURL, endpoint)
	if len(params) > 0 {
		reqURL = reqURL + "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Api-Token", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	return respBody, nil
}

// ListContacts retrieves one page of contacts matching the query.
// The meta.total count in the response drives pagination upstream.
func (c *Client) ListContacts(ctx context.Context, q esp.ContactQuery) (*esp.ContactPage, error) {
	params := url.Values{}
	params.Set("status", statusCode(q.Status))
	params.Set("offset", strconv.Itoa(q.Offset))
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.CreatedAfter != nil {
		// The API filters server-side on creation date only; there is no
		// unsubscribed-after filter.
		params.Set("filters[created_after]", q.CreatedAfter.UTC().Format("2006-01-02"))
	}

	respBody, err := c.doRequest(ctx, "contacts", params)
	if err != nil {
		return nil, err
	}

	var response contactListResponse
	if err := json.Unmarshal(respBody, &response); err != nil {
		return nil, fmt.Errorf("failed to parse contacts response: %w", err)
	}

	page := &esp.ContactPage{
		Total:    parseCount(response.Meta.Total),
		Contacts: make([]esp.Contact, 0, len(response.Contacts)),
	}
	for _, contact := range response.Contacts {
		page.Contacts = append(page.Contacts, contact.toContact(q.Status))
	}
	return page, nil
}

// ListCampaigns retrieves up to limit campaigns ordered by send date
// descending.
func (c *Client) ListCampaigns(ctx context.Context, limit int) ([]esp.Campaign, error) {
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	params.Set("orders[sdate]", "DESC")

	respBody, err := c.doRequest(ctx, "campaigns", params)
	if err != nil {
		return nil, err
	}

	var response campaignListResponse
	if err := json.Unmarshal(respBody, &response); err != nil {
		return nil, fmt.Errorf("failed to parse campaigns response: %w", err)
	}

	campaigns := make([]esp.Campaign, 0, len(response.Campaigns))
	for _, campaign := range response.Campaigns {
		campaigns = append(campaigns, campaign.toCampaign())
	}
	return campaigns, nil
}

// HealthCheck performs a minimal authenticated API call.
func (c *Client) HealthCheck(ctx context.Context) error {
	_, err := c.ListCampaigns(ctx, 1)
	return err
}
