package cloudflare

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

const baseURL = "https://api.cloudflare.com/client/v4"

// autoTTL lets Cloudflare pick the TTL.
const autoTTL = 1

// ErrZoneNotFound is returned by GetZoneID when the account has no zone for the domain.
var ErrZoneNotFound = errors.New("zone not found")

// ZoneManager manages the zone and records of a site.
type ZoneManager interface {
	GetZoneID(ctx context.Context, domain string) (string, error)
	CreateZone(ctx context.Context, domain string) (string, error)
	// GetOrCreateZone returns the existing zone for domain or creates it.
	GetOrCreateZone(ctx context.Context, domain string) (string, error)
	CreateDNSRecord(ctx context.Context, zoneID string, record RecordInput) (*Record, error)
}

// Client is a minimal Cloudflare API client for zone and DNS record management.
type Client struct {
	apiToken   string
	accountID  string
	httpClient *http.Client
}

var _ ZoneManager = (*Client)(nil)

// Record represents a Cloudflare DNS record.
type Record struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Name    string `json:"name"`
	Content string `json:"content"`
	Proxied bool   `json:"proxied"`
}

// RecordInput describes a record to create. Priority is sent for MX records
// only and Proxied only when set.
type RecordInput struct {
	Type     string
	Name     string
	Content  string
	Proxied  *bool
	Priority *int
}

type createRecordRequest struct {
	Type     string `json:"type"`
	Name     string `json:"name"`
	Content  string `json:"content"`
	TTL      int    `json:"ttl"`
	Proxied  *bool  `json:"proxied,omitempty"`
	Priority *int   `json:"priority,omitempty"`
}

type createZoneRequest struct {
	Name    string      `json:"name"`
	Account accountInfo `json:"account"`
}

type accountInfo struct {
	ID string `json:"id"`
}

type apiResponse struct {
	Success bool            `json:"success"`
	Errors  []apiError      `json:"errors"`
	Result  json.RawMessage `json:"result"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type zoneResult struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// NewClient creates a new Cloudflare API client. accountID is only needed to
// create zones.
func NewClient(apiToken, accountID string) *Client {
	return &Client{
		apiToken:   apiToken,
		accountID:  accountID,
		httpClient: &http.Client{},
	}
}

// GetZoneID returns the zone ID for the given domain.
func (c *Client) GetZoneID(ctx context.Context, domain string) (string, error) {
	var resp apiResponse
	if err := c.call(ctx, http.MethodGet, "/zones?name="+url.QueryEscape(domain), nil, &resp); err != nil {
		return "", fmt.Errorf("get zone ID: %w", err)
	}

	var zones []zoneResult
	if err := json.Unmarshal(resp.Result, &zones); err != nil {
		return "", fmt.Errorf("parse zones: %w", err)
	}

	if len(zones) == 0 {
		return "", fmt.Errorf("%w for domain %s", ErrZoneNotFound, domain)
	}

	return zones[0].ID, nil
}

// CreateZone adds domain as a new zone of the account.
func (c *Client) CreateZone(ctx context.Context, domain string) (string, error) {
	if c.accountID == "" {
		return "", fmt.Errorf("create zone %s: no account ID configured", domain)
	}

	body, err := json.Marshal(createZoneRequest{Name: domain, Account: accountInfo{ID: c.accountID}})
	if err != nil {
		return "", fmt.Errorf("encode zone: %w", err)
	}

	var resp apiResponse
	if err := c.call(ctx, http.MethodPost, "/zones", body, &resp); err != nil {
		return "", fmt.Errorf("create zone %s: %w", domain, err)
	}

	var zone zoneResult
	if err := json.Unmarshal(resp.Result, &zone); err != nil {
		return "", fmt.Errorf("parse zone: %w", err)
	}
	if zone.ID == "" {
		return "", fmt.Errorf("create zone %s: response carried no zone ID", domain)
	}

	return zone.ID, nil
}

// GetOrCreateZone looks the zone up first and only creates it when absent.
func (c *Client) GetOrCreateZone(ctx context.Context, domain string) (string, error) {
	id, err := c.GetZoneID(ctx, domain)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, ErrZoneNotFound) {
		return "", err
	}
	return c.CreateZone(ctx, domain)
}

// CreateDNSRecord creates a single record in the zone.
func (c *Client) CreateDNSRecord(ctx context.Context, zoneID string, record RecordInput) (*Record, error) {
	payload := createRecordRequest{
		Type:    record.Type,
		Name:    record.Name,
		Content: record.Content,
		TTL:     autoTTL,
		Proxied: record.Proxied,
	}
	if record.Type == "MX" {
		payload.Priority = record.Priority
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}

	var resp apiResponse
	if err := c.call(ctx, http.MethodPost, fmt.Sprintf("/zones/%s/dns_records", zoneID), body, &resp); err != nil {
		return nil, fmt.Errorf("create %s record %s: %w", record.Type, record.Name, err)
	}

	var created Record
	if err := json.Unmarshal(resp.Result, &created); err != nil {
		return nil, fmt.Errorf("parse record: %w", err)
	}

	return &created, nil
}

// call sends one API request. Failures are returned as-is and never retried.
func (c *Client) call(ctx context.Context, method, path string, body []byte, out *apiResponse) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiToken)
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out *apiResponse) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse response: %w (status %d)", err, resp.StatusCode)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !out.Success {
		return fmt.Errorf("API error (status %d): %s", resp.StatusCode, describeErrors(out.Errors))
	}

	return nil
}

func describeErrors(errs []apiError) string {
	if len(errs) == 0 {
		return "request unsuccessful"
	}
	msg := ""
	for i, e := range errs {
		if i > 0 {
			msg += "; "
		}
		msg += fmt.Sprintf("%d: %s", e.Code, e.Message)
	}
	return msg
}
