package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Client talks to the platform management REST API for one tenant.
type Client struct {
	baseURL    string
	tenant     string
	token      string
	httpClient *http.Client
}

// NewClient creates a platform API client.
func NewClient(baseURL, tenant, token string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		tenant:     tenant,
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("X-Tenant-ID", c.tenant)
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// get issues a read request and decodes the response body into out.
func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return responseError(resp)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// mutate issues a write request and maps the response onto the closed
// outcome set. The error return carries the raw rejection payload for
// non-success outcomes and transport failures.
func (c *Client) mutate(ctx context.Context, method, path string, body, out any) (Outcome, error) {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return OutcomeUnknown, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return OutcomeUnknown, err
	}
	defer resp.Body.Close()

	outcome := OutcomeFromStatus(resp.StatusCode)
	if outcome != OutcomeSuccess {
		return outcome, responseError(resp)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return OutcomeUnknown, fmt.Errorf("decode response body: %w", err)
		}
	}
	return OutcomeSuccess, nil
}

func responseError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	text := strings.TrimSpace(string(body))
	if text == "" {
		return fmt.Errorf("platform returned %s", resp.Status)
	}
	return fmt.Errorf("platform returned %s: %s", resp.Status, text)
}

// ListDevices fetches the tenant's full device inventory.
func (c *Client) ListDevices(ctx context.Context) ([]Device, error) {
	var devices []Device
	if err := c.get(ctx, "/v1/devices", &devices); err != nil {
		return nil, err
	}
	return devices, nil
}

// ListServices fetches the service instances provisioned into a region.
func (c *Client) ListServices(ctx context.Context, region string) ([]Service, error) {
	var services []Service
	path := "/v1/services"
	if region != "" {
		path += "?region=" + url.QueryEscape(region)
	}
	if err := c.get(ctx, path, &services); err != nil {
		return nil, err
	}
	return services, nil
}

// ListLocations fetches the tenant's registered sites.
func (c *Client) ListLocations(ctx context.Context) ([]Location, error) {
	var locations []Location
	if err := c.get(ctx, "/v1/locations", &locations); err != nil {
		return nil, err
	}
	return locations, nil
}

// ListCredentials fetches the tenant's issued API credentials. Secrets are
// never included in list responses.
func (c *Client) ListCredentials(ctx context.Context) ([]Credential, error) {
	var credentials []Credential
	if err := c.get(ctx, "/v1/credentials", &credentials); err != nil {
		return nil, err
	}
	return credentials, nil
}

// ListWebhooks fetches the tenant's registered webhooks.
func (c *Client) ListWebhooks(ctx context.Context) ([]Webhook, error) {
	var webhooks []Webhook
	if err := c.get(ctx, "/v1/webhooks", &webhooks); err != nil {
		return nil, err
	}
	return webhooks, nil
}

// AssignDevices attaches all listed serials to one service in a single
// batched call. The platform applies the batch as a unit and reports one
// outcome for the whole request.
func (c *Client) AssignDevices(ctx context.Context, serials []string, serviceID string) (Outcome, error) {
	body := map[string]any{"serials": serials, "service_id": serviceID}
	return c.mutate(ctx, http.MethodPost, "/v1/devices/assign", body, nil)
}

// UnassignDevices detaches all listed serials from one service in a single
// batched call.
func (c *Client) UnassignDevices(ctx context.Context, serials []string, serviceID string) (Outcome, error) {
	body := map[string]any{"serials": serials, "service_id": serviceID}
	return c.mutate(ctx, http.MethodPost, "/v1/devices/unassign", body, nil)
}

// AssignLocation moves all listed serials to one site in a single batched
// call.
func (c *Client) AssignLocation(ctx context.Context, serials []string, locationID string) (Outcome, error) {
	body := map[string]any{"serials": serials, "location_id": locationID}
	return c.mutate(ctx, http.MethodPost, "/v1/devices/location", body, nil)
}

// ProvisionService requests asynchronous provisioning of a service into a
// region. A success outcome means the request was accepted, not that the
// service is ready; callers poll the service state for completion.
func (c *Client) ProvisionService(ctx context.Context, name, region string) (Outcome, error) {
	body := map[string]any{"name": name, "region": region}
	return c.mutate(ctx, http.MethodPost, "/v1/services", body, nil)
}

// CreateCredential issues a new API credential bound to a service. The
// returned credential carries the secret exactly once.
func (c *Client) CreateCredential(ctx context.Context, name, serviceID string) (Credential, Outcome, error) {
	body := map[string]any{"name": name, "service_id": serviceID}
	var cred Credential
	outcome, err := c.mutate(ctx, http.MethodPost, "/v1/credentials", body, &cred)
	return cred, outcome, err
}

// CreateWebhook registers a new event delivery target.
func (c *Client) CreateWebhook(ctx context.Context, name, target string, events []string) (Outcome, error) {
	body := map[string]any{"name": name, "url": target, "events": events}
	return c.mutate(ctx, http.MethodPost, "/v1/webhooks", body, nil)
}

// DeleteWebhooks removes all listed webhooks in a single batched call.
func (c *Client) DeleteWebhooks(ctx context.Context, ids []string) (Outcome, error) {
	body := map[string]any{"ids": ids}
	return c.mutate(ctx, http.MethodPost, "/v1/webhooks/delete", body, nil)
}
