package platform

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shipwatch/shipwatch/pkg/apis/deployment"
)

// DefaultTake is the recent deployments window requested from the platform.
// The newest deployments for an application are expected to land in this
// page; we never paginate deeper.
const DefaultTake = 20

// APIError is a non-2xx response or transport-level failure talking to the
// deployment platform. It is fatal for the run; the locator does not retry,
// the only retry-like behavior is the next scheduled poll tick.
type APIError struct {
	// StatusCode is zero for transport failures.
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("deployment platform request failed: %s", e.Body)
	}
	return fmt.Sprintf("deployment platform returned %d: %s", e.StatusCode, e.Body)
}

// Client talks to the deployment platform REST API with bearer-token
// authorization. The fetch function is replaceable for tests.
type Client struct {
	baseURL string
	take    int

	fetchDeployments func(ctx context.Context, appID string) ([]byte, error)
}

// NewClient builds a Client for the platform at baseURL.
func NewClient(baseURL, token string, take int) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		take:    take,
	}
	if c.take <= 0 {
		c.take = DefaultTake
	}

	httpClient := &http.Client{Timeout: 30 * time.Second}

	c.fetchDeployments = func(ctx context.Context, appID string) ([]byte, error) {
		endpoint := fmt.Sprintf("%s/api/v1/deployments/applications/%s?take=%d",
			c.baseURL, url.PathEscape(appID), c.take)

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Accept", "application/json")

		resp, err := httpClient.Do(req)
		if err != nil {
			return nil, &APIError{Body: err.Error()}
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, &APIError{Body: err.Error()}
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
		}
		return body, nil
	}

	return c
}

// ListDeployments returns the recent deployments for an application,
// normalized to the canonical record.
func (c *Client) ListDeployments(ctx context.Context, appID string) ([]deployment.Deployment, error) {
	body, err := c.fetchDeployments(ctx, appID)
	if err != nil {
		return nil, err
	}
	return decodeDeployments(body), nil
}

// DeploymentLogURL returns the platform UI address for a deployment's logs.
func (c *Client) DeploymentLogURL(deploymentID string) string {
	return fmt.Sprintf("%s/deployments/%s", c.baseURL, deploymentID)
}
