package platform

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientListDeployments(t *testing.T) {
	// two deployments using the two field namings the platform has shipped
	body := `{
		"deployments": [
			{
				"deployment_uuid": "dep-1",
				"commit": "abc123",
				"status": "in_progress",
				"created_at": "2024-05-01T10:00:00Z"
			},
			{
				"uuid": "dep-2",
				"git_commit_sha": "def456",
				"status": "finished",
				"fqdn": "app.example.com",
				"created_at": "2024-05-01T09:00:00Z",
				"finished_at": "2024-05-01T09:05:00Z"
			}
		]
	}`

	var gotPath, gotAuth, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret-token", 20)
	deployments, err := client.ListDeployments(context.Background(), "app-1")
	require.NoError(t, err)

	assert.Equal(t, "/api/v1/deployments/applications/app-1", gotPath)
	assert.Equal(t, "take=20", gotQuery)
	assert.Equal(t, "Bearer secret-token", gotAuth)

	require.Len(t, deployments, 2)

	assert.Equal(t, "dep-1", deployments[0].ID)
	assert.Equal(t, "abc123", deployments[0].Commit)
	assert.Equal(t, "in_progress", deployments[0].Status)
	assert.Empty(t, deployments[0].URL)
	assert.Nil(t, deployments[0].FinishedAt)

	assert.Equal(t, "dep-2", deployments[1].ID)
	assert.Equal(t, "def456", deployments[1].Commit)
	assert.Equal(t, "https://app.example.com", deployments[1].URL)
	require.NotNil(t, deployments[1].FinishedAt)
	assert.True(t, deployments[1].FinishedAt.After(deployments[1].CreatedAt))
}

func TestClientListDeploymentsAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"invalid token"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "bad-token", 0)
	_, err := client.ListDeployments(context.Background(), "app-1")
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok, "expected *APIError, got %T", err)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "invalid token")
}

func TestClientTransportError(t *testing.T) {
	// server that is already closed
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient(server.URL, "token", 20)
	_, err := client.ListDeployments(context.Background(), "app-1")
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok, "expected *APIError, got %T", err)
	assert.Zero(t, apiErr.StatusCode)
}

func TestNormalizeURL(t *testing.T) {
	assert.Equal(t, "", normalizeURL(""))
	assert.Equal(t, "https://app.example.com", normalizeURL("app.example.com"))
	assert.Equal(t, "http://app.example.com", normalizeURL("http://app.example.com"))
	assert.Equal(t, "https://app.example.com", normalizeURL("https://app.example.com"))
}
