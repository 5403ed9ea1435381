package commenter

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/shipwatch/shipwatch/pkg/apis/deployment"
)

const logURL = "https://deploy.example.com/deployments/dep-1"

func TestFormatBodyIsDeterministic(t *testing.T) {
	finished := time.Date(2024, 5, 1, 10, 5, 0, 0, time.UTC)
	d := deployment.Deployment{
		ID:         "dep-1",
		Commit:     "abc1234567890",
		Status:     deployment.StatusFinished,
		URL:        "https://app.example.com",
		FinishedAt: &finished,
	}

	assert.Equal(t, FormatBody(d, logURL, false), FormatBody(d, logURL, false))
	assert.Equal(t, FormatBody(d, logURL, true), FormatBody(d, logURL, true))
}

func TestFormatBodyStartsWithMarker(t *testing.T) {
	d := deployment.Deployment{ID: "dep-1", Commit: "abc1234", Status: deployment.StatusQueued}
	assert.True(t, strings.HasPrefix(FormatBody(d, logURL, false), Marker))
	assert.True(t, strings.HasPrefix(FormatBody(d, logURL, true), Marker))
}

func TestFormatBodyURLOnlyOnSuccess(t *testing.T) {
	d := deployment.Deployment{
		ID:     "dep-1",
		Commit: "abc1234",
		Status: deployment.StatusInProgress,
		URL:    "https://app.example.com",
	}
	assert.NotContains(t, FormatBody(d, logURL, false), "**URL:**",
		"reachable URL should not be advertised before the deployment finished")

	d.Status = deployment.StatusFinished
	assert.Contains(t, FormatBody(d, logURL, false), "**URL:** https://app.example.com")
}

func TestFormatBodyRetryGuidanceOnlyOnFailure(t *testing.T) {
	d := deployment.Deployment{ID: "dep-1", Commit: "abc1234", Status: deployment.StatusFailed}
	body := FormatBody(d, logURL, false)
	assert.Contains(t, body, "❌")
	assert.Contains(t, body, "retry")

	d.Status = deployment.StatusFinished
	assert.NotContains(t, FormatBody(d, logURL, false), "retry")
}

func TestFormatBodyProductionLabel(t *testing.T) {
	d := deployment.Deployment{ID: "dep-1", Commit: "abc1234", Status: deployment.StatusInProgress}
	assert.Contains(t, FormatBody(d, logURL, true), "(production)")
	assert.Contains(t, FormatBody(d, logURL, false), "(preview)")
}

func TestFormatBodyAlwaysLinksLogs(t *testing.T) {
	for _, status := range []string{
		deployment.StatusQueued, deployment.StatusInProgress,
		deployment.StatusFinished, deployment.StatusFailed, "weird_status",
	} {
		d := deployment.Deployment{ID: "dep-1", Commit: "abc1234", Status: status}
		assert.Contains(t, FormatBody(d, logURL, false), logURL, "status %s", status)
	}
}

func TestShortSHA(t *testing.T) {
	assert.Equal(t, "abc1234", shortSHA("abc1234567890"))
	assert.Equal(t, "abc", shortSHA("abc"))
}
