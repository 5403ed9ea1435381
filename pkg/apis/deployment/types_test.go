package deployment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSymbol(t *testing.T) {
	tests := []struct {
		status string
		want   string
	}{
		{StatusFinished, "✅"},
		{StatusFailed, "❌"},
		{StatusInProgress, "🔄"},
		{StatusQueued, "⏳"},
		{"weird_status", "⏳"},
		{"", "⏳"},
	}
	for _, tc := range tests {
		t.Run(tc.status, func(t *testing.T) {
			assert.Equal(t, tc.want, Symbol(tc.status))
		})
	}
}

func TestGitHubStateIsTotal(t *testing.T) {
	valid := map[string]bool{
		GitHubStateSuccess:    true,
		GitHubStateFailure:    true,
		GitHubStateInProgress: true,
		GitHubStateQueued:     true,
		GitHubStatePending:    true,
	}

	inputs := []string{
		StatusFinished, StatusFailed, StatusInProgress, StatusQueued,
		"weird_status", "cancelled", "", "FINISHED",
	}
	for _, status := range inputs {
		assert.True(t, valid[GitHubState(status)], "GitHubState(%q) = %q is not a valid deployment state", status, GitHubState(status))
	}

	assert.Equal(t, GitHubStateSuccess, GitHubState(StatusFinished))
	assert.Equal(t, GitHubStateFailure, GitHubState(StatusFailed))
	assert.Equal(t, GitHubStateInProgress, GitHubState(StatusInProgress))
	assert.Equal(t, GitHubStateQueued, GitHubState(StatusQueued))
	assert.Equal(t, GitHubStatePending, GitHubState("weird_status"))
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, Deployment{Status: StatusFinished}.IsTerminal())
	assert.True(t, Deployment{Status: StatusFailed}.IsTerminal())
	assert.False(t, Deployment{Status: StatusInProgress}.IsTerminal())
	assert.False(t, Deployment{Status: StatusQueued}.IsTerminal())
	assert.False(t, Deployment{Status: "weird_status"}.IsTerminal())
}
