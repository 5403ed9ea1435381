package run

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseEventType(t *testing.T) {
	tests := []struct {
		name string
		want EventType
	}{
		{"pull_request", EventPullRequest},
		{"pull_request_target", EventPullRequest},
		{"push", EventPush},
		{"workflow_dispatch", EventOther},
		{"", EventOther},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseEventType(tc.name))
		})
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("GITHUB_EVENT_NAME", "pull_request")
	t.Setenv("GITHUB_REPOSITORY", "someorg/somerepo")
	t.Setenv("GITHUB_SHA", "abc123")
	t.Setenv("GITHUB_REF", "refs/pull/42/merge")

	rc := FromEnv()
	assert.Equal(t, EventPullRequest, rc.Event)
	assert.Equal(t, "someorg", rc.Org)
	assert.Equal(t, "somerepo", rc.Repo)
	assert.Equal(t, "abc123", rc.CommitSHA)
	assert.Equal(t, 42, rc.PRNumber)
}

func TestFromEnvPush(t *testing.T) {
	t.Setenv("GITHUB_EVENT_NAME", "push")
	t.Setenv("GITHUB_REPOSITORY", "someorg/somerepo")
	t.Setenv("GITHUB_SHA", "def456")
	t.Setenv("GITHUB_REF", "refs/heads/main")

	rc := FromEnv()
	assert.Equal(t, EventPush, rc.Event)
	assert.Equal(t, 0, rc.PRNumber)
	assert.Equal(t, "refs/heads/main", rc.Ref)
}
