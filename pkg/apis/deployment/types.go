package deployment

import (
	"time"

	"github.com/shipwatch/shipwatch/pkg/util/sets"
)

// Deployment is the canonical record for one deployment attempt on the
// platform. Platform responses are normalized into this shape at the API
// boundary; alternate wire field names never leak past pkg/platform.
type Deployment struct {
	// ID is the platform's opaque identifier, stable for the lifetime of
	// one deployment attempt.
	ID string

	// Commit is the source commit this deployment was built from; it is
	// the key used to match a deployment to the current run.
	Commit string

	// Status is a platform-defined string. The set is open-ended; only the
	// values below are given any meaning, everything else is treated as an
	// opaque non-terminal status.
	Status string

	// URL is the externally reachable address once the deployment is up,
	// empty until then.
	URL string

	CreatedAt  time.Time
	FinishedAt *time.Time
}

// Status values the bot recognizes.
const (
	StatusQueued     = "queued"
	StatusInProgress = "in_progress"
	StatusFinished   = "finished"
	StatusFailed     = "failed"
)

var terminalStatuses = sets.NewString(StatusFinished, StatusFailed)

// IsTerminal reports whether no further status transition is expected.
func (d Deployment) IsTerminal() bool {
	return terminalStatuses.Has(d.Status)
}

// IsTerminalStatus reports whether status is one of the terminal values.
func IsTerminalStatus(status string) bool {
	return terminalStatuses.Has(status)
}

// Symbol returns the marker used for the status line in comments.
func Symbol(status string) string {
	switch status {
	case StatusFinished:
		return "✅"
	case StatusFailed:
		return "❌"
	case StatusInProgress:
		return "🔄"
	default:
		return "⏳"
	}
}

// States accepted by the GitHub deployment status API.
const (
	GitHubStateSuccess    = "success"
	GitHubStateFailure    = "failure"
	GitHubStateInProgress = "in_progress"
	GitHubStateQueued     = "queued"
	GitHubStatePending    = "pending"
)

// GitHubState maps a platform status onto the fixed set of states the GitHub
// deployment status API accepts. The mapping is total; unrecognized statuses
// map to pending.
func GitHubState(status string) string {
	switch status {
	case StatusFinished:
		return GitHubStateSuccess
	case StatusFailed:
		return GitHubStateFailure
	case StatusInProgress:
		return GitHubStateInProgress
	case StatusQueued:
		return GitHubStateQueued
	default:
		return GitHubStatePending
	}
}
