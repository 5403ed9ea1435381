package run

import (
	"os"
	"strconv"
	"strings"
)

// EventType classifies the trigger that produced this invocation. It decides
// which comment channel, if any, is available.
type EventType string

const (
	EventPullRequest EventType = "pull_request"
	EventPush        EventType = "push"
	EventOther       EventType = "other"
)

// Context carries the facts about the triggering event. It is an explicit
// value passed into the locator and reconciler so the core can be exercised
// with synthetic contexts instead of ambient environment state.
type Context struct {
	Event     EventType
	Org       string
	Repo      string
	PRNumber  int
	CommitSHA string
	Ref       string
}

// ParseEventType normalizes a CI event name. pull_request_target triggers
// behave exactly like pull_request for commenting purposes.
func ParseEventType(name string) EventType {
	switch name {
	case "pull_request", "pull_request_target":
		return EventPullRequest
	case "push":
		return EventPush
	default:
		return EventOther
	}
}

// FromEnv builds a Context from the standard GitHub Actions environment.
// Missing variables leave zero values; callers validate what they require.
func FromEnv() Context {
	rc := Context{
		Event:     ParseEventType(os.Getenv("GITHUB_EVENT_NAME")),
		CommitSHA: os.Getenv("GITHUB_SHA"),
		Ref:       os.Getenv("GITHUB_REF"),
	}

	if repository := os.Getenv("GITHUB_REPOSITORY"); repository != "" {
		parts := strings.SplitN(repository, "/", 2)
		if len(parts) == 2 {
			rc.Org = parts[0]
			rc.Repo = parts[1]
		}
	}

	// refs/pull/<number>/merge on pull request triggers
	if strings.HasPrefix(rc.Ref, "refs/pull/") {
		parts := strings.Split(rc.Ref, "/")
		if len(parts) > 2 {
			if number, err := strconv.Atoi(parts[2]); err == nil {
				rc.PRNumber = number
			}
		}
	}

	return rc
}
