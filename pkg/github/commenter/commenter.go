package commenter

import (
	"strings"

	gh "github.com/google/go-github/v45/github"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/shipwatch/shipwatch/pkg/apis/run"
)

// Marker is the fixed literal every bot comment starts with. It is how the
// bot re-identifies its own comment on a pull request across runs.
const Marker = "🚀 **Deployment Status**"

// commentClient is the slice of the GitHub client the publisher needs.
type commentClient interface {
	ListIssueComments(org, repo string, number int) ([]*gh.IssueComment, error)
	CreateIssueComment(org, repo string, number int, body string) (*gh.IssueComment, error)
	UpdateIssueComment(org, repo string, commentID int64, body string) (*gh.IssueComment, error)
	CreateCommitComment(org, repo, sha, body string) (*gh.RepositoryComment, error)
}

// Publisher creates or updates the externally visible status comment.
type Publisher struct {
	client commentClient
	dryRun bool
}

// NewPublisher builds a Publisher. With dryRun set everything up to the
// GitHub mutation happens and the body is logged instead of written.
func NewPublisher(client commentClient, dryRun bool) *Publisher {
	return &Publisher{client: client, dryRun: dryRun}
}

// Publish routes the body to the channel the run context provides. On a pull
// request the bot's existing comment is overwritten in place, last write
// wins. On a push a new commit comment is created every time; that channel
// has no update, so repeated publishes stack up comments. Any other event
// has nowhere to comment and is skipped with a warning, not an error.
func (p *Publisher) Publish(rc run.Context, body string) error {
	switch rc.Event {
	case run.EventPullRequest:
		return p.publishPullRequest(rc, body)
	case run.EventPush:
		return p.publishCommit(rc, body)
	default:
		log.WithField("event", string(rc.Event)).Warn("no comment channel for event, skipping status comment")
		return nil
	}
}

func (p *Publisher) publishPullRequest(rc run.Context, body string) error {
	if rc.PRNumber <= 0 {
		log.Warn("pull request event without a PR number, skipping status comment")
		return nil
	}

	logger := log.WithField("org", rc.Org).
		WithField("repo", rc.Repo).
		WithField("number", rc.PRNumber)

	comments, err := p.client.ListIssueComments(rc.Org, rc.Repo, rc.PRNumber)
	if err != nil {
		return errors.Wrap(err, "listing pull request comments")
	}

	var existing *gh.IssueComment
	for _, comment := range comments {
		if comment.Body != nil && strings.HasPrefix(*comment.Body, Marker) {
			existing = comment
			break
		}
	}

	if p.dryRun {
		logger.Infof("dry run status comment:\n%s", body)
		return nil
	}

	if existing != nil {
		if strings.TrimSpace(existing.GetBody()) == strings.TrimSpace(body) {
			logger.Debug("existing comment already matches, skipping update")
			return nil
		}
		_, err = p.client.UpdateIssueComment(rc.Org, rc.Repo, existing.GetID(), body)
		return errors.Wrap(err, "updating status comment")
	}

	logger.Info("creating status comment")
	_, err = p.client.CreateIssueComment(rc.Org, rc.Repo, rc.PRNumber, body)
	return errors.Wrap(err, "creating status comment")
}

func (p *Publisher) publishCommit(rc run.Context, body string) error {
	logger := log.WithField("org", rc.Org).
		WithField("repo", rc.Repo).
		WithField("sha", rc.CommitSHA)

	if p.dryRun {
		logger.Infof("dry run commit comment:\n%s", body)
		return nil
	}

	logger.Info("creating commit comment")
	_, err := p.client.CreateCommitComment(rc.Org, rc.Repo, rc.CommitSHA, body)
	return errors.Wrap(err, "creating commit comment")
}
