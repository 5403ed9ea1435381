package platform

import (
	"context"

	"github.com/pkg/errors"

	"github.com/shipwatch/shipwatch/pkg/apis/deployment"
)

// ErrNotFound is the normal negative result: no deployment on the platform
// matches the commit. Callers report it as found=false, not as a failure.
var ErrNotFound = errors.New("no deployment found for commit")

// Locator selects the authoritative deployment for a commit out of the
// platform's recent deployments window.
type Locator struct {
	list func(ctx context.Context, appID string) ([]deployment.Deployment, error)
}

// NewLocator builds a Locator on top of a platform Client.
func NewLocator(client *Client) *Locator {
	return &Locator{list: client.ListDeployments}
}

// FindDeployment returns the deployment whose commit exactly equals
// commitSHA. When several attempts share the commit the one with the latest
// created_at wins; superseded attempts are never returned. ErrNotFound when
// nothing matches.
func (l *Locator) FindDeployment(ctx context.Context, appID, commitSHA string) (*deployment.Deployment, error) {
	deployments, err := l.list(ctx, appID)
	if err != nil {
		return nil, err
	}

	var match *deployment.Deployment
	for i := range deployments {
		d := deployments[i]
		if d.Commit != commitSHA {
			continue
		}
		if match == nil || d.CreatedAt.After(match.CreatedAt) {
			match = &d
		}
	}

	if match == nil {
		return nil, ErrNotFound
	}
	return match, nil
}
