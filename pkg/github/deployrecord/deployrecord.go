package deployrecord

import (
	"fmt"

	gh "github.com/google/go-github/v45/github"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/shipwatch/shipwatch/pkg/apis/deployment"
	"github.com/shipwatch/shipwatch/pkg/apis/run"
)

// deploymentClient is the slice of the GitHub client the recorder needs.
type deploymentClient interface {
	ListDeployments(org, repo, ref, environment string) ([]*gh.Deployment, error)
	CreateDeployment(org, repo string, request *gh.DeploymentRequest) (*gh.Deployment, error)
	CreateDeploymentStatus(org, repo string, deploymentID int64, request *gh.DeploymentStatusRequest) (*gh.DeploymentStatus, error)
}

// Recorder mirrors platform deployment status onto the GitHub deployments
// API. One GitHub deployment record is kept per (ref, environment); statuses
// are appended to it as the platform status changes.
type Recorder struct {
	client      deploymentClient
	environment string
	production  bool

	// github deployment id, resolved once per run
	deploymentID int64
}

// New builds a Recorder for the named environment.
func New(client deploymentClient, environment string, production bool) *Recorder {
	return &Recorder{client: client, environment: environment, production: production}
}

// RecordStatus maps the platform status onto a GitHub deployment status,
// creating the deployment record first if this ref and environment don't
// have one yet.
func (r *Recorder) RecordStatus(rc run.Context, d deployment.Deployment, logURL string) error {
	deploymentID, err := r.ensureDeployment(rc)
	if err != nil {
		return err
	}

	request := &gh.DeploymentStatusRequest{
		State:       gh.String(deployment.GitHubState(d.Status)),
		LogURL:      gh.String(logURL),
		Description: gh.String(fmt.Sprintf("Deployment is %s", d.Status)),
	}
	if d.Status == deployment.StatusFinished && d.URL != "" {
		request.EnvironmentURL = gh.String(d.URL)
	}

	log.WithField("deployment", deploymentID).
		WithField("state", request.GetState()).
		Debug("recording github deployment status")

	_, err = r.client.CreateDeploymentStatus(rc.Org, rc.Repo, deploymentID, request)
	return errors.Wrap(err, "creating github deployment status")
}

func (r *Recorder) ensureDeployment(rc run.Context) (int64, error) {
	if r.deploymentID != 0 {
		return r.deploymentID, nil
	}

	deployments, err := r.client.ListDeployments(rc.Org, rc.Repo, rc.Ref, r.environment)
	if err != nil {
		return 0, errors.Wrap(err, "listing github deployments")
	}
	if len(deployments) > 0 && deployments[0].ID != nil {
		r.deploymentID = *deployments[0].ID
		return r.deploymentID, nil
	}

	created, err := r.client.CreateDeployment(rc.Org, rc.Repo, &gh.DeploymentRequest{
		Ref:                   gh.String(rc.Ref),
		Environment:           gh.String(r.environment),
		AutoMerge:             gh.Bool(false),
		RequiredContexts:      &[]string{},
		TransientEnvironment:  gh.Bool(!r.production),
		ProductionEnvironment: gh.Bool(r.production),
	})
	if err != nil {
		return 0, errors.Wrap(err, "creating github deployment")
	}
	if created == nil || created.ID == nil {
		return 0, errors.New("github returned a deployment without an id")
	}

	r.deploymentID = *created.ID
	return r.deploymentID, nil
}
