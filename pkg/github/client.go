package github

import (
	"context"
	"net/http"
	"os"

	gh "github.com/google/go-github/v45/github"
	ghauth "github.com/jferrl/go-githubauth"
	log "github.com/sirupsen/logrus"
	"github.com/tcnksm/go-gitconfig"
	"golang.org/x/oauth2"
)

// AppAuth identifies a GitHub App installation to authenticate as. The app's
// private key is read from GITHUB_APP_CLIENT_KEY.
type AppAuth struct {
	AppID          int64
	InstallationID int64
}

// Client wraps the GitHub operations the bot needs. The function fields are
// wired to a real go-github client in New and swapped for stubs in tests.
type Client struct {
	ctx context.Context

	issueCommentsFetch     func(org, repo string, number int) ([]*gh.IssueComment, error)
	issueCommentCreate     func(org, repo string, number int, body string) (*gh.IssueComment, error)
	issueCommentUpdate     func(org, repo string, commentID int64, body string) (*gh.IssueComment, error)
	commitCommentCreate    func(org, repo, sha, body string) (*gh.RepositoryComment, error)
	deploymentsFetch       func(org, repo, ref, environment string) ([]*gh.Deployment, error)
	deploymentCreate       func(org, repo string, request *gh.DeploymentRequest) (*gh.Deployment, error)
	deploymentStatusCreate func(org, repo string, deploymentID int64, request *gh.DeploymentStatusRequest) (*gh.DeploymentStatus, error)
}

// New builds a Client. Authentication tries, in order: GitHub App
// credentials when appAuth is given and the private key is present, the
// GITHUB_TOKEN environment variable, the token from git config, and finally
// an unauthenticated client.
func New(ctx context.Context, appAuth *AppAuth) *Client {
	client := &Client{ctx: ctx}
	ghc := gh.NewClient(newAuthClient(ctx, appAuth))

	client.issueCommentsFetch = func(org, repo string, number int) ([]*gh.IssueComment, error) {
		comments, _, err := ghc.Issues.ListComments(client.ctx, org, repo, number, &gh.IssueListCommentsOptions{})
		return comments, err
	}

	client.issueCommentCreate = func(org, repo string, number int, body string) (*gh.IssueComment, error) {
		comment, _, err := ghc.Issues.CreateComment(client.ctx, org, repo, number, &gh.IssueComment{Body: &body})
		return comment, err
	}

	client.issueCommentUpdate = func(org, repo string, commentID int64, body string) (*gh.IssueComment, error) {
		comment, _, err := ghc.Issues.EditComment(client.ctx, org, repo, commentID, &gh.IssueComment{Body: &body})
		return comment, err
	}

	client.commitCommentCreate = func(org, repo, sha, body string) (*gh.RepositoryComment, error) {
		comment, _, err := ghc.Repositories.CreateComment(client.ctx, org, repo, sha, &gh.RepositoryComment{Body: &body})
		return comment, err
	}

	client.deploymentsFetch = func(org, repo, ref, environment string) ([]*gh.Deployment, error) {
		deployments, _, err := ghc.Repositories.ListDeployments(client.ctx, org, repo, &gh.DeploymentsListOptions{
			Ref:         ref,
			Environment: environment,
		})
		return deployments, err
	}

	client.deploymentCreate = func(org, repo string, request *gh.DeploymentRequest) (*gh.Deployment, error) {
		deployment, _, err := ghc.Repositories.CreateDeployment(client.ctx, org, repo, request)
		return deployment, err
	}

	client.deploymentStatusCreate = func(org, repo string, deploymentID int64, request *gh.DeploymentStatusRequest) (*gh.DeploymentStatus, error) {
		status, _, err := ghc.Repositories.CreateDeploymentStatus(client.ctx, org, repo, deploymentID, request)
		return status, err
	}

	return client
}

func newAuthClient(ctx context.Context, appAuth *AppAuth) *http.Client {
	if appAuth != nil {
		if tokenSource := newAppTokenSource(appAuth.AppID); tokenSource != nil {
			installationTokenSource := ghauth.NewInstallationTokenSource(appAuth.InstallationID, tokenSource, ghauth.WithContext(ctx))
			log.Infof("using GitHub App credentials for app %d", appAuth.AppID)
			return oauth2.NewClient(ctx, installationTokenSource)
		}
	}

	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		log.Info("no GITHUB_TOKEN environment variable, checking git config")
		var err error
		token, err = gitconfig.GithubToken()
		if err != nil {
			log.WithError(err).Warning("unable to retrieve GitHub token from git config")
		}
	}
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		return oauth2.NewClient(ctx, ts)
	}

	log.Warning("using unauthenticated GitHub client, requests will be rate-limited")
	return nil
}

func newAppTokenSource(appID int64) oauth2.TokenSource {
	privateKey := os.Getenv("GITHUB_APP_CLIENT_KEY")
	if privateKey == "" {
		log.Warn("missing GITHUB_APP_CLIENT_KEY, will not authenticate as GitHub App")
		return nil
	}
	appTokenSource, err := ghauth.NewApplicationTokenSource(appID, []byte(privateKey))
	if err != nil {
		log.WithError(err).Error("error creating application token source")
		return nil
	}
	return appTokenSource
}

// ListIssueComments returns all comments on a pull request.
func (c *Client) ListIssueComments(org, repo string, number int) ([]*gh.IssueComment, error) {
	return c.issueCommentsFetch(org, repo, number)
}

// CreateIssueComment adds a comment to a pull request.
func (c *Client) CreateIssueComment(org, repo string, number int, body string) (*gh.IssueComment, error) {
	return c.issueCommentCreate(org, repo, number, body)
}

// UpdateIssueComment overwrites the body of an existing comment.
func (c *Client) UpdateIssueComment(org, repo string, commentID int64, body string) (*gh.IssueComment, error) {
	return c.issueCommentUpdate(org, repo, commentID, body)
}

// CreateCommitComment adds a comment directly on a commit.
func (c *Client) CreateCommitComment(org, repo, sha, body string) (*gh.RepositoryComment, error) {
	return c.commitCommentCreate(org, repo, sha, body)
}

// ListDeployments returns the repository deployments for a ref and environment.
func (c *Client) ListDeployments(org, repo, ref, environment string) ([]*gh.Deployment, error) {
	return c.deploymentsFetch(org, repo, ref, environment)
}

// CreateDeployment creates a repository deployment record.
func (c *Client) CreateDeployment(org, repo string, request *gh.DeploymentRequest) (*gh.Deployment, error) {
	return c.deploymentCreate(org, repo, request)
}

// CreateDeploymentStatus adds a status to a repository deployment.
func (c *Client) CreateDeploymentStatus(org, repo string, deploymentID int64, request *gh.DeploymentStatusRequest) (*gh.DeploymentStatus, error) {
	return c.deploymentStatusCreate(org, repo, deploymentID, request)
}
