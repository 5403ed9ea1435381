package flags

import (
	"context"

	"github.com/spf13/pflag"

	"github.com/shipwatch/shipwatch/pkg/github"
)

// GitHubFlags holds configuration for the GitHub side of the bot: how to
// authenticate and how status is mirrored.
type GitHubFlags struct {
	AppID            int64
	InstallationID   int64
	DryRun           bool
	DeploymentStatus bool
	Environment      string
	Production       bool
}

func NewGitHubFlags() *GitHubFlags {
	return &GitHubFlags{}
}

func (f *GitHubFlags) BindFlags(fs *pflag.FlagSet) {
	fs.Int64Var(&f.AppID, "github-app-id", f.AppID, "GitHub App id to authenticate as (private key from GITHUB_APP_CLIENT_KEY)")
	fs.Int64Var(&f.InstallationID, "github-app-installation-id", f.InstallationID, "GitHub App installation id for the target org")
	fs.BoolVar(&f.DryRun, "dry-run", f.DryRun, "Log comments instead of writing them to GitHub")
	fs.BoolVar(&f.DeploymentStatus, "update-deployment-status", f.DeploymentStatus, "Mirror status to the GitHub deployments API")
	fs.StringVar(&f.Environment, "environment", f.Environment, "GitHub deployment environment name (default preview, or production with --production)")
	fs.BoolVar(&f.Production, "production", f.Production, "Present the deployment as production rather than preview")
}

// GetEnvironment resolves the deployment environment name.
func (f *GitHubFlags) GetEnvironment() string {
	if f.Environment != "" {
		return f.Environment
	}
	if f.Production {
		return "production"
	}
	return "preview"
}

// GetClient builds the GitHub client from the flag values.
func (f *GitHubFlags) GetClient(ctx context.Context) *github.Client {
	var appAuth *github.AppAuth
	if f.AppID != 0 && f.InstallationID != 0 {
		appAuth = &github.AppAuth{AppID: f.AppID, InstallationID: f.InstallationID}
	}
	return github.New(ctx, appAuth)
}
