package main

import (
	"context"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/shipwatch/shipwatch/pkg/actions"
	"github.com/shipwatch/shipwatch/pkg/apis/deployment"
	"github.com/shipwatch/shipwatch/pkg/apis/run"
	"github.com/shipwatch/shipwatch/pkg/flags"
	"github.com/shipwatch/shipwatch/pkg/flags/configflags"
	"github.com/shipwatch/shipwatch/pkg/github/commenter"
	"github.com/shipwatch/shipwatch/pkg/github/deployrecord"
	"github.com/shipwatch/shipwatch/pkg/platform"
	"github.com/shipwatch/shipwatch/pkg/reconciler"
)

type WatchFlags struct {
	PlatformFlags   *flags.PlatformFlags
	GitHubFlags     *flags.GitHubFlags
	ReconcilerFlags *flags.ReconcilerFlags
	ConfigFlags     *configflags.ConfigFlags

	// run context overrides; defaults come from the Actions environment
	Repository string
	Event      string
	CommitSHA  string
	PRNumber   int
	Ref        string
}

func NewWatchFlags() *WatchFlags {
	return &WatchFlags{
		PlatformFlags:   flags.NewPlatformFlags(),
		GitHubFlags:     flags.NewGitHubFlags(),
		ReconcilerFlags: flags.NewReconcilerFlags(),
		ConfigFlags:     configflags.NewConfigFlags(),
	}
}

func (f *WatchFlags) BindFlags(fs *pflag.FlagSet) {
	f.PlatformFlags.BindFlags(fs)
	f.GitHubFlags.BindFlags(fs)
	f.ReconcilerFlags.BindFlags(fs)
	f.ConfigFlags.BindFlags(fs)
	fs.StringVar(&f.Repository, "repository", f.Repository, "GitHub repository as org/repo (defaults to GITHUB_REPOSITORY)")
	fs.StringVar(&f.Event, "event", f.Event, "Trigger event name (defaults to GITHUB_EVENT_NAME)")
	fs.StringVar(&f.CommitSHA, "commit", f.CommitSHA, "Commit SHA to match against deployments (defaults to GITHUB_SHA)")
	fs.IntVar(&f.PRNumber, "pr-number", f.PRNumber, "Pull request number for the comment channel (defaults to GITHUB_REF)")
	fs.StringVar(&f.Ref, "ref", f.Ref, "Git ref for the GitHub deployment record (defaults to GITHUB_REF)")
}

func NewWatchCommand() *cobra.Command {
	f := NewWatchFlags()

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll the platform for the current commit's deployment and mirror its status",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			config, err := f.ConfigFlags.GetConfig()
			if err != nil {
				return err
			}
			if f.PlatformFlags.URL == "" {
				f.PlatformFlags.URL = config.Platform.URL
			}
			if f.PlatformFlags.ApplicationID == "" {
				f.PlatformFlags.ApplicationID = config.Platform.ApplicationID
			}
			if f.GitHubFlags.Environment == "" {
				f.GitHubFlags.Environment = config.GitHub.Environment
			}

			if err := f.PlatformFlags.Validate(); err != nil {
				return err
			}
			if err := f.ReconcilerFlags.Validate(); err != nil {
				return err
			}

			rc := f.runContext()
			if rc.CommitSHA == "" {
				return errors.New("a commit SHA is required (--commit or GITHUB_SHA)")
			}

			platformClient := f.PlatformFlags.GetClient()
			locator := platform.NewLocator(platformClient)

			githubClient := f.GitHubFlags.GetClient(ctx)
			publisher := commenter.NewPublisher(githubClient, f.GitHubFlags.DryRun)

			var recorder reconciler.StatusRecorder
			if f.GitHubFlags.DeploymentStatus {
				recorder = deployrecord.New(githubClient, f.GitHubFlags.GetEnvironment(), f.GitHubFlags.Production)
			}

			rec := reconciler.New(reconciler.Config{
				AppID:        f.PlatformFlags.ApplicationID,
				PollInterval: f.ReconcilerFlags.PollInterval,
				Timeout:      f.ReconcilerFlags.Timeout,
				FormatBody: func(d deployment.Deployment) string {
					return commenter.FormatBody(d, platformClient.DeploymentLogURL(d.ID), f.GitHubFlags.Production)
				},
				LogURL: platformClient.DeploymentLogURL,
			}, locator, publisher, recorder)

			result, err := rec.Run(ctx, rc)
			pushMetrics()
			if err != nil {
				return err
			}

			log.WithField("found", result.Found).
				WithField("status", result.Status).
				WithField("state", string(result.State)).
				Info("reconciliation finished")

			return actions.WriteOutputs(watchOutputs(result))
		},
	}

	f.BindFlags(cmd.Flags())
	return cmd
}

// runContext merges the Actions environment with explicit flag overrides.
func (f *WatchFlags) runContext() run.Context {
	rc := run.FromEnv()
	if f.Repository != "" {
		rc.Org, rc.Repo = splitRepository(f.Repository)
	}
	if f.Event != "" {
		rc.Event = run.ParseEventType(f.Event)
	}
	if f.CommitSHA != "" {
		rc.CommitSHA = f.CommitSHA
	}
	if f.PRNumber != 0 {
		rc.PRNumber = f.PRNumber
	}
	if f.Ref != "" {
		rc.Ref = f.Ref
	}
	return rc
}

func splitRepository(repository string) (string, string) {
	parts := strings.SplitN(repository, "/", 2)
	if len(parts) != 2 {
		return repository, ""
	}
	return parts[0], parts[1]
}

func watchOutputs(result *reconciler.Result) map[string]string {
	outputs := map[string]string{
		"found": strconv.FormatBool(result.Found),
	}
	if result.Found {
		outputs["status"] = result.Status
		outputs["url"] = result.URL
		outputs["log_link"] = result.LogURL
		outputs["deployment_id"] = result.DeploymentID
	}
	return outputs
}

func pushMetrics() {
	gateway := os.Getenv("SHIPWATCH_PROMETHEUS_PUSHGATEWAY")
	if gateway == "" {
		return
	}
	pusher := push.New(gateway, "shipwatch-watch").Gatherer(prometheus.DefaultGatherer)
	if err := pusher.Add(); err != nil {
		log.WithError(err).Warn("failed to push metrics")
	}
}
