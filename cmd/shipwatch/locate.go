package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/shipwatch/shipwatch/pkg/flags"
	"github.com/shipwatch/shipwatch/pkg/flags/configflags"
	"github.com/shipwatch/shipwatch/pkg/platform"
)

// NewLocateCommand does a single locator query and prints the canonical
// record, without commenting or polling. Mostly useful for debugging a
// platform connection.
func NewLocateCommand() *cobra.Command {
	platformFlags := flags.NewPlatformFlags()
	configFlags := configflags.NewConfigFlags()
	var commitSHA string

	cmd := &cobra.Command{
		Use:   "locate",
		Short: "Find the deployment for a commit and print it",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := configFlags.GetConfig()
			if err != nil {
				return err
			}
			if platformFlags.URL == "" {
				platformFlags.URL = config.Platform.URL
			}
			if platformFlags.ApplicationID == "" {
				platformFlags.ApplicationID = config.Platform.ApplicationID
			}
			if err := platformFlags.Validate(); err != nil {
				return err
			}
			if commitSHA == "" {
				commitSHA = os.Getenv("GITHUB_SHA")
			}
			if commitSHA == "" {
				return errors.New("a commit SHA is required (--commit or GITHUB_SHA)")
			}

			locator := platform.NewLocator(platformFlags.GetClient())
			d, err := locator.FindDeployment(context.Background(), platformFlags.ApplicationID, commitSHA)
			if err != nil {
				if errors.Is(err, platform.ErrNotFound) {
					log.WithField("commit", commitSHA).Info("no deployment found")
					return nil
				}
				return err
			}

			out, err := json.MarshalIndent(d, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(os.Stdout, string(out))
			return nil
		},
	}

	platformFlags.BindFlags(cmd.Flags())
	configFlags.BindFlags(cmd.Flags())
	cmd.Flags().StringVar(&commitSHA, "commit", "", "Commit SHA to match against deployments (defaults to GITHUB_SHA)")
	return cmd
}
