package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"
)

// githubRepoSlug specifies the GitHub repository (owner/repo) to check for updates.
const githubRepoSlug = "quantumsheep/myges-cli"

// errDevVersion is returned when updating a build without a release version.
var errDevVersion = errors.New("cannot self-update a development version")

// newSelfUpdateCmd creates the Cobra command for the self-update functionality.
// This allows the application to update itself to the latest version from GitHub.
func newSelfUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "self-update",
		Short: "Update myges to the latest version",
		Long: `Checks for the latest release of myges on GitHub and
updates the current binary if a newer version is found.`,
		RunE: runSelfUpdate,
	}
}

func isDevVersion(v string) bool {
	return v == "" || v == "dev"
}

// detectLatest fetches the latest release of myges.
func detectLatest(ctx context.Context) (*selfupdate.Release, error) {
	updater, err := selfupdate.NewUpdater(selfupdate.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create updater: %w", err)
	}

	latest, found, err := updater.DetectLatest(ctx, selfupdate.ParseSlug(githubRepoSlug))
	if err != nil {
		return nil, fmt.Errorf("error detecting latest version: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("latest release for %s could not be found", githubRepoSlug)
	}
	return latest, nil
}

// runSelfUpdate checks the current version against the latest GitHub release
// and replaces the running binary when a newer one exists.
func runSelfUpdate(cmd *cobra.Command, args []string) error {
	currentVersion := cmd.Root().Version
	if isDevVersion(currentVersion) {
		return errDevVersion
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Current version: %s\n", currentVersion)
	fmt.Fprintln(out, "Checking for updates...")

	latest, err := detectLatest(cmd.Context())
	if err != nil {
		return err
	}

	if !latest.GreaterThan(currentVersion) {
		fmt.Fprintln(out, "Current version is the latest.")
		return nil
	}

	fmt.Fprintf(out, "Found newer version: %s (published at %s)\n", latest.Version(), latest.PublishedAt)
	fmt.Fprintf(out, "Release notes:\n%s\n", latest.ReleaseNotes)

	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		return fmt.Errorf("could not locate executable path: %w", err)
	}

	fmt.Fprintf(out, "Updating %s to version %s...\n", exe, latest.Version())
	if err := selfupdate.DefaultUpdater().UpdateTo(cmd.Context(), latest, exe); err != nil {
		return fmt.Errorf("update failed: %w", err)
	}

	fmt.Fprintf(out, "Successfully updated to version %s\n", latest.Version())
	return nil
}
