package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newVersionCmd creates the Cobra command for displaying the application version.
func newVersionCmd() *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number of myges",
		Long: `Print the version number of myges.

With --check, the latest release is looked up on GitHub and compared with
the running version.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			version := cmd.Root().Version
			fmt.Fprintf(cmd.OutOrStdout(), "myges version %s\n", version)
			if !check {
				return nil
			}

			latest, err := detectLatest(cmd.Context())
			if err != nil {
				return err
			}
			if isDevVersion(version) || latest.GreaterThan(version) {
				fmt.Fprintf(cmd.OutOrStdout(), "A newer version is available: %s (run 'myges self-update')\n", latest.Version())
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "You are running the latest version.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "Check GitHub for a newer release")
	return cmd
}
