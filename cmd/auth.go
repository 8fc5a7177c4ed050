package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"myges/internal/api"
	"myges/internal/cli"
	"myges/internal/config"
	"myges/pkg/logging"
)

func newLoginCmd(opts *rootOptions) *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to your MyGES account",
		Long: `Log in to your MyGES account.

The password is exchanged for a session token saved in the configuration
directory; the password itself is never stored.

Examples:
  myges login
  myges login --username jdoe`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(cmd, opts, username)
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "MyGES username")
	return cmd
}

func runLogin(cmd *cobra.Command, opts *rootOptions, username string) error {
	dir, cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	p, err := newPrompter(cmd)
	if err != nil {
		return err
	}
	defer p.Close()

	if username == "" {
		if username, err = p.Input("Username", cfg.Account.Username); err != nil {
			return err
		}
	}
	if username == "" {
		return fmt.Errorf("a username is required")
	}

	password, err := p.Password("Password")
	if err != nil {
		return err
	}

	progress := cli.NewProgress(cmd.ErrOrStderr(), opts.flags.Quiet)
	progress.Start("Logging in...")
	tok, err := api.Authenticate(cmd.Context(), cfg.API.AuthorizeURL, username, password, authClient(cfg))
	if err != nil {
		progress.Stop()
		return &cli.AuthFailedError{Username: username, Reason: cli.ClassifyRequestError(err, cfg.API.AuthorizeURL)}
	}
	progress.Stop()

	cfg.Account.Username = username
	cfg.Account.SetToken(tok, now())
	if err := config.Save(dir, cfg); err != nil {
		return err
	}
	logging.Debug("Auth", "Saved session of %s to %s", username, config.FilePath(dir))

	fmt.Fprintln(cmd.OutOrStdout(), "Successfully logged in!")
	return nil
}

func newLogoutCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out and erase the saved configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _, err := loadConfig(opts)
			if err != nil {
				return err
			}
			if err := config.Erase(dir); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Successfully logged out!")
			return nil
		},
	}
}
