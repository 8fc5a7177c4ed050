package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"myges/internal/api"
	"myges/internal/cli"
	"myges/internal/config"
	"myges/pkg/logging"
)

// Replaced by tests.
var (
	now      = time.Now
	location = time.Local

	newPrompter = func(cmd *cobra.Command) (cli.Prompter, error) {
		return cli.NewPrompter(io.NopCloser(cmd.InOrStdin()), cmd.ErrOrStderr())
	}
)

// session is the state of a command talking to the portal: the loaded
// configuration, an API client holding a valid token and a lazily created
// prompter.
type session struct {
	cmd      *cobra.Command
	opts     *rootOptions
	dir      string
	cfg      *config.Config
	client   *api.Client
	prompter cli.Prompter
}

// loadConfig reads the configuration from the --config-path directory or
// the default one.
func loadConfig(opts *rootOptions) (string, *config.Config, error) {
	dir := opts.flags.ConfigPath
	if dir == "" {
		var err error
		if dir, err = config.DefaultDir(); err != nil {
			return "", nil, err
		}
	}

	cfg, err := config.Load(dir)
	if err != nil {
		return "", nil, err
	}
	return dir, cfg, nil
}

// authClient applies the configured API timeout to authentication.
func authClient(cfg *config.Config) api.AuthOption {
	return api.WithAuthHTTPClient(&http.Client{Timeout: cfg.API.Timeout})
}

// newSession loads the saved account. An expired session asks for the
// password and saves the new token.
func newSession(cmd *cobra.Command, opts *rootOptions) (*session, error) {
	dir, cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	s := &session{cmd: cmd, opts: opts, dir: dir, cfg: cfg}
	if !cfg.Account.LoggedIn() {
		return nil, &cli.AuthRequiredError{}
	}

	if cfg.Account.Expired(now()) {
		logging.Debug("Auth", "Session of %s expired at %s", cfg.Account.Username, cfg.Account.Expires)
		if err := s.renew(cmd.Context()); err != nil {
			s.Close()
			return nil, err
		}
	}

	s.client = api.NewClient(cfg.Account.Token(),
		api.WithBaseURL(cfg.API.BaseURL),
		api.WithTimeout(cfg.API.Timeout),
	)
	return s, nil
}

// renew exchanges the password for a new token.
func (s *session) renew(ctx context.Context) error {
	p, err := s.prompt()
	if err != nil {
		return err
	}

	password, err := p.Password("Session expired - Enter your password")
	if err != nil {
		return err
	}

	tok, err := api.Authenticate(ctx, s.cfg.API.AuthorizeURL, s.cfg.Account.Username, password, authClient(s.cfg))
	if err != nil {
		return &cli.AuthFailedError{Username: s.cfg.Account.Username, Reason: cli.ClassifyRequestError(err, s.cfg.API.AuthorizeURL)}
	}

	s.cfg.Account.SetToken(tok, now())
	if err := config.Save(s.dir, s.cfg); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	logging.Debug("Auth", "Session renewed for %s", s.cfg.Account.Username)
	return nil
}

// prompt returns the session prompter, creating it on first use.
func (s *session) prompt() (cli.Prompter, error) {
	if s.prompter != nil {
		return s.prompter, nil
	}
	p, err := newPrompter(s.cmd)
	if err != nil {
		return nil, err
	}
	s.prompter = p
	return p, nil
}

// Close releases the prompter.
func (s *session) Close() {
	if s.prompter != nil {
		_ = s.prompter.Close()
		s.prompter = nil
	}
}

// check turns API failures into user-facing errors.
func (s *session) check(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, api.ErrUnauthorized) {
		return &cli.AuthExpiredError{Username: s.cfg.Account.Username}
	}
	return cli.ClassifyRequestError(err, s.cfg.API.BaseURL)
}

// fetch runs fn behind a spinner labelled msg.
func (s *session) fetch(msg string, fn func(ctx context.Context) error) error {
	progress := cli.NewProgress(s.cmd.ErrOrStderr(), s.opts.flags.Quiet)
	progress.Start(msg)
	err := s.check(fn(s.cmd.Context()))
	progress.Stop()
	return err
}

// output returns the printer for the command results.
func (s *session) output(flags cli.OutputFlags) *cli.Output {
	return cli.NewOutput(s.cmd.OutOrStdout(), flags)
}

// year parses the year argument, or asks for one among the years of the
// account.
func (s *session) year(args []string) (int, error) {
	if len(args) > 0 && args[0] != "" {
		year, err := strconv.Atoi(args[0])
		if err != nil {
			return 0, fmt.Errorf("invalid year %q", args[0])
		}
		return year, nil
	}

	var years []int
	err := s.fetch("Loading years...", func(ctx context.Context) (err error) {
		years, err = s.client.Years(ctx)
		return err
	})
	if err != nil {
		return 0, err
	}
	if len(years) == 0 {
		return 0, errors.New("no school year found for this account")
	}

	p, err := s.prompt()
	if err != nil {
		return 0, err
	}

	labels := make([]string, len(years))
	for i, y := range years {
		labels[i] = strconv.Itoa(y)
	}
	latest := slices.Index(years, slices.Max(years))

	i, err := p.Select("Choose a year", labels, latest)
	if err != nil {
		return 0, err
	}
	return years[i], nil
}

// profile returns the profile of the logged in user.
func (s *session) profile() (*api.Profile, error) {
	var profile *api.Profile
	err := s.fetch("Loading profile...", func(ctx context.Context) (err error) {
		profile, err = s.client.Profile(ctx)
		return err
	})
	return profile, err
}

// runSession wraps a command body needing a session.
func runSession(opts *rootOptions, fn func(s *session, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd, opts)
		if err != nil {
			return err
		}
		defer s.Close()
		return fn(s, args)
	}
}
