package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/oauth2"

	"myges/internal/api"
	"myges/internal/calendar"
	"myges/internal/cli"
	"myges/internal/config"
	"myges/internal/display"
	"myges/internal/schedule"
	"myges/pkg/logging"
	textutil "myges/pkg/strings"
)

const syncDateLayout = "02/01/2006 15:04"

// Replaced by tests.
var (
	newCalendarProvider = func(ctx context.Context, client *http.Client) (calendar.Provider, error) {
		return calendar.NewGoogleProvider(ctx, client)
	}
	openBrowser = cli.OpenBrowser
)

type calendarSyncOptions struct {
	output     cli.OutputFlags
	calendarID string
	dryRun     bool
	noBrowser  bool
}

func newCalendarSyncCmd(opts *rootOptions) *cobra.Command {
	o := &calendarSyncOptions{}

	cmd := &cobra.Command{
		Use:   "calendar-sync [days]",
		Short: "Mirror your agenda into Google Calendar",
		Long: `Mirror your agenda into Google Calendar.

The agenda from today to the given number of days ahead is compared with
the events previously created by myges: new classes are inserted, moved
or renamed ones updated and cancelled ones deleted. Events you created
yourself are never touched.

On first use you are asked for a Google OAuth client ID and secret, then
to authorize access to your calendars in the browser. The resulting token
is saved in the configuration.

Examples:
  myges calendar-sync
  myges calendar-sync 30
  myges calendar-sync 14 --dry-run`,
		Args:    cobra.MaximumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error { return o.output.Validate() },
		RunE: runSession(opts, func(s *session, args []string) error {
			return runCalendarSync(s, o, args)
		}),
	}

	cli.RegisterOutputFlags(cmd, &o.output)
	cmd.Flags().StringVar(&o.calendarID, "calendar", "", "Google calendar ID (default from config, \"primary\")")
	cmd.Flags().BoolVar(&o.dryRun, "dry-run", false, "Print the changes without applying them")
	cmd.Flags().BoolVar(&o.noBrowser, "no-browser", false, "Print the authorization URL instead of opening a browser")
	return cmd
}

func runCalendarSync(s *session, o *calendarSyncOptions, args []string) error {
	ctx := s.cmd.Context()

	days, err := s.syncDays(args)
	if err != nil {
		return err
	}
	start := schedule.Day(now().In(location)).Start
	end := schedule.Day(start.AddDate(0, 0, days)).End

	tpl, err := calendar.ParseTemplates(s.cfg.Calendar.SummaryTemplate, s.cfg.Calendar.DescriptionTemplate)
	if err != nil {
		return err
	}

	var items []api.AgendaItem
	err = s.fetch("Loading agenda...", func(ctx context.Context) (err error) {
		items, err = s.client.Agenda(ctx, start, end)
		return err
	})
	if err != nil {
		return err
	}

	desired, err := calendar.BuildEvents(items, tpl)
	if err != nil {
		return err
	}

	httpClient, err := s.googleClient(ctx, o.noBrowser)
	if err != nil {
		return err
	}
	provider, err := newCalendarProvider(ctx, httpClient)
	if err != nil {
		return err
	}

	calendarID := o.calendarID
	if calendarID == "" {
		calendarID = s.cfg.Google.CalendarID
	}

	progress := cli.NewProgress(s.cmd.ErrOrStderr(), s.opts.flags.Quiet)
	progress.Start("Loading calendar events...")
	existing, err := provider.ListEvents(ctx, calendarID, start, end)
	progress.Stop()
	if err != nil {
		return fmt.Errorf("failed to list calendar events: %w", err)
	}

	plan := calendar.Diff(desired, existing)
	logging.Debug("Calendar", "%d agenda events, %d mirrored: %d to insert, %d to update, %d to delete",
		len(desired), len(existing), len(plan.Insert), len(plan.Update), len(plan.Delete))

	out := s.output(o.output)
	if plan.Empty() {
		if out.Structured() {
			return out.Data([]*display.Record{})
		}
		return out.Message("Calendar is up to date (%d events).", plan.Unchanged)
	}
	if o.dryRun {
		return printSync(out, planOutcomes(plan), fmt.Sprintf("%d to insert, %d to update, %d to delete, %d unchanged",
			len(plan.Insert), len(plan.Update), len(plan.Delete), plan.Unchanged))
	}

	total := plan.Len()
	progress.Start(fmt.Sprintf("Syncing events... 0/%d", total))
	syncer := calendar.NewSyncer(provider,
		calendar.WithConcurrency(s.cfg.Calendar.Concurrency),
		calendar.WithRate(s.cfg.Calendar.RequestsPerSecond),
		calendar.WithProgress(func(done, total int) {
			progress.Update(fmt.Sprintf("Syncing events... %d/%d", done, total))
		}),
	)
	result, syncErr := syncer.Apply(ctx, calendarID, plan)
	progress.Stop()

	err = printSync(out, result.Outcomes, fmt.Sprintf("%d inserted, %d updated, %d deleted, %d unchanged, %d failed",
		result.Inserted, result.Updated, result.Deleted, result.Unchanged, result.Failed))
	if syncErr != nil {
		return fmt.Errorf("%d of %d events could not be synced: %w", result.Failed, total, syncErr)
	}
	return err
}

// syncDays parses the days argument, or asks for it.
func (s *session) syncDays(args []string) (int, error) {
	answer := ""
	if len(args) > 0 {
		answer = args[0]
	} else {
		p, err := s.prompt()
		if err != nil {
			return 0, err
		}
		answer, err = p.Input("Choose a number of days", strconv.Itoa(s.cfg.Calendar.Days))
		if err != nil {
			return 0, err
		}
	}

	days, err := strconv.Atoi(answer)
	if err != nil || days <= 0 {
		return 0, fmt.Errorf("invalid number of days %q", answer)
	}
	return days, nil
}

// googleClient returns an HTTP client authorized on Google Calendar. The
// OAuth client is asked for when not configured, and the user authorizes
// access when no token was saved. Refreshed tokens are saved.
func (s *session) googleClient(ctx context.Context, noBrowser bool) (*http.Client, error) {
	g := &s.cfg.Google
	if g.ClientID == "" || g.ClientSecret == "" {
		if err := s.askGoogleClient(); err != nil {
			return nil, err
		}
	}

	tok := g.Token.OAuth2()
	if tok == nil || (tok.RefreshToken == "" && !tok.Valid()) {
		var err error
		if tok, err = s.authorizeGoogle(ctx, noBrowser); err != nil {
			return nil, err
		}
		if err := s.saveGoogleToken(tok); err != nil {
			return nil, err
		}
	}

	oauthCfg, err := calendar.OAuthConfig(g.ClientID, g.ClientSecret, g.RedirectURL)
	if err != nil {
		return nil, err
	}
	ts := calendar.TokenSource(ctx, oauthCfg, tok, s.saveGoogleToken)
	return calendar.HTTPClient(ctx, ts), nil
}

func (s *session) askGoogleClient() error {
	p, err := s.prompt()
	if err != nil {
		return err
	}

	fmt.Fprintln(s.cmd.ErrOrStderr(), "calendar-sync needs a Google OAuth client of type \"Desktop app\" with the Calendar API enabled.")
	id, err := p.Input("Google OAuth client ID", "")
	if err != nil {
		return err
	}
	secret, err := p.Password("Google OAuth client secret")
	if err != nil {
		return err
	}
	if id == "" || secret == "" {
		return calendar.ErrNoClient
	}

	s.cfg.Google.ClientID = id
	s.cfg.Google.ClientSecret = secret
	return config.Save(s.dir, s.cfg)
}

func (s *session) saveGoogleToken(tok *oauth2.Token) error {
	s.cfg.Google.Token = config.NewGoogleToken(tok)
	return config.Save(s.dir, s.cfg)
}

// authorizeGoogle runs the authorization code flow. Without a configured
// redirect URL the code is received on a loopback server; otherwise the
// user pastes it.
func (s *session) authorizeGoogle(ctx context.Context, noBrowser bool) (*oauth2.Token, error) {
	g := s.cfg.Google
	stderr := s.cmd.ErrOrStderr()

	if g.RedirectURL != "" {
		oauthCfg, err := calendar.OAuthConfig(g.ClientID, g.ClientSecret, g.RedirectURL)
		if err != nil {
			return nil, err
		}
		req := calendar.NewAuthRequest(oauthCfg)
		fmt.Fprintf(stderr, "Authorize access to your calendars by visiting:\n\n  %s\n\n", req.URL)

		p, err := s.prompt()
		if err != nil {
			return nil, err
		}
		code, err := p.Input("Enter the code from that page", "")
		if err != nil {
			return nil, err
		}
		return req.Exchange(ctx, oauthCfg, code)
	}

	ctx, cancel := context.WithTimeout(ctx, calendar.CallbackTimeout)
	defer cancel()

	server := calendar.NewCallbackServer()
	redirectURL, err := server.Start(ctx)
	if err != nil {
		return nil, err
	}
	defer server.Stop()

	oauthCfg, err := calendar.OAuthConfig(g.ClientID, g.ClientSecret, redirectURL)
	if err != nil {
		return nil, err
	}
	req := calendar.NewAuthRequest(oauthCfg)

	opened := false
	if !noBrowser {
		if err := openBrowser(req.URL); err != nil {
			logging.Warn("Calendar", "Could not open a browser: %v", err)
		} else {
			opened = true
		}
	}
	if opened {
		fmt.Fprintln(stderr, "Waiting for the authorization in your browser...")
	} else {
		fmt.Fprintf(stderr, "Authorize access to your calendars by visiting:\n\n  %s\n\n", req.URL)
	}

	result, err := server.Wait(ctx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("no authorization received within %s", calendar.CallbackTimeout)
		}
		return nil, err
	}
	if err := result.Err(); err != nil {
		return nil, err
	}
	if result.State != req.State {
		return nil, errors.New("authorization state mismatch, please retry")
	}
	return req.Exchange(ctx, oauthCfg, result.Code)
}

func planOutcomes(plan calendar.Plan) []calendar.Outcome {
	outcomes := make([]calendar.Outcome, 0, plan.Len())
	for _, ev := range plan.Insert {
		outcomes = append(outcomes, calendar.Outcome{Action: calendar.ActionInsert, Event: ev})
	}
	for _, ev := range plan.Update {
		outcomes = append(outcomes, calendar.Outcome{Action: calendar.ActionUpdate, Event: ev})
	}
	for _, ev := range plan.Delete {
		outcomes = append(outcomes, calendar.Outcome{Action: calendar.ActionDelete, Event: ev})
	}
	return outcomes
}

// printSync prints one row per event call followed by summary.
func printSync(out *cli.Output, outcomes []calendar.Outcome, summary string) error {
	cell := func(s string) string {
		if out.Structured() {
			return s
		}
		return textutil.Cell(s, textutil.CellMaxLen)
	}

	records := make([]*display.Record, 0, len(outcomes))
	for _, o := range outcomes {
		r := display.NewRecord(
			display.F("Action", string(o.Action)),
			display.F("Date", o.Event.Start.In(location).Format(syncDateLayout)),
			display.F("Summary", cell(o.Event.Summary)),
		)
		if o.Err != nil {
			r.Set("Error", cell(o.Err.Error()))
		}
		records = append(records, r)
	}

	if out.Structured() {
		return out.Data(records)
	}
	if err := out.Table(records); err != nil {
		return err
	}
	return out.Message("%s", summary)
}
