package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"myges/internal/api"
	"myges/internal/cli"
	"myges/internal/report"
	"myges/internal/schedule"
)

// weeksAround is the number of weeks offered before and after the current
// one by agenda -i.
const weeksAround = 9

func newAgendaCmd(opts *rootOptions) *cobra.Command {
	var (
		output      cli.OutputFlags
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "agenda [range]",
		Short: "Show your agenda, one table per day",
		Long: `Show your agenda, one table per day.

The range is one of:
  today[+n]            the day n days from now
  tomorrow[+n]         the day n+1 days from now
  yesterday[+n]        the day n+1 days ago
  week[+n]             the week n weeks from now
  DD[-MM[-YYYY]][+n]   the week containing that date, moved by n days

Without a range the current week is shown.

Examples:
  myges agenda
  myges agenda tomorrow
  myges agenda week+1
  myges agenda 14-10 -o json
  myges agenda -i`,
		Args:    cobra.MaximumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error { return output.Validate() },
		RunE: runSession(opts, func(s *session, args []string) error {
			r, err := agendaRange(s, args, interactive)
			if err != nil {
				return err
			}

			if !opts.flags.Quiet {
				fmt.Fprintf(s.cmd.ErrOrStderr(), "Loading agenda from %s to %s\n",
					r.Start.Format("02/01/2006"), r.End.Format("02/01/2006"))
			}

			var items []api.AgendaItem
			err = s.fetch("Loading agenda...", func(ctx context.Context) (err error) {
				items, err = s.client.Agenda(ctx, r.Start, r.End)
				return err
			})
			if err != nil {
				return err
			}

			out := s.output(output)
			if out.Structured() {
				return out.Data(items)
			}
			return out.Group(report.Agenda(items, location))
		}),
	}

	cli.RegisterOutputFlags(cmd, &output)
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Pick the week from a list")
	return cmd
}

// agendaRange resolves the range argument, or asks for a week with
// interactive set.
func agendaRange(s *session, args []string, interactive bool) (schedule.Range, error) {
	current := now().In(location)
	if !interactive {
		var expr string
		if len(args) > 0 {
			expr = args[0]
		}
		return schedule.Parse(expr, current)
	}

	weeks, def := schedule.Weeks(current, weeksAround, weeksAround)
	labels := make([]string, len(weeks))
	for i, w := range weeks {
		labels[i] = w.String()
	}

	p, err := s.prompt()
	if err != nil {
		return schedule.Range{}, err
	}
	i, err := p.Select("Choose a week", labels, def)
	if err != nil {
		return schedule.Range{}, err
	}
	return weeks[i], nil
}
