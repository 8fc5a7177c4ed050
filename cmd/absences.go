package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"myges/internal/api"
	"myges/internal/cli"
	"myges/internal/report"
)

func newAbsencesCmd(opts *rootOptions) *cobra.Command {
	var output cli.OutputFlags

	cmd := &cobra.Command{
		Use:   "absences [year]",
		Short: "List absences of a school year",
		Long: `List absences of a school year.

When the year is omitted, the years of your account are listed and you
are asked to pick one.

Examples:
  myges absences 2024
  myges absences 2024 -o yaml`,
		Args:    cobra.MaximumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error { return output.Validate() },
		RunE: runSession(opts, func(s *session, args []string) error {
			year, err := s.year(args)
			if err != nil {
				return err
			}

			var absences []api.Absence
			err = s.fetch("Loading absences...", func(ctx context.Context) (err error) {
				absences, err = s.client.Absences(ctx, year)
				return err
			})
			if err != nil {
				return err
			}

			out := s.output(output)
			if out.Structured() {
				return out.Data(absences)
			}
			return out.Table(report.Absences(absences, location))
		}),
	}

	cli.RegisterOutputFlags(cmd, &output)
	return cmd
}
