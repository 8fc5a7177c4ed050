package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"myges/internal/api"
	"myges/internal/cli"
	"myges/internal/report"
)

func newGradesCmd(opts *rootOptions) *cobra.Command {
	var output cli.OutputFlags

	cmd := &cobra.Command{
		Use:   "grades [year]",
		Short: "List grades of a school year",
		Long: `List grades of a school year, one table per trimester.

Every course shows its continuous assessment marks (CC1, CC2, ...), the
exam and the average. A last row gives the global average weighted by
the course coefficients.`,
		Args:    cobra.MaximumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error { return output.Validate() },
		RunE: runSession(opts, func(s *session, args []string) error {
			year, err := s.year(args)
			if err != nil {
				return err
			}

			var grades []api.Grade
			err = s.fetch("Loading grades...", func(ctx context.Context) (err error) {
				grades, err = s.client.Grades(ctx, year)
				return err
			})
			if err != nil {
				return err
			}

			out := s.output(output)
			if out.Structured() {
				return out.Data(grades)
			}
			return out.Group(report.Grades(grades))
		}),
	}

	cli.RegisterOutputFlags(cmd, &output)
	return cmd
}
