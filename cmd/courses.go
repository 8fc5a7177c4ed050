package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"myges/internal/api"
	"myges/internal/cli"
	"myges/internal/report"
)

func newCoursesCmd(opts *rootOptions) *cobra.Command {
	var output cli.OutputFlags

	cmd := &cobra.Command{
		Use:     "courses [year]",
		Short:   "List courses of a school year, one table per trimester",
		Args:    cobra.MaximumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error { return output.Validate() },
		RunE: runSession(opts, func(s *session, args []string) error {
			year, err := s.year(args)
			if err != nil {
				return err
			}

			var courses []api.Course
			err = s.fetch("Loading courses...", func(ctx context.Context) (err error) {
				courses, err = s.client.Courses(ctx, year)
				return err
			})
			if err != nil {
				return err
			}

			out := s.output(output)
			if out.Structured() {
				return out.Data(courses)
			}
			return out.Tables(report.Courses(courses))
		}),
	}

	cli.RegisterOutputFlags(cmd, &output)
	return cmd
}
