package cmd

import (
	"github.com/spf13/cobra"

	"myges/internal/cli"
	"myges/internal/report"
)

func newContributeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "contribute",
		Short: "Show where to contribute to myges and report issues",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cli.NewOutput(cmd.OutOrStdout(), cli.OutputFlags{})
			return out.KeyValue(report.Links())
		},
	}
}
