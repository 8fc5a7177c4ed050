package cli

import (
	"github.com/spf13/cobra"
)

// CommandFlags holds the global flag values shared by every command.
type CommandFlags struct {
	// Debug enables debug logging and full error chains
	Debug bool
	// Quiet suppresses progress indicators and non-essential output
	Quiet bool
	// ConfigPath specifies a custom configuration directory path
	ConfigPath string
}

// RegisterGlobalFlags registers the global flags on the root command.
//
// The registered flags are:
//   - --debug/-d: Enable debug logging
//   - --quiet/-q: Suppress non-essential output
//   - --config-path: Configuration directory (env: MYGES_CONFIG_PATH)
func RegisterGlobalFlags(cmd *cobra.Command, flags *CommandFlags) {
	cmd.PersistentFlags().BoolVarP(&flags.Debug, "debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().BoolVarP(&flags.Quiet, "quiet", "q", false, "Suppress non-essential output")
	cmd.PersistentFlags().StringVar(&flags.ConfigPath, "config-path", "", "Configuration directory (default ~/.config/myges, env: MYGES_CONFIG_PATH)")
}

// OutputFlags holds the output flag values of data commands.
type OutputFlags struct {
	// Raw prints the API data as compact JSON
	Raw bool
	// OutputFormat specifies the desired output format (table, json, yaml)
	OutputFormat string
	// NoHeaders suppresses the header row in table output
	NoHeaders bool
}

// RegisterOutputFlags registers the output flags of a data command.
//
// The registered flags are:
//   - --raw/-r: Output the raw data
//   - --output/-o: Output format (table, json, yaml), default: "table"
//   - --no-headers: Suppress header row in table output
func RegisterOutputFlags(cmd *cobra.Command, flags *OutputFlags) {
	cmd.Flags().BoolVarP(&flags.Raw, "raw", "r", false, "Output the raw data")
	cmd.Flags().StringVarP(&flags.OutputFormat, "output", "o", string(OutputFormatTable), "Output format (table, json, yaml)")
	cmd.Flags().BoolVar(&flags.NoHeaders, "no-headers", false, "Suppress header row in table output")
}

// Format returns the effective output format. --raw selects JSON.
func (f *OutputFlags) Format() OutputFormat {
	if f.Raw {
		return OutputFormatJSON
	}
	if f.OutputFormat == "" {
		return OutputFormatTable
	}
	return OutputFormat(f.OutputFormat)
}

// Validate checks the flag combination.
func (f *OutputFlags) Validate() error {
	return ValidateOutputFormat(string(f.Format()))
}
