package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"myges/internal/cli"
	"myges/pkg/logging"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeAuthRequired indicates no valid MyGES session is available.
	ExitCodeAuthRequired = 2
	// ExitCodeAuthFailed indicates the portal rejected the credentials.
	ExitCodeAuthFailed = 3
)

// logLevelEnv overrides the default log level. --debug takes precedence.
const logLevelEnv = "MYGES_LOG_LEVEL"

// rootCmd represents the base command of myges.
var rootCmd = newRootCmd()

// rootOptions holds the global flags shared by every subcommand.
type rootOptions struct {
	flags cli.CommandFlags
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "myges",
		Short: "Command-line client for the MyGES student portal",
		Long: `myges reads your MyGES account from the terminal: absences, grades,
courses, agenda and projects are printed as aligned tables, and your agenda
can be mirrored into Google Calendar.

Start with:
  myges login`,
		// Errors are printed once by Execute.
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := logging.LevelWarn
			if env := os.Getenv(logLevelEnv); env != "" {
				parsed, err := logging.ParseLevel(env)
				if err != nil {
					return fmt.Errorf("%s: %w", logLevelEnv, err)
				}
				level = parsed
			}
			if opts.flags.Debug {
				level = logging.LevelDebug
			}
			logging.InitForCLI(level, cmd.ErrOrStderr())
			return nil
		},
	}

	cli.RegisterGlobalFlags(cmd, &opts.flags)

	cmd.AddCommand(
		newLoginCmd(opts),
		newLogoutCmd(opts),
		newAbsencesCmd(opts),
		newGradesCmd(opts),
		newCoursesCmd(opts),
		newAgendaCmd(opts),
		newProjectsCmd(opts),
		newRequestCmd(opts),
		newCalendarSyncCmd(opts),
		newContributeCmd(),
		newVersionCmd(),
		newSelfUpdateCmd(),
	)

	return cmd
}

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute runs the root command and exits with a code describing the
// failure, if any. Interrupts cancel the command context.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "myges version %s\n" .Version}}`)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		debug, _ := rootCmd.PersistentFlags().GetBool("debug")
		cli.PrintError(rootCmd.ErrOrStderr(), err, debug)
		os.Exit(getExitCode(err))
	}
}

// getExitCode determines the appropriate exit code based on the error type.
// This provides semantic exit codes for scripting and automation.
func getExitCode(err error) int {
	var authRequired *cli.AuthRequiredError
	if errors.As(err, &authRequired) {
		return ExitCodeAuthRequired
	}

	var authExpired *cli.AuthExpiredError
	if errors.As(err, &authExpired) {
		return ExitCodeAuthRequired
	}

	var authFailed *cli.AuthFailedError
	if errors.As(err, &authFailed) {
		return ExitCodeAuthFailed
	}

	return ExitCodeError
}
