// Package cli holds the command-line plumbing shared by the myges commands.
//
// # Flags
//
// CommandFlags are registered once on the root command (--debug, --quiet,
// --config-path). OutputFlags are registered on every data command
// (--raw, --output, --no-headers).
//
// # Output
//
// Output prints command results: tables through the display engine, or the
// API data as JSON/YAML when --raw or --output asks for it. Empty results
// print NothingToDisplay. Table headers are cyan when stdout is a terminal.
//
// # Interaction
//
// Prompter asks for usernames, passwords, years and confirmations;
// ReadlinePrompter implements it on github.com/chzyer/readline. Progress
// wraps a spinner shown on stderr during API calls.
//
// # Errors
//
// The typed errors (AuthRequiredError, AuthExpiredError, AuthFailedError,
// ConnectionError) carry actionable guidance and drive the exit code of the
// program. PrintError prints an error once, with its causes in debug mode.
package cli
