// Package config persists the myges configuration.
//
// Everything lives in a single YAML file, config.yaml, inside the
// configuration directory. The default directory is ~/.config/myges; it can
// be overridden with the MYGES_CONFIG_PATH environment variable or the
// --config-path flag.
//
// The file stores the MyGES session (account), the API endpoints, the Google
// OAuth client and token used by calendar-sync, and the calendar-sync
// tuning. Unset values are filled with defaults on load.
//
// # File Permissions
//
// The file holds access tokens:
//   - config.yaml is written with 0600 permissions (owner read/write only)
//   - the configuration directory is created with 0700 permissions
package config
