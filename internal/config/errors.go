package config

import "fmt"

// ConfigurationError reports a config.yaml that could not be read or parsed.
type ConfigurationError struct {
	FilePath  string
	ErrorType string // "io" or "parse"
	Err       error
}

func (ce *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration %s error in %s: %v", ce.ErrorType, ce.FilePath, ce.Err)
}

func (ce *ConfigurationError) Unwrap() error {
	return ce.Err
}
