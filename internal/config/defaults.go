package config

import "time"

const (
	DefaultBaseURL      = "https://api.kordis.fr"
	DefaultAuthorizeURL = "https://authentication.kordis.fr/oauth/authorize?response_type=token&client_id=skolae-app"
	DefaultTimeout      = 30 * time.Second

	DefaultCalendarDays      = 7
	DefaultConcurrency       = 4
	DefaultRequestsPerSecond = 5
	DefaultCalendarID        = "primary"
)

// Default returns a configuration with every default applied and no session.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills every unset field.
func (c *Config) applyDefaults() {
	if c.API.BaseURL == "" {
		c.API.BaseURL = DefaultBaseURL
	}
	if c.API.AuthorizeURL == "" {
		c.API.AuthorizeURL = DefaultAuthorizeURL
	}
	if c.API.Timeout <= 0 {
		c.API.Timeout = DefaultTimeout
	}
	if c.Google.CalendarID == "" {
		c.Google.CalendarID = DefaultCalendarID
	}
	if c.Calendar.Days <= 0 {
		c.Calendar.Days = DefaultCalendarDays
	}
	if c.Calendar.Concurrency <= 0 {
		c.Calendar.Concurrency = DefaultConcurrency
	}
	if c.Calendar.RequestsPerSecond <= 0 {
		c.Calendar.RequestsPerSecond = DefaultRequestsPerSecond
	}
}
