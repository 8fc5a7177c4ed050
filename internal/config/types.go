package config

import (
	"time"

	"golang.org/x/oauth2"

	"myges/internal/api"
)

// Config is the content of config.yaml.
type Config struct {
	Account  Account        `yaml:"account"`
	API      APIConfig      `yaml:"api"`
	Google   GoogleConfig   `yaml:"google,omitempty"`
	Calendar CalendarConfig `yaml:"calendar"`
}

// Account is the saved MyGES session.
type Account struct {
	Username    string    `yaml:"username,omitempty"`
	AccessToken string    `yaml:"accessToken,omitempty"`
	TokenType   string    `yaml:"tokenType,omitempty"`
	Expires     time.Time `yaml:"expires,omitempty"`
}

// APIConfig points the client at the portal.
type APIConfig struct {
	BaseURL      string        `yaml:"baseURL,omitempty"`
	AuthorizeURL string        `yaml:"authorizeURL,omitempty"`
	Timeout      time.Duration `yaml:"timeout,omitempty"`
}

// GoogleConfig holds the OAuth client used by calendar-sync and the
// resulting token. An empty RedirectURL selects a loopback redirect on a
// random local port; any other value is shown to the user, who pastes the
// code back.
type GoogleConfig struct {
	ClientID     string       `yaml:"clientID,omitempty"`
	ClientSecret string       `yaml:"clientSecret,omitempty"`
	RedirectURL  string       `yaml:"redirectURL,omitempty"`
	CalendarID   string       `yaml:"calendarID,omitempty"`
	Token        *GoogleToken `yaml:"token,omitempty"`
}

// GoogleToken is the persisted form of an oauth2.Token.
type GoogleToken struct {
	AccessToken  string    `yaml:"accessToken"`
	TokenType    string    `yaml:"tokenType,omitempty"`
	RefreshToken string    `yaml:"refreshToken,omitempty"`
	Expiry       time.Time `yaml:"expiry,omitempty"`
}

// CalendarConfig tunes calendar-sync.
type CalendarConfig struct {
	Days                int     `yaml:"days,omitempty"`
	Concurrency         int     `yaml:"concurrency,omitempty"`
	RequestsPerSecond   float64 `yaml:"requestsPerSecond,omitempty"`
	SummaryTemplate     string  `yaml:"summaryTemplate,omitempty"`
	DescriptionTemplate string  `yaml:"descriptionTemplate,omitempty"`
}

// LoggedIn reports whether a session token was saved.
func (a Account) LoggedIn() bool {
	return a.AccessToken != ""
}

// Expired reports whether the saved token is past its expiry at now. A token
// without an expiry never expires.
func (a Account) Expired(now time.Time) bool {
	if a.Expires.IsZero() {
		return false
	}
	return !now.Before(a.Expires)
}

// Token returns the credentials used to authorize API requests.
func (a Account) Token() api.Token {
	return api.Token{
		AccessToken: a.AccessToken,
		TokenType:   a.TokenType,
	}
}

// SetToken stores a fresh session obtained at now.
func (a *Account) SetToken(tok *api.AccessToken, now time.Time) {
	a.AccessToken = tok.AccessToken
	a.TokenType = tok.TokenType
	a.Expires = time.Time{}
	if tok.ExpiresIn > 0 {
		a.Expires = now.Add(tok.ExpiresIn).UTC()
	}
}

// OAuth2 converts the stored token for use with golang.org/x/oauth2.
func (t *GoogleToken) OAuth2() *oauth2.Token {
	if t == nil {
		return nil
	}
	return &oauth2.Token{
		AccessToken:  t.AccessToken,
		TokenType:    t.TokenType,
		RefreshToken: t.RefreshToken,
		Expiry:       t.Expiry,
	}
}

// NewGoogleToken converts an oauth2.Token for storage.
func NewGoogleToken(tok *oauth2.Token) *GoogleToken {
	if tok == nil {
		return nil
	}
	return &GoogleToken{
		AccessToken:  tok.AccessToken,
		TokenType:    tok.TokenType,
		RefreshToken: tok.RefreshToken,
		Expiry:       tok.Expiry,
	}
}
