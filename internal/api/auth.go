package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"myges/pkg/logging"
)

// DefaultAuthorizeURL is the implicit-flow endpoint used by the mobile app.
const DefaultAuthorizeURL = "https://authentication.kordis.fr/oauth/authorize?response_type=token&client_id=skolae-app"

// AccessToken is the result of a successful authentication.
type AccessToken struct {
	AccessToken string
	TokenType   string
	ExpiresIn   time.Duration
	Scope       string
	UID         string
}

// Token returns the credentials used to authorize requests.
func (t *AccessToken) Token() Token {
	return Token{AccessToken: t.AccessToken, TokenType: t.TokenType}
}

// AuthOption configures Authenticate.
type AuthOption func(*http.Client)

// WithAuthHTTPClient bases the authentication client on c. Its redirect
// policy is always replaced.
func WithAuthHTTPClient(c *http.Client) AuthOption {
	return func(dst *http.Client) {
		*dst = *c
	}
}

// Authenticate exchanges a username and password for an access token.
func Authenticate(ctx context.Context, authorizeURL, username, password string, opts ...AuthOption) (*AccessToken, error) {
	client := &http.Client{Timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(client)
	}
	// The portal redirects to a custom scheme; the token is in the Location.
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, authorizeURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create authorize request: %w", err)
	}
	req.SetBasicAuth(username, password)

	logging.Debug("Auth", "Requesting access token for %s", username)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("authorize request failed: %w", err)
	}
	defer resp.Body.Close()

	location := resp.Header.Get("Location")
	if location == "" {
		logging.Debug("Auth", "Authorize endpoint answered %d without redirect", resp.StatusCode)
		return nil, ErrBadCredentials
	}

	return parseTokenLocation(location)
}

// parseTokenLocation reads the token fields from the fragment of a redirect
// target such as comreseaugesskolae:/oauth2redirect#access_token=...
func parseTokenLocation(location string) (*AccessToken, error) {
	_, fragment, found := strings.Cut(location, "#")
	if !found {
		return nil, ErrBadCredentials
	}

	values, err := url.ParseQuery(fragment)
	if err != nil {
		return nil, fmt.Errorf("failed to parse token redirect: %w", err)
	}

	tok := &AccessToken{
		AccessToken: values.Get("access_token"),
		TokenType:   values.Get("token_type"),
		Scope:       values.Get("scope"),
		UID:         values.Get("uid"),
	}
	if tok.AccessToken == "" {
		return nil, ErrBadCredentials
	}
	if tok.TokenType == "" {
		tok.TokenType = "bearer"
	}
	if s := values.Get("expires_in"); s != "" {
		secs, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid expires_in %q: %w", s, err)
		}
		tok.ExpiresIn = time.Duration(secs) * time.Second
	}

	return tok, nil
}
