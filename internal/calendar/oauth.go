package calendar

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
	gcal "google.golang.org/api/calendar/v3"

	"myges/pkg/logging"
)

// ErrNoClient is returned when no Google OAuth client is configured.
var ErrNoClient = errors.New("no Google OAuth client configured")

// OAuthConfig returns the OAuth2 configuration for the calendar scope.
func OAuthConfig(clientID, clientSecret, redirectURL string) (*oauth2.Config, error) {
	if clientID == "" || clientSecret == "" {
		return nil, ErrNoClient
	}
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Endpoint:     endpoints.Google,
		Scopes:       []string{gcal.CalendarScope},
	}, nil
}

// AuthRequest is a pending authorization: the URL the user opens, and the
// values needed to check the callback and redeem the code.
type AuthRequest struct {
	URL      string
	State    string
	verifier string
}

// NewAuthRequest prepares an authorization request with offline access, so
// that a refresh token is issued, and a PKCE challenge.
func NewAuthRequest(cfg *oauth2.Config) *AuthRequest {
	state := uuid.NewString()
	verifier := oauth2.GenerateVerifier()

	return &AuthRequest{
		URL: cfg.AuthCodeURL(state,
			oauth2.AccessTypeOffline,
			oauth2.ApprovalForce,
			oauth2.S256ChallengeOption(verifier),
		),
		State:    state,
		verifier: verifier,
	}
}

// Exchange redeems an authorization code.
func (r *AuthRequest) Exchange(ctx context.Context, cfg *oauth2.Config, code string) (*oauth2.Token, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, errors.New("empty authorization code")
	}

	tok, err := cfg.Exchange(ctx, code, oauth2.VerifierOption(r.verifier))
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}
	return tok, nil
}

// SaveTokenFunc persists a token.
type SaveTokenFunc func(*oauth2.Token) error

// TokenSource returns a token source starting from tok that calls save
// every time a new access token is obtained.
func TokenSource(ctx context.Context, cfg *oauth2.Config, tok *oauth2.Token, save SaveTokenFunc) oauth2.TokenSource {
	return oauth2.ReuseTokenSource(tok, &persistingTokenSource{
		base: cfg.TokenSource(ctx, tok),
		last: tok.AccessToken,
		save: save,
	})
}

// HTTPClient returns a client authorizing its requests with ts.
func HTTPClient(ctx context.Context, ts oauth2.TokenSource) *http.Client {
	return oauth2.NewClient(ctx, ts)
}

type persistingTokenSource struct {
	base oauth2.TokenSource
	save SaveTokenFunc

	mu   sync.Mutex
	last string
}

func (s *persistingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.base.Token()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if tok.AccessToken != s.last && s.save != nil {
		if err := s.save(tok); err != nil {
			logging.Warn("Calendar", "Failed to save refreshed Google token: %v", err)
		} else {
			logging.Debug("Calendar", "Saved refreshed Google token")
		}
	}
	s.last = tok.AccessToken
	return tok, nil
}
