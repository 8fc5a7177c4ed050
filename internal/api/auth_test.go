package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthenticate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "jdoe" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		assert.Equal(t, "token", r.URL.Query().Get("response_type"))
		w.Header().Set("Location", "comreseaugesskolae:/oauth2redirect#access_token=abc-123&token_type=bearer&expires_in=86400&scope=&uid=4242")
		w.WriteHeader(http.StatusFound)
	}))
	defer server.Close()

	authorizeURL := server.URL + "/oauth/authorize?response_type=token&client_id=skolae-app"

	t.Run("valid credentials", func(t *testing.T) {
		tok, err := Authenticate(context.Background(), authorizeURL, "jdoe", "secret")
		require.NoError(t, err)

		assert.Equal(t, "abc-123", tok.AccessToken)
		assert.Equal(t, "bearer", tok.TokenType)
		assert.Equal(t, 24*time.Hour, tok.ExpiresIn)
		assert.Equal(t, "4242", tok.UID)
		assert.Equal(t, Token{AccessToken: "abc-123", TokenType: "bearer"}, tok.Token())
	})

	t.Run("bad password", func(t *testing.T) {
		_, err := Authenticate(context.Background(), authorizeURL, "jdoe", "wrong")
		assert.True(t, errors.Is(err, ErrBadCredentials))
	})
}

func TestAuthenticate_ConnectionError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := Authenticate(context.Background(), url, "jdoe", "secret")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrBadCredentials))
}

func TestParseTokenLocation(t *testing.T) {
	tests := []struct {
		name     string
		location string
		want     *AccessToken
		wantErr  error
	}{
		{
			name:     "full fragment",
			location: "comreseaugesskolae:/oauth2redirect#access_token=a%2Bb&token_type=bearer&expires_in=60&scope=read&uid=1",
			want:     &AccessToken{AccessToken: "a+b", TokenType: "bearer", ExpiresIn: time.Minute, Scope: "read", UID: "1"},
		},
		{
			name:     "default token type",
			location: "x:/#access_token=a",
			want:     &AccessToken{AccessToken: "a", TokenType: "bearer"},
		},
		{
			name:     "no fragment",
			location: "https://authentication.kordis.fr/login",
			wantErr:  ErrBadCredentials,
		},
		{
			name:     "no token in fragment",
			location: "x:/#error=access_denied",
			wantErr:  ErrBadCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseTokenLocation(tt.location)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTokenLocation_InvalidExpiry(t *testing.T) {
	_, err := parseTokenLocation("x:/#access_token=a&expires_in=soon")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrBadCredentials)
}
