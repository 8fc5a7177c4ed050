// Package api is the MyGES portal client.
//
// Authentication follows the mobile application's implicit OAuth flow: the
// authorize endpoint is called with HTTP Basic credentials and answers with
// a redirect whose fragment carries the access token. Authenticate performs
// that exchange without following the redirect.
//
//	tok, err := api.Authenticate(ctx, api.DefaultAuthorizeURL, username, password)
//	if errors.Is(err, api.ErrBadCredentials) {
//	    // wrong username or password
//	}
//
// A Client then calls the REST API with the token. Every response body has
// the shape {"result": ...}; the client unwraps it before decoding.
//
//	c := api.NewClient(api.Token{AccessToken: tok.AccessToken, TokenType: tok.TokenType},
//	    api.WithTimeout(10*time.Second))
//	grades, err := c.Grades(ctx, 2024)
//
// # Errors
//
// Non-2xx answers are returned as *StatusError. A 401 answer also matches
// ErrUnauthorized so callers can detect an expired session:
//
//	if errors.Is(err, api.ErrUnauthorized) {
//	    // ask for the password again
//	}
//
// # Types
//
// The portal mixes numbers, numeric strings and nulls for the same fields
// across years. Number accepts all three; Millis decodes the epoch
// millisecond timestamps used for every date.
package api
