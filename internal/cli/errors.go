package cli

import (
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"strings"

	"myges/internal/api"
)

// ConnectionErrorType is the kind of transport failure met while reaching
// the portal or Google.
type ConnectionErrorType int

const (
	ConnectionErrorUnknown ConnectionErrorType = iota
	ConnectionErrorTLS
	ConnectionErrorNetwork
	ConnectionErrorTimeout
	ConnectionErrorDNS
)

var connectionErrorNames = map[ConnectionErrorType]string{
	ConnectionErrorTLS:     "TLS certificate error",
	ConnectionErrorNetwork: "Network error",
	ConnectionErrorTimeout: "Connection timeout",
	ConnectionErrorDNS:     "DNS resolution error",
}

// connectionErrorHints tell the user what to check for each kind.
var connectionErrorHints = map[ConnectionErrorType]string{
	ConnectionErrorTLS: `TLS certificate verification failed.

Possible causes:
  - A proxy intercepts HTTPS traffic with its own certificate
  - The system clock is wrong`,
	ConnectionErrorDNS: `The host name could not be resolved.

Check your network connection and DNS settings.`,
	ConnectionErrorTimeout: `The server did not answer in time.

Try again later or raise api.timeout in the configuration.`,
	ConnectionErrorNetwork: `Connection failed.

Possible causes:
  - You are offline
  - The MyGES servers are down`,
	ConnectionErrorUnknown: "Could not reach the server.",
}

func (t ConnectionErrorType) String() string {
	if name, ok := connectionErrorNames[t]; ok {
		return name
	}
	return "Connection error"
}

// ConnectionError is a request that never got an answer from Endpoint.
type ConnectionError struct {
	Endpoint string
	Type     ConnectionErrorType
	Reason   error
}

func (e *ConnectionError) Error() string {
	hint, ok := connectionErrorHints[e.Type]
	if !ok {
		hint = connectionErrorHints[ConnectionErrorUnknown]
	}
	return fmt.Sprintf("%s: %s: %v\n\n%s", e.Type, e.Endpoint, e.Reason, hint)
}

func (e *ConnectionError) Unwrap() error {
	return e.Reason
}

func (e *ConnectionError) Is(target error) bool {
	_, ok := target.(*ConnectionError)
	return ok
}

// Message fragments of errors that carry no typed cause, as returned by
// some proxies and by wrapped dial failures.
var (
	tlsFragments     = []string{"x509:", "certificate", "tls:", "TLS handshake"}
	timeoutFragments = []string{"timeout", "deadline exceeded"}
	networkFragments = []string{
		"connection refused",
		"connection reset",
		"network is unreachable",
		"no route to host",
		"dial tcp",
		"connect:",
	}
)

// ClassifyConnectionError wraps err in a ConnectionError of the matching
// type. Typed causes are checked before message fragments.
func ClassifyConnectionError(err error, endpoint string) *ConnectionError {
	if err == nil {
		return nil
	}
	return &ConnectionError{Endpoint: endpoint, Type: connectionErrorType(err), Reason: err}
}

func connectionErrorType(err error) ConnectionErrorType {
	var (
		hostErr      *x509.HostnameError
		invalidErr   *x509.CertificateInvalidError
		authorityErr *x509.UnknownAuthorityError
		rootsErr     *x509.SystemRootsError
		dnsErr       *net.DNSError
		netErr       net.Error
	)
	msg := err.Error()

	switch {
	case errors.As(err, &hostErr), errors.As(err, &invalidErr),
		errors.As(err, &authorityErr), errors.As(err, &rootsErr),
		containsAny(msg, tlsFragments):
		return ConnectionErrorTLS
	case errors.As(err, &dnsErr):
		return ConnectionErrorDNS
	case errors.As(err, &netErr) && netErr.Timeout(), containsAny(msg, timeoutFragments):
		return ConnectionErrorTimeout
	case containsAny(msg, networkFragments):
		return ConnectionErrorNetwork
	}
	return ConnectionErrorUnknown
}

func containsAny(s string, fragments []string) bool {
	for _, f := range fragments {
		if strings.Contains(s, f) {
			return true
		}
	}
	return false
}

// AuthRequiredError indicates no MyGES session is saved.
type AuthRequiredError struct{}

// Error returns a user-friendly error message with actionable guidance.
func (e *AuthRequiredError) Error() string {
	return `You are not logged in.

To authenticate, run:
  myges login`
}

// Is allows errors.Is() to work with wrapped errors.
func (e *AuthRequiredError) Is(target error) bool {
	_, ok := target.(*AuthRequiredError)
	return ok
}

// AuthExpiredError indicates the portal rejected the saved token.
type AuthExpiredError struct {
	// Username is the account whose session expired.
	Username string
}

// Error returns a user-friendly error message with actionable guidance.
func (e *AuthExpiredError) Error() string {
	return fmt.Sprintf(`Session expired for %s

To re-authenticate, run:
  myges login`, e.Username)
}

// Is allows errors.Is() to work with wrapped errors.
func (e *AuthExpiredError) Is(target error) bool {
	_, ok := target.(*AuthExpiredError)
	return ok
}

// AuthFailedError indicates the token exchange failed.
type AuthFailedError struct {
	// Username is the account that failed to authenticate.
	Username string
	// Reason is the underlying error.
	Reason error
}

// Error returns a user-friendly error message with actionable guidance.
func (e *AuthFailedError) Error() string {
	return fmt.Sprintf(`Authentication failed for %s: %v

To retry authentication, run:
  myges login`, e.Username, e.Reason)
}

// Unwrap returns the underlying error.
func (e *AuthFailedError) Unwrap() error {
	return e.Reason
}

// Is allows errors.Is() to work with wrapped errors.
func (e *AuthFailedError) Is(target error) bool {
	_, ok := target.(*AuthFailedError)
	return ok
}

// ClassifyRequestError turns transport failures of an API call into a
// ConnectionError. Answers from the portal and other errors are returned
// unchanged.
func ClassifyRequestError(err error, endpoint string) error {
	if err == nil {
		return nil
	}
	var statusErr *api.StatusError
	if errors.As(err, &statusErr) {
		return err
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return ClassifyConnectionError(err, endpoint)
	}
	return err
}

// PrintError writes err to w once. With debug, every wrapped cause is
// listed on its own line.
func PrintError(w io.Writer, err error, debug bool) {
	if err == nil {
		return
	}
	if !debug {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(w, "Error: %+v\n", err)
	for cause := errors.Unwrap(err); cause != nil; cause = errors.Unwrap(cause) {
		fmt.Fprintf(w, "  caused by: %v\n", cause)
	}
}
