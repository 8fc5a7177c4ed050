package calendar

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"sync"
	"time"
)

// CallbackTimeout is how long to wait for the user to authorize access.
const CallbackTimeout = 5 * time.Minute

const callbackPath = "/oauth2callback"

var callbackPage = template.Must(template.New("callback").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>myges</title></head>
<body>
{{- if .Error }}
<h1>Authorization failed</h1>
<p>{{ .Error }}{{ with .Description }}: {{ . }}{{ end }}</p>
{{- else }}
<h1>Google Calendar connected</h1>
<p>You can close this window and return to the terminal.</p>
{{- end }}
</body>
</html>
`))

// CallbackResult is the query of the redirect sent by Google.
type CallbackResult struct {
	Code             string
	State            string
	Error            string
	ErrorDescription string
}

// Err returns the authorization error carried by the callback, if any.
func (r *CallbackResult) Err() error {
	if r.Error == "" {
		return nil
	}
	if r.ErrorDescription != "" {
		return fmt.Errorf("authorization denied: %s: %s", r.Error, r.ErrorDescription)
	}
	return fmt.Errorf("authorization denied: %s", r.Error)
}

// CallbackServer is a loopback HTTP server receiving a single OAuth
// redirect.
type CallbackServer struct {
	server   *http.Server
	listener net.Listener
	resultCh chan *CallbackResult
	errorCh  chan error
	once     sync.Once
	url      string
}

// NewCallbackServer creates a callback server. It listens once Start is
// called.
func NewCallbackServer() *CallbackServer {
	return &CallbackServer{
		resultCh: make(chan *CallbackResult, 1),
		errorCh:  make(chan error, 1),
	}
}

// Start listens on a random loopback port and returns the redirect URL to
// register in the authorization request. The server stops when ctx is done.
func (s *CallbackServer) Start(ctx context.Context) (string, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", fmt.Errorf("failed to start callback server: %w", err)
	}

	s.listener = listener
	s.url = fmt.Sprintf("http://127.0.0.1:%d%s", listener.Addr().(*net.TCPAddr).Port, callbackPath)

	mux := http.NewServeMux()
	mux.HandleFunc(callbackPath, s.handleCallback)
	s.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			select {
			case s.errorCh <- err:
			default:
			}
		}
	}()

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return s.url, nil
}

// URL returns the redirect URL, empty before Start.
func (s *CallbackServer) URL() string {
	return s.url
}

// Wait blocks until the redirect is received, the server fails or ctx is
// done.
func (s *CallbackServer) Wait(ctx context.Context) (*CallbackResult, error) {
	select {
	case result := <-s.resultCh:
		return result, nil
	case err := <-s.errorCh:
		return nil, err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *CallbackServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	handled := false
	s.once.Do(func() {
		handled = true
		s.processCallback(w, r)
	})

	if !handled {
		http.Error(w, "Callback already processed", http.StatusBadRequest)
	}
}

func (s *CallbackServer) processCallback(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("X-Frame-Options", "DENY")
	w.Header().Set("Referrer-Policy", "no-referrer")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	query := r.URL.Query()
	result := &CallbackResult{
		Code:             query.Get("code"),
		State:            query.Get("state"),
		Error:            query.Get("error"),
		ErrorDescription: query.Get("error_description"),
	}

	if err := callbackPage.Execute(w, map[string]string{
		"Error":       result.Error,
		"Description": result.ErrorDescription,
	}); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}

	select {
	case s.resultCh <- result:
	default:
	}
}

// Stop shuts the server down.
func (s *CallbackServer) Stop() {
	if s.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(ctx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
	}
}
