package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"myges/internal/cli"
	"myges/internal/config"
)

// testNow is a Tuesday.
var testNow = time.Date(2024, time.October, 15, 10, 0, 0, 0, time.UTC)

// fakePrompter answers prompts from a list, in order. Running out of
// answers aborts like Ctrl-D would.
type fakePrompter struct {
	answers []string
	labels  []string
	closed  bool
}

func (p *fakePrompter) next(label string) (string, error) {
	p.labels = append(p.labels, label)
	if len(p.answers) == 0 {
		return "", cli.ErrAborted
	}
	answer := p.answers[0]
	p.answers = p.answers[1:]
	return answer, nil
}

func (p *fakePrompter) Input(label, def string) (string, error) {
	answer, err := p.next(label)
	if err != nil {
		return "", err
	}
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

func (p *fakePrompter) Password(label string) (string, error) {
	return p.next(label)
}

func (p *fakePrompter) Select(label string, options []string, def int) (int, error) {
	answer, err := p.next(label)
	if err != nil {
		return 0, err
	}
	return cli.ParseChoice(answer, len(options), def)
}

func (p *fakePrompter) Confirm(label string, def bool) (bool, error) {
	answer, err := p.next(label)
	if err != nil {
		return false, err
	}
	return cli.ParseConfirm(answer, def)
}

func (p *fakePrompter) Close() error {
	p.closed = true
	return nil
}

// testEnv is a logged in configuration pointing at a fake portal.
type testEnv struct {
	t        *testing.T
	dir      string
	server   *httptest.Server
	mux      *http.ServeMux
	prompter *fakePrompter
}

func newTestEnv(t *testing.T, answers ...string) *testEnv {
	t.Helper()

	e := &testEnv{
		t:        t,
		dir:      t.TempDir(),
		mux:      http.NewServeMux(),
		prompter: &fakePrompter{answers: answers},
	}
	e.server = httptest.NewServer(e.mux)
	t.Cleanup(e.server.Close)

	cfg := config.Default()
	cfg.API.BaseURL = e.server.URL
	cfg.API.AuthorizeURL = e.server.URL + "/oauth/authorize?response_type=token&client_id=skolae-app"
	cfg.Account = config.Account{Username: "jdoe", AccessToken: "tok", TokenType: "bearer"}
	if err := config.Save(e.dir, cfg); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	origNow, origLocation, origPrompter := now, location, newPrompter
	now = func() time.Time { return testNow }
	location = time.UTC
	newPrompter = func(*cobra.Command) (cli.Prompter, error) { return e.prompter, nil }
	t.Cleanup(func() {
		now, location, newPrompter = origNow, origLocation, origPrompter
	})

	return e
}

// update changes the saved configuration.
func (e *testEnv) update(fn func(cfg *config.Config)) {
	e.t.Helper()
	cfg := e.config()
	fn(cfg)
	if err := config.Save(e.dir, cfg); err != nil {
		e.t.Fatalf("failed to save config: %v", err)
	}
}

func (e *testEnv) config() *config.Config {
	e.t.Helper()
	cfg, err := config.Load(e.dir)
	if err != nil {
		e.t.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

// result answers pattern with {"result": result}.
func (e *testEnv) result(pattern, result string) {
	e.mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "bearer tok" {
			e.t.Errorf("%s: expected Authorization 'bearer tok', got %q", pattern, got)
		}
		writeResult(w, result)
	})
}

func writeResult(w http.ResponseWriter, result string) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, `{"result":`+result+`}`)
}

// run executes the command line against the test configuration.
func (e *testEnv) run(args ...string) (stdout, stderr string, err error) {
	e.t.Helper()

	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(""))
	root.SetArgs(append(args, "--config-path", e.dir))

	err = root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

// ms formats t as epoch milliseconds for JSON fixtures.
func ms(t time.Time) string {
	return fmt.Sprint(t.UnixMilli())
}

func assertContains(t *testing.T, output string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(output, w) {
			t.Errorf("expected output to contain %q, got:\n%s", w, output)
		}
	}
}
