package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"myges/internal/api"
	"myges/internal/calendar"
	"myges/internal/cli"
	"myges/internal/config"
)

// fakeProvider is an in-memory calendar.
type fakeProvider struct {
	mu         sync.Mutex
	events     []calendar.Event
	calls      []string
	calendarID string
	timeMin    time.Time
	fail       map[string]error
}

func (p *fakeProvider) ListEvents(ctx context.Context, calendarID string, timeMin, timeMax time.Time) ([]calendar.Event, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calendarID = calendarID
	p.timeMin = timeMin
	return append([]calendar.Event(nil), p.events...), nil
}

func (p *fakeProvider) record(call, id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, call+" "+id)
	return p.fail[id]
}

func (p *fakeProvider) InsertEvent(ctx context.Context, calendarID string, event calendar.Event) error {
	return p.record("insert", event.ID)
}

func (p *fakeProvider) UpdateEvent(ctx context.Context, calendarID string, event calendar.Event) error {
	return p.record("update", event.ID)
}

func (p *fakeProvider) DeleteEvent(ctx context.Context, calendarID, eventID string) error {
	return p.record("delete", eventID)
}

func agendaFixture() string {
	return fmt.Sprintf(`[
		{"reservation_id": 1, "name": "Networks", "type": "Cours", "teacher": "M. Smith",
		 "start_date": %s, "end_date": %s, "rooms": []},
		{"reservation_id": 2, "name": "Go", "type": "Cours", "teacher": "Mme Lee",
		 "start_date": %s, "end_date": %s, "rooms": []}
	]`,
		ms(time.Date(2024, time.October, 15, 14, 0, 0, 0, time.UTC)),
		ms(time.Date(2024, time.October, 15, 16, 0, 0, 0, time.UTC)),
		ms(time.Date(2024, time.October, 16, 9, 0, 0, 0, time.UTC)),
		ms(time.Date(2024, time.October, 16, 11, 0, 0, 0, time.UTC)))
}

// agendaEvents are the events built from agendaFixture.
func agendaEvents(t *testing.T) []calendar.Event {
	t.Helper()
	var items []api.AgendaItem
	if err := json.Unmarshal([]byte(agendaFixture()), &items); err != nil {
		t.Fatal(err)
	}
	tpl, err := calendar.ParseTemplates("", "")
	if err != nil {
		t.Fatal(err)
	}
	events, err := calendar.BuildEvents(items, tpl)
	if err != nil {
		t.Fatal(err)
	}
	return events
}

// newSyncEnv is a test environment with an authorized Google account and
// provider as the calendar.
func newSyncEnv(t *testing.T, provider *fakeProvider, answers ...string) (*testEnv, *string) {
	t.Helper()
	env := newTestEnv(t, answers...)

	agendaQuery := new(string)
	env.mux.HandleFunc("/me/agenda", func(w http.ResponseWriter, r *http.Request) {
		*agendaQuery = r.URL.RawQuery
		writeResult(w, agendaFixture())
	})

	env.update(func(cfg *config.Config) {
		cfg.Google.ClientID = "client-id"
		cfg.Google.ClientSecret = "client-secret"
		cfg.Google.Token = &config.GoogleToken{
			AccessToken:  "google-token",
			TokenType:    "Bearer",
			RefreshToken: "refresh",
			Expiry:       time.Now().Add(time.Hour),
		}
	})

	origProvider := newCalendarProvider
	newCalendarProvider = func(ctx context.Context, client *http.Client) (calendar.Provider, error) {
		if client == nil {
			t.Error("expected an authorized HTTP client")
		}
		return provider, nil
	}
	t.Cleanup(func() { newCalendarProvider = origProvider })

	return env, agendaQuery
}

// staleProvider holds an outdated copy of the first agenda event and an
// event whose class was cancelled.
func staleProvider(t *testing.T) *fakeProvider {
	t.Helper()
	events := agendaEvents(t)
	outdated := events[0]
	outdated.Summary = "Old name"
	cancelled := calendar.Event{
		ID:      calendar.EventID(99),
		Summary: "Cancelled",
		Start:   time.Date(2024, time.October, 17, 9, 0, 0, 0, time.UTC),
		End:     time.Date(2024, time.October, 17, 11, 0, 0, 0, time.UTC),
	}
	return &fakeProvider{events: []calendar.Event{outdated, cancelled}}
}

func TestCalendarSync(t *testing.T) {
	provider := staleProvider(t)
	env, agendaQuery := newSyncEnv(t, provider)

	stdout, _, err := env.run("calendar-sync", "7")
	if err != nil {
		t.Fatalf("calendar-sync failed: %v", err)
	}

	wantStart := "start=" + ms(time.Date(2024, time.October, 15, 0, 0, 0, 0, time.UTC))
	if !strings.Contains(*agendaQuery, wantStart) {
		t.Errorf("expected agenda query to contain %q, got %q", wantStart, *agendaQuery)
	}
	if provider.calendarID != "primary" {
		t.Errorf("expected the primary calendar, got %q", provider.calendarID)
	}
	if !provider.timeMin.Equal(time.Date(2024, time.October, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected listing start %s", provider.timeMin)
	}

	events := agendaEvents(t)
	want := map[string]bool{
		"insert " + events[1].ID:          true,
		"update " + events[0].ID:          true,
		"delete " + calendar.EventID(99): true,
	}
	if len(provider.calls) != len(want) {
		t.Fatalf("unexpected calls %v", provider.calls)
	}
	for _, call := range provider.calls {
		if !want[call] {
			t.Errorf("unexpected call %q", call)
		}
	}

	assertContains(t, stdout,
		"Action", "insert", "update", "delete",
		"16/10/2024 09:00", "Cancelled",
		"1 inserted, 1 updated, 1 deleted, 0 unchanged, 0 failed")
}

func TestCalendarSync_DryRun(t *testing.T) {
	provider := staleProvider(t)
	env, _ := newSyncEnv(t, provider)

	stdout, _, err := env.run("calendar-sync", "7", "--dry-run")
	if err != nil {
		t.Fatalf("calendar-sync failed: %v", err)
	}
	if len(provider.calls) != 0 {
		t.Errorf("expected no calls on a dry run, got %v", provider.calls)
	}
	assertContains(t, stdout, "Networks", "Cancelled", "1 to insert, 1 to update, 1 to delete, 0 unchanged")
}

func TestCalendarSync_UpToDate(t *testing.T) {
	provider := &fakeProvider{events: agendaEvents(t)}
	env, _ := newSyncEnv(t, provider)

	stdout, _, err := env.run("calendar-sync", "7")
	if err != nil {
		t.Fatalf("calendar-sync failed: %v", err)
	}
	if stdout != "Calendar is up to date (2 events).\n" {
		t.Errorf("unexpected output %q", stdout)
	}

	stdout, _, err = env.run("calendar-sync", "7", "-o", "json")
	if err != nil {
		t.Fatalf("calendar-sync failed: %v", err)
	}
	if strings.TrimSpace(stdout) != "[]" {
		t.Errorf("expected an empty list, got %q", stdout)
	}
}

func TestCalendarSync_CalendarFlag(t *testing.T) {
	provider := &fakeProvider{events: agendaEvents(t)}
	env, _ := newSyncEnv(t, provider)

	if _, _, err := env.run("calendar-sync", "7", "--calendar", "school@group.calendar.google.com"); err != nil {
		t.Fatalf("calendar-sync failed: %v", err)
	}
	if provider.calendarID != "school@group.calendar.google.com" {
		t.Errorf("unexpected calendar %q", provider.calendarID)
	}
}

func TestCalendarSync_PartialFailure(t *testing.T) {
	provider := staleProvider(t)
	events := agendaEvents(t)
	provider.fail = map[string]error{events[1].ID: errors.New("forbidden")}
	env, _ := newSyncEnv(t, provider)

	stdout, _, err := env.run("calendar-sync", "7")
	if err == nil || !strings.Contains(err.Error(), "1 of 3 events could not be synced") {
		t.Fatalf("expected a partial failure, got %v", err)
	}
	assertContains(t, stdout, "Error", "forbidden", "0 inserted, 1 updated, 1 deleted, 0 unchanged, 1 failed")
}

func TestCalendarSync_PromptsForDays(t *testing.T) {
	provider := &fakeProvider{events: agendaEvents(t)}
	env, agendaQuery := newSyncEnv(t, provider, "")

	if _, _, err := env.run("calendar-sync"); err != nil {
		t.Fatalf("calendar-sync failed: %v", err)
	}
	if len(env.prompter.labels) != 1 || env.prompter.labels[0] != "Choose a number of days" {
		t.Errorf("unexpected prompts %v", env.prompter.labels)
	}
	wantEnd := "end=" + ms(time.Date(2024, time.October, 22, 23, 59, 59, 0, time.UTC))
	if !strings.Contains(*agendaQuery, wantEnd) {
		t.Errorf("expected the default of 7 days (%q), got %q", wantEnd, *agendaQuery)
	}
}

func TestCalendarSync_InvalidDays(t *testing.T) {
	for _, days := range []string{"0", "week"} {
		env, _ := newSyncEnv(t, &fakeProvider{})

		_, _, err := env.run("calendar-sync", days)
		want := fmt.Sprintf("invalid number of days %q", days)
		if err == nil || err.Error() != want {
			t.Errorf("calendar-sync %s: expected %q, got %v", days, want, err)
		}
	}
}

func TestCalendarSync_NoGoogleClient(t *testing.T) {
	provider := &fakeProvider{}
	env, _ := newSyncEnv(t, provider, "", "")
	env.update(func(cfg *config.Config) {
		cfg.Google = config.GoogleConfig{}
	})

	_, stderr, err := env.run("calendar-sync", "7")
	if !errors.Is(err, calendar.ErrNoClient) {
		t.Fatalf("expected ErrNoClient, got %v", err)
	}
	assertContains(t, stderr, "Desktop app")
	if len(env.prompter.labels) != 2 || env.prompter.labels[1] != "Google OAuth client secret" {
		t.Errorf("unexpected prompts %v", env.prompter.labels)
	}
}

func TestPrintSync_ShortensCells(t *testing.T) {
	long := strings.Repeat("Advanced networks ", 5)
	outcomes := []calendar.Outcome{{
		Action: calendar.ActionInsert,
		Event:  calendar.Event{Summary: long, Start: testNow},
		Err:    errors.New("quota\nexceeded"),
	}}

	var buf strings.Builder
	if err := printSync(cli.NewOutput(&buf, cli.OutputFlags{}), outcomes, "done"); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), long) {
		t.Errorf("expected the summary to be shortened, got:\n%s", buf.String())
	}
	assertContains(t, buf.String(), "Advanced networks Advanced", "...", "quota exceeded", "done")

	buf.Reset()
	if err := printSync(cli.NewOutput(&buf, cli.OutputFlags{OutputFormat: "json"}), outcomes, "done"); err != nil {
		t.Fatal(err)
	}
	assertContains(t, buf.String(), strings.TrimSpace(long))
}
