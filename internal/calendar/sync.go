package calendar

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v5"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"myges/pkg/logging"
)

const (
	// DefaultConcurrency is the number of calls in flight at once.
	DefaultConcurrency = 4

	// DefaultRequestsPerSecond stays below the per-user quota of the
	// Calendar API.
	DefaultRequestsPerSecond = 5

	// DefaultMaxTries bounds the attempts made for a throttled call.
	DefaultMaxTries = 5
)

// Action is the kind of call made for an event.
type Action string

const (
	ActionInsert Action = "insert"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Outcome is the result of the call made for one event.
type Outcome struct {
	Action Action
	Event  Event
	Err    error
}

// Result summarizes an applied plan. Outcomes follow the plan order:
// inserts, then updates, then deletions.
type Result struct {
	Inserted  int
	Updated   int
	Deleted   int
	Unchanged int
	Failed    int
	Outcomes  []Outcome
}

// ProgressFunc is called after each call with the number of finished calls
// and the total.
type ProgressFunc func(done, total int)

// SyncerOption configures a Syncer.
type SyncerOption func(*Syncer)

// WithConcurrency sets the number of concurrent calls. Values below 1 are
// ignored.
func WithConcurrency(n int) SyncerOption {
	return func(s *Syncer) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithRate limits the calls per second. A value of zero or less disables
// the limit.
func WithRate(perSecond float64) SyncerOption {
	return func(s *Syncer) {
		if perSecond <= 0 {
			s.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		s.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// WithRetry sets the backoff policy and the maximum number of attempts for
// throttled calls.
func WithRetry(newBackOff func() backoff.BackOff, maxTries uint) SyncerOption {
	return func(s *Syncer) {
		s.newBackOff = newBackOff
		s.maxTries = maxTries
	}
}

// WithProgress registers a progress callback. It may be called from several
// goroutines.
func WithProgress(fn ProgressFunc) SyncerOption {
	return func(s *Syncer) {
		s.progress = fn
	}
}

// Syncer applies plans through a Provider.
type Syncer struct {
	provider    Provider
	concurrency int
	limiter     *rate.Limiter
	newBackOff  func() backoff.BackOff
	maxTries    uint
	progress    ProgressFunc
}

// NewSyncer creates a syncer for provider.
func NewSyncer(provider Provider, opts ...SyncerOption) *Syncer {
	s := &Syncer{
		provider:    provider,
		concurrency: DefaultConcurrency,
		limiter:     rate.NewLimiter(DefaultRequestsPerSecond, 1),
		newBackOff:  func() backoff.BackOff { return backoff.NewExponentialBackOff() },
		maxTries:    DefaultMaxTries,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type task struct {
	action Action
	event  Event
}

// Apply runs every call of plan. A failed call does not stop the others:
// the errors of all failed calls are joined in the returned error, and the
// Result counts what succeeded.
func (s *Syncer) Apply(ctx context.Context, calendarID string, plan Plan) (Result, error) {
	tasks := make([]task, 0, plan.Len())
	for _, ev := range plan.Insert {
		tasks = append(tasks, task{action: ActionInsert, event: ev})
	}
	for _, ev := range plan.Update {
		tasks = append(tasks, task{action: ActionUpdate, event: ev})
	}
	for _, ev := range plan.Delete {
		tasks = append(tasks, task{action: ActionDelete, event: ev})
	}

	total := len(tasks)
	outcomes := make([]Outcome, total)

	var outstanding atomic.Int64
	outstanding.Store(int64(total))

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, t := range tasks {
		g.Go(func() error {
			action, err := s.run(ctx, calendarID, t)
			outcomes[i] = Outcome{Action: action, Event: t.event, Err: err}

			left := outstanding.Add(-1)
			if s.progress != nil {
				s.progress(total-int(left), total)
			}
			return nil
		})
	}
	_ = g.Wait()

	result := Result{Unchanged: plan.Unchanged, Outcomes: outcomes}
	var errs []error
	for _, o := range outcomes {
		if o.Err != nil {
			result.Failed++
			errs = append(errs, fmt.Errorf("%s %q: %w", o.Action, o.Event.Summary, o.Err))
			continue
		}
		switch o.Action {
		case ActionInsert:
			result.Inserted++
		case ActionUpdate:
			result.Updated++
		case ActionDelete:
			result.Deleted++
		}
	}

	logging.Debug("Calendar", "Applied %d calls: %d inserted, %d updated, %d deleted, %d failed",
		total, result.Inserted, result.Updated, result.Deleted, result.Failed)

	return result, errors.Join(errs...)
}

// run performs the call for t and returns the action actually taken: an
// insert rejected because the id exists becomes an update.
func (s *Syncer) run(ctx context.Context, calendarID string, t task) (Action, error) {
	switch t.action {
	case ActionInsert:
		err := s.call(ctx, func() error {
			return s.provider.InsertEvent(ctx, calendarID, t.event)
		})
		if !errors.Is(err, ErrConflict) {
			return ActionInsert, err
		}
		logging.Debug("Calendar", "Event %s already exists, updating it", t.event.ID)
		return ActionUpdate, s.call(ctx, func() error {
			return s.provider.UpdateEvent(ctx, calendarID, t.event)
		})

	case ActionUpdate:
		return ActionUpdate, s.call(ctx, func() error {
			return s.provider.UpdateEvent(ctx, calendarID, t.event)
		})

	case ActionDelete:
		return ActionDelete, s.call(ctx, func() error {
			return s.provider.DeleteEvent(ctx, calendarID, t.event.ID)
		})
	}
	return t.action, fmt.Errorf("unknown action %q", t.action)
}

// call runs op under the rate limit, retrying it while it fails with
// ErrThrottled.
func (s *Syncer) call(ctx context.Context, op func() error) error {
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		if err := s.limiter.Wait(ctx); err != nil {
			return struct{}{}, backoff.Permanent(err)
		}
		err := op()
		if err != nil && !errors.Is(err, ErrThrottled) {
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, err
	},
		backoff.WithBackOff(s.newBackOff()),
		backoff.WithMaxTries(s.maxTries),
		backoff.WithNotify(func(err error, next time.Duration) {
			logging.Debug("Calendar", "Retrying in %s: %v", next, err)
		}),
	)
	return err
}
