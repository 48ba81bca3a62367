// Package poll bridges the gap between "upload accepted" and "analysis
// available". A controller drives status queries for one resume at a time on
// a fixed backoff schedule, bounded in both duration and attempt count, and
// never overlaps two timer chains.
package poll

import (
	"context"
	"sync"
	"time"

	"resume-insights/internal/api"
	"resume-insights/internal/shared/telemetry"
)

// DefaultSchedule is the backoff between attempts. Seven attempts with six
// intervening waits span roughly 25 seconds before a session is abandoned.
var DefaultSchedule = []time.Duration{
	800 * time.Millisecond,
	1200 * time.Millisecond,
	2 * time.Second,
	3 * time.Second,
	4 * time.Second,
	5 * time.Second,
	6 * time.Second,
}

// Outcome is the terminal state of one poll session.
type Outcome int

const (
	// Completed means a result was obtained and the refresh callback ran.
	Completed Outcome = iota
	// Abandoned means attempts were exhausted or the session was cancelled.
	// An absent result after abandonment is "not yet ready", not a failure.
	Abandoned
)

func (o Outcome) String() string {
	if o == Completed {
		return "completed"
	}
	return "abandoned"
}

// StatusFetcher queries the analysis status endpoint.
type StatusFetcher interface {
	GetAnalysis(ctx context.Context, token, resumeID string) (api.AnalysisResult, error)
}

// TokenSource supplies the bearer token for outbound queries. The controller
// only ever reads the credential; it never mutates session state.
type TokenSource interface {
	Token() string
}

// Controller runs at most one live Session. Starting a new session cancels
// the previous one synchronously, so there is never more than one pending
// timer or attributable in-flight query.
type Controller struct {
	fetch    StatusFetcher
	tokens   TokenSource
	refresh  func(ctx context.Context) error
	schedule []time.Duration
	sleep    func(ctx context.Context, d time.Duration) error

	mu      sync.Mutex
	current *Session
}

// Option configures a Controller.
type Option func(*Controller)

// WithSchedule overrides the backoff schedule. Intended for tests.
func WithSchedule(schedule []time.Duration) Option {
	return func(c *Controller) {
		if len(schedule) > 0 {
			c.schedule = schedule
		}
	}
}

// WithSleeper overrides the wait primitive. Intended for tests, which can
// count waits and resolve them instantly.
func WithSleeper(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(c *Controller) {
		if sleep != nil {
			c.sleep = sleep
		}
	}
}

// NewController builds a Controller. refresh is invoked exactly once when a
// session completes, before the session is reported done; it may be nil.
func NewController(fetch StatusFetcher, tokens TokenSource, refresh func(ctx context.Context) error, opts ...Option) *Controller {
	c := &Controller{
		fetch:    fetch,
		tokens:   tokens,
		refresh:  refresh,
		schedule: DefaultSchedule,
		sleep:    sleepWithContext,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session is the live state of one polling attempt chain.
type Session struct {
	resumeID string
	cancel   context.CancelFunc
	done     chan struct{}

	mu       sync.Mutex
	outcome  Outcome
	result   *api.AnalysisResult
	attempts int
}

// Start begins polling for resumeID, cancelling any prior session first. The
// only fatal start condition is a missing credential, which is reported as an
// auth error with no session begun.
func (c *Controller) Start(ctx context.Context, resumeID string) (*Session, error) {
	token := c.tokens.Token()
	if token == "" {
		return nil, &api.Error{Kind: api.KindAuth, Message: "not logged in"}
	}

	runCtx, cancel := context.WithCancel(ctx)
	s := &Session{
		resumeID: resumeID,
		cancel:   cancel,
		done:     make(chan struct{}),
	}

	c.mu.Lock()
	if prev := c.current; prev != nil {
		prev.cancel()
	}
	c.current = s
	c.mu.Unlock()

	go c.run(runCtx, s, token)
	return s, nil
}

// Cancel stops the active session, if any. The pending timer is dropped
// immediately and no further attempts are scheduled; the result of a query
// already in flight is ignored.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current != nil {
		c.current.cancel()
		c.current = nil
	}
}

// Active reports whether a session is currently polling.
func (c *Controller) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current != nil
}

// run issues attempts strictly sequentially: attempt i+1 never begins before
// attempt i's query has resolved and, on failure, its wait has elapsed.
// Cancellation is observed at attempt boundaries and during waits, never
// mid-request.
func (c *Controller) run(ctx context.Context, s *Session, token string) {
	defer s.cancel()

	for i := range c.schedule {
		if ctx.Err() != nil {
			c.finish(s, Abandoned, nil)
			return
		}

		s.mu.Lock()
		s.attempts++
		s.mu.Unlock()

		result, err := c.fetch.GetAnalysis(ctx, token, s.resumeID)
		if ctx.Err() != nil {
			// Cancelled while the query was in flight; whatever came back
			// no longer belongs to anyone.
			c.finish(s, Abandoned, nil)
			return
		}
		if err == nil {
			c.runRefresh(ctx, s)
			c.finish(s, Completed, &result)
			return
		}
		// Not-found ("not ready yet") and transport errors are deliberately
		// indistinguishable here; both mean try again later.

		if i == len(c.schedule)-1 {
			break
		}
		if err := c.sleep(ctx, c.schedule[i]); err != nil {
			c.finish(s, Abandoned, nil)
			return
		}
	}

	c.finish(s, Abandoned, nil)
}

func (c *Controller) runRefresh(ctx context.Context, s *Session) {
	if c.refresh == nil {
		return
	}
	if err := c.refresh(ctx); err != nil {
		telemetry.Warn("poll.refresh_failed", map[string]any{
			"resume_id": s.resumeID,
			"err":       err.Error(),
		})
	}
}

func (c *Controller) finish(s *Session, outcome Outcome, result *api.AnalysisResult) {
	s.mu.Lock()
	s.outcome = outcome
	s.result = result
	s.mu.Unlock()

	c.mu.Lock()
	if c.current == s {
		c.current = nil
	}
	c.mu.Unlock()

	close(s.done)
}

// Wait blocks until the session reaches a terminal state.
func (s *Session) Wait() Outcome {
	<-s.done
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outcome
}

// Done exposes the session's completion channel for select loops.
func (s *Session) Done() <-chan struct{} { return s.done }

// Result returns the obtained analysis, or nil after abandonment. Valid once
// the session is done.
func (s *Session) Result() *api.AnalysisResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// Attempts returns the number of status queries issued so far.
func (s *Session) Attempts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attempts
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
