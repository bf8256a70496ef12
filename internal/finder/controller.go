// Package finder implements the address-to-pharmacy search lifecycle:
// the session state machine, the results rendering contract, the address
// search bar and the on-demand direction resolver.
package finder

import (
	"context"
	"sync"
	"time"

	logSDK "github.com/Laisky/go-utils/v6/log"
	"github.com/Laisky/zap"
	"github.com/google/uuid"

	"github.com/dsg/pharmacy-finder/library/log"
	"github.com/dsg/pharmacy-finder/library/pharmacy"
)

// Searcher runs one address search against the backend.
type Searcher interface {
	SearchByAddress(ctx context.Context, address string) ([]pharmacy.Result, error)
}

// SearcherFunc adapts a function to Searcher.
type SearcherFunc func(ctx context.Context, address string) ([]pharmacy.Result, error)

// SearchByAddress calls f(ctx, address).
func (f SearcherFunc) SearchByAddress(ctx context.Context, address string) ([]pharmacy.Result, error) {
	return f(ctx, address)
}

// Ordering decides which response wins when searches overlap.
type Ordering int

const (
	// LatestIssuedWins drops responses of any request but the most recently
	// issued one.
	LatestIssuedWins Ordering = iota
	// LastResolvedWins applies every response as it arrives, so a slow
	// earlier request can overwrite a newer one.
	LastResolvedWins
)

func (o Ordering) String() string {
	if o == LastResolvedWins {
		return "last_resolved_wins"
	}
	return "latest_issued_wins"
}

// Option customises a Controller during construction.
type Option func(*Controller)

// WithLogger overrides the logger used for diagnostics.
func WithLogger(logger logSDK.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithOrdering selects how overlapping responses are applied.
func WithOrdering(ordering Ordering) Option {
	return func(c *Controller) {
		c.ordering = ordering
	}
}

// WithHangulComposition composes submitted addresses to NFC before they
// are searched. Without it the trimmed address is searched byte for byte.
func WithHangulComposition() Option {
	return func(c *Controller) {
		c.composeHangul = true
	}
}

// WithListener registers fn to receive a snapshot after every state change.
// Listeners run outside the controller lock, so snapshots from concurrent
// completions may reach them out of order.
func WithListener(fn func(Snapshot)) Option {
	return func(c *Controller) {
		if fn != nil {
			c.listeners = append(c.listeners, fn)
		}
	}
}

// WithClock overrides time.Now, primarily for testing.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// Request is one issued search.
type Request struct {
	Seq       uint64
	SessionID string
	Query     string
	StartedAt time.Time

	done      chan struct{}
	closeOnce sync.Once
}

// Done is closed once the request has completed, whether or not its
// response was applied.
func (r *Request) Done() <-chan struct{} {
	return r.done
}

func (r *Request) finish() {
	r.closeOnce.Do(func() { close(r.done) })
}

// Outcome is the response of one request.
type Outcome struct {
	Request *Request
	Results []pharmacy.Result
	Err     error
}

// Controller owns the search session. It is the single writer of session
// state; readers take snapshots.
type Controller struct {
	searcher  Searcher
	ordering  Ordering
	logger    logSDK.Logger
	listeners []func(Snapshot)
	now       func() time.Time

	composeHangul bool

	mu          sync.Mutex
	session     Session
	hasSearched bool
	issued      uint64
	inFlight    int
}

// NewController builds an idle Controller that searches through searcher.
func NewController(searcher Searcher, opts ...Option) *Controller {
	c := &Controller{
		searcher: searcher,
		ordering: LatestIssuedWins,
		logger:   log.Logger.Named("finder"),
		now:      time.Now,
		session:  Session{Status: StatusIdle, Results: []pharmacy.Result{}},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Ordering returns the configured ordering policy.
func (c *Controller) Ordering() Ordering {
	return c.ordering
}

// Begin validates address and, when it is not blank, starts a fresh
// session in StatusSearching, discarding the previous results.
// A blank address returns ErrAddressRequired and changes nothing.
func (c *Controller) Begin(address string) (*Request, error) {
	query := TrimAddress(address)
	if c.composeHangul {
		query = ComposeHangul(query)
	}
	if query == "" {
		c.logger.Debug("reject empty address")
		return nil, ErrAddressRequired
	}

	c.mu.Lock()
	c.issued++
	req := &Request{
		Seq:       c.issued,
		SessionID: uuid.NewString(),
		Query:     query,
		StartedAt: c.now(),
		done:      make(chan struct{}),
	}
	c.session = Session{
		ID:        req.SessionID,
		Seq:       req.Seq,
		Query:     query,
		Status:    StatusSearching,
		Results:   []pharmacy.Result{},
		StartedAt: req.StartedAt,
	}
	c.hasSearched = true
	c.inFlight++
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.logger.Info("search started",
		zap.String("session", req.SessionID),
		zap.Uint64("seq", req.Seq),
		zap.String("query", query),
		zap.Int("in_flight", snap.InFlight))
	c.notify(snap)

	return req, nil
}

// Execute runs the network call for req. It does not touch session state.
func (c *Controller) Execute(ctx context.Context, req *Request) Outcome {
	results, err := c.searcher.SearchByAddress(ctx, req.Query)
	if results == nil {
		results = []pharmacy.Result{}
	}
	return Outcome{Request: req, Results: results, Err: err}
}

// Complete applies out according to the ordering policy and reports
// whether it was applied. Failures become StatusFailed with an empty list;
// the error is logged and kept on the session, never surfaced as a prompt.
func (c *Controller) Complete(out Outcome) (Snapshot, bool) {
	req := out.Request
	defer req.finish()

	c.mu.Lock()
	c.inFlight--
	if c.ordering == LatestIssuedWins && req.Seq != c.issued {
		snap := c.snapshotLocked()
		c.mu.Unlock()

		c.logger.Info("drop stale search response",
			zap.String("session", req.SessionID),
			zap.Uint64("seq", req.Seq),
			zap.Uint64("latest_seq", snap.Seq),
			zap.String("query", req.Query),
			zap.Error(out.Err))
		return snap, false
	}

	if c.ordering == LastResolvedWins && req.Seq != c.issued {
		c.logger.Warn("applying response of a superseded search",
			zap.String("session", req.SessionID),
			zap.Uint64("seq", req.Seq),
			zap.Uint64("latest_seq", c.issued),
			zap.String("query", req.Query))
	}

	session := Session{
		ID:         req.SessionID,
		Seq:        req.Seq,
		Query:      req.Query,
		StartedAt:  req.StartedAt,
		FinishedAt: c.now(),
	}
	if out.Err != nil {
		session.Status = StatusFailed
		session.Results = []pharmacy.Result{}
		session.Err = out.Err
	} else {
		session.Status = StatusSucceeded
		session.Results = out.Results
	}
	c.session = session
	snap := c.snapshotLocked()
	c.mu.Unlock()

	if out.Err != nil {
		c.logger.Warn("pharmacy search failed",
			zap.String("session", req.SessionID),
			zap.Uint64("seq", req.Seq),
			zap.String("query", req.Query),
			zap.Bool("transport", pharmacy.IsTransport(out.Err)),
			zap.Bool("server", pharmacy.IsServer(out.Err)),
			zap.Bool("decode", pharmacy.IsDecode(out.Err)),
			zap.Error(out.Err))
	} else {
		c.logger.Info("search finished",
			zap.String("session", req.SessionID),
			zap.Uint64("seq", req.Seq),
			zap.String("query", req.Query),
			zap.Int("results", len(out.Results)))
	}
	c.notify(snap)

	return snap, true
}

// Submit begins a search and runs it in the background. Submitting while
// another search is in flight is allowed; nothing is cancelled.
func (c *Controller) Submit(ctx context.Context, address string) (*Request, error) {
	req, err := c.Begin(address)
	if err != nil {
		return nil, err
	}

	go func() {
		c.Complete(c.Execute(ctx, req))
	}()
	return req, nil
}

// Search submits address and waits for that request to complete, then
// returns the resulting snapshot.
func (c *Controller) Search(ctx context.Context, address string) (Snapshot, error) {
	req, err := c.Begin(address)
	if err != nil {
		return c.Snapshot(), err
	}

	snap, _ := c.Complete(c.Execute(ctx, req))
	return snap, nil
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// View renders the current state through the results rendering contract.
func (c *Controller) View() ResultsView {
	return c.Snapshot().View()
}

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{
		Session:     c.session.clone(),
		HasSearched: c.hasSearched,
		InFlight:    c.inFlight,
	}
}

func (c *Controller) notify(snap Snapshot) {
	for _, fn := range c.listeners {
		fn(snap)
	}
}
