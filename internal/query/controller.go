package query

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/leapstack-labs/leapdash/internal/clock"
	"github.com/leapstack-labs/leapdash/pkg/core"
)

// DefaultLatency is the simulated backend round trip.
const DefaultLatency = 1500 * time.Millisecond

// Classifier turns query text into a result bundle.
// *classifier.Classifier satisfies it.
type Classifier interface {
	Classify(query string) (core.ResultBundle, error)
}

// Config holds the dependencies of a Controller.
type Config struct {
	Store      *Store
	Classifier Classifier
	Clock      clock.Clock   // nil uses the system clock
	Latency    time.Duration // negative is treated as zero
	Policy     Policy
	Logger     *slog.Logger
}

// Controller submits queries against a Store.
type Controller struct {
	store      *Store
	classifier Classifier
	clock      clock.Clock
	latency    time.Duration
	policy     Policy
	logger     *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// NewController creates a Controller.
func NewController(cfg Config) (*Controller, error) {
	if cfg.Store == nil {
		return nil, errors.New("query controller: store is required")
	}
	if cfg.Classifier == nil {
		return nil, errors.New("query controller: classifier is required")
	}

	clk := cfg.Clock
	if clk == nil {
		clk = clock.NewReal()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	latency := cfg.Latency
	if latency < 0 {
		latency = 0
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		store:      cfg.Store,
		classifier: cfg.Classifier,
		clock:      clk,
		latency:    latency,
		policy:     cfg.Policy,
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
	}, nil
}

// Store returns the store the controller mutates.
func (c *Controller) Store() *Store {
	return c.store
}

// Policy returns the overlap policy in effect.
func (c *Controller) Policy() Policy {
	return c.policy
}

// Execute submits a query.
//
// Blank input sets the empty-query message and returns ErrEmptyQuery
// without touching history, loading or results. Otherwise the submission
// is recorded, the latency timer is started and the returned Execution
// settles once the query has been classified.
func (c *Controller) Execute(query string) (*Execution, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrControllerClosed
	}

	if strings.TrimSpace(query) == "" {
		c.store.SetError(MsgEmptyQuery)
		return nil, ErrEmptyQuery
	}

	entry := c.store.Begin(query)
	exec := newExecution(entry.Seq, entry.ID, query)

	// The timer is registered before returning so a test clock sees it.
	timer := c.clock.After(c.latency)

	c.logger.Debug("query submitted",
		slog.Uint64("seq", exec.Seq),
		slog.String("id", exec.EntryID),
		slog.String("query", query))

	c.wg.Add(1)
	go c.settle(exec, timer)

	return exec, nil
}

// Replay restores a history entry without re-running it.
// It reports false for unknown ids.
func (c *Controller) Replay(id string) bool {
	ok := c.store.ExecuteStoredQuery(id)
	if !ok {
		c.logger.Debug("replay of unknown history entry", slog.String("id", id))
	}
	return ok
}

// Close stops the controller. Executions still waiting on their timer
// settle with context.Canceled and are not applied. Close blocks until
// every settlement goroutine has returned and is safe to call twice.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	c.cancel()
	c.wg.Wait()
}

func (c *Controller) settle(exec *Execution, timer <-chan time.Time) {
	defer c.wg.Done()

	select {
	case <-c.ctx.Done():
		c.store.Discard(exec.Seq)
		exec.finish(Outcome{Err: c.ctx.Err()})
		return
	case <-timer:
	}

	bundle, err := c.classify(exec.Query)

	if c.ctx.Err() != nil {
		c.store.Discard(exec.Seq)
		exec.finish(Outcome{Err: c.ctx.Err()})
		return
	}

	if err != nil {
		applied := c.store.Fail(exec.Seq, MsgExecutionFailed, c.policy)
		c.logger.Warn("query failed",
			slog.Uint64("seq", exec.Seq),
			slog.String("query", exec.Query),
			slog.Bool("applied", applied),
			slog.String("error", err.Error()))
		exec.finish(Outcome{
			Err:     fmt.Errorf("%w: %w", ErrExecutionFailed, err),
			Applied: applied,
		})
		return
	}

	applied := c.store.Resolve(exec.Seq, exec.EntryID, bundle, c.policy)
	c.logger.Debug("query settled",
		slog.Uint64("seq", exec.Seq),
		slog.String("title", bundle.Title),
		slog.Bool("applied", applied))

	result := bundle.Clone()
	exec.finish(Outcome{Result: &result, Applied: applied})
}

// classify runs the classifier, turning a panic into an error.
func (c *Controller) classify(query string) (bundle core.ResultBundle, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("classifier panic: %v", r)
		}
	}()
	return c.classifier.Classify(query)
}

// =============================================================================
// Execution
// =============================================================================

// Outcome is the single result of an Execution.
//
// Exactly one of Result and Err is set. Applied reports whether the
// settlement changed the displayed state under the controller's policy.
type Outcome struct {
	Result  *core.ResultBundle
	Err     error
	Applied bool
}

// Execution is a handle to one accepted submission.
type Execution struct {
	Seq     uint64
	EntryID string
	Query   string

	done    chan struct{}
	once    sync.Once
	outcome Outcome
}

func newExecution(seq uint64, entryID, query string) *Execution {
	return &Execution{
		Seq:     seq,
		EntryID: entryID,
		Query:   query,
		done:    make(chan struct{}),
	}
}

func (e *Execution) finish(o Outcome) {
	e.once.Do(func() {
		e.outcome = o
		close(e.done)
	})
}

// Done is closed once the execution has settled.
func (e *Execution) Done() <-chan struct{} {
	return e.done
}

// Outcome returns the outcome and true once settled, or false before.
func (e *Execution) Outcome() (Outcome, bool) {
	select {
	case <-e.done:
		return e.outcome, true
	default:
		return Outcome{}, false
	}
}

// Wait blocks until the execution settles or ctx is done.
func (e *Execution) Wait(ctx context.Context) (Outcome, error) {
	select {
	case <-e.done:
		return e.outcome, nil
	case <-ctx.Done():
		return Outcome{}, ctx.Err()
	}
}
