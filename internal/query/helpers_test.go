package query

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/leapstack-labs/leapdash/internal/classifier"
	"github.com/leapstack-labs/leapdash/internal/clock"
	"github.com/leapstack-labs/leapdash/internal/dataset"
	"github.com/leapstack-labs/leapdash/internal/testutil"
	"github.com/leapstack-labs/leapdash/pkg/core"
	"github.com/stretchr/testify/require"
)

var testEpoch = time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

// sequentialIDs returns an id generator yielding "h1", "h2", ...
func sequentialIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("h%d", n)
	}
}

func newTestStore(clk clock.Clock) *Store {
	return NewStore(WithStoreClock(clk), WithIDGenerator(sequentialIDs()))
}

func newTestClassifier() *classifier.Classifier {
	return classifier.New(dataset.New(dataset.WithClock(clock.NewFixed(testEpoch))))
}

type classifierFunc func(string) (core.ResultBundle, error)

func (f classifierFunc) Classify(q string) (core.ResultBundle, error) { return f(q) }

// gatedClassifier blocks each query until its gate is released.
type gatedClassifier struct {
	mu    sync.Mutex
	gates map[string]chan struct{}
	inner Classifier
}

func newGatedClassifier(inner Classifier) *gatedClassifier {
	return &gatedClassifier{gates: make(map[string]chan struct{}), inner: inner}
}

func (g *gatedClassifier) gate(q string) chan struct{} {
	g.mu.Lock()
	defer g.mu.Unlock()
	ch, ok := g.gates[q]
	if !ok {
		ch = make(chan struct{})
		g.gates[q] = ch
	}
	return ch
}

func (g *gatedClassifier) Classify(q string) (core.ResultBundle, error) {
	<-g.gate(q)
	return g.inner.Classify(q)
}

func (g *gatedClassifier) release(q string) {
	close(g.gate(q))
}

type controllerFixture struct {
	clock *clock.Manual
	store *Store
	ctrl  *Controller
	logs  *testutil.LogRecorder
}

func newControllerFixture(t *testing.T, cls Classifier, policy Policy) *controllerFixture {
	t.Helper()

	clk := clock.NewManual(testEpoch)
	store := newTestStore(clk)
	logger, logs := testutil.NewRecordingLogger(t)
	ctrl, err := NewController(Config{
		Store:      store,
		Classifier: cls,
		Clock:      clk,
		Latency:    DefaultLatency,
		Policy:     policy,
		Logger:     logger,
	})
	require.NoError(t, err)
	t.Cleanup(ctrl.Close)

	return &controllerFixture{clock: clk, store: store, ctrl: ctrl, logs: logs}
}

func waitOutcome(t *testing.T, exec *Execution) Outcome {
	t.Helper()
	select {
	case <-exec.Done():
	case <-time.After(2 * time.Second):
		t.Fatalf("execution %d did not settle", exec.Seq)
	}
	o, ok := exec.Outcome()
	require.True(t, ok)
	return o
}
