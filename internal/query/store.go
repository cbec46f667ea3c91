package query

import (
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/leapstack-labs/leapdash/internal/clock"
	"github.com/leapstack-labs/leapdash/pkg/core"
	"golang.org/x/text/cases"
)

// DefaultSuggestions seeds the suggestion list when none are configured.
var DefaultSuggestions = []string{
	"Show me monthly revenue for the last year",
	"What were our top selling products last quarter?",
	"Compare sales performance across regions",
	"What is our customer retention rate?",
	"Show me marketing campaign ROI",
}

// State is a snapshot of the query state. Snapshots are deep copies and
// safe to keep after the store changes.
type State struct {
	CurrentQuery string              `json:"currentQuery"`
	Suggestions  []string            `json:"suggestions"`
	History      []core.HistoryEntry `json:"history"`
	IsLoading    bool                `json:"isLoading"`
	Error        string              `json:"error,omitempty"`
	Results      *core.ResultBundle  `json:"results,omitempty"`
}

// HasError reports whether an error message is set.
func (s State) HasError() bool {
	return s.Error != ""
}

func (s State) clone() State {
	out := s
	out.Suggestions = append([]string(nil), s.Suggestions...)
	out.History = make([]core.HistoryEntry, len(s.History))
	for i, e := range s.History {
		out.History[i] = e.Clone()
	}
	if s.Results != nil {
		r := s.Results.Clone()
		out.Results = &r
	}
	return out
}

// Store owns the query state of one workspace.
type Store struct {
	mu     sync.RWMutex
	state  State
	seq    uint64 // last history sequence number
	latest uint64 // sequence number of the newest Begin
	clock  clock.Clock
	newID  func() string
	nextID uint64
	subs   map[uint64]func()
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithSuggestions replaces the default suggestion list.
// An empty list keeps the defaults.
func WithSuggestions(list []string) StoreOption {
	return func(s *Store) {
		if len(list) > 0 {
			s.state.Suggestions = append([]string(nil), list...)
		}
	}
}

// WithStoreClock sets the clock used for history timestamps.
func WithStoreClock(c clock.Clock) StoreOption {
	return func(s *Store) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithIDGenerator sets the history id generator.
func WithIDGenerator(fn func() string) StoreOption {
	return func(s *Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// NewStore creates a store in its initial state: empty query, default
// suggestions, no history, not loading, no error, no results.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		state: State{
			Suggestions: append([]string(nil), DefaultSuggestions...),
			History:     []core.HistoryEntry{},
		},
		clock: clock.NewReal(),
		newID: uuid.NewString,
		subs:  make(map[uint64]func()),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OnChange registers fn to run after every mutation. It returns a function
// that removes the listener.
func (s *Store) OnChange(fn func()) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// update runs fn under the write lock and notifies listeners if fn reports
// a change.
func (s *Store) update(fn func(st *State) bool) bool {
	s.mu.Lock()
	changed := fn(&s.state)
	var subs []func()
	if changed {
		subs = make([]func(), 0, len(s.subs))
		for _, sub := range s.subs {
			subs = append(subs, sub)
		}
	}
	s.mu.Unlock()

	for _, sub := range subs {
		sub()
	}
	return changed
}

// =============================================================================
// Reads
// =============================================================================

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// CurrentQuery returns the current query text.
func (s *Store) CurrentQuery() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.CurrentQuery
}

// FilteredSuggestions returns the suggestions matching the current query.
func (s *Store) FilteredSuggestions() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return FilterSuggestions(s.state.Suggestions, s.state.CurrentQuery)
}

// Entry returns a copy of the history entry with the given id.
func (s *Store) Entry(id string) (core.HistoryEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.state.History {
		if e.ID == id {
			return e.Clone(), true
		}
	}
	return core.HistoryEntry{}, false
}

// LatestSeq returns the sequence number of the newest submission, or 0.
func (s *Store) LatestSeq() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

// FilterSuggestions returns the items of list containing q, compared
// case-insensitively, in list order. An empty q matches everything.
func FilterSuggestions(list []string, q string) []string {
	fold := cases.Fold()
	needle := fold.String(q)

	out := make([]string, 0, len(list))
	for _, item := range list {
		if strings.Contains(fold.String(item), needle) {
			out = append(out, item)
		}
	}
	return out
}

// =============================================================================
// Transitions
// =============================================================================

// SetCurrentQuery replaces the current query text.
func (s *Store) SetCurrentQuery(text string) {
	s.update(func(st *State) bool {
		st.CurrentQuery = text
		return true
	})
}

// ClearQuery empties the current query text.
func (s *Store) ClearQuery() {
	s.SetCurrentQuery("")
}

// SelectSuggestion makes text the current query.
func (s *Store) SelectSuggestion(text string) {
	s.SetCurrentQuery(text)
}

// AddToHistory prepends a new entry for text and returns it.
func (s *Store) AddToHistory(text string, result *core.ResultBundle) core.HistoryEntry {
	var entry core.HistoryEntry
	s.update(func(st *State) bool {
		entry = s.prependLocked(st, text, result)
		return true
	})
	return entry.Clone()
}

// SetLoading sets the loading flag.
func (s *Store) SetLoading(loading bool) {
	s.update(func(st *State) bool {
		st.IsLoading = loading
		return true
	})
}

// SetError sets the error message. An empty message clears it.
func (s *Store) SetError(msg string) {
	s.update(func(st *State) bool {
		st.Error = msg
		return true
	})
}

// SetResults replaces the displayed result.
func (s *Store) SetResults(bundle core.ResultBundle) {
	s.update(func(st *State) bool {
		b := bundle.Clone()
		st.Results = &b
		return true
	})
}

// ClearResults removes the displayed result.
func (s *Store) ClearResults() {
	s.update(func(st *State) bool {
		st.Results = nil
		return true
	})
}

// ExecuteStoredQuery restores a history entry: its text becomes the
// current query and its result, if any, is displayed. Nothing is
// re-classified. Unknown ids leave the state untouched and return false.
func (s *Store) ExecuteStoredQuery(id string) bool {
	return s.update(func(st *State) bool {
		for _, e := range st.History {
			if e.ID != id {
				continue
			}
			st.CurrentQuery = e.Text
			if e.Result != nil {
				r := e.Result.Clone()
				st.Results = &r
			}
			return true
		}
		return false
	})
}

// Begin records an accepted submission in one transition: a new history
// entry is prepended, loading is set and any error is cleared.
func (s *Store) Begin(text string) core.HistoryEntry {
	var entry core.HistoryEntry
	s.update(func(st *State) bool {
		entry = s.prependLocked(st, text, nil)
		s.latest = entry.Seq
		st.IsLoading = true
		st.Error = ""
		return true
	})
	return entry.Clone()
}

// Resolve commits a successful settlement. The history entry always gets
// its result; the displayed state changes only if the policy applies this
// settlement. It reports whether the settlement was applied.
func (s *Store) Resolve(seq uint64, entryID string, bundle core.ResultBundle, policy Policy) bool {
	var applied bool
	s.update(func(st *State) bool {
		for i := range st.History {
			if st.History[i].ID == entryID {
				r := bundle.Clone()
				st.History[i].Result = &r
				break
			}
		}

		applied = s.appliesLocked(seq, policy)
		if applied {
			r := bundle.Clone()
			st.Results = &r
			st.Error = ""
			st.IsLoading = false
		}
		return true
	})
	return applied
}

// Fail commits a failed settlement. Prior results are kept. It reports
// whether the settlement was applied.
func (s *Store) Fail(seq uint64, msg string, policy Policy) bool {
	var applied bool
	s.update(func(st *State) bool {
		applied = s.appliesLocked(seq, policy)
		if applied {
			st.Error = msg
			st.IsLoading = false
		}
		return applied
	})
	return applied
}

// Discard drops a submission that will never settle. Loading is cleared
// only when seq is the newest submission.
func (s *Store) Discard(seq uint64) bool {
	return s.update(func(st *State) bool {
		if seq != s.latest || !st.IsLoading {
			return false
		}
		st.IsLoading = false
		return true
	})
}

func (s *Store) appliesLocked(seq uint64, policy Policy) bool {
	if policy == PolicyLastWriteWins {
		return true
	}
	return seq == s.latest
}

func (s *Store) prependLocked(st *State, text string, result *core.ResultBundle) core.HistoryEntry {
	s.seq++
	entry := core.HistoryEntry{
		ID:        s.newID(),
		Seq:       s.seq,
		Text:      text,
		Timestamp: s.clock.Now().UnixMilli(),
	}
	if result != nil {
		r := result.Clone()
		entry.Result = &r
	}
	st.History = append([]core.HistoryEntry{entry}, st.History...)
	return entry
}
