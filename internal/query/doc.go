// Package query holds the dashboard's query state and the machinery that
// mutates it.
//
// The Store is the single source of truth for one workspace: current query
// text, suggestions, history, loading flag, error and last applied result.
// Every mutation is a named, synchronous transition guarded by the store
// mutex, and listeners registered with OnChange run after the lock is
// released.
//
// The Controller validates and submits queries. Each accepted submission
// takes a sequence number from the store, waits out the simulated latency
// on the injected clock, classifies the query and commits the outcome
// under the configured Policy. The caller gets an Execution future that
// settles exactly once.
//
// SuggestionBox is the keyboard state machine for the suggestion dropdown.
// The filtered suggestion list itself is never stored; it is recomputed
// from the current query on every read.
package query
