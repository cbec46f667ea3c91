// Package core defines the shared language of the leapdash system.
//
// This package contains:
//   - Result types produced by the classifier (ResultBundle, DataPoint, ChartType)
//   - History records kept by the query store (HistoryEntry)
//
// The Golden Rule: pkg/core imports ONLY the standard library.
// All other packages depend on core, not the reverse.
package core
