package core

import "time"

// HistoryEntry records one submitted query.
//
// ID is a collision-resistant token; Seq is the submission counter and
// gives the explicit newest-first order. Result stays nil until the
// query settles successfully.
type HistoryEntry struct {
	ID        string        `json:"id" yaml:"id"`
	Seq       uint64        `json:"seq" yaml:"seq"`
	Text      string        `json:"text" yaml:"text"`
	Timestamp int64         `json:"timestamp" yaml:"timestamp"` // ms since epoch
	Result    *ResultBundle `json:"result,omitempty" yaml:"result,omitempty"`
}

// Time returns the entry creation time.
func (e HistoryEntry) Time() time.Time {
	return time.UnixMilli(e.Timestamp)
}

// Clone returns a deep copy of the entry.
func (e HistoryEntry) Clone() HistoryEntry {
	out := e
	if e.Result != nil {
		r := e.Result.Clone()
		out.Result = &r
	}
	return out
}
