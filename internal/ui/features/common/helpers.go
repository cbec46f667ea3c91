package common

import (
	"strconv"
	"time"

	"github.com/leapstack-labs/leapdash/pkg/core"
)

// Palette is the series color cycle shared by all charts.
var Palette = []string{
	"#4f46e5", "#0ea5e9", "#10b981", "#f59e0b", "#ef4444", "#8b5cf6",
}

// Color returns the palette color for the i-th series item.
func Color(i int) string {
	return Palette[i%len(Palette)]
}

// FormatValue renders a data value without a trailing ".0".
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatPercent renders a share of total as "12.5%".
func FormatPercent(v, total float64) string {
	if total == 0 {
		return "0%"
	}
	return strconv.FormatFloat(v/total*100, 'f', 1, 64) + "%"
}

// FormatTimestamp renders a ms-since-epoch timestamp as a clock time.
func FormatTimestamp(ms int64) string {
	return time.UnixMilli(ms).Format("15:04:05")
}

// BuildSidebar converts history entries, newest first, into sidebar rows.
func BuildSidebar(history []core.HistoryEntry) SidebarData {
	items := make([]HistoryItem, 0, len(history))
	for _, e := range history {
		items = append(items, HistoryItem{
			ID:        e.ID,
			Text:      e.Text,
			Time:      FormatTimestamp(e.Timestamp),
			HasResult: e.Result != nil,
		})
	}
	return SidebarData{History: items, Empty: len(items) == 0}
}
