// Package dashboard provides the single-page analytics dashboard.
package dashboard

import (
	"github.com/leapstack-labs/leapdash/internal/query"
	"github.com/leapstack-labs/leapdash/internal/ui/features/common"
	"github.com/leapstack-labs/leapdash/internal/workspace"
	"github.com/leapstack-labs/leapdash/pkg/core"
)

// QuerySignals represents the signals sent from the frontend.
type QuerySignals struct {
	Query string `json:"query"`
}

// SuggestionItem is one row of the suggestion dropdown.
type SuggestionItem struct {
	Index  int
	Text   string
	Active bool
}

// ResultView is the results panel content.
type ResultView struct {
	Title       string
	Description string
	ChartLabel  string
	Chart       common.ChartView
	Data        []core.DataPoint
	Insights    []string
}

// ViewData holds everything the dashboard templates render.
type ViewData struct {
	Title           string
	IsDev           bool
	Query           string
	Suggestions     []SuggestionItem
	ShowSuggestions bool
	Sidebar         common.SidebarData
	Loading         bool
	Error           string
	Result          *ResultView
}

// StateResponse is the JSON body of GET /api/state.
type StateResponse struct {
	query.State
	FilteredSuggestions []string `json:"filteredSuggestions"`
	SuggestionsOpen     bool     `json:"suggestionsOpen"`
	ActiveSuggestion    int      `json:"activeSuggestion"`
}

// buildView snapshots a workspace into template data.
func buildView(ws *workspace.Workspace, isDev bool) ViewData {
	st := ws.Store.Snapshot()
	filtered := query.FilterSuggestions(st.Suggestions, st.CurrentQuery)
	active := ws.Suggestions.Active()

	items := make([]SuggestionItem, len(filtered))
	for i, s := range filtered {
		items[i] = SuggestionItem{Index: i, Text: s, Active: i == active}
	}

	view := ViewData{
		Title:           "Analytics Dashboard",
		IsDev:           isDev,
		Query:           st.CurrentQuery,
		Suggestions:     items,
		ShowSuggestions: ws.Suggestions.Open() && len(items) > 0,
		Sidebar:         common.BuildSidebar(st.History),
		Loading:         st.IsLoading,
		Error:           st.Error,
	}

	if st.Results != nil {
		view.Result = &ResultView{
			Title:       st.Results.Title,
			Description: st.Results.Description,
			ChartLabel:  st.Results.Type.Label(),
			Chart:       common.BuildChart(*st.Results),
			Data:        st.Results.Data,
			Insights:    st.Results.Insights,
		}
	}
	return view
}
