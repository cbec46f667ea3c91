package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggestionBox_EditOpensAndCloses(t *testing.T) {
	s := NewStore()
	b := NewSuggestionBox(s)
	assert.False(t, b.Open())
	assert.Equal(t, -1, b.Active())

	b.Edit("show")
	assert.True(t, b.Open())
	assert.True(t, b.Visible())
	assert.Equal(t, "show", s.CurrentQuery())

	b.HandleKey(KeyDown)
	assert.Equal(t, 0, b.Active())

	// Any edit resets the highlight.
	b.Edit("show m")
	assert.Equal(t, -1, b.Active())

	b.Edit("")
	assert.False(t, b.Open())
}

func TestSuggestionBox_VisibleNeedsMatches(t *testing.T) {
	b := NewSuggestionBox(NewStore())

	b.Edit("no suggestion has this")
	assert.True(t, b.Open())
	assert.False(t, b.Visible())
	assert.Empty(t, b.Items())
}

func TestSuggestionBox_Navigation(t *testing.T) {
	b := NewSuggestionBox(NewStore())
	b.Edit("what") // two matches

	require.Len(t, b.Items(), 2)

	tests := []struct {
		key        Key
		wantActive int
	}{
		{KeyDown, 0},
		{KeyDown, 1},
		{KeyDown, 0}, // wraps forward
		{KeyUp, 1},   // wraps backward
		{KeyUp, 0},
		{KeyUp, 1},
	}

	for i, tt := range tests {
		consumed := b.HandleKey(tt.key)
		assert.True(t, consumed, "step %d", i)
		assert.Equal(t, tt.wantActive, b.Active(), "step %d", i)
	}
}

func TestSuggestionBox_UpFromNothingSelectsLast(t *testing.T) {
	b := NewSuggestionBox(NewStore())
	b.Edit("show")

	b.HandleKey(KeyUp)
	assert.Equal(t, 1, b.Active())
}

func TestSuggestionBox_EnterCommits(t *testing.T) {
	s := NewStore()
	b := NewSuggestionBox(s)
	b.Edit("what")

	b.HandleKey(KeyDown)
	b.HandleKey(KeyDown)
	require.True(t, b.HandleKey(KeyEnter))

	assert.Equal(t, "What is our customer retention rate?", s.CurrentQuery())
	assert.False(t, b.Open())
	assert.Equal(t, -1, b.Active())
}

func TestSuggestionBox_EnterWithoutHighlight(t *testing.T) {
	s := NewStore()
	b := NewSuggestionBox(s)
	b.Edit("what")

	assert.False(t, b.HandleKey(KeyEnter), "caller submits")
	assert.Equal(t, "what", s.CurrentQuery())
	assert.True(t, b.Open())
}

func TestSuggestionBox_EscapeKeepsQuery(t *testing.T) {
	s := NewStore()
	b := NewSuggestionBox(s)
	b.Edit("show")
	b.HandleKey(KeyDown)

	assert.True(t, b.HandleKey(KeyEscape))
	assert.False(t, b.Open())
	assert.Equal(t, "show", s.CurrentQuery())

	assert.False(t, b.HandleKey(KeyEscape), "already closed")
}

func TestSuggestionBox_ClosedIgnoresArrows(t *testing.T) {
	b := NewSuggestionBox(NewStore())

	assert.False(t, b.HandleKey(KeyDown))
	assert.False(t, b.HandleKey(KeyUp))
	assert.Equal(t, -1, b.Active())
}

func TestSuggestionBox_NoMatchesKeepsHighlightUnset(t *testing.T) {
	b := NewSuggestionBox(NewStore())
	b.Edit("zzz")

	assert.True(t, b.HandleKey(KeyDown))
	assert.Equal(t, -1, b.Active())
}

func TestSuggestionBox_ChooseAndClear(t *testing.T) {
	s := NewStore()
	b := NewSuggestionBox(s)
	b.Edit("roi")

	assert.False(t, b.Choose(5))
	require.True(t, b.Choose(0))
	assert.Equal(t, "Show me marketing campaign ROI", s.CurrentQuery())
	assert.False(t, b.Open())

	b.Focus()
	assert.True(t, b.Open())

	b.Clear()
	assert.Empty(t, s.CurrentQuery())
	assert.False(t, b.Open())

	b.Focus()
	assert.False(t, b.Open(), "empty query stays closed")
}

func TestParseKey(t *testing.T) {
	tests := []struct {
		in   string
		want Key
		ok   bool
	}{
		{"down", KeyDown, true},
		{"ArrowUp", KeyUp, true},
		{"enter", KeyEnter, true},
		{"esc", KeyEscape, true},
		{"tab", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseKey(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		if tt.ok {
			assert.Equal(t, tt.want, got, tt.in)
		}
	}
}

func TestPolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    Policy
		wantErr bool
	}{
		{"", PolicySupersede, false},
		{"supersede", PolicySupersede, false},
		{"Last-Write-Wins", PolicyLastWriteWins, false},
		{"lww", PolicyLastWriteWins, false},
		{"random", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePolicy(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			var p Policy
			require.NoError(t, p.UnmarshalText([]byte(tt.in)))
			assert.Equal(t, tt.want, p)
		})
	}

	text, err := PolicyLastWriteWins.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "last-write-wins", string(text))
}
