package query

import "sync"

// Key is a navigation key understood by SuggestionBox.
type Key int

// Navigation keys.
const (
	KeyDown Key = iota
	KeyUp
	KeyEnter
	KeyEscape
)

// ParseKey maps a key name ("down", "up", "enter", "escape"/"esc").
func ParseKey(name string) (Key, bool) {
	switch name {
	case "down", "ArrowDown":
		return KeyDown, true
	case "up", "ArrowUp":
		return KeyUp, true
	case "enter", "Enter":
		return KeyEnter, true
	case "escape", "esc", "Escape":
		return KeyEscape, true
	default:
		return 0, false
	}
}

// SuggestionBox tracks whether the suggestion dropdown is open and which
// filtered item is highlighted. The list itself always comes from
// Store.FilteredSuggestions.
type SuggestionBox struct {
	store *Store

	mu     sync.Mutex
	open   bool
	active int
}

// NewSuggestionBox creates a closed box over store.
func NewSuggestionBox(store *Store) *SuggestionBox {
	return &SuggestionBox{store: store, active: -1}
}

// Edit sets the current query as typed by the user. The box opens for
// non-empty text, closes for empty text, and loses its highlight.
func (b *SuggestionBox) Edit(text string) {
	b.store.SetCurrentQuery(text)

	b.mu.Lock()
	b.open = text != ""
	b.active = -1
	b.mu.Unlock()
}

// Focus reopens the box if there is query text.
func (b *SuggestionBox) Focus() {
	open := b.store.CurrentQuery() != ""

	b.mu.Lock()
	b.open = open
	b.mu.Unlock()
}

// HandleKey applies a navigation key and reports whether the key was
// consumed. An unconsumed Enter means the caller should submit the query.
func (b *SuggestionBox) HandleKey(k Key) bool {
	items := b.store.FilteredSuggestions()

	b.mu.Lock()
	switch k {
	case KeyDown:
		if !b.open {
			b.mu.Unlock()
			return false
		}
		if len(items) > 0 {
			if b.active < len(items)-1 {
				b.active++
			} else {
				b.active = 0
			}
		}
		b.mu.Unlock()
		return true

	case KeyUp:
		if !b.open {
			b.mu.Unlock()
			return false
		}
		if len(items) > 0 {
			if b.active > 0 {
				b.active--
			} else {
				b.active = len(items) - 1
			}
		}
		b.mu.Unlock()
		return true

	case KeyEnter:
		if !b.open || b.active < 0 {
			b.mu.Unlock()
			return false
		}
		idx := b.active
		var choice string
		ok := idx < len(items)
		if ok {
			choice = items[idx]
			b.open = false
			b.active = -1
		}
		b.mu.Unlock()
		if ok {
			b.store.SelectSuggestion(choice)
		}
		return true

	case KeyEscape:
		wasOpen := b.open
		b.open = false
		b.active = -1
		b.mu.Unlock()
		return wasOpen
	}

	b.mu.Unlock()
	return false
}

// Choose selects the filtered suggestion at index, as a click would.
func (b *SuggestionBox) Choose(index int) bool {
	items := b.store.FilteredSuggestions()
	if index < 0 || index >= len(items) {
		return false
	}
	b.store.SelectSuggestion(items[index])
	b.Close()
	return true
}

// Clear empties the query and closes the box.
func (b *SuggestionBox) Clear() {
	b.store.ClearQuery()
	b.Close()
}

// Close hides the box without touching the query.
func (b *SuggestionBox) Close() {
	b.mu.Lock()
	b.open = false
	b.active = -1
	b.mu.Unlock()
}

// Active returns the highlighted index, or -1.
func (b *SuggestionBox) Active() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.active
}

// Open reports whether the box is open, regardless of matches.
func (b *SuggestionBox) Open() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.open
}

// Items returns the filtered suggestions for the current query.
func (b *SuggestionBox) Items() []string {
	return b.store.FilteredSuggestions()
}

// Visible reports whether the dropdown should be drawn: the box is open
// and at least one suggestion matches.
func (b *SuggestionBox) Visible() bool {
	return b.Open() && len(b.store.FilteredSuggestions()) > 0
}
