// Package toc builds an article's table of contents and tracks which heading is
// currently being read.
package toc

import (
	"marketing-site/internal/data"
	"marketing-site/internal/slug"
	"sync"
)

// VisibleRatio is the share of a heading that must intersect the viewport band for it
// to count as visible.
const VisibleRatio = 0.5

// Heading is a table of contents entry derived from a heading block.
type Heading struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Level int    `json:"level"`
}

// Indent is the nesting depth used when listing the heading, 0 for level 1.
func (h Heading) Indent() int {
	return h.Level - 1
}

// Extract collects the heading blocks of a tree in document order. It visits exactly
// the blocks the renderer displays, and heading ids are the same ones it assigns.
func Extract(blocks []*data.Block) []Heading {
	headings := []Heading{}
	var walk func([]*data.Block)
	walk = func(blocks []*data.Block) {
		for _, b := range blocks {
			if b == nil {
				continue
			}
			if !b.Renderable() {
				continue
			}
			if level := b.Type.HeadingLevel(); level > 0 {
				text := data.PlainText(b.Content.(data.TextContent).RichText)
				headings = append(headings, Heading{ID: slug.Make(text), Text: text, Level: level})
			}
			walk(b.DisplayedChildren())
		}
	}
	walk(blocks)
	return headings
}

// Observation reports how much of a heading intersects the viewport band.
type Observation struct {
	ID    string  `json:"id"`
	Ratio float64 `json:"ratio"`
}

// Entry is a heading with its display state.
type Entry struct {
	Heading
	Active bool `json:"active"`
}

// Tracker decides which heading is active as the reader scrolls. web/static/js/toc.js
// applies the same rules in the browser; Tracker is the reference they are tested
// against. Safe for concurrent use.
type Tracker struct {
	mu       sync.Mutex
	headings []Heading
	index    map[string]int
	ratios   map[string]float64
	active   int // index into headings, -1 when nothing is active
	closed   bool
}

// NewTracker creates a tracker observing headings. All entries start inactive.
func NewTracker(headings []Heading) *Tracker {
	t := &Tracker{}
	t.reset(headings)
	return t
}

// Reset drops all observation state and starts tracking a new heading set, as happens
// when the reader navigates to another article.
func (t *Tracker) Reset(headings []Heading) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	t.reset(headings)
}

func (t *Tracker) reset(headings []Heading) {
	t.headings = append([]Heading(nil), headings...)
	t.index = make(map[string]int, len(headings))
	for i, h := range t.headings {
		if _, dup := t.index[h.ID]; !dup {
			t.index[h.ID] = i
		}
	}
	t.ratios = make(map[string]float64, len(headings))
	t.active = -1
}

// Observe records a batch of intersection changes and recomputes the active heading.
// Among visible headings the deepest level wins and document order breaks ties. When
// none is visible the previously active heading stays active.
func (t *Tracker) Observe(observations ...Observation) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}

	for _, o := range observations {
		if _, known := t.index[o.ID]; !known {
			continue
		}
		t.ratios[o.ID] = o.Ratio
	}

	best := -1
	for i, h := range t.headings {
		if t.index[h.ID] != i || t.ratios[h.ID] < VisibleRatio {
			continue
		}
		if best < 0 || h.Level > t.headings[best].Level {
			best = i
		}
	}
	if best >= 0 {
		t.active = best
	}
}

// Active returns the active heading id, or "" when none is active.
func (t *Tracker) Active() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.active < 0 {
		return ""
	}
	return t.headings[t.active].ID
}

// Entries returns the headings in document order with exactly zero or one active.
func (t *Tracker) Entries() []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	entries := make([]Entry, len(t.headings))
	for i, h := range t.headings {
		entries[i] = Entry{Heading: h, Active: i == t.active}
	}
	return entries
}

// Close stops tracking. Later observations and resets are ignored.
func (t *Tracker) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	t.headings = nil
	t.index = map[string]int{}
	t.ratios = map[string]float64{}
	t.active = -1
}

// Entries returns headings as a static list with nothing active, for server rendering.
func Entries(headings []Heading) []Entry {
	entries := make([]Entry, len(headings))
	for i, h := range headings {
		entries[i] = Entry{Heading: h}
	}
	return entries
}
