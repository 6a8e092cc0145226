package playlist

import (
	"sort"
	"strings"
	"sync"
	"time"

	"slideshow-viewer/internal/mediakind"
)

// Entry is one playable unit in the slideshow. Entries are immutable once
// constructed; the playlist owns them after they are added.
type Entry struct {
	// Key is the entry's stable identity: its path relative to the media
	// directory. Scheduling and retry state are correlated by Key so they
	// survive reordering.
	Key     string         `json:"key"`
	Name    string         `json:"name"`
	Kind    mediakind.Kind `json:"kind"`
	Size    int64          `json:"size"`
	ModTime time.Time      `json:"modTime"`
}

// Playlist is the ordered sequence of media entries plus the cursor marking
// the currently selected entry. The zero value is not usable; call New.
type Playlist struct {
	mu      sync.Mutex
	entries []Entry
	current int // -1 when empty or unset
}

// New creates an empty playlist with no selection.
func New() *Playlist {
	return &Playlist{current: -1}
}

// ReplaceAll atomically replaces the whole sequence and resets the cursor
// to -1. No reader ever observes a mix of the old and new sequence.
func (p *Playlist) ReplaceAll(entries []Entry) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.entries = make([]Entry, len(entries))
	copy(p.entries, entries)
	p.current = -1
}

// Sort reorders the entries in place. Selection is preserved by identity:
// if the selected entry is still present the cursor follows it to its new
// index. A missing or never-set selection stays at -1.
func (p *Playlist) Sort(field mediakind.SortField, order mediakind.SortOrder) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var selected string
	if p.current >= 0 && p.current < len(p.entries) {
		selected = p.entries[p.current].Key
	}

	sort.SliceStable(p.entries, func(i, j int) bool {
		less := entryLess(p.entries[i], p.entries[j], field)
		if order == mediakind.SortDesc {
			return !less
		}
		return less
	})

	if selected == "" {
		return
	}
	for i, e := range p.entries {
		if e.Key == selected {
			p.current = i
			return
		}
	}
	p.current = p.clamp(p.current)
}

func entryLess(a, b Entry, field mediakind.SortField) bool {
	switch field {
	case mediakind.SortByDate:
		if !a.ModTime.Equal(b.ModTime) {
			return a.ModTime.Before(b.ModTime)
		}
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	default:
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	}
}

// SetIndex moves the cursor to i, clamped into [0, len-1]. With an empty
// playlist the cursor becomes -1. Returns the resulting index.
func (p *Playlist) SetIndex(i int) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.current = p.clamp(i)
	return p.current
}

// MoveNext advances the cursor cyclically and returns the newly selected
// entry. It is a no-op returning false if the playlist is empty.
func (p *Playlist) MoveNext() (Entry, bool) {
	return p.step(1)
}

// MovePrevious moves the cursor back cyclically and returns the newly
// selected entry. It is a no-op returning false if the playlist is empty.
func (p *Playlist) MovePrevious() (Entry, bool) {
	return p.step(-1)
}

func (p *Playlist) step(delta int) (Entry, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := len(p.entries)
	if n == 0 {
		p.current = -1
		return Entry{}, false
	}
	// An unset cursor starts the cycle at the appropriate end.
	if p.current < 0 {
		if delta > 0 {
			p.current = 0
		} else {
			p.current = n - 1
		}
	} else {
		p.current = ((p.current+delta)%n + n) % n
	}
	return p.entries[p.current], true
}

// Remove deletes the entry with the given key if present and adjusts the
// cursor: entries removed strictly before the cursor shift it down; removing
// the selected entry keeps the same numeric index (now the following entry)
// unless that falls off the end, in which case it clamps to the last index.
// Blank keys are no-ops. Returns true if an entry was removed.
func (p *Playlist) Remove(key string) bool {
	if strings.TrimSpace(key) == "" {
		return false
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	idx := -1
	for i, e := range p.entries {
		if e.Key == key {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}

	p.entries = append(p.entries[:idx], p.entries[idx+1:]...)

	switch {
	case len(p.entries) == 0:
		p.current = -1
	case idx < p.current:
		p.current--
	case idx == p.current:
		p.current = p.clamp(p.current)
	}
	return true
}

// Current returns the selected entry, or false if the playlist is empty or
// nothing is selected.
func (p *Playlist) Current() (Entry, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current < 0 || p.current >= len(p.entries) {
		return Entry{}, false
	}
	return p.entries[p.current], true
}

// Index returns the cursor position, -1 when empty or unset.
func (p *Playlist) Index() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Len returns the number of entries.
func (p *Playlist) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.entries)
}

// Entries returns a point-in-time copy of the sequence, not a live view.
func (p *Playlist) Entries() []Entry {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]Entry, len(p.entries))
	copy(out, p.entries)
	return out
}

// Snapshot returns the sequence copy, cursor and length in one consistent
// read, so callers never pair a cursor with a stale length.
func (p *Playlist) Snapshot() ([]Entry, int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]Entry, len(p.entries))
	copy(out, p.entries)
	return out, p.current
}

// clamp maps i into the valid index range, -1 for an empty playlist.
// Callers must hold the mutex.
func (p *Playlist) clamp(i int) int {
	n := len(p.entries)
	if n == 0 {
		return -1
	}
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
