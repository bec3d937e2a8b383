package notify

import (
	"sync"
	"time"
)

// HistoryEntry records one dispatch attempt for audit. History is an
// observability aid, never the delivery mechanism.
type HistoryEntry struct {
	IdentityID string
	Title      string
	Body       string
	Sent       bool
	Reason     string
	At         time.Time
}

// history is a bounded most-recent-N ring of dispatch attempts.
type history struct {
	mu      sync.Mutex
	entries []HistoryEntry
	next    int
	full    bool
}

func newHistory(size int) *history {
	if size <= 0 {
		size = 100
	}
	return &history{entries: make([]HistoryEntry, size)}
}

func (h *history) record(e HistoryEntry) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries[h.next] = e
	h.next = (h.next + 1) % len(h.entries)
	if h.next == 0 {
		h.full = true
	}
}

// recent returns entries oldest first.
func (h *history) recent() []HistoryEntry {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.full {
		out := make([]HistoryEntry, h.next)
		copy(out, h.entries[:h.next])
		return out
	}
	out := make([]HistoryEntry, 0, len(h.entries))
	out = append(out, h.entries[h.next:]...)
	out = append(out, h.entries[:h.next]...)
	return out
}
