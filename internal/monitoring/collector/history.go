package collector

import (
	"sync"
	"time"

	"github.com/vietddude/poolwatch/internal/core/domain"
)

// History is the bounded snapshot store. Entries are kept in append
// order; pruning drops entries older than the retention window and, when
// the store still exceeds maxEntries, the oldest entries first.
type History struct {
	mu         sync.RWMutex
	entries    []domain.MetricsSnapshot
	retention  time.Duration
	maxEntries int
}

// NewHistory creates a bounded history store.
func NewHistory(retention time.Duration, maxEntries int) *History {
	return &History{
		retention:  retention,
		maxEntries: maxEntries,
	}
}

// Append adds a snapshot and prunes.
func (h *History) Append(snap domain.MetricsSnapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = append(h.entries, snap)
	h.pruneLocked(snap.Timestamp)
}

// SetBounds replaces the retention window and entry cap. The cap is
// enforced immediately; the window applies on the next append.
func (h *History) SetBounds(retention time.Duration, maxEntries int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.retention = retention
	h.maxEntries = maxEntries
	if h.maxEntries > 0 && len(h.entries) > h.maxEntries {
		h.entries = h.entries[len(h.entries)-h.maxEntries:]
	}
}

func (h *History) pruneLocked(now time.Time) {
	if h.retention > 0 {
		cutoff := now.Add(-h.retention)
		i := 0
		for i < len(h.entries) && h.entries[i].Timestamp.Before(cutoff) {
			i++
		}
		h.entries = h.entries[i:]
	}

	if h.maxEntries > 0 && len(h.entries) > h.maxEntries {
		h.entries = h.entries[len(h.entries)-h.maxEntries:]
	}
}

// All returns the entries in chronological order.
func (h *History) All() []domain.MetricsSnapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]domain.MetricsSnapshot(nil), h.entries...)
}

// Since returns entries strictly newer than the cutoff, chronological.
func (h *History) Since(cutoff time.Time) []domain.MetricsSnapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var out []domain.MetricsSnapshot
	for _, e := range h.entries {
		if e.Timestamp.After(cutoff) {
			out = append(out, e)
		}
	}
	return out
}

// Latest returns the most recent entry, false when empty.
func (h *History) Latest() (domain.MetricsSnapshot, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.entries) == 0 {
		return domain.MetricsSnapshot{}, false
	}
	return h.entries[len(h.entries)-1], true
}

// Len returns the current entry count.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.entries)
}

// ScoreHistory is the bounded (timestamp, score) store appended once per
// generated report, sharing the metrics retention window.
type ScoreHistory struct {
	mu        sync.RWMutex
	samples   []domain.HealthScoreSample
	retention time.Duration
}

// NewScoreHistory creates a score history bounded by retention.
func NewScoreHistory(retention time.Duration) *ScoreHistory {
	return &ScoreHistory{retention: retention}
}

// Append adds a sample and prunes expired ones.
func (s *ScoreHistory) Append(sample domain.HealthScoreSample) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.samples = append(s.samples, sample)
	if s.retention > 0 {
		cutoff := sample.Timestamp.Add(-s.retention)
		i := 0
		for i < len(s.samples) && s.samples[i].Timestamp.Before(cutoff) {
			i++
		}
		s.samples = s.samples[i:]
	}
}

// SetRetention replaces the retention window, applied on the next
// append.
func (s *ScoreHistory) SetRetention(retention time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.retention = retention
}

// All returns the samples in chronological order.
func (s *ScoreHistory) All() []domain.HealthScoreSample {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.HealthScoreSample(nil), s.samples...)
}
