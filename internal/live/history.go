package live

import "sync"

// DefaultHistorySize bounds the report buffer when no size is configured.
const DefaultHistorySize = 64

// History keeps the most recent reports in arrival order, oldest first. Once
// the bound is reached, old reports fall off the front.
type History struct {
	mu      sync.RWMutex
	size    int
	reports []Report
}

func NewHistory(size int) *History {
	if size <= 0 {
		size = DefaultHistorySize
	}
	return &History{size: size, reports: make([]Report, 0, size)}
}

// Add appends a report, evicting the oldest entries beyond the bound.
func (h *History) Add(report Report) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.reports = append(h.reports, report.clone())
	if overflow := len(h.reports) - h.size; overflow > 0 {
		h.reports = append(h.reports[:0], h.reports[overflow:]...)
	}
}

// Recent returns a copy of the buffered reports, oldest first.
func (h *History) Recent() []Report {
	h.mu.RLock()
	defer h.mu.RUnlock()
	copied := make([]Report, len(h.reports))
	for i, report := range h.reports {
		copied[i] = report.clone()
	}
	return copied
}

func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.reports)
}

func (h *History) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.reports = h.reports[:0]
}
