package store

import (
	"errors"
	"sync"
	"time"
)

var (
	// ErrEmpty is returned when no report has been generated yet.
	ErrEmpty = errors.New("no generated reports")
)

// GeneratedReport is one synthesized report body with its generation
// time. The delivery header is rendered from GeneratedAt at send time.
type GeneratedReport struct {
	Text        string    `json:"text"`
	GeneratedAt time.Time `json:"generatedAt"` // always UTC
}

// MemoryStore is a concurrency-safe in-memory history of generated
// reports. The bot serves a recent entry instead of re-fetching all
// provider data, and the HTTP API exposes the history read-only.
type MemoryStore struct {
	mu      sync.RWMutex
	reports []GeneratedReport

	// retention configuration
	maxHistory int           // max number of retained reports
	maxAge     time.Duration // optional max age for retained reports
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxHistory is <= 0, it is treated as unlimited.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		maxHistory: maxHistory,
		maxAge:     maxAge,
	}
}

// Save appends a report and enforces retention.
func (s *MemoryStore) Save(r GeneratedReport) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reports = append(s.reports, r)

	// Enforce retention by count.
	if s.maxHistory > 0 && len(s.reports) > s.maxHistory {
		over := len(s.reports) - s.maxHistory
		s.reports = s.reports[over:]
	}

	// Enforce retention by age.
	if s.maxAge > 0 {
		cutoff := time.Now().Add(-s.maxAge)
		i := 0
		for ; i < len(s.reports); i++ {
			if !s.reports[i].GeneratedAt.Before(cutoff) {
				break
			}
		}
		if i > 0 && i < len(s.reports) {
			s.reports = s.reports[i:]
		}
	}
}

// Latest returns the most recently generated report.
func (s *MemoryStore) Latest() (GeneratedReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.reports) == 0 {
		return GeneratedReport{}, ErrEmpty
	}
	return s.reports[len(s.reports)-1], nil
}

// Range returns all reports generated between from and to (inclusive).
func (s *MemoryStore) Range(from, to time.Time) ([]GeneratedReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []GeneratedReport
	for _, r := range s.reports {
		if !r.GeneratedAt.Before(from) && !r.GeneratedAt.After(to) {
			result = append(result, r)
		}
	}

	if len(result) == 0 {
		return nil, ErrEmpty
	}
	return result, nil
}
