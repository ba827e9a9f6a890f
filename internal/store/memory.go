package store

import (
	"errors"
	"sort"
	"sync"
	"time"
)

var (
	// ErrNotFound is returned when no probe has been recorded for a provider.
	ErrNotFound = errors.New("no probe results for provider")
)

// Probe is the outcome of one health check against a provider.
type Probe struct {
	Provider string        `json:"provider"`
	At       time.Time     `json:"at"`
	OK       bool          `json:"ok"`
	Kind     string        `json:"kind"`
	Error    string        `json:"error,omitempty"`
	Latency  time.Duration `json:"latencyNs"`
}

// ProbeHistory holds a time-ordered list of probes for a provider.
type ProbeHistory struct {
	Probes []Probe
}

// ProbeStore is a concurrency-safe in-memory history of provider probes.
// It never holds weather data.
type ProbeStore struct {
	mu sync.RWMutex

	// key: provider name
	data map[string]*ProbeHistory

	maxHistory int           // max probes per provider
	maxAge     time.Duration // optional max age for probes
	now        func() time.Time
}

// NewProbeStore creates a ProbeStore with optional limits.
// If maxHistory is <= 0, it is treated as unlimited.
func NewProbeStore(maxHistory int, maxAge time.Duration) *ProbeStore {
	return &ProbeStore{
		data:       make(map[string]*ProbeHistory),
		maxHistory: maxHistory,
		maxAge:     maxAge,
		now:        time.Now,
	}
}

// Save appends a probe and enforces retention.
func (s *ProbeStore) Save(p Probe) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history, ok := s.data[p.Provider]
	if !ok {
		history = &ProbeHistory{}
		s.data[p.Provider] = history
	}

	history.Probes = append(history.Probes, p)

	// Enforce retention by count.
	if s.maxHistory > 0 && len(history.Probes) > s.maxHistory {
		over := len(history.Probes) - s.maxHistory
		history.Probes = history.Probes[over:]
	}

	// Enforce retention by age; the newest probe is always kept.
	if s.maxAge > 0 {
		cutoff := s.now().Add(-s.maxAge)
		i := 0
		for ; i < len(history.Probes)-1; i++ {
			if !history.Probes[i].At.Before(cutoff) {
				break
			}
		}
		history.Probes = history.Probes[i:]
	}
}

// Latest returns the most recent probe for a provider.
func (s *ProbeStore) Latest(provider string) (Probe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.data[provider]
	if !ok || len(history.Probes) == 0 {
		return Probe{}, ErrNotFound
	}
	return history.Probes[len(history.Probes)-1], nil
}

// History returns a copy of all retained probes for a provider, oldest first.
func (s *ProbeStore) History(provider string) ([]Probe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.data[provider]
	if !ok || len(history.Probes) == 0 {
		return nil, ErrNotFound
	}
	out := make([]Probe, len(history.Probes))
	copy(out, history.Probes)
	return out, nil
}

// LatestAll returns the newest probe of every provider, sorted by name.
func (s *ProbeStore) LatestAll() []Probe {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Probe, 0, len(s.data))
	for _, h := range s.data {
		if len(h.Probes) > 0 {
			out = append(out, h.Probes[len(h.Probes)-1])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Provider < out[j].Provider })
	return out
}
