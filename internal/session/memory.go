package session

import (
	"sync"

	"docchat/internal/domain"
)

// Memory is the append-only conversation log of one session. Storage grows
// monotonically; only the view handed to prompting is windowed.
type Memory struct {
	mu    sync.RWMutex
	pairs []domain.QAPair
}

func NewMemory() *Memory { return &Memory{} }

// Append records an answered question. It never fails.
func (m *Memory) Append(pair domain.QAPair) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pairs = append(m.pairs, pair)
}

// Trailing returns the last n pairs in chronological order, fewer if the
// history is shorter.
func (m *Memory) Trailing(n int) []domain.QAPair {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if n <= 0 {
		return nil
	}
	start := len(m.pairs) - n
	if start < 0 {
		start = 0
	}
	out := make([]domain.QAPair, len(m.pairs)-start)
	copy(out, m.pairs[start:])
	return out
}

// Len returns the total number of recorded pairs.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.pairs)
}
