package session

import (
	"context"
	"sync"
	"time"

	"docchat/internal/domain"
	"docchat/internal/index"
)

// Session binds one ingested document's index to the user's conversation
// history. The index is immutable; a new document produces a whole new
// Session that atomically replaces this one in the store.
type Session struct {
	UserID       string
	DocumentID   string
	DocumentName string
	Index        *index.VectorIndex
	History      *Memory
	CreatedAt    time.Time
}

// New creates a ready session for a fully built index.
func New(userID string, doc domain.Document, ix *index.VectorIndex) *Session {
	return &Session{
		UserID:       userID,
		DocumentID:   doc.ID,
		DocumentName: doc.Name,
		Index:        ix,
		History:      NewMemory(),
		CreatedAt:    time.Now(),
	}
}

// Store maps each user to at most one active session. All read-modify-write
// sequences for one user are serialized on a per-user lock slot, so an
// ingestion commit and a history append for the same user never interleave.
// Different users share nothing but the slot map itself.
type Store struct {
	mu    sync.Mutex
	slots map[string]*slot
	ttl   time.Duration
}

type slot struct {
	mu       sync.Mutex
	session  *Session
	lastSeen time.Time
	dead     bool
}

// NewStore creates a store. Sessions idle longer than ttl are evicted by
// Run; a zero ttl disables eviction.
func NewStore(ttl time.Duration) *Store {
	return &Store{slots: make(map[string]*slot), ttl: ttl}
}

// withSlot runs fn with the user's slot locked. A slot evicted between
// lookup and lock is retired, so the lookup retries until it holds a live one.
func (s *Store) withSlot(userID string, fn func(*slot)) {
	for {
		s.mu.Lock()
		sl, ok := s.slots[userID]
		if !ok {
			sl = &slot{}
			s.slots[userID] = sl
		}
		s.mu.Unlock()

		sl.mu.Lock()
		if sl.dead {
			sl.mu.Unlock()
			continue
		}
		fn(sl)
		sl.mu.Unlock()
		return
	}
}

// Put installs the session for its user, replacing any prior one. The prior
// index and chunks become unreachable with the replaced session.
func (s *Store) Put(sess *Session) {
	s.withSlot(sess.UserID, func(sl *slot) {
		sl.session = sess
		sl.lastSeen = time.Now()
	})
}

// Get returns the user's active session, or false if there is none.
func (s *Store) Get(userID string) (sess *Session, ok bool) {
	s.withSlot(userID, func(sl *slot) {
		if sl.session == nil {
			return
		}
		sl.lastSeen = time.Now()
		sess, ok = sl.session, true
	})
	return sess, ok
}

// AppendHistory records an answered question on the user's active session.
func (s *Store) AppendHistory(userID string, pair domain.QAPair) error {
	var err error
	s.withSlot(userID, func(sl *slot) {
		if sl.session == nil {
			err = domain.NoSessionError(userID)
			return
		}
		sl.session.History.Append(pair)
		sl.lastSeen = time.Now()
	})
	return err
}

// Len returns the number of users with an active session.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, sl := range s.slots {
		sl.mu.Lock()
		if sl.session != nil {
			n++
		}
		sl.mu.Unlock()
	}
	return n
}

// Run sweeps idle sessions until ctx is cancelled. It returns immediately
// when eviction is disabled.
func (s *Store) Run(ctx context.Context) {
	if s.ttl <= 0 {
		return
	}
	interval := s.ttl / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.evictIdle(time.Now().Add(-s.ttl))
		}
	}
}

func (s *Store) evictIdle(cutoff time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for userID, sl := range s.slots {
		sl.mu.Lock()
		if sl.session == nil || sl.lastSeen.Before(cutoff) {
			sl.session = nil
			sl.dead = true
			delete(s.slots, userID)
		}
		sl.mu.Unlock()
	}
}
