package session

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docchat/internal/domain"
	"docchat/internal/index"
)

func newSession(t *testing.T, userID, docID string) *Session {
	t.Helper()
	ix, err := index.Build([]index.Entry{{
		Chunk:  domain.Chunk{DocumentID: docID, Text: "content"},
		Vector: []float32{1, 0},
	}})
	require.NoError(t, err)
	return New(userID, domain.Document{ID: docID, Name: docID + ".txt"}, ix)
}

func TestGetWithoutPut(t *testing.T) {
	store := NewStore(0)
	_, ok := store.Get("u1")
	assert.False(t, ok)
	assert.Equal(t, 0, store.Len())
}

func TestPutThenGet(t *testing.T) {
	store := NewStore(0)
	store.Put(newSession(t, "u1", "doc-a"))

	sess, ok := store.Get("u1")
	require.True(t, ok)
	assert.Equal(t, "doc-a", sess.DocumentID)
	assert.Equal(t, 1, store.Len())

	_, ok = store.Get("u2")
	assert.False(t, ok)
}

func TestPutReplacesSession(t *testing.T) {
	store := NewStore(0)
	store.Put(newSession(t, "u1", "doc-a"))
	require.NoError(t, store.AppendHistory("u1", domain.QAPair{Question: "q", Answer: "a"}))

	store.Put(newSession(t, "u1", "doc-b"))
	sess, ok := store.Get("u1")
	require.True(t, ok)
	assert.Equal(t, "doc-b", sess.DocumentID)
	// History belongs to the session, so replacement starts fresh.
	assert.Equal(t, 0, sess.History.Len())
	assert.Equal(t, 1, store.Len())
}

func TestAppendHistoryWithoutSession(t *testing.T) {
	store := NewStore(0)
	err := store.AppendHistory("u1", domain.QAPair{Question: "q", Answer: "a"})
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindNoSession))
}

func TestTrailingWindow(t *testing.T) {
	store := NewStore(0)
	store.Put(newSession(t, "u1", "doc-a"))
	for i := 0; i < 5; i++ {
		q := fmt.Sprintf("q%d", i)
		require.NoError(t, store.AppendHistory("u1", domain.QAPair{Question: q, Answer: "a" + q}))
	}

	sess, ok := store.Get("u1")
	require.True(t, ok)
	assert.Equal(t, 5, sess.History.Len())

	tail := sess.History.Trailing(3)
	require.Len(t, tail, 3)
	assert.Equal(t, "q2", tail[0].Question)
	assert.Equal(t, "q4", tail[2].Question)

	all := sess.History.Trailing(100)
	assert.Len(t, all, 5)
	assert.Empty(t, sess.History.Trailing(0))
}

func TestConcurrentAppendsAllRecorded(t *testing.T) {
	store := NewStore(0)
	store.Put(newSession(t, "u1", "doc-a"))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.AppendHistory("u1", domain.QAPair{Question: "q", Answer: "a"})
		}()
	}
	wg.Wait()

	sess, ok := store.Get("u1")
	require.True(t, ok)
	assert.Equal(t, 50, sess.History.Len())
}

func TestEvictIdle(t *testing.T) {
	store := NewStore(time.Hour)
	store.Put(newSession(t, "stale", "doc-a"))
	store.Put(newSession(t, "fresh", "doc-b"))

	// Age only the stale user's slot.
	store.mu.Lock()
	store.slots["stale"].lastSeen = time.Now().Add(-2 * time.Hour)
	store.mu.Unlock()

	store.evictIdle(time.Now().Add(-time.Hour))

	_, ok := store.Get("stale")
	assert.False(t, ok)
	_, ok = store.Get("fresh")
	assert.True(t, ok)
}

func TestPutAfterEviction(t *testing.T) {
	store := NewStore(time.Hour)
	store.Put(newSession(t, "u1", "doc-a"))
	store.evictIdle(time.Now().Add(time.Hour))

	_, ok := store.Get("u1")
	require.False(t, ok)

	store.Put(newSession(t, "u1", "doc-b"))
	sess, ok := store.Get("u1")
	require.True(t, ok)
	assert.Equal(t, "doc-b", sess.DocumentID)
}
