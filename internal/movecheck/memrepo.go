package movecheck

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// DefaultMemoryCapacity bounds the in-process audit log.
const DefaultMemoryCapacity = 1024

// memrepo keeps the most recent audit records in process, evicting the
// oldest on overflow. Used when DATABASE_URL is unset and in tests.
type memrepo struct {
	mu    sync.RWMutex
	seq   int64
	ring  []*memEntry
	next  int
	index map[uuid.UUID]*memEntry
}

type memEntry struct {
	seq int64
	rec AuditRecord
}

// NewMemoryRepository returns a ring-buffered repository holding at most
// capacity records. capacity <= 0 selects DefaultMemoryCapacity.
func NewMemoryRepository(capacity int) Repository {
	if capacity <= 0 {
		capacity = DefaultMemoryCapacity
	}
	return &memrepo{
		ring:  make([]*memEntry, capacity),
		index: make(map[uuid.UUID]*memEntry, capacity),
	}
}

func (m *memrepo) InsertCheck(ctx context.Context, rec *AuditRecord) error {
	if rec == nil {
		return ErrDuplicateCheck
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.index[rec.CheckID]; exists {
		return ErrDuplicateCheck
	}
	if old := m.ring[m.next]; old != nil {
		delete(m.index, old.rec.CheckID)
	}
	m.seq++
	e := &memEntry{seq: m.seq, rec: *rec}
	m.ring[m.next] = e
	m.index[rec.CheckID] = e
	m.next = (m.next + 1) % len(m.ring)
	return nil
}

func (m *memrepo) RecentChecks(ctx context.Context, limit int) ([]*AuditRecord, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	m.mu.RLock()
	entries := make([]*memEntry, 0, len(m.index))
	for _, e := range m.ring {
		if e != nil {
			entries = append(entries, e)
		}
	}
	m.mu.RUnlock()

	// Newest first; insertion order breaks ties.
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.rec.CheckedAt.Equal(b.rec.CheckedAt) {
			return a.rec.CheckedAt.After(b.rec.CheckedAt)
		}
		return a.seq > b.seq
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	out := make([]*AuditRecord, len(entries))
	for i, e := range entries {
		rec := e.rec
		out[i] = &rec
	}
	return out, nil
}

func (m *memrepo) count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.index)
}
