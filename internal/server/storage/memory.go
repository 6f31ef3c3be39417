package storage

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Memory is the reference Backend: all collections resident in process
// memory, no durability across restarts. Records are kept in insertion
// order so Find's first-match is deterministic.
//
// Memory owns its record set exclusively: every record is copied on the way
// in and on the way out.
type Memory struct {
	mu          sync.RWMutex
	collections map[string][]Record
}

func NewMemory() *Memory {
	return &Memory{collections: make(map[string][]Record)}
}

func (m *Memory) Save(ctx context.Context, collection string, rec Record) (Record, error) {
	stored := rec.Clone()
	if stored == nil {
		stored = Record{}
	}
	stored[IDField] = uuid.NewString()

	m.mu.Lock()
	m.collections[collection] = append(m.collections[collection], stored)
	m.mu.Unlock()

	return stored.Clone(), nil
}

func (m *Memory) Find(ctx context.Context, collection string, pred Record) (Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, rec := range m.collections[collection] {
		if rec.Matches(pred) {
			return rec.Clone(), nil
		}
	}
	return nil, nil
}
