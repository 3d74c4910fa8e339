// Package store provides in-process Repository implementations.
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/dimigomeal/dimigomeal-api/meal"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu      sync.RWMutex
	records []meal.Record // sorted by date, then sequence id
	nextSeq int64
	err     error
}

func NewMemory(records ...meal.Record) *Memory {
	m := &Memory{}
	for _, r := range records {
		m.putLocked(r)
	}
	return m
}

// Put stores a record. A zero SequenceID is assigned automatically.
func (m *Memory) Put(r meal.Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.putLocked(r)
}

func (m *Memory) putLocked(r meal.Record) {
	if r.SequenceID == 0 {
		m.nextSeq++
		r.SequenceID = m.nextSeq
	} else if r.SequenceID > m.nextSeq {
		m.nextSeq = r.SequenceID
	}

	// Binary search for insertion point
	i := sort.Search(len(m.records), func(i int) bool {
		cur := m.records[i]
		if cur.Date != r.Date {
			return cur.Date > r.Date
		}
		return cur.SequenceID > r.SequenceID
	})

	m.records = append(m.records, meal.Record{})
	copy(m.records[i+1:], m.records[i:])
	m.records[i] = r
}

// FailWith makes every subsequent read return err wrapped in meal.ErrStorage.
// Pass nil to clear.
func (m *Memory) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *Memory) FindByDate(_ context.Context, date string) (*meal.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.err != nil {
		return nil, fmt.Errorf("%w: %v", meal.ErrStorage, m.err)
	}
	for _, r := range m.records {
		if r.Date == date {
			found := r
			return &found, nil
		}
	}
	return nil, meal.ErrMealNotFound
}

func (m *Memory) FindByDateRange(_ context.Context, start, end string) ([]meal.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.err != nil {
		return nil, fmt.Errorf("%w: %v", meal.ErrStorage, m.err)
	}
	result := []meal.Record{}
	for _, r := range m.records {
		if start <= r.Date && r.Date <= end {
			result = append(result, r)
		}
	}
	return result, nil
}
