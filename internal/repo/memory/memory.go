package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hamed0406/apihealth/internal/domain"
	"github.com/hamed0406/apihealth/internal/repo"
)

type Store struct {
	mu        sync.RWMutex
	checks    []domain.ProbeRecord // insertion order, oldest first
	endpoints []domain.Endpoint
	last      time.Time
	now       func() time.Time
}

func New() *Store {
	return &Store{
		checks: make([]domain.ProbeRecord, 0, 128),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the insert timestamp source; used by tests.
func (m *Store) WithClock(now func() time.Time) *Store {
	m.now = now
	return m
}

// ---- CheckStore ----

func (m *Store) Insert(ctx context.Context, r *domain.ProbeRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	at := m.now()
	if at.Before(m.last) {
		at = m.last
	}
	m.last = at

	r.ID = uuid.NewString()
	r.CheckedAt = at
	m.checks = append(m.checks, *r)
	return nil
}

func (m *Store) Recent(ctx context.Context, limit int) ([]domain.ProbeRecord, error) {
	if limit <= 0 {
		return []domain.ProbeRecord{}, nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.newestFirst(limit, func(domain.ProbeRecord) bool { return true }), nil
}

func (m *Store) All(ctx context.Context) ([]domain.ProbeRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.newestFirst(-1, func(domain.ProbeRecord) bool { return true }), nil
}

func (m *Store) ByTarget(ctx context.Context, url string) ([]domain.ProbeRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.newestFirst(-1, func(r domain.ProbeRecord) bool { return r.TargetURL == url }), nil
}

// newestFirst walks the log backwards. Insert keeps CheckedAt non-decreasing,
// so reverse insertion order is newest-first. A negative limit means no limit.
func (m *Store) newestFirst(limit int, keep func(domain.ProbeRecord) bool) []domain.ProbeRecord {
	out := make([]domain.ProbeRecord, 0)
	for i := len(m.checks) - 1; i >= 0; i-- {
		if limit >= 0 && len(out) == limit {
			break
		}
		if keep(m.checks[i]) {
			out = append(out, m.checks[i])
		}
	}
	return out
}

// ---- EndpointStore ----

// AddEndpoint is idempotent on (name, url); an existing entry keeps its ID.
func (m *Store) AddEndpoint(ctx context.Context, e *domain.Endpoint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, have := range m.endpoints {
		if have.Name == e.Name && have.URL == e.URL {
			e.ID = have.ID
			return nil
		}
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	m.endpoints = append(m.endpoints, *e)
	return nil
}

func (m *Store) ListEndpoints(ctx context.Context) ([]domain.Endpoint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Endpoint, len(m.endpoints))
	copy(out, m.endpoints)
	return out, nil
}

var _ repo.CheckStore = (*Store)(nil)
var _ repo.EndpointStore = (*Store)(nil)
