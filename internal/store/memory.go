package store

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Memory keeps drafts in process. Used by tests and the default dev setup.
type Memory struct {
	mu     sync.RWMutex
	drafts map[string]DraftTemplate
	now    func() time.Time
}

func NewMemory() *Memory {
	return &Memory{drafts: make(map[string]DraftTemplate), now: time.Now}
}

func (m *Memory) Create(_ context.Context, d *DraftTemplate) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := prepare(d, m.now()); err != nil {
		return err
	}
	for _, existing := range m.drafts {
		if existing.Name == d.Name {
			return ErrDuplicateName
		}
	}
	m.drafts[d.ID] = *d
	return nil
}

func (m *Memory) Get(_ context.Context, id string) (*DraftTemplate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	d, ok := m.drafts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &d, nil
}

// List returns drafts newest first.
func (m *Memory) List(_ context.Context) ([]DraftTemplate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]DraftTemplate, 0, len(m.drafts))
	for _, d := range m.drafts {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].Name < out[j].Name
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *Memory) Close(context.Context) error { return nil }
