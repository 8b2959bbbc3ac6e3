package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/fantasy-survivor/internal/domain/castaway"
)

type CastawayRepository struct {
	mu    sync.RWMutex
	items map[string]castaway.Castaway
}

func NewCastawayRepository(castaways []castaway.Castaway) *CastawayRepository {
	items := make(map[string]castaway.Castaway, len(castaways))
	for _, c := range castaways {
		items[c.ID] = c
	}

	return &CastawayRepository{items: items}
}

func (r *CastawayRepository) GetByID(_ context.Context, castawayID string) (castaway.Castaway, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.items[castawayID]
	if !ok {
		return castaway.Castaway{}, false, nil
	}

	return c, true, nil
}

func (r *CastawayRepository) GetByIDs(_ context.Context, castawayIDs []string) ([]castaway.Castaway, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]castaway.Castaway, 0, len(castawayIDs))
	for _, id := range castawayIDs {
		if c, ok := r.items[id]; ok {
			out = append(out, c)
		}
	}

	return out, nil
}

func (r *CastawayRepository) ListBySeason(_ context.Context, seasonID string) ([]castaway.Castaway, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]castaway.Castaway, 0)
	for _, c := range r.items {
		if c.SeasonID == seasonID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	return out, nil
}

func (r *CastawayRepository) Insert(_ context.Context, c castaway.Castaway) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[c.ID] = c
	return nil
}

func (r *CastawayRepository) UpdateStatus(_ context.Context, castawayID string, status castaway.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.items[castawayID]
	if !ok {
		return nil
	}
	c.Status = status
	r.items[castawayID] = c

	return nil
}
