package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/fantasy-survivor/internal/domain/standing"
)

type StandingRepository struct {
	mu    sync.RWMutex
	items map[string][]standing.Standing
}

func NewStandingRepository() *StandingRepository {
	return &StandingRepository{items: make(map[string][]standing.Standing)}
}

func (r *StandingRepository) ListByLeague(_ context.Context, leagueID string) ([]standing.Standing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows, ok := r.items[leagueID]
	if !ok {
		return []standing.Standing{}, nil
	}

	return append([]standing.Standing(nil), rows...), nil
}

func (r *StandingRepository) ReplaceByLeague(_ context.Context, leagueID string, rows []standing.Standing) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[leagueID] = append([]standing.Standing(nil), rows...)
	return nil
}
