package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/fantasy-survivor/internal/domain/scoringevent"
)

type ScoringEventRepository struct {
	mu    sync.RWMutex
	items map[string]scoringevent.Event
}

func NewScoringEventRepository() *ScoringEventRepository {
	return &ScoringEventRepository{items: make(map[string]scoringevent.Event)}
}

func (r *ScoringEventRepository) ListByEpisode(_ context.Context, episodeID string) ([]scoringevent.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]scoringevent.Event, 0)
	for _, e := range r.items {
		if e.EpisodeID == episodeID {
			out = append(out, e)
		}
	}

	return out, nil
}

func (r *ScoringEventRepository) ListByEpisodes(_ context.Context, episodeIDs []string) ([]scoringevent.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wanted := make(map[string]bool, len(episodeIDs))
	for _, id := range episodeIDs {
		wanted[id] = true
	}

	out := make([]scoringevent.Event, 0)
	for _, e := range r.items {
		if wanted[e.EpisodeID] {
			out = append(out, e)
		}
	}

	return out, nil
}

func (r *ScoringEventRepository) ListByCastaway(_ context.Context, castawayID string) ([]scoringevent.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]scoringevent.Event, 0)
	for _, e := range r.items {
		if e.CastawayID == castawayID {
			out = append(out, e)
		}
	}

	return out, nil
}

func (r *ScoringEventRepository) Upsert(_ context.Context, event scoringevent.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := eventKey(event.EpisodeID, event.CastawayID, event.RuleID)
	r.items[key] = event

	return nil
}

func (r *ScoringEventRepository) DeleteByEpisodeAndTuple(_ context.Context, episodeID, castawayID, ruleID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, eventKey(episodeID, castawayID, ruleID))
	return nil
}

func eventKey(episodeID, castawayID, ruleID string) string {
	return episodeID + "::" + castawayID + "::" + ruleID
}
