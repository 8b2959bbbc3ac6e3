package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/fantasy-survivor/internal/domain/episode"
)

type EpisodeRepository struct {
	mu    sync.RWMutex
	items map[string]episode.Episode
}

func NewEpisodeRepository(episodes []episode.Episode) *EpisodeRepository {
	items := make(map[string]episode.Episode, len(episodes))
	for _, e := range episodes {
		items[e.ID] = e
	}

	return &EpisodeRepository{items: items}
}

func (r *EpisodeRepository) GetByID(_ context.Context, episodeID string) (episode.Episode, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.items[episodeID]
	if !ok {
		return episode.Episode{}, false, nil
	}

	return e, true, nil
}

func (r *EpisodeRepository) ListBySeason(_ context.Context, seasonID string) ([]episode.Episode, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]episode.Episode, 0)
	for _, e := range r.items {
		if e.SeasonID == seasonID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })

	return out, nil
}

func (r *EpisodeRepository) Insert(_ context.Context, e episode.Episode) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[e.ID] = e
	return nil
}

func (r *EpisodeRepository) MarkFinal(_ context.Context, episodeID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.items[episodeID]
	if !ok {
		return nil
	}
	e.IsFinal = true
	r.items[episodeID] = e

	return nil
}
