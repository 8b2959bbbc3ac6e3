package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/fantasy-survivor/internal/domain/pick"
)

type PickRepository struct {
	mu    sync.RWMutex
	items map[string]pick.WeeklyPick
}

func NewPickRepository() *PickRepository {
	return &PickRepository{items: make(map[string]pick.WeeklyPick)}
}

func (r *PickRepository) GetByID(_ context.Context, pickID string) (pick.WeeklyPick, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.items[pickID]
	if !ok {
		return pick.WeeklyPick{}, false, nil
	}

	return clonePick(p), true, nil
}

func (r *PickRepository) GetByMemberAndEpisode(_ context.Context, leagueID, userID, episodeID string) (pick.WeeklyPick, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.items {
		if p.LeagueID == leagueID && p.UserID == userID && p.EpisodeID == episodeID {
			return clonePick(p), true, nil
		}
	}

	return pick.WeeklyPick{}, false, nil
}

func (r *PickRepository) ListByLeagueAndEpisode(_ context.Context, leagueID, episodeID string) ([]pick.WeeklyPick, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]pick.WeeklyPick, 0)
	for _, p := range r.items {
		if p.LeagueID == leagueID && p.EpisodeID == episodeID {
			out = append(out, clonePick(p))
		}
	}

	return out, nil
}

func (r *PickRepository) ListByEpisode(_ context.Context, episodeID string) ([]pick.WeeklyPick, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]pick.WeeklyPick, 0)
	for _, p := range r.items {
		if p.EpisodeID == episodeID {
			out = append(out, clonePick(p))
		}
	}

	return out, nil
}

func (r *PickRepository) ListByMember(_ context.Context, leagueID, userID string) ([]pick.WeeklyPick, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]pick.WeeklyPick, 0)
	for _, p := range r.items {
		if p.LeagueID == leagueID && p.UserID == userID {
			out = append(out, clonePick(p))
		}
	}

	return out, nil
}

func (r *PickRepository) ListScorableByLeague(_ context.Context, leagueID string) ([]pick.WeeklyPick, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]pick.WeeklyPick, 0)
	for _, p := range r.items {
		if p.LeagueID == leagueID && p.State.Scorable() {
			out = append(out, clonePick(p))
		}
	}

	return out, nil
}

func (r *PickRepository) Insert(_ context.Context, p pick.WeeklyPick) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.items {
		if existing.LeagueID == p.LeagueID && existing.UserID == p.UserID && existing.EpisodeID == p.EpisodeID {
			return pick.ErrDuplicate
		}
	}
	r.items[p.ID] = clonePick(p)

	return nil
}

func (r *PickRepository) Update(_ context.Context, p pick.WeeklyPick) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[p.ID] = clonePick(p)
	return nil
}

func clonePick(p pick.WeeklyPick) pick.WeeklyPick {
	copied := p
	if p.CastawayID != nil {
		castawayID := *p.CastawayID
		copied.CastawayID = &castawayID
	}
	if p.SubmittedAt != nil {
		submittedAt := *p.SubmittedAt
		copied.SubmittedAt = &submittedAt
	}
	if p.LockedAt != nil {
		lockedAt := *p.LockedAt
		copied.LockedAt = &lockedAt
	}
	if p.Points != nil {
		points := *p.Points
		copied.Points = &points
	}
	if p.ScoredAt != nil {
		scoredAt := *p.ScoredAt
		copied.ScoredAt = &scoredAt
	}
	return copied
}
