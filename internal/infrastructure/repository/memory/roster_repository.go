package memory

import (
	"context"
	"sync"
	"time"

	"github.com/riskibarqy/fantasy-survivor/internal/domain/roster"
)

type RosterRepository struct {
	mu    sync.RWMutex
	items map[string]roster.Entry
}

func NewRosterRepository() *RosterRepository {
	return &RosterRepository{items: make(map[string]roster.Entry)}
}

func (r *RosterRepository) GetByID(_ context.Context, entryID string) (roster.Entry, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.items[entryID]
	if !ok {
		return roster.Entry{}, false, nil
	}

	return cloneEntry(e), true, nil
}

func (r *RosterRepository) ListActiveByMember(_ context.Context, leagueID, userID string) ([]roster.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]roster.Entry, 0)
	for _, e := range r.items {
		if e.LeagueID == leagueID && e.UserID == userID && e.Active() {
			out = append(out, cloneEntry(e))
		}
	}

	return roster.PreferredOrder(out), nil
}

func (r *RosterRepository) ListByMember(_ context.Context, leagueID, userID string) ([]roster.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]roster.Entry, 0)
	for _, e := range r.items {
		if e.LeagueID == leagueID && e.UserID == userID {
			out = append(out, cloneEntry(e))
		}
	}

	return roster.PreferredOrder(out), nil
}

func (r *RosterRepository) Insert(_ context.Context, e roster.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e.Active() {
		for _, existing := range r.items {
			if existing.LeagueID == e.LeagueID && existing.UserID == e.UserID &&
				existing.CastawayID == e.CastawayID && existing.Active() {
				return roster.ErrDuplicateCastaway
			}
		}
	}
	r.items[e.ID] = cloneEntry(e)

	return nil
}

func (r *RosterRepository) Drop(_ context.Context, entryID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.items[entryID]
	if !ok {
		return nil
	}
	if e.DroppedAt != nil {
		return roster.ErrEntryAlreadyDropped
	}
	dropped := at
	e.DroppedAt = &dropped
	r.items[entryID] = e

	return nil
}

func (r *RosterRepository) UpdateRanks(_ context.Context, leagueID, userID string, rankByEntryID map[string]int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, rank := range rankByEntryID {
		e, ok := r.items[id]
		if !ok || e.LeagueID != leagueID || e.UserID != userID {
			continue
		}
		e.DraftRank = rank
		r.items[id] = e
	}

	return nil
}

func cloneEntry(e roster.Entry) roster.Entry {
	copied := e
	if e.DroppedAt != nil {
		dropped := *e.DroppedAt
		copied.DroppedAt = &dropped
	}
	return copied
}
