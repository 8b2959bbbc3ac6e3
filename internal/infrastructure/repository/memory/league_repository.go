package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/fantasy-survivor/internal/domain/league"
)

type LeagueRepository struct {
	mu      sync.RWMutex
	items   map[string]league.League
	members map[string]league.Member
	orders  []string
}

func NewLeagueRepository(leagues []league.League) *LeagueRepository {
	items := make(map[string]league.League, len(leagues))
	orders := make([]string, 0, len(leagues))

	for _, l := range leagues {
		items[l.ID] = l
		orders = append(orders, l.ID)
	}

	return &LeagueRepository{
		items:   items,
		members: make(map[string]league.Member),
		orders:  orders,
	}
}

func (r *LeagueRepository) GetByID(_ context.Context, leagueID string) (league.League, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.items[leagueID]
	if !ok {
		return league.League{}, false, nil
	}

	return l, true, nil
}

func (r *LeagueRepository) GetByInviteCode(_ context.Context, inviteCode string) (league.League, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.orders {
		if l := r.items[id]; l.InviteCode == inviteCode {
			return l, true, nil
		}
	}

	return league.League{}, false, nil
}

func (r *LeagueRepository) ListBySeason(_ context.Context, seasonID string) ([]league.League, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]league.League, 0)
	for _, id := range r.orders {
		if l := r.items[id]; l.SeasonID == seasonID {
			out = append(out, l)
		}
	}

	return out, nil
}

func (r *LeagueRepository) ListByUser(_ context.Context, userID string) ([]league.League, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]league.League, 0)
	for _, id := range r.orders {
		if _, ok := r.members[memberKey(id, userID)]; ok {
			out = append(out, r.items[id])
		}
	}

	return out, nil
}

func (r *LeagueRepository) Insert(_ context.Context, l league.League) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[l.ID]; !ok {
		r.orders = append(r.orders, l.ID)
	}
	r.items[l.ID] = l

	return nil
}

func (r *LeagueRepository) GetMember(_ context.Context, leagueID, userID string) (league.Member, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.members[memberKey(leagueID, userID)]
	if !ok {
		return league.Member{}, false, nil
	}

	return m, true, nil
}

func (r *LeagueRepository) ListMembers(_ context.Context, leagueID string) ([]league.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]league.Member, 0)
	for _, m := range r.members {
		if m.LeagueID == leagueID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].JoinedAt.Before(out[j].JoinedAt) })

	return out, nil
}

func (r *LeagueRepository) InsertMember(_ context.Context, m league.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := memberKey(m.LeagueID, m.UserID)
	if _, ok := r.members[key]; ok {
		return league.ErrDuplicateMember
	}
	r.members[key] = m

	return nil
}

func memberKey(leagueID, userID string) string {
	return leagueID + "::" + userID
}
