// Package cache decorates repositories with read-through caching. Reference
// data (seasons, episodes, castaways, scoring rules) changes a few times a
// week while every dashboard and pick request reads it, so these wrappers
// absorb most of the read load. Mutations invalidate the affected keys.
package cache

import (
	"context"
	"sort"
	"strings"

	"github.com/riskibarqy/fantasy-survivor/internal/domain/castaway"
	"github.com/riskibarqy/fantasy-survivor/internal/domain/episode"
	"github.com/riskibarqy/fantasy-survivor/internal/domain/scoringrule"
	"github.com/riskibarqy/fantasy-survivor/internal/domain/season"
	"github.com/riskibarqy/fantasy-survivor/internal/domain/standing"
	basecache "github.com/riskibarqy/fantasy-survivor/internal/platform/cache"
)

type SeasonRepository struct {
	next  season.Repository
	cache *basecache.Store
}

func NewSeasonRepository(next season.Repository, cache *basecache.Store) *SeasonRepository {
	return &SeasonRepository{next: next, cache: cache}
}

func (r *SeasonRepository) List(ctx context.Context) ([]season.Season, error) {
	v, err := r.cache.GetOrLoad(ctx, "season:list", func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]season.Season(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]season.Season)
	return append([]season.Season(nil), items...), nil
}

func (r *SeasonRepository) GetByID(ctx context.Context, seasonID string) (season.Season, bool, error) {
	key := "season:id:" + seasonID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, seasonID)
		if err != nil {
			return nil, err
		}
		return cachedSeason{value: item, exists: exists}, nil
	})
	if err != nil {
		return season.Season{}, false, err
	}

	cached, _ := v.(cachedSeason)
	return cached.value, cached.exists, nil
}

func (r *SeasonRepository) GetActive(ctx context.Context) (season.Season, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, "season:active", func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetActive(ctx)
		if err != nil {
			return nil, err
		}
		return cachedSeason{value: item, exists: exists}, nil
	})
	if err != nil {
		return season.Season{}, false, err
	}

	cached, _ := v.(cachedSeason)
	return cached.value, cached.exists, nil
}

func (r *SeasonRepository) Insert(ctx context.Context, item season.Season) error {
	if err := r.next.Insert(ctx, item); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "season:")
	return nil
}

type cachedSeason struct {
	value  season.Season
	exists bool
}

type EpisodeRepository struct {
	next  episode.Repository
	cache *basecache.Store
}

func NewEpisodeRepository(next episode.Repository, cache *basecache.Store) *EpisodeRepository {
	return &EpisodeRepository{next: next, cache: cache}
}

func (r *EpisodeRepository) GetByID(ctx context.Context, episodeID string) (episode.Episode, bool, error) {
	key := episodeByIDKey(episodeID)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, episodeID)
		if err != nil {
			return nil, err
		}
		return cachedEpisode{value: item, exists: exists}, nil
	})
	if err != nil {
		return episode.Episode{}, false, err
	}

	cached, _ := v.(cachedEpisode)
	return cached.value, cached.exists, nil
}

func (r *EpisodeRepository) ListBySeason(ctx context.Context, seasonID string) ([]episode.Episode, error) {
	key := episodeListBySeasonPrefix + seasonID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListBySeason(ctx, seasonID)
		if err != nil {
			return nil, err
		}
		return append([]episode.Episode(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]episode.Episode)
	return append([]episode.Episode(nil), items...), nil
}

func (r *EpisodeRepository) Insert(ctx context.Context, item episode.Episode) error {
	if err := r.next.Insert(ctx, item); err != nil {
		return err
	}
	r.cache.Delete(ctx, episodeByIDKey(item.ID))
	r.cache.Delete(ctx, episodeListBySeasonPrefix+item.SeasonID)
	return nil
}

// MarkFinal only knows the episode id, so every season list goes.
func (r *EpisodeRepository) MarkFinal(ctx context.Context, episodeID string) error {
	if err := r.next.MarkFinal(ctx, episodeID); err != nil {
		return err
	}
	r.cache.Delete(ctx, episodeByIDKey(episodeID))
	r.cache.DeletePrefix(ctx, episodeListBySeasonPrefix)
	return nil
}

type cachedEpisode struct {
	value  episode.Episode
	exists bool
}

const episodeListBySeasonPrefix = "episode:list:season:"

func episodeByIDKey(episodeID string) string {
	return "episode:id:" + episodeID
}

type CastawayRepository struct {
	next  castaway.Repository
	cache *basecache.Store
}

func NewCastawayRepository(next castaway.Repository, cache *basecache.Store) *CastawayRepository {
	return &CastawayRepository{next: next, cache: cache}
}

func (r *CastawayRepository) GetByID(ctx context.Context, castawayID string) (castaway.Castaway, bool, error) {
	key := castawayByIDKey(castawayID)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, castawayID)
		if err != nil {
			return nil, err
		}
		return cachedCastaway{value: item, exists: exists}, nil
	})
	if err != nil {
		return castaway.Castaway{}, false, err
	}

	cached, _ := v.(cachedCastaway)
	return cached.value, cached.exists, nil
}

func (r *CastawayRepository) GetByIDs(ctx context.Context, castawayIDs []string) ([]castaway.Castaway, error) {
	ids := append([]string(nil), castawayIDs...)
	sort.Strings(ids)
	key := castawayByIDsPrefix + strings.Join(ids, ",")
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.GetByIDs(ctx, castawayIDs)
		if err != nil {
			return nil, err
		}
		return append([]castaway.Castaway(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]castaway.Castaway)
	return append([]castaway.Castaway(nil), items...), nil
}

func (r *CastawayRepository) ListBySeason(ctx context.Context, seasonID string) ([]castaway.Castaway, error) {
	key := castawayListBySeasonPrefix + seasonID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListBySeason(ctx, seasonID)
		if err != nil {
			return nil, err
		}
		return append([]castaway.Castaway(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]castaway.Castaway)
	return append([]castaway.Castaway(nil), items...), nil
}

func (r *CastawayRepository) Insert(ctx context.Context, item castaway.Castaway) error {
	if err := r.next.Insert(ctx, item); err != nil {
		return err
	}
	r.cache.Delete(ctx, castawayByIDKey(item.ID))
	r.cache.Delete(ctx, castawayListBySeasonPrefix+item.SeasonID)
	r.cache.DeletePrefix(ctx, castawayByIDsPrefix)
	return nil
}

func (r *CastawayRepository) UpdateStatus(ctx context.Context, castawayID string, status castaway.Status) error {
	if err := r.next.UpdateStatus(ctx, castawayID, status); err != nil {
		return err
	}
	r.cache.Delete(ctx, castawayByIDKey(castawayID))
	r.cache.DeletePrefix(ctx, castawayListBySeasonPrefix)
	r.cache.DeletePrefix(ctx, castawayByIDsPrefix)
	return nil
}

type cachedCastaway struct {
	value  castaway.Castaway
	exists bool
}

const (
	castawayListBySeasonPrefix = "castaway:list:season:"
	castawayByIDsPrefix        = "castaway:ids:"
)

func castawayByIDKey(castawayID string) string {
	return "castaway:id:" + castawayID
}

type ScoringRuleRepository struct {
	next  scoringrule.Repository
	cache *basecache.Store
}

func NewScoringRuleRepository(next scoringrule.Repository, cache *basecache.Store) *ScoringRuleRepository {
	return &ScoringRuleRepository{next: next, cache: cache}
}

func (r *ScoringRuleRepository) GetByID(ctx context.Context, ruleID string) (scoringrule.Rule, bool, error) {
	key := "rule:id:" + ruleID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, ruleID)
		if err != nil {
			return nil, err
		}
		return cachedRule{value: item, exists: exists}, nil
	})
	if err != nil {
		return scoringrule.Rule{}, false, err
	}

	cached, _ := v.(cachedRule)
	return cached.value, cached.exists, nil
}

func (r *ScoringRuleRepository) GetByIDs(ctx context.Context, ruleIDs []string) (map[string]scoringrule.Rule, error) {
	ids := append([]string(nil), ruleIDs...)
	sort.Strings(ids)
	key := "rule:ids:" + strings.Join(ids, ",")
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.GetByIDs(ctx, ruleIDs)
		if err != nil {
			return nil, err
		}
		return cloneRuleMap(items), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.(map[string]scoringrule.Rule)
	return cloneRuleMap(items), nil
}

func (r *ScoringRuleRepository) GetActiveByCode(ctx context.Context, seasonID, code string) (scoringrule.Rule, bool, error) {
	key := "rule:code:" + seasonID + ":" + scoringrule.NormalizeCode(code)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetActiveByCode(ctx, seasonID, code)
		if err != nil {
			return nil, err
		}
		return cachedRule{value: item, exists: exists}, nil
	})
	if err != nil {
		return scoringrule.Rule{}, false, err
	}

	cached, _ := v.(cachedRule)
	return cached.value, cached.exists, nil
}

func (r *ScoringRuleRepository) ListActiveBySeason(ctx context.Context, seasonID, category string) ([]scoringrule.Rule, error) {
	key := "rule:list:" + seasonID + ":" + category
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListActiveBySeason(ctx, seasonID, category)
		if err != nil {
			return nil, err
		}
		return append([]scoringrule.Rule(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]scoringrule.Rule)
	return append([]scoringrule.Rule(nil), items...), nil
}

func (r *ScoringRuleRepository) Insert(ctx context.Context, item scoringrule.Rule) error {
	if err := r.next.Insert(ctx, item); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "rule:")
	return nil
}

func (r *ScoringRuleRepository) Update(ctx context.Context, item scoringrule.Rule) error {
	if err := r.next.Update(ctx, item); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "rule:")
	return nil
}

type cachedRule struct {
	value  scoringrule.Rule
	exists bool
}

func cloneRuleMap(items map[string]scoringrule.Rule) map[string]scoringrule.Rule {
	out := make(map[string]scoringrule.Rule, len(items))
	for k, v := range items {
		out[k] = v
	}
	return out
}

type StandingRepository struct {
	next  standing.Repository
	cache *basecache.Store
}

func NewStandingRepository(next standing.Repository, cache *basecache.Store) *StandingRepository {
	return &StandingRepository{next: next, cache: cache}
}

func (r *StandingRepository) ListByLeague(ctx context.Context, leagueID string) ([]standing.Standing, error) {
	key := standingByLeagueKey(leagueID)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListByLeague(ctx, leagueID)
		if err != nil {
			return nil, err
		}
		return append([]standing.Standing(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]standing.Standing)
	return append([]standing.Standing(nil), items...), nil
}

func (r *StandingRepository) ReplaceByLeague(ctx context.Context, leagueID string, rows []standing.Standing) error {
	if err := r.next.ReplaceByLeague(ctx, leagueID, rows); err != nil {
		return err
	}
	r.cache.Delete(ctx, standingByLeagueKey(leagueID))
	return nil
}

func standingByLeagueKey(leagueID string) string {
	return "standing:league:" + leagueID
}
