package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/riskibarqy/fantasy-survivor/internal/domain/league"
	"github.com/riskibarqy/fantasy-survivor/internal/domain/pick"
	"github.com/riskibarqy/fantasy-survivor/internal/domain/scoringevent"
	"github.com/riskibarqy/fantasy-survivor/internal/domain/standing"
	"github.com/riskibarqy/fantasy-survivor/internal/platform/resilience"
)

const (
	defaultStandingsRecomputeInterval = 30 * time.Second
	standingsRefreshFanout            = 4
)

type StandingsService struct {
	leagueRepo   league.Repository
	pickRepo     pick.Repository
	eventRepo    scoringevent.Repository
	standingRepo standing.Repository
	now          func() time.Time

	recomputeFlight   resilience.SingleFlight
	recomputeMu       sync.Mutex
	lastRecomputeAt   map[string]time.Time
	recomputeInterval time.Duration
}

func NewStandingsService(
	leagueRepo league.Repository,
	pickRepo pick.Repository,
	eventRepo scoringevent.Repository,
	standingRepo standing.Repository,
) *StandingsService {
	return &StandingsService{
		leagueRepo:        leagueRepo,
		pickRepo:          pickRepo,
		eventRepo:         eventRepo,
		standingRepo:      standingRepo,
		now:               time.Now,
		lastRecomputeAt:   make(map[string]time.Time),
		recomputeInterval: defaultStandingsRecomputeInterval,
	}
}

// Rank returns the league table, best member first. A league with no stored
// table yet gets one computed on the spot; concurrent first reads share a
// single recompute.
func (s *StandingsService) Rank(ctx context.Context, leagueID, userID string) ([]standing.Standing, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.Rank")
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	userID = strings.TrimSpace(userID)
	if leagueID == "" || userID == "" {
		return nil, fmt.Errorf("%w: league id and user id are required", ErrInvalidInput)
	}

	if _, joined, err := s.leagueRepo.GetMember(ctx, leagueID, userID); err != nil {
		return nil, fmt.Errorf("get league member: %w", err)
	} else if !joined {
		return nil, fmt.Errorf("%w: not a member of league %s", ErrUnauthorized, leagueID)
	}

	rows, err := s.standingRepo.ListByLeague(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list standings: %w", err)
	}
	if len(rows) > 0 {
		return rows, nil
	}

	// No table yet: build it once, sharing the work across concurrent first
	// reads and backing off when a recompute just ran.
	if s.shouldSkipRecompute(leagueID, s.now().UTC()) {
		return rows, nil
	}
	key := "standings:recompute:" + leagueID
	_, err, _ = s.recomputeFlight.Do(key, func() (any, error) {
		return nil, s.RecomputeLeague(ctx, leagueID)
	})
	if err != nil {
		return nil, err
	}

	rows, err = s.standingRepo.ListByLeague(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list standings after recompute: %w", err)
	}

	return rows, nil
}

// RecomputeLeague rebuilds the league table from scored picks. Points add up
// per member; ties break on fewer negative-event quantities, then earlier
// join, then user id so the order is total. The stored table is replaced
// wholesale.
func (s *StandingsService) RecomputeLeague(ctx context.Context, leagueID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.RecomputeLeague")
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	now := s.now().UTC()
	if _, exists, err := s.leagueRepo.GetByID(ctx, leagueID); err != nil {
		return fmt.Errorf("get league: %w", err)
	} else if !exists {
		return fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}

	members, err := s.leagueRepo.ListMembers(ctx, leagueID)
	if err != nil {
		return fmt.Errorf("list league members: %w", err)
	}

	picks, err := s.pickRepo.ListScorableByLeague(ctx, leagueID)
	if err != nil {
		return fmt.Errorf("list scorable picks: %w", err)
	}

	scored := make([]pick.WeeklyPick, 0, len(picks))
	episodeIDs := make([]string, 0)
	seenEpisode := make(map[string]struct{})
	for _, p := range picks {
		if p.State != pick.StateScored {
			continue
		}
		scored = append(scored, p)
		if _, ok := seenEpisode[p.EpisodeID]; !ok {
			seenEpisode[p.EpisodeID] = struct{}{}
			episodeIDs = append(episodeIDs, p.EpisodeID)
		}
	}

	negativeByEpisodeCastaway, err := s.negativeQuantities(ctx, episodeIDs)
	if err != nil {
		return err
	}

	type tally struct {
		points         int
		scoredPicks    int
		negativeEvents int
	}
	tallies := make(map[string]*tally, len(members))
	for _, member := range members {
		tallies[member.UserID] = &tally{}
	}

	for _, p := range scored {
		row, ok := tallies[p.UserID]
		if !ok {
			// Scored pick for a departed member; keep it out of the table.
			continue
		}
		if p.Points != nil {
			row.points += *p.Points
		}
		row.scoredPicks++
		if p.CastawayID != nil {
			row.negativeEvents += negativeByEpisodeCastaway[p.EpisodeID+"::"+*p.CastawayID]
		}
	}

	rows := make([]standing.Standing, 0, len(members))
	for _, member := range members {
		row := tallies[member.UserID]
		rows = append(rows, standing.Standing{
			LeagueID:       leagueID,
			UserID:         member.UserID,
			DisplayName:    member.DisplayName,
			Points:         row.points,
			ScoredPicks:    row.scoredPicks,
			NegativeEvents: row.negativeEvents,
			JoinedAt:       member.JoinedAt,
			CalculatedAt:   now,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Points != rows[j].Points {
			return rows[i].Points > rows[j].Points
		}
		if rows[i].NegativeEvents != rows[j].NegativeEvents {
			return rows[i].NegativeEvents < rows[j].NegativeEvents
		}
		if !rows[i].JoinedAt.Equal(rows[j].JoinedAt) {
			return rows[i].JoinedAt.Before(rows[j].JoinedAt)
		}
		return rows[i].UserID < rows[j].UserID
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}

	if err := s.standingRepo.ReplaceByLeague(ctx, leagueID, rows); err != nil {
		return fmt.Errorf("replace standings: %w", err)
	}
	s.markRecompute(leagueID, now)

	return nil
}

// RecomputeSeasonResult summarizes a season-wide standings refresh. Handlers
// return it to the caller as-is, hence the JSON tags.
type RecomputeSeasonResult struct {
	SeasonID   string          `json:"season_id"`
	Leagues    int             `json:"leagues"`
	Recomputed int             `json:"recomputed"`
	Failures   []LeagueFailure `json:"failures"`
}

type LeagueFailure struct {
	LeagueID string `json:"league_id"`
	Reason   string `json:"reason"`
}

// RecomputeSeason rebuilds the table of every league in the season. One
// league failing does not stop the rest; the result carries the failures so
// the job audit trail shows them.
func (s *StandingsService) RecomputeSeason(ctx context.Context, seasonID string) (RecomputeSeasonResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.RecomputeSeason")
	defer span.End()

	seasonID = strings.TrimSpace(seasonID)
	if seasonID == "" {
		return RecomputeSeasonResult{}, fmt.Errorf("%w: season id is required", ErrInvalidInput)
	}

	leagues, err := s.leagueRepo.ListBySeason(ctx, seasonID)
	if err != nil {
		return RecomputeSeasonResult{}, fmt.Errorf("list leagues by season: %w", err)
	}

	result := RecomputeSeasonResult{
		SeasonID: seasonID,
		Leagues:  len(leagues),
		Failures: make([]LeagueFailure, 0),
	}

	var mu sync.Mutex
	workers := pool.New().WithMaxGoroutines(standingsRefreshFanout)
	for _, item := range leagues {
		item := item
		workers.Go(func() {
			err := s.RecomputeLeague(ctx, item.ID)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failures = append(result.Failures, LeagueFailure{LeagueID: item.ID, Reason: err.Error()})
				return
			}
			result.Recomputed++
		})
	}
	workers.Wait()

	sort.Slice(result.Failures, func(i, j int) bool {
		return result.Failures[i].LeagueID < result.Failures[j].LeagueID
	})

	return result, nil
}

// negativeQuantities sums penalty quantities per (episode, castaway) so a
// member's tie-break count follows the castaways they actually fielded.
func (s *StandingsService) negativeQuantities(ctx context.Context, episodeIDs []string) (map[string]int, error) {
	if len(episodeIDs) == 0 {
		return map[string]int{}, nil
	}

	events, err := s.eventRepo.ListByEpisodes(ctx, episodeIDs)
	if err != nil {
		return nil, fmt.Errorf("list events by episodes: %w", err)
	}

	out := make(map[string]int)
	for _, event := range events {
		if event.RulePoints < 0 {
			out[event.EpisodeID+"::"+event.CastawayID] += event.Quantity
		}
	}

	return out, nil
}

func (s *StandingsService) shouldSkipRecompute(leagueID string, now time.Time) bool {
	s.recomputeMu.Lock()
	defer s.recomputeMu.Unlock()

	last, ok := s.lastRecomputeAt[leagueID]
	return ok && now.Sub(last) < s.recomputeInterval
}

func (s *StandingsService) markRecompute(leagueID string, now time.Time) {
	s.recomputeMu.Lock()
	defer s.recomputeMu.Unlock()

	s.lastRecomputeAt[leagueID] = now
}
