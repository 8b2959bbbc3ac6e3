package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/riskibarqy/fantasy-survivor/internal/domain/castaway"
	"github.com/riskibarqy/fantasy-survivor/internal/domain/episode"
	"github.com/riskibarqy/fantasy-survivor/internal/domain/pick"
	"github.com/riskibarqy/fantasy-survivor/internal/domain/scoringevent"
	"github.com/riskibarqy/fantasy-survivor/internal/domain/scoringrule"
	basecache "github.com/riskibarqy/fantasy-survivor/internal/platform/cache"
	idgen "github.com/riskibarqy/fantasy-survivor/internal/platform/id"
	"github.com/riskibarqy/fantasy-survivor/internal/platform/logging"
)

const (
	defaultStandingsFanout    = 4
	leaderboardCacheKeyPrefix = "leaderboard:"
)

type RecordEventEntry struct {
	CastawayID string
	RuleCode   string
	Quantity   int
}

type RecordEventsInput struct {
	EpisodeID  string
	RecordedBy string
	Entries    []RecordEventEntry
}

type EventEntryFailure struct {
	Index      int    `json:"index"`
	CastawayID string `json:"castaway_id"`
	RuleCode   string `json:"rule_code"`
	Reason     string `json:"reason"`
}

type EventBatchResult struct {
	EpisodeID string              `json:"episode_id"`
	Applied   int                 `json:"applied"`
	Rejected  []EventEntryFailure `json:"rejected"`
}

type CastawayEpisodeTotal struct {
	CastawayID string         `json:"castaway_id"`
	Points     int            `json:"points"`
	Categories map[string]int `json:"categories"`
}

type FinalizeEpisodeResult struct {
	EpisodeID         string `json:"episode_id"`
	ScoredPicks       int    `json:"scored_picks"`
	PendingPicks      int    `json:"pending_picks"`
	RecomputedLeagues int    `json:"recomputed_leagues"`
}

type LeaderboardRow struct {
	CastawayID string `json:"castaway_id"`
	Name       string `json:"name"`
	Status     string `json:"status"`
	Points     int    `json:"points"`
	Events     int    `json:"events"`
}

// standingsRefresher lets the scoring flow rebuild league tables without a
// package cycle between the scoring and standings services.
type standingsRefresher interface {
	RecomputeLeague(ctx context.Context, leagueID string) error
}

type ScoringService struct {
	episodeRepo      episode.Repository
	castawayRepo     castaway.Repository
	ruleRepo         scoringrule.Repository
	eventRepo        scoringevent.Repository
	pickRepo         pick.Repository
	standings        standingsRefresher
	leaderboardCache *basecache.Store
	idGen            idgen.Generator
	logger           *logging.Logger
	fanout           int
	now              func() time.Time
}

func NewScoringService(
	episodeRepo episode.Repository,
	castawayRepo castaway.Repository,
	ruleRepo scoringrule.Repository,
	eventRepo scoringevent.Repository,
	pickRepo pick.Repository,
	leaderboardCache *basecache.Store,
	idGen idgen.Generator,
	logger *logging.Logger,
) *ScoringService {
	if logger == nil {
		logger = logging.NewNop()
	}

	return &ScoringService{
		episodeRepo:      episodeRepo,
		castawayRepo:     castawayRepo,
		ruleRepo:         ruleRepo,
		eventRepo:        eventRepo,
		pickRepo:         pickRepo,
		leaderboardCache: leaderboardCache,
		idGen:            idGen,
		logger:           logger,
		fanout:           defaultStandingsFanout,
		now:              time.Now,
	}
}

func (s *ScoringService) SetStandingsRefresher(refresher standingsRefresher) {
	s.standings = refresher
}

// RecordEvents applies a batch of show outcomes to an episode. Each entry is
// validated on its own: bad entries land in Rejected while the rest apply.
// The rule's points are copied onto the event, so later rule changes never
// reprice history. An entry matching an existing (castaway, rule) tuple
// replaces it, which is the correction path before an episode is finalized.
func (s *ScoringService) RecordEvents(ctx context.Context, input RecordEventsInput) (EventBatchResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.RecordEvents")
	defer span.End()

	input.EpisodeID = strings.TrimSpace(input.EpisodeID)
	input.RecordedBy = strings.TrimSpace(input.RecordedBy)
	if input.EpisodeID == "" {
		return EventBatchResult{}, fmt.Errorf("%w: episode id is required", ErrInvalidInput)
	}
	if len(input.Entries) == 0 {
		return EventBatchResult{}, fmt.Errorf("%w: at least one event entry is required", ErrInvalidInput)
	}

	ep, exists, err := s.episodeRepo.GetByID(ctx, input.EpisodeID)
	if err != nil {
		return EventBatchResult{}, fmt.Errorf("get episode: %w", err)
	}
	if !exists {
		return EventBatchResult{}, fmt.Errorf("%w: episode=%s", ErrNotFound, input.EpisodeID)
	}
	if ep.IsFinal {
		return EventBatchResult{}, fmt.Errorf("%w: episode %d is finalized", ErrConflict, ep.Number)
	}

	result := EventBatchResult{
		EpisodeID: ep.ID,
		Rejected:  make([]EventEntryFailure, 0),
	}

	now := s.now().UTC()
	seenTuple := make(map[string]int, len(input.Entries))

	for index, entry := range input.Entries {
		entry.CastawayID = strings.TrimSpace(entry.CastawayID)
		entry.RuleCode = scoringrule.NormalizeCode(entry.RuleCode)

		reject := func(reason string) {
			result.Rejected = append(result.Rejected, EventEntryFailure{
				Index:      index,
				CastawayID: entry.CastawayID,
				RuleCode:   entry.RuleCode,
				Reason:     reason,
			})
		}

		if entry.CastawayID == "" || entry.RuleCode == "" {
			reject("castaway id and rule code are required")
			continue
		}
		if entry.Quantity <= 0 {
			reject("quantity must be greater than zero")
			continue
		}

		tuple := entry.CastawayID + "::" + entry.RuleCode
		if firstIndex, dup := seenTuple[tuple]; dup {
			reject(fmt.Sprintf("duplicate of entry %d: one event per castaway and rule, raise quantity instead", firstIndex))
			continue
		}

		rule, found, err := s.ruleRepo.GetActiveByCode(ctx, ep.SeasonID, entry.RuleCode)
		if err != nil {
			return EventBatchResult{}, fmt.Errorf("get rule by code: %w", err)
		}
		if !found {
			reject("rule code is not active for the season")
			continue
		}

		subject, found, err := s.castawayRepo.GetByID(ctx, entry.CastawayID)
		if err != nil {
			return EventBatchResult{}, fmt.Errorf("get castaway: %w", err)
		}
		if !found || subject.SeasonID != ep.SeasonID {
			reject("castaway does not belong to the episode's season")
			continue
		}

		eventID, err := s.idGen.NewID()
		if err != nil {
			return EventBatchResult{}, fmt.Errorf("generate event id: %w", err)
		}

		event := scoringevent.Event{
			ID:         eventID,
			EpisodeID:  ep.ID,
			CastawayID: subject.ID,
			RuleID:     rule.ID,
			RuleCode:   rule.Code,
			Quantity:   entry.Quantity,
			RulePoints: rule.Points,
			RecordedBy: input.RecordedBy,
			CreatedAt:  now,
		}
		if err := event.Validate(); err != nil {
			reject(err.Error())
			continue
		}

		if err := s.eventRepo.Upsert(ctx, event); err != nil {
			return EventBatchResult{}, fmt.Errorf("upsert scoring event: %w", err)
		}
		seenTuple[tuple] = index
		result.Applied++
	}

	if result.Applied > 0 {
		s.invalidateLeaderboard(ctx)
	}

	s.logger.InfoContext(ctx, "scoring events recorded",
		"episode_id", ep.ID,
		"applied", result.Applied,
		"rejected", len(result.Rejected),
	)

	return result, nil
}

// EpisodeTotals folds the episode's events into per-castaway totals. The fold
// is commutative, so the order events were recorded in never matters.
func (s *ScoringService) EpisodeTotals(ctx context.Context, episodeID string) ([]CastawayEpisodeTotal, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.EpisodeTotals")
	defer span.End()

	episodeID = strings.TrimSpace(episodeID)
	if episodeID == "" {
		return nil, fmt.Errorf("%w: episode id is required", ErrInvalidInput)
	}

	if _, exists, err := s.episodeRepo.GetByID(ctx, episodeID); err != nil {
		return nil, fmt.Errorf("get episode: %w", err)
	} else if !exists {
		return nil, fmt.Errorf("%w: episode=%s", ErrNotFound, episodeID)
	}

	events, err := s.eventRepo.ListByEpisode(ctx, episodeID)
	if err != nil {
		return nil, fmt.Errorf("list events by episode: %w", err)
	}

	categories, err := s.ruleCategories(ctx, events)
	if err != nil {
		return nil, err
	}

	byCastaway := make(map[string]*CastawayEpisodeTotal)
	for _, event := range events {
		total, ok := byCastaway[event.CastawayID]
		if !ok {
			total = &CastawayEpisodeTotal{
				CastawayID: event.CastawayID,
				Categories: make(map[string]int),
			}
			byCastaway[event.CastawayID] = total
		}
		total.Points += event.Total()
		if category, ok := categories[event.RuleID]; ok {
			total.Categories[category] += event.Total()
		}
	}

	out := make([]CastawayEpisodeTotal, 0, len(byCastaway))
	for _, total := range byCastaway {
		out = append(out, *total)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Points != out[j].Points {
			return out[i].Points > out[j].Points
		}
		return out[i].CastawayID < out[j].CastawayID
	})

	return out, nil
}

// FinalizeEpisode freezes the episode's scoring: every locked or auto-picked
// pick across the season's leagues becomes scored with the sum of its
// castaway's event points, then league tables are rebuilt. Re-running
// recomputes and overwrites, which is how post-air corrections land.
func (s *ScoringService) FinalizeEpisode(ctx context.Context, episodeID string) (FinalizeEpisodeResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.FinalizeEpisode")
	defer span.End()

	episodeID = strings.TrimSpace(episodeID)
	if episodeID == "" {
		return FinalizeEpisodeResult{}, fmt.Errorf("%w: episode id is required", ErrInvalidInput)
	}

	ep, exists, err := s.episodeRepo.GetByID(ctx, episodeID)
	if err != nil {
		return FinalizeEpisodeResult{}, fmt.Errorf("get episode: %w", err)
	}
	if !exists {
		return FinalizeEpisodeResult{}, fmt.Errorf("%w: episode=%s", ErrNotFound, episodeID)
	}

	now := s.now().UTC()
	if ep.PicksOpen(now) {
		return FinalizeEpisodeResult{}, fmt.Errorf("%w: pick window for episode %d is still open", ErrInvalidInput, ep.Number)
	}

	events, err := s.eventRepo.ListByEpisode(ctx, episodeID)
	if err != nil {
		return FinalizeEpisodeResult{}, fmt.Errorf("list events by episode: %w", err)
	}
	totals := make(map[string]int, len(events))
	for _, event := range events {
		totals[event.CastawayID] += event.Total()
	}

	picks, err := s.pickRepo.ListByEpisode(ctx, episodeID)
	if err != nil {
		return FinalizeEpisodeResult{}, fmt.Errorf("list picks by episode: %w", err)
	}

	result := FinalizeEpisodeResult{EpisodeID: episodeID}
	leagueIDs := make(map[string]struct{})

	for _, p := range picks {
		if p.State.DeadlinePending() {
			// The lock pass has not covered this member yet; re-run finalize
			// after the sweep.
			result.PendingPicks++
			continue
		}
		if !p.State.Scorable() {
			continue
		}

		points := 0
		if p.CastawayID != nil {
			points = totals[*p.CastawayID]
		}
		p.Points = &points
		p.State = pick.StateScored
		p.ScoredAt = &now
		p.UpdatedAt = now
		if err := s.pickRepo.Update(ctx, p); err != nil {
			return FinalizeEpisodeResult{}, fmt.Errorf("score pick %s: %w", p.ID, err)
		}
		result.ScoredPicks++
		leagueIDs[p.LeagueID] = struct{}{}
	}

	if !ep.IsFinal {
		if err := s.episodeRepo.MarkFinal(ctx, episodeID); err != nil {
			return FinalizeEpisodeResult{}, fmt.Errorf("mark episode final: %w", err)
		}
	}

	if s.standings != nil && len(leagueIDs) > 0 {
		refresh := pool.New().WithErrors().WithMaxGoroutines(s.fanout)
		for leagueID := range leagueIDs {
			leagueID := leagueID
			refresh.Go(func() error {
				if err := s.standings.RecomputeLeague(ctx, leagueID); err != nil {
					return fmt.Errorf("recompute standings for league %s: %w", leagueID, err)
				}
				return nil
			})
		}
		if err := refresh.Wait(); err != nil {
			return FinalizeEpisodeResult{}, err
		}
		result.RecomputedLeagues = len(leagueIDs)
	}

	s.invalidateLeaderboard(ctx)

	s.logger.InfoContext(ctx, "episode finalized",
		"episode_id", episodeID,
		"scored_picks", result.ScoredPicks,
		"pending_picks", result.PendingPicks,
		"recomputed_leagues", result.RecomputedLeagues,
	)

	return result, nil
}

// CastawayLeaderboard ranks the season's castaways by cumulative event
// points. Results are cached briefly; recording or finalizing invalidates.
func (s *ScoringService) CastawayLeaderboard(ctx context.Context, seasonID string, limit int) ([]LeaderboardRow, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.CastawayLeaderboard")
	defer span.End()

	seasonID = strings.TrimSpace(seasonID)
	if seasonID == "" {
		return nil, fmt.Errorf("%w: season id is required", ErrInvalidInput)
	}
	if limit <= 0 {
		limit = 10
	}

	load := func(ctx context.Context) (any, error) {
		return s.buildLeaderboard(ctx, seasonID)
	}

	if s.leaderboardCache == nil {
		rows, err := s.buildLeaderboard(ctx, seasonID)
		if err != nil {
			return nil, err
		}
		return truncateLeaderboard(rows, limit), nil
	}

	cached, err := s.leaderboardCache.GetOrLoad(ctx, leaderboardCacheKeyPrefix+seasonID, load)
	if err != nil {
		return nil, err
	}
	rows, ok := cached.([]LeaderboardRow)
	if !ok {
		return nil, fmt.Errorf("unexpected leaderboard cache payload")
	}

	return truncateLeaderboard(rows, limit), nil
}

func (s *ScoringService) buildLeaderboard(ctx context.Context, seasonID string) ([]LeaderboardRow, error) {
	castaways, err := s.castawayRepo.ListBySeason(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("list castaways by season: %w", err)
	}
	if len(castaways) == 0 {
		return []LeaderboardRow{}, nil
	}

	episodes, err := s.episodeRepo.ListBySeason(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("list episodes by season: %w", err)
	}
	episodeIDs := make([]string, 0, len(episodes))
	for _, item := range episodes {
		episodeIDs = append(episodeIDs, item.ID)
	}

	events, err := s.eventRepo.ListByEpisodes(ctx, episodeIDs)
	if err != nil {
		return nil, fmt.Errorf("list events by episodes: %w", err)
	}

	points := make(map[string]int, len(castaways))
	counts := make(map[string]int, len(castaways))
	for _, event := range events {
		points[event.CastawayID] += event.Total()
		counts[event.CastawayID] += event.Quantity
	}

	rows := make([]LeaderboardRow, 0, len(castaways))
	for _, item := range castaways {
		rows = append(rows, LeaderboardRow{
			CastawayID: item.ID,
			Name:       item.Name,
			Status:     string(item.Status),
			Points:     points[item.ID],
			Events:     counts[item.ID],
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Points != rows[j].Points {
			return rows[i].Points > rows[j].Points
		}
		return rows[i].Name < rows[j].Name
	})

	return rows, nil
}

func (s *ScoringService) ruleCategories(ctx context.Context, events []scoringevent.Event) (map[string]string, error) {
	ruleIDs := make([]string, 0, len(events))
	seen := make(map[string]struct{}, len(events))
	for _, event := range events {
		if _, ok := seen[event.RuleID]; ok {
			continue
		}
		seen[event.RuleID] = struct{}{}
		ruleIDs = append(ruleIDs, event.RuleID)
	}
	if len(ruleIDs) == 0 {
		return map[string]string{}, nil
	}

	rules, err := s.ruleRepo.GetByIDs(ctx, ruleIDs)
	if err != nil {
		return nil, fmt.Errorf("get rules: %w", err)
	}

	categories := make(map[string]string, len(rules))
	for id, rule := range rules {
		categories[id] = rule.Category
	}

	return categories, nil
}

func (s *ScoringService) invalidateLeaderboard(ctx context.Context) {
	if s.leaderboardCache != nil {
		s.leaderboardCache.DeletePrefix(ctx, leaderboardCacheKeyPrefix)
	}
}

func truncateLeaderboard(rows []LeaderboardRow, limit int) []LeaderboardRow {
	if len(rows) <= limit {
		return rows
	}
	return rows[:limit:limit]
}
