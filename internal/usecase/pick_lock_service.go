package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/riskibarqy/fantasy-survivor/internal/domain/castaway"
	"github.com/riskibarqy/fantasy-survivor/internal/domain/episode"
	"github.com/riskibarqy/fantasy-survivor/internal/domain/league"
	"github.com/riskibarqy/fantasy-survivor/internal/domain/pick"
	"github.com/riskibarqy/fantasy-survivor/internal/domain/roster"
	idgen "github.com/riskibarqy/fantasy-survivor/internal/platform/id"
	"github.com/riskibarqy/fantasy-survivor/internal/platform/logging"
)

const defaultLockWorkerCount = 8

type LockRunResult struct {
	EpisodeID  string          `json:"episode_id"`
	Members    int             `json:"members"`
	Locked     int             `json:"locked"`
	AutoPicked int             `json:"auto_picked"`
	Unfillable int             `json:"unfillable"`
	Skipped    int             `json:"skipped"`
	Failures   []MemberFailure `json:"failures"`
}

type MemberFailure struct {
	LeagueID string `json:"league_id"`
	UserID   string `json:"user_id"`
	Reason   string `json:"reason"`
}

type lockTarget struct {
	leagueID string
	userID   string
}

type lockOutcome int

const (
	lockOutcomeLocked lockOutcome = iota
	lockOutcomeAutoPicked
	lockOutcomeUnfillable
	lockOutcomeSkipped
)

type PickLockService struct {
	leagueRepo   league.Repository
	episodeRepo  episode.Repository
	castawayRepo castaway.Repository
	rosterRepo   roster.Repository
	pickRepo     pick.Repository
	idGen        idgen.Generator
	logger       *logging.Logger
	workerCount  int
	now          func() time.Time
}

func NewPickLockService(
	leagueRepo league.Repository,
	episodeRepo episode.Repository,
	castawayRepo castaway.Repository,
	rosterRepo roster.Repository,
	pickRepo pick.Repository,
	idGen idgen.Generator,
	logger *logging.Logger,
) *PickLockService {
	if logger == nil {
		logger = logging.NewNop()
	}

	return &PickLockService{
		leagueRepo:   leagueRepo,
		episodeRepo:  episodeRepo,
		castawayRepo: castawayRepo,
		rosterRepo:   rosterRepo,
		pickRepo:     pickRepo,
		idGen:        idGen,
		logger:       logger,
		workerCount:  defaultLockWorkerCount,
		now:          time.Now,
	}
}

// SetWorkerCount overrides the pool size for the lock pass.
func (s *PickLockService) SetWorkerCount(count int) {
	if count > 0 {
		s.workerCount = count
	}
}

// Run freezes all picks of an episode once its window has closed. Members
// with a selection get locked; members without one get a deterministic
// auto-pick from their ranked roster, or an unfillable pick when nothing is
// left to choose. The pass is idempotent: terminal picks are counted as
// skipped, and one member's failure never blocks the rest.
func (s *PickLockService) Run(ctx context.Context, episodeID string) (LockRunResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PickLockService.Run")
	defer span.End()

	episodeID = strings.TrimSpace(episodeID)
	if episodeID == "" {
		return LockRunResult{}, fmt.Errorf("%w: episode id is required", ErrInvalidInput)
	}

	ep, exists, err := s.episodeRepo.GetByID(ctx, episodeID)
	if err != nil {
		return LockRunResult{}, fmt.Errorf("get episode: %w", err)
	}
	if !exists {
		return LockRunResult{}, fmt.Errorf("%w: episode=%s", ErrNotFound, episodeID)
	}

	now := s.now().UTC()
	if ep.PicksOpen(now) {
		return LockRunResult{}, fmt.Errorf("%w: pick window for episode %d is still open until %s", ErrInvalidInput, ep.Number, ep.PicksLockAt.Format(time.RFC3339))
	}

	targets, err := s.collectTargets(ctx, ep.SeasonID)
	if err != nil {
		return LockRunResult{}, err
	}

	result := LockRunResult{
		EpisodeID: episodeID,
		Members:   len(targets),
		Failures:  make([]MemberFailure, 0),
	}
	if len(targets) == 0 {
		return result, nil
	}

	workerCount := s.workerCount
	if workerCount > len(targets) {
		workerCount = len(targets)
	}

	var locked, autoPicked, unfillable, skipped atomic.Int32
	failures := make(chan MemberFailure, len(targets))

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return LockRunResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for _, target := range targets {
		target := target
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			outcome, memberErr := s.lockMember(ctx, ep, target, now)
			if memberErr != nil {
				failures <- MemberFailure{
					LeagueID: target.leagueID,
					UserID:   target.userID,
					Reason:   memberErr.Error(),
				}
				return
			}

			switch outcome {
			case lockOutcomeLocked:
				locked.Add(1)
			case lockOutcomeAutoPicked:
				autoPicked.Add(1)
			case lockOutcomeUnfillable:
				unfillable.Add(1)
			default:
				skipped.Add(1)
			}
		}); err != nil {
			workers.Done()
			return LockRunResult{}, fmt.Errorf("submit member to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(failures)

	for failure := range failures {
		result.Failures = append(result.Failures, failure)
	}
	sort.Slice(result.Failures, func(i, j int) bool {
		if result.Failures[i].LeagueID != result.Failures[j].LeagueID {
			return result.Failures[i].LeagueID < result.Failures[j].LeagueID
		}
		return result.Failures[i].UserID < result.Failures[j].UserID
	})

	result.Locked = int(locked.Load())
	result.AutoPicked = int(autoPicked.Load())
	result.Unfillable = int(unfillable.Load())
	result.Skipped = int(skipped.Load())

	s.logger.InfoContext(ctx, "pick lock pass finished",
		"episode_id", episodeID,
		"members", result.Members,
		"locked", result.Locked,
		"auto_picked", result.AutoPicked,
		"unfillable", result.Unfillable,
		"skipped", result.Skipped,
		"failures", len(result.Failures),
	)

	return result, nil
}

func (s *PickLockService) collectTargets(ctx context.Context, seasonID string) ([]lockTarget, error) {
	leagues, err := s.leagueRepo.ListBySeason(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("list leagues by season: %w", err)
	}

	targets := make([]lockTarget, 0)
	for _, item := range leagues {
		members, err := s.leagueRepo.ListMembers(ctx, item.ID)
		if err != nil {
			return nil, fmt.Errorf("list members of league %s: %w", item.ID, err)
		}
		for _, member := range members {
			targets = append(targets, lockTarget{leagueID: item.ID, userID: member.UserID})
		}
	}

	return targets, nil
}

func (s *PickLockService) lockMember(ctx context.Context, ep episode.Episode, target lockTarget, now time.Time) (lockOutcome, error) {
	existing, found, err := s.pickRepo.GetByMemberAndEpisode(ctx, target.leagueID, target.userID, ep.ID)
	if err != nil {
		return lockOutcomeSkipped, fmt.Errorf("get pick: %w", err)
	}

	if found && !existing.State.DeadlinePending() {
		return lockOutcomeSkipped, nil
	}

	if found && existing.State == pick.StateSelected {
		existing.State = pick.StateLocked
		existing.LockedAt = &now
		existing.UpdatedAt = now
		if err := s.pickRepo.Update(ctx, existing); err != nil {
			return lockOutcomeSkipped, fmt.Errorf("lock pick: %w", err)
		}
		return lockOutcomeLocked, nil
	}

	// No usable selection: resolve an automatic one from the roster.
	castawayID, ok, err := s.resolveAutoPick(ctx, target.leagueID, target.userID)
	if err != nil {
		return lockOutcomeSkipped, err
	}

	var filled pick.WeeklyPick
	if found {
		filled = existing
		filled.UpdatedAt = now
	} else {
		pickID, err := s.idGen.NewID()
		if err != nil {
			return lockOutcomeSkipped, fmt.Errorf("generate pick id: %w", err)
		}
		filled = pick.WeeklyPick{
			ID:        pickID,
			LeagueID:  target.leagueID,
			UserID:    target.userID,
			EpisodeID: ep.ID,
			UpdatedAt: now,
		}
	}

	if ok {
		filled.CastawayID = &castawayID
		filled.State = pick.StateAutoPicked
		filled.LockedAt = &now
	} else {
		filled.CastawayID = nil
		filled.State = pick.StateUnfillable
		filled.LockedAt = &now
	}

	if found {
		if err := s.pickRepo.Update(ctx, filled); err != nil {
			return lockOutcomeSkipped, fmt.Errorf("fill pick: %w", err)
		}
	} else if err := s.pickRepo.Insert(ctx, filled); err != nil {
		return lockOutcomeSkipped, fmt.Errorf("insert filled pick: %w", err)
	}

	if ok {
		return lockOutcomeAutoPicked, nil
	}
	return lockOutcomeUnfillable, nil
}

// resolveAutoPick picks the highest-priority active, still-playable castaway
// from the member's roster. The order is total, so repeated passes choose the
// same castaway.
func (s *PickLockService) resolveAutoPick(ctx context.Context, leagueID, userID string) (string, bool, error) {
	entries, err := s.rosterRepo.ListActiveByMember(ctx, leagueID, userID)
	if err != nil {
		return "", false, fmt.Errorf("list active roster entries: %w", err)
	}
	if len(entries) == 0 {
		return "", false, nil
	}

	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.CastawayID)
	}
	castaways, err := s.castawayRepo.GetByIDs(ctx, ids)
	if err != nil {
		return "", false, fmt.Errorf("get castaways: %w", err)
	}
	byID := make(map[string]castaway.Castaway, len(castaways))
	for _, c := range castaways {
		byID[c.ID] = c
	}

	for _, entry := range roster.PreferredOrder(entries) {
		candidate, ok := byID[entry.CastawayID]
		if !ok {
			continue
		}
		if candidate.Status.Playable() {
			return candidate.ID, true, nil
		}
	}

	return "", false, nil
}
