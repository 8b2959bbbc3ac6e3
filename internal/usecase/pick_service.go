package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/fantasy-survivor/internal/domain/castaway"
	"github.com/riskibarqy/fantasy-survivor/internal/domain/episode"
	"github.com/riskibarqy/fantasy-survivor/internal/domain/league"
	"github.com/riskibarqy/fantasy-survivor/internal/domain/pick"
	"github.com/riskibarqy/fantasy-survivor/internal/domain/roster"
	idgen "github.com/riskibarqy/fantasy-survivor/internal/platform/id"
	"github.com/riskibarqy/fantasy-survivor/internal/platform/logging"
)

type SubmitPickInput struct {
	UserID     string
	LeagueID   string
	EpisodeID  string
	CastawayID string
}

type PickService struct {
	leagueRepo   league.Repository
	episodeRepo  episode.Repository
	castawayRepo castaway.Repository
	rosterRepo   roster.Repository
	pickRepo     pick.Repository
	idGen        idgen.Generator
	logger       *logging.Logger
	now          func() time.Time
}

func NewPickService(
	leagueRepo league.Repository,
	episodeRepo episode.Repository,
	castawayRepo castaway.Repository,
	rosterRepo roster.Repository,
	pickRepo pick.Repository,
	idGen idgen.Generator,
	logger *logging.Logger,
) *PickService {
	if logger == nil {
		logger = logging.NewNop()
	}

	return &PickService{
		leagueRepo:   leagueRepo,
		episodeRepo:  episodeRepo,
		castawayRepo: castawayRepo,
		rosterRepo:   rosterRepo,
		pickRepo:     pickRepo,
		idGen:        idGen,
		logger:       logger,
		now:          time.Now,
	}
}

// Submit saves the member's pick for an episode. Resubmitting before the lock
// overwrites the previous selection; at or after the lock time the window is
// closed regardless of stored state.
func (s *PickService) Submit(ctx context.Context, input SubmitPickInput) (pick.WeeklyPick, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PickService.Submit")
	defer span.End()

	input.UserID = strings.TrimSpace(input.UserID)
	input.LeagueID = strings.TrimSpace(input.LeagueID)
	input.EpisodeID = strings.TrimSpace(input.EpisodeID)
	input.CastawayID = strings.TrimSpace(input.CastawayID)
	if input.UserID == "" || input.LeagueID == "" {
		return pick.WeeklyPick{}, fmt.Errorf("%w: league id and user id are required", ErrInvalidInput)
	}
	if input.EpisodeID == "" {
		return pick.WeeklyPick{}, fmt.Errorf("%w: episode id is required", ErrInvalidInput)
	}
	if input.CastawayID == "" {
		return pick.WeeklyPick{}, fmt.Errorf("%w: castaway id is required", ErrInvalidInput)
	}

	item, exists, err := s.leagueRepo.GetByID(ctx, input.LeagueID)
	if err != nil {
		return pick.WeeklyPick{}, fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return pick.WeeklyPick{}, fmt.Errorf("%w: league=%s", ErrNotFound, input.LeagueID)
	}
	if _, joined, err := s.leagueRepo.GetMember(ctx, input.LeagueID, input.UserID); err != nil {
		return pick.WeeklyPick{}, fmt.Errorf("get league member: %w", err)
	} else if !joined {
		return pick.WeeklyPick{}, fmt.Errorf("%w: not a member of league %s", ErrUnauthorized, input.LeagueID)
	}

	ep, exists, err := s.episodeRepo.GetByID(ctx, input.EpisodeID)
	if err != nil {
		return pick.WeeklyPick{}, fmt.Errorf("get episode: %w", err)
	}
	if !exists {
		return pick.WeeklyPick{}, fmt.Errorf("%w: episode=%s", ErrNotFound, input.EpisodeID)
	}
	if ep.SeasonID != item.SeasonID {
		return pick.WeeklyPick{}, fmt.Errorf("%w: episode belongs to another season", ErrInvalidInput)
	}

	now := s.now().UTC()
	if !ep.PicksOpen(now) {
		return pick.WeeklyPick{}, fmt.Errorf("%w: episode %d locked at %s", ErrPickWindowClosed, ep.Number, ep.PicksLockAt.Format(time.RFC3339))
	}

	if err := s.checkEligibility(ctx, input.LeagueID, input.UserID, input.CastawayID); err != nil {
		return pick.WeeklyPick{}, err
	}

	existing, found, err := s.pickRepo.GetByMemberAndEpisode(ctx, input.LeagueID, input.UserID, input.EpisodeID)
	if err != nil {
		return pick.WeeklyPick{}, fmt.Errorf("get pick: %w", err)
	}

	if found {
		if !existing.State.Submittable() {
			return pick.WeeklyPick{}, fmt.Errorf("%w: pick is %s", ErrPickWindowClosed, existing.State)
		}
		existing.CastawayID = &input.CastawayID
		existing.State = pick.StateSelected
		existing.SubmittedAt = &now
		existing.UpdatedAt = now
		if err := s.pickRepo.Update(ctx, existing); err != nil {
			return pick.WeeklyPick{}, fmt.Errorf("update pick: %w", err)
		}
		return existing, nil
	}

	pickID, err := s.idGen.NewID()
	if err != nil {
		return pick.WeeklyPick{}, fmt.Errorf("generate pick id: %w", err)
	}

	created := pick.WeeklyPick{
		ID:          pickID,
		LeagueID:    input.LeagueID,
		UserID:      input.UserID,
		EpisodeID:   input.EpisodeID,
		CastawayID:  &input.CastawayID,
		State:       pick.StateSelected,
		SubmittedAt: &now,
		UpdatedAt:   now,
	}
	if err := s.pickRepo.Insert(ctx, created); err != nil {
		if errors.Is(err, pick.ErrDuplicate) {
			// Lost a race with another submission; the winner's row stands.
			return pick.WeeklyPick{}, fmt.Errorf("%w: pick already submitted", ErrConflict)
		}
		return pick.WeeklyPick{}, fmt.Errorf("insert pick: %w", err)
	}

	s.logger.InfoContext(ctx, "pick submitted",
		"league_id", input.LeagueID,
		"user_id", input.UserID,
		"episode_id", input.EpisodeID,
		"castaway_id", input.CastawayID,
	)

	return created, nil
}

// GetForEpisode returns the member's pick for an episode. A missing row means
// the pick is still open and empty.
func (s *PickService) GetForEpisode(ctx context.Context, leagueID, userID, episodeID string) (pick.WeeklyPick, bool, error) {
	leagueID = strings.TrimSpace(leagueID)
	userID = strings.TrimSpace(userID)
	episodeID = strings.TrimSpace(episodeID)
	if leagueID == "" || userID == "" || episodeID == "" {
		return pick.WeeklyPick{}, false, fmt.Errorf("%w: league id, user id and episode id are required", ErrInvalidInput)
	}

	item, found, err := s.pickRepo.GetByMemberAndEpisode(ctx, leagueID, userID, episodeID)
	if err != nil {
		return pick.WeeklyPick{}, false, fmt.Errorf("get pick: %w", err)
	}

	return item, found, nil
}

func (s *PickService) ListMine(ctx context.Context, leagueID, userID string) ([]pick.WeeklyPick, error) {
	leagueID = strings.TrimSpace(leagueID)
	userID = strings.TrimSpace(userID)
	if leagueID == "" || userID == "" {
		return nil, fmt.Errorf("%w: league id and user id are required", ErrInvalidInput)
	}

	picks, err := s.pickRepo.ListByMember(ctx, leagueID, userID)
	if err != nil {
		return nil, fmt.Errorf("list picks by member: %w", err)
	}

	return picks, nil
}

// ListLeagueForEpisode reveals league picks for an episode once the window is
// closed. Before the lock only the caller's own pick is visible, so rivals
// cannot copy selections.
func (s *PickService) ListLeagueForEpisode(ctx context.Context, leagueID, userID, episodeID string) ([]pick.WeeklyPick, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PickService.ListLeagueForEpisode")
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	userID = strings.TrimSpace(userID)
	episodeID = strings.TrimSpace(episodeID)
	if leagueID == "" || userID == "" || episodeID == "" {
		return nil, fmt.Errorf("%w: league id, user id and episode id are required", ErrInvalidInput)
	}

	if _, joined, err := s.leagueRepo.GetMember(ctx, leagueID, userID); err != nil {
		return nil, fmt.Errorf("get league member: %w", err)
	} else if !joined {
		return nil, fmt.Errorf("%w: not a member of league %s", ErrUnauthorized, leagueID)
	}

	ep, exists, err := s.episodeRepo.GetByID(ctx, episodeID)
	if err != nil {
		return nil, fmt.Errorf("get episode: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: episode=%s", ErrNotFound, episodeID)
	}

	picks, err := s.pickRepo.ListByLeagueAndEpisode(ctx, leagueID, episodeID)
	if err != nil {
		return nil, fmt.Errorf("list picks by league and episode: %w", err)
	}

	if ep.PicksOpen(s.now().UTC()) {
		own := make([]pick.WeeklyPick, 0, 1)
		for _, p := range picks {
			if p.UserID == userID {
				own = append(own, p)
			}
		}
		return own, nil
	}

	return picks, nil
}

func (s *PickService) checkEligibility(ctx context.Context, leagueID, userID, castawayID string) error {
	active, err := s.rosterRepo.ListActiveByMember(ctx, leagueID, userID)
	if err != nil {
		return fmt.Errorf("list active roster entries: %w", err)
	}

	held := false
	for _, entry := range active {
		if entry.CastawayID == castawayID {
			held = true
			break
		}
	}
	if !held {
		return fmt.Errorf("%w: castaway %s is not on the active roster", ErrCastawayNotEligible, castawayID)
	}

	candidate, exists, err := s.castawayRepo.GetByID(ctx, castawayID)
	if err != nil {
		return fmt.Errorf("get castaway: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: castaway=%s", ErrNotFound, castawayID)
	}
	if !candidate.Status.Playable() {
		return fmt.Errorf("%w: castaway %s is %s", ErrCastawayNotEligible, castawayID, candidate.Status)
	}

	return nil
}
