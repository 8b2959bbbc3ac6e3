package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/fantasy-survivor/internal/domain/episode"
	"github.com/riskibarqy/fantasy-survivor/internal/domain/season"
	idgen "github.com/riskibarqy/fantasy-survivor/internal/platform/id"
)

type CreateEpisodeInput struct {
	SeasonID    string
	Number      int
	Title       string
	AirsAt      time.Time
	PicksLockAt time.Time
}

type EpisodeService struct {
	seasonRepo  season.Repository
	episodeRepo episode.Repository
	idGen       idgen.Generator
	now         func() time.Time
}

func NewEpisodeService(seasonRepo season.Repository, episodeRepo episode.Repository, idGen idgen.Generator) *EpisodeService {
	return &EpisodeService{
		seasonRepo:  seasonRepo,
		episodeRepo: episodeRepo,
		idGen:       idGen,
		now:         time.Now,
	}
}

func (s *EpisodeService) GetByID(ctx context.Context, episodeID string) (episode.Episode, error) {
	episodeID = strings.TrimSpace(episodeID)
	if episodeID == "" {
		return episode.Episode{}, fmt.Errorf("%w: episode id is required", ErrInvalidInput)
	}

	item, exists, err := s.episodeRepo.GetByID(ctx, episodeID)
	if err != nil {
		return episode.Episode{}, fmt.Errorf("get episode: %w", err)
	}
	if !exists {
		return episode.Episode{}, fmt.Errorf("%w: episode=%s", ErrNotFound, episodeID)
	}

	return item, nil
}

func (s *EpisodeService) ListBySeason(ctx context.Context, seasonID string) ([]episode.Episode, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EpisodeService.ListBySeason")
	defer span.End()

	seasonID = strings.TrimSpace(seasonID)
	if seasonID == "" {
		return nil, fmt.Errorf("%w: season id is required", ErrInvalidInput)
	}

	if _, exists, err := s.seasonRepo.GetByID(ctx, seasonID); err != nil {
		return nil, fmt.Errorf("get season: %w", err)
	} else if !exists {
		return nil, fmt.Errorf("%w: season=%s", ErrNotFound, seasonID)
	}

	episodes, err := s.episodeRepo.ListBySeason(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("list episodes by season: %w", err)
	}

	return episodes, nil
}

// NextPickable returns the first episode of the season whose pick window is
// still open at the current time.
func (s *EpisodeService) NextPickable(ctx context.Context, seasonID string) (episode.Episode, bool, error) {
	episodes, err := s.ListBySeason(ctx, seasonID)
	if err != nil {
		return episode.Episode{}, false, err
	}

	now := s.now().UTC()
	for _, item := range episodes {
		if item.PicksOpen(now) {
			return item, true, nil
		}
	}

	return episode.Episode{}, false, nil
}

func (s *EpisodeService) Create(ctx context.Context, input CreateEpisodeInput) (episode.Episode, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EpisodeService.Create")
	defer span.End()

	input.SeasonID = strings.TrimSpace(input.SeasonID)
	input.Title = strings.TrimSpace(input.Title)
	if input.SeasonID == "" {
		return episode.Episode{}, fmt.Errorf("%w: season id is required", ErrInvalidInput)
	}
	if input.Number <= 0 {
		return episode.Episode{}, fmt.Errorf("%w: episode number must be greater than zero", ErrInvalidInput)
	}

	if _, exists, err := s.seasonRepo.GetByID(ctx, input.SeasonID); err != nil {
		return episode.Episode{}, fmt.Errorf("get season: %w", err)
	} else if !exists {
		return episode.Episode{}, fmt.Errorf("%w: season=%s", ErrNotFound, input.SeasonID)
	}

	// Episode numbers must strictly increase within a season, no reuse and
	// no backfilling between existing episodes.
	existing, err := s.episodeRepo.ListBySeason(ctx, input.SeasonID)
	if err != nil {
		return episode.Episode{}, fmt.Errorf("list episodes by season: %w", err)
	}
	for _, item := range existing {
		if item.Number >= input.Number {
			return episode.Episode{}, fmt.Errorf("%w: episode number %d must be greater than existing episode %d", ErrConflict, input.Number, item.Number)
		}
	}

	episodeID, err := s.idGen.NewID()
	if err != nil {
		return episode.Episode{}, fmt.Errorf("generate episode id: %w", err)
	}

	item := episode.Episode{
		ID:          episodeID,
		SeasonID:    input.SeasonID,
		Number:      input.Number,
		Title:       input.Title,
		AirsAt:      input.AirsAt.UTC(),
		PicksLockAt: input.PicksLockAt.UTC(),
	}
	if err := item.Validate(); err != nil {
		return episode.Episode{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.episodeRepo.Insert(ctx, item); err != nil {
		return episode.Episode{}, fmt.Errorf("insert episode: %w", err)
	}

	return item, nil
}
