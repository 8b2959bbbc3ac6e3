package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/fantasy-survivor/internal/domain/season"
	idgen "github.com/riskibarqy/fantasy-survivor/internal/platform/id"
)

type CreateSeasonInput struct {
	Name     string
	Number   int
	IsActive bool
	StartsAt time.Time
}

type SeasonService struct {
	seasonRepo season.Repository
	idGen      idgen.Generator
	now        func() time.Time
}

func NewSeasonService(seasonRepo season.Repository, idGen idgen.Generator) *SeasonService {
	return &SeasonService{
		seasonRepo: seasonRepo,
		idGen:      idGen,
		now:        time.Now,
	}
}

func (s *SeasonService) List(ctx context.Context) ([]season.Season, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonService.List")
	defer span.End()

	seasons, err := s.seasonRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list seasons: %w", err)
	}

	return seasons, nil
}

func (s *SeasonService) GetByID(ctx context.Context, seasonID string) (season.Season, error) {
	seasonID = strings.TrimSpace(seasonID)
	if seasonID == "" {
		return season.Season{}, fmt.Errorf("%w: season id is required", ErrInvalidInput)
	}

	item, exists, err := s.seasonRepo.GetByID(ctx, seasonID)
	if err != nil {
		return season.Season{}, fmt.Errorf("get season: %w", err)
	}
	if !exists {
		return season.Season{}, fmt.Errorf("%w: season=%s", ErrNotFound, seasonID)
	}

	return item, nil
}

func (s *SeasonService) GetActive(ctx context.Context) (season.Season, error) {
	item, exists, err := s.seasonRepo.GetActive(ctx)
	if err != nil {
		return season.Season{}, fmt.Errorf("get active season: %w", err)
	}
	if !exists {
		return season.Season{}, fmt.Errorf("%w: no active season", ErrNotFound)
	}

	return item, nil
}

func (s *SeasonService) Create(ctx context.Context, input CreateSeasonInput) (season.Season, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonService.Create")
	defer span.End()

	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return season.Season{}, fmt.Errorf("%w: season name is required", ErrInvalidInput)
	}
	if input.Number <= 0 {
		return season.Season{}, fmt.Errorf("%w: season number must be greater than zero", ErrInvalidInput)
	}

	existing, err := s.seasonRepo.List(ctx)
	if err != nil {
		return season.Season{}, fmt.Errorf("list seasons: %w", err)
	}
	for _, item := range existing {
		if item.Number == input.Number {
			return season.Season{}, fmt.Errorf("%w: season number %d already exists", ErrConflict, input.Number)
		}
	}

	seasonID, err := s.idGen.NewID()
	if err != nil {
		return season.Season{}, fmt.Errorf("generate season id: %w", err)
	}

	item := season.Season{
		ID:       seasonID,
		Name:     input.Name,
		Number:   input.Number,
		IsActive: input.IsActive,
		StartsAt: input.StartsAt.UTC(),
	}
	if err := item.Validate(); err != nil {
		return season.Season{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.seasonRepo.Insert(ctx, item); err != nil {
		return season.Season{}, fmt.Errorf("insert season: %w", err)
	}

	return item, nil
}
