package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/fantasy-survivor/internal/domain/castaway"
	"github.com/riskibarqy/fantasy-survivor/internal/domain/season"
	idgen "github.com/riskibarqy/fantasy-survivor/internal/platform/id"
	"github.com/riskibarqy/fantasy-survivor/internal/platform/logging"
)

type CreateCastawayInput struct {
	SeasonID string
	Name     string
	Tribe    string
}

type UpdateCastawayStatusInput struct {
	CastawayID string
	Status     string
}

type CastawayService struct {
	seasonRepo   season.Repository
	castawayRepo castaway.Repository
	idGen        idgen.Generator
	logger       *logging.Logger
	now          func() time.Time
}

func NewCastawayService(
	seasonRepo season.Repository,
	castawayRepo castaway.Repository,
	idGen idgen.Generator,
	logger *logging.Logger,
) *CastawayService {
	if logger == nil {
		logger = logging.NewNop()
	}

	return &CastawayService{
		seasonRepo:   seasonRepo,
		castawayRepo: castawayRepo,
		idGen:        idGen,
		logger:       logger,
		now:          time.Now,
	}
}

func (s *CastawayService) GetByID(ctx context.Context, castawayID string) (castaway.Castaway, error) {
	castawayID = strings.TrimSpace(castawayID)
	if castawayID == "" {
		return castaway.Castaway{}, fmt.Errorf("%w: castaway id is required", ErrInvalidInput)
	}

	item, exists, err := s.castawayRepo.GetByID(ctx, castawayID)
	if err != nil {
		return castaway.Castaway{}, fmt.Errorf("get castaway: %w", err)
	}
	if !exists {
		return castaway.Castaway{}, fmt.Errorf("%w: castaway=%s", ErrNotFound, castawayID)
	}

	return item, nil
}

func (s *CastawayService) ListBySeason(ctx context.Context, seasonID string) ([]castaway.Castaway, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CastawayService.ListBySeason")
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

	castaways, err := s.castawayRepo.ListBySeason(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("list castaways by season: %w", err)
	}

	return castaways, nil
}

func (s *CastawayService) Create(ctx context.Context, input CreateCastawayInput) (castaway.Castaway, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CastawayService.Create")
	defer span.End()

	input.SeasonID = strings.TrimSpace(input.SeasonID)
	input.Name = strings.TrimSpace(input.Name)
	input.Tribe = strings.TrimSpace(input.Tribe)
	if input.SeasonID == "" {
		return castaway.Castaway{}, fmt.Errorf("%w: season id is required", ErrInvalidInput)
	}
	if input.Name == "" {
		return castaway.Castaway{}, fmt.Errorf("%w: castaway name is required", ErrInvalidInput)
	}

	if _, exists, err := s.seasonRepo.GetByID(ctx, input.SeasonID); err != nil {
		return castaway.Castaway{}, fmt.Errorf("get season: %w", err)
	} else if !exists {
		return castaway.Castaway{}, fmt.Errorf("%w: season=%s", ErrNotFound, input.SeasonID)
	}

	castawayID, err := s.idGen.NewID()
	if err != nil {
		return castaway.Castaway{}, fmt.Errorf("generate castaway id: %w", err)
	}

	item := castaway.Castaway{
		ID:       castawayID,
		SeasonID: input.SeasonID,
		Name:     input.Name,
		Tribe:    input.Tribe,
		Status:   castaway.StatusActive,
	}
	if err := item.Validate(); err != nil {
		return castaway.Castaway{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.castawayRepo.Insert(ctx, item); err != nil {
		return castaway.Castaway{}, fmt.Errorf("insert castaway: %w", err)
	}

	return item, nil
}

// UpdateStatus applies the show outcome for a castaway. Transitions only move
// forward: once eliminated or crowned winner a castaway never returns to
// active play.
func (s *CastawayService) UpdateStatus(ctx context.Context, input UpdateCastawayStatusInput) (castaway.Castaway, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CastawayService.UpdateStatus")
	defer span.End()

	input.CastawayID = strings.TrimSpace(input.CastawayID)
	if input.CastawayID == "" {
		return castaway.Castaway{}, fmt.Errorf("%w: castaway id is required", ErrInvalidInput)
	}
	status, ok := castaway.NormalizeStatus(input.Status)
	if !ok {
		return castaway.Castaway{}, fmt.Errorf("%w: castaway status %q is invalid", ErrInvalidInput, input.Status)
	}

	item, exists, err := s.castawayRepo.GetByID(ctx, input.CastawayID)
	if err != nil {
		return castaway.Castaway{}, fmt.Errorf("get castaway: %w", err)
	}
	if !exists {
		return castaway.Castaway{}, fmt.Errorf("%w: castaway=%s", ErrNotFound, input.CastawayID)
	}

	if item.Status == status {
		return item, nil
	}
	if !item.Status.CanBecome(status) {
		return castaway.Castaway{}, fmt.Errorf("%w: castaway status cannot change from %s to %s", ErrConflict, item.Status, status)
	}

	if err := s.castawayRepo.UpdateStatus(ctx, item.ID, status); err != nil {
		return castaway.Castaway{}, fmt.Errorf("update castaway status: %w", err)
	}
	item.Status = status

	s.logger.InfoContext(ctx, "castaway status updated",
		"castaway_id", item.ID,
		"season_id", item.SeasonID,
		"status", string(status),
	)

	return item, nil
}
