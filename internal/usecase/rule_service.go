package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/fantasy-survivor/internal/domain/scoringrule"
	"github.com/riskibarqy/fantasy-survivor/internal/domain/season"
	idgen "github.com/riskibarqy/fantasy-survivor/internal/platform/id"
)

type CreateRuleInput struct {
	SeasonID  string
	Code      string
	Name      string
	Category  string
	Points    int
	SortOrder int
}

type UpdateRuleInput struct {
	RuleID    string
	Name      string
	Points    int
	SortOrder int
}

type RuleService struct {
	seasonRepo season.Repository
	ruleRepo   scoringrule.Repository
	idGen      idgen.Generator
	now        func() time.Time
}

func NewRuleService(seasonRepo season.Repository, ruleRepo scoringrule.Repository, idGen idgen.Generator) *RuleService {
	return &RuleService{
		seasonRepo: seasonRepo,
		ruleRepo:   ruleRepo,
		idGen:      idGen,
		now:        time.Now,
	}
}

func (s *RuleService) ListBySeason(ctx context.Context, seasonID, category string) ([]scoringrule.Rule, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RuleService.ListBySeason")
	defer span.End()

	seasonID = strings.TrimSpace(seasonID)
	if seasonID == "" {
		return nil, fmt.Errorf("%w: season id is required", ErrInvalidInput)
	}
	category = strings.TrimSpace(category)
	if category != "" {
		normalized, ok := scoringrule.NormalizeCategory(category)
		if !ok {
			return nil, fmt.Errorf("%w: rule category %q is invalid", ErrInvalidInput, category)
		}
		category = normalized
	}

	if _, exists, err := s.seasonRepo.GetByID(ctx, seasonID); err != nil {
		return nil, fmt.Errorf("get season: %w", err)
	} else if !exists {
		return nil, fmt.Errorf("%w: season=%s", ErrNotFound, seasonID)
	}

	rules, err := s.ruleRepo.ListActiveBySeason(ctx, seasonID, category)
	if err != nil {
		return nil, fmt.Errorf("list rules by season: %w", err)
	}

	return rules, nil
}

func (s *RuleService) Create(ctx context.Context, input CreateRuleInput) (scoringrule.Rule, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RuleService.Create")
	defer span.End()

	input.SeasonID = strings.TrimSpace(input.SeasonID)
	input.Name = strings.TrimSpace(input.Name)
	code := scoringrule.NormalizeCode(input.Code)
	if input.SeasonID == "" {
		return scoringrule.Rule{}, fmt.Errorf("%w: season id is required", ErrInvalidInput)
	}
	if code == "" {
		return scoringrule.Rule{}, fmt.Errorf("%w: rule code is required", ErrInvalidInput)
	}

	if _, exists, err := s.seasonRepo.GetByID(ctx, input.SeasonID); err != nil {
		return scoringrule.Rule{}, fmt.Errorf("get season: %w", err)
	} else if !exists {
		return scoringrule.Rule{}, fmt.Errorf("%w: season=%s", ErrNotFound, input.SeasonID)
	}

	if _, exists, err := s.ruleRepo.GetActiveByCode(ctx, input.SeasonID, code); err != nil {
		return scoringrule.Rule{}, fmt.Errorf("get rule by code: %w", err)
	} else if exists {
		return scoringrule.Rule{}, fmt.Errorf("%w: rule code %s already active for season", ErrConflict, code)
	}

	ruleID, err := s.idGen.NewID()
	if err != nil {
		return scoringrule.Rule{}, fmt.Errorf("generate rule id: %w", err)
	}

	rule := scoringrule.Rule{
		ID:        ruleID,
		SeasonID:  input.SeasonID,
		Code:      code,
		Name:      input.Name,
		Category:  input.Category,
		Points:    input.Points,
		SortOrder: input.SortOrder,
		IsActive:  true,
	}
	if err := rule.Validate(); err != nil {
		return scoringrule.Rule{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.ruleRepo.Insert(ctx, rule); err != nil {
		if errors.Is(err, scoringrule.ErrDuplicateCode) {
			return scoringrule.Rule{}, fmt.Errorf("%w: rule code %s already active for season", ErrConflict, code)
		}
		return scoringrule.Rule{}, fmt.Errorf("insert rule: %w", err)
	}

	return rule, nil
}

// Update renames or reprices a rule in place. Repricing is safe because
// recorded events freeze the points that applied at entry time; only future
// events pick up the new value. The code never changes, retire and recreate
// for that.
func (s *RuleService) Update(ctx context.Context, input UpdateRuleInput) (scoringrule.Rule, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RuleService.Update")
	defer span.End()

	input.RuleID = strings.TrimSpace(input.RuleID)
	input.Name = strings.TrimSpace(input.Name)
	if input.RuleID == "" {
		return scoringrule.Rule{}, fmt.Errorf("%w: rule id is required", ErrInvalidInput)
	}
	if input.Name == "" {
		return scoringrule.Rule{}, fmt.Errorf("%w: rule name is required", ErrInvalidInput)
	}

	rule, exists, err := s.ruleRepo.GetByID(ctx, input.RuleID)
	if err != nil {
		return scoringrule.Rule{}, fmt.Errorf("get rule: %w", err)
	}
	if !exists {
		return scoringrule.Rule{}, fmt.Errorf("%w: rule=%s", ErrNotFound, input.RuleID)
	}

	rule.Name = input.Name
	rule.Points = input.Points
	rule.SortOrder = input.SortOrder
	if err := rule.Validate(); err != nil {
		return scoringrule.Rule{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.ruleRepo.Update(ctx, rule); err != nil {
		return scoringrule.Rule{}, fmt.Errorf("update rule: %w", err)
	}

	return rule, nil
}

// Deactivate retires a rule. Historical events keep their frozen points; the
// code becomes available for a replacement rule.
func (s *RuleService) Deactivate(ctx context.Context, ruleID string) (scoringrule.Rule, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RuleService.Deactivate")
	defer span.End()

	ruleID = strings.TrimSpace(ruleID)
	if ruleID == "" {
		return scoringrule.Rule{}, fmt.Errorf("%w: rule id is required", ErrInvalidInput)
	}

	rule, exists, err := s.ruleRepo.GetByID(ctx, ruleID)
	if err != nil {
		return scoringrule.Rule{}, fmt.Errorf("get rule: %w", err)
	}
	if !exists {
		return scoringrule.Rule{}, fmt.Errorf("%w: rule=%s", ErrNotFound, ruleID)
	}
	if !rule.IsActive {
		return rule, nil
	}

	rule.IsActive = false
	if err := s.ruleRepo.Update(ctx, rule); err != nil {
		return scoringrule.Rule{}, fmt.Errorf("deactivate rule: %w", err)
	}

	return rule, nil
}
