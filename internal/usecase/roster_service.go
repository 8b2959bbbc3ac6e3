package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/fantasy-survivor/internal/domain/castaway"
	"github.com/riskibarqy/fantasy-survivor/internal/domain/league"
	"github.com/riskibarqy/fantasy-survivor/internal/domain/roster"
	idgen "github.com/riskibarqy/fantasy-survivor/internal/platform/id"
)

type DraftCastawayInput struct {
	UserID     string
	LeagueID   string
	CastawayID string
}

type DropCastawayInput struct {
	UserID   string
	LeagueID string
	EntryID  string
}

type ReorderRosterInput struct {
	UserID   string
	LeagueID string
	// EntryIDs lists every active entry in the desired order, best first.
	EntryIDs []string
}

type RosterService struct {
	leagueRepo   league.Repository
	castawayRepo castaway.Repository
	rosterRepo   roster.Repository
	rules        roster.Rules
	idGen        idgen.Generator
	now          func() time.Time
}

func NewRosterService(
	leagueRepo league.Repository,
	castawayRepo castaway.Repository,
	rosterRepo roster.Repository,
	idGen idgen.Generator,
) *RosterService {
	return &RosterService{
		leagueRepo:   leagueRepo,
		castawayRepo: castawayRepo,
		rosterRepo:   rosterRepo,
		rules:        roster.DefaultRules(),
		idGen:        idGen,
		now:          time.Now,
	}
}

func (s *RosterService) ListActive(ctx context.Context, leagueID, userID string) ([]roster.Entry, error) {
	leagueID = strings.TrimSpace(leagueID)
	userID = strings.TrimSpace(userID)
	if leagueID == "" || userID == "" {
		return nil, fmt.Errorf("%w: league id and user id are required", ErrInvalidInput)
	}

	if err := s.requireMembership(ctx, leagueID, userID); err != nil {
		return nil, err
	}

	entries, err := s.rosterRepo.ListActiveByMember(ctx, leagueID, userID)
	if err != nil {
		return nil, fmt.Errorf("list active roster entries: %w", err)
	}

	return entries, nil
}

func (s *RosterService) ListHistory(ctx context.Context, leagueID, userID string) ([]roster.Entry, error) {
	leagueID = strings.TrimSpace(leagueID)
	userID = strings.TrimSpace(userID)
	if leagueID == "" || userID == "" {
		return nil, fmt.Errorf("%w: league id and user id are required", ErrInvalidInput)
	}

	if err := s.requireMembership(ctx, leagueID, userID); err != nil {
		return nil, err
	}

	entries, err := s.rosterRepo.ListByMember(ctx, leagueID, userID)
	if err != nil {
		return nil, fmt.Errorf("list roster entries: %w", err)
	}

	return entries, nil
}

// ActiveCastaways returns the castaways this member may still pick: on the
// roster, not dropped, and still in the game. The order follows the member's
// draft ranking, the same preference the auto-pick uses.
func (s *RosterService) ActiveCastaways(ctx context.Context, leagueID, userID string) ([]castaway.Castaway, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.ActiveCastaways")
	defer span.End()

	entries, err := s.ListActive(ctx, leagueID, userID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return []castaway.Castaway{}, nil
	}

	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.CastawayID)
	}
	castaways, err := s.castawayRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get castaways: %w", err)
	}
	byID := make(map[string]castaway.Castaway, len(castaways))
	for _, c := range castaways {
		byID[c.ID] = c
	}

	eligible := make([]castaway.Castaway, 0, len(entries))
	for _, entry := range entries {
		if c, ok := byID[entry.CastawayID]; ok && c.Status.Playable() {
			eligible = append(eligible, c)
		}
	}

	return eligible, nil
}

// Draft adds a castaway to the member's roster at the lowest priority rank.
// Re-acquiring a previously dropped castaway creates a fresh entry.
func (s *RosterService) Draft(ctx context.Context, input DraftCastawayInput) (roster.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.Draft")
	defer span.End()

	input.UserID = strings.TrimSpace(input.UserID)
	input.LeagueID = strings.TrimSpace(input.LeagueID)
	input.CastawayID = strings.TrimSpace(input.CastawayID)
	if input.UserID == "" || input.LeagueID == "" {
		return roster.Entry{}, fmt.Errorf("%w: league id and user id are required", ErrInvalidInput)
	}
	if input.CastawayID == "" {
		return roster.Entry{}, fmt.Errorf("%w: castaway id is required", ErrInvalidInput)
	}

	item, exists, err := s.leagueRepo.GetByID(ctx, input.LeagueID)
	if err != nil {
		return roster.Entry{}, fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return roster.Entry{}, fmt.Errorf("%w: league=%s", ErrNotFound, input.LeagueID)
	}
	if err := s.requireMembership(ctx, input.LeagueID, input.UserID); err != nil {
		return roster.Entry{}, err
	}

	candidate, exists, err := s.castawayRepo.GetByID(ctx, input.CastawayID)
	if err != nil {
		return roster.Entry{}, fmt.Errorf("get castaway: %w", err)
	}
	if !exists {
		return roster.Entry{}, fmt.Errorf("%w: castaway=%s", ErrNotFound, input.CastawayID)
	}

	active, err := s.rosterRepo.ListActiveByMember(ctx, input.LeagueID, input.UserID)
	if err != nil {
		return roster.Entry{}, fmt.Errorf("list active roster entries: %w", err)
	}

	if err := roster.ValidateDraft(active, candidate, item.SeasonID, s.rules); err != nil {
		return roster.Entry{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	maxRank := 0
	for _, entry := range active {
		if entry.DraftRank > maxRank {
			maxRank = entry.DraftRank
		}
	}

	entryID, err := s.idGen.NewID()
	if err != nil {
		return roster.Entry{}, fmt.Errorf("generate roster entry id: %w", err)
	}

	entry := roster.Entry{
		ID:         entryID,
		LeagueID:   input.LeagueID,
		UserID:     input.UserID,
		CastawayID: candidate.ID,
		DraftRank:  maxRank + 1,
		DraftedAt:  s.now().UTC(),
	}
	if err := entry.Validate(); err != nil {
		return roster.Entry{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.rosterRepo.Insert(ctx, entry); err != nil {
		if errors.Is(err, roster.ErrDuplicateCastaway) {
			return roster.Entry{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return roster.Entry{}, fmt.Errorf("insert roster entry: %w", err)
	}

	return entry, nil
}

// Drop retires a roster entry. The entry stays in history; auto-picks skip it
// from now on.
func (s *RosterService) Drop(ctx context.Context, input DropCastawayInput) (roster.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.Drop")
	defer span.End()

	input.UserID = strings.TrimSpace(input.UserID)
	input.LeagueID = strings.TrimSpace(input.LeagueID)
	input.EntryID = strings.TrimSpace(input.EntryID)
	if input.UserID == "" || input.LeagueID == "" {
		return roster.Entry{}, fmt.Errorf("%w: league id and user id are required", ErrInvalidInput)
	}
	if input.EntryID == "" {
		return roster.Entry{}, fmt.Errorf("%w: entry id is required", ErrInvalidInput)
	}

	if err := s.requireMembership(ctx, input.LeagueID, input.UserID); err != nil {
		return roster.Entry{}, err
	}

	entry, exists, err := s.rosterRepo.GetByID(ctx, input.EntryID)
	if err != nil {
		return roster.Entry{}, fmt.Errorf("get roster entry: %w", err)
	}
	if !exists || entry.LeagueID != input.LeagueID || entry.UserID != input.UserID {
		return roster.Entry{}, fmt.Errorf("%w: roster entry=%s", ErrNotFound, input.EntryID)
	}
	if entry.DroppedAt != nil {
		return roster.Entry{}, fmt.Errorf("%w: roster entry already dropped", ErrConflict)
	}

	droppedAt := s.now().UTC()
	if err := s.rosterRepo.Drop(ctx, entry.ID, droppedAt); err != nil {
		if errors.Is(err, roster.ErrEntryAlreadyDropped) {
			return roster.Entry{}, fmt.Errorf("%w: roster entry already dropped", ErrConflict)
		}
		return roster.Entry{}, fmt.Errorf("drop roster entry: %w", err)
	}
	entry.DroppedAt = &droppedAt

	return entry, nil
}

// Reorder replaces the member's auto-pick priority. The submitted order must
// cover every active entry exactly once.
func (s *RosterService) Reorder(ctx context.Context, input ReorderRosterInput) ([]roster.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.Reorder")
	defer span.End()

	input.UserID = strings.TrimSpace(input.UserID)
	input.LeagueID = strings.TrimSpace(input.LeagueID)
	if input.UserID == "" || input.LeagueID == "" {
		return nil, fmt.Errorf("%w: league id and user id are required", ErrInvalidInput)
	}

	if err := s.requireMembership(ctx, input.LeagueID, input.UserID); err != nil {
		return nil, err
	}

	active, err := s.rosterRepo.ListActiveByMember(ctx, input.LeagueID, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("list active roster entries: %w", err)
	}

	ranks := make(map[string]int, len(input.EntryIDs))
	for position, entryID := range input.EntryIDs {
		ranks[strings.TrimSpace(entryID)] = position + 1
	}
	if err := roster.ValidateRanking(active, ranks); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.rosterRepo.UpdateRanks(ctx, input.LeagueID, input.UserID, ranks); err != nil {
		return nil, fmt.Errorf("update roster ranks: %w", err)
	}

	updated, err := s.rosterRepo.ListActiveByMember(ctx, input.LeagueID, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("list active roster entries: %w", err)
	}

	return updated, nil
}

func (s *RosterService) requireMembership(ctx context.Context, leagueID, userID string) error {
	_, joined, err := s.leagueRepo.GetMember(ctx, leagueID, userID)
	if err != nil {
		return fmt.Errorf("get league member: %w", err)
	}
	if !joined {
		return fmt.Errorf("%w: not a member of league %s", ErrUnauthorized, leagueID)
	}

	return nil
}
