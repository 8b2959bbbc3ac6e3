package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/fantasy-survivor/internal/domain/league"
	"github.com/riskibarqy/fantasy-survivor/internal/domain/season"
	idgen "github.com/riskibarqy/fantasy-survivor/internal/platform/id"
	"github.com/riskibarqy/fantasy-survivor/internal/platform/logging"
)

const leagueInviteCodeLength = 8

type CreateLeagueInput struct {
	UserID      string
	DisplayName string
	SeasonID    string
	Name        string
	IsPublic    bool
}

type JoinLeagueInput struct {
	UserID      string
	DisplayName string
	InviteCode  string
}

type LeagueService struct {
	seasonRepo season.Repository
	leagueRepo league.Repository
	idGen      idgen.Generator
	logger     *logging.Logger
	now        func() time.Time
}

func NewLeagueService(
	seasonRepo season.Repository,
	leagueRepo league.Repository,
	idGen idgen.Generator,
	logger *logging.Logger,
) *LeagueService {
	if logger == nil {
		logger = logging.NewNop()
	}

	return &LeagueService{
		seasonRepo: seasonRepo,
		leagueRepo: leagueRepo,
		idGen:      idGen,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *LeagueService) Create(ctx context.Context, input CreateLeagueInput) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.Create")
	defer span.End()

	input.UserID = strings.TrimSpace(input.UserID)
	input.DisplayName = strings.TrimSpace(input.DisplayName)
	input.SeasonID = strings.TrimSpace(input.SeasonID)
	input.Name = strings.TrimSpace(input.Name)
	if input.UserID == "" {
		return league.League{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if input.SeasonID == "" {
		return league.League{}, fmt.Errorf("%w: season id is required", ErrInvalidInput)
	}
	if input.Name == "" {
		return league.League{}, fmt.Errorf("%w: league name is required", ErrInvalidInput)
	}

	if _, exists, err := s.seasonRepo.GetByID(ctx, input.SeasonID); err != nil {
		return league.League{}, fmt.Errorf("get season: %w", err)
	} else if !exists {
		return league.League{}, fmt.Errorf("%w: season=%s", ErrNotFound, input.SeasonID)
	}

	inviteCode, err := s.uniqueInviteCode(ctx)
	if err != nil {
		return league.League{}, err
	}

	leagueID, err := s.idGen.NewID()
	if err != nil {
		return league.League{}, fmt.Errorf("generate league id: %w", err)
	}

	now := s.now().UTC()
	item := league.League{
		ID:          leagueID,
		SeasonID:    input.SeasonID,
		Name:        input.Name,
		OwnerUserID: input.UserID,
		InviteCode:  inviteCode,
		IsPublic:    input.IsPublic,
		CreatedAt:   now,
	}
	if err := item.Validate(); err != nil {
		return league.League{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.leagueRepo.Insert(ctx, item); err != nil {
		return league.League{}, fmt.Errorf("insert league: %w", err)
	}

	owner := league.Member{
		LeagueID:    item.ID,
		UserID:      input.UserID,
		DisplayName: input.DisplayName,
		Role:        league.RoleOwner,
		JoinedAt:    now,
	}
	if err := s.leagueRepo.InsertMember(ctx, owner); err != nil {
		return league.League{}, fmt.Errorf("insert league owner: %w", err)
	}

	s.logger.InfoContext(ctx, "league created",
		"league_id", item.ID,
		"season_id", item.SeasonID,
		"owner_user_id", input.UserID,
	)

	return item, nil
}

func (s *LeagueService) JoinByInviteCode(ctx context.Context, input JoinLeagueInput) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.JoinByInviteCode")
	defer span.End()

	input.UserID = strings.TrimSpace(input.UserID)
	input.DisplayName = strings.TrimSpace(input.DisplayName)
	input.InviteCode = strings.ToUpper(strings.TrimSpace(input.InviteCode))
	if input.UserID == "" {
		return league.League{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if input.InviteCode == "" {
		return league.League{}, fmt.Errorf("%w: invite code is required", ErrInvalidInput)
	}

	item, exists, err := s.leagueRepo.GetByInviteCode(ctx, input.InviteCode)
	if err != nil {
		return league.League{}, fmt.Errorf("get league by invite code: %w", err)
	}
	if !exists {
		return league.League{}, fmt.Errorf("%w: invite code does not match any league", ErrNotFound)
	}

	if _, joined, err := s.leagueRepo.GetMember(ctx, item.ID, input.UserID); err != nil {
		return league.League{}, fmt.Errorf("get league member: %w", err)
	} else if joined {
		return league.League{}, fmt.Errorf("%w: already a member of league %s", ErrConflict, item.ID)
	}

	member := league.Member{
		LeagueID:    item.ID,
		UserID:      input.UserID,
		DisplayName: input.DisplayName,
		Role:        league.RoleMember,
		JoinedAt:    s.now().UTC(),
	}
	if err := s.leagueRepo.InsertMember(ctx, member); err != nil {
		if errors.Is(err, league.ErrDuplicateMember) {
			return league.League{}, fmt.Errorf("%w: already a member of league %s", ErrConflict, item.ID)
		}
		return league.League{}, fmt.Errorf("insert league member: %w", err)
	}

	s.logger.InfoContext(ctx, "league joined",
		"league_id", item.ID,
		"user_id", input.UserID,
	)

	return item, nil
}

func (s *LeagueService) ListMine(ctx context.Context, userID string) ([]league.League, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	leagues, err := s.leagueRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list leagues by user: %w", err)
	}

	return leagues, nil
}

// GetForMember loads a league and verifies the caller belongs to it.
func (s *LeagueService) GetForMember(ctx context.Context, leagueID, userID string) (league.League, league.Member, error) {
	leagueID = strings.TrimSpace(leagueID)
	userID = strings.TrimSpace(userID)
	if leagueID == "" || userID == "" {
		return league.League{}, league.Member{}, fmt.Errorf("%w: league id and user id are required", ErrInvalidInput)
	}

	item, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return league.League{}, league.Member{}, fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return league.League{}, league.Member{}, fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}

	member, joined, err := s.leagueRepo.GetMember(ctx, leagueID, userID)
	if err != nil {
		return league.League{}, league.Member{}, fmt.Errorf("get league member: %w", err)
	}
	if !joined {
		return league.League{}, league.Member{}, fmt.Errorf("%w: not a member of league %s", ErrUnauthorized, leagueID)
	}

	return item, member, nil
}

func (s *LeagueService) ListMembers(ctx context.Context, leagueID, userID string) ([]league.Member, error) {
	if _, _, err := s.GetForMember(ctx, leagueID, userID); err != nil {
		return nil, err
	}

	members, err := s.leagueRepo.ListMembers(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list league members: %w", err)
	}

	return members, nil
}

func (s *LeagueService) uniqueInviteCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < 5; attempt++ {
		code, err := idgen.NewCode(leagueInviteCodeLength)
		if err != nil {
			return "", fmt.Errorf("generate invite code: %w", err)
		}
		if _, exists, err := s.leagueRepo.GetByInviteCode(ctx, code); err != nil {
			return "", fmt.Errorf("check invite code: %w", err)
		} else if !exists {
			return code, nil
		}
	}

	return "", fmt.Errorf("%w: could not allocate a unique invite code", ErrDependencyUnavailable)
}
