package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/fantasy-survivor/internal/domain/episode"
	"github.com/riskibarqy/fantasy-survivor/internal/domain/league"
	"github.com/riskibarqy/fantasy-survivor/internal/domain/pick"
	"github.com/riskibarqy/fantasy-survivor/internal/domain/roster"
	"github.com/riskibarqy/fantasy-survivor/internal/domain/standing"
)

// Dashboard is the member's one-call view of a league: where the season is,
// what their pick looks like for the next episode, and where they sit in the
// table.
type Dashboard struct {
	LeagueID       string
	LeagueName     string
	SeasonID       string
	NextEpisode    *episode.Episode
	PickState      string
	PickCastawayID string
	PicksLockAt    *time.Time
	RosterSize     int
	TotalPoints    int
	Rank           int
	Members        int
	NegativeEvents int
	TopStandings   []standing.Standing
}

type DashboardService struct {
	leagueRepo   league.Repository
	episodeRepo  episode.Repository
	rosterRepo   roster.Repository
	pickRepo     pick.Repository
	standingsSvc dashboardStandingsProvider
	now          func() time.Time
}

type dashboardStandingsProvider interface {
	Rank(ctx context.Context, leagueID, userID string) ([]standing.Standing, error)
}

func NewDashboardService(
	leagueRepo league.Repository,
	episodeRepo episode.Repository,
	rosterRepo roster.Repository,
	pickRepo pick.Repository,
	standingsSvc dashboardStandingsProvider,
) *DashboardService {
	return &DashboardService{
		leagueRepo:   leagueRepo,
		episodeRepo:  episodeRepo,
		rosterRepo:   rosterRepo,
		pickRepo:     pickRepo,
		standingsSvc: standingsSvc,
		now:          time.Now,
	}
}

func (s *DashboardService) Get(ctx context.Context, leagueID, userID string) (Dashboard, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DashboardService.Get")
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	userID = strings.TrimSpace(userID)
	if leagueID == "" || userID == "" {
		return Dashboard{}, fmt.Errorf("%w: league id and user id are required", ErrInvalidInput)
	}

	item, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return Dashboard{}, fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return Dashboard{}, fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}
	if _, joined, err := s.leagueRepo.GetMember(ctx, leagueID, userID); err != nil {
		return Dashboard{}, fmt.Errorf("get league member: %w", err)
	} else if !joined {
		return Dashboard{}, fmt.Errorf("%w: not a member of league %s", ErrUnauthorized, leagueID)
	}

	dashboard := Dashboard{
		LeagueID:   item.ID,
		LeagueName: item.Name,
		SeasonID:   item.SeasonID,
		PickState:  string(pick.StateOpen),
	}

	episodes, err := s.episodeRepo.ListBySeason(ctx, item.SeasonID)
	if err != nil {
		return Dashboard{}, fmt.Errorf("list episodes: %w", err)
	}
	now := s.now().UTC()
	for i := range episodes {
		if episodes[i].PicksOpen(now) {
			dashboard.NextEpisode = &episodes[i]
			lockAt := episodes[i].PicksLockAt
			dashboard.PicksLockAt = &lockAt
			break
		}
	}

	if dashboard.NextEpisode != nil {
		current, found, err := s.pickRepo.GetByMemberAndEpisode(ctx, leagueID, userID, dashboard.NextEpisode.ID)
		if err != nil {
			return Dashboard{}, fmt.Errorf("get current pick: %w", err)
		}
		if found {
			dashboard.PickState = string(current.State)
			if current.CastawayID != nil {
				dashboard.PickCastawayID = *current.CastawayID
			}
		}
	}

	entries, err := s.rosterRepo.ListActiveByMember(ctx, leagueID, userID)
	if err != nil {
		return Dashboard{}, fmt.Errorf("list active roster entries: %w", err)
	}
	dashboard.RosterSize = len(entries)

	rows, err := s.standingsSvc.Rank(ctx, leagueID, userID)
	if err != nil {
		return Dashboard{}, fmt.Errorf("rank league for dashboard: %w", err)
	}
	dashboard.Members = len(rows)
	for _, row := range rows {
		if row.UserID == userID {
			dashboard.TotalPoints = row.Points
			dashboard.Rank = row.Rank
			dashboard.NegativeEvents = row.NegativeEvents
		}
	}
	top := len(rows)
	if top > 3 {
		top = 3
	}
	dashboard.TopStandings = rows[:top]

	return dashboard, nil
}
