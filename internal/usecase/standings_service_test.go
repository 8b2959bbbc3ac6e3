package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/fantasy-survivor/internal/domain/pick"
	"github.com/riskibarqy/fantasy-survivor/internal/domain/scoringevent"
	"github.com/riskibarqy/fantasy-survivor/internal/infrastructure/repository/memory"
)

func (f *leagueFixture) standingsService() *StandingsService {
	return NewStandingsService(f.leagueRepo, f.pickRepo, f.eventRepo, f.standingRepo)
}

// addScoredPick seeds an already-scored pick row.
func (f *leagueFixture) addScoredPick(t *testing.T, userID, episodeID, castawayID string, points int) {
	t.Helper()

	scoredAt := f.baseTime.Add(48 * time.Hour)
	if err := f.pickRepo.Insert(context.Background(), pick.WeeklyPick{
		ID:         "pick-" + userID + "-" + episodeID,
		LeagueID:   f.leagueID,
		UserID:     userID,
		EpisodeID:  episodeID,
		CastawayID: &castawayID,
		State:      pick.StateScored,
		LockedAt:   &scoredAt,
		Points:     &points,
		ScoredAt:   &scoredAt,
		UpdatedAt:  scoredAt,
	}); err != nil {
		t.Fatalf("insert scored pick %s/%s: %v", userID, episodeID, err)
	}
}

func (f *leagueFixture) addPenaltyEvent(t *testing.T, episodeID, castawayID string, quantity int) {
	t.Helper()

	if err := f.eventRepo.Upsert(context.Background(), scoringevent.Event{
		ID:         "event-" + episodeID + "-" + castawayID + "-votes",
		EpisodeID:  episodeID,
		CastawayID: castawayID,
		RuleID:     "rule-votes-against",
		RuleCode:   "VOTES_AGAINST",
		Quantity:   quantity,
		RulePoints: -1,
		RecordedBy: "user-1",
		CreatedAt:  f.baseTime.Add(36 * time.Hour),
	}); err != nil {
		t.Fatalf("insert penalty event %s/%s: %v", episodeID, castawayID, err)
	}
}

func TestStandingsService_Recompute_RanksByPoints(t *testing.T) {
	f := newLeagueFixture(t)
	ep1, ep2 := f.episodes[0], f.episodes[1]

	f.addScoredPick(t, "user-1", ep1.ID, "cast-mira", 10)
	f.addScoredPick(t, "user-2", ep1.ID, "cast-noor", 12)
	// A member who left the league; their history stays out of the table.
	f.addScoredPick(t, "user-9", ep1.ID, "cast-gabe", 99)

	// An unfillable week stays out of the scored-pick count.
	lockedAt := f.baseTime.Add(40 * time.Hour)
	if err := f.pickRepo.Insert(t.Context(), pick.WeeklyPick{
		ID:        "pick-user-1-unfillable",
		LeagueID:  f.leagueID,
		UserID:    "user-1",
		EpisodeID: ep2.ID,
		State:     pick.StateUnfillable,
		LockedAt:  &lockedAt,
		UpdatedAt: lockedAt,
	}); err != nil {
		t.Fatalf("insert unfillable pick: %v", err)
	}

	svc := f.standingsService()
	if err := svc.RecomputeLeague(t.Context(), f.leagueID); err != nil {
		t.Fatalf("recompute failed: %v", err)
	}

	rows, err := f.standingRepo.ListByLeague(t.Context(), f.leagueID)
	if err != nil {
		t.Fatalf("list standings: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected one row per member, got %d", len(rows))
	}
	if rows[0].UserID != "user-2" || rows[0].Rank != 1 || rows[0].Points != 12 {
		t.Fatalf("unexpected leader: %+v", rows[0])
	}
	if rows[1].UserID != "user-1" || rows[1].Points != 10 || rows[1].ScoredPicks != 1 {
		t.Fatalf("unexpected runner-up: %+v", rows[1])
	}
}

func TestStandingsService_Recompute_TieBreaksOnNegativeEvents(t *testing.T) {
	f := newLeagueFixture(t)
	ep1, ep2 := f.episodes[0], f.episodes[1]

	// Both members land on 47 points, but user-1's castaway collected votes
	// against. The cleaner run wins even though user-1 joined first.
	f.addScoredPick(t, "user-1", ep1.ID, "cast-mira", 25)
	f.addScoredPick(t, "user-1", ep2.ID, "cast-dario", 22)
	f.addScoredPick(t, "user-2", ep1.ID, "cast-noor", 25)
	f.addScoredPick(t, "user-2", ep2.ID, "cast-gabe", 22)
	f.addPenaltyEvent(t, ep2.ID, "cast-dario", 2)

	svc := f.standingsService()
	if err := svc.RecomputeLeague(t.Context(), f.leagueID); err != nil {
		t.Fatalf("recompute failed: %v", err)
	}

	rows, err := f.standingRepo.ListByLeague(t.Context(), f.leagueID)
	if err != nil {
		t.Fatalf("list standings: %v", err)
	}
	if rows[0].Points != 47 || rows[1].Points != 47 {
		t.Fatalf("both members should sit on 47 points: %+v", rows)
	}
	if rows[0].UserID != "user-2" || rows[1].UserID != "user-1" {
		t.Fatalf("fewer negative events should rank first: %+v", rows)
	}
	if rows[1].NegativeEvents != 2 {
		t.Fatalf("expected 2 negative events against user-1, got %d", rows[1].NegativeEvents)
	}
}

func TestStandingsService_Recompute_TieBreaksOnJoinTime(t *testing.T) {
	f := newLeagueFixture(t)
	ep1 := f.episodes[0]

	f.addScoredPick(t, "user-1", ep1.ID, "cast-mira", 47)
	f.addScoredPick(t, "user-2", ep1.ID, "cast-noor", 47)

	svc := f.standingsService()
	if err := svc.RecomputeLeague(t.Context(), f.leagueID); err != nil {
		t.Fatalf("recompute failed: %v", err)
	}

	rows, err := f.standingRepo.ListByLeague(t.Context(), f.leagueID)
	if err != nil {
		t.Fatalf("list standings: %v", err)
	}
	// Same points, same negative events: user-1 joined an hour earlier.
	if rows[0].UserID != "user-1" || rows[0].Rank != 1 {
		t.Fatalf("earlier join should rank first: %+v", rows)
	}
}

func TestStandingsService_Rank_BuildsTableOnFirstRead(t *testing.T) {
	f := newLeagueFixture(t)
	ep1 := f.episodes[0]

	f.addScoredPick(t, "user-1", ep1.ID, "cast-mira", 7)
	f.addScoredPick(t, "user-2", ep1.ID, "cast-noor", 2)

	svc := f.standingsService()
	rows, err := svc.Rank(t.Context(), f.leagueID, "user-2")
	if err != nil {
		t.Fatalf("rank failed: %v", err)
	}
	if len(rows) != 2 || rows[0].UserID != "user-1" || rows[0].Rank != 1 {
		t.Fatalf("first read should compute the table: %+v", rows)
	}

	stored, err := f.standingRepo.ListByLeague(t.Context(), f.leagueID)
	if err != nil {
		t.Fatalf("list standings: %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("computed table should be stored, got %d rows", len(stored))
	}
}

func TestStandingsService_Rank_NonMember(t *testing.T) {
	f := newLeagueFixture(t)

	svc := f.standingsService()
	if _, err := svc.Rank(t.Context(), f.leagueID, "user-9"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestStandingsService_RecomputeSeason_RefreshesEveryLeague(t *testing.T) {
	f := newLeagueFixture(t)
	ep1 := f.episodes[0]

	f.addScoredPick(t, "user-1", ep1.ID, "cast-mira", 5)
	f.addScoredPick(t, "user-2", ep1.ID, "cast-noor", 9)

	svc := f.standingsService()
	result, err := svc.RecomputeSeason(t.Context(), memory.SeasonIDEmberIsland)
	if err != nil {
		t.Fatalf("recompute season failed: %v", err)
	}
	if result.Leagues != 1 || result.Recomputed != 1 || len(result.Failures) != 0 {
		t.Fatalf("unexpected season refresh result: %+v", result)
	}

	rows, err := f.standingRepo.ListByLeague(t.Context(), f.leagueID)
	if err != nil {
		t.Fatalf("list standings: %v", err)
	}
	if len(rows) != 2 || rows[0].UserID != "user-2" {
		t.Fatalf("expected user-2 on top after refresh, got %+v", rows)
	}
}

func TestStandingsService_RecomputeSeason_RequiresSeasonID(t *testing.T) {
	f := newLeagueFixture(t)

	svc := f.standingsService()
	if _, err := svc.RecomputeSeason(t.Context(), "  "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
