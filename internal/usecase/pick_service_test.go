package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/fantasy-survivor/internal/domain/castaway"
	"github.com/riskibarqy/fantasy-survivor/internal/domain/episode"
	"github.com/riskibarqy/fantasy-survivor/internal/domain/league"
	"github.com/riskibarqy/fantasy-survivor/internal/domain/pick"
	"github.com/riskibarqy/fantasy-survivor/internal/domain/roster"
	"github.com/riskibarqy/fantasy-survivor/internal/infrastructure/repository/memory"
	idgen "github.com/riskibarqy/fantasy-survivor/internal/platform/id"
)

type leagueFixture struct {
	seasonRepo   *memory.SeasonRepository
	leagueRepo   *memory.LeagueRepository
	episodeRepo  *memory.EpisodeRepository
	castawayRepo *memory.CastawayRepository
	rosterRepo   *memory.RosterRepository
	pickRepo     *memory.PickRepository
	eventRepo    *memory.ScoringEventRepository
	ruleRepo     *memory.ScoringRuleRepository
	standingRepo *memory.StandingRepository

	leagueID  string
	episodes  []episode.Episode
	baseTime  time.Time
	generator idgen.Generator
}

// newLeagueFixture seeds one league in the bundled season with two members:
// user-1 joined first, user-2 an hour later. user-1 holds cast-mira then
// cast-dario; user-2 holds cast-noor then cast-gabe.
func newLeagueFixture(t *testing.T) *leagueFixture {
	t.Helper()

	f := &leagueFixture{
		seasonRepo:   memory.NewSeasonRepository(memory.SeedSeasons()),
		leagueRepo:   memory.NewLeagueRepository(nil),
		episodeRepo:  memory.NewEpisodeRepository(memory.SeedEpisodes()),
		castawayRepo: memory.NewCastawayRepository(memory.SeedCastaways()),
		rosterRepo:   memory.NewRosterRepository(),
		pickRepo:     memory.NewPickRepository(),
		eventRepo:    memory.NewScoringEventRepository(),
		ruleRepo:     memory.NewScoringRuleRepository(memory.SeedScoringRules()),
		standingRepo: memory.NewStandingRepository(),
		leagueID:     "league-1",
		generator:    idgen.NewRandomGenerator(),
	}

	ctx := context.Background()
	episodes, err := f.episodeRepo.ListBySeason(ctx, memory.SeasonIDEmberIsland)
	if err != nil {
		t.Fatalf("list seeded episodes: %v", err)
	}
	if len(episodes) == 0 {
		t.Fatalf("no seeded episodes")
	}
	f.episodes = episodes
	f.baseTime = episodes[0].PicksLockAt.Add(-24 * time.Hour)

	if err := f.leagueRepo.Insert(ctx, league.League{
		ID:          f.leagueID,
		SeasonID:    memory.SeasonIDEmberIsland,
		Name:        "Office Pool",
		OwnerUserID: "user-1",
		InviteCode:  "EMBERPOOL",
		CreatedAt:   f.baseTime,
	}); err != nil {
		t.Fatalf("insert league: %v", err)
	}

	f.addMember(t, "user-1", "Casey", league.RoleOwner, f.baseTime)
	f.addMember(t, "user-2", "Robin", league.RoleMember, f.baseTime.Add(time.Hour))

	f.addRosterEntry(t, "user-1", "cast-mira", 1, f.baseTime)
	f.addRosterEntry(t, "user-1", "cast-dario", 2, f.baseTime.Add(time.Minute))
	f.addRosterEntry(t, "user-2", "cast-noor", 1, f.baseTime)
	f.addRosterEntry(t, "user-2", "cast-gabe", 2, f.baseTime.Add(time.Minute))

	return f
}

func (f *leagueFixture) addMember(t *testing.T, userID, displayName string, role league.Role, joinedAt time.Time) {
	t.Helper()

	if err := f.leagueRepo.InsertMember(context.Background(), league.Member{
		LeagueID:    f.leagueID,
		UserID:      userID,
		DisplayName: displayName,
		Role:        role,
		JoinedAt:    joinedAt,
	}); err != nil {
		t.Fatalf("insert member %s: %v", userID, err)
	}
}

func (f *leagueFixture) addRosterEntry(t *testing.T, userID, castawayID string, rank int, draftedAt time.Time) {
	t.Helper()

	if err := f.rosterRepo.Insert(context.Background(), roster.Entry{
		ID:         "entry-" + userID + "-" + castawayID,
		LeagueID:   f.leagueID,
		UserID:     userID,
		CastawayID: castawayID,
		DraftRank:  rank,
		DraftedAt:  draftedAt,
	}); err != nil {
		t.Fatalf("insert roster entry %s/%s: %v", userID, castawayID, err)
	}
}

func (f *leagueFixture) pickService() *PickService {
	return NewPickService(f.leagueRepo, f.episodeRepo, f.castawayRepo, f.rosterRepo, f.pickRepo, f.generator, nil)
}

func TestPickService_Submit_BeforeLock(t *testing.T) {
	f := newLeagueFixture(t)
	ep := f.episodes[0]

	svc := f.pickService()
	svc.now = func() time.Time { return ep.PicksLockAt.Add(-time.Hour) }

	saved, err := svc.Submit(t.Context(), SubmitPickInput{
		UserID:     "user-1",
		LeagueID:   f.leagueID,
		EpisodeID:  ep.ID,
		CastawayID: "cast-mira",
	})
	if err != nil {
		t.Fatalf("submit pick failed: %v", err)
	}
	if saved.State != pick.StateSelected {
		t.Fatalf("unexpected state: %s", saved.State)
	}
	if saved.CastawayID == nil || *saved.CastawayID != "cast-mira" {
		t.Fatalf("unexpected castaway: %v", saved.CastawayID)
	}
}

func TestPickService_Submit_OverwritesBeforeLock(t *testing.T) {
	f := newLeagueFixture(t)
	ep := f.episodes[0]

	svc := f.pickService()
	svc.now = func() time.Time { return ep.PicksLockAt.Add(-time.Hour) }

	first, err := svc.Submit(t.Context(), SubmitPickInput{
		UserID: "user-1", LeagueID: f.leagueID, EpisodeID: ep.ID, CastawayID: "cast-mira",
	})
	if err != nil {
		t.Fatalf("first submit failed: %v", err)
	}

	second, err := svc.Submit(t.Context(), SubmitPickInput{
		UserID: "user-1", LeagueID: f.leagueID, EpisodeID: ep.ID, CastawayID: "cast-dario",
	})
	if err != nil {
		t.Fatalf("second submit failed: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("resubmission must reuse the pick row: %s vs %s", second.ID, first.ID)
	}
	if *second.CastawayID != "cast-dario" {
		t.Fatalf("resubmission must overwrite the castaway, got %s", *second.CastawayID)
	}

	stored, found, err := f.pickRepo.GetByMemberAndEpisode(t.Context(), f.leagueID, "user-1", ep.ID)
	if err != nil || !found {
		t.Fatalf("stored pick missing: %v", err)
	}
	if stored.State != pick.StateSelected {
		t.Fatalf("unexpected stored state: %s", stored.State)
	}
}

func TestPickService_Submit_WindowClosed(t *testing.T) {
	f := newLeagueFixture(t)
	ep := f.episodes[0]

	svc := f.pickService()
	svc.now = func() time.Time { return ep.PicksLockAt }

	_, err := svc.Submit(t.Context(), SubmitPickInput{
		UserID: "user-1", LeagueID: f.leagueID, EpisodeID: ep.ID, CastawayID: "cast-mira",
	})
	if !errors.Is(err, ErrPickWindowClosed) {
		t.Fatalf("expected ErrPickWindowClosed at the lock instant, got %v", err)
	}
}

func TestPickService_Submit_CastawayNotOnRoster(t *testing.T) {
	f := newLeagueFixture(t)
	ep := f.episodes[0]

	svc := f.pickService()
	svc.now = func() time.Time { return ep.PicksLockAt.Add(-time.Hour) }

	_, err := svc.Submit(t.Context(), SubmitPickInput{
		UserID: "user-1", LeagueID: f.leagueID, EpisodeID: ep.ID, CastawayID: "cast-noor",
	})
	if !errors.Is(err, ErrCastawayNotEligible) {
		t.Fatalf("expected ErrCastawayNotEligible, got %v", err)
	}
}

func TestPickService_Submit_EliminatedCastaway(t *testing.T) {
	f := newLeagueFixture(t)
	ep := f.episodes[0]

	if err := f.castawayRepo.UpdateStatus(t.Context(), "cast-mira", castaway.StatusEliminated); err != nil {
		t.Fatalf("eliminate castaway: %v", err)
	}

	svc := f.pickService()
	svc.now = func() time.Time { return ep.PicksLockAt.Add(-time.Hour) }

	_, err := svc.Submit(t.Context(), SubmitPickInput{
		UserID: "user-1", LeagueID: f.leagueID, EpisodeID: ep.ID, CastawayID: "cast-mira",
	})
	if !errors.Is(err, ErrCastawayNotEligible) {
		t.Fatalf("expected ErrCastawayNotEligible for eliminated castaway, got %v", err)
	}
}

func TestPickService_Submit_NonMember(t *testing.T) {
	f := newLeagueFixture(t)
	ep := f.episodes[0]

	svc := f.pickService()
	svc.now = func() time.Time { return ep.PicksLockAt.Add(-time.Hour) }

	_, err := svc.Submit(t.Context(), SubmitPickInput{
		UserID: "user-9", LeagueID: f.leagueID, EpisodeID: ep.ID, CastawayID: "cast-mira",
	})
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestPickService_ListLeagueForEpisode_HidesRivalsUntilLock(t *testing.T) {
	f := newLeagueFixture(t)
	ep := f.episodes[0]

	svc := f.pickService()
	svc.now = func() time.Time { return ep.PicksLockAt.Add(-time.Hour) }

	for user, castawayID := range map[string]string{"user-1": "cast-mira", "user-2": "cast-noor"} {
		if _, err := svc.Submit(t.Context(), SubmitPickInput{
			UserID: user, LeagueID: f.leagueID, EpisodeID: ep.ID, CastawayID: castawayID,
		}); err != nil {
			t.Fatalf("submit for %s: %v", user, err)
		}
	}

	visible, err := svc.ListLeagueForEpisode(t.Context(), f.leagueID, "user-1", ep.ID)
	if err != nil {
		t.Fatalf("list picks before lock: %v", err)
	}
	if len(visible) != 1 || visible[0].UserID != "user-1" {
		t.Fatalf("before lock only own pick should be visible, got %d rows", len(visible))
	}

	svc.now = func() time.Time { return ep.PicksLockAt.Add(time.Minute) }
	visible, err = svc.ListLeagueForEpisode(t.Context(), f.leagueID, "user-1", ep.ID)
	if err != nil {
		t.Fatalf("list picks after lock: %v", err)
	}
	if len(visible) != 2 {
		t.Fatalf("after lock all picks should be visible, got %d rows", len(visible))
	}
}
