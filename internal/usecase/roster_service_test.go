package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/fantasy-survivor/internal/domain/castaway"
)

func (f *leagueFixture) rosterService() *RosterService {
	return NewRosterService(f.leagueRepo, f.castawayRepo, f.rosterRepo, f.generator)
}

func TestRosterService_Draft(t *testing.T) {
	f := newLeagueFixture(t)

	svc := f.rosterService()
	entry, err := svc.Draft(t.Context(), DraftCastawayInput{
		UserID: "user-1", LeagueID: f.leagueID, CastawayID: "cast-june",
	})
	if err != nil {
		t.Fatalf("draft failed: %v", err)
	}
	// The fixture already holds ranks 1 and 2; new drafts append.
	if entry.DraftRank != 3 {
		t.Fatalf("expected draft rank 3, got %d", entry.DraftRank)
	}

	active, err := svc.ListActive(t.Context(), f.leagueID, "user-1")
	if err != nil {
		t.Fatalf("list active failed: %v", err)
	}
	if len(active) != 3 || active[2].CastawayID != "cast-june" {
		t.Fatalf("new entry should rank last: %+v", active)
	}
}

func TestRosterService_Draft_DuplicateCastaway(t *testing.T) {
	f := newLeagueFixture(t)

	svc := f.rosterService()
	_, err := svc.Draft(t.Context(), DraftCastawayInput{
		UserID: "user-1", LeagueID: f.leagueID, CastawayID: "cast-mira",
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for a held castaway, got %v", err)
	}
}

func TestRosterService_Draft_EliminatedCastaway(t *testing.T) {
	f := newLeagueFixture(t)

	if err := f.castawayRepo.UpdateStatus(t.Context(), "cast-june", castaway.StatusEliminated); err != nil {
		t.Fatalf("eliminate castaway: %v", err)
	}

	svc := f.rosterService()
	_, err := svc.Draft(t.Context(), DraftCastawayInput{
		UserID: "user-1", LeagueID: f.leagueID, CastawayID: "cast-june",
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for an eliminated castaway, got %v", err)
	}
}

func TestRosterService_Draft_RosterFull(t *testing.T) {
	f := newLeagueFixture(t)

	svc := f.rosterService()
	for _, castawayID := range []string{"cast-june", "cast-theo", "cast-priya", "cast-wes"} {
		if _, err := svc.Draft(t.Context(), DraftCastawayInput{
			UserID: "user-1", LeagueID: f.leagueID, CastawayID: castawayID,
		}); err != nil {
			t.Fatalf("draft %s: %v", castawayID, err)
		}
	}

	// Six entries on board; the seventh must bounce.
	_, err := svc.Draft(t.Context(), DraftCastawayInput{
		UserID: "user-1", LeagueID: f.leagueID, CastawayID: "cast-sofia",
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for a full roster, got %v", err)
	}
}

func TestRosterService_Drop_IsTerminal(t *testing.T) {
	f := newLeagueFixture(t)

	svc := f.rosterService()
	dropped, err := svc.Drop(t.Context(), DropCastawayInput{
		UserID: "user-1", LeagueID: f.leagueID, EntryID: "entry-user-1-cast-mira",
	})
	if err != nil {
		t.Fatalf("drop failed: %v", err)
	}
	if dropped.DroppedAt == nil {
		t.Fatalf("dropped entry should carry the drop time")
	}

	if _, err := svc.Drop(t.Context(), DropCastawayInput{
		UserID: "user-1", LeagueID: f.leagueID, EntryID: "entry-user-1-cast-mira",
	}); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict for a repeat drop, got %v", err)
	}

	active, err := svc.ListActive(t.Context(), f.leagueID, "user-1")
	if err != nil {
		t.Fatalf("list active failed: %v", err)
	}
	if len(active) != 1 || active[0].CastawayID != "cast-dario" {
		t.Fatalf("dropped entry should leave the active roster: %+v", active)
	}

	history, err := svc.ListHistory(t.Context(), f.leagueID, "user-1")
	if err != nil {
		t.Fatalf("list history failed: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("history keeps dropped entries: %+v", history)
	}
}

func TestRosterService_Drop_RedraftAfterDrop(t *testing.T) {
	f := newLeagueFixture(t)

	svc := f.rosterService()
	if _, err := svc.Drop(t.Context(), DropCastawayInput{
		UserID: "user-1", LeagueID: f.leagueID, EntryID: "entry-user-1-cast-mira",
	}); err != nil {
		t.Fatalf("drop failed: %v", err)
	}

	// Dropping frees the slot: the same castaway can come back as a fresh
	// entry with a new rank.
	redrafted, err := svc.Draft(t.Context(), DraftCastawayInput{
		UserID: "user-1", LeagueID: f.leagueID, CastawayID: "cast-mira",
	})
	if err != nil {
		t.Fatalf("redraft failed: %v", err)
	}
	if redrafted.ID == "entry-user-1-cast-mira" {
		t.Fatalf("redraft must create a new entry")
	}
	if redrafted.DraftRank != 3 {
		t.Fatalf("redraft appends at the end, got rank %d", redrafted.DraftRank)
	}
}

func TestRosterService_Drop_OtherMembersEntry(t *testing.T) {
	f := newLeagueFixture(t)

	svc := f.rosterService()
	_, err := svc.Drop(t.Context(), DropCastawayInput{
		UserID: "user-1", LeagueID: f.leagueID, EntryID: "entry-user-2-cast-noor",
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("another member's entry should read as missing, got %v", err)
	}
}

func TestRosterService_Reorder(t *testing.T) {
	f := newLeagueFixture(t)

	svc := f.rosterService()
	updated, err := svc.Reorder(t.Context(), ReorderRosterInput{
		UserID:   "user-1",
		LeagueID: f.leagueID,
		EntryIDs: []string{"entry-user-1-cast-dario", "entry-user-1-cast-mira"},
	})
	if err != nil {
		t.Fatalf("reorder failed: %v", err)
	}
	if updated[0].CastawayID != "cast-dario" || updated[0].DraftRank != 1 {
		t.Fatalf("reorder should promote dario: %+v", updated)
	}
	if updated[1].CastawayID != "cast-mira" || updated[1].DraftRank != 2 {
		t.Fatalf("reorder should demote mira: %+v", updated)
	}
}

func TestRosterService_Reorder_IncompleteOrder(t *testing.T) {
	f := newLeagueFixture(t)

	svc := f.rosterService()
	_, err := svc.Reorder(t.Context(), ReorderRosterInput{
		UserID:   "user-1",
		LeagueID: f.leagueID,
		EntryIDs: []string{"entry-user-1-cast-dario"},
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for a partial order, got %v", err)
	}
}

func TestRosterService_Reorder_DrivesAutoPick(t *testing.T) {
	f := newLeagueFixture(t)
	ep := f.episodes[0]

	rosterSvc := f.rosterService()
	if _, err := rosterSvc.Reorder(t.Context(), ReorderRosterInput{
		UserID:   "user-2",
		LeagueID: f.leagueID,
		EntryIDs: []string{"entry-user-2-cast-gabe", "entry-user-2-cast-noor"},
	}); err != nil {
		t.Fatalf("reorder failed: %v", err)
	}

	lockSvc := f.lockService()
	lockSvc.now = func() time.Time { return ep.PicksLockAt.Add(time.Minute) }
	if _, err := lockSvc.Run(t.Context(), ep.ID); err != nil {
		t.Fatalf("lock pass failed: %v", err)
	}

	stored, found, err := f.pickRepo.GetByMemberAndEpisode(t.Context(), f.leagueID, "user-2", ep.ID)
	if err != nil || !found {
		t.Fatalf("auto-picked row missing: %v", err)
	}
	if stored.CastawayID == nil || *stored.CastawayID != "cast-gabe" {
		t.Fatalf("auto-pick should follow the new order, got %v", stored.CastawayID)
	}
}

func TestRosterService_ActiveCastaways_SkipsEliminated(t *testing.T) {
	f := newLeagueFixture(t)

	if err := f.castawayRepo.UpdateStatus(t.Context(), "cast-mira", castaway.StatusEliminated); err != nil {
		t.Fatalf("eliminate castaway: %v", err)
	}

	svc := f.rosterService()
	eligible, err := svc.ActiveCastaways(t.Context(), f.leagueID, "user-1")
	if err != nil {
		t.Fatalf("active castaways failed: %v", err)
	}
	if len(eligible) != 1 || eligible[0].ID != "cast-dario" {
		t.Fatalf("only the surviving roster castaway should remain: %+v", eligible)
	}
}

func TestRosterService_ActiveCastaways_RequiresMembership(t *testing.T) {
	f := newLeagueFixture(t)

	svc := f.rosterService()
	_, err := svc.ActiveCastaways(t.Context(), f.leagueID, "user-stranger")
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}
