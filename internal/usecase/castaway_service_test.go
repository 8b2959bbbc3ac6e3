package usecase

import (
	"errors"
	"testing"

	"github.com/riskibarqy/fantasy-survivor/internal/domain/castaway"
	"github.com/riskibarqy/fantasy-survivor/internal/infrastructure/repository/memory"
	idgen "github.com/riskibarqy/fantasy-survivor/internal/platform/id"
)

func newCastawayService() *CastawayService {
	return NewCastawayService(
		memory.NewSeasonRepository(memory.SeedSeasons()),
		memory.NewCastawayRepository(memory.SeedCastaways()),
		idgen.NewRandomGenerator(),
		nil,
	)
}

func TestCastawayService_Create_StartsActive(t *testing.T) {
	svc := newCastawayService()

	created, err := svc.Create(t.Context(), CreateCastawayInput{
		SeasonID: memory.SeasonIDEmberIsland,
		Name:     "Lena",
		Tribe:    "Kalea",
	})
	if err != nil {
		t.Fatalf("create castaway failed: %v", err)
	}
	if created.Status != castaway.StatusActive {
		t.Fatalf("new castaways start active, got %s", created.Status)
	}

	if _, err := svc.Create(t.Context(), CreateCastawayInput{SeasonID: "season-missing", Name: "Ghost"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for an unknown season, got %v", err)
	}
}

func TestCastawayService_UpdateStatus_MovesForwardOnly(t *testing.T) {
	svc := newCastawayService()

	eliminated, err := svc.UpdateStatus(t.Context(), UpdateCastawayStatusInput{
		CastawayID: "cast-mira",
		Status:     "eliminated",
	})
	if err != nil {
		t.Fatalf("eliminate failed: %v", err)
	}
	if eliminated.Status != castaway.StatusEliminated {
		t.Fatalf("unexpected status: %s", eliminated.Status)
	}

	// Repeating the same status is a harmless no-op.
	again, err := svc.UpdateStatus(t.Context(), UpdateCastawayStatusInput{
		CastawayID: "cast-mira",
		Status:     "eliminated",
	})
	if err != nil || again.Status != castaway.StatusEliminated {
		t.Fatalf("repeat status change should be a no-op: %v %+v", err, again)
	}

	// There is no way back into the game.
	if _, err := svc.UpdateStatus(t.Context(), UpdateCastawayStatusInput{
		CastawayID: "cast-mira",
		Status:     "active",
	}); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict for a backwards transition, got %v", err)
	}
	if _, err := svc.UpdateStatus(t.Context(), UpdateCastawayStatusInput{
		CastawayID: "cast-mira",
		Status:     "winner",
	}); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict for eliminated to winner, got %v", err)
	}
}

func TestCastawayService_UpdateStatus_InvalidStatus(t *testing.T) {
	svc := newCastawayService()

	_, err := svc.UpdateStatus(t.Context(), UpdateCastawayStatusInput{
		CastawayID: "cast-mira",
		Status:     "benched",
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for an unknown status, got %v", err)
	}
}
