package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/fantasy-survivor/internal/infrastructure/repository/memory"
	idgen "github.com/riskibarqy/fantasy-survivor/internal/platform/id"
)

func TestSeasonService_Create(t *testing.T) {
	repo := memory.NewSeasonRepository(memory.SeedSeasons())
	svc := NewSeasonService(repo, idgen.NewRandomGenerator())

	created, err := svc.Create(t.Context(), CreateSeasonInput{
		Name:     "Survivor: Frozen Coast",
		Number:   50,
		StartsAt: time.Date(2026, time.September, 23, 1, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create season failed: %v", err)
	}
	if created.ID == "" || created.Number != 50 || created.IsActive {
		t.Fatalf("unexpected season: %+v", created)
	}

	seasons, err := svc.List(t.Context())
	if err != nil {
		t.Fatalf("list seasons failed: %v", err)
	}
	if len(seasons) != 2 {
		t.Fatalf("expected 2 seasons, got %d", len(seasons))
	}
}

func TestSeasonService_Create_DuplicateNumber(t *testing.T) {
	repo := memory.NewSeasonRepository(memory.SeedSeasons())
	svc := NewSeasonService(repo, idgen.NewRandomGenerator())

	_, err := svc.Create(t.Context(), CreateSeasonInput{Name: "Repeat", Number: 49})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict for a reused season number, got %v", err)
	}
}

func TestSeasonService_GetActive(t *testing.T) {
	svc := NewSeasonService(memory.NewSeasonRepository(memory.SeedSeasons()), idgen.NewRandomGenerator())

	active, err := svc.GetActive(t.Context())
	if err != nil {
		t.Fatalf("get active failed: %v", err)
	}
	if active.ID != memory.SeasonIDEmberIsland {
		t.Fatalf("unexpected active season: %+v", active)
	}

	empty := NewSeasonService(memory.NewSeasonRepository(nil), idgen.NewRandomGenerator())
	if _, err := empty.GetActive(t.Context()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound without an active season, got %v", err)
	}
}
