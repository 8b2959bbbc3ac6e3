package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/fantasy-survivor/internal/infrastructure/repository/memory"
	idgen "github.com/riskibarqy/fantasy-survivor/internal/platform/id"
)

func newEpisodeService() (*EpisodeService, *memory.EpisodeRepository) {
	repo := memory.NewEpisodeRepository(memory.SeedEpisodes())
	svc := NewEpisodeService(memory.NewSeasonRepository(memory.SeedSeasons()), repo, idgen.NewRandomGenerator())
	return svc, repo
}

func TestEpisodeService_Create_NumberMustIncrease(t *testing.T) {
	svc, repo := newEpisodeService()

	existing, err := repo.ListBySeason(t.Context(), memory.SeasonIDEmberIsland)
	if err != nil || len(existing) == 0 {
		t.Fatalf("seeded episodes missing: %v", err)
	}
	last := existing[len(existing)-1]

	// Backfilling an already-used number is off the table.
	_, err = svc.Create(t.Context(), CreateEpisodeInput{
		SeasonID:    memory.SeasonIDEmberIsland,
		Number:      last.Number,
		Title:       "Retread",
		AirsAt:      last.AirsAt.Add(7 * 24 * time.Hour),
		PicksLockAt: last.AirsAt.Add(7*24*time.Hour - 30*time.Minute),
	})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict for a reused number, got %v", err)
	}

	created, err := svc.Create(t.Context(), CreateEpisodeInput{
		SeasonID:    memory.SeasonIDEmberIsland,
		Number:      last.Number + 1,
		Title:       "Reunion",
		AirsAt:      last.AirsAt.Add(7 * 24 * time.Hour),
		PicksLockAt: last.AirsAt.Add(7*24*time.Hour - 30*time.Minute),
	})
	if err != nil {
		t.Fatalf("create episode failed: %v", err)
	}
	if created.Number != last.Number+1 {
		t.Fatalf("unexpected episode: %+v", created)
	}
}

func TestEpisodeService_Create_LockMustNotPassAirTime(t *testing.T) {
	svc, _ := newEpisodeService()

	airsAt := time.Date(2026, time.June, 3, 1, 0, 0, 0, time.UTC)
	_, err := svc.Create(t.Context(), CreateEpisodeInput{
		SeasonID:    memory.SeasonIDEmberIsland,
		Number:      99,
		Title:       "Late Lock",
		AirsAt:      airsAt,
		PicksLockAt: airsAt.Add(time.Minute),
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput when the lock trails the air time, got %v", err)
	}
}

func TestEpisodeService_NextPickable(t *testing.T) {
	svc, repo := newEpisodeService()

	episodes, err := repo.ListBySeason(t.Context(), memory.SeasonIDEmberIsland)
	if err != nil {
		t.Fatalf("list episodes: %v", err)
	}

	// Episode 1 is locked, episode 2 is not.
	svc.now = func() time.Time { return episodes[0].PicksLockAt.Add(time.Hour) }
	next, found, err := svc.NextPickable(t.Context(), memory.SeasonIDEmberIsland)
	if err != nil || !found {
		t.Fatalf("next pickable failed: found=%v err=%v", found, err)
	}
	if next.ID != episodes[1].ID {
		t.Fatalf("expected episode 2 to be next, got %+v", next)
	}

	// Past the last lock nothing is pickable.
	svc.now = func() time.Time { return episodes[len(episodes)-1].PicksLockAt.Add(time.Hour) }
	if _, found, err := svc.NextPickable(t.Context(), memory.SeasonIDEmberIsland); err != nil || found {
		t.Fatalf("expected no pickable episode, found=%v err=%v", found, err)
	}
}
