package roster

import (
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/fantasy-survivor/internal/domain/castaway"
)

func TestValidateDraft(t *testing.T) {
	t.Parallel()

	seasonID := "s1"
	active := []Entry{
		{ID: "r1", CastawayID: "c1"},
		{ID: "r2", CastawayID: "c2"},
	}

	cases := []struct {
		name      string
		candidate castaway.Castaway
		rules     Rules
		wantErr   error
	}{
		{
			name:      "valid draft",
			candidate: castaway.Castaway{ID: "c3", SeasonID: seasonID, Status: castaway.StatusActive},
			rules:     Rules{MaxEntries: 6},
		},
		{
			name:      "eliminated castaway",
			candidate: castaway.Castaway{ID: "c3", SeasonID: seasonID, Status: castaway.StatusEliminated},
			rules:     Rules{MaxEntries: 6},
			wantErr:   ErrCastawayNotPlayable,
		},
		{
			name:      "wrong season",
			candidate: castaway.Castaway{ID: "c3", SeasonID: "other", Status: castaway.StatusActive},
			rules:     Rules{MaxEntries: 6},
			wantErr:   ErrCastawayWrongSeason,
		},
		{
			name:      "duplicate castaway",
			candidate: castaway.Castaway{ID: "c2", SeasonID: seasonID, Status: castaway.StatusActive},
			rules:     Rules{MaxEntries: 6},
			wantErr:   ErrDuplicateCastaway,
		},
		{
			name:      "roster full",
			candidate: castaway.Castaway{ID: "c3", SeasonID: seasonID, Status: castaway.StatusActive},
			rules:     Rules{MaxEntries: 2},
			wantErr:   ErrRosterFull,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateDraft(active, tc.candidate, seasonID, tc.rules)
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestValidateRanking(t *testing.T) {
	t.Parallel()

	active := []Entry{{ID: "r1"}, {ID: "r2"}, {ID: "r3"}}

	if err := ValidateRanking(active, map[string]int{"r1": 2, "r2": 1, "r3": 3}); err != nil {
		t.Fatalf("unexpected error for valid ranking: %v", err)
	}
	if err := ValidateRanking(active, map[string]int{"r1": 1, "r2": 2}); !errors.Is(err, ErrIncompleteRankUpdate) {
		t.Fatalf("expected incomplete ranking error, got %v", err)
	}
	if err := ValidateRanking(active, map[string]int{"r1": 1, "r2": 1, "r3": 3}); !errors.Is(err, ErrIncompleteRankUpdate) {
		t.Fatalf("expected duplicate rank error, got %v", err)
	}
	if err := ValidateRanking(active, map[string]int{"r1": 1, "r2": 2, "r3": 9}); !errors.Is(err, ErrIncompleteRankUpdate) {
		t.Fatalf("expected out-of-range rank error, got %v", err)
	}
}

func TestPreferredOrder(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 3, 4, 20, 0, 0, 0, time.UTC)
	entries := []Entry{
		{ID: "r1", CastawayID: "c-z", DraftRank: 2, DraftedAt: base},
		{ID: "r2", CastawayID: "c-a", DraftRank: 1, DraftedAt: base.Add(time.Hour)},
		{ID: "r3", CastawayID: "c-b", DraftRank: 2, DraftedAt: base.Add(-time.Hour)},
		{ID: "r4", CastawayID: "c-c", DraftRank: 2, DraftedAt: base},
	}

	ordered := PreferredOrder(entries)

	wantIDs := []string{"r2", "r3", "r4", "r1"}
	for i, want := range wantIDs {
		if ordered[i].ID != want {
			t.Fatalf("position %d: got %s, want %s", i, ordered[i].ID, want)
		}
	}

	// Input order must not influence the result.
	reversed := []Entry{entries[3], entries[2], entries[1], entries[0]}
	again := PreferredOrder(reversed)
	for i, want := range wantIDs {
		if again[i].ID != want {
			t.Fatalf("reversed input, position %d: got %s, want %s", i, again[i].ID, want)
		}
	}
}
