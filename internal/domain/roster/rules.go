package roster

import (
	"errors"
	"fmt"
	"sort"

	"github.com/riskibarqy/fantasy-survivor/internal/domain/castaway"
)

var (
	ErrRosterFull           = errors.New("roster size limit reached")
	ErrDuplicateCastaway    = errors.New("castaway already on roster")
	ErrCastawayNotPlayable  = errors.New("castaway is not playable")
	ErrCastawayWrongSeason  = errors.New("castaway belongs to another season")
	ErrEntryAlreadyDropped  = errors.New("roster entry already dropped")
	ErrIncompleteRankUpdate = errors.New("ranking must cover every active entry exactly once")
)

// Rules stores roster validation parameters.
type Rules struct {
	MaxEntries int
}

func DefaultRules() Rules {
	return Rules{MaxEntries: 6}
}

// ValidateDraft checks that the candidate castaway may join the member's
// roster: playable, from the league's season, not already held, and within
// the size limit. active must contain only non-dropped entries.
func ValidateDraft(active []Entry, candidate castaway.Castaway, leagueSeasonID string, rules Rules) error {
	if !candidate.Status.Playable() {
		return fmt.Errorf("%w: castaway=%s status=%s", ErrCastawayNotPlayable, candidate.ID, candidate.Status)
	}
	if candidate.SeasonID != leagueSeasonID {
		return fmt.Errorf("%w: castaway=%s season=%s league_season=%s", ErrCastawayWrongSeason, candidate.ID, candidate.SeasonID, leagueSeasonID)
	}
	if rules.MaxEntries > 0 && len(active) >= rules.MaxEntries {
		return fmt.Errorf("%w: max=%d", ErrRosterFull, rules.MaxEntries)
	}
	for _, entry := range active {
		if entry.CastawayID == candidate.ID {
			return fmt.Errorf("%w: castaway=%s", ErrDuplicateCastaway, candidate.ID)
		}
	}

	return nil
}

// ValidateRanking checks that rankByEntryID assigns ranks 1..n across exactly
// the active entries.
func ValidateRanking(active []Entry, rankByEntryID map[string]int) error {
	if len(rankByEntryID) != len(active) {
		return fmt.Errorf("%w: got %d ranks for %d entries", ErrIncompleteRankUpdate, len(rankByEntryID), len(active))
	}

	seen := make(map[int]struct{}, len(rankByEntryID))
	for _, entry := range active {
		rank, ok := rankByEntryID[entry.ID]
		if !ok {
			return fmt.Errorf("%w: entry=%s has no rank", ErrIncompleteRankUpdate, entry.ID)
		}
		if rank < 1 || rank > len(active) {
			return fmt.Errorf("%w: entry=%s rank=%d out of range", ErrIncompleteRankUpdate, entry.ID, rank)
		}
		if _, dup := seen[rank]; dup {
			return fmt.Errorf("%w: rank=%d assigned twice", ErrIncompleteRankUpdate, rank)
		}
		seen[rank] = struct{}{}
	}

	return nil
}

// PreferredOrder sorts entries by the member's explicit draft ranking, then by
// draft time, then by castaway id. The order is total, so repeated runs over
// the same roster always agree.
func PreferredOrder(entries []Entry) []Entry {
	ordered := append([]Entry(nil), entries...)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].DraftRank != ordered[j].DraftRank {
			return ordered[i].DraftRank < ordered[j].DraftRank
		}
		if !ordered[i].DraftedAt.Equal(ordered[j].DraftedAt) {
			return ordered[i].DraftedAt.Before(ordered[j].DraftedAt)
		}
		return ordered[i].CastawayID < ordered[j].CastawayID
	})
	return ordered
}
