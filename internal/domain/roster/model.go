package roster

import (
	"fmt"
	"time"
)

// Entry is one castaway held by a league member. A drop is terminal: the row
// keeps its DroppedAt and re-acquiring the castaway creates a fresh entry.
type Entry struct {
	ID         string
	LeagueID   string
	UserID     string
	CastawayID string
	DraftRank  int
	DraftedAt  time.Time
	DroppedAt  *time.Time
}

func (e Entry) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("roster entry id is required")
	}
	if e.LeagueID == "" {
		return fmt.Errorf("roster entry league id is required")
	}
	if e.UserID == "" {
		return fmt.Errorf("roster entry user id is required")
	}
	if e.CastawayID == "" {
		return fmt.Errorf("roster entry castaway id is required")
	}
	if e.DraftRank < 1 {
		return fmt.Errorf("roster entry draft rank must be positive")
	}
	if e.DraftedAt.IsZero() {
		return fmt.Errorf("roster entry drafted time is required")
	}

	return nil
}

// Active reports whether the entry is currently held.
func (e Entry) Active() bool {
	return e.DroppedAt == nil
}
