package episode

import (
	"fmt"
	"time"
)

// Episode is one aired installment of a season. PicksLockAt is the submission
// deadline and never falls after air time.
type Episode struct {
	ID          string
	SeasonID    string
	Number      int
	Title       string
	AirsAt      time.Time
	PicksLockAt time.Time
	IsFinal     bool
}

func (e Episode) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("episode id is required")
	}
	if e.SeasonID == "" {
		return fmt.Errorf("episode season id is required")
	}
	if e.Number < 1 {
		return fmt.Errorf("episode number must be positive")
	}
	if e.AirsAt.IsZero() {
		return fmt.Errorf("episode air time is required")
	}
	if e.PicksLockAt.IsZero() {
		return fmt.Errorf("episode picks lock time is required")
	}
	if e.PicksLockAt.After(e.AirsAt) {
		return fmt.Errorf("picks lock time must not be after air time")
	}

	return nil
}

// PicksOpen reports whether submissions are still accepted at the given time.
func (e Episode) PicksOpen(at time.Time) bool {
	return at.Before(e.PicksLockAt)
}
