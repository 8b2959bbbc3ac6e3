package scoringevent

import (
	"fmt"
	"time"
)

// Event records that a scoring rule applied to a castaway during an episode.
// RulePoints is copied from the rule at record time, so later rule edits never
// change history. Quantity is the only way an event repeats: at most one row
// exists per (episode, castaway, rule).
type Event struct {
	ID         string
	EpisodeID  string
	CastawayID string
	RuleID     string
	RuleCode   string
	Quantity   int
	RulePoints int
	RecordedBy string
	CreatedAt  time.Time
}

// Total is the points contribution of this event.
func (e Event) Total() int {
	return e.RulePoints * e.Quantity
}

func (e Event) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("event id is required")
	}
	if e.EpisodeID == "" {
		return fmt.Errorf("event episode id is required")
	}
	if e.CastawayID == "" {
		return fmt.Errorf("event castaway id is required")
	}
	if e.RuleID == "" {
		return fmt.Errorf("event rule id is required")
	}
	if e.Quantity <= 0 {
		return fmt.Errorf("event quantity must be greater than zero")
	}
	if e.RulePoints == 0 {
		return fmt.Errorf("event rule points must be non-zero")
	}
	return nil
}
