package castaway

import "fmt"

// Status is the castaway lifecycle. It only ever moves forward: an active
// castaway becomes eliminated or winner, and neither terminal state reverts.
type Status string

const (
	StatusActive     Status = "active"
	StatusEliminated Status = "eliminated"
	StatusWinner     Status = "winner"
)

func NormalizeStatus(raw string) (Status, bool) {
	switch Status(raw) {
	case StatusActive:
		return StatusActive, true
	case StatusEliminated:
		return StatusEliminated, true
	case StatusWinner:
		return StatusWinner, true
	default:
		return "", false
	}
}

// CanBecome reports whether the transition to next is allowed.
func (s Status) CanBecome(next Status) bool {
	if s == next {
		return false
	}
	switch s {
	case StatusActive:
		return next == StatusEliminated || next == StatusWinner
	default:
		return false
	}
}

// Playable reports whether the castaway may be drafted or picked.
func (s Status) Playable() bool {
	return s == StatusActive
}

// Castaway is a show contestant within one season.
type Castaway struct {
	ID       string
	SeasonID string
	Name     string
	Tribe    string
	Status   Status
}

func (c Castaway) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("castaway id is required")
	}
	if c.SeasonID == "" {
		return fmt.Errorf("castaway season id is required")
	}
	if c.Name == "" {
		return fmt.Errorf("castaway name is required")
	}
	if _, ok := NormalizeStatus(string(c.Status)); !ok {
		return fmt.Errorf("castaway status %q is invalid", c.Status)
	}

	return nil
}
