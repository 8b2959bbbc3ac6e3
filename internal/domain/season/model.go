package season

import (
	"fmt"
	"time"
)

// Season is one run of the show; castaways, episodes, rules, and leagues all
// hang off it.
type Season struct {
	ID       string
	Name     string
	Number   int
	IsActive bool
	StartsAt time.Time
}

func (s Season) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("season id is required")
	}
	if s.Name == "" {
		return fmt.Errorf("season name is required")
	}
	if s.Number < 1 {
		return fmt.Errorf("season number must be positive")
	}

	return nil
}
