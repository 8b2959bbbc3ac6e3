package scoringrule

import (
	"fmt"
	"strings"
)

// Category groups rules for display. Free-form values are rejected.
const (
	CategorySurvival  = "survival"
	CategoryChallenge = "challenge"
	CategoryAdvantage = "advantage"
	CategoryJury      = "jury"
	CategoryPenalty   = "penalty"
)

func NormalizeCategory(raw string) (string, bool) {
	category := strings.ToLower(strings.TrimSpace(raw))
	switch category {
	case CategorySurvival, CategoryChallenge, CategoryAdvantage, CategoryJury, CategoryPenalty:
		return category, true
	default:
		return "", false
	}
}

// Rule awards (or deducts) points when its event happens to a castaway.
// Code is unique among active rules of a season; deactivated rules keep their
// code so historical events stay attributable.
type Rule struct {
	ID        string
	SeasonID  string
	Code      string
	Name      string
	Category  string
	Points    int
	SortOrder int
	IsActive  bool
}

// IsNegative reports whether the rule deducts points. Negative-event counts
// in standings tie-breaks are derived from this.
func (r Rule) IsNegative() bool {
	return r.Points < 0
}

func (r Rule) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("rule id is required")
	}
	if r.SeasonID == "" {
		return fmt.Errorf("rule season id is required")
	}
	if strings.TrimSpace(r.Code) == "" {
		return fmt.Errorf("rule code is required")
	}
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("rule name is required")
	}
	if _, ok := NormalizeCategory(r.Category); !ok {
		return fmt.Errorf("rule category %q is invalid", r.Category)
	}
	if r.Points == 0 {
		return fmt.Errorf("rule points must be non-zero")
	}
	return nil
}

// NormalizeCode canonicalizes a rule code for uniqueness checks.
func NormalizeCode(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}
