package scoringrule

import (
	"context"
	"errors"
)

// ErrDuplicateCode is returned by Insert when another active rule of the
// season already uses the code.
var ErrDuplicateCode = errors.New("rule code already in use for season")

// Repository stores scoring rules. GetActiveByCode only matches active rules;
// deactivated rules remain reachable by ID for historical events.
type Repository interface {
	GetByID(ctx context.Context, id string) (Rule, bool, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]Rule, error)
	GetActiveByCode(ctx context.Context, seasonID, code string) (Rule, bool, error)
	ListActiveBySeason(ctx context.Context, seasonID, category string) ([]Rule, error)
	Insert(ctx context.Context, r Rule) error
	Update(ctx context.Context, r Rule) error
}
