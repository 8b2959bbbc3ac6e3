package standing

import "context"

// Repository stores computed league tables. ReplaceByLeague swaps the whole
// table in one call so readers never see a partially updated ranking.
type Repository interface {
	ListByLeague(ctx context.Context, leagueID string) ([]Standing, error)
	ReplaceByLeague(ctx context.Context, leagueID string, rows []Standing) error
}
