package pick

import (
	"context"
	"errors"
)

// ErrDuplicate is returned by Insert when a pick already exists for the same
// (league, user, episode).
var ErrDuplicate = errors.New("weekly pick already exists for member and episode")

// Repository stores weekly picks. Insert fails with ErrDuplicate when a row
// already exists for the same (league, user, episode); Update replaces an
// existing row by ID.
type Repository interface {
	GetByID(ctx context.Context, id string) (WeeklyPick, bool, error)
	GetByMemberAndEpisode(ctx context.Context, leagueID, userID, episodeID string) (WeeklyPick, bool, error)
	ListByLeagueAndEpisode(ctx context.Context, leagueID, episodeID string) ([]WeeklyPick, error)
	ListByEpisode(ctx context.Context, episodeID string) ([]WeeklyPick, error)
	ListByMember(ctx context.Context, leagueID, userID string) ([]WeeklyPick, error)
	ListScorableByLeague(ctx context.Context, leagueID string) ([]WeeklyPick, error)
	Insert(ctx context.Context, p WeeklyPick) error
	Update(ctx context.Context, p WeeklyPick) error
}
