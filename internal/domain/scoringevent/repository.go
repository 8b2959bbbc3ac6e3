package scoringevent

import "context"

// Repository stores scoring events. Upsert replaces the row matching the
// event's (episode, castaway, rule) tuple when one exists.
type Repository interface {
	ListByEpisode(ctx context.Context, episodeID string) ([]Event, error)
	ListByEpisodes(ctx context.Context, episodeIDs []string) ([]Event, error)
	ListByCastaway(ctx context.Context, castawayID string) ([]Event, error)
	Upsert(ctx context.Context, e Event) error
	DeleteByEpisodeAndTuple(ctx context.Context, episodeID, castawayID, ruleID string) error
}
