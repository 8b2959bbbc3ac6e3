package episode

import "context"

// Repository describes episode persistence needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, episodeID string) (Episode, bool, error)
	ListBySeason(ctx context.Context, seasonID string) ([]Episode, error)
	Insert(ctx context.Context, e Episode) error
	MarkFinal(ctx context.Context, episodeID string) error
}
