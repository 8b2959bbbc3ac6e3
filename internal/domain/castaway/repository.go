package castaway

import "context"

// Repository describes castaway persistence needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, castawayID string) (Castaway, bool, error)
	GetByIDs(ctx context.Context, castawayIDs []string) ([]Castaway, error)
	ListBySeason(ctx context.Context, seasonID string) ([]Castaway, error)
	Insert(ctx context.Context, c Castaway) error
	UpdateStatus(ctx context.Context, castawayID string, status Status) error
}
