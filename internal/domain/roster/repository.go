package roster

import (
	"context"
	"time"
)

// Repository describes roster persistence needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, entryID string) (Entry, bool, error)
	ListActiveByMember(ctx context.Context, leagueID, userID string) ([]Entry, error)
	ListByMember(ctx context.Context, leagueID, userID string) ([]Entry, error)
	Insert(ctx context.Context, e Entry) error
	Drop(ctx context.Context, entryID string, droppedAt time.Time) error
	UpdateRanks(ctx context.Context, leagueID, userID string, rankByEntryID map[string]int) error
}
