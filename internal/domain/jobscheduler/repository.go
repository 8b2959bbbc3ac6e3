package jobscheduler

import "context"

// Repository records the dispatch audit trail. Upserts collapse on the
// (task, dedup key) pair, so re-running orchestration for an episode
// deadline updates the existing row instead of adding a duplicate.
type Repository interface {
	UpsertEvent(ctx context.Context, event DispatchEvent) error
}
