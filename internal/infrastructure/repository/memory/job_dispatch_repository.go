package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/fantasy-survivor/internal/domain/jobscheduler"
)

type JobDispatchRepository struct {
	mu    sync.RWMutex
	items map[string]jobscheduler.DispatchEvent
}

func NewJobDispatchRepository() *JobDispatchRepository {
	return &JobDispatchRepository{items: make(map[string]jobscheduler.DispatchEvent)}
}

func (r *JobDispatchRepository) UpsertEvent(_ context.Context, event jobscheduler.DispatchEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := event.DedupKey
	if key == "" {
		key = event.DispatchID
	}
	r.items[dispatchKey(event.TaskName, key)] = cloneDispatchEvent(event)

	return nil
}

// Events returns recorded dispatches, for tests.
func (r *JobDispatchRepository) Events() []jobscheduler.DispatchEvent {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]jobscheduler.DispatchEvent, 0, len(r.items))
	for _, e := range r.items {
		out = append(out, cloneDispatchEvent(e))
	}

	return out
}

func dispatchKey(taskName, dedupKey string) string {
	return taskName + "::" + dedupKey
}

func cloneDispatchEvent(e jobscheduler.DispatchEvent) jobscheduler.DispatchEvent {
	copied := e
	if e.Payload != nil {
		payload := make(map[string]any, len(e.Payload))
		for k, v := range e.Payload {
			payload[k] = v
		}
		copied.Payload = payload
	}
	return copied
}
