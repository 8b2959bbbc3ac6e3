package jobscheduler

import "time"

type DispatchStatus string

const (
	StatusSent      DispatchStatus = "sent"
	StatusCompleted DispatchStatus = "completed"
	StatusFailed    DispatchStatus = "failed"
)

// DispatchEvent is the audit trail of one queued job dispatch. DedupKey
// mirrors the queue-side deduplication id so replays collapse onto one row.
type DispatchEvent struct {
	DispatchID   string
	TaskName     string
	TaskPath     string
	SeasonID     string
	EpisodeID    string
	DedupKey     string
	Status       DispatchStatus
	Payload      map[string]any
	ErrorMessage string
	OccurredAt   time.Time
	TraceID      string
	SpanID       string
}
