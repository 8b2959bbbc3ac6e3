package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/riskibarqy/fantasy-survivor/internal/domain/episode"
	"github.com/riskibarqy/fantasy-survivor/internal/domain/jobscheduler"
	"github.com/riskibarqy/fantasy-survivor/internal/domain/season"
	"github.com/riskibarqy/fantasy-survivor/internal/platform/logging"
)

type JobQueue interface {
	Enqueue(ctx context.Context, path string, payload any, delay time.Duration, deduplicationID string) error
}

type noopJobQueue struct{}

func (noopJobQueue) Enqueue(_ context.Context, _ string, _ any, _ time.Duration, _ string) error {
	return nil
}

func NewNoopJobQueue() JobQueue {
	return noopJobQueue{}
}

type JobOrchestratorConfig struct {
	// Horizon bounds how far ahead lock jobs are scheduled.
	Horizon time.Duration
	// SweepDelay re-runs the lock pass after the deadline to catch members a
	// failed first pass left behind.
	SweepDelay time.Duration
	// StandingsDelay runs the standings refresh after the episode airs.
	StandingsDelay time.Duration
}

type OrchestrateInput struct {
	SeasonID string
	Force    bool
}

type OrchestrateResult struct {
	SeasonCount      int      `json:"season_count"`
	EpisodeCount     int      `json:"episode_count"`
	QueuedCount      int      `json:"queued_count"`
	QueuedOperations []string `json:"queued_operations"`
}

const (
	jobLockPicks        = "lock-picks"
	jobRefreshStandings = "refresh-standings"
)

type JobOrchestratorService struct {
	seasonRepo   season.Repository
	episodeRepo  episode.Repository
	queue        JobQueue
	dispatchRepo jobscheduler.Repository
	cfg          JobOrchestratorConfig
	logger       *logging.Logger
	now          func() time.Time
}

var dedupUnsafeCharRegex = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

func NewJobOrchestratorService(
	seasonRepo season.Repository,
	episodeRepo episode.Repository,
	queue JobQueue,
	dispatchRepo jobscheduler.Repository,
	cfg JobOrchestratorConfig,
	logger *logging.Logger,
) *JobOrchestratorService {
	if queue == nil {
		queue = NewNoopJobQueue()
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Horizon <= 0 {
		cfg.Horizon = 7 * 24 * time.Hour
	}
	if cfg.SweepDelay <= 0 {
		cfg.SweepDelay = 10 * time.Minute
	}
	if cfg.StandingsDelay <= 0 {
		cfg.StandingsDelay = 12 * time.Hour
	}

	return &JobOrchestratorService{
		seasonRepo:   seasonRepo,
		episodeRepo:  episodeRepo,
		queue:        queue,
		dispatchRepo: dispatchRepo,
		cfg:          cfg,
		logger:       logger,
		now:          time.Now,
	}
}

// Run schedules the deadline work for every episode inside the horizon: the
// lock pass at the pick deadline, a sweep re-run shortly after, and a
// standings refresh once the episode has aired. Dedup keys are bucketed on
// the target times, so an external cron may call this as often as it likes.
func (s *JobOrchestratorService) Run(ctx context.Context, input OrchestrateInput) (OrchestrateResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.JobOrchestratorService.Run")
	defer span.End()

	seasons, err := s.pickSeasons(ctx, input.SeasonID)
	if err != nil {
		return OrchestrateResult{}, err
	}

	now := s.now().UTC()
	result := OrchestrateResult{
		SeasonCount:      len(seasons),
		QueuedOperations: make([]string, 0),
	}

	for _, item := range seasons {
		episodes, err := s.episodeRepo.ListBySeason(ctx, item.ID)
		if err != nil {
			return OrchestrateResult{}, fmt.Errorf("list episodes for season=%s: %w", item.ID, err)
		}

		for _, ep := range episodes {
			if ep.IsFinal {
				continue
			}
			lockDelay := ep.PicksLockAt.Sub(now)
			if !input.Force && lockDelay > s.cfg.Horizon {
				continue
			}
			if lockDelay < 0 {
				lockDelay = 0
			}
			result.EpisodeCount++

			if err := s.enqueueEpisodeJob(ctx, jobLockPicks, ep, lockDelay, now); err != nil {
				return OrchestrateResult{}, err
			}
			result.QueuedCount++
			result.QueuedOperations = append(result.QueuedOperations, jobLockPicks+":"+ep.ID)

			if err := s.enqueueEpisodeJob(ctx, jobLockPicks, ep, lockDelay+s.cfg.SweepDelay, now); err != nil {
				return OrchestrateResult{}, err
			}
			result.QueuedCount++
			result.QueuedOperations = append(result.QueuedOperations, jobLockPicks+"-sweep:"+ep.ID)

			standingsDelay := ep.AirsAt.Add(s.cfg.StandingsDelay).Sub(now)
			if standingsDelay < 0 {
				standingsDelay = 0
			}
			if err := s.enqueueEpisodeJob(ctx, jobRefreshStandings, ep, standingsDelay, now); err != nil {
				return OrchestrateResult{}, err
			}
			result.QueuedCount++
			result.QueuedOperations = append(result.QueuedOperations, jobRefreshStandings+":"+ep.ID)
		}
	}

	s.logger.InfoContext(ctx, "orchestrated deadline jobs",
		"seasons", result.SeasonCount,
		"episodes", result.EpisodeCount,
		"queued", result.QueuedCount,
	)

	return result, nil
}

func (s *JobOrchestratorService) pickSeasons(ctx context.Context, seasonID string) ([]season.Season, error) {
	seasonID = strings.TrimSpace(seasonID)
	if seasonID != "" {
		item, exists, err := s.seasonRepo.GetByID(ctx, seasonID)
		if err != nil {
			return nil, fmt.Errorf("get season for jobs: %w", err)
		}
		if !exists {
			return nil, fmt.Errorf("%w: season=%s", ErrNotFound, seasonID)
		}
		return []season.Season{item}, nil
	}

	items, err := s.seasonRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list seasons for jobs: %w", err)
	}
	active := make([]season.Season, 0, len(items))
	for _, item := range items {
		if item.IsActive {
			active = append(active, item)
		}
	}

	return active, nil
}

func (s *JobOrchestratorService) enqueueEpisodeJob(ctx context.Context, task string, ep episode.Episode, delay time.Duration, now time.Time) error {
	path := "/v1/internal/jobs/episodes/" + ep.ID + "/" + task
	dedupID := dedupKey(task, ep.ID, now.Add(delay), time.Minute)
	payload := map[string]any{
		"episode_id":  ep.ID,
		"season_id":   ep.SeasonID,
		"dispatch_id": dedupID,
	}

	event := jobscheduler.DispatchEvent{
		DispatchID: dedupID,
		TaskName:   task,
		TaskPath:   path,
		SeasonID:   ep.SeasonID,
		EpisodeID:  ep.ID,
		DedupKey:   dedupID,
		Payload:    payload,
		OccurredAt: now.UTC(),
	}

	if err := s.queue.Enqueue(ctx, path, payload, delay, dedupID); err != nil {
		event.Status = jobscheduler.StatusFailed
		event.ErrorMessage = err.Error()
		s.recordDispatchEvent(ctx, event)
		return fmt.Errorf("enqueue %s episode=%s: %w", task, ep.ID, err)
	}

	event.Status = jobscheduler.StatusSent
	s.recordDispatchEvent(ctx, event)
	return nil
}

// MarkDispatchCompleted records that an internal job handler finished the
// dispatched work; failures keep the error for the audit trail.
func (s *JobOrchestratorService) MarkDispatchCompleted(ctx context.Context, task, episodeID, dispatchID string, runErr error) {
	event := jobscheduler.DispatchEvent{
		DispatchID: strings.TrimSpace(dispatchID),
		TaskName:   task,
		EpisodeID:  episodeID,
		DedupKey:   strings.TrimSpace(dispatchID),
		Status:     jobscheduler.StatusCompleted,
		OccurredAt: s.now().UTC(),
	}
	if runErr != nil {
		event.Status = jobscheduler.StatusFailed
		event.ErrorMessage = runErr.Error()
	}
	s.recordDispatchEvent(ctx, event)
}

func dedupKey(prefix, subjectID string, at time.Time, bucket time.Duration) string {
	if bucket <= 0 {
		bucket = time.Minute
	}
	slot := at.UTC().Truncate(bucket).Format("20060102T150405Z")
	prefix = sanitizeDedupSegment(prefix)
	subjectID = sanitizeDedupSegment(subjectID)
	return prefix + "-" + subjectID + "-" + slot
}

func sanitizeDedupSegment(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "unknown"
	}
	return dedupUnsafeCharRegex.ReplaceAllString(value, "-")
}

func (s *JobOrchestratorService) recordDispatchEvent(ctx context.Context, event jobscheduler.DispatchEvent) {
	if s.dispatchRepo == nil || strings.TrimSpace(event.DispatchID) == "" {
		return
	}
	traceID, spanID := traceMetaFromContext(ctx)
	event.TraceID = traceID
	event.SpanID = spanID
	if event.OccurredAt.IsZero() {
		event.OccurredAt = s.now().UTC()
	}
	if err := s.dispatchRepo.UpsertEvent(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "record job dispatch event failed",
			"dispatch_id", event.DispatchID,
			"status", event.Status,
			"error", err,
		)
	}
}

func traceMetaFromContext(ctx context.Context) (string, string) {
	spanContext := trace.SpanFromContext(ctx).SpanContext()
	if !spanContext.IsValid() {
		return "", ""
	}
	return spanContext.TraceID().String(), spanContext.SpanID().String()
}
