package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/fantasy-survivor/internal/domain/jobscheduler"
	"github.com/riskibarqy/fantasy-survivor/internal/infrastructure/repository/memory"
)

func TestDedupKey_UsesQStashSafeFormat(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, time.February, 25, 4, 25, 42, 0, time.UTC)
	got := dedupKey("lock-picks", "s49:ember island/e01", at, 5*time.Minute)

	if strings.Contains(got, ":") {
		t.Fatalf("dedup key must not contain colon, got=%q", got)
	}

	want := "lock-picks-s49-ember-island-e01-20260225T042500Z"
	if got != want {
		t.Fatalf("unexpected dedup key: got=%q want=%q", got, want)
	}
}

func TestSanitizeDedupSegment_EmptyFallback(t *testing.T) {
	t.Parallel()

	if got := sanitizeDedupSegment(" \t "); got != "unknown" {
		t.Fatalf("unexpected sanitize fallback: got=%q want=%q", got, "unknown")
	}
}

type queuedJob struct {
	path    string
	delay   time.Duration
	dedupID string
}

type recordingJobQueue struct {
	mu       sync.Mutex
	jobs     []queuedJob
	failPath string
}

func (q *recordingJobQueue) Enqueue(_ context.Context, path string, _ any, delay time.Duration, dedupID string) error {
	if q.failPath != "" && strings.Contains(path, q.failPath) {
		return errors.New("queue unavailable")
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs = append(q.jobs, queuedJob{path: path, delay: delay, dedupID: dedupID})
	return nil
}

type orchestratorFixture struct {
	svc          *JobOrchestratorService
	queue        *recordingJobQueue
	episodeRepo  *memory.EpisodeRepository
	dispatchRepo *memory.JobDispatchRepository

	firstAirsAt      time.Time
	firstPicksLockAt time.Time
	firstEpisodeID   string
}

func newOrchestratorFixture(t *testing.T) *orchestratorFixture {
	t.Helper()

	f := &orchestratorFixture{
		queue:        &recordingJobQueue{},
		episodeRepo:  memory.NewEpisodeRepository(memory.SeedEpisodes()),
		dispatchRepo: memory.NewJobDispatchRepository(),
	}
	f.svc = NewJobOrchestratorService(
		memory.NewSeasonRepository(memory.SeedSeasons()),
		f.episodeRepo,
		f.queue,
		f.dispatchRepo,
		JobOrchestratorConfig{},
		nil,
	)

	episodes, err := f.episodeRepo.ListBySeason(context.Background(), memory.SeasonIDEmberIsland)
	if err != nil || len(episodes) == 0 {
		t.Fatalf("seeded episodes missing: %v", err)
	}
	f.firstEpisodeID = episodes[0].ID
	f.firstAirsAt = episodes[0].AirsAt
	f.firstPicksLockAt = episodes[0].PicksLockAt

	// Two hours before the first deadline; later episodes sit past the horizon.
	now := f.firstPicksLockAt.Add(-2 * time.Hour)
	f.svc.now = func() time.Time { return now }
	return f
}

func TestJobOrchestratorService_Run_SchedulesDeadlineWork(t *testing.T) {
	f := newOrchestratorFixture(t)

	result, err := f.svc.Run(t.Context(), OrchestrateInput{})
	if err != nil {
		t.Fatalf("orchestrate failed: %v", err)
	}
	if result.SeasonCount != 1 || result.EpisodeCount != 1 || result.QueuedCount != 3 {
		t.Fatalf("unexpected result: %+v", result)
	}

	if len(f.queue.jobs) != 3 {
		t.Fatalf("expected 3 queued jobs, got %d", len(f.queue.jobs))
	}
	lock, sweep, standings := f.queue.jobs[0], f.queue.jobs[1], f.queue.jobs[2]

	wantPath := "/v1/internal/jobs/episodes/" + f.firstEpisodeID + "/lock-picks"
	if lock.path != wantPath || sweep.path != wantPath {
		t.Fatalf("lock jobs should target %s, got %q and %q", wantPath, lock.path, sweep.path)
	}
	if !strings.HasSuffix(standings.path, "/refresh-standings") {
		t.Fatalf("unexpected standings path: %q", standings.path)
	}

	if lock.delay != 2*time.Hour {
		t.Fatalf("lock should fire at the deadline, delay=%s", lock.delay)
	}
	if sweep.delay != 2*time.Hour+10*time.Minute {
		t.Fatalf("sweep should trail the deadline, delay=%s", sweep.delay)
	}
	wantStandingsDelay := f.firstAirsAt.Add(12 * time.Hour).Sub(f.svc.now())
	if standings.delay != wantStandingsDelay {
		t.Fatalf("standings refresh delay: got %s want %s", standings.delay, wantStandingsDelay)
	}

	// Keys bucket on the target minute, so overlapping cron runs collapse.
	wantDedup := "lock-picks-" + f.firstEpisodeID + "-" + f.firstPicksLockAt.UTC().Truncate(time.Minute).Format("20060102T150405Z")
	if lock.dedupID != wantDedup {
		t.Fatalf("unexpected dedup key: got %q want %q", lock.dedupID, wantDedup)
	}
	if sweep.dedupID == lock.dedupID {
		t.Fatalf("sweep must not dedup against the first lock run")
	}

	for _, op := range []string{
		"lock-picks:" + f.firstEpisodeID,
		"lock-picks-sweep:" + f.firstEpisodeID,
		"refresh-standings:" + f.firstEpisodeID,
	} {
		var found bool
		for _, queued := range result.QueuedOperations {
			if queued == op {
				found = true
			}
		}
		if !found {
			t.Fatalf("missing operation %q in %v", op, result.QueuedOperations)
		}
	}

	events := f.dispatchRepo.Events()
	if len(events) != 3 {
		t.Fatalf("every dispatch should be recorded, got %d", len(events))
	}
	for _, event := range events {
		if event.Status != jobscheduler.StatusSent {
			t.Fatalf("unexpected dispatch status: %+v", event)
		}
		if event.EpisodeID != f.firstEpisodeID || event.SeasonID != memory.SeasonIDEmberIsland {
			t.Fatalf("dispatch lost its subject: %+v", event)
		}
	}
}

func TestJobOrchestratorService_Run_ForceCoversWholeSeason(t *testing.T) {
	f := newOrchestratorFixture(t)

	result, err := f.svc.Run(t.Context(), OrchestrateInput{SeasonID: memory.SeasonIDEmberIsland, Force: true})
	if err != nil {
		t.Fatalf("orchestrate failed: %v", err)
	}
	if result.EpisodeCount != 13 || result.QueuedCount != 39 {
		t.Fatalf("force should cover all 13 episodes: %+v", result)
	}
}

func TestJobOrchestratorService_Run_SkipsFinalEpisodes(t *testing.T) {
	f := newOrchestratorFixture(t)

	if err := f.episodeRepo.MarkFinal(t.Context(), f.firstEpisodeID); err != nil {
		t.Fatalf("mark final: %v", err)
	}

	result, err := f.svc.Run(t.Context(), OrchestrateInput{})
	if err != nil {
		t.Fatalf("orchestrate failed: %v", err)
	}
	if result.EpisodeCount != 0 || result.QueuedCount != 0 {
		t.Fatalf("finalized episodes need no jobs: %+v", result)
	}
}

func TestJobOrchestratorService_Run_ClampsPastDeadlines(t *testing.T) {
	f := newOrchestratorFixture(t)
	now := f.firstPicksLockAt.Add(time.Hour)
	f.svc.now = func() time.Time { return now }

	if _, err := f.svc.Run(t.Context(), OrchestrateInput{}); err != nil {
		t.Fatalf("orchestrate failed: %v", err)
	}
	if len(f.queue.jobs) == 0 {
		t.Fatalf("missed deadlines still need a lock pass")
	}
	for _, job := range f.queue.jobs {
		if job.delay < 0 {
			t.Fatalf("delays never go negative: %+v", job)
		}
	}
	if f.queue.jobs[0].delay != 0 {
		t.Fatalf("a missed deadline should fire immediately, delay=%s", f.queue.jobs[0].delay)
	}
}

func TestJobOrchestratorService_Run_QueueFailureIsRecorded(t *testing.T) {
	f := newOrchestratorFixture(t)
	f.queue.failPath = "refresh-standings"

	if _, err := f.svc.Run(t.Context(), OrchestrateInput{}); err == nil {
		t.Fatalf("expected the queue failure to surface")
	}

	var failed int
	for _, event := range f.dispatchRepo.Events() {
		if event.Status == jobscheduler.StatusFailed {
			failed++
			if event.ErrorMessage == "" {
				t.Fatalf("failed dispatch should keep the error: %+v", event)
			}
		}
	}
	if failed != 1 {
		t.Fatalf("expected exactly one failed dispatch, got %d", failed)
	}
}

func TestJobOrchestratorService_Run_UnknownSeason(t *testing.T) {
	f := newOrchestratorFixture(t)

	if _, err := f.svc.Run(t.Context(), OrchestrateInput{SeasonID: "season-missing"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestJobOrchestratorService_MarkDispatchCompleted(t *testing.T) {
	f := newOrchestratorFixture(t)

	if _, err := f.svc.Run(t.Context(), OrchestrateInput{}); err != nil {
		t.Fatalf("orchestrate failed: %v", err)
	}
	sent := f.dispatchRepo.Events()[0]

	f.svc.MarkDispatchCompleted(t.Context(), sent.TaskName, sent.EpisodeID, sent.DispatchID, nil)
	var seen bool
	for _, event := range f.dispatchRepo.Events() {
		if event.DispatchID == sent.DispatchID && event.TaskName == sent.TaskName {
			seen = true
			if event.Status != jobscheduler.StatusCompleted {
				t.Fatalf("completion should replace the sent row: %+v", event)
			}
		}
	}
	if !seen {
		t.Fatalf("dispatch row disappeared")
	}

	f.svc.MarkDispatchCompleted(t.Context(), sent.TaskName, sent.EpisodeID, sent.DispatchID, errors.New("lock pass crashed"))
	for _, event := range f.dispatchRepo.Events() {
		if event.DispatchID == sent.DispatchID && event.TaskName == sent.TaskName {
			if event.Status != jobscheduler.StatusFailed || event.ErrorMessage == "" {
				t.Fatalf("handler errors should land on the row: %+v", event)
			}
		}
	}
}
