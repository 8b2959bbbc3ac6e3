package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/riskibarqy/fantasy-survivor/internal/usecase"
)

var internalJobDispatchUnsafeRegex = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

func (h *Handler) RunLockPicksJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunLockPicksJob")
	defer span.End()

	episodeID := strings.TrimSpace(r.PathValue("episodeID"))
	var req internalJobRequest
	if err := decodeOptionalJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.pickLockService.Run(ctx, episodeID)
	h.markJobDispatch(ctx, "lock-picks", episodeID, req.DispatchID, err)
	if err != nil {
		h.logger.WarnContext(ctx, "run lock picks job failed", "episode_id", episodeID, "dispatch_id", req.DispatchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	// Per-member failures ride inside the result; the run itself succeeded.
	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) RunRefreshStandingsJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunRefreshStandingsJob")
	defer span.End()

	episodeID := strings.TrimSpace(r.PathValue("episodeID"))
	var req internalJobRequest
	if err := decodeOptionalJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.refreshStandingsForEpisode(ctx, episodeID)
	h.markJobDispatch(ctx, "refresh-standings", episodeID, req.DispatchID, err)
	if err != nil {
		h.logger.WarnContext(ctx, "run refresh standings job failed", "episode_id", episodeID, "dispatch_id", req.DispatchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) refreshStandingsForEpisode(ctx context.Context, episodeID string) (usecase.RecomputeSeasonResult, error) {
	ep, err := h.episodeService.GetByID(ctx, episodeID)
	if err != nil {
		return usecase.RecomputeSeasonResult{}, err
	}

	return h.standingsService.RecomputeSeason(ctx, ep.SeasonID)
}

func (h *Handler) RunOrchestrateJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunOrchestrateJob")
	defer span.End()

	if h.jobOrchestrator == nil {
		writeError(ctx, w, fmt.Errorf("%w: job orchestrator is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	var req internalJobRequest
	if err := decodeOptionalJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.jobOrchestrator.Run(ctx, usecase.OrchestrateInput{
		SeasonID: req.SeasonID,
		Force:    req.Force,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "run orchestrate job failed", "season_id", req.SeasonID, "force", req.Force, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

// markJobDispatch closes the audit loop for an internal job trigger. Calls
// without a dispatch id (cron schedules, curl) get a synthetic manual one so
// they still land in the trail.
func (h *Handler) markJobDispatch(ctx context.Context, task, episodeID, dispatchID string, runErr error) {
	if h.jobOrchestrator == nil {
		return
	}

	dispatchID = strings.TrimSpace(dispatchID)
	if dispatchID == "" {
		dispatchID = buildManualDispatchID(task, episodeID, time.Now())
	}

	h.jobOrchestrator.MarkDispatchCompleted(ctx, task, episodeID, dispatchID, runErr)
}

func buildManualDispatchID(task, subjectID string, now time.Time) string {
	task = sanitizeDispatchPart(task)
	subjectID = sanitizeDispatchPart(subjectID)
	ts := now.UTC().Format("20060102T150405.000000000Z")
	return "manual-" + task + "-" + subjectID + "-" + ts
}

func sanitizeDispatchPart(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "unknown"
	}
	return internalJobDispatchUnsafeRegex.ReplaceAllString(value, "-")
}
