package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/riskibarqy/fantasy-survivor/internal/usecase"
)

func (h *Handler) GetEpisodeScores(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetEpisodeScores")
	defer span.End()

	episodeID := strings.TrimSpace(r.PathValue("episodeID"))
	totals, err := h.scoringService.EpisodeTotals(ctx, episodeID)
	if err != nil {
		h.logger.WarnContext(ctx, "get episode scores failed", "episode_id", episodeID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, totals)
}

func (h *Handler) CastawayLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CastawayLeaderboard")
	defer span.End()

	seasonID := strings.TrimSpace(r.PathValue("seasonID"))

	limit := 0
	rawLimit := strings.TrimSpace(r.URL.Query().Get("limit"))
	if rawLimit != "" {
		value, err := strconv.Atoi(rawLimit)
		if err != nil || value <= 0 {
			writeError(ctx, w, fmt.Errorf("%w: limit must be a positive integer", usecase.ErrInvalidInput))
			return
		}
		limit = value
	}

	rows, err := h.scoringService.CastawayLeaderboard(ctx, seasonID, limit)
	if err != nil {
		h.logger.WarnContext(ctx, "castaway leaderboard failed", "season_id", seasonID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rows)
}

func (h *Handler) RecordEpisodeEvents(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecordEpisodeEvents")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	episodeID := strings.TrimSpace(r.PathValue("episodeID"))
	var req recordEventsRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	entries := make([]usecase.RecordEventEntry, 0, len(req.Entries))
	for _, entry := range req.Entries {
		entries = append(entries, usecase.RecordEventEntry{
			CastawayID: entry.CastawayID,
			RuleCode:   entry.RuleCode,
			Quantity:   entry.Quantity,
		})
	}

	result, err := h.scoringService.RecordEvents(ctx, usecase.RecordEventsInput{
		EpisodeID:  episodeID,
		RecordedBy: principal.UserID,
		Entries:    entries,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "record episode events failed", "episode_id", episodeID, "recorded_by", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) FinalizeEpisode(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.FinalizeEpisode")
	defer span.End()

	episodeID := strings.TrimSpace(r.PathValue("episodeID"))
	result, err := h.scoringService.FinalizeEpisode(ctx, episodeID)
	if err != nil {
		h.logger.WarnContext(ctx, "finalize episode failed", "episode_id", episodeID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}
