package httpapi

import (
	"net/http"
	"strings"

	"github.com/riskibarqy/fantasy-survivor/internal/usecase"
)

func (h *Handler) ListSeasons(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSeasons")
	defer span.End()

	seasons, err := h.seasonService.List(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list seasons failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]seasonDTO, 0, len(seasons))
	for _, item := range seasons {
		items = append(items, seasonToDTO(ctx, item))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListEpisodesBySeason(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListEpisodesBySeason")
	defer span.End()

	seasonID := strings.TrimSpace(r.PathValue("seasonID"))
	episodes, err := h.episodeService.ListBySeason(ctx, seasonID)
	if err != nil {
		h.logger.WarnContext(ctx, "list episodes failed", "season_id", seasonID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]episodeDTO, 0, len(episodes))
	for _, item := range episodes {
		items = append(items, episodeToDTO(ctx, item))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) CreateSeason(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateSeason")
	defer span.End()

	var req createSeasonRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}
	startsAt, err := parseRFC3339("starts_at", req.StartsAt)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.seasonService.Create(ctx, usecase.CreateSeasonInput{
		Name:     req.Name,
		Number:   req.Number,
		IsActive: req.IsActive,
		StartsAt: startsAt,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create season failed", "season_number", req.Number, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, seasonToDTO(ctx, created))
}

func (h *Handler) CreateEpisode(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateEpisode")
	defer span.End()

	seasonID := strings.TrimSpace(r.PathValue("seasonID"))
	var req createEpisodeRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}
	airsAt, err := parseRFC3339("airs_at", req.AirsAt)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	picksLockAt, err := parseRFC3339("picks_lock_at", req.PicksLockAt)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.episodeService.Create(ctx, usecase.CreateEpisodeInput{
		SeasonID:    seasonID,
		Number:      req.Number,
		Title:       req.Title,
		AirsAt:      airsAt,
		PicksLockAt: picksLockAt,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create episode failed", "season_id", seasonID, "episode_number", req.Number, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, episodeToDTO(ctx, created))
}
