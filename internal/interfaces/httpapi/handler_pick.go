package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/riskibarqy/fantasy-survivor/internal/usecase"
)

func (h *Handler) SubmitPick(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitPick")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	episodeID := strings.TrimSpace(r.PathValue("episodeID"))
	var req submitPickRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	submitted, err := h.pickService.Submit(ctx, usecase.SubmitPickInput{
		UserID:     principal.UserID,
		LeagueID:   leagueID,
		EpisodeID:  episodeID,
		CastawayID: req.CastawayID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "submit pick failed", "league_id", leagueID, "user_id", principal.UserID, "episode_id", episodeID, "castaway_id", req.CastawayID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, pickToDTO(ctx, submitted))
}

func (h *Handler) GetMyPick(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMyPick")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	episodeID := strings.TrimSpace(r.PathValue("episodeID"))
	item, exists, err := h.pickService.GetForEpisode(ctx, leagueID, principal.UserID, episodeID)
	if err != nil {
		h.logger.WarnContext(ctx, "get pick failed", "league_id", leagueID, "user_id", principal.UserID, "episode_id", episodeID, "error", err)
		writeError(ctx, w, err)
		return
	}
	if !exists {
		writeSuccess(ctx, w, http.StatusOK, nil)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, pickToDTO(ctx, item))
}

func (h *Handler) ListMyPicks(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMyPicks")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	picks, err := h.pickService.ListMine(ctx, leagueID, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "list my picks failed", "league_id", leagueID, "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]pickDTO, 0, len(picks))
	for _, item := range picks {
		items = append(items, pickToDTO(ctx, item))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListLeaguePicksForEpisode(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLeaguePicksForEpisode")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	episodeID := strings.TrimSpace(r.PathValue("episodeID"))
	picks, err := h.pickService.ListLeagueForEpisode(ctx, leagueID, principal.UserID, episodeID)
	if err != nil {
		h.logger.WarnContext(ctx, "list league picks failed", "league_id", leagueID, "user_id", principal.UserID, "episode_id", episodeID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]pickDTO, 0, len(picks))
	for _, item := range picks {
		items = append(items, pickToDTO(ctx, item))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}
