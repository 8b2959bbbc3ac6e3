package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/riskibarqy/fantasy-survivor/internal/usecase"
)

func (h *Handler) ListRoster(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListRoster")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	list := h.rosterService.ListActive
	if strings.EqualFold(r.URL.Query().Get("history"), "true") {
		list = h.rosterService.ListHistory
	}

	entries, err := list(ctx, leagueID, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "list roster failed", "league_id", leagueID, "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]rosterEntryDTO, 0, len(entries))
	for _, item := range entries {
		items = append(items, rosterEntryToDTO(ctx, item))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListEligibleCastaways(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListEligibleCastaways")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	castaways, err := h.rosterService.ActiveCastaways(ctx, leagueID, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "list eligible castaways failed", "league_id", leagueID, "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]castawayDTO, 0, len(castaways))
	for _, item := range castaways {
		items = append(items, castawayToDTO(ctx, item))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) DraftCastaway(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DraftCastaway")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	var req draftCastawayRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	entry, err := h.rosterService.Draft(ctx, usecase.DraftCastawayInput{
		UserID:     principal.UserID,
		LeagueID:   leagueID,
		CastawayID: req.CastawayID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "draft castaway failed", "league_id", leagueID, "user_id", principal.UserID, "castaway_id", req.CastawayID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, rosterEntryToDTO(ctx, entry))
}

func (h *Handler) DropCastaway(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DropCastaway")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	entryID := strings.TrimSpace(r.PathValue("entryID"))
	entry, err := h.rosterService.Drop(ctx, usecase.DropCastawayInput{
		UserID:   principal.UserID,
		LeagueID: leagueID,
		EntryID:  entryID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "drop castaway failed", "league_id", leagueID, "user_id", principal.UserID, "entry_id", entryID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rosterEntryToDTO(ctx, entry))
}

func (h *Handler) ReorderRoster(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ReorderRoster")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	var req reorderRosterRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	entries, err := h.rosterService.Reorder(ctx, usecase.ReorderRosterInput{
		UserID:   principal.UserID,
		LeagueID: leagueID,
		EntryIDs: req.EntryIDs,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "reorder roster failed", "league_id", leagueID, "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]rosterEntryDTO, 0, len(entries))
	for _, item := range entries {
		items = append(items, rosterEntryToDTO(ctx, item))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}
