package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/riskibarqy/fantasy-survivor/internal/domain/castaway"
	"github.com/riskibarqy/fantasy-survivor/internal/usecase"
)

func (h *Handler) ListCastawaysBySeason(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListCastawaysBySeason")
	defer span.End()

	seasonID := strings.TrimSpace(r.PathValue("seasonID"))
	castaways, err := h.castawayService.ListBySeason(ctx, seasonID)
	if err != nil {
		h.logger.WarnContext(ctx, "list castaways failed", "season_id", seasonID, "error", err)
		writeError(ctx, w, err)
		return
	}

	// The status filter is cosmetic, so it lives up here rather than in the
	// usecase layer. An unknown value is rejected instead of silently matching
	// nothing.
	var statusFilter castaway.Status
	if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
		status, ok := castaway.NormalizeStatus(raw)
		if !ok {
			writeError(ctx, w, fmt.Errorf("%w: unknown castaway status %q", usecase.ErrInvalidInput, raw))
			return
		}
		statusFilter = status
	}

	items := make([]castawayDTO, 0, len(castaways))
	for _, item := range castaways {
		if statusFilter != "" && item.Status != statusFilter {
			continue
		}
		items = append(items, castawayToDTO(ctx, item))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) CreateCastaway(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateCastaway")
	defer span.End()

	seasonID := strings.TrimSpace(r.PathValue("seasonID"))
	var req createCastawayRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.castawayService.Create(ctx, usecase.CreateCastawayInput{
		SeasonID: seasonID,
		Name:     req.Name,
		Tribe:    req.Tribe,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create castaway failed", "season_id", seasonID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, castawayToDTO(ctx, created))
}

func (h *Handler) EliminateCastaway(w http.ResponseWriter, r *http.Request) {
	h.updateCastawayStatus(w, r, "httpapi.Handler.EliminateCastaway", castaway.StatusEliminated)
}

func (h *Handler) CrownCastawayWinner(w http.ResponseWriter, r *http.Request) {
	h.updateCastawayStatus(w, r, "httpapi.Handler.CrownCastawayWinner", castaway.StatusWinner)
}

func (h *Handler) updateCastawayStatus(w http.ResponseWriter, r *http.Request, spanName string, status castaway.Status) {
	ctx, span := startSpan(r.Context(), spanName)
	defer span.End()

	castawayID := strings.TrimSpace(r.PathValue("castawayID"))
	updated, err := h.castawayService.UpdateStatus(ctx, usecase.UpdateCastawayStatusInput{
		CastawayID: castawayID,
		Status:     string(status),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "update castaway status failed", "castaway_id", castawayID, "status", string(status), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, castawayToDTO(ctx, updated))
}
