package httpapi

import (
	"net/http"
	"strings"

	"github.com/riskibarqy/fantasy-survivor/internal/usecase"
)

func (h *Handler) ListRulesBySeason(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListRulesBySeason")
	defer span.End()

	seasonID := strings.TrimSpace(r.PathValue("seasonID"))
	category := strings.TrimSpace(r.URL.Query().Get("category"))
	rules, err := h.ruleService.ListBySeason(ctx, seasonID, category)
	if err != nil {
		h.logger.WarnContext(ctx, "list rules failed", "season_id", seasonID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]ruleDTO, 0, len(rules))
	for _, item := range rules {
		items = append(items, ruleToDTO(ctx, item))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) CreateRule(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateRule")
	defer span.End()

	seasonID := strings.TrimSpace(r.PathValue("seasonID"))
	var req createRuleRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.ruleService.Create(ctx, usecase.CreateRuleInput{
		SeasonID:  seasonID,
		Code:      req.Code,
		Name:      req.Name,
		Category:  req.Category,
		Points:    req.Points,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create rule failed", "season_id", seasonID, "rule_code", req.Code, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, ruleToDTO(ctx, created))
}

func (h *Handler) UpdateRule(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateRule")
	defer span.End()

	ruleID := strings.TrimSpace(r.PathValue("ruleID"))
	var req updateRuleRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	updated, err := h.ruleService.Update(ctx, usecase.UpdateRuleInput{
		RuleID:    ruleID,
		Name:      req.Name,
		Points:    req.Points,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "update rule failed", "rule_id", ruleID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, ruleToDTO(ctx, updated))
}

func (h *Handler) DeactivateRule(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeactivateRule")
	defer span.End()

	ruleID := strings.TrimSpace(r.PathValue("ruleID"))
	retired, err := h.ruleService.Deactivate(ctx, ruleID)
	if err != nil {
		h.logger.WarnContext(ctx, "deactivate rule failed", "rule_id", ruleID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, ruleToDTO(ctx, retired))
}
