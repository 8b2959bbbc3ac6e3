package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/fantasy-survivor/internal/platform/logging"
	"github.com/riskibarqy/fantasy-survivor/internal/usecase"
)

type Handler struct {
	seasonService    *usecase.SeasonService
	episodeService   *usecase.EpisodeService
	castawayService  *usecase.CastawayService
	ruleService      *usecase.RuleService
	leagueService    *usecase.LeagueService
	rosterService    *usecase.RosterService
	pickService      *usecase.PickService
	pickLockService  *usecase.PickLockService
	scoringService   *usecase.ScoringService
	standingsService *usecase.StandingsService
	dashboardService *usecase.DashboardService
	jobOrchestrator  *usecase.JobOrchestratorService
	logger           *logging.Logger
	validator        *validator.Validate
}

func NewHandler(
	seasonService *usecase.SeasonService,
	episodeService *usecase.EpisodeService,
	castawayService *usecase.CastawayService,
	ruleService *usecase.RuleService,
	leagueService *usecase.LeagueService,
	rosterService *usecase.RosterService,
	pickService *usecase.PickService,
	pickLockService *usecase.PickLockService,
	scoringService *usecase.ScoringService,
	standingsService *usecase.StandingsService,
	dashboardService *usecase.DashboardService,
	jobOrchestrator *usecase.JobOrchestratorService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		seasonService:    seasonService,
		episodeService:   episodeService,
		castawayService:  castawayService,
		ruleService:      ruleService,
		leagueService:    leagueService,
		rosterService:    rosterService,
		pickService:      pickService,
		pickLockService:  pickLockService,
		scoringService:   scoringService,
		standingsService: standingsService,
		dashboardService: dashboardService,
		jobOrchestrator:  jobOrchestrator,
		logger:           logger,
		validator:        validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func decodeJSONBody(r *http.Request, dst any) error {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// decodeOptionalJSONBody tolerates an empty body, leaving dst at its zero
// value. Job triggers and other fire-and-forget posts use it.
func decodeOptionalJSONBody(r *http.Request, dst any) error {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}
