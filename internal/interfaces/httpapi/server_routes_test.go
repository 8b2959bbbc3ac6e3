package httpapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/fantasy-survivor/internal/domain/user"
	"github.com/riskibarqy/fantasy-survivor/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/fantasy-survivor/internal/platform/cache"
	idgen "github.com/riskibarqy/fantasy-survivor/internal/platform/id"
	"github.com/riskibarqy/fantasy-survivor/internal/platform/logging"
	"github.com/riskibarqy/fantasy-survivor/internal/usecase"
)

const internalJobTestToken = "job-secret"

type tokenMapVerifier map[string]user.Principal

func (v tokenMapVerifier) VerifyAccessToken(_ context.Context, token string) (user.Principal, error) {
	principal, ok := v[token]
	if !ok {
		return user.Principal{}, fmt.Errorf("%w: unknown token", usecase.ErrUnauthorized)
	}
	return principal, nil
}

// newAPIRouter wires the full router against seeded in-memory repositories,
// the same shape the app assembles in production.
func newAPIRouter(t *testing.T) http.Handler {
	t.Helper()

	seasonRepo := memory.NewSeasonRepository(memory.SeedSeasons())
	episodeRepo := memory.NewEpisodeRepository(memory.SeedEpisodes())
	castawayRepo := memory.NewCastawayRepository(memory.SeedCastaways())
	ruleRepo := memory.NewScoringRuleRepository(memory.SeedScoringRules())
	leagueRepo := memory.NewLeagueRepository(nil)
	rosterRepo := memory.NewRosterRepository()
	pickRepo := memory.NewPickRepository()
	eventRepo := memory.NewScoringEventRepository()
	standingRepo := memory.NewStandingRepository()
	dispatchRepo := memory.NewJobDispatchRepository()

	generator := idgen.NewRandomGenerator()
	logger := logging.NewNop()

	seasonSvc := usecase.NewSeasonService(seasonRepo, generator)
	episodeSvc := usecase.NewEpisodeService(seasonRepo, episodeRepo, generator)
	castawaySvc := usecase.NewCastawayService(seasonRepo, castawayRepo, generator, logger)
	ruleSvc := usecase.NewRuleService(seasonRepo, ruleRepo, generator)
	leagueSvc := usecase.NewLeagueService(seasonRepo, leagueRepo, generator, logger)
	rosterSvc := usecase.NewRosterService(leagueRepo, castawayRepo, rosterRepo, generator)
	pickSvc := usecase.NewPickService(leagueRepo, episodeRepo, castawayRepo, rosterRepo, pickRepo, generator, logger)
	pickLockSvc := usecase.NewPickLockService(leagueRepo, episodeRepo, castawayRepo, rosterRepo, pickRepo, generator, logger)
	scoringSvc := usecase.NewScoringService(episodeRepo, castawayRepo, ruleRepo, eventRepo, pickRepo, cache.NewStore(time.Minute), generator, logger)
	standingsSvc := usecase.NewStandingsService(leagueRepo, pickRepo, eventRepo, standingRepo)
	scoringSvc.SetStandingsRefresher(standingsSvc)
	dashboardSvc := usecase.NewDashboardService(leagueRepo, episodeRepo, rosterRepo, pickRepo, standingsSvc)
	orchestrator := usecase.NewJobOrchestratorService(seasonRepo, episodeRepo, nil, dispatchRepo, usecase.JobOrchestratorConfig{}, logger)

	handler := NewHandler(
		seasonSvc,
		episodeSvc,
		castawaySvc,
		ruleSvc,
		leagueSvc,
		rosterSvc,
		pickSvc,
		pickLockSvc,
		scoringSvc,
		standingsSvc,
		dashboardSvc,
		orchestrator,
		logger,
	)

	verifier := tokenMapVerifier{
		"token-casey": {UserID: "user-1", DisplayName: "Casey", Role: user.RoleMember},
		"token-robin": {UserID: "user-2", DisplayName: "Robin", Role: user.RoleMember},
		"token-admin": {UserID: "user-admin", DisplayName: "Producer", Role: user.RoleAdmin},
	}

	return NewRouter(handler, verifier, logger, false, nil, internalJobTestToken)
}

func performJSON(t *testing.T, router http.Handler, method, target, token string, payload any) (int, map[string]any) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := sonic.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal request payload: %v", err)
		}
		body = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var envelope map[string]any
	if rec.Body.Len() > 0 {
		if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
			t.Fatalf("unmarshal response envelope (%s %s): %v", method, target, err)
		}
	}

	return rec.Code, envelope
}

func dataObject(t *testing.T, envelope map[string]any) map[string]any {
	t.Helper()

	obj, ok := envelope["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected object data, got %v", envelope["data"])
	}
	return obj
}

func stringField(t *testing.T, obj map[string]any, key string) string {
	t.Helper()

	value, ok := obj[key].(string)
	if !ok || value == "" {
		t.Fatalf("expected string field %q, got %v", key, obj[key])
	}
	return value
}

func TestRouter_Healthz(t *testing.T) {
	router := newAPIRouter(t)

	status, envelope := performJSON(t, router, http.MethodGet, "/healthz", "", nil)
	if status != http.StatusOK {
		t.Fatalf("expected status 200, got %d", status)
	}
	if got := dataObject(t, envelope)["status"]; got != "ok" {
		t.Fatalf("expected status ok, got %v", got)
	}
}

func TestRouter_LeagueRoutesRequireAuth(t *testing.T) {
	router := newAPIRouter(t)

	status, _ := performJSON(t, router, http.MethodGet, "/v1/leagues/me", "", nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", status)
	}
}

func TestRouter_AdminRoutesForbidMembers(t *testing.T) {
	router := newAPIRouter(t)

	status, _ := performJSON(t, router, http.MethodPost, "/v1/admin/seasons", "token-casey", map[string]any{
		"name":      "Survivor: Router Bay",
		"number":    50,
		"is_active": false,
		"starts_at": time.Now().UTC().Add(24 * time.Hour).Format(time.RFC3339),
	})
	if status != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", status)
	}
}

// TestRouter_WeeklyPickFlow drives the happy path end to end: an admin stands
// up a future season, a member opens a league, drafts, and lands a pick while
// the window is open.
func TestRouter_WeeklyPickFlow(t *testing.T) {
	router := newAPIRouter(t)
	now := time.Now().UTC()

	status, envelope := performJSON(t, router, http.MethodPost, "/v1/admin/seasons", "token-admin", map[string]any{
		"name":      "Survivor: Router Bay",
		"number":    50,
		"is_active": false,
		"starts_at": now.Add(24 * time.Hour).Format(time.RFC3339),
	})
	if status != http.StatusCreated {
		t.Fatalf("create season: expected status 201, got %d (%v)", status, envelope)
	}
	seasonID := stringField(t, dataObject(t, envelope), "id")

	status, envelope = performJSON(t, router, http.MethodPost, "/v1/admin/seasons/"+seasonID+"/episodes", "token-admin", map[string]any{
		"number":        1,
		"title":         "Premiere",
		"airs_at":       now.Add(48 * time.Hour).Format(time.RFC3339),
		"picks_lock_at": now.Add(47 * time.Hour).Format(time.RFC3339),
	})
	if status != http.StatusCreated {
		t.Fatalf("create episode: expected status 201, got %d (%v)", status, envelope)
	}
	episodeID := stringField(t, dataObject(t, envelope), "id")

	status, envelope = performJSON(t, router, http.MethodPost, "/v1/admin/seasons/"+seasonID+"/castaways", "token-admin", map[string]any{
		"name":  "Imogen Hale",
		"tribe": "Reef",
	})
	if status != http.StatusCreated {
		t.Fatalf("create castaway: expected status 201, got %d (%v)", status, envelope)
	}
	castawayID := stringField(t, dataObject(t, envelope), "id")

	status, envelope = performJSON(t, router, http.MethodPost, "/v1/leagues", "token-casey", map[string]any{
		"season_id": seasonID,
		"name":      "Router Pool",
	})
	if status != http.StatusCreated {
		t.Fatalf("create league: expected status 201, got %d (%v)", status, envelope)
	}
	leagueID := stringField(t, dataObject(t, envelope), "id")

	status, envelope = performJSON(t, router, http.MethodPost, "/v1/leagues/"+leagueID+"/roster", "token-casey", map[string]any{
		"castaway_id": castawayID,
	})
	if status != http.StatusCreated {
		t.Fatalf("draft castaway: expected status 201, got %d (%v)", status, envelope)
	}

	pickPath := "/v1/leagues/" + leagueID + "/episodes/" + episodeID + "/pick"
	status, envelope = performJSON(t, router, http.MethodPut, pickPath, "token-casey", map[string]any{
		"castaway_id": castawayID,
	})
	if status != http.StatusOK {
		t.Fatalf("submit pick: expected status 200, got %d (%v)", status, envelope)
	}
	pickData := dataObject(t, envelope)
	if pickData["state"] != "selected" {
		t.Fatalf("expected pick state selected, got %v", pickData["state"])
	}
	if pickData["castaway_id"] != castawayID {
		t.Fatalf("expected pick castaway %s, got %v", castawayID, pickData["castaway_id"])
	}

	status, envelope = performJSON(t, router, http.MethodGet, pickPath, "token-casey", nil)
	if status != http.StatusOK {
		t.Fatalf("get pick: expected status 200, got %d (%v)", status, envelope)
	}
	if got := dataObject(t, envelope)["state"]; got != "selected" {
		t.Fatalf("expected stored pick state selected, got %v", got)
	}
}

func TestRouter_SubmitPickAfterLockIs422(t *testing.T) {
	router := newAPIRouter(t)

	// The bundled season's episodes all locked months ago, so any submit
	// against them trips the closed-window error.
	status, envelope := performJSON(t, router, http.MethodPost, "/v1/leagues", "token-casey", map[string]any{
		"season_id": memory.SeasonIDEmberIsland,
		"name":      "Late Pool",
	})
	if status != http.StatusCreated {
		t.Fatalf("create league: expected status 201, got %d (%v)", status, envelope)
	}
	leagueID := stringField(t, dataObject(t, envelope), "id")

	status, envelope = performJSON(t, router, http.MethodPost, "/v1/leagues/"+leagueID+"/roster", "token-casey", map[string]any{
		"castaway_id": "cast-mira",
	})
	if status != http.StatusCreated {
		t.Fatalf("draft castaway: expected status 201, got %d (%v)", status, envelope)
	}

	status, envelope = performJSON(t, router, http.MethodPut, "/v1/leagues/"+leagueID+"/episodes/s49-ember-island-e01/pick", "token-casey", map[string]any{
		"castaway_id": "cast-mira",
	})
	if status != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d (%v)", status, envelope)
	}
	errorObj, ok := envelope["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected error object, got %v", envelope)
	}
	items, _ := errorObj["errors"].([]any)
	if len(items) != 1 {
		t.Fatalf("expected one error item, got %v", errorObj["errors"])
	}
	item, _ := items[0].(map[string]any)
	if item["reason"] != "pickWindowClosed" {
		t.Fatalf("expected reason pickWindowClosed, got %v", item["reason"])
	}
}

// TestRouter_LockPicksJob exercises the internal lock endpoint: a member who
// never picked gets auto-filled from their draft ranking.
func TestRouter_LockPicksJob(t *testing.T) {
	router := newAPIRouter(t)

	status, envelope := performJSON(t, router, http.MethodPost, "/v1/leagues", "token-casey", map[string]any{
		"season_id": memory.SeasonIDEmberIsland,
		"name":      "Lock Pool",
	})
	if status != http.StatusCreated {
		t.Fatalf("create league: expected status 201, got %d (%v)", status, envelope)
	}
	leagueID := stringField(t, dataObject(t, envelope), "id")

	status, envelope = performJSON(t, router, http.MethodPost, "/v1/leagues/"+leagueID+"/roster", "token-casey", map[string]any{
		"castaway_id": "cast-mira",
	})
	if status != http.StatusCreated {
		t.Fatalf("draft castaway: expected status 201, got %d (%v)", status, envelope)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/episodes/s49-ember-island-e01/lock-picks", nil)
	req.Header.Set("X-Internal-Job-Token", internalJobTestToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("lock picks job: expected status 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	var lockEnvelope map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &lockEnvelope); err != nil {
		t.Fatalf("unmarshal lock result: %v", err)
	}
	lockData := dataObject(t, lockEnvelope)
	if got, _ := lockData["members"].(float64); got != 1 {
		t.Fatalf("expected 1 member, got %v", lockData["members"])
	}
	if got, _ := lockData["auto_picked"].(float64); got != 1 {
		t.Fatalf("expected 1 auto-picked member, got %v", lockData["auto_picked"])
	}

	status, envelope = performJSON(t, router, http.MethodGet, "/v1/leagues/"+leagueID+"/episodes/s49-ember-island-e01/pick", "token-casey", nil)
	if status != http.StatusOK {
		t.Fatalf("get pick after lock: expected status 200, got %d (%v)", status, envelope)
	}
	pickData := dataObject(t, envelope)
	if pickData["state"] != "auto_picked" {
		t.Fatalf("expected auto_picked state, got %v", pickData["state"])
	}
	if pickData["castaway_id"] != "cast-mira" {
		t.Fatalf("expected top-ranked cast-mira, got %v", pickData["castaway_id"])
	}
}

func TestRouter_OrchestrateJob(t *testing.T) {
	router := newAPIRouter(t)

	raw, err := sonic.Marshal(map[string]any{"season_id": memory.SeasonIDEmberIsland, "force": true})
	if err != nil {
		t.Fatalf("marshal orchestrate payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/orchestrate", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Internal-Job-Token", internalJobTestToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("orchestrate job: expected status 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	var envelope map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal orchestrate result: %v", err)
	}
	data := dataObject(t, envelope)
	if got, _ := data["season_count"].(float64); got != 1 {
		t.Fatalf("expected one season, got %v", data["season_count"])
	}
	if got, _ := data["queued_count"].(float64); got == 0 {
		t.Fatalf("expected queued operations with force=true, got %v", data["queued_count"])
	}
}
