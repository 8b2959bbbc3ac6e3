package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerPublicDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/seasons", handler.ListSeasons)
	mux.HandleFunc("GET /v1/seasons/{seasonID}/episodes", handler.ListEpisodesBySeason)
	mux.HandleFunc("GET /v1/seasons/{seasonID}/castaways", handler.ListCastawaysBySeason)
	mux.HandleFunc("GET /v1/seasons/{seasonID}/castaways/leaderboard", handler.CastawayLeaderboard)
	mux.HandleFunc("GET /v1/seasons/{seasonID}/rules", handler.ListRulesBySeason)
	mux.HandleFunc("GET /v1/episodes/{episodeID}/scores", handler.GetEpisodeScores)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	registerAuthorizedLeagueRoutes(mux, handler, verifier)
	registerAuthorizedRosterRoutes(mux, handler, verifier)
	registerAuthorizedPickRoutes(mux, handler, verifier)
	registerAuthorizedStandingsRoutes(mux, handler, verifier)
}

func registerAuthorizedLeagueRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/leagues", RequireAuth(verifier, http.HandlerFunc(handler.CreateLeague)))
	mux.Handle("POST /v1/leagues/join", RequireAuth(verifier, http.HandlerFunc(handler.JoinLeague)))
	mux.Handle("GET /v1/leagues/me", RequireAuth(verifier, http.HandlerFunc(handler.ListMyLeagues)))
	mux.Handle("GET /v1/leagues/{leagueID}", RequireAuth(verifier, http.HandlerFunc(handler.GetLeague)))
	mux.Handle("GET /v1/leagues/{leagueID}/members", RequireAuth(verifier, http.HandlerFunc(handler.ListLeagueMembers)))
}

func registerAuthorizedRosterRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/leagues/{leagueID}/roster", RequireAuth(verifier, http.HandlerFunc(handler.ListRoster)))
	mux.Handle("POST /v1/leagues/{leagueID}/roster", RequireAuth(verifier, http.HandlerFunc(handler.DraftCastaway)))
	mux.Handle("GET /v1/leagues/{leagueID}/roster/eligible", RequireAuth(verifier, http.HandlerFunc(handler.ListEligibleCastaways)))
	mux.Handle("PUT /v1/leagues/{leagueID}/roster/ranking", RequireAuth(verifier, http.HandlerFunc(handler.ReorderRoster)))
	mux.Handle("DELETE /v1/leagues/{leagueID}/roster/{entryID}", RequireAuth(verifier, http.HandlerFunc(handler.DropCastaway)))
}

func registerAuthorizedPickRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("PUT /v1/leagues/{leagueID}/episodes/{episodeID}/pick", RequireAuth(verifier, http.HandlerFunc(handler.SubmitPick)))
	mux.Handle("GET /v1/leagues/{leagueID}/episodes/{episodeID}/pick", RequireAuth(verifier, http.HandlerFunc(handler.GetMyPick)))
	mux.Handle("GET /v1/leagues/{leagueID}/episodes/{episodeID}/picks", RequireAuth(verifier, http.HandlerFunc(handler.ListLeaguePicksForEpisode)))
	mux.Handle("GET /v1/leagues/{leagueID}/picks/me", RequireAuth(verifier, http.HandlerFunc(handler.ListMyPicks)))
}

func registerAuthorizedStandingsRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/leagues/{leagueID}/standings", RequireAuth(verifier, http.HandlerFunc(handler.ListLeagueStandings)))
	mux.Handle("GET /v1/leagues/{leagueID}/dashboard", RequireAuth(verifier, http.HandlerFunc(handler.GetDashboard)))
}

func registerAdminRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/admin/seasons", RequireAuth(verifier, RequireAdmin(http.HandlerFunc(handler.CreateSeason))))
	mux.Handle("POST /v1/admin/seasons/{seasonID}/episodes", RequireAuth(verifier, RequireAdmin(http.HandlerFunc(handler.CreateEpisode))))
	mux.Handle("POST /v1/admin/seasons/{seasonID}/castaways", RequireAuth(verifier, RequireAdmin(http.HandlerFunc(handler.CreateCastaway))))
	mux.Handle("POST /v1/admin/seasons/{seasonID}/rules", RequireAuth(verifier, RequireAdmin(http.HandlerFunc(handler.CreateRule))))
	mux.Handle("PUT /v1/admin/rules/{ruleID}", RequireAuth(verifier, RequireAdmin(http.HandlerFunc(handler.UpdateRule))))
	mux.Handle("DELETE /v1/admin/rules/{ruleID}", RequireAuth(verifier, RequireAdmin(http.HandlerFunc(handler.DeactivateRule))))
	mux.Handle("POST /v1/admin/castaways/{castawayID}/eliminate", RequireAuth(verifier, RequireAdmin(http.HandlerFunc(handler.EliminateCastaway))))
	mux.Handle("POST /v1/admin/castaways/{castawayID}/winner", RequireAuth(verifier, RequireAdmin(http.HandlerFunc(handler.CrownCastawayWinner))))
	mux.Handle("POST /v1/admin/episodes/{episodeID}/events", RequireAuth(verifier, RequireAdmin(http.HandlerFunc(handler.RecordEpisodeEvents))))
	mux.Handle("POST /v1/admin/episodes/{episodeID}/finalize", RequireAuth(verifier, RequireAdmin(http.HandlerFunc(handler.FinalizeEpisode))))
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/orchestrate", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunOrchestrateJob)))
	mux.Handle("POST /v1/internal/jobs/episodes/{episodeID}/lock-picks", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunLockPicksJob)))
	mux.Handle("POST /v1/internal/jobs/episodes/{episodeID}/refresh-standings", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunRefreshStandingsJob)))
}
