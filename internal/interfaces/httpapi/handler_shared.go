package httpapi

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/fantasy-survivor/internal/domain/castaway"
	"github.com/riskibarqy/fantasy-survivor/internal/domain/episode"
	"github.com/riskibarqy/fantasy-survivor/internal/domain/league"
	"github.com/riskibarqy/fantasy-survivor/internal/domain/pick"
	"github.com/riskibarqy/fantasy-survivor/internal/domain/roster"
	"github.com/riskibarqy/fantasy-survivor/internal/domain/scoringrule"
	"github.com/riskibarqy/fantasy-survivor/internal/domain/season"
	"github.com/riskibarqy/fantasy-survivor/internal/domain/standing"
	"github.com/riskibarqy/fantasy-survivor/internal/usecase"
)

type createSeasonRequest struct {
	Name     string `json:"name" validate:"required,max=120"`
	Number   int    `json:"number" validate:"required,gt=0"`
	IsActive bool   `json:"is_active"`
	StartsAt string `json:"starts_at" validate:"required"`
}

type createEpisodeRequest struct {
	Number      int    `json:"number" validate:"required,gt=0"`
	Title       string `json:"title" validate:"omitempty,max=200"`
	AirsAt      string `json:"airs_at" validate:"required"`
	PicksLockAt string `json:"picks_lock_at" validate:"required"`
}

type createCastawayRequest struct {
	Name  string `json:"name" validate:"required,max=120"`
	Tribe string `json:"tribe" validate:"omitempty,max=60"`
}

type createRuleRequest struct {
	Code      string `json:"code" validate:"required,max=40"`
	Name      string `json:"name" validate:"required,max=120"`
	Category  string `json:"category" validate:"required"`
	Points    int    `json:"points" validate:"required"`
	SortOrder int    `json:"sort_order"`
}

type updateRuleRequest struct {
	Name      string `json:"name" validate:"required,max=120"`
	Points    int    `json:"points" validate:"required"`
	SortOrder int    `json:"sort_order"`
}

type createLeagueRequest struct {
	SeasonID    string `json:"season_id" validate:"required"`
	Name        string `json:"name" validate:"required,max=120"`
	DisplayName string `json:"display_name" validate:"omitempty,max=80"`
	IsPublic    bool   `json:"is_public"`
}

type joinLeagueRequest struct {
	InviteCode  string `json:"invite_code" validate:"required,min=6,max=32"`
	DisplayName string `json:"display_name" validate:"omitempty,max=80"`
}

type draftCastawayRequest struct {
	CastawayID string `json:"castaway_id" validate:"required"`
}

type reorderRosterRequest struct {
	EntryIDs []string `json:"entry_ids" validate:"required,min=1,dive,required"`
}

type submitPickRequest struct {
	CastawayID string `json:"castaway_id" validate:"required"`
}

type recordEventEntryRequest struct {
	CastawayID string `json:"castaway_id" validate:"required"`
	RuleCode   string `json:"rule_code" validate:"required"`
	Quantity   int    `json:"quantity" validate:"required,gt=0"`
}

type recordEventsRequest struct {
	Entries []recordEventEntryRequest `json:"entries" validate:"required,min=1,dive"`
}

type internalJobRequest struct {
	SeasonID   string `json:"season_id"`
	Force      bool   `json:"force"`
	DispatchID string `json:"dispatch_id"`
}

type seasonDTO struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Number   int    `json:"number"`
	IsActive bool   `json:"is_active"`
	StartsAt string `json:"starts_at"`
}

type episodeDTO struct {
	ID          string `json:"id"`
	SeasonID    string `json:"season_id"`
	Number      int    `json:"number"`
	Title       string `json:"title"`
	AirsAt      string `json:"airs_at"`
	PicksLockAt string `json:"picks_lock_at"`
	IsFinal     bool   `json:"is_final"`
}

type castawayDTO struct {
	ID       string `json:"id"`
	SeasonID string `json:"season_id"`
	Name     string `json:"name"`
	Tribe    string `json:"tribe,omitempty"`
	Status   string `json:"status"`
}

type ruleDTO struct {
	ID        string `json:"id"`
	SeasonID  string `json:"season_id"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	Points    int    `json:"points"`
	SortOrder int    `json:"sort_order"`
	IsActive  bool   `json:"is_active"`
}

type leagueDTO struct {
	ID           string `json:"id"`
	SeasonID     string `json:"season_id"`
	Name         string `json:"name"`
	OwnerUserID  string `json:"owner_user_id"`
	InviteCode   string `json:"invite_code"`
	IsPublic     bool   `json:"is_public"`
	CreatedAtUTC string `json:"created_at_utc"`
}

type memberDTO struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
	JoinedAtUTC string `json:"joined_at_utc"`
}

type rosterEntryDTO struct {
	ID           string `json:"id"`
	CastawayID   string `json:"castaway_id"`
	DraftRank    int    `json:"draft_rank"`
	DraftedAtUTC string `json:"drafted_at_utc"`
	DroppedAtUTC string `json:"dropped_at_utc,omitempty"`
}

type pickDTO struct {
	ID             string `json:"id"`
	LeagueID       string `json:"league_id"`
	EpisodeID      string `json:"episode_id"`
	CastawayID     string `json:"castaway_id,omitempty"`
	State          string `json:"state"`
	Points         *int   `json:"points,omitempty"`
	SubmittedAtUTC string `json:"submitted_at_utc,omitempty"`
	LockedAtUTC    string `json:"locked_at_utc,omitempty"`
	ScoredAtUTC    string `json:"scored_at_utc,omitempty"`
}

type standingDTO struct {
	UserID         string `json:"user_id"`
	DisplayName    string `json:"display_name"`
	Rank           int    `json:"rank"`
	Points         int    `json:"points"`
	ScoredPicks    int    `json:"scored_picks"`
	NegativeEvents int    `json:"negative_events"`
	JoinedAtUTC    string `json:"joined_at_utc"`
}

type dashboardDTO struct {
	LeagueID       string        `json:"league_id"`
	LeagueName     string        `json:"league_name"`
	SeasonID       string        `json:"season_id"`
	NextEpisode    *episodeDTO   `json:"next_episode,omitempty"`
	PickState      string        `json:"pick_state"`
	PickCastawayID string        `json:"pick_castaway_id,omitempty"`
	PicksLockAt    string        `json:"picks_lock_at,omitempty"`
	RosterSize     int           `json:"roster_size"`
	TotalPoints    int           `json:"total_points"`
	Rank           int           `json:"rank"`
	Members        int           `json:"members"`
	NegativeEvents int           `json:"negative_events"`
	TopStandings   []standingDTO `json:"top_standings"`
}

func seasonToDTO(ctx context.Context, v season.Season) seasonDTO {
	ctx, span := startSpan(ctx, "httpapi.seasonToDTO")
	defer span.End()

	return seasonDTO{
		ID:       v.ID,
		Name:     v.Name,
		Number:   v.Number,
		IsActive: v.IsActive,
		StartsAt: v.StartsAt.UTC().Format(time.RFC3339),
	}
}

func episodeToDTO(ctx context.Context, v episode.Episode) episodeDTO {
	ctx, span := startSpan(ctx, "httpapi.episodeToDTO")
	defer span.End()

	return episodeDTO{
		ID:          v.ID,
		SeasonID:    v.SeasonID,
		Number:      v.Number,
		Title:       v.Title,
		AirsAt:      v.AirsAt.UTC().Format(time.RFC3339),
		PicksLockAt: v.PicksLockAt.UTC().Format(time.RFC3339),
		IsFinal:     v.IsFinal,
	}
}

func castawayToDTO(ctx context.Context, v castaway.Castaway) castawayDTO {
	ctx, span := startSpan(ctx, "httpapi.castawayToDTO")
	defer span.End()

	return castawayDTO{
		ID:       v.ID,
		SeasonID: v.SeasonID,
		Name:     v.Name,
		Tribe:    v.Tribe,
		Status:   string(v.Status),
	}
}

func ruleToDTO(ctx context.Context, v scoringrule.Rule) ruleDTO {
	ctx, span := startSpan(ctx, "httpapi.ruleToDTO")
	defer span.End()

	return ruleDTO{
		ID:        v.ID,
		SeasonID:  v.SeasonID,
		Code:      v.Code,
		Name:      v.Name,
		Category:  v.Category,
		Points:    v.Points,
		SortOrder: v.SortOrder,
		IsActive:  v.IsActive,
	}
}

func leagueToDTO(ctx context.Context, v league.League) leagueDTO {
	ctx, span := startSpan(ctx, "httpapi.leagueToDTO")
	defer span.End()

	return leagueDTO{
		ID:           v.ID,
		SeasonID:     v.SeasonID,
		Name:         v.Name,
		OwnerUserID:  v.OwnerUserID,
		InviteCode:   v.InviteCode,
		IsPublic:     v.IsPublic,
		CreatedAtUTC: v.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func memberToDTO(ctx context.Context, v league.Member) memberDTO {
	ctx, span := startSpan(ctx, "httpapi.memberToDTO")
	defer span.End()

	return memberDTO{
		UserID:      v.UserID,
		DisplayName: v.DisplayName,
		Role:        string(v.Role),
		JoinedAtUTC: v.JoinedAt.UTC().Format(time.RFC3339),
	}
}

func rosterEntryToDTO(ctx context.Context, v roster.Entry) rosterEntryDTO {
	ctx, span := startSpan(ctx, "httpapi.rosterEntryToDTO")
	defer span.End()

	return rosterEntryDTO{
		ID:           v.ID,
		CastawayID:   v.CastawayID,
		DraftRank:    v.DraftRank,
		DraftedAtUTC: v.DraftedAt.UTC().Format(time.RFC3339),
		DroppedAtUTC: formatOptionalTime(v.DroppedAt),
	}
}

func pickToDTO(ctx context.Context, v pick.WeeklyPick) pickDTO {
	ctx, span := startSpan(ctx, "httpapi.pickToDTO")
	defer span.End()

	castawayID := ""
	if v.CastawayID != nil {
		castawayID = *v.CastawayID
	}

	return pickDTO{
		ID:             v.ID,
		LeagueID:       v.LeagueID,
		EpisodeID:      v.EpisodeID,
		CastawayID:     castawayID,
		State:          string(v.State),
		Points:         v.Points,
		SubmittedAtUTC: formatOptionalTime(v.SubmittedAt),
		LockedAtUTC:    formatOptionalTime(v.LockedAt),
		ScoredAtUTC:    formatOptionalTime(v.ScoredAt),
	}
}

func standingToDTO(ctx context.Context, v standing.Standing) standingDTO {
	ctx, span := startSpan(ctx, "httpapi.standingToDTO")
	defer span.End()

	return standingDTO{
		UserID:         v.UserID,
		DisplayName:    v.DisplayName,
		Rank:           v.Rank,
		Points:         v.Points,
		ScoredPicks:    v.ScoredPicks,
		NegativeEvents: v.NegativeEvents,
		JoinedAtUTC:    v.JoinedAt.UTC().Format(time.RFC3339),
	}
}

func dashboardToDTO(ctx context.Context, v usecase.Dashboard) dashboardDTO {
	ctx, span := startSpan(ctx, "httpapi.dashboardToDTO")
	defer span.End()

	dto := dashboardDTO{
		LeagueID:       v.LeagueID,
		LeagueName:     v.LeagueName,
		SeasonID:       v.SeasonID,
		PickState:      v.PickState,
		PickCastawayID: v.PickCastawayID,
		PicksLockAt:    formatOptionalTime(v.PicksLockAt),
		RosterSize:     v.RosterSize,
		TotalPoints:    v.TotalPoints,
		Rank:           v.Rank,
		Members:        v.Members,
		NegativeEvents: v.NegativeEvents,
		TopStandings:   make([]standingDTO, 0, len(v.TopStandings)),
	}
	if v.NextEpisode != nil {
		next := episodeToDTO(ctx, *v.NextEpisode)
		dto.NextEpisode = &next
	}
	for _, row := range v.TopStandings {
		dto.TopStandings = append(dto.TopStandings, standingToDTO(ctx, row))
	}

	return dto
}

func formatOptionalTime(v *time.Time) string {
	if v == nil {
		return ""
	}
	return v.UTC().Format(time.RFC3339)
}

func parseRFC3339(field, raw string) (time.Time, error) {
	parsed, err := time.Parse(time.RFC3339, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be an RFC3339 timestamp: %v", usecase.ErrInvalidInput, field, err)
	}
	return parsed.UTC(), nil
}
