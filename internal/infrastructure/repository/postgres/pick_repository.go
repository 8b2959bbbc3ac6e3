package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/fantasy-survivor/internal/domain/pick"
	qb "github.com/riskibarqy/fantasy-survivor/internal/platform/querybuilder"
)

type PickRepository struct {
	db *sqlx.DB
}

func NewPickRepository(db *sqlx.DB) *PickRepository {
	return &PickRepository{db: db}
}

func (r *PickRepository) GetByID(ctx context.Context, id string) (pick.WeeklyPick, bool, error) {
	query, args, err := pickBaseSelect().
		Where(qb.Eq("public_id", id)).
		ToSQL()
	if err != nil {
		return pick.WeeklyPick{}, false, fmt.Errorf("build get pick by id query: %w", err)
	}

	return r.getPick(ctx, query, args, "get pick by id")
}

func (r *PickRepository) GetByMemberAndEpisode(ctx context.Context, leagueID, userID, episodeID string) (pick.WeeklyPick, bool, error) {
	query, args, err := pickBaseSelect().
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.Eq("user_id", userID),
			qb.Eq("episode_public_id", episodeID),
		).
		ToSQL()
	if err != nil {
		return pick.WeeklyPick{}, false, fmt.Errorf("build get pick by member and episode query: %w", err)
	}

	return r.getPick(ctx, query, args, "get pick by member and episode")
}

func (r *PickRepository) ListByLeagueAndEpisode(ctx context.Context, leagueID, episodeID string) ([]pick.WeeklyPick, error) {
	query, args, err := pickBaseSelect().
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.Eq("episode_public_id", episodeID),
		).
		OrderBy("user_id", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select picks by league and episode query: %w", err)
	}

	return r.selectPicks(ctx, query, args, "select picks by league and episode")
}

func (r *PickRepository) ListByEpisode(ctx context.Context, episodeID string) ([]pick.WeeklyPick, error) {
	query, args, err := pickBaseSelect().
		Where(qb.Eq("episode_public_id", episodeID)).
		OrderBy("league_public_id", "user_id", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select picks by episode query: %w", err)
	}

	return r.selectPicks(ctx, query, args, "select picks by episode")
}

func (r *PickRepository) ListByMember(ctx context.Context, leagueID, userID string) ([]pick.WeeklyPick, error) {
	query, args, err := pickBaseSelect().
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.Eq("user_id", userID),
		).
		OrderBy("episode_public_id", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select picks by member query: %w", err)
	}

	return r.selectPicks(ctx, query, args, "select picks by member")
}

func (r *PickRepository) ListScorableByLeague(ctx context.Context, leagueID string) ([]pick.WeeklyPick, error) {
	states := []any{
		string(pick.StateLocked),
		string(pick.StateAutoPicked),
		string(pick.StateScored),
	}

	query, args, err := pickBaseSelect().
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.In("state", states),
		).
		OrderBy("episode_public_id", "user_id", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select scorable picks query: %w", err)
	}

	return r.selectPicks(ctx, query, args, "select scorable picks")
}

func (r *PickRepository) Insert(ctx context.Context, p pick.WeeklyPick) error {
	query, args, err := qb.InsertModel("weekly_picks", pickInsertModelFrom(p), "")
	if err != nil {
		return fmt.Errorf("build insert pick query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err, "weekly_picks_member_episode_key") {
			return pick.ErrDuplicate
		}
		return fmt.Errorf("insert pick public_id=%s: %w", p.ID, err)
	}

	return nil
}

func (r *PickRepository) Update(ctx context.Context, p pick.WeeklyPick) error {
	query, args, err := qb.Update("weekly_picks").
		Set("castaway_public_id", p.CastawayID).
		Set("state", string(p.State)).
		Set("submitted_at", optionalTime(p.SubmittedAt)).
		Set("locked_at", optionalTime(p.LockedAt)).
		Set("points", optionalInt(p.Points)).
		Set("scored_at", optionalTime(p.ScoredAt)).
		Where(
			qb.Eq("public_id", p.ID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update pick query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update pick public_id=%s: %w", p.ID, err)
	}

	return nil
}

func pickBaseSelect() *qb.SelectBuilder {
	return qb.Select("*").From("weekly_picks").
		Where(qb.IsNull("deleted_at"))
}

func (r *PickRepository) getPick(ctx context.Context, query string, args []any, op string) (pick.WeeklyPick, bool, error) {
	var row weeklyPickTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return pick.WeeklyPick{}, false, nil
		}
		return pick.WeeklyPick{}, false, fmt.Errorf("%s: %w", op, err)
	}

	return pickFromRow(row), true, nil
}

func (r *PickRepository) selectPicks(ctx context.Context, query string, args []any, op string) ([]pick.WeeklyPick, error) {
	var rows []weeklyPickTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]pick.WeeklyPick, 0, len(rows))
	for _, row := range rows {
		out = append(out, pickFromRow(row))
	}

	return out, nil
}

func pickInsertModelFrom(p pick.WeeklyPick) weeklyPickInsertModel {
	return weeklyPickInsertModel{
		PublicID:    p.ID,
		LeagueID:    p.LeagueID,
		UserID:      p.UserID,
		EpisodeID:   p.EpisodeID,
		CastawayID:  p.CastawayID,
		State:       string(p.State),
		SubmittedAt: optionalTime(p.SubmittedAt),
		LockedAt:    optionalTime(p.LockedAt),
		Points:      optionalInt(p.Points),
		ScoredAt:    optionalTime(p.ScoredAt),
	}
}

func pickFromRow(row weeklyPickTableModel) pick.WeeklyPick {
	return pick.WeeklyPick{
		ID:          row.PublicID,
		LeagueID:    row.LeagueID,
		UserID:      row.UserID,
		EpisodeID:   row.EpisodeID,
		CastawayID:  row.CastawayID,
		State:       pick.State(row.State),
		SubmittedAt: row.SubmittedAt,
		LockedAt:    row.LockedAt,
		Points:      row.Points,
		ScoredAt:    row.ScoredAt,
		UpdatedAt:   row.UpdatedAt,
	}
}
