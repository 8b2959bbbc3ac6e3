package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/fantasy-survivor/internal/domain/league"
	qb "github.com/riskibarqy/fantasy-survivor/internal/platform/querybuilder"
)

type LeagueRepository struct {
	db *sqlx.DB
}

func NewLeagueRepository(db *sqlx.DB) *LeagueRepository {
	return &LeagueRepository{db: db}
}

func (r *LeagueRepository) GetByID(ctx context.Context, leagueID string) (league.League, bool, error) {
	query, args, err := qb.Select("*").From("leagues").
		Where(
			qb.Eq("public_id", leagueID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return league.League{}, false, fmt.Errorf("build get league by id query: %w", err)
	}

	var row leagueTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return league.League{}, false, nil
		}
		return league.League{}, false, fmt.Errorf("get league by id: %w", err)
	}

	return leagueFromRow(row), true, nil
}

func (r *LeagueRepository) GetByInviteCode(ctx context.Context, inviteCode string) (league.League, bool, error) {
	query, args, err := qb.Select("*").From("leagues").
		Where(
			qb.Eq("invite_code", inviteCode),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return league.League{}, false, fmt.Errorf("build get league by invite code query: %w", err)
	}

	var row leagueTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return league.League{}, false, nil
		}
		return league.League{}, false, fmt.Errorf("get league by invite code: %w", err)
	}

	return leagueFromRow(row), true, nil
}

func (r *LeagueRepository) ListBySeason(ctx context.Context, seasonID string) ([]league.League, error) {
	query, args, err := qb.Select("*").From("leagues").
		Where(
			qb.Eq("season_public_id", seasonID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("created_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select leagues by season query: %w", err)
	}

	var rows []leagueTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select leagues by season: %w", err)
	}

	out := make([]league.League, 0, len(rows))
	for _, row := range rows {
		out = append(out, leagueFromRow(row))
	}

	return out, nil
}

func (r *LeagueRepository) ListByUser(ctx context.Context, userID string) ([]league.League, error) {
	query, args, err := qb.Select("l.*").From("leagues l").
		Where(
			qb.Expr("l.public_id IN (SELECT league_public_id FROM league_members WHERE user_id = ? AND deleted_at IS NULL)", userID),
			qb.IsNull("l.deleted_at"),
		).
		OrderBy("l.created_at", "l.id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select leagues by user query: %w", err)
	}

	var rows []leagueTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select leagues by user: %w", err)
	}

	out := make([]league.League, 0, len(rows))
	for _, row := range rows {
		out = append(out, leagueFromRow(row))
	}

	return out, nil
}

func (r *LeagueRepository) Insert(ctx context.Context, l league.League) error {
	insertModel := leagueInsertModel{
		PublicID:    l.ID,
		SeasonID:    l.SeasonID,
		Name:        l.Name,
		OwnerUserID: l.OwnerUserID,
		InviteCode:  l.InviteCode,
		IsPublic:    l.IsPublic,
		CreatedAt:   l.CreatedAt.UTC(),
	}

	query, args, err := qb.InsertModel("leagues", insertModel, `ON CONFLICT (public_id)
DO UPDATE SET
    season_public_id = EXCLUDED.season_public_id,
    name = EXCLUDED.name,
    owner_user_id = EXCLUDED.owner_user_id,
    invite_code = EXCLUDED.invite_code,
    is_public = EXCLUDED.is_public,
    deleted_at = NULL`)
	if err != nil {
		return fmt.Errorf("build upsert league query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert league public_id=%s: %w", l.ID, err)
	}

	return nil
}

func (r *LeagueRepository) GetMember(ctx context.Context, leagueID, userID string) (league.Member, bool, error) {
	query, args, err := qb.Select("*").From("league_members").
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.Eq("user_id", userID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return league.Member{}, false, fmt.Errorf("build get league member query: %w", err)
	}

	var row leagueMemberTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return league.Member{}, false, nil
		}
		return league.Member{}, false, fmt.Errorf("get league member: %w", err)
	}

	return leagueMemberFromRow(row), true, nil
}

func (r *LeagueRepository) ListMembers(ctx context.Context, leagueID string) ([]league.Member, error) {
	query, args, err := qb.Select("*").From("league_members").
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("joined_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select league members query: %w", err)
	}

	var rows []leagueMemberTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select league members: %w", err)
	}

	out := make([]league.Member, 0, len(rows))
	for _, row := range rows {
		out = append(out, leagueMemberFromRow(row))
	}

	return out, nil
}

func (r *LeagueRepository) InsertMember(ctx context.Context, m league.Member) error {
	insertModel := leagueMemberInsertModel{
		LeagueID:    m.LeagueID,
		UserID:      m.UserID,
		DisplayName: m.DisplayName,
		Role:        string(m.Role),
		JoinedAt:    m.JoinedAt.UTC(),
	}

	query, args, err := qb.InsertModel("league_members", insertModel, "")
	if err != nil {
		return fmt.Errorf("build insert league member query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err, "league_members_league_user_key") {
			return league.ErrDuplicateMember
		}
		return fmt.Errorf("insert league member league=%s user=%s: %w", m.LeagueID, m.UserID, err)
	}

	return nil
}

func leagueFromRow(row leagueTableModel) league.League {
	return league.League{
		ID:          row.PublicID,
		SeasonID:    row.SeasonID,
		Name:        row.Name,
		OwnerUserID: row.OwnerUserID,
		InviteCode:  row.InviteCode,
		IsPublic:    row.IsPublic,
		CreatedAt:   row.CreatedAt,
	}
}

func leagueMemberFromRow(row leagueMemberTableModel) league.Member {
	return league.Member{
		LeagueID:    row.LeagueID,
		UserID:      row.UserID,
		DisplayName: row.DisplayName,
		Role:        league.Role(row.Role),
		JoinedAt:    row.JoinedAt,
	}
}
