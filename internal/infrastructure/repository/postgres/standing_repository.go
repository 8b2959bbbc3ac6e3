package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/fantasy-survivor/internal/domain/standing"
	qb "github.com/riskibarqy/fantasy-survivor/internal/platform/querybuilder"
)

type StandingRepository struct {
	db *sqlx.DB
}

func NewStandingRepository(db *sqlx.DB) *StandingRepository {
	return &StandingRepository{db: db}
}

func (r *StandingRepository) ListByLeague(ctx context.Context, leagueID string) ([]standing.Standing, error) {
	query, args, err := qb.Select("*").From("standings").
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("rank", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list standings query: %w", err)
	}

	var rows []standingTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list standings: %w", err)
	}

	out := make([]standing.Standing, 0, len(rows))
	for _, row := range rows {
		out = append(out, standing.Standing{
			LeagueID:       row.LeagueID,
			UserID:         row.UserID,
			DisplayName:    row.DisplayName,
			Rank:           row.Rank,
			Points:         row.Points,
			ScoredPicks:    row.ScoredPicks,
			NegativeEvents: row.NegativeEvents,
			JoinedAt:       row.JoinedAt,
			CalculatedAt:   row.CalculatedAt,
		})
	}

	return out, nil
}

// ReplaceByLeague clears the league's table and writes the new ranking in one
// transaction, so concurrent readers see either the old table or the new one.
func (r *StandingRepository) ReplaceByLeague(ctx context.Context, leagueID string, rows []standing.Standing) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace standings: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	clearQuery, clearArgs, err := qb.Update("standings").
		SetExpr("deleted_at", "NOW()").
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build clear standings query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, clearQuery, clearArgs...); err != nil {
		return fmt.Errorf("clear standings: %w", err)
	}

	for _, row := range rows {
		insertModel := standingInsertModel{
			LeagueID:       leagueID,
			UserID:         row.UserID,
			DisplayName:    row.DisplayName,
			Rank:           row.Rank,
			Points:         row.Points,
			ScoredPicks:    row.ScoredPicks,
			NegativeEvents: row.NegativeEvents,
			JoinedAt:       row.JoinedAt,
			CalculatedAt:   row.CalculatedAt,
		}
		query, args, err := qb.InsertModel("standings", insertModel, `ON CONFLICT (league_public_id, user_id) WHERE deleted_at IS NULL
DO UPDATE SET
    display_name = EXCLUDED.display_name,
    rank = EXCLUDED.rank,
    points = EXCLUDED.points,
    scored_picks = EXCLUDED.scored_picks,
    negative_events = EXCLUDED.negative_events,
    joined_at = EXCLUDED.joined_at,
    calculated_at = EXCLUDED.calculated_at,
    deleted_at = NULL`)
		if err != nil {
			return fmt.Errorf("build upsert standing query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert standing user=%s: %w", row.UserID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace standings tx: %w", err)
	}
	return nil
}
