package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/fantasy-survivor/internal/domain/roster"
	qb "github.com/riskibarqy/fantasy-survivor/internal/platform/querybuilder"
)

type RosterRepository struct {
	db *sqlx.DB
}

func NewRosterRepository(db *sqlx.DB) *RosterRepository {
	return &RosterRepository{db: db}
}

func (r *RosterRepository) GetByID(ctx context.Context, entryID string) (roster.Entry, bool, error) {
	query, args, err := qb.Select("*").From("roster_entries").
		Where(
			qb.Eq("public_id", entryID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return roster.Entry{}, false, fmt.Errorf("build get roster entry by id query: %w", err)
	}

	var row rosterEntryTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return roster.Entry{}, false, nil
		}
		return roster.Entry{}, false, fmt.Errorf("get roster entry by id: %w", err)
	}

	return rosterEntryFromRow(row), true, nil
}

func (r *RosterRepository) ListActiveByMember(ctx context.Context, leagueID, userID string) ([]roster.Entry, error) {
	query, args, err := rosterMemberSelect(leagueID, userID).
		Where(qb.IsNull("dropped_at")).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select active roster entries query: %w", err)
	}

	return r.selectEntries(ctx, query, args, "select active roster entries")
}

func (r *RosterRepository) ListByMember(ctx context.Context, leagueID, userID string) ([]roster.Entry, error) {
	query, args, err := rosterMemberSelect(leagueID, userID).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select roster entries query: %w", err)
	}

	return r.selectEntries(ctx, query, args, "select roster entries")
}

func rosterMemberSelect(leagueID, userID string) *qb.SelectBuilder {
	return qb.Select("*").From("roster_entries").
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.Eq("user_id", userID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("draft_rank", "drafted_at", "id")
}

func (r *RosterRepository) selectEntries(ctx context.Context, query string, args []any, op string) ([]roster.Entry, error) {
	var rows []rosterEntryTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]roster.Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, rosterEntryFromRow(row))
	}

	return out, nil
}

func (r *RosterRepository) Insert(ctx context.Context, e roster.Entry) error {
	insertModel := rosterEntryInsertModel{
		PublicID:   e.ID,
		LeagueID:   e.LeagueID,
		UserID:     e.UserID,
		CastawayID: e.CastawayID,
		DraftRank:  e.DraftRank,
		DraftedAt:  e.DraftedAt.UTC(),
		DroppedAt:  optionalTime(e.DroppedAt),
	}

	query, args, err := qb.InsertModel("roster_entries", insertModel, "")
	if err != nil {
		return fmt.Errorf("build insert roster entry query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err, "roster_entries_active_castaway_key") {
			return roster.ErrDuplicateCastaway
		}
		return fmt.Errorf("insert roster entry public_id=%s: %w", e.ID, err)
	}

	return nil
}

func (r *RosterRepository) Drop(ctx context.Context, entryID string, droppedAt time.Time) error {
	query, args, err := qb.Update("roster_entries").
		Set("dropped_at", droppedAt.UTC()).
		Where(
			qb.Eq("public_id", entryID),
			qb.IsNull("dropped_at"),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build drop roster entry query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("drop roster entry public_id=%s: %w", entryID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("drop roster entry rows affected: %w", err)
	}
	if affected == 0 {
		// Either the entry is unknown or it was dropped before. Distinguish so
		// a second drop is reported as such.
		if _, exists, err := r.GetByID(ctx, entryID); err != nil {
			return err
		} else if exists {
			return roster.ErrEntryAlreadyDropped
		}
	}

	return nil
}

func (r *RosterRepository) UpdateRanks(ctx context.Context, leagueID, userID string, rankByEntryID map[string]int) error {
	if len(rankByEntryID) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin roster rank tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for entryID, rank := range rankByEntryID {
		query, args, err := qb.Update("roster_entries").
			Set("draft_rank", rank).
			Where(
				qb.Eq("public_id", entryID),
				qb.Eq("league_public_id", leagueID),
				qb.Eq("user_id", userID),
				qb.IsNull("deleted_at"),
			).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build update roster rank query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("update roster rank public_id=%s: %w", entryID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit roster rank tx: %w", err)
	}

	return nil
}

func rosterEntryFromRow(row rosterEntryTableModel) roster.Entry {
	return roster.Entry{
		ID:         row.PublicID,
		LeagueID:   row.LeagueID,
		UserID:     row.UserID,
		CastawayID: row.CastawayID,
		DraftRank:  row.DraftRank,
		DraftedAt:  row.DraftedAt,
		DroppedAt:  row.DroppedAt,
	}
}
