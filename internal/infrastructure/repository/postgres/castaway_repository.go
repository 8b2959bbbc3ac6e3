package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/fantasy-survivor/internal/domain/castaway"
	qb "github.com/riskibarqy/fantasy-survivor/internal/platform/querybuilder"
)

type CastawayRepository struct {
	db *sqlx.DB
}

func NewCastawayRepository(db *sqlx.DB) *CastawayRepository {
	return &CastawayRepository{db: db}
}

func (r *CastawayRepository) GetByID(ctx context.Context, castawayID string) (castaway.Castaway, bool, error) {
	query, args, err := qb.Select("*").From("castaways").
		Where(
			qb.Eq("public_id", castawayID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return castaway.Castaway{}, false, fmt.Errorf("build get castaway by id query: %w", err)
	}

	var row castawayTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return castaway.Castaway{}, false, nil
		}
		return castaway.Castaway{}, false, fmt.Errorf("get castaway by id: %w", err)
	}

	return castawayFromRow(row), true, nil
}

func (r *CastawayRepository) GetByIDs(ctx context.Context, castawayIDs []string) ([]castaway.Castaway, error) {
	if len(castawayIDs) == 0 {
		return []castaway.Castaway{}, nil
	}

	ids := make([]any, 0, len(castawayIDs))
	for _, id := range castawayIDs {
		ids = append(ids, id)
	}

	query, args, err := qb.Select("*").From("castaways").
		Where(
			qb.In("public_id", ids),
			qb.IsNull("deleted_at"),
		).
		OrderBy("name").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select castaways by ids query: %w", err)
	}

	var rows []castawayTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select castaways by ids: %w", err)
	}

	out := make([]castaway.Castaway, 0, len(rows))
	for _, row := range rows {
		out = append(out, castawayFromRow(row))
	}

	return out, nil
}

func (r *CastawayRepository) ListBySeason(ctx context.Context, seasonID string) ([]castaway.Castaway, error) {
	query, args, err := qb.Select("*").From("castaways").
		Where(
			qb.Eq("season_public_id", seasonID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("tribe", "name").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select castaways by season query: %w", err)
	}

	var rows []castawayTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select castaways by season: %w", err)
	}

	out := make([]castaway.Castaway, 0, len(rows))
	for _, row := range rows {
		out = append(out, castawayFromRow(row))
	}

	return out, nil
}

func (r *CastawayRepository) Insert(ctx context.Context, c castaway.Castaway) error {
	insertModel := castawayInsertModel{
		PublicID: c.ID,
		SeasonID: c.SeasonID,
		Name:     c.Name,
		Tribe:    c.Tribe,
		Status:   string(c.Status),
	}

	query, args, err := qb.InsertModel("castaways", insertModel, `ON CONFLICT (public_id)
DO UPDATE SET
    season_public_id = EXCLUDED.season_public_id,
    name = EXCLUDED.name,
    tribe = EXCLUDED.tribe,
    status = EXCLUDED.status,
    deleted_at = NULL`)
	if err != nil {
		return fmt.Errorf("build upsert castaway query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert castaway public_id=%s: %w", c.ID, err)
	}

	return nil
}

func (r *CastawayRepository) UpdateStatus(ctx context.Context, castawayID string, status castaway.Status) error {
	query, args, err := qb.Update("castaways").
		Set("status", string(status)).
		Where(
			qb.Eq("public_id", castawayID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update castaway status query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update castaway status public_id=%s: %w", castawayID, err)
	}

	return nil
}

func castawayFromRow(row castawayTableModel) castaway.Castaway {
	return castaway.Castaway{
		ID:       row.PublicID,
		SeasonID: row.SeasonID,
		Name:     row.Name,
		Tribe:    row.Tribe,
		Status:   castaway.Status(row.Status),
	}
}
