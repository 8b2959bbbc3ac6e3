package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/fantasy-survivor/internal/domain/episode"
	qb "github.com/riskibarqy/fantasy-survivor/internal/platform/querybuilder"
)

type EpisodeRepository struct {
	db *sqlx.DB
}

func NewEpisodeRepository(db *sqlx.DB) *EpisodeRepository {
	return &EpisodeRepository{db: db}
}

func (r *EpisodeRepository) GetByID(ctx context.Context, episodeID string) (episode.Episode, bool, error) {
	query, args, err := qb.Select("*").From("episodes").
		Where(
			qb.Eq("public_id", episodeID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return episode.Episode{}, false, fmt.Errorf("build get episode by id query: %w", err)
	}

	var row episodeTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return episode.Episode{}, false, nil
		}
		return episode.Episode{}, false, fmt.Errorf("get episode by id: %w", err)
	}

	return episodeFromRow(row), true, nil
}

func (r *EpisodeRepository) ListBySeason(ctx context.Context, seasonID string) ([]episode.Episode, error) {
	query, args, err := qb.Select("*").From("episodes").
		Where(
			qb.Eq("season_public_id", seasonID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("number").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select episodes by season query: %w", err)
	}

	var rows []episodeTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select episodes by season: %w", err)
	}

	out := make([]episode.Episode, 0, len(rows))
	for _, row := range rows {
		out = append(out, episodeFromRow(row))
	}

	return out, nil
}

func (r *EpisodeRepository) Insert(ctx context.Context, e episode.Episode) error {
	insertModel := episodeInsertModel{
		PublicID:    e.ID,
		SeasonID:    e.SeasonID,
		Number:      e.Number,
		Title:       e.Title,
		AirsAt:      e.AirsAt.UTC(),
		PicksLockAt: e.PicksLockAt.UTC(),
		IsFinal:     e.IsFinal,
	}

	query, args, err := qb.InsertModel("episodes", insertModel, `ON CONFLICT (public_id)
DO UPDATE SET
    season_public_id = EXCLUDED.season_public_id,
    number = EXCLUDED.number,
    title = EXCLUDED.title,
    airs_at = EXCLUDED.airs_at,
    picks_lock_at = EXCLUDED.picks_lock_at,
    is_final = EXCLUDED.is_final,
    deleted_at = NULL`)
	if err != nil {
		return fmt.Errorf("build upsert episode query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert episode public_id=%s: %w", e.ID, err)
	}

	return nil
}

func (r *EpisodeRepository) MarkFinal(ctx context.Context, episodeID string) error {
	query, args, err := qb.Update("episodes").
		Set("is_final", true).
		Where(
			qb.Eq("public_id", episodeID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build mark episode final query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("mark episode final public_id=%s: %w", episodeID, err)
	}

	return nil
}

func episodeFromRow(row episodeTableModel) episode.Episode {
	return episode.Episode{
		ID:          row.PublicID,
		SeasonID:    row.SeasonID,
		Number:      row.Number,
		Title:       row.Title,
		AirsAt:      row.AirsAt,
		PicksLockAt: row.PicksLockAt,
		IsFinal:     row.IsFinal,
	}
}
