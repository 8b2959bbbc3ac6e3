package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/fantasy-survivor/internal/infrastructure/repository/memory"
)

// BootstrapSeed loads the demo season into an empty database. It is a no-op
// once any season row exists, so restarting the API never duplicates data.
func BootstrapSeed(ctx context.Context, db *sqlx.DB) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM seasons WHERE deleted_at IS NULL`); err != nil {
		return fmt.Errorf("count seasons for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, s := range memory.SeedSeasons() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO seasons (public_id, name, number, is_active, starts_at)
VALUES (:public_id, :name, :number, :is_active, :starts_at)
ON CONFLICT (public_id) DO NOTHING`, map[string]any{
			"public_id": s.ID,
			"name":      s.Name,
			"number":    s.Number,
			"is_active": s.IsActive,
			"starts_at": s.StartsAt.UTC(),
		})
		if err != nil {
			return fmt.Errorf("bind seed season %s query: %w", s.ID, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed season %s: %w", s.ID, err)
		}
	}

	for _, ep := range memory.SeedEpisodes() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO episodes (public_id, season_public_id, number, title, airs_at, picks_lock_at, is_final)
VALUES (:public_id, :season_public_id, :number, :title, :airs_at, :picks_lock_at, FALSE)
ON CONFLICT (public_id) DO NOTHING`, map[string]any{
			"public_id":        ep.ID,
			"season_public_id": ep.SeasonID,
			"number":           ep.Number,
			"title":            ep.Title,
			"airs_at":          ep.AirsAt.UTC(),
			"picks_lock_at":    ep.PicksLockAt.UTC(),
		})
		if err != nil {
			return fmt.Errorf("bind seed episode %s query: %w", ep.ID, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed episode %s: %w", ep.ID, err)
		}
	}

	for _, c := range memory.SeedCastaways() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO castaways (public_id, season_public_id, name, tribe, status)
VALUES (:public_id, :season_public_id, :name, :tribe, :status)
ON CONFLICT (public_id) DO NOTHING`, map[string]any{
			"public_id":        c.ID,
			"season_public_id": c.SeasonID,
			"name":             c.Name,
			"tribe":            c.Tribe,
			"status":           string(c.Status),
		})
		if err != nil {
			return fmt.Errorf("bind seed castaway %s query: %w", c.ID, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed castaway %s: %w", c.ID, err)
		}
	}

	for _, rule := range memory.SeedScoringRules() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO scoring_rules (public_id, season_public_id, code, name, category, points, sort_order, is_active)
VALUES (:public_id, :season_public_id, :code, :name, :category, :points, :sort_order, :is_active)
ON CONFLICT (public_id) DO NOTHING`, map[string]any{
			"public_id":        rule.ID,
			"season_public_id": rule.SeasonID,
			"code":             rule.Code,
			"name":             rule.Name,
			"category":         rule.Category,
			"points":           rule.Points,
			"sort_order":       rule.SortOrder,
			"is_active":        rule.IsActive,
		})
		if err != nil {
			return fmt.Errorf("bind seed scoring rule %s query: %w", rule.ID, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed scoring rule %s: %w", rule.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}

	return nil
}
