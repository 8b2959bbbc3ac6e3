package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/fantasy-survivor/internal/domain/scoringevent"
	qb "github.com/riskibarqy/fantasy-survivor/internal/platform/querybuilder"
)

type ScoringEventRepository struct {
	db *sqlx.DB
}

func NewScoringEventRepository(db *sqlx.DB) *ScoringEventRepository {
	return &ScoringEventRepository{db: db}
}

func (r *ScoringEventRepository) ListByEpisode(ctx context.Context, episodeID string) ([]scoringevent.Event, error) {
	query, args, err := qb.Select("*").From("scoring_events").
		Where(
			qb.Eq("episode_public_id", episodeID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("castaway_public_id", "rule_code", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select scoring events by episode query: %w", err)
	}

	return r.selectEvents(ctx, query, args, "select scoring events by episode")
}

func (r *ScoringEventRepository) ListByEpisodes(ctx context.Context, episodeIDs []string) ([]scoringevent.Event, error) {
	if len(episodeIDs) == 0 {
		return []scoringevent.Event{}, nil
	}

	values := make([]any, 0, len(episodeIDs))
	for _, id := range episodeIDs {
		values = append(values, id)
	}

	query, args, err := qb.Select("*").From("scoring_events").
		Where(
			qb.In("episode_public_id", values),
			qb.IsNull("deleted_at"),
		).
		OrderBy("episode_public_id", "castaway_public_id", "rule_code", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select scoring events by episodes query: %w", err)
	}

	return r.selectEvents(ctx, query, args, "select scoring events by episodes")
}

func (r *ScoringEventRepository) ListByCastaway(ctx context.Context, castawayID string) ([]scoringevent.Event, error) {
	query, args, err := qb.Select("*").From("scoring_events").
		Where(
			qb.Eq("castaway_public_id", castawayID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("episode_public_id", "rule_code", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select scoring events by castaway query: %w", err)
	}

	return r.selectEvents(ctx, query, args, "select scoring events by castaway")
}

// Upsert replaces the live row for the event's (episode, castaway, rule)
// tuple. The conflict target is the partial unique index on live rows, so a
// previously deleted tuple inserts a fresh row instead of resurrecting one.
func (r *ScoringEventRepository) Upsert(ctx context.Context, event scoringevent.Event) error {
	insertModel := scoringEventInsertModel{
		PublicID:   event.ID,
		EpisodeID:  event.EpisodeID,
		CastawayID: event.CastawayID,
		RuleID:     event.RuleID,
		RuleCode:   event.RuleCode,
		Quantity:   event.Quantity,
		RulePoints: event.RulePoints,
		RecordedBy: event.RecordedBy,
		CreatedAt:  event.CreatedAt,
	}

	query, args, err := qb.InsertModel("scoring_events", insertModel, `ON CONFLICT (episode_public_id, castaway_public_id, rule_public_id) WHERE deleted_at IS NULL
DO UPDATE SET
    public_id = EXCLUDED.public_id,
    rule_code = EXCLUDED.rule_code,
    quantity = EXCLUDED.quantity,
    rule_points = EXCLUDED.rule_points,
    recorded_by = EXCLUDED.recorded_by,
    created_at = EXCLUDED.created_at`)
	if err != nil {
		return fmt.Errorf("build upsert scoring event query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert scoring event episode=%s castaway=%s rule=%s: %w",
			event.EpisodeID, event.CastawayID, event.RuleID, err)
	}

	return nil
}

func (r *ScoringEventRepository) DeleteByEpisodeAndTuple(ctx context.Context, episodeID, castawayID, ruleID string) error {
	query, args, err := qb.Update("scoring_events").
		SetExpr("deleted_at", "NOW()").
		Where(
			qb.Eq("episode_public_id", episodeID),
			qb.Eq("castaway_public_id", castawayID),
			qb.Eq("rule_public_id", ruleID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete scoring event query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete scoring event episode=%s castaway=%s rule=%s: %w",
			episodeID, castawayID, ruleID, err)
	}

	return nil
}

func (r *ScoringEventRepository) selectEvents(ctx context.Context, query string, args []any, op string) ([]scoringevent.Event, error) {
	var rows []scoringEventTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]scoringevent.Event, 0, len(rows))
	for _, row := range rows {
		out = append(out, scoringEventFromRow(row))
	}

	return out, nil
}

func scoringEventFromRow(row scoringEventTableModel) scoringevent.Event {
	return scoringevent.Event{
		ID:         row.PublicID,
		EpisodeID:  row.EpisodeID,
		CastawayID: row.CastawayID,
		RuleID:     row.RuleID,
		RuleCode:   row.RuleCode,
		Quantity:   row.Quantity,
		RulePoints: row.RulePoints,
		RecordedBy: row.RecordedBy,
		CreatedAt:  row.CreatedAt,
	}
}
