package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/fantasy-survivor/internal/domain/scoringrule"
	qb "github.com/riskibarqy/fantasy-survivor/internal/platform/querybuilder"
)

type ScoringRuleRepository struct {
	db *sqlx.DB
}

func NewScoringRuleRepository(db *sqlx.DB) *ScoringRuleRepository {
	return &ScoringRuleRepository{db: db}
}

func (r *ScoringRuleRepository) GetByID(ctx context.Context, id string) (scoringrule.Rule, bool, error) {
	query, args, err := qb.Select("*").From("scoring_rules").
		Where(
			qb.Eq("public_id", id),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return scoringrule.Rule{}, false, fmt.Errorf("build get scoring rule by id query: %w", err)
	}

	var row scoringRuleTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return scoringrule.Rule{}, false, nil
		}
		return scoringrule.Rule{}, false, fmt.Errorf("get scoring rule by id: %w", err)
	}

	return scoringRuleFromRow(row), true, nil
}

func (r *ScoringRuleRepository) GetByIDs(ctx context.Context, ids []string) (map[string]scoringrule.Rule, error) {
	out := make(map[string]scoringrule.Rule, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	values := make([]any, 0, len(ids))
	for _, id := range ids {
		values = append(values, id)
	}

	query, args, err := qb.Select("*").From("scoring_rules").
		Where(
			qb.In("public_id", values),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select scoring rules by ids query: %w", err)
	}

	var rows []scoringRuleTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select scoring rules by ids: %w", err)
	}

	for _, row := range rows {
		rule := scoringRuleFromRow(row)
		out[rule.ID] = rule
	}

	return out, nil
}

func (r *ScoringRuleRepository) GetActiveByCode(ctx context.Context, seasonID, code string) (scoringrule.Rule, bool, error) {
	query, args, err := qb.Select("*").From("scoring_rules").
		Where(
			qb.Eq("season_public_id", seasonID),
			qb.Eq("code", code),
			qb.Eq("is_active", true),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return scoringrule.Rule{}, false, fmt.Errorf("build get active scoring rule by code query: %w", err)
	}

	var row scoringRuleTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return scoringrule.Rule{}, false, nil
		}
		return scoringrule.Rule{}, false, fmt.Errorf("get active scoring rule by code: %w", err)
	}

	return scoringRuleFromRow(row), true, nil
}

func (r *ScoringRuleRepository) ListActiveBySeason(ctx context.Context, seasonID, category string) ([]scoringrule.Rule, error) {
	builder := qb.Select("*").From("scoring_rules").
		Where(
			qb.Eq("season_public_id", seasonID),
			qb.Eq("is_active", true),
			qb.IsNull("deleted_at"),
		)
	if category != "" {
		builder = builder.Where(qb.Eq("category", category))
	}

	query, args, err := builder.OrderBy("sort_order", "code").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select active scoring rules query: %w", err)
	}

	var rows []scoringRuleTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select active scoring rules: %w", err)
	}

	out := make([]scoringrule.Rule, 0, len(rows))
	for _, row := range rows {
		out = append(out, scoringRuleFromRow(row))
	}

	return out, nil
}

func (r *ScoringRuleRepository) Insert(ctx context.Context, rule scoringrule.Rule) error {
	insertModel := scoringRuleInsertModel{
		PublicID:  rule.ID,
		SeasonID:  rule.SeasonID,
		Code:      rule.Code,
		Name:      rule.Name,
		Category:  rule.Category,
		Points:    rule.Points,
		SortOrder: rule.SortOrder,
		IsActive:  rule.IsActive,
	}

	query, args, err := qb.InsertModel("scoring_rules", insertModel, "")
	if err != nil {
		return fmt.Errorf("build insert scoring rule query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err, "scoring_rules_active_code_key") {
			return scoringrule.ErrDuplicateCode
		}
		return fmt.Errorf("insert scoring rule public_id=%s: %w", rule.ID, err)
	}

	return nil
}

func (r *ScoringRuleRepository) Update(ctx context.Context, rule scoringrule.Rule) error {
	query, args, err := qb.Update("scoring_rules").
		Set("name", rule.Name).
		Set("category", rule.Category).
		Set("points", rule.Points).
		Set("sort_order", rule.SortOrder).
		Set("is_active", rule.IsActive).
		Where(
			qb.Eq("public_id", rule.ID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update scoring rule query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update scoring rule public_id=%s: %w", rule.ID, err)
	}

	return nil
}

func scoringRuleFromRow(row scoringRuleTableModel) scoringrule.Rule {
	return scoringrule.Rule{
		ID:        row.PublicID,
		SeasonID:  row.SeasonID,
		Code:      row.Code,
		Name:      row.Name,
		Category:  row.Category,
		Points:    row.Points,
		SortOrder: row.SortOrder,
		IsActive:  row.IsActive,
	}
}
