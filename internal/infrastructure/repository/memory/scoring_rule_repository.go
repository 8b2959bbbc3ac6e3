package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/fantasy-survivor/internal/domain/scoringrule"
)

type ScoringRuleRepository struct {
	mu    sync.RWMutex
	items map[string]scoringrule.Rule
}

func NewScoringRuleRepository(rules []scoringrule.Rule) *ScoringRuleRepository {
	items := make(map[string]scoringrule.Rule, len(rules))
	for _, r := range rules {
		items[r.ID] = r
	}

	return &ScoringRuleRepository{items: items}
}

func (r *ScoringRuleRepository) GetByID(_ context.Context, ruleID string) (scoringrule.Rule, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rule, ok := r.items[ruleID]
	if !ok {
		return scoringrule.Rule{}, false, nil
	}

	return rule, true, nil
}

func (r *ScoringRuleRepository) GetByIDs(_ context.Context, ruleIDs []string) (map[string]scoringrule.Rule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]scoringrule.Rule, len(ruleIDs))
	for _, id := range ruleIDs {
		if rule, ok := r.items[id]; ok {
			out[id] = rule
		}
	}

	return out, nil
}

func (r *ScoringRuleRepository) GetActiveByCode(_ context.Context, seasonID, code string) (scoringrule.Rule, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	normalized := scoringrule.NormalizeCode(code)
	for _, rule := range r.items {
		if rule.SeasonID == seasonID && rule.IsActive && scoringrule.NormalizeCode(rule.Code) == normalized {
			return rule, true, nil
		}
	}

	return scoringrule.Rule{}, false, nil
}

func (r *ScoringRuleRepository) ListActiveBySeason(_ context.Context, seasonID, category string) ([]scoringrule.Rule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]scoringrule.Rule, 0)
	for _, rule := range r.items {
		if rule.SeasonID != seasonID || !rule.IsActive {
			continue
		}
		if category != "" && rule.Category != category {
			continue
		}
		out = append(out, rule)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].Code < out[j].Code
	})

	return out, nil
}

func (r *ScoringRuleRepository) Insert(_ context.Context, rule scoringrule.Rule) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rule.IsActive {
		normalized := scoringrule.NormalizeCode(rule.Code)
		for _, existing := range r.items {
			if existing.SeasonID == rule.SeasonID && existing.IsActive &&
				scoringrule.NormalizeCode(existing.Code) == normalized {
				return scoringrule.ErrDuplicateCode
			}
		}
	}
	r.items[rule.ID] = rule

	return nil
}

func (r *ScoringRuleRepository) Update(_ context.Context, rule scoringrule.Rule) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[rule.ID] = rule
	return nil
}
