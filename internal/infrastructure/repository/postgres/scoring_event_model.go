package postgres

import "time"

type scoringEventTableModel struct {
	ID         int64      `db:"id"`
	PublicID   string     `db:"public_id"`
	EpisodeID  string     `db:"episode_public_id"`
	CastawayID string     `db:"castaway_public_id"`
	RuleID     string     `db:"rule_public_id"`
	RuleCode   string     `db:"rule_code"`
	Quantity   int        `db:"quantity"`
	RulePoints int        `db:"rule_points"`
	RecordedBy string     `db:"recorded_by"`
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at"`
	DeletedAt  *time.Time `db:"deleted_at"`
}

type scoringEventInsertModel struct {
	PublicID   string    `db:"public_id"`
	EpisodeID  string    `db:"episode_public_id"`
	CastawayID string    `db:"castaway_public_id"`
	RuleID     string    `db:"rule_public_id"`
	RuleCode   string    `db:"rule_code"`
	Quantity   int       `db:"quantity"`
	RulePoints int       `db:"rule_points"`
	RecordedBy string    `db:"recorded_by"`
	CreatedAt  time.Time `db:"created_at"`
}
