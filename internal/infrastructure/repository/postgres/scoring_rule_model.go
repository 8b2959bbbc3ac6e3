package postgres

import "time"

type scoringRuleTableModel struct {
	ID        int64      `db:"id"`
	PublicID  string     `db:"public_id"`
	SeasonID  string     `db:"season_public_id"`
	Code      string     `db:"code"`
	Name      string     `db:"name"`
	Category  string     `db:"category"`
	Points    int        `db:"points"`
	SortOrder int        `db:"sort_order"`
	IsActive  bool       `db:"is_active"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}

type scoringRuleInsertModel struct {
	PublicID  string `db:"public_id"`
	SeasonID  string `db:"season_public_id"`
	Code      string `db:"code"`
	Name      string `db:"name"`
	Category  string `db:"category"`
	Points    int    `db:"points"`
	SortOrder int    `db:"sort_order"`
	IsActive  bool   `db:"is_active"`
}
