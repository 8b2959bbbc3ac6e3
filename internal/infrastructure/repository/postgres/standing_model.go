package postgres

import "time"

type standingTableModel struct {
	ID             int64      `db:"id"`
	LeagueID       string     `db:"league_public_id"`
	UserID         string     `db:"user_id"`
	DisplayName    string     `db:"display_name"`
	Rank           int        `db:"rank"`
	Points         int        `db:"points"`
	ScoredPicks    int        `db:"scored_picks"`
	NegativeEvents int        `db:"negative_events"`
	JoinedAt       time.Time  `db:"joined_at"`
	CalculatedAt   time.Time  `db:"calculated_at"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
	DeletedAt      *time.Time `db:"deleted_at"`
}

type standingInsertModel struct {
	LeagueID       string    `db:"league_public_id"`
	UserID         string    `db:"user_id"`
	DisplayName    string    `db:"display_name"`
	Rank           int       `db:"rank"`
	Points         int       `db:"points"`
	ScoredPicks    int       `db:"scored_picks"`
	NegativeEvents int       `db:"negative_events"`
	JoinedAt       time.Time `db:"joined_at"`
	CalculatedAt   time.Time `db:"calculated_at"`
}
