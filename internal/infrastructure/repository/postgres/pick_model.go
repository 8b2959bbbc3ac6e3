package postgres

import "time"

type weeklyPickTableModel struct {
	ID          int64      `db:"id"`
	PublicID    string     `db:"public_id"`
	LeagueID    string     `db:"league_public_id"`
	UserID      string     `db:"user_id"`
	EpisodeID   string     `db:"episode_public_id"`
	CastawayID  *string    `db:"castaway_public_id"`
	State       string     `db:"state"`
	SubmittedAt *time.Time `db:"submitted_at"`
	LockedAt    *time.Time `db:"locked_at"`
	Points      *int       `db:"points"`
	ScoredAt    *time.Time `db:"scored_at"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
	DeletedAt   *time.Time `db:"deleted_at"`
}

type weeklyPickInsertModel struct {
	PublicID    string     `db:"public_id"`
	LeagueID    string     `db:"league_public_id"`
	UserID      string     `db:"user_id"`
	EpisodeID   string     `db:"episode_public_id"`
	CastawayID  *string    `db:"castaway_public_id"`
	State       string     `db:"state"`
	SubmittedAt *time.Time `db:"submitted_at"`
	LockedAt    *time.Time `db:"locked_at"`
	Points      *int       `db:"points"`
	ScoredAt    *time.Time `db:"scored_at"`
}
