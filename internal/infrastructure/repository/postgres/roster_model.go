package postgres

import "time"

type rosterEntryTableModel struct {
	ID         int64      `db:"id"`
	PublicID   string     `db:"public_id"`
	LeagueID   string     `db:"league_public_id"`
	UserID     string     `db:"user_id"`
	CastawayID string     `db:"castaway_public_id"`
	DraftRank  int        `db:"draft_rank"`
	DraftedAt  time.Time  `db:"drafted_at"`
	DroppedAt  *time.Time `db:"dropped_at"`
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at"`
	DeletedAt  *time.Time `db:"deleted_at"`
}

type rosterEntryInsertModel struct {
	PublicID   string     `db:"public_id"`
	LeagueID   string     `db:"league_public_id"`
	UserID     string     `db:"user_id"`
	CastawayID string     `db:"castaway_public_id"`
	DraftRank  int        `db:"draft_rank"`
	DraftedAt  time.Time  `db:"drafted_at"`
	DroppedAt  *time.Time `db:"dropped_at"`
}
