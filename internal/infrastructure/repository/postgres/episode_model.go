package postgres

import "time"

type episodeTableModel struct {
	ID          int64      `db:"id"`
	PublicID    string     `db:"public_id"`
	SeasonID    string     `db:"season_public_id"`
	Number      int        `db:"number"`
	Title       string     `db:"title"`
	AirsAt      time.Time  `db:"airs_at"`
	PicksLockAt time.Time  `db:"picks_lock_at"`
	IsFinal     bool       `db:"is_final"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
	DeletedAt   *time.Time `db:"deleted_at"`
}

type episodeInsertModel struct {
	PublicID    string    `db:"public_id"`
	SeasonID    string    `db:"season_public_id"`
	Number      int       `db:"number"`
	Title       string    `db:"title"`
	AirsAt      time.Time `db:"airs_at"`
	PicksLockAt time.Time `db:"picks_lock_at"`
	IsFinal     bool      `db:"is_final"`
}
