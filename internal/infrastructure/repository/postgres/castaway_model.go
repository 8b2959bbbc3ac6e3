package postgres

import "time"

type castawayTableModel struct {
	ID        int64      `db:"id"`
	PublicID  string     `db:"public_id"`
	SeasonID  string     `db:"season_public_id"`
	Name      string     `db:"name"`
	Tribe     string     `db:"tribe"`
	Status    string     `db:"status"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}

type castawayInsertModel struct {
	PublicID string `db:"public_id"`
	SeasonID string `db:"season_public_id"`
	Name     string `db:"name"`
	Tribe    string `db:"tribe"`
	Status   string `db:"status"`
}
