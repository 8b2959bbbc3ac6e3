package postgres

import "time"

type seasonTableModel struct {
	ID        int64      `db:"id"`
	PublicID  string     `db:"public_id"`
	Name      string     `db:"name"`
	Number    int        `db:"number"`
	IsActive  bool       `db:"is_active"`
	StartsAt  time.Time  `db:"starts_at"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}

type seasonInsertModel struct {
	PublicID string    `db:"public_id"`
	Name     string    `db:"name"`
	Number   int       `db:"number"`
	IsActive bool      `db:"is_active"`
	StartsAt time.Time `db:"starts_at"`
}
