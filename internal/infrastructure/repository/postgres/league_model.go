package postgres

import "time"

type leagueTableModel struct {
	ID          int64      `db:"id"`
	PublicID    string     `db:"public_id"`
	SeasonID    string     `db:"season_public_id"`
	Name        string     `db:"name"`
	OwnerUserID string     `db:"owner_user_id"`
	InviteCode  string     `db:"invite_code"`
	IsPublic    bool       `db:"is_public"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
	DeletedAt   *time.Time `db:"deleted_at"`
}

type leagueInsertModel struct {
	PublicID    string    `db:"public_id"`
	SeasonID    string    `db:"season_public_id"`
	Name        string    `db:"name"`
	OwnerUserID string    `db:"owner_user_id"`
	InviteCode  string    `db:"invite_code"`
	IsPublic    bool      `db:"is_public"`
	CreatedAt   time.Time `db:"created_at"`
}

type leagueMemberTableModel struct {
	ID          int64      `db:"id"`
	LeagueID    string     `db:"league_public_id"`
	UserID      string     `db:"user_id"`
	DisplayName string     `db:"display_name"`
	Role        string     `db:"role"`
	JoinedAt    time.Time  `db:"joined_at"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
	DeletedAt   *time.Time `db:"deleted_at"`
}

type leagueMemberInsertModel struct {
	LeagueID    string    `db:"league_public_id"`
	UserID      string    `db:"user_id"`
	DisplayName string    `db:"display_name"`
	Role        string    `db:"role"`
	JoinedAt    time.Time `db:"joined_at"`
}
