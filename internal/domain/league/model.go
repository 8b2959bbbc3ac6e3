package league

import (
	"fmt"
	"time"
)

// Role of a member inside a league.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleMember Role = "member"
)

// League groups members who draft and pick within one season.
type League struct {
	ID          string
	SeasonID    string
	Name        string
	OwnerUserID string
	InviteCode  string
	IsPublic    bool
	CreatedAt   time.Time
}

func (l League) Validate() error {
	if l.ID == "" {
		return fmt.Errorf("league id is required")
	}
	if l.SeasonID == "" {
		return fmt.Errorf("league season id is required")
	}
	if l.Name == "" {
		return fmt.Errorf("league name is required")
	}
	if l.OwnerUserID == "" {
		return fmt.Errorf("league owner is required")
	}
	if l.InviteCode == "" {
		return fmt.Errorf("league invite code is required")
	}

	return nil
}

// Member is one user's membership in a league. JoinedAt participates in the
// standings tie-break, so it is recorded once and never rewritten.
type Member struct {
	LeagueID    string
	UserID      string
	DisplayName string
	Role        Role
	JoinedAt    time.Time
}

func (m Member) Validate() error {
	if m.LeagueID == "" {
		return fmt.Errorf("member league id is required")
	}
	if m.UserID == "" {
		return fmt.Errorf("member user id is required")
	}
	if m.Role != RoleOwner && m.Role != RoleMember {
		return fmt.Errorf("member role %q is invalid", m.Role)
	}
	if m.JoinedAt.IsZero() {
		return fmt.Errorf("member joined time is required")
	}

	return nil
}
