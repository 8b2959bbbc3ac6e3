package league

import (
	"context"
	"errors"
)

// ErrDuplicateMember is returned by InsertMember when the user already
// belongs to the league.
var ErrDuplicateMember = errors.New("user already joined league")

// Repository describes league persistence needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, leagueID string) (League, bool, error)
	GetByInviteCode(ctx context.Context, inviteCode string) (League, bool, error)
	ListBySeason(ctx context.Context, seasonID string) ([]League, error)
	ListByUser(ctx context.Context, userID string) ([]League, error)
	Insert(ctx context.Context, l League) error

	GetMember(ctx context.Context, leagueID, userID string) (Member, bool, error)
	ListMembers(ctx context.Context, leagueID string) ([]Member, error)
	InsertMember(ctx context.Context, m Member) error
}
