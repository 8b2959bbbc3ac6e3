package pick

import (
	"fmt"
	"time"
)

// State of a weekly pick. The lifecycle only moves forward:
//
//	open -> selected            (member chooses, may re-choose before lock)
//	selected -> locked          (deadline pass freezes the selection)
//	open -> auto_picked         (deadline pass fills an empty pick)
//	open -> unfillable          (deadline pass, no eligible castaway left)
//	locked|auto_picked -> scored
//
// unfillable and scored are final. A pick row is created lazily, so a member
// with no row is in the open state.
type State string

const (
	StateOpen       State = "open"
	StateSelected   State = "selected"
	StateLocked     State = "locked"
	StateAutoPicked State = "auto_picked"
	StateUnfillable State = "unfillable"
	StateScored     State = "scored"
)

func NormalizeState(raw string) (State, bool) {
	switch State(raw) {
	case StateOpen, StateSelected, StateLocked, StateAutoPicked, StateUnfillable, StateScored:
		return State(raw), true
	default:
		return "", false
	}
}

// CanTransition reports whether moving to next is a legal forward step.
// selected -> selected is allowed: re-submission overwrites the selection.
func (s State) CanTransition(next State) bool {
	switch s {
	case StateOpen:
		return next == StateSelected || next == StateAutoPicked || next == StateUnfillable
	case StateSelected:
		return next == StateSelected || next == StateLocked
	case StateLocked, StateAutoPicked:
		return next == StateScored
	default:
		return false
	}
}

// Submittable reports whether the member may still set the selection.
func (s State) Submittable() bool {
	return s == StateOpen || s == StateSelected
}

// DeadlinePending reports whether the deadline pass still has work to do.
func (s State) DeadlinePending() bool {
	return s == StateOpen || s == StateSelected
}

// Scorable reports whether the pick participates in scoring.
func (s State) Scorable() bool {
	return s == StateLocked || s == StateAutoPicked || s == StateScored
}

// WeeklyPick is one member's selection for one episode. At most one row
// exists per (league, member, episode).
type WeeklyPick struct {
	ID          string
	LeagueID    string
	UserID      string
	EpisodeID   string
	CastawayID  *string
	State       State
	SubmittedAt *time.Time
	LockedAt    *time.Time
	Points      *int
	ScoredAt    *time.Time
	UpdatedAt   time.Time
}

func (p WeeklyPick) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("pick id is required")
	}
	if p.LeagueID == "" {
		return fmt.Errorf("pick league id is required")
	}
	if p.UserID == "" {
		return fmt.Errorf("pick user id is required")
	}
	if p.EpisodeID == "" {
		return fmt.Errorf("pick episode id is required")
	}
	if _, ok := NormalizeState(string(p.State)); !ok {
		return fmt.Errorf("pick state %q is invalid", p.State)
	}

	switch p.State {
	case StateSelected, StateLocked, StateAutoPicked, StateScored:
		if p.CastawayID == nil || *p.CastawayID == "" {
			return fmt.Errorf("pick in state %s requires a castaway", p.State)
		}
	case StateUnfillable:
		if p.CastawayID != nil {
			return fmt.Errorf("unfillable pick must not carry a castaway")
		}
	}

	if p.State == StateScored && p.Points == nil {
		return fmt.Errorf("scored pick requires points")
	}

	return nil
}
