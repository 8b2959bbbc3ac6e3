package pick

import (
	"testing"
	"time"
)

func TestStateCanTransition(t *testing.T) {
	t.Parallel()

	allowed := map[State][]State{
		StateOpen:       {StateSelected, StateAutoPicked, StateUnfillable},
		StateSelected:   {StateSelected, StateLocked},
		StateLocked:     {StateScored},
		StateAutoPicked: {StateScored},
		StateUnfillable: {},
		StateScored:     {},
	}
	all := []State{StateOpen, StateSelected, StateLocked, StateAutoPicked, StateUnfillable, StateScored}

	for from, nexts := range allowed {
		want := make(map[State]bool, len(nexts))
		for _, n := range nexts {
			want[n] = true
		}
		for _, to := range all {
			if got := from.CanTransition(to); got != want[to] {
				t.Fatalf("CanTransition(%s -> %s) = %v, want %v", from, to, got, want[to])
			}
		}
	}
}

func TestStateScorable(t *testing.T) {
	t.Parallel()

	scorable := map[State]bool{
		StateOpen:       false,
		StateSelected:   false,
		StateLocked:     true,
		StateAutoPicked: true,
		StateUnfillable: false,
		StateScored:     true,
	}
	for state, want := range scorable {
		if got := state.Scorable(); got != want {
			t.Fatalf("Scorable(%s) = %v, want %v", state, got, want)
		}
	}
}

func TestWeeklyPickValidate(t *testing.T) {
	t.Parallel()

	now := time.Now()
	castaway := "castaway-1"
	points := 7

	base := WeeklyPick{
		ID:        "pick-1",
		LeagueID:  "league-1",
		UserID:    "user-1",
		EpisodeID: "episode-1",
		State:     StateOpen,
		UpdatedAt: now,
	}

	tests := []struct {
		name    string
		mutate  func(p *WeeklyPick)
		wantErr bool
	}{
		{name: "open without castaway", mutate: func(p *WeeklyPick) {}, wantErr: false},
		{
			name: "selected with castaway",
			mutate: func(p *WeeklyPick) {
				p.State = StateSelected
				p.CastawayID = &castaway
				p.SubmittedAt = &now
			},
		},
		{
			name:    "selected without castaway",
			mutate:  func(p *WeeklyPick) { p.State = StateSelected },
			wantErr: true,
		},
		{
			name: "unfillable with castaway",
			mutate: func(p *WeeklyPick) {
				p.State = StateUnfillable
				p.CastawayID = &castaway
			},
			wantErr: true,
		},
		{
			name: "scored without points",
			mutate: func(p *WeeklyPick) {
				p.State = StateScored
				p.CastawayID = &castaway
			},
			wantErr: true,
		},
		{
			name: "scored with points",
			mutate: func(p *WeeklyPick) {
				p.State = StateScored
				p.CastawayID = &castaway
				p.Points = &points
				p.ScoredAt = &now
			},
		},
		{
			name:    "unknown state",
			mutate:  func(p *WeeklyPick) { p.State = State("pending") },
			wantErr: true,
		},
		{
			name:    "missing episode",
			mutate:  func(p *WeeklyPick) { p.EpisodeID = "" },
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			p := base
			tc.mutate(&p)
			err := p.Validate()
			if tc.wantErr && err == nil {
				t.Fatalf("expected validation error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected validation error: %v", err)
			}
		})
	}
}
