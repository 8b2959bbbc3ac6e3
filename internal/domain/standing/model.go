package standing

import "time"

// Standing is one league-table row. Points sums the member's scored picks,
// NegativeEvents counts penalty quantities behind those picks and is the
// first tie-break; earlier join wins the second.
type Standing struct {
	LeagueID       string
	UserID         string
	DisplayName    string
	Rank           int
	Points         int
	ScoredPicks    int
	NegativeEvents int
	JoinedAt       time.Time
	CalculatedAt   time.Time
}
