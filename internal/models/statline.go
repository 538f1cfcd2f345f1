package models

// StatLine holds the box-score counts that feed the performance index.
// It is shared by per-game and season-aggregate records.
type StatLine struct {
	Points         int
	Rebounds       int
	Assists        int
	Steals         int
	Blocks         int
	Turnovers      int
	FoulsCommitted int

	TwoPointersMade        int
	TwoPointersAttempted   int
	ThreePointersMade      int
	ThreePointersAttempted int
	FreeThrowsMade         int
	FreeThrowsAttempted    int
}

// MissedShots sums the missed attempts across all shot types
func (s StatLine) MissedShots() int {
	return (s.TwoPointersAttempted - s.TwoPointersMade) +
		(s.ThreePointersAttempted - s.ThreePointersMade) +
		(s.FreeThrowsAttempted - s.FreeThrowsMade)
}

// PIR computes the performance index rating from the raw counts. The
// feed does not supply it directly, so it is always derived here.
func (s StatLine) PIR() int {
	positive := s.Points + s.Rebounds + s.Assists + s.Steals + s.Blocks
	negative := s.MissedShots() + s.Turnovers + s.FoulsCommitted
	return positive - negative
}
