package entity

// Score counts finished games across resets of the board.
type Score struct {
	X     int `json:"x"`
	O     int `json:"o"`
	Draws int `json:"draws"`
}

// Record adds a finished outcome to the tally. Unfinished outcomes are ignored.
func (that *Score) Record(outcome Outcome) {
	switch {
	case outcome.IsDraw():
		that.Draws++
	case outcome.IsWin() && outcome.Winner == PlayerX:
		that.X++
	case outcome.IsWin() && outcome.Winner == PlayerO:
		that.O++
	}
}
