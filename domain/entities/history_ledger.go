package entities

// HistoryLedger is the append-only record of winners drawn in one session, most recent first
type HistoryLedger struct {
	numbers []int
}

// NewHistoryLedger creates an empty ledger
func NewHistoryLedger() *HistoryLedger {
	return &HistoryLedger{}
}

// Append records a winner at the front of the ledger
func (l *HistoryLedger) Append(winner int) {
	l.numbers = append([]int{winner}, l.numbers...)
}

// Count returns the number of draws recorded
func (l *HistoryLedger) Count() int {
	return len(l.numbers)
}

// Numbers returns a copy of the recorded winners, most recent first
func (l *HistoryLedger) Numbers() []int {
	out := make([]int, len(l.numbers))
	copy(out, l.numbers)
	return out
}

// Contains reports whether n has already been drawn
func (l *HistoryLedger) Contains(n int) bool {
	for _, drawn := range l.numbers {
		if drawn == n {
			return true
		}
	}
	return false
}

// Latest returns the most recent winner, if any
func (l *HistoryLedger) Latest() (int, bool) {
	if len(l.numbers) == 0 {
		return 0, false
	}
	return l.numbers[0], true
}
