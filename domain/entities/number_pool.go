package entities

// AllNumbers returns every ticket number of the range in ascending order.
// Ranges that fail Validate yield an empty slice.
func AllNumbers(r Range) []int {
	return Available(r, nil)
}

// Available returns the ticket numbers of the range that are not present in history.
// The result keeps ascending order so it can be indexed uniformly.
func Available(r Range, history []int) []int {
	if r.Validate() != nil {
		return []int{}
	}

	drawn := drawnInRange(r, history)
	available := make([]int, 0, r.Size()-len(drawn))
	for n := r.InitialSeq; ; n++ {
		if _, ok := drawn[n]; !ok {
			available = append(available, n)
		}
		if n == r.FinalSeq {
			break
		}
	}
	return available
}

// AvailableCount returns how many numbers remain in the pool
func AvailableCount(r Range, history []int) int {
	if r.Validate() != nil {
		return 0
	}
	return r.Size() - len(drawnInRange(r, history))
}

// IsSoldOut reports whether every number of the range has been drawn
func IsSoldOut(r Range, history []int) bool {
	return AvailableCount(r, history) == 0
}

func drawnInRange(r Range, history []int) map[int]struct{} {
	drawn := make(map[int]struct{}, len(history))
	for _, n := range history {
		if r.Contains(n) {
			drawn[n] = struct{}{}
		}
	}
	return drawn
}
