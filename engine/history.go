package engine

// repTracker records the Zobrist keys of every position reached, game
// history and current search path combined, so repetition draws can be
// scored inside the tree. Any earlier occurrence of the current key counts
// as a draw: if the opponent can force the position again once, they can
// force it a third time.
type repTracker struct {
	keys []uint64
}

func (r *repTracker) push(key uint64) {
	r.keys = append(r.keys, key)
}

func (r *repTracker) pop() {
	r.keys = r.keys[:len(r.keys)-1]
}

func (r *repTracker) reset(history []uint64) {
	r.keys = append(r.keys[:0], history...)
}

// isRepetition reports whether the current key already occurred within the
// last halfmoveClock positions. Older occurrences are unreachable again
// because an irreversible move intervened.
func (r *repTracker) isRepetition(key uint64, halfmoveClock int) bool {
	limit := Max(len(r.keys)-1-halfmoveClock, 0)
	// Same side to move recurs every two plies.
	for i := len(r.keys) - 3; i >= limit; i -= 2 {
		if r.keys[i] == key {
			return true
		}
	}
	return false
}
