package engine

import (
	"time"

	gm "mallard-engine/mallardmg"
)

// maxPly bounds the search stack depth.
const maxPly = 128

// defaultMovesToGo spreads the remaining clock when the position gives no
// better hint.
const defaultMovesToGo = 40

// SearchLimits describes the resource budget for one search. Zero values
// mean "unlimited" for that dimension; Infinite overrides the clock fields.
type SearchLimits struct {
	Depth    int           // maximum iterative-deepening depth
	MoveTime time.Duration // exact time to spend, overrides the clocks
	Nodes    uint64        // maximum nodes to visit
	Infinite bool          // run until stopped

	// Remaining clock and increment per side, from the go command.
	WhiteTime, BlackTime time.Duration
	WhiteInc, BlackInc   time.Duration
	MovesToGo            int

	// Reference selects the plain fixed-depth negamax without pruning,
	// ordering or hashing. Requires Depth to be set.
	Reference bool
}

// budget converts the limits into a wall-clock allowance for the side to
// move. A zero duration means no time constraint.
func (l SearchLimits) budget(side gm.Color) time.Duration {
	if l.Infinite {
		return 0
	}
	if l.MoveTime > 0 {
		return l.MoveTime
	}
	remaining, inc := l.WhiteTime, l.WhiteInc
	if side == gm.Black {
		remaining, inc = l.BlackTime, l.BlackInc
	}
	if remaining <= 0 {
		return 0
	}
	mtg := l.MovesToGo
	if mtg <= 0 {
		mtg = defaultMovesToGo
	}
	alloc := remaining/time.Duration(mtg) + inc*3/4
	// Never budget more than half the remaining clock.
	return Clamp(alloc, 5*time.Millisecond, remaining/2)
}

// maxDepth returns the deepest iteration the limits allow.
func (l SearchLimits) maxDepth() int {
	if l.Depth > 0 {
		return Min(l.Depth, maxPly-1)
	}
	return maxPly - 1
}
