package engine

import (
	gm "mallard-engine/mallardmg"
)

// Move ordering. Alpha-beta prunes best when likely-good moves come first:
// the hash move, then captures by MVV-LVA (most valuable victim, least
// valuable attacker), then killers, then quiets by history score. Ordering
// only affects speed, never which score the search returns.

const (
	scoreHashMove  int32 = 1 << 30
	scoreCapture   int32 = 1 << 20
	scorePromotion int32 = 1 << 19
	scoreKiller1   int32 = 1 << 18
	scoreKiller2   int32 = 1 << 17
)

// mvvLva[victim][attacker], indexed by piece type.
var mvvLva [7][7]int32

func init() {
	values := [7]int32{0, 1, 2, 3, 4, 5, 6}
	for victim := 1; victim < 7; victim++ {
		for attacker := 1; attacker < 7; attacker++ {
			mvvLva[victim][attacker] = values[victim]*8 + (7 - values[attacker])
		}
	}
}

type scoredMove struct {
	move  gm.Move
	score int32
}

type moveList struct {
	moves []scoredMove
}

// killerTable holds two quiet moves per ply that recently caused beta
// cutoffs at that ply.
type killerTable [maxPly][2]gm.Move

func (kt *killerTable) add(ply int, m gm.Move) {
	if kt[ply][0] != m {
		kt[ply][1] = kt[ply][0]
		kt[ply][0] = m
	}
}

func (kt *killerTable) clear() {
	*kt = killerTable{}
}

// historyTable accumulates depth-weighted scores for quiet moves that caused
// cutoffs, indexed by side, origin and destination.
type historyTable [2][64][64]int32

func (ht *historyTable) add(side gm.Color, m gm.Move, depth int) {
	entry := &ht[side][m.From()][m.To()]
	*entry += int32(depth) * int32(depth)
	if *entry > scoreKiller2 {
		// Keep history strictly below the killer band.
		for s := 0; s < 2; s++ {
			for f := 0; f < 64; f++ {
				for t := 0; t < 64; t++ {
					ht[s][f][t] /= 2
				}
			}
		}
	}
}

func (ht *historyTable) clear() {
	*ht = historyTable{}
}

// scoreMoves assigns an ordering score to every move.
func (s *Searcher) scoreMoves(moves []gm.Move, hashMove gm.Move, ply int, list *moveList) {
	side := s.board.SideToMove()
	list.moves = list.moves[:0]
	for _, m := range moves {
		var score int32
		switch {
		case m == hashMove:
			score = scoreHashMove
		case m.IsCapture():
			score = scoreCapture + mvvLva[m.Captured().Type()][m.Piece().Type()]
		case m.Promotion() != gm.NoPiece:
			score = scorePromotion
		case m == s.killers[ply][0]:
			score = scoreKiller1
		case m == s.killers[ply][1]:
			score = scoreKiller2
		default:
			score = s.history[side][m.From()][m.To()]
		}
		list.moves = append(list.moves, scoredMove{m, score})
	}
}

// next performs one selection-sort step: it swaps the highest-scored
// remaining move into position i and returns it. Sorting lazily saves work
// when a cutoff ends the loop early.
func (l *moveList) next(i int) gm.Move {
	best := i
	for j := i + 1; j < len(l.moves); j++ {
		if l.moves[j].score > l.moves[best].score {
			best = j
		}
	}
	l.moves[i], l.moves[best] = l.moves[best], l.moves[i]
	return l.moves[i].move
}
