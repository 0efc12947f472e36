package mallardmg

import (
	"fmt"
	"sort"
	"strings"
)

// Perft counts the leaf nodes of the legal move tree to the given depth.
// It is the standard cross-check for generator and make/unmake correctness.
func (b *Board) Perft(depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	// One move buffer per ply, reused across siblings.
	bufs := make([][]Move, depth)
	for i := range bufs {
		bufs[i] = make([]Move, 0, 64)
	}
	return b.perft(depth, bufs)
}

func (b *Board) perft(depth int, bufs [][]Move) uint64 {
	moves := b.GenerateMovesInto(bufs[depth-1][:0])
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		st := b.MakeMove(m)
		nodes += b.perft(depth-1, bufs)
		b.UnmakeMove(m, st)
	}
	return nodes
}

// PerftDivide returns the per-root-move subtree counts plus the total, with
// the moves listed in coordinate-notation order. Useful for pinpointing
// which root move diverges from a reference count.
func (b *Board) PerftDivide(depth int) (string, uint64) {
	if depth <= 0 {
		return "", 1
	}
	bufs := make([][]Move, depth)
	for i := range bufs {
		bufs[i] = make([]Move, 0, 64)
	}

	type line struct {
		move  string
		nodes uint64
	}
	moves := b.GenerateMovesInto(bufs[depth-1][:0])
	lines := make([]line, 0, len(moves))
	var total uint64
	for _, m := range moves {
		st := b.MakeMove(m)
		var nodes uint64 = 1
		if depth > 1 {
			nodes = b.perft(depth-1, bufs)
		}
		b.UnmakeMove(m, st)
		lines = append(lines, line{m.String(), nodes})
		total += nodes
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].move < lines[j].move })

	var sb strings.Builder
	for _, l := range lines {
		fmt.Fprintf(&sb, "%s: %d\n", l.move, l.nodes)
	}
	fmt.Fprintf(&sb, "\nNodes searched: %d\n", total)
	return sb.String(), total
}
