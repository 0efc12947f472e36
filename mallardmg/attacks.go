package mallardmg

// Precomputed attack tables for the leaping pieces, indexed by square.
// Pawn attacks are indexed [color][square] and describe capture targets only.
var (
	knightAttackTable [64]uint64
	kingAttackTable   [64]uint64
	pawnAttackTable   [2][64]uint64
)

func init() {
	knightDeltas := [8][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
	kingDeltas := [8][2]int{{0, 1}, {1, 1}, {1, 0}, {1, -1}, {0, -1}, {-1, -1}, {-1, 0}, {-1, 1}}

	for sq := 0; sq < 64; sq++ {
		r, f := sq/8, sq%8
		for _, d := range knightDeltas {
			nr, nf := r+d[0], f+d[1]
			if nr >= 0 && nr < 8 && nf >= 0 && nf < 8 {
				knightAttackTable[sq] |= 1 << uint(nr*8+nf)
			}
		}
		for _, d := range kingDeltas {
			nr, nf := r+d[0], f+d[1]
			if nr >= 0 && nr < 8 && nf >= 0 && nf < 8 {
				kingAttackTable[sq] |= 1 << uint(nr*8+nf)
			}
		}
		for _, df := range []int{-1, 1} {
			if nf := f + df; nf >= 0 && nf < 8 {
				if r+1 < 8 {
					pawnAttackTable[White][sq] |= 1 << uint((r+1)*8+nf)
				}
				if r-1 >= 0 {
					pawnAttackTable[Black][sq] |= 1 << uint((r-1)*8+nf)
				}
			}
		}
	}
}

// KnightAttacks returns the knight attack set from a square.
func KnightAttacks(sq Square) uint64 { return knightAttackTable[int(sq)] }

// KingAttacks returns the king attack set from a square.
func KingAttacks(sq Square) uint64 { return kingAttackTable[int(sq)] }

// PawnAttacks returns the capture targets of a pawn of the given color.
func PawnAttacks(c Color, sq Square) uint64 { return pawnAttackTable[int(c)][int(sq)] }

// slidingAttacks walks outward from sq along the given (rank, file) deltas,
// stopping at the first occupied square in each direction (inclusive). It is
// the reference slider generator: magic table construction and verification
// are both defined against it.
func slidingAttacks(sq Square, occupied uint64, deltas [4][2]int) uint64 {
	var attacks uint64
	r0, f0 := sq.Rank(), sq.File()
	for _, d := range deltas {
		for r, f := r0+d[0], f0+d[1]; r >= 0 && r < 8 && f >= 0 && f < 8; r, f = r+d[0], f+d[1] {
			bit := uint64(1) << uint(r*8+f)
			attacks |= bit
			if occupied&bit != 0 {
				break
			}
		}
	}
	return attacks
}

var (
	rookDeltas   = [4][2]int{{0, 1}, {0, -1}, {1, 0}, {-1, 0}}
	bishopDeltas = [4][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
)

// RookAttacksSlow ray-casts rook attacks without table lookups.
func RookAttacksSlow(sq Square, occupied uint64) uint64 {
	return slidingAttacks(sq, occupied, rookDeltas)
}

// BishopAttacksSlow ray-casts bishop attacks without table lookups.
func BishopAttacksSlow(sq Square, occupied uint64) uint64 {
	return slidingAttacks(sq, occupied, bishopDeltas)
}

// RookAttacks returns the rook attack set via the magic tables.
func RookAttacks(sq Square, occupied uint64) uint64 {
	m := &rookMagics[int(sq)]
	return m.table[((occupied&m.mask)*m.magic)>>m.shift]
}

// BishopAttacks returns the bishop attack set via the magic tables.
func BishopAttacks(sq Square, occupied uint64) uint64 {
	m := &bishopMagics[int(sq)]
	return m.table[((occupied&m.mask)*m.magic)>>m.shift]
}

// QueenAttacks is the union of the rook and bishop attack sets.
func QueenAttacks(sq Square, occupied uint64) uint64 {
	return RookAttacks(sq, occupied) | BishopAttacks(sq, occupied)
}

// AttackersTo returns the set of squares from which pieces of the given side
// attack sq, under the supplied occupancy. It works by reverse lookup: a
// knight on sq would attack exactly the squares whose knights attack sq, and
// likewise for each piece kind.
func (b *Board) AttackersTo(sq Square, by Color, occupied uint64) uint64 {
	ci := int(by)
	attackers := pawnAttackTable[by.Other()][int(sq)] & b.pawns[ci]
	attackers |= knightAttackTable[int(sq)] & b.knights[ci]
	attackers |= kingAttackTable[int(sq)] & b.kings[ci]
	attackers |= BishopAttacks(sq, occupied) & (b.bishops[ci] | b.queens[ci])
	attackers |= RookAttacks(sq, occupied) & (b.rooks[ci] | b.queens[ci])
	return attackers
}

// IsSquareAttacked reports whether any piece of the given side attacks sq.
func (b *Board) IsSquareAttacked(sq Square, by Color) bool {
	return b.AttackersTo(sq, by, b.AllOccupancy()) != 0
}

// InCheck reports whether the given side's king is attacked.
func (b *Board) InCheck(c Color) bool {
	ksq := b.KingSquare(c)
	if ksq == NoSquare {
		return false
	}
	return b.IsSquareAttacked(ksq, c.Other())
}
