package mallardmg

import (
	"fmt"
	"math/bits"
	"math/rand"
)

// magicEntry is the per-square state for the multiplicative-hash slider
// lookup: table[((occupied & mask) * magic) >> shift] holds the precomputed
// attack set for every relevant occupancy subset.
type magicEntry struct {
	mask  uint64
	magic uint64
	shift uint
	table []uint64
}

var (
	rookMagics   [64]magicEntry
	bishopMagics [64]magicEntry
)

// Known-good magic constants, originally found through randomized trial.
// Replacing any of them with a colliding value is caught by the init-time
// verification pass.
var rookMagicNumbers = [64]uint64{
	0x0080001020400080, 0x0040001000200040, 0x0080081000200080, 0x0080040800100080,
	0x0080020400080080, 0x0080010200040080, 0x0080008001000200, 0x0080002040800100,
	0x0000800020400080, 0x0000400020005000, 0x0000801000200080, 0x0000800800100080,
	0x0000800400080080, 0x0000800200040080, 0x0000800100020080, 0x0000800040800100,
	0x0000208000400080, 0x0000404000201000, 0x0000808010002000, 0x0000808008001000,
	0x0000808004000800, 0x0000808002000400, 0x0000010100020004, 0x0000020000408104,
	0x0000208080004000, 0x0000200040005000, 0x0000100080200080, 0x0000080080100080,
	0x0000040080080080, 0x0000020080040080, 0x0000010080800200, 0x0000800080004100,
	0x0000204000800080, 0x0000200040401000, 0x0000100080802000, 0x0000080080801000,
	0x0000040080800800, 0x0000020080800400, 0x0000020001010004, 0x0000800040800100,
	0x0000204000808000, 0x0000200040008080, 0x0000100020008080, 0x0000080010008080,
	0x0000040008008080, 0x0000020004008080, 0x0000010002008080, 0x0000004081020004,
	0x0000204000800080, 0x0000200040008080, 0x0000100020008080, 0x0000080010008080,
	0x0000040008008080, 0x0000020004008080, 0x0000800100020080, 0x0000800041000080,
	0x00FFFCDDFCED714A, 0x007FFCDDFCED714A, 0x003FFFCDFFD88096, 0x0000040810002101,
	0x0001000204080011, 0x0001000204000801, 0x0001000082000401, 0x0001FFFAABFAD1A2,
}

var bishopMagicNumbers = [64]uint64{
	0x0002020202020200, 0x0002020202020000, 0x0004010202000000, 0x0004040080000000,
	0x0001104000000000, 0x0000821040000000, 0x0000410410400000, 0x0000104104104000,
	0x0000040404040400, 0x0000020202020200, 0x0000040102020000, 0x0000040400800000,
	0x0000011040000000, 0x0000008210400000, 0x0000004104104000, 0x0000002082082000,
	0x0004000808080800, 0x0002000404040400, 0x0001000202020200, 0x0000800802004000,
	0x0000800400A00000, 0x0000200100884000, 0x0000400082082000, 0x0000200041041000,
	0x0002080010101000, 0x0001040008080800, 0x0000208004010400, 0x0000404004010200,
	0x0000840000802000, 0x0000404002011000, 0x0000808001041000, 0x0000404000820800,
	0x0001041000202000, 0x0000820800101000, 0x0000104400080800, 0x0000020080080080,
	0x0000404040040100, 0x0000808100020100, 0x0001010100020800, 0x0000808080010400,
	0x0000820820004000, 0x0000410410002000, 0x0000082088001000, 0x0000002011000800,
	0x0000080100400400, 0x0001010101000200, 0x0002020202000400, 0x0001010101000200,
	0x0000410410400000, 0x0000208208200000, 0x0000002084100000, 0x0000000020880000,
	0x0000001002020000, 0x0000040408020000, 0x0004040404040000, 0x0002020202020000,
	0x0000104104104000, 0x0000002082082000, 0x0000000020841000, 0x0000000000208800,
	0x0000000010020200, 0x0000000404080200, 0x0000040404040400, 0x0002020202020200,
}

func init() {
	for sq := Square(0); sq < 64; sq++ {
		rookMagics[sq] = buildMagicEntry(sq, rookMagicNumbers[sq], RookRelevantMask(sq), RookAttacksSlow)
		bishopMagics[sq] = buildMagicEntry(sq, bishopMagicNumbers[sq], BishopRelevantMask(sq), BishopAttacksSlow)
	}
}

// RookRelevantMask returns the rook occupancy mask for a square: the rays
// excluding the board edge, since a blocker on the edge cannot shorten the
// attack set further.
func RookRelevantMask(sq Square) uint64 {
	var mask uint64
	r0, f0 := sq.Rank(), sq.File()
	for r := r0 + 1; r < 7; r++ {
		mask |= 1 << uint(r*8+f0)
	}
	for r := r0 - 1; r > 0; r-- {
		mask |= 1 << uint(r*8+f0)
	}
	for f := f0 + 1; f < 7; f++ {
		mask |= 1 << uint(r0*8+f)
	}
	for f := f0 - 1; f > 0; f-- {
		mask |= 1 << uint(r0*8+f)
	}
	return mask
}

// BishopRelevantMask returns the bishop occupancy mask for a square,
// excluding edge squares.
func BishopRelevantMask(sq Square) uint64 {
	var mask uint64
	r0, f0 := sq.Rank(), sq.File()
	for _, d := range bishopDeltas {
		for r, f := r0+d[0], f0+d[1]; r > 0 && r < 7 && f > 0 && f < 7; r, f = r+d[0], f+d[1] {
			mask |= 1 << uint(r*8+f)
		}
	}
	return mask
}

// IndexToOccupancy expands subset index i into an occupancy bitboard over the
// set bits of mask, enumerating all 2^popcount(mask) blocker configurations
// as i ranges over [0, 2^popcount).
func IndexToOccupancy(i int, mask uint64) uint64 {
	var occ uint64
	for bit := 0; mask != 0; bit++ {
		sq := popLSB(&mask)
		if i&(1<<uint(bit)) != 0 {
			occ |= 1 << uint(sq)
		}
	}
	return occ
}

// buildMagicEntry fills the dense attack table for one square and verifies it
// exhaustively against the ray-cast generator. Any collision that maps two
// occupancies with different attack sets to the same slot, and any mismatch
// between the table and the reference generator, is a construction-time
// defect and panics.
func buildMagicEntry(sq Square, magic, mask uint64, slow func(Square, uint64) uint64) magicEntry {
	nbits := bits.OnesCount64(mask)
	e := magicEntry{
		mask:  mask,
		magic: magic,
		shift: uint(64 - nbits),
		table: make([]uint64, 1<<uint(nbits)),
	}
	for i := 0; i < 1<<uint(nbits); i++ {
		occ := IndexToOccupancy(i, mask)
		attacks := slow(sq, occ)
		idx := (occ * magic) >> e.shift
		if e.table[idx] != 0 && e.table[idx] != attacks {
			panic(fmt.Sprintf("magic collision on %s: index %d", sq, idx))
		}
		e.table[idx] = attacks
	}
	// Every subset must round-trip through the finished table.
	for i := 0; i < 1<<uint(nbits); i++ {
		occ := IndexToOccupancy(i, mask)
		if e.table[(occ*magic)>>e.shift] != slow(sq, occ) {
			panic(fmt.Sprintf("magic table verification failed on %s", sq))
		}
	}
	return e
}

// FindMagic searches for a collision-free magic constant for the given square
// and slider kind by randomized trial, the same procedure that produced the
// embedded constants. It is retained so fresh constants can be regenerated if
// the embedded set is ever suspect.
func FindMagic(sq Square, rook bool, rng *rand.Rand) (uint64, error) {
	var mask uint64
	var slow func(Square, uint64) uint64
	if rook {
		mask = RookRelevantMask(sq)
		slow = RookAttacksSlow
	} else {
		mask = BishopRelevantMask(sq)
		slow = BishopAttacksSlow
	}
	nbits := bits.OnesCount64(mask)
	size := 1 << uint(nbits)
	shift := uint(64 - nbits)

	occs := make([]uint64, size)
	refs := make([]uint64, size)
	for i := 0; i < size; i++ {
		occs[i] = IndexToOccupancy(i, mask)
		refs[i] = slow(sq, occs[i])
	}

	table := make([]uint64, size)
	used := make([]bool, size)
	for attempt := 0; attempt < 100_000_000; attempt++ {
		// Sparse candidates succeed far more often than uniform ones.
		magic := rng.Uint64() & rng.Uint64() & rng.Uint64()
		if bits.OnesCount64((mask*magic)&0xFF00000000000000) < 6 {
			continue
		}
		ok := true
		for i := range table {
			table[i], used[i] = 0, false
		}
		for i := 0; i < size; i++ {
			idx := (occs[i] * magic) >> shift
			if used[idx] && table[idx] != refs[i] {
				ok = false
				break
			}
			table[idx], used[idx] = refs[i], true
		}
		if ok {
			return magic, nil
		}
	}
	return 0, fmt.Errorf("no magic found for %s after exhausting attempts", sq)
}
