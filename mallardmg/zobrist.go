package mallardmg

import (
	"math/rand"
)

// Zobrist key tables. Piece keys are indexed by the raw Piece encoding, so
// the table has gaps at the unused codes; that costs a few unused entries and
// saves a remap on every make/unmake. The seed is fixed so keys are stable
// across runs, which keeps hashes comparable between sessions and in tests.
var (
	zobristPiece     [16][64]uint64
	zobristCastle    [16]uint64
	zobristEnPassant [8]uint64 // indexed by file of the en-passant square
	zobristSide      uint64
)

func init() {
	rng := rand.New(rand.NewSource(0xC0DE))
	for p := range zobristPiece {
		for sq := 0; sq < 64; sq++ {
			zobristPiece[p][sq] = rng.Uint64()
		}
	}
	for i := range zobristCastle {
		zobristCastle[i] = rng.Uint64()
	}
	for i := range zobristEnPassant {
		zobristEnPassant[i] = rng.Uint64()
	}
	zobristSide = rng.Uint64()
	// The empty square must not perturb keys.
	for sq := 0; sq < 64; sq++ {
		zobristPiece[NoPiece][sq] = 0
	}
}

// ComputeZobrist hashes the position from scratch. The incremental key kept
// by make/unmake must always agree with it; Validate checks that.
func (b *Board) ComputeZobrist() uint64 {
	var key uint64
	occ := b.AllOccupancy()
	for occ != 0 {
		sq := popLSB(&occ)
		key ^= zobristPiece[b.pieces[sq]][sq]
	}
	key ^= zobristCastle[b.castlingRights]
	if b.enPassantSquare != NoSquare {
		key ^= zobristEnPassant[b.enPassantSquare.File()]
	}
	if b.sideToMove == Black {
		key ^= zobristSide
	}
	return key
}
