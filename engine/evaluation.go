package engine

import (
	gm "mallard-engine/mallardmg"
)

// Static evaluation: material plus piece-square tables, in centipawns from
// the side-to-move's perspective. The function is pure; it never caches and
// never looks at game history, so eval(p) == -eval(mirror(p)) holds for
// every position.

// MaxScore bounds all scores the engine produces. Checkmate at the root is
// -MaxScore + ply, so deeper mates score closer to zero and the search
// prefers the shortest mate.
const MaxScore int32 = 100_000

// MateThreshold separates mate scores from positional ones.
const MateThreshold int32 = MaxScore - 1024

var pieceValue = [7]int32{0, 100, 320, 330, 500, 900, 0}

// Piece-square tables from White's perspective, indexed a1=0 .. h8=63.
// Black lookups mirror the square vertically.
var pieceSquareTable = [7][64]int32{
	gm.PieceTypePawn: {
		0, 0, 0, 0, 0, 0, 0, 0,
		5, 10, 10, -20, -20, 10, 10, 5,
		5, -5, -10, 0, 0, -10, -5, 5,
		0, 0, 0, 20, 20, 0, 0, 0,
		5, 5, 10, 25, 25, 10, 5, 5,
		10, 10, 20, 30, 30, 20, 10, 10,
		50, 50, 50, 50, 50, 50, 50, 50,
		0, 0, 0, 0, 0, 0, 0, 0,
	},
	gm.PieceTypeKnight: {
		-50, -40, -30, -30, -30, -30, -40, -50,
		-40, -20, 0, 5, 5, 0, -20, -40,
		-30, 5, 10, 15, 15, 10, 5, -30,
		-30, 0, 15, 20, 20, 15, 0, -30,
		-30, 5, 15, 20, 20, 15, 5, -30,
		-30, 0, 10, 15, 15, 10, 0, -30,
		-40, -20, 0, 0, 0, 0, -20, -40,
		-50, -40, -30, -30, -30, -30, -40, -50,
	},
	gm.PieceTypeBishop: {
		-20, -10, -10, -10, -10, -10, -10, -20,
		-10, 5, 0, 0, 0, 0, 5, -10,
		-10, 10, 10, 10, 10, 10, 10, -10,
		-10, 0, 10, 10, 10, 10, 0, -10,
		-10, 5, 5, 10, 10, 5, 5, -10,
		-10, 0, 5, 10, 10, 5, 0, -10,
		-10, 0, 0, 0, 0, 0, 0, -10,
		-20, -10, -10, -10, -10, -10, -10, -20,
	},
	gm.PieceTypeRook: {
		0, 0, 0, 5, 5, 0, 0, 0,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		5, 10, 10, 10, 10, 10, 10, 5,
		0, 0, 0, 0, 0, 0, 0, 0,
	},
	gm.PieceTypeQueen: {
		-20, -10, -10, -5, -5, -10, -10, -20,
		-10, 0, 5, 0, 0, 0, 0, -10,
		-10, 5, 5, 5, 5, 5, 0, -10,
		0, 0, 5, 5, 5, 5, 0, -5,
		-5, 0, 5, 5, 5, 5, 0, -5,
		-10, 0, 5, 5, 5, 5, 0, -10,
		-10, 0, 0, 0, 0, 0, 0, -10,
		-20, -10, -10, -5, -5, -10, -10, -20,
	},
	gm.PieceTypeKing: {
		20, 30, 10, 0, 0, 10, 30, 20,
		20, 20, 0, 0, 0, 0, 20, 20,
		-10, -20, -20, -20, -20, -20, -20, -10,
		-20, -30, -30, -40, -40, -30, -30, -20,
		-30, -40, -40, -50, -50, -40, -40, -30,
		-30, -40, -40, -50, -50, -40, -40, -30,
		-30, -40, -40, -50, -50, -40, -40, -30,
		-30, -40, -40, -50, -50, -40, -40, -30,
	},
}

// Evaluate scores the position for the side to move.
func Evaluate(b *gm.Board) int32 {
	var score int32 // from White's perspective while summing

	for pt := gm.PieceTypePawn; pt <= gm.PieceTypeKing; pt++ {
		for pieces := b.PieceBB(gm.White, pt); pieces != 0; {
			sq := gm.Square(popLSB(&pieces))
			score += pieceValue[pt] + pieceSquareTable[pt][sq]
		}
		for pieces := b.PieceBB(gm.Black, pt); pieces != 0; {
			sq := gm.Square(popLSB(&pieces))
			score -= pieceValue[pt] + pieceSquareTable[pt][mirror(sq)]
		}
	}

	if b.SideToMove() == gm.Black {
		return -score
	}
	return score
}

// mirror flips a square vertically (a1 <-> a8).
func mirror(sq gm.Square) gm.Square { return sq ^ 56 }
