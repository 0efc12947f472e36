package mallardmg

import (
	"fmt"
	"math/bits"
)

// Piece constants for pieces and colors.
type Piece uint8

const (
	NoPiece     Piece = 0
	WhitePawn   Piece = 1
	WhiteKnight Piece = 2
	WhiteBishop Piece = 3
	WhiteRook   Piece = 4
	WhiteQueen  Piece = 5
	WhiteKing   Piece = 6

	// Black pieces are encoded as (white piece type | 8) so that
	// - piece & 7 gives the type in [1..6]
	// - piece & 8 != 0 indicates Black
	BlackPawn   Piece = 1 | 8
	BlackKnight Piece = 2 | 8
	BlackBishop Piece = 3 | 8
	BlackRook   Piece = 4 | 8
	BlackQueen  Piece = 5 | 8
	BlackKing   Piece = 6 | 8
)

// PieceType is a colorless representation of a chess piece used for table lookups.
type PieceType uint8

const (
	PieceTypeNone   PieceType = 0
	PieceTypePawn   PieceType = 1
	PieceTypeKnight PieceType = 2
	PieceTypeBishop PieceType = 3
	PieceTypeRook   PieceType = 4
	PieceTypeQueen  PieceType = 5
	PieceTypeKing   PieceType = 6
)

// Type returns the colorless type of the piece (ignores side).
func (p Piece) Type() PieceType { return PieceType(p & 7) }

// Color returns the side that owns the piece. NoPiece defaults to White.
func (p Piece) Color() Color { return colorOf(p) }

// PieceFromType combines a colorless type with a side to produce a concrete Piece.
func PieceFromType(color Color, pt PieceType) Piece {
	if pt == PieceTypeNone {
		return NoPiece
	}
	p := Piece(pt)
	if color == Black {
		p |= 8
	}
	return p
}

type Color uint8

const (
	White Color = 0
	Black Color = 1
)

// Other returns the opposing side.
func (c Color) Other() Color { return 1 - c }

// Castling rights bit flags.
type CastlingRights uint8

const (
	// White king-side (short) castling
	CastlingWhiteK CastlingRights = 1 << iota
	// White queen-side (long) castling
	CastlingWhiteQ
	// Black king-side castling
	CastlingBlackK
	// Black queen-side castling
	CastlingBlackQ
)

// Square identifies a board position, 0 (a1) through 63 (h8).
type Square int

const NoSquare Square = -1

// File returns the square's file in [0..7], 0 meaning the a-file.
func (sq Square) File() int { return int(sq) & 7 }

// Rank returns the square's rank in [0..7], 0 meaning rank 1.
func (sq Square) Rank() int { return int(sq) >> 3 }

// String returns the coordinate notation of the square, e.g. "e4".
func (sq Square) String() string {
	if sq == NoSquare {
		return "-"
	}
	return string([]byte{'a' + byte(sq.File()), '1' + byte(sq.Rank())})
}

// SquareFromRF builds a square from rank and file indices in [0..7].
func SquareFromRF(rank, file int) Square { return Square(rank*8 + file) }

// Board holds the full mutable position: per-piece bitboards, a mailbox
// mirror, and the game-state fields needed to apply and revert moves.
type Board struct {
	// Piece bitboards per side (index 0 = White, 1 = Black)
	pawns   [2]uint64
	knights [2]uint64
	bishops [2]uint64
	rooks   [2]uint64
	queens  [2]uint64
	kings   [2]uint64

	// Aggregate occupancy per side; all occupied = occupancy[0]|occupancy[1]
	occupancy [2]uint64

	// Mailbox mirror of the bitboards, one Piece per square
	pieces [64]Piece

	sideToMove      Color
	castlingRights  CastlingRights
	enPassantSquare Square // NoSquare unless the last move was a double pawn push
	halfmoveClock   int
	fullmoveNumber  int

	// Incrementally maintained Zobrist key
	zobristKey uint64
}

// SideToMove reports which side is to play.
func (b *Board) SideToMove() Color { return b.sideToMove }

// CastlingRights returns the current castling-rights bitmask.
func (b *Board) CastlingRights() CastlingRights { return b.castlingRights }

// EnPassantSquare returns the current en-passant target square or NoSquare.
func (b *Board) EnPassantSquare() Square { return b.enPassantSquare }

// HalfmoveClock returns the number of half-moves since the last capture or pawn move.
func (b *Board) HalfmoveClock() int { return b.halfmoveClock }

// FullmoveNumber returns the full move counter (incremented after Black's move).
func (b *Board) FullmoveNumber() int { return b.fullmoveNumber }

// Hash returns the current Zobrist hash key.
func (b *Board) Hash() uint64 { return b.zobristKey }

// PieceAt returns the piece on a square.
func (b *Board) PieceAt(sq Square) Piece { return b.pieces[int(sq)] }

// AllOccupancy returns a bitboard of all occupied squares.
func (b *Board) AllOccupancy() uint64 { return b.occupancy[0] | b.occupancy[1] }

// ColorOccupancy returns the occupancy bitboard for one side.
func (b *Board) ColorOccupancy(c Color) uint64 { return b.occupancy[int(c)] }

// PieceBB returns the bitboard of one colorless piece type for one side.
func (b *Board) PieceBB(c Color, pt PieceType) uint64 {
	ci := int(c)
	switch pt {
	case PieceTypePawn:
		return b.pawns[ci]
	case PieceTypeKnight:
		return b.knights[ci]
	case PieceTypeBishop:
		return b.bishops[ci]
	case PieceTypeRook:
		return b.rooks[ci]
	case PieceTypeQueen:
		return b.queens[ci]
	case PieceTypeKing:
		return b.kings[ci]
	}
	return 0
}

// KingSquare returns the square of the given side's king, or NoSquare if absent.
func (b *Board) KingSquare(c Color) Square {
	kbb := b.kings[int(c)]
	if kbb == 0 {
		return NoSquare
	}
	return Square(bits.TrailingZeros64(kbb))
}

// Copy returns an independent copy of the board. Concurrent searchers must
// each work on their own copy; Board is not safe for shared mutation.
func (b *Board) Copy() *Board {
	nb := *b
	return &nb
}

// HasLegalMoves reports whether the side to move has any legal moves.
func (b *Board) HasLegalMoves() bool {
	buf := make([]Move, 0, 64)
	return len(b.GenerateMovesInto(buf)) > 0
}

// InCheckmate reports whether the side to move is checkmated.
func (b *Board) InCheckmate() bool {
	return b.InCheck(b.sideToMove) && !b.HasLegalMoves()
}

// InStalemate reports whether the side to move is stalemated.
func (b *Board) InStalemate() bool {
	return !b.InCheck(b.sideToMove) && !b.HasLegalMoves()
}

// IsDrawBy50 reports a 50-move rule draw (halfmoveClock counts half-moves).
func (b *Board) IsDrawBy50() bool { return b.halfmoveClock >= 100 }

// ==========================
// Bitboard helpers
// ==========================

// bb returns a bitboard with the given square bit set.
func bb(sq Square) uint64 { return 1 << uint64(sq) }

// popLSB removes and returns the least significant set bit of the mask.
func popLSB(mask *uint64) int {
	idx := bits.TrailingZeros64(*mask)
	*mask &= *mask - 1
	return idx
}

func colorOf(p Piece) Color {
	if p&8 != 0 {
		return Black
	}
	return White
}

func typeOf(p Piece) Piece { return p & 7 }

// pieceSet returns a pointer to the per-side bitboard that holds p.
func (b *Board) pieceSet(p Piece) *uint64 {
	ci := int(colorOf(p))
	switch typeOf(p) {
	case 1:
		return &b.pawns[ci]
	case 2:
		return &b.knights[ci]
	case 3:
		return &b.bishops[ci]
	case 4:
		return &b.rooks[ci]
	case 5:
		return &b.queens[ci]
	case 6:
		return &b.kings[ci]
	}
	return nil
}

// addPiece places a piece on an empty square, updating bitboards, occupancy
// and the Zobrist key.
func (b *Board) addPiece(sq Square, p Piece) {
	if p == NoPiece {
		return
	}
	b.pieces[int(sq)] = p
	b.occupancy[int(colorOf(p))] |= bb(sq)
	*b.pieceSet(p) |= bb(sq)
	b.zobristKey ^= zobristPiece[p][int(sq)]
}

// removePiece removes whatever sits on a square and returns it.
func (b *Board) removePiece(sq Square) Piece {
	p := b.pieces[int(sq)]
	if p == NoPiece {
		return NoPiece
	}
	mask := ^bb(sq)
	b.pieces[int(sq)] = NoPiece
	b.occupancy[int(colorOf(p))] &= mask
	*b.pieceSet(p) &= mask
	b.zobristKey ^= zobristPiece[p][int(sq)]
	return p
}

// SetPiece sets a piece on a square, replacing any existing piece, and keeps
// all derived state in sync. Intended for position setup and tests.
func (b *Board) SetPiece(sq Square, p Piece) {
	b.removePiece(sq)
	b.addPiece(sq, p)
}

// ClearSquare removes any piece from the given square.
func (b *Board) ClearSquare(sq Square) { _ = b.removePiece(sq) }

// Validate cross-checks the mailbox against the bitboards and the
// incremental Zobrist key, and verifies the structural piece-set
// invariants. A non-nil error indicates an internal defect, not a user
// error; callers able to continue should not.
func (b *Board) Validate() error {
	var occ [2]uint64
	var sets [2][7]uint64
	for sq := 0; sq < 64; sq++ {
		p := b.pieces[sq]
		if p == NoPiece {
			continue
		}
		if typeOf(p) < 1 || typeOf(p) > 6 {
			return fmt.Errorf("invalid piece code %d on %s", p, Square(sq))
		}
		ci := int(colorOf(p))
		bit := uint64(1) << uint(sq)
		occ[ci] |= bit
		sets[ci][typeOf(p)] |= bit
	}
	if occ != b.occupancy {
		return fmt.Errorf("occupancy out of sync with mailbox")
	}
	if occ[0]&occ[1] != 0 {
		return fmt.Errorf("white and black occupancy overlap")
	}
	for ci := 0; ci < 2; ci++ {
		got := [7]uint64{0, b.pawns[ci], b.knights[ci], b.bishops[ci], b.rooks[ci], b.queens[ci], b.kings[ci]}
		union := uint64(0)
		for pt := 1; pt <= 6; pt++ {
			if got[pt] != sets[ci][pt] {
				return fmt.Errorf("piece bitboard out of sync (side %d type %d)", ci, pt)
			}
			if union&got[pt] != 0 {
				return fmt.Errorf("piece bitboards overlap (side %d type %d)", ci, pt)
			}
			union |= got[pt]
		}
		if union != occ[ci] {
			return fmt.Errorf("piece bitboard union != occupancy (side %d)", ci)
		}
		if bits.OnesCount64(b.kings[ci]) > 1 {
			return fmt.Errorf("more than one king (side %d)", ci)
		}
	}
	if b.zobristKey != b.ComputeZobrist() {
		return fmt.Errorf("zobrist key out of sync")
	}
	return nil
}
