package mallardmg

import (
	"errors"
	"fmt"
)

// Sentinel errors for user-supplied input. Wrap-compatible via errors.Is.
var (
	// ErrParse reports malformed FEN or move text.
	ErrParse = errors.New("parse error")
	// ErrIllegalMove reports a move outside the current legal move set.
	ErrIllegalMove = errors.New("illegal move")
)

// Move packs a full move description into 32 bits:
//
//	bits  0-5   origin square
//	bits  6-11  destination square
//	bits 12-15  moving piece
//	bits 16-19  captured piece (NoPiece if none)
//	bits 20-23  promotion piece (NoPiece if none)
//	bits 24-25  special flag
//
// The zero value is no move.
type Move uint32

const NoMove Move = 0

// Special-move flags.
const (
	FlagNone       = 0
	FlagCastle     = 1
	FlagEnPassant  = 2
	FlagDoublePush = 3
)

// NewMove packs the move fields. The captured piece for an en-passant move is
// the pawn being taken, even though it does not sit on the destination square.
func NewMove(from, to Square, piece, captured, promotion Piece, flag int) Move {
	return Move(uint32(from)&0x3F |
		(uint32(to)&0x3F)<<6 |
		(uint32(piece)&0xF)<<12 |
		(uint32(captured)&0xF)<<16 |
		(uint32(promotion)&0xF)<<20 |
		(uint32(flag)&0x3)<<24)
}

func (m Move) From() Square     { return Square(m & 0x3F) }
func (m Move) To() Square       { return Square((m >> 6) & 0x3F) }
func (m Move) Piece() Piece     { return Piece((m >> 12) & 0xF) }
func (m Move) Captured() Piece  { return Piece((m >> 16) & 0xF) }
func (m Move) Promotion() Piece { return Piece((m >> 20) & 0xF) }
func (m Move) Flag() int        { return int((m >> 24) & 0x3) }

// IsCapture reports whether the move takes a piece (including en passant).
func (m Move) IsCapture() bool { return m.Captured() != NoPiece }

// IsQuiet reports whether the move is neither a capture nor a promotion.
func (m Move) IsQuiet() bool { return m.Captured() == NoPiece && m.Promotion() == NoPiece }

// String renders the move in long algebraic coordinate form, e.g. "e2e4" or
// "e7e8q", which is also the UCI wire format.
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}
	s := m.From().String() + m.To().String()
	switch m.Promotion().Type() {
	case PieceTypeQueen:
		s += "q"
	case PieceTypeRook:
		s += "r"
	case PieceTypeBishop:
		s += "b"
	case PieceTypeKnight:
		s += "n"
	}
	return s
}

// ParseMove decodes coordinate notation ("e2e4", "a7a8q") against the current
// position, returning the fully-populated legal move it denotes. A move that
// parses but is not legal in the position yields ErrIllegalMove; malformed
// text yields ErrParse. The board is never modified.
func (b *Board) ParseMove(s string) (Move, error) {
	if len(s) != 4 && len(s) != 5 {
		return NoMove, fmt.Errorf("%w: bad move %q", ErrParse, s)
	}
	from, err := parseSquare(s[0:2])
	if err != nil {
		return NoMove, fmt.Errorf("%w: bad move %q", ErrParse, s)
	}
	to, err := parseSquare(s[2:4])
	if err != nil {
		return NoMove, fmt.Errorf("%w: bad move %q", ErrParse, s)
	}
	var promo PieceType
	if len(s) == 5 {
		switch s[4] {
		case 'q':
			promo = PieceTypeQueen
		case 'r':
			promo = PieceTypeRook
		case 'b':
			promo = PieceTypeBishop
		case 'n':
			promo = PieceTypeKnight
		default:
			return NoMove, fmt.Errorf("%w: bad promotion in %q", ErrParse, s)
		}
	}
	for _, m := range b.GenerateMoves() {
		if m.From() == from && m.To() == to && m.Promotion().Type() == promo {
			return m, nil
		}
	}
	return NoMove, fmt.Errorf("%w: %s", ErrIllegalMove, s)
}

func parseSquare(s string) (Square, error) {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return NoSquare, fmt.Errorf("%w: bad square %q", ErrParse, s)
	}
	return Square(int(s[1]-'1')*8 + int(s[0]-'a')), nil
}
