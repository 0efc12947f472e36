package mallardmg

import (
	"fmt"
	"strconv"
	"strings"
)

// FENStartPos is the standard chess starting position.
const FENStartPos = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

var pieceFromFENChar = map[byte]Piece{
	'P': WhitePawn, 'N': WhiteKnight, 'B': WhiteBishop, 'R': WhiteRook, 'Q': WhiteQueen, 'K': WhiteKing,
	'p': BlackPawn, 'n': BlackKnight, 'b': BlackBishop, 'r': BlackRook, 'q': BlackQueen, 'k': BlackKing,
}

var fenCharFromPiece = map[Piece]byte{
	WhitePawn: 'P', WhiteKnight: 'N', WhiteBishop: 'B', WhiteRook: 'R', WhiteQueen: 'Q', WhiteKing: 'K',
	BlackPawn: 'p', BlackKnight: 'n', BlackBishop: 'b', BlackRook: 'r', BlackQueen: 'q', BlackKing: 'k',
}

// NewBoard returns a board set up in the starting position.
func NewBoard() *Board {
	b, err := ParseFEN(FENStartPos)
	if err != nil {
		panic(err) // the start position constant must always parse
	}
	return b
}

// ParseFEN builds a board from a FEN string. Errors wrap ErrParse. The
// halfmove clock and fullmove number fields may be omitted and default to
// 0 and 1.
func ParseFEN(fen string) (*Board, error) {
	fields := strings.Fields(fen)
	if len(fields) < 4 {
		return nil, fmt.Errorf("%w: FEN needs at least 4 fields, got %d", ErrParse, len(fields))
	}

	b := &Board{
		enPassantSquare: NoSquare,
		fullmoveNumber:  1,
	}

	rank, file := 7, 0
	for i := 0; i < len(fields[0]); i++ {
		c := fields[0][i]
		switch {
		case c == '/':
			if file != 8 {
				return nil, fmt.Errorf("%w: rank %d has %d files", ErrParse, rank+1, file)
			}
			rank--
			file = 0
			if rank < 0 {
				return nil, fmt.Errorf("%w: too many ranks", ErrParse)
			}
		case c >= '1' && c <= '8':
			file += int(c - '0')
			if file > 8 {
				return nil, fmt.Errorf("%w: rank %d overflows", ErrParse, rank+1)
			}
		default:
			p, ok := pieceFromFENChar[c]
			if !ok {
				return nil, fmt.Errorf("%w: unknown piece char %q", ErrParse, c)
			}
			if file > 7 {
				return nil, fmt.Errorf("%w: rank %d overflows", ErrParse, rank+1)
			}
			b.addPiece(SquareFromRF(rank, file), p)
			file++
		}
	}
	if rank != 0 || file != 8 {
		return nil, fmt.Errorf("%w: board description is incomplete", ErrParse)
	}

	switch fields[1] {
	case "w":
		b.sideToMove = White
	case "b":
		b.sideToMove = Black
	default:
		return nil, fmt.Errorf("%w: bad side to move %q", ErrParse, fields[1])
	}

	if fields[2] != "-" {
		for i := 0; i < len(fields[2]); i++ {
			switch fields[2][i] {
			case 'K':
				b.castlingRights |= CastlingWhiteK
			case 'Q':
				b.castlingRights |= CastlingWhiteQ
			case 'k':
				b.castlingRights |= CastlingBlackK
			case 'q':
				b.castlingRights |= CastlingBlackQ
			default:
				return nil, fmt.Errorf("%w: bad castling rights %q", ErrParse, fields[2])
			}
		}
	}

	if fields[3] != "-" {
		sq, err := parseSquare(fields[3])
		if err != nil {
			return nil, fmt.Errorf("%w: bad en-passant square %q", ErrParse, fields[3])
		}
		if r := sq.Rank(); r != 2 && r != 5 {
			return nil, fmt.Errorf("%w: en-passant square %s on wrong rank", ErrParse, sq)
		}
		b.enPassantSquare = sq
	}

	if len(fields) > 4 {
		hm, err := strconv.Atoi(fields[4])
		if err != nil || hm < 0 {
			return nil, fmt.Errorf("%w: bad halfmove clock %q", ErrParse, fields[4])
		}
		b.halfmoveClock = hm
	}
	if len(fields) > 5 {
		fm, err := strconv.Atoi(fields[5])
		if err != nil || fm < 1 {
			return nil, fmt.Errorf("%w: bad fullmove number %q", ErrParse, fields[5])
		}
		b.fullmoveNumber = fm
	}

	// addPiece built the piece part of the key incrementally; fold in the
	// remaining state in one recompute.
	b.zobristKey = b.ComputeZobrist()
	return b, nil
}

// ToFEN serializes the position back to FEN.
func (b *Board) ToFEN() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			p := b.pieces[rank*8+file]
			if p == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte('0' + byte(empty))
				empty = 0
			}
			sb.WriteByte(fenCharFromPiece[p])
		}
		if empty > 0 {
			sb.WriteByte('0' + byte(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	if b.sideToMove == White {
		sb.WriteString(" w ")
	} else {
		sb.WriteString(" b ")
	}

	if b.castlingRights == 0 {
		sb.WriteByte('-')
	} else {
		if b.castlingRights&CastlingWhiteK != 0 {
			sb.WriteByte('K')
		}
		if b.castlingRights&CastlingWhiteQ != 0 {
			sb.WriteByte('Q')
		}
		if b.castlingRights&CastlingBlackK != 0 {
			sb.WriteByte('k')
		}
		if b.castlingRights&CastlingBlackQ != 0 {
			sb.WriteByte('q')
		}
	}

	fmt.Fprintf(&sb, " %s %d %d", b.enPassantSquare, b.halfmoveClock, b.fullmoveNumber)
	return sb.String()
}

// String renders the board as an ASCII diagram with the FEN underneath,
// shown in response to the "d" command.
func (b *Board) String() string {
	var sb strings.Builder
	sb.WriteString("  +---+---+---+---+---+---+---+---+\n")
	for rank := 7; rank >= 0; rank-- {
		fmt.Fprintf(&sb, "%d |", rank+1)
		for file := 0; file < 8; file++ {
			p := b.pieces[rank*8+file]
			if p == NoPiece {
				sb.WriteString("   |")
			} else {
				fmt.Fprintf(&sb, " %c |", fenCharFromPiece[p])
			}
		}
		sb.WriteString("\n  +---+---+---+---+---+---+---+---+\n")
	}
	sb.WriteString("    a   b   c   d   e   f   g   h\n")
	fmt.Fprintf(&sb, "FEN: %s\nKey: %016X\n", b.ToFEN(), b.zobristKey)
	return sb.String()
}
