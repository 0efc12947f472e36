package mallardmg

// MoveState captures everything MakeMove destroys so UnmakeMove can restore
// the position exactly, hash included. States must be unwound strictly in
// reverse order of the moves they came from.
type MoveState struct {
	captured        Piece
	castlingRights  CastlingRights
	enPassantSquare Square
	halfmoveClock   int
	fullmoveNumber  int
	zobristKey      uint64
}

// castlingRightsClear maps a square to the castling rights lost whenever a
// piece moves from or to it. King moves clear both of that side's rights,
// rook moves and rook captures clear the matching one.
var castlingRightsClear [64]CastlingRights

func init() {
	castlingRightsClear[0] = CastlingWhiteQ // a1
	castlingRightsClear[7] = CastlingWhiteK // h1
	castlingRightsClear[4] = CastlingWhiteK | CastlingWhiteQ
	castlingRightsClear[56] = CastlingBlackQ // a8
	castlingRightsClear[63] = CastlingBlackK // h8
	castlingRightsClear[60] = CastlingBlackK | CastlingBlackQ
}

// MakeMove applies a move produced by the generator (or any pseudo-legal
// move) and returns the undo record. It does not check legality; the move
// generator filters moves that leave the own king attacked.
func (b *Board) MakeMove(m Move) MoveState {
	st := MoveState{
		captured:        m.Captured(),
		castlingRights:  b.castlingRights,
		enPassantSquare: b.enPassantSquare,
		halfmoveClock:   b.halfmoveClock,
		fullmoveNumber:  b.fullmoveNumber,
		zobristKey:      b.zobristKey,
	}

	from, to := m.From(), m.To()
	piece := m.Piece()
	us := b.sideToMove

	// Drop the outgoing en-passant and castling keys; the new ones are
	// folded back in at the end.
	if b.enPassantSquare != NoSquare {
		b.zobristKey ^= zobristEnPassant[b.enPassantSquare.File()]
	}
	b.zobristKey ^= zobristCastle[b.castlingRights]
	b.enPassantSquare = NoSquare

	if m.Captured() != NoPiece {
		capSq := to
		if m.Flag() == FlagEnPassant {
			// The captured pawn sits behind the destination square.
			if us == White {
				capSq = to - 8
			} else {
				capSq = to + 8
			}
		}
		b.removePiece(capSq)
		b.halfmoveClock = 0
	} else {
		b.halfmoveClock++
	}

	b.removePiece(from)
	if m.Promotion() != NoPiece {
		b.addPiece(to, m.Promotion())
	} else {
		b.addPiece(to, piece)
	}

	switch m.Flag() {
	case FlagCastle:
		rookFrom, rookTo := castleRookSquares(to)
		rook := b.removePiece(rookFrom)
		b.addPiece(rookTo, rook)
	case FlagDoublePush:
		if us == White {
			b.enPassantSquare = from + 8
		} else {
			b.enPassantSquare = from - 8
		}
	}

	if piece.Type() == PieceTypePawn {
		b.halfmoveClock = 0
	}

	b.castlingRights &^= castlingRightsClear[from] | castlingRightsClear[to]

	if us == Black {
		b.fullmoveNumber++
	}
	b.sideToMove = us.Other()

	b.zobristKey ^= zobristCastle[b.castlingRights]
	if b.enPassantSquare != NoSquare {
		b.zobristKey ^= zobristEnPassant[b.enPassantSquare.File()]
	}
	b.zobristKey ^= zobristSide

	return st
}

// UnmakeMove reverts the most recent MakeMove using its undo record.
func (b *Board) UnmakeMove(m Move, st MoveState) {
	from, to := m.From(), m.To()
	us := b.sideToMove.Other() // side that made the move

	b.removePiece(to)
	b.addPiece(from, m.Piece())

	if st.captured != NoPiece {
		capSq := to
		if m.Flag() == FlagEnPassant {
			if us == White {
				capSq = to - 8
			} else {
				capSq = to + 8
			}
		}
		b.addPiece(capSq, st.captured)
	}

	if m.Flag() == FlagCastle {
		rookFrom, rookTo := castleRookSquares(to)
		rook := b.removePiece(rookTo)
		b.addPiece(rookFrom, rook)
	}

	b.sideToMove = us
	b.castlingRights = st.castlingRights
	b.enPassantSquare = st.enPassantSquare
	b.halfmoveClock = st.halfmoveClock
	b.fullmoveNumber = st.fullmoveNumber
	b.zobristKey = st.zobristKey
}

// castleRookSquares maps the king's castling destination to the rook's from
// and to squares.
func castleRookSquares(kingTo Square) (rookFrom, rookTo Square) {
	switch kingTo {
	case 6: // g1
		return 7, 5
	case 2: // c1
		return 0, 3
	case 62: // g8
		return 63, 61
	case 58: // c8
		return 56, 59
	}
	return NoSquare, NoSquare
}
