package mallardmg

// Move generation runs in two phases: pseudo-legal generation per piece kind
// in a fixed order (pawns, knights, bishops, rooks, queens, king), then a
// legality filter that applies each candidate, tests whether the own king is
// attacked, and reverts. Pins and discovered checks fall out of the filter
// without any dedicated pin detection.

// GenerateMoves returns all legal moves for the side to move in a freshly
// allocated slice. The order is deterministic for a given position.
func (b *Board) GenerateMoves() []Move {
	return b.GenerateMovesInto(make([]Move, 0, 64))
}

// GenerateMovesInto appends all legal moves to buf and returns it. Passing a
// reused buffer avoids per-node allocations in perft and search.
func (b *Board) GenerateMovesInto(buf []Move) []Move {
	start := len(buf)
	buf = b.pseudoLegalMoves(buf)

	// Filter in place: keep the moves that do not leave our king attacked.
	us := b.sideToMove
	kept := start
	for i := start; i < len(buf); i++ {
		m := buf[i]
		st := b.MakeMove(m)
		legal := !b.InCheck(us)
		b.UnmakeMove(m, st)
		if legal {
			buf[kept] = m
			kept++
		}
	}
	return buf[:kept]
}

func (b *Board) pseudoLegalMoves(buf []Move) []Move {
	us := b.sideToMove
	ci := int(us)
	occ := b.AllOccupancy()
	notOwn := ^b.occupancy[ci]

	buf = b.pawnMoves(buf)

	for pieces := b.knights[ci]; pieces != 0; {
		from := Square(popLSB(&pieces))
		buf = b.appendTargets(buf, from, knightAttackTable[from]&notOwn)
	}
	for pieces := b.bishops[ci]; pieces != 0; {
		from := Square(popLSB(&pieces))
		buf = b.appendTargets(buf, from, BishopAttacks(from, occ)&notOwn)
	}
	for pieces := b.rooks[ci]; pieces != 0; {
		from := Square(popLSB(&pieces))
		buf = b.appendTargets(buf, from, RookAttacks(from, occ)&notOwn)
	}
	for pieces := b.queens[ci]; pieces != 0; {
		from := Square(popLSB(&pieces))
		buf = b.appendTargets(buf, from, QueenAttacks(from, occ)&notOwn)
	}
	if ksq := b.KingSquare(us); ksq != NoSquare {
		buf = b.appendTargets(buf, ksq, kingAttackTable[ksq]&notOwn)
		buf = b.castlingMoves(buf, ksq)
	}
	return buf
}

// appendTargets emits one move per set bit of targets for the piece on from.
func (b *Board) appendTargets(buf []Move, from Square, targets uint64) []Move {
	piece := b.pieces[int(from)]
	for targets != 0 {
		to := Square(popLSB(&targets))
		buf = append(buf, NewMove(from, to, piece, b.pieces[int(to)], NoPiece, FlagNone))
	}
	return buf
}

func (b *Board) pawnMoves(buf []Move) []Move {
	us := b.sideToMove
	ci := int(us)
	occ := b.AllOccupancy()
	enemy := b.occupancy[int(us.Other())]

	forward := Square(8)
	startRank, promoRank := 1, 7
	if us == Black {
		forward = -8
		startRank, promoRank = 6, 0
	}

	for pawns := b.pawns[ci]; pawns != 0; {
		from := Square(popLSB(&pawns))
		piece := b.pieces[int(from)]

		// Single and double pushes.
		one := from + forward
		if occ&bb(one) == 0 {
			buf = b.appendPawnMove(buf, from, one, piece, NoPiece, FlagNone, promoRank)
			if from.Rank() == startRank {
				two := one + forward
				if occ&bb(two) == 0 {
					buf = append(buf, NewMove(from, two, piece, NoPiece, NoPiece, FlagDoublePush))
				}
			}
		}

		// Captures.
		for targets := pawnAttackTable[ci][from] & enemy; targets != 0; {
			to := Square(popLSB(&targets))
			buf = b.appendPawnMove(buf, from, to, piece, b.pieces[int(to)], FlagNone, promoRank)
		}

		// En passant: the captured pawn is adjacent, not on the target square.
		if ep := b.enPassantSquare; ep != NoSquare && pawnAttackTable[ci][from]&bb(ep) != 0 {
			captured := PieceFromType(us.Other(), PieceTypePawn)
			buf = append(buf, NewMove(from, ep, piece, captured, NoPiece, FlagEnPassant))
		}
	}
	return buf
}

// appendPawnMove expands a pawn move reaching the last rank into the four
// promotion choices, queen first.
func (b *Board) appendPawnMove(buf []Move, from, to Square, piece, captured Piece, flag int, promoRank int) []Move {
	if to.Rank() != promoRank {
		return append(buf, NewMove(from, to, piece, captured, NoPiece, flag))
	}
	us := colorOf(piece)
	for _, pt := range [4]PieceType{PieceTypeQueen, PieceTypeRook, PieceTypeBishop, PieceTypeKnight} {
		buf = append(buf, NewMove(from, to, piece, captured, PieceFromType(us, pt), flag))
	}
	return buf
}

// castlingMoves emits castling if the right is held, the squares between
// king and rook are empty, and the king's start, transit and destination
// squares are all unattacked. The legality filter re-checks the destination;
// start and transit must be checked here since the filter only sees the
// final square.
func (b *Board) castlingMoves(buf []Move, ksq Square) []Move {
	us := b.sideToMove
	them := us.Other()
	occ := b.AllOccupancy()
	piece := b.pieces[int(ksq)]

	type castleSide struct {
		right    CastlingRights
		kingFrom Square
		kingTo   Square
		empty    uint64    // squares between king and rook
		safe     [2]Square // transit and destination squares, must be unattacked
	}
	var sides [2]castleSide
	if us == White {
		sides[0] = castleSide{CastlingWhiteK, 4, 6, bb(5) | bb(6), [2]Square{5, 6}}
		sides[1] = castleSide{CastlingWhiteQ, 4, 2, bb(1) | bb(2) | bb(3), [2]Square{3, 2}}
	} else {
		sides[0] = castleSide{CastlingBlackK, 60, 62, bb(61) | bb(62), [2]Square{61, 62}}
		sides[1] = castleSide{CastlingBlackQ, 60, 58, bb(57) | bb(58) | bb(59), [2]Square{59, 58}}
	}

	for _, cs := range sides {
		if b.castlingRights&cs.right == 0 || ksq != cs.kingFrom || occ&cs.empty != 0 {
			continue
		}
		if b.IsSquareAttacked(cs.kingFrom, them) ||
			b.IsSquareAttacked(cs.safe[0], them) ||
			b.IsSquareAttacked(cs.safe[1], them) {
			continue
		}
		buf = append(buf, NewMove(cs.kingFrom, cs.kingTo, piece, NoPiece, NoPiece, FlagCastle))
	}
	return buf
}
