package mallardmg_test

import (
	"testing"

	gm "mallard-engine/mallardmg"
)

func hasMove(b *gm.Board, s string) bool {
	_, err := b.ParseMove(s)
	return err == nil
}

func TestStartposMoveCount(t *testing.T) {
	moves := gm.NewBoard().GenerateMoves()
	if len(moves) != 20 {
		t.Fatalf("startpos move count: got %d want 20", len(moves))
	}
}

// TestGenerationDeterministic: the same position must enumerate the same
// moves in the same order every time.
func TestGenerationDeterministic(t *testing.T) {
	b1, _ := gm.ParseFEN(kiwipeteFEN)
	b2, _ := gm.ParseFEN(kiwipeteFEN)
	m1 := b1.GenerateMoves()
	m2 := b2.GenerateMoves()
	if len(m1) != len(m2) {
		t.Fatalf("lengths differ: %d vs %d", len(m1), len(m2))
	}
	for i := range m1 {
		if m1[i] != m2[i] {
			t.Fatalf("move %d differs: %s vs %s", i, m1[i], m2[i])
		}
	}
}

// TestPinnedPieceMayNotMove: without explicit pin detection, the
// apply-and-check filter must still exclude moves exposing the king.
func TestPinnedPieceMayNotMove(t *testing.T) {
	// White knight on d2 is pinned by the rook on d8.
	b, err := gm.ParseFEN("3r3k/8/8/8/8/8/3N4/3K4 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range []string{"d2b1", "d2f1", "d2b3", "d2f3", "d2c4", "d2e4"} {
		if hasMove(b, s) {
			t.Errorf("pinned knight move %s generated", s)
		}
	}
	if !hasMove(b, "d1c1") {
		t.Errorf("king move d1c1 missing")
	}
}

func TestPinnedQueenStaysOnFile(t *testing.T) {
	// The queen on e2 shields the king from the rook on e8; it may slide
	// along the e-file (including capturing the rook) but never off it.
	b, err := gm.ParseFEN("4r2k/8/8/8/8/8/4Q3/4K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	for _, m := range b.GenerateMoves() {
		st := b.MakeMove(m)
		if b.InCheck(gm.White) {
			t.Errorf("move %s leaves white in check", m)
		}
		b.UnmakeMove(m, st)
	}
	if hasMove(b, "e2a2") {
		t.Errorf("queen may not leave the e-file while blocking check")
	}
	if !hasMove(b, "e2e8") {
		t.Errorf("capturing the checking rook must be legal")
	}
}

func TestCastlingBlockedByAttack(t *testing.T) {
	// Black rook on f8 covers f1, the white king's transit square.
	b, err := gm.ParseFEN("5r2/8/8/8/8/8/8/R3K2R w KQ - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	if hasMove(b, "e1g1") {
		t.Errorf("castling through an attacked square generated")
	}
	if !hasMove(b, "e1c1") {
		t.Errorf("queenside castling should be unaffected")
	}
}

func TestCastlingBlockedWhileInCheck(t *testing.T) {
	b, err := gm.ParseFEN("4r3/8/8/8/8/8/8/R3K2R w KQ - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	if hasMove(b, "e1g1") || hasMove(b, "e1c1") {
		t.Errorf("castling out of check generated")
	}
}

func TestCastlingBlockedByPiece(t *testing.T) {
	b, err := gm.ParseFEN("4k3/8/8/8/8/8/8/R2QK2R w KQ - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	if hasMove(b, "e1c1") {
		t.Errorf("queenside castling through the queen on d1 generated")
	}
	if !hasMove(b, "e1g1") {
		t.Errorf("kingside castling missing")
	}
}

// TestCastlingRookTransitMayBeAttacked: only the king's path matters; the
// rook may pass through an attacked square (b1 here).
func TestCastlingRookTransitMayBeAttacked(t *testing.T) {
	b, err := gm.ParseFEN("1r2k3/8/8/8/8/8/8/R3K3 w Q - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	if !hasMove(b, "e1c1") {
		t.Errorf("queenside castling should be legal with only b1 attacked")
	}
}

func TestEnPassantIllegalWhenExposingKing(t *testing.T) {
	// Capturing en passant would remove both pawns from the fifth rank and
	// expose the white king to the rook on h5.
	b, err := gm.ParseFEN("8/8/8/K2Pp2r/8/8/8/4k3 w - e6 0 1")
	if err != nil {
		t.Fatal(err)
	}
	if hasMove(b, "d5e6") {
		t.Errorf("en-passant capture exposing the king generated")
	}
	if !hasMove(b, "d5d6") {
		t.Errorf("plain pawn push should stay legal")
	}
}

func TestCheckmateDetection(t *testing.T) {
	// Fool's mate: white is checkmated.
	b, err := gm.ParseFEN("rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3")
	if err != nil {
		t.Fatal(err)
	}
	if got := len(b.GenerateMoves()); got != 0 {
		t.Fatalf("checkmated side has %d moves", got)
	}
	if !b.InCheckmate() {
		t.Fatalf("InCheckmate false in fool's mate")
	}
	if b.InStalemate() {
		t.Fatalf("InStalemate true while in check")
	}
}

func TestStalemateDetection(t *testing.T) {
	b, err := gm.ParseFEN("k7/8/1Q6/8/8/8/8/7K b - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	if got := len(b.GenerateMoves()); got != 0 {
		t.Fatalf("stalemated side has %d moves", got)
	}
	if !b.InStalemate() {
		t.Fatalf("InStalemate false")
	}
	if b.InCheckmate() {
		t.Fatalf("InCheckmate true without check")
	}
}

func TestGenerateMovesIntoReusesBuffer(t *testing.T) {
	b := gm.NewBoard()
	buf := make([]gm.Move, 0, 64)
	first := b.GenerateMovesInto(buf)
	second := b.GenerateMovesInto(buf[:0])
	if len(first) != len(second) {
		t.Fatalf("buffer reuse changed the move count: %d vs %d", len(first), len(second))
	}
}
