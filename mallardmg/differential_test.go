package mallardmg_test

import (
	"testing"

	"github.com/dylhunn/dragontoothmg"

	gm "mallard-engine/mallardmg"
)

// oraclePerft counts leaf nodes with the dragontoothmg generator, which
// serves as an independent reference implementation.
func oraclePerft(b *dragontoothmg.Board, depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	moves := b.GenerateLegalMoves()
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		unapply := b.Apply(m)
		nodes += oraclePerft(b, depth-1)
		unapply()
	}
	return nodes
}

// TestPerftAgainstOracle cross-checks the move generator against an
// independent one on a spread of positions: tactical middlegames, endgames
// with en passant, castling-heavy positions and promotion races.
func TestPerftAgainstOracle(t *testing.T) {
	fens := []string{
		gm.FENStartPos,
		kiwipeteFEN,
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1PPPPP/R2Q1RK1 w kq - 0 1",
		"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
		"r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10",
		"4k3/8/8/2pP4/8/8/8/4K3 w - c6 0 1",
	}
	for _, fen := range fens {
		mine, err := gm.ParseFEN(fen)
		if err != nil {
			t.Fatalf("ParseFEN(%q): %v", fen, err)
		}
		oracle := dragontoothmg.ParseFen(fen)
		for depth := 1; depth <= 3; depth++ {
			got := mine.Perft(depth)
			want := oraclePerft(&oracle, depth)
			if got != want {
				divide, _ := mine.PerftDivide(depth)
				t.Fatalf("perft mismatch at depth %d for %q: got %d want %d\n%s",
					depth, fen, got, want, divide)
			}
		}
	}
}

// TestMoveStringsAgainstOracle verifies that both generators produce the
// same coordinate-notation move set at the root.
func TestMoveStringsAgainstOracle(t *testing.T) {
	fens := []string{gm.FENStartPos, kiwipeteFEN}
	for _, fen := range fens {
		mine, err := gm.ParseFEN(fen)
		if err != nil {
			t.Fatal(err)
		}
		oracle := dragontoothmg.ParseFen(fen)

		got := map[string]bool{}
		for _, m := range mine.GenerateMoves() {
			got[m.String()] = true
		}
		want := map[string]bool{}
		for _, m := range oracle.GenerateLegalMoves() {
			want[(&m).String()] = true
		}
		for s := range want {
			if !got[s] {
				t.Errorf("%q: missing move %s", fen, s)
			}
		}
		for s := range got {
			if !want[s] {
				t.Errorf("%q: extra move %s", fen, s)
			}
		}
	}
}
