package mallardmg_test

import (
	"math/bits"
	"math/rand"
	"testing"

	gm "mallard-engine/mallardmg"
)

// TestMagicLookupExhaustive checks every square against every relevant
// blocker subset: the table lookup must agree with the ray-cast generator on
// all of them, not just on sampled occupancies.
func TestMagicLookupExhaustive(t *testing.T) {
	for sq := gm.Square(0); sq < 64; sq++ {
		rookMask := gm.RookRelevantMask(sq)
		n := 1 << uint(bits.OnesCount64(rookMask))
		for i := 0; i < n; i++ {
			occ := gm.IndexToOccupancy(i, rookMask)
			if got, want := gm.RookAttacks(sq, occ), gm.RookAttacksSlow(sq, occ); got != want {
				t.Fatalf("rook %s occ %016x: got %016x want %016x", sq, occ, got, want)
			}
		}
		bishopMask := gm.BishopRelevantMask(sq)
		n = 1 << uint(bits.OnesCount64(bishopMask))
		for i := 0; i < n; i++ {
			occ := gm.IndexToOccupancy(i, bishopMask)
			if got, want := gm.BishopAttacks(sq, occ), gm.BishopAttacksSlow(sq, occ); got != want {
				t.Fatalf("bishop %s occ %016x: got %016x want %016x", sq, occ, got, want)
			}
		}
	}
}

// TestMagicIgnoresIrrelevantBlockers: occupancy outside the relevance mask
// must not change the result.
func TestMagicIgnoresIrrelevantBlockers(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 1000; trial++ {
		sq := gm.Square(rng.Intn(64))
		relevant := rng.Uint64() & gm.RookRelevantMask(sq)
		noise := rng.Uint64() &^ gm.RookRelevantMask(sq) &^ (uint64(1) << uint(sq))
		if gm.RookAttacks(sq, relevant) != gm.RookAttacks(sq, relevant|noise) {
			// Blockers on the board edge or off the rays never shorten
			// the attack set beyond what the masked subset implies.
			t.Fatalf("rook %s: edge/noise blockers changed the lookup", sq)
		}
	}
}

func TestRelevantMaskExcludesEdges(t *testing.T) {
	// d4: the rook mask spans the d-file and 4th rank minus the edges and d4.
	d4 := gm.SquareFromRF(3, 3)
	if got := bits.OnesCount64(gm.RookRelevantMask(d4)); got != 10 {
		t.Fatalf("rook mask popcount on d4: got %d want 10", got)
	}
	// a1: two rays, six inner squares each.
	a1 := gm.SquareFromRF(0, 0)
	if got := bits.OnesCount64(gm.RookRelevantMask(a1)); got != 12 {
		t.Fatalf("rook mask popcount on a1: got %d want 12", got)
	}
	if got := bits.OnesCount64(gm.BishopRelevantMask(a1)); got != 6 {
		t.Fatalf("bishop mask popcount on a1: got %d want 6", got)
	}
}

// TestFindMagic regenerates a magic constant for a few squares and checks
// the discovered constant actually hashes collision-free.
func TestFindMagic(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, sq := range []gm.Square{0, 27, 63} {
		magic, err := gm.FindMagic(sq, true, rng)
		if err != nil {
			t.Fatalf("FindMagic rook %s: %v", sq, err)
		}
		mask := gm.RookRelevantMask(sq)
		nbits := bits.OnesCount64(mask)
		seen := make(map[uint64]uint64)
		for i := 0; i < 1<<uint(nbits); i++ {
			occ := gm.IndexToOccupancy(i, mask)
			idx := (occ * magic) >> uint(64-nbits)
			want := gm.RookAttacksSlow(sq, occ)
			if prev, ok := seen[idx]; ok && prev != want {
				t.Fatalf("FindMagic rook %s: destructive collision at index %d", sq, idx)
			}
			seen[idx] = want
		}
	}
}

func TestLeaperAttacks(t *testing.T) {
	// Knight on b1 reaches a3, c3 and d2.
	b1 := gm.SquareFromRF(0, 1)
	want := uint64(1)<<16 | uint64(1)<<18 | uint64(1)<<11
	if got := gm.KnightAttacks(b1); got != want {
		t.Fatalf("knight b1: got %016x want %016x", got, want)
	}
	// King in the corner has exactly three moves.
	if got := bits.OnesCount64(gm.KingAttacks(gm.SquareFromRF(7, 7))); got != 3 {
		t.Fatalf("king h8 attack count: got %d want 3", got)
	}
	// Pawns attack diagonally forward only; an a-file pawn has one target.
	a2 := gm.SquareFromRF(1, 0)
	if got := gm.PawnAttacks(gm.White, a2); got != uint64(1)<<17 {
		t.Fatalf("white pawn a2: got %016x want %016x", got, uint64(1)<<17)
	}
	if got := gm.PawnAttacks(gm.Black, a2); got != uint64(1)<<1 {
		t.Fatalf("black pawn a2: got %016x", got)
	}
}

func TestIsSquareAttacked(t *testing.T) {
	b, err := gm.ParseFEN("4k3/8/8/8/4R3/8/8/4K3 b - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	e8 := gm.SquareFromRF(7, 4)
	if !b.IsSquareAttacked(e8, gm.White) {
		t.Fatalf("rook on e4 should attack e8")
	}
	if !b.InCheck(gm.Black) {
		t.Fatalf("black should be in check")
	}
	if b.InCheck(gm.White) {
		t.Fatalf("white should not be in check")
	}
	a8 := gm.SquareFromRF(7, 0)
	if b.IsSquareAttacked(a8, gm.White) {
		t.Fatalf("rook on e4 should not attack a8")
	}
}

func TestAttackersTo(t *testing.T) {
	// Two knights and a rook all attack d5.
	b, err := gm.ParseFEN("3k4/8/8/3r4/8/2N1N3/8/3RK3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	d5 := gm.SquareFromRF(4, 3)
	white := b.AttackersTo(d5, gm.White, b.AllOccupancy())
	if got := bits.OnesCount64(white); got != 3 {
		t.Fatalf("white attackers of d5: got %d want 3", got)
	}
	if white&(uint64(1)<<3) == 0 {
		t.Fatalf("rook on d1 should attack d5 up the open file")
	}
	black := b.AttackersTo(d5, gm.Black, b.AllOccupancy())
	if black != 0 {
		t.Fatalf("black attackers of d5: got %016x want 0", black)
	}
}
