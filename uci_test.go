package main

import (
	"bytes"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"mallard-engine/engine"
	gm "mallard-engine/mallardmg"
)

// syncBuffer serializes writes, since info lines arrive from the search
// goroutine while the loop writes protocol replies.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestParseGoLimits(t *testing.T) {
	limits, err := parseGoLimits("go depth 6 movetime 250 nodes 10000")
	if err != nil {
		t.Fatal(err)
	}
	if limits.Depth != 6 {
		t.Errorf("depth: got %d want 6", limits.Depth)
	}
	if limits.MoveTime != 250*time.Millisecond {
		t.Errorf("movetime: got %v want 250ms", limits.MoveTime)
	}
	if limits.Nodes != 10000 {
		t.Errorf("nodes: got %d want 10000", limits.Nodes)
	}

	limits, err = parseGoLimits("go wtime 60000 btime 55000 winc 1000 binc 1000 movestogo 20")
	if err != nil {
		t.Fatal(err)
	}
	if limits.WhiteTime != time.Minute || limits.BlackTime != 55*time.Second {
		t.Errorf("clocks: got %v/%v", limits.WhiteTime, limits.BlackTime)
	}
	if limits.MovesToGo != 20 {
		t.Errorf("movestogo: got %d want 20", limits.MovesToGo)
	}

	limits, err = parseGoLimits("go infinite")
	if err != nil {
		t.Fatal(err)
	}
	if !limits.Infinite {
		t.Errorf("infinite not set")
	}

	if _, err := parseGoLimits("go depth"); err == nil {
		t.Errorf("missing depth value not rejected")
	}
	if _, err := parseGoLimits("go depth x"); err == nil {
		t.Errorf("non-numeric depth not rejected")
	}
	if _, err := parseGoLimits("go frobnicate"); err == nil {
		t.Errorf("unknown option not rejected")
	}
}

func newTestState() *uciState {
	st := &uciState{
		out:      &syncBuffer{},
		searcher: engine.NewSearcher(1),
		board:    gm.NewBoard(),
		hashMB:   1,
	}
	st.history = []uint64{st.board.Hash()}
	return st
}

func TestHandlePositionStartposMoves(t *testing.T) {
	st := newTestState()
	if err := st.handlePosition("position startpos moves e2e4 e7e5 g1f3"); err != nil {
		t.Fatal(err)
	}
	want := "rnbqkbnr/pppp1ppp/8/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R b KQkq - 1 2"
	if got := st.board.ToFEN(); got != want {
		t.Fatalf("position after moves: got %q want %q", got, want)
	}
	if len(st.history) != 4 {
		t.Fatalf("history length: got %d want 4", len(st.history))
	}
}

func TestHandlePositionFEN(t *testing.T) {
	st := newTestState()
	fen := "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1"
	if err := st.handlePosition("position fen " + fen); err != nil {
		t.Fatal(err)
	}
	if got := st.board.ToFEN(); got != fen {
		t.Fatalf("fen position: got %q want %q", got, fen)
	}
}

// TestHandlePositionRejectsIllegalMove: a bad move list must leave the
// previous game state untouched.
func TestHandlePositionRejectsIllegalMove(t *testing.T) {
	st := newTestState()
	if err := st.handlePosition("position startpos moves e2e4"); err != nil {
		t.Fatal(err)
	}
	before := st.board.ToFEN()

	if err := st.handlePosition("position startpos moves e2e4 e2e4"); err == nil {
		t.Fatalf("illegal move accepted")
	}
	if got := st.board.ToFEN(); got != before {
		t.Fatalf("state changed by rejected command: got %q want %q", got, before)
	}

	if err := st.handlePosition("position fen not a fen"); err == nil {
		t.Fatalf("malformed FEN accepted")
	}
	if got := st.board.ToFEN(); got != before {
		t.Fatalf("state changed by rejected FEN: got %q", got)
	}
}

// TestUCISession drives a whole session through the loop: handshake,
// position setup, a short search and a board dump.
func TestUCISession(t *testing.T) {
	out := &syncBuffer{}
	in := strings.NewReader(strings.Join([]string{
		"uci",
		"isready",
		"position startpos moves e2e4",
		"go depth 3",
		"isready", // waits for the search to finish
		"d",
		"go perft 2",
		"quit",
	}, "\n") + "\n")

	done := make(chan struct{})
	go func() {
		defer close(done)
		uciLoop(in, out)
	}()
	select {
	case <-done:
	case <-time.After(30 * time.Second):
		t.Fatalf("uci loop did not terminate")
	}

	output := out.String()
	for _, want := range []string{
		"id name Mallard",
		"uciok",
		"readyok",
		"bestmove ",
		"info depth 1",
		"Nodes searched: 400",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("session output missing %q:\n%s", want, output)
		}
	}
	if !strings.Contains(output, "FEN: rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq") {
		t.Errorf("board dump missing position after e2e4:\n%s", output)
	}
}

func TestUCIStopDuringSearch(t *testing.T) {
	out := &syncBuffer{}
	pr, pw := io.Pipe()
	done := make(chan struct{})
	go func() {
		defer close(done)
		uciLoop(pr, out)
	}()

	io.WriteString(pw, "position startpos\ngo infinite\n")
	time.Sleep(100 * time.Millisecond)
	io.WriteString(pw, "stop\nquit\n")
	pw.Close()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatalf("engine did not stop")
	}
	if !strings.Contains(out.String(), "bestmove ") {
		t.Fatalf("stopped search printed no bestmove:\n%s", out.String())
	}
}
