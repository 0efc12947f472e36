package engine

import (
	"fmt"
	"io"
	"strings"
	"sync/atomic"
	"time"

	gm "mallard-engine/mallardmg"
)

// Searcher runs depth-limited negamax with alpha-beta pruning under a
// resource budget. A Searcher owns its board copy and all search state; it
// must not be shared between concurrent searches, but Stop may be called
// from any goroutine.
type Searcher struct {
	board *gm.Board
	tt    *TransTable

	killers killerTable
	history historyTable
	reps    repTracker

	limits      SearchLimits
	deadline    time.Time
	hasDeadline bool
	maxNodes    uint64

	nodes   uint64
	stop    atomic.Bool
	stopped bool // budget exhausted during the current iteration

	// Info receives "info ..." protocol lines during the search; nil
	// discards them.
	Info io.Writer
}

// Result carries the outcome of a completed search.
type Result struct {
	BestMove gm.Move
	Score    int32
	Depth    int
	Nodes    uint64
}

// NewSearcher creates a searcher with a transposition table of the given
// size and the starting position.
func NewSearcher(ttSizeMB int) *Searcher {
	return &Searcher{
		board: gm.NewBoard(),
		tt:    NewTransTable(ttSizeMB),
	}
}

// SetPosition installs the position to search. history holds the Zobrist
// keys of the game so far (the current position last) for repetition
// detection; it may be nil.
func (s *Searcher) SetPosition(b *gm.Board, history []uint64) {
	s.board = b.Copy()
	if len(history) == 0 {
		history = []uint64{b.Hash()}
	}
	s.reps.reset(history)
}

// Board returns the searcher's current position.
func (s *Searcher) Board() *gm.Board { return s.board }

// Stop aborts the running search at the next budget check. The search still
// returns its best move so far. Safe to call from another goroutine.
func (s *Searcher) Stop() { s.stop.Store(true) }

// NewGame clears all state carried between searches.
func (s *Searcher) NewGame() {
	s.tt.Clear()
	s.killers.clear()
	s.history.clear()
}

// Search runs iterative deepening under the given limits and returns the
// best move found. With no legal moves it returns NoMove and the mate or
// stalemate score.
func (s *Searcher) Search(limits SearchLimits) Result {
	s.limits = limits
	s.nodes = 0
	s.stop.Store(false)
	s.stopped = false
	s.maxNodes = limits.Nodes
	s.hasDeadline = false
	if budget := limits.budget(s.board.SideToMove()); budget > 0 {
		s.deadline = time.Now().Add(budget)
		s.hasDeadline = true
	}

	// A board without kings is a construction bug, not a searchable state.
	if s.board.KingSquare(gm.White) == gm.NoSquare || s.board.KingSquare(gm.Black) == gm.NoSquare {
		panic("search: board has no king")
	}

	rootMoves := s.board.GenerateMoves()
	if len(rootMoves) == 0 {
		score := int32(0)
		if s.board.InCheck(s.board.SideToMove()) {
			score = -MaxScore
		}
		return Result{BestMove: gm.NoMove, Score: score, Nodes: s.nodes}
	}

	if limits.Reference {
		return s.searchReference(rootMoves, limits.maxDepth())
	}

	start := time.Now()
	// Seed with the first legal move so even an instantly exhausted budget
	// yields a playable move.
	best := Result{BestMove: rootMoves[0]}
	var pv pvLine

	for depth := 1; depth <= s.limits.maxDepth(); depth++ {
		score := s.searchRoot(rootMoves, depth, &pv)
		if s.stopped {
			break
		}
		best = Result{BestMove: pv.bestMove(), Score: score, Depth: depth, Nodes: s.nodes}
		s.reportDepth(depth, score, time.Since(start), &pv)
		if Abs(score) > MateThreshold {
			// A forced mate found at this depth cannot improve.
			break
		}
	}
	best.Nodes = s.nodes
	return best
}

// searchRoot runs one full-window iteration at the given depth. Root moves
// are scanned in generator order with a strict improvement test, so equal
// scores resolve to the first move encountered.
func (s *Searcher) searchRoot(moves []gm.Move, depth int, pv *pvLine) int32 {
	alpha, beta := -MaxScore, MaxScore
	var childPV pvLine
	bestScore := -MaxScore - 1

	for _, m := range moves {
		st := s.board.MakeMove(m)
		s.reps.push(s.board.Hash())
		childPV.clear()
		score := -s.alphabeta(depth-1, 1, -beta, -alpha, &childPV)
		s.reps.pop()
		s.board.UnmakeMove(m, st)
		if s.stopped {
			return bestScore
		}
		if score > bestScore {
			bestScore = score
			pv.set(m, &childPV)
		}
		alpha = Max(alpha, score)
	}
	return bestScore
}

// alphabeta is the negamax recursion. Scores are always from the moving
// side's perspective; depth 0 returns the static evaluation directly.
func (s *Searcher) alphabeta(depth, ply int, alpha, beta int32, pv *pvLine) int32 {
	if !s.consumeNode() {
		return 0
	}

	board := s.board
	if board.IsDrawBy50() || s.reps.isRepetition(board.Hash(), board.HalfmoveClock()) {
		return 0
	}

	if depth <= 0 || ply >= maxPly {
		return Evaluate(board)
	}

	alphaOrig := alpha
	hashMove, score, ok := s.tt.Probe(board.Hash(), depth, ply, alpha, beta)
	if ok {
		return score
	}

	moves := board.GenerateMovesInto(make([]gm.Move, 0, 64))
	if len(moves) == 0 {
		if board.InCheck(board.SideToMove()) {
			return -MaxScore + int32(ply)
		}
		return 0
	}

	var list moveList
	s.scoreMoves(moves, hashMove, ply, &list)

	var childPV pvLine
	bestScore := -MaxScore - 1
	bestMove := gm.NoMove

	for i := range list.moves {
		m := list.next(i)
		st := board.MakeMove(m)
		s.reps.push(board.Hash())
		childPV.clear()
		moveScore := -s.alphabeta(depth-1, ply+1, -beta, -alpha, &childPV)
		s.reps.pop()
		board.UnmakeMove(m, st)
		if s.stopped {
			return bestScore
		}

		if moveScore > bestScore {
			bestScore = moveScore
			bestMove = m
			if moveScore > alpha {
				alpha = moveScore
				pv.set(m, &childPV)
			}
		}
		if alpha >= beta {
			if m.IsQuiet() {
				s.killers.add(ply, m)
				s.history.add(board.SideToMove(), m, depth)
			}
			break
		}
	}

	flag := uint8(ttFlagExact)
	switch {
	case bestScore <= alphaOrig:
		flag = ttFlagAlpha
	case bestScore >= beta:
		flag = ttFlagBeta
	}
	s.tt.Store(board.Hash(), bestMove, bestScore, depth, ply, flag)
	return bestScore
}

// consumeNode counts the node and enforces the budget. It returns false once
// the search must unwind; the partial scores above the abort are discarded
// by the callers.
func (s *Searcher) consumeNode() bool {
	if s.stopped {
		return false
	}
	s.nodes++
	if s.maxNodes > 0 && s.nodes > s.maxNodes {
		s.stopped = true
		return false
	}
	if s.stop.Load() {
		s.stopped = true
		return false
	}
	if s.hasDeadline && s.nodes%2048 == 0 && time.Now().After(s.deadline) {
		s.stopped = true
		return false
	}
	return true
}

// searchReference runs the plain fixed-depth negamax: no pruning, no
// ordering, no hashing. It exists as the semantic baseline the optimized
// search must agree with at the root.
func (s *Searcher) searchReference(moves []gm.Move, depth int) Result {
	bestScore := -MaxScore - 1
	bestMove := gm.NoMove
	for _, m := range moves {
		st := s.board.MakeMove(m)
		s.reps.push(s.board.Hash())
		score := -s.negamax(depth-1, 1)
		s.reps.pop()
		s.board.UnmakeMove(m, st)
		if score > bestScore {
			bestScore = score
			bestMove = m
		}
	}
	return Result{BestMove: bestMove, Score: bestScore, Depth: depth, Nodes: s.nodes}
}

func (s *Searcher) negamax(depth, ply int) int32 {
	s.nodes++
	board := s.board
	if board.IsDrawBy50() || s.reps.isRepetition(board.Hash(), board.HalfmoveClock()) {
		return 0
	}
	if depth <= 0 || ply >= maxPly {
		return Evaluate(board)
	}
	moves := board.GenerateMoves()
	if len(moves) == 0 {
		if board.InCheck(board.SideToMove()) {
			return -MaxScore + int32(ply)
		}
		return 0
	}
	best := -MaxScore - 1
	for _, m := range moves {
		st := board.MakeMove(m)
		s.reps.push(board.Hash())
		score := -s.negamax(depth-1, ply+1)
		s.reps.pop()
		board.UnmakeMove(m, st)
		if score > best {
			best = score
		}
	}
	return best
}

// reportDepth emits the per-iteration info line.
func (s *Searcher) reportDepth(depth int, score int32, elapsed time.Duration, pv *pvLine) {
	if s.Info == nil {
		return
	}
	ms := elapsed.Milliseconds()
	nps := int64(0)
	if ms > 0 {
		nps = int64(s.nodes) * 1000 / ms
	} else {
		nps = int64(s.nodes) * 1000
	}
	fmt.Fprintf(s.Info, "info depth %d score %s nodes %d time %d nps %d pv %s\n",
		depth, formatScore(score), s.nodes, ms, nps, pv)
}

// formatScore renders a score as "cp N" or "mate N" (moves, negative when
// the engine is being mated).
func formatScore(score int32) string {
	if score > MateThreshold {
		return fmt.Sprintf("mate %d", (MaxScore-score+1)/2)
	}
	if score < -MateThreshold {
		return fmt.Sprintf("mate %d", -(MaxScore+score+1)/2)
	}
	return fmt.Sprintf("cp %d", score)
}

// pvLine is a principal variation, the move chain the search expects.
type pvLine struct {
	moves []gm.Move
}

func (pv *pvLine) clear() { pv.moves = pv.moves[:0] }

// set replaces the line with m followed by the child's line.
func (pv *pvLine) set(m gm.Move, child *pvLine) {
	pv.moves = append(pv.moves[:0], m)
	pv.moves = append(pv.moves, child.moves...)
}

func (pv *pvLine) bestMove() gm.Move {
	if len(pv.moves) == 0 {
		return gm.NoMove
	}
	return pv.moves[0]
}

func (pv *pvLine) String() string {
	parts := make([]string, len(pv.moves))
	for i, m := range pv.moves {
		parts[i] = m.String()
	}
	return strings.Join(parts, " ")
}
