package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"mallard-engine/engine"
	gm "mallard-engine/mallardmg"
)

const (
	engineName   = "Mallard 0.1"
	engineAuthor = "the Mallard authors"

	defaultHashMB = 64
)

func main() {
	uciLoop(os.Stdin, os.Stdout)
}

// uciState is the protocol adapter's mutable state: the game position as
// built by "position" commands, its hash history for repetition detection,
// and the searcher running on its own goroutine.
type uciState struct {
	out      io.Writer
	searcher *engine.Searcher
	board    *gm.Board
	history  []uint64
	hashMB   int

	// searchDone is non-nil while a search goroutine is running and is
	// closed when it finishes.
	searchDone chan struct{}
}

func uciLoop(in io.Reader, out io.Writer) {
	st := &uciState{
		out:      out,
		searcher: engine.NewSearcher(defaultHashMB),
		board:    gm.NewBoard(),
		hashMB:   defaultHashMB,
	}
	st.history = []uint64{st.board.Hash()}
	st.searcher.Info = out

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := scanner.Text()
		tokens := strings.Fields(line)
		if len(tokens) == 0 { // ignore blank lines
			continue
		}
		switch strings.ToLower(tokens[0]) {
		case "uci":
			fmt.Fprintf(out, "id name %s\n", engineName)
			fmt.Fprintf(out, "id author %s\n", engineAuthor)
			fmt.Fprintf(out, "option name Hash type spin default %d min 1 max 1024\n", defaultHashMB)
			fmt.Fprintln(out, "uciok")
		case "isready":
			st.waitForSearch()
			fmt.Fprintln(out, "readyok")
		case "ucinewgame":
			st.waitForSearch()
			st.setStartpos()
			st.searcher = engine.NewSearcher(st.hashMB)
			st.searcher.Info = out
		case "setoption":
			st.handleSetOption(tokens)
		case "position":
			st.waitForSearch()
			if err := st.handlePosition(line); err != nil {
				fmt.Fprintf(out, "info string %v\n", err)
			}
		case "go":
			st.handleGo(line)
		case "stop":
			st.searcher.Stop()
		case "d":
			fmt.Fprint(out, st.board.String())
		case "quit":
			st.searcher.Stop()
			st.waitForSearch()
			return
		default:
			fmt.Fprintf(out, "info string Unknown command %s\n", tokens[0])
		}
	}
}

func (st *uciState) setStartpos() {
	st.board = gm.NewBoard()
	st.history = []uint64{st.board.Hash()}
}

// waitForSearch blocks until any running search has printed its bestmove.
func (st *uciState) waitForSearch() {
	if st.searchDone != nil {
		<-st.searchDone
		st.searchDone = nil
	}
}

// handleSetOption understands "setoption name Hash value N". The new size
// takes effect on the next ucinewgame.
func (st *uciState) handleSetOption(tokens []string) {
	if len(tokens) >= 5 && strings.EqualFold(tokens[1], "name") &&
		strings.EqualFold(tokens[2], "Hash") && strings.EqualFold(tokens[3], "value") {
		if mb, err := strconv.Atoi(tokens[4]); err == nil && mb >= 1 && mb <= 1024 {
			st.hashMB = mb
			return
		}
	}
	fmt.Fprintf(st.out, "info string Unsupported option %s\n", strings.Join(tokens[1:], " "))
}

// handlePosition parses "position [startpos | fen <FEN>] [moves m1 m2 ...]".
// On any error the game state keeps its previous value.
func (st *uciState) handlePosition(line string) error {
	posScanner := bufio.NewScanner(strings.NewReader(line))
	posScanner.Split(bufio.ScanWords)
	posScanner.Scan() // skip "position"
	if !posScanner.Scan() {
		return fmt.Errorf("malformed position command")
	}

	var board *gm.Board
	switch strings.ToLower(posScanner.Text()) {
	case "startpos":
		board = gm.NewBoard()
		posScanner.Scan() // advance to "moves" if present
	case "fen":
		var fen strings.Builder
		for posScanner.Scan() && strings.ToLower(posScanner.Text()) != "moves" {
			fen.WriteString(posScanner.Text())
			fen.WriteByte(' ')
		}
		parsed, err := gm.ParseFEN(fen.String())
		if err != nil {
			return err
		}
		board = parsed
	default:
		return fmt.Errorf("invalid position subcommand %q", posScanner.Text())
	}

	history := []uint64{board.Hash()}
	if strings.ToLower(posScanner.Text()) == "moves" {
		for posScanner.Scan() {
			moveStr := strings.ToLower(posScanner.Text())
			m, err := board.ParseMove(moveStr)
			if err != nil {
				return err
			}
			board.MakeMove(m)
			history = append(history, board.Hash())
		}
	}

	st.board = board
	st.history = history
	return nil
}

// handleGo parses the go options and launches the search goroutine. The
// special form "go perft N" runs a perft count synchronously instead.
func (st *uciState) handleGo(line string) {
	tokens := strings.Fields(line)
	if len(tokens) >= 3 && strings.ToLower(tokens[1]) == "perft" {
		depth, err := strconv.Atoi(tokens[2])
		if err != nil || depth < 1 {
			fmt.Fprintf(st.out, "info string Malformed go perft depth %q\n", tokens[2])
			return
		}
		divide, _ := st.board.PerftDivide(depth)
		fmt.Fprint(st.out, divide)
		return
	}

	if st.searchDone != nil {
		select {
		case <-st.searchDone:
			st.searchDone = nil
		default:
			fmt.Fprintln(st.out, "info string Search already in progress")
			return
		}
	}

	limits, err := parseGoLimits(line)
	if err != nil {
		fmt.Fprintf(st.out, "info string %v\n", err)
		return
	}
	if limits == (engine.SearchLimits{}) {
		// Bare "go": pick a sane fixed budget rather than running forever.
		limits.MoveTime = 5 * time.Second
	}

	st.searcher.SetPosition(st.board, st.history)
	done := make(chan struct{})
	st.searchDone = done
	go func() {
		defer close(done)
		result := st.searcher.Search(limits)
		fmt.Fprintf(st.out, "bestmove %s\n", result.BestMove)
	}()
}

// parseGoLimits turns a "go" command line into search limits. Unrecognized
// options are reported and skipped, matching how lenient UCI frontends
// expect engines to behave.
func parseGoLimits(line string) (engine.SearchLimits, error) {
	var limits engine.SearchLimits
	goScanner := bufio.NewScanner(strings.NewReader(line))
	goScanner.Split(bufio.ScanWords)
	goScanner.Scan() // skip "go"

	intOption := func(name string) (int, error) {
		if !goScanner.Scan() {
			return 0, fmt.Errorf("malformed go option %s", name)
		}
		v, err := strconv.Atoi(goScanner.Text())
		if err != nil {
			return 0, fmt.Errorf("malformed go option %s: %v", name, err)
		}
		return v, nil
	}

	for goScanner.Scan() {
		var v int
		var err error
		switch name := strings.ToLower(goScanner.Text()); name {
		case "infinite":
			limits.Infinite = true
		case "depth":
			v, err = intOption(name)
			limits.Depth = v
		case "movetime":
			v, err = intOption(name)
			limits.MoveTime = time.Duration(v) * time.Millisecond
		case "nodes":
			v, err = intOption(name)
			limits.Nodes = uint64(v)
		case "wtime":
			v, err = intOption(name)
			limits.WhiteTime = time.Duration(v) * time.Millisecond
		case "btime":
			v, err = intOption(name)
			limits.BlackTime = time.Duration(v) * time.Millisecond
		case "winc":
			v, err = intOption(name)
			limits.WhiteInc = time.Duration(v) * time.Millisecond
		case "binc":
			v, err = intOption(name)
			limits.BlackInc = time.Duration(v) * time.Millisecond
		case "movestogo":
			v, err = intOption(name)
			limits.MovesToGo = v
		default:
			err = fmt.Errorf("unknown go option %s", name)
		}
		if err != nil {
			return limits, err
		}
	}
	return limits, nil
}
