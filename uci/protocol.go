// Package uci implements the engine side of the Universal Chess
// Interface protocol over stdio.
package uci

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/corvid-chess/corvid/board"
	"github.com/corvid-chess/corvid/book"
	"github.com/corvid-chess/corvid/search"
)

const (
	engineName   = "Corvid"
	engineAuthor = "corvid-chess"
)

// Driver owns the one board, the one search engine, and the one
// opening book that make up a running session, plus enough state to
// let a concurrently-arriving "stop" cancel an in-flight "go".
type Driver struct {
	in  *bufio.Scanner
	out io.Writer
	log *logger

	board  *board.Board
	engine *search.Engine
	bk     *book.Book

	bookFile *StringOption
	maxDepth *IntOption
	hash     *IntOption

	group    *errgroup.Group
	groupCtx context.Context

	mu           sync.Mutex
	searchCancel context.CancelFunc
	done         chan struct{}
}

// New builds a Driver reading commands from in and writing protocol
// lines to out; diagnostics go to errOut.
func New(in io.Reader, out io.Writer, errOut io.Writer) *Driver {
	group, groupCtx := errgroup.WithContext(context.Background())
	done := make(chan struct{})
	close(done)
	d := &Driver{
		in:     bufio.NewScanner(in),
		out:    out,
		log:    newLogger(errOut, out),
		board:  board.New(),
		engine: search.NewEngine(16),
		bk:     book.New(),

		bookFile: &StringOption{OptionName: "BookFile"},
		maxDepth: &IntOption{OptionName: "MaxDepth", Value: 30, Default: 30, Min: 1, Max: 30},
		hash:     &IntOption{OptionName: "Hash", Value: 16, Default: 16, Min: 1, Max: 1024},

		group:    group,
		groupCtx: groupCtx,
		done:     done,
	}
	return d
}

// Run scans stdin line by line until "quit" or EOF, dispatching each
// recognized command; it returns once any in-flight search has wound
// down.
func (d *Driver) Run() {
	for d.in.Scan() {
		line := strings.TrimSpace(d.in.Text())
		if line == "quit" {
			d.stopCommand()
			break
		}
		d.handle(line)
	}
	if d.group != nil {
		d.group.Wait()
	}
}

func (d *Driver) handle(line string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return
	}

	if fields[0] == "stop" {
		d.stopCommand()
		return
	}

	// A search goroutine owns d.board (MakeMove/UnmakeMove inside
	// negamax/quiescence) until it closes d.done; any command that
	// could mutate or read inconsistent board/engine state must wait
	// until it is idle, mirroring the teacher's done-channel busy gate.
	select {
	case <-d.currentDone():
	default:
		d.log.infoString("search still running, command ignored")
		return
	}

	switch fields[0] {
	case "uci":
		d.uciCommand()
	case "isready":
		fmt.Fprintln(d.out, "readyok")
	case "ucinewgame":
		d.uciNewGameCommand()
	case "position":
		d.positionCommand(fields[1:])
	case "go":
		d.goCommand(fields[1:])
	case "setoption":
		d.setOptionCommand(fields[1:])
	default:
		// Unknown command or malformed line: ignore per the protocol
		// parse-error policy.
	}
}

func (d *Driver) uciCommand() {
	fmt.Fprintf(d.out, "id name %s\n", engineName)
	fmt.Fprintf(d.out, "id author %s\n", engineAuthor)
	fmt.Fprintf(d.out, "option name %s type string default %s\n", d.bookFile.Name(), d.bookFile.Value)
	fmt.Fprintf(d.out, "option name %s type spin default %d min %d max %d\n",
		d.maxDepth.Name(), d.maxDepth.Default, d.maxDepth.Min, d.maxDepth.Max)
	fmt.Fprintf(d.out, "option name %s type spin default %d min %d max %d\n",
		d.hash.Name(), d.hash.Default, d.hash.Min, d.hash.Max)
	fmt.Fprintln(d.out, "uciok")
}

func (d *Driver) uciNewGameCommand() {
	d.board.Reset()
	if d.bookFile.Value != "" {
		d.loadBook(d.bookFile.Value)
	}
}

func (d *Driver) setOptionCommand(args []string) {
	nameIdx := indexOf(args, "name")
	if nameIdx == -1 {
		return
	}
	valueIdx := indexOf(args, "value")

	var name, value string
	if valueIdx == -1 {
		name = strings.Join(args[nameIdx+1:], " ")
	} else {
		name = strings.Join(args[nameIdx+1:valueIdx], " ")
		value = strings.Join(args[valueIdx+1:], " ")
	}

	switch {
	case strings.EqualFold(name, d.bookFile.Name()):
		d.bookFile.Value = value
		d.loadBook(value)
	case strings.EqualFold(name, d.maxDepth.Name()):
		v, err := strconv.Atoi(value)
		if err != nil || v < d.maxDepth.Min || v > d.maxDepth.Max {
			return
		}
		d.maxDepth.Value = v
	case strings.EqualFold(name, d.hash.Name()):
		v, err := strconv.Atoi(value)
		if err != nil || v < d.hash.Min || v > d.hash.Max {
			return
		}
		d.hash.Value = v
		d.engine.Resize(v)
	}
}

func (d *Driver) loadBook(path string) {
	b, err := book.Load(path)
	if err != nil {
		d.log.infoString(fmt.Sprintf("opening book %q missing or invalid, continuing without a book", path))
		d.bk = book.New()
		return
	}
	d.bk = b
}

func (d *Driver) positionCommand(args []string) {
	if len(args) == 0 {
		return
	}

	movesIdx := indexOf(args, "moves")

	switch args[0] {
	case "startpos":
		d.board.Reset()
	case "fen":
		var fenFields []string
		if movesIdx == -1 {
			fenFields = args[1:]
		} else {
			fenFields = args[1:movesIdx]
		}
		if err := d.board.SetFEN(strings.Join(fenFields, " ")); err != nil {
			return
		}
	default:
		return
	}

	if movesIdx != -1 && movesIdx+1 < len(args) {
		d.applyMoves(args[movesIdx+1:])
	}
}

// applyMoves plays each UCI move in turn, silently skipping any that
// are not legal in the position reached so far and continuing with
// the rest from that unchanged position.
func (d *Driver) applyMoves(moves []string) {
	for _, s := range moves {
		m, ok := board.ParseUCIMove(s)
		if !ok {
			continue
		}
		if !d.isLegal(m) {
			continue
		}
		d.board.MakeMove(m)
	}
}

func (d *Driver) isLegal(m board.Move) bool {
	for _, lm := range d.board.GenerateLegalMoves() {
		if lm == m {
			return true
		}
	}
	return false
}

func (d *Driver) goCommand(args []string) {
	depth := d.maxDepth.Value
	movetimeMs := 0
	infinite := false
	var clock clockInfo

	for i := 0; i < len(args); i++ {
		next := func() int {
			if i+1 >= len(args) {
				return 0
			}
			i++
			v, _ := strconv.Atoi(args[i])
			return v
		}
		switch args[i] {
		case "depth":
			depth = next()
		case "movetime":
			movetimeMs = next()
		case "infinite":
			infinite = true
		case "wtime":
			clock.hasClock = true
			clock.whiteTimeMs = next()
		case "btime":
			clock.hasClock = true
			clock.blackTimeMs = next()
		case "winc":
			clock.whiteIncMs = next()
		case "binc":
			clock.blackIncMs = next()
		case "movestogo":
			clock.movesToGo = next()
		}
	}

	if move, ok := d.bk.Probe(d.board); ok {
		fmt.Fprintf(d.out, "bestmove %s\n", move)
		return
	}

	legal := d.board.GenerateLegalMoves()
	if len(legal) == 0 {
		fmt.Fprintln(d.out, "bestmove 0000")
		return
	}

	var budget time.Duration
	switch {
	case infinite:
		budget = 0
	case movetimeMs > 0:
		budget = time.Duration(movetimeMs) * time.Millisecond
	default:
		budget = computeBudget(clock, d.board.SideToMove(), board.PopCount(d.board.Occupied()))
	}

	ctx, cancel := context.WithCancel(d.groupCtx)
	d.setSearchCancel(cancel)

	searchDone := make(chan struct{})
	d.mu.Lock()
	d.done = searchDone
	d.mu.Unlock()

	b := d.board
	d.group.Go(func() error {
		defer cancel()
		defer d.setSearchCancel(nil)
		defer close(searchDone)
		move, completedDepth := d.engine.IterativeDeepening(ctx, b, depth, budget, d.onInfo)
		if completedDepth == 0 && move == board.MoveNone {
			move = legal[0]
		}
		fmt.Fprintf(d.out, "bestmove %s\n", move)
		return nil
	})
}

func (d *Driver) onInfo(info search.Info) {
	fmt.Fprintf(d.out, "info depth %d seldepth %d score cp %d nodes %d nps %d time %d hashfull %d pv %s\n",
		info.Depth, info.SelDepth, info.ScoreCP, info.Nodes, info.NPS, info.TimeMs, info.HashFull, info.Move)
}

func (d *Driver) stopCommand() {
	d.mu.Lock()
	cancel := d.searchCancel
	d.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (d *Driver) currentDone() chan struct{} {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.done
}

func (d *Driver) setSearchCancel(cancel context.CancelFunc) {
	d.mu.Lock()
	d.searchCancel = cancel
	d.mu.Unlock()
}

func indexOf(args []string, token string) int {
	for i, a := range args {
		if a == token {
			return i
		}
	}
	return -1
}
