// Package search implements alpha-beta negamax over board.Board with
// iterative deepening, a transposition table, null-move pruning, late
// move reductions, and killer/history move ordering.
package search

import (
	"context"
	"time"
	"unsafe"

	"github.com/corvid-chess/corvid/board"
	"github.com/corvid-chess/corvid/eval"
)

const (
	maxPly           = 64
	maxKillerPly     = 30
	maxQuiescencePly = 30

	valueMate     = 30000
	valueInfinity = valueMate + 1
	valueWin      = valueMate - 2*maxPly
	valueLoss     = -valueWin

	nodePollInterval = 2048
)

func valueToTT(v, ply int) int {
	switch {
	case v >= valueWin:
		return v + ply
	case v <= valueLoss:
		return v - ply
	default:
		return v
	}
}

func valueFromTT(v, ply int) int {
	switch {
	case v >= valueWin:
		return v - ply
	case v <= valueLoss:
		return v + ply
	default:
		return v
	}
}

// Info is emitted once per completed iterative-deepening depth.
type Info struct {
	Depth    int
	SelDepth int
	ScoreCP  int
	Nodes    uint64
	NPS      uint64
	TimeMs   int64
	HashFull int
	Move     board.Move
}

// Engine holds everything private to one search: the transposition
// table plus the killer and history tables. It is safe to reuse
// across searches; IterativeDeepening resets the ephemeral state
// (tables, counters) on every call, per the single-writer ownership
// model of the search.
type Engine struct {
	tt    *TranspositionTable
	order orderTables

	nodes    uint64
	qnodes   uint64
	seldepth int
	stopped  bool
}

// NewEngine builds an Engine with a transposition table sized for
// hashMB megabytes.
func NewEngine(hashMB int) *Engine {
	entries := hashMB * 1024 * 1024 / int(unsafe.Sizeof(ttEntry{}))
	return &Engine{tt: NewTranspositionTable(entries)}
}

// Resize replaces the transposition table, e.g. in response to a UCI
// "setoption name Hash" command.
func (e *Engine) Resize(hashMB int) {
	entries := hashMB * 1024 * 1024 / int(unsafe.Sizeof(ttEntry{}))
	e.tt = NewTranspositionTable(entries)
}

// IterativeDeepening searches b (which must remain unmodified by
// callers concurrently) up to maxDepth plies or until budget elapses,
// whichever comes first, calling onInfo after every completed depth.
// It returns the best move found and the deepest fully-completed
// depth. ctx carries cooperative cancellation (e.g. a UCI "stop"); a
// non-positive budget means no wall-clock limit.
func (e *Engine) IterativeDeepening(ctx context.Context, b *board.Board, maxDepth int, budget time.Duration, onInfo func(Info)) (board.Move, int) {
	e.tt.Clear()
	e.order.Clear()
	e.nodes, e.qnodes, e.seldepth, e.stopped = 0, 0, 0, false

	start := time.Now()
	searchCtx := ctx
	if budget > 0 {
		var cancel context.CancelFunc
		searchCtx, cancel = context.WithTimeout(ctx, budget)
		defer cancel()
	}

	rootMoves := b.GenerateLegalMoves()
	if len(rootMoves) == 0 {
		return board.MoveNone, 0
	}
	bestMove := rootMoves[0]
	completedDepth := 0
	prevScore := 0

	for depth := 1; depth <= maxDepth; depth++ {
		alpha, beta := -valueInfinity, valueInfinity
		if depth >= 5 {
			alpha, beta = prevScore-50, prevScore+50
		}

		score, move := e.negamax(searchCtx, b, depth, alpha, beta, 0)
		if !e.stopped && (score <= alpha || score >= beta) {
			score, move = e.negamax(searchCtx, b, depth, -valueInfinity, valueInfinity, 0)
		}
		if e.stopped {
			break
		}

		bestMove = move
		prevScore = score
		completedDepth = depth

		if onInfo != nil {
			elapsed := time.Since(start)
			nodes := e.nodes + e.qnodes
			var nps uint64
			if elapsed > 0 {
				nps = uint64(float64(nodes) / elapsed.Seconds())
			}
			onInfo(Info{
				Depth:    depth,
				SelDepth: e.seldepth,
				ScoreCP:  score,
				Nodes:    nodes,
				NPS:      nps,
				TimeMs:   elapsed.Milliseconds(),
				HashFull: e.tt.HashFull(),
				Move:     move,
			})
		}
	}

	return bestMove, completedDepth
}

func (e *Engine) pollTime(ctx context.Context) {
	select {
	case <-ctx.Done():
		e.stopped = true
	default:
	}
}

// negamax implements the algorithm from the search specification:
// check extension, TT probe/store, null-move pruning, late-move
// reduction, and killer/history-aware move ordering. It returns the
// score from the side-to-move's perspective and the move that
// achieved it.
func (e *Engine) negamax(ctx context.Context, b *board.Board, depth, alpha, beta, ply int) (int, board.Move) {
	e.nodes++
	if ply > e.seldepth {
		e.seldepth = ply
	}
	if (e.nodes+e.qnodes)%nodePollInterval == 0 {
		e.pollTime(ctx)
	}
	if e.stopped {
		return alpha, board.MoveNone
	}

	if depth <= 0 {
		return e.quiescence(ctx, b, alpha, beta, ply), board.MoveNone
	}

	inCheck := b.IsInCheck(b.SideToMove())
	if inCheck {
		depth++
	}

	alphaOrig := alpha
	key := b.Key()

	var ttMove board.Move
	if move, score, ttDepth, bound, ok := e.tt.Probe(key); ok {
		ttMove = move
		if ttDepth >= depth {
			score = valueFromTT(score, ply)
			switch bound {
			case BoundExact:
				return score, move
			case BoundLower:
				if score >= beta {
					return beta, move
				}
			case BoundUpper:
				if score <= alpha {
					return alpha, move
				}
			}
		}
	}

	if depth >= 3 && !inCheck && b.HasNonPawnMaterial(b.SideToMove()) {
		b.MakeNullMove()
		childScore, _ := e.negamax(ctx, b, depth-3, -beta, -beta+1, ply+1)
		b.UnmakeNullMove()
		if e.stopped {
			return alpha, board.MoveNone
		}
		if -childScore >= beta {
			return beta, board.MoveNone
		}
	}

	if b.IsInsufficientMaterial() {
		return 0, board.MoveNone
	}

	moves := b.GenerateLegalMoves()
	if len(moves) == 0 {
		if inCheck {
			return -valueMate + ply, board.MoveNone
		}
		return 0, board.MoveNone
	}

	orderMoves(b, moves, ttMove, ply, &e.order)

	bestScore := -valueInfinity
	bestMove := moves[0]

	for i, m := range moves {
		tactical := isTacticalMove(b, m)

		b.MakeMove(m)
		var score int
		if depth >= 3 && i >= 3 && !tactical && !inCheck {
			reduced, _ := e.negamax(ctx, b, depth-2, -beta, -alpha, ply+1)
			score = -reduced
			if score > alpha {
				full, _ := e.negamax(ctx, b, depth-1, -beta, -alpha, ply+1)
				score = -full
			}
		} else {
			child, _ := e.negamax(ctx, b, depth-1, -beta, -alpha, ply+1)
			score = -child
		}
		b.UnmakeMove()

		if e.stopped {
			return alpha, board.MoveNone
		}

		if score > bestScore {
			bestScore = score
			bestMove = m
		}
		if score > alpha {
			alpha = score
			if !tactical && ply < maxKillerPly {
				e.order.addKiller(ply, m)
			}
		}
		if alpha >= beta {
			if !tactical {
				e.order.addHistory(m.From, m.To, depth)
			}
			break
		}
	}

	var bound Bound
	switch {
	case bestScore <= alphaOrig:
		bound = BoundUpper
	case bestScore >= beta:
		bound = BoundLower
	default:
		bound = BoundExact
	}
	e.tt.Store(key, depth, valueToTT(bestScore, ply), bound, bestMove)

	return bestScore, bestMove
}

// quiescence extends the search with captures (and, when in check,
// every legal reply) past the nominal horizon to avoid misjudging
// positions mid-exchange.
func (e *Engine) quiescence(ctx context.Context, b *board.Board, alpha, beta, ply int) int {
	e.qnodes++
	if ply > e.seldepth {
		e.seldepth = ply
	}
	if (e.nodes+e.qnodes)%nodePollInterval == 0 {
		e.pollTime(ctx)
	}
	if e.stopped {
		return alpha
	}

	inCheck := b.IsInCheck(b.SideToMove())
	if !inCheck {
		standPat := eval.Evaluate(b)
		if standPat >= beta {
			return beta
		}
		if standPat > alpha {
			alpha = standPat
		}
	}

	if ply >= maxQuiescencePly {
		return alpha
	}

	var moves []board.Move
	if inCheck {
		moves = b.GenerateLegalMoves()
	} else {
		moves = b.GenerateCaptures()
	}
	if len(moves) == 0 {
		if inCheck {
			return -valueMate + ply
		}
		return alpha
	}

	orderMoves(b, moves, board.MoveNone, ply, &e.order)

	for _, m := range moves {
		b.MakeMove(m)
		score := -e.quiescence(ctx, b, -beta, -alpha, ply+1)
		b.UnmakeMove()

		if e.stopped {
			return alpha
		}
		if score >= beta {
			return beta
		}
		if score > alpha {
			alpha = score
		}
	}

	return alpha
}
