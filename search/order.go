package search

import (
	"sort"

	"github.com/corvid-chess/corvid/board"
	"github.com/corvid-chess/corvid/eval"
)

// orderTables holds the killer-move and history heuristics, private to
// a single searcher and reset at the start of every iterativeDeepening
// call.
type orderTables struct {
	killers [maxKillerPly][2]board.Move
	history [64][64]int
}

func (o *orderTables) Clear() {
	for i := range o.killers {
		o.killers[i] = [2]board.Move{}
	}
	for i := range o.history {
		o.history[i] = [64]int{}
	}
}

func (o *orderTables) addKiller(ply int, m board.Move) {
	if ply >= maxKillerPly {
		return
	}
	if o.killers[ply][0] != m {
		o.killers[ply][1] = o.killers[ply][0]
		o.killers[ply][0] = m
	}
}

func (o *orderTables) addHistory(from, to board.Square, depth int) {
	o.history[from][to] += depth * depth
}

const (
	scoreMate      = 300000
	scoreTT        = 200000
	scoreCapture   = 100000
	scorePromotion = 90000
	scoreKiller0   = 50000
	scoreKiller1   = 40000
)

// capturedKind reports the piece kind m removes from the board,
// including the pawn taken by an en-passant capture.
func capturedKind(b *board.Board, m board.Move) (board.PieceKind, bool) {
	if kind, _, ok := b.PieceAt(m.To); ok {
		return kind, true
	}
	movingKind, _, _ := b.PieceAt(m.From)
	if movingKind == board.Pawn && m.From.File() != m.To.File() && m.To == b.EnPassantTarget() {
		return board.Pawn, true
	}
	return board.NoPiece, false
}

func isTacticalMove(b *board.Board, m board.Move) bool {
	_, isCapture := capturedKind(b, m)
	return isCapture || m.Promotion != board.NoPiece
}

// givesCheckmate plays m, tests for checkmate, and unmakes it. Used
// only for move-ordering priority; legality of m itself is guaranteed
// by the caller's move generation.
func givesCheckmate(b *board.Board, m board.Move) bool {
	b.MakeMove(m)
	mate := b.IsCheckmate()
	b.UnmakeMove()
	return mate
}

func scoreMove(b *board.Board, m board.Move, ttMove board.Move, ply int, ot *orderTables) int {
	if givesCheckmate(b, m) {
		return scoreMate
	}
	if m == ttMove {
		return scoreTT
	}
	if kind, isCapture := capturedKind(b, m); isCapture {
		aggressor, _, _ := b.PieceAt(m.From)
		return scoreCapture + 10*eval.PieceValue(kind) - eval.PieceValue(aggressor)
	}
	if m.Promotion != board.NoPiece {
		return scorePromotion + eval.PieceValue(m.Promotion)
	}
	if ply < maxKillerPly {
		if m == ot.killers[ply][0] {
			return scoreKiller0
		}
		if m == ot.killers[ply][1] {
			return scoreKiller1
		}
	}
	return ot.history[m.From][m.To]
}

// orderMoves sorts moves (in place) from most to least promising
// according to the move-ordering priority table.
func orderMoves(b *board.Board, moves []board.Move, ttMove board.Move, ply int, ot *orderTables) {
	scores := make([]int, len(moves))
	for i, m := range moves {
		scores[i] = scoreMove(b, m, ttMove, ply, ot)
	}
	sort.Stable(&moveSorter{moves: moves, scores: scores})
}

type moveSorter struct {
	moves  []board.Move
	scores []int
}

func (s *moveSorter) Len() int      { return len(s.moves) }
func (s *moveSorter) Swap(i, j int) {
	s.moves[i], s.moves[j] = s.moves[j], s.moves[i]
	s.scores[i], s.scores[j] = s.scores[j], s.scores[i]
}
func (s *moveSorter) Less(i, j int) bool { return s.scores[i] > s.scores[j] }
