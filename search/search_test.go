package search

import (
	"context"
	"testing"
	"time"

	"github.com/corvid-chess/corvid/board"
	"github.com/corvid-chess/corvid/eval"
)

func mustFEN(t *testing.T, fen string) *board.Board {
	t.Helper()
	b := board.New()
	if err := b.SetFEN(fen); err != nil {
		t.Fatalf("setfen %q: %v", fen, err)
	}
	return b
}

func TestBestMoveLegality(t *testing.T) {
	b := board.New()
	e := NewEngine(16)
	move, depth := e.IterativeDeepening(context.Background(), b, 3, 0, nil)
	if depth == 0 {
		t.Fatal("no depth completed")
	}
	legal := b.GenerateLegalMoves()
	found := false
	for _, m := range legal {
		if m == move {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("bestmove %s is not in GenerateLegalMoves()", move)
	}
}

func TestMateInOne(t *testing.T) {
	b := mustFEN(t, "7k/5Q2/6K1/8/8/8/8/8 w - - 0 1")
	e := NewEngine(16)
	move, _ := e.IterativeDeepening(context.Background(), b, 3, 0, nil)
	want, _ := board.ParseUCIMove("f7g7")
	if move != want {
		t.Errorf("best move = %s, want f7g7", move)
	}
}

func TestQuiescenceStability(t *testing.T) {
	// A quiet king-and-pawn position with no captures available to the
	// side to move and not in check.
	b := mustFEN(t, "4k3/8/8/8/8/8/4P3/4K3 w - - 0 1")
	e := NewEngine(16)
	want := eval.Evaluate(b)
	got := e.quiescence(context.Background(), b, -valueInfinity, valueInfinity, 0)
	if got != want {
		t.Errorf("quiescence = %d, want %d", got, want)
	}
}

func TestTTObedience(t *testing.T) {
	b := board.New()
	e := NewEngine(16)
	e.tt.Clear()
	e.tt.Store(b.Key(), 10, 42, BoundExact, board.MoveNone)

	before := e.nodes
	score, _ := e.negamax(context.Background(), b, 5, -valueInfinity, valueInfinity, 0)
	if score != 42 {
		t.Errorf("score = %d, want 42 from TT", score)
	}
	if e.nodes != before+1 {
		t.Errorf("expected negamax to return immediately from the TT hit without recursing, nodes grew by %d", e.nodes-before)
	}
}

func TestIterativeDeepeningRespectsTimeBudget(t *testing.T) {
	b := board.New()
	e := NewEngine(16)
	start := time.Now()
	move, _ := e.IterativeDeepening(context.Background(), b, 64, 50*time.Millisecond, nil)
	if time.Since(start) > 2*time.Second {
		t.Fatal("search ran far past its time budget")
	}
	if move == board.MoveNone {
		t.Fatal("expected a move even under a tight time budget")
	}
}

func TestNoLegalMovesReturnsNoMove(t *testing.T) {
	b := mustFEN(t, "r1bqkb1r/pppp1Qpp/2n2n2/4p3/2B1P3/8/PPPP1PPP/RNB1K1NR b KQkq - 0 4")
	e := NewEngine(16)
	move, depth := e.IterativeDeepening(context.Background(), b, 3, 0, nil)
	if move != board.MoveNone {
		t.Errorf("expected no move in checkmate, got %s", move)
	}
	if depth != 0 {
		t.Errorf("expected completedDepth=0, got %d", depth)
	}
}
