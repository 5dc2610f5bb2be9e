package uci

import (
	"bytes"
	"strings"
	"testing"
)

// TestBusyGateRejectsCommandsDuringSearch simulates a search goroutine
// still in flight (an open d.done) and verifies handle refuses to touch
// the board for anything but "stop", the way the teacher's
// uciprotocol.go rejects every command but "stop" while its own done
// channel is open.
func TestBusyGateRejectsCommandsDuringSearch(t *testing.T) {
	var out bytes.Buffer
	d := New(strings.NewReader(""), &out, &bytes.Buffer{})

	startFEN := d.board.String()

	busy := make(chan struct{}) // never closed: simulates an outstanding search
	d.mu.Lock()
	d.done = busy
	d.mu.Unlock()

	d.handle("position fen 4k3/8/8/8/8/8/8/4K2R w K - 0 1")
	if d.board.String() != startFEN {
		t.Error("position command mutated the board while a search was outstanding")
	}

	d.handle("setoption name Hash value 64")
	if d.hash.Value == 64 {
		t.Error("setoption applied while a search was outstanding")
	}

	close(busy)
	d.handle("position fen 4k3/8/8/8/8/8/8/4K2R w K - 0 1")
	if d.board.String() == startFEN {
		t.Error("position command should apply once the prior search signaled done")
	}
}

// TestGoCommandIdleAfterImmediateBestMove checks that a go command
// answered synchronously (no legal moves, so no search goroutine is ever
// spawned) leaves the driver idle, so it doesn't wrongly gate the next
// command behind a done channel nothing will ever close.
func TestGoCommandIdleAfterImmediateBestMove(t *testing.T) {
	var out bytes.Buffer
	d := New(strings.NewReader(""), &out, &bytes.Buffer{})
	// Fool's mate position: side to move is checkmated, no legal moves.
	if err := d.board.SetFEN("rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3"); err != nil {
		t.Fatalf("setfen: %v", err)
	}

	d.goCommand(nil)

	select {
	case <-d.currentDone():
	default:
		t.Fatal("driver should be idle after a go command that returns bestmove synchronously")
	}
	if !strings.Contains(out.String(), "bestmove 0000") {
		t.Errorf("output = %q, want a bestmove 0000 line for a position with no legal moves", out.String())
	}
}
