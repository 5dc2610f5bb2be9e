package board

import "testing"

// https://www.chessprogramming.org/Perft_Results
func TestPerftInitialPosition(t *testing.T) {
	tests := []struct {
		depth int
		nodes uint64
	}{
		{1, 20},
		{2, 400},
		{3, 8902},
		{4, 197281},
		{5, 4865609},
	}
	for _, tt := range tests {
		b := New()
		nodes := b.Perft(tt.depth)
		if nodes != tt.nodes {
			t.Errorf("perft(%d) = %d, want %d", tt.depth, nodes, tt.nodes)
		}
	}
}

func TestPerftKiwipete(t *testing.T) {
	b := New()
	if err := b.SetFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"); err != nil {
		t.Fatal(err)
	}
	if got, want := b.Perft(3), uint64(97862); got != want {
		t.Errorf("perft(3) = %d, want %d", got, want)
	}
}

func TestPerftEnPassant(t *testing.T) {
	b := New()
	if err := b.SetFEN("8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1"); err != nil {
		t.Fatal(err)
	}
	if got, want := b.Perft(4), uint64(43238); got != want {
		t.Errorf("perft(4) = %d, want %d", got, want)
	}
}
