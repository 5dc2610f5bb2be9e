package eval

import "github.com/corvid-chess/corvid/board"

// pawnPST is indexed from White's point of view, a8=0 ... h1=63 reading
// order matching the FEN rank-8-first convention; Evaluate mirrors it
// vertically for Black.
var pawnPST = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	50, 50, 50, 50, 50, 50, 50, 50,
	10, 10, 20, 30, 30, 20, 10, 10,
	5, 5, 10, 25, 25, 10, 5, 5,
	0, 0, 0, 20, 20, 0, 0, 0,
	5, -5, -10, 0, 0, -10, -5, 5,
	5, 10, 10, -20, -20, 10, 10, 5,
	0, 0, 0, 0, 0, 0, 0, 0,
}

// pstIndex converts a board.Square (A1=0 rank-first) into an index into
// a White-viewpoint, rank-8-first table such as pawnPST.
func pstIndex(sq board.Square, c board.Color) int {
	file := sq.File()
	rank := sq.Rank()
	if c == board.Black {
		rank = 7 - rank
	}
	return (7-rank)*8 + file
}
