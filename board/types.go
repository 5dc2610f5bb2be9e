// Package board implements chess position state: bitboard storage, FEN
// parsing, make/unmake, and legal move generation.
package board

// Color identifies a side.
type Color int

const (
	White Color = iota
	Black
)

// Other returns the opposing color.
func (c Color) Other() Color {
	return c ^ 1
}

// PieceKind identifies a piece type, independent of color.
type PieceKind int

const (
	NoPiece PieceKind = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

// Square is a board square in [0, 63]; A1=0, H8=63.
type Square int

const SquareNone Square = -1

const (
	A1 Square = iota
	B1
	C1
	D1
	E1
	F1
	G1
	H1
	A2
	B2
	C2
	D2
	E2
	F2
	G2
	H2
	A3
	B3
	C3
	D3
	E3
	F3
	G3
	H3
	A4
	B4
	C4
	D4
	E4
	F4
	G4
	H4
	A5
	B5
	C5
	D5
	E5
	F5
	G5
	H5
	A6
	B6
	C6
	D6
	E6
	F6
	G6
	H6
	A7
	B7
	C7
	D7
	E7
	F7
	G7
	H7
	A8
	B8
	C8
	D8
	E8
	F8
	G8
	H8
)

// File returns the square's file, 0 (A) to 7 (H).
func (sq Square) File() int { return int(sq) & 7 }

// Rank returns the square's rank, 0 (rank 1) to 7 (rank 8).
func (sq Square) Rank() int { return int(sq) >> 3 }

const (
	FileA = iota
	FileB
	FileC
	FileD
	FileE
	FileF
	FileG
	FileH
)

const (
	Rank1 = iota
	Rank2
	Rank3
	Rank4
	Rank5
	Rank6
	Rank7
	Rank8
)

const (
	KingSide = iota
	QueenSide
)

const MaxMoves = 256

// CastlingRights holds the four booleans as bits: white king/queen side,
// black king/queen side, in that order.
type CastlingRights int

const (
	WhiteKingSide CastlingRights = 1 << iota
	WhiteQueenSide
	BlackKingSide
	BlackQueenSide
)

func castleRightsFor(c Color, side int) CastlingRights {
	if c == White {
		if side == KingSide {
			return WhiteKingSide
		}
		return WhiteQueenSide
	}
	if side == KingSide {
		return BlackKingSide
	}
	return BlackQueenSide
}
