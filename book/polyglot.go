package book

import "github.com/corvid-chess/corvid/board"

// Polyglot's random constants are distinct from the engine's own
// Zobrist table (board/zobrist.go): book files are keyed by the
// Polyglot convention, not the engine's internal fingerprint.
var (
	polyglotPieceKeys     [12][64]uint64
	polyglotCastleKeys    [4]uint64
	polyglotEnPassantKeys [8]uint64
	polyglotTurnKey       uint64
)

func init() {
	var s uint64 = 0x37b4a4b3f0d1c0d0
	next := func() uint64 {
		s ^= s >> 12
		s ^= s << 25
		s ^= s >> 27
		return s * 0x2545f4914f6cdd1d
	}
	for piece := 0; piece < 12; piece++ {
		for sq := 0; sq < 64; sq++ {
			polyglotPieceKeys[piece][sq] = next()
		}
	}
	for i := range polyglotCastleKeys {
		polyglotCastleKeys[i] = next()
	}
	for i := range polyglotEnPassantKeys {
		polyglotEnPassantKeys[i] = next()
	}
	polyglotTurnKey = next()
}

// polyglotKey computes the position's Polyglot-compatible fingerprint:
// XOR of per-piece, castling, en-passant, and side-to-move terms.
func polyglotKey(b *board.Board) uint64 {
	var key uint64
	for c := board.White; c <= board.Black; c++ {
		for k := board.Pawn; k <= board.King; k++ {
			bb := b.PiecesOf(c, k)
			for ; bb != 0; bb &= bb - 1 {
				sq := board.FirstOne(bb)
				// Polyglot interleaves piece kinds: BlackPawn=0,
				// WhitePawn=1, BlackKnight=2, WhiteKnight=3, ... not a
				// block of six Black kinds followed by six White ones.
				colorBit := 1
				if c == board.Black {
					colorBit = 0
				}
				idx := 2*(int(k)-1) + colorBit
				key ^= polyglotPieceKeys[idx][sq]
			}
		}
	}

	rights := b.CastlingRights()
	if rights&board.WhiteKingSide != 0 {
		key ^= polyglotCastleKeys[0]
	}
	if rights&board.WhiteQueenSide != 0 {
		key ^= polyglotCastleKeys[1]
	}
	if rights&board.BlackKingSide != 0 {
		key ^= polyglotCastleKeys[2]
	}
	if rights&board.BlackQueenSide != 0 {
		key ^= polyglotCastleKeys[3]
	}

	if ep := b.EnPassantTarget(); ep != board.SquareNone && canCaptureEnPassant(b, ep) {
		key ^= polyglotEnPassantKeys[ep.File()]
	}

	if b.SideToMove() == board.White {
		key ^= polyglotTurnKey
	}
	return key
}

// canCaptureEnPassant reports whether the side to move actually has a
// pawn that could capture on ep; Polyglot only folds the en-passant
// term into the key when the capture is available.
func canCaptureEnPassant(b *board.Board, ep board.Square) bool {
	side := b.SideToMove()
	rank := 4
	if side == board.Black {
		rank = 3
	}
	file := ep.File()
	pawns := b.PiecesOf(side, board.Pawn)
	if file > 0 {
		sq := board.Square(rank*8 + file - 1)
		if pawns&(board.Bitboard(1)<<uint(sq)) != 0 {
			return true
		}
	}
	if file < 7 {
		sq := board.Square(rank*8 + file + 1)
		if pawns&(board.Bitboard(1)<<uint(sq)) != 0 {
			return true
		}
	}
	return false
}

// decodePolyglotMove unpacks a 16-bit Polyglot move: bits 0-5 are the
// destination (file 0-2, rank 3-5), bits 6-11 the origin (same
// layout), bits 12-14 the promotion piece. Rank bits run 0 = rank 1
// through 7 = rank 8, matching our own Square numbering directly, so
// no additional rank XOR is applied (see DESIGN.md for why).
func decodePolyglotMove(data uint16) board.Move {
	toFile := int(data & 7)
	toRank := int((data >> 3) & 7)
	fromFile := int((data >> 6) & 7)
	fromRank := int((data >> 9) & 7)
	promo := (data >> 12) & 7

	from := board.Square(fromRank*8 + fromFile)
	to := board.Square(toRank*8 + toFile)

	// Polyglot encodes castling as king-captures-own-rook.
	switch {
	case from == board.E1 && to == board.H1:
		to = board.G1
	case from == board.E1 && to == board.A1:
		to = board.C1
	case from == board.E8 && to == board.H8:
		to = board.G8
	case from == board.E8 && to == board.A8:
		to = board.C8
	}

	var promotion board.PieceKind
	switch promo {
	case 1:
		promotion = board.Knight
	case 2:
		promotion = board.Bishop
	case 3:
		promotion = board.Rook
	case 4:
		promotion = board.Queen
	}
	return board.Move{From: from, To: to, Promotion: promotion}
}
