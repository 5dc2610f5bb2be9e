// Package eval computes a static, material-plus-positional score for a
// board.Board from the side-to-move's perspective.
package eval

import (
	"github.com/corvid-chess/corvid/board"
	"github.com/corvid-chess/corvid/internal/xmath"
)

const (
	pawnValue   = 100
	knightValue = 320
	bishopValue = 330
	rookValue   = 500
	queenValue  = 900
	kingValue   = 20000

	centerBonus         = 20
	passedPawnStep      = 20
	doubledPawnPenalty  = 15
	isolatedPawnPenalty = 20
	rookOpenFileBonus   = 25
	bishopPairBonus     = 30
	kingShieldBonus     = 20
	kingDangerPenalty   = 15
)

var pieceValue = [7]int{0, pawnValue, knightValue, bishopValue, rookValue, queenValue, kingValue}

// PieceValue exposes the material values used by Evaluate, indexed by
// board.PieceKind, for callers that need them outside evaluation (move
// ordering's MVV-LVA, for instance).
func PieceValue(k board.PieceKind) int {
	return pieceValue[k]
}

var centerSquares = board.Bitboard(1)<<board.D4 | board.Bitboard(1)<<board.E4 |
	board.Bitboard(1)<<board.D5 | board.Bitboard(1)<<board.E5

// Evaluate returns an integer score, positive meaning better for the
// side to move.
func Evaluate(b *board.Board) int {
	white := evaluateSide(b, board.White)
	black := evaluateSide(b, board.Black)
	score := white - black
	if b.SideToMove() == board.Black {
		score = -score
	}
	return score
}

func evaluateSide(b *board.Board, c board.Color) int {
	score := 0

	for k := board.Pawn; k <= board.King; k++ {
		bb := b.PiecesOf(c, k)
		score += board.PopCount(bb) * pieceValue[k]
		score += board.PopCount(bb&centerSquares) * centerBonus
	}

	score += evaluatePawns(b, c)
	score += evaluateRooks(b, c)

	if board.PopCount(b.PiecesOf(c, board.Bishop)) >= 2 {
		score += bishopPairBonus
	}

	score += evaluateKingSafety(b, c)
	score += evaluateMobility(b, c)

	return score
}

func evaluatePawns(b *board.Board, c board.Color) int {
	score := 0
	own := b.PiecesOf(c, board.Pawn)
	enemy := b.PiecesOf(c.Other(), board.Pawn)

	for bb := own; bb != 0; bb &= bb - 1 {
		sq := board.Square(board.FirstOne(bb))
		pst := pawnPST[pstIndex(sq, c)]
		score += pst

		file := sq.File()
		if board.PopCount(own&board.FileMask[file]) > 1 {
			score -= doubledPawnPenalty
		}
		if !hasAdjacentFilePawns(own, file) {
			score -= isolatedPawnPenalty
		}
		if isPassedPawn(sq, c, enemy) {
			advancement := passedAdvancement(sq, c)
			score += passedPawnStep * advancement
		}
	}
	return score
}

func hasAdjacentFilePawns(pawns board.Bitboard, file int) bool {
	var mask board.Bitboard
	if file > 0 {
		mask |= board.FileMask[file-1]
	}
	if file < 7 {
		mask |= board.FileMask[file+1]
	}
	return pawns&mask != 0
}

func isPassedPawn(sq board.Square, c board.Color, enemyPawns board.Bitboard) bool {
	file := sq.File()
	var mask board.Bitboard
	for f := xmath.Max(file-1, 0); f <= xmath.Min(file+1, 7); f++ {
		mask |= board.FileMask[f]
	}
	var aheadMask board.Bitboard
	if c == board.White {
		for r := sq.Rank() + 1; r <= 7; r++ {
			aheadMask |= board.RankMask[r]
		}
	} else {
		for r := sq.Rank() - 1; r >= 0; r-- {
			aheadMask |= board.RankMask[r]
		}
	}
	return enemyPawns&mask&aheadMask == 0
}

func passedAdvancement(sq board.Square, c board.Color) int {
	if c == board.White {
		return sq.Rank() - board.Rank2
	}
	return board.Rank7 - sq.Rank()
}

func fileDistance(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}

func evaluateRooks(b *board.Board, c board.Color) int {
	score := 0
	pawns := b.PiecesOf(c, board.Pawn)
	for bb := b.PiecesOf(c, board.Rook); bb != 0; bb &= bb-1 {
		sq := board.Square(board.FirstOne(bb))
		if pawns&board.FileMask[sq.File()] == 0 {
			score += rookOpenFileBonus
		}
	}
	return score
}

var kingFrontDelta = map[board.Color][3]int{
	board.White: {8, 7, 9},
	board.Black: {-8, -7, -9},
}

func evaluateKingSafety(b *board.Board, c board.Color) int {
	kingBB := b.PiecesOf(c, board.King)
	if kingBB == 0 {
		return 0
	}
	kingSq := board.Square(board.FirstOne(kingBB))
	ownPawns := b.PiecesOf(c, board.Pawn)
	enemyPawns := b.PiecesOf(c.Other(), board.Pawn)

	score := 0
	for _, d := range kingFrontDelta[c] {
		to := int(kingSq) + d
		if to < 0 || to > 63 {
			continue
		}
		if fileDistance(board.Square(to).File(), kingSq.File()) > 1 {
			continue
		}
		if ownPawns&(board.Bitboard(1)<<uint(to)) != 0 {
			score += kingShieldBonus
		}
	}

	neighborhood := board.KingAttacks(kingSq) | (board.Bitboard(1) << uint(kingSq))
	score -= board.PopCount(neighborhood&enemyPawns) * kingDangerPenalty
	return score
}

func evaluateMobility(b *board.Board, c board.Color) int {
	occ := b.Occupied()
	notOcc := ^occ
	var attacks board.Bitboard
	for bb := b.PiecesOf(c, board.Knight); bb != 0; bb &= bb - 1 {
		attacks |= board.KnightAttacks(board.Square(board.FirstOne(bb)))
	}
	for bb := b.PiecesOf(c, board.Bishop); bb != 0; bb &= bb - 1 {
		attacks |= board.BishopAttacks(board.Square(board.FirstOne(bb)), occ)
	}
	for bb := b.PiecesOf(c, board.Rook); bb != 0; bb &= bb - 1 {
		attacks |= board.RookAttacks(board.Square(board.FirstOne(bb)), occ)
	}
	for bb := b.PiecesOf(c, board.Queen); bb != 0; bb &= bb - 1 {
		attacks |= board.QueenAttacks(board.Square(board.FirstOne(bb)), occ)
	}
	return board.PopCount(attacks&notOcc) / 4
}
