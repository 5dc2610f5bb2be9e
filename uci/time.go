package uci

import (
	"time"

	"github.com/corvid-chess/corvid/board"
	"github.com/corvid-chess/corvid/internal/xmath"
)

// clockInfo carries the "go" command's clock-related tokens.
type clockInfo struct {
	hasClock                         bool
	whiteTimeMs, blackTimeMs         int
	whiteIncMs, blackIncMs           int
	movesToGo                        int
}

const (
	defaultBudget = 300000 * time.Millisecond
	minBudget     = 100 * time.Millisecond
	maxBudget     = 600000 * time.Millisecond
)

// computeBudget converts remaining clock time into a wall-clock search
// budget: base = (timeLeft / max(1, movesRemaining)) * 1.2, where
// movesRemaining is movestogo if given, else 30 if pieceCount > 20
// else 10; plus 0.75 * increment; capped at timeLeft / 1.1; clamped to
// [100ms, 600000ms]. With no clock data, the default is 300000ms.
func computeBudget(clock clockInfo, sideToMove board.Color, pieceCount int) time.Duration {
	if !clock.hasClock {
		return defaultBudget
	}

	timeLeft, inc := clock.whiteTimeMs, clock.whiteIncMs
	if sideToMove == board.Black {
		timeLeft, inc = clock.blackTimeMs, clock.blackIncMs
	}

	movesRemaining := xmath.Max(clock.movesToGo, 0)
	if movesRemaining <= 0 {
		if pieceCount > 20 {
			movesRemaining = 30
		} else {
			movesRemaining = 10
		}
	}

	base := float64(timeLeft) / float64(movesRemaining) * 1.2
	base += 0.75 * float64(inc)
	base = xmath.Min(base, float64(timeLeft)/1.1)

	budget := xmath.Clamp(time.Duration(base)*time.Millisecond, minBudget, maxBudget)
	return budget
}
