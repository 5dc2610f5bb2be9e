// Package book reads a Polyglot-format opening book and selects a
// weighted-random reply for a given position.
package book

import (
	"encoding/binary"
	"io"
	"math/rand"
	"os"

	"github.com/corvid-chess/corvid/board"
)

// maxBookPly is the ply count past which the book is no longer
// consulted.
const maxBookPly = 20

type bookEntry struct {
	move   board.Move
	weight uint16
}

// Book is an in-memory index of Polyglot entries keyed by position.
// A nil *Book probes as a permanent miss, so callers can pass one
// around unconditionally once a load failure has been logged.
type Book struct {
	entries map[uint64][]bookEntry
	rng     *rand.Rand
}

// New returns an empty book.
func New() *Book {
	return &Book{entries: make(map[uint64][]bookEntry)}
}

// NewSeeded returns an empty book whose weighted selection is driven
// by a fixed-seed RNG, for reproducible tests; production use should
// prefer New plus Load, which draws from the global, non-deterministic
// source.
func NewSeeded(seed int64) *Book {
	b := New()
	b.rng = rand.New(rand.NewSource(seed))
	return b
}

// Load reads a Polyglot book file from path.
func Load(path string) (*Book, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadReader(f)
}

// LoadReader reads a Polyglot book from r: a concatenation of 16-byte
// entries (8-byte key, 2-byte move, 2-byte weight, 4-byte learn data,
// all big-endian). Entries whose move decodes to nothing are skipped.
func LoadReader(r io.Reader) (*Book, error) {
	b := New()
	var raw [16]byte
	for {
		_, err := io.ReadFull(r, raw[:])
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		key := binary.BigEndian.Uint64(raw[0:8])
		moveData := binary.BigEndian.Uint16(raw[8:10])
		weight := binary.BigEndian.Uint16(raw[10:12])

		m := decodePolyglotMove(moveData)
		if m == board.MoveNone {
			continue
		}
		b.entries[key] = append(b.entries[key], bookEntry{move: m, weight: weight})
	}
	return b, nil
}

// Size returns the number of distinct positions indexed.
func (b *Book) Size() int {
	if b == nil {
		return 0
	}
	return len(b.entries)
}

// Probe returns a weighted-random legal move for pos, or false if the
// book has nothing playable here (no entries, no legal match, or past
// the ply cutoff).
func (b *Book) Probe(pos *board.Board) (board.Move, bool) {
	if b == nil || len(b.entries) == 0 {
		return board.MoveNone, false
	}

	ply := 2 * (pos.FullmoveNumber() - 1)
	if pos.SideToMove() == board.Black {
		ply++
	}
	if ply >= maxBookPly {
		return board.MoveNone, false
	}

	matches := b.entries[polyglotKey(pos)]
	if len(matches) == 0 {
		return board.MoveNone, false
	}

	legal := pos.GenerateLegalMoves()
	var candidates []bookEntry
	for _, e := range matches {
		if matchLegal(legal, e.move) != board.MoveNone {
			candidates = append(candidates, e)
		}
	}
	if len(candidates) == 0 {
		return board.MoveNone, false
	}

	total := 0
	for _, c := range candidates {
		total += int(c.weight)
	}
	if total == 0 {
		return matchLegal(legal, candidates[0].move), true
	}

	r := b.intn(total)
	for _, c := range candidates {
		if r < int(c.weight) {
			return matchLegal(legal, c.move), true
		}
		r -= int(c.weight)
	}
	return matchLegal(legal, candidates[len(candidates)-1].move), true
}

func (b *Book) intn(n int) int {
	if b.rng != nil {
		return b.rng.Intn(n)
	}
	return rand.Intn(n)
}

// matchLegal finds the enumerated legal move equal to m, guarding
// against a book entry that decodes to something illegal in this
// exact position (key collisions, stale book data).
func matchLegal(legal []board.Move, m board.Move) board.Move {
	for _, lm := range legal {
		if lm == m {
			return lm
		}
	}
	return board.MoveNone
}
