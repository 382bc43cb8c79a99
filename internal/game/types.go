// internal/game/types.go
//
// Core type definitions for a word-discovery round.
// Defines:
//   - Tile: one letter position, independently markable as used.
//   - Mode: timed or untimed play.
//   - Round: the full session state for one round.
//   - Snapshot: the read-only view handed to the presentation layer.
//   - Errors returned by round operations.

package game

import (
	"errors"
	"fmt"
	"time"
)

// Tile is one letter position in the round's letter set.
type Tile struct {
	Position int    `json:"position"`
	Letter   string `json:"letter"` // single uppercase character
	Used     bool   `json:"used"`
}

// Mode selects whether a round runs against the clock.
type Mode string

const (
	ModeUntimed Mode = "untimed"
	ModeTimed   Mode = "timed"
)

// ParseMode maps "" to ModeUntimed and rejects unknown names.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeUntimed:
		return ModeUntimed, nil
	case ModeTimed:
		return ModeTimed, nil
	}
	return "", fmt.Errorf("game: unknown mode %q", s)
}

// Round holds the state of a single round. It carries no dictionary; the
// operations that need one take a Solver.
type Round struct {
	ID        string    `json:"id"`
	Target    string    `json:"target,omitempty"` // empty when started from explicit letters
	Mode      Mode      `json:"mode"`
	MinLength int       `json:"minLength"`
	Tiles     []Tile    `json:"tiles"`
	Typed     string    `json:"typed"`
	Stack     []int     `json:"stack"`     // tile positions in the order they were used
	Submitted []string  `json:"submitted"` // sorted by (length, lexicographic)
	Possible  []string  `json:"possible"`  // every discoverable word
	LastError string    `json:"lastError,omitempty"`
	StartedAt time.Time `json:"startedAt"`
	Deadline  time.Time `json:"deadline"` // zero for untimed rounds
}

// Snapshot is what a client sees of a round. The target is only revealed
// once the round is over or every possible word was found.
type Snapshot struct {
	ID               string   `json:"id"`
	Mode             Mode     `json:"mode"`
	MinLength        int      `json:"minLength"`
	Tiles            []Tile   `json:"tiles"`
	Typed            string   `json:"typed"`
	Submitted        []string `json:"submitted"`
	Ladder           []string `json:"ladder"`
	Found            int      `json:"found"`
	Total            int      `json:"total"`
	Complete         bool     `json:"complete"`
	Over             bool     `json:"over"`
	RemainingSeconds int      `json:"remainingSeconds,omitempty"`
	Target           string   `json:"target,omitempty"`
	LastError        string   `json:"lastError,omitempty"`
}

var (
	ErrInvalidLetters = errors.New("letters must be single characters, at least the minimum word length")
	ErrNoSuchTile     = errors.New("no such tile")
	ErrTileUsed       = errors.New("tile already used")
	ErrRoundOver      = errors.New("round is over")

	ErrNotAWord  = errors.New("not a valid word or too short")
	ErrDuplicate = errors.New("already submitted")
)

// ValidationKind distinguishes the two recoverable submission failures.
type ValidationKind string

const (
	NotAWord  ValidationKind = "not_a_word"
	Duplicate ValidationKind = "duplicate"
)

// ValidationError is a rejected submission. errors.Is matches ErrNotAWord or
// ErrDuplicate according to Kind.
type ValidationError struct {
	Kind ValidationKind
	Word string
}

func (e *ValidationError) Error() string {
	if e.Kind == Duplicate {
		return fmt.Sprintf("%s has already been submitted.", e.Word)
	}
	return fmt.Sprintf("%s is not a valid English word or is too short.", e.Word)
}

func (e *ValidationError) Unwrap() error {
	if e.Kind == Duplicate {
		return ErrDuplicate
	}
	return ErrNotAWord
}
