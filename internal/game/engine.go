// internal/game/engine.go
//
// Round session logic.
// Responsibilities:
//   - Create rounds from explicit letters or a target word.
//   - Track tile selection by position with an explicit usage stack, so a
//     delete re-enables exactly the tile that produced the last letter.
//   - Validate submissions (not-a-word vs duplicate) and keep the submitted
//     list sorted by (length, lexicographic).
//   - Shuffle in place and swap in a new word.
//
// Notes:
//   - Discovery and validation come from a Solver (discovery.Engine).
//   - A failed submission clears the typed letters and tile flags, the same
//     as a successful one; the message is kept in LastError.
//   - Timed rounds reject Select/Submit once the deadline passes.
package game

import (
	"encoding/hex"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/samber/lo"
	"lukechampine.com/frand"

	"github.com/robalobadob/wordier/internal/discovery"
	"github.com/robalobadob/wordier/internal/words"
)

// DefaultDuration is the length of a timed round when none is configured.
const DefaultDuration = 2 * time.Minute

// Solver discovers and validates words against a dictionary.
type Solver interface {
	Discover(letters []string, minLength int) []string
	IsValid(word string, minLength int) bool
}

// Shuffler permutes n elements through swap. frand.Shuffle and
// math/rand.Shuffle both fit.
type Shuffler func(n int, swap func(i, j int))

// Options configure a new round.
type Options struct {
	Mode      Mode
	MinLength int           // defaults to discovery.DefaultMinLength
	Duration  time.Duration // timed rounds only; defaults to DefaultDuration
}

var timeNow = time.Now

// NewRound starts a round over the given letters, in the given order.
func NewRound(s Solver, letters []string, opts Options) (*Round, error) {
	r := &Round{
		ID:   randomID(),
		Mode: opts.Mode,
	}
	if r.Mode == "" {
		r.Mode = ModeUntimed
	}
	r.MinLength = opts.MinLength
	if r.MinLength <= 0 {
		r.MinLength = discovery.DefaultMinLength
	}
	if err := r.reset(s, letters, "", opts.Duration); err != nil {
		return nil, err
	}
	return r, nil
}

// NewRoundFromWord starts a round over the shuffled letters of target.
func NewRoundFromWord(s Solver, target string, opts Options, shuffle Shuffler) (*Round, error) {
	letters := shuffled(words.Letters(target), shuffle)
	r, err := NewRound(s, letters, opts)
	if err != nil {
		return nil, err
	}
	r.Target = strings.ToLower(strings.TrimSpace(target))
	return r, nil
}

// reset replaces the letter set and clears everything derived from it.
func (r *Round) reset(s Solver, letters []string, target string, d time.Duration) error {
	tiles, err := makeTiles(letters, r.MinLength)
	if err != nil {
		return err
	}
	now := timeNow()
	r.Target = target
	r.Tiles = tiles
	r.Typed = ""
	r.Stack = []int{}
	r.Submitted = []string{}
	r.LastError = ""
	r.StartedAt = now
	r.Deadline = time.Time{}
	if r.Mode == ModeTimed {
		if d <= 0 {
			d = DefaultDuration
		}
		r.Deadline = now.Add(d)
	}
	r.Possible = s.Discover(r.Letters(), r.MinLength)
	return nil
}

// makeTiles normalizes letters to uppercase single-character tiles.
func makeTiles(letters []string, minLength int) ([]Tile, error) {
	if len(letters) < minLength || len(letters) > words.MaxLetters {
		return nil, ErrInvalidLetters
	}
	tiles := make([]Tile, len(letters))
	for i, l := range letters {
		l = strings.ToUpper(strings.TrimSpace(l))
		r, size := utf8.DecodeRuneInString(l)
		if size == 0 || size != len(l) || !unicode.IsLetter(r) {
			return nil, ErrInvalidLetters
		}
		tiles[i] = Tile{Position: i, Letter: l}
	}
	return tiles, nil
}

// NormalizeLetters validates letters the way NewRound does and returns them
// as uppercase single-character tiles.
func NormalizeLetters(letters []string, minLength int) ([]string, error) {
	tiles, err := makeTiles(letters, minLength)
	if err != nil {
		return nil, err
	}
	return lo.Map(tiles, func(t Tile, _ int) string { return t.Letter }), nil
}

func shuffled(letters []string, shuffle Shuffler) []string {
	if shuffle != nil {
		shuffle(len(letters), func(i, j int) { letters[i], letters[j] = letters[j], letters[i] })
	}
	return letters
}

// Letters returns the tile letters in their current order.
func (r *Round) Letters() []string {
	return lo.Map(r.Tiles, func(t Tile, _ int) string { return t.Letter })
}

// Select appends the letter at position to the typed word and marks the tile
// used.
func (r *Round) Select(position int) error {
	if r.Over(timeNow()) {
		return ErrRoundOver
	}
	if position < 0 || position >= len(r.Tiles) {
		return ErrNoSuchTile
	}
	t := &r.Tiles[position]
	if t.Used {
		return ErrTileUsed
	}
	t.Used = true
	r.Typed += t.Letter
	r.Stack = append(r.Stack, position)
	r.LastError = ""
	return nil
}

// SelectLetter selects the first unused tile carrying letter.
func (r *Round) SelectLetter(letter string) error {
	letter = strings.ToUpper(letter)
	for i, t := range r.Tiles {
		if t.Letter == letter && !t.Used {
			return r.Select(i)
		}
	}
	if r.Over(timeNow()) {
		return ErrRoundOver
	}
	return ErrNoSuchTile
}

// DeleteLast removes the last typed letter and re-enables the tile that
// produced it. It reports false when nothing was typed.
func (r *Round) DeleteLast() bool {
	n := len(r.Stack)
	if n == 0 {
		return false
	}
	pos := r.Stack[n-1]
	r.Stack = r.Stack[:n-1]
	r.Tiles[pos].Used = false
	runes := []rune(r.Typed)
	r.Typed = string(runes[:len(runes)-1])
	return true
}

// Clear drops the typed word and re-enables every tile.
func (r *Round) Clear() {
	r.Typed = ""
	r.Stack = r.Stack[:0]
	for i := range r.Tiles {
		r.Tiles[i].Used = false
	}
}

// Submit validates the typed word. An empty word is a no-op and returns
// ("", nil). Rejections are *ValidationError; validity is checked before
// duplicates. On success the lowercased word is returned.
func (r *Round) Submit(s Solver) (string, error) {
	if r.Over(timeNow()) {
		return "", ErrRoundOver
	}
	typed := r.Typed
	if typed == "" {
		return "", nil
	}
	r.Clear()

	word := strings.ToLower(typed)
	if !s.IsValid(word, r.MinLength) {
		return "", r.reject(NotAWord, typed)
	}
	if lo.Contains(r.Submitted, word) {
		return "", r.reject(Duplicate, typed)
	}
	r.Submitted = append(r.Submitted, word)
	discovery.SortWords(r.Submitted)
	r.LastError = ""
	return word, nil
}

func (r *Round) reject(kind ValidationKind, typed string) error {
	err := &ValidationError{Kind: kind, Word: typed}
	r.LastError = err.Error()
	return err
}

// Shuffle reorders the tiles in place, resets the selection and recomputes
// the possible words.
func (r *Round) Shuffle(s Solver, shuffle Shuffler) {
	shuffle(len(r.Tiles), func(i, j int) { r.Tiles[i], r.Tiles[j] = r.Tiles[j], r.Tiles[i] })
	for i := range r.Tiles {
		r.Tiles[i].Position = i
	}
	r.Clear()
	r.LastError = ""
	r.Possible = s.Discover(r.Letters(), r.MinLength)
}

// NewWord replaces the letter set with the shuffled letters of target and
// starts over: submitted words, selection and timer all reset.
func (r *Round) NewWord(s Solver, target string, d time.Duration, shuffle Shuffler) error {
	letters := shuffled(words.Letters(target), shuffle)
	return r.reset(s, letters, strings.ToLower(strings.TrimSpace(target)), d)
}

// Over reports whether a timed round has run out of time.
func (r *Round) Over(now time.Time) bool {
	return r.Mode == ModeTimed && !r.Deadline.IsZero() && !now.Before(r.Deadline)
}

// Complete reports whether every possible word has been submitted.
func (r *Round) Complete() bool {
	return len(r.Possible) > 0 && len(r.Submitted) >= len(r.Possible)
}

// Snapshot returns the client view of the round at now.
func (r *Round) Snapshot(now time.Time) Snapshot {
	snap := Snapshot{
		ID:        r.ID,
		Mode:      r.Mode,
		MinLength: r.MinLength,
		Tiles:     append([]Tile(nil), r.Tiles...),
		Typed:     r.Typed,
		Submitted: append([]string{}, r.Submitted...),
		Ladder:    discovery.Ladder(r.Possible, r.Submitted),
		Found:     len(r.Submitted),
		Total:     len(r.Possible),
		Complete:  r.Complete(),
		Over:      r.Over(now),
		LastError: r.LastError,
	}
	if r.Mode == ModeTimed && !snap.Over {
		// Rounded up, so a running round never reports zero.
		snap.RemainingSeconds = int((r.Deadline.Sub(now) + time.Second - 1) / time.Second)
	}
	if snap.Over || snap.Complete {
		snap.Target = r.Target
	}
	return snap
}

// Clone returns a deep copy.
func (r *Round) Clone() *Round {
	c := *r
	c.Tiles = append([]Tile(nil), r.Tiles...)
	c.Stack = append([]int{}, r.Stack...)
	c.Submitted = append([]string{}, r.Submitted...)
	c.Possible = append([]string{}, r.Possible...)
	return &c
}

// randomID returns a compact 16-hex-char identifier.
func randomID() string {
	return hex.EncodeToString(frand.Bytes(8))
}
