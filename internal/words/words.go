// internal/words/words.go
//
// Target-word management for new rounds.
//
// Responsibilities:
//   - Load the target list from a file (TARGETS_FILE) or the embedded default.
//   - Pick random targets and split a target into round letters.
//
// Constraints:
//   - Targets are alphabetic a–z, MinLetters..MaxLetters long, and never
//     shorter than the configured minimum word length.
//   - Lines are trimmed and lowercased; blank lines and '#' comments are skipped.

package words

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/samber/lo"
	"lukechampine.com/frand"

	"github.com/robalobadob/wordier/assets"
)

const (
	MinLetters = 3
	MaxLetters = 9
)

// ErrEmpty is returned when a target source yields no usable words.
var ErrEmpty = errors.New("words: target list is empty")

// Targets is an immutable list of target words.
type Targets struct {
	list []string
	set  map[string]struct{}
}

// NewTargets builds a target list from literal words, dropping invalid ones.
func NewTargets(list ...string) (*Targets, error) {
	t := &Targets{set: make(map[string]struct{}, len(list))}
	for _, w := range list {
		w = strings.ToLower(strings.TrimSpace(w))
		if !IsTarget(w) {
			continue
		}
		if _, dup := t.set[w]; dup {
			continue
		}
		t.set[w] = struct{}{}
		t.list = append(t.list, w)
	}
	if len(t.list) == 0 {
		return nil, ErrEmpty
	}
	return t, nil
}

// Load reads targets from path, or the embedded list when path is empty, and
// keeps those with at least minLength letters.
func Load(path string, minLength int) (*Targets, error) {
	var (
		rc  io.ReadCloser
		err error
	)
	if path == "" {
		rc, err = assets.Targets()
	} else {
		rc, err = os.Open(path)
	}
	if err != nil {
		return nil, fmt.Errorf("words: open targets: %w", err)
	}
	defer rc.Close()

	lines, err := readLines(rc)
	if err != nil {
		return nil, fmt.Errorf("words: read targets: %w", err)
	}
	t, err := NewTargets(lines...)
	if err != nil {
		return nil, err
	}
	return t.AtLeast(minLength)
}

// AtLeast returns the targets with at least n letters. It returns ErrEmpty
// when none remain.
func (t *Targets) AtLeast(n int) (*Targets, error) {
	if n <= MinLetters {
		return t, nil
	}
	return NewTargets(lo.Filter(t.list, func(w string, _ int) bool { return len(w) >= n })...)
}

func readLines(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, s)
	}
	return out, sc.Err()
}

// IsTarget reports whether w can seed a round.
func IsTarget(w string) bool {
	return len(w) >= MinLetters && len(w) <= MaxLetters && isAlpha(w)
}

// isAlpha reports whether s is all lowercase ASCII letters.
func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

// Random returns a uniformly random target.
func (t *Targets) Random() string {
	return t.list[frand.Intn(len(t.list))]
}

// At returns the i'th target, wrapping around the list.
func (t *Targets) At(i int) string {
	n := len(t.list)
	return t.list[((i%n)+n)%n]
}

// Contains reports whether w is a known target.
func (t *Targets) Contains(w string) bool {
	_, ok := t.set[strings.ToLower(w)]
	return ok
}

// Len returns the number of targets.
func (t *Targets) Len() int { return len(t.list) }

// Letters splits word into uppercase single-letter tiles, in order.
func Letters(word string) []string {
	word = strings.ToUpper(strings.TrimSpace(word))
	out := make([]string, 0, len(word))
	for _, r := range word {
		out = append(out, string(r))
	}
	return out
}
