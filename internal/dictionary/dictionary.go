// internal/dictionary/dictionary.go
//
// Dictionary loading and membership for the word-discovery engine.
//
// Responsibilities:
//   - Parse a newline-delimited word list into a lookup set.
//   - Answer exact, case-insensitive membership queries.
//
// Source format:
//   - One word per line, any case.
//   - Blank lines (and surrounding whitespace) are ignored.
//   - Entries are stored lowercase.
//
// A dictionary is built once and never mutated afterwards, so a single
// *Dictionary can be shared by every round without locking.

package dictionary

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/robalobadob/wordier/assets"
)

// ErrLoad matches every dictionary load failure via errors.Is.
var ErrLoad = errors.New("dictionary load failed")

// LoadError reports a dictionary source that could not be read.
// Callers treat it as a hard boot failure; no partial dictionary is returned.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("dictionary: load %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() []error { return []error{ErrLoad, e.Err} }

var errEmpty = errors.New("no words found")

// Dictionary is an immutable set of lowercase words.
type Dictionary struct {
	words map[string]struct{}
}

// New builds a dictionary from literal words. Empty entries are skipped.
func New(words ...string) *Dictionary {
	d := &Dictionary{words: make(map[string]struct{}, len(words))}
	for _, w := range words {
		if w = normalize(w); w != "" {
			d.words[w] = struct{}{}
		}
	}
	return d
}

// Load reads a newline-delimited word list from r. source names the input in
// errors and logs.
func Load(source string, r io.Reader) (*Dictionary, error) {
	d := &Dictionary{words: make(map[string]struct{})}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if w := normalize(sc.Text()); w != "" {
			d.words[w] = struct{}{}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, &LoadError{Source: source, Err: err}
	}
	if len(d.words) == 0 {
		return nil, &LoadError{Source: source, Err: errEmpty}
	}
	return d, nil
}

// LoadFile loads the word list at path.
func LoadFile(path string) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}
	defer f.Close()
	return Load(path, f)
}

// LoadEmbedded loads the default word list compiled into the binary.
func LoadEmbedded() (*Dictionary, error) {
	f, err := assets.Words()
	if err != nil {
		return nil, &LoadError{Source: "embedded:" + assets.WordsFile, Err: err}
	}
	defer f.Close()
	return Load("embedded:"+assets.WordsFile, f)
}

// Open loads path when set and falls back to the embedded list otherwise.
func Open(path string) (*Dictionary, error) {
	if path == "" {
		return LoadEmbedded()
	}
	return LoadFile(path)
}

// Contains reports whether the lowercased word is an exact entry.
func (d *Dictionary) Contains(word string) bool {
	_, ok := d.words[strings.ToLower(word)]
	return ok
}

// Len returns the number of distinct words.
func (d *Dictionary) Len() int { return len(d.words) }

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
