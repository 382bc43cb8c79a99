// Package daily picks a deterministic target word per UTC date, so every
// player who starts the daily round gets the same letters.
package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// WordIndex returns a deterministic index for a date using
// HMAC(salt, YYYY-MM-DD) % n.
func WordIndex(date time.Time, salt string, n int) int {
	if n <= 0 {
		return 0
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// first 8 bytes as uint64 for the modulus
	v := binary.BigEndian.Uint64(sum[:8])
	return int(v % uint64(n))
}

// Picker is the subset of a target list the daily pick needs.
type Picker interface {
	Len() int
	At(i int) string
}

// Target returns the date key and target word for t.
func Target(t time.Time, salt string, targets Picker) (date, word string) {
	date = DateKey(t)
	return date, targets.At(WordIndex(t, salt, targets.Len()))
}
