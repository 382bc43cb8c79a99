package daily

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type list []string

func (l list) Len() int        { return len(l) }
func (l list) At(i int) string { return l[i%len(l)] }

func TestDateKeyUsesUTC(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	ts := time.Date(2026, 10, 18, 3, 0, 0, 0, loc)
	assert.Equal(t, "2026-10-17", DateKey(ts))
}

func TestWordIndexDeterministic(t *testing.T) {
	day := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	later := day.Add(6 * time.Hour)

	a := WordIndex(day, "salt", 15)
	assert.Equal(t, a, WordIndex(later, "salt", 15))
	assert.GreaterOrEqual(t, a, 0)
	assert.Less(t, a, 15)
	assert.Equal(t, 0, WordIndex(day, "salt", 0))
}

func TestTarget(t *testing.T) {
	targets := list{"sample", "planet", "garden"}
	day := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)
	date, word := Target(day, "salt", targets)
	assert.Equal(t, "2026-10-18", date)
	assert.Equal(t, targets[WordIndex(day, "salt", 3)], word)
}
