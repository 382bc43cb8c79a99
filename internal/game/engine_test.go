package game

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordier/internal/dictionary"
	"github.com/robalobadob/wordier/internal/discovery"
)

func testSolver() *discovery.Engine {
	return discovery.NewEngine(dictionary.New("cat", "act", "tac", "at", "ata", "tat"), 16)
}

func reverse(n int, swap func(i, j int)) {
	for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
		swap(i, j)
	}
}

func freezeTime(t *testing.T, now time.Time) *time.Time {
	t.Helper()
	cur := now
	timeNow = func() time.Time { return cur }
	t.Cleanup(func() { timeNow = time.Now })
	return &cur
}

func selectAll(t *testing.T, r *Round, positions ...int) {
	t.Helper()
	for _, p := range positions {
		require.NoError(t, r.Select(p))
	}
}

func TestNewRound(t *testing.T) {
	r, err := NewRound(testSolver(), []string{"c", "A", " t "}, Options{})
	require.NoError(t, err)
	assert.Len(t, r.ID, 16)
	assert.Equal(t, ModeUntimed, r.Mode)
	assert.Equal(t, 3, r.MinLength)
	assert.Equal(t, []string{"C", "A", "T"}, r.Letters())
	assert.Equal(t, []string{"act", "cat", "tac"}, r.Possible)
	assert.Empty(t, r.Submitted)
	assert.True(t, r.Deadline.IsZero())
}

func TestNewRoundRejectsBadLetters(t *testing.T) {
	for _, letters := range [][]string{
		{"C", "A"},
		{"CA", "T", "S"},
		{"C", "", "T"},
		{"C", "4", "T"},
		{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J"},
	} {
		_, err := NewRound(testSolver(), letters, Options{})
		assert.ErrorIs(t, err, ErrInvalidLetters, "%v", letters)
	}
}

func TestNewRoundFromWord(t *testing.T) {
	r, err := NewRoundFromWord(testSolver(), "Cat", Options{}, reverse)
	require.NoError(t, err)
	assert.Equal(t, "cat", r.Target)
	assert.Equal(t, []string{"T", "A", "C"}, r.Letters())
	assert.Equal(t, []string{"act", "cat", "tac"}, r.Possible)
}

func TestSelectAndDelete(t *testing.T) {
	r, err := NewRound(testSolver(), []string{"C", "A", "T"}, Options{})
	require.NoError(t, err)

	selectAll(t, r, 0, 1)
	assert.Equal(t, "CA", r.Typed)
	assert.ErrorIs(t, r.Select(1), ErrTileUsed)
	assert.ErrorIs(t, r.Select(3), ErrNoSuchTile)
	assert.ErrorIs(t, r.Select(-1), ErrNoSuchTile)

	assert.True(t, r.DeleteLast())
	assert.Equal(t, "C", r.Typed)
	assert.True(t, r.Tiles[0].Used)
	assert.False(t, r.Tiles[1].Used)
	assert.False(t, r.Tiles[2].Used)

	assert.True(t, r.DeleteLast())
	assert.False(t, r.DeleteLast())
	assert.Equal(t, "", r.Typed)
}

func TestDeleteRestoresExactTileWithRepeatedLetters(t *testing.T) {
	r, err := NewRound(testSolver(), []string{"A", "A", "T"}, Options{})
	require.NoError(t, err)

	selectAll(t, r, 1, 0)
	assert.Equal(t, "AA", r.Typed)
	require.True(t, r.DeleteLast())
	assert.Equal(t, "A", r.Typed)
	assert.False(t, r.Tiles[0].Used)
	assert.True(t, r.Tiles[1].Used)
	assert.Equal(t, []int{1}, r.Stack)
}

func TestSelectLetter(t *testing.T) {
	r, err := NewRound(testSolver(), []string{"A", "T", "A"}, Options{})
	require.NoError(t, err)
	require.NoError(t, r.SelectLetter("a"))
	require.NoError(t, r.SelectLetter("A"))
	assert.Equal(t, []int{0, 2}, r.Stack)
	assert.ErrorIs(t, r.SelectLetter("A"), ErrNoSuchTile)
}

func TestSubmit(t *testing.T) {
	s := testSolver()
	r, err := NewRound(s, []string{"C", "A", "T"}, Options{})
	require.NoError(t, err)

	word, err := r.Submit(s)
	assert.NoError(t, err)
	assert.Equal(t, "", word)

	selectAll(t, r, 2, 1, 0)
	word, err = r.Submit(s)
	require.NoError(t, err)
	assert.Equal(t, "tac", word)
	assert.Equal(t, "", r.Typed)
	assert.Empty(t, r.Stack)
	for _, tile := range r.Tiles {
		assert.False(t, tile.Used)
	}

	selectAll(t, r, 0, 1, 2)
	_, err = r.Submit(s)
	require.NoError(t, err)
	selectAll(t, r, 1, 0, 2)
	_, err = r.Submit(s)
	require.NoError(t, err)
	assert.Equal(t, []string{"act", "cat", "tac"}, r.Submitted)
	assert.True(t, r.Complete())
}

func TestSubmitRejections(t *testing.T) {
	s := testSolver()
	r, err := NewRound(s, []string{"C", "A", "T"}, Options{})
	require.NoError(t, err)

	selectAll(t, r, 1, 2)
	_, err = r.Submit(s)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, NotAWord, verr.Kind)
	assert.ErrorIs(t, err, ErrNotAWord)
	assert.Equal(t, "AT is not a valid English word or is too short.", r.LastError)
	assert.Equal(t, "", r.Typed)

	selectAll(t, r, 2, 0, 1)
	_, err = r.Submit(s)
	assert.ErrorIs(t, err, ErrNotAWord)

	selectAll(t, r, 0, 1, 2)
	_, err = r.Submit(s)
	require.NoError(t, err)
	assert.Equal(t, "", r.LastError)

	selectAll(t, r, 0, 1, 2)
	_, err = r.Submit(s)
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.Equal(t, "CAT has already been submitted.", r.LastError)
	assert.Equal(t, []string{"cat"}, r.Submitted)
}

func TestShuffle(t *testing.T) {
	s := testSolver()
	r, err := NewRound(s, []string{"C", "A", "T"}, Options{})
	require.NoError(t, err)
	selectAll(t, r, 0)

	r.Shuffle(s, reverse)
	assert.Equal(t, []string{"T", "A", "C"}, r.Letters())
	for i, tile := range r.Tiles {
		assert.Equal(t, i, tile.Position)
		assert.False(t, tile.Used)
	}
	assert.Equal(t, "", r.Typed)
	assert.Equal(t, []string{"act", "cat", "tac"}, r.Possible)
}

func TestNewWordResetsRound(t *testing.T) {
	s := testSolver()
	r, err := NewRound(s, []string{"C", "A", "T"}, Options{})
	require.NoError(t, err)
	id := r.ID
	selectAll(t, r, 0, 1, 2)
	_, err = r.Submit(s)
	require.NoError(t, err)

	require.NoError(t, r.NewWord(s, "tat", 0, nil))
	assert.Equal(t, id, r.ID)
	assert.Equal(t, "tat", r.Target)
	assert.Equal(t, []string{"T", "A", "T"}, r.Letters())
	assert.Empty(t, r.Submitted)
	assert.Equal(t, []string{"tat"}, r.Possible)

	assert.ErrorIs(t, r.NewWord(s, "at", 0, nil), ErrInvalidLetters)
}

func TestTimedRound(t *testing.T) {
	s := testSolver()
	now := freezeTime(t, time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC))

	r, err := NewRound(s, []string{"C", "A", "T"}, Options{Mode: ModeTimed, Duration: time.Minute})
	require.NoError(t, err)
	assert.Equal(t, 60, r.Snapshot(*now).RemainingSeconds)

	require.NoError(t, r.Select(0))
	*now = now.Add(time.Minute)
	assert.True(t, r.Over(*now))
	assert.ErrorIs(t, r.Select(1), ErrRoundOver)
	_, err = r.Submit(s)
	assert.ErrorIs(t, err, ErrRoundOver)

	snap := r.Snapshot(*now)
	assert.True(t, snap.Over)
	assert.Zero(t, snap.RemainingSeconds)
}

func TestRemainingSecondsRoundsUp(t *testing.T) {
	s := testSolver()
	now := freezeTime(t, time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC))
	r, err := NewRound(s, []string{"C", "A", "T"}, Options{Mode: ModeTimed, Duration: time.Minute})
	require.NoError(t, err)

	assert.Equal(t, 2, r.Snapshot(now.Add(58*time.Second+time.Millisecond)).RemainingSeconds)
	assert.Equal(t, 1, r.Snapshot(now.Add(59*time.Second)).RemainingSeconds)

	last := r.Snapshot(now.Add(59*time.Second + 600*time.Millisecond))
	assert.False(t, last.Over)
	assert.Equal(t, 1, last.RemainingSeconds)
	body, err := json.Marshal(last)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"remainingSeconds":1`)
}

func TestSnapshot(t *testing.T) {
	s := testSolver()
	r, err := NewRoundFromWord(s, "cat", Options{}, nil)
	require.NoError(t, err)
	selectAll(t, r, 0, 1, 2)
	_, err = r.Submit(s)
	require.NoError(t, err)

	snap := r.Snapshot(time.Now())
	assert.Equal(t, []string{"_ _ _", "cat", "_ _ _"}, snap.Ladder)
	assert.Equal(t, 1, snap.Found)
	assert.Equal(t, 3, snap.Total)
	assert.False(t, snap.Complete)
	assert.Empty(t, snap.Target)
}

func TestClone(t *testing.T) {
	r, err := NewRound(testSolver(), []string{"C", "A", "T"}, Options{})
	require.NoError(t, err)
	c := r.Clone()
	require.NoError(t, c.Select(0))
	assert.False(t, r.Tiles[0].Used)
	assert.Equal(t, "", r.Typed)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeUntimed, m)
	m, err = ParseMode("timed")
	require.NoError(t, err)
	assert.Equal(t, ModeTimed, m)
	_, err = ParseMode("blitz")
	assert.Error(t, err)
}

func TestNormalizeLetters(t *testing.T) {
	got, err := NormalizeLetters([]string{"s", " a ", "M"}, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"S", "A", "M"}, got)

	_, err = NormalizeLetters([]string{"s", "a"}, 3)
	assert.ErrorIs(t, err, ErrInvalidLetters)
}
