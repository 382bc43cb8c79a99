package shell

import (
	"errors"
	"strings"
	"testing"

	"github.com/matryer/is"

	"github.com/robalobadob/wordier/internal/dictionary"
	"github.com/robalobadob/wordier/internal/discovery"
	"github.com/robalobadob/wordier/internal/game"
	"github.com/robalobadob/wordier/internal/words"
)

func newTestController(t *testing.T) *Controller {
	t.Helper()
	dict := dictionary.New("cat", "act", "tac", "at")
	targets, err := words.NewTargets("cat")
	if err != nil {
		t.Fatal(err)
	}
	sc, err := NewController(discovery.NewEngine(dict, 4), targets, game.Options{})
	if err != nil {
		t.Fatal(err)
	}
	sc.shuffle = func(n int, swap func(i, j int)) {}
	return sc
}

func TestExtractFields(t *testing.T) {
	is := is.New(t)
	type testdata struct {
		line   string
		expCmd *shellcmd
		expErr error
	}
	cases := []testdata{
		{"", nil, errNoData},
		{"pick 1 2 3", &shellcmd{"pick", []string{"1", "2", "3"}}, nil},
		{"NEW 'cat'", &shellcmd{"new", []string{"cat"}}, nil},
		{"enter", &shellcmd{"enter", []string{}}, nil},
	}
	for _, tc := range cases {
		cmd, err := extractFields(tc.line)
		is.Equal(cmd, tc.expCmd)
		is.Equal(err, tc.expErr)
	}

	_, err := extractFields(`type "unterminated`)
	is.True(err != nil)
}

func TestNeedsRound(t *testing.T) {
	is := is.New(t)
	sc := newTestController(t)
	_, err := sc.Execute("enter")
	is.Equal(err, errNoRound)
}

func TestPlaySession(t *testing.T) {
	is := is.New(t)
	sc := newTestController(t)

	out, err := sc.Execute("new")
	is.NoErr(err)
	is.True(strings.HasPrefix(out, "1:C 2:A 3:T")) // shuffle is a no-op in tests
	is.True(strings.Contains(out, "found 0/3"))

	out, err = sc.Execute("pick 1 2")
	is.NoErr(err)
	is.True(strings.Contains(out, "1:(C) 2:(A) 3:T"))
	is.True(strings.Contains(out, "> CA"))

	out, err = sc.Execute("del")
	is.NoErr(err)
	is.True(strings.Contains(out, "> C\n"))

	_, err = sc.Execute("pick 2 3")
	is.NoErr(err)
	out, err = sc.Execute("enter")
	is.NoErr(err)
	is.True(strings.HasPrefix(out, "Found CAT!"))

	_, err = sc.Execute("type cat")
	is.NoErr(err)
	_, err = sc.Execute("enter")
	is.True(errors.Is(err, game.ErrDuplicate))

	_, err = sc.Execute("type at")
	is.NoErr(err)
	_, err = sc.Execute("enter")
	is.True(errors.Is(err, game.ErrNotAWord))

	out, err = sc.Execute("words")
	is.NoErr(err)
	is.Equal(out, "_ _ _\nCAT\n_ _ _")

	out, err = sc.Execute("found")
	is.NoErr(err)
	is.Equal(out, "CAT")

	_, err = sc.Execute("type act")
	is.NoErr(err)
	_, err = sc.Execute("enter")
	is.NoErr(err)
	_, err = sc.Execute("type tac")
	is.NoErr(err)
	out, err = sc.Execute("enter")
	is.NoErr(err)
	is.True(strings.Contains(out, "all words found! (CAT)"))
}

func TestLettersAndErrors(t *testing.T) {
	is := is.New(t)
	sc := newTestController(t)

	_, err := sc.Execute("letters C A")
	is.True(errors.Is(err, game.ErrInvalidLetters))

	out, err := sc.Execute("letters tca")
	is.NoErr(err)
	is.True(strings.HasPrefix(out, "1:T 2:C 3:A"))

	_, err = sc.Execute("pick 9")
	is.True(errors.Is(err, game.ErrNoSuchTile))
	_, err = sc.Execute("pick x")
	is.True(err != nil)
	_, err = sc.Execute("type z")
	is.True(errors.Is(err, game.ErrNoSuchTile))

	_, err = sc.Execute("frobnicate")
	is.True(err != nil)

	_, err = sc.Execute("exit")
	is.Equal(err, errExit)
}

func TestTimedMode(t *testing.T) {
	is := is.New(t)
	sc := newTestController(t)

	out, err := sc.Execute("timed 90")
	is.NoErr(err)
	is.Equal(out, "Next round is timed.")

	out, err = sc.Execute("new cat")
	is.NoErr(err)
	is.Equal(sc.round.Mode, game.ModeTimed)
	is.True(strings.Contains(out, "s left"))

	_, err = sc.Execute("timed soon")
	is.True(err != nil)
	_, err = sc.Execute("untimed")
	is.NoErr(err)
	is.Equal(sc.opts.Mode, game.ModeUntimed)
}

func TestTypeIsAllOrNothing(t *testing.T) {
	is := is.New(t)
	sc := newTestController(t)
	_, err := sc.Execute("letters C A T")
	is.NoErr(err)

	_, err = sc.Execute("type cats")
	is.True(errors.Is(err, game.ErrNoSuchTile))
	is.Equal(sc.round.Typed, "")
	for _, tile := range sc.round.Tiles {
		is.True(!tile.Used)
	}

	_, err = sc.Execute("pick 1")
	is.NoErr(err)
	_, err = sc.Execute("type at c")
	is.True(errors.Is(err, game.ErrNoSuchTile)) // C is already taken
	is.Equal(sc.round.Typed, "C")
	is.Equal(sc.round.Stack, []int{0})
}

func TestNewControllerDropsShortTargets(t *testing.T) {
	is := is.New(t)
	dict := dictionary.New("cat", "lamp", "palm")
	engine := discovery.NewEngine(dict, 4)

	targets, err := words.NewTargets("cat")
	is.NoErr(err)
	_, err = NewController(engine, targets, game.Options{MinLength: 4})
	is.True(errors.Is(err, words.ErrEmpty))

	targets, err = words.NewTargets("cat", "lamp")
	is.NoErr(err)
	sc, err := NewController(engine, targets, game.Options{MinLength: 4})
	is.NoErr(err)
	for i := 0; i < 10; i++ {
		_, err = sc.Execute("new")
		is.NoErr(err)
		is.Equal(len(sc.round.Tiles), 4)
	}
	is.NoErr(sc.Close()) // no terminal attached
}
