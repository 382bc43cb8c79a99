// Package shell is an interactive terminal front end for playing rounds
// against the local dictionary.
package shell

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/robalobadob/wordier/internal/discovery"
	"github.com/robalobadob/wordier/internal/game"
	"github.com/robalobadob/wordier/internal/words"
)

var (
	errNoData  = errors.New("no data in line")
	errExit    = errors.New("exit")
	errNoRound = errors.New("no round in progress; start one with `new` or `letters`")
)

type shellcmd struct {
	cmd  string
	args []string
}

// extractFields splits a command line, honouring shell quoting.
func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	return &shellcmd{cmd: strings.ToLower(fields[0]), args: fields[1:]}, nil
}

// Controller holds the state of one terminal session.
type Controller struct {
	l       *readline.Instance
	engine  *discovery.Engine
	targets *words.Targets
	opts    game.Options
	round   *game.Round
	shuffle game.Shuffler
}

// NewController returns a Controller without a terminal attached. Use Attach
// before Loop. Targets shorter than the round minimum are dropped.
func NewController(engine *discovery.Engine, targets *words.Targets, opts game.Options) (*Controller, error) {
	if opts.Mode == "" {
		opts.Mode = game.ModeUntimed
	}
	if opts.MinLength <= 0 {
		opts.MinLength = discovery.DefaultMinLength
	}
	targets, err := targets.AtLeast(opts.MinLength)
	if err != nil {
		return nil, fmt.Errorf("targets for min length %d: %w", opts.MinLength, err)
	}
	return &Controller{engine: engine, targets: targets, opts: opts, shuffle: frand.Shuffle}, nil
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

// Attach opens the readline terminal.
func (sc *Controller) Attach(historyFile string) error {
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[36mwordier>\033[0m ",
		HistoryFile:     historyFile,
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		return err
	}
	sc.l = l
	return nil
}

// Close restores the terminal. It is safe to call more than once.
func (sc *Controller) Close() error {
	if sc.l == nil {
		return nil
	}
	return sc.l.Close()
}

func showMessage(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

// Loop reads commands until exit or EOF, then signals sig.
func (sc *Controller) Loop(sig chan os.Signal) {
	defer sc.l.Close()
	showMessage(usage(), sc.l.Stdout())

	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				return
			}
			continue
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			return
		}
		out, err := sc.Execute(line)
		switch {
		case errors.Is(err, errExit):
			sig <- syscall.SIGINT
			return
		case errors.Is(err, errNoData):
		case err != nil:
			showMessage("Error: "+err.Error(), sc.l.Stderr())
			if out != "" {
				showMessage(out, sc.l.Stdout())
			}
		default:
			showMessage(out, sc.l.Stdout())
		}
	}
}

// Execute runs one command line and returns what should be shown.
func (sc *Controller) Execute(line string) (string, error) {
	cmd, err := extractFields(strings.TrimSpace(line))
	if err != nil {
		return "", err
	}
	log.Debug().Str("cmd", cmd.cmd).Strs("args", cmd.args).Msg("shell command")

	switch cmd.cmd {
	case "exit", "bye", "quit":
		return "", errExit
	case "help":
		return usage(), nil
	case "timed", "untimed":
		return sc.setMode(game.Mode(cmd.cmd), cmd.args)
	case "new":
		return sc.newRound(cmd.args)
	case "letters":
		return sc.startRound(game.NewRound(sc.engine, splitLetters(cmd.args), sc.opts))
	}

	if sc.round == nil {
		return "", errNoRound
	}
	switch cmd.cmd {
	case "pick":
		return sc.pick(cmd.args)
	case "type":
		return sc.typeWord(cmd.args)
	case "del":
		sc.round.DeleteLast()
	case "clear":
		sc.round.Clear()
	case "enter":
		word, err := sc.round.Submit(sc.engine)
		if err != nil {
			return sc.render(), err
		}
		if word != "" {
			return fmt.Sprintf("Found %s!\n%s", strings.ToUpper(word), sc.render()), nil
		}
	case "shuffle":
		sc.round.Shuffle(sc.engine, sc.shuffle)
	case "words":
		return sc.ladder(), nil
	case "found":
		return strings.ToUpper(strings.Join(sc.round.Submitted, " ")), nil
	default:
		return "", fmt.Errorf("unknown command %q; try `help`", cmd.cmd)
	}
	return sc.render(), nil
}

// setMode switches the mode used by the next round; "timed 90" also sets the
// duration in seconds.
func (sc *Controller) setMode(m game.Mode, args []string) (string, error) {
	if len(args) > 0 {
		secs, err := strconv.Atoi(args[0])
		if err != nil || secs <= 0 {
			return "", fmt.Errorf("bad duration %q", args[0])
		}
		sc.opts.Duration = time.Duration(secs) * time.Second
	}
	sc.opts.Mode = m
	return fmt.Sprintf("Next round is %s.", m), nil
}

func (sc *Controller) newRound(args []string) (string, error) {
	target := sc.targets.Random()
	if len(args) > 0 {
		target = args[0]
	}
	return sc.startRound(game.NewRoundFromWord(sc.engine, target, sc.opts, sc.shuffle))
}

func (sc *Controller) startRound(r *game.Round, err error) (string, error) {
	if err != nil {
		return "", err
	}
	sc.round = r
	return sc.render(), nil
}

// splitLetters accepts both "letters C A T" and "letters cat".
func splitLetters(args []string) []string {
	if len(args) == 1 {
		return words.Letters(args[0])
	}
	return args
}

// pick selects tiles by their 1-based display position.
func (sc *Controller) pick(args []string) (string, error) {
	for _, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return sc.render(), fmt.Errorf("bad tile number %q", a)
		}
		if err := sc.round.Select(n - 1); err != nil {
			return sc.render(), err
		}
	}
	return sc.render(), nil
}

// typeWord selects a tile for every letter, or none of them.
func (sc *Controller) typeWord(args []string) (string, error) {
	placed := 0
	for _, a := range args {
		for _, l := range words.Letters(a) {
			if err := sc.round.SelectLetter(l); err != nil {
				for ; placed > 0; placed-- {
					sc.round.DeleteLast()
				}
				return sc.render(), fmt.Errorf("%w: %s", err, l)
			}
			placed++
		}
	}
	return sc.render(), nil
}

func (sc *Controller) render() string {
	now := time.Now()
	snap := sc.round.Snapshot(now)
	var b strings.Builder
	for i, t := range snap.Tiles {
		if i > 0 {
			b.WriteByte(' ')
		}
		if t.Used {
			fmt.Fprintf(&b, "%d:(%s)", i+1, t.Letter)
		} else {
			fmt.Fprintf(&b, "%d:%s", i+1, t.Letter)
		}
	}
	fmt.Fprintf(&b, "\n> %s\n", snap.Typed)
	fmt.Fprintf(&b, "found %d/%d", snap.Found, snap.Total)
	switch {
	case snap.Complete:
		fmt.Fprintf(&b, ", all words found! (%s)", strings.ToUpper(snap.Target))
	case snap.Over:
		b.WriteString(", time is up")
		if snap.Target != "" {
			fmt.Fprintf(&b, " (%s)", strings.ToUpper(snap.Target))
		}
	case snap.Mode == game.ModeTimed:
		fmt.Fprintf(&b, ", %ds left", snap.RemainingSeconds)
	}
	return b.String()
}

func (sc *Controller) ladder() string {
	var b strings.Builder
	for i, w := range discovery.Ladder(sc.round.Possible, sc.round.Submitted) {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strings.ToUpper(w))
	}
	return b.String()
}

func usage() string {
	return strings.Join([]string{
		"commands:",
		"new [word] - start a round from a random target, or from word",
		"letters <A B C ...> - start a round over explicit letters",
		"pick <n...> - select tiles by number",
		"type <word> - select tiles spelling word",
		"del - remove the last letter",
		"clear - remove all letters",
		"enter - submit the current word",
		"shuffle - reorder the tiles",
		"words - show the word ladder",
		"found - list submitted words",
		"timed [seconds] | untimed - mode for the next round",
		"help, exit",
	}, "\n")
}
