// Command wordier-shell plays Wordier rounds in the terminal.
package main

import (
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordier/internal/config"
	"github.com/robalobadob/wordier/internal/dictionary"
	"github.com/robalobadob/wordier/internal/discovery"
	"github.com/robalobadob/wordier/internal/game"
	"github.com/robalobadob/wordier/internal/shell"
	"github.com/robalobadob/wordier/internal/words"
)

var (
	historyFile = flag.String("history", filepath.Join(os.TempDir(), "wordier_history"), "readline history file")
	timed       = flag.Bool("timed", false, "start in timed mode")
)

func main() {
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	log.Logger = cfg.Logger()

	dict, err := dictionary.Open(cfg.DictionaryFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load dictionary")
	}
	targets, err := words.Load(cfg.TargetsFile, cfg.MinWordLength)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load target words")
	}

	mode := game.ModeUntimed
	if *timed {
		mode = game.ModeTimed
	}
	sc, err := shell.NewController(discovery.NewEngine(dict, cfg.DiscoveryCacheSize), targets, game.Options{
		Mode:      mode,
		MinLength: cfg.MinWordLength,
		Duration:  cfg.RoundDuration,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up shell")
	}
	if err := sc.Attach(*historyFile); err != nil {
		log.Fatal().Err(err).Msg("failed to open terminal")
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go sc.Loop(sig)
	<-sig
	// The loop may still be blocked in Readline after an external signal.
	if err := sc.Close(); err != nil {
		log.Warn().Err(err).Msg("close terminal")
	}
	log.Debug().Msg("bye")
}
