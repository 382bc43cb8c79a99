// internal/httpserver/routes_daily.go
//
// The daily round: every player starting it on the same UTC date gets the
// same target word, picked by HMAC(DAILY_SALT, date). Tile order is still
// shuffled per round. Nothing about daily play is persisted.

package httpserver

import (
	"net/http"
	"time"

	"lukechampine.com/frand"

	"github.com/robalobadob/wordier/internal/daily"
	"github.com/robalobadob/wordier/internal/game"
)

func (s *Server) mountDaily() {
	s.r.Post("/daily", s.handleDaily)
}

// handleDaily starts a round on today's target. ?mode=timed is honoured.
func (s *Server) handleDaily(w http.ResponseWriter, r *http.Request) {
	mode, err := game.ParseMode(r.URL.Query().Get("mode"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_mode", err.Error())
		return
	}
	date, target := daily.Target(time.Now(), s.opts.DailySalt, s.targets)
	rd, err := game.NewRoundFromWord(s.engine, target, s.roundOptions(mode), frand.Shuffle)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	s.startRound(w, r, rd, date)
}
