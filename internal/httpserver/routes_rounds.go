// internal/httpserver/routes_rounds.go
//
// HTTP routes for playing a round.
//   - POST /rounds                    → create (letters | word | random target)
//   - GET  /rounds/{id}               → snapshot
//   - DELETE /rounds/{id}             → abandon the round
//   - POST /rounds/{id}/select        → {"position": n}
//   - POST /rounds/{id}/delete        → remove last letter
//   - POST /rounds/{id}/clear         → drop the typed word
//   - POST /rounds/{id}/submit        → validate and record the typed word
//   - POST /rounds/{id}/shuffle       → reorder tiles
//   - POST /rounds/{id}/new-word      → {"word": ""} (random when empty)

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/robalobadob/wordier/internal/game"
)

func (s *Server) mountRounds() {
	s.r.Post("/rounds", s.handleNewRound)
	s.r.Route("/rounds/{id}", func(r chi.Router) {
		r.Use(s.requireRoundToken)
		r.Get("/", s.handleGetRound)
		r.Delete("/", s.handleAbandon)
		r.Post("/select", s.handleSelect)
		r.Post("/delete", s.handleDelete)
		r.Post("/clear", s.handleClear)
		r.Post("/submit", s.handleSubmit)
		r.Post("/shuffle", s.handleShuffle)
		r.Post("/new-word", s.handleNewWord)
	})
}

func (s *Server) roundOptions(mode game.Mode) game.Options {
	return game.Options{Mode: mode, MinLength: s.opts.MinLength, Duration: s.opts.RoundDuration}
}

// newRoundReq/Res payloads for POST /rounds.
type newRoundReq struct {
	Letters []string `json:"letters"` // explicit tiles, kept in order
	Word    string   `json:"word"`    // target word, shuffled into tiles
	Mode    string   `json:"mode"`    // "untimed" | "timed"
}
type newRoundRes struct {
	RoundID string        `json:"roundId"`
	Token   string        `json:"token"`
	Date    string        `json:"date,omitempty"`
	Round   game.Snapshot `json:"round"`
}

// handleNewRound creates a round and returns it with its round token.
func (s *Server) handleNewRound(w http.ResponseWriter, r *http.Request) {
	var req newRoundReq
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_json", err.Error())
			return
		}
	}
	mode, err := game.ParseMode(req.Mode)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_mode", err.Error())
		return
	}

	var rd *game.Round
	if len(req.Letters) > 0 {
		rd, err = game.NewRound(s.engine, req.Letters, s.roundOptions(mode))
	} else {
		target := req.Word
		if target == "" {
			target = s.targets.Random()
		}
		rd, err = game.NewRoundFromWord(s.engine, target, s.roundOptions(mode), frand.Shuffle)
	}
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	s.startRound(w, r, rd, "")
}

// startRound saves rd, issues its token and writes the create response.
func (s *Server) startRound(w http.ResponseWriter, r *http.Request, rd *game.Round, date string) {
	if err := s.store.Save(r.Context(), rd); err != nil {
		log.Error().Err(err).Str("round", rd.ID).Msg("save round")
		writeError(w, http.StatusInternalServerError, "save_failed", "")
		return
	}
	tok, exp, err := s.signRoundToken(rd.ID)
	if err != nil {
		log.Error().Err(err).Msg("sign round token")
		writeError(w, http.StatusInternalServerError, "sign_failed", "")
		return
	}
	s.setRoundCookie(w, tok, exp)
	log.Info().
		Str("round", rd.ID).
		Str("mode", string(rd.Mode)).
		Int("tiles", len(rd.Tiles)).
		Int("possible", len(rd.Possible)).
		Msg("round started")
	writeJSON(w, http.StatusCreated, newRoundRes{
		RoundID: rd.ID,
		Token:   tok,
		Date:    date,
		Round:   rd.Snapshot(time.Now()),
	})
}

func (s *Server) handleGetRound(w http.ResponseWriter, r *http.Request) {
	rd, err := s.store.Get(r.Context(), roundID(r))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rd.Snapshot(time.Now()))
}

// handleAbandon drops the round and its cookie.
func (s *Server) handleAbandon(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), roundID(r)); err != nil {
		writeDomainError(w, r, err)
		return
	}
	s.setRoundCookie(w, "", time.Unix(0, 0))
	w.WriteHeader(http.StatusNoContent)
}

// mutate applies fn to the round under the store's Update and writes the
// resulting snapshot.
func (s *Server) mutate(w http.ResponseWriter, r *http.Request, fn func(rd *game.Round) error) {
	var snap game.Snapshot
	err := s.store.Update(r.Context(), roundID(r), func(rd *game.Round) error {
		if err := fn(rd); err != nil {
			return err
		}
		snap = rd.Snapshot(time.Now())
		return nil
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

type selectReq struct {
	Position *int `json:"position"`
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req selectReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Position == nil {
		writeError(w, http.StatusBadRequest, "bad_json", "position is required")
		return
	}
	s.mutate(w, r, func(rd *game.Round) error { return rd.Select(*req.Position) })
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, func(rd *game.Round) error {
		rd.DeleteLast()
		return nil
	})
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, func(rd *game.Round) error {
		rd.Clear()
		return nil
	})
}

type submitRes struct {
	Word  string        `json:"word"`
	Round game.Snapshot `json:"round"`
}

// handleSubmit validates the typed word. Validation failures are saved (the
// selection resets and the message is kept) and answered with 422.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var (
		word string
		verr error
		snap game.Snapshot
	)
	err := s.store.Update(r.Context(), roundID(r), func(rd *game.Round) error {
		word, verr = rd.Submit(s.engine)
		if errors.Is(verr, game.ErrRoundOver) {
			return verr
		}
		snap = rd.Snapshot(time.Now())
		return nil
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if verr != nil {
		status, code := statusFor(verr)
		writeJSON(w, status, errorRes{Error: code, Message: verr.Error(), Round: &snap})
		return
	}
	if word != "" {
		log.Debug().Str("round", snap.ID).Str("word", word).Int("found", snap.Found).Msg("word accepted")
	}
	writeJSON(w, http.StatusOK, submitRes{Word: word, Round: snap})
}

func (s *Server) handleShuffle(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, func(rd *game.Round) error {
		rd.Shuffle(s.engine, frand.Shuffle)
		return nil
	})
}

type newWordReq struct {
	Word string `json:"word"`
}

func (s *Server) handleNewWord(w http.ResponseWriter, r *http.Request) {
	var req newWordReq
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_json", err.Error())
			return
		}
	}
	target := req.Word
	if target == "" {
		target = s.targets.Random()
	}
	s.mutate(w, r, func(rd *game.Round) error {
		return rd.NewWord(s.engine, target, s.opts.RoundDuration, frand.Shuffle)
	})
}
