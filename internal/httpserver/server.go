// internal/httpserver/server.go
//
// HTTP server wiring for the Wordier backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs,
//     access logging).
//   - Public endpoints: "/", "/health", "/debug/words", POST /discover.
//   - Round endpoints: POST /rounds creates a round and hands back a round
//     token; everything under /rounds/{id} requires that token.
//   - Daily round: POST /daily (see routes_daily.go).
//
// Notes:
//   - CORS is origin-aware and credentials-enabled so the round cookie works.
//   - Every mutation goes through store.Update, so a round has one owner at a
//     time.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordier/internal/dictionary"
	"github.com/robalobadob/wordier/internal/discovery"
	"github.com/robalobadob/wordier/internal/game"
	"github.com/robalobadob/wordier/internal/store"
	"github.com/robalobadob/wordier/internal/words"
)

// maxBodyBytes caps every request body; the largest legal one is a
// nine-letter /discover request.
const maxBodyBytes = 4 << 10

// Options tune round creation and the HTTP surface.
type Options struct {
	MinLength      int
	RoundDuration  time.Duration
	DailySalt      string
	TokenSecret    string
	TokenTTL       time.Duration
	ClientOrigin   string
	RequestTimeout time.Duration
	Production     bool // Secure + SameSite=None cookies
}

// Server bundles router, round store and the word-discovery dependencies.
type Server struct {
	r       *chi.Mux
	store   store.Store
	dict    *dictionary.Dictionary
	engine  *discovery.Engine
	targets *words.Targets
	opts    Options
}

// New constructs a Server, installs middleware, and registers routes.
// Targets shorter than opts.MinLength are dropped; words.ErrEmpty is returned
// when none are left.
func New(st store.Store, dict *dictionary.Dictionary, engine *discovery.Engine, targets *words.Targets, opts Options) (*Server, error) {
	if opts.MinLength <= 0 {
		opts.MinLength = discovery.DefaultMinLength
	}
	targets, err := targets.AtLeast(opts.MinLength)
	if err != nil {
		return nil, fmt.Errorf("targets for min length %d: %w", opts.MinLength, err)
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 10 * time.Second
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 24 * time.Hour
	}
	if opts.TokenSecret == "" {
		opts.TokenSecret = "dev_secret_change_me"
	}
	s := &Server{r: chi.NewRouter(), store: st, dict: dict, engine: engine, targets: targets, opts: opts}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                    // add X-Request-ID
	s.r.Use(chimw.RealIP)                       // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(accessLog)                          // one zerolog line per request
	s.r.Use(chimw.Recoverer)                    // recover from panics
	s.r.Use(chimw.Timeout(opts.RequestTimeout)) // bound handler time
	s.r.Use(chimw.RequestSize(maxBodyBytes))    // bound request bodies
	s.r.Use(jsonContentType)                    // default JSON responses
	s.r.Use(s.cors)                             // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"wordier","endpoints":["/health","POST /rounds","POST /daily","POST /discover","/rounds/{id}/*"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	s.r.Get("/debug/words", s.handleDebugWords)

	// Stateless discovery for arbitrary letters.
	s.r.Post("/discover", s.handleDiscover)

	s.mountRounds()
	s.mountDaily()

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", r.URL.Path)
	})

	return s, nil
}

// Handler exposes the router (used by main and tests).
func (s *Server) Handler() http.Handler { return s.r }

// Sweep drops rounds idle for longer than idle, every interval, until ctx is
// done.
func (s *Server) Sweep(ctx context.Context, every, idle time.Duration) {
	if every <= 0 {
		return
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			n, err := s.store.Sweep(ctx, now.Add(-idle))
			if err != nil {
				log.Warn().Err(err).Msg("sweep rounds")
				continue
			}
			if n > 0 {
				log.Info().Int("removed", n).Msg("swept idle rounds")
			}
		}
	}
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.opts.ClientOrigin
	if origin == "" {
		origin = "http://localhost:5173"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// accessLog writes one structured line per request.
func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Str("reqId", chimw.GetReqID(r.Context())).
			Msg("request")
	})
}

// ------------------------------ helpers ------------------------------------

type errorRes struct {
	Error   string         `json:"error"`
	Message string         `json:"message,omitempty"`
	Round   *game.Snapshot `json:"round,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorRes{Error: code, Message: msg})
}

// statusFor maps domain errors to HTTP status and error code.
func statusFor(err error) (int, string) {
	var verr *game.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity, string(verr.Kind)
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, game.ErrRoundOver):
		return http.StatusConflict, "round_over"
	case errors.Is(err, game.ErrTileUsed):
		return http.StatusConflict, "tile_used"
	case errors.Is(err, game.ErrNoSuchTile):
		return http.StatusBadRequest, "no_such_tile"
	case errors.Is(err, game.ErrInvalidLetters):
		return http.StatusBadRequest, "invalid_letters"
	}
	return http.StatusInternalServerError, "internal"
}

func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeError(w, status, code, "")
		return
	}
	writeError(w, status, code, err.Error())
}

// ---------------------------- diagnostics ----------------------------------

func (s *Server) handleDebugWords(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"dictionary": s.dict.Len(),
		"targets":    s.targets.Len(),
		"cache":      s.engine.Stats(),
	})
}

// ------------------------------ DISCOVER -----------------------------------

type discoverReq struct {
	Letters   []string `json:"letters"`
	MinLength int      `json:"minLength"`
}
type discoverRes struct {
	Letters      []string `json:"letters"`
	Words        []string `json:"words"`
	Placeholders []string `json:"placeholders"`
}

// handleDiscover runs discovery for arbitrary letters without creating a round.
func (s *Server) handleDiscover(w http.ResponseWriter, r *http.Request) {
	var req discoverReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", err.Error())
		return
	}
	// Never below the configured minimum.
	min := max(req.MinLength, s.opts.MinLength)
	letters, err := game.NormalizeLetters(req.Letters, min)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	found := s.engine.Discover(letters, min)
	writeJSON(w, http.StatusOK, discoverRes{
		Letters:      letters,
		Words:        found,
		Placeholders: discovery.Placeholders(found),
	})
}
