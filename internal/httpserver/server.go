// internal/httpserver/server.go
//
// HTTP server wiring for the Guess the Number backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, access log).
//   - Public endpoints: "/", "/health".
//   - Round endpoints (session cookie): GET /round, POST /round/new, POST /round/guess.
//   - WebSocket endpoint: GET /ws (see routes_ws.go).
//
// Notes:
//   - Every request gets a session (JWT cookie); the session ID keys the round store.
//   - A round whose session token expired is deleted when the session is reissued.
//   - Actions for the same session are serialized, so each runs to completion
//     before the next one reads the round.
//   - Guess validation failures are normal 200 responses carrying a pulse.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/guessnumber/internal/game"
	"github.com/robalobadob/guessnumber/internal/session"
	"github.com/robalobadob/guessnumber/internal/store"
	"github.com/robalobadob/guessnumber/internal/view"
)

// Options carries the collaborators of a Server.
type Options struct {
	Store        store.Store
	Evaluator    *game.Evaluator
	Sessions     *session.Manager
	ClientOrigin string        // CORS + WebSocket origin; defaults to http://localhost:5173
	WSRate       time.Duration // minimum spacing of inbound WebSocket intents
	WSBurst      int
}

// Server bundles router, round store, and evaluator.
type Server struct {
	r        *chi.Mux
	store    store.Store
	ev       *game.Evaluator
	sessions *session.Manager
	locks    *stripedLocks

	origin  string
	wsRate  time.Duration
	wsBurst int
}

// New constructs a Server, installs middleware, and registers routes.
func New(opts Options) *Server {
	s := &Server{
		r:        chi.NewRouter(),
		store:    opts.Store,
		ev:       opts.Evaluator,
		sessions: opts.Sessions,
		locks:    newStripedLocks(),
		origin:   opts.ClientOrigin,
		wsRate:   opts.WSRate,
		wsBurst:  opts.WSBurst,
	}
	if s.ev == nil {
		s.ev = game.NewEvaluator(nil)
	}
	if s.sessions == nil {
		s.sessions = session.NewManager("dev_secret_change_me", "guess_session", false)
	}
	s.sessions.OnReissue(s.dropRound)
	if s.origin == "" {
		s.origin = "http://localhost:5173"
	}
	if s.wsRate <= 0 {
		s.wsRate = 100 * time.Millisecond
	}
	if s.wsBurst <= 0 {
		s.wsBurst = 10
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)              // add X-Request-ID
	s.r.Use(chimw.RealIP)                 // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer)              // recover from panics
	s.r.Use(hlog.NewHandler(log.Logger))  // request-scoped logger
	s.r.Use(corsFor(s.origin))            // credentials-friendly CORS
	s.r.Use(s.sessions.Middleware)        // session cookie → context

	// Plain JSON routes; the WebSocket route stays outside the timeout and
	// the response-writer wrapping of the access log.
	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
		r.Use(jsonContentType)                 // default JSON responses
		r.Use(accessLog())

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"service":"guessnumber-go","endpoints":["/health","GET /round","POST /round/new","POST /round/guess","GET /ws"]}`))
		})
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"ok":true}`))
		})

		r.Get("/round", s.handleCurrent)
		r.Post("/round/new", s.handleNewRound)
		r.Post("/round/guess", s.handleGuess)

		// JSON 404 for easier debugging
		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
		})
	})

	s.r.Get("/ws", s.handleWS)

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// corsFor enables credentialed CORS for a single origin.
func corsFor(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// accessLog writes one structured line per request.
func accessLog() func(http.Handler) http.Handler {
	return hlog.AccessHandler(func(r *http.Request, status, size int, d time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("requestId", chimw.GetReqID(r.Context())).
			Int("status", status).
			Int("size", size).
			Dur("duration", d).
			Msg("request")
	})
}

// ------------------------------ ROUNDS -------------------------------------

// roundRes is returned by every round endpoint.
type roundRes struct {
	State view.Snapshot `json:"state"`
	Pulse *view.Pulse   `json:"pulse,omitempty"`
}

// guessReq is the payload for POST /round/guess.
type guessReq struct {
	Guess string `json:"guess"`
}

// handleCurrent returns the session's round, starting one on first load.
func (s *Server) handleCurrent(w http.ResponseWriter, r *http.Request) {
	st, err := s.currentRound(r.Context(), session.IDFrom(r.Context()))
	if err != nil {
		storeFailed(w, r, err)
		return
	}
	_ = json.NewEncoder(w).Encode(roundRes{State: view.Render(st)})
}

// handleNewRound replaces the session's round with a fresh one.
func (s *Server) handleNewRound(w http.ResponseWriter, r *http.Request) {
	st, err := s.newRound(r.Context(), session.IDFrom(r.Context()))
	if err != nil {
		storeFailed(w, r, err)
		return
	}
	_ = json.NewEncoder(w).Encode(roundRes{State: view.Render(st)})
}

// handleGuess applies raw guess text to the session's round.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	out, err := s.guess(r.Context(), session.IDFrom(r.Context()), req.Guess)
	if err != nil {
		storeFailed(w, r, err)
		return
	}
	_ = json.NewEncoder(w).Encode(roundRes{State: view.Render(out.State), Pulse: view.PulseFor(out)})
}

func storeFailed(w http.ResponseWriter, r *http.Request, err error) {
	hlog.FromRequest(r).Error().Err(err).Str("session", session.IDFrom(r.Context())).Msg("round store")
	http.Error(w, `{"error":"store_failed"}`, http.StatusInternalServerError)
}

// ---------------------------- round actions --------------------------------

// loadOrStart returns the stored round, starting and saving one if none exists.
// Callers must hold the session lock.
func (s *Server) loadOrStart(ctx context.Context, sid string) (game.State, error) {
	st, err := s.store.Get(ctx, sid)
	if err == nil {
		return st, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return game.State{}, err
	}
	st = s.ev.StartRound()
	if err := s.store.Save(ctx, sid, st); err != nil {
		return game.State{}, err
	}
	log.Debug().Str("session", sid).Msg("round started")
	return st, nil
}

// dropRound deletes the round of a session that has been replaced.
func (s *Server) dropRound(ctx context.Context, staleID string) {
	unlock := s.locks.lock(staleID)
	defer unlock()
	if err := s.store.Delete(ctx, staleID); err != nil {
		log.Warn().Err(err).Str("session", staleID).Msg("drop stale round")
		return
	}
	log.Debug().Str("session", staleID).Msg("stale round dropped")
}

func (s *Server) currentRound(ctx context.Context, sid string) (game.State, error) {
	unlock := s.locks.lock(sid)
	defer unlock()
	return s.loadOrStart(ctx, sid)
}

func (s *Server) newRound(ctx context.Context, sid string) (game.State, error) {
	unlock := s.locks.lock(sid)
	defer unlock()
	st := s.ev.StartRound()
	if err := s.store.Save(ctx, sid, st); err != nil {
		return game.State{}, err
	}
	log.Debug().Str("session", sid).Msg("round restarted")
	return st, nil
}

func (s *Server) guess(ctx context.Context, sid, raw string) (game.Outcome, error) {
	unlock := s.locks.lock(sid)
	defer unlock()

	st, err := s.loadOrStart(ctx, sid)
	if err != nil {
		return game.Outcome{}, err
	}
	out := s.ev.Evaluate(st, raw)
	if out.State != st {
		if err := s.store.Save(ctx, sid, out.State); err != nil {
			return game.Outcome{}, err
		}
	}
	if out.State.Won() && !st.Won() {
		log.Debug().Str("session", sid).Int("attempts", out.State.Attempts).Msg("round won")
	}
	return out, nil
}
