// Package server exposes a bot over HTTP. The caller posts the wire state
// of the pending decision to /act and gets the chosen wire action back;
// /health answers liveness probes. One server drives one game at a time,
// so requests are answered in order against a single plan queue.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"gridiron/bot"
	"gridiron/game"
	"gridiron/wire"
)

// Server answers decision requests with one bot. The session id tags every
// log line of this serving run.
type Server struct {
	bot    *bot.Bot
	budget time.Duration
	log    zerolog.Logger
	mu     sync.Mutex
}

// New wraps the bot for serving. budget is the per-request default, used
// whenever the request does not carry its own.
func New(b *bot.Bot, budget time.Duration) *Server {
	return &Server{
		bot:    b,
		budget: budget,
		log:    log.With().Str("session", uuid.NewString()).Logger(),
	}
}

// Handler returns the route table, wrapped with request logging.
func (srv *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/act", srv.handleAct)
	mux.HandleFunc("/health", srv.handleHealth)
	return srv.logged(mux)
}

// ListenAndServe blocks serving the handler on addr.
func (srv *Server) ListenAndServe(addr string) error {
	srv.log.Info().Str("addr", addr).Dur("budget", srv.budget).Msg("serving decisions")
	return http.ListenAndServe(addr, srv.Handler())
}

type actRequest struct {
	State    json.RawMessage `json:"state"`
	BudgetMS int             `json:"budget_ms"`
}

type errorBody struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

func (srv *Server) handleAct(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		srv.writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "POST only")
		return
	}
	var req actRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		srv.writeError(w, http.StatusBadRequest, "decode_failed", err.Error())
		return
	}
	if len(req.State) == 0 {
		srv.writeError(w, http.StatusBadRequest, "decode_failed", "missing state")
		return
	}
	s, err := wire.Decode(req.State)
	if err != nil {
		srv.writeError(w, http.StatusBadRequest, "decode_failed", err.Error())
		return
	}
	budget := srv.budget
	if req.BudgetMS > 0 {
		budget = time.Duration(req.BudgetMS) * time.Millisecond
	}

	srv.mu.Lock()
	action, err := srv.bot.ChooseAction(s, budget)
	srv.mu.Unlock()
	if err != nil {
		status, name := classify(err)
		srv.log.Error().Err(err).Stringer("procedure", s.Procedure).Msg("decision failed")
		srv.writeError(w, status, name, err.Error())
		return
	}

	body, err := wire.EncodeAction(action)
	if err != nil {
		srv.writeError(w, http.StatusInternalServerError, "encode_failed", err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

func (srv *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// classify maps a decision error onto a status code and its taxonomy name.
// Bad references in the request are the caller's fault; a state the bot
// cannot decide is unprocessable; everything else is ours.
func classify(err error) (int, string) {
	var unknown *game.UnknownPlayerIDError
	var unsupported *game.UnsupportedDecisionError
	var mismatch *game.EnumerationMismatchError
	switch {
	case errors.As(err, &unknown):
		return http.StatusBadRequest, "unknown_player_id"
	case errors.As(err, &unsupported):
		return http.StatusUnprocessableEntity, "unsupported_decision"
	case errors.As(err, &mismatch):
		return http.StatusInternalServerError, "enumeration_mismatch"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func (srv *Server) writeError(w http.ResponseWriter, status int, name, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(errorBody{Error: name, Detail: detail}); err != nil {
		srv.log.Error().Err(err).Msg("writing the error body failed")
	}
}

// logged wraps the handler with one structured line per request.
func (srv *Server) logged(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		srv.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", sw.status).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
