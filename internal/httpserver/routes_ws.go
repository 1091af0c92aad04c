// internal/httpserver/routes_ws.go
//
// WebSocket transport for rendering collaborators that prefer a push channel.
//
// Protocol (JSON text frames):
//   client → server  {"type":"guess","guess":"42"}
//                    {"type":"new_round"}
//                    {"type":"state"}               (re-send current state)
//   server → client  {"type":"state","state":{...}}
//                    {"type":"pulse","durationMs":500}   (after invalid input)
//                    {"type":"error","error":"unknown_type"}
//
// The current state is pushed once on connect. Intents are rate limited per
// connection; a malformed frame closes the connection.

package httpserver

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog/hlog"
	"golang.org/x/time/rate"

	"github.com/robalobadob/guessnumber/internal/game"
	"github.com/robalobadob/guessnumber/internal/session"
	"github.com/robalobadob/guessnumber/internal/view"
)

const wsWriteTimeout = 5 * time.Second

// wsIntent is an inbound client message.
type wsIntent struct {
	Type  string `json:"type"`
	Guess string `json:"guess,omitempty"`
}

// wsEvent is an outbound server message.
type wsEvent struct {
	Type       string         `json:"type"`
	State      *view.Snapshot `json:"state,omitempty"`
	DurationMs int64          `json:"durationMs,omitempty"`
	Error      string         `json:"error,omitempty"`
}

// handleWS upgrades the connection and serves intents until the client leaves.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	sid := session.IDFrom(r.Context())
	logger := hlog.FromRequest(r).With().Str("session", sid).Logger()

	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: originPatterns(s.origin),
	})
	if err != nil {
		logger.Warn().Err(err).Msg("websocket accept")
		return
	}
	defer c.CloseNow()

	ctx := r.Context()
	err = s.serveWS(ctx, c, sid)
	switch {
	case err == nil,
		errors.Is(err, context.Canceled),
		websocket.CloseStatus(err) == websocket.StatusNormalClosure,
		websocket.CloseStatus(err) == websocket.StatusGoingAway:
		c.Close(websocket.StatusNormalClosure, "")
	default:
		logger.Debug().Err(err).Msg("websocket closed")
	}
}

func (s *Server) serveWS(ctx context.Context, c *websocket.Conn, sid string) error {
	st, err := s.currentRound(ctx, sid)
	if err != nil {
		_ = writeEvent(ctx, c, wsEvent{Type: "error", Error: "store_failed"})
		return err
	}
	if err := writeState(ctx, c, st); err != nil {
		return err
	}

	l := rate.NewLimiter(rate.Every(s.wsRate), s.wsBurst)
	for {
		if err := l.Wait(ctx); err != nil {
			return err
		}
		var in wsIntent
		if err := wsjson.Read(ctx, c, &in); err != nil {
			return err
		}

		switch in.Type {
		case "guess":
			out, err := s.guess(ctx, sid, in.Guess)
			if err != nil {
				_ = writeEvent(ctx, c, wsEvent{Type: "error", Error: "store_failed"})
				return err
			}
			if err := writeState(ctx, c, out.State); err != nil {
				return err
			}
			if p := view.PulseFor(out); p != nil {
				if err := writeEvent(ctx, c, wsEvent{Type: "pulse", DurationMs: p.DurationMs}); err != nil {
					return err
				}
			}
		case "new_round":
			st, err := s.newRound(ctx, sid)
			if err != nil {
				_ = writeEvent(ctx, c, wsEvent{Type: "error", Error: "store_failed"})
				return err
			}
			if err := writeState(ctx, c, st); err != nil {
				return err
			}
		case "state":
			st, err := s.currentRound(ctx, sid)
			if err != nil {
				_ = writeEvent(ctx, c, wsEvent{Type: "error", Error: "store_failed"})
				return err
			}
			if err := writeState(ctx, c, st); err != nil {
				return err
			}
		default:
			if err := writeEvent(ctx, c, wsEvent{Type: "error", Error: "unknown_type"}); err != nil {
				return err
			}
		}
	}
}

func writeState(ctx context.Context, c *websocket.Conn, st game.State) error {
	snap := view.Render(st)
	return writeEvent(ctx, c, wsEvent{Type: "state", State: &snap})
}

func writeEvent(ctx context.Context, c *websocket.Conn, ev wsEvent) error {
	ctx, cancel := context.WithTimeout(ctx, wsWriteTimeout)
	defer cancel()
	return wsjson.Write(ctx, c, ev)
}

// originPatterns turns the configured client origin into an accept pattern.
// Same-origin requests are always accepted by the websocket package.
func originPatterns(origin string) []string {
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return nil
	}
	return []string{u.Host}
}
