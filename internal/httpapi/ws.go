package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/ent0n29/muxd/internal/cmdq"
	"github.com/ent0n29/muxd/internal/policy"
	"github.com/ent0n29/muxd/internal/protocol"
	"github.com/ent0n29/muxd/internal/server"
)

// handleControlWS runs a control-mode client over a websocket. Inbound
// frames are command requests; outbound frames carry the queue's
// stdout (guard lines included), stderr, and the final exit event.
func (s *Server) handleControlWS(w http.ResponseWriter, r *http.Request) {
	if !policy.Authorize(r, s.cfg.ControlToken) {
		respondError(w, http.StatusUnauthorized, "unauthorized", "control token required")
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	s.metrics.ControlClients.Inc()
	defer s.metrics.ControlClients.Dec()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	c := server.NewClient(true)
	q := s.rt.NewQueue(c)

	flush := make(chan struct{}, 1)
	c.SetOnFlush(func() {
		select {
		case flush <- struct{}{}:
		default:
		}
	})

	// Protocol-level errors are routed to the writer so only one
	// goroutine ever writes to the connection.
	protoErrs := make(chan string, 16)

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for {
			select {
			case <-ctx.Done():
				return
			case detail := <-protoErrs:
				if err := conn.WriteJSON(protocol.ErrorEvent{Type: protocol.TypeErrorEvent, Detail: detail}); err != nil {
					return
				}
			case <-flush:
				if out := c.TakeStdout(); out != "" {
					if err := conn.WriteJSON(protocol.StdoutData{Type: protocol.TypeStdout, Data: out}); err != nil {
						return
					}
				}
				if out := c.TakeStderr(); out != "" {
					if err := conn.WriteJSON(protocol.StderrData{Type: protocol.TypeStderr, Data: out}); err != nil {
						return
					}
				}
				if c.Exited() {
					_ = conn.WriteJSON(protocol.ExitEvent{Type: protocol.TypeExitEvent, Retval: c.Retval()})
					_ = conn.WriteMessage(websocket.CloseMessage,
						websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
					conn.Close()
					cancel()
					return
				}
			}
		}
	}()

	lineno := 0
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			break
		}
		msg, err := protocol.ParseClientMessage(raw)
		if err != nil {
			detail := err.Error()
			if errors.Is(err, protocol.ErrUnsupportedType) {
				detail = "unsupported message type"
			}
			select {
			case protoErrs <- detail:
			default:
			}
			continue
		}
		req := msg.(protocol.CommandRequest)
		lineno++
		n := lineno
		s.rt.Loop.Post(func() {
			if err := s.rt.RunLine(q, req.Line, "<control>", n, cmdq.FlagControl); err != nil {
				c.PushStderr(fmt.Sprintf("%s\n", err))
			}
		})
	}

	cancel()
	<-writerDone
	s.rt.Loop.Post(func() {
		q.Flush()
		q.Release()
	})
}
