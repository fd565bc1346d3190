// Package httpapi exposes the server over HTTP: a one-shot command
// endpoint, session and history listings, metrics, and the control-mode
// websocket.
package httpapi

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/ent0n29/muxd/internal/cmdq"
	"github.com/ent0n29/muxd/internal/config"
	"github.com/ent0n29/muxd/internal/history"
	"github.com/ent0n29/muxd/internal/observability"
	"github.com/ent0n29/muxd/internal/parse"
	"github.com/ent0n29/muxd/internal/policy"
	"github.com/ent0n29/muxd/internal/server"
)

type Server struct {
	cfg      config.Config
	rt       *server.Runtime
	history  history.Store
	metrics  *observability.Metrics
	upgrader websocket.Upgrader
}

func New(cfg config.Config, rt *server.Runtime, hist history.Store, metrics *observability.Metrics) *Server {
	return &Server{
		cfg:     cfg,
		rt:      rt,
		history: hist,
		metrics: metrics,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				// Default: only allow browser websocket connections from the
				// same origin, so other sites cannot drive a control client
				// if the server is ever exposed beyond localhost.
				if cfg.AllowAnyOrigin {
					return true
				}
				origin := strings.TrimSpace(r.Header.Get("Origin"))
				if origin == "" {
					// Non-browser clients often omit Origin. Allow them.
					return true
				}
				u, err := url.Parse(origin)
				if err != nil {
					return false
				}
				if u.Scheme != "http" && u.Scheme != "https" {
					return false
				}
				return strings.EqualFold(u.Host, r.Host)
			},
		},
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.handleHealth)
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		observability.MetricsHandler().ServeHTTP(w, r)
	})

	r.Post("/v1/commands", s.handleRunCommand)
	r.Get("/v1/sessions", s.handleListSessions)
	r.Get("/v1/history", s.handleHistory)
	r.Get("/v1/control/ws", s.handleControlWS)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.rt.Sessions.Count(),
	})
}

type commandRequest struct {
	Line string `json:"line"`
}

type commandResponse struct {
	Stdout string `json:"stdout"`
	Stderr string `json:"stderr"`
	Retval int    `json:"retval"`
}

// handleRunCommand runs one line of command text on a throwaway client
// and returns its buffered output once the queue drains.
func (s *Server) handleRunCommand(w http.ResponseWriter, r *http.Request) {
	var req commandRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if strings.TrimSpace(req.Line) == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "line is required")
		return
	}

	list, err := parse.Line(req.Line, "<http>", 1, s.rt.Table, 0)
	if err != nil {
		respondError(w, http.StatusBadRequest, "parse_error", err.Error())
		return
	}
	if policy.AnyMutating(list) && !policy.Authorize(r, s.cfg.ControlToken) {
		list.Release()
		respondError(w, http.StatusUnauthorized, "unauthorized", "control token required")
		return
	}

	c := server.NewClient(false)
	q := s.rt.NewQueue(c)
	done := make(chan struct{}, 1)
	q.OnEmpty(func(*cmdq.Queue) {
		select {
		case done <- struct{}{}:
		default:
		}
	})

	s.rt.Loop.Post(func() {
		q.Run(list)
		list.Release()
	})

	select {
	case <-done:
		respondJSON(w, http.StatusOK, commandResponse{
			Stdout: c.TakeStdout(),
			Stderr: c.TakeStderr(),
			Retval: c.Retval(),
		})
	case <-r.Context().Done():
		// Client disconnected; nobody is left to receive a response.
		// The queue cleanup below still runs.
	case <-timeAfter(s.cfg.CommandTimeout):
		respondError(w, http.StatusGatewayTimeout, "timeout", "command did not finish in time")
	}

	s.rt.Loop.Post(func() {
		q.Flush()
		q.Release()
	})
}

type sessionInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

func (s *Server) handleListSessions(w http.ResponseWriter, _ *http.Request) {
	sessions := s.rt.Sessions.List()
	out := make([]sessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		out = append(out, sessionInfo{
			ID:        sess.ID,
			Name:      sess.Name,
			CreatedAt: sess.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		})
	}
	respondJSON(w, http.StatusOK, map[string]any{"sessions": out})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := strings.TrimSpace(r.URL.Query().Get("limit")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			respondError(w, http.StatusBadRequest, "invalid_request", "limit must be a positive integer")
			return
		}
		limit = n
	}
	records, err := s.history.Recent(r.Context(), limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "history_error", err.Error())
		return
	}
	if records == nil {
		records = []history.Record{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"history": records})
}
