// Copyright 2025 TensorViz Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package widget

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/tensorviz-ml/tensorviz/internal/scale"
	"github.com/tensorviz-ml/tensorviz/internal/view"
	"github.com/tensorviz-ml/tensorviz/internal/wire"
)

// Message types exchanged with the front end.
const (
	msgProp   = "prop"
	msgView   = "view"
	msgScale  = "scale"
	msgConfig = "config"
)

// envelope is the JSON frame for every widget message.
type envelope struct {
	Type      string          `json:"type"`
	Name      string          `json:"name,omitempty"`
	ValueType string          `json:"valueType,omitempty"`
	Value     *wire.Message   `json:"value,omitempty"`
	Dimension *int            `json:"dimension,omitempty"`
	Mode      string          `json:"mode,omitempty"`
	Index     *int            `json:"index,omitempty"`
	Scale     *scale.Resolved `json:"scale,omitempty"`
	Config    *configPayload  `json:"config,omitempty"`
}

// configPayload mirrors the host configuration surface.
type configPayload struct {
	Names        []string   `json:"names,omitempty"`
	Labels       [][]string `json:"labels,omitempty"`
	DefaultViews []string   `json:"default_views,omitempty"`
	ScaleDomain  []float64  `json:"scale_domain,omitempty"`
	ScaleType    string     `json:"scale_type,omitempty"`
	ScaleScheme  string     `json:"scale_scheme,omitempty"`
}

// Server bridges a Visualizer to browser front ends over websockets.
//
// On attach a client receives the configuration surface, then drives the
// view with "view" messages (mode and slice-index changes) and requests
// the tensor with a "prop" message. The server pushes a "scale" message
// after every scale recomputation, which is the front end's cue to
// re-read the resolved scale.
type Server struct {
	viz      *Visualizer
	upgrader websocket.Upgrader
	log      *slog.Logger
}

// NewServer creates a websocket bridge for viz.
func NewServer(viz *Visualizer, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		viz: viz,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
		log: log,
	}
}

// ServeHTTP upgrades the request to a websocket session.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error("websocket upgrade failed", "err", err)
		return
	}
	session := uuid.NewString()
	s.log.Info("widget session attached", "session", session, "remote", r.RemoteAddr)
	go s.serve(conn, session)
}

func (s *Server) serve(conn *websocket.Conn, session string) {
	defer conn.Close()

	// Gorilla connections allow one concurrent writer; scale events race
	// with request replies without this.
	var writeMu sync.Mutex
	send := func(env *envelope) {
		writeMu.Lock()
		defer writeMu.Unlock()
		if err := conn.WriteJSON(env); err != nil {
			s.log.Error("widget send failed", "session", session, "err", err)
		}
	}

	remove := s.viz.OnScale(func(sc scale.Resolved) {
		send(&envelope{Type: msgScale, Scale: &sc})
	})
	defer remove()

	send(&envelope{Type: msgConfig, Config: s.config()})

	for {
		var env envelope
		if err := conn.ReadJSON(&env); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Error("widget read failed", "session", session, "err", err)
			} else {
				s.log.Info("widget session detached", "session", session)
			}
			return
		}
		if reply := s.handle(&env, session); reply != nil {
			send(reply)
		}
	}
}

// handle dispatches one incoming frame, returning an optional direct
// reply. View changes trigger a re-render, which pushes the recomputed
// scale through the OnScale listener instead of a direct reply.
func (s *Server) handle(env *envelope, session string) *envelope {
	switch env.Type {
	case msgProp:
		if env.Name != "tensor" {
			s.log.Warn("unknown prop requested", "session", session, "name", env.Name)
			return nil
		}
		msg, err := wire.Encode(s.viz.Tensor())
		if err != nil {
			s.log.Error("tensor encode failed", "session", session, "err", err)
			return nil
		}
		return &envelope{Type: msgProp, ValueType: "Tensor", Name: "tensor", Value: msg}

	case msgView:
		if env.Dimension == nil {
			s.log.Warn("view message without dimension", "session", session)
			return nil
		}
		dim := *env.Dimension
		if env.Mode != "" {
			mode, err := view.ParseMode(env.Mode)
			if err != nil {
				s.log.Warn("view message with bad mode", "session", session, "mode", env.Mode)
				return nil
			}
			if err := s.viz.SetMode(dim, mode); err != nil {
				s.log.Warn("view mode rejected", "session", session, "err", err)
				return nil
			}
		}
		if env.Index != nil {
			if err := s.viz.SetSlice(dim, *env.Index); err != nil {
				s.log.Warn("slice index rejected", "session", session, "err", err)
				return nil
			}
		}
		if _, _, err := s.viz.Render(); err != nil {
			s.log.Error("render failed", "session", session, "err", err)
		}
		return nil

	case msgScale:
		// Front ends that resolve their own scale report it back; keep it
		// as the current scale so host reads observe what is displayed.
		if env.Scale != nil {
			s.viz.mu.Lock()
			s.viz.current = *env.Scale
			s.viz.resolved = true
			s.viz.mu.Unlock()
		}
		return nil

	default:
		s.log.Warn("unknown message type", "session", session, "type", env.Type)
		return nil
	}
}

func (s *Server) config() *configPayload {
	opts := s.viz.opts
	return &configPayload{
		Names:        opts.Names,
		Labels:       opts.Labels,
		DefaultViews: opts.DefaultViews,
		ScaleDomain:  opts.ScaleDomain,
		ScaleType:    opts.ScaleType,
		ScaleScheme:  opts.ScaleScheme,
	}
}

// MarshalScale serializes a scale event in the same frame format the
// server pushes, for hosts embedding the bridge over a different
// transport (for example a notebook kernel comm).
func MarshalScale(sc scale.Resolved) ([]byte, error) {
	return json.Marshal(&envelope{Type: msgScale, Scale: &sc})
}
