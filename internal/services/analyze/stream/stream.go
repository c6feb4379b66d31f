// Package stream serves analysis over a websocket so chat integrations can
// score each message of a conversation as it arrives. A session also tracks
// the most severe level seen so far
package stream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"slices"
	"time"

	"safeharbor/internal/core/crisis"
	"safeharbor/internal/platform/config"
	perr "safeharbor/internal/platform/errors"
	"safeharbor/internal/platform/logger"
	"safeharbor/internal/platform/metrics"
	"safeharbor/internal/services/analyze/domain"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Message types sent by the server
const (
	TypeConnected = "connected"
	TypeResult    = "result"
	TypeError     = "error"
)

const sendBuffer = 16

// Inbound is one client frame
type Inbound struct {
	ID     string                `json:"id,omitempty"`
	Text   string                `json:"text"`
	Config *crisis.PartialConfig `json:"config,omitempty"`
}

// Outbound is one server frame
type Outbound struct {
	Type    string         `json:"type"`
	Session string         `json:"session_id,omitempty"`
	ID      string         `json:"id,omitempty"`
	Result  *domain.Result `json:"result,omitempty"`
	Highest crisis.Level   `json:"session_highest,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// Options bound a session
type Options struct {
	ReadLimit      int64         // max frame size in bytes
	PongWait       time.Duration // idle time allowed between client frames or pongs
	PingInterval   time.Duration // must be below PongWait
	WriteTimeout   time.Duration
	AllowedOrigins []string // empty or "*" accepts any origin
}

// DefaultOptions suit chat-sized messages
func DefaultOptions() Options {
	return Options{
		ReadLimit:    64 << 10,
		PongWait:     60 * time.Second,
		PingInterval: 50 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
}

// FromConfig reads READ_LIMIT, PONG_WAIT, PING_INTERVAL and WRITE_TIMEOUT
func FromConfig(cfg config.Conf) Options {
	d := DefaultOptions()
	o := Options{
		ReadLimit:    int64(cfg.MayInt("READ_LIMIT", int(d.ReadLimit))),
		PongWait:     cfg.MayDuration("PONG_WAIT", d.PongWait),
		PingInterval: cfg.MayDuration("PING_INTERVAL", d.PingInterval),
		WriteTimeout: cfg.MayDuration("WRITE_TIMEOUT", d.WriteTimeout),
	}
	return o.normalized()
}

func (o Options) normalized() Options {
	d := DefaultOptions()
	if o.ReadLimit <= 0 {
		o.ReadLimit = d.ReadLimit
	}
	if o.PongWait <= 0 {
		o.PongWait = d.PongWait
	}
	if o.PingInterval <= 0 || o.PingInterval >= o.PongWait {
		o.PingInterval = o.PongWait * 9 / 10
	}
	if o.WriteTimeout <= 0 {
		o.WriteTimeout = d.WriteTimeout
	}
	return o
}

// Handler upgrades requests and runs one session per connection
type Handler struct {
	svc      domain.AnalyzerPort
	opt      Options
	log      *logger.Logger
	metrics  *metrics.Metrics
	upgrader websocket.Upgrader
}

// New builds a Handler. log and m may be nil
func New(svc domain.AnalyzerPort, opt Options, log *logger.Logger, m *metrics.Metrics) *Handler {
	if log == nil {
		log = logger.Named("stream")
	}
	h := &Handler{svc: svc, opt: opt.normalized(), log: log, metrics: m}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

func (h *Handler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || len(h.opt.AllowedOrigins) == 0 || slices.Contains(h.opt.AllowedOrigins, "*") {
		return true
	}
	if u, err := url.Parse(origin); err == nil && u.Host == r.Host {
		return true
	}
	return slices.Contains(h.opt.AllowedOrigins, origin)
}

// ServeHTTP implements http.Handler
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already answered with an HTTP error
		h.log.Debug().Err(err).Msg("stream upgrade refused")
		return
	}

	s := &session{
		id:      uuid.NewString(),
		conn:    conn,
		opt:     h.opt,
		svc:     h.svc,
		send:    make(chan Outbound, sendBuffer),
		dead:    make(chan struct{}),
		highest: crisis.LevelNone,
	}
	// request timeouts must not end a long-lived session
	ctx, cancel := context.WithCancel(context.WithoutCancel(r.Context()))
	ll := logger.Enrich(ctx, h.log).With().Str("session_id", s.id).Logger()
	log := &ll

	h.metrics.StreamOpened()
	log.Debug().Msg("stream opened")

	go s.writePump(ctx)
	s.push(Outbound{Type: TypeConnected, Session: s.id})
	s.readPump(ctx, log)

	cancel()
	<-s.dead
	_ = conn.Close()
	h.metrics.StreamClosed()

	evt := log.Debug()
	if s.highest.Rank() >= crisis.LevelHigh.Rank() {
		evt = log.Warn()
	}
	evt.Int("messages", s.count).Str("crisis_level", string(s.highest)).Msg("stream closed")
}

type session struct {
	id   string
	conn *websocket.Conn
	opt  Options
	svc  domain.AnalyzerPort

	send chan Outbound
	dead chan struct{} // closed when the writer exits

	// owned by the read loop
	highest crisis.Level
	count   int
}

// push queues a frame; false once the writer is gone
func (s *session) push(m Outbound) bool {
	select {
	case s.send <- m:
		return true
	case <-s.dead:
		return false
	}
}

func (s *session) readPump(ctx context.Context, log *logger.Logger) {
	s.conn.SetReadLimit(s.opt.ReadLimit)
	extend := func(string) error { return s.conn.SetReadDeadline(time.Now().Add(s.opt.PongWait)) }
	_ = extend("")
	s.conn.SetPongHandler(extend)

	for {
		kind, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug().Err(err).Msg("stream read failed")
			}
			return
		}
		_ = extend("")
		if !s.push(s.handle(ctx, kind, data)) {
			return
		}
	}
}

func (s *session) handle(ctx context.Context, kind int, data []byte) Outbound {
	if kind != websocket.TextMessage {
		return Outbound{Type: TypeError, Error: "binary frames are not supported"}
	}
	var in Inbound
	if err := json.Unmarshal(data, &in); err != nil {
		return Outbound{Type: TypeError, Error: "invalid JSON"}
	}

	res, err := s.svc.Analyze(ctx, in.Text, in.Config)
	if err != nil {
		return Outbound{Type: TypeError, ID: in.ID, Error: perr.WireFrom(err).Message}
	}
	s.count++
	s.highest = s.highest.Max(res.Level)
	dto := domain.FromResult(res)
	return Outbound{Type: TypeResult, ID: in.ID, Result: &dto, Highest: s.highest}
}

func (s *session) writePump(ctx context.Context) {
	ticker := time.NewTicker(s.opt.PingInterval)
	defer func() {
		ticker.Stop()
		close(s.dead)
		// unblocks ReadMessage when the writer fails first
		_ = s.conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			_ = s.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(s.opt.WriteTimeout))
			return
		case m := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(s.opt.WriteTimeout))
			if err := s.conn.WriteJSON(m); err != nil {
				return
			}
		case <-ticker.C:
			if err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(s.opt.WriteTimeout)); err != nil {
				return
			}
		}
	}
}
