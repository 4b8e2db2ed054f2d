// Package websocket keeps every open predictor page in sync with its widget over
// WebSocket connections.
// file: websocket/hub.go
package websocket

import (
	"net/http"
	"net/url"
	"sync"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
	"league-predictor/logger"
	"league-predictor/metrics"
	"league-predictor/models"
	"league-predictor/services"
)

// HubConfig tunes a Hub. Zero values fall back to the defaults below.
type HubConfig struct {
	AllowedOrigins     []string
	MessagesPerSecond  float64
	MessageBurst       int
	Metrics            *metrics.Collector
	ConnectionObserver ConnectionPublisher
}

const (
	defaultMessagesPerSecond = 20
	defaultMessageBurst      = 40
)

// Hub tracks connections per widget id and fans board updates out to them.
type Hub struct {
	mu       sync.RWMutex
	widgets  map[string]map[*Connection]bool
	svc      services.PredictionServiceInterface
	metrics  *metrics.Collector
	observer ConnectionPublisher
	limit    rate.Limit
	burst    int
	upgrader websocket.Upgrader

	// dirty wakes the publisher goroutine; one pending signal is enough
	dirty     chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// NewHub creates a hub serving widgets from svc.
func NewHub(svc services.PredictionServiceInterface, cfg HubConfig) *Hub {
	if cfg.MessagesPerSecond <= 0 {
		cfg.MessagesPerSecond = defaultMessagesPerSecond
	}
	if cfg.MessageBurst <= 0 {
		cfg.MessageBurst = defaultMessageBurst
	}

	h := &Hub{
		widgets:  make(map[string]map[*Connection]bool),
		svc:      svc,
		metrics:  cfg.Metrics,
		observer: cfg.ConnectionObserver,
		limit:    rate.Limit(cfg.MessagesPerSecond),
		burst:    cfg.MessageBurst,
		dirty:    make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	h.upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return checkOrigin(r, cfg.AllowedOrigins)
		},
	}
	if h.observer != nil {
		go h.runPublisher()
	}
	return h
}

// Close stops the connection count publisher. Open connections are left alone.
func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}

// checkOrigin allows Test-Mode requests, requests without an Origin header and any
// origin whose host is listed. An empty list allows every origin.
func checkOrigin(r *http.Request, allowed []string) bool {
	if r.Header.Get("Test-Mode") == "true" || len(allowed) == 0 {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	for _, a := range allowed {
		if a == origin || a == u.Host {
			return true
		}
	}
	logger.Warn.Printf("[checkOrigin] rejected origin %q", origin)
	return false
}

// --------------- connection bookkeeping -----------------

func (h *Hub) register(c *Connection) {
	h.mu.Lock()
	conns, ok := h.widgets[c.widgetID]
	if !ok {
		conns = make(map[*Connection]bool)
		h.widgets[c.widgetID] = conns
	}
	conns[c] = true
	n := len(conns)
	total := h.totalLocked()
	h.mu.Unlock()

	logger.Info.Printf("[Hub.register] widget=%s connections=%d total=%d", c.widgetID, n, total)
	h.metrics.ConnectionOpened()
	h.publish()
}

// unregister removes c and closes its send channel. Safe to call twice.
func (h *Hub) unregister(c *Connection) {
	h.mu.Lock()
	conns, ok := h.widgets[c.widgetID]
	if !ok || !conns[c] {
		h.mu.Unlock()
		return
	}
	delete(conns, c)
	if len(conns) == 0 {
		delete(h.widgets, c.widgetID)
	}
	close(c.send)
	total := h.totalLocked()
	h.mu.Unlock()

	logger.Info.Printf("[Hub.unregister] widget=%s closed, total=%d", c.widgetID, total)
	h.metrics.ConnectionClosed()
	h.publish()
}

// publish wakes the publisher goroutine without blocking. The goroutine reads the total
// when it runs, so a burst of changes collapses into one call with the latest count.
func (h *Hub) publish() {
	if h.observer == nil {
		return
	}
	select {
	case h.dirty <- struct{}{}:
	default:
	}
}

func (h *Hub) runPublisher() {
	for {
		select {
		case <-h.done:
			return
		case <-h.dirty:
			h.observer.PublishConnections(h.TotalConnections())
		}
	}
}

func (h *Hub) totalLocked() int {
	n := 0
	for _, conns := range h.widgets {
		n += len(conns)
	}
	return n
}

// Connections returns how many connections widgetID has open.
func (h *Hub) Connections(widgetID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.widgets[widgetID])
}

// InUse reports whether any page of widgetID is still connected.
func (h *Hub) InUse(widgetID string) bool {
	return h.Connections(widgetID) > 0
}

// TotalConnections counts every open connection.
func (h *Hub) TotalConnections() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.totalLocked()
}

// --------------- broadcasting -----------------

// BroadcastState sends a boardUpdated message to every connection of widgetID.
func (h *Hub) BroadcastState(widgetID string, state models.BoardState) {
	msg, err := encode(OutboundMessage{Action: ActionBoardUpdated, State: &state})
	if err != nil {
		logger.Error.Printf("[BroadcastState] Error marshalling state: %v", err)
		return
	}
	h.broadcastRaw(widgetID, msg)
}

func (h *Hub) broadcastRaw(widgetID string, msg []byte) {
	// sends happen under the read lock so unregister cannot close a channel mid-send
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.widgets[widgetID] {
		select {
		case c.send <- msg:
		default:
			logger.Warn.Printf("[broadcastRaw] Dropping message for connection %v", c.conn.RemoteAddr())
		}
	}
	logger.Debug.Printf("[broadcastRaw] widget=%s delivered to %d connection(s)", widgetID, len(h.widgets[widgetID]))
}
