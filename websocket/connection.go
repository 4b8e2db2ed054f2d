// file: websocket/connection.go
package websocket

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
	"league-predictor/interaction"
	"league-predictor/logger"
	"league-predictor/models"
)

// WSConn is an interface for the WebSocket connection.
type WSConn interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	ReadMessage() (int, []byte, error)
	Close() error
	RemoteAddr() net.Addr
	SetReadLimit(limit int64)
	SetReadDeadline(t time.Time) error
	SetPongHandler(h func(string) error)
}

// Connection represents a single WebSocket connection for one page.
type Connection struct {
	conn     WSConn
	send     chan []byte
	widgetID string
	hub      *Hub
	limiter  *rate.Limiter
}

// Configuration constants.
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 256
)

// Inbound actions.
const (
	ActionDragEnd = "dragEnd"
	ActionClick   = "click"
	ActionReset   = "reset"
	ActionShuffle = "shuffle"
	ActionSync    = "sync"
)

// Outbound actions.
const (
	ActionBoardUpdated     = "boardUpdated"
	ActionInvalidOperation = "invalidOperation"
)

// ErrMissingPayload is returned for a dragEnd or click message without its body.
var ErrMissingPayload = errors.New("message payload missing")

// InboundMessage is the JSON a page sends.
type InboundMessage struct {
	Action string                    `json:"action"`
	Drop   *interaction.DropResult   `json:"drop,omitempty"`
	Click  *interaction.ClickCommand `json:"click,omitempty"`
}

// OutboundMessage is the JSON the server sends.
type OutboundMessage struct {
	Action string             `json:"action"`
	State  *models.BoardState `json:"state,omitempty"`
	Error  string             `json:"error,omitempty"`
}

func encode(msg OutboundMessage) ([]byte, error) {
	return json.Marshal(msg)
}

// ServeWs upgrades the HTTP request to a WebSocket connection bound to widgetID and
// starts the read and write pumps.
func (h *Hub) ServeWs(w http.ResponseWriter, r *http.Request, widgetID string) {
	if widgetID == "" {
		logger.Error.Println("[ServeWs] No widget in session; rejecting WebSocket connection")
		http.Error(w, "No widget session", http.StatusBadRequest)
		return
	}

	logger.Info.Printf("[ServeWs] Upgrading to WS: remoteAddr=%v, widget=%s", r.RemoteAddr, widgetID)
	wsConn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// the upgrader has already answered with an HTTP error
		logger.Error.Printf("[ServeWs] WebSocket upgrade error: %v", err)
		return
	}

	c := h.newConnection(wsConn, widgetID)
	h.register(c)

	go c.readPump()
	go c.writePump()
}

func (h *Hub) newConnection(conn WSConn, widgetID string) *Connection {
	return &Connection{
		conn:     conn,
		send:     make(chan []byte, sendBuffer),
		widgetID: widgetID,
		hub:      h,
		limiter:  rate.NewLimiter(h.limit, h.burst),
	}
}

// readPump handles inbound messages from the page.
func (c *Connection) readPump() {
	defer func() {
		c.hub.unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		messageType, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn.Printf("[readPump] Read error from %v: %v", c.conn.RemoteAddr(), err)
			}
			break
		}
		if messageType != websocket.TextMessage {
			logger.Debug.Printf("[readPump] Ignoring non-text messageType=%d", messageType)
			continue
		}
		if !c.limiter.Allow() {
			logger.Warn.Printf("[readPump] Rate limit exceeded for %v (widget=%s); dropping message", c.conn.RemoteAddr(), c.widgetID)
			c.hub.metrics.MessageDropped()
			continue
		}

		var msg InboundMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			logger.Warn.Printf("[readPump] Invalid JSON from %v: %v", c.conn.RemoteAddr(), err)
			continue
		}
		c.handleIncoming(msg)
	}
}

// writePump handles outbound messages to the page, including periodic pings.
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if !ok {
				logger.Debug.Printf("[writePump] Send channel closed for %v", c.conn.RemoteAddr())
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logger.Warn.Printf("[writePump] Error writing to %v: %v", c.conn.RemoteAddr(), err)
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logger.Warn.Printf("[writePump] Ping error for %v: %v", c.conn.RemoteAddr(), err)
				return
			}
		}
	}
}

// handleIncoming applies one message to the connection's widget. Successful actions
// are broadcast to every page of the widget; failures and sync replies go to this
// connection only.
func (c *Connection) handleIncoming(msg InboundMessage) {
	logger.Debug.Printf("[handleIncoming] Action=%s, widget=%s", msg.Action, c.widgetID)
	widget := c.hub.svc.GetWidget(c.widgetID)

	var (
		state models.BoardState
		err   error
	)
	switch msg.Action {
	case ActionDragEnd:
		if msg.Drop == nil {
			state, err = widget.State(), ErrMissingPayload
			break
		}
		state, err = widget.DragEnd(*msg.Drop)
	case ActionClick:
		if msg.Click == nil {
			state, err = widget.State(), ErrMissingPayload
			break
		}
		state, err = widget.Click(*msg.Click)
	case ActionReset:
		state = widget.Reset()
	case ActionShuffle:
		state = widget.Shuffle()
	case ActionSync:
		c.reply(OutboundMessage{Action: ActionBoardUpdated, State: ptr(widget.State())})
		return
	default:
		logger.Debug.Printf("[handleIncoming] Unhandled action: %s", msg.Action)
		return
	}

	if err != nil {
		c.hub.metrics.InvalidOperation(msg.Action)
		c.reply(OutboundMessage{Action: ActionInvalidOperation, Error: err.Error(), State: &state})
		return
	}
	c.hub.BroadcastState(c.widgetID, state)
}

// reply queues msg for this connection only.
func (c *Connection) reply(msg OutboundMessage) {
	out, err := encode(msg)
	if err != nil {
		logger.Error.Printf("[reply] Error marshalling %s: %v", msg.Action, err)
		return
	}
	select {
	case c.send <- out:
	default:
		logger.Warn.Printf("[reply] Dropping %s for connection %v", msg.Action, c.conn.RemoteAddr())
	}
}

func ptr[T any](v T) *T { return &v }
