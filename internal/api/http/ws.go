package http

import (
	"net/http"
	"sync"
	"time"

	"github.com/GriffinCanCode/showcase/internal/domain/reconcile"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait     = 5 * time.Second
	subscriberBuf = 16
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // CORS is handled by middleware
	},
}

// StreamMessage is one message on the /ws change stream
type StreamMessage struct {
	Type      string `json:"type"`
	Message   string `json:"message,omitempty"`
	Pass      gin.H  `json:"pass,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// ClientMessage is a message read from a /ws client
type ClientMessage struct {
	Type string `json:"type"`
}

// Hub fans pass results out to websocket subscribers
type Hub struct {
	mu     sync.Mutex
	subs   map[chan StreamMessage]struct{}
	closed bool
	logger *zap.Logger
}

// NewHub creates an empty hub
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		subs:   make(map[chan StreamMessage]struct{}),
		logger: logger,
	}
}

// Publish sends a pass summary to every subscriber. Slow subscribers miss
// messages rather than block the reload.
func (h *Hub) Publish(result *reconcile.Result) {
	if result == nil {
		return
	}
	msg := StreamMessage{
		Type:      "pass",
		Pass:      passSummary(result),
		Timestamp: time.Now().Unix(),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- msg:
		default:
			h.logger.Debug("dropping pass for slow subscriber", zap.String("pass_id", result.PassID))
		}
	}
}

// Subscribers returns the number of open streams
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Close ends every stream; later subscriptions are refused
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for ch := range h.subs {
		close(ch)
		delete(h.subs, ch)
	}
}

func (h *Hub) subscribe() (chan StreamMessage, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, false
	}
	ch := make(chan StreamMessage, subscriberBuf)
	h.subs[ch] = struct{}{}
	return ch, true
}

func (h *Hub) unsubscribe(ch chan StreamMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[ch]; ok {
		close(ch)
		delete(h.subs, ch)
	}
}

// Stream upgrades to a websocket and pushes a message after every pass
func (h *Handlers) Stream(c *gin.Context) {
	updates, ok := h.hub.subscribe()
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "stream closed"})
		return
	}
	defer h.hub.unsubscribe(updates)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	// Only this goroutine writes; the reader hands pings over
	pings := make(chan struct{}, 1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var msg ClientMessage
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			if msg.Type == "ping" {
				select {
				case pings <- struct{}{}:
				default:
				}
			}
		}
	}()

	var last gin.H
	if h.reloader != nil {
		last = passSummary(h.reloader.LastResult())
	}
	if err := h.send(conn, StreamMessage{Type: "system", Message: "connected", Pass: last}); err != nil {
		return
	}

	for {
		select {
		case <-done:
			return
		case <-pings:
			if err := h.send(conn, StreamMessage{Type: "pong"}); err != nil {
				return
			}
		case msg, ok := <-updates:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
					time.Now().Add(writeWait))
				return
			}
			if err := h.send(conn, msg); err != nil {
				h.logger.Debug("websocket write failed", zap.Error(err))
				return
			}
		}
	}
}

func (h *Handlers) send(conn *websocket.Conn, msg StreamMessage) error {
	if msg.Timestamp == 0 {
		msg.Timestamp = time.Now().Unix()
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(msg)
}
