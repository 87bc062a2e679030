// Package live pushes suggestions to websocket clients whenever the current
// day or time bucket changes.
package live

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"rasaroots/internal/logging"
	"rasaroots/internal/monitoring"
	"rasaroots/internal/recommend"
	"rasaroots/internal/suggest"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	readLimit  = 4 * 1024
	sendBuffer = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Message is sent to clients.
type Message struct {
	Type    string               `json:"type"`
	Payload *recommend.NowResult `json:"payload,omitempty"`
	Error   string               `json:"error,omitempty"`
}

// subscribe is what clients send to change their tag filter.
type subscribe struct {
	Tags string `json:"tags"`
}

// Hub tracks connected clients and refreshes them on bucket changes.
type Hub struct {
	facade   *recommend.Facade
	interval time.Duration

	mu      sync.Mutex
	clients map[*client]struct{}
	last    suggest.Context
}

// NewHub creates a hub that checks the clock every interval.
func NewHub(f *recommend.Facade, interval time.Duration) *Hub {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Hub{
		facade:   f,
		interval: interval,
		clients:  make(map[*client]struct{}),
	}
}

// Serve runs the bucket watcher until ctx is done.
func (h *Hub) Serve(ctx context.Context) error {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return ctx.Err()
		case <-ticker.C:
			h.Check(ctx)
		}
	}
}

// Check refreshes every client if the day or bucket moved since the last
// check. It reports whether a refresh happened. Only a refresh reaches the
// scorer.
func (h *Hub) Check(ctx context.Context) bool {
	now := h.facade.Context()

	h.mu.Lock()
	changed := now != h.last
	h.last = now
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	if !changed {
		return false
	}
	logging.Ctx(ctx).Info().
		Str("day", string(now.Day)).
		Str("time_of_day", string(now.TimeOfDay)).
		Int("clients", len(clients)).
		Msg("time bucket changed, refreshing live clients")
	for _, c := range clients {
		c.refresh(ctx)
	}
	return true
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Handle upgrades the request. The optional tags query sets the initial filter.
func (h *Hub) Handle(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logging.Ctx(c.Request.Context()).Warn().Err(err).Msg("failed to upgrade connection")
		return
	}

	cl := &client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, sendBuffer),
		tags: c.Query("tags"),
	}
	h.register(cl)

	go cl.writePump()
	go cl.readPump()
	cl.refresh(context.Background())
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	monitoring.LiveClients.Set(float64(n))
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	n := len(h.clients)
	h.mu.Unlock()
	monitoring.LiveClients.Set(float64(n))
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
	monitoring.LiveClients.Set(0)
}

// client is one websocket connection
type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	mu   sync.Mutex
	tags string
}

func (c *client) setTags(tags string) {
	c.mu.Lock()
	c.tags = tags
	c.mu.Unlock()
}

func (c *client) currentTags() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tags
}

// refresh computes suggestions for the client's filter and queues them.
func (c *client) refresh(ctx context.Context) {
	res, err := c.hub.facade.Now(ctx, c.currentTags(), recommend.Profile{})
	msg := Message{Type: "suggestions", Payload: &res}
	if err != nil {
		msg = Message{Type: "error", Error: err.Error()}
	}
	data, err := json.Marshal(msg)
	if err != nil {
		logging.Error().Err(err).Msg("failed to encode live message")
		return
	}
	c.enqueue(data)
}

func (c *client) enqueue(data []byte) {
	c.hub.mu.Lock()
	defer c.hub.mu.Unlock()
	if _, ok := c.hub.clients[c]; !ok {
		return
	}
	select {
	case c.send <- data:
	default:
		logging.Warn().Msg("live client buffer full, dropping message")
	}
}

// readPump reads filter updates until the connection fails.
func (c *client) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(readLimit)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logging.Debug().Err(err).Msg("live connection closed")
			}
			return
		}

		var sub subscribe
		if err := json.Unmarshal(message, &sub); err != nil {
			data, _ := json.Marshal(Message{Type: "error", Error: "invalid message"})
			c.enqueue(data)
			continue
		}
		c.setTags(sub.Tags)
		c.refresh(context.Background())
	}
}

// writePump drains send and keeps the connection alive with pings.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
