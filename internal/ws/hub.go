package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/windoze95/ingredai-api/internal/logger"
	"github.com/windoze95/ingredai-api/internal/metrics"
	"go.uber.org/zap"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer. Audio chunks arrive base64
	// encoded inside JSON.
	maxMessageSize = 1 << 20
)

// Client is one voice socket. RoomID is the workspace it controls.
type Client struct {
	Hub    *Hub
	Conn   *websocket.Conn
	Send   chan []byte
	RoomID string
	ID     string

	mu     sync.Mutex
	closed bool
}

// Queue offers data to the client's send buffer without blocking. It reports
// false when the buffer is full or the client has been removed.
func (c *Client) Queue(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.Send <- data:
		return true
	default:
		return false
	}
}

// Closed reports whether the hub has removed the client.
func (c *Client) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.Send)
	}
}

func (c *Client) fields() []zap.Field {
	return []zap.Field{zap.String(logger.WorkspaceKey, c.RoomID), zap.String("client_id", c.ID)}
}

// Hub groups the sockets of each workspace into a room. All room
// bookkeeping happens on the Run goroutine; the mutex only serves readers
// such as RoomSize.
type Hub struct {
	Rooms      map[string]map[*Client]bool
	Register   chan *Client
	Unregister chan *Client
	Broadcast  chan *RoomMessage
	mu         sync.RWMutex
}

// RoomMessage carries a message destined for a specific room.
type RoomMessage struct {
	RoomID  string
	Message []byte
	Sender  *Client // excluded from delivery when set
}

// NewHub creates and returns a new Hub instance.
func NewHub() *Hub {
	return &Hub{
		Rooms:      make(map[string]map[*Client]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		Broadcast:  make(chan *RoomMessage),
	}
}

// Run handles register, unregister, and broadcast events. It should be
// launched as a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.join(client)
		case client := <-h.Unregister:
			h.leave(client)
		case msg := <-h.Broadcast:
			h.deliver(msg)
		}
	}
}

// RoomSize returns the number of sockets open on a workspace.
func (h *Hub) RoomSize(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.Rooms[roomID])
}

func (h *Hub) join(client *Client) {
	h.mu.Lock()
	room := h.Rooms[client.RoomID]
	if room == nil {
		room = make(map[*Client]bool)
		h.Rooms[client.RoomID] = room
	}
	room[client] = true
	h.mu.Unlock()

	metrics.VoiceConnections.Inc()
	logger.Get().Info("voice client joined", client.fields()...)
}

func (h *Hub) leave(client *Client) {
	h.mu.Lock()
	removed := h.removeLocked(client)
	h.mu.Unlock()

	if removed {
		logger.Get().Info("voice client left", client.fields()...)
	}
}

// removeLocked drops client from its room and closes its Send channel. It
// reports false when the client was already gone.
func (h *Hub) removeLocked(client *Client) bool {
	room, ok := h.Rooms[client.RoomID]
	if !ok || !room[client] {
		return false
	}
	delete(room, client)
	client.close()
	if len(room) == 0 {
		delete(h.Rooms, client.RoomID)
	}
	metrics.VoiceConnections.Dec()
	return true
}

// deliver queues msg for every client in the room. A client whose buffer is
// full is dropped.
func (h *Hub) deliver(msg *RoomMessage) {
	var slow []*Client

	h.mu.RLock()
	for client := range h.Rooms[msg.RoomID] {
		if client == msg.Sender {
			continue
		}
		if !client.Queue(msg.Message) {
			slow = append(slow, client)
		}
	}
	h.mu.RUnlock()

	if len(slow) == 0 {
		return
	}
	h.mu.Lock()
	for _, client := range slow {
		if h.removeLocked(client) {
			logger.Get().Warn("dropping slow voice client", client.fields()...)
		}
	}
	h.mu.Unlock()
}

// ReadPump passes each incoming message to handle until the connection
// fails, then unregisters the client. Run it on its own goroutine.
func (c *Client) ReadPump(handle func(data []byte)) {
	defer func() {
		c.Hub.Unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Get().Warn("unexpected websocket close", append(c.fields(), zap.Error(err))...)
			}
			return
		}
		handle(data)
	}
}

// WritePump writes queued messages and keepalive pings until Send is
// closed or a write fails. Run it on its own goroutine.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
