package websocket

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Devarsh-42/InsureBuddy/internal/database"
	"github.com/Devarsh-42/InsureBuddy/internal/models"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBufferSize = 32
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// sessionLookup is implemented by repository.SessionStore. Touch refreshes
// the session's idle timer and reports whether it exists.
type sessionLookup interface {
	Touch(id uuid.UUID) bool
}

// client is one websocket. Only its writer goroutine writes to conn; send
// is closed by unregisterConnection under the hub lock.
type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub holds the open websockets of each chat session. With a Redis client
// it relays the session's pub/sub channel; without one it is itself the
// publisher and broadcasts in-process.
type Hub struct {
	mu          sync.Mutex
	connections map[uuid.UUID][]*client
	redisClient *redis.Client
	sessions    sessionLookup
	cancelFuncs map[uuid.UUID]context.CancelFunc
	wg          sync.WaitGroup
	logger      *zap.Logger

	writeWait  time.Duration
	pongWait   time.Duration
	pingPeriod time.Duration
}

func NewHub(redisClient *redis.Client, sessions sessionLookup, logger *zap.Logger) *Hub {
	return &Hub{
		connections: make(map[uuid.UUID][]*client),
		redisClient: redisClient,
		sessions:    sessions,
		cancelFuncs: make(map[uuid.UUID]context.CancelFunc),
		logger:      logger,
		writeWait:   writeWait,
		pongWait:    pongWait,
		pingPeriod:  pingPeriod,
	}
}

func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid session ID", http.StatusBadRequest)
		return
	}

	if !h.sessions.Touch(sessionID) {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	c := h.registerConnection(sessionID, conn)

	h.wg.Add(1)
	go h.readPump(sessionID, c)
}

// readPump keeps the connection alive. Pongs and client messages count as
// session activity so an open page is not reaped as idle.
func (h *Hub) readPump(sessionID uuid.UUID, c *client) {
	defer h.wg.Done()
	defer h.unregisterConnection(sessionID, c)

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(h.pongWait))
	c.conn.SetPongHandler(func(string) error {
		h.sessions.Touch(sessionID)
		return c.conn.SetReadDeadline(time.Now().Add(h.pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
		h.sessions.Touch(sessionID)
	}
}

// writePump is the connection's only writer. Every write carries a
// deadline, so a client that stops reading is dropped instead of holding
// anything else up.
func (h *Hub) writePump(sessionID uuid.UUID, c *client) {
	defer h.wg.Done()

	ticker := time.NewTicker(h.pingPeriod)
	defer ticker.Stop()
	defer c.conn.Close()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(h.writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				h.logger.Debug("websocket write failed", zap.String("session_id", sessionID.String()), zap.Error(err))
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(h.writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Hub) registerConnection(sessionID uuid.UUID, conn *websocket.Conn) *client {
	h.mu.Lock()
	defer h.mu.Unlock()

	c := &client{conn: conn, send: make(chan []byte, sendBufferSize)}
	h.connections[sessionID] = append(h.connections[sessionID], c)

	h.wg.Add(1)
	go h.writePump(sessionID, c)

	// Subscribe on the first connection for this session
	if h.redisClient != nil && len(h.connections[sessionID]) == 1 {
		ctx, cancel := context.WithCancel(context.Background())
		h.cancelFuncs[sessionID] = cancel
		h.wg.Add(1)
		go h.subscribeToPubSub(ctx, sessionID)
	}

	h.logger.Debug("websocket connected",
		zap.String("session_id", sessionID.String()),
		zap.Int("connections", len(h.connections[sessionID])))
	return c
}

func (h *Hub) unregisterConnection(sessionID uuid.UUID, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns := h.connections[sessionID]
	for i, existing := range conns {
		if existing == c {
			h.connections[sessionID] = append(conns[:i], conns[i+1:]...)
			close(c.send)
			break
		}
	}

	// If no more connections, cancel pub/sub
	if len(h.connections[sessionID]) == 0 {
		delete(h.connections, sessionID)
		if cancel, ok := h.cancelFuncs[sessionID]; ok {
			cancel()
			delete(h.cancelFuncs, sessionID)
		}
	}

	h.logger.Debug("websocket disconnected", zap.String("session_id", sessionID.String()))
}

func (h *Hub) subscribeToPubSub(ctx context.Context, sessionID uuid.UUID) {
	defer h.wg.Done()

	pubsub := h.redisClient.Subscribe(ctx, database.ChatChannel(sessionID))
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.broadcast(sessionID, []byte(msg.Payload))
		}
	}
}

// broadcast queues data on every connection of the session and never
// blocks. A connection whose queue is full is closed; its reader then
// unregisters it.
func (h *Hub) broadcast(sessionID uuid.UUID, data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, c := range h.connections[sessionID] {
		select {
		case c.send <- data:
		default:
			h.logger.Warn("dropping slow websocket client", zap.String("session_id", sessionID.String()))
			c.conn.Close()
		}
	}
}

// Publish sends msg straight to this hub's connections. Used when no Redis
// is configured.
func (h *Hub) Publish(ctx context.Context, sessionID uuid.UUID, msg models.WSMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	h.broadcast(sessionID, data)
	return nil
}

// Close drops every connection and waits for the reader, writer and
// subscriber goroutines to exit.
func (h *Hub) Close() {
	h.mu.Lock()
	for _, conns := range h.connections {
		for _, c := range conns {
			c.conn.Close()
		}
	}
	h.mu.Unlock()

	h.wg.Wait()
}
