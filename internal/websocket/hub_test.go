package websocket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Devarsh-42/InsureBuddy/internal/models"
)

// knownSessions counts Touch calls per session.
type knownSessions struct {
	mu      sync.Mutex
	known   map[uuid.UUID]bool
	touches map[uuid.UUID]int
}

func newKnownSessions(ids ...uuid.UUID) *knownSessions {
	k := &knownSessions{known: make(map[uuid.UUID]bool), touches: make(map[uuid.UUID]int)}
	for _, id := range ids {
		k.known[id] = true
	}
	return k
}

func (k *knownSessions) Touch(id uuid.UUID) bool {
	k.mu.Lock()
	defer k.mu.Unlock()

	if !k.known[id] {
		return false
	}
	k.touches[id]++
	return true
}

func (k *knownSessions) touchCount(id uuid.UUID) int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.touches[id]
}

func newTestServer(t *testing.T, sessions *knownSessions) (*Hub, *httptest.Server) {
	t.Helper()

	hub := NewHub(nil, sessions, zap.NewNop())
	r := chi.NewRouter()
	r.Get("/{id}/ws", hub.HandleWebSocket)
	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	return hub, srv
}

func wsURL(srv *httptest.Server, id string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/" + id + "/ws"
}

func (h *Hub) connectionCount(id uuid.UUID) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.connections[id])
}

func TestHub_PublishInProcess(t *testing.T) {
	id := uuid.New()
	hub, srv := newTestServer(t, newKnownSessions(id))

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, id.String()), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.connectionCount(id) == 1 }, time.Second, 5*time.Millisecond)

	msg := models.ChatMessage{ID: 3, Content: "hello", Sender: models.SenderAssistant}
	require.NoError(t, hub.Publish(context.Background(), id, models.WSMessage{Type: models.WSChatMessage, Payload: msg}))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var got struct {
		Type    string             `json:"type"`
		Payload models.ChatMessage `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, models.WSChatMessage, got.Type)
	assert.Equal(t, 3, got.Payload.ID)
	assert.Equal(t, "hello", got.Payload.Content)
}

func TestHub_UnregisterOnClientClose(t *testing.T) {
	id := uuid.New()
	hub, srv := newTestServer(t, newKnownSessions(id))

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, id.String()), nil)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return hub.connectionCount(id) == 1 }, time.Second, 5*time.Millisecond)

	conn.Close()
	require.Eventually(t, func() bool { return hub.connectionCount(id) == 0 }, time.Second, 5*time.Millisecond)

	// Publishing to a session without listeners is a no-op.
	assert.NoError(t, hub.Publish(context.Background(), id, models.WSMessage{Type: models.WSChatMessage}))
}

func TestHub_RejectsBadRequests(t *testing.T) {
	_, srv := newTestServer(t, newKnownSessions())

	resp, err := http.Get(srv.URL + "/not-a-uuid/ws")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/" + uuid.NewString() + "/ws")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func dial(t *testing.T, hub *Hub, srv *httptest.Server, id uuid.UUID) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, id.String()), nil)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return hub.connectionCount(id) >= 1 }, time.Second, 5*time.Millisecond)
	return conn
}

func TestHub_StalledClientDoesNotBlockOtherSessions(t *testing.T) {
	stalled, other := uuid.New(), uuid.New()
	hub, srv := newTestServer(t, newKnownSessions(stalled, other))

	// This client never reads, so its socket buffers fill up.
	stalledConn := dial(t, hub, srv, stalled)
	defer stalledConn.Close()
	otherConn := dial(t, hub, srv, other)
	defer otherConn.Close()

	big := models.WSMessage{Type: models.WSChatMessage, Payload: strings.Repeat("x", 1<<20)}
	published := make(chan struct{})
	go func() {
		defer close(published)
		for i := 0; i < 4*sendBufferSize; i++ {
			_ = hub.Publish(context.Background(), stalled, big)
		}
	}()

	select {
	case <-published:
	case <-time.After(3 * time.Second):
		t.Fatal("publishing to a stalled client blocked")
	}

	done := make(chan error, 1)
	go func() {
		done <- hub.Publish(context.Background(), other, models.WSMessage{Type: models.WSChatMessage, Payload: "hi"})
	}()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("publish to an unrelated session blocked behind a stalled client")
	}

	require.NoError(t, otherConn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := otherConn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"payload":"hi"`)

	// The overflowing client was dropped.
	require.Eventually(t, func() bool { return hub.connectionCount(stalled) == 0 }, 3*time.Second, 10*time.Millisecond)
}

func TestHub_PongsKeepSessionAlive(t *testing.T) {
	id := uuid.New()
	sessions := newKnownSessions(id)
	hub := NewHub(nil, sessions, zap.NewNop())
	hub.pingPeriod = 20 * time.Millisecond

	r := chi.NewRouter()
	r.Get("/{id}/ws", hub.HandleWebSocket)
	srv := httptest.NewServer(r)
	defer srv.Close()
	defer hub.Close()

	conn := dial(t, hub, srv, id)
	defer conn.Close()
	assert.Equal(t, 1, sessions.touchCount(id), "upgrade should touch the session")

	// Reading lets the client answer pings with pongs.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	require.Eventually(t, func() bool { return sessions.touchCount(id) >= 3 }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_ClientMessagesTouchSession(t *testing.T) {
	id := uuid.New()
	sessions := newKnownSessions(id)
	hub, srv := newTestServer(t, sessions)

	conn := dial(t, hub, srv, id)
	defer conn.Close()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("still here")))
	require.Eventually(t, func() bool { return sessions.touchCount(id) >= 2 }, time.Second, 5*time.Millisecond)
}
