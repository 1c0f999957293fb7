package live

import (
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const writeWait = 10 * time.Second

type subscriber struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// write serializes frames to the connection. Broadcasts and the initial
// history frame share the subscriber mutex so their frames never interleave.
func (s *subscriber) write(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub fans validation reports out to connected editor sessions.
type Hub struct {
	mu          sync.Mutex
	log         logrus.FieldLogger
	subscribers map[string]*subscriber
	nextID      atomic.Uint64
}

func NewHub(log logrus.FieldLogger) *Hub {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Hub{log: log, subscribers: make(map[string]*subscriber)}
}

// Subscribe registers a connection under the given id, assigning a fresh
// watcher-N id when none is supplied. Reconnecting under an existing id
// closes the stale connection first.
func (h *Hub) Subscribe(id string, conn *websocket.Conn) (string, *subscriber) {
	if id == "" {
		id = fmt.Sprintf("watcher-%d", h.nextID.Add(1))
	}

	sub := &subscriber{conn: conn}

	h.mu.Lock()
	if existing, ok := h.subscribers[id]; ok {
		existing.conn.Close()
	}
	h.subscribers[id] = sub
	h.mu.Unlock()

	return id, sub
}

// Disconnect drops whatever subscriber currently holds the id and closes its
// connection. It reports whether the id was connected.
func (h *Hub) Disconnect(id string) bool {
	h.mu.Lock()
	sub, ok := h.subscribers[id]
	if ok {
		delete(h.subscribers, id)
	}
	h.mu.Unlock()

	if !ok {
		return false
	}
	sub.conn.Close()
	return true
}

// drop removes the subscriber only while it still owns its id, so a session
// already replaced by a reconnect cannot evict its replacement. The dead
// connection is closed either way.
func (h *Hub) drop(id string, sub *subscriber) {
	h.mu.Lock()
	if current, ok := h.subscribers[id]; ok && current == sub {
		delete(h.subscribers, id)
	}
	h.mu.Unlock()
	sub.conn.Close()
}

// Count returns the number of connected subscribers.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

// Broadcast marshals the message once and writes it to every subscriber.
// Subscribers whose write fails are disconnected. It returns the number of
// deliveries that went through.
func (h *Hub) Broadcast(msg any) int {
	data, err := json.Marshal(msg)
	if err != nil {
		h.log.WithError(err).Error("failed to marshal broadcast message")
		return 0
	}

	h.mu.Lock()
	subs := make(map[string]*subscriber, len(h.subscribers))
	for id, sub := range h.subscribers {
		subs[id] = sub
	}
	h.mu.Unlock()

	delivered := 0
	for id, sub := range subs {
		if err := sub.write(data); err != nil {
			h.log.WithError(err).WithField("subscriber", id).Warn("dropping subscriber after failed write")
			h.drop(id, sub)
			continue
		}
		delivered++
	}
	return delivered
}

// CloseAll disconnects every subscriber. Used at server shutdown.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	subs := h.subscribers
	h.subscribers = make(map[string]*subscriber)
	h.mu.Unlock()

	for _, sub := range subs {
		sub.conn.Close()
	}
}
