package live

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// newSocketPair dials a throwaway upgrade endpoint and returns both ends of
// the connection.
func newSocketPair(t *testing.T) (client, server *websocket.Conn) {
	t.Helper()

	conns := make(chan *websocket.Conn, 1)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		conns <- conn
	}))
	t.Cleanup(ts.Close)

	client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	select {
	case server = <-conns:
	case <-time.After(5 * time.Second):
		t.Fatalf("server side of the connection never arrived")
	}
	return client, server
}

func readFrame(t *testing.T, conn *websocket.Conn) []byte {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	return data
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestHubBroadcastDeliversToEverySubscriber(t *testing.T) {
	hub := NewHub(quietLogger())

	clientA, serverA := newSocketPair(t)
	clientB, serverB := newSocketPair(t)

	idA, _ := hub.Subscribe("", serverA)
	idB, _ := hub.Subscribe("", serverB)
	if idA == idB {
		t.Fatalf("expected distinct ids, both were %q", idA)
	}
	if !strings.HasPrefix(idA, "watcher-") || !strings.HasPrefix(idB, "watcher-") {
		t.Fatalf("expected generated watcher ids, got %q and %q", idA, idB)
	}
	if got := hub.Count(); got != 2 {
		t.Fatalf("expected 2 subscribers, got %d", got)
	}

	delivered := hub.Broadcast(reportMessage{Type: "report"})
	if delivered != 2 {
		t.Fatalf("expected 2 deliveries, got %d", delivered)
	}

	for _, conn := range []*websocket.Conn{clientA, clientB} {
		data := readFrame(t, conn)
		if !strings.Contains(string(data), `"type":"report"`) {
			t.Fatalf("unexpected frame %s", data)
		}
	}
}

func TestHubDisconnectStopsDelivery(t *testing.T) {
	hub := NewHub(quietLogger())

	_, server := newSocketPair(t)
	id, _ := hub.Subscribe("", server)

	if !hub.Disconnect(id) {
		t.Fatalf("expected Disconnect to report the id as connected")
	}
	if hub.Disconnect(id) {
		t.Fatalf("expected second Disconnect to report the id as gone")
	}
	if got := hub.Count(); got != 0 {
		t.Fatalf("expected 0 subscribers, got %d", got)
	}
	if delivered := hub.Broadcast(reportMessage{Type: "report"}); delivered != 0 {
		t.Fatalf("expected 0 deliveries, got %d", delivered)
	}
}

func TestHubSubscribeReplacesExistingConnection(t *testing.T) {
	hub := NewHub(quietLogger())

	clientOld, serverOld := newSocketPair(t)
	clientNew, serverNew := newSocketPair(t)

	hub.Subscribe("editor", serverOld)
	id, _ := hub.Subscribe("editor", serverNew)
	if id != "editor" {
		t.Fatalf("expected supplied id to stick, got %q", id)
	}
	if got := hub.Count(); got != 1 {
		t.Fatalf("expected 1 subscriber after reconnect, got %d", got)
	}

	if delivered := hub.Broadcast(reportMessage{Type: "report"}); delivered != 1 {
		t.Fatalf("expected 1 delivery, got %d", delivered)
	}
	readFrame(t, clientNew)

	// The replaced connection was closed, so its read must fail.
	clientOld.SetReadDeadline(time.Now().Add(5 * time.Second))
	if _, _, err := clientOld.ReadMessage(); err == nil {
		t.Fatalf("expected read on the replaced connection to fail")
	}
}

func TestHubDropIgnoresReplacedSessions(t *testing.T) {
	hub := NewHub(quietLogger())

	_, serverOld := newSocketPair(t)
	_, serverNew := newSocketPair(t)

	id, subOld := hub.Subscribe("editor", serverOld)
	_, subNew := hub.Subscribe("editor", serverNew)

	hub.drop(id, subOld)
	if got := hub.Count(); got != 1 {
		t.Fatalf("expected the replacement to survive, have %d subscribers", got)
	}

	hub.drop(id, subNew)
	if got := hub.Count(); got != 0 {
		t.Fatalf("expected 0 subscribers, got %d", got)
	}
}

func TestHubCloseAllDropsEveryone(t *testing.T) {
	hub := NewHub(quietLogger())

	_, serverA := newSocketPair(t)
	_, serverB := newSocketPair(t)
	hub.Subscribe("", serverA)
	hub.Subscribe("", serverB)

	hub.CloseAll()
	if got := hub.Count(); got != 0 {
		t.Fatalf("expected 0 subscribers after CloseAll, got %d", got)
	}
}
