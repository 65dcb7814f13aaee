package websocket

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	gorilla "github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

type fakeConn struct {
	id     string
	mu     sync.Mutex
	got    [][]byte
	fail   bool
	closed int
}

func (f *fakeConn) ID() string { return f.id }

func (f *fakeConn) Send(data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return ErrSendBufferFull
	}
	f.got = append(f.got, data)
	return nil
}

func (f *fakeConn) Close() {
	f.mu.Lock()
	f.closed++
	f.mu.Unlock()
}

func (f *fakeConn) messages() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.got)
}

func newTestHub() *Hub {
	return NewHub(zerolog.Nop())
}

func TestBroadcastWithNoConnections(t *testing.T) {
	hub := newTestHub()
	hub.Broadcast(map[string]string{"type": "add"})

	if hub.Count() != 0 {
		t.Errorf("Expected 0 viewers, got %d", hub.Count())
	}
}

func TestUnregisterUnknownIsNoop(t *testing.T) {
	hub := newTestHub()
	known := &fakeConn{id: "a"}
	if err := hub.Register(known); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	stranger := &fakeConn{id: "b"}
	hub.Unregister(stranger)
	hub.Unregister(stranger)

	if hub.Count() != 1 {
		t.Errorf("Expected 1 viewer, got %d", hub.Count())
	}
	if stranger.closed != 0 {
		t.Errorf("Expected unknown connection untouched, closed %d times", stranger.closed)
	}
}

func TestRegisterIsIdempotent(t *testing.T) {
	hub := newTestHub()
	conn := &fakeConn{id: "a"}
	_ = hub.Register(conn)
	_ = hub.Register(conn)

	hub.Broadcast(map[string]string{"type": "resolve"})

	if hub.Count() != 1 {
		t.Errorf("Expected 1 viewer, got %d", hub.Count())
	}
	if conn.messages() != 1 {
		t.Errorf("Expected exactly 1 delivery, got %d", conn.messages())
	}

	hub.Unregister(conn)
	hub.Unregister(conn)
	if conn.closed != 1 {
		t.Errorf("Expected connection closed once, got %d", conn.closed)
	}
}

func TestFailingConnectionDoesNotBlockOthers(t *testing.T) {
	hub := newTestHub()
	good1 := &fakeConn{id: "good1"}
	bad := &fakeConn{id: "bad", fail: true}
	good2 := &fakeConn{id: "good2"}
	for _, c := range []*fakeConn{good1, bad, good2} {
		_ = hub.Register(c)
	}

	hub.Broadcast(map[string]interface{}{"type": "add", "pk": 1})

	if good1.messages() != 1 || good2.messages() != 1 {
		t.Errorf("Expected healthy viewers to receive the event, got %d and %d", good1.messages(), good2.messages())
	}
	if hub.Count() != 2 {
		t.Errorf("Expected failing viewer to be dropped, got %d viewers", hub.Count())
	}
	if bad.closed != 1 {
		t.Errorf("Expected failing viewer closed once, got %d", bad.closed)
	}

	var event map[string]interface{}
	if err := json.Unmarshal(good1.got[0], &event); err != nil {
		t.Fatalf("Expected JSON payload, got %v", err)
	}
	if event["type"] != "add" {
		t.Errorf("Expected type add, got %v", event["type"])
	}
}

func TestBroadcastUnmarshalableEvent(t *testing.T) {
	hub := newTestHub()
	conn := &fakeConn{id: "a"}
	_ = hub.Register(conn)

	hub.Broadcast(map[string]interface{}{"bad": make(chan int)})

	if conn.messages() != 0 {
		t.Errorf("Expected no delivery, got %d", conn.messages())
	}
	if hub.Count() != 1 {
		t.Errorf("Expected viewer kept, got %d", hub.Count())
	}
}

func TestCloseTearsDownViewers(t *testing.T) {
	hub := newTestHub()
	conn := &fakeConn{id: "a"}
	_ = hub.Register(conn)

	hub.Close()
	hub.Close()

	if conn.closed != 1 {
		t.Errorf("Expected connection closed once, got %d", conn.closed)
	}
	if err := hub.Register(&fakeConn{id: "late"}); !errors.Is(err, ErrHubClosed) {
		t.Errorf("Expected ErrHubClosed, got %v", err)
	}
}

func TestConcurrentBroadcastAndUnregister(t *testing.T) {
	hub := newTestHub()
	conns := make([]*fakeConn, 50)
	for i := range conns {
		conns[i] = &fakeConn{id: string(rune('A' + i))}
		_ = hub.Register(conns[i])
	}

	var wg sync.WaitGroup
	for i := range conns {
		wg.Add(2)
		go func(c *fakeConn) {
			defer wg.Done()
			hub.Unregister(c)
		}(conns[i])
		go func() {
			defer wg.Done()
			hub.Broadcast(map[string]string{"type": "duty"})
		}()
	}
	wg.Wait()

	if hub.Count() != 0 {
		t.Errorf("Expected all viewers unregistered, got %d", hub.Count())
	}
}

func TestHandlerDeliversEvents(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := newTestHub()
	defer hub.Close()

	router := gin.New()
	router.GET("/ws", NewHandler(hub, zerolog.Nop()).HandleConnection)
	srv := httptest.NewServer(router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, resp, err := gorilla.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Failed to dial: %v", err)
	}
	defer conn.Close()
	if resp.StatusCode != http.StatusSwitchingProtocols {
		t.Fatalf("Expected 101, got %d", resp.StatusCode)
	}

	deadline := time.Now().Add(2 * time.Second)
	for hub.Count() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if hub.Count() != 1 {
		t.Fatalf("Expected 1 registered viewer, got %d", hub.Count())
	}

	hub.Broadcast(map[string]interface{}{"type": "resolve", "rq": 9, "course": 15})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("Failed to read event: %v", err)
	}
	var event map[string]interface{}
	if err := json.Unmarshal(data, &event); err != nil {
		t.Fatalf("Expected JSON event, got %v", err)
	}
	if event["type"] != "resolve" || event["rq"] != float64(9) {
		t.Errorf("Unexpected event: %v", event)
	}

	conn.Close()
	deadline = time.Now().Add(2 * time.Second)
	for hub.Count() != 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if hub.Count() != 0 {
		t.Errorf("Expected viewer unregistered after disconnect, got %d", hub.Count())
	}
}
