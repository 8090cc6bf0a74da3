package events

import (
	"bufio"
	"encoding/json"
	"net"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

func readLines(t *testing.T, conn net.Conn) <-chan string {
	t.Helper()
	lines := make(chan string, 4)
	go func() {
		sc := bufio.NewScanner(conn)
		for sc.Scan() {
			lines <- sc.Text()
		}
		close(lines)
	}()
	return lines
}

func nextLine(t *testing.T, lines <-chan string) string {
	t.Helper()
	select {
	case line, ok := <-lines:
		if !ok {
			t.Fatal("subscriber stream closed early")
		}
		return line
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for a line")
	}
	return ""
}

func TestTCPSubscriberGetsWelcomeThenEvents(t *testing.T) {
	hub := NewHub()
	server, client := net.Pipe()
	defer client.Close()

	lines := readLines(t, client)
	sub := hub.AttachTCP(server)
	defer sub.Close()

	var w welcome
	if err := json.Unmarshal([]byte(nextLine(t, lines)), &w); err != nil {
		t.Fatalf("welcome unmarshal: %v", err)
	}
	if w.Type != "welcome" || w.Transport != "tcp" || w.Subscribers != 1 {
		t.Errorf("welcome = %+v", w)
	}

	hub.Publish(RunEvent{
		Type:  TypeRunStarted,
		RunID: "run-1",
		At:    time.Now().UTC(),
	})

	var ev RunEvent
	if err := json.Unmarshal([]byte(nextLine(t, lines)), &ev); err != nil {
		t.Fatalf("event unmarshal: %v", err)
	}
	if ev.Type != TypeRunStarted || ev.RunID != "run-1" {
		t.Errorf("event = %+v", ev)
	}
}

func TestPublishDropsDeadSubscriber(t *testing.T) {
	hub := NewHub()
	server, client := net.Pipe()

	hungUp := make(chan struct{})
	go func() {
		sc := bufio.NewScanner(client)
		sc.Scan() // welcome
		client.Close()
		close(hungUp)
	}()

	hub.AttachTCP(server)
	<-hungUp

	hub.Publish(RunEvent{Type: TypeRunFinished, RunID: "run-2"})

	if n := hub.Count(); n != 0 {
		t.Errorf("subscribers = %d, dead one should be dropped", n)
	}
}

func TestStatsCountsPerTransport(t *testing.T) {
	hub := NewHub()
	server, client := net.Pipe()
	defer client.Close()
	defer server.Close()

	lines := readLines(t, client)
	sub := hub.AttachTCP(server)
	nextLine(t, lines) // welcome

	if st := hub.Stats(); st.TCPClients != 1 || st.WSClients != 0 {
		t.Errorf("stats = %+v", st)
	}

	sub.Close()
	if st := hub.Stats(); st.TCPClients != 0 {
		t.Errorf("stats after close = %+v", st)
	}
}

func TestWebSocketSubscriberGetsEvents(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := NewHub()
	r := gin.New()
	r.GET("/ws", WSHandler(hub))

	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read welcome: %v", err)
	}
	var w welcome
	if err := json.Unmarshal(msg, &w); err != nil {
		t.Fatalf("welcome unmarshal: %v", err)
	}
	if w.Transport != "websocket" {
		t.Errorf("welcome = %+v", w)
	}

	if st := hub.Stats(); st.WSClients != 1 {
		t.Errorf("stats = %+v", st)
	}

	hub.Publish(WatchlistEvent{
		Type:    "watchlist.update",
		UserID:  "u1",
		MovieID: 19995,
		Status:  "planned",
		At:      time.Now().UTC(),
	})

	_, msg, err = conn.ReadMessage()
	if err != nil {
		t.Fatalf("read event: %v", err)
	}
	var ev WatchlistEvent
	if err := json.Unmarshal(msg, &ev); err != nil {
		t.Fatalf("event unmarshal: %v", err)
	}
	if ev.Type != "watchlist.update" || ev.MovieID != 19995 {
		t.Errorf("event = %+v", ev)
	}
}
