package events

import (
	"encoding/json"
	"net"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeTimeout = 2 * time.Second

// sink is one attached subscriber, whatever its transport.
type sink interface {
	write(line []byte) error
	close()
	transport() string
}

type tcpSink struct{ conn net.Conn }

func (s tcpSink) write(line []byte) error {
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	_, err := s.conn.Write(line)
	return err
}

func (s tcpSink) close()            { _ = s.conn.Close() }
func (s tcpSink) transport() string { return "tcp" }

type wsSink struct{ conn *websocket.Conn }

func (s wsSink) write(line []byte) error {
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return s.conn.WriteMessage(websocket.TextMessage, line)
}

func (s wsSink) close()            { _ = s.conn.Close() }
func (s wsSink) transport() string { return "websocket" }

// Hub publishes line-delimited JSON events to every attached
// subscriber. A subscriber whose write fails is closed and detached.
type Hub struct {
	mu   sync.Mutex
	subs map[sink]struct{}
}

type Stats struct {
	TCPClients int `json:"tcp_clients"`
	WSClients  int `json:"ws_clients"`
}

// Subscription is the handle returned by the Attach functions.
type Subscription struct {
	hub *Hub
	s   sink
}

func (sub Subscription) Close() {
	sub.hub.detach(sub.s)
}

type welcome struct {
	Type        string `json:"type"`
	Transport   string `json:"transport"`
	Subscribers int    `json:"subscribers"`
}

func NewHub() *Hub {
	return &Hub{subs: make(map[sink]struct{})}
}

// AttachTCP registers a raw TCP subscriber and greets it.
func (h *Hub) AttachTCP(conn net.Conn) Subscription {
	return h.attach(tcpSink{conn: conn})
}

// AttachWS registers a WebSocket subscriber and greets it.
func (h *Hub) AttachWS(conn *websocket.Conn) Subscription {
	return h.attach(wsSink{conn: conn})
}

func (h *Hub) attach(s sink) Subscription {
	h.mu.Lock()
	h.subs[s] = struct{}{}
	n := len(h.subs)
	h.mu.Unlock()

	_ = s.write(mustLine(welcome{Type: "welcome", Transport: s.transport(), Subscribers: n}))
	return Subscription{hub: h, s: s}
}

func (h *Hub) detach(s sink) {
	h.mu.Lock()
	delete(h.subs, s)
	h.mu.Unlock()
	s.close()
}

// Publish fans the event out to all subscribers. ev is one of the
// typed event structs in events.go; anything JSON-marshalable works.
func (h *Hub) Publish(ev any) {
	line, err := json.Marshal(ev)
	if err != nil {
		return
	}
	line = append(line, '\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	for s := range h.subs {
		if err := s.write(line); err != nil {
			s.close()
			delete(h.subs, s)
		}
	}
}

func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

func (h *Hub) Stats() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()

	var st Stats
	for s := range h.subs {
		switch s.(type) {
		case tcpSink:
			st.TCPClients++
		case wsSink:
			st.WSClients++
		}
	}
	return st
}

func mustLine(v any) []byte {
	b, _ := json.Marshal(v)
	return append(b, '\n')
}
