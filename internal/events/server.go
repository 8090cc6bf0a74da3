package events

import (
	"bufio"
	"errors"
	"log"
	"net"
	"sync"
)

// Server accepts TCP clients that tail the event stream.
type Server struct {
	Addr string
	Hub  *Hub

	mu     sync.Mutex
	ln     net.Listener
	closed bool
}

func NewServer(addr string, hub *Hub) *Server {
	return &Server{Addr: addr, Hub: hub}
}

func (s *Server) Run() error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		_ = ln.Close()
		return nil
	}
	s.ln = ln
	s.mu.Unlock()

	log.Printf("[events] listening on %s", s.Addr)

	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			continue
		}

		sub := s.Hub.AttachTCP(conn)
		log.Printf("[events] tcp subscriber attached: %s", conn.RemoteAddr())

		go func(c net.Conn) {
			defer func() {
				sub.Close()
				log.Printf("[events] tcp subscriber gone: %s", c.RemoteAddr())
			}()

			// The stream is one-way; drain and discard inbound lines.
			sc := bufio.NewScanner(c)
			for sc.Scan() {
			}
		}(conn)
	}
}

func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.ln != nil {
		return s.ln.Close()
	}
	return nil
}
