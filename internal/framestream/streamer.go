// Package framestream implements the TCP server that streams JPEG-encoded
// overlay frames to a single connected viewer: a 4-byte big-endian length
// prefix followed by the payload, newest frame wins when the viewer can't
// keep up.
package framestream

import (
	"encoding/binary"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/roadcore/kamera/internal/monitoring"
)

// Streamer accepts at most one viewer connection at a time and pushes it
// the latest frame pushed via Push; a frame not yet sent when a newer one
// is pushed is dropped.
type Streamer struct {
	addr string

	listener net.Listener

	clientMu      sync.Mutex
	client        net.Conn
	clientSession uuid.UUID

	latestMu sync.Mutex
	latest   []byte

	stop chan struct{}
	wg   sync.WaitGroup
}

// ClientSession returns the session id of the currently connected viewer,
// and whether a viewer is connected. It is surfaced on the admin debug route
// so an operator can tell whether the feed they're looking at is stale.
func (s *Streamer) ClientSession() (uuid.UUID, bool) {
	s.clientMu.Lock()
	defer s.clientMu.Unlock()
	return s.clientSession, s.client != nil
}

// New creates a Streamer bound to addr (e.g. "0.0.0.0:6000"); call Start to
// begin accepting connections.
func New(addr string) (*Streamer, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Streamer{addr: addr, listener: ln, stop: make(chan struct{})}, nil
}

// Start launches the accept and send goroutines.
func (s *Streamer) Start() {
	monitoring.Logf("framestream: listening on %s", s.addr)
	s.wg.Add(2)
	go s.acceptLoop()
	go s.sendLoop()
}

// Stop closes the listener and any connected client, and waits for both
// goroutines to exit.
func (s *Streamer) Stop() {
	close(s.stop)
	_ = s.listener.Close()

	s.clientMu.Lock()
	if s.client != nil {
		_ = s.client.Close()
		s.client = nil
	}
	s.clientMu.Unlock()

	s.wg.Wait()
}

// HasClient reports whether a viewer is currently connected.
func (s *Streamer) HasClient() bool {
	s.clientMu.Lock()
	defer s.clientMu.Unlock()
	return s.client != nil
}

// Push stores data as the latest frame to send, replacing any frame that
// has not yet gone out.
func (s *Streamer) Push(data []byte) {
	s.latestMu.Lock()
	s.latest = data
	s.latestMu.Unlock()
}

func (s *Streamer) acceptLoop() {
	defer s.wg.Done()

	for {
		select {
		case <-s.stop:
			return
		default:
		}

		if tl, ok := s.listener.(*net.TCPListener); ok {
			_ = tl.SetDeadline(time.Now().Add(time.Second))
		}

		conn, err := s.listener.Accept()
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			select {
			case <-s.stop:
				return
			default:
				monitoring.Logf("framestream: accept error: %v", err)
				return
			}
		}

		if tc, ok := conn.(*net.TCPConn); ok {
			_ = tc.SetNoDelay(true)
		}

		session := uuid.New()
		s.clientMu.Lock()
		if s.client != nil {
			_ = s.client.Close()
		}
		s.client = conn
		s.clientSession = session
		s.clientMu.Unlock()

		monitoring.Logf("framestream: client %s connected from %s", session, conn.RemoteAddr())
	}
}

func (s *Streamer) sendLoop() {
	defer s.wg.Done()

	for {
		select {
		case <-s.stop:
			return
		default:
		}

		s.clientMu.Lock()
		cli := s.client
		s.clientMu.Unlock()

		if cli == nil {
			time.Sleep(10 * time.Millisecond)
			continue
		}

		s.latestMu.Lock()
		payload := s.latest
		s.latest = nil
		s.latestMu.Unlock()

		if payload == nil {
			time.Sleep(2 * time.Millisecond)
			continue
		}

		var header [4]byte
		binary.BigEndian.PutUint32(header[:], uint32(len(payload)))

		if _, err := cli.Write(header[:]); err == nil {
			_, err = cli.Write(payload)
			if err == nil {
				continue
			}
		}

		monitoring.Logf("framestream: client disconnected")
		s.clientMu.Lock()
		if s.client == cli {
			_ = s.client.Close()
			s.client = nil
		}
		s.clientMu.Unlock()
	}
}
