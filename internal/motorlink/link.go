package motorlink

import (
	"net"
	"os"
	"time"

	"github.com/roadcore/kamera/internal/kamconfig"
	"github.com/roadcore/kamera/internal/monitoring"
)

// HeadingSender writes quantized heading and stop bytes to the motor
// controller's Unix datagram socket. The controller must already be
// listening at the configured path when NewHeadingSender is called, or it
// returns an error; after that, a failed write is logged on each send
// attempt and otherwise ignored.
type HeadingSender struct {
	conn   net.Conn
	minDeg float64
	maxDeg float64
}

// NewHeadingSender dials the Unix datagram socket at cfg.SocketPath.
func NewHeadingSender(cfg kamconfig.Config) (*HeadingSender, error) {
	conn, err := net.Dial("unixgram", cfg.SocketPath)
	if err != nil {
		return nil, err
	}
	return &HeadingSender{conn: conn, minDeg: cfg.HeadingMinDeg, maxDeg: cfg.HeadingMaxDeg}, nil
}

// Close releases the underlying socket.
func (s *HeadingSender) Close() error { return s.conn.Close() }

// SendHeading quantizes headingDeg and writes it as a single byte.
func (s *HeadingSender) SendHeading(headingDeg float64) {
	b := QuantizeHeading(headingDeg, s.minDeg, s.maxDeg)
	if _, err := s.conn.Write([]byte{b}); err != nil {
		monitoring.Logf("motorlink: send heading failed: %v", err)
	}
}

// SendStop writes a stop code byte: StopCodeFinal when final is true,
// StopCodeIntermediate otherwise.
func (s *HeadingSender) SendStop(final bool) {
	code := StopCodeIntermediate
	if final {
		code = StopCodeFinal
	}
	if _, err := s.conn.Write([]byte{code}); err != nil {
		monitoring.Logf("motorlink: send stop failed: %v", err)
		return
	}
	monitoring.Logf("motorlink: sent stop command 0x%02X", code)
}

// RouteReceiver reads pending route bytes from the planner's Unix datagram
// socket in a non-blocking fashion, binding and owning the listening
// socket for its lifetime.
type RouteReceiver struct {
	path string
	pc   net.PacketConn
}

// NewRouteReceiver removes any stale socket file at cfg.SocketPathRouteIn
// and binds a fresh Unix datagram listener there.
func NewRouteReceiver(cfg kamconfig.Config) (*RouteReceiver, error) {
	_ = os.Remove(cfg.SocketPathRouteIn)

	pc, err := net.ListenPacket("unixgram", cfg.SocketPathRouteIn)
	if err != nil {
		return nil, err
	}
	return &RouteReceiver{path: cfg.SocketPathRouteIn, pc: pc}, nil
}

// Close releases the listening socket and removes its file.
func (r *RouteReceiver) Close() error {
	err := r.pc.Close()
	_ = os.Remove(r.path)
	return err
}

// maxRouteDatagram is the largest route datagram accepted: one length byte
// followed by up to 255 action bytes.
const maxRouteDatagram = 1 + 255

// TryReceive reads one pending datagram without blocking the caller's frame
// loop: it arms a near-immediate read deadline and treats a timeout as "no
// route waiting" rather than an error. The wire format is a leading count
// byte followed by that many action bytes; a short datagram is truncated to
// what was actually received.
func (r *RouteReceiver) TryReceive() ([]byte, bool) {
	_ = r.pc.SetReadDeadline(time.Now().Add(time.Millisecond))

	buf := make([]byte, maxRouteDatagram)
	n, _, err := r.pc.ReadFrom(buf)
	if err != nil {
		return nil, false
	}
	if n < 1 {
		return nil, false
	}

	count := int(buf[0])
	available := n - 1
	if count > available {
		count = available
	}
	if count == 0 {
		return nil, false
	}
	return buf[1 : 1+count], true
}
