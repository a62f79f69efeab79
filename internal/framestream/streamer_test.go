package framestream

import (
	"encoding/binary"
	"io"
	"net"
	"testing"
	"time"
)

func TestStreamerSendsPushedFrameToClient(t *testing.T) {
	s, err := New("127.0.0.1:0")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	addr := s.listener.Addr().String()
	s.Start()
	defer s.Stop()

	conn, err := net.DialTimeout("tcp", addr, time.Second)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadlineWait(t, func() bool { return s.HasClient() })

	payload := []byte{1, 2, 3, 4, 5}
	s.Push(payload)

	var header [4]byte
	if _, err := io.ReadFull(conn, header[:]); err != nil {
		t.Fatalf("read header: %v", err)
	}
	n := binary.BigEndian.Uint32(header[:])
	if int(n) != len(payload) {
		t.Fatalf("frame length = %d, want %d", n, len(payload))
	}

	got := make([]byte, n)
	if _, err := io.ReadFull(conn, got); err != nil {
		t.Fatalf("read payload: %v", err)
	}
	for i, b := range got {
		if b != payload[i] {
			t.Fatalf("payload[%d] = %d, want %d", i, b, payload[i])
		}
	}
}

func deadlineWait(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met before deadline")
}
