package motorlink

import (
	"net"
	"path/filepath"
	"testing"

	"github.com/roadcore/kamera/internal/kamconfig"
)

func TestQuantizeHeadingClampsAndScales(t *testing.T) {
	cases := []struct {
		heading float64
		want    byte
	}{
		{-100, 0},
		{-25, 0},
		{0, 64},
		{25, 127},
		{100, 127},
	}
	for _, c := range cases {
		got := QuantizeHeading(c.heading, -25, 25)
		if got != c.want {
			t.Errorf("QuantizeHeading(%v) = %d, want %d", c.heading, got, c.want)
		}
	}
}

func TestRouteReceiverRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := kamconfig.Default()
	cfg.SocketPathRouteIn = filepath.Join(dir, "route.sock")

	rx, err := NewRouteReceiver(cfg)
	if err != nil {
		t.Fatalf("NewRouteReceiver: %v", err)
	}
	defer rx.Close()

	if _, ok := rx.TryReceive(); ok {
		t.Fatalf("expected no route waiting before any send")
	}

	tx, err := net.Dial("unixgram", cfg.SocketPathRouteIn)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer tx.Close()

	payload := []byte{2, 'V', 'B'}
	if _, err := tx.Write(payload); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, ok := rx.TryReceive()
	if !ok {
		t.Fatalf("expected a route datagram to be waiting")
	}
	if string(got) != "VB" {
		t.Fatalf("got %q, want %q", got, "VB")
	}
}
