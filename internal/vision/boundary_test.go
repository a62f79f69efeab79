package vision

import (
	"testing"

	"github.com/roadcore/kamera/internal/kamconfig"
)

func TestBuildBoundaryStraightLine(t *testing.T) {
	cfg := kamconfig.Default()
	c := lineCluster(30, 38, 0, 100)
	c.Type = ClusterLeft

	boundary, ok := BuildBoundary([]Cluster{c}, ClusterLeft, 200, cfg)
	if !ok {
		t.Fatalf("expected boundary to be found")
	}
	if len(boundary) != 100 {
		t.Fatalf("got %d boundary points, want 100", len(boundary))
	}
	for _, p := range boundary {
		if p.X != 34 {
			t.Fatalf("expected constant x=34 for a straight line, got %d at y=%d", p.X, p.Y)
		}
	}
}

func TestBuildBoundaryRejectsTooFewPoints(t *testing.T) {
	cfg := kamconfig.Default()
	c := lineCluster(30, 38, 0, 1)
	c.Type = ClusterLeft

	_, ok := BuildBoundary([]Cluster{c}, ClusterLeft, 200, cfg)
	if ok {
		t.Fatalf("expected no boundary for a single-row cluster")
	}
}

func TestBuildBoundaryUsesStoplineOuterEdges(t *testing.T) {
	cfg := kamconfig.Default()

	stopline := lineCluster(48, 432, 90, 190)
	stopline.Type = ClusterStopline

	left, ok := BuildBoundary([]Cluster{stopline}, ClusterLeft, 480, cfg)
	if !ok {
		t.Fatalf("expected the stop line's row_left to seed a left boundary")
	}
	for _, p := range left {
		if p.X != 48 {
			t.Fatalf("expected left boundary at the stop line's row_left x=48, got %d", p.X)
		}
	}

	right, ok := BuildBoundary([]Cluster{stopline}, ClusterRight, 480, cfg)
	if !ok {
		t.Fatalf("expected the stop line's row_right to seed a right boundary")
	}
	for _, p := range right {
		if p.X != 432 {
			t.Fatalf("expected right boundary at the stop line's row_right x=432, got %d", p.X)
		}
	}
}

func TestMedianLaneWidthOnParallelLines(t *testing.T) {
	left := Boundary{{X: 40, Y: 0}, {X: 40, Y: 50}}
	right := Boundary{{X: 160, Y: 0}, {X: 160, Y: 50}}

	width, ok := MedianLaneWidth(left, right, 200)
	if !ok {
		t.Fatalf("expected a median width")
	}
	if got, want := width, 0.6; got < want-0.001 || got > want+0.001 {
		t.Fatalf("median width fraction = %f, want %f", got, want)
	}
}
