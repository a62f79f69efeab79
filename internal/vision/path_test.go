package vision

import (
	"testing"

	"github.com/roadcore/kamera/internal/kamconfig"
)

func TestBuildPathCentersBetweenBothBoundaries(t *testing.T) {
	cfg := kamconfig.Default()
	roiW, roiH := 200, 150

	left := make(Boundary, roiH)
	right := make(Boundary, roiH)
	for y := 0; y < roiH; y++ {
		left[y] = Point{X: 40, Y: y}
		right[y] = Point{X: 160, Y: y}
	}

	path, ok := BuildPath(left, right, roiW, roiH, cfg)

	if !ok {
		t.Fatalf("expected a non-empty path for parallel boundaries spanning the ROI")
	}
	if len(path) != cfg.Scanlines {
		t.Fatalf("got %d path points, want %d", len(path), cfg.Scanlines)
	}
	for _, p := range path {
		if p.X != 100 {
			t.Errorf("expected path centered at x=100, got %d", p.X)
		}
	}
}

func TestBuildPathOffsetsFromSingleBoundary(t *testing.T) {
	cfg := kamconfig.Default()
	roiW, roiH := 200, 150

	left := make(Boundary, roiH)
	for y := 0; y < roiH; y++ {
		left[y] = Point{X: 40, Y: y}
	}

	path, ok := BuildPath(left, nil, roiW, roiH, cfg)

	if !ok {
		t.Fatalf("expected a non-empty path built from the left boundary alone")
	}
	for _, p := range path {
		if p.X <= 40 {
			t.Errorf("expected the estimated lane center to sit right of the left boundary, got x=%d", p.X)
		}
	}
}

func TestBuildPathSkipsBandsWithNeitherBoundary(t *testing.T) {
	cfg := kamconfig.Default()
	roiW, roiH := 200, 150

	path, ok := BuildPath(nil, nil, roiW, roiH, cfg)

	if ok {
		t.Fatalf("expected ok=false with no boundaries at all")
	}
	if len(path) != 0 {
		t.Fatalf("expected an empty path with no boundaries, got %d points", len(path))
	}
}
