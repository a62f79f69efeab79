package vision

import (
	"testing"

	"github.com/roadcore/kamera/internal/kamconfig"
)

func TestFindClustersSeparatesTwoStripes(t *testing.T) {
	cfg := kamconfig.Default()
	cfg.ROITopScale = 1.0
	cfg.DilationIterCount = 1
	roi := twoStripeROI(200, 150, 40, 150, 8)
	bin := Binarize(roi, cfg)

	_, clusters := FindClusters(bin, cfg)

	if len(clusters) != 2 {
		t.Fatalf("got %d clusters, want 2", len(clusters))
	}
	if clusters[0].BBoxX0 >= clusters[1].BBoxX0 {
		t.Fatalf("expected clusters ordered left-to-right by scan order")
	}
	for _, c := range clusters {
		if c.PixelCount < cfg.MinClusterActivePx {
			t.Errorf("cluster %d has %d px, below floor %d", c.ID, c.PixelCount, cfg.MinClusterActivePx)
		}
		if c.Height() < cfg.MinYPxPerLine {
			t.Errorf("cluster %d height %d unexpectedly short", c.ID, c.Height())
		}
	}
}

func TestFindClustersKeepsRowGeometryDistinctForOverlappingBBoxes(t *testing.T) {
	cfg := kamconfig.Default()
	cfg.ROITopScale = 1.0
	cfg.DilationIterCount = 0
	cfg.MinClusterActivePx = 1

	// Two parallel diagonal strokes, offset by a constant 5px gap so they
	// never touch, but whose bounding boxes still overlap: A spans x 0..19,
	// B spans x 5..24. A row in the overlap band has both a genuine A pixel
	// and a genuine B pixel within A's own bbox x-range.
	bin := NewBinary(30, 20)
	for y := 0; y < 20; y++ {
		bin.Set(y, y, 255)
		bin.Set(y+5, y, 255)
	}

	_, clusters := FindClusters(bin, cfg)
	if len(clusters) != 2 {
		t.Fatalf("got %d clusters, want 2", len(clusters))
	}

	for _, c := range clusters {
		for r, w := range c.RowWidths {
			if w == -1 {
				continue
			}
			if w > 1 {
				t.Fatalf("cluster %d row %d width = %d, want 1 (geometry leaked from the other stroke's overlapping bbox)", c.ID, r, w)
			}
		}
	}
}

func TestFindClustersDropsTinyNoise(t *testing.T) {
	cfg := kamconfig.Default()
	cfg.ROITopScale = 1.0
	bin := NewBinary(50, 50)
	bin.Set(10, 10, 255) // single isolated pixel, well under MinClusterActivePx

	_, clusters := FindClusters(bin, cfg)

	if len(clusters) != 0 {
		t.Fatalf("got %d clusters, want 0 for sub-threshold noise", len(clusters))
	}
}
