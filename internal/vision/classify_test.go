package vision

import (
	"testing"

	"github.com/roadcore/kamera/internal/kamconfig"
)

func lineCluster(x0, x1, y0, y1 int) Cluster {
	rows := y1 - y0
	c := Cluster{BBoxX0: x0, BBoxX1: x1, BBoxY0: y0, BBoxY1: y1}
	c.RowWidths = make([]int, rows)
	c.RowLeft = make([]int, rows)
	c.RowRight = make([]int, rows)
	c.RowCenter = make([]int, rows)
	width := x1 - x0
	center := (x0 + x1) / 2
	for r := 0; r < rows; r++ {
		c.RowWidths[r] = width
		c.RowLeft[r] = x0
		c.RowRight[r] = x1
		c.RowCenter[r] = center
	}
	return c
}

func TestClassifySplitsLeftAndRight(t *testing.T) {
	cfg := kamconfig.Default()
	roiWidth := 200

	left := lineCluster(30, 38, 0, 100)
	right := lineCluster(160, 168, 0, 100)
	clusters := []Cluster{left, right}

	Classify(clusters, roiWidth, cfg)

	if clusters[0].Type != ClusterLeft {
		t.Errorf("left cluster classified as %v, want LEFT", clusters[0].Type)
	}
	if clusters[1].Type != ClusterRight {
		t.Errorf("right cluster classified as %v, want RIGHT", clusters[1].Type)
	}
}

func TestClassifyTagsStopline(t *testing.T) {
	cfg := kamconfig.Default()
	roiWidth := 480

	// Width 0.8*roiWidth, height 100px, centered — the spec's own stop-line
	// scenario.
	stopline := lineCluster(48, 432, 90, 190)
	clusters := []Cluster{stopline}

	Classify(clusters, roiWidth, cfg)

	if clusters[0].Type != ClusterStopline {
		t.Errorf("wide short cluster classified as %v, want STOPLINE", clusters[0].Type)
	}
}

func TestClassifyRejectsShortCluster(t *testing.T) {
	cfg := kamconfig.Default()
	roiWidth := 200

	tiny := lineCluster(90, 98, 0, cfg.MinYPxPerLine-1)
	clusters := []Cluster{tiny}

	Classify(clusters, roiWidth, cfg)

	if clusters[0].Type != ClusterIgnore {
		t.Errorf("short cluster classified as %v, want IGNORE", clusters[0].Type)
	}
}
