package vision

import (
	"testing"

	"github.com/roadcore/kamera/internal/kamconfig"
)

func TestDetectDivergenceFindsWideningTop(t *testing.T) {
	cfg := kamconfig.Default()
	roiH := 150

	// y=5 sits within 10% of the minimum sampled y and flares to a width of
	// 180px; y=100 sits in the H/2..0.8H middle band at a normal 60px width.
	pathLeft := Path{{X: 10, Y: 5}, {X: 70, Y: 100}}
	pathRight := Path{{X: 190, Y: 5}, {X: 130, Y: 100}}

	if !DetectDivergence(pathLeft, pathRight, roiH, cfg) {
		t.Fatalf("expected divergence to be detected for a flaring top band")
	}
}

func TestDetectDivergenceFalseOnParallelLines(t *testing.T) {
	cfg := kamconfig.Default()
	roiH := 150

	pathLeft := Path{{X: 70, Y: 5}, {X: 70, Y: 100}}
	pathRight := Path{{X: 130, Y: 5}, {X: 130, Y: 100}}

	if DetectDivergence(pathLeft, pathRight, roiH, cfg) {
		t.Fatalf("expected no divergence for parallel boundaries")
	}
}
