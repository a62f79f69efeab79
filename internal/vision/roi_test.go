package vision

import (
	"image"
	"image/color"
	"testing"

	"github.com/roadcore/kamera/internal/kamconfig"
)

func solidFrame(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestExtractROICropsExpectedRegion(t *testing.T) {
	cfg := kamconfig.Default()
	frame := solidFrame(cfg.FrameW, cfg.FrameH, color.RGBA{R: 10, G: 10, B: 10, A: 255})

	roi, offset := ExtractROI(frame, cfg)

	wantTop := int(float64(cfg.FrameH) * (1.0 - cfg.ROITop))
	wantLeft := int(float64(cfg.FrameW) * cfg.HorizontalMargin)
	if offset.Y != wantTop || offset.X != wantLeft {
		t.Fatalf("offset = %+v, want {%d %d}", offset, wantLeft, wantTop)
	}
	if roi.Bounds().Dx() <= 0 || roi.Bounds().Dy() <= 0 {
		t.Fatalf("ROI has empty bounds: %v", roi.Bounds())
	}
}

func TestExtractROIResizesMismatchedFrame(t *testing.T) {
	cfg := kamconfig.Default()
	frame := solidFrame(cfg.FrameW*2, cfg.FrameH*2, color.RGBA{A: 255})

	roi, _ := ExtractROI(frame, cfg)

	if roi.Bounds().Dx() <= 0 || roi.Bounds().Dx() > cfg.FrameW {
		t.Fatalf("unexpected ROI width %d after resize", roi.Bounds().Dx())
	}
}
