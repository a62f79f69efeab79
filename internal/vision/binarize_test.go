package vision

import (
	"image"
	"image/color"
	"testing"

	"github.com/roadcore/kamera/internal/kamconfig"
)

// twoStripeROI builds a light-gray ROI with two narrow dark vertical
// stripes, simulating a straight road's left and right lane markings.
func twoStripeROI(w, h, leftX, rightX, stripeW int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	light := color.RGBA{R: 200, G: 200, B: 200, A: 255}
	dark := color.RGBA{R: 20, G: 20, B: 20, A: 255}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := light
			if x >= leftX && x < leftX+stripeW {
				c = dark
			}
			if x >= rightX && x < rightX+stripeW {
				c = dark
			}
			img.Set(x, y, c)
		}
	}
	return img
}

func TestBinarizeMarksDarkStripesWhite(t *testing.T) {
	cfg := kamconfig.Default()
	cfg.ROITopScale = 1.0 // disable trapezoid mask for this test
	roi := twoStripeROI(200, 150, 40, 150, 8)

	bin := Binarize(roi, cfg)

	midY := 75
	if bin.At(44, midY) == 0 {
		t.Errorf("expected left stripe center to binarize to foreground")
	}
	if bin.At(154, midY) == 0 {
		t.Errorf("expected right stripe center to binarize to foreground")
	}
	if bin.At(100, midY) != 0 {
		t.Errorf("expected background between stripes to stay 0")
	}
}

func TestBinarizeTrapezoidMaskClipsCorners(t *testing.T) {
	cfg := kamconfig.Default()
	cfg.ROITopScale = 0.5
	roi := twoStripeROI(200, 150, 0, 190, 8)

	bin := Binarize(roi, cfg)

	// The top-left corner stripe falls outside the narrowed top edge of the
	// trapezoid and must be masked out even though it's dark.
	if bin.At(2, 0) != 0 {
		t.Errorf("expected top-left corner to be masked out of the trapezoid")
	}
}
