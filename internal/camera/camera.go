// Package camera defines the frame source interface the capture loop reads
// from. The real driver (picamera2 in the original implementation) has no
// portable Go equivalent and is out of scope; TestPattern exists so the
// rest of the pipeline can be driven without real hardware.
package camera

import (
	"image"
	"image/color"
)

// Source produces successive frames for the vision pipeline to consume.
type Source interface {
	// Start begins capture. It is called once before the first Capture.
	Start() error
	// Capture returns the next available frame.
	Capture() (image.Image, error)
	// Close releases any resources held by the source.
	Close() error
}

// TestPattern is a Source that synthesizes a static two-lane-marking road
// scene, useful for exercising the pipeline and streaming path without a
// camera attached.
type TestPattern struct {
	width, height int
	leftX, rightX int
	stripeWidth   int
}

// NewTestPattern builds a TestPattern sized to the given frame dimensions,
// with lane markings at the given fractional x positions.
func NewTestPattern(width, height int, leftFrac, rightFrac float64) *TestPattern {
	return &TestPattern{
		width:       width,
		height:      height,
		leftX:       int(float64(width) * leftFrac),
		rightX:      int(float64(width) * rightFrac),
		stripeWidth: 10,
	}
}

// Start is a no-op; the pattern has no hardware to initialize.
func (t *TestPattern) Start() error { return nil }

// Close is a no-op.
func (t *TestPattern) Close() error { return nil }

// Capture renders the synthetic frame.
func (t *TestPattern) Capture() (image.Image, error) {
	img := image.NewRGBA(image.Rect(0, 0, t.width, t.height))
	light := color.RGBA{R: 200, G: 200, B: 200, A: 255}
	dark := color.RGBA{R: 20, G: 20, B: 20, A: 255}
	for y := 0; y < t.height; y++ {
		for x := 0; x < t.width; x++ {
			c := light
			if x >= t.leftX && x < t.leftX+t.stripeWidth {
				c = dark
			}
			if x >= t.rightX && x < t.rightX+t.stripeWidth {
				c = dark
			}
			img.Set(x, y, c)
		}
	}
	return img, nil
}
