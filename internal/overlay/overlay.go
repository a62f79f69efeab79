// Package overlay draws the vision pipeline's findings onto the captured
// frame for the streamed video feed, then JPEG-encodes the result.
package overlay

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"

	"github.com/dlecorfec/progjpeg"

	"github.com/roadcore/kamera/internal/kamconfig"
	"github.com/roadcore/kamera/internal/vision"
)

var clusterColors = []color.RGBA{
	{R: 128, G: 0, B: 255, A: 255},
	{R: 255, G: 128, B: 0, A: 255},
	{R: 255, G: 0, B: 255, A: 255},
	{R: 0, G: 255, B: 128, A: 255},
}

var (
	boundaryColor  = color.RGBA{R: 0, G: 0, B: 255, A: 255}
	targetColor    = color.RGBA{R: 0, G: 200, B: 255, A: 255}
	otherPathColor = color.RGBA{R: 0, G: 70, B: 100, A: 255}
	stopLineColor  = color.RGBA{R: 0, G: 0, B: 220, A: 255}
	targetLine     = color.RGBA{R: 0, G: 70, B: 180, A: 255}
	targetDot      = color.RGBA{R: 0, G: 70, B: 240, A: 255}
)

// Build draws boundaries, paths, cluster bounding boxes and the stop line
// onto a copy of frame, re-projecting every ROI-local point back to
// full-frame coordinates with result.ROIOffset.
func Build(frame image.Image, result vision.FrameResult, intersectionActive bool, cfg kamconfig.Config) *image.RGBA {
	vis := image.NewRGBA(frame.Bounds())
	draw.Draw(vis, vis.Bounds(), frame, frame.Bounds().Min, draw.Src)

	off := result.ROIOffset

	drawPolyline(vis, translate(result.LeftBoundary, off), boundaryColor, 2)
	drawPolyline(vis, translate(result.RightBoundary, off), boundaryColor, 2)
	drawPolyline(vis, translatePath(result.TargetPath, off), targetColor, 2)
	drawPolyline(vis, translatePath(result.OtherPath, off), otherPathColor, 1)

	for _, c := range result.Clusters {
		col := clusterColors[c.ID%len(clusterColors)]
		drawRect(vis, c.BBoxX0+off.X, c.BBoxY0+off.Y, c.BBoxX1+off.X, c.BBoxY1+off.Y, col)

		if c.Type == vision.ClusterStopline && result.HasStopPoint {
			sy := result.StopPoint.Y + off.Y
			drawHLine(vis, c.BBoxX0+off.X, c.BBoxX1+off.X, sy, stopLineColor)
		}
	}

	if len(result.TargetPath) > 0 {
		origin := image.Pt(cfg.FrameW/2+int(cfg.CameraXOffset), cfg.FrameH-1)
		target := translatePath(result.TargetPath, off)[0]
		drawLine(vis, origin.X, origin.Y, target.X, target.Y, targetLine)
		drawFilledCircle(vis, target.X, target.Y, 6, targetDot)
	}

	return vis
}

// EncodeJPEG compresses img at the configured quality using the
// progressive-capable JPEG encoder, returning the encoded bytes.
func EncodeJPEG(img image.Image, cfg kamconfig.Config) ([]byte, error) {
	var buf bytes.Buffer
	opts := &progjpeg.Options{Quality: cfg.JPEGQuality}
	if err := progjpeg.Encode(&buf, img, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func translate(b vision.Boundary, off vision.Point) []image.Point {
	out := make([]image.Point, len(b))
	for i, p := range b {
		out[i] = image.Pt(p.X+off.X, p.Y+off.Y)
	}
	return out
}

func translatePath(p vision.Path, off vision.Point) []image.Point {
	out := make([]image.Point, len(p))
	for i, pt := range p {
		out[i] = image.Pt(pt.X+off.X, pt.Y+off.Y)
	}
	return out
}

func drawPolyline(img *image.RGBA, pts []image.Point, col color.RGBA, thickness int) {
	for i := 1; i < len(pts); i++ {
		drawThickLine(img, pts[i-1].X, pts[i-1].Y, pts[i].X, pts[i].Y, col, thickness)
	}
}

func drawLine(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	drawThickLine(img, x0, y0, x1, y1, col, 1)
}

// drawThickLine rasterizes a line with Bresenham's algorithm, stamping a
// (2*thickness+1)-wide square at each step for visible lane/path overlays.
func drawThickLine(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA, thickness int) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	x, y := x0, y0
	for {
		stampSquare(img, x, y, thickness, col)
		if x == x1 && y == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

func stampSquare(img *image.RGBA, cx, cy, radius int, col color.RGBA) {
	b := img.Bounds()
	for y := cy - radius; y <= cy+radius; y++ {
		for x := cx - radius; x <= cx+radius; x++ {
			if image.Pt(x, y).In(b) {
				img.SetRGBA(x, y, col)
			}
		}
	}
}

func drawFilledCircle(img *image.RGBA, cx, cy, radius int, col color.RGBA) {
	b := img.Bounds()
	r2 := radius * radius
	for y := cy - radius; y <= cy+radius; y++ {
		for x := cx - radius; x <= cx+radius; x++ {
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy <= r2 && image.Pt(x, y).In(b) {
				img.SetRGBA(x, y, col)
			}
		}
	}
}

func drawRect(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	drawLine(img, x0, y0, x1, y0, col)
	drawLine(img, x0, y1, x1, y1, col)
	drawLine(img, x0, y0, x0, y1, col)
	drawLine(img, x1, y0, x1, y1, col)
}

func drawHLine(img *image.RGBA, x0, x1, y int, col color.RGBA) {
	drawThickLine(img, x0, y, x1, y, col, 1)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
