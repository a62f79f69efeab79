package vision

import (
	"image"
	"image/draw"

	xdraw "golang.org/x/image/draw"
)

// ExtractROI resizes frame to (cfg.FrameW, cfg.FrameH) if needed and crops
// the rectangular working region (the trapezoid mask is applied later, by
// Binarize), returning the ROI and the (left, top)
// offset needed to re-project ROI points back to full-frame coordinates
// (§4.1).
func ExtractROI(frame image.Image, cfg Config) (*image.RGBA, Point) {
	resized := resizeToFrame(frame, cfg.FrameW, cfg.FrameH)

	top := int(float64(cfg.FrameH) * (1.0 - cfg.ROITop))
	bottom := int(float64(cfg.FrameH) * (1.0 - cfg.ROIBottom))
	left := int(float64(cfg.FrameW) * cfg.HorizontalMargin)
	right := int(float64(cfg.FrameW) * (1.0 - cfg.HorizontalMargin))

	if bottom > cfg.FrameH {
		bottom = cfg.FrameH
	}
	if right > cfg.FrameW {
		right = cfg.FrameW
	}
	if top < 0 {
		top = 0
	}
	if left < 0 {
		left = 0
	}

	roiRect := image.Rect(0, 0, right-left, bottom-top)
	roi := image.NewRGBA(roiRect)
	draw.Draw(roi, roiRect, resized, image.Pt(left, top), draw.Src)

	return roi, Point{X: left, Y: top}
}

// resizeToFrame scales src to exactly w x h using bilinear interpolation. If
// src is already that size, it is copied without resampling.
func resizeToFrame(src image.Image, w, h int) image.Image {
	b := src.Bounds()
	if b.Dx() == w && b.Dy() == h {
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
		return dst
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.BiLinear.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)
	return dst
}
