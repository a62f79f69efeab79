package vision

import "image"

// Binarize converts the ROI to a single-channel binary mask: grayscale,
// blur, inverse threshold, morphological close, trapezoid mask (§4.2).
func Binarize(roi *image.RGBA, cfg Config) *Binary {
	w, h := roi.Bounds().Dx(), roi.Bounds().Dy()

	gray := toGrayscale(roi)
	blurred := gaussianBlur5x5(gray, w, h)

	bin := NewBinary(w, h)
	for i, v := range blurred {
		if v < cfg.BlackThreshold {
			bin.Pix[i] = 255
		}
	}

	bin = morphClose3x3(bin, 1)

	if cfg.ROITopScale < 1.0 {
		mask := buildTrapezoidMask(w, h, cfg.ROITopScale)
		for i := range bin.Pix {
			if mask.Pix[i] == 0 {
				bin.Pix[i] = 0
			}
		}
	}

	return bin
}

// toGrayscale computes Rec.601 luminance for every pixel of an RGBA image.
func toGrayscale(img *image.RGBA) []uint8 {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := make([]uint8, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			// RGBA() returns 16-bit components; downscale to 8-bit first.
			lum := (299*uint32(r>>8) + 587*uint32(g>>8) + 114*uint32(bl>>8)) / 1000
			out[y*w+x] = uint8(lum)
		}
	}
	return out
}

// gaussianBlur5x5 applies a separable 5-tap binomial approximation of a
// Gaussian blur (weights 1-4-6-4-1, matching a 5x5 kernel with sigma~1.1),
// replicating border pixels like OpenCV's default BORDER_REFLECT_101-ish
// behavior closely enough for thresholding purposes.
func gaussianBlur5x5(src []uint8, w, h int) []uint8 {
	weights := [5]int{1, 4, 6, 4, 1}
	const norm = 16

	tmp := make([]int32, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sum int32
			for k := -2; k <= 2; k++ {
				xx := clampInt(x+k, 0, w-1)
				sum += int32(weights[k+2]) * int32(src[y*w+xx])
			}
			tmp[y*w+x] = sum / norm
		}
	}

	out := make([]uint8, w*h)
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			var sum int32
			for k := -2; k <= 2; k++ {
				yy := clampInt(y+k, 0, h-1)
				sum += int32(weights[k+2]) * tmp[yy*w+x]
			}
			out[y*w+x] = uint8(sum / norm)
		}
	}
	return out
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// morphClose3x3 performs a morphological close (dilate then erode) with a
// 3x3 rectangular structuring element, for the given number of iterations.
func morphClose3x3(src *Binary, iterations int) *Binary {
	cur := src
	for i := 0; i < iterations; i++ {
		cur = dilate3x3(cur, 1)
	}
	for i := 0; i < iterations; i++ {
		cur = erode3x3(cur, 1)
	}
	return cur
}

func dilate3x3(src *Binary, iterations int) *Binary {
	cur := src
	for i := 0; i < iterations; i++ {
		out := NewBinary(cur.Width, cur.Height)
		for y := 0; y < cur.Height; y++ {
			for x := 0; x < cur.Width; x++ {
				found := uint8(0)
				for dy := -1; dy <= 1 && found == 0; dy++ {
					for dx := -1; dx <= 1; dx++ {
						if cur.At(x+dx, y+dy) != 0 {
							found = 255
							break
						}
					}
				}
				out.Set(x, y, found)
			}
		}
		cur = out
	}
	return cur
}

func erode3x3(src *Binary, iterations int) *Binary {
	cur := src
	for i := 0; i < iterations; i++ {
		out := NewBinary(cur.Width, cur.Height)
		for y := 0; y < cur.Height; y++ {
			for x := 0; x < cur.Width; x++ {
				all := uint8(255)
				for dy := -1; dy <= 1 && all != 0; dy++ {
					for dx := -1; dx <= 1; dx++ {
						if cur.At(x+dx, y+dy) == 0 {
							all = 0
							break
						}
					}
				}
				out.Set(x, y, all)
			}
		}
		cur = out
	}
	return cur
}

// buildTrapezoidMask creates a 0/255 mask whose filled region is a trapezoid
// with a full-width bottom edge and a top edge scaled by topScale, matching
// the ROI's working region.
func buildTrapezoidMask(width, height int, topScale float64) *Binary {
	if topScale < 0 {
		topScale = 0
	}
	if topScale > 1 {
		topScale = 1
	}

	mask := NewBinary(width, height)
	midX := float64(width) / 2.0
	halfBottom := float64(width) / 2.0
	halfTop := halfBottom * topScale

	topLeftX := midX - halfTop
	topRightX := midX + halfTop

	for y := 0; y < height; y++ {
		// Linear interpolation of the trapezoid edges between the top
		// (y=0) and bottom (y=height-1) rows.
		t := 0.0
		if height > 1 {
			t = float64(y) / float64(height-1)
		}
		xLeft := topLeftX + t*(0-topLeftX)
		xRight := topRightX + t*(float64(width-1)-topRightX)

		x0 := int(xLeft)
		x1 := int(xRight)
		if x0 < 0 {
			x0 = 0
		}
		if x1 > width-1 {
			x1 = width - 1
		}
		for x := x0; x <= x1; x++ {
			mask.Set(x, y, 255)
		}
	}
	return mask
}
