package vision

// BuildPath reconstructs the lane-center path over cfg.Scanlines horizontal
// bands spanning the ROI from nearest (bottom, band 0) to farthest (top).
// Each band takes the mean x of whichever boundary(ies) have a point in that
// band: both present averages them, one present offsets by an estimated
// half-lane width, neither present skips the band entirely (§4.6). Passing
// nil for one boundary reproduces the reconstructor's force_side behavior.
func BuildPath(left, right Boundary, roiWidth, roiHeight int, cfg Config) (path Path, ok bool) {
	bandHeight := float64(roiHeight) / float64(cfg.Scanlines)

	for i := 0; i < cfg.Scanlines; i++ {
		yMin := roiHeight - int(float64(i+1)*bandHeight)
		yMax := roiHeight - int(float64(i)*bandHeight)
		if yMin < 0 {
			yMin = 0
		}
		if yMax > roiHeight-1 {
			yMax = roiHeight - 1
		}
		if yMin > yMax {
			continue
		}
		yCenter := (yMin + yMax) / 2

		leftX, leftFound := bandMeanX(left, yMin, yMax)
		rightX, rightFound := bandMeanX(right, yMin, yMax)

		var center float64
		switch {
		case leftFound && rightFound:
			center = (leftX + rightX) / 2
		case leftFound || rightFound:
			laneWidth := (cfg.DefaultLaneWidthOfROI - cfg.LaneWidthDecreaseRate*float64(i)) * float64(roiWidth)
			if leftFound {
				center = leftX + laneWidth/2
			} else {
				center = rightX - laneWidth/2
			}
		default:
			continue
		}

		path = append(path, Point{X: int(center + 0.5), Y: yCenter})
	}

	return path, len(path) > 0
}

// bandMeanX returns the mean x of b's points whose y falls in [yMin, yMax].
func bandMeanX(b Boundary, yMin, yMax int) (mean float64, ok bool) {
	var sum float64
	var n int
	for _, p := range b {
		if p.Y >= yMin && p.Y <= yMax {
			sum += float64(p.X)
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}
