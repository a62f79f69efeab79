package vision

import "gonum.org/v1/gonum/stat"

// Classify assigns a ClusterType to every cluster in place, in three passes:
// reject noise/blobs, tag stop lines, then split the remainder into left and
// right lane markings (§4.4).
func Classify(clusters []Cluster, roiWidth int, cfg Config) {
	for i := range clusters {
		classifyReject(&clusters[i], cfg)
	}
	for i := range clusters {
		classifyStopline(&clusters[i], roiWidth, cfg)
	}
	for i := range clusters {
		c := &clusters[i]
		if c.Type != ClusterOK {
			continue
		}
		classifyLeftRight(c, roiWidth, cfg)
	}
}

// classifyReject marks a cluster ignored if its proportions can't plausibly
// be a lane line or stop line, or if its row widths (restricted to rows
// narrower than MaxLineWidthPx) are too few or too irregular.
func classifyReject(c *Cluster, cfg Config) {
	w := c.Width()
	if w < 1 {
		w = 1
	}
	if float64(c.Height())/float64(w) < 0.25 {
		c.Type = ClusterIgnore
		return
	}

	widths := filteredWidths(c.RowWidths, cfg.MaxLineWidthPx)
	if len(widths) < cfg.MinYPxPerLine {
		c.Type = ClusterIgnore
		return
	}

	mean := stat.Mean(widths, nil)
	if mean == 0 {
		c.Type = ClusterIgnore
		return
	}

	relStd := stat.StdDev(widths, nil) / mean
	if relStd > cfg.MaxLineThicknessDeviation {
		c.Type = ClusterIgnore
	}
}

// classifyStopline tags a cluster as a stop line when it is at least
// StopLineMinWidth wide, taller than StopLineMinHeight, and its bounding box
// reaches at least ActivationSquaresOfROI of half the ROI width to each side
// of the ROI center. The cluster's vertical position in the ROI is not
// checked.
func classifyStopline(c *Cluster, roiWidth int, cfg Config) {
	if float64(c.Width()) < cfg.StopLineMinWidth {
		return
	}
	if float64(c.Height()) <= cfg.StopLineMinHeight {
		return
	}

	mid := roiWidth / 2
	activation := cfg.ActivationSquaresOfROI * float64(roiWidth) / 2

	leftSpan := float64(mid - c.BBoxX0)
	rightSpan := float64(c.BBoxX1 - mid)
	if leftSpan < activation || rightSpan < activation {
		return
	}

	c.Type = ClusterStopline
}

// classifyLeftRight splits remaining candidates into left/right lane
// markings by comparing the mean x of their bottom 20% of rows to the ROI
// center.
func classifyLeftRight(c *Cluster, roiWidth int, cfg Config) {
	centers := validCenters(c.RowCenter)
	if len(centers) == 0 {
		c.Type = ClusterIgnore
		return
	}

	bottomN := len(centers) / 5
	if bottomN < 1 {
		bottomN = 1
	}
	bottomCenters := centers[len(centers)-bottomN:]
	meanX := stat.Mean(bottomCenters, nil)

	if meanX < float64(roiWidth)/2 {
		c.Type = ClusterLeft
	} else {
		c.Type = ClusterRight
	}
}

// filteredWidths returns the row widths that are positive and strictly under
// maxWidth, the population classifyReject's irregularity check runs over.
func filteredWidths(rowWidths []int, maxWidth int) []float64 {
	out := make([]float64, 0, len(rowWidths))
	for _, w := range rowWidths {
		if w > 0 && w < maxWidth {
			out = append(out, float64(w))
		}
	}
	return out
}

func validCenters(rowCenters []int) []float64 {
	out := make([]float64, 0, len(rowCenters))
	for _, c := range rowCenters {
		if c >= 0 {
			out = append(out, float64(c))
		}
	}
	return out
}
