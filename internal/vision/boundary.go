package vision

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// BuildBoundary reduces the clusters of one lane side into a single ordered
// boundary line: one x per row, closest-to-center candidate selection,
// median-anchored bidirectional cleaning, then a lane-likeness check (§4.5).
// ok is false if no plausible boundary could be built.
func BuildBoundary(clusters []Cluster, side ClusterType, roiWidth int, cfg Config) (boundary Boundary, ok bool) {
	raw := collectRowCandidates(clusters, side, roiWidth)
	if len(raw) < 2 {
		return nil, false
	}

	cleaned := cleanAroundMedian(raw, float64(cfg.MaxBoundaryDeviation))
	if len(cleaned) < 2 {
		return nil, false
	}

	if !isLaneLike(cleaned) {
		return nil, false
	}

	return cleaned, true
}

// collectRowCandidates gathers, for every absolute row touched by any
// cluster of the given side, the candidate x closest to the ROI's
// horizontal center, producing one point per row sorted by y ascending.
// A STOPLINE cluster contributes its outer edges too: row_left feeds the
// left bucket and row_right feeds the right bucket, since a stop line spans
// both lane edges.
func collectRowCandidates(clusters []Cluster, side ClusterType, roiWidth int) Boundary {
	center := float64(roiWidth) / 2

	byRow := map[int]int{}  // absolute y -> chosen x
	hasRow := map[int]bool{}

	consider := func(y, cx int) {
		if !hasRow[y] {
			byRow[y] = cx
			hasRow[y] = true
			return
		}
		if math.Abs(float64(cx)-center) < math.Abs(float64(byRow[y])-center) {
			byRow[y] = cx
		}
	}

	for _, c := range clusters {
		switch c.Type {
		case side:
			for r, cx := range c.RowCenter {
				if cx < 0 {
					continue
				}
				consider(c.BBoxY0+r, cx)
			}
		case ClusterStopline:
			edges := c.RowLeft
			if side == ClusterRight {
				edges = c.RowRight
			}
			for r, ex := range edges {
				if ex < 0 {
					continue
				}
				consider(c.BBoxY0+r, ex)
			}
		}
	}

	ys := make([]int, 0, len(byRow))
	for y := range byRow {
		ys = append(ys, y)
	}
	sort.Ints(ys)

	out := make(Boundary, len(ys))
	for i, y := range ys {
		out[i] = Point{X: byRow[y], Y: y}
	}
	return out
}

// cleanAroundMedian finds the boundary point nearest the median x, then
// walks outward from it in both directions, accepting a point only if its x
// is within maxDeviation of the last accepted x. This rejects outliers
// while tolerating gradual curvature.
func cleanAroundMedian(raw Boundary, maxDeviation float64) Boundary {
	xs := make([]float64, len(raw))
	for i, p := range raw {
		xs[i] = float64(p.X)
	}
	sortedXs := append([]float64(nil), xs...)
	sort.Float64s(sortedXs)
	median := stat.Quantile(0.5, stat.Empirical, sortedXs, nil)

	anchor := 0
	best := math.Abs(xs[0] - median)
	for i, x := range xs {
		if d := math.Abs(x - median); d < best {
			best = d
			anchor = i
		}
	}

	accepted := make([]bool, len(raw))
	accepted[anchor] = true
	last := xs[anchor]

	for i := anchor + 1; i < len(raw); i++ {
		if math.Abs(xs[i]-last) <= maxDeviation {
			accepted[i] = true
			last = xs[i]
		}
	}

	last = xs[anchor]
	for i := anchor - 1; i >= 0; i-- {
		if math.Abs(xs[i]-last) <= maxDeviation {
			accepted[i] = true
			last = xs[i]
		}
	}

	out := make(Boundary, 0, len(raw))
	for i, ok := range accepted {
		if ok {
			out = append(out, raw[i])
		}
	}
	return out
}

// isLaneLike rejects boundaries whose point-to-point jumps are too erratic
// to be a real lane edge: a boundary fails if any segment has |Δx| more than
// three times its |Δy|, or if the 90th percentile of |Δx| exceeds 40 px.
func isLaneLike(b Boundary) bool {
	if len(b) < 2 {
		return false
	}

	dxs := make([]float64, 0, len(b)-1)
	for i := 1; i < len(b); i++ {
		dx := math.Abs(float64(b[i].X - b[i-1].X))
		dy := math.Abs(float64(b[i].Y - b[i-1].Y))
		dxs = append(dxs, dx)
		if dy > 0 && dx/dy > 3.0 {
			return false
		}
	}

	sorted := append([]float64(nil), dxs...)
	sort.Float64s(sorted)
	p90 := stat.Quantile(0.9, stat.Empirical, sorted, nil)
	return p90 <= 40
}

// MedianLaneWidth returns the median horizontal gap between two aligned
// boundaries sampled at shared y values, as a fraction of roiWidth, and
// whether enough shared rows existed to compute it.
func MedianLaneWidth(left, right Boundary, roiWidth int) (width float64, ok bool) {
	leftByY := make(map[int]int, len(left))
	for _, p := range left {
		leftByY[p.Y] = p.X
	}

	var gaps []float64
	for _, p := range right {
		if lx, found := leftByY[p.Y]; found {
			gaps = append(gaps, float64(p.X-lx))
		}
	}
	if len(gaps) == 0 {
		return 0, false
	}

	sort.Float64s(gaps)
	median := stat.Quantile(0.5, stat.Empirical, gaps, nil)
	return median / float64(roiWidth), true
}
