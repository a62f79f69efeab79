package vision

import (
	"math"
	"sort"
)

// DetectDivergence compares the lane width near the top of the ROI (far
// ahead) against the width in the middle band of the two forced-side paths,
// to decide whether the road is splitting or an intersection is opening up.
// Three independent tests can each trigger it: a loose ratio+absolute pair,
// a tighter ratio+absolute pair, and a pure absolute-widening test at the
// top band (§4.7).
func DetectDivergence(pathLeft, pathRight Path, roiHeight int, cfg Config) bool {
	ys, widths := commonYWidths(pathLeft, pathRight)
	if len(ys) == 0 {
		return false
	}

	h := float64(roiHeight)

	var midSum float64
	var midCount int
	for i, y := range ys {
		fy := float64(y)
		if fy > h/2 && fy < 0.8*h {
			midSum += widths[i]
			midCount++
		}
	}
	if midCount == 0 {
		return false
	}
	avgMiddle := midSum / float64(midCount)

	yMin := ys[0]
	for _, y := range ys[1:] {
		if y < yMin {
			yMin = y
		}
	}
	var topSum float64
	var topCount int
	for i, y := range ys {
		if math.Abs(float64(y-yMin))/h < 0.1 {
			topSum += widths[i]
			topCount++
		}
	}
	if topCount == 0 {
		return false
	}
	avgTop := topSum / float64(topCount)

	if avgTop <= avgMiddle {
		return false
	}
	ratio := avgTop / avgMiddle

	test1 := ratio >= cfg.DivergenceThreshold && avgTop > cfg.MinAbsDivergence
	test2 := ratio >= cfg.DivergenceThreshold2 && avgTop > cfg.MinAbsDivergence2
	test3 := avgTop > cfg.AbsDivergenceThresholdTop

	return test1 || test2 || test3
}

// commonYWidths buckets each path's x by y (averaging duplicates), then
// returns the |Δx| width at every y present in both paths, sorted by y.
func commonYWidths(left, right Path) (ys []int, widths []float64) {
	leftSum := map[int]float64{}
	leftN := map[int]int{}
	for _, p := range left {
		leftSum[p.Y] += float64(p.X)
		leftN[p.Y]++
	}

	rightSum := map[int]float64{}
	rightN := map[int]int{}
	for _, p := range right {
		rightSum[p.Y] += float64(p.X)
		rightN[p.Y]++
	}

	var commonYs []int
	for y := range leftSum {
		if _, ok := rightSum[y]; ok {
			commonYs = append(commonYs, y)
		}
	}
	sort.Ints(commonYs)

	ys = make([]int, 0, len(commonYs))
	widths = make([]float64, 0, len(commonYs))
	for _, y := range commonYs {
		lx := leftSum[y] / float64(leftN[y])
		rx := rightSum[y] / float64(rightN[y])
		ys = append(ys, y)
		widths = append(widths, math.Abs(rx-lx))
	}
	return ys, widths
}
