package vision

// FindClusters dilates the binary mask to merge nearby fragments, then labels
// 8-connected components, drops small blobs and computes per-row geometry
// for each surviving cluster (§4.3).
func FindClusters(bin *Binary, cfg Config) (*LabeledImage, []Cluster) {
	dilated := dilate3x3(bin, cfg.DilationIterCount)

	labeled, rawClusters := labelComponents(dilated)

	survivors := make([]Cluster, 0, len(rawClusters))
	for _, c := range rawClusters {
		if c.PixelCount < cfg.MinClusterActivePx {
			continue
		}
		survivors = append(survivors, c)
	}

	return compactLabels(labeled, survivors)
}

// labelComponents performs 8-connected component labeling with a two-pass
// union-find algorithm over the dilated mask.
func labelComponents(bin *Binary) (*LabeledImage, []Cluster) {
	w, h := bin.Width, bin.Height
	labels := NewLabeledImage(w, h)
	parent := []int32{0} // index 0 unused (background)

	find := func(x int32) int32 {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}
	union := func(a, b int32) {
		ra, rb := find(a), find(b)
		if ra != rb {
			if ra < rb {
				parent[rb] = ra
			} else {
				parent[ra] = rb
			}
		}
	}
	newLabel := func() int32 {
		id := int32(len(parent))
		parent = append(parent, id)
		return id
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if bin.At(x, y) == 0 {
				continue
			}
			var neighbors []int32
			for _, d := range [][2]int{{-1, -1}, {0, -1}, {1, -1}, {-1, 0}} {
				if l := labels.At(x+d[0], y+d[1]); l != 0 {
					neighbors = append(neighbors, l)
				}
			}
			if len(neighbors) == 0 {
				labels.Set(x, y, newLabel())
				continue
			}
			min := neighbors[0]
			for _, n := range neighbors[1:] {
				if n < min {
					min = n
				}
			}
			labels.Set(x, y, min)
			for _, n := range neighbors {
				union(min, n)
			}
		}
	}

	// Compact roots to a dense 1..N range and accumulate per-cluster stats.
	rootToID := map[int32]int{}
	var clusters []Cluster
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			l := labels.At(x, y)
			if l == 0 {
				continue
			}
			root := find(l)
			id, ok := rootToID[root]
			if !ok {
				id = len(clusters) + 1
				rootToID[root] = id
				clusters = append(clusters, Cluster{ID: id, BBoxY0: y, BBoxY1: y, BBoxX0: x, BBoxX1: x})
			}
			labels.Set(x, y, int32(id))
			c := &clusters[id-1]
			c.PixelCount++
			c.CentroidX += x
			c.CentroidY += y
			if x < c.BBoxX0 {
				c.BBoxX0 = x
			}
			if x > c.BBoxX1 {
				c.BBoxX1 = x
			}
			if y < c.BBoxY0 {
				c.BBoxY0 = y
			}
			if y > c.BBoxY1 {
				c.BBoxY1 = y
			}
		}
	}

	for i := range clusters {
		c := &clusters[i]
		if c.PixelCount > 0 {
			c.CentroidX /= c.PixelCount
			c.CentroidY /= c.PixelCount
		}
		c.BBoxX1++
		c.BBoxY1++
		c.BBoxArea = (c.BBoxX1 - c.BBoxX0) * (c.BBoxY1 - c.BBoxY0)
	}

	return labels, clusters
}

// compactLabels drops clusters below the pixel-count floor, renumbers
// surviving clusters 1..N, and computes their row geometry against the
// label-local mask of the renumbered image.
func compactLabels(labeled *LabeledImage, kept []Cluster) (*LabeledImage, []Cluster) {
	keepSet := make(map[int]int, len(kept)) // old ID -> new ID
	final := make([]Cluster, 0, len(kept))
	for i, c := range kept {
		newID := i + 1
		keepSet[c.ID] = newID
		c.ID = newID
		final = append(final, c)
	}

	out := NewLabeledImage(labeled.Width, labeled.Height)
	for i, l := range labeled.Labels {
		if l == 0 {
			continue
		}
		if newID, ok := keepSet[int(l)]; ok {
			out.Labels[i] = int32(newID)
		}
	}

	for i := range final {
		computeRowGeometry(&final[i], out)
	}

	return out, final
}

// computeRowGeometry scans the cluster's bounding box rows against its own
// label-local mask — pixels whose label equals this cluster's ID — recording
// left/right/center/width per row relative to BBoxY0. Restricting to the
// cluster's own label (rather than any set pixel in that bbox) keeps
// overlapping bounding boxes of distinct clusters from corrupting each
// other's geometry. Rows with no cluster pixel get -1 sentinels.
func computeRowGeometry(c *Cluster, labeled *LabeledImage) {
	rows := c.BBoxY1 - c.BBoxY0
	c.RowWidths = make([]int, rows)
	c.RowLeft = make([]int, rows)
	c.RowRight = make([]int, rows)
	c.RowCenter = make([]int, rows)

	id := int32(c.ID)
	for r := 0; r < rows; r++ {
		y := c.BBoxY0 + r
		left, right := -1, -1
		for x := c.BBoxX0; x < c.BBoxX1; x++ {
			if labeled.At(x, y) == id {
				if left == -1 {
					left = x
				}
				right = x
			}
		}
		if left == -1 {
			c.RowLeft[r] = -1
			c.RowRight[r] = -1
			c.RowCenter[r] = -1
			c.RowWidths[r] = -1
			continue
		}
		c.RowLeft[r] = left
		c.RowRight[r] = right
		c.RowWidths[r] = right - left + 1
		c.RowCenter[r] = (left + right) / 2
	}
}
