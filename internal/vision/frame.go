package vision

import (
	"image"
	"math"
)

// FrameCoordinator runs the full per-frame pipeline and holds the one piece
// of state that must survive across frames: the last commanded heading, used
// to hold course on a frame where no lane markings were found (§4.8).
type FrameCoordinator struct {
	cfg         Config
	prevHeading float64
	havePrev    bool
}

// NewFrameCoordinator builds a coordinator bound to cfg. cfg does not change
// for the coordinator's lifetime; reconfiguration means building a new one.
func NewFrameCoordinator(cfg Config) *FrameCoordinator {
	return &FrameCoordinator{cfg: cfg}
}

// ProcessFrame runs ROI extraction through path reconstruction on a single
// camera frame. forced and forceSide tell the coordinator which branch to
// commit to when the lane markings alone are ambiguous, as when the route
// coordinator has decided to turn at an upcoming intersection.
func (fc *FrameCoordinator) ProcessFrame(frame image.Image, forced bool, forceSide Direction) FrameResult {
	roi, offset := ExtractROI(frame, fc.cfg)
	roiW, roiH := roi.Bounds().Dx(), roi.Bounds().Dy()

	bin := Binarize(roi, fc.cfg)
	labeled, clusters := FindClusters(bin, fc.cfg)
	Classify(clusters, roiW, fc.cfg)

	result := FrameResult{
		ROIOffset:     offset,
		LabeledBinary: labeled,
		Clusters:      clusters,
	}

	if sp, found := findStopPoint(clusters); found {
		result.HasStopPoint = true
		result.StopPoint = sp
		result.HasStopDistance = true
		result.StopDistanceFull = float64(sp.Y + offset.Y)
	}

	left, leftOK := BuildBoundary(clusters, ClusterLeft, roiW, fc.cfg)
	right, rightOK := BuildBoundary(clusters, ClusterRight, roiW, fc.cfg)
	if leftOK {
		result.LeftBoundary = left
	}
	if rightOK {
		result.RightBoundary = right
	}

	// The reconstructor is run twice more, each time with one boundary
	// nulled out, to get the two forced-side paths used for divergence
	// detection and forced-direction selection (§4.6).
	pathLeft, pathLeftOK := BuildPath(left, nil, roiW, roiH, fc.cfg)
	pathRight, pathRightOK := BuildPath(nil, right, roiW, roiH, fc.cfg)

	diverging := DetectDivergence(pathLeft, pathRight, roiH, fc.cfg)

	result.BothEdgesFound = pathLeftOK && pathRightOK
	if result.BothEdgesFound {
		if width, ok := MedianLaneWidth(left, right, roiW); ok {
			result.HasMedianLaneWidth = true
			result.MedianLaneWidth = width
		}
	}

	var path Path
	switch {
	case forced || diverging:
		selected, other := pathLeft, pathRight
		if forceSide == DirRight {
			selected, other = pathRight, pathLeft
		}
		if len(selected) > 0 {
			path = selected
		} else {
			path = other
		}
		if diverging {
			result.OtherPath = other
		}
	default:
		path, _ = BuildPath(left, right, roiW, roiH, fc.cfg)
	}
	result.TargetPath = path

	if len(path) > 0 {
		result.Heading = fc.headingFromPath(path, roiW, roiH)
		fc.prevHeading = result.Heading
		fc.havePrev = true
	} else if fc.havePrev {
		result.Heading = fc.prevHeading
	}

	return result
}

// headingFromPath converts the path's lookahead point into a steering
// heading in degrees, using the camera's focal length and horizontal
// mounting offset to project the pixel displacement onto an angle. The
// lookahead point is the one whose y is closest to the configured lookahead
// fraction of the ROI height, measured from the top (§4.8 step 5).
func (fc *FrameCoordinator) headingFromPath(path Path, roiWidth, roiHeight int) float64 {
	if len(path) == 0 {
		return 0
	}
	targetY := float64(roiHeight-1) * (1 - fc.cfg.LookaheadPos)

	look := path[0]
	best := math.Abs(float64(look.Y) - targetY)
	for _, p := range path[1:] {
		if d := math.Abs(float64(p.Y) - targetY); d < best {
			best = d
			look = p
		}
	}

	dx := float64(look.X) - float64(roiWidth)/2 - fc.cfg.CameraXOffset
	return math.Atan2(dx, fc.cfg.FocalLengthPix) * 180 / math.Pi
}

// findStopPoint returns the centroid of the first stop-line cluster, if any.
func findStopPoint(clusters []Cluster) (Point, bool) {
	for _, c := range clusters {
		if c.Type == ClusterStopline {
			return Point{X: c.CentroidX, Y: c.CentroidY}, true
		}
	}
	return Point{}, false
}
