// Package vision implements the per-frame perception pipeline: ROI
// extraction, binarization, cluster finding, line classification, boundary
// and path reconstruction, and intersection divergence detection. It is the
// "hard core" of the vehicle's navigation system — the camera driver, JPEG
// encoder and GUI are collaborators with fixed interfaces living outside
// this package.
package vision

import "github.com/roadcore/kamera/internal/kamconfig"

// Point is an integer pixel coordinate, either ROI-local or full-frame
// depending on context.
type Point struct {
	X, Y int
}

// ClusterType tags a cluster with the role the line classifier assigned it.
type ClusterType int

const (
	// ClusterOK is the initial, unclassified state. A cluster left in this
	// state after the classifier has run is a logic error (see Design Notes).
	ClusterOK ClusterType = iota
	ClusterStopline
	ClusterLeft
	ClusterRight
	ClusterIgnore
)

func (t ClusterType) String() string {
	switch t {
	case ClusterStopline:
		return "STOPLINE"
	case ClusterLeft:
		return "LEFT"
	case ClusterRight:
		return "RIGHT"
	case ClusterIgnore:
		return "IGNORE"
	default:
		return "OK"
	}
}

// Cluster is an 8-connected blob of dark pixels in the binary ROI, with
// precomputed per-row geometry used by the boundary builder. Row arrays are
// indexed relative to BBoxY0 (row 0 = the cluster's topmost bbox row); a
// value of -1 means that row has no pixel belonging to this cluster.
type Cluster struct {
	ID         int
	BBoxY0     int
	BBoxY1     int
	BBoxX0     int
	BBoxX1     int
	CentroidX  int
	CentroidY  int
	PixelCount int
	BBoxArea   int
	Type       ClusterType

	RowWidths []int
	RowLeft   []int
	RowRight  []int
	RowCenter []int
}

// Height returns the cluster bounding box height in pixels.
func (c *Cluster) Height() int { return c.BBoxY1 - c.BBoxY0 }

// Width returns the cluster bounding box width in pixels.
func (c *Cluster) Width() int { return c.BBoxX1 - c.BBoxX0 }

// LabeledImage is a 2-D integer image where each pixel holds the id of the
// cluster that owns it, or 0 for background.
type LabeledImage struct {
	Width, Height int
	Labels        []int32 // row-major, length Width*Height
}

// NewLabeledImage allocates a zeroed labeled image of the given size.
func NewLabeledImage(w, h int) *LabeledImage {
	return &LabeledImage{Width: w, Height: h, Labels: make([]int32, w*h)}
}

// At returns the label at (x, y). Out-of-range coordinates return 0.
func (l *LabeledImage) At(x, y int) int32 {
	if x < 0 || y < 0 || x >= l.Width || y >= l.Height {
		return 0
	}
	return l.Labels[y*l.Width+x]
}

// Set stores the label at (x, y).
func (l *LabeledImage) Set(x, y int, label int32) {
	l.Labels[y*l.Width+x] = label
}

// Binary is a 0/255 single-channel mask produced by the binarizer, the same
// shape as the ROI it was derived from.
type Binary struct {
	Width, Height int
	Pix           []uint8 // row-major, 0 or 255
}

// NewBinary allocates a zeroed (all background) binary mask.
func NewBinary(w, h int) *Binary {
	return &Binary{Width: w, Height: h, Pix: make([]uint8, w*h)}
}

// At returns the pixel value at (x, y), or 0 outside bounds.
func (b *Binary) At(x, y int) uint8 {
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return 0
	}
	return b.Pix[y*b.Width+x]
}

// Set stores the pixel value at (x, y).
func (b *Binary) Set(x, y int, v uint8) {
	b.Pix[y*b.Width+x] = v
}

// Boundary is an ordered sequence of points describing one lane edge,
// strictly sorted by Y after cleaning.
type Boundary []Point

// Path is a sequence of points sampled on scanline band centers, at most
// kamconfig.Config.Scanlines long.
type Path []Point

// Direction is the commanded branch at the next intersection.
type Direction int

const (
	DirLeft Direction = iota
	DirRight
)

func (d Direction) String() string {
	if d == DirRight {
		return "RIGHT"
	}
	return "LEFT"
}

// FrameResult is the per-frame output of the frame coordinator (§4.8),
// consumed once by the route coordinator.
type FrameResult struct {
	Heading float64

	HasStopDistance  bool
	StopDistanceFull float64 // full-frame y of the stop point, if any
	HasStopPoint     bool
	StopPoint        Point // ROI-local

	TargetPath Path
	OtherPath  Path // non-nil only when divergence was detected this frame

	BothEdgesFound    bool
	HasMedianLaneWidth bool
	MedianLaneWidth    float64 // fraction of ROI width

	ROIOffset Point // (left, top) of the ROI in full-frame coordinates

	LabeledBinary *LabeledImage
	Clusters      []Cluster
	LeftBoundary  Boundary
	RightBoundary Boundary
}

// Config is re-exported for callers that only need the vision package.
type Config = kamconfig.Config
