// Package kamconfig holds the single immutable configuration value threaded
// through the vision pipeline and route coordinator: every geometric and
// tuning constant named in the perception pipeline, with an optional JSON
// overlay for field tuning without a rebuild.
package kamconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultConfigPath is the canonical tuning overlay file, if present.
const DefaultConfigPath = "config/kamera.tuning.json"

// Config is the full set of tuning constants for the perception pipeline
// and route coordinator. It is loaded once at startup and never mutated;
// every pipeline call receives it by value or pointer-to-const.
type Config struct {
	// Image / camera geometry
	FrameW         int
	FrameH         int
	FocalLengthPix float64
	CameraXOffset  float64
	BlackThreshold uint8

	// ROI
	ROITopScale      float64
	ROITop           float64
	ROIBottom        float64
	HorizontalMargin float64

	// Cluster
	MinClusterActivePx int
	DilationIterCount  int

	// Line
	MinLineWidthPx            int
	MaxLineWidthPx            int
	MaxLineThicknessDeviation float64
	MinYPxPerLine             int

	// Stop line
	StopLineMinWidth       float64
	StopLineMinHeight      float64
	ActivationSquaresOfROI float64

	// Lane
	Scanlines             int
	DefaultLaneWidthOfROI float64
	LaneWidthDecreaseRate float64
	MaxBoundaryDeviation  int

	// Target path
	LookaheadPos float64

	// Intersections
	DivergenceThreshold           float64
	MinAbsDivergence              float64
	DivergenceThreshold2          float64
	MinAbsDivergence2             float64
	AbsDivergenceThresholdTop     float64
	IntersectionHeadingMultiplier float64

	// Section debounce
	BufferLength  int
	IntoThreshold int
	ExitThreshold int

	// Heading quantization
	HeadingMinDeg float64
	HeadingMaxDeg float64

	// I/O
	SocketPath        string
	SocketPathRouteIn string
	TCPPort           int
	JPEGQuality       int

	// Diagnostics
	PerformanceLogging bool
}

// Default returns the literal tuning defaults, transcribed from the
// reference vehicle's calibration.
func Default() Config {
	return Config{
		FrameW:         480,
		FrameH:         360,
		FocalLengthPix: 470,
		CameraXOffset:  -20,
		BlackThreshold: 120,

		ROITopScale:      0.9,
		ROITop:           0.75,
		ROIBottom:        0.20,
		HorizontalMargin: 0.01,

		MinClusterActivePx: 50,
		DilationIterCount:  2,

		MinLineWidthPx:            4,
		MaxLineWidthPx:            24,
		MaxLineThicknessDeviation: 0.5,
		MinYPxPerLine:             10,

		StopLineMinWidth:       0.6 * 480,
		StopLineMinHeight:      80,
		ActivationSquaresOfROI: 0.8,

		Scanlines:             6,
		DefaultLaneWidthOfROI: 0.75,
		LaneWidthDecreaseRate: 0.06,
		MaxBoundaryDeviation:  12,

		LookaheadPos: 0.5,

		DivergenceThreshold:           1.6,
		MinAbsDivergence:              75,
		DivergenceThreshold2:          2.4,
		MinAbsDivergence2:             65,
		AbsDivergenceThresholdTop:     100,
		IntersectionHeadingMultiplier: 1.1,

		BufferLength:  5,
		IntoThreshold: 3,
		ExitThreshold: 4,

		HeadingMinDeg: -25,
		HeadingMaxDeg: 25,

		SocketPath:        "/tmp/cam_offset.sock",
		SocketPathRouteIn: "/tmp/cpp_to_py.sock",
		TCPPort:           6000,
		JPEGQuality:       60,

		PerformanceLogging: true,
	}
}

// overlay mirrors Config with every field optional, so a JSON file can
// override a subset of tuning values without needing to specify all of
// them. Fields omitted from the JSON retain the default's value.
type overlay struct {
	FrameW         *int     `json:"frame_w,omitempty"`
	FrameH         *int     `json:"frame_h,omitempty"`
	FocalLengthPix *float64 `json:"focal_length_pix,omitempty"`
	CameraXOffset  *float64 `json:"camera_x_offset,omitempty"`
	BlackThreshold *uint8   `json:"black_threshold,omitempty"`

	ROITopScale      *float64 `json:"roi_top_scale,omitempty"`
	ROITop           *float64 `json:"roi_top,omitempty"`
	ROIBottom        *float64 `json:"roi_bottom,omitempty"`
	HorizontalMargin *float64 `json:"horizontal_margin,omitempty"`

	MinClusterActivePx *int `json:"min_cluster_active_px,omitempty"`
	DilationIterCount  *int `json:"dilation_iter_count,omitempty"`

	MinLineWidthPx            *int     `json:"min_line_width_px,omitempty"`
	MaxLineWidthPx            *int     `json:"max_line_width_px,omitempty"`
	MaxLineThicknessDeviation *float64 `json:"max_line_thickness_deviation,omitempty"`
	MinYPxPerLine             *int     `json:"min_y_px_per_line,omitempty"`

	StopLineMinWidth       *float64 `json:"stop_line_min_width,omitempty"`
	StopLineMinHeight      *float64 `json:"stop_line_min_height,omitempty"`
	ActivationSquaresOfROI *float64 `json:"activation_squares_of_roi,omitempty"`

	Scanlines             *int     `json:"scanlines,omitempty"`
	DefaultLaneWidthOfROI *float64 `json:"default_lane_width_of_roi,omitempty"`
	LaneWidthDecreaseRate *float64 `json:"lane_width_decrease_rate,omitempty"`
	MaxBoundaryDeviation  *int     `json:"max_boundary_deviation,omitempty"`

	LookaheadPos *float64 `json:"lookahead_pos,omitempty"`

	DivergenceThreshold           *float64 `json:"divergence_threshold,omitempty"`
	MinAbsDivergence              *float64 `json:"min_abs_divergence,omitempty"`
	DivergenceThreshold2          *float64 `json:"divergence_threshold_2,omitempty"`
	MinAbsDivergence2             *float64 `json:"min_abs_divergence_2,omitempty"`
	AbsDivergenceThresholdTop     *float64 `json:"abs_divergence_threshold_top,omitempty"`
	IntersectionHeadingMultiplier *float64 `json:"intersection_heading_multiplier,omitempty"`

	BufferLength  *int `json:"buffer_length,omitempty"`
	IntoThreshold *int `json:"into_threshold,omitempty"`
	ExitThreshold *int `json:"exit_threshold,omitempty"`

	HeadingMinDeg *float64 `json:"heading_min_deg,omitempty"`
	HeadingMaxDeg *float64 `json:"heading_max_deg,omitempty"`

	SocketPath        *string `json:"socket_path,omitempty"`
	SocketPathRouteIn *string `json:"socket_path_route_in,omitempty"`
	TCPPort           *int    `json:"tcp_port,omitempty"`
	JPEGQuality       *int    `json:"jpeg_quality,omitempty"`

	PerformanceLogging *bool `json:"performance_logging,omitempty"`
}

// Load reads a JSON overlay file from path and merges it onto Default().
// The file must have a .json extension and be no larger than 1MB.
func Load(path string) (Config, error) {
	cfg := Default()

	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return Config{}, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return Config{}, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if fileInfo.Size() > maxFileSize {
		return Config{}, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	var ov overlay
	if err := json.Unmarshal(data, &ov); err != nil {
		return Config{}, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	cfg.applyOverlay(ov)

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyOverlay(ov overlay) {
	if ov.FrameW != nil {
		c.FrameW = *ov.FrameW
	}
	if ov.FrameH != nil {
		c.FrameH = *ov.FrameH
	}
	if ov.FocalLengthPix != nil {
		c.FocalLengthPix = *ov.FocalLengthPix
	}
	if ov.CameraXOffset != nil {
		c.CameraXOffset = *ov.CameraXOffset
	}
	if ov.BlackThreshold != nil {
		c.BlackThreshold = *ov.BlackThreshold
	}
	if ov.ROITopScale != nil {
		c.ROITopScale = *ov.ROITopScale
	}
	if ov.ROITop != nil {
		c.ROITop = *ov.ROITop
	}
	if ov.ROIBottom != nil {
		c.ROIBottom = *ov.ROIBottom
	}
	if ov.HorizontalMargin != nil {
		c.HorizontalMargin = *ov.HorizontalMargin
	}
	if ov.MinClusterActivePx != nil {
		c.MinClusterActivePx = *ov.MinClusterActivePx
	}
	if ov.DilationIterCount != nil {
		c.DilationIterCount = *ov.DilationIterCount
	}
	if ov.MinLineWidthPx != nil {
		c.MinLineWidthPx = *ov.MinLineWidthPx
	}
	if ov.MaxLineWidthPx != nil {
		c.MaxLineWidthPx = *ov.MaxLineWidthPx
	}
	if ov.MaxLineThicknessDeviation != nil {
		c.MaxLineThicknessDeviation = *ov.MaxLineThicknessDeviation
	}
	if ov.MinYPxPerLine != nil {
		c.MinYPxPerLine = *ov.MinYPxPerLine
	}
	if ov.StopLineMinWidth != nil {
		c.StopLineMinWidth = *ov.StopLineMinWidth
	}
	if ov.StopLineMinHeight != nil {
		c.StopLineMinHeight = *ov.StopLineMinHeight
	}
	if ov.ActivationSquaresOfROI != nil {
		c.ActivationSquaresOfROI = *ov.ActivationSquaresOfROI
	}
	if ov.Scanlines != nil {
		c.Scanlines = *ov.Scanlines
	}
	if ov.DefaultLaneWidthOfROI != nil {
		c.DefaultLaneWidthOfROI = *ov.DefaultLaneWidthOfROI
	}
	if ov.LaneWidthDecreaseRate != nil {
		c.LaneWidthDecreaseRate = *ov.LaneWidthDecreaseRate
	}
	if ov.MaxBoundaryDeviation != nil {
		c.MaxBoundaryDeviation = *ov.MaxBoundaryDeviation
	}
	if ov.LookaheadPos != nil {
		c.LookaheadPos = *ov.LookaheadPos
	}
	if ov.DivergenceThreshold != nil {
		c.DivergenceThreshold = *ov.DivergenceThreshold
	}
	if ov.MinAbsDivergence != nil {
		c.MinAbsDivergence = *ov.MinAbsDivergence
	}
	if ov.DivergenceThreshold2 != nil {
		c.DivergenceThreshold2 = *ov.DivergenceThreshold2
	}
	if ov.MinAbsDivergence2 != nil {
		c.MinAbsDivergence2 = *ov.MinAbsDivergence2
	}
	if ov.AbsDivergenceThresholdTop != nil {
		c.AbsDivergenceThresholdTop = *ov.AbsDivergenceThresholdTop
	}
	if ov.IntersectionHeadingMultiplier != nil {
		c.IntersectionHeadingMultiplier = *ov.IntersectionHeadingMultiplier
	}
	if ov.BufferLength != nil {
		c.BufferLength = *ov.BufferLength
	}
	if ov.IntoThreshold != nil {
		c.IntoThreshold = *ov.IntoThreshold
	}
	if ov.ExitThreshold != nil {
		c.ExitThreshold = *ov.ExitThreshold
	}
	if ov.HeadingMinDeg != nil {
		c.HeadingMinDeg = *ov.HeadingMinDeg
	}
	if ov.HeadingMaxDeg != nil {
		c.HeadingMaxDeg = *ov.HeadingMaxDeg
	}
	if ov.SocketPath != nil {
		c.SocketPath = *ov.SocketPath
	}
	if ov.SocketPathRouteIn != nil {
		c.SocketPathRouteIn = *ov.SocketPathRouteIn
	}
	if ov.TCPPort != nil {
		c.TCPPort = *ov.TCPPort
	}
	if ov.JPEGQuality != nil {
		c.JPEGQuality = *ov.JPEGQuality
	}
	if ov.PerformanceLogging != nil {
		c.PerformanceLogging = *ov.PerformanceLogging
	}
}

// Validate checks that the configuration values are internally consistent.
func (c Config) Validate() error {
	if c.FrameW <= 0 || c.FrameH <= 0 {
		return fmt.Errorf("frame_w/frame_h must be positive, got %dx%d", c.FrameW, c.FrameH)
	}
	if c.Scanlines <= 0 {
		return fmt.Errorf("scanlines must be positive, got %d", c.Scanlines)
	}
	if c.BufferLength <= 0 {
		return fmt.Errorf("buffer_length must be positive, got %d", c.BufferLength)
	}
	if c.IntoThreshold > c.BufferLength || c.ExitThreshold > c.BufferLength {
		return fmt.Errorf("into_threshold/exit_threshold must not exceed buffer_length (%d)", c.BufferLength)
	}
	if c.HeadingMinDeg >= c.HeadingMaxDeg {
		return fmt.Errorf("heading_min_deg must be less than heading_max_deg")
	}
	if c.ROITop <= 0 || c.ROITop > 1 || c.ROIBottom < 0 || c.ROIBottom >= 1 {
		return fmt.Errorf("roi_top/roi_bottom must be fractions of frame height in (0,1]")
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return fmt.Errorf("jpeg_quality must be in [1,100], got %d", c.JPEGQuality)
	}
	return nil
}
