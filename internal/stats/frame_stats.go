// Package stats tracks frame throughput for the diagnostic logging the
// main loop prints when kamconfig.Config.PerformanceLogging is enabled.
package stats

import (
	"fmt"
	"log"
	"sync"
	"time"
)

// FrameStats counts processed frames and stop pulses sent, with thread-safe
// accumulation so it can be shared between the capture loop and an admin
// HTTP handler.
type FrameStats struct {
	mu          sync.Mutex
	frameCount  int64
	droppedJPEG int64
	stopPulses  int64
	lastReset   time.Time
}

// NewFrameStats creates a FrameStats instance with its window starting now.
func NewFrameStats() *FrameStats {
	return &FrameStats{lastReset: time.Now()}
}

// AddFrame increments the processed-frame count.
func (s *FrameStats) AddFrame() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frameCount++
}

// AddDroppedJPEG counts a frame whose JPEG encode was skipped because no
// streaming client was connected.
func (s *FrameStats) AddDroppedJPEG() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.droppedJPEG++
}

// AddStopPulse counts a stop byte sent to the motor link.
func (s *FrameStats) AddStopPulse() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopPulses++
}

// GetAndReset returns the counters accumulated since the last reset and
// resets them.
func (s *FrameStats) GetAndReset() (frames, droppedJPEG, stopPulses int64, duration time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	duration = now.Sub(s.lastReset)
	frames, droppedJPEG, stopPulses = s.frameCount, s.droppedJPEG, s.stopPulses

	s.frameCount, s.droppedJPEG, s.stopPulses = 0, 0, 0
	s.lastReset = now
	return
}

// LogStats logs the current frame rate and resets the window.
func (s *FrameStats) LogStats() {
	frames, dropped, stops, duration := s.GetAndReset()
	if frames == 0 {
		return
	}
	fps := float64(frames) / duration.Seconds()
	msg := fmt.Sprintf("kamera stats: %.1f fps", fps)
	if dropped > 0 {
		msg += fmt.Sprintf(", %d frames dropped (no client)", dropped)
	}
	if stops > 0 {
		msg += fmt.Sprintf(", %d stop pulses sent", stops)
	}
	log.Print(msg)
}
