package route

import (
	"github.com/roadcore/kamera/internal/kamconfig"
	"github.com/roadcore/kamera/internal/monitoring"
	"github.com/roadcore/kamera/internal/vision"
)

// StopSignal tells the caller whether a stop pulse should be sent to the
// motor link this tick, and whether it is the route's final stop.
type StopSignal int

const (
	StopNone StopSignal = iota
	StopIntermediate
	StopFinal
)

// Coordinator is the debounced state machine sitting between the vision
// pipeline and the motor link: it decides when an intersection or stop
// section has genuinely started or ended, holds the pending route queue,
// and applies the heading multiplier while turning.
type Coordinator struct {
	cfg kamconfig.Config

	queue           Queue
	dir             vision.Direction
	nextAction      Action
	actionCompleted bool
	lastStop        bool
	waitingForRoute bool

	intersectionActive bool
	stopSectionActive  bool

	intersectionCntr *BoolBuffer
	stoplineCntr     *BoolBuffer
	normalRoadCntr   *BoolBuffer
}

// NewCoordinator builds a Coordinator in its startup state: no route, no
// direction committed, waiting for the planner's first command.
func NewCoordinator(cfg kamconfig.Config) *Coordinator {
	return &Coordinator{
		cfg:              cfg,
		dir:              vision.DirLeft,
		nextAction:       ActionStopNA,
		actionCompleted:  true,
		intersectionCntr: NewBoolBuffer(cfg.BufferLength),
		stoplineCntr:     NewBoolBuffer(cfg.BufferLength),
		normalRoadCntr:   NewBoolBuffer(cfg.BufferLength),
	}
}

// SetRoute replaces the pending route with newly received bytes. Receiving
// a non-empty route cancels the in-progress action so the next frame picks
// up the new plan immediately; an empty raw slice is ignored and leaves the
// current route in place.
func (c *Coordinator) SetRoute(raw []byte) {
	if len(raw) == 0 {
		return
	}
	c.queue.SetRoute(raw)
	c.actionCompleted = true
	c.lastStop = false
	monitoring.Logf("route: received new route (%d actions)", len(c.queue.pending))
}

// FramePlan is what the coordinator needs decided before the vision
// pipeline can run on the next captured frame.
type FramePlan struct {
	// Skip is true when there is no pending action and the vehicle should
	// simply idle: send a neutral heading and the raw frame, without
	// running the vision pipeline.
	Skip bool
	// Forced and ForceDir mirror process_frame's force_dir argument: while
	// an intersection is active, the path reconstruction commits to the
	// commanded side instead of trusting ambiguous lane markings.
	Forced   bool
	ForceDir vision.Direction
}

// PrepareFrame advances the action queue if the in-progress action has
// completed, mirroring picam.py's action_completed branch.
func (c *Coordinator) PrepareFrame() FramePlan {
	if !c.actionCompleted {
		return FramePlan{Forced: c.intersectionActive, ForceDir: c.dir}
	}

	if c.queue.Empty() {
		if !c.waitingForRoute {
			monitoring.Logf("route: waiting for a new route")
			c.waitingForRoute = true
		}
		return FramePlan{Skip: true}
	}

	c.waitingForRoute = false
	action, isLast, _ := c.queue.Pop()
	c.nextAction = action
	monitoring.Logf("route: next action %s", action)

	switch action {
	case ActionLeft:
		c.dir = vision.DirLeft
	case ActionRight:
		c.dir = vision.DirRight
	}

	c.actionCompleted = false
	c.lastStop = isLast

	return FramePlan{Forced: c.intersectionActive, ForceDir: c.dir}
}

// Observe folds one frame's vision result into the debounce buffers,
// evaluates intersection and stop-line transitions, and returns the heading
// to command this tick along with any stop pulse to send.
func (c *Coordinator) Observe(result vision.FrameResult) (heading float64, stop StopSignal) {
	c.intersectionCntr.Push(result.OtherPath != nil)
	c.stoplineCntr.Push(result.HasStopPoint)

	isNormal := result.BothEdgesFound && result.OtherPath == nil
	c.normalRoadCntr.Push(isNormal)

	nextIsTurn := c.nextAction == ActionLeft || c.nextAction == ActionRight

	switch {
	case c.intersectionCntr.CountTrue() >= c.cfg.IntoThreshold && !c.intersectionActive && nextIsTurn:
		c.intersectionActive = true
		monitoring.Logf("route: entering intersection, holding %s", c.dir)

	case c.normalRoadCntr.CountTrue() >= c.cfg.ExitThreshold && c.intersectionActive:
		if result.HasMedianLaneWidth && result.MedianLaneWidth < 0.67 {
			c.intersectionActive = false
			c.actionCompleted = true
			monitoring.Logf("route: exited intersection")
		}
	}

	switch {
	case c.stoplineCntr.CountTrue() >= c.cfg.IntoThreshold && !c.stopSectionActive && !c.intersectionActive:
		c.stopSectionActive = true
		if c.nextAction == ActionStop && result.HasStopDistance {
			monitoring.Logf("route: reached stop point")
			if c.lastStop {
				stop = StopFinal
			} else {
				stop = StopIntermediate
			}
		} else {
			monitoring.Logf("route: passing stop line")
		}

	case c.stoplineCntr.CountFalse() >= c.cfg.ExitThreshold && c.stopSectionActive:
		c.stopSectionActive = false
		c.actionCompleted = true
		if c.nextAction == ActionStop {
			monitoring.Logf("route: leaving stop")
		} else {
			monitoring.Logf("route: stop line cleared")
		}
	}

	heading = result.Heading
	if c.intersectionActive {
		heading *= c.cfg.IntersectionHeadingMultiplier
	}
	return heading, stop
}

// Snapshot is a read-only view of the coordinator's state for admin/debug
// introspection.
type Snapshot struct {
	Direction          vision.Direction
	NextAction         Action
	ActionCompleted    bool
	WaitingForRoute    bool
	IntersectionActive bool
	StopSectionActive  bool
	PendingActions     int
}

// Snapshot returns the coordinator's current state for display.
func (c *Coordinator) Snapshot() Snapshot {
	return Snapshot{
		Direction:          c.dir,
		NextAction:         c.nextAction,
		ActionCompleted:    c.actionCompleted,
		WaitingForRoute:    c.waitingForRoute,
		IntersectionActive: c.intersectionActive,
		StopSectionActive:  c.stopSectionActive,
		PendingActions:     len(c.queue.pending),
	}
}
