package route

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roadcore/kamera/internal/kamconfig"
	"github.com/roadcore/kamera/internal/vision"
)

func TestPrepareFrameSkipsWhenNoRoute(t *testing.T) {
	c := NewCoordinator(kamconfig.Default())

	plan := c.PrepareFrame()

	assert.True(t, plan.Skip, "expected Skip=true with an empty route")
}

func TestPrepareFrameConsumesNextAction(t *testing.T) {
	c := NewCoordinator(kamconfig.Default())
	c.SetRoute([]byte{byte(ActionLeft), byte(ActionStop)})

	plan := c.PrepareFrame()

	require.False(t, plan.Skip, "did not expect Skip once a route is queued")
	assert.Equal(t, ActionLeft, c.nextAction)
	assert.Equal(t, vision.DirLeft, c.dir)
}

func TestObserveEntersIntersectionAfterThreshold(t *testing.T) {
	cfg := kamconfig.Default()
	c := NewCoordinator(cfg)
	c.SetRoute([]byte{byte(ActionLeft)})
	c.PrepareFrame()

	diverging := vision.FrameResult{OtherPath: vision.Path{{X: 1, Y: 1}}}
	for i := 0; i < cfg.IntoThreshold; i++ {
		c.Observe(diverging)
	}

	assert.True(t, c.intersectionActive, "expected intersection to become active after %d diverging frames", cfg.IntoThreshold)
}

func TestObserveMultipliesHeadingInIntersection(t *testing.T) {
	cfg := kamconfig.Default()
	c := NewCoordinator(cfg)
	c.SetRoute([]byte{byte(ActionLeft)})
	c.PrepareFrame()
	c.intersectionActive = true

	heading, _ := c.Observe(vision.FrameResult{Heading: 10})

	want := 10 * cfg.IntersectionHeadingMultiplier
	assert.Equal(t, want, heading)
}

func TestObserveSignalsFinalStopOnLastLeg(t *testing.T) {
	cfg := kamconfig.Default()
	c := NewCoordinator(cfg)
	c.SetRoute([]byte{byte(ActionStop)})
	c.PrepareFrame()

	atStop := vision.FrameResult{HasStopPoint: true, HasStopDistance: true}
	var lastSignal StopSignal
	for i := 0; i < cfg.IntoThreshold; i++ {
		_, lastSignal = c.Observe(atStop)
	}

	assert.Equal(t, StopFinal, lastSignal)
}
