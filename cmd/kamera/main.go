// Command kamera runs the lane-following vision pipeline: it captures
// frames, steers by quantized heading bytes sent to the motor controller,
// streams an annotated JPEG feed to a connected viewer, and receives
// turn-by-turn routes from the path planner.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"log"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/roadcore/kamera/internal/camera"
	"github.com/roadcore/kamera/internal/framestream"
	"github.com/roadcore/kamera/internal/kamconfig"
	"github.com/roadcore/kamera/internal/monitoring"
	"github.com/roadcore/kamera/internal/motorlink"
	"github.com/roadcore/kamera/internal/overlay"
	"github.com/roadcore/kamera/internal/route"
	"github.com/roadcore/kamera/internal/stats"
	"github.com/roadcore/kamera/internal/version"
	"github.com/roadcore/kamera/internal/vision"
)

var (
	listen       = flag.String("listen", ":8082", "admin/debug HTTP listen address")
	configPath   = flag.String("config", "", "path to a JSON tuning overlay (defaults built in if omitted)")
	testPattern  = flag.Bool("test-pattern", true, "drive the pipeline from a synthetic two-lane test pattern instead of a real camera")
	leftLaneFrac = flag.Float64("test-pattern-left", 0.2, "fractional x position of the left lane marking in test-pattern mode")
	rightLaneFrac = flag.Float64("test-pattern-right", 0.8, "fractional x position of the right lane marking in test-pattern mode")
)

func main() {
	flag.Parse()
	log.Printf("kamera %s (%s, built %s)", version.Version, version.GitSHA, version.BuildTime)

	cfg := kamconfig.Default()
	if *configPath != "" {
		loaded, err := kamconfig.Load(*configPath)
		if err != nil {
			log.Fatalf("loading config: %v", err)
		}
		cfg = loaded
	}

	var src camera.Source
	if *testPattern {
		src = camera.NewTestPattern(cfg.FrameW, cfg.FrameH, *leftLaneFrac, *rightLaneFrac)
	} else {
		log.Fatal("no camera driver is built into this binary; run with -test-pattern")
	}
	if err := src.Start(); err != nil {
		log.Fatalf("starting camera: %v", err)
	}
	defer src.Close()

	streamer, err := framestream.New(fmt.Sprintf(":%d", cfg.TCPPort))
	if err != nil {
		log.Fatalf("starting frame streamer: %v", err)
	}

	heading, err := motorlink.NewHeadingSender(cfg)
	if err != nil {
		log.Fatalf("dialing motor heading socket %s: %v", cfg.SocketPath, err)
	}
	defer heading.Close()

	routeRx, err := motorlink.NewRouteReceiver(cfg)
	if err != nil {
		log.Fatalf("binding route socket %s: %v", cfg.SocketPathRouteIn, err)
	}
	defer routeRx.Close()

	coordinator := route.NewCoordinator(cfg)
	frameStats := stats.NewFrameStats()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		streamer.Start()
		<-ctx.Done()
		streamer.Stop()
		log.Print("frame streamer stopped")
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()

		mux := http.NewServeMux()
		mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":"ok"}`))
		})
		coordinator.AttachAdminRoutes(mux)
		streamer.AttachAdminRoutes(mux)

		srv := &http.Server{Addr: *listen, Handler: mux}
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()

		log.Printf("admin server listening on %s", *listen)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("admin server error: %v", err)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		runCaptureLoop(ctx, cfg, src, streamer, heading, routeRx, coordinator, frameStats)
		heading.SendStop(true)
		log.Print("capture loop stopped, sent final stop")
	}()

	wg.Wait()
	log.Print("kamera exited")
}

// runCaptureLoop drives the camera, vision pipeline and route coordinator
// one frame at a time until ctx is canceled.
func runCaptureLoop(
	ctx context.Context,
	cfg kamconfig.Config,
	src camera.Source,
	streamer *framestream.Streamer,
	heading *motorlink.HeadingSender,
	routeRx *motorlink.RouteReceiver,
	coordinator *route.Coordinator,
	frameStats *stats.FrameStats,
) {
	fc := vision.NewFrameCoordinator(cfg)
	frameCount := 0

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if raw, ok := routeRx.TryReceive(); ok {
			coordinator.SetRoute(raw)
		}

		frame, err := src.Capture()
		if err != nil {
			monitoring.Logf("kamera: capture error: %v", err)
			continue
		}

		plan := coordinator.PrepareFrame()
		if plan.Skip {
			heading.SendHeading(0)
			pushFrame(streamer, frame, cfg, frameStats)
			time.Sleep(50 * time.Millisecond)
			continue
		}

		result := fc.ProcessFrame(frame, plan.Forced, plan.ForceDir)
		commandedHeading, stopSignal := coordinator.Observe(result)

		switch stopSignal {
		case route.StopIntermediate:
			heading.SendStop(false)
			frameStats.AddStopPulse()
		case route.StopFinal:
			heading.SendStop(true)
			frameStats.AddStopPulse()
		default:
			heading.SendHeading(commandedHeading)
		}

		vis := overlay.Build(frame, result, coordinator.Snapshot().IntersectionActive, cfg)
		pushFrame(streamer, vis, cfg, frameStats)

		frameStats.AddFrame()
		frameCount++
		if cfg.PerformanceLogging && frameCount >= 100 {
			frameStats.LogStats()
			frameCount = 0
		}
	}
}

func pushFrame(streamer *framestream.Streamer, img image.Image, cfg kamconfig.Config, frameStats *stats.FrameStats) {
	if !streamer.HasClient() {
		frameStats.AddDroppedJPEG()
		return
	}
	jpg, err := overlay.EncodeJPEG(img, cfg)
	if err != nil {
		monitoring.Logf("kamera: jpeg encode failed: %v", err)
		return
	}
	streamer.Push(jpg)
}
