package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gympigeons/posetrack/internal/capture"
	"github.com/gympigeons/posetrack/internal/config"
	"github.com/gympigeons/posetrack/internal/detector"
	"github.com/gympigeons/posetrack/internal/display"
	"github.com/gympigeons/posetrack/internal/logger"
	"github.com/gympigeons/posetrack/internal/server"
	"github.com/gympigeons/posetrack/internal/tracker"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "posetrack: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.Log.Development,
		File:        cfg.Log.File,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "posetrack: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("posetrack failed", zap.Error(err))
		log.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *zap.Logger) error {
	sides, err := tracker.ParseSides(cfg.Tracker.Side)
	if err != nil {
		return err
	}

	det, err := newDetector(cfg.Detector, log)
	if err != nil {
		return err
	}

	camera := capture.NewSource(cfg.Camera.Source, cfg.Camera.Options())

	var disp display.Display
	if cfg.Tracker.Headless {
		disp = display.NewHeadless()
	} else {
		disp = display.NewWindow(cfg.Tracker.WindowTitle)
	}

	tc := tracker.DefaultConfig()
	tc.Sides = sides
	tc.Normalize = cfg.Tracker.Normalize
	tc.MinVisibility = cfg.Tracker.MinVisibility
	tc.QuitKey = []rune(cfg.Tracker.QuitKey)[0]
	tc.DrawAngles = cfg.Tracker.DrawAngles
	tc.PrintAngles = cfg.Tracker.PrintAngles

	t := tracker.New(tc, camera, det, disp)
	t.SetLogger(log)

	// The server stops when the tracker returns
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	serverDone := make(chan error, 1)
	if cfg.Server.Enabled {
		hub := server.NewHub()
		t.SetPublisher(hub)

		webDir := findWebDir()
		if webDir != "" {
			log.Info("serving static files", zap.String("dir", webDir))
		}

		srv := server.New(server.Config{
			StaticDir: webDir,
			Hub:       hub,
			Session:   t.Session(),
			Logger:    log,
		})
		go func() {
			serverDone <- srv.ListenAndServe(ctx, cfg.Server.Addr)
		}()
	} else {
		serverDone <- nil
	}

	runErr := t.Run(ctx)
	cancel()

	if err := <-serverDone; err != nil {
		runErr = errors.Join(runErr, fmt.Errorf("server: %w", err))
	}
	return runErr
}

// newDetector builds the MediaPipe detector. Without the pose service there
// is nothing to track, so a missing script is an error.
func newDetector(cfg config.DetectorConfig, log *zap.Logger) (detector.Detector, error) {
	mp, err := detector.NewMediaPipeDetector(cfg.ToDetector(), log)
	if err != nil {
		return nil, fmt.Errorf("pose detector (set detector.script_path or install scripts/pose_service.py): %w", err)
	}
	log.Info("using MediaPipe pose detection", zap.String("model", cfg.ModelPath))
	return mp, nil
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.posetrack/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".posetrack", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
